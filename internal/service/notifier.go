package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/ictbranch/intake-api/internal/models"
)

// Notifier informs an applicant of a review outcome. Delivery is
// fire-and-forget: a failed notification never rolls back the transition
// that triggered it.
type Notifier interface {
	NotifyApproval(ctx context.Context, submission models.Submission)
	NotifyRejection(ctx context.Context, submission models.Submission)
}

// logNotifier records the outcome instead of delivering anything. It
// stands in for a real channel (mail, SMS) that is out of scope.
type logNotifier struct {
	logger zerolog.Logger
}

// NewLogNotifier constructs the logging notification stub.
func NewLogNotifier(logger zerolog.Logger) Notifier {
	return &logNotifier{logger: logger.With().Str("component", "notifier").Logger()}
}

func (n *logNotifier) NotifyApproval(_ context.Context, submission models.Submission) {
	n.outcomeEvent(submission).Msg("approval notification queued")
}

func (n *logNotifier) NotifyRejection(_ context.Context, submission models.Submission) {
	n.outcomeEvent(submission).Msg("rejection notification queued")
}

func (n *logNotifier) outcomeEvent(submission models.Submission) *zerolog.Event {
	return n.logger.Info().
		Uint("submission_id", submission.ID).
		Str("name", submission.NameWithInitial).
		Str("email", submission.Email).
		Str("phone", submission.Phone1).
		Str("form_type", submission.FormType)
}
