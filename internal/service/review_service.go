package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ictbranch/intake-api/internal/dto"
	"github.com/ictbranch/intake-api/internal/models"
	"github.com/ictbranch/intake-api/internal/repository"
)

var (
	// ErrSubmissionNotFound indicates the identifier matches no record.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrInvalidTransition indicates an approve/reject was attempted on
	// a record that is no longer pending.
	ErrInvalidTransition = errors.New("submission is not pending")
	// ErrNotApproved indicates a delete was attempted on a record that
	// is not approved.
	ErrNotApproved = errors.New("submission is not approved")
	// ErrConflict indicates another mutation for the same submission is
	// still in flight.
	ErrConflict = errors.New("submission mutation already in progress")
	// ErrTransition indicates the record store rejected a status write.
	ErrTransition = errors.New("failed to update submission status")
	// ErrEdit indicates the record store rejected an administrator edit.
	ErrEdit = errors.New("failed to update submission")
	// ErrDelete indicates the record store rejected a delete.
	ErrDelete = errors.New("failed to delete submission")
)

// ReviewService mediates administrator actions against submissions:
// approve, reject, edit and delete. It holds no state beyond the
// per-identifier mutation guard.
type ReviewService interface {
	Approve(ctx context.Context, id uint, actor string) (dto.SubmissionResponse, error)
	Reject(ctx context.Context, id uint, actor string) (dto.SubmissionResponse, error)
	Edit(ctx context.Context, id uint, patch dto.SubmissionPatchRequest) (dto.SubmissionResponse, error)
	Delete(ctx context.Context, id uint) error
}

type reviewService struct {
	submissions repository.SubmissionRepository
	notifier    Notifier
	guard       *mutationGuard
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReviewService constructs a ReviewService instance.
func NewReviewService(repo repository.SubmissionRepository, notifier Notifier, logger zerolog.Logger) ReviewService {
	return &reviewService{
		submissions: repo,
		notifier:    notifier,
		guard:       newMutationGuard(),
		logger:      logger.With().Str("component", "review_service").Logger(),
		now:         time.Now,
	}
}

// Approve moves a pending submission to approved, stamping who acted and
// when. The notification stub fires only after the store confirms the
// write.
func (s *reviewService) Approve(ctx context.Context, id uint, actor string) (dto.SubmissionResponse, error) {
	return s.transition(ctx, id, models.StatusApproved, actor)
}

// Reject moves a pending submission to rejected, symmetric to Approve.
func (s *reviewService) Reject(ctx context.Context, id uint, actor string) (dto.SubmissionResponse, error) {
	return s.transition(ctx, id, models.StatusRejected, actor)
}

func (s *reviewService) transition(ctx context.Context, id uint, target, actor string) (dto.SubmissionResponse, error) {
	if !s.guard.acquire(id) {
		return dto.SubmissionResponse{}, ErrConflict
	}
	defer s.guard.release(id)

	submission, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	if !submission.IsPending() {
		return dto.SubmissionResponse{}, fmt.Errorf("%w: status is %s", ErrInvalidTransition, submission.Status)
	}

	if actor == "" {
		actor = "admin"
	}

	now := s.now()
	fields := map[string]interface{}{"status": target}
	switch target {
	case models.StatusApproved:
		fields["approved_at"] = now
		fields["approved_by"] = actor
	case models.StatusRejected:
		fields["rejected_at"] = now
		fields["rejected_by"] = actor
	}

	if err := s.submissions.UpdateFields(ctx, id, fields); err != nil {
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrTransition, err)
	}

	// Store truth first, then side effects: the listing must already
	// reflect the transition when the notification is emitted.
	updated, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	switch target {
	case models.StatusApproved:
		s.notifier.NotifyApproval(ctx, updated)
	case models.StatusRejected:
		s.notifier.NotifyRejection(ctx, updated)
	}

	s.logger.Info().
		Uint("submission_id", id).
		Str("status", target).
		Str("actor", actor).
		Msg("submission reviewed")

	return dto.NewSubmissionResponse(updated), nil
}

// Edit overwrites only the fields present in the patch and stamps the
// last-updated time. Administrators are trusted: no field-level
// validation happens here beyond the identifier lookup.
func (s *reviewService) Edit(ctx context.Context, id uint, patch dto.SubmissionPatchRequest) (dto.SubmissionResponse, error) {
	if !s.guard.acquire(id) {
		return dto.SubmissionResponse{}, ErrConflict
	}
	defer s.guard.release(id)

	if _, err := s.load(ctx, id); err != nil {
		return dto.SubmissionResponse{}, err
	}

	fields := patch.Fields()
	fields["last_updated"] = s.now()

	if err := s.submissions.UpdateFields(ctx, id, fields); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.SubmissionResponse{}, ErrSubmissionNotFound
		}
		return dto.SubmissionResponse{}, fmt.Errorf("%w: %v", ErrEdit, err)
	}

	updated, err := s.load(ctx, id)
	if err != nil {
		return dto.SubmissionResponse{}, err
	}

	s.logger.Info().Uint("submission_id", id).Msg("submission edited")

	return dto.NewSubmissionResponse(updated), nil
}

// Delete removes an approved submission permanently. Only approved
// records may be deleted; the confirmation prompt is the caller's
// responsibility.
func (s *reviewService) Delete(ctx context.Context, id uint) error {
	if !s.guard.acquire(id) {
		return ErrConflict
	}
	defer s.guard.release(id)

	submission, err := s.load(ctx, id)
	if err != nil {
		return err
	}

	if !submission.IsApproved() {
		return fmt.Errorf("%w: status is %s", ErrNotApproved, submission.Status)
	}

	if err := s.submissions.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSubmissionNotFound
		}
		return fmt.Errorf("%w: %v", ErrDelete, err)
	}

	s.logger.Info().
		Uint("submission_id", id).
		Str("form_type", submission.FormType).
		Msg("submission deleted")

	return nil
}

func (s *reviewService) load(ctx context.Context, id uint) (models.Submission, error) {
	submission, err := s.submissions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Submission{}, ErrSubmissionNotFound
		}
		return models.Submission{}, err
	}
	return submission, nil
}
