package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ictbranch/intake-api/internal/dto"
	"github.com/ictbranch/intake-api/internal/models"
	"github.com/ictbranch/intake-api/internal/repository"
)

// QueryService retrieves submissions scoped by form type and status and
// filters an already-fetched listing by a live search term.
type QueryService interface {
	ListByStatus(ctx context.Context, formType, status string) ([]dto.SubmissionResponse, error)
	Search(items []dto.SubmissionResponse, term string) []dto.SubmissionResponse
}

type queryService struct {
	submissions repository.SubmissionRepository
	logger      zerolog.Logger
}

// NewQueryService constructs a QueryService instance.
func NewQueryService(repo repository.SubmissionRepository, logger zerolog.Logger) QueryService {
	return &queryService{
		submissions: repo,
		logger:      logger.With().Str("component", "query_service").Logger(),
	}
}

// ListByStatus fetches submissions matching both the form type and the
// status exactly, then applies a deterministic newest-first sort. The
// store is not trusted to guarantee order, and older rows may carry only
// the ISO submission snapshot, so ordering instants are normalized
// through the model before comparison. Missing timestamps sort as
// oldest. An empty result is a valid answer, not an error.
func (s *queryService) ListByStatus(ctx context.Context, formType, status string) ([]dto.SubmissionResponse, error) {
	normalizedType := models.NormalizeFormType(formType)
	if !models.IsValidFormType(normalizedType) {
		return nil, fmt.Errorf("%w: unknown form type %q", ErrValidation, formType)
	}

	status = strings.ToLower(strings.TrimSpace(status))
	switch status {
	case models.StatusPending, models.StatusApproved, models.StatusRejected:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	submissions, err := s.submissions.ListByTypeAndStatus(ctx, normalizedType, status)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(submissions, func(i, j int) bool {
		return submissions[i].OrderingTime().After(submissions[j].OrderingTime())
	})

	s.logger.Debug().
		Str("form_type", normalizedType).
		Str("status", status).
		Int("count", len(submissions)).
		Msg("submissions listed")

	return dto.NewSubmissionResponseSlice(submissions), nil
}

// Search keeps submissions whose ID number, name or email contains the
// term case-insensitively, or whose primary phone contains it verbatim.
// An empty term returns the input unchanged. The match runs over the
// already-fetched set and never re-queries the store.
func (s *queryService) Search(items []dto.SubmissionResponse, term string) []dto.SubmissionResponse {
	if term == "" {
		return items
	}

	lowered := strings.ToLower(term)
	matched := make([]dto.SubmissionResponse, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.IDNumber), lowered) ||
			strings.Contains(strings.ToLower(item.NameWithInitial), lowered) ||
			strings.Contains(strings.ToLower(item.Email), lowered) ||
			strings.Contains(item.Phone1, term) {
			matched = append(matched, item)
		}
	}

	return matched
}
