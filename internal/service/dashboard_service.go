package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ictbranch/intake-api/internal/dto"
	"github.com/ictbranch/intake-api/internal/models"
	"github.com/ictbranch/intake-api/internal/repository"
)

const dashboardCacheKey = "dashboard:overview"

// DashboardService produces per-form-type submission counts for the
// admin dashboard cards.
type DashboardService interface {
	Overview(ctx context.Context) (dto.DashboardOverviewResponse, error)
}

type dashboardService struct {
	submissions repository.SubmissionRepository
	cache       *redis.Client
	cacheTTL    time.Duration
	logger      zerolog.Logger
}

// NewDashboardService builds the dashboard aggregator.
func NewDashboardService(repo repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) DashboardService {
	return &dashboardService{
		submissions: repo,
		cache:       cache,
		cacheTTL:    ttl,
		logger:      logger.With().Str("component", "dashboard_service").Logger(),
	}
}

func (s *dashboardService) Overview(ctx context.Context) (dto.DashboardOverviewResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Result(); err == nil {
			var response dto.DashboardOverviewResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("dashboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read dashboard cache")
		}
	}

	formTypes := []string{
		models.FormTypeTOT,
		models.FormTypeTechnical,
		models.FormTypeWorkshop,
		models.FormTypeSeminar,
	}

	response := dto.DashboardOverviewResponse{
		Forms: make([]dto.FormTypeCounts, 0, len(formTypes)),
	}

	for _, formType := range formTypes {
		counts, err := s.submissions.CountByType(ctx, formType)
		if err != nil {
			return dto.DashboardOverviewResponse{}, err
		}

		response.Forms = append(response.Forms, dto.FormTypeCounts{
			FormType: formType,
			Pending:  counts.Pending,
			Approved: counts.Approved,
			Rejected: counts.Rejected,
		})
		response.TotalPending += counts.Pending
		response.TotalApproved += counts.Approved
		response.TotalRejected += counts.Rejected
	}

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store dashboard cache")
			}
		}
	}

	return response, nil
}
