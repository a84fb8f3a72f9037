package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ictbranch/intake-api/internal/dto"
	"github.com/ictbranch/intake-api/internal/handler"
)

type mockDashboardService struct {
	response dto.DashboardOverviewResponse
	err      error
}

func (m *mockDashboardService) Overview(_ context.Context) (dto.DashboardOverviewResponse, error) {
	if m.err != nil {
		return dto.DashboardOverviewResponse{}, m.err
	}
	return m.response, nil
}

func TestDashboardHandlerReturnsOverview(t *testing.T) {
	svc := &mockDashboardService{response: dto.DashboardOverviewResponse{
		Forms:        []dto.FormTypeCounts{{FormType: "TOT", Pending: 2}},
		TotalPending: 2,
	}}

	app := fiber.New()
	handler.NewDashboardHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/admin"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var response struct {
		Data dto.DashboardOverviewResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Equal(t, int64(2), response.Data.TotalPending)
	require.Len(t, response.Data.Forms, 1)
}

func TestDashboardHandlerMapsFailuresToServerError(t *testing.T) {
	svc := &mockDashboardService{err: errors.New("cache and store unavailable")}

	app := fiber.New()
	handler.NewDashboardHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/admin"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/v1/admin/dashboard", nil))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}
