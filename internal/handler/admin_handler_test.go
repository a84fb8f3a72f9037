package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ictbranch/intake-api/internal/dto"
	"github.com/ictbranch/intake-api/internal/handler"
	"github.com/ictbranch/intake-api/internal/service"
)

type mockQueryService struct {
	lastFormType string
	lastStatus   string
	lastTerm     string
	listResponse []dto.SubmissionResponse
	listErr      error
}

func (m *mockQueryService) ListByStatus(_ context.Context, formType, status string) ([]dto.SubmissionResponse, error) {
	m.lastFormType = formType
	m.lastStatus = status
	return m.listResponse, m.listErr
}

func (m *mockQueryService) Search(items []dto.SubmissionResponse, term string) []dto.SubmissionResponse {
	m.lastTerm = term
	matched := make([]dto.SubmissionResponse, 0, len(items))
	for _, item := range items {
		if strings.Contains(strings.ToLower(item.NameWithInitial), strings.ToLower(term)) {
			matched = append(matched, item)
		}
	}
	return matched
}

type mockReviewService struct {
	lastID     uint
	lastActor  string
	lastPatch  dto.SubmissionPatchRequest
	response   dto.SubmissionResponse
	err        error
	deletedIDs []uint
}

func (m *mockReviewService) Approve(_ context.Context, id uint, actor string) (dto.SubmissionResponse, error) {
	m.lastID = id
	m.lastActor = actor
	return m.response, m.err
}

func (m *mockReviewService) Reject(_ context.Context, id uint, actor string) (dto.SubmissionResponse, error) {
	m.lastID = id
	m.lastActor = actor
	return m.response, m.err
}

func (m *mockReviewService) Edit(_ context.Context, id uint, patch dto.SubmissionPatchRequest) (dto.SubmissionResponse, error) {
	m.lastID = id
	m.lastPatch = patch
	return m.response, m.err
}

func (m *mockReviewService) Delete(_ context.Context, id uint) error {
	m.deletedIDs = append(m.deletedIDs, id)
	return m.err
}

func newAdminApp(queries service.QueryService, reviews service.ReviewService, actor string) *fiber.App {
	app := fiber.New()
	group := app.Group("/api/v1/admin", func(c *fiber.Ctx) error {
		if actor != "" {
			c.Locals("actor", actor)
		}
		return c.Next()
	})
	handler.NewAdminHandler(queries, reviews, zerolog.New(io.Discard)).Register(group)
	return app
}

func TestAdminHandlerListDefaultsToPendingAndAppliesSearch(t *testing.T) {
	queries := &mockQueryService{listResponse: []dto.SubmissionResponse{
		{ID: 1, NameWithInitial: "A. Perera"},
		{ID: 2, NameWithInitial: "B. Silva"},
	}}
	app := newAdminApp(queries, &mockReviewService{}, "admin")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/forms/tot/submissions?q=perera", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	require.Equal(t, "tot", queries.lastFormType)
	require.Equal(t, "pending", queries.lastStatus)
	require.Equal(t, "perera", queries.lastTerm)

	var response struct {
		Data []dto.SubmissionResponse `json:"data"`
	}
	decodeResponse(t, resp, &response)
	require.Len(t, response.Data, 1)
	require.Equal(t, uint(1), response.Data[0].ID)
}

func TestAdminHandlerListAcceptsStatusQuery(t *testing.T) {
	queries := &mockQueryService{}
	app := newAdminApp(queries, &mockReviewService{}, "admin")

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/forms/workshop/submissions?status=approved", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "approved", queries.lastStatus)
}

func TestAdminHandlerApprovePassesActorFromContext(t *testing.T) {
	reviews := &mockReviewService{response: dto.SubmissionResponse{ID: 9, Status: "approved"}}
	app := newAdminApp(&mockQueryService{}, reviews, "reviewer@example.com")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/9/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, uint(9), reviews.lastID)
	require.Equal(t, "reviewer@example.com", reviews.lastActor)
}

func TestAdminHandlerApproveFallsBackToGenericActor(t *testing.T) {
	reviews := &mockReviewService{response: dto.SubmissionResponse{ID: 3}}
	app := newAdminApp(&mockQueryService{}, reviews, "")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/3/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, "admin", reviews.lastActor)
}

func TestAdminHandlerEditParsesPatchBody(t *testing.T) {
	reviews := &mockReviewService{response: dto.SubmissionResponse{ID: 4}}
	app := newAdminApp(&mockQueryService{}, reviews, "admin")

	payload, err := json.Marshal(map[string]string{"address": "45 Lake Rd"})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/submissions/4", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.NotNil(t, reviews.lastPatch.Address)
	require.Equal(t, "45 Lake Rd", *reviews.lastPatch.Address)
	require.Nil(t, reviews.lastPatch.Email)
}

func TestAdminHandlerEditRejectsEmptyPatch(t *testing.T) {
	reviews := &mockReviewService{}
	app := newAdminApp(&mockQueryService{}, reviews, "admin")

	req := httptest.NewRequest(http.MethodPatch, "/api/v1/admin/submissions/4", strings.NewReader("{}"))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestAdminHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"not found", service.ErrSubmissionNotFound, fiber.StatusNotFound},
		{"invalid transition", service.ErrInvalidTransition, fiber.StatusConflict},
		{"not approved", service.ErrNotApproved, fiber.StatusConflict},
		{"in-flight conflict", service.ErrConflict, fiber.StatusTooManyRequests},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			reviews := &mockReviewService{err: tc.err}
			app := newAdminApp(&mockQueryService{}, reviews, "admin")

			req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/1/approve", nil)
			resp, err := app.Test(req)
			require.NoError(t, err)
			require.Equal(t, tc.status, resp.StatusCode)
		})
	}
}

func TestAdminHandlerDeleteInvokesService(t *testing.T) {
	reviews := &mockReviewService{}
	app := newAdminApp(&mockQueryService{}, reviews, "admin")

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/admin/submissions/12", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, []uint{12}, reviews.deletedIDs)
}

func TestAdminHandlerRejectsBadID(t *testing.T) {
	app := newAdminApp(&mockQueryService{}, &mockReviewService{}, "admin")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/submissions/abc/approve", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
