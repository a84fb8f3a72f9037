package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ictbranch/intake-api/internal/dto"
	"github.com/ictbranch/intake-api/internal/models"
	"github.com/ictbranch/intake-api/internal/service"
	"github.com/ictbranch/intake-api/internal/utils"
)

// AdminHandler serves the administrator review endpoints.
type AdminHandler struct {
	queries service.QueryService
	reviews service.ReviewService
	logger  zerolog.Logger
}

// NewAdminHandler builds an admin handler instance.
func NewAdminHandler(queries service.QueryService, reviews service.ReviewService, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		queries: queries,
		reviews: reviews,
		logger:  logger.With().Str("component", "admin_handler").Logger(),
	}
}

// Register attaches the routes to the provided router group.
func (h *AdminHandler) Register(router fiber.Router) {
	router.Get("/forms/:formType/submissions", h.list)
	router.Post("/submissions/:id/approve", h.approve)
	router.Post("/submissions/:id/reject", h.reject)
	router.Patch("/submissions/:id", h.edit)
	router.Delete("/submissions/:id", h.remove)
}

func (h *AdminHandler) list(c *fiber.Ctx) error {
	status := c.Query("status", models.StatusPending)

	submissions, err := h.queries.ListByStatus(c.Context(), c.Params("formType"), status)
	if err != nil {
		return h.handleError(c, err)
	}

	if term := c.Query("q"); term != "" {
		submissions = h.queries.Search(submissions, term)
	}

	return utils.SendSuccess(c, "submissions retrieved", submissions)
}

func (h *AdminHandler) approve(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.reviews.Approve(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission approved", submission)
}

func (h *AdminHandler) reject(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	submission, err := h.reviews.Reject(c.Context(), id, actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission rejected", submission)
}

func (h *AdminHandler) edit(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var patch dto.SubmissionPatchRequest
	if err := c.BodyParser(&patch); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if patch.IsEmpty() {
		return utils.SendError(c, fiber.StatusBadRequest, "no fields to update")
	}

	submission, err := h.reviews.Edit(c.Context(), id, patch)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission updated", submission)
}

func (h *AdminHandler) remove(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	if err := h.reviews.Delete(c.Context(), id); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "submission deleted", nil)
}

func (h *AdminHandler) handleError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSubmissionNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "submission not found")
	case errors.Is(err, service.ErrInvalidTransition), errors.Is(err, service.ErrNotApproved):
		return utils.SendError(c, fiber.StatusConflict, err.Error())
	case errors.Is(err, service.ErrConflict):
		return utils.SendError(c, fiber.StatusTooManyRequests, "another change for this submission is in progress")
	default:
		requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value := c.Params(key)
	parsed, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return uint(parsed), nil
}
