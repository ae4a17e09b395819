package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/ignitron2k25/ignitron-api/internal/dto"
	"github.com/ignitron2k25/ignitron-api/internal/service"
	"github.com/ignitron2k25/ignitron-api/internal/utils"
)

// ResultHandler wires the scoring ledger endpoints.
type ResultHandler struct {
	service service.ResultService
	logger  zerolog.Logger
}

// NewResultHandler constructs the handler.
func NewResultHandler(service service.ResultService, logger zerolog.Logger) *ResultHandler {
	return &ResultHandler{
		service: service,
		logger:  logger.With().Str("component", "result_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated ledger listing.
func (h *ResultHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterProtected attaches the mutating endpoints behind the JWT middleware.
func (h *ResultHandler) RegisterProtected(router fiber.Router) {
	router.Post("", h.record)
	router.Delete("/:id", h.remove)
}

func (h *ResultHandler) record(c *fiber.Ctx) error {
	var payload dto.ResultCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.Record(requestContext(c), actorFromContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result recorded", result)
}

func (h *ResultHandler) remove(c *fiber.Ctx) error {
	if err := h.service.Remove(requestContext(c), actorFromContext(c), c.Params("id")); err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "result deleted", fiber.Map{"id": c.Params("id")})
}

func (h *ResultHandler) list(c *fiber.Ctx) error {
	results, err := h.service.List(requestContext(c), c.Query("event_id"))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "results retrieved", results)
}

func (h *ResultHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrEventNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "event not found")
	case errors.Is(err, service.ErrCollegeNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "college not found")
	case errors.Is(err, service.ErrResultNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "result not found")
	case errors.Is(err, service.ErrNotEventCoordinator):
		return utils.SendError(c, fiber.StatusForbidden, "you don't have permission for this event")
	case errors.Is(err, service.ErrEmptyAchievement):
		return utils.SendError(c, fiber.StatusBadRequest, "achievement statement must not be empty")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		h.logger.Error().Err(err).Msg("internal server error")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}
}
