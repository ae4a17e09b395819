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

// EventHandler wires event administration endpoints.
type EventHandler struct {
	service service.EventService
	logger  zerolog.Logger
}

// NewEventHandler constructs the handler.
func NewEventHandler(service service.EventService, logger zerolog.Logger) *EventHandler {
	return &EventHandler{
		service: service,
		logger:  logger.With().Str("component", "event_handler").Logger(),
	}
}

// RegisterPublic attaches the unauthenticated full event listing.
func (h *EventHandler) RegisterPublic(router fiber.Router) {
	router.Get("/all", h.listAll)
}

// RegisterProtected attaches the actor-scoped event listing.
func (h *EventHandler) RegisterProtected(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterAdmin attaches the admin-only mutation endpoints.
func (h *EventHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *EventHandler) create(c *fiber.Ctx) error {
	var payload dto.EventCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	event, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event created", event)
}

func (h *EventHandler) list(c *fiber.Ctx) error {
	events, err := h.service.ListForActor(requestContext(c), actorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "events retrieved", events)
}

func (h *EventHandler) listAll(c *fiber.Ctx) error {
	events, err := h.service.ListAll(requestContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "events retrieved", events)
}

func (h *EventHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(requestContext(c), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "event not found")
		}
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "event deleted", fiber.Map{"id": c.Params("id")})
}

func (h *EventHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	}

	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
