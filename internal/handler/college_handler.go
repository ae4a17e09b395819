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

// CollegeHandler wires college administration endpoints.
type CollegeHandler struct {
	service service.CollegeService
	logger  zerolog.Logger
}

// NewCollegeHandler constructs the handler.
func NewCollegeHandler(service service.CollegeService, logger zerolog.Logger) *CollegeHandler {
	return &CollegeHandler{
		service: service,
		logger:  logger.With().Str("component", "college_handler").Logger(),
	}
}

// RegisterPublic attaches the public college listing.
func (h *CollegeHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.list)
}

// RegisterAdmin attaches the admin-only mutation endpoints.
func (h *CollegeHandler) RegisterAdmin(router fiber.Router) {
	router.Post("", h.create)
	router.Delete("/:id", h.delete)
}

func (h *CollegeHandler) create(c *fiber.Ctx) error {
	var payload dto.CollegeCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	college, err := h.service.Create(requestContext(c), payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "college created", college)
}

func (h *CollegeHandler) list(c *fiber.Ctx) error {
	colleges, err := h.service.List(requestContext(c))
	if err != nil {
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "colleges retrieved", colleges)
}

func (h *CollegeHandler) delete(c *fiber.Ctx) error {
	if err := h.service.Delete(requestContext(c), c.Params("id")); err != nil {
		if errors.Is(err, service.ErrCollegeNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "college not found")
		}
		return h.internalError(c, err)
	}

	return utils.SendSuccess(c, "college deleted", fiber.Map{"id": c.Params("id")})
}

func (h *CollegeHandler) internalError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	}

	h.logger.Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
