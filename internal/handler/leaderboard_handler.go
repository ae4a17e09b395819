package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/rs/zerolog"

	"github.com/ignitron2k25/ignitron-api/internal/middleware"
	"github.com/ignitron2k25/ignitron-api/internal/service"
	"github.com/ignitron2k25/ignitron-api/internal/utils"
)

// LeaderboardHandler wires the leaderboard read endpoint and the websocket
// push channel.
type LeaderboardHandler struct {
	service service.LeaderboardService
	logger  zerolog.Logger
}

// NewLeaderboardHandler constructs the handler.
func NewLeaderboardHandler(service service.LeaderboardService, logger zerolog.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		service: service,
		logger:  logger.With().Str("component", "leaderboard_handler").Logger(),
	}
}

// RegisterPublic attaches the leaderboard read endpoint.
func (h *LeaderboardHandler) RegisterPublic(router fiber.Router) {
	router.Get("", h.leaderboard)
}

// RegisterWebsocket attaches the live push channel under the provided router group.
func (h *LeaderboardHandler) RegisterWebsocket(router fiber.Router) {
	router.Use("/leaderboard", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			ctx := c.UserContext()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
			c.Locals("request_ctx", ctx)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	router.Get("/leaderboard", websocket.New(h.handleConnection))
}

func (h *LeaderboardHandler) leaderboard(c *fiber.Ctx) error {
	entries, err := h.service.Leaderboard(requestContext(c))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to project leaderboard")
		return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
	}

	return utils.SendSuccess(c, "leaderboard retrieved", entries)
}

func (h *LeaderboardHandler) handleConnection(conn *websocket.Conn) {
	baseCtx, _ := conn.Locals("request_ctx").(context.Context)
	correlation, _ := conn.Locals("correlation_id").(string)

	opts := service.ConnectionOptions{
		Room:          service.LeaderboardRoom,
		CorrelationID: correlation,
		Context:       baseCtx,
	}

	h.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("leaderboard viewer connected")
	h.service.ServeConnection(conn, opts)
	h.logger.Info().Str("remote", conn.RemoteAddr().String()).Msg("leaderboard viewer disconnected")
}
