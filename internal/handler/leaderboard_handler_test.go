package handler_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ignitron2k25/ignitron-api/internal/dto"
	"github.com/ignitron2k25/ignitron-api/internal/handler"
	"github.com/ignitron2k25/ignitron-api/internal/models"
	"github.com/ignitron2k25/ignitron-api/internal/repository"
	"github.com/ignitron2k25/ignitron-api/internal/service"
)

func TestLeaderboardHandlerReturnsRankedEntries(t *testing.T) {
	db := setupHandlerDB(t, &models.College{})
	for _, c := range []models.College{
		{ID: uuid.NewString(), Name: "Zeta Institute", Code: "ZET", TotalPoints: 300},
		{ID: uuid.NewString(), Name: "Alpha College", Code: "ALP", TotalPoints: 300},
		{ID: uuid.NewString(), Name: "Mid University", Code: "MID", TotalPoints: 100},
	} {
		require.NoError(t, db.Create(&c).Error)
	}

	svc := service.NewLeaderboardService(repository.NewCollegeRepository(db), nil, nil, service.LeaderboardConfig{}, zerolog.Nop())
	h := handler.NewLeaderboardHandler(svc, zerolog.Nop())

	app := fiber.New()
	h.RegisterPublic(app.Group("/api/leaderboard"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/leaderboard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    []dto.LeaderboardEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.True(t, envelope.Success)
	require.Len(t, envelope.Data, 3)
	require.Equal(t, "ALP", envelope.Data[0].CollegeCode)
	require.Equal(t, 1, envelope.Data[0].Rank)
	require.Equal(t, "ZET", envelope.Data[1].CollegeCode)
	require.Equal(t, "MID", envelope.Data[2].CollegeCode)
}

func TestLeaderboardWebsocketRouteRejectsPlainHTTP(t *testing.T) {
	svc := service.NewLeaderboardService(repository.NewCollegeRepository(setupHandlerDB(t, &models.College{})), nil, nil, service.LeaderboardConfig{}, zerolog.Nop())
	h := handler.NewLeaderboardHandler(svc, zerolog.Nop())

	app := fiber.New()
	h.RegisterWebsocket(app.Group("/ws"))

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/ws/leaderboard", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusUpgradeRequired, resp.StatusCode)
}
