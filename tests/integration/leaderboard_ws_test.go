package integration_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ignitron2k25/ignitron-api/internal/database"
	"github.com/ignitron2k25/ignitron-api/internal/dto"
	"github.com/ignitron2k25/ignitron-api/internal/handler"
	"github.com/ignitron2k25/ignitron-api/internal/middleware"
	"github.com/ignitron2k25/ignitron-api/internal/models"
	"github.com/ignitron2k25/ignitron-api/internal/repository"
	"github.com/ignitron2k25/ignitron-api/internal/service"
)

type leaderboardStack struct {
	app         *fiber.App
	db          *gorm.DB
	resultSvc   service.ResultService
	leaderboard service.LeaderboardService
	event       models.Event
	colleges    []models.College
	admin       service.Actor
	wsURL       string
	shutdown    func()
}

func newLeaderboardStack(t *testing.T) *leaderboardStack {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.College{}, &models.Event{}, &models.Result{}))

	mr := miniredis.RunT(t)
	redisClient, err := database.ConnectRedis("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	collegeRepo := repository.NewCollegeRepository(db)
	eventRepo := repository.NewEventRepository(db)
	resultRepo := repository.NewResultRepository(db)

	leaderboard := service.NewLeaderboardService(collegeRepo, redisClient, nil, service.LeaderboardConfig{
		SnapshotTTL:    time.Minute,
		ReaperInterval: time.Second,
		IdleLimit:      30 * time.Second,
	}, zerolog.Nop())

	validate := validator.New(validator.WithRequiredStructEnabled())
	resultSvc := service.NewResultService(resultRepo, eventRepo, collegeRepo, validate, leaderboard, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	leaderboard.Start(ctx)

	event := models.Event{ID: uuid.NewString(), Title: "Street Dance", Code: "DANCE01", CoordinatorIDs: []string{uuid.NewString()}}
	require.NoError(t, db.Create(&event).Error)

	colleges := []models.College{
		{ID: uuid.NewString(), Name: "Alpha College", Code: "ALP"},
		{ID: uuid.NewString(), Name: "Beta Institute", Code: "BET"},
	}
	for i := range colleges {
		require.NoError(t, db.Create(&colleges[i]).Error)
	}

	app := fiber.New()
	app.Use(middleware.CorrelationID())

	lh := handler.NewLeaderboardHandler(leaderboard, zerolog.Nop())
	lh.RegisterPublic(app.Group("/api/leaderboard"))
	lh.RegisterWebsocket(app.Group("/ws"))

	baseURL, shutdown := startFiberServer(t, app)

	return &leaderboardStack{
		app:         app,
		db:          db,
		resultSvc:   resultSvc,
		leaderboard: leaderboard,
		event:       event,
		colleges:    colleges,
		admin:       service.Actor{ID: uuid.NewString(), Role: models.RoleAdmin},
		wsURL:       "ws" + strings.TrimPrefix(baseURL, "http") + "/ws/leaderboard",
		shutdown:    shutdown,
	}
}

func (s *leaderboardStack) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	dialer := websocket.Dialer{HandshakeTimeout: 3 * time.Second}
	conn, resp, err := dialer.Dial(s.wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func (s *leaderboardStack) record(t *testing.T, collegeID string, points int) {
	t.Helper()
	_, err := s.resultSvc.Record(context.Background(), s.admin, dto.ResultCreateRequest{
		EventID:              s.event.ID,
		CollegeID:            collegeID,
		Points:               points,
		AchievementStatement: "Winner",
	})
	require.NoError(t, err)
}

func readPush(t *testing.T, conn *websocket.Conn) dto.LeaderboardPush {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var push dto.LeaderboardPush
	require.NoError(t, json.Unmarshal(data, &push))
	require.Equal(t, dto.LeaderboardUpdateType, push.Type)
	return push
}

func TestLeaderboardWebsocketSnapshotOnJoin(t *testing.T) {
	s := newLeaderboardStack(t)
	defer s.shutdown()

	conn := s.dial(t)

	push := readPush(t, conn)
	require.Len(t, push.Data, 2)
	require.Equal(t, 0, push.Data[0].TotalPoints)
}

func TestLeaderboardWebsocketPushAfterMutation(t *testing.T) {
	s := newLeaderboardStack(t)
	defer s.shutdown()

	conn := s.dial(t)
	readPush(t, conn)

	s.record(t, s.colleges[1].ID, 120)

	push := readPush(t, conn)
	require.Equal(t, "BET", push.Data[0].CollegeCode)
	require.Equal(t, 120, push.Data[0].TotalPoints)
	require.Equal(t, 1, push.Data[0].Rank)
	require.Equal(t, "ALP", push.Data[1].CollegeCode)
}

func TestLeaderboardWebsocketPingPong(t *testing.T) {
	s := newLeaderboardStack(t)
	defer s.shutdown()

	conn := s.dial(t)
	readPush(t, conn)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("ping")))

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(3*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.Equal(t, "pong", string(data))
}

func TestLeaderboardWebsocketLateJoinerSeesCurrentState(t *testing.T) {
	s := newLeaderboardStack(t)
	defer s.shutdown()

	for i := 0; i < 5; i++ {
		s.record(t, s.colleges[0].ID, 10)
	}

	// Give the fan-out loop a moment to settle before joining.
	require.Eventually(t, func() bool {
		entries, err := s.leaderboard.Leaderboard(context.Background())
		return err == nil && entries[0].TotalPoints == 50
	}, 3*time.Second, 20*time.Millisecond)

	conn := s.dial(t)
	push := readPush(t, conn)
	require.Equal(t, "ALP", push.Data[0].CollegeCode)
	require.Equal(t, 50, push.Data[0].TotalPoints)
}

func startFiberServer(t *testing.T, app *fiber.App) (string, func()) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		if err := app.Listener(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			t.Logf("fiber listener stopped: %v", err)
		}
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)

	shutdown := func() {
		_ = app.Shutdown()
		_ = listener.Close()
		select {
		case <-done:
		case <-time.After(100 * time.Millisecond):
		}
	}

	return "http://" + listener.Addr().String(), shutdown
}
