package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/ignitron2k25/ignitron-api/internal/dto"
	"github.com/ignitron2k25/ignitron-api/internal/middleware"
	"github.com/ignitron2k25/ignitron-api/internal/observability"
	"github.com/ignitron2k25/ignitron-api/internal/repository"
)

const (
	// LeaderboardRoom is the broadcast channel live viewers join.
	LeaderboardRoom = "leaderboard"

	leaderboardSendBufferSize = 16
	writerKeepaliveInterval   = 30 * time.Second
)

// ConnectionOptions wraps metadata extracted during the HTTP upgrade.
type ConnectionOptions struct {
	Room          string
	CorrelationID string
	Context       context.Context
}

// DeliveryResult records the outcome of one per-connection delivery attempt.
// Failures are logged and counted, never propagated to the mutation that
// triggered the push and never used to deregister the connection inline.
type DeliveryResult struct {
	Remote string
	Err    error
}

// LeaderboardConfig tunes the broadcast subsystem.
type LeaderboardConfig struct {
	SnapshotTTL    time.Duration
	ReaperInterval time.Duration
	IdleLimit      time.Duration
	ChannelBase    string
}

// LeaderboardService projects the ranked leaderboard and fans every change
// out to all connected viewers.
type LeaderboardService interface {
	Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error)
	ServeConnection(conn *websocket.Conn, opts ConnectionOptions)
	NotifyChange(ctx context.Context)
	Start(ctx context.Context)
}

type leaderboardService struct {
	colleges    repository.CollegeRepository
	redis       *redis.Client
	redisEvents string
	snapshotKey string
	snapshotTTL time.Duration
	nats        *nats.Conn
	natsSubject string
	hub         *leaderboardHub
	changes     chan struct{}
	reaperEvery time.Duration
	idleLimit   time.Duration
	logger      zerolog.Logger
	nodeID      string
}

// leaderboardHub keeps track of active viewer connections grouped by room.
type leaderboardHub struct {
	mu    sync.RWMutex
	rooms map[string]map[*leaderboardClient]struct{}
	log   zerolog.Logger
}

type leaderboardClient struct {
	conn     *websocket.Conn
	send     chan wsFrame
	room     string
	closed   chan struct{}
	once     sync.Once
	service  *leaderboardService
	mu       sync.Mutex
	lastSeen time.Time
}

type wsFrame struct {
	messageType int
	data        []byte
}

type leaderboardEvent struct {
	Source string    `json:"source"`
	SentAt time.Time `json:"sent_at"`
}

// NewLeaderboardService creates the broadcast registry and projector. Redis
// and NATS are optional: with both nil the service still delivers to every
// local connection.
func NewLeaderboardService(colleges repository.CollegeRepository, redisClient *redis.Client, natsConn *nats.Conn, cfg LeaderboardConfig, logger zerolog.Logger) LeaderboardService {
	hub := &leaderboardHub{
		rooms: make(map[string]map[*leaderboardClient]struct{}),
		log:   logger.With().Str("component", "leaderboard_hub").Logger(),
	}

	channelBase := cfg.ChannelBase
	if channelBase == "" {
		channelBase = "ignitron"
	}

	snapshotTTL := cfg.SnapshotTTL
	if snapshotTTL <= 0 {
		snapshotTTL = 30 * time.Minute
	}
	reaperEvery := cfg.ReaperInterval
	if reaperEvery <= 0 {
		reaperEvery = 45 * time.Second
	}
	idleLimit := cfg.IdleLimit
	if idleLimit <= 0 {
		idleLimit = 2 * time.Minute
	}

	return &leaderboardService{
		colleges:    colleges,
		redis:       redisClient,
		redisEvents: channelBase + ":leaderboard:events",
		snapshotKey: channelBase + ":leaderboard:snapshot",
		snapshotTTL: snapshotTTL,
		nats:        natsConn,
		natsSubject: strings.ReplaceAll(channelBase, ":", ".") + ".leaderboard",
		hub:         hub,
		changes:     make(chan struct{}, 1),
		reaperEvery: reaperEvery,
		idleLimit:   idleLimit,
		logger:      logger.With().Str("component", "leaderboard_service").Logger(),
		nodeID:      uuid.NewString(),
	}
}

// Leaderboard recomputes the ranked projection from current college totals.
// Ties on points order by college code ascending; rank is positional.
func (s *leaderboardService) Leaderboard(ctx context.Context) ([]dto.LeaderboardEntry, error) {
	colleges, err := s.colleges.ListRanked(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.LeaderboardEntry, 0, len(colleges))
	for i, college := range colleges {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:        i + 1,
			CollegeName: college.Name,
			CollegeCode: college.Code,
			TotalPoints: college.TotalPoints,
		})
	}

	return entries, nil
}

// NotifyChange queues a fan-out pass. Rapid successive mutations coalesce
// into a single push reflecting the state at projection time.
func (s *leaderboardService) NotifyChange(ctx context.Context) {
	select {
	case s.changes <- struct{}{}:
	default:
	}

	s.publishEvent(ctx)
}

// Start launches the fan-out consumer, the stale-connection reaper, and the
// optional Redis/NATS event subscribers. All goroutines stop when ctx is
// cancelled.
func (s *leaderboardService) Start(ctx context.Context) {
	go s.fanOutLoop(ctx)
	go s.reaperLoop(ctx)

	if s.redis != nil {
		go s.consumeRedis(ctx)
	}
	if s.nats != nil {
		s.consumeNATS(ctx)
	}
}

func (s *leaderboardService) ServeConnection(conn *websocket.Conn, opts ConnectionOptions) {
	room := strings.TrimSpace(opts.Room)
	if room == "" {
		room = LeaderboardRoom
	}

	baseCtx := opts.Context
	if baseCtx == nil {
		baseCtx = context.Background()
	}

	client := &leaderboardClient{
		conn:     conn,
		send:     make(chan wsFrame, leaderboardSendBufferSize),
		room:     room,
		closed:   make(chan struct{}),
		service:  s,
		lastSeen: time.Now(),
	}

	correlation := opts.CorrelationID
	if correlation == "" {
		correlation = middleware.CorrelationIDFromContext(baseCtx)
	}

	s.hub.register(client)
	observability.LeaderboardConnections().Inc()
	s.logger.Debug().Str("correlation_id", correlation).Str("remote", client.remote()).Msg("leaderboard viewer joined")

	// A late joiner gets the projection as it stands right now, never a
	// replay of intermediate states.
	if frame, ok := s.snapshotFrame(baseCtx); ok {
		client.send <- frame
	}

	go client.writer()
	client.reader()
}

func (s *leaderboardService) fanOutLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.changes:
			s.push(ctx)
		}
	}
}

func (s *leaderboardService) push(ctx context.Context) {
	entries, err := s.Leaderboard(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to project leaderboard for fan-out")
		return
	}

	payload, err := json.Marshal(dto.NewLeaderboardPush(entries))
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to marshal leaderboard push")
		return
	}

	s.cacheSnapshot(ctx, payload)

	results := s.hub.broadcast(LeaderboardRoom, wsFrame{messageType: websocket.TextMessage, data: payload})
	observability.LeaderboardPushes().Inc()

	for _, result := range results {
		if result.Err != nil {
			observability.LeaderboardDeliveryFailures().Inc()
			s.logger.Warn().Err(result.Err).Str("remote", result.Remote).Msg("leaderboard delivery failed")
		}
	}
}

func (s *leaderboardService) reaperLoop(ctx context.Context) {
	ticker := time.NewTicker(s.reaperEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stale := s.hub.staleClients(time.Now().Add(-s.idleLimit))
			for _, client := range stale {
				s.logger.Debug().Str("remote", client.remote()).Msg("reaping idle leaderboard connection")
				client.close()
			}
		}
	}
}

// snapshotFrame projects the current leaderboard for a joining connection,
// falling back to the last cached push when the store read fails.
func (s *leaderboardService) snapshotFrame(ctx context.Context) (wsFrame, bool) {
	entries, err := s.Leaderboard(ctx)
	if err == nil {
		payload, marshalErr := json.Marshal(dto.NewLeaderboardPush(entries))
		if marshalErr == nil {
			return wsFrame{messageType: websocket.TextMessage, data: payload}, true
		}
		err = marshalErr
	}

	s.logger.Warn().Err(err).Msg("failed to build join snapshot, trying cache")

	if cached, ok := s.cachedSnapshot(ctx); ok {
		return wsFrame{messageType: websocket.TextMessage, data: cached}, true
	}

	return wsFrame{}, false
}

func (s *leaderboardService) cacheSnapshot(ctx context.Context, payload []byte) {
	if s.redis == nil {
		return
	}

	if err := s.redis.Set(ctx, s.snapshotKey, payload, s.snapshotTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache leaderboard snapshot")
	}
}

func (s *leaderboardService) cachedSnapshot(ctx context.Context) ([]byte, bool) {
	if s.redis == nil {
		return nil, false
	}

	result, err := s.redis.Get(ctx, s.snapshotKey).Result()
	if err != nil {
		return nil, false
	}

	return []byte(result), true
}

func (s *leaderboardService) publishEvent(ctx context.Context) {
	event := leaderboardEvent{
		Source: s.nodeID,
		SentAt: time.Now().UTC(),
	}

	payload, err := json.Marshal(event)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal leaderboard event")
		return
	}

	if s.redis != nil {
		if err := s.redis.Publish(ctx, s.redisEvents, payload).Err(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish leaderboard event to redis")
		}
	}

	if s.nats != nil {
		if err := s.nats.Publish(s.natsSubject, payload); err != nil {
			s.logger.Warn().Err(err).Msg("failed to publish leaderboard event to nats")
		}
	}
}

func (s *leaderboardService) consumeRedis(ctx context.Context) {
	pubsub := s.redis.Subscribe(ctx, s.redisEvents)
	defer func() {
		_ = pubsub.Close()
	}()
	for {
		msg, err := pubsub.ReceiveMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			s.logger.Error().Err(err).Msg("leaderboard redis subscription closed")
			return
		}
		s.handleEvent([]byte(msg.Payload))
	}
}

func (s *leaderboardService) consumeNATS(ctx context.Context) {
	sub, err := s.nats.Subscribe(s.natsSubject, func(msg *nats.Msg) {
		s.handleEvent(msg.Data)
	})
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to subscribe to nats leaderboard subject")
		return
	}
	go func() {
		<-ctx.Done()
		if err := sub.Drain(); err != nil {
			s.logger.Warn().Err(err).Msg("failed to drain leaderboard nats subscription")
		}
	}()
}

// handleEvent reacts to a change published by another node: refresh local
// viewers without re-publishing, so events never loop.
func (s *leaderboardService) handleEvent(data []byte) {
	var event leaderboardEvent
	if err := json.Unmarshal(data, &event); err != nil {
		s.logger.Warn().Err(err).Msg("invalid leaderboard event")
		return
	}

	if event.Source == s.nodeID {
		return
	}

	select {
	case s.changes <- struct{}{}:
	default:
	}
}

func (h *leaderboardHub) register(client *leaderboardClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, exists := h.rooms[client.room]; !exists {
		h.rooms[client.room] = make(map[*leaderboardClient]struct{})
	}
	h.rooms[client.room][client] = struct{}{}
	h.log.Debug().Str("room", client.room).Str("remote", client.remote()).Msg("viewer connected")
}

// unregister is idempotent: removing a connection that already left is a no-op.
func (h *leaderboardHub) unregister(client *leaderboardClient) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if clients, ok := h.rooms[client.room]; ok {
		if _, present := clients[client]; !present {
			return
		}
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, client.room)
		}
		h.log.Debug().Str("room", client.room).Str("remote", client.remote()).Msg("viewer disconnected")
	}
}

// broadcast enqueues a frame for every connection in the room and reports one
// DeliveryResult per attempt. A full send buffer counts as a failed delivery
// but never blocks the hub or skips remaining connections.
func (h *leaderboardHub) broadcast(room string, frame wsFrame) []DeliveryResult {
	h.mu.RLock()
	defer h.mu.RUnlock()

	clients := h.rooms[room]
	results := make([]DeliveryResult, 0, len(clients))
	for client := range clients {
		result := DeliveryResult{Remote: client.remote()}
		select {
		case client.send <- frame:
		default:
			result.Err = errors.New("send buffer full")
		}
		results = append(results, result)
	}

	return results
}

func (h *leaderboardHub) staleClients(deadline time.Time) []*leaderboardClient {
	h.mu.RLock()
	defer h.mu.RUnlock()

	var stale []*leaderboardClient
	for _, clients := range h.rooms {
		for client := range clients {
			if client.seenBefore(deadline) {
				stale = append(stale, client)
			}
		}
	}

	return stale
}

func (c *leaderboardClient) reader() {
	defer c.close()

	c.conn.SetPongHandler(func(string) error {
		c.touch()
		return nil
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			c.service.logger.Debug().Err(err).Msg("leaderboard read loop ended")
			return
		}

		c.touch()

		// Lightweight liveness probe: echo without touching leaderboard state.
		if messageType == websocket.TextMessage && strings.TrimSpace(string(data)) == "ping" {
			select {
			case c.send <- wsFrame{messageType: websocket.TextMessage, data: []byte("pong")}:
			case <-c.closed:
				return
			}
		}
	}
}

func (c *leaderboardClient) writer() {
	defer c.close()

	for {
		select {
		case frame, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.conn.WriteMessage(frame.messageType, frame.data); err != nil {
				c.service.logger.Debug().Err(err).Msg("leaderboard write loop terminated")
				observability.LeaderboardDeliveryFailures().Inc()
				return
			}
		case <-time.After(writerKeepaliveInterval):
			if err := c.conn.WriteMessage(websocket.PingMessage, []byte("keepalive")); err != nil {
				c.service.logger.Debug().Err(err).Msg("leaderboard ping failed")
				return
			}
		case <-c.closed:
			return
		}
	}
}

func (c *leaderboardClient) close() {
	c.once.Do(func() {
		close(c.closed)
		c.service.hub.unregister(c)
		observability.LeaderboardConnections().Dec()
		_ = c.conn.Close()
	})
}

func (c *leaderboardClient) touch() {
	c.mu.Lock()
	c.lastSeen = time.Now()
	c.mu.Unlock()
}

func (c *leaderboardClient) seenBefore(deadline time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastSeen.Before(deadline)
}

func (c *leaderboardClient) remote() string {
	if c.conn == nil {
		return "unknown"
	}
	if addr := c.conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return "unknown"
}
