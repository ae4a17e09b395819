package service

import (
	"context"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/ignitron2k25/ignitron-api/internal/models"
)

func testLogger() zerolog.Logger {
	return zerolog.Nop()
}

type memoryCollegeRepo struct {
	mu       sync.Mutex
	colleges map[string]models.College
}

func newMemoryCollegeRepo() *memoryCollegeRepo {
	return &memoryCollegeRepo{colleges: make(map[string]models.College)}
}

func (m *memoryCollegeRepo) Create(ctx context.Context, college *models.College) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.colleges[college.ID] = *college
	return nil
}

func (m *memoryCollegeRepo) GetByID(ctx context.Context, id string) (models.College, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	college, ok := m.colleges[id]
	if !ok {
		return models.College{}, gorm.ErrRecordNotFound
	}
	return college, nil
}

func (m *memoryCollegeRepo) List(ctx context.Context) ([]models.College, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.College, 0, len(m.colleges))
	for _, college := range m.colleges {
		out = append(out, college)
	}
	return out, nil
}

func (m *memoryCollegeRepo) ListRanked(ctx context.Context) ([]models.College, error) {
	out, err := m.List(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].Code < out[j].Code
	})
	return out, nil
}

func (m *memoryCollegeRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.colleges[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.colleges, id)
	return nil
}

func (m *memoryCollegeRepo) IncrementPoints(ctx context.Context, id string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	college, ok := m.colleges[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	college.TotalPoints += delta
	m.colleges[id] = college
	return nil
}

type memoryEventRepo struct {
	mu     sync.Mutex
	events map[string]models.Event
}

func newMemoryEventRepo() *memoryEventRepo {
	return &memoryEventRepo{events: make(map[string]models.Event)}
}

func (m *memoryEventRepo) Create(ctx context.Context, event *models.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[event.ID] = *event
	return nil
}

func (m *memoryEventRepo) GetByID(ctx context.Context, id string) (models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	event, ok := m.events[id]
	if !ok {
		return models.Event{}, gorm.ErrRecordNotFound
	}
	return event, nil
}

func (m *memoryEventRepo) List(ctx context.Context) ([]models.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Event, 0, len(m.events))
	for _, event := range m.events {
		out = append(out, event)
	}
	return out, nil
}

func (m *memoryEventRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.events, id)
	return nil
}

type memoryResultRepo struct {
	mu      sync.Mutex
	results map[string]models.Result
}

func newMemoryResultRepo() *memoryResultRepo {
	return &memoryResultRepo{results: make(map[string]models.Result)}
}

func (m *memoryResultRepo) Create(ctx context.Context, result *models.Result) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.ID] = *result
	return nil
}

func (m *memoryResultRepo) GetByID(ctx context.Context, id string) (models.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	result, ok := m.results[id]
	if !ok {
		return models.Result{}, gorm.ErrRecordNotFound
	}
	return result, nil
}

func (m *memoryResultRepo) List(ctx context.Context, eventID string) ([]models.Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Result, 0, len(m.results))
	for _, result := range m.results {
		if eventID != "" && result.EventID != eventID {
			continue
		}
		out = append(out, result)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memoryResultRepo) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.results[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.results, id)
	return nil
}

type memoryUserRepo struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]models.User)}
}

func (m *memoryUserRepo) Create(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[user.ID] = *user
	return nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return models.User{}, gorm.ErrRecordNotFound
	}
	return user, nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) List(ctx context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.User, 0, len(m.users))
	for _, user := range m.users {
		out = append(out, user)
	}
	return out, nil
}

type stubNotifier struct {
	mu    sync.Mutex
	count int
}

func (n *stubNotifier) NotifyChange(ctx context.Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.count++
}

func (n *stubNotifier) notified() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.count
}
