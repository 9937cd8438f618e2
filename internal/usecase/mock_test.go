package usecase_test

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"telegram-group-guardian/internal/domain"
	"telegram-group-guardian/internal/domain/model"
	"telegram-group-guardian/internal/domain/ports/adapter"
	"telegram-group-guardian/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.New(io.Discard)
	return &l
}

// =============================
// Repositories
// =============================

// memGroupRepo is a small in-memory implementation used by unit tests.
type memGroupRepo struct {
	mu      sync.RWMutex
	store   map[int64]*model.Group
	saveErr error // used by tests to simulate save failures
}

var _ repository.GroupRepository = (*memGroupRepo)(nil)

func newMemGroupRepo() *memGroupRepo {
	return &memGroupRepo{store: make(map[int64]*model.Group)}
}

func (m *memGroupRepo) Save(ctx context.Context, tx repository.Tx, g *model.Group) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *g
	m.store[g.ID] = &cp
	return nil
}

func (m *memGroupRepo) FindByID(ctx context.Context, tx repository.Tx, id int64) (*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	g, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memGroupRepo) FindAll(ctx context.Context, tx repository.Tx) ([]*model.Group, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*model.Group, 0, len(m.store))
	for _, g := range m.store {
		cp := *g
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memGroupRepo) Delete(ctx context.Context, tx repository.Tx, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, id)
	return nil
}

// memWarningRepo keeps warnings keyed by (group,user).
type memWarningRepo struct {
	mu    sync.RWMutex
	store map[[2]int64]*model.Warning
}

var _ repository.WarningRepository = (*memWarningRepo)(nil)

func newMemWarningRepo() *memWarningRepo {
	return &memWarningRepo{store: make(map[[2]int64]*model.Warning)}
}

func (m *memWarningRepo) Save(ctx context.Context, tx repository.Tx, w *model.Warning) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *w
	m.store[[2]int64{w.GroupID, w.UserID}] = &cp
	return nil
}

func (m *memWarningRepo) Find(ctx context.Context, tx repository.Tx, groupID, userID int64) (*model.Warning, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	w, ok := m.store[[2]int64{groupID, userID}]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memWarningRepo) FindByGroup(ctx context.Context, tx repository.Tx, groupID int64) ([]*model.Warning, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Warning
	for _, w := range m.store {
		if w.GroupID == groupID {
			cp := *w
			out = append(out, &cp)
		}
	}
	return out, nil
}

// memSubRepo keeps one subscription per group.
type memSubRepo struct {
	mu    sync.RWMutex
	store map[int64]*model.GroupSubscription
}

var _ repository.SubscriptionRepository = (*memSubRepo)(nil)

func newMemSubRepo() *memSubRepo {
	return &memSubRepo{store: make(map[int64]*model.GroupSubscription)}
}

func (m *memSubRepo) Save(ctx context.Context, tx repository.Tx, s *model.GroupSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.GroupID] = &cp
	return nil
}

func (m *memSubRepo) FindByGroup(ctx context.Context, tx repository.Tx, groupID int64) (*model.GroupSubscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.store[groupID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSubRepo) deleteGroup(groupID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, groupID)
}

// =============================
// Adapters
// =============================

type sentMessage struct {
	ChatID int64
	Text   string
}

type restrictCall struct {
	ChatID    int64
	UserID    int64 // 0 for chat-wide calls
	AllowSend bool
	Until     *time.Time
}

// mockGateway records every outbound call; func fields override behavior.
type mockGateway struct {
	mu        sync.Mutex
	Sent      []sentMessage
	Restricts []restrictCall

	SendMessageFunc func(ctx context.Context, chatID int64, text string) error
	RestrictAllFunc func(ctx context.Context, chatID int64, allowSend bool, until *time.Time) error
	ListAdminsFunc  func(ctx context.Context, chatID int64) ([]int64, error)
}

var _ adapter.MessagingGateway = (*mockGateway)(nil)

func (m *mockGateway) SendMessage(ctx context.Context, chatID int64, text string) error {
	if m.SendMessageFunc != nil {
		return m.SendMessageFunc(ctx, chatID, text)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentMessage{ChatID: chatID, Text: text})
	return nil
}

func (m *mockGateway) RestrictAll(ctx context.Context, chatID int64, allowSend bool, until *time.Time) error {
	if m.RestrictAllFunc != nil {
		return m.RestrictAllFunc(ctx, chatID, allowSend, until)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restricts = append(m.Restricts, restrictCall{ChatID: chatID, AllowSend: allowSend, Until: until})
	return nil
}

func (m *mockGateway) RestrictMember(ctx context.Context, chatID, userID int64, allowSend bool, until *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Restricts = append(m.Restricts, restrictCall{ChatID: chatID, UserID: userID, AllowSend: allowSend, Until: until})
	return nil
}

func (m *mockGateway) ListAdmins(ctx context.Context, chatID int64) ([]int64, error) {
	if m.ListAdminsFunc != nil {
		return m.ListAdminsFunc(ctx, chatID)
	}
	return nil, nil
}

func (m *mockGateway) restrictCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Restricts)
}

func (m *mockGateway) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Sent)
}

// mockAdminCache is an in-memory usecase.AdminCache.
type mockAdminCache struct {
	mu     sync.Mutex
	store  map[int64][]int64
	getErr error
	sets   int
}

func newMockAdminCache() *mockAdminCache {
	return &mockAdminCache{store: make(map[int64][]int64)}
}

func (m *mockAdminCache) Get(ctx context.Context, chatID int64) ([]int64, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	admins, ok := m.store[chatID]
	return admins, ok, nil
}

func (m *mockAdminCache) Set(ctx context.Context, chatID int64, admins []int64, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[chatID] = admins
	m.sets++
	return nil
}

func (m *mockAdminCache) Invalidate(ctx context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.store, chatID)
	return nil
}

// mockTxManager runs the callback without a real transaction.
type mockTxManager struct{}

var _ repository.TransactionManager = (*mockTxManager)(nil)

func (mockTxManager) WithTx(ctx context.Context, _ pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	return fn(ctx, repository.NoTX)
}
