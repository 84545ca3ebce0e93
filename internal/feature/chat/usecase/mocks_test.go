package usecase

import (
	"context"
	"errors"
	"sync"
	"time"

	"planner_backend/internal/feature/chat/domain/entity"
)

// memConversationRepo is an in-memory ConversationRepository.
type memConversationRepo struct {
	mu      sync.Mutex
	convs   map[string]*entity.Conversation
	saves   int
	loadErr error
	saveErr error
}

func newMemRepo() *memConversationRepo {
	return &memConversationRepo{convs: map[string]*entity.Conversation{}}
}

func (r *memConversationRepo) Load(_ context.Context, userID string) (*entity.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	c, ok := r.convs[userID]
	if !ok {
		return nil, ErrConversationNotFound
	}
	cp := &entity.Conversation{UserID: c.UserID, Turns: append([]entity.Turn(nil), c.Turns...)}
	return cp, nil
}

func (r *memConversationRepo) Save(_ context.Context, conv *entity.Conversation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.convs[conv.UserID] = &entity.Conversation{UserID: conv.UserID, Turns: append([]entity.Turn(nil), conv.Turns...)}
	return nil
}

func (r *memConversationRepo) seed(userID string, turns ...string) *entity.Conversation {
	c := entity.NewConversation(userID)
	for i, content := range turns {
		role := entity.RoleUser
		if i%2 == 1 {
			role = entity.RoleAssistant
		}
		c.Append(role, content)
	}
	r.convs[userID] = c
	return c
}

func (r *memConversationRepo) turns(userID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.convs[userID]
	if !ok {
		return nil
	}
	out := make([]string, len(c.Turns))
	for i, t := range c.Turns {
		out[i] = t.Content
	}
	return out
}

// mockCompleter records the last request and returns a canned reply.
type mockCompleter struct {
	CompleteFunc func(ctx context.Context, req CompletionRequest) (string, error)
	last         CompletionRequest
	calls        int
}

func (m *mockCompleter) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	m.calls++
	m.last = req
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return "plan", nil
}

func (m *mockCompleter) Name() string { return "mock" }

type mockCounter struct {
	counts map[string]int
	err    error
}

func (m *mockCounter) Increment(_ context.Context, userID string) error {
	if m.err != nil {
		return m.err
	}
	if m.counts == nil {
		m.counts = map[string]int{}
	}
	m.counts[userID]++
	return nil
}

type mockLimiter struct{ err error }

func (m mockLimiter) Wait(context.Context) error { return m.err }

type mockRecorder struct {
	results []error
}

func (m *mockRecorder) RecordCompletion(_ string, _ time.Duration, err error) {
	m.results = append(m.results, err)
}

var errDB = errors.New("database is locked")
