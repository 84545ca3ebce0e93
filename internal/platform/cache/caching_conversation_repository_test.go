package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"

	"planner_backend/internal/feature/chat/domain/entity"
	"planner_backend/internal/feature/chat/usecase"
)

// mockConversationRepository はテスト用のConversationRepositoryモック実装です。
type mockConversationRepository struct {
	loadFn func(ctx context.Context, userID string) (*entity.Conversation, error)
	saveFn func(ctx context.Context, conv *entity.Conversation) error
}

func (m *mockConversationRepository) Load(ctx context.Context, userID string) (*entity.Conversation, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx, userID)
	}
	return nil, usecase.ErrConversationNotFound
}

func (m *mockConversationRepository) Save(ctx context.Context, conv *entity.Conversation) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, conv)
	}
	return nil
}

func sampleConversation() *entity.Conversation {
	return &entity.Conversation{
		UserID: "u1",
		Turns: []entity.Turn{
			{PairID: "p1", Role: entity.RoleUser, Content: "todo app"},
			{PairID: "p1", Role: entity.RoleAssistant, Content: "1. Project Name: Todo"},
		},
	}
}

// TestNewCachingConversationRepository_Defaults はデフォルト値（TTLとnamespace）が正しく設定されることを検証します。
func TestNewCachingConversationRepository_Defaults(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name              string
		ttl               time.Duration
		namespace         string
		expectedTTL       time.Duration
		expectedNamespace string
	}{
		{"default values when zero/empty", 0, "", 10 * time.Minute, "conversations"},
		{"negative ttl uses default", -time.Minute, "", 10 * time.Minute, "conversations"},
		{"custom values preserved", time.Minute, "custom", time.Minute, "custom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			repo := NewCachingConversationRepository(nil, tt.ttl, &mockConversationRepository{}, tt.namespace)

			if repo.ttl != tt.expectedTTL {
				t.Errorf("expected TTL %v, got %v", tt.expectedTTL, repo.ttl)
			}
			if repo.namespace != tt.expectedNamespace {
				t.Errorf("expected namespace %q, got %q", tt.expectedNamespace, repo.namespace)
			}
		})
	}
}

// TestCachingConversationRepository_Load_NilRedis はRedisがnilの場合に内部リポジトリを直接呼び出すことを検証します。
func TestCachingConversationRepository_Load_NilRedis(t *testing.T) {
	t.Parallel()

	inner := &mockConversationRepository{
		loadFn: func(ctx context.Context, userID string) (*entity.Conversation, error) {
			return sampleConversation(), nil
		},
	}

	repo := NewCachingConversationRepository(nil, time.Minute, inner, "")
	conv, err := repo.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(conv.Turns) != 2 {
		t.Errorf("expected 2 turns, got %d", len(conv.Turns))
	}
}

// TestCachingConversationRepository_Load_CacheHit はキャッシュヒット時に内部リポジトリを呼ばないことを検証します。
func TestCachingConversationRepository_Load_CacheHit(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	cached, _ := json.Marshal(sampleConversation())
	mock.ExpectGet("conversations:u1").SetVal(string(cached))

	innerCalled := false
	inner := &mockConversationRepository{
		loadFn: func(ctx context.Context, userID string) (*entity.Conversation, error) {
			innerCalled = true
			return nil, nil
		},
	}

	repo := NewCachingConversationRepository(rdb, time.Minute, inner, "")
	conv, err := repo.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if innerCalled {
		t.Error("inner repository should not be called on cache hit")
	}
	if conv.Turns[1].PairID != "p1" || conv.Turns[1].Role != entity.RoleAssistant {
		t.Errorf("unexpected turn: %+v", conv.Turns[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingConversationRepository_Load_CacheMiss はキャッシュミス時にDBから取得してキャッシュに保存することを検証します。
func TestCachingConversationRepository_Load_CacheMiss(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	conv := sampleConversation()
	expectedJSON, _ := json.Marshal(conv)

	mock.ExpectGet("conversations:u1").RedisNil()
	mock.ExpectSetNX("conversations:u1", expectedJSON, time.Minute).SetVal(true)

	inner := &mockConversationRepository{
		loadFn: func(ctx context.Context, userID string) (*entity.Conversation, error) {
			return conv, nil
		},
	}

	repo := NewCachingConversationRepository(rdb, time.Minute, inner, "")
	if _, err := repo.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingConversationRepository_Load_NotFoundIsNotCached は会話が存在しない場合にキャッシュしないことを検証します。
func TestCachingConversationRepository_Load_NotFoundIsNotCached(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	mock.ExpectGet("conversations:nobody").RedisNil()

	repo := NewCachingConversationRepository(rdb, time.Minute, &mockConversationRepository{}, "")
	_, err := repo.Load(context.Background(), "nobody")

	if !errors.Is(err, usecase.ErrConversationNotFound) {
		t.Errorf("expected ErrConversationNotFound, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingConversationRepository_Load_CorruptedCache は破損したキャッシュを削除し、DBにフォールバックすることを検証します。
func TestCachingConversationRepository_Load_CorruptedCache(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	conv := sampleConversation()
	expectedJSON, _ := json.Marshal(conv)

	mock.ExpectGet("conversations:u1").SetVal("invalid json")
	mock.ExpectDel("conversations:u1").SetVal(1)
	mock.ExpectSetNX("conversations:u1", expectedJSON, time.Minute).SetVal(true)

	inner := &mockConversationRepository{
		loadFn: func(ctx context.Context, userID string) (*entity.Conversation, error) {
			return conv, nil
		},
	}

	repo := NewCachingConversationRepository(rdb, time.Minute, inner, "")
	if _, err := repo.Load(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingConversationRepository_Save_WritesThrough は保存後にキャッシュが新しい内容で上書きされることを検証します。
func TestCachingConversationRepository_Save_WritesThrough(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleConversation())
	mock.ExpectSet("conversations:u1", expectedJSON, time.Minute).SetVal("OK")

	saved := false
	inner := &mockConversationRepository{
		saveFn: func(ctx context.Context, conv *entity.Conversation) error {
			saved = true
			return nil
		},
	}

	repo := NewCachingConversationRepository(rdb, time.Minute, inner, "")
	if err := repo.Save(context.Background(), sampleConversation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !saved {
		t.Error("expected inner repository to be called")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingConversationRepository_Save_InnerError は内部リポジトリのエラーが伝播され、キャッシュに触れないことを検証します。
func TestCachingConversationRepository_Save_InnerError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedErr := errors.New("save error")
	inner := &mockConversationRepository{
		saveFn: func(ctx context.Context, conv *entity.Conversation) error {
			return expectedErr
		},
	}

	repo := NewCachingConversationRepository(rdb, time.Minute, inner, "")
	err := repo.Save(context.Background(), sampleConversation())

	if !errors.Is(err, expectedErr) {
		t.Errorf("expected error %v, got %v", expectedErr, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingConversationRepository_Save_RefreshFailureDropsEntry はキャッシュ更新に失敗した場合にエントリを削除することを検証します。
func TestCachingConversationRepository_Save_RefreshFailureDropsEntry(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleConversation())
	mock.ExpectSet("conversations:u1", expectedJSON, time.Minute).SetErr(errors.New("connection reset"))
	mock.ExpectDel("conversations:u1").SetVal(1)

	repo := NewCachingConversationRepository(rdb, time.Minute, &mockConversationRepository{}, "")
	if err := repo.Save(context.Background(), sampleConversation()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled mock expectations: %v", err)
	}
}

// TestCachingConversationRepository_Save_StaleCacheIsAnError はキャッシュの更新も削除もできない場合にエラーを返すことを検証します。
func TestCachingConversationRepository_Save_StaleCacheIsAnError(t *testing.T) {
	t.Parallel()

	rdb, mock := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()

	expectedJSON, _ := json.Marshal(sampleConversation())
	mock.ExpectSet("conversations:u1", expectedJSON, time.Minute).SetErr(errors.New("connection reset"))
	mock.ExpectDel("conversations:u1").SetErr(errors.New("connection reset"))

	repo := NewCachingConversationRepository(rdb, time.Minute, &mockConversationRepository{}, "")
	if err := repo.Save(context.Background(), sampleConversation()); err == nil {
		t.Fatal("expected an error when the cache is left stale")
	}
}
