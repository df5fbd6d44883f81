package redis

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestKeyBuilders(t *testing.T) {
	client := &Client{}
	if got := client.CartLockKey("cart-1"); got != "rest:cart_lock:cart-1" {
		t.Fatalf("unexpected cart lock key %s", got)
	}
	if got := client.CounterKey("hits"); got != "rest:counter:hits" {
		t.Fatalf("unexpected counter key %s", got)
	}
}

func TestAcquireLockSucceedsFirstTry(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	token, err := client.AcquireLock(ctx, "rest:cart_lock:c1", time.Second, 10*time.Second, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" {
		t.Fatal("expected a lock token")
	}
	if mock.data["rest:cart_lock:c1"] != token {
		t.Fatalf("token not stored under lock key")
	}
}

func TestAcquireLockTimesOutWhenHeld(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.data["rest:cart_lock:c1"] = "someone-else"
	client := &Client{store: mock}

	_, err := client.AcquireLock(ctx, "rest:cart_lock:c1", 20*time.Millisecond, 10*time.Second, 5*time.Millisecond)
	if !errors.Is(err, ErrLockTimeout) {
		t.Fatalf("expected ErrLockTimeout, got %v", err)
	}
}

func TestAcquireLockWaitsForRelease(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	mock.data["rest:cart_lock:c1"] = "holder"
	client := &Client{store: mock}

	go func() {
		time.Sleep(15 * time.Millisecond)
		mock.mu.Lock()
		delete(mock.data, "rest:cart_lock:c1")
		mock.mu.Unlock()
	}()

	token, err := client.AcquireLock(ctx, "rest:cart_lock:c1", 500*time.Millisecond, 10*time.Second, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("expected acquisition after release, got %v", err)
	}
	if token == "" {
		t.Fatal("expected a lock token")
	}
}

func TestReleaseLockOnlyWithMatchingToken(t *testing.T) {
	ctx := context.Background()
	mock := newMockCmdable()
	client := &Client{store: mock}

	token, err := client.AcquireLock(ctx, "rest:cart_lock:c1", time.Second, 10*time.Second, 5*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := client.ReleaseLock(ctx, "rest:cart_lock:c1", "wrong-token"); !errors.Is(err, ErrLockNotHeld) {
		t.Fatalf("expected ErrLockNotHeld for stale token, got %v", err)
	}
	if _, held := mock.data["rest:cart_lock:c1"]; !held {
		t.Fatal("stale release must not delete the lock")
	}

	if err := client.ReleaseLock(ctx, "rest:cart_lock:c1", token); err != nil {
		t.Fatalf("release with matching token failed: %v", err)
	}
	if _, held := mock.data["rest:cart_lock:c1"]; held {
		t.Fatal("lock should be gone after release")
	}
}

type mockCmdable struct {
	mu   sync.Mutex
	data map[string]string
}

func newMockCmdable() *mockCmdable {
	return &mockCmdable{data: make(map[string]string)}
}

func (m *mockCmdable) Ping(context.Context) *redis.StatusCmd {
	return redis.NewStatusResult("PONG", nil)
}

func (m *mockCmdable) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return redis.NewStatusResult("OK", nil)
}

func (m *mockCmdable) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (m *mockCmdable) SetNX(ctx context.Context, key string, value any, expiration time.Duration) *redis.BoolCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	m.data[key] = fmt.Sprint(value)
	return redis.NewBoolResult(true, nil)
}

func (m *mockCmdable) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return redis.NewIntResult(int64(len(keys)), nil)
}

// Eval emulates the compare-and-delete release script.
func (m *mockCmdable) Eval(ctx context.Context, script string, keys []string, args ...any) *redis.Cmd {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(keys) != 1 || len(args) != 1 {
		return redis.NewCmdResult(nil, errors.New("unexpected eval call"))
	}
	if m.data[keys[0]] == fmt.Sprint(args[0]) {
		delete(m.data, keys[0])
		return redis.NewCmdResult(int64(1), nil)
	}
	return redis.NewCmdResult(int64(0), nil)
}
