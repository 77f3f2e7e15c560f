package cache_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/eduardoinoa18/memorybox/pkg/cache"
)

// testStats is a cached-value shape close to the storage stats payload.
type testStats struct {
	UserID         string `json:"userId"`
	TotalSizeBytes int64  `json:"totalSizeBytes"`
	MemoryCount    int64  `json:"memoryCount"`
}

// mockKVStore is an in-memory KVStore for tests.
type mockKVStore struct {
	data map[string][]byte
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{
		data: make(map[string][]byte),
	}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if value, exists := m.data[key]; exists {
		return value, nil
	}

	return nil, fmt.Errorf("key not found")
}

func (m *mockKVStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *mockKVStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func (m *mockKVStore) Exists(ctx context.Context, key string) (bool, error) {
	_, exists := m.data[key]
	return exists, nil
}

func (m *mockKVStore) Keys(ctx context.Context, pattern string) ([]string, error) {
	keys := make([]string, 0, len(m.data))
	for key := range m.data {
		keys = append(keys, key)
	}

	return keys, nil
}

func (m *mockKVStore) Close() error {
	return nil
}

func TestNewCache(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)

	if c == nil {
		t.Fatal("NewCache returned nil")
	}
}

func TestCache_GetSet(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	_, err := cache.Get[testStats](ctx, c, "nonexistent")
	if err == nil {
		t.Error("Expected error for nonexistent key")
	}

	stats := testStats{UserID: "user-1", TotalSizeBytes: 1 << 20, MemoryCount: 3}

	err = cache.Set(ctx, c, "stats:user-1", stats, 0)
	if err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	got, err := cache.Get[testStats](ctx, c, "stats:user-1")
	if err != nil {
		t.Fatalf("Failed to get cache: %v", err)
	}

	if got != stats {
		t.Errorf("Retrieved stats %+v do not match original %+v", got, stats)
	}
}

func TestCache_Delete(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	stats := testStats{UserID: "user-2", TotalSizeBytes: 512, MemoryCount: 1}

	if err := cache.Set(ctx, c, "stats:user-2", stats, 0); err != nil {
		t.Fatalf("Failed to set cache: %v", err)
	}

	exists, err := c.Exists(ctx, "stats:user-2")
	if err != nil {
		t.Fatalf("Failed to check existence: %v", err)
	}

	if !exists {
		t.Error("Key should exist before deletion")
	}

	if err := c.Delete(ctx, "stats:user-2"); err != nil {
		t.Fatalf("Failed to delete cache: %v", err)
	}

	exists, err = c.Exists(ctx, "stats:user-2")
	if err != nil {
		t.Fatalf("Failed to check existence after deletion: %v", err)
	}

	if exists {
		t.Error("Key should not exist after deletion")
	}
}

func TestGetOrSet(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	callCount := 0
	getter := func() (testStats, error) {
		callCount++
		return testStats{UserID: "user-3", TotalSizeBytes: 2048, MemoryCount: 7}, nil
	}

	first, err := cache.GetOrSet(ctx, c, "stats:user-3", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	if callCount != 1 {
		t.Errorf("Expected getter to be called once, got %d", callCount)
	}

	second, err := cache.GetOrSet(ctx, c, "stats:user-3", getter, 0)
	if err != nil {
		t.Fatalf("Failed to get or set: %v", err)
	}

	if callCount != 1 {
		t.Errorf("Expected getter to be called only once, got %d", callCount)
	}

	if first != second {
		t.Errorf("Results don't match: %+v vs %+v", first, second)
	}
}

func TestGetOrSet_GetterError(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	getter := func() (testStats, error) {
		return testStats{}, errors.New("getter error")
	}

	_, err := cache.GetOrSet(ctx, c, "stats:error", getter, 0)
	if err == nil {
		t.Error("Expected error from getter")
	}

	if err.Error() != "getter error" {
		t.Errorf("Expected 'getter error', got '%s'", err.Error())
	}
}

func TestCache_Clear(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	entries := []testStats{
		{UserID: "user-4", TotalSizeBytes: 100, MemoryCount: 1},
		{UserID: "user-5", TotalSizeBytes: 200, MemoryCount: 2},
		{UserID: "user-6", TotalSizeBytes: 300, MemoryCount: 3},
	}

	for i, stats := range entries {
		key := fmt.Sprintf("stats:%s", stats.UserID)

		if err := cache.Set(ctx, c, key, stats, 0); err != nil {
			t.Fatalf("Failed to set cache entry %d: %v", i, err)
		}
	}

	if len(mockStore.data) != len(entries) {
		t.Errorf("Expected %d items, got %d", len(entries), len(mockStore.data))
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Failed to clear cache: %v", err)
	}

	if len(mockStore.data) != 0 {
		t.Errorf("Expected 0 items after clear, got %d", len(mockStore.data))
	}
}

func TestCache_GenericTypes(t *testing.T) {
	mockStore := newMockKVStore()
	c := cache.NewCache(mockStore)
	ctx := context.Background()

	if err := cache.Set(ctx, c, "string:key", "family-photos", 0); err != nil {
		t.Fatalf("Failed to set string: %v", err)
	}

	str, err := cache.Get[string](ctx, c, "string:key")
	if err != nil {
		t.Fatalf("Failed to get string: %v", err)
	}

	if str != "family-photos" {
		t.Errorf("Expected 'family-photos', got '%s'", str)
	}

	if err := cache.Set(ctx, c, "int:key", 42, 0); err != nil {
		t.Fatalf("Failed to set int: %v", err)
	}

	num, err := cache.Get[int](ctx, c, "int:key")
	if err != nil {
		t.Fatalf("Failed to get int: %v", err)
	}

	if num != 42 {
		t.Errorf("Expected 42, got %d", num)
	}

	memoryIDs := []string{"mem-1", "mem-2", "mem-3"}

	if err := cache.Set(ctx, c, "slice:key", memoryIDs, 0); err != nil {
		t.Fatalf("Failed to set slice: %v", err)
	}

	got, err := cache.Get[[]string](ctx, c, "slice:key")
	if err != nil {
		t.Fatalf("Failed to get slice: %v", err)
	}

	if len(got) != len(memoryIDs) {
		t.Fatalf("Slice length mismatch: expected %d, got %d", len(memoryIDs), len(got))
	}

	for i, v := range memoryIDs {
		if got[i] != v {
			t.Errorf("Slice element %d mismatch: expected %s, got %s", i, v, got[i])
		}
	}
}
