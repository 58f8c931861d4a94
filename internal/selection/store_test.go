package selection

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
)

type memorySessionStore struct {
	values map[string]string
	ttls   map[string]time.Duration
}

func newMemorySessionStore() *memorySessionStore {
	return &memorySessionStore{
		values: make(map[string]string),
		ttls:   make(map[string]time.Duration),
	}
}

func (m *memorySessionStore) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	m.values[key] = value.(string)
	m.ttls[key] = ttl
	return nil
}

func (m *memorySessionStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := m.values[key]
	if !ok {
		return "", goredis.Nil
	}
	return value, nil
}

func (m *memorySessionStore) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.values, key)
	}
	return nil
}

func (m *memorySessionStore) SelectionKey(sessionID, menuItemID string) string {
	return "kiosko:selection:" + sessionID + ":" + menuItemID
}

func TestStoreRoundTrip(t *testing.T) {
	t.Parallel()

	mem := newMemorySessionStore()
	store, err := NewStore(mem, 2*time.Hour)
	if err != nil {
		t.Fatalf("store constructor failed: %v", err)
	}

	ctx := context.Background()
	itemID := uuid.New()
	groupID := uuid.New()
	optionID := uuid.New()
	state := State{
		MenuItemID: itemID,
		Selections: map[uuid.UUID][]uuid.UUID{groupID: {optionID}},
		Addons:     map[uuid.UUID]bool{},
		Quantity:   2,
	}

	if err := store.Save(ctx, "sess-1", state); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if ttl := mem.ttls["kiosko:selection:sess-1:"+itemID.String()]; ttl != 2*time.Hour {
		t.Fatalf("expected 2h ttl, got %s", ttl)
	}

	loaded, err := store.Load(ctx, "sess-1", itemID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded == nil {
		t.Fatal("expected state, got nil")
	}
	if loaded.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", loaded.Quantity)
	}
	if got := loaded.Selections[groupID]; len(got) != 1 || got[0] != optionID {
		t.Fatalf("expected selection restored, got %v", got)
	}
}

func TestStoreLoadMissingReturnsNil(t *testing.T) {
	t.Parallel()

	store, err := NewStore(newMemorySessionStore(), time.Hour)
	if err != nil {
		t.Fatalf("store constructor failed: %v", err)
	}

	state, err := store.Load(context.Background(), "sess-1", uuid.New())
	if err != nil {
		t.Fatalf("expected missing key to be nil, got %v", err)
	}
	if state != nil {
		t.Fatalf("expected nil state, got %+v", state)
	}
}

func TestStoreDelete(t *testing.T) {
	t.Parallel()

	mem := newMemorySessionStore()
	store, err := NewStore(mem, time.Hour)
	if err != nil {
		t.Fatalf("store constructor failed: %v", err)
	}

	ctx := context.Background()
	itemID := uuid.New()
	state := State{MenuItemID: itemID, Quantity: 1}
	if err := store.Save(ctx, "sess-1", state); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := store.Delete(ctx, "sess-1", itemID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	loaded, err := store.Load(ctx, "sess-1", itemID)
	if err != nil || loaded != nil {
		t.Fatalf("expected state gone, got %+v / %v", loaded, err)
	}
}
