package selection

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/kioskoapp/kiosko-backend/pkg/errors"
	"github.com/kioskoapp/kiosko-backend/pkg/redis"
)

// sessionStore is the slice of the redis client the store needs.
type sessionStore interface {
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, error)
	Del(ctx context.Context, keys ...string) error
	SelectionKey(sessionID, menuItemID string) string
}

// Store keeps one State per (session, menu item) in redis with a sliding
// TTL. The engine itself never touches it; handlers load, mutate through the
// engine, then save.
type Store struct {
	redis sessionStore
	ttl   time.Duration
}

// NewStore wires the session store. ttl guards abandoned sessions.
func NewStore(client sessionStore, ttl time.Duration) (*Store, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("session ttl must be positive")
	}
	return &Store{redis: client, ttl: ttl}, nil
}

// Save persists the state and refreshes its TTL.
func (s *Store) Save(ctx context.Context, sessionID string, state State) error {
	if sessionID == "" {
		return apperrors.New(apperrors.CodeValidation, "session id is required")
	}
	payload, err := json.Marshal(state)
	if err != nil {
		return apperrors.Wrap(apperrors.CodeInternal, err, "encoding selection state")
	}
	key := s.redis.SelectionKey(sessionID, state.MenuItemID.String())
	if err := s.redis.Set(ctx, key, string(payload), s.ttl); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "storing selection state")
	}
	return nil
}

// Load returns the stored state, or (nil, nil) when the session holds none.
func (s *Store) Load(ctx context.Context, sessionID string, menuItemID uuid.UUID) (*State, error) {
	if sessionID == "" {
		return nil, apperrors.New(apperrors.CodeValidation, "session id is required")
	}
	key := s.redis.SelectionKey(sessionID, menuItemID.String())
	payload, err := s.redis.Get(ctx, key)
	if err != nil {
		if redis.IsNil(err) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.CodeDependency, err, "loading selection state")
	}
	var state State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeInternal, err, "decoding selection state")
	}
	return &state, nil
}

// Delete drops the session's state for one menu item.
func (s *Store) Delete(ctx context.Context, sessionID string, menuItemID uuid.UUID) error {
	if sessionID == "" {
		return apperrors.New(apperrors.CodeValidation, "session id is required")
	}
	key := s.redis.SelectionKey(sessionID, menuItemID.String())
	if err := s.redis.Del(ctx, key); err != nil {
		return apperrors.Wrap(apperrors.CodeDependency, err, "deleting selection state")
	}
	return nil
}
