package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/redis/go-redis/v9"

	"github.com/amas-erp/supplier-portal/modules/purchasing/domain/entities/viewstate"
	"github.com/amas-erp/supplier-portal/modules/purchasing/infrastructure/persistence/models"
)

func toDBPanelState(s viewstate.PanelState) models.PanelState {
	return models.PanelState{Collapsed: s.Collapsed, Confirming: s.Confirming, Editing: s.Editing}
}

func toDomainPanelState(m models.PanelState) viewstate.PanelState {
	return viewstate.PanelState{Collapsed: m.Collapsed, Confirming: m.Confirming, Editing: m.Editing}
}

// RedisViewStateRepository keeps one hash per session, keyed by POID.
// The hash expires ttl after its last write.
type RedisViewStateRepository struct {
	redis  *redis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisViewStateRepository(client *redis.Client, ttl time.Duration) *RedisViewStateRepository {
	return &RedisViewStateRepository{redis: client, prefix: "purchasing:viewstate:v1", ttl: ttl}
}

func (r *RedisViewStateRepository) Load(ctx context.Context, sessionID string) (viewstate.Board, error) {
	key, err := r.hashKey(sessionID)
	if err != nil {
		return nil, err
	}
	result, err := r.redis.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, errors.Wrap(err, "load view state")
	}
	board := make(viewstate.Board, len(result))
	for field, value := range result {
		poid, err := strconv.ParseInt(field, 10, 64)
		if err != nil {
			continue
		}
		var model models.PanelState
		if err := json.Unmarshal([]byte(value), &model); err != nil {
			continue
		}
		board[poid] = toDomainPanelState(model)
	}
	return board, nil
}

func (r *RedisViewStateRepository) Save(ctx context.Context, sessionID string, poid int64, state viewstate.PanelState) error {
	key, err := r.hashKey(sessionID)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(toDBPanelState(state))
	if err != nil {
		return err
	}
	pipe := r.redis.TxPipeline()
	pipe.HSet(ctx, key, strconv.FormatInt(poid, 10), raw)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "save view state")
	}
	return nil
}

func (r *RedisViewStateRepository) Clear(ctx context.Context, sessionID string) error {
	key, err := r.hashKey(sessionID)
	if err != nil {
		return err
	}
	return r.redis.Del(ctx, key).Err()
}

func (r *RedisViewStateRepository) hashKey(sessionID string) (string, error) {
	if sessionID == "" {
		return "", viewstate.ErrNoSession
	}
	return fmt.Sprintf("%s:{%s}", r.prefix, sessionID), nil
}

// MemoryViewStateRepository is used when no Redis URL is configured.
// State does not survive a restart.
type MemoryViewStateRepository struct {
	mu       sync.RWMutex
	sessions map[string]viewstate.Board
}

func NewMemoryViewStateRepository() *MemoryViewStateRepository {
	return &MemoryViewStateRepository{sessions: map[string]viewstate.Board{}}
}

func (r *MemoryViewStateRepository) Load(_ context.Context, sessionID string) (viewstate.Board, error) {
	if sessionID == "" {
		return nil, viewstate.ErrNoSession
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	board := make(viewstate.Board, len(r.sessions[sessionID]))
	for poid, s := range r.sessions[sessionID] {
		board[poid] = s
	}
	return board, nil
}

func (r *MemoryViewStateRepository) Save(_ context.Context, sessionID string, poid int64, state viewstate.PanelState) error {
	if sessionID == "" {
		return viewstate.ErrNoSession
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	board, ok := r.sessions[sessionID]
	if !ok {
		board = viewstate.Board{}
		r.sessions[sessionID] = board
	}
	board[poid] = state
	return nil
}

func (r *MemoryViewStateRepository) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
	return nil
}
