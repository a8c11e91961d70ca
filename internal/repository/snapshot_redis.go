package repo

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"goban/internal/domain/board"
	"goban/internal/errors"
)

// RedisSnapshotStorage caches the latest board of each game as JSON.
type RedisSnapshotStorage struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSnapshotRedisStorage(client *redis.Client, ttl time.Duration) *RedisSnapshotStorage {
	return &RedisSnapshotStorage{client: client, ttl: ttl}
}

func snapshotKey(gameID string) string {
	return "goban:snapshot:" + gameID
}

func (r *RedisSnapshotStorage) SaveSnapshot(ctx context.Context, gameID string, snap board.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	return r.client.Set(ctx, snapshotKey(gameID), data, r.ttl).Err()
}

func (r *RedisSnapshotStorage) LoadSnapshot(ctx context.Context, gameID string) (board.Snapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(gameID)).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return board.Snapshot{}, errors.ErrSnapshotMissing
	} else if err != nil {
		return board.Snapshot{}, err
	}

	var snap board.Snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return board.Snapshot{}, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return snap, nil
}

func (r *RedisSnapshotStorage) DeleteSnapshot(ctx context.Context, gameID string) error {
	return r.client.Del(ctx, snapshotKey(gameID)).Err()
}
