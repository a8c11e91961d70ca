package repo

import (
	"context"
	"sort"
	"sync"

	"goban/internal/domain/board"
	"goban/internal/domain/game"
	"goban/internal/errors"
)

// GameMapStorage keeps game records in process memory.
type GameMapStorage struct {
	mu    sync.RWMutex
	games map[string]game.Game
}

func NewGameMapStorage() *GameMapStorage {
	return &GameMapStorage{games: make(map[string]game.Game)}
}

func (s *GameMapStorage) PutGame(_ context.Context, gameData game.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[gameData.ID] = cloneGame(gameData)
	return nil
}

func (s *GameMapStorage) GetGame(_ context.Context, gameID string) (game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[gameID]
	if !ok {
		return game.Game{}, errors.ErrGameNotFound
	}
	return cloneGame(g), nil
}

func (s *GameMapStorage) AppendMove(_ context.Context, gameID string, move game.Move) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return errors.ErrGameNotFound
	}
	g.Moves = append(g.Moves, move)
	g.UpdatedAt = move.PlayedAt
	s.games[gameID] = g
	return nil
}

func (s *GameMapStorage) SetStatus(_ context.Context, gameID string, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.games[gameID]
	if !ok {
		return errors.ErrGameNotFound
	}
	g.Status = status
	s.games[gameID] = g
	return nil
}

// ListGames returns games with status (all games for ""), oldest first, without their moves.
func (s *GameMapStorage) ListGames(_ context.Context, status string) ([]game.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game.Game, 0, len(s.games))
	for _, g := range s.games {
		if status != "" && g.Status != status {
			continue
		}
		g.Moves = nil
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func cloneGame(g game.Game) game.Game {
	moves := make([]game.Move, len(g.Moves))
	copy(moves, g.Moves)
	g.Moves = moves
	return g
}

// SnapshotMapStorage is the in-process snapshot cache used when Redis is not configured.
type SnapshotMapStorage struct {
	mu        sync.RWMutex
	snapshots map[string]board.Snapshot
}

func NewSnapshotMapStorage() *SnapshotMapStorage {
	return &SnapshotMapStorage{snapshots: make(map[string]board.Snapshot)}
}

func (s *SnapshotMapStorage) SaveSnapshot(_ context.Context, gameID string, snap board.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[gameID] = snap
	return nil
}

func (s *SnapshotMapStorage) LoadSnapshot(_ context.Context, gameID string) (board.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[gameID]
	if !ok {
		return board.Snapshot{}, errors.ErrSnapshotMissing
	}
	return snap, nil
}

func (s *SnapshotMapStorage) DeleteSnapshot(_ context.Context, gameID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.snapshots, gameID)
	return nil
}
