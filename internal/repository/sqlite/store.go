// Package sqlite provides a SQLite-backed game record store.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"goban/internal/controller"
	"goban/internal/domain/board"
	"goban/internal/domain/game"
	"goban/internal/errors"
)

//go:embed schema.sql
var schema string

// Store persists game records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens the database at path and creates the schema if needed.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *Store) PutGame(ctx context.Context, gameData game.Game) error {
	settings, err := json.Marshal(gameData.Settings)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
INSERT INTO games (id, name, mode, settings, status, player_black, player_white, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		gameData.ID, gameData.Name, string(gameData.Mode), string(settings), gameData.Status,
		gameData.PlayerBlack, gameData.PlayerWhite, toMillis(gameData.CreatedAt), toMillis(gameData.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert game: %w", err)
	}
	for i, m := range gameData.Moves {
		if err = insertMove(ctx, tx, gameData.ID, i+1, m); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetGame(ctx context.Context, gameID string) (game.Game, error) {
	row := s.sqlDB.QueryRowContext(ctx, `
SELECT id, name, mode, settings, status, player_black, player_white, created_at, updated_at
FROM games WHERE id = ?`, gameID)
	g, err := scanGame(row)
	if stderrors.Is(err, sql.ErrNoRows) {
		return game.Game{}, errors.ErrGameNotFound
	} else if err != nil {
		return game.Game{}, fmt.Errorf("get game %s: %w", gameID, err)
	}

	rows, err := s.sqlDB.QueryContext(ctx, `
SELECT color, x, y, played_at FROM moves WHERE game_id = ? ORDER BY seq`, gameID)
	if err != nil {
		return game.Game{}, fmt.Errorf("list moves of %s: %w", gameID, err)
	}
	defer rows.Close()

	g.Moves = []game.Move{}
	for rows.Next() {
		var (
			m        game.Move
			x, y     int
			playedAt int64
		)
		if err = rows.Scan(&m.Color, &x, &y, &playedAt); err != nil {
			return game.Game{}, fmt.Errorf("scan move: %w", err)
		}
		m.Point = board.Pt(x, y)
		m.PlayedAt = fromMillis(playedAt)
		g.Moves = append(g.Moves, m)
	}
	return g, rows.Err()
}

func (s *Store) AppendMove(ctx context.Context, gameID string, move game.Move) error {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx, `UPDATE games SET updated_at = ? WHERE id = ?`, toMillis(move.PlayedAt), gameID)
	if err != nil {
		return fmt.Errorf("touch game %s: %w", gameID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrGameNotFound
	}

	var seq int
	if err = tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM moves WHERE game_id = ?`, gameID).Scan(&seq); err != nil {
		return fmt.Errorf("next move seq: %w", err)
	}
	if err = insertMove(ctx, tx, gameID, seq, move); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) SetStatus(ctx context.Context, gameID string, status string) error {
	res, err := s.sqlDB.ExecContext(ctx, `UPDATE games SET status = ?, updated_at = ? WHERE id = ?`,
		status, toMillis(time.Now()), gameID)
	if err != nil {
		return fmt.Errorf("set status of game %s: %w", gameID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errors.ErrGameNotFound
	}
	return nil
}

// ListGames returns games with status (all for ""), oldest first, without their moves.
func (s *Store) ListGames(ctx context.Context, status string) ([]game.Game, error) {
	query := `
SELECT id, name, mode, settings, status, player_black, player_white, created_at, updated_at
FROM games`
	var args []any
	if status != "" {
		query += ` WHERE status = ?`
		args = append(args, status)
	}
	query += ` ORDER BY created_at, id`

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list games: %w", err)
	}
	defer rows.Close()

	out := []game.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("scan game: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanGame(row scanner) (game.Game, error) {
	var (
		g                    game.Game
		mode, settings       string
		createdAt, updatedAt int64
	)
	err := row.Scan(&g.ID, &g.Name, &mode, &settings, &g.Status, &g.PlayerBlack, &g.PlayerWhite, &createdAt, &updatedAt)
	if err != nil {
		return game.Game{}, err
	}
	if err = json.Unmarshal([]byte(settings), &g.Settings); err != nil {
		return game.Game{}, fmt.Errorf("unmarshal settings: %w", err)
	}
	g.Mode = controller.Mode(mode)
	g.CreatedAt = fromMillis(createdAt)
	g.UpdatedAt = fromMillis(updatedAt)
	return g, nil
}

func insertMove(ctx context.Context, tx *sql.Tx, gameID string, seq int, m game.Move) error {
	_, err := tx.ExecContext(ctx, `
INSERT INTO moves (game_id, seq, color, x, y, played_at) VALUES (?, ?, ?, ?, ?, ?)`,
		gameID, seq, m.Color, m.Point.X, m.Point.Y, toMillis(m.PlayedAt))
	if err != nil {
		return fmt.Errorf("insert move %d: %w", seq, err)
	}
	return nil
}
