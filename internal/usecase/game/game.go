package game

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"sync"
	"time"

	petname "github.com/dustinkirkland/golang-petname"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"goban/internal/controller"
	"goban/internal/domain/board"
	"goban/internal/domain/game"
	"goban/internal/errors"
)

type GameStore interface {
	PutGame(ctx context.Context, gameData game.Game) error
	GetGame(ctx context.Context, gameID string) (game.Game, error)
	AppendMove(ctx context.Context, gameID string, move game.Move) error
	SetStatus(ctx context.Context, gameID string, status string) error
	ListGames(ctx context.Context, status string) ([]game.Game, error)
}

type SnapshotCache interface {
	SaveSnapshot(ctx context.Context, gameID string, snap board.Snapshot) error
	LoadSnapshot(ctx context.Context, gameID string) (board.Snapshot, error)
	DeleteSnapshot(ctx context.Context, gameID string) error
}

const watcherBuffer = 16

type GameUseCase struct {
	store GameStore
	cache SnapshotCache
	log   *zap.SugaredLogger
	now   func() time.Time

	mu   sync.Mutex
	live map[string]*liveGame

	// closedIDs holds games closed by this process. A cold load that read the record
	// before the close must not bring the game back.
	closedIDs map[string]struct{}
}

// liveGame is a game with its board in memory. mu serializes every access to ctrl,
// so one move is in flight at a time and readers see the state between moves.
// A stale game has left g.live. Unless it is also closed, callers rebuild it from the store.
type liveGame struct {
	mu       sync.Mutex
	record   game.Game
	ctrl     *controller.Controller
	watchers map[chan game.BoardEvent]struct{}
	closed   bool
	stale    bool
}

func NewGameUseCase(store GameStore, cache SnapshotCache, log *zap.SugaredLogger) *GameUseCase {
	return &GameUseCase{
		store: store,
		cache: cache,
		log:   log,
		now:   time.Now,
		live:  make(map[string]*liveGame),

		closedIDs: make(map[string]struct{}),
	}
}

func (g *GameUseCase) Modes() []game.ModeResponse {
	out := make([]game.ModeResponse, 0, len(controller.Modes))
	for _, m := range controller.Modes {
		opts, _ := controller.Options(m)
		out = append(out, game.ModeResponse{Mode: m, Options: opts})
	}
	return out
}

func (g *GameUseCase) CreateGame(ctx context.Context, req game.CreateGameRequest) (game.Game, board.Snapshot, error) {
	mode, err := controller.ParseMode(req.Mode)
	if err != nil {
		return game.Game{}, board.Snapshot{}, err
	}
	ctrl, err := controller.New(mode, req.Options)
	if err != nil {
		return game.Game{}, board.Snapshot{}, err
	}

	now := g.now().UTC()
	record := game.Game{
		ID:          uuid.New().String(),
		Name:        petname.Generate(2, "-"),
		Mode:        mode,
		Settings:    ctrl.Settings(),
		Status:      game.StatusActive,
		PlayerBlack: playerName(req.PlayerBlack),
		PlayerWhite: playerName(req.PlayerWhite),
		Moves:       []game.Move{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err = g.store.PutGame(ctx, record); err != nil {
		g.log.Errorf("failed to store game: %v", err)
		return game.Game{}, board.Snapshot{}, fmt.Errorf("%w: %v", errors.ErrCreateGameFailed, err)
	}

	lg := &liveGame{record: record, ctrl: ctrl, watchers: make(map[chan game.BoardEvent]struct{})}
	g.mu.Lock()
	g.live[record.ID] = lg
	g.mu.Unlock()

	snap := ctrl.Snapshot()
	g.saveSnapshot(ctx, record.ID, snap)
	g.log.Infof("game %s (%s, %s, %dx%d) created", record.ID, record.Name, mode, snap.Size, snap.Size)
	return record, snap, nil
}

func (g *GameUseCase) GetGame(ctx context.Context, gameID string) (game.Game, board.Snapshot, error) {
	lg, err := g.acquire(ctx, gameID)
	if err != nil {
		return game.Game{}, board.Snapshot{}, err
	}
	defer lg.mu.Unlock()
	return copyRecord(lg.record), lg.ctrl.Snapshot(), nil
}

// Snapshot prefers the cached board so renderers do not force a replay.
func (g *GameUseCase) Snapshot(ctx context.Context, gameID string) (board.Snapshot, error) {
	if snap, err := g.cache.LoadSnapshot(ctx, gameID); err == nil {
		return snap, nil
	} else if !stderrors.Is(err, errors.ErrSnapshotMissing) {
		g.log.Errorf("failed to load snapshot of game %s: %v", gameID, err)
	}
	_, snap, err := g.GetGame(ctx, gameID)
	return snap, err
}

func (g *GameUseCase) ListGames(ctx context.Context, status string) ([]game.Game, error) {
	games, err := g.store.ListGames(ctx, status)
	if err != nil {
		g.log.Errorf("failed to list games: %v", err)
		return nil, fmt.Errorf("%w: %v", errors.ErrInternal, err)
	}
	return games, nil
}

// PlayMove asks the board to play pt for the side to move. Rejections are returned
// unwrapped so callers can match them with errors.Is.
func (g *GameUseCase) PlayMove(ctx context.Context, gameID string, pt board.Point) (board.MoveResult, board.Snapshot, error) {
	lg, err := g.acquire(ctx, gameID)
	if err != nil {
		return board.MoveResult{}, board.Snapshot{}, err
	}
	defer lg.mu.Unlock()

	res, err := lg.ctrl.TryPlay(pt)
	if err != nil {
		if board.IsRejection(err) {
			g.log.Infof("game %s: %s at %s rejected: %s", gameID, lg.ctrl.CurrentPlayer(), pt, board.RejectionCode(err))
		}
		return board.MoveResult{}, board.Snapshot{}, err
	}

	move := game.Move{Color: res.Player.String(), Point: pt, PlayedAt: g.now().UTC()}
	if err = g.store.AppendMove(ctx, gameID, move); err != nil {
		// The board is ahead of the record now; drop it and rebuild from the store next time.
		g.log.Errorf("failed to store move of game %s: %v", gameID, err)
		g.evict(gameID, lg, false)
		return board.MoveResult{}, board.Snapshot{}, fmt.Errorf("%w: %v", errors.ErrInternal, err)
	}
	lg.record.Moves = append(lg.record.Moves, move)
	lg.record.UpdatedAt = move.PlayedAt

	snap := lg.ctrl.Snapshot()
	g.saveSnapshot(ctx, gameID, snap)
	lg.publish(game.BoardEvent{GameID: gameID, Move: &res, Snapshot: snap})

	g.log.Infof("game %s: %s played %s, captured %d", gameID, res.Player, pt, len(res.Captured))
	return res, snap, nil
}

// CloseGame marks the game closed and discards its board.
func (g *GameUseCase) CloseGame(ctx context.Context, gameID string) error {
	lg, err := g.acquire(ctx, gameID)
	if err != nil {
		return err
	}
	defer lg.mu.Unlock()

	if err = g.store.SetStatus(ctx, gameID, game.StatusClosed); err != nil {
		g.log.Errorf("failed to close game %s: %v", gameID, err)
		return fmt.Errorf("%w: %v", errors.ErrInternal, err)
	}
	if err = g.cache.DeleteSnapshot(ctx, gameID); err != nil {
		g.log.Errorf("failed to drop snapshot of game %s: %v", gameID, err)
	}
	g.evict(gameID, lg, true)
	g.log.Infof("game %s closed after %d moves", gameID, len(lg.record.Moves))
	return nil
}

// Subscribe returns a feed of board events. The first event carries the current board.
// The feed is closed when the game closes, when it is evicted, or when the watcher falls
// behind. Closed tells a real close apart from the other two.
func (g *GameUseCase) Subscribe(ctx context.Context, gameID string) (<-chan game.BoardEvent, func(), error) {
	lg, err := g.acquire(ctx, gameID)
	if err != nil {
		return nil, nil, err
	}
	defer lg.mu.Unlock()

	ch := make(chan game.BoardEvent, watcherBuffer)
	ch <- game.BoardEvent{GameID: gameID, Snapshot: lg.ctrl.Snapshot()}
	lg.watchers[ch] = struct{}{}

	cancel := func() {
		lg.mu.Lock()
		defer lg.mu.Unlock()
		if _, ok := lg.watchers[ch]; ok {
			delete(lg.watchers, ch)
			close(ch)
		}
	}
	return ch, cancel, nil
}

// Closed reports whether this process closed the game.
func (g *GameUseCase) Closed(gameID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.closedIDs[gameID]
	return ok
}

// acquire returns the live game with lg.mu held. A game evicted while the caller
// waited for the lock is rebuilt from the store.
func (g *GameUseCase) acquire(ctx context.Context, gameID string) (*liveGame, error) {
	for {
		lg, err := g.load(ctx, gameID)
		if err != nil {
			return nil, err
		}
		lg.mu.Lock()
		switch {
		case lg.closed:
			lg.mu.Unlock()
			return nil, errors.ErrGameClosed
		case lg.stale:
			lg.mu.Unlock()
			if err = ctx.Err(); err != nil {
				return nil, err
			}
			continue
		}
		return lg, nil
	}
}

func (g *GameUseCase) load(ctx context.Context, gameID string) (*liveGame, error) {
	g.mu.Lock()
	lg, ok := g.live[gameID]
	_, closed := g.closedIDs[gameID]
	g.mu.Unlock()
	if ok {
		return lg, nil
	}
	if closed {
		return nil, errors.ErrGameClosed
	}

	record, err := g.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if record.Status == game.StatusClosed {
		return nil, errors.ErrGameClosed
	}
	ctrl, err := replay(record)
	if err != nil {
		g.log.Errorf("failed to rebuild game %s: %v", gameID, err)
		return nil, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.closedIDs[gameID]; ok {
		return nil, errors.ErrGameClosed
	}
	if existing, ok := g.live[gameID]; ok {
		return existing, nil
	}
	lg = &liveGame{record: record, ctrl: ctrl, watchers: make(map[chan game.BoardEvent]struct{})}
	g.live[gameID] = lg
	g.log.Infof("game %s rebuilt from %d stored moves", gameID, len(record.Moves))
	return lg, nil
}

// evict must be called with lg.mu held. Without closed the game stays open in the
// store and the next caller rebuilds it.
func (g *GameUseCase) evict(gameID string, lg *liveGame, closed bool) {
	lg.stale = true
	lg.closed = closed
	for ch := range lg.watchers {
		delete(lg.watchers, ch)
		close(ch)
	}
	g.mu.Lock()
	if g.live[gameID] == lg {
		delete(g.live, gameID)
	}
	if closed {
		g.closedIDs[gameID] = struct{}{}
	}
	g.mu.Unlock()
}

func (g *GameUseCase) saveSnapshot(ctx context.Context, gameID string, snap board.Snapshot) {
	if err := g.cache.SaveSnapshot(ctx, gameID, snap); err != nil {
		g.log.Errorf("failed to cache snapshot of game %s: %v", gameID, err)
	}
}

// publish must be called with lg.mu held. A full watcher is dropped rather than waited for.
func (lg *liveGame) publish(ev game.BoardEvent) {
	for ch := range lg.watchers {
		select {
		case ch <- ev:
		default:
			delete(lg.watchers, ch)
			close(ch)
		}
	}
}

func replay(record game.Game) (*controller.Controller, error) {
	ctrl, err := controller.NewWithSettings(record.Mode, record.Settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCorruptRecord, err)
	}
	for i, m := range record.Moves {
		if ctrl.CurrentPlayer().String() != m.Color {
			return nil, fmt.Errorf("%w: move %d is %s, expected %s", errors.ErrCorruptRecord, i+1, m.Color, ctrl.CurrentPlayer())
		}
		if _, err = ctrl.TryPlay(m.Point); err != nil {
			return nil, fmt.Errorf("%w: move %d at %s: %v", errors.ErrCorruptRecord, i+1, m.Point, err)
		}
	}
	return ctrl, nil
}

func playerName(name string) string {
	if name = strings.TrimSpace(name); name != "" {
		return name
	}
	return petname.Generate(2, " ")
}

func copyRecord(r game.Game) game.Game {
	moves := make([]game.Move, len(r.Moves))
	copy(moves, r.Moves)
	r.Moves = moves
	return r
}
