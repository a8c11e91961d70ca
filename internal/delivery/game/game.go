package game

import (
	stderrors "errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"goban/internal/domain/board"
	"goban/internal/domain/game"
	"goban/internal/errors"
	"goban/internal/httpresponse"
	gameuc "goban/internal/usecase/game"
	"goban/internal/utils"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
)

type GameHandler struct {
	log    *zap.SugaredLogger
	gameUC *gameuc.GameUseCase
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func NewGameHandler(log *zap.SugaredLogger, gameUC *gameuc.GameUseCase) *GameHandler {
	return &GameHandler{
		log:    log,
		gameUC: gameUC,
	}
}

func (g *GameHandler) Routes(r chi.Router) {
	r.Get("/modes", g.HandleModes)
	r.Get("/games", g.HandleListGames)
	r.Post("/games", g.HandleNewGame)
	r.Get("/games/{gameID}", g.HandleGetGame)
	r.Delete("/games/{gameID}", g.HandleCloseGame)
	r.Post("/games/{gameID}/moves", g.HandlePlayMove)
	r.Get("/games/{gameID}/snapshot", g.HandleSnapshot)
	r.Get("/games/{gameID}/watch", g.HandleWatch)
}

func (g *GameHandler) HandleModes(w http.ResponseWriter, r *http.Request) {
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, g.gameUC.Modes())
}

func (g *GameHandler) HandleListGames(w http.ResponseWriter, r *http.Request) {
	status := r.URL.Query().Get("status")
	games, err := g.gameUC.ListGames(r.Context(), status)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, games)
}

func (g *GameHandler) HandleNewGame(w http.ResponseWriter, r *http.Request) {
	var req game.CreateGameRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Infof("new game: %v", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	record, snap, err := g.gameUC.CreateGame(r.Context(), req)
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusCreated, game.GameStateResponse{Game: record, Snapshot: snap})
}

func (g *GameHandler) HandleGetGame(w http.ResponseWriter, r *http.Request) {
	record, snap, err := g.gameUC.GetGame(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.GameStateResponse{Game: record, Snapshot: snap})
}

func (g *GameHandler) HandleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := g.gameUC.Snapshot(r.Context(), chi.URLParam(r, "gameID"))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, snap)
}

func (g *GameHandler) HandleCloseGame(w http.ResponseWriter, r *http.Request) {
	if err := g.gameUC.CloseGame(r.Context(), chi.URLParam(r, "gameID")); err != nil {
		g.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (g *GameHandler) HandlePlayMove(w http.ResponseWriter, r *http.Request) {
	var req game.MoveRequest
	if err := utils.DecodeJSONRequest(r, &req); err != nil {
		g.log.Infof("play move: %v", err)
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error(), "")
		return
	}

	res, snap, err := g.gameUC.PlayMove(r.Context(), chi.URLParam(r, "gameID"), board.Pt(req.X, req.Y))
	if err != nil {
		g.writeError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, game.MoveResponse{Result: res, Snapshot: snap})
}

// HandleWatch streams board events over a websocket. The feed is read only; anything
// the client sends is discarded.
func (g *GameHandler) HandleWatch(w http.ResponseWriter, r *http.Request) {
	gameID := chi.URLParam(r, "gameID")
	events, cancel, err := g.gameUC.Subscribe(r.Context(), gameID)
	if err != nil {
		g.writeError(w, err)
		return
	}
	defer cancel()

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Errorf("upgrade error: %v", err)
		return
	}
	defer conn.Close()

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-events:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, g.feedEndMessage(gameID))
				return
			}
			if err = conn.WriteJSON(ev); err != nil {
				g.log.Infof("watcher of game %s left: %v", gameID, err)
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err = conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-gone:
			return
		}
	}
}

// feedEndMessage tells watchers whether the game is over or they should reconnect.
func (g *GameHandler) feedEndMessage(gameID string) []byte {
	if g.gameUC.Closed(gameID) {
		return websocket.FormatCloseMessage(websocket.CloseNormalClosure, "game closed")
	}
	return websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "feed interrupted, reconnect")
}

func (g *GameHandler) writeError(w http.ResponseWriter, err error) {
	if code := board.RejectionCode(err); code != "" {
		httpresponse.WriteErrorWithStatus(w, http.StatusConflict, err.Error(), code)
		return
	}
	switch {
	case stderrors.Is(err, errors.ErrGameNotFound):
		httpresponse.WriteErrorWithStatus(w, http.StatusNotFound, err.Error(), "")
	case stderrors.Is(err, errors.ErrGameClosed):
		httpresponse.WriteErrorWithStatus(w, http.StatusGone, err.Error(), "")
	case stderrors.Is(err, errors.ErrInvalidMode), stderrors.Is(err, errors.ErrInvalidOption):
		httpresponse.WriteErrorWithStatus(w, http.StatusBadRequest, err.Error(), "")
	default:
		g.log.Errorf("request failed: %v", err)
		httpresponse.WriteInternalErrorResponse(w)
	}
}
