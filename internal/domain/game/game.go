package game

import (
	"time"

	"goban/internal/controller"
	"goban/internal/domain/board"
)

const (
	StatusActive = "active"
	StatusClosed = "closed"
)

type Game struct {
	ID          string              `json:"id" bson:"_id"`
	Name        string              `json:"name" bson:"name"`
	Mode        controller.Mode     `json:"mode" bson:"mode"`
	Settings    controller.Settings `json:"settings" bson:"settings"`
	Status      string              `json:"status" bson:"status"`
	PlayerBlack string              `json:"player_black" bson:"player_black"`
	PlayerWhite string              `json:"player_white" bson:"player_white"`
	Moves       []Move              `json:"moves" bson:"moves"`
	CreatedAt   time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at" bson:"updated_at"`
}

// Move is one accepted move of the record. Replaying Moves in order rebuilds the board.
type Move struct {
	Color    string      `json:"color" bson:"color"`
	Point    board.Point `json:"point" bson:"point"`
	PlayedAt time.Time   `json:"played_at" bson:"played_at"`
}

type CreateGameRequest struct {
	Mode        string            `json:"mode"`
	Options     map[string]string `json:"options,omitempty"`
	PlayerBlack string            `json:"player_black,omitempty"`
	PlayerWhite string            `json:"player_white,omitempty"`
}

type MoveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

type GameStateResponse struct {
	Game     Game           `json:"game"`
	Snapshot board.Snapshot `json:"snapshot"`
}

type MoveResponse struct {
	Result   board.MoveResult `json:"result"`
	Snapshot board.Snapshot   `json:"snapshot"`
}

type ModeResponse struct {
	Mode    controller.Mode     `json:"mode"`
	Options []controller.Option `json:"options"`
}

// BoardEvent is pushed to watchers after every accepted move.
type BoardEvent struct {
	GameID   string            `json:"game_id"`
	Move     *board.MoveResult `json:"move,omitempty"`
	Snapshot board.Snapshot    `json:"snapshot"`
}
