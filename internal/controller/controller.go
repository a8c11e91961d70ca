// Package controller owns the board of one game and the menu of options its mode offers.
package controller

import (
	"fmt"

	"goban/internal/domain/board"
	errs "goban/internal/errors"
)

// Mode is the closed set of ways a game can be hosted.
type Mode string

const (
	ModeTwoPlayer Mode = "two_player"
	ModeOnePlayer Mode = "one_player"
	ModeOnline    Mode = "online"
)

var Modes = []Mode{ModeTwoPlayer, ModeOnePlayer, ModeOnline}

func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", errs.ErrInvalidMode, s)
	}
	return m, nil
}

func (m Mode) Valid() bool {
	switch m {
	case ModeTwoPlayer, ModeOnePlayer, ModeOnline:
		return true
	}
	return false
}

// Options returns the settings menu of mode.
func Options(m Mode) ([]Option, error) {
	switch m {
	case ModeTwoPlayer:
		return []Option{boardSizeOption, handicapOption}, nil
	case ModeOnePlayer:
		return []Option{boardSizeOption, difficultyOption, handicapOption}, nil
	case ModeOnline:
		return []Option{boardSizeOption, clockOption}, nil
	}
	return nil, fmt.Errorf("%w: %q", errs.ErrInvalidMode, m)
}

// Controller is the only caller of BoardState.AttemptMove. Every mode applies moves
// locally; the bot and the remote clock of the other modes are not driven from here.
type Controller struct {
	mode     Mode
	settings Settings
	state    *board.BoardState
}

func New(mode Mode, selected map[string]string) (*Controller, error) {
	settings, err := ParseSettings(mode, selected)
	if err != nil {
		return nil, err
	}
	return NewWithSettings(mode, settings)
}

func NewWithSettings(mode Mode, settings Settings) (*Controller, error) {
	if !mode.Valid() {
		return nil, fmt.Errorf("%w: %q", errs.ErrInvalidMode, mode)
	}
	state, err := board.New(settings.BoardSize, settings.Komi)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrInvalidOption, err)
	}
	if err = placeHandicap(state, settings.Handicap); err != nil {
		return nil, err
	}
	return &Controller{mode: mode, settings: settings, state: state}, nil
}

func (c *Controller) Mode() Mode { return c.mode }
func (c *Controller) Settings() Settings { return c.settings }
func (c *Controller) Snapshot() board.Snapshot { return c.state.Snapshot() }

func (c *Controller) CurrentPlayer() board.Player {
	return c.state.CurrentPlayer()
}

func (c *Controller) TryPlay(pt board.Point) (board.MoveResult, error) {
	return c.state.AttemptMove(pt)
}
