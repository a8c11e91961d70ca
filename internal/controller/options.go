package controller

import (
	"fmt"
	"strconv"
	"strings"

	errs "goban/internal/errors"
)

const (
	OptionBoardSize  = "Board Size"
	OptionDifficulty = "Difficulty"
	OptionHandicap   = "Handicap"
	OptionClock      = "Clock"
)

// Option is one entry of a mode's settings menu. The first choice is the default.
type Option struct {
	Name    string   `json:"name"`
	Choices []string `json:"choices"`
}

func NewOption(name string, choices ...string) Option {
	return Option{Name: name, Choices: choices}
}

func (o Option) Default() string {
	return o.Choices[0]
}

func (o Option) allows(choice string) bool {
	for _, c := range o.Choices {
		if c == choice {
			return true
		}
	}
	return false
}

var (
	boardSizeOption  = NewOption(OptionBoardSize, "9x9", "13x13", "19x19")
	difficultyOption = NewOption(OptionDifficulty, "Easy", "Medium", "Hard")
	handicapOption   = NewOption(OptionHandicap, "0", "1", "2", "3", "4", "5", "6", "7", "8", "9")
	clockOption      = NewOption(OptionClock, "Blitz", "Rapid", "None")
)

// Settings are the parsed options of a game.
type Settings struct {
	BoardSize  int     `json:"board_size" bson:"board_size"`
	Handicap   int     `json:"handicap" bson:"handicap"`
	Difficulty string  `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
	Clock      string  `json:"clock,omitempty" bson:"clock,omitempty"`
	Komi       float64 `json:"komi" bson:"komi"`
}

// ParseSettings validates raw menu selections for mode. Missing options take their default.
func ParseSettings(mode Mode, selected map[string]string) (Settings, error) {
	menu, err := Options(mode)
	if err != nil {
		return Settings{}, err
	}

	known := make(map[string]Option, len(menu))
	for _, opt := range menu {
		known[opt.Name] = opt
	}
	for name, choice := range selected {
		opt, ok := known[name]
		if !ok {
			return Settings{}, fmt.Errorf("%w: %q is not an option of %s", errs.ErrInvalidOption, name, mode)
		}
		if !opt.allows(choice) {
			return Settings{}, fmt.Errorf("%w: %q is not a choice of %q", errs.ErrInvalidOption, choice, name)
		}
	}

	value := func(o Option) string {
		if v, ok := selected[o.Name]; ok {
			return v
		}
		return o.Default()
	}

	var s Settings
	s.BoardSize, err = parseBoardSize(value(boardSizeOption))
	if err != nil {
		return Settings{}, err
	}
	if _, ok := known[OptionHandicap]; ok {
		s.Handicap, _ = strconv.Atoi(value(handicapOption))
	}
	if _, ok := known[OptionDifficulty]; ok {
		s.Difficulty = value(difficultyOption)
	}
	if _, ok := known[OptionClock]; ok {
		s.Clock = value(clockOption)
	}
	s.Komi = komiFor(s.Handicap)
	return s, nil
}

// parseBoardSize reads the "19x19" menu form.
func parseBoardSize(v string) (int, error) {
	side, _, _ := strings.Cut(v, "x")
	n, err := strconv.Atoi(side)
	if err != nil {
		return 0, fmt.Errorf("%w: board size %q", errs.ErrInvalidOption, v)
	}
	return n, nil
}

func komiFor(handicap int) float64 {
	if handicap > 0 {
		return 0.5
	}
	return 6.5
}
