package board

import (
	"fmt"
	"strings"
)

// Player is the colour of a stone and of the side to move.
type Player uint8

const (
	none Player = iota
	Black
	White
)

func (p Player) Opponent() Player {
	switch p {
	case Black:
		return White
	case White:
		return Black
	}
	return none
}

func (p Player) Valid() bool {
	return p == Black || p == White
}

func (p Player) String() string {
	switch p {
	case Black:
		return "black"
	case White:
		return "white"
	}
	return "none"
}

// Short returns the one-letter form used in snapshot rows.
func (p Player) Short() byte {
	switch p {
	case Black:
		return 'B'
	case White:
		return 'W'
	}
	return '.'
}

func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "black", "b":
		return Black, nil
	case "white", "w":
		return White, nil
	}
	return none, fmt.Errorf("unknown player %q", s)
}

func (p Player) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("marshal player %d", p)
	}
	return []byte(p.String()), nil
}

func (p *Player) UnmarshalText(text []byte) error {
	parsed, err := ParsePlayer(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
