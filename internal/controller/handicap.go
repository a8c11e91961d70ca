package controller

import (
	"fmt"

	"goban/internal/domain/board"
	errs "goban/internal/errors"
)

const MaxHandicap = 9

// handicapPoints lists the star points for n stones in the usual placement order.
func handicapPoints(size, n int) ([]board.Point, error) {
	if n < 2 {
		return nil, nil
	}
	if n > MaxHandicap {
		return nil, fmt.Errorf("%w: handicap %d", errs.ErrInvalidOption, n)
	}

	var edge int
	switch {
	case size >= 13:
		edge = 3
	case size >= 7:
		edge = 2
	default:
		return nil, fmt.Errorf("%w: no handicap on %dx%d", errs.ErrInvalidOption, size, size)
	}
	lo, mid, hi := edge, size/2, size-1-edge

	corners := []board.Point{{X: hi, Y: lo}, {X: lo, Y: hi}, {X: hi, Y: hi}, {X: lo, Y: lo}}
	center := board.Point{X: mid, Y: mid}
	sides := []board.Point{{X: lo, Y: mid}, {X: hi, Y: mid}}
	topBottom := []board.Point{{X: mid, Y: lo}, {X: mid, Y: hi}}

	switch n {
	case 2, 3, 4:
		return corners[:n], nil
	case 5:
		return append(corners, center), nil
	case 6:
		return append(corners, sides...), nil
	case 7:
		return append(append(corners, sides...), center), nil
	case 8:
		return append(append(corners, sides...), topBottom...), nil
	default:
		return append(append(append(corners, sides...), topBottom...), center), nil
	}
}

// placeHandicap seeds the black stones; with two or more White moves first.
func placeHandicap(state *board.BoardState, n int) error {
	pts, err := handicapPoints(state.Size(), n)
	if err != nil {
		return err
	}
	for _, pt := range pts {
		if err := state.Seed(pt, board.Black); err != nil {
			return fmt.Errorf("seed handicap %s: %w", pt, err)
		}
	}
	if len(pts) > 0 {
		return state.SetCurrentPlayer(board.White)
	}
	return nil
}
