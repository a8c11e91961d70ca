// Package board holds the authoritative state of a Go board and decides whether a move is legal.
package board

import "fmt"

const (
	MinSize = 2
	MaxSize = 19

	DefaultKomi = 6.5
)

// BoardState is the aggregate root of one game. It is not safe for concurrent use;
// the owner serializes calls.
type BoardState struct {
	size int
	// grid is row major: grid[y*size+x]. The zero value is an empty cell.
	grid []Player

	current  Player
	lastMove *Point
	ko       *Point

	capturesByBlack int
	capturesByWhite int

	komi  float64
	moves int
}

// MoveResult describes the change made by a successful move.
type MoveResult struct {
	Point    Point   `json:"point"`
	Player   Player  `json:"player"`
	Captured []Point `json:"captured,omitempty"`
	KoPoint  *Point  `json:"ko_point,omitempty"`
}

func New(size int, komi float64) (*BoardState, error) {
	if size < MinSize || size > MaxSize {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSize, size)
	}
	return &BoardState{
		size:    size,
		grid:    make([]Player, size*size),
		current: Black,
		komi:    komi,
	}, nil
}

func (s *BoardState) Size() int { return s.size }
func (s *BoardState) Komi() float64 { return s.komi }
func (s *BoardState) CurrentPlayer() Player { return s.current }
func (s *BoardState) MoveCount() int { return s.moves }
func (s *BoardState) LastMove() (Point, bool) { return deref(s.lastMove) }
func (s *BoardState) KoPoint() (Point, bool) { return deref(s.ko) }

func (s *BoardState) CapturesBy(p Player) int {
	switch p {
	case Black:
		return s.capturesByBlack
	case White:
		return s.capturesByWhite
	}
	return 0
}

// StoneAt returns the stone on pt. The bool is false for an empty cell.
func (s *BoardState) StoneAt(pt Point) (Player, bool, error) {
	if !s.inBounds(pt) {
		return none, false, ErrOutOfBounds
	}
	p := s.at(pt)
	return p, p != none, nil
}

// Seed puts a stone on the board without playing a move. It is meant for handicaps and
// test positions and fails once the first move has been played.
func (s *BoardState) Seed(pt Point, p Player) error {
	if s.moves > 0 {
		return ErrGameStarted
	}
	if !p.Valid() {
		return ErrNoPlayer
	}
	if !s.inBounds(pt) {
		return ErrOutOfBounds
	}
	if s.at(pt) != none {
		return ErrCellOccupied
	}
	s.set(pt, p)
	return nil
}

// SetCurrentPlayer chooses who moves first. Like Seed it is setup only.
func (s *BoardState) SetCurrentPlayer(p Player) error {
	if s.moves > 0 {
		return ErrGameStarted
	}
	if !p.Valid() {
		return ErrNoPlayer
	}
	s.current = p
	return nil
}

// AttemptMove plays a stone for the current player on pt. On any error the state is unchanged.
func (s *BoardState) AttemptMove(pt Point) (MoveResult, error) {
	if !s.inBounds(pt) {
		return MoveResult{}, ErrOutOfBounds
	}
	if s.at(pt) != none {
		return MoveResult{}, ErrCellOccupied
	}
	if s.ko != nil && *s.ko == pt {
		return MoveResult{}, ErrKoViolation
	}

	mover := s.current
	opponent := mover.Opponent()
	s.set(pt, mover)

	// Dead groups are collected first so every neighbour is judged on the same board.
	var captured []Point
	seen := make(map[Point]bool, 4)
	for _, n := range s.neighbors(pt) {
		if s.at(n) != opponent || seen[n] {
			continue
		}
		g := s.group(n)
		for _, stone := range g.stones {
			seen[stone] = true
		}
		if len(g.liberties) == 0 {
			captured = append(captured, g.stones...)
		}
	}
	for _, c := range captured {
		s.set(c, none)
	}

	own := s.group(pt)
	if len(own.liberties) == 0 {
		// A capture always frees a neighbour of pt, so captured is empty here.
		s.set(pt, none)
		return MoveResult{}, ErrSelfCapture
	}

	switch mover {
	case Black:
		s.capturesByBlack += len(captured)
	case White:
		s.capturesByWhite += len(captured)
	}

	s.ko = nil
	if len(captured) == 1 && len(own.stones) == 1 && len(own.liberties) == 1 {
		ko := captured[0]
		s.ko = &ko
	}
	last := pt
	s.lastMove = &last
	s.current = opponent
	s.moves++

	res := MoveResult{Point: pt, Player: mover, Captured: captured}
	if s.ko != nil {
		ko := *s.ko
		res.KoPoint = &ko
	}
	return res, nil
}

func (s *BoardState) inBounds(pt Point) bool {
	return pt.X >= 0 && pt.X < s.size && pt.Y >= 0 && pt.Y < s.size
}

func (s *BoardState) at(pt Point) Player {
	return s.grid[pt.Y*s.size+pt.X]
}

func (s *BoardState) set(pt Point, p Player) {
	s.grid[pt.Y*s.size+pt.X] = p
}

func (s *BoardState) neighbors(pt Point) []Point {
	out := make([]Point, 0, 4)
	for _, d := range orthogonal {
		n := Point{X: pt.X + d.X, Y: pt.Y + d.Y}
		if s.inBounds(n) {
			out = append(out, n)
		}
	}
	return out
}

func deref(p *Point) (Point, bool) {
	if p == nil {
		return Point{}, false
	}
	return *p, true
}
