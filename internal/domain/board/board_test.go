package board

import (
	"encoding/json"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newState(t *testing.T, size int) *BoardState {
	t.Helper()
	s, err := New(size, DefaultKomi)
	require.NoError(t, err)
	return s
}

func seed(t *testing.T, s *BoardState, p Player, pts ...Point) {
	t.Helper()
	for _, pt := range pts {
		require.NoError(t, s.Seed(pt, p))
	}
}

func stone(t *testing.T, s *BoardState, pt Point) Player {
	t.Helper()
	p, _, err := s.StoneAt(pt)
	require.NoError(t, err)
	return p
}

func TestNewRejectsInvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 1, 20} {
		_, err := New(size, DefaultKomi)
		assert.ErrorIs(t, err, ErrInvalidSize, "size %d", size)
	}
}

func TestNewEmptyBoard(t *testing.T) {
	s := newState(t, 19)

	assert.Equal(t, 19, s.Size())
	assert.Equal(t, Black, s.CurrentPlayer())
	assert.Equal(t, DefaultKomi, s.Komi())
	_, ok := s.LastMove()
	assert.False(t, ok)
	_, ok = s.KoPoint()
	assert.False(t, ok)
	assert.Zero(t, s.CapturesBy(Black))
	assert.Zero(t, s.CapturesBy(White))

	for y := 0; y < 19; y++ {
		for x := 0; x < 19; x++ {
			_, occupied, err := s.StoneAt(Pt(x, y))
			require.NoError(t, err)
			require.False(t, occupied)
		}
	}
}

func TestStoneAtOutOfBounds(t *testing.T) {
	s := newState(t, 9)
	for _, pt := range []Point{{-1, 0}, {0, -1}, {9, 0}, {0, 9}, {100, 100}} {
		_, _, err := s.StoneAt(pt)
		assert.ErrorIs(t, err, ErrOutOfBounds, "point %s", pt)
	}
}

func TestFirstMove(t *testing.T) {
	s := newState(t, 19)

	res, err := s.AttemptMove(Pt(9, 9))
	require.NoError(t, err)

	assert.Equal(t, Pt(9, 9), res.Point)
	assert.Equal(t, Black, res.Player)
	assert.Empty(t, res.Captured)
	assert.Nil(t, res.KoPoint)

	assert.Equal(t, White, s.CurrentPlayer())
	last, ok := s.LastMove()
	require.True(t, ok)
	assert.Equal(t, Pt(9, 9), last)
	assert.Equal(t, Black, stone(t, s, Pt(9, 9)))
	assert.Zero(t, s.CapturesBy(Black))
	assert.Zero(t, s.CapturesBy(White))
	assert.Equal(t, 1, s.MoveCount())
}

func TestSingleStoneCapture(t *testing.T) {
	s := newState(t, 19)
	seed(t, s, Black, Pt(9, 10), Pt(10, 9), Pt(11, 10))
	seed(t, s, White, Pt(10, 10))

	res, err := s.AttemptMove(Pt(10, 11))
	require.NoError(t, err)

	assert.Equal(t, []Point{Pt(10, 10)}, res.Captured)
	_, occupied, _ := s.StoneAt(Pt(10, 10))
	assert.False(t, occupied)
	assert.Equal(t, 1, s.CapturesBy(Black))
	assert.Zero(t, s.CapturesBy(White))
	// The capturing stone keeps four liberties, so this is not a ko.
	_, ok := s.KoPoint()
	assert.False(t, ok)
}

func TestSuicideRejected(t *testing.T) {
	s := newState(t, 19)
	seed(t, s, White, Pt(9, 10), Pt(11, 10), Pt(10, 9), Pt(10, 11))
	before := s.Snapshot()

	_, err := s.AttemptMove(Pt(10, 10))
	require.ErrorIs(t, err, ErrSelfCapture)
	assert.Equal(t, before, s.Snapshot())
}

func TestMultiStoneSuicideRejected(t *testing.T) {
	s := newState(t, 9)
	seed(t, s, Black, Pt(0, 0))
	seed(t, s, White, Pt(1, 0), Pt(1, 1), Pt(0, 2))
	before := s.Snapshot()

	_, err := s.AttemptMove(Pt(0, 1))
	require.ErrorIs(t, err, ErrSelfCapture)
	assert.Equal(t, before, s.Snapshot())
}

func TestOccupiedRejected(t *testing.T) {
	s := newState(t, 19)
	seed(t, s, White, Pt(5, 5))
	before := s.Snapshot()

	_, err := s.AttemptMove(Pt(5, 5))
	require.ErrorIs(t, err, ErrCellOccupied)
	assert.Equal(t, before, s.Snapshot())
	assert.Equal(t, Black, s.CurrentPlayer())
}

func TestOutOfBoundsRejected(t *testing.T) {
	s := newState(t, 9)
	before := s.Snapshot()

	_, err := s.AttemptMove(Pt(9, 3))
	require.ErrorIs(t, err, ErrOutOfBounds)
	assert.Equal(t, before, s.Snapshot())
}

func TestCaptureOfTwoIndependentGroups(t *testing.T) {
	s := newState(t, 9)
	seed(t, s, White, Pt(0, 0), Pt(2, 0))
	seed(t, s, Black, Pt(0, 1), Pt(3, 0), Pt(2, 1))

	res, err := s.AttemptMove(Pt(1, 0))
	require.NoError(t, err)

	assert.ElementsMatch(t, []Point{Pt(0, 0), Pt(2, 0)}, res.Captured)
	assert.Equal(t, 2, s.CapturesBy(Black))
	_, ok := s.KoPoint()
	assert.False(t, ok, "two stones captured is never a ko")
}

func TestCaptureOfChain(t *testing.T) {
	s := newState(t, 9)
	// White chain along the top edge with its last liberty at (3,0).
	seed(t, s, White, Pt(0, 0), Pt(1, 0), Pt(2, 0))
	seed(t, s, Black, Pt(0, 1), Pt(1, 1), Pt(2, 1))

	res, err := s.AttemptMove(Pt(3, 0))
	require.NoError(t, err)

	assert.Len(t, res.Captured, 3)
	assert.Equal(t, 3, s.CapturesBy(Black))
	for x := 0; x < 3; x++ {
		_, occupied, _ := s.StoneAt(Pt(x, 0))
		assert.False(t, occupied)
	}
}

func TestCaptureCreditsWhite(t *testing.T) {
	s := newState(t, 9)
	seed(t, s, Black, Pt(0, 0))
	seed(t, s, White, Pt(1, 0))
	require.NoError(t, s.SetCurrentPlayer(White))

	_, err := s.AttemptMove(Pt(0, 1))
	require.NoError(t, err)
	assert.Equal(t, 1, s.CapturesBy(White))
	assert.Zero(t, s.CapturesBy(Black))
}

func TestCaptureInsteadOfSuicide(t *testing.T) {
	s := newState(t, 9)
	// Black (0,0) is surrounded but takes the last liberty of White (1,0).
	seed(t, s, White, Pt(1, 0), Pt(0, 1))
	seed(t, s, Black, Pt(2, 0), Pt(1, 1), Pt(0, 2))

	res, err := s.AttemptMove(Pt(0, 0))
	require.NoError(t, err)
	assert.ElementsMatch(t, []Point{Pt(1, 0), Pt(0, 1)}, res.Captured)
}

// koPosition builds
//
//	   x: 8 9 10 11
//	y=9   . B W  .
//	y=10  B W .  W
//	y=11  . B W  .
func koPosition(t *testing.T) *BoardState {
	t.Helper()
	s := newState(t, 19)
	seed(t, s, Black, Pt(9, 9), Pt(8, 10), Pt(9, 11))
	seed(t, s, White, Pt(10, 9), Pt(9, 10), Pt(11, 10), Pt(10, 11))
	return s
}

func TestKoLifecycle(t *testing.T) {
	s := koPosition(t)

	res, err := s.AttemptMove(Pt(10, 10))
	require.NoError(t, err)
	require.Equal(t, []Point{Pt(9, 10)}, res.Captured)
	require.NotNil(t, res.KoPoint)
	assert.Equal(t, Pt(9, 10), *res.KoPoint)
	ko, ok := s.KoPoint()
	require.True(t, ok)
	assert.Equal(t, Pt(9, 10), ko)

	before := s.Snapshot()
	_, err = s.AttemptMove(Pt(9, 10))
	require.ErrorIs(t, err, ErrKoViolation)
	assert.Equal(t, before, s.Snapshot())

	// White plays a ko threat elsewhere, which clears the restriction.
	_, err = s.AttemptMove(Pt(0, 0))
	require.NoError(t, err)
	_, ok = s.KoPoint()
	assert.False(t, ok)

	_, err = s.AttemptMove(Pt(18, 18))
	require.NoError(t, err)

	res, err = s.AttemptMove(Pt(9, 10))
	require.NoError(t, err)
	assert.Equal(t, []Point{Pt(10, 10)}, res.Captured)
	ko, ok = s.KoPoint()
	require.True(t, ok)
	assert.Equal(t, Pt(10, 10), ko)
	assert.Equal(t, 1, s.CapturesBy(Black))
	assert.Equal(t, 1, s.CapturesBy(White))
}

func TestKoPointDoesNotBindTheCapturer(t *testing.T) {
	s := koPosition(t)
	_, err := s.AttemptMove(Pt(10, 10))
	require.NoError(t, err)
	_, err = s.AttemptMove(Pt(0, 0))
	require.NoError(t, err)

	// Black may fill the ko once White's turn has passed.
	_, err = s.AttemptMove(Pt(9, 10))
	require.NoError(t, err)
	_, ok := s.KoPoint()
	assert.False(t, ok)
}

// The capturing stone joins a friendly chain left with a single liberty. That is
// not a ko, so White may take the whole chain back at once.
//
//	   x: 0 1 2
//	y=0   W . W
//	y=1   B B W
//	y=2   W W .
func TestCaptureIntoLargerGroupIsNotKo(t *testing.T) {
	s := newState(t, 5)
	seed(t, s, Black, Pt(0, 1), Pt(1, 1))
	seed(t, s, White, Pt(0, 0), Pt(2, 0), Pt(2, 1), Pt(0, 2), Pt(1, 2))

	res, err := s.AttemptMove(Pt(1, 0))
	require.NoError(t, err)
	assert.Equal(t, []Point{Pt(0, 0)}, res.Captured)
	assert.Nil(t, res.KoPoint)
	_, ok := s.KoPoint()
	assert.False(t, ok)

	res, err = s.AttemptMove(Pt(0, 0))
	require.NoError(t, err)
	assert.ElementsMatch(t, []Point{Pt(1, 0), Pt(0, 1), Pt(1, 1)}, res.Captured)
	assert.Equal(t, 3, s.CapturesBy(White))
}

func TestSetupRejectedAfterFirstMove(t *testing.T) {
	s := newState(t, 9)
	_, err := s.AttemptMove(Pt(4, 4))
	require.NoError(t, err)

	assert.ErrorIs(t, s.Seed(Pt(0, 0), Black), ErrGameStarted)
	assert.ErrorIs(t, s.SetCurrentPlayer(Black), ErrGameStarted)
}

func TestSeedValidation(t *testing.T) {
	s := newState(t, 9)
	require.NoError(t, s.Seed(Pt(1, 1), Black))

	assert.ErrorIs(t, s.Seed(Pt(1, 1), White), ErrCellOccupied)
	assert.ErrorIs(t, s.Seed(Pt(9, 9), White), ErrOutOfBounds)
	assert.ErrorIs(t, s.Seed(Pt(2, 2), none), ErrNoPlayer)
	assert.ErrorIs(t, s.SetCurrentPlayer(none), ErrNoPlayer)
	assert.Zero(t, s.MoveCount())
}

func TestRejectionCode(t *testing.T) {
	cases := map[error]string{
		ErrCellOccupied: "cell_occupied",
		ErrKoViolation:  "ko_violation",
		ErrSelfCapture:  "self_capture",
		ErrOutOfBounds:  "out_of_bounds",
		ErrGameStarted:  "",
		nil:             "",
	}
	for err, want := range cases {
		assert.Equal(t, want, RejectionCode(err))
		assert.Equal(t, want != "", IsRejection(err))
	}
}

func TestSnapshotRows(t *testing.T) {
	s := newState(t, 3)
	seed(t, s, White, Pt(2, 0))
	_, err := s.AttemptMove(Pt(0, 1))
	require.NoError(t, err)

	snap := s.Snapshot()
	assert.Equal(t, []string{"..W", "B..", "..."}, snap.Rows)
	assert.Equal(t, White, snap.CurrentPlayer)
	require.NotNil(t, snap.LastMove)
	assert.Equal(t, Pt(0, 1), *snap.LastMove)

	p, ok := snap.StoneAt(Pt(2, 0))
	assert.True(t, ok)
	assert.Equal(t, White, p)
	_, ok = snap.StoneAt(Pt(5, 5))
	assert.False(t, ok)

	// The snapshot is detached from the live state.
	snap.LastMove.X = 2
	last, _ := s.LastMove()
	assert.Equal(t, Pt(0, 1), last)
}

// TestRandomPlayKeepsInvariants plays random points and checks the invariants after every attempt.
// Snapshots are cached as JSON; players travel as their names.
func TestSnapshotJSON(t *testing.T) {
	s := koPosition(t)
	_, err := s.AttemptMove(Pt(10, 10))
	require.NoError(t, err)
	snap := s.Snapshot()

	data, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"current_player":"white"`)
	assert.Contains(t, string(data), `"ko_point":{"x":9,"y":10}`)

	var back Snapshot
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Equal(t, snap, back)
}

func TestRandomPlayKeepsInvariants(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := newState(t, 9)

	successes := 0
	for i := 0; i < 3000; i++ {
		before := s.Snapshot()
		blackCaps, whiteCaps := s.CapturesBy(Black), s.CapturesBy(White)
		mover := s.CurrentPlayer()

		res, err := s.AttemptMove(Pt(rng.Intn(9), rng.Intn(9)))
		if err != nil {
			require.True(t, IsRejection(err), "unexpected error %v", err)
			require.Equal(t, before, s.Snapshot())
			continue
		}
		successes++

		want := Black
		if successes%2 == 1 {
			want = White
		}
		require.Equal(t, want, s.CurrentPlayer())
		require.Equal(t, mover, res.Player)

		switch mover {
		case Black:
			require.Equal(t, blackCaps+len(res.Captured), s.CapturesBy(Black))
			require.Equal(t, whiteCaps, s.CapturesBy(White))
		case White:
			require.Equal(t, whiteCaps+len(res.Captured), s.CapturesBy(White))
			require.Equal(t, blackCaps, s.CapturesBy(Black))
		}

		for y := 0; y < 9; y++ {
			for x := 0; x < 9; x++ {
				pt := Pt(x, y)
				if s.at(pt) == none {
					continue
				}
				require.NotEmpty(t, s.group(pt).liberties, "group at %s has no liberties", pt)
			}
		}
		if ko, ok := s.KoPoint(); ok {
			require.Equal(t, none, s.at(ko))
		}
	}
	assert.Greater(t, successes, 100)
}
