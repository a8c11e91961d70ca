package board

// Snapshot is a detached copy of everything a renderer needs.
// Rows[y][x] is '.', 'B' or 'W'.
type Snapshot struct {
	Size            int      `json:"size"`
	Rows            []string `json:"rows"`
	CurrentPlayer   Player   `json:"current_player"`
	LastMove        *Point   `json:"last_move,omitempty"`
	KoPoint         *Point   `json:"ko_point,omitempty"`
	CapturesByBlack int      `json:"captures_by_black"`
	CapturesByWhite int      `json:"captures_by_white"`
	Komi            float64  `json:"komi"`
	MoveCount       int      `json:"move_count"`
}

func (s *BoardState) Snapshot() Snapshot {
	rows := make([]string, s.size)
	row := make([]byte, s.size)
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			row[x] = s.grid[y*s.size+x].Short()
		}
		rows[y] = string(row)
	}

	snap := Snapshot{
		Size:            s.size,
		Rows:            rows,
		CurrentPlayer:   s.current,
		CapturesByBlack: s.capturesByBlack,
		CapturesByWhite: s.capturesByWhite,
		Komi:            s.komi,
		MoveCount:       s.moves,
	}
	if p, ok := s.LastMove(); ok {
		snap.LastMove = &p
	}
	if p, ok := s.KoPoint(); ok {
		snap.KoPoint = &p
	}
	return snap
}

// StoneAt reads a cell of the snapshot. Out of range points read as empty.
func (s Snapshot) StoneAt(pt Point) (Player, bool) {
	if pt.Y < 0 || pt.Y >= len(s.Rows) || pt.X < 0 || pt.X >= len(s.Rows[pt.Y]) {
		return none, false
	}
	switch s.Rows[pt.Y][pt.X] {
	case 'B':
		return Black, true
	case 'W':
		return White, true
	}
	return none, false
}
