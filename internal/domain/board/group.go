package board

type group struct {
	stones    []Point
	liberties map[Point]struct{}
}

// group flood fills the chain containing start. Each cell is visited at most once.
func (s *BoardState) group(start Point) group {
	color := s.at(start)
	g := group{liberties: make(map[Point]struct{})}
	if color == none {
		return g
	}

	visited := make([]bool, len(s.grid))
	visited[start.Y*s.size+start.X] = true
	stack := []Point{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		g.stones = append(g.stones, cur)

		for _, n := range s.neighbors(cur) {
			switch s.at(n) {
			case none:
				g.liberties[n] = struct{}{}
			case color:
				idx := n.Y*s.size + n.X
				if !visited[idx] {
					visited[idx] = true
					stack = append(stack, n)
				}
			}
		}
	}
	return g
}
