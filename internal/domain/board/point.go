package board

import "fmt"

// Point is a board coordinate: X is the column, Y the row, both zero based.
type Point struct {
	X int `json:"x" bson:"x"`
	Y int `json:"y" bson:"y"`
}

func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

var orthogonal = [4]Point{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
