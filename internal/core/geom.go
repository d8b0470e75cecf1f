// Package core holds the platform primitives shared by the board engine,
// the game layer and the terminal front-ends. It imports nothing outside
// the standard library so the simulation stays testable without a terminal.
package core

import "fmt"

// Coord is a board position. X grows to the right, Y grows upward and
// y=0 is the bottom row.
type Coord struct {
	X, Y int
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add offsets the coordinate.
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the taxicab distance between two coordinates.
func (c Coord) Manhattan(o Coord) int {
	return Abs(c.X-o.X) + Abs(c.Y-o.Y)
}

// Adjacent reports whether o is one of the four orthogonal neighbours of c.
func (c Coord) Adjacent(o Coord) bool {
	return c.Manhattan(o) == 1
}

// StepToward moves one cell toward target on each axis that differs,
// so diagonal progress is allowed.
func (c Coord) StepToward(target Coord) Coord {
	next := c
	switch {
	case next.X < target.X:
		next.X++
	case next.X > target.X:
		next.X--
	}
	switch {
	case next.Y < target.Y:
		next.Y++
	case next.Y > target.Y:
		next.Y--
	}
	return next
}

// Rect is a screen-space rectangle used for layout.
type Rect struct {
	X, Y int // top-left
	W, H int
}

// NewRect creates a rectangle.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the exclusive right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the exclusive bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Contains reports whether (x, y) lies inside the rectangle.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.Right() && y >= r.Y && y < r.Bottom()
}

// Clamp restricts val to [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Abs returns the absolute value of x.
func Abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
