// Package board implements the match-3 board at the heart of the game:
// the cell model, the tile catalog, match detection and resolution,
// gravity and refill, swap validation and the paced cascade engine.
//
// Everything except Engine is synchronous and deterministic for a given
// *rand.Rand. Engine adds tick-driven pacing on top without changing what
// happens to the board.
package board

import (
	"fmt"
	"slices"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

// Board is a width x height grid of cells plus the last player swap.
// Cells are stored row-major starting at the bottom row.
type Board struct {
	w, h    int
	cells   []Cell
	swapA   core.Coord
	swapB   core.Coord
	swapped bool
}

// New returns an empty board.
func New(width, height int) (*Board, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Board{w: width, h: height, cells: make([]Cell, width*height)}, nil
}

// Width returns the number of columns.
func (b *Board) Width() int { return b.w }

// Height returns the number of rows.
func (b *Board) Height() int { return b.h }

func (b *Board) coord(x, y int) core.Coord { return core.C(x, y) }

func (b *Board) index(c core.Coord) int { return c.Y*b.w + c.X }

// InBounds reports whether c lies on the board.
func (b *Board) InBounds(c core.Coord) bool {
	return c.X >= 0 && c.X < b.w && c.Y >= 0 && c.Y < b.h
}

// Get returns the cell at c. Positions off the board read as empty.
func (b *Board) Get(c core.Coord) Cell {
	if !b.InBounds(c) {
		return Empty()
	}
	return b.cells[b.index(c)]
}

// Set writes cell at c and reports whether c was on the board.
func (b *Board) Set(c core.Coord, cell Cell) bool {
	if !b.InBounds(c) {
		return false
	}
	b.cells[b.index(c)] = cell
	return true
}

// Clear empties the cell at c.
func (b *Board) Clear(c core.Coord) {
	b.Set(c, Empty())
}

// Occupied reports whether c holds a resource or tower.
func (b *Board) Occupied(c core.Coord) bool {
	return !b.Get(c).IsEmpty()
}

// exchange swaps two cells and records them as the last swap.
func (b *Board) exchange(a, c core.Coord) {
	ia, ic := b.index(a), b.index(c)
	b.cells[ia], b.cells[ic] = b.cells[ic], b.cells[ia]
	b.swapA, b.swapB, b.swapped = a, c, true
}

// LastSwap returns the most recent player swap, if one is still recorded.
func (b *Board) LastSwap() (a, c core.Coord, ok bool) {
	return b.swapA, b.swapB, b.swapped
}

// ClearLastSwap forgets the recorded swap.
func (b *Board) ClearLastSwap() {
	b.swapA, b.swapB, b.swapped = core.Coord{}, core.Coord{}, false
}

// Empties returns the empty coordinates, column by column, bottom first.
func (b *Board) Empties() []core.Coord {
	var out []core.Coord
	for x := 0; x < b.w; x++ {
		for y := 0; y < b.h; y++ {
			if b.cells[y*b.w+x].IsEmpty() {
				out = append(out, b.coord(x, y))
			}
		}
	}
	return out
}

// Count returns how many cells satisfy keep.
func (b *Board) Count(keep func(Cell) bool) int {
	n := 0
	for _, c := range b.cells {
		if keep(c) {
			n++
		}
	}
	return n
}

// Cells returns a row-major copy of the grid. Index y*Width()+x.
func (b *Board) Cells() []Cell { return slices.Clone(b.cells) }

// Load replaces the grid with a row-major slice of the same size.
func (b *Board) Load(cells []Cell) error {
	if len(cells) != len(b.cells) {
		return fmt.Errorf("%w: got %d cells for a %dx%d board", ErrInvalidSize, len(cells), b.w, b.h)
	}
	copy(b.cells, cells)
	b.ClearLastSwap()
	return nil
}

// Clone returns a deep copy.
func (b *Board) Clone() *Board {
	nb := *b
	nb.cells = slices.Clone(b.cells)
	return &nb
}

// Equal compares dimensions and cells. The recorded swap is ignored.
func (b *Board) Equal(o *Board) bool {
	return b.w == o.w && b.h == o.h && slices.Equal(b.cells, o.cells)
}

// String renders the board top row first, for debugging and test output.
func (b *Board) String() string {
	var out []byte
	for y := b.h - 1; y >= 0; y-- {
		for x := 0; x < b.w; x++ {
			if x > 0 {
				out = append(out, ' ')
			}
			out = append(out, b.cells[y*b.w+x].String()...)
		}
		out = append(out, '\n')
	}
	return string(out)
}
