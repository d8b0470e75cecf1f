package board

import (
	"fmt"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

// ValidateSwap checks a player swap without touching the board. Both
// cells must be on the board, orthogonally adjacent, occupied and
// swappable.
func ValidateSwap(b *Board, cat *Catalog, a, c core.Coord) error {
	if a == c {
		return fmt.Errorf("%w: %v", ErrSameCell, a)
	}
	for _, p := range []core.Coord{a, c} {
		if !b.InBounds(p) {
			return fmt.Errorf("%w: %v", ErrOutOfBounds, p)
		}
	}
	if !a.Adjacent(c) {
		return fmt.Errorf("%w: %v and %v", ErrNotAdjacent, a, c)
	}
	for _, p := range []core.Coord{a, c} {
		cell := b.Get(p)
		if cell.IsEmpty() {
			return fmt.Errorf("%w: %v", ErrEmptyCell, p)
		}
		def, err := cat.Lookup(cell.ID)
		if err != nil {
			return unknownAt(err, p)
		}
		if !def.Swappable {
			return fmt.Errorf("%w: %s at %v", ErrNotSwappable, cell.ID, p)
		}
	}
	return nil
}

// Swap validates and applies a swap, recording it as the last swap. The
// swap stands even if it produces no match.
func Swap(b *Board, cat *Catalog, a, c core.Coord) error {
	if err := ValidateSwap(b, cat, a, c); err != nil {
		return err
	}
	b.exchange(a, c)
	return nil
}
