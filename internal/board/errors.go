package board

import (
	"errors"
	"fmt"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

// Swap rejections. They are expected and leave the board untouched.
var (
	ErrSameCell     = errors.New("board: cannot swap a cell with itself")
	ErrOutOfBounds  = errors.New("board: coordinate out of bounds")
	ErrNotAdjacent  = errors.New("board: cells are not adjacent")
	ErrEmptyCell    = errors.New("board: cell is empty")
	ErrNotSwappable = errors.New("board: tile cannot be swapped")
	ErrBusy         = errors.New("board: engine is busy")
	ErrStopped      = errors.New("board: engine is stopped")
)

// Configuration and invariant failures. These abort the operation.
var (
	ErrUnknownTile    = errors.New("board: unknown tile id")
	ErrInvalidCatalog = errors.New("board: invalid catalog")
	ErrInvalidSize    = errors.New("board: invalid board size")
	ErrInconsistent   = errors.New("board: inconsistent cell")
	ErrEmptySpawnPool = errors.New("board: spawn pool is empty")
	ErrCascadeLimit   = errors.New("board: cascade limit exceeded")
	ErrAlreadyStarted = errors.New("board: engine already started")
)

// UnknownTileError reports a tile id missing from the catalog.
type UnknownTileError struct {
	ID string
	At *core.Coord // nil when the id did not come from a board cell
}

func (e *UnknownTileError) Error() string {
	if e.At != nil {
		return fmt.Sprintf("board: unknown tile id %q at %v", e.ID, *e.At)
	}
	return fmt.Sprintf("board: unknown tile id %q", e.ID)
}

// Is makes errors.Is(err, ErrUnknownTile) hold.
func (e *UnknownTileError) Is(target error) bool {
	return target == ErrUnknownTile
}

func unknownAt(err error, at core.Coord) error {
	var ute *UnknownTileError
	if errors.As(err, &ute) && ute.At == nil {
		return &UnknownTileError{ID: ute.ID, At: &at}
	}
	return err
}
