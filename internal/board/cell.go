package board

import "fmt"

// Kind is the variant tag of a Cell.
type Kind uint8

const (
	KindEmpty Kind = iota
	KindResource
	KindTower
)

func (k Kind) String() string {
	switch k {
	case KindEmpty:
		return "empty"
	case KindResource:
		return "resource"
	case KindTower:
		return "tower"
	default:
		return "unknown"
	}
}

// Cell is one board square: empty, a resource or a tower. Level is 0 for
// resources and 1..max for towers. The zero value is an empty cell.
type Cell struct {
	Kind  Kind
	ID    string
	Level int
}

// Empty returns an empty cell.
func Empty() Cell { return Cell{} }

// Resource returns a resource cell.
func Resource(id string) Cell {
	return Cell{Kind: KindResource, ID: id}
}

// Tower returns a tower cell at the given level.
func Tower(id string, level int) Cell {
	return Cell{Kind: KindTower, ID: id, Level: level}
}

// IsEmpty reports whether the cell holds nothing.
func (c Cell) IsEmpty() bool { return c.Kind == KindEmpty }

// Matches reports whether two cells count as the same tile for runs.
// Empty cells never match anything.
func (c Cell) Matches(o Cell) bool {
	return !c.IsEmpty() && !o.IsEmpty() && c.ID == o.ID
}

func (c Cell) String() string {
	switch c.Kind {
	case KindEmpty:
		return "."
	case KindTower:
		return fmt.Sprintf("%s@%d", c.ID, c.Level)
	default:
		return c.ID
	}
}
