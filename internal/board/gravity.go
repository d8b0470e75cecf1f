package board

import (
	"math/rand"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

// Move records a tile falling from one cell to another.
type Move struct {
	From, To core.Coord
	Cell     Cell
}

// Collapse compacts every column toward y=0, keeping the vertical order
// of occupied cells. Tiles are never created or destroyed.
func Collapse(b *Board) []Move {
	var moves []Move
	for x := 0; x < b.w; x++ {
		dst := 0
		for y := 0; y < b.h; y++ {
			from := b.coord(x, y)
			cell := b.Get(from)
			if cell.IsEmpty() {
				continue
			}
			if y != dst {
				to := b.coord(x, dst)
				b.Set(to, cell)
				b.Clear(from)
				moves = append(moves, Move{From: from, To: to, Cell: cell})
			}
			dst++
		}
	}
	return moves
}

// Spawn is a freshly generated resource.
type Spawn struct {
	At   core.Coord
	Cell Cell
}

// RefillPlan assigns a resource to every empty cell. Waves hold at most
// one spawn per column; wave k fills the k-th lowest empty cell of each
// column.
type RefillPlan struct {
	Waves [][]Spawn
}

// Len returns the number of spawns.
func (p RefillPlan) Len() int {
	n := 0
	for _, w := range p.Waves {
		n += len(w)
	}
	return n
}

// Spawns returns all spawns in wave order.
func (p RefillPlan) Spawns() []Spawn {
	out := make([]Spawn, 0, p.Len())
	for _, w := range p.Waves {
		out = append(out, w...)
	}
	return out
}

// Apply writes every spawn to b.
func (p RefillPlan) Apply(b *Board) {
	for _, w := range p.Waves {
		for _, s := range w {
			b.Set(s.At, s.Cell)
		}
	}
}

// PlanRefill picks a uniformly random resource from pool for every empty
// cell of b. Draws happen in wave order, so a seeded rng gives the same
// plan for the same board.
func PlanRefill(b *Board, pool []string, rng *rand.Rand) (RefillPlan, error) {
	columns := make([][]core.Coord, b.w)
	depth := 0
	for _, c := range b.Empties() {
		columns[c.X] = append(columns[c.X], c)
		depth = max(depth, len(columns[c.X]))
	}
	if depth == 0 {
		return RefillPlan{}, nil
	}
	if len(pool) == 0 {
		return RefillPlan{}, ErrEmptySpawnPool
	}

	plan := RefillPlan{Waves: make([][]Spawn, depth)}
	for k := 0; k < depth; k++ {
		for x := 0; x < b.w; x++ {
			if k >= len(columns[x]) {
				continue
			}
			id := pool[rng.Intn(len(pool))]
			plan.Waves[k] = append(plan.Waves[k], Spawn{At: columns[x][k], Cell: Resource(id)})
		}
	}
	return plan, nil
}
