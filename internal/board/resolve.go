package board

import (
	"math/rand"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
)

// CellWrite is a cell content change for presentation.
type CellWrite struct {
	At   core.Coord
	Cell Cell
}

// Resolution is the outcome of one resolution pass.
type Resolution struct {
	Writes  []CellWrite  // evolved result cells, in match order
	Removed []core.Coord // cleared cells, in first-queued order
	Events  []event.Event
	Bonus   int // extra swaps earned by long runs
}

// Resolver turns matches into towers and removals.
type Resolver struct {
	Catalog  *Catalog
	Rand     *rand.Rand
	MinMatch int
}

// ResultCoord picks where a match's evolved tile lands: the first swapped
// cell if it is in the run, else the second, else the middle of the run.
func (r *Resolver) ResultCoord(b *Board, m Match) core.Coord {
	if a, c, ok := b.LastSwap(); ok {
		if m.Contains(a) {
			return a
		}
		if m.Contains(c) {
			return c
		}
	}
	return m.Middle(r.Rand)
}

type plannedMatch struct {
	match   Match
	target  Cell
	evolves bool
}

// Resolve applies matches to b. Matches are handled in order: each one
// writes its evolution to its result coordinate and queues its other
// coordinates for removal. A run of top-level towers is consumed whole.
// The removal union is cleared after all matches, so a result cell can be
// lost to a later overlapping match. depth is the cascade pass number and
// only labels the events.
//
// Every evolution is looked up before the board is touched, so a catalog
// error leaves b unchanged.
func (r *Resolver) Resolve(b *Board, matches []Match, depth int) (Resolution, error) {
	minMatch := r.MinMatch
	if minMatch < 2 {
		minMatch = DefaultMinMatch
	}

	plans := make([]plannedMatch, 0, len(matches))
	for _, m := range matches {
		target, ok, err := r.Catalog.Evolve(m.Tile)
		if err != nil {
			return Resolution{}, unknownAt(err, m.Coords[0])
		}
		plans = append(plans, plannedMatch{match: m, target: target, evolves: ok})
	}

	var res Resolution
	queued := make(map[core.Coord]bool)
	queue := func(c core.Coord) {
		if !queued[c] {
			queued[c] = true
			res.Removed = append(res.Removed, c)
		}
	}

	for _, p := range plans {
		m := p.match
		res.Events = append(res.Events, event.MatchFound{
			Positions:  append([]core.Coord(nil), m.Coords...),
			TileID:     m.Tile.ID,
			Count:      m.Len(),
			Horizontal: m.Horizontal,
			Depth:      depth,
		})

		if p.evolves {
			at := r.ResultCoord(b, m)
			b.Set(at, p.target)
			res.Writes = append(res.Writes, CellWrite{At: at, Cell: p.target})
			res.Events = append(res.Events, event.TowerUpgraded{
				At:       at,
				OldID:    m.Tile.ID,
				OldLevel: m.Tile.Level,
				NewID:    p.target.ID,
				NewLevel: p.target.Level,
			})
			for _, c := range m.Coords {
				if c != at {
					queue(c)
				}
			}
		} else {
			for _, c := range m.Coords {
				queue(c)
			}
		}

		if extra := m.Len() - minMatch; extra > 0 {
			res.Bonus += extra
		}
	}

	for _, c := range res.Removed {
		b.Clear(c)
	}
	if res.Bonus > 0 {
		res.Events = append(res.Events, event.BonusSwaps{Count: res.Bonus})
	}
	b.ClearLastSwap()
	return res, nil
}
