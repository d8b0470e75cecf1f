package board

import (
	"math/rand"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

// DefaultMinMatch is the shortest run that counts as a match.
const DefaultMinMatch = 3

// Match is a maximal run of identical tiles along one axis. Coords are in
// scan order: left to right for rows, bottom to top for columns.
type Match struct {
	Coords     []core.Coord
	Tile       Cell // the matched tile as it was when the run was found
	Horizontal bool
}

// Len returns the run length.
func (m Match) Len() int { return len(m.Coords) }

// Contains reports whether c is part of the run.
func (m Match) Contains(c core.Coord) bool {
	for _, mc := range m.Coords {
		if mc == c {
			return true
		}
	}
	return false
}

// Middle returns the centre cell of the run. For even lengths one of the
// two central cells is picked with rng.
func (m Match) Middle(rng *rand.Rand) core.Coord {
	n := len(m.Coords)
	if n%2 == 1 {
		return m.Coords[n/2]
	}
	return m.Coords[n/2-rng.Intn(2)]
}

// FindMatches scans every row, then every column, and returns all runs of
// at least minLen identical occupied cells. A cell may appear in one
// horizontal and one vertical match. A run longer than minLen is reported
// once with its full length.
func FindMatches(b *Board, minLen int) []Match {
	if minLen < 2 {
		minLen = DefaultMinMatch
	}
	var out []Match
	for y := 0; y < b.h; y++ {
		out = scanLine(b, out, minLen, b.w, func(i int) core.Coord { return b.coord(i, y) }, true)
	}
	for x := 0; x < b.w; x++ {
		out = scanLine(b, out, minLen, b.h, func(i int) core.Coord { return b.coord(x, i) }, false)
	}
	return out
}

func scanLine(b *Board, out []Match, minLen, n int, at func(int) core.Coord, horizontal bool) []Match {
	for start := 0; start < n; {
		first := b.Get(at(start))
		if first.IsEmpty() {
			start++
			continue
		}
		end := start + 1
		for end < n && b.Get(at(end)).Matches(first) {
			end++
		}
		if end-start >= minLen {
			coords := make([]core.Coord, 0, end-start)
			for i := start; i < end; i++ {
				coords = append(coords, at(i))
			}
			out = append(out, Match{Coords: coords, Tile: first, Horizontal: horizontal})
		}
		start = end
	}
	return out
}
