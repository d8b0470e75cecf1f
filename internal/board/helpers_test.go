package board_test

import (
	"strings"
	"testing"

	"github.com/RauAliaxYr/ApocalypticBase/internal/board"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

// legend maps the short tokens used in test layouts to cells.
var legend = map[string]board.Cell{
	".":  board.Empty(),
	"w":  board.Resource("wood"),
	"s":  board.Resource("stone"),
	"f":  board.Resource("food"),
	"x":  board.Resource("scrap"),
	"r":  board.Resource("rubble"),
	"W1": board.Tower("watchtower", 1),
	"W2": board.Tower("archer_tower", 2),
	"W3": board.Tower("ballista", 3),
	"S1": board.Tower("wall", 1),
	"S2": board.Tower("bastion", 2),
	"S3": board.Tower("fortress", 3),
}

func testChains() []board.ChainSpec {
	tower := func(id string) board.TowerSpec { return board.TowerSpec{ID: id, Swappable: true} }
	return []board.ChainSpec{
		{
			Resource: board.ResourceSpec{ID: "wood", Swappable: true, Value: 1},
			Towers:   []board.TowerSpec{tower("watchtower"), tower("archer_tower"), tower("ballista")},
		},
		{
			Resource: board.ResourceSpec{ID: "stone", Swappable: true, Value: 1},
			Towers:   []board.TowerSpec{tower("wall"), tower("bastion"), tower("fortress")},
		},
		{
			Resource: board.ResourceSpec{ID: "food", Swappable: true, Value: 1},
			Towers:   []board.TowerSpec{tower("farm"), tower("granary")},
		},
		{
			Resource: board.ResourceSpec{ID: "scrap", Swappable: true, Value: 2},
			Towers:   []board.TowerSpec{tower("turret")},
		},
		{
			Resource: board.ResourceSpec{ID: "rubble", Swappable: false},
			Towers:   []board.TowerSpec{{ID: "barricade"}},
		},
	}
}

// testCatalog builds the shared test catalog. pool limits what refills spawn.
func testCatalog(t *testing.T, pool ...string) *board.Catalog {
	t.Helper()
	cat, err := board.NewCatalog(testChains(), pool)
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	return cat
}

// parseBoard builds a board from rows written top row first.
func parseBoard(t *testing.T, rows ...string) *board.Board {
	t.Helper()
	height := len(rows)
	width := len(strings.Fields(rows[0]))
	b, err := board.New(width, height)
	if err != nil {
		t.Fatalf("New(%d, %d) failed: %v", width, height, err)
	}
	for i, row := range rows {
		tokens := strings.Fields(row)
		if len(tokens) != width {
			t.Fatalf("row %d has %d cells, want %d", i, len(tokens), width)
		}
		y := height - 1 - i
		for x, tok := range tokens {
			cell, ok := legend[tok]
			if !ok {
				t.Fatalf("unknown token %q", tok)
			}
			b.Set(core.C(x, y), cell)
		}
	}
	return b
}

// checkerBoard returns a full board with no runs anywhere.
func checkerBoard(t *testing.T, w, h int) *board.Board {
	t.Helper()
	ids := []string{"wood", "stone", "food", "scrap"}
	b, err := board.New(w, h)
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b.Set(core.C(x, y), board.Resource(ids[(x+2*y)%len(ids)]))
		}
	}
	return b
}

func assertBoard(t *testing.T, got, want *board.Board) {
	t.Helper()
	if !got.Equal(want) {
		t.Fatalf("board mismatch\ngot:\n%swant:\n%s", got, want)
	}
}
