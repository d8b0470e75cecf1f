package board_test

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/RauAliaxYr/ApocalypticBase/internal/board"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
)

func newResolver(t *testing.T) *board.Resolver {
	t.Helper()
	return &board.Resolver{
		Catalog:  testCatalog(t),
		Rand:     rand.New(rand.NewSource(1)),
		MinMatch: board.DefaultMinMatch,
	}
}

func resolveAll(t *testing.T, b *board.Board) board.Resolution {
	t.Helper()
	res, err := newResolver(t).Resolve(b, board.FindMatches(b, board.DefaultMinMatch), 1)
	if err != nil {
		t.Fatalf("Resolve() failed: %v", err)
	}
	return res
}

func upgrades(res board.Resolution) []event.TowerUpgraded {
	var out []event.TowerUpgraded
	for _, ev := range res.Events {
		if u, ok := ev.(event.TowerUpgraded); ok {
			out = append(out, u)
		}
	}
	return out
}

func TestResolveBuildsTower(t *testing.T) {
	b := parseBoard(t,
		"s f s",
		"w w w",
	)
	res := resolveAll(t, b)

	want := parseBoard(t,
		"s f s",
		". W1 .",
	)
	assertBoard(t, b, want)

	if len(res.Removed) != 2 {
		t.Errorf("removed %v, want the two outer cells", res.Removed)
	}
	ups := upgrades(res)
	if len(ups) != 1 {
		t.Fatalf("got %d upgrade events, want 1", len(ups))
	}
	u := ups[0]
	if u.At != core.C(1, 0) || u.OldID != "wood" || u.OldLevel != 0 || u.NewID != "watchtower" || u.NewLevel != 1 {
		t.Errorf("upgrade event = %+v", u)
	}
	if !u.Built() {
		t.Error("resource to tower should report Built")
	}
	if len(res.Events) == 0 {
		t.Fatal("no events")
	}
	mf, ok := res.Events[0].(event.MatchFound)
	if !ok || mf.TileID != "wood" || mf.Count != 3 || !mf.Horizontal {
		t.Errorf("first event = %#v, want MatchFound for three wood", res.Events[0])
	}
}

func TestResolveUpgradesTower(t *testing.T) {
	b := parseBoard(t,
		"W2 s",
		"W2 f",
		"W2 s",
	)
	res := resolveAll(t, b)

	want := parseBoard(t,
		". s",
		"W3 f",
		". s",
	)
	assertBoard(t, b, want)

	ups := upgrades(res)
	if len(ups) != 1 || ups[0].OldLevel != 2 || ups[0].NewLevel != 3 || ups[0].NewID != "ballista" {
		t.Errorf("upgrades = %+v, want archer_tower@2 -> ballista@3", ups)
	}
}

func TestResolvePrefersSwappedCell(t *testing.T) {
	cat := testCatalog(t)
	tests := []struct {
		name string
		a, b core.Coord
	}{
		{"first swapped cell is in the run", core.C(0, 0), core.C(0, 1)},
		{"second swapped cell is in the run", core.C(0, 1), core.C(0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// Wood drops into (0,0) and completes the bottom row at its edge,
			// away from the middle cell.
			b := parseBoard(t,
				"w s f",
				"s w w",
			)
			if err := board.Swap(b, cat, tc.a, tc.b); err != nil {
				t.Fatalf("Swap() failed: %v", err)
			}
			r := &board.Resolver{Catalog: cat, Rand: rand.New(rand.NewSource(1))}
			if _, err := r.Resolve(b, board.FindMatches(b, 3), 1); err != nil {
				t.Fatalf("Resolve() failed: %v", err)
			}
			want := parseBoard(t,
				"s s f",
				"W1 . .",
			)
			assertBoard(t, b, want)
			if _, _, ok := b.LastSwap(); ok {
				t.Error("Resolve should clear the recorded swap")
			}
		})
	}
}

func TestResolveSwappedCellBeatsRandomTie(t *testing.T) {
	cat := testCatalog(t)
	for seed := int64(0); seed < 16; seed++ {
		b := parseBoard(t,
			"w s f x",
			"s w w w",
		)
		if err := board.Swap(b, cat, core.C(0, 1), core.C(0, 0)); err != nil {
			t.Fatalf("Swap() failed: %v", err)
		}
		r := &board.Resolver{Catalog: cat, Rand: rand.New(rand.NewSource(seed))}
		if _, err := r.Resolve(b, board.FindMatches(b, 3), 1); err != nil {
			t.Fatalf("Resolve() failed: %v", err)
		}
		if got := b.Get(core.C(0, 0)); got != board.Tower("watchtower", 1) {
			t.Fatalf("seed %d: (0,0) holds %v, want watchtower@1", seed, got)
		}
	}
}

func TestResolveMaxLevelIsConsumed(t *testing.T) {
	b := parseBoard(t,
		"s f s",
		"W3 W3 W3",
	)
	res := resolveAll(t, b)

	want := parseBoard(t,
		"s f s",
		". . .",
	)
	assertBoard(t, b, want)
	if len(upgrades(res)) != 0 {
		t.Error("a max-level run must not upgrade")
	}
	if len(res.Removed) != 3 {
		t.Errorf("removed %v, want all three cells", res.Removed)
	}
	if _, ok := res.Events[0].(event.MatchFound); !ok {
		t.Error("a max-level run is still reported as a match")
	}
}

func TestResolveBonusSwaps(t *testing.T) {
	b := parseBoard(t,
		"s f s f s",
		"w w w w w",
	)
	res := resolveAll(t, b)
	if res.Bonus != 2 {
		t.Errorf("Bonus = %d, want 2 for a run of five", res.Bonus)
	}
	last := res.Events[len(res.Events)-1]
	if bs, ok := last.(event.BonusSwaps); !ok || bs.Count != 2 {
		t.Errorf("last event = %#v, want BonusSwaps{2}", last)
	}
	if got := b.Get(core.C(2, 0)); got != board.Tower("watchtower", 1) {
		t.Errorf("centre of five holds %v, want watchtower@1", got)
	}
}

func TestResolveOverlapUsesScanOrder(t *testing.T) {
	// The row's middle (1,0) is also in the column's removal set, so that
	// evolution is lost. The column's own middle survives.
	b := parseBoard(t,
		"f w s",
		"s w f",
		"w w w",
	)
	res := resolveAll(t, b)

	want := parseBoard(t,
		"f . s",
		"s W1 f",
		". . .",
	)
	assertBoard(t, b, want)
	if len(upgrades(res)) != 2 {
		t.Errorf("got %d upgrade events, want 2 (one is later cleared)", len(upgrades(res)))
	}
}

func TestResolveUnknownTileLeavesBoard(t *testing.T) {
	chains := testChains()[:1]
	cat, err := board.NewCatalog(chains, nil)
	if err != nil {
		t.Fatalf("NewCatalog() failed: %v", err)
	}
	b := parseBoard(t,
		"w w w",
		"s s s",
	)
	before := b.Clone()
	r := &board.Resolver{Catalog: cat, Rand: rand.New(rand.NewSource(1))}
	_, err = r.Resolve(b, board.FindMatches(b, 3), 1)
	if !errors.Is(err, board.ErrUnknownTile) {
		t.Fatalf("Resolve() error = %v, want ErrUnknownTile", err)
	}
	assertBoard(t, b, before)
}
