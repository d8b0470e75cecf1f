package board_test

import (
	"errors"
	"testing"

	"github.com/RauAliaxYr/ApocalypticBase/internal/board"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
)

func TestSwapValidation(t *testing.T) {
	cat := testCatalog(t)
	tests := []struct {
		name    string
		a, b    core.Coord
		wantErr error
	}{
		{"horizontal neighbours", core.C(0, 0), core.C(1, 0), nil},
		{"vertical neighbours", core.C(1, 1), core.C(1, 2), nil},
		{"same cell", core.C(1, 1), core.C(1, 1), board.ErrSameCell},
		{"diagonal", core.C(0, 0), core.C(1, 1), board.ErrNotAdjacent},
		{"two apart", core.C(0, 0), core.C(2, 0), board.ErrNotAdjacent},
		{"off the left edge", core.C(0, 0), core.C(-1, 0), board.ErrOutOfBounds},
		{"off the top", core.C(2, 2), core.C(2, 3), board.ErrOutOfBounds},
		{"empty cell", core.C(2, 1), core.C(2, 2), board.ErrEmptyCell},
		{"locked rubble", core.C(0, 2), core.C(1, 2), board.ErrNotSwappable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := parseBoard(t,
				"r w .",
				"s f .",
				"w s f",
			)
			before := b.Clone()
			err := board.Swap(b, cat, tc.a, tc.b)

			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("Swap() failed: %v", err)
				}
				if b.Get(tc.a) != before.Get(tc.b) || b.Get(tc.b) != before.Get(tc.a) {
					t.Error("cells were not exchanged")
				}
				a, c, ok := b.LastSwap()
				if !ok || a != tc.a || c != tc.b {
					t.Errorf("LastSwap() = %v, %v, %v", a, c, ok)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Swap() error = %v, want %v", err, tc.wantErr)
			}
			assertBoard(t, b, before)
			if _, _, ok := b.LastSwap(); ok {
				t.Error("a rejected swap must not be recorded")
			}
		})
	}
}

func TestSwapWithoutMatchStands(t *testing.T) {
	cat := testCatalog(t)
	b := checkerBoard(t, 5, 5)
	if len(board.FindMatches(b, 3)) != 0 {
		t.Fatalf("fixture has matches:\n%s", b)
	}
	a, c := b.Get(core.C(0, 0)), b.Get(core.C(1, 0))

	eng := board.NewEngine(b, cat, board.WithPacing(board.Pacing{}), board.WithSeed(1))
	if err := eng.RequestSwap(core.C(0, 0), core.C(1, 0)); err != nil {
		t.Fatalf("RequestSwap() failed: %v", err)
	}
	if err := eng.Settle(); err != nil {
		t.Fatalf("Settle() failed: %v", err)
	}

	if eng.State() != board.StateIdle {
		t.Errorf("State() = %v, want idle", eng.State())
	}
	if b.Get(core.C(0, 0)) != c || b.Get(core.C(1, 0)) != a {
		t.Errorf("swap was reverted:\n%s", b)
	}
	if eng.Passes() != 1 {
		t.Errorf("Passes() = %d, want a single empty check", eng.Passes())
	}
}
