// Package sim plays many boards headlessly with random valid swaps and
// reports cascade and evolution statistics.
package sim

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cheggaaa/pb/v3"

	"github.com/RauAliaxYr/ApocalypticBase/internal/board"
	"github.com/RauAliaxYr/ApocalypticBase/internal/config"
	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
)

// ErrInvalidOptions is returned for non-positive board, swap or worker counts.
var ErrInvalidOptions = errors.New("sim: invalid options")

// Options controls one simulation run.
type Options struct {
	Boards  int   `json:"boards"`
	Swaps   int   `json:"swaps"` // per board
	Workers int   `json:"workers"`
	Seed    int64 `json:"seed"`

	// Progress receives the progress bar. Nil hides it.
	Progress io.Writer `json:"-"`
}

// Simulator runs boards built from one game config.
type Simulator struct {
	cfg    *config.GameConfig
	cat    *board.Catalog
	logger *log.Logger
}

// Option configures a Simulator.
type Option func(*Simulator)

// WithLogger sets the logger for run summaries and board failures.
func WithLogger(l *log.Logger) Option { return func(s *Simulator) { s.logger = l } }

// New validates cfg and builds its catalog once for every board.
func New(cfg *config.GameConfig, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cat, err := cfg.Catalog()
	if err != nil {
		return nil, err
	}
	s := &Simulator{cfg: cfg, cat: cat}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s, nil
}

// boardResult is what one board contributes to the report.
type boardResult struct {
	swaps    int
	matched  int
	matches  int
	built    int
	upgraded int
	bonus    int
	depths   []float64
	levels   map[int]int
	stuck    bool
	err      error
}

// Run plays o.Boards boards across o.Workers goroutines. Board i is seeded
// with o.Seed+i so the report does not depend on the worker count.
func (s *Simulator) Run(ctx context.Context, o Options) (*Report, error) {
	if o.Boards < 1 || o.Swaps < 1 || o.Workers < 1 {
		return nil, fmt.Errorf("%w: boards %d swaps %d workers %d", ErrInvalidOptions, o.Boards, o.Swaps, o.Workers)
	}
	workers := min(o.Workers, o.Boards)

	bar := pb.New(o.Boards)
	if o.Progress != nil {
		bar.SetWriter(o.Progress)
	} else {
		bar.SetWriter(io.Discard)
	}
	bar.Start()
	start := time.Now()

	results := make([]boardResult, o.Boards)
	jobs := make(chan int, workers)
	wg := new(sync.WaitGroup)
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = s.playBoard(ctx, o.Seed+int64(i), o.Swaps)
				bar.Increment()
			}
		}()
	}

feed:
	for i := 0; i < o.Boards; i++ {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
	bar.Finish()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rep := newReport(o, workers, results)
	rep.Elapsed = time.Since(start)
	s.logger.Info("simulation finished",
		"boards", rep.Boards, "swaps", rep.Swaps, "failures", rep.Failures, "elapsed", rep.Elapsed.Round(time.Millisecond))
	return rep, nil
}

// playBoard fills a fresh board and applies up to swaps random valid swaps,
// settling the cascade after each one.
func (s *Simulator) playBoard(ctx context.Context, seed int64, swaps int) boardResult {
	res := boardResult{levels: make(map[int]int)}
	rng := rand.New(rand.NewSource(seed))

	b, err := board.New(s.cfg.Board.Width, s.cfg.Board.Height)
	if err != nil {
		res.err = err
		return res
	}

	bus := event.NewBus()
	counting := false
	bus.Subscribe(event.KindMatchFound, func(event.Event) {
		if counting {
			res.matches++
		}
	})
	bus.Subscribe(event.KindTowerUpgraded, func(e event.Event) {
		if !counting {
			return
		}
		if e.(event.TowerUpgraded).Built() {
			res.built++
		} else {
			res.upgraded++
		}
	})
	bus.Subscribe(event.KindBonusSwaps, func(e event.Event) {
		if counting {
			res.bonus += e.(event.BonusSwaps).Count
		}
	})
	depth := 0
	bus.Subscribe(event.KindCascadeSettled, func(e event.Event) {
		depth = e.(event.CascadeSettled).Passes
	})

	eng := board.NewEngine(b, s.cat,
		board.WithPacing(board.Pacing{}),
		board.WithRand(rng),
		board.WithBus(bus),
		board.WithMinMatch(s.cfg.Board.MinMatch),
		board.WithMaxCascade(s.cfg.Engine.MaxCascade))
	if err := eng.Start(); err != nil {
		res.err = err
		return res
	}
	if err := eng.Settle(); err != nil {
		res.err = err
		return res
	}

	// Only player-driven cascades count; the initial fill is excluded.
	counting = true
	for i := 0; i < swaps; i++ {
		if ctx.Err() != nil {
			break
		}
		cands := validSwaps(b, s.cat)
		if len(cands) == 0 {
			res.stuck = true
			break
		}
		pick := cands[rng.Intn(len(cands))]
		if err := eng.RequestSwap(pick[0], pick[1]); err != nil {
			res.err = err
			break
		}
		depth = 0
		if err := eng.Settle(); err != nil {
			res.err = err
			break
		}
		res.swaps++
		res.depths = append(res.depths, float64(depth))
		if depth > 0 {
			res.matched++
		}
	}
	if res.err != nil {
		s.logger.Debug("board aborted", "seed", seed, "err", res.err)
	}

	for _, c := range b.Cells() {
		if c.Kind == board.KindTower {
			res.levels[c.Level]++
		}
	}
	return res
}

// validSwaps lists every right and up neighbour pair that passes
// ValidateSwap, in row-major order.
func validSwaps(b *board.Board, cat *board.Catalog) [][2]core.Coord {
	var out [][2]core.Coord
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			a := core.C(x, y)
			for _, c := range []core.Coord{core.C(x+1, y), core.C(x, y+1)} {
				if board.ValidateSwap(b, cat, a, c) == nil {
					out = append(out, [2]core.Coord{a, c})
				}
			}
		}
	}
	return out
}
