package board

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/charmbracelet/log"

	"github.com/RauAliaxYr/ApocalypticBase/internal/core"
	"github.com/RauAliaxYr/ApocalypticBase/internal/event"
)

// State is the cascade engine state.
type State uint8

const (
	StateIdle State = iota
	StateSwapping
	StateChecking
	StateResolving
	StateRefilling
	StateStopped
	StateFailed
)

var stateNames = [...]string{"idle", "swapping", "checking", "resolving", "refilling", "stopped", "failed"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "unknown"
}

// Pacing holds how long each presentation step lasts. Zero durations are
// valid and make the engine advance on the next tick.
type Pacing struct {
	Swap       time.Duration // swap animation before the first check
	MatchCheck time.Duration // settle delay before each check
	Resolve    time.Duration // tiles flying to the result cell
	RefillWave time.Duration // per refill wave
}

// DefaultPacing matches the stock configuration.
func DefaultPacing() Pacing {
	return Pacing{
		Swap:       300 * time.Millisecond,
		MatchCheck: 100 * time.Millisecond,
		Resolve:    200 * time.Millisecond,
		RefillWave: 100 * time.Millisecond,
	}
}

// Phase labels a Transition.
type Phase uint8

const (
	PhaseSwap Phase = iota
	PhaseResolve
	PhaseCollapse
	PhaseRefillWave
)

func (p Phase) String() string {
	switch p {
	case PhaseSwap:
		return "swap"
	case PhaseResolve:
		return "resolve"
	case PhaseCollapse:
		return "collapse"
	case PhaseRefillWave:
		return "refill"
	}
	return "unknown"
}

// Transition is one presentation step. Writes are applied first, then
// Removed, then Moves (all at once), then Spawns. Replaying transitions
// in order onto a copy of the board taken when the engine was idle
// reproduces the engine's board once it is idle again.
type Transition struct {
	Phase    Phase
	Writes   []CellWrite
	Removed  []core.Coord
	Moves    []Move
	Spawns   []Spawn
	Duration time.Duration
}

// Apply replays t onto b.
func (t Transition) Apply(b *Board) {
	for _, w := range t.Writes {
		b.Set(w.At, w.Cell)
	}
	for _, c := range t.Removed {
		b.Clear(c)
	}
	for _, m := range t.Moves {
		b.Clear(m.From)
	}
	for _, m := range t.Moves {
		b.Set(m.To, m.Cell)
	}
	for _, s := range t.Spawns {
		b.Set(s.At, s.Cell)
	}
}

// Option configures an Engine.
type Option func(*Engine)

// WithPacing sets animation timings.
func WithPacing(p Pacing) Option { return func(e *Engine) { e.pacing = p } }

// WithRand sets the random source for refills and even-length ties.
func WithRand(r *rand.Rand) Option { return func(e *Engine) { e.rng = r } }

// WithSeed is WithRand(rand.New(rand.NewSource(seed))).
func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithBus sets where domain events are published.
func WithBus(b *event.Bus) Option { return func(e *Engine) { e.bus = b } }

// WithLogger sets the engine logger.
func WithLogger(l *log.Logger) Option { return func(e *Engine) { e.logger = l } }

// WithMinMatch sets the shortest matching run.
func WithMinMatch(n int) Option { return func(e *Engine) { e.minMatch = n } }

// WithMaxCascade aborts a cascade after n resolving passes. 0 disables
// the limit.
func WithMaxCascade(n int) Option { return func(e *Engine) { e.maxCascade = n } }

// Engine runs the cascade loop for one board:
//
//	Idle -> Swapping -> Checking -> Idle
//	                    Checking -> Resolving -> Refilling -> Checking
//
// The board is updated in full as soon as each step is decided; the
// timers only pace the Transitions handed to observers. Stopping the
// engine at any point therefore leaves a consistent board.
//
// Engine is not safe for concurrent use.
type Engine struct {
	board      *Board
	catalog    *Catalog
	rng        *rand.Rand
	bus        *event.Bus
	logger     *log.Logger
	pacing     Pacing
	minMatch   int
	maxCascade int

	state     State
	remaining time.Duration
	filling   bool
	started   bool
	err       error

	pending []Transition // queued for the current Resolving/Refilling step
	depth   int          // resolving passes in the current cascade
	passes  int          // checking passes since creation
	bonus   int

	onTransition []func(Transition)
	onState      []func(from, to State)
}

// NewEngine wraps b. The board may be empty (see Start) or pre-filled.
func NewEngine(b *Board, cat *Catalog, opts ...Option) *Engine {
	e := &Engine{
		board:      b,
		catalog:    cat,
		pacing:     DefaultPacing(),
		minMatch:   DefaultMinMatch,
		maxCascade: 64,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if e.logger == nil {
		e.logger = log.New(io.Discard)
	}
	return e
}

// Board returns the logical board. Callers must not mutate it.
func (e *Engine) Board() *Board { return e.board }

// Catalog returns the definitions the engine uses.
func (e *Engine) Catalog() *Catalog { return e.catalog }

// State returns the current state.
func (e *Engine) State() State { return e.state }

// IsFilling reports whether a refill is being played.
func (e *Engine) IsFilling() bool { return e.filling }

// Busy reports whether a cascade step is in flight.
func (e *Engine) Busy() bool {
	switch e.state {
	case StateSwapping, StateChecking, StateResolving, StateRefilling:
		return true
	}
	return false
}

// Err returns the error that failed the engine, if any.
func (e *Engine) Err() error { return e.err }

// BonusSwaps returns the bonus swaps earned since creation.
func (e *Engine) BonusSwaps() int { return e.bonus }

// Passes returns how many Checking passes have run since creation.
func (e *Engine) Passes() int { return e.passes }

// OnTransition registers a presentation observer.
func (e *Engine) OnTransition(fn func(Transition)) {
	e.onTransition = append(e.onTransition, fn)
}

// OnStateChange registers a state observer.
func (e *Engine) OnStateChange(fn func(from, to State)) {
	e.onState = append(e.onState, fn)
}

// Start fills every empty cell and runs the first check. It may be called
// once, while idle.
func (e *Engine) Start() error {
	if e.started || e.state != StateIdle {
		return ErrAlreadyStarted
	}
	e.started = true
	if err := e.catalog.VerifyBoard(e.board); err != nil {
		e.fail(err)
		return err
	}
	plan, err := PlanRefill(e.board, e.catalog.SpawnPool(), e.rng)
	if err != nil {
		e.fail(err)
		return err
	}
	plan.Apply(e.board)
	e.pending = refillTransitions(plan, e.pacing.RefillWave)
	e.beginRefill()
	return nil
}

// RequestSwap validates and applies a player swap. It is rejected while
// any cascade step is in flight. An accepted swap always stands.
func (e *Engine) RequestSwap(a, c core.Coord) error {
	switch {
	case e.halted():
		return ErrStopped
	case e.state != StateIdle || e.filling:
		return fmt.Errorf("%w: %v", ErrBusy, e.state)
	}
	if err := Swap(e.board, e.catalog, a, c); err != nil {
		if errors.Is(err, ErrUnknownTile) {
			e.logger.Error("swap hit an undefined tile", "err", err)
		}
		return err
	}
	e.started = true
	e.depth = 0
	e.bus.Publish(event.SwapApplied{A: a, B: c})
	if e.halted() {
		return nil
	}
	e.emit(Transition{
		Phase:    PhaseSwap,
		Writes:   []CellWrite{{At: a, Cell: e.board.Get(a)}, {At: c, Cell: e.board.Get(c)}},
		Duration: e.pacing.Swap,
	})
	if e.halted() {
		return nil
	}
	e.setState(StateSwapping, e.pacing.Swap)
	return nil
}

// RequestCheck starts a Checking pass if the engine is idle and reports
// whether it did. Calls while a pass is in flight are ignored.
func (e *Engine) RequestCheck() bool {
	if e.state != StateIdle {
		return false
	}
	e.started = true
	e.depth = 0
	e.setState(StateChecking, e.pacing.MatchCheck)
	return true
}

// Tick advances pacing by dt, completing as many steps as fit.
func (e *Engine) Tick(dt time.Duration) {
	if !e.Busy() {
		return
	}
	e.remaining -= dt
	for e.Busy() && e.remaining <= 0 {
		carry := -e.remaining
		e.complete()
		if e.Busy() {
			e.remaining -= carry
		}
	}
}

// AnimationDone ends the current step early, as reported by presentation.
func (e *Engine) AnimationDone() {
	if !e.Busy() {
		return
	}
	e.remaining = 0
	e.complete()
}

// Settle completes steps until the engine leaves the busy states and
// returns the failure, if any.
func (e *Engine) Settle() error {
	for e.Busy() {
		e.AnimationDone()
	}
	return e.err
}

// Stop aborts whatever is playing. The board is left as it is, which is
// always a fully resolved intermediate state.
func (e *Engine) Stop() {
	if e.halted() {
		return
	}
	e.pending = nil
	e.filling = false
	e.setState(StateStopped, 0)
	e.logger.Debug("engine stopped")
}

func (e *Engine) complete() {
	switch e.state {
	case StateSwapping:
		e.setState(StateChecking, e.pacing.MatchCheck)
	case StateChecking:
		e.check()
	case StateResolving:
		e.playNext()
	case StateRefilling:
		e.playNext()
	}
}

// check runs one detection pass and, if anything matched, decides the
// whole resolve, collapse and refill step at once.
func (e *Engine) check() {
	e.passes++
	matches := FindMatches(e.board, e.minMatch)
	if len(matches) == 0 {
		e.board.ClearLastSwap()
		settled := e.depth
		e.depth = 0
		e.setState(StateIdle, 0)
		e.bus.Publish(event.CascadeSettled{Passes: settled})
		return
	}

	e.depth++
	if e.maxCascade > 0 && e.depth > e.maxCascade {
		e.fail(fmt.Errorf("%w: %d passes", ErrCascadeLimit, e.depth-1))
		return
	}
	e.logger.Debug("resolving matches", "pass", e.depth, "matches", len(matches))

	resolver := Resolver{Catalog: e.catalog, Rand: e.rng, MinMatch: e.minMatch}
	res, err := resolver.Resolve(e.board, matches, e.depth)
	if err != nil {
		e.fail(err)
		return
	}
	moves := Collapse(e.board)
	plan, err := PlanRefill(e.board, e.catalog.SpawnPool(), e.rng)
	if err != nil {
		e.fail(err)
		return
	}
	plan.Apply(e.board)

	for _, ev := range res.Events {
		e.bus.Publish(ev)
	}
	e.bonus += res.Bonus
	if e.halted() {
		return
	}

	resolve := Transition{Phase: PhaseResolve, Writes: res.Writes, Removed: res.Removed, Duration: e.pacing.Resolve}
	e.emit(resolve)
	if e.halted() {
		return
	}
	e.pending = e.pending[:0]
	if len(moves) > 0 {
		e.pending = append(e.pending, Transition{Phase: PhaseCollapse, Moves: moves})
	}
	e.pending = append(e.pending, refillTransitions(plan, e.pacing.RefillWave)...)
	e.setState(StateResolving, e.pacing.Resolve)
}

// playNext emits the next queued transition or moves on to Checking.
func (e *Engine) playNext() {
	if len(e.pending) == 0 {
		e.filling = false
		e.setState(StateChecking, e.pacing.MatchCheck)
		return
	}
	if e.state == StateResolving {
		e.beginRefill()
		return
	}
	next := e.pending[0]
	e.pending = e.pending[1:]
	e.emit(next)
	e.remaining = next.Duration
}

// beginRefill enters Refilling and plays the first queued transition.
func (e *Engine) beginRefill() {
	if len(e.pending) == 0 {
		e.setState(StateChecking, e.pacing.MatchCheck)
		return
	}
	e.filling = true
	next := e.pending[0]
	e.pending = e.pending[1:]
	e.setState(StateRefilling, next.Duration)
	if e.halted() {
		return
	}
	e.emit(next)
}

func refillTransitions(plan RefillPlan, wave time.Duration) []Transition {
	out := make([]Transition, 0, len(plan.Waves))
	for _, w := range plan.Waves {
		out = append(out, Transition{Phase: PhaseRefillWave, Spawns: w, Duration: wave})
	}
	return out
}

// halted reports whether Stop or a failure has ended the engine. Handlers
// run synchronously, so every step re-checks it after notifying them.
func (e *Engine) halted() bool {
	return e.state == StateStopped || e.state == StateFailed
}

func (e *Engine) fail(err error) {
	e.err = err
	e.pending = nil
	e.filling = false
	e.logger.Error("cascade aborted", "err", err, "state", e.state)
	e.setState(StateFailed, 0)
	e.bus.Publish(event.EngineFailed{Err: err})
}

func (e *Engine) setState(s State, d time.Duration) {
	from := e.state
	e.state = s
	e.remaining = d
	if from == s {
		return
	}
	for _, fn := range e.onState {
		fn(from, s)
	}
}

func (e *Engine) emit(t Transition) {
	for _, fn := range e.onTransition {
		fn(t)
	}
}
