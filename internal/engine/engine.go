// Package engine is the round driver. It owns the world, runs every robot's
// program in id order under the execution monitor, and turns each accepted
// action into a signal that is logged and applied in one step.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/fluxwars/engine/internal/match"
	"github.com/fluxwars/engine/internal/monitor"
	"github.com/fluxwars/engine/internal/queue"
	"github.com/fluxwars/engine/internal/robot"
	"github.com/fluxwars/engine/internal/stats"
	"github.com/fluxwars/engine/internal/world"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/player"
	"github.com/fluxwars/engine/pkg/signal"
)

// RoundReport is handed to observers after every round.
type RoundReport struct {
	Round   int
	Signals []signal.Signal
	Stats   [2]core.TeamStats
}

// Observer receives finished rounds and the final result. Calls are made on
// the engine goroutine; Signals must not be modified.
type Observer interface {
	RoundComplete(ctx context.Context, report RoundReport)
	MatchComplete(ctx context.Context, result core.Result)
}

// Dependencies holds the collaborators of an Engine.
type Dependencies struct {
	Logger    *slog.Logger
	Match     *match.Context
	Programs  [2]player.Factory
	Observers []Observer
}

// Placement is a robot present before the first round.
type Placement struct {
	Team       core.Team
	Chassis    core.Chassis
	Location   core.MapLocation
	Direction  core.Direction
	Components []core.ComponentType
}

// Engine drives one match. It is not safe for concurrent use; all methods
// are called from a single goroutine.
type Engine struct {
	cfg     Config
	info    core.MatchInfo
	m       *world.Map
	offsets *world.OffsetTable
	reg     *robot.Registry
	log     *signal.Log
	mon     *monitor.Monitor
	stats   *stats.Aggregator
	deps    Dependencies
	logger  *slog.Logger

	round     int
	started   bool
	resources [2]int
	used      map[int]int
	rngs      map[int]*rand.Rand
	pending   *queue.Queue[signal.Signal]
	fault     error
	result    *core.Result
}

// New creates an engine for map m. Nothing runs until RunRound.
func New(cfg Config, m *world.Map, info core.MatchInfo, deps Dependencies) (*Engine, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mon, err := monitor.New(monitor.Config{TurnTimeout: cfg.TurnTimeout}, logger)
	if err != nil {
		return nil, fmt.Errorf("creating monitor: %w", err)
	}
	info.MapName = m.Name()
	info.Seed = m.Seed()
	info.MaxRounds = m.MaxRounds()

	e := &Engine{
		cfg:     cfg,
		info:    info,
		m:       m,
		offsets: world.DefaultOffsets(),
		reg:     robot.NewRegistry(),
		log:     signal.NewLog(),
		mon:     mon,
		stats:   stats.New(),
		deps:    deps,
		logger:  logger.With("match", info.Name),
		used:    make(map[int]int),
		rngs:    make(map[int]*rand.Rand),
		pending: queue.New[signal.Signal](),
	}
	for i := range e.resources {
		e.resources[i] = cfg.StartingResources
	}
	if deps.Match != nil {
		deps.Match.SetMatch(&e.info)
	}
	return e, nil
}

// Place spawns a robot before the match starts. Its components are idle
// immediately and it starts powered on.
func (e *Engine) Place(p Placement) (int, error) {
	if e.started {
		return 0, fmt.Errorf("cannot place robots after round 0 started")
	}
	if !p.Chassis.Valid() || (p.Team != core.TeamA && p.Team != core.TeamB && !p.Chassis.Spec().Inanimate) {
		return 0, fmt.Errorf("invalid placement %s for team %s", p.Chassis, p.Team)
	}
	level := p.Chassis.Spec().Level
	if !e.m.TerrainAt(p.Location).IsTraversableAt(level) || e.reg.Occupied(p.Location, level) {
		return 0, fmt.Errorf("cannot place %s at %s", p.Chassis, p.Location)
	}

	id := e.reg.NextID()
	if err := e.emit(&signal.Spawn{
		RobotID:   id,
		Team:      p.Team,
		Chassis:   p.Chassis,
		Location:  p.Location,
		Direction: p.Direction,
		On:        !p.Chassis.Spec().Inanimate,
	}); err != nil {
		return 0, err
	}
	r, _ := e.reg.Get(id)
	for _, t := range p.Components {
		if !t.Valid() {
			return id, fmt.Errorf("placing robot %d: unknown component %d", id, t)
		}
		if err := r.HasRoomFor(t); err != nil {
			return id, fmt.Errorf("placing robot %d: %w", id, err)
		}
		if err := e.emit(&signal.Equip{RobotID: id, Component: t}); err != nil {
			return id, err
		}
	}
	// programs see the finished loadout
	e.attach(r)
	return id, nil
}

// Close stops every agent goroutine.
func (e *Engine) Close() {
	e.mon.Shutdown()
}

// equipRound is the round passed to Robot.Equip: -1 before the match so
// pre-match equipment skips the wake delay.
func (e *Engine) equipRound() int {
	if !e.started {
		return -1
	}
	return e.round
}

// latch records the first internal fault. Every later RunRound returns it.
func (e *Engine) latch(err error) error {
	if e.fault == nil {
		e.fault = fmt.Errorf("engine fault in round %d: %w", e.round, err)
		e.logger.Error("internal engine fault", "round", e.round, "error", err)
	}
	return e.fault
}

// emit records and applies sig, then every follow-up it produced, in order.
func (e *Engine) emit(sig signal.Signal) error {
	e.pending.Push(sig)
	return e.flush()
}

func (e *Engine) flush() error {
	for {
		s, ok := e.pending.Pop()
		if !ok {
			return nil
		}
		e.log.Append(e.round, s)
		e.stats.Observe(s)
		if err := e.apply(s); err != nil {
			e.pending.Clear()
			return e.latch(err)
		}
	}
}

// kill queues the death of r unless it is already dying.
func (e *Engine) kill(r *robot.Robot) {
	if r.MarkDestroyed() {
		e.pending.Push(&signal.Death{RobotID: r.ID()})
	}
}

// attach gives a robot its team's program. Pre-match robots are attached
// once fully equipped; robots built during the match at spawn.
func (e *Engine) attach(r *robot.Robot) {
	if r.Inanimate() || r.Team() == core.TeamNeutral {
		return
	}
	factory := e.deps.Programs[r.Team().Index()]
	if factory == nil {
		return
	}
	prog := factory(r.Info())
	if prog == nil {
		return
	}
	ctrl := &controller{e: e, id: r.ID(), team: r.Team()}
	e.mon.Register(r.ID(), func() { prog.Run(ctrl) })
}

// rng returns the deterministic random source of robot id.
func (e *Engine) rng(id int) *rand.Rand {
	r, ok := e.rngs[id]
	if !ok {
		r = rand.New(rand.NewPCG(uint64(e.m.Seed()), uint64(id)))
		e.rngs[id] = r
	}
	return r
}
