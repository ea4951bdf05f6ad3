package engine

import (
	"context"
	"errors"

	"github.com/fluxwars/engine/internal/monitor"
	"github.com/fluxwars/engine/internal/robot"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/signal"
)

// ErrGameOver is returned by RunRound once a winner is decided.
var ErrGameOver = errors.New("game over")

// RunRound plays one round: beginning of round, one turn per live robot in
// ascending id order, end of round, then the win check. It reports whether
// the match is over. An internal fault stops the match and is returned by
// this and every later call.
func (e *Engine) RunRound(ctx context.Context) (bool, error) {
	if e.fault != nil {
		return false, e.fault
	}
	if e.result != nil {
		return true, ErrGameOver
	}
	e.started = true
	if e.deps.Match != nil {
		e.deps.Match.SetRound(e.round)
	}
	clear(e.used)

	e.beginRound()
	for _, id := range e.reg.IDs() {
		r, ok := e.reg.Get(id)
		if !ok {
			continue
		}
		if err := e.turn(ctx, r); err != nil {
			return false, err
		}
	}
	if err := e.endRound(); err != nil {
		return false, err
	}

	report := RoundReport{
		Round:   e.round,
		Signals: e.log.Round(e.round),
		Stats:   e.stats.Stats(e.reg),
	}
	for _, o := range e.deps.Observers {
		o.RoundComplete(ctx, report)
	}

	res, done := e.stats.Decide(e.reg, e.round, e.m.MaxRounds(), e.m.Seed())
	e.round++
	if !done {
		return false, nil
	}
	e.result = &res
	e.logger.Info("game over",
		"winner", res.Winner.String(),
		"domination", res.Domination.String(),
		"rounds", res.Rounds)
	for _, o := range e.deps.Observers {
		o.MatchComplete(ctx, res)
	}
	e.mon.Shutdown()
	return true, nil
}

// Run plays rounds until the match ends. A cancelled ctx or an engine fault
// stops it early with that error.
func (e *Engine) Run(ctx context.Context) (core.Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return core.Result{}, err
		}
		done, err := e.RunRound(ctx)
		if err != nil && !errors.Is(err, ErrGameOver) {
			return core.Result{}, err
		}
		if done {
			return *e.result, nil
		}
	}
}

// beginRound advances round-based counters before any robot acts.
func (e *Engine) beginRound() {
	e.reg.Each(func(r *robot.Robot) {
		r.Buffs().Tick()
	})
	e.m.RegenerateFlux(e.cfg.FluxRegen)
	for i := range e.resources {
		e.resources[i] += e.cfg.Income
	}
}

// turn runs one robot's whole turn.
func (e *Engine) turn(ctx context.Context, r *robot.Robot) error {
	r.BeginTurn()

	if e.cfg.Upkeep && r.IsOn() {
		idx := r.Team().Index()
		upkeep := r.Chassis().Spec().Upkeep
		if e.resources[idx] < upkeep {
			if err := e.emit(&signal.TurnOff{RobotID: r.ID(), Upkeep: true}); err != nil {
				return err
			}
			r.EndTurn()
			return nil
		}
		e.resources[idx] -= upkeep
	}
	r.Regenerate()

	if budget := r.OpBudget(e.cfg.OpBudgetBase, e.cfg.OpBudgetPerCore); budget > 0 && e.mon.Registered(r.ID()) {
		res := e.mon.RunTurn(ctx, r.ID(), budget)
		if e.fault != nil {
			return e.fault
		}
		e.used[r.ID()] = res.Used
		switch res.Outcome {
		case monitor.Finished, monitor.Panicked:
			if res.Err != nil {
				e.logger.Warn("robot program crashed", "robot", r.ID(), "round", e.round, "error", res.Err)
			}
			if !r.Destroyed() {
				e.kill(r)
				if err := e.flush(); err != nil {
					return err
				}
			}
		case monitor.TimedOut:
			e.logger.Warn("robot program stopped", "robot", r.ID(), "round", e.round)
		}
	}

	if !r.Destroyed() {
		r.EndTurn()
	}
	return nil
}

// endRound expires buffs, runs chassis lifetimes, sweeps the dead, and
// records the round summary.
func (e *Engine) endRound() error {
	e.reg.Each(func(r *robot.Robot) {
		r.Buffs().Expire()
		if r.CountDownLifetime() || r.ShouldDie() {
			e.kill(r)
		}
	})
	if err := e.flush(); err != nil {
		return err
	}

	health := &signal.HealthChange{}
	bytecodes := &signal.BytecodesUsed{}
	e.reg.Each(func(r *robot.Robot) {
		if r.TakeHealthChanged() {
			health.RobotIDs = append(health.RobotIDs, r.ID())
			health.Health = append(health.Health, r.Health())
		}
		if used, ok := e.used[r.ID()]; ok {
			bytecodes.RobotIDs = append(bytecodes.RobotIDs, r.ID())
			bytecodes.Used = append(bytecodes.Used, used)
		}
	})
	if len(health.RobotIDs) > 0 {
		e.pending.Push(health)
	}
	if len(bytecodes.RobotIDs) > 0 {
		e.pending.Push(bytecodes)
	}
	e.pending.Push(&signal.TeamResources{Resources: e.resources})
	return e.flush()
}
