package engine

import (
	"github.com/fluxwars/engine/internal/monitor"
	"github.com/fluxwars/engine/internal/world"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/signal"
)

// Viewer queries. They read state only and are meant for the engine's own
// goroutine between rounds.

// Round returns the next round to be played.
func (e *Engine) Round() int { return e.round }

// Seed returns the map seed.
func (e *Engine) Seed() int64 { return e.m.Seed() }

// Map returns the terrain map.
func (e *Engine) Map() *world.Map { return e.m }

// MatchInfo describes the match.
func (e *Engine) MatchInfo() core.MatchInfo { return e.info }

// TeamName returns the program name of team t.
func (e *Engine) TeamName(t core.Team) string { return e.info.TeamName(t) }

// Running reports whether more rounds can be played.
func (e *Engine) Running() bool { return e.result == nil && e.fault == nil }

// Fault returns the internal fault that stopped the match, if any.
func (e *Engine) Fault() error { return e.fault }

// Winner returns the winning team once the match is over.
func (e *Engine) Winner() (core.Team, bool) {
	if e.result == nil {
		return core.TeamNeutral, false
	}
	return e.result.Winner, true
}

// Result returns the final result once the match is over.
func (e *Engine) Result() (core.Result, bool) {
	if e.result == nil {
		return core.Result{}, false
	}
	return *e.result, true
}

// Resources returns the pool of team t.
func (e *Engine) Resources(t core.Team) int {
	return e.resources[t.Index()]
}

// Signals returns the signals of one round.
func (e *Engine) Signals(round int, includeBytecodes bool) []signal.Signal {
	return signal.Filter(e.log.Round(round), includeBytecodes)
}

// AllSignals returns every signal so far.
func (e *Engine) AllSignals(includeBytecodes bool) []signal.Entry {
	return e.log.All(includeBytecodes)
}

// Log returns the signal log.
func (e *Engine) Log() *signal.Log { return e.log }

// Digest hashes the whole signal log.
func (e *Engine) Digest() (string, error) { return e.log.Digest() }

// Stats returns the running team statistics.
func (e *Engine) Stats() [2]core.TeamStats { return e.stats.Stats(e.reg) }

// Robots describes every live robot in id order.
func (e *Engine) Robots() []core.RobotInfo {
	out := make([]core.RobotInfo, 0, e.reg.Len())
	for _, id := range e.reg.IDs() {
		if r, ok := e.reg.Get(id); ok {
			out = append(out, r.Info())
		}
	}
	return out
}

// Robot describes one live robot.
func (e *Engine) Robot(id int) (core.RobotInfo, bool) {
	r, ok := e.reg.Get(id)
	if !ok {
		return core.RobotInfo{}, false
	}
	return r.Info(), true
}

// Agents returns the execution monitor's view of every program.
func (e *Engine) Agents() []monitor.AgentStatus { return e.mon.Status() }
