// Package stats aggregates team statistics from the signal stream and
// decides the winner. It never touches robots directly: everything it knows
// comes from signals and the live roster.
package stats

import (
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/signal"
)

// Roster counts live robots.
type Roster interface {
	CountAnimate(team core.Team) int
}

// Aggregator folds signals into per-team counters.
type Aggregator struct {
	teams map[int]core.Team
	stats [2]core.TeamStats
}

// New creates an empty aggregator.
func New() *Aggregator {
	a := &Aggregator{teams: make(map[int]core.Team)}
	for i, t := range core.Teams {
		a.stats[i].Team = t
	}
	return a
}

func (a *Aggregator) team(id int) (*core.TeamStats, bool) {
	t, ok := a.teams[id]
	if !ok || t == core.TeamNeutral {
		return nil, false
	}
	return &a.stats[t.Index()], true
}

// Observe folds one signal in. Signals must arrive in log order.
func (a *Aggregator) Observe(sig signal.Signal) {
	switch s := sig.(type) {
	case *signal.Spawn:
		a.teams[s.RobotID] = s.Team
		if st, ok := a.team(s.RobotID); ok {
			st.Spawned++
		}
	case *signal.Equip:
		if st, ok := a.team(s.RobotID); ok {
			st.Equipped++
		}
	case *signal.Death:
		if st, ok := a.team(s.RobotID); ok {
			st.Deaths++
		}
	case *signal.Attack:
		st, ok := a.team(s.RobotID)
		if !ok {
			return
		}
		st.Attacks++
		// only shots at an enemy robot count as damage
		if t, hit := a.teams[s.TargetID]; hit && t != a.teams[s.RobotID] {
			if p := s.Weapon.Spec().Power; p > 0 {
				st.DamageDealt += p
			}
		}
	case *signal.Mine:
		if st, ok := a.team(s.RobotID); ok {
			st.FluxMined += s.Amount
		}
	case *signal.Broadcast:
		if st, ok := a.team(s.RobotID); ok {
			st.Broadcasts++
		}
	case *signal.TeamResources:
		for i := range a.stats {
			a.stats[i].Resources = s.Resources[i]
		}
	}
}

// ObserveAll folds a slice of signals in order.
func (a *Aggregator) ObserveAll(sigs []signal.Signal) {
	for _, s := range sigs {
		a.Observe(s)
	}
}

// Stats returns a snapshot with live robot counts taken from roster.
func (a *Aggregator) Stats(roster Roster) [2]core.TeamStats {
	out := a.stats
	for i, t := range core.Teams {
		out[i].LiveRobots = roster.CountAnimate(t)
	}
	return out
}

// Decide reports whether the match is over after round and, if so, the
// result. A team with no animate robots left is destroyed. Otherwise the
// match runs to maxRounds and the tiebreak ladder decides.
func (a *Aggregator) Decide(roster Roster, round, maxRounds int, seed int64) (core.Result, bool) {
	st := a.Stats(roster)
	res := core.Result{Rounds: round + 1, Stats: st}
	liveA, liveB := st[0].LiveRobots, st[1].LiveRobots

	switch {
	case liveA == 0 && liveB > 0:
		res.Winner, res.Domination = core.TeamB, core.Destroyed
		return res, true
	case liveB == 0 && liveA > 0:
		res.Winner, res.Domination = core.TeamA, core.Destroyed
		return res, true
	case liveA == 0 && liveB == 0, round+1 >= maxRounds:
		res.Winner, res.Domination = Tiebreak(st, seed)
		return res, true
	}
	return res, false
}

// Tiebreak ranks two teams at the end of a match: more live robots, then
// more flux mined, then more damage dealt. A full tie goes to a coin flip
// seeded by the map.
func Tiebreak(st [2]core.TeamStats, seed int64) (core.Team, core.Domination) {
	a, b := st[0], st[1]
	switch {
	case a.LiveRobots != b.LiveRobots:
		win, lose := a.LiveRobots, b.LiveRobots
		team := core.TeamA
		if b.LiveRobots > a.LiveRobots {
			win, lose, team = b.LiveRobots, a.LiveRobots, core.TeamB
		}
		if win >= 2*lose {
			return team, core.Pwned
		}
		return team, core.Beat
	case a.FluxMined != b.FluxMined:
		if a.FluxMined > b.FluxMined {
			return core.TeamA, core.BarelyBeat
		}
		return core.TeamB, core.BarelyBeat
	case a.DamageDealt != b.DamageDealt:
		if a.DamageDealt > b.DamageDealt {
			return core.TeamA, core.BarelyBarelyBeat
		}
		return core.TeamB, core.BarelyBarelyBeat
	}
	if seed%2 == 0 {
		return core.TeamA, core.WonByDubiousReasons
	}
	return core.TeamB, core.WonByDubiousReasons
}
