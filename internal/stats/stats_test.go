package stats

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/signal"
)

type roster map[core.Team]int

func (r roster) CountAnimate(t core.Team) int { return r[t] }

func spawn(id int, team core.Team) *signal.Spawn {
	return &signal.Spawn{RobotID: id, Team: team, Chassis: core.ChassisLight}
}

func TestObserve(t *testing.T) {
	a := New()
	a.ObserveAll([]signal.Signal{
		spawn(1, core.TeamA),
		spawn(2, core.TeamB),
		spawn(3, core.TeamA),
		&signal.Equip{RobotID: 1, Component: core.SMG},
		&signal.Attack{RobotID: 1, Weapon: core.SMG, TargetID: 2},
		&signal.Attack{RobotID: 1, Weapon: core.Medic, TargetID: 2},
		&signal.Attack{RobotID: 1, Weapon: core.Railgun},
		&signal.Attack{RobotID: 1, Weapon: core.Railgun, TargetID: 3},
		&signal.Mine{RobotID: 2, Amount: 3},
		&signal.Broadcast{RobotID: 2, Radio: core.Antenna},
		&signal.Death{RobotID: 2},
		&signal.TeamResources{Resources: [2]int{10, 20}},
		&signal.Attack{RobotID: 99, Weapon: core.SMG},
	})

	st := a.Stats(roster{core.TeamA: 1})
	assert.Equal(t, core.TeamA, st[0].Team)
	assert.Equal(t, 2, st[0].Spawned)
	assert.Equal(t, 1, st[0].Equipped)
	assert.Equal(t, 4, st[0].Attacks)
	assert.InDelta(t, 0.6, st[0].DamageDealt, 1e-9)
	assert.Equal(t, 10, st[0].Resources)
	assert.Equal(t, 1, st[0].LiveRobots)

	assert.Equal(t, 3, st[1].FluxMined)
	assert.Equal(t, 1, st[1].Broadcasts)
	assert.Equal(t, 1, st[1].Deaths)
	assert.Equal(t, 20, st[1].Resources)
	assert.Equal(t, 0, st[1].LiveRobots)
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name       string
		roster     roster
		round      int
		done       bool
		winner     core.Team
		domination core.Domination
	}{
		{"ongoing", roster{core.TeamA: 2, core.TeamB: 2}, 5, false, core.TeamNeutral, core.DominationNone},
		{"a destroyed", roster{core.TeamB: 1}, 5, true, core.TeamB, core.Destroyed},
		{"b destroyed", roster{core.TeamA: 3}, 5, true, core.TeamA, core.Destroyed},
		{"round limit pwned", roster{core.TeamA: 4, core.TeamB: 2}, 99, true, core.TeamA, core.Pwned},
		{"round limit beat", roster{core.TeamA: 2, core.TeamB: 3}, 99, true, core.TeamB, core.Beat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, done := New().Decide(tt.roster, tt.round, 100, 1)
			assert.Equal(t, tt.done, done)
			assert.Equal(t, tt.winner, res.Winner)
			assert.Equal(t, tt.domination, res.Domination)
			assert.Equal(t, tt.round+1, res.Rounds)
		})
	}
}

func TestTiebreakLadder(t *testing.T) {
	var st [2]core.TeamStats
	st[0].LiveRobots, st[1].LiveRobots = 2, 2

	st[1].FluxMined = 5
	team, dom := Tiebreak(st, 0)
	assert.Equal(t, core.TeamB, team)
	assert.Equal(t, core.BarelyBeat, dom)

	st[1].FluxMined = 0
	st[0].DamageDealt = 1.5
	team, dom = Tiebreak(st, 0)
	assert.Equal(t, core.TeamA, team)
	assert.Equal(t, core.BarelyBarelyBeat, dom)

	st[0].DamageDealt = 0
	team, dom = Tiebreak(st, 4)
	assert.Equal(t, core.TeamA, team)
	assert.Equal(t, core.WonByDubiousReasons, dom)
	team, _ = Tiebreak(st, 7)
	assert.Equal(t, core.TeamB, team)
}
