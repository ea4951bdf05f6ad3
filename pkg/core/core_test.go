package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDirection_Rotation(t *testing.T) {
	for _, d := range Compass {
		assert.Equal(t, d, d.RotateLeft().RotateRight(), d.String())
		assert.Equal(t, d, d.Opposite().Opposite(), d.String())
		assert.Equal(t, -d.DX(), d.Opposite().DX())
		assert.Equal(t, -d.DY(), d.Opposite().DY())
	}
	assert.Equal(t, NorthWest, North.RotateLeft())
	assert.Equal(t, North, NorthWest.RotateRight())
	assert.Equal(t, DirOmni, DirOmni.RotateLeft())
	assert.Equal(t, DirNone, DirNone.Opposite())
	assert.Zero(t, DirNone.DX())
	assert.True(t, SouthWest.IsDiagonal())
	assert.False(t, West.IsDiagonal())
}

func TestParseDirection(t *testing.T) {
	for _, d := range []Direction{North, SouthEast, DirNone, DirOmni} {
		got, ok := ParseDirection(d.String())
		assert.True(t, ok)
		assert.Equal(t, d, got)
	}
	_, ok := ParseDirection("UP")
	assert.False(t, ok)
	assert.Equal(t, "UNKNOWN", Direction(42).String())
}

func TestMapLocation_DirectionTo(t *testing.T) {
	origin := MapLocation{}
	tests := []struct {
		to   MapLocation
		want Direction
	}{
		{MapLocation{0, 0}, DirOmni},
		{MapLocation{3, 1}, East},
		{MapLocation{-4, 0}, West},
		{MapLocation{1, -3}, North},
		{MapLocation{0, 5}, South},
		{MapLocation{2, 2}, SouthEast},
		{MapLocation{2, -2}, NorthEast},
		{MapLocation{-3, 2}, SouthWest},
		{MapLocation{-1, -1}, NorthWest},
	}
	for _, tt := range tests {
		t.Run(tt.to.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, origin.DirectionTo(tt.to))
		})
	}
}

func TestMapLocation_Steps(t *testing.T) {
	l := MapLocation{X: 4, Y: 4}
	assert.Equal(t, MapLocation{X: 4, Y: 3}, l.Add(North))
	assert.Equal(t, MapLocation{X: 3, Y: 5}, l.Subtract(NorthEast))
	assert.Equal(t, l, l.Add(DirOmni))
	assert.Equal(t, MapLocation{X: 6, Y: 1}, l.Offset(2, -3))
	assert.Equal(t, 13, l.DistanceSquaredTo(l.Offset(2, -3)))

	assert.True(t, l.IsAdjacentTo(l.Add(SouthWest)))
	assert.False(t, l.IsAdjacentTo(l))
	assert.False(t, l.IsAdjacentTo(l.Offset(2, 0)))
	assert.Equal(t, "[4, 4]", l.String())
}

func TestTeam(t *testing.T) {
	assert.Equal(t, TeamB, TeamA.Opponent())
	assert.Equal(t, TeamA, TeamB.Opponent())
	assert.Equal(t, TeamNeutral, TeamNeutral.Opponent())
	assert.Equal(t, 0, TeamA.Index())
	assert.Equal(t, 1, TeamB.Index())

	for _, team := range []Team{TeamA, TeamB, TeamNeutral} {
		got, ok := ParseTeam(team.String())
		assert.True(t, ok)
		assert.Equal(t, team, got)
	}
	_, ok := ParseTeam("C")
	assert.False(t, ok)
}

func TestCatalog(t *testing.T) {
	for _, ct := range ComponentTypes() {
		assert.True(t, ct.Valid())
		got, ok := ParseComponentType(ct.String())
		assert.True(t, ok, ct.String())
		assert.Equal(t, ct, got)
	}
	assert.False(t, ComponentType(200).Valid())

	for c := ChassisLight; c.Valid(); c++ {
		got, ok := ParseChassis(c.String())
		assert.True(t, ok)
		assert.Equal(t, c, got)
		if spec := c.Spec(); spec.HasMotor {
			assert.Equal(t, ClassMotor, spec.Motor.Class(), c.String())
		}
	}
	assert.Equal(t, "UNKNOWN", Chassis(99).String())

	assert.True(t, Recycler.CanBuildChassis(ChassisLight))
	assert.False(t, Recycler.CanBuildChassis(ChassisHeavy))
	assert.True(t, Armory.CanBuildComponent(Iron))
	assert.False(t, Blaster.CanBuildComponent(SMG))
	assert.True(t, Iron.Spec().Unique)
}

func TestTerrain(t *testing.T) {
	assert.True(t, TerrainLand.IsTraversableAt(LevelGround))
	assert.False(t, TerrainVoid.IsTraversableAt(LevelGround))
	assert.True(t, TerrainVoid.IsTraversableAt(LevelAir))
	assert.False(t, TerrainOffMap.IsTraversableAt(LevelAir))
}

func TestActionError(t *testing.T) {
	err := fmt.Errorf("move: %w", NewActionError(KindCantMoveThere, "tile %s blocked", MapLocation{X: 1, Y: 2}))

	assert.True(t, errors.Is(err, ErrCantMoveThere))
	assert.False(t, errors.Is(err, ErrOutOfRange))
	assert.False(t, IsInternal(err))
	assert.Equal(t, "move: CANT_MOVE_THERE: tile [1, 2] blocked", err.Error())

	assert.True(t, IsInternal(Internalf("robot %d missing", 3)))
	assert.Equal(t, "NOT_ENOUGH_ENERGON", ErrNotEnoughEnergon.Error())
}

func TestMessage_Clone(t *testing.T) {
	var nilMsg *Message
	assert.Nil(t, nilMsg.Clone())

	m := &Message{Ints: []int{1, 2}, Locations: []MapLocation{{X: 1}}}
	c := m.Clone()
	c.Ints[0] = 9
	assert.Equal(t, 1, m.Ints[0])
	assert.Nil(t, c.Strings)
	assert.Equal(t, m.Locations, c.Locations)
}

func TestMatchInfo_TeamName(t *testing.T) {
	info := MatchInfo{TeamA: "hunter", TeamB: "miner"}
	assert.Equal(t, "hunter", info.TeamName(TeamA))
	assert.Equal(t, "miner", info.TeamName(TeamB))
}
