package players

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxwars/engine/internal/engine"
	"github.com/fluxwars/engine/internal/world"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/player"
	"github.com/fluxwars/engine/pkg/signal"
)

func TestLookup(t *testing.T) {
	assert.Equal(t, []string{"hunter", "idle", "miner"}, Names())

	f, err := Lookup("hunter")
	require.NoError(t, err)
	assert.NotNil(t, f(core.RobotInfo{}))

	_, err = Lookup("nope")
	assert.ErrorContains(t, err, "unknown player")
}

func newMatch(t *testing.T, flux int, a, b string) *engine.Engine {
	t.Helper()
	tiles := make([][]world.TileDef, 12)
	for y := range tiles {
		tiles[y] = make([]world.TileDef, 12)
		for x := range tiles[y] {
			tiles[y][x] = world.TileDef{Terrain: core.TerrainLand, Flux: flux}
		}
	}
	m, err := world.NewMap(world.Params{Name: "players", Width: 12, Height: 12, Seed: 1, MaxRounds: 200, Tiles: tiles})
	require.NoError(t, err)

	fa, err := Lookup(a)
	require.NoError(t, err)
	fb, err := Lookup(b)
	require.NoError(t, err)

	cfg := engine.DefaultConfig()
	cfg.Upkeep = false
	cfg.Income = 0
	e, err := engine.New(cfg, m, core.MatchInfo{Name: t.Name(), TeamA: a, TeamB: b},
		engine.Dependencies{Programs: [2]player.Factory{fa, fb}})
	require.NoError(t, err)
	t.Cleanup(e.Close)
	return e
}

func TestHunterDestroysIdle(t *testing.T) {
	e := newMatch(t, 0, "hunter", "idle")
	m := e.Map()
	_, err := e.Place(engine.Placement{Team: core.TeamA, Chassis: core.ChassisHeavy, Location: m.GridLocation(2, 2),
		Direction: core.South, Components: []core.ComponentType{core.Railgun, core.Radar}})
	require.NoError(t, err)
	_, err = e.Place(engine.Placement{Team: core.TeamB, Chassis: core.ChassisLight, Location: m.GridLocation(2, 6), Direction: core.North})
	require.NoError(t, err)

	res, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, core.TeamA, res.Winner)
	assert.Equal(t, core.Destroyed, res.Domination)
	assert.Equal(t, 3, res.Stats[0].Attacks)
}

func TestMinerBuildsAndOutfits(t *testing.T) {
	e := newMatch(t, 4, "miner", "idle")
	m := e.Map()
	miner, err := e.Place(engine.Placement{Team: core.TeamA, Chassis: core.ChassisBuilding, Location: m.GridLocation(5, 5),
		Direction: core.North, Components: []core.ComponentType{core.Recycler}})
	require.NoError(t, err)
	_, err = e.Place(engine.Placement{Team: core.TeamB, Chassis: core.ChassisLight, Location: m.GridLocation(10, 10), Direction: core.North})
	require.NoError(t, err)

	for i := 0; i < 25; i++ {
		_, err := e.RunRound(context.Background())
		require.NoError(t, err)
	}

	var child int
	for _, entry := range e.AllSignals(false) {
		if s, ok := entry.Signal.(*signal.Spawn); ok && s.ParentID == miner {
			child = s.RobotID
		}
	}
	require.NotZero(t, child)
	info, ok := e.Robot(child)
	require.True(t, ok)
	assert.True(t, info.On)
	assert.Contains(t, info.Components, core.SMG)
	assert.Contains(t, info.Components, core.Sight)
	assert.Equal(t, 4, e.Stats()[0].FluxMined)
}
