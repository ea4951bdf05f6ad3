package mapdef

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxwars/engine/internal/engine"
	"github.com/fluxwars/engine/internal/match"
	"github.com/fluxwars/engine/internal/players"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/player"
)

const small = `
name: small
seed: 7
maxRounds: 20
legend:
  ".": {terrain: land}
  "#": {terrain: void}
  "*": {terrain: land, flux: 5, height: 2}
rows:
  - "..*"
  - ".#."
robots:
  - {team: a, chassis: light, x: 0, y: 0, direction: east, components: [smg]}
  - {team: B, chassis: HEAVY, x: 2, y: 1}
`

func TestParseYAML(t *testing.T) {
	def, err := ParseYAML([]byte(small))
	require.NoError(t, err)

	m := def.Map
	assert.Equal(t, "small", m.Name())
	assert.Equal(t, 3, m.Width())
	assert.Equal(t, 2, m.Height())
	assert.Equal(t, 20, m.MaxRounds())
	assert.Equal(t, int64(7), m.Seed())
	assert.Equal(t, core.TerrainVoid, m.TerrainAt(m.GridLocation(1, 1)))
	assert.Equal(t, 5, m.Tile(m.GridLocation(2, 0)).Flux())
	assert.Equal(t, 2, m.Tile(m.GridLocation(2, 0)).Height)

	require.Len(t, def.Placements, 2)
	p := def.Placements[0]
	assert.Equal(t, core.TeamA, p.Team)
	assert.Equal(t, core.ChassisLight, p.Chassis)
	assert.Equal(t, core.East, p.Direction)
	assert.Equal(t, m.GridLocation(0, 0), p.Location)
	assert.Equal(t, []core.ComponentType{core.SMG}, p.Components)
	assert.Equal(t, core.North, def.Placements[1].Direction)
}

func TestParseYAMLErrors(t *testing.T) {
	cases := map[string]string{
		"no rows":         "name: x\n",
		"unknown symbol":  "legend: {'.': {terrain: land}}\nrows: ['.x']\n",
		"ragged rows":     "legend: {'.': {terrain: land}}\nrows: ['..', '.']\n",
		"bad terrain":     "legend: {'.': {terrain: lava}}\nrows: ['.']\n",
		"long legend key": "legend: {'..': {terrain: land}}\nrows: ['.']\n",
		"bad team":        "legend: {'.': {terrain: land}}\nrows: ['.']\nrobots: [{team: C, chassis: LIGHT, x: 0, y: 0}]\n",
		"bad chassis":     "legend: {'.': {terrain: land}}\nrows: ['.']\nrobots: [{team: A, chassis: TANK, x: 0, y: 0}]\n",
		"off map":         "legend: {'.': {terrain: land}}\nrows: ['.']\nrobots: [{team: A, chassis: LIGHT, x: 3, y: 0}]\n",
		"bad direction":   "legend: {'.': {terrain: land}}\nrows: ['.']\nrobots: [{team: A, chassis: LIGHT, x: 0, y: 0, direction: OMNI}]\n",
		"bad component":   "legend: {'.': {terrain: land}}\nrows: ['.']\nrobots: [{team: A, chassis: LIGHT, x: 0, y: 0, components: [LASER]}]\n",
		"malformed":       "rows: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseYAML([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "small.yaml")
	require.NoError(t, os.WriteFile(path, []byte(small), 0o644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "small", def.Map.Name())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBuiltinMaps(t *testing.T) {
	names := BuiltinNames()
	assert.Equal(t, []string{"arena", "duel"}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			def, err := Load(name)
			require.NoError(t, err)
			assert.Equal(t, name, def.Map.Name())
			assert.NotEmpty(t, def.Placements)
		})
	}

	_, err := Builtin("nowhere")
	assert.Error(t, err)
}

func TestPopulateAndPlay(t *testing.T) {
	def, err := Builtin("arena")
	require.NoError(t, err)

	idle, err := players.Lookup("idle")
	require.NoError(t, err)

	cfg := engine.DefaultConfig()
	info := core.MatchInfo{Name: "populate", TeamA: "idle", TeamB: "idle"}
	e, err := engine.New(cfg, def.Map, info, engine.Dependencies{
		Match:    match.NewContext(),
		Programs: [2]player.Factory{idle, idle},
	})
	require.NoError(t, err)
	defer e.Close()

	require.NoError(t, def.Populate(e))
	assert.Len(t, e.Robots(), len(def.Placements))

	done, err := e.RunRound(context.Background())
	require.NoError(t, err)
	assert.False(t, done)
}
