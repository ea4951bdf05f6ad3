package sqlitestorage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxwars/engine/internal/database"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/replay"
	"github.com/fluxwars/engine/pkg/signal"
)

func newBackend(t *testing.T, cfg Config) *Backend {
	t.Helper()
	b := New(cfg, zerolog.Nop())
	require.NoError(t, b.Init())
	t.Cleanup(func() { b.Close() })
	return b
}

func testHeader() replay.Header {
	return replay.Header{
		Version: replay.Version,
		Match: core.MatchInfo{
			Name:      "league-3",
			MapName:   "arena",
			Seed:      6370,
			MaxRounds: 3000,
			TeamA:     "hunter",
			TeamB:     "idle",
			StartTime: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		},
		IncludeBytecodes: true,
	}
}

func testRounds(t *testing.T) []replay.Round {
	t.Helper()
	var stats [2]core.TeamStats
	stats[0] = core.TeamStats{Team: core.TeamA, Attacks: 1, DamageDealt: 6}
	stats[1] = core.TeamStats{Team: core.TeamB, Deaths: 1}

	r0, err := replay.NewRound(0, []signal.Signal{
		&signal.Spawn{RobotID: 1, Team: core.TeamA, Chassis: core.ChassisHeavy, On: true},
		&signal.Spawn{RobotID: 2, Team: core.TeamB, Chassis: core.ChassisLight, On: true},
	}, [2]core.TeamStats{})
	require.NoError(t, err)
	r1, err := replay.NewRound(1, []signal.Signal{
		&signal.Attack{RobotID: 1, Weapon: core.Railgun},
		&signal.Death{RobotID: 2},
		&signal.TeamResources{Resources: [2]int{90, 100}},
	}, stats)
	require.NoError(t, err)
	r2, err := replay.NewRound(2, nil, stats)
	require.NoError(t, err)
	return []replay.Round{r0, r1, r2}
}

func TestBackend_RequiresMatch(t *testing.T) {
	b := newBackend(t, Config{})
	assert.Error(t, b.RecordRound(replay.Round{}))
	assert.Error(t, b.EndMatch(core.Result{}, ""))
}

func TestBackend_StoresAndRebuildsMatch(t *testing.T) {
	b := newBackend(t, Config{})

	require.NoError(t, b.StartMatch(testHeader()))
	rounds := testRounds(t)
	for _, r := range rounds {
		require.NoError(t, b.RecordRound(r))
	}
	assert.Error(t, b.RecordRound(rounds[1]), "a round is stored once")

	res := core.Result{Winner: core.TeamA, Domination: core.Destroyed, Rounds: 3}
	require.NoError(t, b.EndMatch(res, "d1g3st"))

	var m MatchRecord
	require.NoError(t, b.DB().First(&m).Error)
	assert.True(t, m.Finished)
	assert.Equal(t, "A", m.Winner)
	assert.Equal(t, core.Destroyed.String(), m.Domination)
	assert.Equal(t, 3, m.Rounds)

	counts, err := b.KindCounts(m.ID)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{
		signal.KindSpawn.String():         2,
		signal.KindAttack.String():        1,
		signal.KindDeath.String():         1,
		signal.KindTeamResources.String(): 1,
	}, counts)

	f, err := b.Replay(m.ID)
	require.NoError(t, err)
	assert.Equal(t, "league-3", f.Match.Name)
	assert.True(t, f.Match.StartTime.Equal(testHeader().Match.StartTime))
	assert.Equal(t, "d1g3st", f.Digest)
	require.NotNil(t, f.Result)
	assert.Equal(t, res, *f.Result)

	require.Len(t, f.Rounds, 3)
	for i, r := range f.Rounds {
		assert.Equal(t, rounds[i].Round, r.Round)
		assert.Equal(t, rounds[i].Stats, r.Stats)
		require.Len(t, r.Signals, len(rounds[i].Signals))
		for j, env := range r.Signals {
			want := rounds[i].Signals[j]
			assert.Equal(t, want.Type, env.Type)
			assert.Equal(t, want.Seq, env.Seq)
			assert.JSONEq(t, string(want.Payload), string(env.Payload))
		}
	}

	log, err := f.Log()
	require.NoError(t, err)
	assert.Equal(t, 5, log.Len())
}

func TestBackend_UnfinishedMatchHasNoResult(t *testing.T) {
	b := newBackend(t, Config{})
	require.NoError(t, b.StartMatch(testHeader()))

	var m MatchRecord
	require.NoError(t, b.DB().First(&m).Error)
	f, err := b.Replay(m.ID)
	require.NoError(t, err)
	assert.Nil(t, f.Result)
	assert.Empty(t, f.Rounds)

	_, err = b.Replay(m.ID + 100)
	assert.Error(t, err)
}

func TestBackend_DumpsOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matches.db")
	b := New(Config{DumpPath: path, DumpInterval: time.Hour}, zerolog.Nop())
	require.NoError(t, b.Init())
	require.NoError(t, b.StartMatch(testHeader()))
	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	disk, err := database.OpenSQLite(path)
	require.NoError(t, err)
	var n int64
	require.NoError(t, disk.Model(&MatchRecord{}).Count(&n).Error)
	assert.Equal(t, int64(1), n)
}
