package replay

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/signal"
)

func recording(t *testing.T) (*File, string) {
	t.Helper()
	rounds := [][]signal.Signal{
		{
			&signal.Spawn{RobotID: 1, Team: core.TeamA, Chassis: core.ChassisLight, Location: core.MapLocation{X: 1, Y: 1}, On: true},
			&signal.BytecodesUsed{RobotIDs: []int{1}, Used: []int{40}},
		},
		{
			&signal.Movement{RobotID: 1, To: core.MapLocation{X: 2, Y: 1}, Forward: true, Delay: 1},
			&signal.BytecodesUsed{RobotIDs: []int{1}, Used: []int{55}},
			&signal.TeamResources{Resources: [2]int{38, 40}},
		},
	}

	f := &File{Header: Header{
		Version:          Version,
		Match:            core.MatchInfo{Name: "t", MapName: "duel", Seed: 7},
		IncludeBytecodes: true,
	}}
	l := signal.NewLog()
	for i, sigs := range rounds {
		r, err := NewRound(i+1, sigs, [2]core.TeamStats{{Team: core.TeamA}, {Team: core.TeamB}})
		require.NoError(t, err)
		f.Rounds = append(f.Rounds, r)
		for _, s := range sigs {
			l.Append(i+1, s)
		}
	}
	digest, err := l.Digest()
	require.NoError(t, err)
	f.Digest = digest
	f.Result = &core.Result{Winner: core.TeamA, Domination: core.Pwned, Rounds: 2}
	return f, digest
}

func TestWriteRead(t *testing.T) {
	for _, compress := range []bool{false, true} {
		f, _ := recording(t)

		var buf bytes.Buffer
		require.NoError(t, Write(&buf, f, compress))
		if compress {
			assert.Equal(t, []byte{0x1f, 0x8b}, buf.Bytes()[:2])
		}

		got, err := Read(&buf)
		require.NoError(t, err)
		assert.Equal(t, f.Match.Name, got.Match.Name)
		assert.Equal(t, f.Digest, got.Digest)
		require.Len(t, got.Rounds, 2)
		assert.Len(t, got.Rounds[1].Signals, 3)
		require.NotNil(t, got.Result)
		assert.Equal(t, core.TeamA, got.Result.Winner)
	}
}

func TestRead_RejectsVersion(t *testing.T) {
	f, _ := recording(t)
	f.Version = Version + 1

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, f, false))
	_, err := Read(&buf)
	assert.ErrorContains(t, err, "unsupported replay version")
}

func TestRead_Garbage(t *testing.T) {
	_, err := Read(bytes.NewBufferString("not json"))
	assert.Error(t, err)
}

func TestReadFile(t *testing.T) {
	f, _ := recording(t)
	path := filepath.Join(t.TempDir(), "match.json.gz")
	fh, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, Write(fh, f, true))
	require.NoError(t, fh.Close())

	got, err := ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "duel", got.Match.MapName)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestVerify(t *testing.T) {
	f, digest := recording(t)

	got, err := f.Verify()
	require.NoError(t, err)
	assert.Equal(t, digest, got)

	f.Rounds[1].Signals = f.Rounds[1].Signals[:2]
	_, err = f.Verify()
	assert.ErrorContains(t, err, "digest mismatch")
}

func TestVerify_WithoutBytecodes(t *testing.T) {
	f, _ := recording(t)
	f.IncludeBytecodes = false
	_, err := f.Verify()
	assert.Error(t, err)
}

func TestLog_Rebuild(t *testing.T) {
	f, _ := recording(t)
	l, err := f.Log()
	require.NoError(t, err)
	assert.Equal(t, 5, l.Len())
	assert.Equal(t, 3, l.Rounds())

	f.Rounds[0].Signals[0].Type = "nonsense"
	_, err = f.Log()
	assert.Error(t, err)
}
