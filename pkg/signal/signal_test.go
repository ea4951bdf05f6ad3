package signal

import (
	"testing"

	"github.com/fluxwars/engine/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRound() []Signal {
	return []Signal{
		&Spawn{RobotID: 1, Team: core.TeamA, Chassis: core.ChassisLight, Location: core.MapLocation{X: 3, Y: 4}, On: true},
		&Equip{RobotID: 1, Component: core.SMG},
		&Broadcast{RobotID: 1, Radio: core.Antenna, Message: &core.Message{Ints: []int{7}, Strings: []string{"go"}}},
		&BytecodesUsed{RobotIDs: []int{1}, Used: []int{120}},
		&TeamResources{Resources: [2]int{40, 38}},
	}
}

func TestKinds_Closed(t *testing.T) {
	for _, k := range Kinds() {
		sig, ok := New(k)
		require.True(t, ok, "kind %s has no constructor", k)
		assert.Equal(t, k, sig.Kind())

		parsed, ok := ParseKind(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, parsed)
	}
	_, ok := New(numKinds)
	assert.False(t, ok)
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestEnvelope_RoundTrip(t *testing.T) {
	envs, err := EncodeRound(3, sampleRound())
	require.NoError(t, err)
	require.Len(t, envs, 5)
	assert.Equal(t, "broadcast", envs[2].Type)
	assert.Equal(t, 2, envs[2].Seq)

	sig, err := Decode(envs[2])
	require.NoError(t, err)
	b, ok := sig.(*Broadcast)
	require.True(t, ok)
	assert.Equal(t, []string{"go"}, b.Message.Strings)

	_, err = Decode(Envelope{Type: "nope"})
	assert.Error(t, err)
}

func TestLog_AllAndFilter(t *testing.T) {
	l := NewLog()
	for _, s := range sampleRound() {
		l.Append(0, s)
	}
	l.Append(2, &Death{RobotID: 1})

	assert.Equal(t, 3, l.Rounds())
	assert.Empty(t, l.Round(1))
	assert.Nil(t, l.Round(9))
	assert.Equal(t, 6, l.Len())
	assert.Len(t, l.All(true), 6)
	assert.Len(t, l.All(false), 5)
	assert.Len(t, Filter(l.Round(0), false), 4)

	last := l.All(false)[4]
	assert.Equal(t, 2, last.Round)
	assert.Equal(t, 0, last.Seq)
}

func TestLog_RoundIsDetached(t *testing.T) {
	l := NewLog()
	for _, s := range sampleRound() {
		l.Append(0, s)
	}
	grown := append(l.Round(0), &Death{RobotID: 9})
	l.Append(0, &Mine{RobotID: 2})

	require.Len(t, grown, 6)
	assert.Equal(t, KindDeath, grown[5].Kind())
	assert.Equal(t, KindMine, l.Round(0)[5].Kind())
}

func TestLog_DigestIsStable(t *testing.T) {
	build := func(amount int) *Log {
		l := NewLog()
		for _, s := range sampleRound() {
			l.Append(0, s)
		}
		l.Append(1, &Mine{RobotID: 1, Amount: amount})
		return l
	}

	a, err := build(5).Digest()
	require.NoError(t, err)
	b, err := build(5).Digest()
	require.NoError(t, err)
	c, err := build(6).Digest()
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)

	raw1, err := build(5).Canonical()
	require.NoError(t, err)
	raw2, err := build(5).Canonical()
	require.NoError(t, err)
	assert.Equal(t, raw1, raw2)
}
