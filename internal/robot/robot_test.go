package robot

import (
	"testing"

	"github.com/fluxwars/engine/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const preMatch = -1

func newRobot(t *testing.T, chassis core.Chassis, parts ...core.ComponentType) *Robot {
	t.Helper()
	r := New(1, core.TeamA, chassis, core.MapLocation{X: 10, Y: 10}, core.North, nil)
	for _, p := range parts {
		_, err := r.Equip(p, preMatch)
		require.NoError(t, err)
	}
	r.on = true
	return r
}

func TestTakeDamage_DeflectiveThenHardened(t *testing.T) {
	tests := []struct {
		name string
		hit  float64
		want float64
	}{
		{"capped by hardened", 3.0, core.HardenedMaxDamage},
		{"reduced below cap", 1.5, 1.5 - core.ShieldDamageReduction},
		{"reduced to floor", 0.5, core.ShieldMinDamage},
		{"floor is the hit itself when smaller", 0.1, 0.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRobot(t, core.ChassisHeavy, core.Shield, core.Hardened)
			before := r.Health()
			r.TakeDamage(tt.hit)
			assert.InDelta(t, tt.want, before-r.Health(), 1e-9)
		})
	}
}

func TestTakeDamage_MultipleShieldsFollowRegistrationOrder(t *testing.T) {
	r := newRobot(t, core.ChassisHeavy, core.Shield, core.Shield, core.Hardened)
	r.TakeDamage(4)
	assert.InDelta(t, r.MaxHealth()-core.HardenedMaxDamage, r.Health(), 1e-9)

	r = newRobot(t, core.ChassisHeavy, core.Shield, core.Shield)
	r.TakeDamage(2)
	assert.InDelta(t, r.MaxHealth()-(2-2*core.ShieldDamageReduction), r.Health(), 1e-9)
}

func TestTakeDamage_ReactiveAbsorbsOnce(t *testing.T) {
	r := newRobot(t, core.ChassisHeavy, core.Shield, core.Plasma)
	full := r.Health()

	r.TakeDamage(5)
	assert.Equal(t, full, r.Health(), "first hit is swallowed")

	var plasma Component
	for _, c := range r.Components() {
		if c.Type() == core.Plasma {
			plasma = c
		}
	}
	require.NotNil(t, plasma)
	assert.True(t, plasma.IsActive())
	assert.Equal(t, core.Plasma.Spec().Delay, plasma.RoundsUntilIdle())

	r.TakeDamage(5)
	assert.InDelta(t, full-(5-core.ShieldDamageReduction), r.Health(), 1e-9)
}

func TestTakeDamage_WakingReactiveDoesNotAbsorb(t *testing.T) {
	r := newRobot(t, core.ChassisHeavy)
	_, err := r.Equip(core.Plasma, 3)
	require.NoError(t, err)

	full := r.Health()
	r.TakeDamage(2)
	assert.InDelta(t, full-2, r.Health(), 1e-9)
}

func TestTakeDamage_PoweredOffIgnoresArmor(t *testing.T) {
	r := newRobot(t, core.ChassisHeavy, core.Shield, core.Hardened, core.Plasma)
	r.SetPower(false)
	r.TakeDamage(3)
	assert.InDelta(t, r.MaxHealth()-3, r.Health(), 1e-9)
}

func TestTakeDamage_Invulnerable(t *testing.T) {
	r := newRobot(t, core.ChassisHeavy, core.Iron)
	r.ActivateIron()
	afterCost := r.Health()
	assert.InDelta(t, r.MaxHealth()-core.IronHealthCost, afterCost, 1e-9)

	r.TakeDamage(10)
	assert.Equal(t, afterCost, r.Health())

	for i := 0; i < core.IronEffectRounds; i++ {
		r.BeginTurn()
	}
	r.TakeDamage(10)
	assert.InDelta(t, afterCost-10, r.Health(), 1e-9)
}

func TestTakeDamage_WeakenedMultiplier(t *testing.T) {
	r := newRobot(t, core.ChassisHeavy)
	r.Buffs().Add(Weakened, 2)
	r.TakeDamage(2)
	assert.InDelta(t, r.MaxHealth()-2*(1+core.WeakenedMultiplier), r.Health(), 1e-9)
}

func TestTakeDamage_HealingBypassesDefenses(t *testing.T) {
	r := newRobot(t, core.ChassisHeavy, core.Plasma)
	r.SetPower(false)
	r.TakeDamage(10)
	r.on = true

	r.TakeDamage(-4)
	assert.InDelta(t, r.MaxHealth()-6, r.Health(), 1e-9)
	for _, c := range r.Components() {
		assert.False(t, c.IsActive(), "healing must not trigger reactive armor")
	}

	r.TakeDamage(-100)
	assert.Equal(t, r.MaxHealth(), r.Health(), "healing clamps at max")
}

func TestTakeDamage_ClampsAtZero(t *testing.T) {
	r := newRobot(t, core.ChassisLight)
	r.TakeDamage(1000)
	assert.Equal(t, 0.0, r.Health())
	assert.True(t, r.ShouldDie())
	assert.True(t, r.TakeHealthChanged())
	assert.False(t, r.TakeHealthChanged())
}

func TestEquip_CapacityExceeded(t *testing.T) {
	r := newRobot(t, core.ChassisLight, core.Blaster, core.Blaster, core.Shield)
	require.Equal(t, core.ChassisLight.Spec().Weight, r.Weight())

	_, err := r.Equip(core.SMG, preMatch)
	assert.ErrorIs(t, err, core.ErrNoRoomInChassis)
	assert.Equal(t, core.ChassisLight.Spec().Weight, r.Weight())
	assert.Len(t, r.Components(), 3)
}

func TestEquip_UniqueArmor(t *testing.T) {
	r := newRobot(t, core.ChassisHeavy, core.Iron)
	weight := r.Weight()

	_, err := r.Equip(core.Iron, preMatch)
	assert.ErrorIs(t, err, core.ErrNoRoomInChassis)
	assert.Equal(t, weight, r.Weight())

	n := 0
	for _, c := range r.ComponentTypes() {
		if c == core.Iron {
			n++
		}
	}
	assert.Equal(t, 1, n)

	_, err = r.Equip(core.Shield, preMatch)
	assert.NoError(t, err, "non-unique armor may repeat")
	_, err = r.Equip(core.Shield, preMatch)
	assert.NoError(t, err)
}

func TestEquip_StatEffects(t *testing.T) {
	r := newRobot(t, core.ChassisLight)
	_, err := r.Equip(core.Plating, preMatch)
	require.NoError(t, err)
	assert.Equal(t, core.ChassisLight.Spec().MaxHealth+core.PlatingHealthBonus, r.MaxHealth())
	assert.Equal(t, r.MaxHealth(), r.Health())

	_, err = r.Equip(core.Processor, preMatch)
	require.NoError(t, err)
	assert.Equal(t, 10+20, r.OpBudget(10, 20))

	r.SetPower(false)
	assert.Equal(t, 0, r.OpBudget(10, 20))
}

func TestEquip_WakeDelay(t *testing.T) {
	r := newRobot(t, core.ChassisMedium)
	pre, err := r.Equip(core.SMG, preMatch)
	require.NoError(t, err)
	assert.False(t, pre.IsActive())

	live, err := r.Equip(core.SMG, 0)
	require.NoError(t, err)
	assert.Equal(t, core.EquipWakeDelay, live.RoundsUntilIdle())

	for i := 0; i < core.EquipWakeDelay; i++ {
		r.EndTurn()
	}
	assert.False(t, live.IsActive())
}

func TestSetPower_WakesComponents(t *testing.T) {
	r := newRobot(t, core.ChassisLight, core.SMG)
	r.SetPower(false)
	r.SetPower(true)
	for _, c := range r.Components() {
		assert.Equal(t, core.PowerWakeDelay, c.RoundsUntilIdle())
	}
}

func TestReady(t *testing.T) {
	r := newRobot(t, core.ChassisLight, core.SMG)

	_, err := r.Ready(core.Blaster)
	assert.ErrorIs(t, err, core.ErrWrongRobotType)

	c, err := r.Ready(core.SMG)
	require.NoError(t, err)
	c.(*Weapon).Fire()

	_, err = r.Ready(core.SMG)
	assert.ErrorIs(t, err, core.ErrAlreadyActive)
}

func TestRegenerate(t *testing.T) {
	r := newRobot(t, core.ChassisMedium, core.Regen, core.Regen)
	r.TakeDamage(5)
	before := r.Health()
	r.Regenerate()
	assert.InDelta(t, before+2*core.RegenAmount, r.Health(), 1e-9)

	r.SetPower(false)
	before = r.Health()
	r.Regenerate()
	assert.Equal(t, before, r.Health())
}

func TestCountDownLifetime(t *testing.T) {
	d := New(2, core.TeamB, core.ChassisDummy, core.MapLocation{}, core.North, nil)
	for i := 1; i < core.DummyLifetime; i++ {
		require.False(t, d.CountDownLifetime())
	}
	assert.True(t, d.CountDownLifetime())

	assert.False(t, newRobot(t, core.ChassisLight).CountDownLifetime())
}

func TestMarkDestroyedOnce(t *testing.T) {
	r := newRobot(t, core.ChassisLight)
	assert.True(t, r.MarkDestroyed())
	assert.False(t, r.MarkDestroyed())
	assert.True(t, r.Destroyed())
}

func TestBuffs_TickExpire(t *testing.T) {
	var b Buffs
	b.Add(Weakened, 2)
	b.Add(Weakened, 1)
	assert.Equal(t, 1, b.Len())
	assert.True(t, b.Has(Weakened))

	b.Tick()
	assert.Equal(t, 0, b.Expire())
	b.Tick()
	assert.False(t, b.Has(Weakened))
	assert.Equal(t, 1, b.Expire())
	assert.Equal(t, 1.0, b.DamageMultiplier())
}
