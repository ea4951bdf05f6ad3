package robot

import "github.com/fluxwars/engine/pkg/core"

// BuffKind names a timed status effect.
type BuffKind uint8

const (
	// Weakened raises damage received.
	Weakened BuffKind = iota + 1
)

// Buff is an effect with a remaining duration.
type Buff struct {
	Kind       BuffKind
	RoundsLeft int
}

// Buffs is the set of effects on one robot. At most one buff per kind;
// reapplying refreshes the duration.
type Buffs struct {
	list []Buff
}

// Add applies kind for rounds, refreshing an existing buff of that kind.
func (b *Buffs) Add(kind BuffKind, rounds int) {
	for i := range b.list {
		if b.list[i].Kind == kind {
			if rounds > b.list[i].RoundsLeft {
				b.list[i].RoundsLeft = rounds
			}
			return
		}
	}
	b.list = append(b.list, Buff{Kind: kind, RoundsLeft: rounds})
}

// Has reports whether kind is in effect.
func (b *Buffs) Has(kind BuffKind) bool {
	for _, buff := range b.list {
		if buff.Kind == kind && buff.RoundsLeft > 0 {
			return true
		}
	}
	return false
}

// Tick counts every buff down by one round.
func (b *Buffs) Tick() {
	for i := range b.list {
		if b.list[i].RoundsLeft > 0 {
			b.list[i].RoundsLeft--
		}
	}
}

// Expire drops buffs that ran out and returns how many were removed.
func (b *Buffs) Expire() int {
	kept := b.list[:0]
	for _, buff := range b.list {
		if buff.RoundsLeft > 0 {
			kept = append(kept, buff)
		}
	}
	removed := len(b.list) - len(kept)
	b.list = kept
	return removed
}

// DamageMultiplier scales incoming attack damage.
func (b *Buffs) DamageMultiplier() float64 {
	m := 1.0
	if b.Has(Weakened) {
		m += core.WeakenedMultiplier
	}
	return m
}

// Len returns the number of buffs held.
func (b *Buffs) Len() int {
	return len(b.list)
}
