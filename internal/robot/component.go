package robot

import "github.com/fluxwars/engine/pkg/core"

// Component is the capability set shared by every equipped module: it
// activates on a schedule, validates whether it may act, and receives the
// turn phase callbacks. Components refer to their robot by id only.
type Component interface {
	Type() core.ComponentType
	Owner() int
	IsActive() bool
	RoundsUntilIdle() int
	Activate(rounds int)
	Ready() error
	BeginTurn()
	EndTurn()
}

type base struct {
	typ             core.ComponentType
	owner           int
	roundsUntilIdle int
}

func (b *base) Type() core.ComponentType { return b.typ }
func (b *base) Owner() int               { return b.owner }
func (b *base) IsActive() bool           { return b.roundsUntilIdle > 0 }
func (b *base) RoundsUntilIdle() int     { return b.roundsUntilIdle }

// Activate keeps the component busy for at least rounds more turns.
func (b *base) Activate(rounds int) {
	if rounds > b.roundsUntilIdle {
		b.roundsUntilIdle = rounds
	}
}

func (b *base) Ready() error {
	if b.IsActive() {
		return core.NewActionError(core.KindAlreadyActive, "%s busy for %d rounds", b.typ, b.roundsUntilIdle)
	}
	return nil
}

func (b *base) BeginTurn() {}

func (b *base) EndTurn() {
	if b.roundsUntilIdle > 0 {
		b.roundsUntilIdle--
	}
}

// Armor is a passive defensive module. A reactive armor (PLASMA) is
// triggered while active.
type Armor struct{ base }

// Reactive reports whether the armor swallows whole hits.
func (a *Armor) Reactive() bool { return a.typ == core.Plasma }

// Weapon fires at a location within its offset cone.
type Weapon struct{ base }

// Power is the raw damage of one shot; negative heals.
func (w *Weapon) Power() float64 { return w.typ.Spec().Power }

// Fire puts the weapon on cooldown.
func (w *Weapon) Fire() { w.Activate(w.typ.Spec().Delay) }

// Sensor sweeps its offset cone.
type Sensor struct{ base }

// Radio broadcasts within its range.
type Radio struct{ base }

// RangeSq is the squared broadcast distance.
func (r *Radio) RangeSq() int { return r.typ.Spec().RangeSq }

// Motor moves and turns the robot.
type Motor struct{ base }

// Mobile reports whether the motor can change location at all.
func (m *Motor) Mobile() bool { return m.typ != core.BuildingMotor }

// MoveDelay is the cooldown of one step; diagonal steps take 7/5 as long.
func (m *Motor) MoveDelay(diagonal bool) int {
	d := m.typ.Spec().Delay
	if diagonal {
		return (d*7 + 4) / 5
	}
	return d
}

// Builder produces chassis and components from its build list. A RECYCLER
// also mines the tile under its robot.
type Builder struct{ base }

// Miner reports whether the builder can extract flux.
func (b *Builder) Miner() bool { return b.typ == core.Recycler }

// Jumper relocates its robot within range.
type Jumper struct{ base }

// Transport carries passengers.
type Transport struct{ base }

// Power modules raise the per-turn operation budget.
type Power struct{ base }

func newComponent(t core.ComponentType, owner int) Component {
	b := base{typ: t, owner: owner}
	switch t.Class() {
	case core.ClassArmor:
		return &Armor{b}
	case core.ClassWeapon:
		return &Weapon{b}
	case core.ClassSensor:
		return &Sensor{b}
	case core.ClassRadio:
		return &Radio{b}
	case core.ClassMotor:
		return &Motor{b}
	case core.ClassBuilder:
		return &Builder{b}
	case core.ClassJump:
		return &Jumper{b}
	case core.ClassTransport:
		return &Transport{b}
	default:
		return &Power{b}
	}
}
