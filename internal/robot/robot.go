// Package robot is the entity model. Robots own their components and buffs;
// the id-keyed Registry owns the robots.
package robot

import (
	"github.com/fluxwars/engine/internal/queue"
	"github.com/fluxwars/engine/internal/world"
	"github.com/fluxwars/engine/pkg/core"
)

// Robot is a live entity. All mutation happens on the engine goroutine.
type Robot struct {
	id      int
	team    core.Team
	chassis core.Chassis
	loc     core.MapLocation
	dir     core.Direction

	health float64
	weight int
	on     bool

	invulnerableRounds int
	dummyRounds        int

	cores    int
	platings int
	regens   int

	components []Component
	buffs      Buffs
	memory     *world.MapMemory
	messages   *queue.Queue[*core.Message]

	transporter int
	passengers  []int
	cargo       int

	healthChanged bool
	destroyed     bool
}

// New creates a powered-off robot at full health with no components.
func New(id int, team core.Team, chassis core.Chassis, loc core.MapLocation, dir core.Direction, memory *world.MapMemory) *Robot {
	r := &Robot{
		id:       id,
		team:     team,
		chassis:  chassis,
		loc:      loc,
		dir:      dir,
		health:   chassis.Spec().MaxHealth,
		memory:   memory,
		messages: queue.NewBounded[*core.Message](core.MessageQueueLimit),
	}
	if chassis == core.ChassisDummy {
		r.dummyRounds = core.DummyLifetime
	}
	return r
}

func (r *Robot) ID() int                    { return r.id }
func (r *Robot) Team() core.Team            { return r.team }
func (r *Robot) Chassis() core.Chassis      { return r.chassis }
func (r *Robot) Location() core.MapLocation { return r.loc }
func (r *Robot) Direction() core.Direction  { return r.dir }
func (r *Robot) Level() core.RobotLevel     { return r.chassis.Spec().Level }
func (r *Robot) Health() float64            { return r.health }
func (r *Robot) Weight() int                { return r.weight }
func (r *Robot) IsOn() bool                 { return r.on }
func (r *Robot) Memory() *world.MapMemory   { return r.memory }
func (r *Robot) InvulnerableRounds() int    { return r.invulnerableRounds }
func (r *Robot) Transporter() int           { return r.transporter }
func (r *Robot) Boarded() bool              { return r.transporter != 0 }
func (r *Robot) Destroyed() bool            { return r.destroyed }
func (r *Robot) Buffs() *Buffs              { return &r.buffs }
func (r *Robot) Inanimate() bool            { return r.chassis.Spec().Inanimate }

// Messages is the robot's inbox.
func (r *Robot) Messages() *queue.Queue[*core.Message] {
	return r.messages
}

// MaxHealth is the chassis base plus every plating bonus.
func (r *Robot) MaxHealth() float64 {
	return r.chassis.Spec().MaxHealth + float64(r.platings)*core.PlatingHealthBonus
}

// Components returns the equipped modules in registration order.
func (r *Robot) Components() []Component {
	return r.components
}

// ComponentTypes lists the kinds equipped, in registration order.
func (r *Robot) ComponentTypes() []core.ComponentType {
	out := make([]core.ComponentType, len(r.components))
	for i, c := range r.components {
		out[i] = c.Type()
	}
	return out
}

// Has reports whether a component of kind t is equipped.
func (r *Robot) Has(t core.ComponentType) bool {
	for _, c := range r.components {
		if c.Type() == t {
			return true
		}
	}
	return false
}

// Ready returns the first idle component of kind t. A robot without t gets
// wrong-robot-type; one whose every t is busy gets entity-already-active.
func (r *Robot) Ready(t core.ComponentType) (Component, error) {
	var busy error
	for _, c := range r.components {
		if c.Type() != t {
			continue
		}
		if err := c.Ready(); err != nil {
			busy = err
			continue
		}
		return c, nil
	}
	if busy != nil {
		return nil, busy
	}
	return nil, core.NewActionError(core.KindWrongRobotType, "robot %d has no %s", r.id, t)
}

// FirstOfClass returns the first component of class k.
func (r *Robot) FirstOfClass(k core.ComponentClass) (Component, bool) {
	for _, c := range r.components {
		if c.Type().Class() == k {
			return c, true
		}
	}
	return nil, false
}

// HasRoomFor checks chassis capacity and the unique-armor rule.
func (r *Robot) HasRoomFor(t core.ComponentType) error {
	spec := t.Spec()
	if spec.Unique && r.Has(t) {
		return core.NewActionError(core.KindNoRoomInChassis, "robot %d already has %s", r.id, t)
	}
	if r.weight+spec.Weight > r.chassis.Spec().Weight {
		return core.NewActionError(core.KindNoRoomInChassis, "robot %d weight %d + %d exceeds %d",
			r.id, r.weight, spec.Weight, r.chassis.Spec().Weight)
	}
	return nil
}

// Equip instantiates and attaches a component of kind t. Equipping during a
// match (round >= 0) leaves the component waking for EquipWakeDelay rounds.
// On error nothing changes.
func (r *Robot) Equip(t core.ComponentType, round int) (Component, error) {
	if !t.Valid() {
		return nil, core.Internalf("equip of unknown component %d", t)
	}
	if err := r.HasRoomFor(t); err != nil {
		return nil, err
	}
	c := newComponent(t, r.id)
	r.components = append(r.components, c)
	r.weight += t.Spec().Weight

	switch t {
	case core.Plating:
		r.platings++
		r.ChangeHealth(core.PlatingHealthBonus)
	case core.Processor:
		r.cores++
	case core.Regen:
		r.regens++
	case core.Dropship:
		if r.passengers == nil {
			r.passengers = []int{}
		}
	}

	if round >= 0 {
		c.Activate(core.EquipWakeDelay)
	}
	return c, nil
}

// SetPower switches the robot on or off. Powering on wakes every component
// after PowerWakeDelay rounds.
func (r *Robot) SetPower(on bool) {
	if on && !r.on {
		for _, c := range r.components {
			c.Activate(core.PowerWakeDelay)
		}
	}
	r.on = on
}

// Boot powers a pre-match robot on with every component idle.
func (r *Robot) Boot() {
	r.on = true
}

// SetDirection turns the robot.
func (r *Robot) SetDirection(d core.Direction) {
	r.dir = d
}

// SetLocation moves the robot. Grid occupancy is the registry's concern.
func (r *Robot) SetLocation(loc core.MapLocation) {
	r.loc = loc
}

// ChangeHealth adds delta and clamps the result to [0, MaxHealth].
func (r *Robot) ChangeHealth(delta float64) {
	h := r.health + delta
	if limit := r.MaxHealth(); h > limit {
		h = limit
	}
	if h < 0 {
		h = 0
	}
	if h != r.health {
		r.health = h
		r.healthChanged = true
	}
}

// ShouldDie reports whether health has reached zero.
func (r *Robot) ShouldDie() bool {
	return r.health <= 0
}

// MarkDestroyed flags the robot as gone. It returns false if the robot was
// already destroyed, so the death pathway runs exactly once.
func (r *Robot) MarkDestroyed() bool {
	if r.destroyed {
		return false
	}
	r.destroyed = true
	return true
}

// TakeHealthChanged returns and clears the health-changed flag.
func (r *Robot) TakeHealthChanged() bool {
	c := r.healthChanged
	r.healthChanged = false
	return c
}

// TakeDamage resolves one hit. Negative amounts heal and skip all defenses.
// A powered-off robot takes the full amount; an invulnerable one takes
// nothing. Otherwise armor is scanned in registration order: deflective
// armor reduces the hit, hardened armor caps it, and an idle reactive
// armor absorbs it entirely and triggers. The result never drops below
// min(ShieldMinDamage, amount) unless absorbed.
func (r *Robot) TakeDamage(amount float64) {
	if amount < 0 {
		r.ChangeHealth(-amount)
		return
	}
	if !r.on {
		r.damageFromAttack(amount)
		return
	}
	if r.invulnerableRounds > 0 {
		return
	}

	floor := amount
	if core.ShieldMinDamage < floor {
		floor = core.ShieldMinDamage
	}
	hardened := false
	for _, c := range r.components {
		a, ok := c.(*Armor)
		if !ok {
			continue
		}
		switch a.Type() {
		case core.Shield:
			amount -= core.ShieldDamageReduction
		case core.Hardened:
			hardened = true
		case core.Plasma:
			if !a.IsActive() {
				a.Activate(core.Plasma.Spec().Delay)
				return
			}
		}
	}

	if hardened && amount > core.HardenedMaxDamage {
		r.damageFromAttack(core.HardenedMaxDamage)
		return
	}
	if amount < floor {
		amount = floor
	}
	r.damageFromAttack(amount)
}

func (r *Robot) damageFromAttack(amount float64) {
	r.ChangeHealth(-amount * r.buffs.DamageMultiplier())
}

// ActivateIron spends health to become invulnerable for IronEffectRounds.
func (r *Robot) ActivateIron() {
	r.ChangeHealth(-core.IronHealthCost)
	r.invulnerableRounds = core.IronEffectRounds
}

// OpBudget is the operation allowance of one turn: zero while powered off
// or boarded, otherwise base plus perCore for each PROCESSOR.
func (r *Robot) OpBudget(base, perCore int) int {
	if !r.on || r.Boarded() {
		return 0
	}
	return base + perCore*r.cores
}

// BeginTurn runs component callbacks and counts invulnerability down.
func (r *Robot) BeginTurn() {
	for _, c := range r.components {
		c.BeginTurn()
	}
	if r.invulnerableRounds > 0 {
		r.invulnerableRounds--
	}
}

// Regenerate applies passive healing from REGEN armor while powered.
func (r *Robot) Regenerate() {
	if r.on && r.regens > 0 {
		r.ChangeHealth(float64(r.regens) * core.RegenAmount)
	}
}

// EndTurn runs component cooldown bookkeeping.
func (r *Robot) EndTurn() {
	for _, c := range r.components {
		c.EndTurn()
	}
}

// CountDownLifetime advances a DUMMY's lifetime and reports whether it ran out.
func (r *Robot) CountDownLifetime() bool {
	if r.chassis != core.ChassisDummy {
		return false
	}
	r.dummyRounds--
	return r.dummyRounds <= 0
}

// CanTransport reports whether the robot carries a DROPSHIP.
func (r *Robot) CanTransport() bool {
	return r.passengers != nil
}

// Passengers returns the ids of robots on board.
func (r *Robot) Passengers() []int {
	return r.passengers
}

// SpaceAvailable is the transport capacity left.
func (r *Robot) SpaceAvailable() int {
	return core.TransportCapacity - r.cargo
}

// CanLoad validates boarding p.
func (r *Robot) CanLoad(p *Robot) error {
	if !r.CanTransport() {
		return core.NewActionError(core.KindWrongRobotType, "robot %d cannot carry passengers", r.id)
	}
	if p.Level() != core.LevelGround || p.chassis == core.ChassisBuilding || p.Inanimate() || p.CanTransport() {
		return core.NewActionError(core.KindWrongRobotType, "robot %d cannot be carried", p.id)
	}
	if w := p.chassis.Spec().Weight; w > r.SpaceAvailable() {
		return core.NewActionError(core.KindInsufficientRoomInCargo, "need %d, have %d", w, r.SpaceAvailable())
	}
	return nil
}

// Load puts p on board and moves it to the VeryFarAway sentinel.
func (r *Robot) Load(p *Robot) {
	r.passengers = append(r.passengers, p.id)
	r.cargo += p.chassis.Spec().Weight
	p.transporter = r.id
	p.loc = core.VeryFarAway
}

// HasPassenger reports whether id is on board.
func (r *Robot) HasPassenger(id int) bool {
	for _, p := range r.passengers {
		if p == id {
			return true
		}
	}
	return false
}

// Unload takes p off board and places it at loc.
func (r *Robot) Unload(p *Robot, loc core.MapLocation) {
	r.dropPassenger(p)
	p.loc = loc
}

func (r *Robot) dropPassenger(p *Robot) {
	for i, id := range r.passengers {
		if id == p.id {
			r.passengers = append(r.passengers[:i], r.passengers[i+1:]...)
			r.cargo -= p.chassis.Spec().Weight
			break
		}
	}
	p.transporter = 0
}

// Info reports the robot the way sensors see it.
func (r *Robot) Info() core.RobotInfo {
	return core.RobotInfo{
		ID:         r.id,
		Team:       r.team,
		Chassis:    r.chassis,
		Location:   r.loc,
		Direction:  r.dir,
		Level:      r.Level(),
		Health:     r.health,
		MaxHealth:  r.MaxHealth(),
		On:         r.on,
		Components: r.ComponentTypes(),
	}
}

// ComponentInfos describes the robot's own modules.
func (r *Robot) ComponentInfos() []core.ComponentInfo {
	out := make([]core.ComponentInfo, len(r.components))
	for i, c := range r.components {
		out[i] = core.ComponentInfo{
			Index:           i,
			Type:            c.Type(),
			Active:          c.IsActive(),
			RoundsUntilIdle: c.RoundsUntilIdle(),
		}
	}
	return out
}
