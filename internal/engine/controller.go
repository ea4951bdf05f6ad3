package engine

import (
	"math/rand/v2"

	"github.com/fluxwars/engine/internal/robot"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/player"
	"github.com/fluxwars/engine/pkg/signal"
)

// controller is the player.Controller of one robot. Its methods run on the
// robot's agent goroutine while the engine goroutine is parked in RunTurn,
// and every access to engine state goes through monitor.Exec.
type controller struct {
	e    *Engine
	id   int
	team core.Team
}

var _ player.Controller = (*controller)(nil)

// query runs fn against the live robot.
func (c *controller) query(fn func(r *robot.Robot)) {
	c.e.mon.Exec(c.id, func() {
		if r, ok := c.e.reg.Get(c.id); ok {
			fn(r)
		}
	})
}

// act validates and then emits one action. fn must not mutate anything;
// it returns the signal to emit, nil for a no-op, or the reason the action
// is rejected.
func (c *controller) act(fn func(r *robot.Robot) (signal.Signal, error)) error {
	var err error
	c.e.mon.Exec(c.id, func() {
		r, ok := c.e.reg.Get(c.id)
		if !ok {
			err = c.e.latch(core.Internalf("action from dead robot %d", c.id))
			return
		}
		sig, verr := fn(r)
		if verr != nil {
			if core.IsInternal(verr) {
				c.e.latch(verr)
			}
			err = verr
			return
		}
		if sig != nil {
			err = c.e.emit(sig)
		}
	})
	return err
}

// adjacent checks that loc is next to r or under it.
func adjacent(r *robot.Robot, loc core.MapLocation) error {
	if r.Location().DistanceSquaredTo(loc) > 2 {
		return core.NewActionError(core.KindOutOfRange, "%s is not adjacent to %s", loc, r.Location())
	}
	return nil
}

// free checks that a robot on level may stand at loc.
func (c *controller) free(loc core.MapLocation, level core.RobotLevel) error {
	if !c.e.m.TerrainAt(loc).IsTraversableAt(level) || c.e.reg.Occupied(loc, level) {
		return core.NewActionError(core.KindCantMoveThere, "%s is blocked on %s", loc, level)
	}
	return nil
}

// ofClass rejects a component type of the wrong class.
func ofClass(t core.ComponentType, k core.ComponentClass, kind core.ErrorKind) error {
	if !t.Valid() || t.Class() != k {
		return core.NewActionError(kind, "%s is not a %s", t, k)
	}
	return nil
}

func (c *controller) ID() int         { return c.id }
func (c *controller) Team() core.Team { return c.team }

func (c *controller) Chassis() (ch core.Chassis) {
	c.query(func(r *robot.Robot) { ch = r.Chassis() })
	return ch
}

func (c *controller) Location() (loc core.MapLocation) {
	c.query(func(r *robot.Robot) { loc = r.Location() })
	return loc
}

func (c *controller) Direction() (d core.Direction) {
	c.query(func(r *robot.Robot) { d = r.Direction() })
	return d
}

func (c *controller) Health() (h float64) {
	c.query(func(r *robot.Robot) { h = r.Health() })
	return h
}

func (c *controller) MaxHealth() (h float64) {
	c.query(func(r *robot.Robot) { h = r.MaxHealth() })
	return h
}

func (c *controller) Round() (n int) {
	c.e.mon.Exec(c.id, func() { n = c.e.round })
	return n
}

func (c *controller) TeamResources() (n int) {
	c.e.mon.Exec(c.id, func() { n = c.e.resources[c.team.Index()] })
	return n
}

func (c *controller) Components() (out []core.ComponentInfo) {
	c.query(func(r *robot.Robot) { out = r.ComponentInfos() })
	return out
}

func (c *controller) RecallTerrain(loc core.MapLocation) (t core.TerrainType, ok bool) {
	c.query(func(r *robot.Robot) { t, ok = r.Memory().Recall(loc) })
	return t, ok
}

func (c *controller) Rand() (rng *rand.Rand) {
	c.e.mon.Exec(c.id, func() { rng = c.e.rng(c.id) })
	return rng
}

func (c *controller) Charge(ops int) { c.e.mon.Charge(c.id, ops) }
func (c *controller) Yield()         { c.e.mon.Yield(c.id) }

func (c *controller) Move(forward bool) error {
	c.Charge(core.CostMove)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		comp, ok := r.FirstOfClass(core.ClassMotor)
		motor, isMotor := comp.(*robot.Motor)
		if !ok || !isMotor || !motor.Mobile() {
			return nil, core.NewActionError(core.KindWrongRobotType, "robot %d cannot move", r.ID())
		}
		if err := motor.Ready(); err != nil {
			return nil, err
		}
		dir := r.Direction()
		to := r.Location().Add(dir)
		if !forward {
			to = r.Location().Subtract(dir)
		}
		if err := c.free(to, r.Level()); err != nil {
			return nil, err
		}
		return &signal.Movement{RobotID: r.ID(), To: to, Forward: forward, Delay: motor.MoveDelay(dir.IsDiagonal())}, nil
	})
}

func (c *controller) SetDirection(d core.Direction) error {
	c.Charge(core.CostTurn)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if !d.IsCompass() {
			return nil, core.NewActionError(core.KindCantMoveThere, "cannot face %s", d)
		}
		motor, ok := r.FirstOfClass(core.ClassMotor)
		if !ok {
			return nil, core.NewActionError(core.KindWrongRobotType, "robot %d cannot turn", r.ID())
		}
		if err := motor.Ready(); err != nil {
			return nil, err
		}
		return &signal.SetDirection{RobotID: r.ID(), Direction: d}, nil
	})
}

func (c *controller) Sense(sensor core.ComponentType) (core.SenseResult, error) {
	c.Charge(core.CostSense)
	var res core.SenseResult
	err := c.act(func(r *robot.Robot) (signal.Signal, error) {
		if sensor.Class() != core.ClassSensor || !r.Has(sensor) {
			return nil, core.NewActionError(core.KindCantSenseThat, "robot %d has no %s", r.ID(), sensor)
		}
		if _, err := r.Ready(sensor); err != nil {
			return nil, err
		}
		res = c.e.sweep(r, sensor)
		return &signal.Sense{RobotID: r.ID(), Sensor: sensor, Location: r.Location(), Direction: r.Direction()}, nil
	})
	if err != nil {
		return core.SenseResult{}, err
	}
	return res, nil
}

// sweep collects everything sensor sees from r's position and facing.
func (e *Engine) sweep(r *robot.Robot, sensor core.ComponentType) core.SenseResult {
	var res core.SenseResult
	origin := r.Location()
	for _, off := range e.offsets.Offsets(sensor, r.Direction()) {
		loc := origin.Offset(off.X, off.Y)
		res.Tiles = append(res.Tiles, e.m.TileInfo(loc))
		for _, level := range core.Levels {
			if o, ok := e.reg.At(loc, level); ok && o.ID() != r.ID() {
				res.Robots = append(res.Robots, o.Info())
			}
		}
	}
	return res
}

func (c *controller) Attack(weapon core.ComponentType, target core.MapLocation, level core.RobotLevel) error {
	c.Charge(core.CostAttack)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if err := ofClass(weapon, core.ClassWeapon, core.KindWrongRobotType); err != nil {
			return nil, err
		}
		if _, err := r.Ready(weapon); err != nil {
			return nil, err
		}
		delta := core.MapLocation{X: target.X - r.Location().X, Y: target.Y - r.Location().Y}
		if !c.e.offsets.Covers(weapon, r.Direction(), delta) {
			return nil, core.NewActionError(core.KindOutOfRange, "%s cannot reach %s", weapon, target)
		}
		sig := &signal.Attack{RobotID: r.ID(), Weapon: weapon, Target: target, Level: level}
		if t, ok := c.e.reg.At(target, level); ok {
			sig.TargetID = t.ID()
		}
		return sig, nil
	})
}

func (c *controller) Build(builder core.ComponentType, chassis core.Chassis, loc core.MapLocation) (int, error) {
	c.Charge(core.CostBuild)
	var id int
	err := c.act(func(r *robot.Robot) (signal.Signal, error) {
		if !builder.Valid() || !builder.CanBuildChassis(chassis) {
			return nil, core.NewActionError(core.KindCantBuildThat, "%s cannot build %s", builder, chassis)
		}
		if _, err := r.Ready(builder); err != nil {
			return nil, err
		}
		if err := adjacent(r, loc); err != nil {
			return nil, err
		}
		if err := c.free(loc, chassis.Spec().Level); err != nil {
			return nil, err
		}
		cost := chassis.Spec().Cost
		if have := c.e.resources[c.team.Index()]; have < cost {
			return nil, core.NewActionError(core.KindNotEnoughResources, "%s costs %d, have %d", chassis, cost, have)
		}
		id = c.e.reg.NextID()
		return &signal.Spawn{
			RobotID:   id,
			ParentID:  r.ID(),
			Builder:   builder,
			Team:      c.team,
			Chassis:   chassis,
			Location:  loc,
			Direction: r.Direction(),
			Cost:      cost,
		}, nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (c *controller) Equip(builder core.ComponentType, component core.ComponentType, loc core.MapLocation, level core.RobotLevel) error {
	c.Charge(core.CostBuild)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if !builder.Valid() || !component.Valid() || !builder.CanBuildComponent(component) {
			return nil, core.NewActionError(core.KindCantBuildThat, "%s cannot build %s", builder, component)
		}
		if _, err := r.Ready(builder); err != nil {
			return nil, err
		}
		if err := adjacent(r, loc); err != nil {
			return nil, err
		}
		target, ok := c.e.reg.At(loc, level)
		if !ok {
			return nil, core.NewActionError(core.KindNoRobotThere, "nothing at %s on %s", loc, level)
		}
		if target.Team() != c.team {
			return nil, core.NewActionError(core.KindWrongRobotType, "robot %d is not an ally", target.ID())
		}
		if err := target.HasRoomFor(component); err != nil {
			return nil, err
		}
		cost := component.Spec().Cost
		if have := c.e.resources[c.team.Index()]; have < cost {
			return nil, core.NewActionError(core.KindNotEnoughResources, "%s costs %d, have %d", component, cost, have)
		}
		return &signal.Equip{RobotID: target.ID(), BuilderID: r.ID(), Builder: builder, Component: component, Cost: cost}, nil
	})
}

func (c *controller) TurnOn(loc core.MapLocation, level core.RobotLevel) error {
	c.Charge(core.CostPower)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if err := adjacent(r, loc); err != nil {
			return nil, err
		}
		target, ok := c.e.reg.At(loc, level)
		if !ok {
			return nil, core.NewActionError(core.KindNoRobotThere, "nothing at %s on %s", loc, level)
		}
		if target.Team() != c.team || target.Inanimate() {
			return nil, core.NewActionError(core.KindWrongRobotType, "cannot turn on robot %d", target.ID())
		}
		if target.IsOn() {
			return nil, core.NewActionError(core.KindAlreadyActive, "robot %d is already on", target.ID())
		}
		return &signal.TurnOn{RobotID: target.ID(), InitiatorID: r.ID()}, nil
	})
}

func (c *controller) TurnOff() error {
	c.Charge(core.CostPower)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		return &signal.TurnOff{RobotID: r.ID()}, nil
	})
}

func (c *controller) Load(loc core.MapLocation, level core.RobotLevel) error {
	c.Charge(core.CostTransport)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if _, err := r.Ready(core.Dropship); err != nil {
			return nil, err
		}
		if err := adjacent(r, loc); err != nil {
			return nil, err
		}
		p, ok := c.e.reg.At(loc, level)
		if !ok || p.ID() == r.ID() {
			return nil, core.NewActionError(core.KindNoRobotThere, "nothing to load at %s on %s", loc, level)
		}
		if p.Team() != c.team {
			return nil, core.NewActionError(core.KindWrongRobotType, "robot %d is not an ally", p.ID())
		}
		if err := r.CanLoad(p); err != nil {
			return nil, err
		}
		return &signal.Load{TransportID: r.ID(), PassengerID: p.ID()}, nil
	})
}

func (c *controller) Unload(passenger int, loc core.MapLocation) error {
	c.Charge(core.CostTransport)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if _, err := r.Ready(core.Dropship); err != nil {
			return nil, err
		}
		p, ok := c.e.reg.Get(passenger)
		if !ok || !r.HasPassenger(passenger) {
			return nil, core.NewActionError(core.KindNoRobotThere, "robot %d is not on board", passenger)
		}
		if err := adjacent(r, loc); err != nil {
			return nil, err
		}
		if err := c.free(loc, p.Level()); err != nil {
			return nil, err
		}
		return &signal.Unload{TransportID: r.ID(), PassengerID: passenger, To: loc}, nil
	})
}

func (c *controller) Broadcast(radio core.ComponentType, msg *core.Message) error {
	c.Charge(core.CostBroadcast)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if err := ofClass(radio, core.ClassRadio, core.KindWrongRobotType); err != nil {
			return nil, err
		}
		if _, err := r.Ready(radio); err != nil {
			return nil, err
		}
		return &signal.Broadcast{RobotID: r.ID(), Radio: radio, Message: msg.Clone()}, nil
	})
}

func (c *controller) Receive() (*core.Message, error) {
	c.Charge(core.CostReceive)
	var msg *core.Message
	err := c.act(func(r *robot.Robot) (signal.Signal, error) {
		m, ok := r.Messages().Peek()
		if !ok {
			return nil, nil
		}
		msg = m
		return &signal.Receive{RobotID: r.ID()}, nil
	})
	return msg, err
}

func (c *controller) Mine() (int, error) {
	c.Charge(core.CostMine)
	var amount int
	err := c.act(func(r *robot.Robot) (signal.Signal, error) {
		if _, err := r.Ready(core.Recycler); err != nil {
			return nil, err
		}
		tile := c.e.m.Tile(r.Location())
		if tile == nil || tile.Flux() == 0 {
			return nil, core.NewActionError(core.KindNotEnoughResources, "no flux at %s", r.Location())
		}
		amount = tile.Flux()
		if rate := c.e.cfg.MiningRate; rate >= 0 && rate < amount {
			amount = rate
		}
		return &signal.Mine{RobotID: r.ID(), Location: r.Location(), Amount: amount}, nil
	})
	if err != nil {
		return 0, err
	}
	return amount, nil
}

func (c *controller) Jump(loc core.MapLocation) error {
	c.Charge(core.CostJump)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if _, err := r.Ready(core.Jump); err != nil {
			return nil, err
		}
		d := r.Location().DistanceSquaredTo(loc)
		if d == 0 || d > core.Jump.Spec().RangeSq {
			return nil, core.NewActionError(core.KindOutOfRange, "cannot jump to %s", loc)
		}
		if err := c.free(loc, r.Level()); err != nil {
			return nil, err
		}
		return &signal.Jump{RobotID: r.ID(), To: loc}, nil
	})
}

func (c *controller) ActivateIron() error {
	c.Charge(core.CostIron)
	return c.act(func(r *robot.Robot) (signal.Signal, error) {
		if _, err := r.Ready(core.Iron); err != nil {
			return nil, err
		}
		if r.Health() <= core.IronHealthCost {
			return nil, core.NewActionError(core.KindNotEnoughEnergon, "robot %d has %.2f health", r.ID(), r.Health())
		}
		return &signal.IronShield{RobotID: r.ID()}, nil
	})
}

// Suicide destroys the robot. The program is aborted at its next call into
// the engine.
func (c *controller) Suicide() {
	c.e.mon.Exec(c.id, func() {
		if r, ok := c.e.reg.Get(c.id); ok {
			c.e.kill(r)
			// a fault is latched in e.fault; turn returns it once RunTurn is back
			_ = c.e.flush()
		}
	})
	c.e.mon.Charge(c.id, 0)
}
