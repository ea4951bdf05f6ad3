package engine

import (
	"github.com/fluxwars/engine/internal/robot"
	"github.com/fluxwars/engine/internal/world"
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/signal"
)

// apply performs the world mutation described by sig. It is the only place
// world state changes during a match. Follow-up signals
// (deaths caused by sig) are queued, not applied, so they land after sig in
// the log. Any error is an internal fault: every signal reaching apply was
// validated first.
func (e *Engine) apply(sig signal.Signal) error {
	switch s := sig.(type) {
	case *signal.Spawn:
		return e.applySpawn(s)

	case *signal.Equip:
		target, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		if s.BuilderID != 0 {
			if err := e.activate(s.BuilderID, s.Builder); err != nil {
				return err
			}
		}
		if _, err := target.Equip(s.Component, e.equipRound()); err != nil {
			return core.Internalf("equip %s on robot %d: %v", s.Component, s.RobotID, err)
		}
		e.resources[target.Team().Index()] -= s.Cost

	case *signal.TurnOn:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		r.SetPower(true)

	case *signal.TurnOff:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		r.SetPower(false)

	case *signal.Death:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		r.MarkDestroyed()
		for _, pid := range r.Passengers() {
			if p, ok := e.reg.Get(pid); ok {
				e.kill(p)
			}
		}
		if r.Boarded() {
			e.reg.Detach(r)
		}
		e.reg.Remove(r.ID())
		e.mon.Release(r.ID())
		delete(e.rngs, r.ID())

	case *signal.Attack:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		c, err := e.ready(r, s.Weapon)
		if err != nil {
			return err
		}
		w, ok := c.(*robot.Weapon)
		if !ok {
			return core.Internalf("%s on robot %d is not a weapon", s.Weapon, r.ID())
		}
		w.Fire()
		t, ok := e.reg.At(s.Target, s.Level)
		if (ok && t.ID() != s.TargetID) || (!ok && s.TargetID != 0) {
			return core.Internalf("attack by robot %d expected robot %d at %s", r.ID(), s.TargetID, s.Target)
		}
		if ok {
			t.TakeDamage(w.Power())
			if s.Weapon == core.Beam {
				t.Buffs().Add(robot.Weakened, core.WeakenedRounds)
			}
			if t.ShouldDie() {
				e.kill(t)
			}
		}

	case *signal.Movement:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		c, ok := r.FirstOfClass(core.ClassMotor)
		if !ok {
			return core.Internalf("robot %d moved without a motor", r.ID())
		}
		c.Activate(s.Delay)
		return e.reg.Move(r, s.To)

	case *signal.SetDirection:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		c, ok := r.FirstOfClass(core.ClassMotor)
		if !ok {
			return core.Internalf("robot %d turned without a motor", r.ID())
		}
		c.Activate(1)
		r.SetDirection(s.Direction)

	case *signal.Load:
		t, err := e.robot(s.TransportID)
		if err != nil {
			return err
		}
		p, err := e.robot(s.PassengerID)
		if err != nil {
			return err
		}
		if err := e.activate(t.ID(), core.Dropship); err != nil {
			return err
		}
		e.reg.Board(t, p)

	case *signal.Unload:
		t, err := e.robot(s.TransportID)
		if err != nil {
			return err
		}
		p, err := e.robot(s.PassengerID)
		if err != nil {
			return err
		}
		if err := e.activate(t.ID(), core.Dropship); err != nil {
			return err
		}
		return e.reg.Disembark(t, p, s.To)

	case *signal.Broadcast:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		c, err := e.ready(r, s.Radio)
		if err != nil {
			return err
		}
		c.Activate(s.Radio.Spec().Delay)
		rangeSq := s.Radio.Spec().RangeSq
		e.reg.Each(func(o *robot.Robot) {
			if o.ID() == r.ID() || o.Boarded() || o.Inanimate() {
				return
			}
			if r.Location().DistanceSquaredTo(o.Location()) <= rangeSq {
				o.Messages().Push(s.Message.Clone())
			}
		})

	case *signal.Receive:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		if _, ok := r.Messages().Pop(); !ok {
			return core.Internalf("robot %d received from an empty queue", r.ID())
		}

	case *signal.Sense:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		r.Memory().Remember(s.Location, e.offsets.Offsets(s.Sensor, s.Direction))

	case *signal.Mine:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		if err := e.activate(r.ID(), core.Recycler); err != nil {
			return err
		}
		tile := e.m.Tile(s.Location)
		if tile == nil {
			return core.Internalf("robot %d mined off the map at %s", r.ID(), s.Location)
		}
		if got := tile.MineFlux(s.Amount); got != s.Amount {
			return core.Internalf("robot %d mined %d of %d flux at %s", r.ID(), got, s.Amount, s.Location)
		}
		e.resources[r.Team().Index()] += s.Amount

	case *signal.Jump:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		if err := e.activate(r.ID(), core.Jump); err != nil {
			return err
		}
		return e.reg.Move(r, s.To)

	case *signal.IronShield:
		r, err := e.robot(s.RobotID)
		if err != nil {
			return err
		}
		if err := e.activate(r.ID(), core.Iron); err != nil {
			return err
		}
		r.ActivateIron()
		if r.ShouldDie() {
			e.kill(r)
		}

	case *signal.HealthChange, *signal.BytecodesUsed, *signal.TeamResources:
		// summaries only

	default:
		return core.Internalf("unhandled signal kind %s", sig.Kind())
	}
	return nil
}

func (e *Engine) applySpawn(s *signal.Spawn) error {
	mem := world.NewMapMemory(e.m, e.offsets.Padding())
	r := robot.New(s.RobotID, s.Team, s.Chassis, s.Location, s.Direction, mem)
	spec := s.Chassis.Spec()
	if spec.HasMotor {
		if _, err := r.Equip(spec.Motor, e.equipRound()); err != nil {
			return core.Internalf("spawn robot %d motor: %v", s.RobotID, err)
		}
	}
	if s.Chassis == core.ChassisBuilding {
		if _, err := r.Equip(core.BuildingSensor, e.equipRound()); err != nil {
			return core.Internalf("spawn robot %d sensor: %v", s.RobotID, err)
		}
	}
	if err := e.reg.Add(r); err != nil {
		return err
	}
	if s.ParentID != 0 {
		if err := e.activate(s.ParentID, s.Builder); err != nil {
			return err
		}
	}
	if s.Cost > 0 {
		e.resources[s.Team.Index()] -= s.Cost
	}
	if s.On {
		if e.started {
			r.SetPower(true)
		} else {
			r.Boot()
		}
	}
	if e.started {
		e.attach(r)
	}
	return nil
}

func (e *Engine) robot(id int) (*robot.Robot, error) {
	r, ok := e.reg.Get(id)
	if !ok {
		return nil, core.Internalf("no robot %d", id)
	}
	return r, nil
}

// ready re-finds the component an action was validated against.
func (e *Engine) ready(r *robot.Robot, t core.ComponentType) (robot.Component, error) {
	c, err := r.Ready(t)
	if err != nil {
		return nil, core.Internalf("robot %d lost its idle %s: %v", r.ID(), t, err)
	}
	return c, nil
}

// activate puts robot id's first idle t on cooldown.
func (e *Engine) activate(id int, t core.ComponentType) error {
	r, err := e.robot(id)
	if err != nil {
		return err
	}
	c, err := e.ready(r, t)
	if err != nil {
		return err
	}
	c.Activate(t.Spec().Delay)
	return nil
}
