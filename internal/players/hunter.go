package players

import (
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/player"
)

// Hunter senses for the nearest enemy, turns to face it, and fires when it
// is in reach. With nothing in sight it wanders.
func Hunter(rc player.Controller) {
	for {
		if target, ok := nearestEnemy(rc); ok {
			engage(rc, target)
		} else {
			wander(rc)
		}
		rc.Yield()
	}
}

func nearestEnemy(rc player.Controller) (core.RobotInfo, bool) {
	sensor, ok := firstOf(rc, core.ClassSensor)
	if !ok {
		return core.RobotInfo{}, false
	}
	res, err := rc.Sense(sensor)
	if err != nil {
		return core.RobotInfo{}, false
	}
	here := rc.Location()
	var best core.RobotInfo
	found := false
	for _, r := range res.Robots {
		if r.Team == rc.Team() || r.Team == core.TeamNeutral {
			continue
		}
		if !found || here.DistanceSquaredTo(r.Location) < here.DistanceSquaredTo(best.Location) {
			best, found = r, true
		}
	}
	return best, found
}

func engage(rc player.Controller, target core.RobotInfo) {
	if weapon, ok := firstOf(rc, core.ClassWeapon); ok {
		err := rc.Attack(weapon, target.Location, target.Level)
		if err == nil || isBusy(err) {
			return
		}
	}
	d := rc.Location().DirectionTo(target.Location)
	if d.IsCompass() && d != rc.Direction() {
		_ = rc.SetDirection(d)
		return
	}
	_ = rc.Move(true)
}
