package players

import (
	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/player"
)

// minerReserve is kept in the pool before the miner spends on new robots.
const minerReserve = 20

// outfit is what a miner gives every robot it builds, then turns it on.
var outfit = []core.ComponentType{core.SMG, core.Sight}

// Miner runs on a RECYCLER: it mines the tile under it, builds LIGHT
// robots when the pool allows, fits them with a weapon and a sensor, and
// turns them on. With a radio it announces its position every turn.
func Miner(rc player.Controller) {
	var pending *core.MapLocation
	fitted := 0
	for {
		if _, err := rc.Mine(); err != nil && !isBusy(err) && pending == nil {
			if loc, ok := build(rc); ok {
				pending, fitted = &loc, 0
			}
		}
		if pending != nil {
			if finish(rc, *pending, &fitted) {
				pending = nil
			}
		}
		if radio, ok := firstOf(rc, core.ClassRadio); ok {
			here := rc.Location()
			_ = rc.Broadcast(radio, &core.Message{Strings: []string{"miner"}, Locations: []core.MapLocation{here}})
		}
		rc.Yield()
	}
}

func build(rc player.Controller) (core.MapLocation, bool) {
	if rc.TeamResources() < core.ChassisLight.Spec().Cost+minerReserve {
		return core.MapLocation{}, false
	}
	here := rc.Location()
	for _, d := range core.Compass {
		loc := here.Add(d)
		_, err := rc.Build(core.Recycler, core.ChassisLight, loc)
		if err == nil {
			return loc, true
		}
		if isBusy(err) {
			return core.MapLocation{}, false
		}
	}
	return core.MapLocation{}, false
}

// finish advances the outfitting of a new robot by one step and reports
// whether the robot is done (or gone).
func finish(rc player.Controller, loc core.MapLocation, fitted *int) bool {
	if *fitted < len(outfit) {
		err := rc.Equip(core.Recycler, outfit[*fitted], loc, core.LevelGround)
		if err == nil {
			*fitted++
			return false
		}
		if isBusy(err) {
			return false
		}
		*fitted = len(outfit)
	}
	err := rc.TurnOn(loc, core.LevelGround)
	return err == nil || !isBusy(err)
}
