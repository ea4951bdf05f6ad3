// Package players holds the built-in robot programs used by the CLI and in
// tests.
package players

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fluxwars/engine/pkg/core"
	"github.com/fluxwars/engine/pkg/player"
)

var registry = map[string]player.Factory{
	"idle":   func(core.RobotInfo) player.Program { return player.ProgramFunc(Idle) },
	"hunter": func(core.RobotInfo) player.Program { return player.ProgramFunc(Hunter) },
	"miner": func(info core.RobotInfo) player.Program {
		for _, c := range info.Components {
			if c == core.Recycler {
				return player.ProgramFunc(Miner)
			}
		}
		return player.ProgramFunc(Hunter)
	},
}

// Lookup returns the program factory registered under name.
func Lookup(name string) (player.Factory, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown player %q (have %v)", name, Names())
	}
	return f, nil
}

// Names lists the registered programs.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Idle does nothing forever.
func Idle(rc player.Controller) {
	for {
		rc.Yield()
	}
}

// firstOf returns the first owned component of class k.
func firstOf(rc player.Controller, k core.ComponentClass) (core.ComponentType, bool) {
	for _, c := range rc.Components() {
		if c.Type.Class() == k {
			return c.Type, true
		}
	}
	return 0, false
}

// wander turns to a random facing when blocked, otherwise steps forward.
func wander(rc player.Controller) {
	if err := rc.Move(true); err != nil && !isBusy(err) {
		_ = rc.SetDirection(core.Compass[rc.Rand().IntN(len(core.Compass))])
	}
}

func isBusy(err error) bool {
	var ae *core.ActionError
	return errors.As(err, &ae) && ae.Kind == core.KindAlreadyActive
}
