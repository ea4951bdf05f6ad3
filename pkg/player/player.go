// Package player is the contract between the engine and robot programs.
package player

import (
	"math/rand/v2"

	"github.com/fluxwars/engine/pkg/core"
)

// Controller is the action surface handed to a robot program. Every action
// charges fuel first, validates against engine state, and on success is
// recorded as exactly one signal. A rejected action returns a
// *core.ActionError and changes nothing.
//
// Queries are free and never mutate. Charge and Yield are the metering
// hooks: Charge reports computation done by the program itself and may
// suspend it once the turn budget is spent; Yield ends the turn early.
type Controller interface {
	ID() int
	Team() core.Team
	Chassis() core.Chassis
	Location() core.MapLocation
	Direction() core.Direction
	Health() float64
	MaxHealth() float64
	Round() int
	TeamResources() int
	Components() []core.ComponentInfo
	RecallTerrain(loc core.MapLocation) (core.TerrainType, bool)
	Rand() *rand.Rand

	Charge(ops int)
	Yield()

	Move(forward bool) error
	SetDirection(d core.Direction) error
	Sense(sensor core.ComponentType) (core.SenseResult, error)
	Attack(weapon core.ComponentType, target core.MapLocation, level core.RobotLevel) error
	Build(builder core.ComponentType, chassis core.Chassis, loc core.MapLocation) (int, error)
	Equip(builder core.ComponentType, component core.ComponentType, loc core.MapLocation, level core.RobotLevel) error
	TurnOn(loc core.MapLocation, level core.RobotLevel) error
	TurnOff() error
	Load(loc core.MapLocation, level core.RobotLevel) error
	Unload(passenger int, loc core.MapLocation) error
	Broadcast(radio core.ComponentType, msg *core.Message) error
	Receive() (*core.Message, error)
	Mine() (int, error)
	Jump(loc core.MapLocation) error
	ActivateIron() error
	Suicide()
}

// Program drives one robot for its whole life. Run returning (or
// panicking) destroys the robot.
type Program interface {
	Run(rc Controller)
}

// ProgramFunc adapts a function to Program.
type ProgramFunc func(rc Controller)

// Run calls f(rc).
func (f ProgramFunc) Run(rc Controller) { f(rc) }

// Factory returns the program for a newly activated robot.
type Factory func(info core.RobotInfo) Program
