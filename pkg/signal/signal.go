// Package signal defines the closed set of world mutations. Every accepted
// action produces exactly one signal; the ordered log of signals is the
// authoritative replay of a match.
package signal

import "github.com/fluxwars/engine/pkg/core"

// Kind enumerates signal types.
type Kind uint8

const (
	KindSpawn Kind = iota + 1
	KindEquip
	KindTurnOn
	KindTurnOff
	KindDeath
	KindAttack
	KindMovement
	KindSetDirection
	KindLoad
	KindUnload
	KindBroadcast
	KindReceive
	KindSense
	KindMine
	KindJump
	KindIronShield
	KindHealthChange
	KindBytecodesUsed
	KindTeamResources
	numKinds
)

var kindNames = [numKinds]string{
	KindSpawn:         "spawn",
	KindEquip:         "equip",
	KindTurnOn:        "turn_on",
	KindTurnOff:       "turn_off",
	KindDeath:         "death",
	KindAttack:        "attack",
	KindMovement:      "movement",
	KindSetDirection:  "set_direction",
	KindLoad:          "load",
	KindUnload:        "unload",
	KindBroadcast:     "broadcast",
	KindReceive:       "receive",
	KindSense:         "sense",
	KindMine:          "mine",
	KindJump:          "jump",
	KindIronShield:    "iron_shield",
	KindHealthChange:  "health_change",
	KindBytecodesUsed: "bytecodes_used",
	KindTeamResources: "team_resources",
}

func (k Kind) String() string {
	if k > 0 && k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}

// ParseKind maps an export name back to its kind.
func ParseKind(name string) (Kind, bool) {
	for k := KindSpawn; k < numKinds; k++ {
		if kindNames[k] == name {
			return k, true
		}
	}
	return 0, false
}

// Kinds returns every kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, 0, numKinds-1)
	for k := KindSpawn; k < numKinds; k++ {
		out = append(out, k)
	}
	return out
}

// Signal is one immutable world mutation. It carries ids and parameters,
// never entity snapshots.
type Signal interface {
	Kind() Kind
}

// Spawn creates a robot. ParentID is the builder, 0 for initial robots.
type Spawn struct {
	RobotID   int                `json:"robotId" msgpack:"robotId"`
	ParentID  int                `json:"parentId" msgpack:"parentId"`
	Builder   core.ComponentType `json:"builder" msgpack:"builder"`
	Team      core.Team          `json:"team" msgpack:"team"`
	Chassis   core.Chassis       `json:"chassis" msgpack:"chassis"`
	Location  core.MapLocation   `json:"location" msgpack:"location"`
	Direction core.Direction     `json:"direction" msgpack:"direction"`
	Cost      int                `json:"cost" msgpack:"cost"`
	On        bool               `json:"on" msgpack:"on"`
}

// Equip attaches a component. BuilderID is 0 when no robot built it.
type Equip struct {
	RobotID   int                `json:"robotId" msgpack:"robotId"`
	BuilderID int                `json:"builderId" msgpack:"builderId"`
	Builder   core.ComponentType `json:"builder" msgpack:"builder"`
	Component core.ComponentType `json:"component" msgpack:"component"`
	Cost      int                `json:"cost" msgpack:"cost"`
}

// TurnOn powers a robot up on behalf of an adjacent ally.
type TurnOn struct {
	RobotID     int `json:"robotId" msgpack:"robotId"`
	InitiatorID int `json:"initiatorId" msgpack:"initiatorId"`
}

// TurnOff powers a robot down. Upkeep is set when the team could not pay.
type TurnOff struct {
	RobotID int  `json:"robotId" msgpack:"robotId"`
	Upkeep  bool `json:"upkeep" msgpack:"upkeep"`
}

// Death destroys a robot.
type Death struct {
	RobotID int `json:"robotId" msgpack:"robotId"`
}

// Attack fires a weapon at a location and level.
type Attack struct {
	RobotID int                `json:"robotId" msgpack:"robotId"`
	Weapon  core.ComponentType `json:"weapon" msgpack:"weapon"`
	Target  core.MapLocation   `json:"target" msgpack:"target"`
	Level   core.RobotLevel    `json:"level" msgpack:"level"`
	// TargetID is the robot standing at Target when the shot was fired,
	// 0 for an empty tile.
	TargetID int `json:"targetId" msgpack:"targetId"`
}

// Movement steps a robot one tile forward or backward.
type Movement struct {
	RobotID int              `json:"robotId" msgpack:"robotId"`
	To      core.MapLocation `json:"to" msgpack:"to"`
	Forward bool             `json:"forward" msgpack:"forward"`
	Delay   int              `json:"delay" msgpack:"delay"`
}

// SetDirection turns a robot.
type SetDirection struct {
	RobotID   int            `json:"robotId" msgpack:"robotId"`
	Direction core.Direction `json:"direction" msgpack:"direction"`
}

// Load boards a passenger onto a transport.
type Load struct {
	TransportID int `json:"transportId" msgpack:"transportId"`
	PassengerID int `json:"passengerId" msgpack:"passengerId"`
}

// Unload drops a passenger at a location.
type Unload struct {
	TransportID int              `json:"transportId" msgpack:"transportId"`
	PassengerID int              `json:"passengerId" msgpack:"passengerId"`
	To          core.MapLocation `json:"to" msgpack:"to"`
}

// Broadcast sends a message to every robot within radio range.
type Broadcast struct {
	RobotID int                `json:"robotId" msgpack:"robotId"`
	Radio   core.ComponentType `json:"radio" msgpack:"radio"`
	Message *core.Message      `json:"message" msgpack:"message"`
}

// Receive pops the head of a robot's message queue.
type Receive struct {
	RobotID int `json:"robotId" msgpack:"robotId"`
}

// Sense records a sensor sweep into the robot's map memory.
type Sense struct {
	RobotID   int                `json:"robotId" msgpack:"robotId"`
	Sensor    core.ComponentType `json:"sensor" msgpack:"sensor"`
	Location  core.MapLocation   `json:"location" msgpack:"location"`
	Direction core.Direction     `json:"direction" msgpack:"direction"`
}

// Mine extracts flux from the tile under a recycler into the team pool.
type Mine struct {
	RobotID  int              `json:"robotId" msgpack:"robotId"`
	Location core.MapLocation `json:"location" msgpack:"location"`
	Amount   int              `json:"amount" msgpack:"amount"`
}

// Jump relocates a robot.
type Jump struct {
	RobotID int              `json:"robotId" msgpack:"robotId"`
	To      core.MapLocation `json:"to" msgpack:"to"`
}

// IronShield makes a robot invulnerable for a few rounds.
type IronShield struct {
	RobotID int `json:"robotId" msgpack:"robotId"`
}

// HealthChange reports, at end of round, every robot whose health changed.
type HealthChange struct {
	RobotIDs []int     `json:"robotIds" msgpack:"robotIds"`
	Health   []float64 `json:"health" msgpack:"health"`
}

// BytecodesUsed reports, at end of round, the operations each robot used.
type BytecodesUsed struct {
	RobotIDs []int `json:"robotIds" msgpack:"robotIds"`
	Used     []int `json:"used" msgpack:"used"`
}

// TeamResources reports, at end of round, both team pools (A then B).
type TeamResources struct {
	Resources [2]int `json:"resources" msgpack:"resources"`
}

func (*Spawn) Kind() Kind         { return KindSpawn }
func (*Equip) Kind() Kind         { return KindEquip }
func (*TurnOn) Kind() Kind        { return KindTurnOn }
func (*TurnOff) Kind() Kind       { return KindTurnOff }
func (*Death) Kind() Kind         { return KindDeath }
func (*Attack) Kind() Kind        { return KindAttack }
func (*Movement) Kind() Kind      { return KindMovement }
func (*SetDirection) Kind() Kind  { return KindSetDirection }
func (*Load) Kind() Kind          { return KindLoad }
func (*Unload) Kind() Kind        { return KindUnload }
func (*Broadcast) Kind() Kind     { return KindBroadcast }
func (*Receive) Kind() Kind       { return KindReceive }
func (*Sense) Kind() Kind         { return KindSense }
func (*Mine) Kind() Kind          { return KindMine }
func (*Jump) Kind() Kind          { return KindJump }
func (*IronShield) Kind() Kind    { return KindIronShield }
func (*HealthChange) Kind() Kind  { return KindHealthChange }
func (*BytecodesUsed) Kind() Kind { return KindBytecodesUsed }
func (*TeamResources) Kind() Kind { return KindTeamResources }

// New returns an empty signal of kind k, for decoding.
func New(k Kind) (Signal, bool) {
	switch k {
	case KindSpawn:
		return &Spawn{}, true
	case KindEquip:
		return &Equip{}, true
	case KindTurnOn:
		return &TurnOn{}, true
	case KindTurnOff:
		return &TurnOff{}, true
	case KindDeath:
		return &Death{}, true
	case KindAttack:
		return &Attack{}, true
	case KindMovement:
		return &Movement{}, true
	case KindSetDirection:
		return &SetDirection{}, true
	case KindLoad:
		return &Load{}, true
	case KindUnload:
		return &Unload{}, true
	case KindBroadcast:
		return &Broadcast{}, true
	case KindReceive:
		return &Receive{}, true
	case KindSense:
		return &Sense{}, true
	case KindMine:
		return &Mine{}, true
	case KindJump:
		return &Jump{}, true
	case KindIronShield:
		return &IronShield{}, true
	case KindHealthChange:
		return &HealthChange{}, true
	case KindBytecodesUsed:
		return &BytecodesUsed{}, true
	case KindTeamResources:
		return &TeamResources{}, true
	default:
		return nil, false
	}
}
