package core

// ComponentClass partitions the component catalog.
type ComponentClass uint8

const (
	ClassArmor ComponentClass = iota
	ClassWeapon
	ClassSensor
	ClassRadio
	ClassMotor
	ClassBuilder
	ClassJump
	ClassTransport
	ClassPower
)

func (c ComponentClass) String() string {
	switch c {
	case ClassArmor:
		return "ARMOR"
	case ClassWeapon:
		return "WEAPON"
	case ClassSensor:
		return "SENSOR"
	case ClassRadio:
		return "RADIO"
	case ClassMotor:
		return "MOTOR"
	case ClassBuilder:
		return "BUILDER"
	case ClassJump:
		return "JUMP"
	case ClassTransport:
		return "TRANSPORT"
	default:
		return "POWER"
	}
}

// ComponentType is an equippable module kind.
type ComponentType uint8

const (
	// armor
	Shield ComponentType = iota
	Hardened
	Regen
	Plasma
	Plating
	Iron
	// weapons
	SMG
	Blaster
	Railgun
	Hammer
	Medic
	Beam
	// sensors
	Satellite
	Telescope
	Sight
	Radar
	BuildingSensor
	// radios
	Antenna
	Dish
	Network
	// motors
	SmallMotor
	MediumMotor
	LargeMotor
	FlyingMotor
	BuildingMotor
	// builders
	Constructor
	Factory
	Armory
	DummyBuilder
	Recycler
	// misc
	Jump
	Dropship
	Processor
	numComponentTypes
)

// ComponentSpec holds the fixed numbers of a component kind.
// RangeSq and Angle describe the reach of weapons, sensors, radios and jumps;
// Delay is the cooldown in rounds after the component acts.
type ComponentSpec struct {
	Name    string
	Class   ComponentClass
	Weight  int
	Cost    int
	Delay   int
	RangeSq int
	Angle   float64
	Power   float64
	Unique  bool
}

var componentSpecs = [numComponentTypes]ComponentSpec{
	Shield:   {Name: "SHIELD", Class: ClassArmor, Weight: 2, Cost: 6},
	Hardened: {Name: "HARDENED", Class: ClassArmor, Weight: 3, Cost: 12},
	Regen:    {Name: "REGEN", Class: ClassArmor, Weight: 2, Cost: 10},
	Plasma:   {Name: "PLASMA", Class: ClassArmor, Weight: 3, Cost: 14, Delay: 10},
	Plating:  {Name: "PLATING", Class: ClassArmor, Weight: 1, Cost: 5},
	Iron:     {Name: "IRON", Class: ClassArmor, Weight: 3, Cost: 20, Delay: 20, Unique: true},

	SMG:     {Name: "SMG", Class: ClassWeapon, Weight: 1, Cost: 4, Delay: 1, RangeSq: 9, Angle: 90, Power: 0.6},
	Blaster: {Name: "BLASTER", Class: ClassWeapon, Weight: 2, Cost: 10, Delay: 3, RangeSq: 16, Angle: 90, Power: 2.5},
	Railgun: {Name: "RAILGUN", Class: ClassWeapon, Weight: 4, Cost: 20, Delay: 5, RangeSq: 25, Angle: 45, Power: 6},
	Hammer:  {Name: "HAMMER", Class: ClassWeapon, Weight: 2, Cost: 8, Delay: 2, RangeSq: 2, Angle: 90, Power: 3},
	Medic:   {Name: "MEDIC", Class: ClassWeapon, Weight: 2, Cost: 10, Delay: 2, RangeSq: 9, Angle: 180, Power: -1.5},
	Beam:    {Name: "BEAM", Class: ClassWeapon, Weight: 3, Cost: 14, Delay: 1, RangeSq: 16, Angle: 45, Power: 1},

	Satellite:      {Name: "SATELLITE", Class: ClassSensor, Weight: 3, Cost: 14, RangeSq: 100, Angle: 360},
	Telescope:      {Name: "TELESCOPE", Class: ClassSensor, Weight: 2, Cost: 10, RangeSq: 144, Angle: 45},
	Sight:          {Name: "SIGHT", Class: ClassSensor, Weight: 1, Cost: 4, RangeSq: 9, Angle: 90},
	Radar:          {Name: "RADAR", Class: ClassSensor, Weight: 3, Cost: 14, RangeSq: 36, Angle: 180},
	BuildingSensor: {Name: "BUILDING_SENSOR", Class: ClassSensor, RangeSq: 14, Angle: 360},

	Antenna: {Name: "ANTENNA", Class: ClassRadio, Weight: 1, Cost: 4, Delay: 1, RangeSq: 64, Angle: 360},
	Dish:    {Name: "DISH", Class: ClassRadio, Weight: 2, Cost: 10, Delay: 1, RangeSq: 144, Angle: 360},
	Network: {Name: "NETWORK", Class: ClassRadio, Weight: 3, Cost: 16, Delay: 1, RangeSq: 400, Angle: 360},

	SmallMotor:    {Name: "SMALL_MOTOR", Class: ClassMotor, Delay: 3},
	MediumMotor:   {Name: "MEDIUM_MOTOR", Class: ClassMotor, Delay: 5},
	LargeMotor:    {Name: "LARGE_MOTOR", Class: ClassMotor, Delay: 7},
	FlyingMotor:   {Name: "FLYING_MOTOR", Class: ClassMotor, Delay: 2},
	BuildingMotor: {Name: "BUILDING_MOTOR", Class: ClassMotor},

	Constructor:  {Name: "CONSTRUCTOR", Class: ClassBuilder, Weight: 2, Cost: 8, Delay: 10},
	Factory:      {Name: "FACTORY", Class: ClassBuilder, Weight: 5, Cost: 30, Delay: 10},
	Armory:       {Name: "ARMORY", Class: ClassBuilder, Weight: 5, Cost: 30, Delay: 10},
	DummyBuilder: {Name: "DUMMY", Class: ClassBuilder, Weight: 1, Cost: 10, Delay: 10},
	Recycler:     {Name: "RECYCLER", Class: ClassBuilder, Weight: 4, Cost: 20, Delay: 5},

	Jump:      {Name: "JUMP", Class: ClassJump, Weight: 2, Cost: 12, Delay: 10, RangeSq: 16, Angle: 360},
	Dropship:  {Name: "DROPSHIP", Class: ClassTransport, Weight: 4, Cost: 16, Delay: 1},
	Processor: {Name: "PROCESSOR", Class: ClassPower, Weight: 1, Cost: 8},
}

// BuildList names what a builder component can produce.
type BuildList struct {
	Chassis    []Chassis
	Components []ComponentType
}

var buildLists = map[ComponentType]BuildList{
	Recycler: {
		Chassis:    []Chassis{ChassisLight},
		Components: []ComponentType{Shield, SMG, Sight, Constructor, Antenna, Plating, Processor},
	},
	Constructor: {
		Chassis:    []Chassis{ChassisBuilding},
		Components: []ComponentType{Recycler, Factory, Armory},
	},
	Factory: {
		Chassis:    []Chassis{ChassisMedium, ChassisHeavy},
		Components: []ComponentType{Hardened, Railgun, Hammer, Telescope, Radar, Regen, Jump, Medic, Dish},
	},
	Armory: {
		Chassis:    []Chassis{ChassisFlying},
		Components: []ComponentType{Plasma, Beam, Blaster, Satellite, Network, Dropship, Iron},
	},
	DummyBuilder: {
		Chassis: []Chassis{ChassisDummy},
	},
}

// Spec returns the catalog entry for t.
func (t ComponentType) Spec() ComponentSpec {
	if t >= numComponentTypes {
		return ComponentSpec{Name: "UNKNOWN"}
	}
	return componentSpecs[t]
}

// Valid reports whether t is in the catalog.
func (t ComponentType) Valid() bool {
	return t < numComponentTypes
}

// Class returns the class t belongs to.
func (t ComponentType) Class() ComponentClass {
	return t.Spec().Class
}

func (t ComponentType) String() string {
	return t.Spec().Name
}

// CanBuildChassis reports whether builder t may produce chassis c.
func (t ComponentType) CanBuildChassis(c Chassis) bool {
	for _, b := range buildLists[t].Chassis {
		if b == c {
			return true
		}
	}
	return false
}

// CanBuildComponent reports whether builder t may produce component c.
func (t ComponentType) CanBuildComponent(c ComponentType) bool {
	for _, b := range buildLists[t].Components {
		if b == c {
			return true
		}
	}
	return false
}

// ComponentTypes returns every catalog entry in declaration order.
func ComponentTypes() []ComponentType {
	out := make([]ComponentType, 0, numComponentTypes)
	for t := ComponentType(0); t < numComponentTypes; t++ {
		out = append(out, t)
	}
	return out
}

// ParseComponentType looks a component kind up by catalog name.
func ParseComponentType(name string) (ComponentType, bool) {
	for t := ComponentType(0); t < numComponentTypes; t++ {
		if componentSpecs[t].Name == name {
			return t, true
		}
	}
	return 0, false
}
