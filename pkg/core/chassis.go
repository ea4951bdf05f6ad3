package core

// Chassis is the body type of a robot.
type Chassis uint8

const (
	ChassisLight Chassis = iota
	ChassisMedium
	ChassisHeavy
	ChassisFlying
	ChassisBuilding
	ChassisDummy
	ChassisDebris
	numChassis
)

// ChassisSpec holds the fixed numbers of a chassis kind. Weight is both the
// component capacity of the chassis and the cargo it occupies in a transport.
type ChassisSpec struct {
	Name      string
	Weight    int
	MaxHealth float64
	Upkeep    int
	Cost      int
	Level     RobotLevel
	Motor     ComponentType
	HasMotor  bool
	Inanimate bool
}

var chassisSpecs = [numChassis]ChassisSpec{
	ChassisLight:    {Name: "LIGHT", Weight: 6, MaxHealth: 14, Upkeep: 1, Cost: 6, Level: LevelGround, Motor: SmallMotor, HasMotor: true},
	ChassisMedium:   {Name: "MEDIUM", Weight: 10, MaxHealth: 22, Upkeep: 2, Cost: 12, Level: LevelGround, Motor: MediumMotor, HasMotor: true},
	ChassisHeavy:    {Name: "HEAVY", Weight: 18, MaxHealth: 40, Upkeep: 4, Cost: 24, Level: LevelGround, Motor: LargeMotor, HasMotor: true},
	ChassisFlying:   {Name: "FLYING", Weight: 5, MaxHealth: 8, Upkeep: 2, Cost: 12, Level: LevelAir, Motor: FlyingMotor, HasMotor: true},
	ChassisBuilding: {Name: "BUILDING", Weight: 20, MaxHealth: 60, Upkeep: 3, Cost: 30, Level: LevelGround, Motor: BuildingMotor, HasMotor: true},
	ChassisDummy:    {Name: "DUMMY", Weight: 0, MaxHealth: 10, Upkeep: 0, Cost: 2, Level: LevelGround, Inanimate: true},
	ChassisDebris:   {Name: "DEBRIS", Weight: 0, MaxHealth: 30, Upkeep: 0, Cost: 0, Level: LevelGround, Inanimate: true},
}

// Spec returns the catalog entry for c.
func (c Chassis) Spec() ChassisSpec {
	if c >= numChassis {
		return ChassisSpec{Name: "UNKNOWN"}
	}
	return chassisSpecs[c]
}

// Valid reports whether c is in the catalog.
func (c Chassis) Valid() bool {
	return c < numChassis
}

func (c Chassis) String() string {
	return c.Spec().Name
}

// ParseChassis looks a chassis up by catalog name.
func ParseChassis(name string) (Chassis, bool) {
	for c := Chassis(0); c < numChassis; c++ {
		if chassisSpecs[c].Name == name {
			return c, true
		}
	}
	return 0, false
}
