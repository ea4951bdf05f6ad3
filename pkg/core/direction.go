package core

// Direction is one of the eight compass facings, or NONE/OMNI.
// North decreases y.
type Direction uint8

const (
	North Direction = iota
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
	DirNone
	DirOmni
)

// Compass lists the eight real facings in clockwise order from North.
var Compass = [8]Direction{North, NorthEast, East, SouthEast, South, SouthWest, West, NorthWest}

var directionDeltas = [8][2]int{
	{0, -1}, {1, -1}, {1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1},
}

var directionNames = [...]string{
	"NORTH", "NORTH_EAST", "EAST", "SOUTH_EAST", "SOUTH", "SOUTH_WEST", "WEST", "NORTH_WEST", "NONE", "OMNI",
}

// IsCompass reports whether d is one of the eight real facings.
func (d Direction) IsCompass() bool {
	return d < DirNone
}

// DX returns the x component of one step in d.
func (d Direction) DX() int {
	if !d.IsCompass() {
		return 0
	}
	return directionDeltas[d][0]
}

// DY returns the y component of one step in d.
func (d Direction) DY() int {
	if !d.IsCompass() {
		return 0
	}
	return directionDeltas[d][1]
}

// IsDiagonal reports whether d moves along both axes.
func (d Direction) IsDiagonal() bool {
	return d.IsCompass() && d%2 == 1
}

// RotateLeft turns 45 degrees counter-clockwise.
func (d Direction) RotateLeft() Direction {
	if !d.IsCompass() {
		return d
	}
	return (d + 7) % 8
}

// RotateRight turns 45 degrees clockwise.
func (d Direction) RotateRight() Direction {
	if !d.IsCompass() {
		return d
	}
	return (d + 1) % 8
}

// Opposite turns 180 degrees.
func (d Direction) Opposite() Direction {
	if !d.IsCompass() {
		return d
	}
	return (d + 4) % 8
}

func (d Direction) String() string {
	if int(d) < len(directionNames) {
		return directionNames[d]
	}
	return "UNKNOWN"
}

// ParseDirection looks a direction up by name.
func ParseDirection(name string) (Direction, bool) {
	for i, n := range directionNames {
		if n == name {
			return Direction(i), true
		}
	}
	return DirNone, false
}
