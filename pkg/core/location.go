package core

import "fmt"

// MapLocation is an absolute grid coordinate.
type MapLocation struct {
	X int `json:"x" msgpack:"x"`
	Y int `json:"y" msgpack:"y"`
}

// VeryFarAway is the sentinel location of a boarded robot. It is never on any map.
var VeryFarAway = MapLocation{X: -1000, Y: -1000}

// Add returns the location one step away in d.
func (l MapLocation) Add(d Direction) MapLocation {
	return MapLocation{X: l.X + d.DX(), Y: l.Y + d.DY()}
}

// Offset returns the location translated by (dx, dy).
func (l MapLocation) Offset(dx, dy int) MapLocation {
	return MapLocation{X: l.X + dx, Y: l.Y + dy}
}

// Subtract returns the step in d taken backwards.
func (l MapLocation) Subtract(d Direction) MapLocation {
	return MapLocation{X: l.X - d.DX(), Y: l.Y - d.DY()}
}

// DistanceSquaredTo returns the squared euclidean distance.
func (l MapLocation) DistanceSquaredTo(o MapLocation) int {
	dx := l.X - o.X
	dy := l.Y - o.Y
	return dx*dx + dy*dy
}

// IsAdjacentTo reports whether o is one of the eight neighbours of l.
func (l MapLocation) IsAdjacentTo(o MapLocation) bool {
	d := l.DistanceSquaredTo(o)
	return d == 1 || d == 2
}

// DirectionTo returns the compass facing that best points at o,
// OMNI when o == l. Uses integer sector tests only (tan 22.5 ~ 2/5).
func (l MapLocation) DirectionTo(o MapLocation) Direction {
	dx := o.X - l.X
	dy := o.Y - l.Y
	if dx == 0 && dy == 0 {
		return DirOmni
	}
	ax, ay := abs(dx), abs(dy)
	switch {
	case 5*ay <= 2*ax:
		if dx > 0 {
			return East
		}
		return West
	case 5*ax <= 2*ay:
		if dy > 0 {
			return South
		}
		return North
	case dx > 0 && dy < 0:
		return NorthEast
	case dx > 0:
		return SouthEast
	case dy > 0:
		return SouthWest
	default:
		return NorthWest
	}
}

func (l MapLocation) String() string {
	return fmt.Sprintf("[%d, %d]", l.X, l.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
