package core

// RobotLevel is the vertical layer a robot occupies. A tile holds at most
// one robot per level.
type RobotLevel uint8

const (
	LevelMine RobotLevel = iota
	LevelGround
	LevelAir
)

// Levels lists every level.
var Levels = [3]RobotLevel{LevelMine, LevelGround, LevelAir}

func (l RobotLevel) String() string {
	switch l {
	case LevelMine:
		return "MINE"
	case LevelGround:
		return "ON_GROUND"
	case LevelAir:
		return "IN_AIR"
	default:
		return "UNKNOWN"
	}
}

// TerrainType classifies a tile.
type TerrainType uint8

const (
	TerrainLand TerrainType = iota
	TerrainVoid
	TerrainOffMap
)

// IsTraversableAt reports whether a robot on level can stand on this terrain.
// Void blocks ground units but not air units.
func (t TerrainType) IsTraversableAt(level RobotLevel) bool {
	switch t {
	case TerrainLand:
		return true
	case TerrainVoid:
		return level == LevelAir
	default:
		return false
	}
}

func (t TerrainType) String() string {
	switch t {
	case TerrainLand:
		return "LAND"
	case TerrainVoid:
		return "VOID"
	default:
		return "OFF_MAP"
	}
}
