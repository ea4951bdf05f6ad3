package core

// RobotInfo is what a sensor reports about a robot.
type RobotInfo struct {
	ID         int             `json:"id"`
	Team       Team            `json:"team"`
	Chassis    Chassis         `json:"chassis"`
	Location   MapLocation     `json:"location"`
	Direction  Direction       `json:"direction"`
	Level      RobotLevel      `json:"level"`
	Health     float64         `json:"health"`
	MaxHealth  float64         `json:"maxHealth"`
	On         bool            `json:"on"`
	Components []ComponentType `json:"components"`
}

// TileInfo is what a sensor reports about a tile.
type TileInfo struct {
	Location MapLocation `json:"location"`
	Terrain  TerrainType `json:"terrain"`
	Height   int         `json:"height"`
	Flux     int         `json:"flux"`
}

// SenseResult is the outcome of one sensor sweep.
type SenseResult struct {
	Robots []RobotInfo
	Tiles  []TileInfo
}

// ComponentInfo describes one of the caller's own components.
type ComponentInfo struct {
	Index  int           `json:"index"`
	Type   ComponentType `json:"type"`
	Active bool          `json:"active"`
	// RoundsUntilIdle is 0 when the component may act this turn.
	RoundsUntilIdle int `json:"roundsUntilIdle"`
}
