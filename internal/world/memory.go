package world

import "github.com/fluxwars/engine/pkg/core"

// MapMemory records which tiles a robot has ever sensed. The window covers
// the map plus a border wide enough for any sensor sweep from an edge tile.
// Entries are never cleared.
type MapMemory struct {
	m      *Map
	pad    int
	width  int
	height int
	seen   []bool
}

// NewMapMemory allocates an empty memory for m with the given border.
func NewMapMemory(m *Map, pad int) *MapMemory {
	w := m.width + 2*pad
	h := m.height + 2*pad
	return &MapMemory{
		m:      m,
		pad:    pad,
		width:  w,
		height: h,
		seen:   make([]bool, w*h),
	}
}

func (mm *MapMemory) index(loc core.MapLocation) (int, bool) {
	x := loc.X - mm.m.origin.X + mm.pad
	y := loc.Y - mm.m.origin.Y + mm.pad
	if x < 0 || y < 0 || x >= mm.width || y >= mm.height {
		return 0, false
	}
	return y*mm.width + x, true
}

// Remember marks center+offset as seen for every offset.
func (mm *MapMemory) Remember(center core.MapLocation, offsets []core.MapLocation) {
	for _, o := range offsets {
		if i, ok := mm.index(center.Offset(o.X, o.Y)); ok {
			mm.seen[i] = true
		}
	}
}

// Seen reports whether loc was ever sensed.
func (mm *MapMemory) Seen(loc core.MapLocation) bool {
	i, ok := mm.index(loc)
	return ok && mm.seen[i]
}

// Recall returns the remembered terrain at loc. Terrain is immutable, so the
// live map answers for any tile that was seen at least once.
func (mm *MapMemory) Recall(loc core.MapLocation) (core.TerrainType, bool) {
	if !mm.Seen(loc) {
		return core.TerrainOffMap, false
	}
	return mm.m.TerrainAt(loc), true
}

// Count returns how many window cells have been seen.
func (mm *MapMemory) Count() int {
	n := 0
	for _, s := range mm.seen {
		if s {
			n++
		}
	}
	return n
}
