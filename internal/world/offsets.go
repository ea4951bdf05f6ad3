package world

import (
	"math"
	"sync"

	"github.com/fluxwars/engine/pkg/core"
)

// coneEpsilon admits lattice points lying exactly on the cone edge.
const coneEpsilon = 1e-9

// OffsetTable holds, per component kind and facing, the relative
// coordinates the component can reach. Omnidirectional kinds share one
// slice across all eight facings. The table is read-only once built.
type OffsetTable struct {
	sets       map[core.ComponentType]*[8][]core.MapLocation
	lookup     map[core.ComponentType]*[8]map[core.MapLocation]struct{}
	maxRangeSq int
	padding    int
}

var (
	defaultOnce  sync.Once
	defaultTable *OffsetTable
)

// DefaultOffsets returns the table for every ranged component in the catalog.
func DefaultOffsets() *OffsetTable {
	defaultOnce.Do(func() {
		var types []core.ComponentType
		for _, t := range core.ComponentTypes() {
			switch t.Class() {
			case core.ClassSensor, core.ClassWeapon:
				types = append(types, t)
			}
		}
		defaultTable = NewOffsetTable(types)
	})
	return defaultTable
}

// NewOffsetTable precomputes the offsets of the given kinds.
func NewOffsetTable(types []core.ComponentType) *OffsetTable {
	tbl := &OffsetTable{
		sets:   make(map[core.ComponentType]*[8][]core.MapLocation, len(types)),
		lookup: make(map[core.ComponentType]*[8]map[core.MapLocation]struct{}, len(types)),
	}
	for _, t := range types {
		spec := t.Spec()
		sets := computeVisibleOffsets(spec.RangeSq, spec.Angle)
		var idx [8]map[core.MapLocation]struct{}
		for d := range sets {
			idx[d] = make(map[core.MapLocation]struct{}, len(sets[d]))
			for _, o := range sets[d] {
				idx[d][o] = struct{}{}
			}
		}
		tbl.sets[t] = &sets
		tbl.lookup[t] = &idx
		if spec.Class == core.ClassSensor && spec.RangeSq > tbl.maxRangeSq {
			tbl.maxRangeSq = spec.RangeSq
		}
	}
	tbl.padding = int(math.Ceil(math.Sqrt(float64(tbl.maxRangeSq))))
	return tbl
}

// Offsets returns the reachable offsets of kind t facing d. Callers must not
// modify the returned slice.
func (tbl *OffsetTable) Offsets(t core.ComponentType, d core.Direction) []core.MapLocation {
	sets, ok := tbl.sets[t]
	if !ok || !d.IsCompass() {
		return nil
	}
	return sets[d]
}

// Covers reports whether the offset delta is reachable by kind t facing d.
func (tbl *OffsetTable) Covers(t core.ComponentType, d core.Direction, delta core.MapLocation) bool {
	idx, ok := tbl.lookup[t]
	if !ok || !d.IsCompass() {
		return false
	}
	_, hit := idx[d][delta]
	return hit
}

// MaxSensorRangeSq is the largest sensor reach in the table.
func (tbl *OffsetTable) MaxSensorRangeSq() int {
	return tbl.maxRangeSq
}

// Padding is the map memory border needed to record any sensor sweep.
func (tbl *OffsetTable) Padding() int {
	return tbl.padding
}

func computeVisibleOffsets(rangeSq int, angle float64) [8][]core.MapLocation {
	var out [8][]core.MapLocation
	if angle >= 360 {
		shared := computeOffsets360(rangeSq)
		for d := range out {
			out[d] = shared
		}
		return out
	}

	r := int(math.Sqrt(float64(rangeSq)))
	cosHalf := math.Cos(angle * math.Pi / 360)
	for _, d := range core.Compass {
		var set []core.MapLocation
		for x := -r; x <= r; x++ {
			for y := -r; y <= r; y++ {
				if x*x+y*y > rangeSq {
					continue
				}
				if inCone(d, x, y, cosHalf) {
					set = append(set, core.MapLocation{X: x, Y: y})
				}
			}
		}
		out[d] = set
	}
	return out
}

// computeOffsets360 walks one quadrant and emits each point with its three
// 90-degree rotations, so every lattice point in the disc appears once.
func computeOffsets360(rangeSq int) []core.MapLocation {
	out := []core.MapLocation{{X: 0, Y: 0}}
	for x := 1; x*x <= rangeSq; x++ {
		for y := 0; x*x+y*y <= rangeSq; y++ {
			out = append(out,
				core.MapLocation{X: x, Y: y},
				core.MapLocation{X: -y, Y: x},
				core.MapLocation{X: -x, Y: -y},
				core.MapLocation{X: y, Y: -x},
			)
		}
	}
	return out
}

func inCone(d core.Direction, x, y int, cosHalf float64) bool {
	if x == 0 && y == 0 {
		return true
	}
	dx, dy := float64(d.DX()), float64(d.DY())
	dot := dx*float64(x) + dy*float64(y)
	norm := math.Hypot(dx, dy) * math.Hypot(float64(x), float64(y))
	return dot/norm >= cosHalf-coneEpsilon
}
