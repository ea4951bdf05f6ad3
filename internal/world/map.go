// Package world holds the static battlefield: the terrain map, the
// precomputed visibility offsets and per-robot map memory.
package world

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/fluxwars/engine/pkg/core"
)

// TileDef is the external description of one tile.
type TileDef struct {
	Terrain core.TerrainType
	Height  int
	Flux    int
}

// Params is the validated construction input of a Map.
// Tiles is indexed [y][x] and must be Height rows of Width tiles.
type Params struct {
	Name      string
	Width     int
	Height    int
	Seed      int64
	MaxRounds int
	Theme     string
	Tiles     [][]TileDef
}

// Tile is a single grid square. Terrain and height never change; flux is
// depleted by mining and regenerates up to its starting amount.
type Tile struct {
	Terrain     core.TerrainType
	Height      int
	flux        int
	initialFlux int
}

// Flux returns the minable amount left on the tile.
func (t *Tile) Flux() int {
	return t.flux
}

// MineFlux removes up to limit flux and returns the amount taken.
func (t *Tile) MineFlux(limit int) int {
	n := t.flux
	if limit >= 0 && n > limit {
		n = limit
	}
	t.flux -= n
	return n
}

// Regenerate restores up to amount flux, never past the starting amount.
func (t *Tile) Regenerate(amount int) {
	if amount <= 0 || t.flux >= t.initialFlux {
		return
	}
	t.flux += amount
	if t.flux > t.initialFlux {
		t.flux = t.initialFlux
	}
}

// Map is the terrain grid of a match. Coordinates are absolute: the tile
// at grid index (0,0) sits at Origin.
type Map struct {
	name      string
	width     int
	height    int
	origin    core.MapLocation
	seed      int64
	maxRounds int
	theme     string
	tiles     []Tile
}

var (
	ErrBadDimensions = errors.New("map dimensions out of range")
	ErrBadTiles      = errors.New("tile grid does not match map dimensions")
)

// NewMap validates p and builds the map. The origin is drawn from the seed
// so that absolute coordinates differ between maps.
func NewMap(p Params) (*Map, error) {
	if p.Width <= 0 || p.Height <= 0 || p.Width > core.MaxMapDimension || p.Height > core.MaxMapDimension {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadDimensions, p.Width, p.Height)
	}
	if len(p.Tiles) != p.Height {
		return nil, fmt.Errorf("%w: %d rows, want %d", ErrBadTiles, len(p.Tiles), p.Height)
	}
	if p.MaxRounds <= 0 {
		p.MaxRounds = core.DefaultMaxRounds
	}

	m := &Map{
		name:      p.Name,
		width:     p.Width,
		height:    p.Height,
		seed:      p.Seed,
		maxRounds: p.MaxRounds,
		theme:     p.Theme,
		origin:    originFromSeed(p.Seed),
		tiles:     make([]Tile, p.Width*p.Height),
	}
	for y, row := range p.Tiles {
		if len(row) != p.Width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, want %d", ErrBadTiles, y, len(row), p.Width)
		}
		for x, def := range row {
			if def.Terrain == core.TerrainOffMap {
				return nil, fmt.Errorf("%w: off-map terrain at (%d,%d)", ErrBadTiles, x, y)
			}
			if def.Flux < 0 {
				return nil, fmt.Errorf("%w: negative flux at (%d,%d)", ErrBadTiles, x, y)
			}
			m.tiles[y*p.Width+x] = Tile{
				Terrain:     def.Terrain,
				Height:      def.Height,
				flux:        def.Flux,
				initialFlux: def.Flux,
			}
		}
	}
	return m, nil
}

func originFromSeed(seed int64) core.MapLocation {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15))
	x := rng.IntN(core.MapOriginBound)
	y := rng.IntN(core.MapOriginBound)
	return core.MapLocation{X: x, Y: y}
}

func (m *Map) Name() string             { return m.name }
func (m *Map) Width() int               { return m.width }
func (m *Map) Height() int              { return m.height }
func (m *Map) Origin() core.MapLocation { return m.origin }
func (m *Map) Seed() int64              { return m.seed }
func (m *Map) MaxRounds() int           { return m.maxRounds }
func (m *Map) Theme() string            { return m.theme }

// OnTheMap reports whether loc is inside the grid.
func (m *Map) OnTheMap(loc core.MapLocation) bool {
	x := loc.X - m.origin.X
	y := loc.Y - m.origin.Y
	return x >= 0 && y >= 0 && x < m.width && y < m.height
}

// Tile returns the tile at loc, or nil when loc is off the map.
func (m *Map) Tile(loc core.MapLocation) *Tile {
	if !m.OnTheMap(loc) {
		return nil
	}
	return &m.tiles[(loc.Y-m.origin.Y)*m.width+(loc.X-m.origin.X)]
}

// TerrainAt returns the terrain at loc; off-map coordinates are TerrainOffMap.
func (m *Map) TerrainAt(loc core.MapLocation) core.TerrainType {
	t := m.Tile(loc)
	if t == nil {
		return core.TerrainOffMap
	}
	return t.Terrain
}

// TileInfo reports a tile the way sensors see it.
func (m *Map) TileInfo(loc core.MapLocation) core.TileInfo {
	t := m.Tile(loc)
	if t == nil {
		return core.TileInfo{Location: loc, Terrain: core.TerrainOffMap}
	}
	return core.TileInfo{Location: loc, Terrain: t.Terrain, Height: t.Height, Flux: t.flux}
}

// GridLocation converts grid indices to an absolute location.
func (m *Map) GridLocation(x, y int) core.MapLocation {
	return core.MapLocation{X: m.origin.X + x, Y: m.origin.Y + y}
}

// RegenerateFlux restores amount flux to every depleted tile.
func (m *Map) RegenerateFlux(amount int) {
	if amount <= 0 {
		return
	}
	for i := range m.tiles {
		m.tiles[i].Regenerate(amount)
	}
}

// TotalFlux sums the flux left on the map.
func (m *Map) TotalFlux() int {
	total := 0
	for i := range m.tiles {
		total += m.tiles[i].flux
	}
	return total
}
