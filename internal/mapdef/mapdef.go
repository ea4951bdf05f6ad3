// Package mapdef loads map definitions from YAML. A definition carries the
// terrain grid, match parameters, and the robots present before round 0.
package mapdef

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/fluxwars/engine/internal/engine"
	"github.com/fluxwars/engine/internal/world"
	"github.com/fluxwars/engine/pkg/core"
)

//go:embed maps/*.yaml
var builtin embed.FS

// YAMLMap is the file format.
type YAMLMap struct {
	Name      string              `yaml:"name"`
	Seed      int64               `yaml:"seed,omitempty"`
	MaxRounds int                 `yaml:"maxRounds,omitempty"`
	Theme     string              `yaml:"theme,omitempty"`
	Legend    map[string]YAMLTile `yaml:"legend"`
	Rows      []string            `yaml:"rows"`
	Robots    []YAMLRobot         `yaml:"robots"`
}

// YAMLTile is one legend entry.
type YAMLTile struct {
	Terrain string `yaml:"terrain"`
	Height  int    `yaml:"height,omitempty"`
	Flux    int    `yaml:"flux,omitempty"`
}

// YAMLRobot is a starting robot. X and Y are grid indices.
type YAMLRobot struct {
	Team       string   `yaml:"team"`
	Chassis    string   `yaml:"chassis"`
	X          int      `yaml:"x"`
	Y          int      `yaml:"y"`
	Direction  string   `yaml:"direction,omitempty"`
	Components []string `yaml:"components,omitempty"`
}

// Definition is a validated map ready to start a match.
type Definition struct {
	Map        *world.Map
	Placements []engine.Placement
}

// ParseYAML decodes and validates a map definition.
func ParseYAML(data []byte) (*Definition, error) {
	var ym YAMLMap
	if err := yaml.Unmarshal(data, &ym); err != nil {
		return nil, fmt.Errorf("parsing yaml: %w", err)
	}
	return ym.Build()
}

// LoadFile reads a definition from disk.
func LoadFile(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	def, err := ParseYAML(data)
	if err != nil {
		return nil, fmt.Errorf("loading map %s: %w", path, err)
	}
	return def, nil
}

// Builtin loads one of the maps shipped with the engine.
func Builtin(name string) (*Definition, error) {
	data, err := builtin.ReadFile("maps/" + name + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("unknown builtin map %q (have %v)", name, BuiltinNames())
	}
	return ParseYAML(data)
}

// BuiltinNames lists the shipped maps.
func BuiltinNames() []string {
	entries, _ := builtin.ReadDir("maps")
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(out)
	return out
}

// Load resolves ref as a file path if it names a YAML file, otherwise as a
// builtin map name.
func Load(ref string) (*Definition, error) {
	ext := strings.ToLower(filepath.Ext(ref))
	if ext == ".yaml" || ext == ".yml" {
		return LoadFile(ref)
	}
	return Builtin(ref)
}

var terrainNames = map[string]core.TerrainType{
	"land": core.TerrainLand,
	"void": core.TerrainVoid,
}

// Build validates ym and converts it to a map and placements.
func (ym *YAMLMap) Build() (*Definition, error) {
	height := len(ym.Rows)
	if height == 0 {
		return nil, fmt.Errorf("map %q has no rows", ym.Name)
	}
	width := len(ym.Rows[0])

	legend := make(map[rune]world.TileDef, len(ym.Legend))
	for sym, t := range ym.Legend {
		r := []rune(sym)
		if len(r) != 1 {
			return nil, fmt.Errorf("legend key %q must be one character", sym)
		}
		terrain, ok := terrainNames[strings.ToLower(t.Terrain)]
		if !ok {
			return nil, fmt.Errorf("legend %q: unknown terrain %q", sym, t.Terrain)
		}
		legend[r[0]] = world.TileDef{Terrain: terrain, Height: t.Height, Flux: t.Flux}
	}

	tiles := make([][]world.TileDef, height)
	for y, row := range ym.Rows {
		runes := []rune(row)
		tiles[y] = make([]world.TileDef, len(runes))
		for x, c := range runes {
			def, ok := legend[c]
			if !ok {
				return nil, fmt.Errorf("row %d col %d: symbol %q not in legend", y, x, c)
			}
			tiles[y][x] = def
		}
	}

	seed := ym.Seed
	if seed == 0 {
		seed = core.DefaultSeed
	}
	m, err := world.NewMap(world.Params{
		Name:      ym.Name,
		Width:     width,
		Height:    height,
		Seed:      seed,
		MaxRounds: ym.MaxRounds,
		Theme:     ym.Theme,
		Tiles:     tiles,
	})
	if err != nil {
		return nil, fmt.Errorf("map %q: %w", ym.Name, err)
	}

	def := &Definition{Map: m}
	for i, yr := range ym.Robots {
		p, err := yr.placement(m)
		if err != nil {
			return nil, fmt.Errorf("robot %d: %w", i, err)
		}
		def.Placements = append(def.Placements, p)
	}
	return def, nil
}

func (yr YAMLRobot) placement(m *world.Map) (engine.Placement, error) {
	team, ok := core.ParseTeam(strings.ToUpper(yr.Team))
	if !ok {
		return engine.Placement{}, fmt.Errorf("unknown team %q", yr.Team)
	}
	chassis, ok := core.ParseChassis(strings.ToUpper(yr.Chassis))
	if !ok {
		return engine.Placement{}, fmt.Errorf("unknown chassis %q", yr.Chassis)
	}
	dir := core.North
	if yr.Direction != "" {
		if dir, ok = core.ParseDirection(strings.ToUpper(yr.Direction)); !ok || !dir.IsCompass() {
			return engine.Placement{}, fmt.Errorf("bad direction %q", yr.Direction)
		}
	}
	loc := m.GridLocation(yr.X, yr.Y)
	if !m.OnTheMap(loc) {
		return engine.Placement{}, fmt.Errorf("(%d,%d) is off the map", yr.X, yr.Y)
	}
	p := engine.Placement{Team: team, Chassis: chassis, Location: loc, Direction: dir}
	for _, name := range yr.Components {
		t, ok := core.ParseComponentType(strings.ToUpper(name))
		if !ok {
			return engine.Placement{}, fmt.Errorf("unknown component %q", name)
		}
		p.Components = append(p.Components, t)
	}
	return p, nil
}

// Populate places every starting robot on e in file order.
func (d *Definition) Populate(e *engine.Engine) error {
	for i, p := range d.Placements {
		if _, err := e.Place(p); err != nil {
			return fmt.Errorf("placing robot %d: %w", i, err)
		}
	}
	return nil
}
