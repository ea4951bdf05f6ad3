package robot

import (
	"sort"

	"github.com/fluxwars/engine/pkg/core"
)

// Registry is the arena that owns every live robot, keyed by id, plus the
// per-level occupancy grid. Boarded robots are in the arena but not on the grid.
type Registry struct {
	robots map[int]*Robot
	ids    []int
	nextID int
	grid   [len(core.Levels)]map[core.MapLocation]int
}

// NewRegistry creates an empty arena. Ids start at 1; 0 means "none".
func NewRegistry() *Registry {
	reg := &Registry{
		robots: make(map[int]*Robot),
		nextID: 1,
	}
	for i := range reg.grid {
		reg.grid[i] = make(map[core.MapLocation]int)
	}
	return reg
}

// NextID reserves the next robot id.
func (reg *Registry) NextID() int {
	id := reg.nextID
	reg.nextID++
	return id
}

// Add inserts r and places it on the grid unless it is boarded.
func (reg *Registry) Add(r *Robot) error {
	if _, ok := reg.robots[r.id]; ok {
		return core.Internalf("robot %d already registered", r.id)
	}
	if !r.Boarded() {
		if other, ok := reg.grid[r.Level()][r.loc]; ok {
			return core.Internalf("robot %d spawned on robot %d at %s", r.id, other, r.loc)
		}
		reg.grid[r.Level()][r.loc] = r.id
	}
	reg.robots[r.id] = r
	i := sort.SearchInts(reg.ids, r.id)
	reg.ids = append(reg.ids, 0)
	copy(reg.ids[i+1:], reg.ids[i:])
	reg.ids[i] = r.id
	if r.id >= reg.nextID {
		reg.nextID = r.id + 1
	}
	return nil
}

// Remove deletes the robot from the arena and the grid.
func (reg *Registry) Remove(id int) (*Robot, bool) {
	r, ok := reg.robots[id]
	if !ok {
		return nil, false
	}
	reg.unplace(r)
	delete(reg.robots, id)
	i := sort.SearchInts(reg.ids, id)
	if i < len(reg.ids) && reg.ids[i] == id {
		reg.ids = append(reg.ids[:i], reg.ids[i+1:]...)
	}
	return r, true
}

// Get returns the live robot with id.
func (reg *Registry) Get(id int) (*Robot, bool) {
	r, ok := reg.robots[id]
	return r, ok
}

// IDs returns a snapshot of live ids in ascending order.
func (reg *Registry) IDs() []int {
	return append([]int(nil), reg.ids...)
}

// Len returns the number of live robots.
func (reg *Registry) Len() int {
	return len(reg.ids)
}

// At returns the robot occupying loc on level.
func (reg *Registry) At(loc core.MapLocation, level core.RobotLevel) (*Robot, bool) {
	id, ok := reg.grid[level][loc]
	if !ok {
		return nil, false
	}
	return reg.robots[id], true
}

// Occupied reports whether loc is taken on level.
func (reg *Registry) Occupied(loc core.MapLocation, level core.RobotLevel) bool {
	_, ok := reg.grid[level][loc]
	return ok
}

// Move relocates r on the grid.
func (reg *Registry) Move(r *Robot, to core.MapLocation) error {
	if other, ok := reg.grid[r.Level()][to]; ok && other != r.id {
		return core.Internalf("robot %d moved onto robot %d at %s", r.id, other, to)
	}
	reg.unplace(r)
	r.loc = to
	reg.grid[r.Level()][to] = r.id
	return nil
}

// Board loads p into transport t and takes p off the grid.
func (reg *Registry) Board(t, p *Robot) {
	reg.unplace(p)
	t.Load(p)
}

// Disembark unloads p from transport t onto loc.
func (reg *Registry) Disembark(t, p *Robot, loc core.MapLocation) error {
	if other, ok := reg.grid[p.Level()][loc]; ok {
		return core.Internalf("robot %d unloaded onto robot %d at %s", p.id, other, loc)
	}
	t.Unload(p, loc)
	reg.grid[p.Level()][loc] = p.id
	return nil
}

// Detach clears p's transporter link when the transport is gone.
func (reg *Registry) Detach(p *Robot) {
	if t, ok := reg.robots[p.transporter]; ok {
		t.dropPassenger(p)
		return
	}
	p.transporter = 0
}

func (reg *Registry) unplace(r *Robot) {
	if r.Boarded() {
		return
	}
	if id, ok := reg.grid[r.Level()][r.loc]; ok && id == r.id {
		delete(reg.grid[r.Level()], r.loc)
	}
}

// Each calls fn for every live robot in ascending id order.
func (reg *Registry) Each(fn func(*Robot)) {
	for _, id := range reg.IDs() {
		if r, ok := reg.robots[id]; ok {
			fn(r)
		}
	}
}

// CountAnimate returns the number of live non-inanimate robots of team.
func (reg *Registry) CountAnimate(team core.Team) int {
	n := 0
	for _, r := range reg.robots {
		if r.team == team && !r.Inanimate() {
			n++
		}
	}
	return n
}
