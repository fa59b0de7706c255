package forcegraph

import (
	"sync"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/san-kum/graphsim/internal/vector"
)

// Group is an attractor basin. Nodes in a group are pulled toward Origin and
// the pull is scaled per axis by Factor.
type Group struct {
	id     uuid.UUID
	Name   string
	Origin r3.Vec
	Factor r3.Vec
}

// NewGroup returns a group with a fresh ID and a neutral factor of (1, 1, 1).
func NewGroup(name string, origin r3.Vec) *Group {
	return &Group{
		id:     uuid.New(),
		Name:   name,
		Origin: origin,
		Factor: vector.One,
	}
}

func (g *Group) ID() uuid.UUID { return g.id }

type groupState struct {
	origin r3.Vec
	factor r3.Vec
}

// GroupTable is a registry of groups owned by the host. Worlds read it once
// per tick. Edit registered groups through Update so a tick in progress never
// observes a half-written group.
type GroupTable struct {
	mu     sync.RWMutex
	groups map[uuid.UUID]*Group
	order  []uuid.UUID
}

func NewGroupTable(groups ...*Group) *GroupTable {
	t := &GroupTable{groups: make(map[uuid.UUID]*Group)}
	for _, g := range groups {
		t.Add(g)
	}
	return t
}

// Add registers g. Adding a group that is already present is a no-op.
func (t *GroupTable) Add(g *Group) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.groups[g.id]; ok {
		return
	}
	t.groups[g.id] = g
	t.order = append(t.order, g.id)
}

func (t *GroupTable) Get(id uuid.UUID) (*Group, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	g, ok := t.groups[id]
	return g, ok
}

// Remove drops the group. Nodes that still reference it are treated as
// ungrouped for attraction.
func (t *GroupTable) Remove(id uuid.UUID) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.groups[id]; !ok {
		return false
	}
	delete(t.groups, id)
	for i, gid := range t.order {
		if gid == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// Update runs fn on the group with the table's write lock held.
func (t *GroupTable) Update(id uuid.UUID, fn func(g *Group)) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	g, ok := t.groups[id]
	if !ok {
		return false
	}
	fn(g)
	return true
}

func (t *GroupTable) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.groups)
}

// List returns the groups in registration order.
func (t *GroupTable) List() []*Group {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Group, 0, len(t.order))
	for _, id := range t.order {
		out = append(out, t.groups[id])
	}
	return out
}

func (t *GroupTable) snapshot() map[uuid.UUID]groupState {
	if t == nil {
		return nil
	}
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[uuid.UUID]groupState, len(t.groups))
	for id, g := range t.groups {
		out[id] = groupState{origin: g.Origin, factor: g.Factor}
	}
	return out
}
