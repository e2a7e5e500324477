// Package scene keeps the entities, camera and viewport that feed the
// render pipeline each frame.
package scene

import (
	"context"
	"fmt"
	"iter"

	"drake-renderer/internal/camera"
	"drake-renderer/internal/frustum"
	"drake-renderer/internal/mesh"
	"drake-renderer/internal/viewmatrix"
)

// Scene owns entities in insertion order. It is driven by a single frame
// loop and is not safe for concurrent use.
type Scene struct {
	Camera   *camera.Camera
	Viewport viewmatrix.Viewport

	nextID   int
	entities map[int]*Entity
	order    []int
	overlaps []*Overlap
}

func New(cam *camera.Camera, vp viewmatrix.Viewport) *Scene {
	return &Scene{
		Camera:   cam,
		Viewport: vp,
		nextID:   1,
		entities: make(map[int]*Entity),
	}
}

// Add assigns the next scene ID to e and returns it.
func (s *Scene) Add(e *Entity) int {
	e.ID = s.nextID
	s.nextID++
	s.entities[e.ID] = e
	s.order = append(s.order, e.ID)
	return e.ID
}

// Remove drops an entity and any overlap that references it.
func (s *Scene) Remove(id int) bool {
	e, ok := s.entities[id]
	if !ok {
		return false
	}
	delete(s.entities, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	kept := s.overlaps[:0]
	for _, o := range s.overlaps {
		if o.A != e && o.B != e {
			kept = append(kept, o)
		}
	}
	s.overlaps = kept
	return true
}

func (s *Scene) Entity(id int) (*Entity, bool) {
	e, ok := s.entities[id]
	return e, ok
}

// Entities returns live entities in insertion order.
func (s *Scene) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.order))
	for _, id := range s.order {
		if e := s.entities[id]; !e.Killed {
			out = append(out, e)
		}
	}
	return out
}

func (s *Scene) Len() int { return len(s.order) }

// AddOverlap registers o to be checked on every Update.
func (s *Scene) AddOverlap(o *Overlap) {
	s.overlaps = append(s.overlaps, o)
}

// Update runs behaviors, then physics, then overlap callbacks, and finally
// removes killed entities.
func (s *Scene) Update(dt float64) {
	for _, e := range s.Entities() {
		if e.Behavior != nil {
			e.Behavior(e, dt)
		}
		if e.Physics != nil && !e.Killed {
			d := e.Physics.Step(dt)
			e.Move(d[0], d[1], d[2])
		}
	}
	for _, o := range s.overlaps {
		if o.A.Killed || o.B.Killed {
			continue
		}
		if o.Happening() && o.OnOverlap != nil {
			o.OnOverlap(o.A, o.B)
		}
	}

	var dead []int
	for _, id := range s.order {
		if s.entities[id].Killed {
			dead = append(dead, id)
		}
	}
	for _, id := range dead {
		s.Remove(id)
	}
}

// Segments yields every line of every live entity, followed by its
// collider wireframe when ShowCollider is set.
func (s *Scene) Segments() iter.Seq[mesh.Segment] {
	return func(yield func(mesh.Segment) bool) {
		for _, e := range s.Entities() {
			for _, seg := range e.Segments() {
				if !yield(seg) {
					return
				}
			}
			if !e.ShowCollider {
				continue
			}
			for _, seg := range e.ColliderSegments() {
				if !yield(seg) {
					return
				}
			}
		}
	}
}

// VisibleEntities is a broad phase over the frame matrices: an entity is
// kept when at least one of its segments passes the frustum test.
func (s *Scene) VisibleEntities(m viewmatrix.Matrices) []*Entity {
	var out []*Entity
	for _, e := range s.Entities() {
		for _, seg := range e.Segments() {
			if frustum.IsSegmentVisible(seg.Line, m.View, m.Projection) {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// MeshPaths lists the distinct file paths entities load from, skipping
// built-in primitives.
func (s *Scene) MeshPaths() []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range s.order {
		p := s.entities[id].MeshPath
		if _, builtin := mesh.Builtin(p); builtin || p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// LoadMeshes loads every entity mesh through cache, joining all loads
// before returning. Call it before the first frame.
func (s *Scene) LoadMeshes(ctx context.Context, cache *mesh.Cache, workers int) error {
	if err := mesh.LoadAll(ctx, cache, s.MeshPaths(), workers); err != nil {
		return err
	}
	for _, id := range s.order {
		if err := s.attach(s.entities[id], cache); err != nil {
			return err
		}
	}
	return nil
}

// Reload re-reads path and re-attaches it to every entity using it,
// keeping their placement. Returns how many entities were updated.
func (s *Scene) Reload(path string, cache *mesh.Cache) (int, error) {
	cache.Forget(path)
	n := 0
	for _, id := range s.order {
		e := s.entities[id]
		if e.MeshPath != path {
			continue
		}
		if err := s.attach(e, cache); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (s *Scene) attach(e *Entity, cache *mesh.Cache) error {
	if e.MeshPath == "" {
		return nil
	}
	if m, ok := mesh.Builtin(e.MeshPath); ok {
		e.SetMesh(m)
		return nil
	}
	m, err := cache.Get(e.MeshPath)
	if err != nil {
		return fmt.Errorf("scene: entity %d: %w", e.ID, err)
	}
	e.SetMesh(m)
	return nil
}
