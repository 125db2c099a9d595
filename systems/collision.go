package systems

import (
	"slices"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/components"
)

// Collider is a live actor snapshot taken for collision resolution.
type Collider struct {
	Entity ecs.Entity
	ID     uint32
	Role   components.Role
	Grace  bool   // just spawned
	World  r2.Vec // reconciled world position
}

// Collides reports whether two world positions are within radius.
func Collides(a, b r2.Vec, radius float64) bool {
	return r2.Norm(r2.Sub(a, b)) <= radius
}

// Victim picks the party destroyed when a and b overlap. ok is false when
// both are in their grace period.
//
// Precedence: grace protects its holder, the player is destroyed before an
// automated actor, and between equals the younger actor goes.
func Victim(a, b Collider) (victim Collider, ok bool) {
	switch {
	case a.Grace && b.Grace:
		return Collider{}, false
	case a.Grace:
		return b, true
	case b.Grace:
		return a, true
	case a.Role == components.RolePlayer && b.Role != components.RolePlayer:
		return a, true
	case b.Role == components.RolePlayer && a.Role != components.RolePlayer:
		return b, true
	case a.ID > b.ID:
		return a, true
	default:
		return b, true
	}
}

// CollisionResolver finds collision victims tick after tick, reusing its
// broad-phase grid and scratch space.
type CollisionResolver struct {
	radius float64
	broad  *SpatialGrid
	near   []int
	seen   map[ecs.Entity]struct{}
}

// NewCollisionResolver returns a resolver for colliders of the given radius.
func NewCollisionResolver(radius float64) *CollisionResolver {
	return &CollisionResolver{
		radius: radius,
		broad:  NewSpatialGrid(radius),
		seen:   make(map[ecs.Entity]struct{}),
	}
}

// ResolveCollisions is a one-shot Resolve with a fresh resolver.
func ResolveCollisions(cs []Collider, radius float64) []Collider {
	return NewCollisionResolver(radius).Resolve(cs)
}

// Resolve compares every unordered pair of live colliders within radius and
// returns the destroyed ones, each at most once, in order of first
// detection. Destroyed colliders in the input are ignored.
func (r *CollisionResolver) Resolve(cs []Collider) []Collider {
	r.broad.Clear()
	clear(r.seen)
	for i, c := range cs {
		if c.Role != components.RoleDestroyed {
			r.broad.Insert(i, c.World)
		}
	}

	var victims []Collider
	for i := range cs {
		if cs[i].Role == components.RoleDestroyed {
			continue
		}
		r.near = r.broad.QueryInto(r.near[:0], cs[i].World, r.radius)
		slices.Sort(r.near)
		for _, j := range r.near {
			if j <= i || !Collides(cs[i].World, cs[j].World, r.radius) {
				continue
			}
			v, ok := Victim(cs[i], cs[j])
			if !ok {
				continue
			}
			if _, dup := r.seen[v.Entity]; dup {
				continue
			}
			r.seen[v.Entity] = struct{}{}
			victims = append(victims, v)
		}
	}
	return victims
}
