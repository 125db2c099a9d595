package systems

import (
	"testing"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/didibear/road-on-road/components"
)

const testCellSize = 60.0

// newColliders creates one entity per collider and fills in Entity and ID.
func newColliders(cs ...Collider) []Collider {
	w := ecs.NewWorld()
	actors := ecs.NewMap[components.Actor](w)
	for i := range cs {
		cs[i].ID = uint32(i + 1)
		cs[i].Entity = actors.NewEntity(&components.Actor{ID: cs[i].ID, Role: cs[i].Role})
	}
	return cs
}

func at(x, y float64) r2.Vec { return r2.Vec{X: x, Y: y} }

func TestResolveCollisionsPlayerVersusBot(t *testing.T) {
	cs := newColliders(
		Collider{Role: components.RolePlayer, World: at(0, 0)},
		Collider{Role: components.RoleAutomated, World: at(testCellSize/4, 0)},
	)
	got := ResolveCollisions(cs, testCellSize/2)
	if len(got) != 1 {
		t.Fatalf("victims = %d, want 1", len(got))
	}
	if got[0].Entity != cs[0].Entity {
		t.Errorf("victim role = %v, want %v", got[0].Role, components.RolePlayer)
	}
}

func TestResolveCollisionsPrecedence(t *testing.T) {
	player := components.RolePlayer
	bot := components.RoleAutomated

	tests := []struct {
		name       string
		a, b       Collider
		wantVictim int // index into the pair, -1 for none
	}{
		{"both in grace", Collider{Role: player, Grace: true}, Collider{Role: bot, Grace: true}, -1},
		{"grace player spares itself", Collider{Role: player, Grace: true}, Collider{Role: bot}, 1},
		{"grace bot destroys player", Collider{Role: player}, Collider{Role: bot, Grace: true}, 0},
		{"player before bot", Collider{Role: bot}, Collider{Role: player}, 1},
		{"younger bot goes", Collider{Role: bot}, Collider{Role: bot}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := newColliders(tt.a, tt.b)
			got := ResolveCollisions(cs, testCellSize/2)
			if tt.wantVictim < 0 {
				if len(got) != 0 {
					t.Errorf("victims = %v, want none", got)
				}
				return
			}
			if len(got) != 1 || got[0].Entity != cs[tt.wantVictim].Entity {
				t.Errorf("victims = %v, want entity %d", got, tt.wantVictim)
			}
		})
	}
}

func TestResolveCollisionsDistance(t *testing.T) {
	tests := []struct {
		name string
		d    float64
		want int
	}{
		{"same cell", 0, 1},
		{"exactly at radius", testCellSize / 2, 1},
		{"just outside", testCellSize/2 + 0.01, 0},
		{"neighbour cells", testCellSize, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := newColliders(
				Collider{Role: components.RolePlayer, World: at(0, 0)},
				Collider{Role: components.RoleAutomated, World: at(0, tt.d)},
			)
			if got := len(ResolveCollisions(cs, testCellSize/2)); got != tt.want {
				t.Errorf("victims = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResolveCollisionsDedupes(t *testing.T) {
	cs := newColliders(
		Collider{Role: components.RolePlayer, World: at(0, 0)},
		Collider{Role: components.RoleAutomated, World: at(10, 0), Grace: true},
		Collider{Role: components.RoleAutomated, World: at(-10, 0), Grace: true},
	)
	got := ResolveCollisions(cs, testCellSize/2)
	if len(got) != 1 {
		t.Fatalf("victims = %d, want 1", len(got))
	}
	if got[0].Entity != cs[0].Entity {
		t.Errorf("victim = %v, want the player", got[0].Role)
	}
}

func TestResolveCollisionsSkipsDestroyed(t *testing.T) {
	cs := newColliders(
		Collider{Role: components.RolePlayer, World: at(0, 0)},
		Collider{Role: components.RoleDestroyed, World: at(0, 0)},
	)
	if got := ResolveCollisions(cs, testCellSize/2); len(got) != 0 {
		t.Errorf("victims = %v, want none", got)
	}
}

func TestCollisionResolverReuse(t *testing.T) {
	r := NewCollisionResolver(testCellSize / 2)

	crowded := newColliders(
		Collider{Role: components.RolePlayer, World: at(0, 0)},
		Collider{Role: components.RoleAutomated, World: at(1, 0)},
	)
	if got := r.Resolve(crowded); len(got) != 1 || got[0].Entity != crowded[0].Entity {
		t.Fatalf("first Resolve = %v, want the player", got)
	}

	// Same entities far apart: nothing from the previous tick may linger.
	crowded[1].World = at(3*testCellSize, 0)
	if got := r.Resolve(crowded); len(got) != 0 {
		t.Errorf("second Resolve = %v, want no victims", got)
	}

	// And the victim is reported again once it overlaps again.
	crowded[1].World = at(2, 0)
	if got := r.Resolve(crowded); len(got) != 1 {
		t.Errorf("third Resolve = %v, want one victim", got)
	}
}
