package components

// Role is an actor's lifecycle role. Exactly one role is held at a time.
type Role uint8

const (
	RolePlayer    Role = iota // human controlled
	RoleAutomated             // replays its frozen path
	RoleDestroyed             // handed to the destroyed-effect stage, then removed
)

// Actor bundles identity and lifecycle role.
type Actor struct {
	ID   uint32
	Role Role
}

// Live reports whether the actor takes part in movement and collisions.
func (a *Actor) Live() bool {
	return a.Role == RolePlayer || a.Role == RoleAutomated
}
