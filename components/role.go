package components

// String returns the display name for a Role.
func (r Role) String() string {
	names := RoleNames()
	if int(r) < len(names) {
		return names[r]
	}
	return "Unknown"
}

// RoleNames returns the display names for all roles.
// The order matches the Role constants.
func RoleNames() []string {
	return []string{"Player", "Automated", "Destroyed"}
}

// RoleCount returns the number of roles.
func RoleCount() int {
	return len(RoleNames())
}
