package domain

// Role is the closed set of account types. Stored as a string column but
// never handled as a raw string above the persistence boundary.
type Role string

const (
	// Admin accounts manage the user base and bypass the approval gate.
	RoleAdmin Role = "admin"
	// Regular accounts, distinguished only by which menu tree they see.
	RoleTypeOne Role = "type1"
	RoleTypeTwo Role = "type2"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleTypeOne, RoleTypeTwo:
		return true
	}
	return false
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }

// ParseRole maps a stored or user-supplied value onto the closed set.
func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}
