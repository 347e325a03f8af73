package types

// Role is the closed set of roles a user may carry.
// The zero value is not a valid role: decisions for it are always denied.
type Role uint8

// all roles known to the engine
const (
	Admin Role = iota + 1
	Teacher
	Parent
)

var roleNames = map[Role]string{
	Admin:   "admin",
	Teacher: "teacher",
	Parent:  "parent",
}

// Valid tells if r is one of the known roles
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

func (r Role) String() string {
	if n, ok := roleNames[r]; ok {
		return n
	}
	return "unknown"
}

// ParseRole parses a serialized Role
func ParseRole(s string) (Role, error) {
	for r, n := range roleNames {
		if n == s {
			return r, nil
		}
	}
	return 0, ErrInvalidRole
}
