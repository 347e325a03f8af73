package types

// User is an authenticated identity carrying exactly one Role.
// It is immutable for the lifetime of a decision.
type User struct {
	ID   string
	Role Role
}

func (u User) String() string {
	return "user:" + u.ID
}
