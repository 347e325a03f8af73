package types

// Decision is the verdict of a single authorization check.
// Every (user, target, action) input yields exactly one Decision:
// denial is a normal return value, not a fault.
type Decision struct {
	Allowed bool

	// Reason names the rule which failed, for diagnostic use by the caller.
	// It is empty when the decision is a permit.
	Reason string
}

// Permit is the positive verdict
func Permit() Decision {
	return Decision{Allowed: true}
}

// Deny is the negative verdict, carrying the rule that failed
func Deny(reason string) Decision {
	return Decision{Reason: reason}
}

// PresetPolicy is consulted before the engine rules:
// when it returns true, the check is permitted without further evaluation
type PresetPolicy func(user User, act Action) bool
