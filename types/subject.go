package types

// Subject is the child record all dependent records attach to.
// Only the attributes relevant to authorization live here;
// the persistence collaborator may carry more.
type Subject struct {
	ID string

	// GuardianID is the id of the owning parent user.
	// Empty means the subject is administratively unowned, which only
	// happens for admin-created subjects.
	GuardianID string

	// Staff holds the ids of teacher users assigned to this subject.
	// A teacher absent from the set has zero access to the subject and
	// everything under it, regardless of authorship.
	Staff StaffSet
}

func (s Subject) String() string {
	return "subject:" + s.ID
}

// StaffSet is a duplicate-free set of teacher user ids
type StaffSet map[string]struct{}

// NewStaffSet builds a StaffSet from the given ids
func NewStaffSet(ids ...string) StaffSet {
	set := make(StaffSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has tells if the teacher with the given id is assigned
func (s StaffSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Add assigns a teacher to the set
func (s StaffSet) Add(id string) {
	s[id] = struct{}{}
}

// Remove unassigns a teacher from the set
func (s StaffSet) Remove(id string) {
	delete(s, id)
}

// Clone returns an independent copy of the set,
// so a decision observes a consistent snapshot
func (s StaffSet) Clone() StaffSet {
	if s == nil {
		return nil
	}
	out := make(StaffSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}
