package types

// RecordKind discriminates the three dependent record types.
// They share one authorization rule set, parameterized by kind.
type RecordKind uint8

// all record kinds known to the engine
const (
	Assessment RecordKind = iota + 1
	SupportPlan
	ProgressReport
)

var recordKindNames = map[RecordKind]string{
	Assessment:     "assessment",
	SupportPlan:    "support-plan",
	ProgressReport: "progress-report",
}

// Valid tells if k is one of the known record kinds
func (k RecordKind) Valid() bool {
	_, ok := recordKindNames[k]
	return ok
}

func (k RecordKind) String() string {
	if n, ok := recordKindNames[k]; ok {
		return n
	}
	return "unknown"
}

// ParseRecordKind parses a serialized RecordKind
func ParseRecordKind(s string) (RecordKind, error) {
	for k, n := range recordKindNames {
		if n == s {
			return k, nil
		}
	}
	return 0, ErrUnknownRecordKind
}

// Record is the shared authorization-relevant shape of assessments,
// support plans, and progress reports.
type Record struct {
	ID   string
	Kind RecordKind

	// SubjectID references the exactly one Subject the record concerns.
	// A dangling reference is an error condition, never a silent deny.
	SubjectID string

	// CreatorID is the id of the teacher or admin who authored the record.
	// Authorship, not mere assignment, gates edits.
	CreatorID string
}

func (r Record) String() string {
	return r.Kind.String() + ":" + r.ID
}
