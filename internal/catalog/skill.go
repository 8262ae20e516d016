package catalog

// Subject represents an examinable subject.
type Subject string

const (
	SubjectMathematics Subject = "mathematics"
	SubjectPhysics     Subject = "physics"
	SubjectChemistry   Subject = "chemistry"
	SubjectBiology     Subject = "biology"
)

// AllSubjects returns all subjects in display order.
func AllSubjects() []Subject {
	return []Subject{
		SubjectMathematics,
		SubjectPhysics,
		SubjectChemistry,
		SubjectBiology,
	}
}

// SubjectDisplayName returns a human-readable name for a subject.
func SubjectDisplayName(s Subject) string {
	switch s {
	case SubjectMathematics:
		return "Mathematics"
	case SubjectPhysics:
		return "Physics"
	case SubjectChemistry:
		return "Chemistry"
	case SubjectBiology:
		return "Biology"
	default:
		return string(s)
	}
}

// Skill represents a single curriculum skill. Skills are immutable:
// they are owned by curriculum content and only referenced here.
type Skill struct {
	ID      string  `json:"skill_id"`
	Name    string  `json:"skill_name"`
	Subject Subject `json:"subject"`
	Topic   string  `json:"topic"`
}
