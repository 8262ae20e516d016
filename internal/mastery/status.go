package mastery

// Skill status labels derived from the mastery estimate. Status is a pure
// function of mastery — consumers must never recompute it independently.
const (
	StatusMastered   = "mastered"
	StatusProficient = "proficient"
	StatusLearning   = "learning"
	StatusStruggling = "struggling"
	StatusUnknown    = "unknown"
)

// Status thresholds. These match the client's display buckets exactly.
const (
	MasteredThreshold   = 0.80
	ProficientThreshold = 0.60
	LearningThreshold   = 0.40
)

// Status maps a mastery estimate to its status label. A skill with no
// interactions is unknown regardless of the stored estimate.
func Status(mastery float64, interactions int) string {
	if interactions == 0 {
		return StatusUnknown
	}
	switch {
	case mastery >= MasteredThreshold:
		return StatusMastered
	case mastery >= ProficientThreshold:
		return StatusProficient
	case mastery >= LearningThreshold:
		return StatusLearning
	default:
		return StatusStruggling
	}
}
