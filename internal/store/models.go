package store

import "time"

// Learner-reported confidence levels on an interaction.
const (
	ConfidenceLow    = "low"
	ConfidenceMedium = "medium"
	ConfidenceHigh   = "high"
)

// Interaction is one graded practice event. The table is append-only:
// rows are never updated or deleted, and the unique interaction_id index
// makes ingestion idempotent under client retries.
type Interaction struct {
	ID            uint   `gorm:"primaryKey"`
	InteractionID string `gorm:"type:varchar(36);uniqueIndex;not null"`
	UserID        string `gorm:"type:varchar(64);index:idx_user_skill_time;not null"`
	SkillID       string `gorm:"type:varchar(64);index:idx_user_skill_time;not null"`
	Correct       bool
	Confidence    string `gorm:"type:varchar(10);default:medium"`

	// TimeSpentSeconds and HintsUsed are client-reported; hints scale
	// down the evidence a correct answer carries.
	TimeSpentSeconds int
	HintsUsed        int

	Timestamp time.Time `gorm:"index:idx_user_skill_time;not null"`
	CreatedAt time.Time
}

// TableName sets the table for Interaction.
func (Interaction) TableName() string {
	return "interactions"
}

// SkillMastery is the derived per-(user, skill) state: the mastery
// estimate plus the review scheduler fields. One row per pair, enforced
// by the unique composite index. Version backs optimistic locking; every
// successful Upsert increments it.
type SkillMastery struct {
	ID      uint   `gorm:"primaryKey"`
	UserID  string `gorm:"type:varchar(64);uniqueIndex:idx_user_skill;not null"`
	SkillID string `gorm:"type:varchar(64);uniqueIndex:idx_user_skill;not null"`

	Mastery         float64 `gorm:"default:0.5"`
	Confidence      float64
	Interactions    int
	StreakCorrect   int
	StreakIncorrect int

	Ease          float64 `gorm:"default:2.5"`
	IntervalDays  int
	Stage         string `gorm:"type:varchar(10);default:new"`
	DueDate       time.Time
	LastPracticed *time.Time

	Status  string `gorm:"type:varchar(12);default:unknown"`
	Version int    `gorm:"not null;default:1"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName sets the table for SkillMastery.
func (SkillMastery) TableName() string {
	return "skill_mastery"
}

// InsightsSnapshot is a persisted insight payload, kept so reads can
// degrade to the last known state when recomputation fails.
type InsightsSnapshot struct {
	ID         uint      `gorm:"primaryKey"`
	UserID     string    `gorm:"type:varchar(64);index;not null"`
	Data       string    `gorm:"type:text;not null"`
	ComputedAt time.Time `gorm:"index"`
	CreatedAt  time.Time
}

// TableName sets the table for InsightsSnapshot.
func (InsightsSnapshot) TableName() string {
	return "insights_snapshots"
}
