package insights

import "time"

// AIInsights is the aggregate snapshot served to the client. Field names
// are the wire contract and must not change.
type AIInsights struct {
	HealthScore         int             `json:"health_score"`
	TotalSkills         int             `json:"total_skills"`
	MasteredCount       int             `json:"mastered_count"`
	LearningCount       int             `json:"learning_count"`
	StrugglingCount     int             `json:"struggling_count"`
	Strengths           []SkillBrief    `json:"strengths"`
	FocusAreas          []FocusArea     `json:"focus_areas"`
	WeeklyTrend         WeeklyTrend     `json:"weekly_trend"`
	StudyPlan           []StudyPlanItem `json:"study_plan"`
	PersonalizedMessage string          `json:"personalized_message"`
	FailedAreas         []FailedArea    `json:"failed_areas"`
	NetDecksMessage     string          `json:"net_decks_message"`
	LastUpdated         time.Time       `json:"last_updated"`
	Stale               bool            `json:"stale,omitempty"`
}

// SkillBrief is a compact skill reference used in strengths lists.
type SkillBrief struct {
	SkillID   string  `json:"skill_id"`
	SkillName string  `json:"skill_name"`
	Subject   string  `json:"subject"`
	Topic     string  `json:"topic"`
	Mastery   float64 `json:"mastery"`
	Status    string  `json:"status"`
}

// FocusArea is a weak skill annotated with a recommendation.
type FocusArea struct {
	SkillBrief
	Recommendation string `json:"recommendation"`
}

// WeeklyTrend buckets the last 7 calendar days of practice.
type WeeklyTrend struct {
	TotalQuestions int          `json:"total_questions"`
	CorrectAnswers int          `json:"correct_answers"`
	Accuracy       float64      `json:"accuracy"`
	ActiveDays     int          `json:"active_days"`
	DailyBreakdown []DailyCount `json:"daily_breakdown"`
}

// DailyCount is one day's interaction count. Days with no activity are
// zero-filled so the breakdown always has 7 chronological entries.
type DailyCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// StudyPlanItem is one recommended action, ordered by priority.
type StudyPlanItem struct {
	Priority      int    `json:"priority"`
	Action        string `json:"action"`
	SkillID       string `json:"skill_id"`
	SkillName     string `json:"skill_name"`
	Description   string `json:"description"`
	EstimatedTime string `json:"estimated_time"`
}

// FailedArea is a skill the learner keeps missing.
type FailedArea struct {
	SkillID   string `json:"skill_id"`
	SkillName string `json:"skill_name"`
	Subject   string `json:"subject"`
	Topic     string `json:"topic"`
	FailCount int    `json:"fail_count"`
}
