// Package spacedrep implements the SM-2-family review scheduler, adapted
// to operate on the mastery estimate rather than a raw review grade.
package spacedrep

import (
	"time"

	"github.com/revisely/dkt/internal/store"
)

// Review lifecycle stages. A skill is never terminal: knowledge can always
// decay, so everything stays schedulable.
const (
	StageNew      = "new"
	StageLearning = "learning"
	StageReview   = "review"
	StageRelapsed = "relapsed"
)

const (
	// DefaultEase is the starting ease factor for a new skill.
	DefaultEase = 2.5

	// MinEase is the ease factor floor.
	MinEase = 1.3

	// MaxEase caps ease growth from long correct streaks.
	MaxEase = 3.0

	// MinIntervalDays is the reset interval after an incorrect answer.
	MinIntervalDays = 1

	// MaxIntervalDays caps interval growth.
	MaxIntervalDays = 365

	// ReviewMasteryThreshold is the mastery level at which a skill moves
	// from short learning steps to ease-driven review intervals.
	ReviewMasteryThreshold = 0.6

	// easeBonusStreak is the correct streak needed for an ease increase.
	easeBonusStreak = 3

	// lowMasteryPracticeFloor is the interaction count after which low
	// mastery starts shrinking the ease factor.
	lowMasteryPracticeFloor = 4
)

// learningSteps are the short fixed intervals used before a skill reaches
// the review threshold.
var learningSteps = []int{1, 2, 3}

// Apply updates the scheduler state on rec after an answer. It must run on
// a record whose mastery and streaks have already been updated for this
// interaction, so interval and ease decisions see the post-answer state.
func Apply(rec *store.SkillMastery, correct bool, now time.Time) {
	if rec.Ease == 0 {
		rec.Ease = DefaultEase
	}

	if !correct {
		// A single miss always shortens the next interval, regardless of
		// historical mastery.
		rec.IntervalDays = MinIntervalDays
		rec.Ease = clampEase(rec.Ease - 0.2)
		if rec.Stage == StageReview {
			rec.Stage = StageRelapsed
		} else if rec.Stage == StageNew {
			rec.Stage = StageLearning
		}
		rec.DueDate = now.AddDate(0, 0, rec.IntervalDays)
		return
	}

	// Ease moves on every correct answer: up for sustained streaks, down
	// when mastery stays low despite real practice.
	if rec.StreakCorrect >= easeBonusStreak {
		rec.Ease = clampEase(rec.Ease + 0.05)
	}
	if rec.Mastery < 0.5 && rec.Interactions >= lowMasteryPracticeFloor {
		rec.Ease = clampEase(rec.Ease - 0.15)
	}

	if rec.Mastery >= ReviewMasteryThreshold {
		rec.Stage = StageReview
		next := int(float64(rec.IntervalDays)*rec.Ease + 0.5)
		if next < MinIntervalDays {
			next = MinIntervalDays
		}
		if next > MaxIntervalDays {
			next = MaxIntervalDays
		}
		rec.IntervalDays = next
	} else {
		if rec.Stage == StageNew || rec.Stage == StageReview {
			rec.Stage = StageLearning
		}
		rec.IntervalDays = nextLearningStep(rec.IntervalDays)
	}

	rec.DueDate = now.AddDate(0, 0, rec.IntervalDays)
}

// nextLearningStep advances through the fixed short steps.
func nextLearningStep(current int) int {
	for _, s := range learningSteps {
		if current < s {
			return s
		}
	}
	return learningSteps[len(learningSteps)-1]
}

func clampEase(e float64) float64 {
	if e < MinEase {
		return MinEase
	}
	if e > MaxEase {
		return MaxEase
	}
	return e
}

// OverdueDays returns how many days past due the record is at now.
// Returns 0 if not yet due.
func OverdueDays(rec *store.SkillMastery, now time.Time) float64 {
	if now.Before(rec.DueDate) {
		return 0
	}
	return now.Sub(rec.DueDate).Hours() / 24.0
}

// IsDue reports whether the record is due for review at now.
func IsDue(rec *store.SkillMastery, now time.Time) bool {
	return !now.Before(rec.DueDate)
}
