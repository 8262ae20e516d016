package mastery

import (
	"math"
	"time"

	"github.com/revisely/dkt/internal/store"
)

const (
	// NeutralPrior is the mastery value decay pulls toward and the
	// starting estimate for a skill's first interaction.
	NeutralPrior = 0.5

	// BaseLearningRate controls how far one interaction moves the estimate.
	BaseLearningRate = 0.3

	// DecayGraceDays is how long mastery holds before forgetting sets in.
	DecayGraceDays = 3.0

	// DecayRate is the per-day exponential pull toward the prior once the
	// grace window has passed.
	DecayRate = 0.05

	// confidenceSaturation sets how many observations it takes for the
	// confidence estimate to reach 0.5; it saturates toward 1 from there.
	confidenceSaturation = 5.0

	// hintPenalty scales the learning rate for hinted correct answers.
	hintPenalty = 0.5
)

// confidenceWeight scales the learning rate by the learner's reported
// confidence: a high-confidence answer is stronger evidence either way.
func confidenceWeight(confidence string) float64 {
	switch confidence {
	case store.ConfidenceLow:
		return 0.8
	case store.ConfidenceHigh:
		return 1.2
	default:
		return 1.0
	}
}

// DecayedMastery pulls mastery toward the neutral prior for elapsed days
// beyond the grace window. Captures forgetting even without new practice.
func DecayedMastery(mastery float64, lastPracticed *time.Time, now time.Time) float64 {
	if lastPracticed == nil {
		return mastery
	}
	days := now.Sub(*lastPracticed).Hours() / 24.0
	if days <= DecayGraceDays {
		return mastery
	}
	factor := math.Exp(-DecayRate * (days - DecayGraceDays))
	return NeutralPrior + (mastery-NeutralPrior)*factor
}

// applyInteraction folds one interaction into the mastery record: decay,
// the recency-weighted update, streaks, observation confidence, and status.
// Scheduler state is handled separately by spacedrep.Apply.
func applyInteraction(rec *store.SkillMastery, in *store.Interaction, now time.Time) {
	m := DecayedMastery(rec.Mastery, rec.LastPracticed, now)

	lr := BaseLearningRate * confidenceWeight(in.Confidence)
	outcome := 0.0
	if in.Correct {
		outcome = 1.0
		if in.HintsUsed > 0 {
			// A hinted correct answer counts less than an unaided one.
			lr *= hintPenalty
		}
	}

	m += lr * (outcome - m)
	rec.Mastery = clamp01(m)

	if in.Correct {
		rec.StreakCorrect++
		rec.StreakIncorrect = 0
	} else {
		rec.StreakIncorrect++
		rec.StreakCorrect = 0
	}

	rec.Interactions++
	rec.Confidence = observationConfidence(rec.Interactions)
	rec.Status = Status(rec.Mastery, rec.Interactions)
	t := now
	rec.LastPracticed = &t
}

// observationConfidence saturates toward 1 as observations accumulate.
func observationConfidence(n int) float64 {
	return float64(n) / (float64(n) + confidenceSaturation)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
