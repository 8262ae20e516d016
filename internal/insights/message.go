package insights

// Health score bands for message selection.
const (
	bandExcellent = "excellent" // >= 80
	bandGood      = "good"      // >= 60
	bandBuilding  = "building"  // >= 40
	bandRebuild   = "rebuild"   // < 40
)

// Dominant signals, checked in order.
const (
	signalStruggling = "struggling" // struggling skills dominate
	signalStreak     = "streak"     // strong recent accuracy with volume
	signalInactive   = "inactive"   // little activity this week
	signalSteady     = "steady"     // nothing stands out
)

// messageTable maps (band, signal) to a fixed message. Templated rules,
// not free text: the same inputs always produce the same output.
var messageTable = map[string]map[string]string{
	bandExcellent: {
		signalStreak:     "You're on a roll — accuracy this week is excellent. Keep the streak alive!",
		signalStruggling: "Strong overall, but a couple of skills are slipping. A focused session will tidy them up.",
		signalInactive:   "Your mastery is in great shape — a short session this week will keep it that way.",
		signalSteady:     "Excellent shape across the board. Stay consistent and it will hold.",
	},
	bandGood: {
		signalStreak:     "Solid week! Your recent accuracy is pulling your skills upward.",
		signalStruggling: "Good progress overall — now target your weakest skills to push higher.",
		signalInactive:   "You're in a good position, but momentum fades fast. Fit in a session soon.",
		signalSteady:     "Steady progress. Keep showing up and the mastered count will climb.",
	},
	bandBuilding: {
		signalStreak:     "Your recent answers are strong — keep practicing and the scores will follow.",
		signalStruggling: "A few skills need rebuilding. Short daily sets beat long cram sessions.",
		signalInactive:   "Let's rebuild momentum — even ten minutes a day moves the needle.",
		signalSteady:     "You're building a foundation. Focus on your weakest areas first.",
	},
	bandRebuild: {
		signalStreak:     "Recent answers look promising — stay with it and your scores will recover.",
		signalStruggling: "Let's rebuild momentum. Start with your focus areas, one skill at a time.",
		signalInactive:   "A fresh start: pick one skill from your focus areas and begin there today.",
		signalSteady:     "Every expert started here. Work your study plan and check back in a week.",
	},
}

// personalizedMessage picks the message for a computed snapshot. The same
// inputs always produce the same string.
func personalizedMessage(ins *AIInsights) string {
	band := bandRebuild
	switch {
	case ins.HealthScore >= 80:
		band = bandExcellent
	case ins.HealthScore >= 60:
		band = bandGood
	case ins.HealthScore >= 40:
		band = bandBuilding
	}

	signal := signalSteady
	switch {
	case ins.StrugglingCount > 0 && ins.StrugglingCount >= ins.MasteredCount:
		signal = signalStruggling
	case ins.WeeklyTrend.TotalQuestions >= 10 && ins.WeeklyTrend.Accuracy >= 0.8:
		signal = signalStreak
	case ins.WeeklyTrend.ActiveDays <= 1:
		signal = signalInactive
	}

	return messageTable[band][signal]
}
