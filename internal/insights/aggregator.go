// Package insights computes the actionable aggregate view of a learner's
// mastery state: health score, strengths, focus areas, weekly trend,
// study plan, and failed areas.
package insights

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/revisely/dkt/internal/catalog"
	"github.com/revisely/dkt/internal/mastery"
	"github.com/revisely/dkt/internal/store"
)

const (
	// topN caps the strengths and focus area lists.
	topN = 5

	// trendDays is the weekly trend window.
	trendDays = 7

	// failThreshold is the incorrect streak or windowed incorrect count
	// that lands a skill in failed areas.
	failThreshold = 3

	// decayRiskDays is how long since last practice before a known skill
	// becomes a decay-risk study plan item.
	decayRiskDays = 14
)

// Aggregator computes insight snapshots. Pure read path over the mastery
// table and recent interaction log; it never writes domain state.
type Aggregator struct {
	masteryRepo  store.MasteryRepo
	interactions store.InteractionRepo
}

// NewAggregator creates an aggregator over the given repos.
func NewAggregator(masteryRepo store.MasteryRepo, interactions store.InteractionRepo) *Aggregator {
	return &Aggregator{masteryRepo: masteryRepo, interactions: interactions}
}

// Compute builds the full insight snapshot for a user at now. Idempotent:
// the result is a pure function of the mastery rows and the trailing week
// of interactions.
func (a *Aggregator) Compute(ctx context.Context, userID string, now time.Time) (*AIInsights, error) {
	rows, err := a.masteryRepo.AllForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load mastery rows: %w", err)
	}

	weekStart := startOfDay(now).AddDate(0, 0, -(trendDays - 1))
	recent, err := a.interactions.RecentForUser(ctx, userID, weekStart)
	if err != nil {
		return nil, fmt.Errorf("load recent interactions: %w", err)
	}

	// Only skills with at least one interaction count toward aggregates.
	tracked := rows[:0:0]
	for _, r := range rows {
		if r.Interactions > 0 {
			tracked = append(tracked, r)
		}
	}

	var masteredCount, learningCount, strugglingCount int
	for _, r := range tracked {
		switch mastery.Status(r.Mastery, r.Interactions) {
		case mastery.StatusMastered:
			masteredCount++
		case mastery.StatusProficient, mastery.StatusLearning:
			learningCount++
		case mastery.StatusStruggling:
			strugglingCount++
		}
	}

	trend := computeWeeklyTrend(recent, now)

	out := &AIInsights{
		TotalSkills:     len(tracked),
		MasteredCount:   masteredCount,
		LearningCount:   learningCount,
		StrugglingCount: strugglingCount,
		Strengths:       computeStrengths(tracked),
		FocusAreas:      computeFocusAreas(tracked),
		WeeklyTrend:     trend,
		StudyPlan:       buildStudyPlan(tracked, now),
		FailedAreas:     computeFailedAreas(tracked, recent),
		LastUpdated:     now,
	}
	out.HealthScore = healthScore(len(tracked), masteredCount, strugglingCount, trend)
	out.NetDecksMessage = netDecksMessage(tracked, now)
	out.PersonalizedMessage = personalizedMessage(out)
	return out, nil
}

// healthScore blends mastered ratio, struggling ratio, and recent accuracy
// into a 0-100 composite.
func healthScore(tracked, mastered, struggling int, trend WeeklyTrend) int {
	if tracked == 0 {
		return 0
	}
	masteredRatio := float64(mastered) / float64(tracked)
	strugglingRatio := float64(struggling) / float64(tracked)
	score := 100 * (0.5*masteredRatio + 0.3*(1-strugglingRatio) + 0.2*trend.Accuracy)
	rounded := int(math.Round(score))
	if rounded < 0 {
		return 0
	}
	if rounded > 100 {
		return 100
	}
	return rounded
}

// computeStrengths returns the top skills by mastery, mastered and
// proficient only.
func computeStrengths(rows []store.SkillMastery) []SkillBrief {
	var strong []store.SkillMastery
	for _, r := range rows {
		s := mastery.Status(r.Mastery, r.Interactions)
		if s == mastery.StatusMastered || s == mastery.StatusProficient {
			strong = append(strong, r)
		}
	}
	sort.Slice(strong, func(i, j int) bool {
		if strong[i].Mastery != strong[j].Mastery {
			return strong[i].Mastery > strong[j].Mastery
		}
		return strong[i].SkillID < strong[j].SkillID
	})
	if len(strong) > topN {
		strong = strong[:topN]
	}
	out := make([]SkillBrief, 0, len(strong))
	for _, r := range strong {
		out = append(out, briefFor(r))
	}
	return out
}

// computeFocusAreas returns the weakest practiced skills, annotated with
// a recommendation.
func computeFocusAreas(rows []store.SkillMastery) []FocusArea {
	weak := make([]store.SkillMastery, len(rows))
	copy(weak, rows)
	sort.Slice(weak, func(i, j int) bool {
		if weak[i].Mastery != weak[j].Mastery {
			return weak[i].Mastery < weak[j].Mastery
		}
		return weak[i].SkillID < weak[j].SkillID
	})
	if len(weak) > topN {
		weak = weak[:topN]
	}
	out := make([]FocusArea, 0, len(weak))
	for _, r := range weak {
		b := briefFor(r)
		out = append(out, FocusArea{
			SkillBrief:     b,
			Recommendation: recommendationFor(b),
		})
	}
	return out
}

func recommendationFor(b SkillBrief) string {
	switch b.Status {
	case mastery.StatusStruggling:
		return fmt.Sprintf("Rebuild %s from the basics with short, frequent practice sets.", b.SkillName)
	case mastery.StatusLearning:
		return fmt.Sprintf("Keep practicing %s — you're making progress but it needs repetition.", b.SkillName)
	default:
		return fmt.Sprintf("A quick refresher on %s will keep it sharp.", b.SkillName)
	}
}

// computeWeeklyTrend buckets interactions into the last 7 calendar days,
// zero-filled and chronological.
func computeWeeklyTrend(recent []store.Interaction, now time.Time) WeeklyTrend {
	days := make([]DailyCount, trendDays)
	index := make(map[string]int, trendDays)
	start := startOfDay(now).AddDate(0, 0, -(trendDays - 1))
	for i := 0; i < trendDays; i++ {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		days[i] = DailyCount{Date: date}
		index[date] = i
	}

	trend := WeeklyTrend{DailyBreakdown: days}
	for _, in := range recent {
		date := in.Timestamp.UTC().Format("2006-01-02")
		i, ok := index[date]
		if !ok {
			continue
		}
		days[i].Count++
		trend.TotalQuestions++
		if in.Correct {
			trend.CorrectAnswers++
		}
	}
	for _, d := range days {
		if d.Count > 0 {
			trend.ActiveDays++
		}
	}
	if trend.TotalQuestions > 0 {
		trend.Accuracy = float64(trend.CorrectAnswers) / float64(trend.TotalQuestions)
	}
	return trend
}

// computeFailedAreas flags skills whose incorrect streak or trailing-week
// incorrect count reaches the threshold.
func computeFailedAreas(rows []store.SkillMastery, recent []store.Interaction) []FailedArea {
	weekIncorrect := make(map[string]int)
	for _, in := range recent {
		if !in.Correct {
			weekIncorrect[in.SkillID]++
		}
	}

	var out []FailedArea
	for _, r := range rows {
		count := weekIncorrect[r.SkillID]
		if r.StreakIncorrect > count {
			count = r.StreakIncorrect
		}
		if count < failThreshold {
			continue
		}
		b := briefFor(r)
		out = append(out, FailedArea{
			SkillID:   b.SkillID,
			SkillName: b.SkillName,
			Subject:   b.Subject,
			Topic:     b.Topic,
			FailCount: count,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FailCount != out[j].FailCount {
			return out[i].FailCount > out[j].FailCount
		}
		return out[i].SkillID < out[j].SkillID
	})
	return out
}

// netDecksMessage summarizes the review queue state for the client's
// deck widget.
func netDecksMessage(rows []store.SkillMastery, now time.Time) string {
	due := 0
	for _, r := range rows {
		if !now.Before(r.DueDate) {
			due++
		}
	}
	switch due {
	case 0:
		return "No decks due for review today — you're all caught up."
	case 1:
		return "You have 1 deck due for review today."
	default:
		return fmt.Sprintf("You have %d decks due for review today.", due)
	}
}

// briefFor resolves catalog metadata for a mastery row. Unknown catalog
// entries fall back to the raw id so a removed skill can't break reads.
func briefFor(r store.SkillMastery) SkillBrief {
	b := SkillBrief{
		SkillID: r.SkillID,
		Mastery: r.Mastery,
		Status:  mastery.Status(r.Mastery, r.Interactions),
	}
	if sk, err := catalog.Get(r.SkillID); err == nil {
		b.SkillName = sk.Name
		b.Subject = string(sk.Subject)
		b.Topic = sk.Topic
	} else {
		b.SkillName = r.SkillID
	}
	return b
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
