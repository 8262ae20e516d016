package insights

import (
	"fmt"
	"sort"
	"time"

	"github.com/revisely/dkt/internal/mastery"
	"github.com/revisely/dkt/internal/spacedrep"
	"github.com/revisely/dkt/internal/store"
)

// Study plan actions, in fixed precedence order.
const (
	ActionReview   = "review"   // overdue spaced-repetition reviews
	ActionPractice = "practice" // struggling skills with recent activity
	ActionRefresh  = "refresh"  // decay risk: long-unpracticed known skills
)

// estimatedTimes is the fixed lookup of coarse time buckets per action.
var estimatedTimes = map[string]string{
	ActionReview:   "10-15 min",
	ActionPractice: "15-20 min",
	ActionRefresh:  "5-10 min",
}

// maxPerAction caps how many items each precedence tier contributes.
const maxPerAction = 3

// buildStudyPlan generates an ordered plan by fixed precedence:
// overdue reviews first, then struggling skills with recent activity,
// then decay-risk skills. A skill appears at most once.
func buildStudyPlan(rows []store.SkillMastery, now time.Time) []StudyPlanItem {
	var plan []StudyPlanItem
	used := make(map[string]bool)

	// 1. Overdue reviews, most overdue first.
	overdue := filterRows(rows, func(r store.SkillMastery) bool {
		return spacedrep.OverdueDays(&r, now) > 0
	})
	sort.Slice(overdue, func(i, j int) bool {
		oi := spacedrep.OverdueDays(&overdue[i], now)
		oj := spacedrep.OverdueDays(&overdue[j], now)
		if oi != oj {
			return oi > oj
		}
		return overdue[i].SkillID < overdue[j].SkillID
	})
	for _, r := range capRows(overdue) {
		b := briefFor(r)
		used[r.SkillID] = true
		plan = append(plan, StudyPlanItem{
			Priority:      1,
			Action:        ActionReview,
			SkillID:       b.SkillID,
			SkillName:     b.SkillName,
			Description:   fmt.Sprintf("%s is overdue for review — a short session now protects what you've built.", b.SkillName),
			EstimatedTime: estimatedTimes[ActionReview],
		})
	}

	// 2. Struggling skills with recent activity, weakest first.
	struggling := filterRows(rows, func(r store.SkillMastery) bool {
		if used[r.SkillID] {
			return false
		}
		if mastery.Status(r.Mastery, r.Interactions) != mastery.StatusStruggling {
			return false
		}
		return r.LastPracticed != nil && now.Sub(*r.LastPracticed) <= trendDays*24*time.Hour
	})
	sort.Slice(struggling, func(i, j int) bool {
		if struggling[i].Mastery != struggling[j].Mastery {
			return struggling[i].Mastery < struggling[j].Mastery
		}
		return struggling[i].SkillID < struggling[j].SkillID
	})
	for _, r := range capRows(struggling) {
		b := briefFor(r)
		used[r.SkillID] = true
		plan = append(plan, StudyPlanItem{
			Priority:      2,
			Action:        ActionPractice,
			SkillID:       b.SkillID,
			SkillName:     b.SkillName,
			Description:   fmt.Sprintf("You've been working on %s but it isn't sticking yet — try a focused practice set.", b.SkillName),
			EstimatedTime: estimatedTimes[ActionPractice],
		})
	}

	// 3. Decay risk: known skills untouched for a while, oldest first.
	stale := filterRows(rows, func(r store.SkillMastery) bool {
		if used[r.SkillID] {
			return false
		}
		if r.Mastery < mastery.ProficientThreshold || r.Interactions == 0 {
			return false
		}
		return r.LastPracticed != nil && now.Sub(*r.LastPracticed) > decayRiskDays*24*time.Hour
	})
	sort.Slice(stale, func(i, j int) bool {
		if !stale[i].LastPracticed.Equal(*stale[j].LastPracticed) {
			return stale[i].LastPracticed.Before(*stale[j].LastPracticed)
		}
		return stale[i].SkillID < stale[j].SkillID
	})
	for _, r := range capRows(stale) {
		b := briefFor(r)
		used[r.SkillID] = true
		plan = append(plan, StudyPlanItem{
			Priority:      3,
			Action:        ActionRefresh,
			SkillID:       b.SkillID,
			SkillName:     b.SkillName,
			Description:   fmt.Sprintf("It's been a while since you practiced %s — a quick refresh keeps it from fading.", b.SkillName),
			EstimatedTime: estimatedTimes[ActionRefresh],
		})
	}

	return plan
}

func filterRows(rows []store.SkillMastery, keep func(store.SkillMastery) bool) []store.SkillMastery {
	var out []store.SkillMastery
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

func capRows(rows []store.SkillMastery) []store.SkillMastery {
	if len(rows) > maxPerAction {
		return rows[:maxPerAction]
	}
	return rows
}
