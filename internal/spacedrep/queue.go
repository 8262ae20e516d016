package spacedrep

import (
	"context"
	"sort"
	"time"

	"github.com/revisely/dkt/internal/store"
)

// Queue serves the daily review queue. Pure read path: it never mutates
// scheduler state and never blocks on the write path.
type Queue struct {
	mastery  store.MasteryRepo
	pageSize int
}

// NewQueue creates a review queue over the mastery repo.
func NewQueue(mastery store.MasteryRepo, pageSize int) *Queue {
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Queue{mastery: mastery, pageSize: pageSize}
}

// Due returns the user's due skills, most overdue first, then lowest
// mastery, capped at the configured page size.
func (q *Queue) Due(ctx context.Context, userID string, today time.Time) ([]store.SkillMastery, error) {
	rows, err := q.mastery.DueForUser(ctx, userID, today, q.pageSize)
	if err != nil {
		return nil, err
	}

	// The repo orders by due_date; re-sort on fractional overdue days so
	// ties break on mastery ascending.
	sort.SliceStable(rows, func(i, j int) bool {
		oi := OverdueDays(&rows[i], today)
		oj := OverdueDays(&rows[j], today)
		if oi != oj {
			return oi > oj
		}
		if rows[i].Mastery != rows[j].Mastery {
			return rows[i].Mastery < rows[j].Mastery
		}
		return rows[i].SkillID < rows[j].SkillID
	})
	return rows, nil
}
