// Package mastery maintains the per-(user, skill) mastery estimate from
// the stream of graded practice events.
package mastery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/revisely/dkt/internal/catalog"
	"github.com/revisely/dkt/internal/spacedrep"
	"github.com/revisely/dkt/internal/store"
	"github.com/revisely/dkt/internal/util"
)

// ErrUnknownSkill wraps catalog.ErrUnknownSkill for callers of Record.
// The interaction is still logged for auditability; only the mastery
// update is skipped.
var ErrUnknownSkill = catalog.ErrUnknownSkill

const (
	// maxUpsertAttempts bounds the optimistic-locking retry loop.
	maxUpsertAttempts = 5

	retryBaseDelay = 5 * time.Millisecond
)

// Estimator consumes interactions and produces updated mastery records.
type Estimator struct {
	interactions store.InteractionRepo
	mastery      store.MasteryRepo

	// invalidate is called with the user id after a successful update so
	// cached insights are recomputed on the next read.
	invalidate func(userID string)
}

// NewEstimator creates an estimator over the given repos. invalidate may
// be nil when no insight cache is wired (tests, CLI).
func NewEstimator(interactions store.InteractionRepo, masteryRepo store.MasteryRepo, invalidate func(string)) *Estimator {
	return &Estimator{
		interactions: interactions,
		mastery:      masteryRepo,
		invalidate:   invalidate,
	}
}

// Record appends the interaction and folds it into the (user, skill)
// mastery row, returning the post-update row.
//
// The append is the durability boundary: it happens before any catalog or
// mastery handling. A duplicate interaction id normally makes the whole
// call an idempotent no-op that returns the current row — but when the
// first attempt died between the append and the mastery write (crash,
// retries exhausted), the retry replays the update, so the fold-in is
// at-least-once. Concurrent updates for the same pair are serialized by
// a compare-and-swap retry loop on the versioned row; no lock spans
// skills or users.
func (e *Estimator) Record(ctx context.Context, in *store.Interaction) (*store.SkillMastery, error) {
	if in.InteractionID == "" {
		in.InteractionID = uuid.New().String()
	}
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}

	err := e.interactions.Append(ctx, in)
	duplicate := errors.Is(err, store.ErrDuplicateInteraction)
	if err != nil && !duplicate {
		return nil, fmt.Errorf("append interaction: %w", err)
	}

	if !catalog.Exists(in.SkillID) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSkill, in.SkillID)
	}

	if duplicate {
		// Already logged, but the first attempt may have died between the
		// append and the mastery write. Replay the update when the row is
		// missing or holds fewer interactions than the log.
		rec, getErr := e.mastery.Get(ctx, in.UserID, in.SkillID)
		if getErr != nil {
			if errors.Is(getErr, store.ErrNotFound) {
				return e.update(ctx, in)
			}
			return nil, getErr
		}
		logged, countErr := e.interactions.CountForUserSkill(ctx, in.UserID, in.SkillID)
		if countErr != nil {
			return nil, countErr
		}
		if int(logged) > rec.Interactions {
			return e.update(ctx, in)
		}
		return rec, nil
	}

	return e.update(ctx, in)
}

func (e *Estimator) update(ctx context.Context, in *store.Interaction) (*store.SkillMastery, error) {
	now := in.Timestamp

	for attempt := 1; attempt <= maxUpsertAttempts; attempt++ {
		rec, err := e.mastery.Get(ctx, in.UserID, in.SkillID)
		if errors.Is(err, store.ErrNotFound) {
			rec = newRecord(in.UserID, in.SkillID, now)
		} else if err != nil {
			return nil, err
		}

		applyInteraction(rec, in, now)
		spacedrep.Apply(rec, in.Correct, now)

		err = e.mastery.Upsert(ctx, rec)
		if err == nil {
			if e.invalidate != nil {
				e.invalidate(in.UserID)
			}
			return rec, nil
		}
		if !errors.Is(err, store.ErrWriteConflict) {
			return nil, err
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(util.Backoff(retryBaseDelay, attempt)):
		}
	}

	return nil, fmt.Errorf("update mastery for %s/%s: %w", in.UserID, in.SkillID, store.ErrWriteConflict)
}

// newRecord is the lazily-created row for a pair's first interaction.
// New skills are immediately eligible for review.
func newRecord(userID, skillID string, now time.Time) *store.SkillMastery {
	return &store.SkillMastery{
		UserID:  userID,
		SkillID: skillID,
		Mastery: NeutralPrior,
		Ease:    spacedrep.DefaultEase,
		Stage:   spacedrep.StageNew,
		DueDate: now,
		Status:  StatusUnknown,
	}
}
