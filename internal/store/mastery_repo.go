package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// MasteryRepo manages the per-(user, skill) mastery table — the only
// contended resource in the system. Writes go through Upsert, which uses
// optimistic locking so concurrent updates for the same pair are serialized
// without any cross-skill lock.
type MasteryRepo interface {
	// Get returns the mastery row for a pair, or ErrNotFound.
	Get(ctx context.Context, userID, skillID string) (*SkillMastery, error)

	// AllForUser returns every mastery row for a user.
	AllForUser(ctx context.Context, userID string) ([]SkillMastery, error)

	// DueForUser returns rows with due_date <= today, earliest due first
	// (most overdue first), then lowest mastery, capped at limit.
	DueForUser(ctx context.Context, userID string, today time.Time, limit int) ([]SkillMastery, error)

	// Upsert creates the row if rec.ID is zero, otherwise applies a
	// compare-and-swap update on rec.Version. Returns ErrWriteConflict
	// when the row changed underneath; callers re-read and retry.
	Upsert(ctx context.Context, rec *SkillMastery) error
}

type masteryRepo struct {
	db *gorm.DB
}

func (r *masteryRepo) Get(ctx context.Context, userID, skillID string) (*SkillMastery, error) {
	var rec SkillMastery
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query mastery: %w", err)
	}
	return &rec, nil
}

func (r *masteryRepo) AllForUser(ctx context.Context, userID string) ([]SkillMastery, error) {
	var out []SkillMastery
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query user mastery: %w", err)
	}
	return out, nil
}

func (r *masteryRepo) DueForUser(ctx context.Context, userID string, today time.Time, limit int) ([]SkillMastery, error) {
	var out []SkillMastery
	q := r.db.WithContext(ctx).
		Where("user_id = ? AND due_date <= ?", userID, today).
		Order("due_date ASC").
		Order("mastery ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("query due reviews: %w", err)
	}
	return out, nil
}

func (r *masteryRepo) Upsert(ctx context.Context, rec *SkillMastery) error {
	if rec.ID == 0 {
		rec.Version = 1
		err := r.db.WithContext(ctx).Create(rec).Error
		if err == nil {
			return nil
		}
		// A concurrent writer may have created the row first; the unique
		// (user_id, skill_id) index rejects the second insert. Surface as
		// a conflict so the caller re-reads and retries.
		var existing SkillMastery
		lookupErr := r.db.WithContext(ctx).
			Where("user_id = ? AND skill_id = ?", rec.UserID, rec.SkillID).
			First(&existing).Error
		if lookupErr == nil {
			return ErrWriteConflict
		}
		return fmt.Errorf("create mastery: %w", err)
	}

	prev := rec.Version
	rec.Version = prev + 1
	res := r.db.WithContext(ctx).Model(&SkillMastery{}).
		Where("id = ? AND version = ?", rec.ID, prev).
		Updates(map[string]any{
			"mastery":          rec.Mastery,
			"confidence":       rec.Confidence,
			"interactions":     rec.Interactions,
			"streak_correct":   rec.StreakCorrect,
			"streak_incorrect": rec.StreakIncorrect,
			"ease":             rec.Ease,
			"interval_days":    rec.IntervalDays,
			"stage":            rec.Stage,
			"due_date":         rec.DueDate,
			"last_practiced":   rec.LastPracticed,
			"status":           rec.Status,
			"version":          rec.Version,
		})
	if res.Error != nil {
		rec.Version = prev
		return fmt.Errorf("update mastery: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		rec.Version = prev
		return ErrWriteConflict
	}
	return nil
}
