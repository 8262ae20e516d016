package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// InteractionRepo provides append and read access to the interaction log.
// The log is the sole source of truth: all derived state is reconstructible
// by replaying it.
type InteractionRepo interface {
	// Append stores a new interaction. Returns ErrDuplicateInteraction if
	// the interaction id has already been ingested.
	Append(ctx context.Context, in *Interaction) error

	// ForUserSkill returns all interactions for a (user, skill) pair,
	// ordered by timestamp ascending.
	ForUserSkill(ctx context.Context, userID, skillID string) ([]Interaction, error)

	// RecentForUser returns all of a user's interactions at or after since,
	// ordered by timestamp ascending.
	RecentForUser(ctx context.Context, userID string, since time.Time) ([]Interaction, error)

	// CountForUserSkill returns the number of interactions for a pair.
	CountForUserSkill(ctx context.Context, userID, skillID string) (int64, error)
}

type interactionRepo struct {
	db *gorm.DB
}

func (r *interactionRepo) Append(ctx context.Context, in *Interaction) error {
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now().UTC()
	}
	err := r.db.WithContext(ctx).Create(in).Error
	if err == nil {
		return nil
	}

	// The unique index on interaction_id is the idempotency guard. Driver
	// error types differ between sqlite and mysql, so confirm by lookup.
	var existing Interaction
	lookupErr := r.db.WithContext(ctx).
		Where("interaction_id = ?", in.InteractionID).
		First(&existing).Error
	if lookupErr == nil {
		return ErrDuplicateInteraction
	}
	return fmt.Errorf("append interaction: %w", err)
}

func (r *interactionRepo) ForUserSkill(ctx context.Context, userID, skillID string) ([]Interaction, error) {
	var out []Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Order("timestamp ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	return out, nil
}

func (r *interactionRepo) RecentForUser(ctx context.Context, userID string, since time.Time) ([]Interaction, error) {
	var out []Interaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND timestamp >= ?", userID, since).
		Order("timestamp ASC").
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("query recent interactions: %w", err)
	}
	return out, nil
}

func (r *interactionRepo) CountForUserSkill(ctx context.Context, userID, skillID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Interaction{}).
		Where("user_id = ? AND skill_id = ?", userID, skillID).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("count interactions: %w", err)
	}
	return n, nil
}
