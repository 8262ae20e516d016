package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// SnapshotRepo manages persisted insight snapshots, enabling fast fallback
// without recomputing the full aggregation.
type SnapshotRepo interface {
	// Save stores a new snapshot for a user.
	Save(ctx context.Context, userID string, data string, computedAt time.Time) error

	// Latest returns the most recent snapshot for a user, or ErrNotFound.
	Latest(ctx context.Context, userID string) (*InsightsSnapshot, error)

	// Prune deletes all but the keep most recent snapshots for a user.
	Prune(ctx context.Context, userID string, keep int) error

	// Users returns the distinct user ids that have snapshots.
	Users(ctx context.Context) ([]string, error)
}

type snapshotRepo struct {
	db *gorm.DB
}

func (r *snapshotRepo) Save(ctx context.Context, userID string, data string, computedAt time.Time) error {
	snap := InsightsSnapshot{
		UserID:     userID,
		Data:       data,
		ComputedAt: computedAt,
	}
	if err := r.db.WithContext(ctx).Create(&snap).Error; err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Latest(ctx context.Context, userID string) (*InsightsSnapshot, error) {
	var snap InsightsSnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("computed_at DESC").
		First(&snap).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query latest snapshot: %w", err)
	}
	return &snap, nil
}

func (r *snapshotRepo) Prune(ctx context.Context, userID string, keep int) error {
	// Find the Nth most recent snapshot and delete everything at or past
	// it. The id tiebreak keeps rows sharing a computed_at from being
	// swept with the boundary.
	var boundary []InsightsSnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("computed_at DESC").
		Order("id DESC").
		Offset(keep).
		Limit(1).
		Find(&boundary).Error
	if err != nil {
		return fmt.Errorf("query snapshots for prune: %w", err)
	}
	if len(boundary) == 0 {
		return nil // fewer than keep snapshots exist
	}

	b := boundary[0]
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND (computed_at < ? OR (computed_at = ? AND id <= ?))",
			userID, b.ComputedAt, b.ComputedAt, b.ID).
		Delete(&InsightsSnapshot{}).Error
	if err != nil {
		return fmt.Errorf("prune snapshots: %w", err)
	}
	return nil
}

func (r *snapshotRepo) Users(ctx context.Context) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).Model(&InsightsSnapshot{}).
		Distinct("user_id").
		Pluck("user_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("query snapshot users: %w", err)
	}
	return ids, nil
}
