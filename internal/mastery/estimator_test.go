package mastery

import (
	"errors"
	"testing"
	"time"

	"github.com/revisely/dkt/internal/spacedrep"
	"github.com/revisely/dkt/internal/store"
)

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testEstimator(t *testing.T) (*Estimator, *store.Store) {
	t.Helper()
	s := openTestStore(t)
	return NewEstimator(s.Interactions(), s.Mastery(), nil), s
}

func TestEstimator_FirstInteraction(t *testing.T) {
	est, _ := testEstimator(t)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)

	rec, err := est.Record(t.Context(), &store.Interaction{
		InteractionID: "int-1",
		UserID:        "u1",
		SkillID:       "math-quadratic-equations",
		Correct:       true,
		Confidence:    store.ConfidenceHigh,
		Timestamp:     now,
	})
	if err != nil {
		t.Fatalf("record: %v", err)
	}

	if !almostEqual(rec.Mastery, 0.68) {
		t.Errorf("mastery = %f, want 0.68", rec.Mastery)
	}
	if rec.Status != StatusProficient {
		t.Errorf("status = %q, want %q", rec.Status, StatusProficient)
	}
	if rec.Stage != spacedrep.StageReview {
		t.Errorf("stage = %q, want %q", rec.Stage, spacedrep.StageReview)
	}
	if rec.IntervalDays != 1 {
		t.Errorf("interval = %d, want 1", rec.IntervalDays)
	}
	if rec.Version != 1 {
		t.Errorf("version = %d, want 1", rec.Version)
	}
}

func TestEstimator_DuplicateInteractionIsNoOp(t *testing.T) {
	est, _ := testEstimator(t)
	in := func() *store.Interaction {
		return &store.Interaction{
			InteractionID: "retry-1",
			UserID:        "u1",
			SkillID:       "phys-kinematics",
			Correct:       true,
			Confidence:    store.ConfidenceMedium,
		}
	}

	first, err := est.Record(t.Context(), in())
	if err != nil {
		t.Fatalf("first record: %v", err)
	}
	second, err := est.Record(t.Context(), in())
	if err != nil {
		t.Fatalf("duplicate record: %v", err)
	}

	if second.Interactions != first.Interactions {
		t.Errorf("duplicate changed interaction count: %d vs %d", second.Interactions, first.Interactions)
	}
	if !almostEqual(second.Mastery, first.Mastery) {
		t.Errorf("duplicate changed mastery: %f vs %f", second.Mastery, first.Mastery)
	}
}

func TestEstimator_ReplaysUpdateLostAfterAppend(t *testing.T) {
	est, s := testEstimator(t)
	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	event := func() *store.Interaction {
		return &store.Interaction{
			InteractionID: "lost-1",
			UserID:        "u1",
			SkillID:       "math-quadratic-equations",
			Correct:       true,
			Confidence:    store.ConfidenceHigh,
			Timestamp:     now,
		}
	}

	// First attempt appended the event but died before the mastery write:
	// no row exists, only the log entry.
	if err := s.Interactions().Append(t.Context(), event()); err != nil {
		t.Fatalf("append: %v", err)
	}

	rec, err := est.Record(t.Context(), event())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if !almostEqual(rec.Mastery, 0.68) {
		t.Errorf("mastery = %f, want 0.68 folded in on retry", rec.Mastery)
	}
	if rec.Interactions != 1 {
		t.Errorf("interactions = %d, want 1", rec.Interactions)
	}

	got, err := s.Mastery().Get(t.Context(), "u1", "math-quadratic-equations")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Interactions != 1 || got.Version != 1 {
		t.Errorf("persisted row = (%d interactions, v%d), want (1, v1)", got.Interactions, got.Version)
	}
}

func TestEstimator_ReplaysWhenRowUndercounts(t *testing.T) {
	est, s := testEstimator(t)

	// A clean first interaction creates the row.
	if _, err := est.Record(t.Context(), &store.Interaction{
		InteractionID: "ok-1",
		UserID:        "u1",
		SkillID:       "phys-kinematics",
		Correct:       true,
		Confidence:    store.ConfidenceMedium,
	}); err != nil {
		t.Fatalf("first record: %v", err)
	}

	// A second event lands in the log but its mastery write is lost.
	lost := func() *store.Interaction {
		return &store.Interaction{
			InteractionID: "lost-2",
			UserID:        "u1",
			SkillID:       "phys-kinematics",
			Correct:       true,
			Confidence:    store.ConfidenceMedium,
		}
	}
	if err := s.Interactions().Append(t.Context(), lost()); err != nil {
		t.Fatalf("append: %v", err)
	}

	rec, err := est.Record(t.Context(), lost())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if rec.Interactions != 2 {
		t.Errorf("interactions = %d, want 2 after replay", rec.Interactions)
	}
	if rec.Version != 2 {
		t.Errorf("version = %d, want 2", rec.Version)
	}
}

func TestEstimator_AssignsInteractionID(t *testing.T) {
	est, s := testEstimator(t)
	in := &store.Interaction{
		UserID:     "u1",
		SkillID:    "bio-enzymes",
		Correct:    false,
		Confidence: store.ConfidenceLow,
	}
	if _, err := est.Record(t.Context(), in); err != nil {
		t.Fatalf("record: %v", err)
	}
	if in.InteractionID == "" {
		t.Error("expected generated interaction id")
	}

	n, err := s.Interactions().CountForUserSkill(t.Context(), "u1", "bio-enzymes")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("interaction count = %d, want 1", n)
	}
}

func TestEstimator_UnknownSkillStillLogged(t *testing.T) {
	est, s := testEstimator(t)
	_, err := est.Record(t.Context(), &store.Interaction{
		InteractionID: "int-unknown",
		UserID:        "u1",
		SkillID:       "no-such-skill",
		Correct:       true,
		Confidence:    store.ConfidenceMedium,
	})
	if !errors.Is(err, ErrUnknownSkill) {
		t.Fatalf("err = %v, want ErrUnknownSkill", err)
	}

	// The event is kept for audit even though mastery was untouched.
	n, err := s.Interactions().CountForUserSkill(t.Context(), "u1", "no-such-skill")
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("interaction count = %d, want 1", n)
	}
	if _, err := s.Mastery().Get(t.Context(), "u1", "no-such-skill"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("mastery row created for unknown skill: %v", err)
	}
}

func TestEstimator_VersionAdvancesPerUpdate(t *testing.T) {
	est, _ := testEstimator(t)
	for i := 1; i <= 3; i++ {
		rec, err := est.Record(t.Context(), &store.Interaction{
			UserID:     "u1",
			SkillID:    "chem-bonding",
			Correct:    true,
			Confidence: store.ConfidenceMedium,
		})
		if err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
		if rec.Version != i {
			t.Errorf("after update %d: version = %d, want %d", i, rec.Version, i)
		}
		if rec.Interactions != i {
			t.Errorf("after update %d: interactions = %d, want %d", i, rec.Interactions, i)
		}
	}
}

func TestEstimator_InvalidateCalledOnUpdate(t *testing.T) {
	s := openTestStore(t)
	var invalidated []string
	est := NewEstimator(s.Interactions(), s.Mastery(), func(userID string) {
		invalidated = append(invalidated, userID)
	})

	if _, err := est.Record(t.Context(), &store.Interaction{
		UserID:     "u9",
		SkillID:    "math-vectors",
		Correct:    true,
		Confidence: store.ConfidenceMedium,
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	if len(invalidated) != 1 || invalidated[0] != "u9" {
		t.Errorf("invalidate calls = %v, want [u9]", invalidated)
	}
}
