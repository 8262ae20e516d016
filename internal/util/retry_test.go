package util

import (
	"testing"
	"time"
)

func TestBackoff_ZeroAttempt(t *testing.T) {
	if d := Backoff(time.Millisecond, 0); d != 0 {
		t.Errorf("attempt 0: got %v, want 0", d)
	}
	if d := Backoff(time.Millisecond, -1); d != 0 {
		t.Errorf("negative attempt: got %v, want 0", d)
	}
}

func TestBackoff_GrowsWithAttempts(t *testing.T) {
	base := 5 * time.Millisecond
	for attempt := 1; attempt <= 5; attempt++ {
		d := Backoff(base, attempt)
		if d <= 0 {
			t.Errorf("attempt %d: non-positive backoff %v", attempt, d)
		}
		// Jitter stays within 25% of the exponential target.
		target := base * time.Duration(1<<uint(attempt))
		if target > 5*time.Second {
			target = 5 * time.Second
		}
		if d < target*3/4 || d > target*5/4 {
			t.Errorf("attempt %d: backoff %v outside jitter window of %v", attempt, d, target)
		}
	}
}

func TestBackoff_Capped(t *testing.T) {
	for attempt := 10; attempt <= 40; attempt += 10 {
		d := Backoff(time.Second, attempt)
		if d > 5*time.Second*5/4 {
			t.Errorf("attempt %d: backoff %v exceeds cap window", attempt, d)
		}
	}
}
