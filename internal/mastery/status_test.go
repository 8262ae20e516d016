package mastery

import "testing"

func TestStatus_NoInteractions(t *testing.T) {
	// The stored estimate is irrelevant until the skill has been practiced.
	if got := Status(0.95, 0); got != StatusUnknown {
		t.Errorf("Status(0.95, 0) = %q, want %q", got, StatusUnknown)
	}
}

func TestStatus_Thresholds(t *testing.T) {
	tests := []struct {
		mastery float64
		want    string
	}{
		{0.00, StatusStruggling},
		{0.39, StatusStruggling},
		{0.40, StatusLearning},
		{0.59, StatusLearning},
		{0.60, StatusProficient},
		{0.79, StatusProficient},
		{0.80, StatusMastered},
		{1.00, StatusMastered},
	}
	for _, tt := range tests {
		if got := Status(tt.mastery, 1); got != tt.want {
			t.Errorf("Status(%.2f, 1) = %q, want %q", tt.mastery, got, tt.want)
		}
	}
}
