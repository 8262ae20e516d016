package insights

import "testing"

func TestPersonalizedMessage_BandSelection(t *testing.T) {
	tests := []struct {
		health int
		band   string
	}{
		{95, bandExcellent},
		{80, bandExcellent},
		{79, bandGood},
		{60, bandGood},
		{59, bandBuilding},
		{40, bandBuilding},
		{39, bandRebuild},
		{0, bandRebuild},
	}
	for _, tt := range tests {
		ins := &AIInsights{
			HealthScore: tt.health,
			WeeklyTrend: WeeklyTrend{ActiveDays: 3},
		}
		got := personalizedMessage(ins)
		if got != messageTable[tt.band][signalSteady] {
			t.Errorf("health %d: got %q, want %s/steady message", tt.health, got, tt.band)
		}
	}
}

func TestPersonalizedMessage_StrugglingSignalWins(t *testing.T) {
	ins := &AIInsights{
		HealthScore:     70,
		MasteredCount:   2,
		StrugglingCount: 3,
		WeeklyTrend:     WeeklyTrend{TotalQuestions: 20, Accuracy: 0.9, ActiveDays: 5},
	}
	if got := personalizedMessage(ins); got != messageTable[bandGood][signalStruggling] {
		t.Errorf("got %q, want struggling signal to take precedence", got)
	}
}

func TestPersonalizedMessage_StreakSignal(t *testing.T) {
	ins := &AIInsights{
		HealthScore:   85,
		MasteredCount: 5,
		WeeklyTrend:   WeeklyTrend{TotalQuestions: 12, Accuracy: 0.92, ActiveDays: 4},
	}
	if got := personalizedMessage(ins); got != messageTable[bandExcellent][signalStreak] {
		t.Errorf("got %q, want excellent/streak message", got)
	}
}

func TestPersonalizedMessage_InactiveSignal(t *testing.T) {
	ins := &AIInsights{
		HealthScore:   65,
		MasteredCount: 3,
		WeeklyTrend:   WeeklyTrend{TotalQuestions: 2, Accuracy: 1.0, ActiveDays: 1},
	}
	if got := personalizedMessage(ins); got != messageTable[bandGood][signalInactive] {
		t.Errorf("got %q, want good/inactive message", got)
	}
}

func TestPersonalizedMessage_Deterministic(t *testing.T) {
	ins := &AIInsights{HealthScore: 50, StrugglingCount: 1}
	first := personalizedMessage(ins)
	for i := 0; i < 10; i++ {
		if got := personalizedMessage(ins); got != first {
			t.Fatalf("message changed between calls: %q vs %q", got, first)
		}
	}
}

func TestMessageTable_Complete(t *testing.T) {
	bands := []string{bandExcellent, bandGood, bandBuilding, bandRebuild}
	signals := []string{signalStruggling, signalStreak, signalInactive, signalSteady}
	for _, b := range bands {
		for _, s := range signals {
			if messageTable[b][s] == "" {
				t.Errorf("missing message for (%s, %s)", b, s)
			}
		}
	}
}
