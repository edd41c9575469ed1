package models

import "testing"

func TestTierFor(t *testing.T) {
	cases := []struct {
		name  string
		score float64
		want  Tier
	}{
		{"exact high boundary", 0.90, TierHigh},
		{"just below high", 0.899999, TierMedium},
		{"exact medium boundary", 0.70, TierMedium},
		{"just below medium", 0.699999, TierLow},
		{"perfect score", 1.0, TierHigh},
		{"zero", 0.0, TierLow},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			if got := TierFor(tt.score); got != tt.want {
				t.Errorf("TierFor(%v) = %s, want %s", tt.score, got, tt.want)
			}
		})
	}
}

func TestReviewRowReplacementID(t *testing.T) {
	t.Run("replace decision", func(t *testing.T) {
		row := ReviewRow{Decision: "replace:abc123"}
		if got := row.ReplacementID(); got != "abc123" {
			t.Errorf("expected abc123, got %q", got)
		}
	})

	t.Run("other decisions", func(t *testing.T) {
		for _, decision := range []string{DecisionAccept, DecisionReject, ""} {
			row := ReviewRow{Decision: decision}
			if got := row.ReplacementID(); got != "" {
				t.Errorf("expected empty for %q, got %q", decision, got)
			}
		}
	})
}

func TestSearchOutcomeBest(t *testing.T) {
	empty := SearchOutcome{}
	if empty.Best() != nil {
		t.Error("expected nil for empty outcome")
	}

	outcome := SearchOutcome{Matches: []ScoredMatch{
		{Confidence: 0.95, Tier: TierHigh},
		{Confidence: 0.60, Tier: TierLow},
	}}
	if best := outcome.Best(); best == nil || best.Confidence != 0.95 {
		t.Errorf("expected the first match, got %+v", best)
	}
}

func TestCommitResultCommittedCount(t *testing.T) {
	result := CommitResult{Committed: []ChunkRange{
		{Start: 0, End: 100},
		{Start: 100, End: 200},
		{Start: 200, End: 250},
	}}
	if got := result.CommittedCount(); got != 250 {
		t.Errorf("expected 250, got %d", got)
	}

	if (CommitResult{}).CommittedCount() != 0 {
		t.Error("expected 0 for empty result")
	}
}
