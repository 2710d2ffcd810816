package q2s

import (
	"math"
	"testing"
)

func sampleContributions() Contributions {
	return Contributions{
		"TotalCost":   {"G1": 10, "G5": 100, "G7": 30, "G8": 80, "G11": 0, "G13": 10},
		"TotalEffort": {"G1": 0, "G5": 0, "G7": 1, "G8": 0, "G11": 2, "G13": 2},
		"TimeSpent":   {"G1": 1, "G5": 1, "G7": 1, "G8": 1, "G11": 2, "G13": 2},
	}
}

func TestCalculateImpact(t *testing.T) {
	plan := Plan{
		ID:    "Plan0",
		Goals: map[string]bool{"G1": true, "G5": true, "G7": false, "G8": true, "G11": true, "G13": true},
	}

	impact := CalculateImpact(plan, sampleContributions())

	want := Impact{"TotalCost": 200, "TotalEffort": 4, "TimeSpent": 7}
	for domainVar, expected := range want {
		if got := impact[domainVar]; math.Abs(got-expected) > 1e-9 {
			t.Errorf("%s: got %f, want %f", domainVar, got, expected)
		}
	}
}

func TestCalculateImpactEmptyPlan(t *testing.T) {
	plan := Plan{ID: "empty", Goals: map[string]bool{}}
	impact := CalculateImpact(plan, sampleContributions())

	if len(impact) != 3 {
		t.Fatalf("expected 3 domain variables, got %d", len(impact))
	}
	for domainVar, v := range impact {
		if v != 0 {
			t.Errorf("%s: expected 0 impact for empty plan, got %f", domainVar, v)
		}
	}
}

func TestCalculateImpactUnknownGoalsIgnored(t *testing.T) {
	// Goals activated in the plan but absent from the table contribute nothing.
	plan := Plan{ID: "p", Goals: map[string]bool{"G1": true, "G99": true}}
	impact := CalculateImpact(plan, sampleContributions())

	if got := impact["TotalCost"]; got != 10 {
		t.Errorf("expected 10, got %f", got)
	}
}

func TestCalculateImpacts(t *testing.T) {
	plans := []Plan{
		{ID: "Plan0", Goals: map[string]bool{"G1": true, "G5": true, "G8": true, "G11": true, "G13": true}},
		{ID: "Plan1", Goals: map[string]bool{"G7": true}},
	}

	impacts := CalculateImpacts(plans, sampleContributions())

	if len(impacts) != 2 {
		t.Fatalf("expected 2 impacts, got %d", len(impacts))
	}
	if impacts["Plan0"]["TotalCost"] != 200 {
		t.Errorf("Plan0 TotalCost: got %f, want 200", impacts["Plan0"]["TotalCost"])
	}
	if impacts["Plan1"]["TotalEffort"] != 1 {
		t.Errorf("Plan1 TotalEffort: got %f, want 1", impacts["Plan1"]["TotalEffort"])
	}
}
