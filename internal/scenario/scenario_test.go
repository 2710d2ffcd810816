package scenario

import "testing"

func sampleSpace() Space {
	return Space{
		Alphas: []float64{0.3, 0.5, 0.7},
		Dimensions: []Dimension{
			{
				Key:    "cost_constraint",
				Values: []float64{250, 270},
				Perturbations: []Perturbation{
					{Value: 0, Score: 0},
					{Value: -10, Score: 1},
					{Value: -30, Score: 2},
				},
			},
			{
				Key:    "effort_constraint",
				Values: []float64{6},
				Perturbations: []Perturbation{
					{Value: 0, Score: 0},
					{Value: -1, Score: 1},
				},
			},
		},
	}
}

func TestSpaceCount(t *testing.T) {
	// 3 alphas × (2 values × 3 perturbations) × (1 value × 2 perturbations)
	if got := sampleSpace().Count(); got != 36 {
		t.Errorf("expected 36 scenarios, got %d", got)
	}
}

func TestEnumerate(t *testing.T) {
	scenarios := Enumerate(sampleSpace())

	if len(scenarios) != 36 {
		t.Fatalf("expected 36 scenarios, got %d", len(scenarios))
	}

	// Sequential ids starting at 1.
	for i, sc := range scenarios {
		if sc.ID != i+1 {
			t.Fatalf("scenario %d has id %d", i, sc.ID)
		}
	}

	first := scenarios[0]
	if first.Alpha != 0.3 {
		t.Errorf("first scenario alpha: got %f, want 0.3", first.Alpha)
	}
	if first.Constraints["cost_constraint"] != 250 || first.Constraints["effort_constraint"] != 6 {
		t.Errorf("unexpected first constraints: %v", first.Constraints)
	}
	if first.Perturbations["cost_constraint"] != 0 || first.Severity != 0 {
		t.Errorf("first scenario should be unperturbed, got %v severity %d", first.Perturbations, first.Severity)
	}

	last := scenarios[len(scenarios)-1]
	if last.Alpha != 0.7 {
		t.Errorf("last scenario alpha: got %f, want 0.7", last.Alpha)
	}
	if last.Perturbations["cost_constraint"] != -30 || last.Perturbations["effort_constraint"] != -1 {
		t.Errorf("unexpected last perturbations: %v", last.Perturbations)
	}
	if last.Severity != 3 {
		t.Errorf("last scenario severity: got %d, want 3", last.Severity)
	}
}

func TestEnumerateSeverityIsSumOfScores(t *testing.T) {
	for _, sc := range Enumerate(sampleSpace()) {
		if sc.Severity < 0 || sc.Severity > 3 {
			t.Errorf("scenario %d: severity %d out of range", sc.ID, sc.Severity)
		}
	}
}

func TestEnumerateEmptyDimension(t *testing.T) {
	space := Space{
		Alphas:     []float64{0.5},
		Dimensions: []Dimension{{Key: "x"}},
	}
	if scenarios := Enumerate(space); len(scenarios) != 0 {
		t.Errorf("a dimension with no values yields no scenarios, got %d", len(scenarios))
	}
}
