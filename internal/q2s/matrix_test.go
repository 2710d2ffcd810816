package q2s

import (
	"math"
	"reflect"
	"testing"
)

func referenceImpacts() map[string]Impact {
	return map[string]Impact{
		"Plan0": {"TotalCost": 200, "TotalEffort": 4, "TimeSpent": 7},
		"Plan1": {"TotalCost": 220, "TotalEffort": 3, "TimeSpent": 8},
	}
}

func TestBuildMatrixReferenceScenario(t *testing.T) {
	m, diags := BuildMatrix([]string{"Plan0", "Plan1"}, referenceImpacts(), sampleGoals())

	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	want := map[string]map[string]float64{
		"Plan0": {"QG0": 0.259, "QG1": 0.333, "QG2": 0.222},
		"Plan1": {"QG0": 0.185, "QG1": 0.500, "QG2": 0.111},
	}
	for planID, row := range want {
		for goalID, expected := range row {
			got, ok := m.Rows[planID][goalID]
			if !ok {
				t.Fatalf("%s/%s missing from matrix", planID, goalID)
			}
			if math.Abs(got-expected) > 1e-9 {
				t.Errorf("%s/%s: got %f, want %f", planID, goalID, got, expected)
			}
		}
	}

	if !reflect.DeepEqual(m.Plans, []string{"Plan0", "Plan1"}) {
		t.Errorf("unexpected plan list: %v", m.Plans)
	}
	if !reflect.DeepEqual(m.Goals, []string{"QG0", "QG1", "QG2"}) {
		t.Errorf("unexpected goal list: %v", m.Goals)
	}
}

func TestBuildMatrixDistanceBounds(t *testing.T) {
	// For max goals the distance is at most 1, and exactly 1 iff actual = 0.
	impacts := map[string]Impact{
		"zero":  {"TotalCost": 0},
		"tight": {"TotalCost": 270},
		"over":  {"TotalCost": 540},
	}
	goals := []QualityGoal{
		{ID: "QG0", DomainVariable: "TotalCost", Relation: RelationMax, Constraint: 270, Materialized: true},
	}

	m, _ := BuildMatrix([]string{"zero", "tight", "over"}, impacts, goals)

	if d := m.Rows["zero"]["QG0"]; d != 1 {
		t.Errorf("zero impact: expected distance exactly 1, got %f", d)
	}
	if d := m.Rows["tight"]["QG0"]; d != 0 {
		t.Errorf("impact on constraint: expected 0, got %f", d)
	}
	if d := m.Rows["over"]["QG0"]; d >= 0 {
		t.Errorf("over-budget impact: expected negative distance, got %f", d)
	}
}

func TestBuildMatrixSkipsUncomputableGoals(t *testing.T) {
	impacts := map[string]Impact{"Plan0": {"TotalCost": 100}}
	goals := []QualityGoal{
		{ID: "QG0", DomainVariable: "TotalCost", Relation: RelationMax, Constraint: 270, Materialized: true},
		{ID: "QG1", DomainVariable: "Missing", Relation: RelationMax, Constraint: 5, Materialized: true},
		{ID: "QG2", DomainVariable: "TotalCost", Relation: "min", Constraint: 5, Materialized: true},
		{ID: "QG3", DomainVariable: "TotalCost", Relation: RelationMax, Constraint: 0, Materialized: true},
		{ID: "QG4", DomainVariable: "TotalCost", Relation: RelationMax},
	}

	m, diags := BuildMatrix([]string{"Plan0"}, impacts, goals)

	if len(m.Rows["Plan0"]) != 1 {
		t.Errorf("expected 1 computable distance, got %d", len(m.Rows["Plan0"]))
	}
	// missing domain var, unsupported relation, zero constraint
	if len(diags) != 3 {
		t.Errorf("expected 3 warnings, got %d: %v", len(diags), diags)
	}
}

func TestBuildMatrixEmptyRowKept(t *testing.T) {
	impacts := map[string]Impact{"Plan0": {"Other": 1}}
	goals := []QualityGoal{
		{ID: "QG0", DomainVariable: "TotalCost", Relation: RelationMax, Constraint: 270, Materialized: true},
	}

	m, _ := BuildMatrix([]string{"Plan0"}, impacts, goals)

	row, ok := m.Rows["Plan0"]
	if !ok {
		t.Fatal("plan with no computable distance must keep an empty row")
	}
	if len(row) != 0 {
		t.Errorf("expected empty row, got %v", row)
	}
}

func TestBuildMatrixIdempotent(t *testing.T) {
	valid := []string{"Plan0", "Plan1"}

	a, _ := BuildMatrix(valid, referenceImpacts(), sampleGoals())
	b, _ := BuildMatrix(valid, referenceImpacts(), sampleGoals())

	if !reflect.DeepEqual(a, b) {
		t.Error("matrix builder must be a pure function of its inputs")
	}
}
