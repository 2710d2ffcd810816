package q2s

import (
	"math"
	"testing"
)

func TestEvaluatePerturbationSurvivingPlan(t *testing.T) {
	// Negative cost perturbation tightens the budget but Plan0 stays valid;
	// the margin must be computed against the perturbed constraints.
	perturbed := []QualityGoal{
		{ID: "QG0", DomainVariable: "TotalCost", Relation: RelationMax, Constraint: 260, Materialized: true},
		{ID: "QG1", DomainVariable: "TotalEffort", Relation: RelationMax, Constraint: 6, Materialized: true},
		{ID: "QG2", DomainVariable: "TimeSpent", Relation: RelationMax, Constraint: 9, Materialized: true},
	}

	success, margin, diags := EvaluatePerturbation("Plan0", referenceImpacts(), perturbed)

	if !success {
		t.Fatal("expected plan to survive perturbation")
	}
	if len(diags) != 0 {
		t.Errorf("unexpected diagnostics: %v", diags)
	}

	want := ((260.0-200.0)/260.0 + (6.0-4.0)/6.0 + (9.0-7.0)/9.0) / 3.0
	want = math.Round(want*10000) / 10000
	if math.Abs(margin-want) > 1e-9 {
		t.Errorf("margin: got %f, want %f", margin, want)
	}
}

func TestEvaluatePerturbationInvalidPlan(t *testing.T) {
	perturbed := []QualityGoal{
		{ID: "QG0", DomainVariable: "TotalCost", Relation: RelationMax, Constraint: 150, Materialized: true},
	}

	success, margin, _ := EvaluatePerturbation("Plan0", referenceImpacts(), perturbed)
	if success {
		t.Error("expected failure under tightened constraint")
	}
	if margin != 0 {
		t.Errorf("expected zero margin for invalid plan, got %f", margin)
	}
}

func TestEvaluatePerturbationNoPlanSelected(t *testing.T) {
	success, margin, _ := EvaluatePerturbation("", referenceImpacts(), sampleGoals())
	if success || margin != 0 {
		t.Errorf("expected (false, 0) for no selection, got (%v, %f)", success, margin)
	}
}

func TestEvaluatePerturbationUnknownPlan(t *testing.T) {
	success, margin, diags := EvaluatePerturbation("PlanX", referenceImpacts(), sampleGoals())
	if success || margin != 0 {
		t.Errorf("expected (false, 0), got (%v, %f)", success, margin)
	}
	if len(diags) != 1 {
		t.Errorf("expected 1 warning, got %d", len(diags))
	}
}

func TestEvaluatePerturbationZeroConstraintGuard(t *testing.T) {
	// A perturbation can drive a constraint to zero; such goals are excluded
	// from the margin mean instead of dividing by zero.
	perturbed := []QualityGoal{
		{ID: "QG0", DomainVariable: "TotalCost", Relation: RelationMax, Constraint: 260, Materialized: true},
		{ID: "QG1", DomainVariable: "TotalEffort", Relation: RelationMax, Constraint: 0, Materialized: true},
	}
	impacts := map[string]Impact{"Plan0": {"TotalCost": 200, "TotalEffort": 0}}

	success, margin, _ := EvaluatePerturbation("Plan0", impacts, perturbed)

	if !success {
		t.Fatal("impact 0 satisfies constraint 0")
	}
	want := math.Round((260.0-200.0)/260.0*10000) / 10000
	if math.Abs(margin-want) > 1e-9 {
		t.Errorf("margin: got %f, want %f", margin, want)
	}
}
