package q2s

// EvaluatePerturbation re-checks a selected plan against the perturbed
// quality goals and computes its normalized margin.
//
// The result is (false, 0) when no plan was selected or the plan violates a
// perturbed goal. For a plan that survives, the margin is the mean of
// (constraint − actual) / constraint over all perturbed goals with a
// positive constraint and a known domain variable, rounded to 4 decimal
// places for display stability.
func EvaluatePerturbation(planID string, impacts map[string]Impact, perturbedGoals []QualityGoal) (bool, float64, Diagnostics) {
	var diags Diagnostics
	if planID == "" {
		return false, 0, diags
	}

	impact, ok := impacts[planID]
	if !ok {
		diags.Warnf("no impact data for plan %q", planID)
		return false, 0, diags
	}

	valid, checkDiags := CheckValidity(impact, perturbedGoals)
	diags.Merge(checkDiags)
	if !valid {
		return false, 0, diags
	}

	var sum float64
	var n int
	for _, goal := range perturbedGoals {
		if !goal.Materialized || goal.Constraint <= 0 {
			continue
		}
		actual, ok := impact[goal.DomainVariable]
		if !ok {
			continue
		}
		sum += (goal.Constraint - actual) / goal.Constraint
		n++
	}

	if n == 0 {
		return true, 0, diags
	}
	return true, round4(sum / float64(n)), diags
}
