package q2s

// CalculateImpact aggregates a plan's goal activations into per-dimension
// impacts: for every domain variable in the contribution table, the sum of
// contributions of the goals active in the plan. Goals absent from the plan
// contribute zero.
func CalculateImpact(plan Plan, contributions Contributions) Impact {
	impact := make(Impact, len(contributions))
	for domainVar, contribs := range contributions {
		var total float64
		for goalID, value := range contribs {
			if plan.Active(goalID) {
				total += value
			}
		}
		impact[domainVar] = total
	}
	return impact
}

// CalculateImpacts computes the impact of every plan. Impacts depend only on
// the plan and the contribution table, never on the scenario, so callers
// compute them once per experiment and reuse them across scenarios.
func CalculateImpacts(plans []Plan, contributions Contributions) map[string]Impact {
	impacts := make(map[string]Impact, len(plans))
	for _, plan := range plans {
		impacts[plan.ID] = CalculateImpact(plan, contributions)
	}
	return impacts
}
