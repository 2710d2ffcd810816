package q2s

// CheckValidity reports whether a plan's impact satisfies every materialized
// quality goal. A goal whose domain variable is missing from the impact, or
// whose relation is unsupported, is treated as trivially satisfied and
// reported as a warning. Unmaterialized goals are skipped silently — the
// warning was already raised at materialization time.
func CheckValidity(impact Impact, goals []QualityGoal) (bool, Diagnostics) {
	var diags Diagnostics

	for _, goal := range goals {
		if !goal.Materialized {
			continue
		}

		actual, ok := impact[goal.DomainVariable]
		if !ok {
			diags.Warnf("domain variable %q from quality goal %q not found in plan impact", goal.DomainVariable, goal.ID)
			continue
		}

		switch goal.Relation {
		case RelationMax:
			if actual > goal.Constraint {
				return false, diags
			}
		default:
			diags.Warnf("unsupported relation %q in quality goal %q", goal.Relation, goal.ID)
		}
	}

	return true, diags
}

// FilterValid returns the ids of the plans whose impacts satisfy all quality
// goals, preserving the input plan order. An empty result is a legitimate
// terminal outcome for a scenario, not an error.
func FilterValid(plans []Plan, impacts map[string]Impact, goals []QualityGoal) ([]string, Diagnostics) {
	var diags Diagnostics
	var valid []string

	for _, plan := range plans {
		impact, ok := impacts[plan.ID]
		if !ok {
			diags.Warnf("no impact data for plan %q", plan.ID)
			continue
		}

		ok, checkDiags := CheckValidity(impact, goals)
		diags.Merge(checkDiags)
		if ok {
			valid = append(valid, plan.ID)
		}
	}

	return valid, diags
}
