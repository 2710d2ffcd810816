package q2s

// MaterializeGoals binds quality-goal definitions to concrete constraint
// values for one scenario. constraints maps a constraint key to its base
// value; perturbations maps a constraint key to the delta applied when
// perturbed is true (absent keys default to zero delta).
//
// A definition whose constraint key has no value in the scenario is a data
// inconsistency, not a program error: it is kept in the output with
// Materialized=false and reported as a warning.
func MaterializeGoals(defs []GoalDef, constraints map[string]float64, perturbations map[string]float64, perturbed bool) ([]QualityGoal, Diagnostics) {
	var diags Diagnostics
	goals := make([]QualityGoal, 0, len(defs))

	for _, def := range defs {
		base, ok := constraints[def.ConstraintKey]
		if !ok {
			diags.Warnf("no scenario value for constraint key %q in quality goal %q", def.ConstraintKey, def.ID)
			goals = append(goals, QualityGoal{
				ID:             def.ID,
				DomainVariable: def.DomainVariable,
				Relation:       def.Relation,
			})
			continue
		}

		constraint := base
		if perturbed {
			constraint += perturbations[def.ConstraintKey]
		}

		goals = append(goals, QualityGoal{
			ID:             def.ID,
			DomainVariable: def.DomainVariable,
			Relation:       def.Relation,
			Constraint:     constraint,
			Materialized:   true,
		})
	}

	return goals, diags
}
