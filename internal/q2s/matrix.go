package q2s

import "math"

// Matrix holds the satisfaction distance of every valid plan against every
// quality goal: (constraint − actual) / constraint for max-relation goals.
// A distance of 1 means the plan consumes none of the budget; 0 means it sits
// exactly on the constraint; negative means it exceeds it.
type Matrix struct {
	Plans []string                      `json:"plans"`
	Goals []string                      `json:"quality_goals"`
	Rows  map[string]map[string]float64 `json:"matrix"`
}

// BuildMatrix computes the Q2S matrix for the given valid plans. Goals that
// are unmaterialized, have an unsupported relation, a missing domain
// variable, or a zero constraint (the distance would divide by zero) are
// skipped for the affected plan with a warning. A plan for which no distance
// is computable keeps an empty row.
//
// Distances are rounded to 3 decimal places, matching the display precision
// the rest of the pipeline assumes in strict-equality comparisons.
func BuildMatrix(validPlans []string, impacts map[string]Impact, goals []QualityGoal) (Matrix, Diagnostics) {
	var diags Diagnostics

	m := Matrix{
		Plans: append([]string(nil), validPlans...),
		Goals: make([]string, 0, len(goals)),
		Rows:  make(map[string]map[string]float64, len(validPlans)),
	}
	for _, goal := range goals {
		m.Goals = append(m.Goals, goal.ID)
	}

	for _, planID := range validPlans {
		impact := impacts[planID]
		row := make(map[string]float64, len(goals))
		m.Rows[planID] = row

		for _, goal := range goals {
			if !goal.Materialized {
				continue
			}
			if goal.Relation != RelationMax {
				diags.Warnf("unsupported relation %q in quality goal %q", goal.Relation, goal.ID)
				continue
			}
			actual, ok := impact[goal.DomainVariable]
			if !ok {
				diags.Warnf("domain variable %q not found in impact for plan %q", goal.DomainVariable, planID)
				continue
			}
			if goal.Constraint == 0 {
				diags.Warnf("zero constraint in quality goal %q, skipping distance for plan %q", goal.ID, planID)
				continue
			}
			row[goal.ID] = round3((goal.Constraint - actual) / goal.Constraint)
		}
	}

	return m, diags
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }

func round4(v float64) float64 { return math.Round(v*10000) / 10000 }
