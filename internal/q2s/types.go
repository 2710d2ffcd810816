package q2s

// Relation types for quality goals. Only RelationMax ("actual must stay at
// or below the constraint") is supported; anything else is skipped with a
// warning wherever it shows up.
const RelationMax = "max"

// Plan is an immutable set of activated goals identified by id.
type Plan struct {
	ID    string          `json:"id"`
	Goals map[string]bool `json:"goals"`
}

// Active reports whether the goal is activated in the plan.
func (p Plan) Active(goalID string) bool {
	return p.Goals[goalID]
}

// Contributions maps a domain variable (quality dimension) to the numeric
// contribution of each goal, e.g. Contributions["TotalCost"]["G5"] = 100.
type Contributions map[string]map[string]float64

// Impact is the aggregated effect of one plan on each domain variable.
type Impact map[string]float64

// GoalDef is an unmaterialized quality-goal definition. The constraint value
// is not part of the definition: it lives in the scenario under ConstraintKey
// and is bound per scenario by MaterializeGoals.
type GoalDef struct {
	ID             string `yaml:"id" json:"id"`
	DomainVariable string `yaml:"domain_variable" json:"domain_variable"`
	Relation       string `yaml:"relation" json:"relation"`
	ConstraintKey  string `yaml:"constraint_key" json:"constraint_key"`
}

// QualityGoal is a goal definition bound to a concrete constraint value for
// one scenario. Materialized is false when the scenario had no value for the
// definition's constraint key; such goals carry a zero constraint and are
// skipped by every downstream computation.
type QualityGoal struct {
	ID             string  `json:"id"`
	DomainVariable string  `json:"domain_variable"`
	Relation       string  `json:"relation"`
	Constraint     float64 `json:"constraint"`
	Materialized   bool    `json:"materialized"`
}

// Selection is the outcome of one selection strategy: the chosen plan id
// (empty when no plan could be selected) and the strategy's own score for it.
type Selection struct {
	PlanID string  `json:"plan_id"`
	Score  float64 `json:"score"`
}

// None reports whether the strategy selected no plan.
func (s Selection) None() bool { return s.PlanID == "" }
