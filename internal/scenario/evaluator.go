package scenario

import (
	"fmt"
	"math/rand"

	"github.com/ls-cnr/q2s-experiment/internal/q2s"
)

// StrategyOutcome is the fate of one selection strategy in one scenario:
// the selected plan (empty when none), its success under perturbation, and
// its margin. Success is a rate in [0,1] — exactly 0 or 1 for the
// deterministic strategies, a mean over trials for Random — so the result
// record stays uniform across strategies.
type StrategyOutcome struct {
	PlanID  string  `json:"plan_id,omitempty"`
	Success float64 `json:"success"`
	Margin  float64 `json:"margin"`
}

// Result is the complete, self-contained record of one scenario evaluation.
type Result struct {
	ScenarioID    int                `json:"scenario_id"`
	Alpha         float64            `json:"alpha"`
	Constraints   map[string]float64 `json:"constraints"`
	Perturbations map[string]float64 `json:"perturbations"`
	Severity      int                `json:"severity"`
	NumValidPlans int                `json:"num_valid_plans"`

	Score StrategyOutcome `json:"score_plan"`
	Avg   StrategyOutcome `json:"avg_plan"`
	Min   StrategyOutcome `json:"min_plan"`
	Rnd   StrategyOutcome `json:"rnd_plan"`

	Diagnostics q2s.Diagnostics `json:"diagnostics,omitempty"`
}

// Evaluator evaluates scenarios against a fixed experiment setup. Plan
// impacts depend only on the plans and the contribution table, so they are
// computed once at construction and shared by every scenario.
type Evaluator struct {
	plans      []q2s.Plan
	impacts    map[string]q2s.Impact
	defs       []q2s.GoalDef
	randomRuns int
}

// DefaultRandomRuns is how many Random-strategy trials are averaged per
// scenario when the caller does not say otherwise.
const DefaultRandomRuns = 10

// NewEvaluator builds an evaluator over the experiment inputs. randomRuns
// <= 0 falls back to DefaultRandomRuns.
func NewEvaluator(plans []q2s.Plan, contributions q2s.Contributions, defs []q2s.GoalDef, randomRuns int) *Evaluator {
	if randomRuns <= 0 {
		randomRuns = DefaultRandomRuns
	}
	return &Evaluator{
		plans:      plans,
		impacts:    q2s.CalculateImpacts(plans, contributions),
		defs:       defs,
		randomRuns: randomRuns,
	}
}

// Evaluate runs the full per-scenario pipeline: materialize goals, filter
// valid plans, build and extend the Q2S matrix, run the four selection
// strategies, then re-check every selection against the perturbed goals.
//
// A scenario with no valid plans yields a complete all-zero record, never an
// error. The only error is an alpha outside [0,1], which is a configuration
// bug. The rng drives the Random strategy; callers seed it per scenario for
// reproducible sweeps.
func (e *Evaluator) Evaluate(sc Scenario, rng *rand.Rand) (*Result, error) {
	if sc.Alpha < 0 || sc.Alpha > 1 {
		return nil, fmt.Errorf("scenario %d: alpha must be between 0 and 1, got %v", sc.ID, sc.Alpha)
	}

	result := &Result{
		ScenarioID:    sc.ID,
		Alpha:         sc.Alpha,
		Constraints:   sc.Constraints,
		Perturbations: sc.Perturbations,
		Severity:      sc.Severity,
	}

	goals, diags := q2s.MaterializeGoals(e.defs, sc.Constraints, sc.Perturbations, false)
	result.Diagnostics.Merge(diags)

	valid, diags := q2s.FilterValid(e.plans, e.impacts, goals)
	result.Diagnostics.Merge(diags)
	result.NumValidPlans = len(valid)
	if len(valid) == 0 {
		return result, nil
	}

	matrix, diags := q2s.BuildMatrix(valid, e.impacts, goals)
	result.Diagnostics.Merge(diags)

	ext, diags, err := q2s.ExtendMatrix(matrix, sc.Alpha)
	if err != nil {
		return nil, err
	}
	result.Diagnostics.Merge(diags)

	perturbedGoals, diags := q2s.MaterializeGoals(e.defs, sc.Constraints, sc.Perturbations, true)
	result.Diagnostics.Merge(diags)

	result.Score = e.evaluateSelection(q2s.SelectByScore(ext), perturbedGoals, result)
	result.Avg = e.evaluateSelection(q2s.SelectByAvgSat(ext), perturbedGoals, result)
	result.Min = e.evaluateSelection(q2s.SelectByMinSat(ext), perturbedGoals, result)
	result.Rnd = e.evaluateRandom(valid, perturbedGoals, rng, result)

	return result, nil
}

func (e *Evaluator) evaluateSelection(sel q2s.Selection, perturbedGoals []q2s.QualityGoal, result *Result) StrategyOutcome {
	success, margin, diags := q2s.EvaluatePerturbation(sel.PlanID, e.impacts, perturbedGoals)
	result.Diagnostics.Merge(diags)

	outcome := StrategyOutcome{PlanID: sel.PlanID, Margin: margin}
	if success {
		outcome.Success = 1
	}
	return outcome
}

// evaluateRandom runs the Random strategy randomRuns times and averages
// success and margin to damp selection variance. The recorded plan id is the
// last trial's pick; the averaged numbers are what downstream analysis uses.
func (e *Evaluator) evaluateRandom(valid []string, perturbedGoals []q2s.QualityGoal, rng *rand.Rand, result *Result) StrategyOutcome {
	var successSum, marginSum float64
	var lastPlanID string

	for i := 0; i < e.randomRuns; i++ {
		sel := q2s.SelectRandom(valid, rng)
		if sel.None() {
			continue
		}
		lastPlanID = sel.PlanID

		success, margin, diags := q2s.EvaluatePerturbation(sel.PlanID, e.impacts, perturbedGoals)
		result.Diagnostics.Merge(diags)
		if success {
			successSum++
		}
		marginSum += margin
	}

	return StrategyOutcome{
		PlanID:  lastPlanID,
		Success: successSum / float64(e.randomRuns),
		Margin:  marginSum / float64(e.randomRuns),
	}
}
