package scenario

// Perturbation is one applicable perturbation level for a dimension: the
// delta added to the constraint when the scenario is perturbed, and a
// severity score used by downstream aggregation (0 = no perturbation).
type Perturbation struct {
	Value float64 `yaml:"value" json:"value"`
	Score int     `yaml:"score" json:"score"`
}

// Dimension describes one quality dimension of the scenario space: the
// constraint key quality-goal definitions refer to, the candidate constraint
// values, and the candidate perturbation levels.
type Dimension struct {
	Key           string         `yaml:"key" json:"key"`
	Values        []float64      `yaml:"values" json:"values"`
	Perturbations []Perturbation `yaml:"perturbations" json:"perturbations"`
}

// Space is the full scenario space of an experiment: every combination of
// alpha, per-dimension constraint value and per-dimension perturbation level
// becomes one scenario.
type Space struct {
	Alphas     []float64   `yaml:"alphas" json:"alphas"`
	Dimensions []Dimension `yaml:"dimensions" json:"dimensions"`
}

// Count returns the number of scenarios Enumerate will produce.
func (s Space) Count() int {
	n := len(s.Alphas)
	for _, dim := range s.Dimensions {
		n *= len(dim.Values) * len(dim.Perturbations)
	}
	return n
}

// Scenario is one concrete combination under evaluation. Constraints and
// Perturbations are keyed by dimension key; Severity is the sum of the
// chosen perturbation level scores.
type Scenario struct {
	ID            int                `json:"id"`
	Alpha         float64            `json:"alpha"`
	Constraints   map[string]float64 `json:"constraints"`
	Perturbations map[string]float64 `json:"perturbations"`
	Severity      int                `json:"severity"`
}

// Enumerate Cartesian-expands the space into scenarios with sequential ids
// starting at 1. Alphas vary slowest, then constraint values, then
// perturbation levels, matching the dimension order of the space.
func Enumerate(space Space) []Scenario {
	scenarios := make([]Scenario, 0, space.Count())
	id := 1

	for _, alpha := range space.Alphas {
		valueCombos := combinations(space.Dimensions, func(d Dimension) int { return len(d.Values) })
		for _, values := range valueCombos {
			perturbCombos := combinations(space.Dimensions, func(d Dimension) int { return len(d.Perturbations) })
			for _, perturbs := range perturbCombos {
				sc := Scenario{
					ID:            id,
					Alpha:         alpha,
					Constraints:   make(map[string]float64, len(space.Dimensions)),
					Perturbations: make(map[string]float64, len(space.Dimensions)),
				}
				for i, dim := range space.Dimensions {
					sc.Constraints[dim.Key] = dim.Values[values[i]]
					level := dim.Perturbations[perturbs[i]]
					sc.Perturbations[dim.Key] = level.Value
					sc.Severity += level.Score
				}
				scenarios = append(scenarios, sc)
				id++
			}
		}
	}

	return scenarios
}

// combinations returns every index tuple over the dimensions, with the last
// dimension varying fastest.
func combinations(dims []Dimension, size func(Dimension) int) [][]int {
	if len(dims) == 0 {
		return [][]int{{}}
	}

	total := 1
	for _, d := range dims {
		n := size(d)
		if n == 0 {
			return nil
		}
		total *= n
	}

	combos := make([][]int, 0, total)
	idx := make([]int, len(dims))
	for {
		combos = append(combos, append([]int(nil), idx...))

		pos := len(dims) - 1
		for pos >= 0 {
			idx[pos]++
			if idx[pos] < size(dims[pos]) {
				break
			}
			idx[pos] = 0
			pos--
		}
		if pos < 0 {
			return combos
		}
	}
}
