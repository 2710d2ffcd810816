package q2s

import (
	"math"
	"math/rand"
	"sort"
)

// Selection strategies. All four take the extended matrix (or, for Random,
// the valid-plan id list), never mutate their input, and return a zero
// Selection when the candidate set is empty — callers must treat that as a
// terminal outcome, not a failure.
//
// Ties are broken deterministically: candidates are visited in ascending
// plan-id order under a strictly-greater comparison, so equal scores keep
// the lexicographically lowest plan id regardless of map iteration order.

// SelectByScore selects the plan with the maximum Hurwicz Score.
func SelectByScore(m *ExtendedMatrix) Selection {
	return selectMax(m, func(r Row) float64 { return r.Score })
}

// SelectByAvgSat selects the plan with the maximum AvgSat; equivalent to
// SelectByScore at alpha = 1.
func SelectByAvgSat(m *ExtendedMatrix) Selection {
	return selectMax(m, func(r Row) float64 { return r.AvgSat })
}

// SelectByMinSat selects the plan with the maximum MinSat; equivalent to
// SelectByScore at alpha = 0.
func SelectByMinSat(m *ExtendedMatrix) Selection {
	return selectMax(m, func(r Row) float64 { return r.MinSat })
}

// SelectRandom selects uniformly at random among the valid plan ids using
// the injected rng. Determinism is the caller's responsibility: seed the rng
// for reproducible runs.
func SelectRandom(planIDs []string, rng *rand.Rand) Selection {
	if len(planIDs) == 0 {
		return Selection{}
	}
	return Selection{PlanID: planIDs[rng.Intn(len(planIDs))]}
}

func selectMax(m *ExtendedMatrix, value func(Row) float64) Selection {
	if m == nil || len(m.Plans) == 0 {
		return Selection{}
	}

	ids := append([]string(nil), m.Plans...)
	sort.Strings(ids)

	best := Selection{}
	bestValue := math.Inf(-1)
	for _, planID := range ids {
		v := value(m.Rows[planID])
		if v > bestValue {
			bestValue = v
			best = Selection{PlanID: planID, Score: v}
		}
	}
	return best
}
