package q2s

import (
	"math/rand"
	"testing"
)

func referenceExtended(t *testing.T, alpha float64) *ExtendedMatrix {
	t.Helper()
	ext, _, err := ExtendMatrix(referenceMatrix(), alpha)
	if err != nil {
		t.Fatal(err)
	}
	return ext
}

func TestSelectByScore(t *testing.T) {
	ext := referenceExtended(t, 0.5)
	sel := SelectByScore(ext)

	if sel.PlanID != "Plan0" {
		t.Errorf("expected Plan0, got %q", sel.PlanID)
	}
	if sel.Score != ext.Rows["Plan0"].Score {
		t.Errorf("expected score %f, got %f", ext.Rows["Plan0"].Score, sel.Score)
	}
}

func TestSelectByAvgSat(t *testing.T) {
	sel := SelectByAvgSat(referenceExtended(t, 0.5))
	// Plan0 has the higher AvgSat (0.271 vs 0.265).
	if sel.PlanID != "Plan0" {
		t.Errorf("expected Plan0, got %q", sel.PlanID)
	}
}

func TestSelectByMinSat(t *testing.T) {
	sel := SelectByMinSat(referenceExtended(t, 0.5))
	// Plan0 has the higher MinSat (0.222 vs 0.111).
	if sel.PlanID != "Plan0" {
		t.Errorf("expected Plan0, got %q", sel.PlanID)
	}
}

func TestScoreStrategyMatchesExtremes(t *testing.T) {
	t.Run("alpha=0 agrees with MinOnly", func(t *testing.T) {
		ext := referenceExtended(t, 0)
		if got, want := SelectByScore(ext).PlanID, SelectByMinSat(ext).PlanID; got != want {
			t.Errorf("Score picked %q, MinOnly picked %q", got, want)
		}
	})
	t.Run("alpha=1 agrees with AvgOnly", func(t *testing.T) {
		ext := referenceExtended(t, 1)
		if got, want := SelectByScore(ext).PlanID, SelectByAvgSat(ext).PlanID; got != want {
			t.Errorf("Score picked %q, AvgOnly picked %q", got, want)
		}
	})
}

func TestSelectTieBreakLowestPlanID(t *testing.T) {
	m := Matrix{
		Plans: []string{"PlanB", "PlanA"},
		Goals: []string{"QG0"},
		Rows: map[string]map[string]float64{
			"PlanA": {"QG0": 0.5},
			"PlanB": {"QG0": 0.5},
		},
	}
	ext, _, err := ExtendMatrix(m, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	// Equal scores keep the lexicographically lowest id, independent of the
	// order the plans entered the matrix.
	if sel := SelectByScore(ext); sel.PlanID != "PlanA" {
		t.Errorf("expected PlanA on tie, got %q", sel.PlanID)
	}
}

func TestSelectRandomDeterministicWithSeed(t *testing.T) {
	ids := []string{"Plan0", "Plan1", "Plan2", "Plan3"}

	a := SelectRandom(ids, rand.New(rand.NewSource(42)))
	b := SelectRandom(ids, rand.New(rand.NewSource(42)))
	if a.PlanID != b.PlanID {
		t.Errorf("same seed must pick the same plan: %q vs %q", a.PlanID, b.PlanID)
	}
}

func TestSelectRandomCoversAllPlans(t *testing.T) {
	ids := []string{"Plan0", "Plan1", "Plan2"}
	rng := rand.New(rand.NewSource(1))

	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		sel := SelectRandom(ids, rng)
		seen[sel.PlanID] = true
	}
	if len(seen) != len(ids) {
		t.Errorf("expected all %d plans selectable, saw %d", len(ids), len(seen))
	}
}

func TestStrategiesEmptyCandidateSet(t *testing.T) {
	ext, _, err := ExtendMatrix(Matrix{Rows: map[string]map[string]float64{}}, 0.5)
	if err != nil {
		t.Fatal(err)
	}

	for name, sel := range map[string]Selection{
		"score": SelectByScore(ext),
		"avg":   SelectByAvgSat(ext),
		"min":   SelectByMinSat(ext),
		"rnd":   SelectRandom(nil, rand.New(rand.NewSource(1))),
	} {
		if !sel.None() || sel.Score != 0 {
			t.Errorf("%s: expected empty selection with zero score, got %+v", name, sel)
		}
	}
}
