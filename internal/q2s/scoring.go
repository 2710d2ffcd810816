package q2s

import "fmt"

// Row is one plan's entry in the extended matrix: its satisfaction distances
// plus the three derived scalars.
type Row struct {
	Distances map[string]float64 `json:"distances"`
	AvgSat    float64            `json:"avg_sat"`
	MinSat    float64            `json:"min_sat"`
	Score     float64            `json:"score"`
}

// ExtendedMatrix augments the Q2S matrix with AvgSat, MinSat and the
// Hurwicz-blended Score for every plan.
type ExtendedMatrix struct {
	Plans []string       `json:"plans"`
	Goals []string       `json:"quality_goals"`
	Rows  map[string]Row `json:"matrix"`
	Alpha float64        `json:"alpha"`
}

// ExtendMatrix derives AvgSat, MinSat and Score for every plan in the
// matrix:
//
//	Score = alpha·AvgSat + (1−alpha)·MinSat
//
// alpha outside [0,1] is a caller bug and fails fast. A plan with no
// computable distances gets all three scalars at 0 and a warning; the
// scenario still produces a complete record.
func ExtendMatrix(m Matrix, alpha float64) (*ExtendedMatrix, Diagnostics, error) {
	if alpha < 0 || alpha > 1 {
		return nil, nil, fmt.Errorf("alpha must be between 0 and 1, got %v", alpha)
	}

	var diags Diagnostics
	ext := &ExtendedMatrix{
		Plans: append([]string(nil), m.Plans...),
		Goals: append([]string(nil), m.Goals...),
		Rows:  make(map[string]Row, len(m.Plans)),
		Alpha: alpha,
	}

	for _, planID := range m.Plans {
		distances := m.Rows[planID]
		row := Row{Distances: make(map[string]float64, len(distances))}
		for goalID, d := range distances {
			row.Distances[goalID] = d
		}

		if len(distances) == 0 {
			diags.Warnf("no satisfaction distances for plan %q", planID)
			ext.Rows[planID] = row
			continue
		}

		var sum float64
		min := 0.0
		first := true
		for _, d := range distances {
			sum += d
			if first || d < min {
				min = d
				first = false
			}
		}

		row.AvgSat = round3(sum / float64(len(distances)))
		row.MinSat = min
		row.Score = round3(alpha*row.AvgSat + (1-alpha)*row.MinSat)
		ext.Rows[planID] = row
	}

	return ext, diags, nil
}
