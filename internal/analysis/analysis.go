// Package analysis aggregates sweep results into per-strategy summaries:
// success rates, margin statistics, and breakdowns by alpha and by
// perturbation severity.
package analysis

import (
	"fmt"
	"math"
	"sort"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"github.com/ls-cnr/q2s-experiment/internal/scenario"
)

// Strategy names as they appear in summaries and reports.
const (
	StrategyScore  = "Score"
	StrategyAvg    = "AvgOnly"
	StrategyMin    = "MinOnly"
	StrategyRandom = "Random"
)

// Strategies lists the analyzed strategies in presentation order.
var Strategies = []string{StrategyScore, StrategyAvg, StrategyMin, StrategyRandom}

func outcomeOf(res *scenario.Result, strategy string) scenario.StrategyOutcome {
	switch strategy {
	case StrategyScore:
		return res.Score
	case StrategyAvg:
		return res.Avg
	case StrategyMin:
		return res.Min
	default:
		return res.Rnd
	}
}

// StrategySummary aggregates one strategy over a set of scenarios. Margin
// statistics cover only scenarios where the strategy succeeded at least once;
// failed selections carry no meaningful margin.
type StrategySummary struct {
	Strategy     string  `json:"strategy"`
	Scenarios    int     `json:"scenarios"`
	SuccessRate  float64 `json:"success_rate"`
	AvgMargin    float64 `json:"avg_margin"`
	MarginStdDev float64 `json:"margin_std_dev"`
}

type AlphaBreakdown struct {
	Alpha     float64           `json:"alpha"`
	Summaries []StrategySummary `json:"summaries"`
}

type SeverityBreakdown struct {
	Severity  int               `json:"severity"`
	Summaries []StrategySummary `json:"summaries"`
}

// Report is the full analysis of one sweep.
type Report struct {
	TotalScenarios int                 `json:"total_scenarios"`
	Overall        []StrategySummary   `json:"overall"`
	ByAlpha        []AlphaBreakdown    `json:"by_alpha"`
	BySeverity     []SeverityBreakdown `json:"by_severity"`

	// AlphaSuccessCorrelation is the Pearson correlation between alpha and
	// success per strategy, NaN-free only when alpha actually varies.
	AlphaSuccessCorrelation map[string]float64 `json:"alpha_success_correlation,omitempty"`
}

// Analyze builds the report for a set of sweep results.
func Analyze(results []*scenario.Result) (*Report, error) {
	if len(results) == 0 {
		return nil, fmt.Errorf("no results to analyze")
	}

	report := &Report{
		TotalScenarios: len(results),
		Overall:        summarize(results),
	}

	byAlpha := groupBy(results, func(res *scenario.Result) float64 { return res.Alpha })
	for _, alpha := range sortedKeys(byAlpha) {
		report.ByAlpha = append(report.ByAlpha, AlphaBreakdown{
			Alpha:     alpha,
			Summaries: summarize(byAlpha[alpha]),
		})
	}

	bySeverity := groupBy(results, func(res *scenario.Result) float64 { return float64(res.Severity) })
	for _, severity := range sortedKeys(bySeverity) {
		report.BySeverity = append(report.BySeverity, SeverityBreakdown{
			Severity:  int(severity),
			Summaries: summarize(bySeverity[severity]),
		})
	}

	if len(byAlpha) > 1 {
		report.AlphaSuccessCorrelation = alphaCorrelations(results)
	}

	return report, nil
}

func summarize(results []*scenario.Result) []StrategySummary {
	summaries := make([]StrategySummary, 0, len(Strategies))
	for _, strategy := range Strategies {
		successes := make([]float64, 0, len(results))
		margins := make([]float64, 0, len(results))
		for _, res := range results {
			out := outcomeOf(res, strategy)
			successes = append(successes, out.Success)
			if out.Success > 0 {
				margins = append(margins, out.Margin)
			}
		}

		summary := StrategySummary{
			Strategy:    strategy,
			Scenarios:   len(results),
			SuccessRate: round4(mean(successes)),
		}
		if len(margins) > 0 {
			summary.AvgMargin = round4(mean(margins))
			if sd, err := stats.StandardDeviation(margins); err == nil {
				summary.MarginStdDev = round4(sd)
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func alphaCorrelations(results []*scenario.Result) map[string]float64 {
	alphas := make([]float64, len(results))
	for i, res := range results {
		alphas[i] = res.Alpha
	}

	correlations := make(map[string]float64, len(Strategies))
	for _, strategy := range Strategies {
		successes := make([]float64, len(results))
		for i, res := range results {
			successes[i] = outcomeOf(res, strategy).Success
		}
		r := stat.Correlation(alphas, successes, nil)
		if !math.IsNaN(r) {
			correlations[strategy] = round4(r)
		}
	}
	return correlations
}

func groupBy(results []*scenario.Result, key func(*scenario.Result) float64) map[float64][]*scenario.Result {
	groups := make(map[float64][]*scenario.Result)
	for _, res := range results {
		k := key(res)
		groups[k] = append(groups[k], res)
	}
	return groups
}

func sortedKeys(groups map[float64][]*scenario.Result) []float64 {
	keys := make([]float64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Float64s(keys)
	return keys
}

func mean(values []float64) float64 {
	m, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return m
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
