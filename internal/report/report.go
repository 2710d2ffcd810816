// Package report renders sweep results as CSV tables and markdown
// summaries for offline inspection.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ls-cnr/q2s-experiment/internal/analysis"
	"github.com/ls-cnr/q2s-experiment/internal/scenario"
)

// WriteResultsCSV writes one row per scenario: id, alpha, the constraint and
// perturbation columns in the given dimension key order, then per-strategy
// plan id, success and margin columns.
func WriteResultsCSV(w io.Writer, dimensionKeys []string, results []*scenario.Result) error {
	cw := csv.NewWriter(w)

	header := []string{"ID", "alpha"}
	header = append(header, dimensionKeys...)
	for _, key := range dimensionKeys {
		header = append(header, key+"_perturbation")
	}
	header = append(header,
		"num_valid_plans",
		"ScorePlan_ID", "ScorePlan_success", "ScorePlan_margins",
		"AvgPlan_ID", "AvgPlan_success", "AvgPlan_margins",
		"MinPlan_ID", "MinPlan_success", "MinPlan_margins",
		"RndPlan_ID", "RndPlan_success", "RndPlan_margins",
	)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, res := range results {
		row := []string{strconv.Itoa(res.ScenarioID), formatFloat(res.Alpha)}
		for _, key := range dimensionKeys {
			row = append(row, formatFloat(res.Constraints[key]))
		}
		for _, key := range dimensionKeys {
			row = append(row, formatFloat(res.Perturbations[key]))
		}
		row = append(row, strconv.Itoa(res.NumValidPlans))
		for _, out := range []scenario.StrategyOutcome{res.Score, res.Avg, res.Min, res.Rnd} {
			row = append(row, out.PlanID, formatFloat(out.Success), formatFloat(out.Margin))
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row %d: %w", res.ScenarioID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteMarkdownSummary renders the analysis report as a markdown document.
func WriteMarkdownSummary(w io.Writer, report *analysis.Report) error {
	fmt.Fprintf(w, "# Sweep Summary\n\n")
	fmt.Fprintf(w, "Scenarios evaluated: %d\n\n", report.TotalScenarios)

	fmt.Fprintf(w, "## Overall\n\n")
	writeSummaryTable(w, report.Overall)

	if len(report.ByAlpha) > 0 {
		fmt.Fprintf(w, "## By Alpha\n\n")
		for _, group := range report.ByAlpha {
			fmt.Fprintf(w, "### alpha = %s\n\n", formatFloat(group.Alpha))
			writeSummaryTable(w, group.Summaries)
		}
	}

	if len(report.BySeverity) > 0 {
		fmt.Fprintf(w, "## By Perturbation Severity\n\n")
		for _, group := range report.BySeverity {
			fmt.Fprintf(w, "### severity = %d\n\n", group.Severity)
			writeSummaryTable(w, group.Summaries)
		}
	}

	if len(report.AlphaSuccessCorrelation) > 0 {
		fmt.Fprintf(w, "## Alpha vs Success Correlation\n\n")
		fmt.Fprintf(w, "| Strategy | Pearson r |\n|---|---|\n")
		for _, strategy := range analysis.Strategies {
			if r, ok := report.AlphaSuccessCorrelation[strategy]; ok {
				fmt.Fprintf(w, "| %s | %s |\n", strategy, formatFloat(r))
			}
		}
		fmt.Fprintln(w)
	}

	return nil
}

func writeSummaryTable(w io.Writer, summaries []analysis.StrategySummary) {
	fmt.Fprintf(w, "| Strategy | Scenarios | Success Rate | Avg Margin | Margin StdDev |\n")
	fmt.Fprintf(w, "|---|---|---|---|---|\n")
	for _, s := range summaries {
		fmt.Fprintf(w, "| %s | %d | %s | %s | %s |\n",
			s.Strategy, s.Scenarios,
			formatFloat(s.SuccessRate), formatFloat(s.AvgMargin), formatFloat(s.MarginStdDev))
	}
	fmt.Fprintln(w)
}

// Save writes results.csv and summary.md for one run under dir/runID.
func Save(dir, runID string, dimensionKeys []string, results []*scenario.Result, report *analysis.Report) error {
	outDir := filepath.Join(dir, runID)
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}

	csvFile, err := os.Create(filepath.Join(outDir, "results.csv"))
	if err != nil {
		return fmt.Errorf("create results file: %w", err)
	}
	defer csvFile.Close()
	if err := WriteResultsCSV(csvFile, dimensionKeys, results); err != nil {
		return err
	}

	mdFile, err := os.Create(filepath.Join(outDir, "summary.md"))
	if err != nil {
		return fmt.Errorf("create summary file: %w", err)
	}
	defer mdFile.Close()
	return WriteMarkdownSummary(mdFile, report)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
