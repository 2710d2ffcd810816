// Package loader reads experiment inputs from CSV files: the plan/goal
// membership table and the goal contribution table.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/ls-cnr/q2s-experiment/internal/q2s"
)

// ReadPlans parses a plan table. The header row is "PLANS" followed by goal
// ids; each subsequent row is a plan id followed by 0/1 membership cells.
// Plans come back in file order.
func ReadPlans(r io.Reader) ([]q2s.Plan, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading plans csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("plans csv is empty")
	}

	header := records[0]
	if len(header) < 2 || header[0] != "PLANS" {
		return nil, fmt.Errorf("plans csv: first header column must be PLANS, got %q", header)
	}
	goalIDs := header[1:]

	plans := make([]q2s.Plan, 0, len(records)-1)
	seen := make(map[string]bool, len(records)-1)
	for i, row := range records[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("plans csv row %d: expected %d columns, got %d", i+2, len(header), len(row))
		}
		id := row[0]
		if seen[id] {
			return nil, fmt.Errorf("plans csv row %d: duplicate plan id %q", i+2, id)
		}
		seen[id] = true

		goals := make(map[string]bool, len(goalIDs))
		for j, cell := range row[1:] {
			switch cell {
			case "1":
				goals[goalIDs[j]] = true
			case "0":
				goals[goalIDs[j]] = false
			default:
				return nil, fmt.Errorf("plans csv row %d: goal %s must be 0 or 1, got %q", i+2, goalIDs[j], cell)
			}
		}
		plans = append(plans, q2s.Plan{ID: id, Goals: goals})
	}

	return plans, nil
}

// ReadContributions parses a contribution table. The header row is
// "DomainVariable" followed by goal ids; each subsequent row is a domain
// variable followed by numeric contribution cells.
func ReadContributions(r io.Reader) (q2s.Contributions, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading contributions csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("contributions csv is empty")
	}

	header := records[0]
	if len(header) < 2 || header[0] != "DomainVariable" {
		return nil, fmt.Errorf("contributions csv: first header column must be DomainVariable, got %q", header)
	}
	goalIDs := header[1:]

	contributions := make(q2s.Contributions, len(records)-1)
	for i, row := range records[1:] {
		if len(row) != len(header) {
			return nil, fmt.Errorf("contributions csv row %d: expected %d columns, got %d", i+2, len(header), len(row))
		}
		variable := row[0]
		if _, ok := contributions[variable]; ok {
			return nil, fmt.Errorf("contributions csv row %d: duplicate domain variable %q", i+2, variable)
		}

		values := make(map[string]float64, len(goalIDs))
		for j, cell := range row[1:] {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("contributions csv row %d: goal %s: %w", i+2, goalIDs[j], err)
			}
			values[goalIDs[j]] = v
		}
		contributions[variable] = values
	}

	return contributions, nil
}

// LoadPlans reads a plan table from disk.
func LoadPlans(path string) ([]q2s.Plan, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening plans file: %w", err)
	}
	defer f.Close()
	return ReadPlans(f)
}

// LoadContributions reads a contribution table from disk.
func LoadContributions(path string) (q2s.Contributions, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening contributions file: %w", err)
	}
	defer f.Close()
	return ReadContributions(f)
}
