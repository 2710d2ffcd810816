package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ls-cnr/q2s-experiment/internal/q2s"
	"github.com/ls-cnr/q2s-experiment/internal/scenario"
)

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Events   EventsConfig   `yaml:"events"`
	Inputs   InputsConfig   `yaml:"inputs"`
	Space    scenario.Space `yaml:"space"`
	Sweep    SweepConfig    `yaml:"sweep"`
	Report   ReportConfig   `yaml:"report"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type ServerConfig struct {
	Port        int `yaml:"port"`
	MetricsPort int `yaml:"metrics_port"`
}

type DatabaseConfig struct {
	URL string `yaml:"url"`
}

type EventsConfig struct {
	URL string `yaml:"url"`
}

// InputsConfig names the experiment inputs: the plan and contribution CSV
// files plus the quality goal definitions that bind domain variables to
// scenario constraint keys.
type InputsConfig struct {
	PlansPath         string        `yaml:"plans_path"`
	ContributionsPath string        `yaml:"contributions_path"`
	QualityGoals      []q2s.GoalDef `yaml:"quality_goals"`
}

type SweepConfig struct {
	Workers            int   `yaml:"workers"`
	RandomRuns         int   `yaml:"random_runs"`
	Seed               int64 `yaml:"seed"`
	ProgressIntervalMs int   `yaml:"progress_interval_ms"`
}

type ReportConfig struct {
	OutputDir string `yaml:"output_dir"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func (c *Config) ProgressInterval() time.Duration {
	return time.Duration(c.Sweep.ProgressIntervalMs) * time.Millisecond
}

func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:        8700,
			MetricsPort: 8701,
		},
		Events: EventsConfig{
			URL: "nats://localhost:4222",
		},
		Inputs: InputsConfig{
			PlansPath:         "data/plans.csv",
			ContributionsPath: "data/contributions.csv",
			QualityGoals: []q2s.GoalDef{
				{ID: "QG0", DomainVariable: "TotalCost", Relation: q2s.RelationMax, ConstraintKey: "cost_constraint"},
				{ID: "QG1", DomainVariable: "TotalEffort", Relation: q2s.RelationMax, ConstraintKey: "effort_constraint"},
				{ID: "QG2", DomainVariable: "TimeSpent", Relation: q2s.RelationMax, ConstraintKey: "time_constraint"},
			},
		},
		Space: scenario.Space{
			Alphas: []float64{0.3, 0.5, 0.7},
			Dimensions: []scenario.Dimension{
				{
					Key:    "cost_constraint",
					Values: []float64{250, 270, 290},
					Perturbations: []scenario.Perturbation{
						{Value: 0, Score: 0},
						{Value: -10, Score: 1},
						{Value: -30, Score: 2},
					},
				},
				{
					Key:    "effort_constraint",
					Values: []float64{5, 6, 7},
					Perturbations: []scenario.Perturbation{
						{Value: 0, Score: 0},
						{Value: -1, Score: 1},
						{Value: -2, Score: 2},
					},
				},
				{
					Key:    "time_constraint",
					Values: []float64{8, 9, 10},
					Perturbations: []scenario.Perturbation{
						{Value: 0, Score: 0},
						{Value: 3, Score: 1},
					},
				},
			},
		},
		Sweep: SweepConfig{
			Workers:            4,
			RandomRuns:         10,
			Seed:               42,
			ProgressIntervalMs: 2000,
		},
		Report: ReportConfig{
			OutputDir: "results",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	for _, a := range c.Space.Alphas {
		if a < 0 || a > 1 {
			return fmt.Errorf("config: alpha must be between 0 and 1, got %v", a)
		}
	}
	seen := make(map[string]bool, len(c.Space.Dimensions))
	for _, dim := range c.Space.Dimensions {
		if dim.Key == "" {
			return fmt.Errorf("config: dimension with empty key")
		}
		if seen[dim.Key] {
			return fmt.Errorf("config: duplicate dimension key %q", dim.Key)
		}
		seen[dim.Key] = true
	}
	for _, def := range c.Inputs.QualityGoals {
		if def.ConstraintKey == "" {
			return fmt.Errorf("config: quality goal %s has no constraint key", def.ID)
		}
	}
	if c.Sweep.Workers < 1 {
		return fmt.Errorf("config: sweep workers must be at least 1, got %d", c.Sweep.Workers)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("Q2S_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = n
		}
	}
	if v := os.Getenv("Q2S_METRICS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Server.MetricsPort = n
		}
	}
	if v := os.Getenv("Q2S_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("Q2S_EVENTS_URL"); v != "" {
		cfg.Events.URL = v
	}
	if v := os.Getenv("Q2S_PLANS_PATH"); v != "" {
		cfg.Inputs.PlansPath = v
	}
	if v := os.Getenv("Q2S_CONTRIBUTIONS_PATH"); v != "" {
		cfg.Inputs.ContributionsPath = v
	}
	if v := os.Getenv("Q2S_SWEEP_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Sweep.Workers = n
		}
	}
	if v := os.Getenv("Q2S_SWEEP_SEED"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Sweep.Seed = n
		}
	}
	if v := os.Getenv("Q2S_REPORT_DIR"); v != "" {
		cfg.Report.OutputDir = v
	}
	if v := os.Getenv("Q2S_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
