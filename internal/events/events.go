package events

import "time"

const (
	StreamName   = "Q2S_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

func SubjectRunStarted(runID string) string   { return "q2s.run." + runID + ".started" }
func SubjectRunProgress(runID string) string  { return "q2s.run." + runID + ".progress" }
func SubjectRunCompleted(runID string) string { return "q2s.run." + runID + ".completed" }
func SubjectRunFailed(runID string) string    { return "q2s.run." + runID + ".failed" }

type RunStartedEvent struct {
	RunID          string    `json:"run_id"`
	TotalScenarios int       `json:"total_scenarios"`
	Seed           int64     `json:"seed"`
	Timestamp      time.Time `json:"timestamp"`
}

type RunProgressEvent struct {
	RunID              string    `json:"run_id"`
	CompletedScenarios int       `json:"completed_scenarios"`
	TotalScenarios     int       `json:"total_scenarios"`
	Timestamp          time.Time `json:"timestamp"`
}

type RunCompletedEvent struct {
	RunID          string    `json:"run_id"`
	TotalScenarios int       `json:"total_scenarios"`
	DurationMs     int64     `json:"duration_ms"`
	Timestamp      time.Time `json:"timestamp"`
}

type RunFailedEvent struct {
	RunID     string    `json:"run_id"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
