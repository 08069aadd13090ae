package shared

// Task types của background jobs (asynq)
const (
	TypeRosterRefresh = "roster:refresh"
	TypeImportProcess = "import:process"
)

// Queue names, highest priority first
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// ImportProcessPayload references a pending import run.
type ImportProcessPayload struct {
	RunID string `json:"runId"`
}

// RosterRefreshPayload carries only the trigger, for logs.
type RosterRefreshPayload struct {
	Reason string `json:"reason,omitempty"`
}
