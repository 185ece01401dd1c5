package domain

import "time"

// Activity categories the runtime has emitted for subagent spawn events.
// Both forms appear in the same log: the runtime renamed the marker at some
// point and old records were never rewritten.
const (
	CategorySubagentSpawn       = "subagent_spawn"
	CategorySubagentSpawnLegacy = "spawn"
)

type SubagentStatus string

const (
	SubagentStatusQueued    SubagentStatus = "queued"
	SubagentStatusRunning   SubagentStatus = "running"
	SubagentStatusCompleted SubagentStatus = "completed"
	SubagentStatusFailed    SubagentStatus = "failed"
)

// ActivityRecord is one entry of the runtime's append-only activity log.
// The log mixes schema generations: the task id key has two spellings and
// the session label may or may not be present in metadata. Timestamp is
// left untyped because the runtime has emitted both RFC3339 strings and
// epoch milliseconds.
type ActivityRecord struct {
	Timestamp    interface{}            `json:"timestamp"`
	TaskID       string                 `json:"taskId"`
	LegacyTaskID string                 `json:"task_id"`
	Category     string                 `json:"category"`
	Metadata     map[string]interface{} `json:"metadata"`
}

// ResultCacheRecord is a point-in-time snapshot of a subagent's state as
// reported by the runtime's task result cache.
type ResultCacheRecord struct {
	SessionLabel       string      `json:"sessionLabel"`
	LegacySessionLabel string      `json:"session_label"`
	TaskID             string      `json:"taskId"`
	LegacyTaskID       string      `json:"task_id"`
	Status             string      `json:"status"`
	CompletedAt        interface{} `json:"completedAt"`
	LegacyCompletedAt  interface{} `json:"completed_at"`
}

// SubagentView is the correlated projection of a single subagent. It is
// built fresh per request and never persisted. Absent fields stay nil and
// serialize as null.
type SubagentView struct {
	ID          string         `json:"id"`
	Status      SubagentStatus `json:"status"`
	StartedAt   *time.Time     `json:"started_at"`
	CompletedAt *time.Time     `json:"completed_at"`
	DurationMs  *int64         `json:"duration_ms"`
}

// SubagentStatusReport is the stable external contract for subagent status.
type SubagentStatusReport struct {
	Running   []SubagentView `json:"running"`
	Queued    []SubagentView `json:"queued"`
	Completed []SubagentView `json:"completed"`
}

// GatewaySession is a live session as reported by the gateway service.
type GatewaySession struct {
	ID        string     `json:"id"`
	Label     string     `json:"label,omitempty"`
	Model     string     `json:"model,omitempty"`
	StartedAt *time.Time `json:"started_at,omitempty"`
}

// GatewayCronJob is a scheduled job owned by the runtime.
type GatewayCronJob struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Schedule string     `json:"schedule"`
	Enabled  bool       `json:"enabled"`
	LastRun  *time.Time `json:"last_run,omitempty"`
}
