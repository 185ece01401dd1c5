package domain

import (
	"time"

	"gorm.io/gorm"
)

// Workspace write guard outcome tags
const (
	AuditOutcomeAccepted        = "accepted"
	AuditOutcomeRejectedExists  = "rejected_exists"
	AuditOutcomeRejectedMissing = "rejected_missing"
	AuditOutcomeUpstreamError   = "upstream_error"
)

// Audit actions
const (
	AuditActionWorkspaceCreate = "WORKSPACE_FILE_CREATE"
	AuditActionWorkspaceUpdate = "WORKSPACE_FILE_UPDATE"
)

// AuditEvent is an append-only record of a guarded mutation attempt.
// Rows are written for every attempt, including rejected ones.
type AuditEvent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	Actor    string `gorm:"size:255;not null;index" json:"actor"`
	Action   string `gorm:"size:100;not null;index" json:"action"`
	Outcome  string `gorm:"size:50;not null" json:"outcome"`
	Resource string `gorm:"size:1024" json:"resource"`
	Detail   JSONB  `gorm:"type:jsonb" json:"detail,omitempty"`
}
