package domain

import "time"

type AuditAction string

const (
	AuditActionInvite   AuditAction = "IDENTITY_INVITED"
	AuditActionActivate AuditAction = "IDENTITY_ACTIVATED"
	AuditActionDelete   AuditAction = "IDENTITY_DELETED"
)

// AuditEntry is one row of the append-only audit log.
type AuditEntry struct {
	ID         int64       `json:"id"`
	OrgID      string      `json:"org_id"`
	ActorID    string      `json:"actor_id"`
	Action     AuditAction `json:"action"`
	TargetType string      `json:"target_type"`
	TargetID   string      `json:"target_id"`
	Detail     string      `json:"detail"` // JSON payload
	CreatedOn  time.Time   `json:"created_on"`
}
