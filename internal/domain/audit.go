package domain

import (
	"time"

	"github.com/google/uuid"
)

type AuditKind string

const (
	AuditKindPIN  AuditKind = "pin"
	AuditKindTool AuditKind = "tool"
)

// AuditEvent is an append-only record of a gate decision or tool call.
// Supplied PINs are never part of it.
type AuditEvent struct {
	ID        uuid.UUID `json:"id"`
	Kind      AuditKind `json:"kind"`
	Session   string    `json:"session"`
	Tool      string    `json:"tool,omitempty"`
	Outcome   Outcome   `json:"outcome"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
