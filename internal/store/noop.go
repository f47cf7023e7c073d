package store

import (
	"context"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

// NoopAuditStore discards every event. Used when AUDIT_STORE=none.
type NoopAuditStore struct{}

func (NoopAuditStore) Record(context.Context, *domain.AuditEvent) error {
	return nil
}

func (NoopAuditStore) ListRecent(context.Context, int) ([]domain.AuditEvent, error) {
	return []domain.AuditEvent{}, nil
}
