// Package store persists audit events. Supplied PINs never reach it.
package store

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

//go:embed schema.sql
var schemaSQL string

type AuditStore struct {
	db *pgxpool.Pool
}

func NewAuditStore(db *pgxpool.Pool) *AuditStore {
	return &AuditStore{db: db}
}

// EnsureSchema creates the audit table when it does not exist.
func (s *AuditStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure audit schema: %w", err)
	}
	return nil
}

func (s *AuditStore) Record(ctx context.Context, e *domain.AuditEvent) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	err := s.db.QueryRow(ctx,
		`INSERT INTO audit_events (id, kind, session, tool, outcome, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		e.ID, string(e.Kind), e.Session, e.Tool, string(e.Outcome), e.Detail, e.CreatedAt,
	).Scan(&e.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrConflict
		}
		return err
	}
	return nil
}

func (s *AuditStore) ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, kind, session, tool, outcome, detail, created_at
		 FROM audit_events ORDER BY created_at DESC LIMIT $1`,
		clampLimit(limit),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuditEvent
	for rows.Next() {
		var (
			e       domain.AuditEvent
			kind    string
			outcome string
		)
		if err := rows.Scan(&e.ID, &kind, &e.Session, &e.Tool, &outcome, &e.Detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		e.Kind = domain.AuditKind(kind)
		e.Outcome = domain.Outcome(outcome)
		events = append(events, e)
	}
	return events, rows.Err()
}
