package domain

import (
	"context"
	"encoding/json"
)

// VisitorRegistry is the backend that owns arrival records.
type VisitorRegistry interface {
	ArriveMeeting(ctx context.Context, visitorName, employeeName, pin string) (json.RawMessage, error)
	ArriveCourier(ctx context.Context, courierName string) (json.RawMessage, error)
	ArriveContractor(ctx context.Context, contractorName, companyName string) (json.RawMessage, error)
	SignOut(ctx context.Context, visitorID int) (json.RawMessage, error)
	ListVisitors(ctx context.Context) ([]Visitor, error)
	ListEmployees(ctx context.Context) ([]Employee, error)
	ListOnsite(ctx context.Context) ([]OnsitePerson, error)
	ListVisitorsOnsite(ctx context.Context) ([]OnsiteVisitor, error)
}

// Notifier pushes a reception alert to every configured channel.
type Notifier interface {
	Notify(ctx context.Context, title, body string) error
}

// Authorizer gates privileged reads. subject scopes attempt counting.
type Authorizer interface {
	Authorize(ctx context.Context, subject, pin string) error
}

type IntentClassifier interface {
	Classify(ctx context.Context, text string) (Intent, error)
}

type AuditStore interface {
	Record(ctx context.Context, e *AuditEvent) error
	ListRecent(ctx context.Context, limit int) ([]AuditEvent, error)
}
