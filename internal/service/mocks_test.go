package service

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

// MockRegistry mocks the VisitorRegistry interface.
type MockRegistry struct {
	mock.Mock
}

func (m *MockRegistry) raw(args mock.Arguments) (json.RawMessage, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockRegistry) ArriveMeeting(ctx context.Context, visitorName, employeeName, pin string) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, visitorName, employeeName, pin))
}

func (m *MockRegistry) ArriveCourier(ctx context.Context, courierName string) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, courierName))
}

func (m *MockRegistry) ArriveContractor(ctx context.Context, contractorName, companyName string) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, contractorName, companyName))
}

func (m *MockRegistry) SignOut(ctx context.Context, visitorID int) (json.RawMessage, error) {
	return m.raw(m.Called(ctx, visitorID))
}

func (m *MockRegistry) ListVisitors(ctx context.Context) ([]domain.Visitor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Visitor), args.Error(1)
}

func (m *MockRegistry) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Employee), args.Error(1)
}

func (m *MockRegistry) ListOnsite(ctx context.Context) ([]domain.OnsitePerson, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OnsitePerson), args.Error(1)
}

func (m *MockRegistry) ListVisitorsOnsite(ctx context.Context) ([]domain.OnsiteVisitor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OnsiteVisitor), args.Error(1)
}

// MockAuthorizer mocks the Authorizer interface.
type MockAuthorizer struct {
	mock.Mock
}

func (m *MockAuthorizer) Authorize(ctx context.Context, subject, pin string) error {
	return m.Called(ctx, subject, pin).Error(0)
}

// MockNotifier mocks the Notifier interface.
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, title, body string) error {
	return m.Called(ctx, title, body).Error(0)
}

// MockAuditStore mocks the AuditStore interface.
type MockAuditStore struct {
	mock.Mock
}

func (m *MockAuditStore) Record(ctx context.Context, e *domain.AuditEvent) error {
	return m.Called(ctx, e).Error(0)
}

func (m *MockAuditStore) ListRecent(ctx context.Context, limit int) ([]domain.AuditEvent, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditEvent), args.Error(1)
}
