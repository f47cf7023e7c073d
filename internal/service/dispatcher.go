// Package service implements the tools the conversational agent can call.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Harshitk-cp/frontdesk/internal/config"
	"github.com/Harshitk-cp/frontdesk/internal/domain"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrInvalidArgs = errors.New("invalid arguments")
)

// Handler runs one tool. An error means the call could not be completed at
// all (transport fault, cancelled context); every backend answer, including
// failures, is reported through the returned output and outcome.
type Handler func(ctx context.Context, call domain.Call, args Args) (string, domain.Outcome, error)

type Tool struct {
	Spec    domain.ToolSpec
	Handler Handler
}

// channelLister is implemented by notifiers that know their destinations.
type channelLister interface {
	Channels() []string
}

// Dispatcher is the named-operation registry exposed to the conversational
// layer. Its tool set is fixed at construction from the profile.
type Dispatcher struct {
	registry domain.VisitorRegistry
	gate     domain.Authorizer
	notifier domain.Notifier
	audit    domain.AuditStore
	logger   *zap.Logger

	reconcile  bool
	meetingPIN bool

	tools map[string]Tool
	order []string
}

func NewDispatcher(
	registry domain.VisitorRegistry,
	gate domain.Authorizer,
	notifier domain.Notifier,
	audit domain.AuditStore,
	profile config.Profile,
	logger *zap.Logger,
) *Dispatcher {
	d := &Dispatcher{
		registry:   registry,
		gate:       gate,
		notifier:   notifier,
		audit:      audit,
		logger:     logger,
		reconcile:  profile.Reconcile,
		meetingPIN: profile.MeetingPIN,
		tools:      make(map[string]Tool),
	}
	for _, t := range d.catalog() {
		if !profile.Enabled(t.Spec.Name) {
			continue
		}
		d.tools[t.Spec.Name] = t
		d.order = append(d.order, t.Spec.Name)
	}
	return d
}

// Tools returns the enabled tool specs in catalog order.
func (d *Dispatcher) Tools() []domain.ToolSpec {
	specs := make([]domain.ToolSpec, 0, len(d.order))
	for _, name := range d.order {
		specs = append(specs, d.tools[name].Spec)
	}
	return specs
}

func (d *Dispatcher) Has(name string) bool {
	_, ok := d.tools[name]
	return ok
}

// Invoke runs call.Tool. It returns ErrUnknownTool for a tool outside the
// profile and ErrInvalidArgs when the arguments do not fit the spec.
func (d *Dispatcher) Invoke(ctx context.Context, call domain.Call) (domain.Result, error) {
	tool, ok := d.tools[call.Tool]
	if !ok {
		return domain.Result{}, fmt.Errorf("%w: %s", ErrUnknownTool, call.Tool)
	}
	if call.ID == "" {
		call.ID = uuid.NewString()
	}

	args, err := coerce(tool.Spec, call.Arguments)
	if err != nil {
		d.record(ctx, call, domain.OutcomeFailure, err.Error())
		return domain.Result{}, err
	}

	start := time.Now()
	output, outcome, err := tool.Handler(ctx, call, args)
	fields := []zap.Field{
		zap.String("call_id", call.ID),
		zap.String("session", call.Session),
		zap.String("tool", call.Tool),
		zap.Duration("duration", time.Since(start)),
	}
	if err != nil {
		d.logger.Error("tool invocation failed", append(fields, zap.Error(err))...)
		d.record(ctx, call, domain.OutcomeFailure, err.Error())
		return domain.Result{}, fmt.Errorf("%s: %w", call.Tool, err)
	}

	d.logger.Info("tool invoked", append(fields, zap.String("outcome", string(outcome)))...)
	d.record(ctx, call, outcome, "")
	return domain.Result{
		CallID:  call.ID,
		Tool:    call.Tool,
		Output:  output,
		Outcome: outcome,
	}, nil
}

func (d *Dispatcher) record(ctx context.Context, call domain.Call, outcome domain.Outcome, detail string) {
	if d.audit == nil {
		return
	}
	e := &domain.AuditEvent{
		ID:        uuid.New(),
		Kind:      domain.AuditKindTool,
		Session:   call.Session,
		Tool:      call.Tool,
		Outcome:   outcome,
		Detail:    detail,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.audit.Record(ctx, e); err != nil {
		d.logger.Warn("failed to record tool audit event", zap.String("tool", call.Tool), zap.Error(err))
	}
}

func (d *Dispatcher) notifiedChannels() []string {
	if l, ok := d.notifier.(channelLister); ok {
		return l.Channels()
	}
	return nil
}
