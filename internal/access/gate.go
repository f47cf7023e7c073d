// Package access gates privileged reads behind the admin PIN.
package access

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Harshitk-cp/frontdesk/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

var (
	ErrDenied    = errors.New("access denied")
	ErrLockedOut = errors.New("access locked after repeated failures")
	ErrThrottled = errors.New("too many PIN attempts")
)

// Policy configures the gate.
type Policy struct {
	MaxAttempts int
	Lockout     time.Duration
	AttemptRPS  float64
	Burst       int
	IdleTTL     time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 5,
		Lockout:     5 * time.Minute,
		AttemptRPS:  1,
		Burst:       3,
		IdleTTL:     30 * time.Minute,
	}
}

type subjectState struct {
	failures    int
	lockedUntil time.Time
	lastSeen    time.Time
	limiter     *rate.Limiter
}

// Gate counts consecutive failures per subject and locks the subject out
// once the policy's limit is reached. A success resets the count.
type Gate struct {
	verifier Verifier
	policy   Policy
	audit    domain.AuditStore
	logger   *zap.Logger
	now      func() time.Time

	mu       sync.Mutex
	subjects map[string]*subjectState
}

func NewGate(v Verifier, policy Policy, audit domain.AuditStore, logger *zap.Logger) *Gate {
	def := DefaultPolicy()
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = def.MaxAttempts
	}
	if policy.Lockout <= 0 {
		policy.Lockout = def.Lockout
	}
	if policy.AttemptRPS <= 0 {
		policy.AttemptRPS = def.AttemptRPS
	}
	if policy.Burst <= 0 {
		policy.Burst = def.Burst
	}
	if policy.IdleTTL <= 0 {
		policy.IdleTTL = def.IdleTTL
	}
	return &Gate{
		verifier: v,
		policy:   policy,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
		subjects: make(map[string]*subjectState),
	}
}

// SetClock overrides the time source.
func (g *Gate) SetClock(now func() time.Time) {
	g.now = now
}

// Authorize returns nil when pin matches. Otherwise it returns ErrDenied,
// ErrThrottled or ErrLockedOut, and the caller must not proceed.
func (g *Gate) Authorize(ctx context.Context, subject, pin string) error {
	outcome, failures, err := g.decide(subject, pin)

	fields := []zap.Field{
		zap.String("subject", subject),
		zap.Int("pin_length", len(NormalizePIN(pin))),
		zap.Int("failures", failures),
	}
	switch {
	case err == nil:
		g.logger.Debug("admin PIN verified", fields...)
	case errors.Is(err, ErrLockedOut):
		g.logger.Warn("PIN gate locked", fields...)
	default:
		g.logger.Warn("PIN verification failed", append(fields, zap.Error(err))...)
	}

	g.record(ctx, subject, outcome, err)
	return err
}

func (g *Gate) decide(subject, pin string) (domain.Outcome, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	st := g.subjects[subject]
	if st == nil {
		st = &subjectState{limiter: rate.NewLimiter(rate.Limit(g.policy.AttemptRPS), g.policy.Burst)}
		g.subjects[subject] = st
	}
	st.lastSeen = now

	if now.Before(st.lockedUntil) {
		return domain.OutcomeLocked, st.failures, ErrLockedOut
	}
	if !st.limiter.AllowN(now, 1) {
		return domain.OutcomeDenied, st.failures, ErrThrottled
	}

	if g.verifier.Verify(pin) {
		st.failures = 0
		return domain.OutcomeSuccess, 0, nil
	}

	st.failures++
	if st.failures >= g.policy.MaxAttempts {
		failures := st.failures
		st.failures = 0
		st.lockedUntil = now.Add(g.policy.Lockout)
		return domain.OutcomeLocked, failures, ErrLockedOut
	}
	return domain.OutcomeDenied, st.failures, ErrDenied
}

func (g *Gate) record(ctx context.Context, subject string, outcome domain.Outcome, decision error) {
	if g.audit == nil {
		return
	}
	e := &domain.AuditEvent{
		ID:        uuid.New(),
		Kind:      domain.AuditKindPIN,
		Session:   subject,
		Outcome:   outcome,
		CreatedAt: g.now(),
	}
	if decision != nil {
		e.Detail = decision.Error()
	}
	if err := g.audit.Record(ctx, e); err != nil {
		g.logger.Warn("failed to record PIN audit event", zap.Error(err))
	}
}

// Locked reports whether subject is currently locked out.
func (g *Gate) Locked(subject string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	st := g.subjects[subject]
	return st != nil && g.now().Before(st.lockedUntil)
}

// Sweep drops subjects that are neither locked nor recently active.
func (g *Gate) Sweep() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	removed := 0
	for key, st := range g.subjects {
		if now.Before(st.lockedUntil) {
			continue
		}
		if now.Sub(st.lastSeen) >= g.policy.IdleTTL {
			delete(g.subjects, key)
			removed++
		}
	}
	return removed
}

// Subjects returns the number of tracked subjects.
func (g *Gate) Subjects() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.subjects)
}
