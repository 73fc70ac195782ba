// Package failover decides per call whether the remote analysis arm may run,
// tracks consecutive remote failures and disables the remote arm once a
// threshold is reached. The manual arm always produces the fallback value.
package failover

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/spigell/hr-assist/internal/analysis"
	"github.com/spigell/hr-assist/internal/logger"
	"go.uber.org/zap"
)

// ErrRemoteUnavailable signals that no remote arm is configured. It routes
// the call to the manual arm without counting a failure.
var ErrRemoteUnavailable = errors.New("remote analysis is not configured")

// DefaultThreshold is the number of consecutive failures that disables the
// remote arm.
const DefaultThreshold = 3

// State is the breaker position.
type State string

const (
	StateEnabled  State = "enabled"
	StateDisabled State = "disabled"
)

// Status is a snapshot of the failure state.
type Status struct {
	Mode                State `json:"mode"`
	ConsecutiveFailures int   `json:"consecutive_failures"`
	Threshold           int   `json:"threshold"`
}

// Reason explains why a call was answered by the manual arm.
type Reason string

const (
	ReasonKillSwitch  Reason = "kill_switch"
	ReasonDisabled    Reason = "breaker_open"
	ReasonUnavailable Reason = "unavailable"
	ReasonFailure     Reason = "remote_failure"
	ReasonCanceled    Reason = "canceled"
)

// Journal persists one entry per remote failure.
type Journal interface {
	Record(at time.Time, failure int, message string) error
}

// Observer receives controller events, typically to export metrics.
type Observer interface {
	RemoteSucceeded(kind analysis.Kind, elapsed time.Duration)
	RemoteFailed(kind analysis.Kind, elapsed time.Duration)
	Fallback(kind analysis.Kind, reason Reason)
	StateChanged(status Status)
}

// Controller owns the process-wide failure state. The zero value is not
// usable; build one with New.
type Controller struct {
	mu        sync.Mutex
	failures  int
	disabled  bool
	threshold int

	timeout    time.Duration
	journal    Journal
	observer   Observer
	killSwitch KillSwitch
	logger     *zap.Logger
	now        func() time.Time
}

type Option func(*Controller)

// WithThreshold sets the consecutive failure count that disables the remote
// arm. Values below 1 keep the default.
func WithThreshold(n int) Option {
	return func(c *Controller) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// WithTimeout bounds every remote call. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

func WithJournal(j Journal) Option {
	return func(c *Controller) { c.journal = j }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observer = o }
}

func WithKillSwitch(k KillSwitch) Option {
	return func(c *Controller) { c.killSwitch = k }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

func New(opts ...Option) *Controller {
	c := &Controller{
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run answers one analysis call. The remote arm runs only when no kill switch
// is set and the breaker is closed; on any remote error the manual arm runs
// instead. Remote errors and panics never reach the caller. A panic in manual
// is not recovered.
func Run[T any](ctx context.Context, c *Controller, kind analysis.Kind, remote func(ctx context.Context) (T, error), manual func() T) (T, analysis.Mode) {
	if c.killSwitch != nil && c.killSwitch(kind) {
		return fallback(c, kind, ReasonKillSwitch, manual)
	}
	if remote == nil {
		return fallback(c, kind, ReasonUnavailable, manual)
	}
	if c.Disabled() {
		return fallback(c, kind, ReasonDisabled, manual)
	}

	callCtx := ctx
	if c.timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	started := c.now()
	result, err := callRemote(callCtx, remote)
	elapsed := c.now().Sub(started)

	switch {
	case err == nil:
		c.recordSuccess(kind, elapsed)
		return result, analysis.ModeRemote
	case errors.Is(err, ErrRemoteUnavailable):
		return fallback(c, kind, ReasonUnavailable, manual)
	case ctx.Err() != nil:
		c.logger.Debug("caller canceled remote analysis",
			append(logger.AnalysisFields(string(kind), ""), zap.Error(err))...,
		)
		return fallback(c, kind, ReasonCanceled, manual)
	default:
		c.recordFailure(kind, elapsed, err)
		return fallback(c, kind, ReasonFailure, manual)
	}
}

// callRemote turns a panic in the remote arm into an ordinary failure.
func callRemote[T any](ctx context.Context, remote func(ctx context.Context) (T, error)) (result T, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("remote analysis panicked: %v", r)
		}
	}()
	return remote(ctx)
}

func fallback[T any](c *Controller, kind analysis.Kind, reason Reason, manual func() T) (T, analysis.Mode) {
	if c.observer != nil {
		c.observer.Fallback(kind, reason)
	}
	return manual(), analysis.ModeManual
}

// Disabled reports whether the breaker is open.
func (c *Controller) Disabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.disabled
}

// Status returns a snapshot of the failure state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.statusLocked()
}

func (c *Controller) statusLocked() Status {
	mode := StateEnabled
	if c.disabled {
		mode = StateDisabled
	}
	return Status{Mode: mode, ConsecutiveFailures: c.failures, Threshold: c.threshold}
}

// Reset clears the failure counter and re-enables the remote arm.
func (c *Controller) Reset() Status {
	c.mu.Lock()
	c.failures = 0
	c.disabled = false
	status := c.statusLocked()
	c.mu.Unlock()

	c.logger.Info("remote analysis failover reset", zap.Int("threshold", status.Threshold))
	if c.observer != nil {
		c.observer.StateChanged(status)
	}
	return status
}

func (c *Controller) recordSuccess(kind analysis.Kind, elapsed time.Duration) {
	c.mu.Lock()
	changed := c.failures != 0 || c.disabled
	c.failures = 0
	c.disabled = false
	status := c.statusLocked()
	c.mu.Unlock()

	if c.observer != nil {
		c.observer.RemoteSucceeded(kind, elapsed)
		if changed {
			c.observer.StateChanged(status)
		}
	}
}

func (c *Controller) recordFailure(kind analysis.Kind, elapsed time.Duration, cause error) {
	c.mu.Lock()
	c.failures++
	failure := c.failures
	tripped := false
	if !c.disabled && c.failures >= c.threshold {
		c.disabled = true
		tripped = true
	}
	var journalErr error
	if c.journal != nil {
		journalErr = c.journal.Record(c.now(), failure, cause.Error())
	}
	status := c.statusLocked()
	c.mu.Unlock()

	fields := append(logger.AnalysisFields(string(kind), ""),
		zap.Int("consecutive_failures", failure),
		zap.Int("threshold", status.Threshold),
		zap.Error(cause),
	)
	c.logger.Warn("remote analysis failed, using manual analysis", fields...)

	if journalErr != nil {
		c.logger.Error("writing failure journal", zap.Error(journalErr))
	}
	if tripped {
		c.logger.Warn("remote analysis disabled after consecutive failures",
			zap.Int("consecutive_failures", failure),
			zap.Int("threshold", status.Threshold),
		)
	}

	if c.observer != nil {
		c.observer.RemoteFailed(kind, elapsed)
		c.observer.StateChanged(status)
	}
}
