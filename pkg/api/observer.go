package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"
)

// Observer receives callbacks from the engine for logging and metrics.
//
// Implementations should be fast and non-blocking; heavy work should be
// done asynchronously so as not to delay step execution.
type Observer interface {
	// OnSessionStart is called once when a session is created.
	OnSessionStart(ctx context.Context, sess *Session)

	// OnSessionCompleted is called when a session reaches
	// StatusCompleted via its terminal step.
	OnSessionCompleted(ctx context.Context, sess *Session)

	// OnStepStart is called before a step operation runs, for both
	// human-input validation and AI generation.
	OnStepStart(ctx context.Context, sess *Session, stepName string, stepNumber int)

	// OnStepCompleted is called after a step operation finishes, for
	// both successes and failures (err != nil).
	OnStepCompleted(ctx context.Context, sess *Session, stepName string, stepNumber int, err error, duration time.Duration)

	// OnStepSkipped is called when a step is skipped with a reason.
	OnStepSkipped(ctx context.Context, sess *Session, stepName string, stepNumber int, reason string)
}

// NoopObserver is an Observer that does nothing.
// It is used as the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnSessionStart(ctx context.Context, sess *Session)     {}
func (NoopObserver) OnSessionCompleted(ctx context.Context, sess *Session) {}
func (NoopObserver) OnStepStart(ctx context.Context, sess *Session, stepName string, n int) {
}
func (NoopObserver) OnStepCompleted(ctx context.Context, sess *Session, stepName string, n int, err error, d time.Duration) {
}
func (NoopObserver) OnStepSkipped(ctx context.Context, sess *Session, stepName string, n int, reason string) {
}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to each
// non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnSessionStart(ctx context.Context, sess *Session) {
	for _, o := range c.observers {
		o.OnSessionStart(ctx, sess)
	}
}

func (c *CompositeObserver) OnSessionCompleted(ctx context.Context, sess *Session) {
	for _, o := range c.observers {
		o.OnSessionCompleted(ctx, sess)
	}
}

func (c *CompositeObserver) OnStepStart(ctx context.Context, sess *Session, stepName string, n int) {
	for _, o := range c.observers {
		o.OnStepStart(ctx, sess, stepName, n)
	}
}

func (c *CompositeObserver) OnStepCompleted(ctx context.Context, sess *Session, stepName string, n int, err error, d time.Duration) {
	for _, o := range c.observers {
		o.OnStepCompleted(ctx, sess, stepName, n, err, d)
	}
}

func (c *CompositeObserver) OnStepSkipped(ctx context.Context, sess *Session, stepName string, n int, reason string) {
	for _, o := range c.observers {
		o.OnStepSkipped(ctx, sess, stepName, n, reason)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs session and step
// lifecycle events using the provided slog.Logger. If logger is nil,
// slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnSessionStart(ctx context.Context, sess *Session) {
	o.Logger.InfoContext(ctx, "session_start",
		slog.String("session_id", sess.ID),
		slog.String("variant", string(sess.Variant)),
		slog.String("keyword", sess.PrimaryKeyword),
	)
}

func (o *LoggingObserver) OnSessionCompleted(ctx context.Context, sess *Session) {
	o.Logger.InfoContext(ctx, "session_completed",
		slog.String("session_id", sess.ID),
		slog.String("variant", string(sess.Variant)),
	)
}

func (o *LoggingObserver) OnStepStart(ctx context.Context, sess *Session, stepName string, n int) {
	o.Logger.DebugContext(ctx, "step_start",
		slog.String("session_id", sess.ID),
		slog.String("step", stepName),
		slog.Int("step_number", n),
	)
}

func (o *LoggingObserver) OnStepCompleted(ctx context.Context, sess *Session, stepName string, n int, err error, d time.Duration) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(ctx, level, "step_completed",
		slog.String("session_id", sess.ID),
		slog.String("step", stepName),
		slog.Int("step_number", n),
		slog.Duration("duration", d),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnStepSkipped(ctx context.Context, sess *Session, stepName string, n int, reason string) {
	o.Logger.InfoContext(ctx, "step_skipped",
		slog.String("session_id", sess.ID),
		slog.String("step", stepName),
		slog.Int("step_number", n),
		slog.String("reason", reason),
	)
}

// BasicMetrics collects simple counters and aggregate step durations.
// It implements Observer, and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	NoopObserver

	sessionsStarted   atomic.Int64
	sessionsCompleted atomic.Int64
	stepsCompleted    atomic.Int64
	stepsFailed       atomic.Int64
	stepsSkipped      atomic.Int64
	totalStepDuration atomic.Int64 // nanoseconds
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	SessionsStarted   int64
	SessionsCompleted int64
	ActiveSessions    int64

	StepsCompleted  int64
	StepsFailed     int64
	StepsSkipped    int64
	AvgStepDuration time.Duration
}

func (m *BasicMetrics) OnSessionStart(ctx context.Context, sess *Session) {
	m.sessionsStarted.Add(1)
}

func (m *BasicMetrics) OnSessionCompleted(ctx context.Context, sess *Session) {
	m.sessionsCompleted.Add(1)
}

func (m *BasicMetrics) OnStepCompleted(ctx context.Context, sess *Session, stepName string, n int, err error, d time.Duration) {
	if err != nil {
		m.stepsFailed.Add(1)
		return
	}
	// Only successful steps count toward the average duration.
	m.stepsCompleted.Add(1)
	m.totalStepDuration.Add(int64(d))
}

func (m *BasicMetrics) OnStepSkipped(ctx context.Context, sess *Session, stepName string, n int, reason string) {
	m.stepsSkipped.Add(1)
}

// Snapshot returns a point-in-time copy of the collected metrics.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	started := m.sessionsStarted.Load()
	completed := m.sessionsCompleted.Load()
	steps := m.stepsCompleted.Load()

	var avg time.Duration
	if steps > 0 {
		avg = time.Duration(m.totalStepDuration.Load() / steps)
	}

	return BasicMetricsSnapshot{
		SessionsStarted:   started,
		SessionsCompleted: completed,
		ActiveSessions:    started - completed,
		StepsCompleted:    steps,
		StepsFailed:       m.stepsFailed.Load(),
		StepsSkipped:      m.stepsSkipped.Load(),
		AvgStepDuration:   avg,
	}
}
