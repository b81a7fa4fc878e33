package draftline

import (
	"context"
	"database/sql"

	"github.com/redis/go-redis/v9"

	"github.com/draftline/draftline/internal/engine"
	"github.com/draftline/draftline/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Engine               = api.Engine
	Session              = api.Session
	SessionSummary       = api.SessionSummary
	SessionListOptions   = api.SessionListOptions
	CreateSessionParams  = api.CreateSessionParams
	StepRecord           = api.StepRecord
	StepAttempt          = api.StepAttempt
	StepDefinition       = api.StepDefinition
	StepInput            = api.StepInput
	StepResult           = api.StepResult
	InputThreshold       = api.InputThreshold
	WorkflowVariant      = api.WorkflowVariant
	Status               = api.Status
	StepStatus           = api.StepStatus
	Owner                = api.Owner
	Phase                = api.Phase
	Generator            = api.Generator
	GeneratorFunc        = api.GeneratorFunc
	GenerationRequest    = api.GenerationRequest
	GenerationResult     = api.GenerationResult
	ResolvedContext      = api.ResolvedContext
	StepContext          = api.StepContext
	Exporter             = api.Exporter
	ExporterFunc         = api.ExporterFunc
	ExportRequest        = api.ExportRequest
	ExportResult         = api.ExportResult
	Observer             = api.Observer
	LoggingObserver      = api.LoggingObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	CompositeObserver    = api.CompositeObserver
	NoopObserver         = api.NoopObserver
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
)

// Re-export workflow variants and status values for convenience.

const (
	VariantBlog    = api.VariantBlog
	VariantWebinar = api.VariantWebinar

	StatusActive    = api.StatusActive
	StatusPaused    = api.StatusPaused
	StatusCompleted = api.StatusCompleted

	StepPending    = api.StepPending
	StepInProgress = api.StepInProgress
	StepCompleted  = api.StepCompleted
	StepSkipped    = api.StepSkipped

	OwnerAI      = api.OwnerAI
	OwnerHuman   = api.OwnerHuman
	OwnerAIHuman = api.OwnerAIHuman

	Phase1 = api.Phase1
	Phase2 = api.Phase2
)

// Re-export the business-rule error taxonomy.

var (
	ErrInvalidStepNumber    = api.ErrInvalidStepNumber
	ErrOutOfOrderExecution  = api.ErrOutOfOrderExecution
	ErrMissingDependency    = api.ErrMissingDependency
	ErrBelowMinimumInputs   = api.ErrBelowMinimumInputs
	ErrTooManyInputs        = api.ErrTooManyInputs
	ErrReasonRequired       = api.ErrReasonRequired
	ErrPhaseMismatch        = api.ErrPhaseMismatch
	ErrGenerationFailed     = api.ErrGenerationFailed
	ErrExportFailed         = api.ErrExportFailed
	ErrSkipNotAllowed       = api.ErrSkipNotAllowed
	ErrRedoNotAllowed       = api.ErrRedoNotAllowed
	ErrSessionNotFound      = api.ErrSessionNotFound
	ErrSessionCompleted     = api.ErrSessionCompleted
	ErrInvalidSessionParams = api.ErrInvalidSessionParams
)

// Engine constructors
// These wrap the internal/engine package so external callers
// never need to import internal packages.

// NewInMemoryEngine returns an Engine backed entirely by an in-memory
// session store.
func NewInMemoryEngine(gen Generator, exp Exporter) Engine {
	return engine.NewInMemoryEngine(gen, exp)
}

// NewInMemoryEngineWithObserver returns an in-memory Engine with the given Observer.
func NewInMemoryEngineWithObserver(gen Generator, exp Exporter, obs Observer) Engine {
	return engine.NewInMemoryEngineWithObserver(gen, exp, obs)
}

// NewFileEngine returns an Engine that persists each session as a JSON
// document under dir, written atomically (write-then-rename).
func NewFileEngine(dir string, gen Generator, exp Exporter) (Engine, error) {
	return engine.NewFileEngine(dir, gen, exp)
}

// NewSQLiteEngine returns an Engine that persists sessions in a SQLite
// database. The caller is responsible for importing a driver, e.g.
// "modernc.org/sqlite".
func NewSQLiteEngine(db *sql.DB, gen Generator, exp Exporter) (Engine, error) {
	return engine.NewSQLiteEngine(db, gen, exp)
}

// NewPostgresEngine returns an Engine that persists sessions in PostgreSQL.
func NewPostgresEngine(db *sql.DB, gen Generator, exp Exporter) (Engine, error) {
	return engine.NewPostgresEngine(db, gen, exp)
}

// NewRedisEngine returns an Engine that persists sessions in Redis.
func NewRedisEngine(client *redis.Client, gen Generator, exp Exporter) Engine {
	return engine.NewRedisEngine(client, gen, exp)
}

// Convenience helpers that just forward to the underlying Engine.

// CreateSession creates a new session for the given parameters.
func CreateSession(ctx context.Context, eng Engine, params CreateSessionParams) (*Session, error) {
	return eng.CreateSession(ctx, params)
}

// ExecuteStep runs one step of a session.
func ExecuteStep(ctx context.Context, eng Engine, sessionID string, step int, input *StepInput) (*StepResult, error) {
	return eng.ExecuteStep(ctx, sessionID, step, input)
}

// SkipStep skips a skippable step with a reason.
func SkipStep(ctx context.Context, eng Engine, sessionID string, step int, reason string) (*StepResult, error) {
	return eng.SkipStep(ctx, sessionID, step, reason)
}

// RedoStep regenerates an already completed AI step.
func RedoStep(ctx context.Context, eng Engine, sessionID string, step int) (*StepResult, error) {
	return eng.RedoStep(ctx, sessionID, step)
}

// ListSessions lists session summaries according to the given options.
func ListSessions(ctx context.Context, eng Engine, opts SessionListOptions) ([]SessionSummary, error) {
	return eng.ListSessions(ctx, opts)
}
