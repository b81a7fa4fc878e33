package api

import "context"

// Engine is the high-level session workflow API.
//
// One session is owned by one actor at a time; all methods operate on
// explicit session IDs, there is no ambient "current session". Every
// mutation is persisted through the session store before the method
// returns.
type Engine interface {
	// CreateSession allocates a new session: status active,
	// current step 1, schema version latest.
	CreateSession(ctx context.Context, params CreateSessionParams) (*Session, error)

	// GetSession loads a session by ID.
	GetSession(ctx context.Context, id string) (*Session, error)

	// ListSessions returns session summaries matching the options,
	// ordered most-recently-updated first.
	ListSessions(ctx context.Context, opts SessionListOptions) ([]SessionSummary, error)

	// StepDefinition returns the catalog entry for a step of the
	// given variant at the given schema version.
	StepDefinition(variant WorkflowVariant, schemaVersion, stepNumber int) (StepDefinition, error)

	// ExecuteStep runs one step: human-input validation, AI
	// generation, or two-phase routing, then advances the current
	// step. Executing the final step completes the session.
	ExecuteStep(ctx context.Context, sessionID string, stepNumber int, input *StepInput) (*StepResult, error)

	// SkipStep marks a skippable step skipped with a mandatory
	// reason and advances identically to a successful execution.
	// Re-invoking with identical arguments is a no-op.
	SkipStep(ctx context.Context, sessionID string, stepNumber int, reason string) (*StepResult, error)

	// RedoStep re-executes an already completed (or skipped) AI step,
	// superseding its data while appending the prior attempt to the
	// record's history. Later steps are not re-triggered.
	RedoStep(ctx context.Context, sessionID string, stepNumber int) (*StepResult, error)

	// PauseSession sets the session to paused. It alters neither the
	// current step nor any step record; resuming is simply executing
	// the next step.
	PauseSession(ctx context.Context, sessionID string) (*Session, error)

	// ViewStep is pure read navigation over steps at or below the
	// current step. Forward jumps past the current step are rejected.
	ViewStep(ctx context.Context, sessionID string, stepNumber int) (*StepRecord, error)
}
