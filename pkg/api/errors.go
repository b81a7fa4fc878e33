package api

import "errors"

// Business-rule failures returned by the engine. Callers match them
// with errors.Is; the wrapped message carries the actionable detail
// (e.g. how many more keywords are needed).
var (
	// ErrInvalidStepNumber is returned when a step number does not
	// exist in the session's step catalog.
	ErrInvalidStepNumber = errors.New("invalid step number")

	// ErrOutOfOrderExecution is returned when an actor targets a step
	// other than the current one without redo or review eligibility.
	ErrOutOfOrderExecution = errors.New("out-of-order step execution")

	// ErrMissingDependency is returned when an upstream step this
	// step depends on is neither completed nor skipped.
	ErrMissingDependency = errors.New("missing step dependency")

	// ErrBelowMinimumInputs is returned when a human step receives
	// fewer items than its declared minimum without an override.
	ErrBelowMinimumInputs = errors.New("below minimum inputs")

	// ErrTooManyInputs is returned when the item count exceeds the
	// declared maximum. The fewer-inputs override never lifts the
	// maximum.
	ErrTooManyInputs = errors.New("too many inputs")

	// ErrReasonRequired is returned when a skip or fewer-inputs
	// override is attempted without a justification string.
	ErrReasonRequired = errors.New("reason required")

	// ErrPhaseMismatch is returned when a two-phase step submission
	// does not line up with its recorded phase, including a phase2
	// answer count that disagrees with the phase1 prompt count.
	ErrPhaseMismatch = errors.New("phase mismatch")

	// ErrGenerationFailed is returned when the AI/search collaborator
	// errored or timed out. Session state is guaranteed unchanged, so
	// the actor can retry without side effects.
	ErrGenerationFailed = errors.New("generation failed")

	// ErrExportFailed is returned when the file-export collaborator
	// fails on the export step. Session state is unchanged.
	ErrExportFailed = errors.New("export failed")

	// ErrSkipNotAllowed is returned when the step definition forbids
	// skipping.
	ErrSkipNotAllowed = errors.New("skip not allowed")

	// ErrRedoNotAllowed is returned when redo is requested for a step
	// that is not AI-owned.
	ErrRedoNotAllowed = errors.New("redo not allowed")

	// ErrSessionNotFound is returned when no session exists for the
	// given ID.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionCompleted is returned when a mutation targets a
	// completed session. Completed is terminal; the session remains
	// viewable.
	ErrSessionCompleted = errors.New("session already completed")

	// ErrInvalidSessionParams is returned when creation-time
	// parameters fail validation.
	ErrInvalidSessionParams = errors.New("invalid session parameters")
)
