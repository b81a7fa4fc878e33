package engine

import (
	"context"
	"fmt"
	"strings"

	"github.com/draftline/draftline/pkg/api"
)

// SkipStep marks a skippable step skipped with a mandatory reason and
// advances the pointer exactly like a successful execution.
//
// Re-invoking with identical arguments is a no-op: the existing record
// is returned and no second history entry or persist happens.
func (e *engineImpl) SkipStep(ctx context.Context, sessionID string, stepNumber int, reason string) (*api.StepResult, error) {
	sess, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	def, err := e.registry.Definition(sess.Variant, sess.SchemaVersion, stepNumber)
	if err != nil {
		return nil, err
	}

	if rec, ok := sess.Steps[stepNumber]; ok &&
		rec.Status == api.StepSkipped && rec.SkipReason == reason {
		return &api.StepResult{Session: sess, Record: rec}, nil
	}

	if sess.Status == api.StatusCompleted {
		return nil, fmt.Errorf("session %s: %w", sessionID, api.ErrSessionCompleted)
	}
	if strings.TrimSpace(reason) == "" {
		return nil, fmt.Errorf("skipping step %d (%s) requires a reason: %w", stepNumber, def.Name, api.ErrReasonRequired)
	}
	if !def.CanSkip {
		return nil, fmt.Errorf("step %d (%s) cannot be skipped: %w", stepNumber, def.Name, api.ErrSkipNotAllowed)
	}
	if stepNumber != sess.CurrentStep {
		return nil, fmt.Errorf("step %d cannot be skipped while the session is at step %d: %w",
			stepNumber, sess.CurrentStep, api.ErrOutOfOrderExecution)
	}

	now := e.now().UTC()
	rec := e.record(sess, def)
	rec.Status = api.StepSkipped
	rec.Skipped = true
	rec.SkipReason = reason
	rec.Data = nil
	rec.Phase = api.PhaseNone
	rec.GeneratedPrompts = nil
	if rec.StartedAt.IsZero() {
		rec.StartedAt = now
	}
	rec.CompletedAt = now

	if sess.Status == api.StatusPaused {
		sess.Status = api.StatusActive
	}
	e.advance(sess, stepNumber)

	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}

	e.observer.OnStepSkipped(ctx, sess, def.Name, stepNumber, reason)
	return &api.StepResult{Session: sess, Record: rec}, nil
}

// RedoStep re-executes an already completed (or previously skipped)
// AI-owned step. The fresh output supersedes the prior attempt, which
// is appended to the record's history; downstream steps that consumed
// the old output are left untouched.
func (e *engineImpl) RedoStep(ctx context.Context, sessionID string, stepNumber int) (*api.StepResult, error) {
	sess, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Status == api.StatusCompleted {
		return nil, fmt.Errorf("session %s: %w", sessionID, api.ErrSessionCompleted)
	}

	def, err := e.registry.Definition(sess.Variant, sess.SchemaVersion, stepNumber)
	if err != nil {
		return nil, err
	}
	if !def.CanRedo {
		return nil, fmt.Errorf("step %d (%s) is %s-owned and cannot be redone: %w",
			stepNumber, def.Name, def.Owner, api.ErrRedoNotAllowed)
	}

	rec, ok := sess.Steps[stepNumber]
	if !ok || (rec.Status != api.StepCompleted && rec.Status != api.StepSkipped) {
		return nil, fmt.Errorf("step %d (%s) has not run yet and cannot be redone: %w",
			stepNumber, def.Name, api.ErrOutOfOrderExecution)
	}

	started := e.now().UTC()
	e.observer.OnStepStart(ctx, sess, def.Name, stepNumber)

	_, execErr := e.executeAI(ctx, sess, def, &api.StepInput{}, started, true)

	duration := e.now().UTC().Sub(started)
	e.observer.OnStepCompleted(ctx, sess, def.Name, stepNumber, execErr, duration)
	if execErr != nil {
		return nil, execErr
	}

	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}

	return &api.StepResult{Session: sess, Record: sess.Steps[stepNumber]}, nil
}

// PauseSession sets the session to paused. It never touches the
// current step or any record; resuming is simply executing the next
// step. Pausing a paused session is a no-op.
func (e *engineImpl) PauseSession(ctx context.Context, sessionID string) (*api.Session, error) {
	sess, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	switch sess.Status {
	case api.StatusCompleted:
		return nil, fmt.Errorf("session %s: %w", sessionID, api.ErrSessionCompleted)
	case api.StatusPaused:
		return sess, nil
	}

	sess.Status = api.StatusPaused
	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// ViewStep is pure read navigation. Any step at or below the current
// step may be viewed; forward jumps are rejected because the target's
// prerequisites are incomplete.
func (e *engineImpl) ViewStep(ctx context.Context, sessionID string, stepNumber int) (*api.StepRecord, error) {
	sess, err := e.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	def, err := e.registry.Definition(sess.Variant, sess.SchemaVersion, stepNumber)
	if err != nil {
		return nil, err
	}

	if stepNumber > sess.CurrentStep {
		return nil, fmt.Errorf("step %d is ahead of the session's current step %d: %w",
			stepNumber, sess.CurrentStep, api.ErrOutOfOrderExecution)
	}

	if rec, ok := sess.Steps[stepNumber]; ok {
		return rec.Clone(), nil
	}
	return &api.StepRecord{
		StepNumber: stepNumber,
		Name:       def.Name,
		Owner:      def.Owner,
		Status:     api.StepPending,
	}, nil
}
