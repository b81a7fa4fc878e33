package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/draftline/draftline/pkg/api"
)

// ExecuteStep runs one step of a session: precondition checks, owner
// routing (human validation / AI generation / two-phase), record
// merge, pointer advance, and a single whole-session persist.
//
// Any failure before the persist leaves the session exactly as it was
// loaded, so a failed or timed-out AI call can simply be retried.
func (e *engineImpl) ExecuteStep(ctx context.Context, sessionID string, stepNumber int, input *api.StepInput) (*api.StepResult, error) {
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

	redo := false
	switch {
	case stepNumber == sess.CurrentStep:
	case stepNumber < sess.CurrentStep && def.CanRedo:
		redo = true
	default:
		return nil, fmt.Errorf("step %d cannot run while the session is at step %d: %w",
			stepNumber, sess.CurrentStep, api.ErrOutOfOrderExecution)
	}

	if input == nil {
		input = &api.StepInput{}
	}

	started := e.now().UTC()
	e.observer.OnStepStart(ctx, sess, def.Name, stepNumber)

	var execErr error
	var advanced bool
	switch {
	case def.TwoPhase:
		advanced, execErr = e.executeTwoPhase(ctx, sess, def, input, started)
	case def.Owner == api.OwnerHuman:
		advanced, execErr = e.executeHuman(sess, def, input, started)
	default:
		advanced, execErr = e.executeAI(ctx, sess, def, input, started, redo)
	}

	duration := e.now().UTC().Sub(started)
	e.observer.OnStepCompleted(ctx, sess, def.Name, stepNumber, execErr, duration)
	if execErr != nil {
		return nil, execErr
	}

	// Executing a step on a paused session implicitly resumes it.
	if sess.Status == api.StatusPaused {
		sess.Status = api.StatusActive
	}
	if advanced {
		e.advance(sess, stepNumber)
	}

	if err := e.save(ctx, sess); err != nil {
		return nil, err
	}

	if sess.Status == api.StatusCompleted {
		e.observer.OnSessionCompleted(ctx, sess)
	}

	return &api.StepResult{Session: sess, Record: sess.Steps[stepNumber]}, nil
}

// executeHuman validates actor input against the step's declared
// threshold and records the payload.
func (e *engineImpl) executeHuman(sess *api.Session, def api.StepDefinition, input *api.StepInput, started time.Time) (bool, error) {
	proceeded, err := validateItemCount(def, input)
	if err != nil {
		return false, err
	}

	data := map[string]any{
		"items": input.Items,
		"count": len(input.Items),
	}
	for k, v := range input.Fields {
		data[k] = v
	}

	rec := e.record(sess, def)
	rec.Status = api.StepCompleted
	rec.Data = data
	rec.ProceededWithFewer = proceeded
	if proceeded {
		rec.FewerInputsReason = input.FewerInputsReason
	}
	e.stamp(rec, started)
	return true, nil
}

// executeAI gathers the step's declared upstream outputs, delegates to
// the generation collaborator, and on the export step hands the
// assembled content to the exporter.
func (e *engineImpl) executeAI(ctx context.Context, sess *api.Session, def api.StepDefinition, input *api.StepInput, started time.Time, redo bool) (bool, error) {
	rc, err := gatherInputs(sess, e.registry, def)
	if err != nil {
		return false, err
	}

	res, err := e.generate(ctx, sess, def, api.PhaseNone, rc, input)
	if err != nil {
		return false, err
	}

	data := res.Data
	if data == nil {
		data = map[string]any{}
	}

	if def.Export {
		if e.exporter == nil {
			return false, fmt.Errorf("step %d (%s): no exporter configured: %w", def.Number, def.Name, api.ErrExportFailed)
		}
		exp, err := e.exporter.Export(ctx, api.ExportRequest{Session: sess, Content: rc})
		if err != nil {
			return false, fmt.Errorf("step %d (%s): %w: %v", def.Number, def.Name, api.ErrExportFailed, err)
		}
		data["export_location"] = exp.Location
	}

	rec := e.record(sess, def)
	if redo {
		e.supersede(rec)
	}
	rec.Status = api.StepCompleted
	rec.Data = data
	rec.Prompt = res.Prompt
	rec.Skipped = false
	rec.SkipReason = ""
	e.stamp(rec, started)

	// A redo of an earlier step must not move the pointer; advance is
	// a no-op there, and downstream records are deliberately left
	// untouched even though they consumed the superseded output.
	return true, nil
}

// executeTwoPhase routes a two-phase step: phase1 turns raw human
// input into AI-generated prompts; phase2 matches the human answers
// against those prompts and triggers the final synthesis.
func (e *engineImpl) executeTwoPhase(ctx context.Context, sess *api.Session, def api.StepDefinition, input *api.StepInput, started time.Time) (bool, error) {
	rec := e.record(sess, def)

	phase := input.Phase
	if phase == api.PhaseNone {
		if rec.Phase == api.Phase1Complete {
			phase = api.Phase2
		} else {
			phase = api.Phase1
		}
	}

	switch phase {
	case api.Phase1:
		rc, err := gatherInputs(sess, e.registry, def)
		if err != nil {
			return false, err
		}
		res, err := e.generate(ctx, sess, def, api.Phase1, rc, input)
		if err != nil {
			return false, err
		}
		if len(res.GeneratedPrompts) == 0 {
			return false, fmt.Errorf("step %d (%s): phase1 produced no prompts: %w", def.Number, def.Name, api.ErrGenerationFailed)
		}

		data := res.Data
		if data == nil {
			data = map[string]any{}
		}
		data["phase"] = string(api.Phase1Complete)

		rec.Status = api.StepInProgress
		rec.Phase = api.Phase1Complete
		rec.GeneratedPrompts = res.GeneratedPrompts
		rec.Data = data
		rec.Prompt = res.Prompt
		if rec.StartedAt.IsZero() {
			rec.StartedAt = started
		}
		// Phase1 does not complete the step; the pointer stays put.
		return false, nil

	case api.Phase2:
		if rec.Phase != api.Phase1Complete {
			return false, fmt.Errorf("step %d (%s): phase2 submitted before phase1 produced prompts: %w",
				def.Number, def.Name, api.ErrPhaseMismatch)
		}
		if len(input.Answers) != len(rec.GeneratedPrompts) {
			return false, fmt.Errorf("step %d (%s): %d answers for %d prompts: %w",
				def.Number, def.Name, len(input.Answers), len(rec.GeneratedPrompts), api.ErrPhaseMismatch)
		}

		rc, err := gatherInputs(sess, e.registry, def)
		if err != nil {
			return false, err
		}
		res, err := e.generate(ctx, sess, def, api.Phase2, rc, input)
		if err != nil {
			return false, err
		}

		data := res.Data
		if data == nil {
			data = map[string]any{}
		}
		data["phase"] = string(api.PhaseCompleted)

		rec.Status = api.StepCompleted
		rec.Phase = api.PhaseCompleted
		rec.Data = data
		rec.Prompt = res.Prompt
		e.stamp(rec, rec.StartedAt)
		return true, nil

	default:
		return false, fmt.Errorf("step %d (%s): unknown phase %q: %w", def.Number, def.Name, phase, api.ErrPhaseMismatch)
	}
}

// generate delegates to the AI/search collaborator. Failures wrap
// ErrGenerationFailed; the caller has not mutated persisted state yet,
// so a retry is side-effect free.
func (e *engineImpl) generate(ctx context.Context, sess *api.Session, def api.StepDefinition, phase api.Phase, rc api.ResolvedContext, input *api.StepInput) (*api.GenerationResult, error) {
	if e.generator == nil {
		return nil, fmt.Errorf("step %d (%s): no generator configured: %w", def.Number, def.Name, api.ErrGenerationFailed)
	}

	res, err := e.generator.Generate(ctx, api.GenerationRequest{
		SessionID:      sess.ID,
		Variant:        sess.Variant,
		StepNumber:     def.Number,
		StepName:       def.Name,
		PrimaryKeyword: sess.PrimaryKeyword,
		BlogType:       sess.BlogType,
		Phase:          phase,
		Context:        rc,
		Input:          input,
	})
	if err != nil {
		return nil, fmt.Errorf("step %d (%s): %w: %v", def.Number, def.Name, api.ErrGenerationFailed, err)
	}
	if res == nil {
		return nil, fmt.Errorf("step %d (%s): collaborator returned no result: %w", def.Number, def.Name, api.ErrGenerationFailed)
	}
	return res, nil
}

// record returns the session's step record, creating the pending shell
// if an older persisted session predates pre-seeding.
func (e *engineImpl) record(sess *api.Session, def api.StepDefinition) *api.StepRecord {
	rec, ok := sess.Steps[def.Number]
	if !ok {
		rec = &api.StepRecord{
			StepNumber: def.Number,
			Name:       def.Name,
			Owner:      def.Owner,
			Status:     api.StepPending,
		}
		sess.Steps[def.Number] = rec
	}
	return rec
}

// supersede archives the record's current attempt into its history
// before a redo overwrites it. The original StartedAt is kept on the
// record itself for lineage.
func (e *engineImpl) supersede(rec *api.StepRecord) {
	if rec.Status != api.StepCompleted && rec.Status != api.StepSkipped {
		return
	}
	rec.History = append(rec.History, api.StepAttempt{
		Status:      rec.Status,
		Data:        rec.Data,
		Prompt:      rec.Prompt,
		Skipped:     rec.Skipped,
		SkipReason:  rec.SkipReason,
		StartedAt:   rec.StartedAt,
		CompletedAt: rec.CompletedAt,
	})
}

// stamp finalizes a record's timing. A redo keeps the first attempt's
// StartedAt.
func (e *engineImpl) stamp(rec *api.StepRecord, started time.Time) {
	if rec.StartedAt.IsZero() {
		rec.StartedAt = started
	}
	rec.CompletedAt = e.now().UTC()
	rec.Duration = rec.CompletedAt.Sub(rec.StartedAt)
}

// validateItemCount enforces the declared (min, max) input threshold,
// honoring the proceed-with-fewer override.
func validateItemCount(def api.StepDefinition, input *api.StepInput) (proceeded bool, err error) {
	t := def.Threshold
	if t == nil {
		return false, nil
	}

	n := len(input.Items)
	if n > t.Max {
		return false, fmt.Errorf("step %d (%s) accepts at most %d items, got %d: %w",
			def.Number, def.Name, t.Max, n, api.ErrTooManyInputs)
	}
	if n >= t.Min {
		return false, nil
	}

	if !input.ProceedWithFewer {
		return false, fmt.Errorf("step %d (%s) requires %d-%d items, got %d; add %d more or proceed with fewer: %w",
			def.Number, def.Name, t.Min, t.Max, n, t.Min-n, api.ErrBelowMinimumInputs)
	}
	if strings.TrimSpace(input.FewerInputsReason) == "" {
		return false, fmt.Errorf("step %d (%s): proceeding with fewer inputs needs a justification: %w",
			def.Number, def.Name, api.ErrReasonRequired)
	}
	if n == 0 {
		return false, fmt.Errorf("step %d (%s): at least one item is required even when proceeding with fewer: %w",
			def.Number, def.Name, api.ErrBelowMinimumInputs)
	}
	return true, nil
}
