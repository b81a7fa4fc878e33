package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/draftline/draftline/pkg/api"
)

func TestHumanStepBelowMinimumInputs(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)
	ctx := context.Background()

	advanceTo(t, env, sess, 5)

	// Secondary keywords wants 8-12 entries.
	_, err := env.engine.ExecuteStep(ctx, sess.ID, 5, &api.StepInput{Items: items(3)})
	if !errors.Is(err, api.ErrBelowMinimumInputs) {
		t.Fatalf("expected ErrBelowMinimumInputs, got %v", err)
	}

	reloaded, err := env.engine.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession failed: %v", err)
	}
	if reloaded.CurrentStep != 5 || reloaded.Steps[5].Status != api.StepPending {
		t.Fatalf("rejected submission mutated the session: step=%d status=%s",
			reloaded.CurrentStep, reloaded.Steps[5].Status)
	}

	// Resubmitting the same count with an explicit override succeeds.
	res, err := env.engine.ExecuteStep(ctx, sess.ID, 5, &api.StepInput{
		Items:             items(3),
		ProceedWithFewer:  true,
		FewerInputsReason: "niche topic, only three viable keywords exist",
	})
	if err != nil {
		t.Fatalf("override submission failed: %v", err)
	}
	if !res.Record.ProceededWithFewer {
		t.Fatal("record did not flag the fewer-inputs override")
	}
	if res.Record.FewerInputsReason == "" {
		t.Fatal("override reason was not recorded")
	}
	if res.Session.CurrentStep != 6 {
		t.Fatalf("expected pointer at 6 after override, got %d", res.Session.CurrentStep)
	}
}

func TestHumanStepOverrideRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)

	advanceTo(t, env, sess, 5)

	_, err := env.engine.ExecuteStep(context.Background(), sess.ID, 5, &api.StepInput{
		Items:            items(4),
		ProceedWithFewer: true,
	})
	if !errors.Is(err, api.ErrReasonRequired) {
		t.Fatalf("expected ErrReasonRequired, got %v", err)
	}
}

func TestHumanStepOverrideRejectsEmptySubmission(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)

	advanceTo(t, env, sess, 5)

	_, err := env.engine.ExecuteStep(context.Background(), sess.ID, 5, &api.StepInput{
		ProceedWithFewer:  true,
		FewerInputsReason: "nothing to add",
	})
	if !errors.Is(err, api.ErrBelowMinimumInputs) {
		t.Fatalf("expected ErrBelowMinimumInputs for zero items, got %v", err)
	}
}

func TestHumanStepTooManyInputs(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)

	advanceTo(t, env, sess, 5)

	_, err := env.engine.ExecuteStep(context.Background(), sess.ID, 5, &api.StepInput{Items: items(13)})
	if !errors.Is(err, api.ErrTooManyInputs) {
		t.Fatalf("expected ErrTooManyInputs, got %v", err)
	}
}

func TestHumanStepWithinRangeNeedsNoOverride(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)

	advanceTo(t, env, sess, 5)

	res, err := env.engine.ExecuteStep(context.Background(), sess.ID, 5, &api.StepInput{Items: items(10)})
	if err != nil {
		t.Fatalf("in-range submission failed: %v", err)
	}
	if res.Record.ProceededWithFewer {
		t.Fatal("in-range submission wrongly flagged as fewer-inputs")
	}
	if got := res.Record.Data["count"]; got != 10 {
		t.Fatalf("expected recorded count 10, got %v", got)
	}
}

func TestHumanStepWithoutThresholdAcceptsAnything(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)

	advanceTo(t, env, sess, 13)

	// Business info update carries no count range.
	res, err := env.engine.ExecuteStep(context.Background(), sess.ID, 13, &api.StepInput{
		Fields: map[string]any{"company": "Acme", "changed": false},
	})
	if err != nil {
		t.Fatalf("submission failed: %v", err)
	}
	if res.Record.Status != api.StepCompleted {
		t.Fatalf("expected completed record, got %s", res.Record.Status)
	}
	if res.Record.Data["company"] != "Acme" {
		t.Fatalf("field data not recorded: %v", res.Record.Data)
	}
}

func TestTwoPhaseHappyPath(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)
	ctx := context.Background()

	advanceTo(t, env, sess, 4)

	res, err := env.engine.ExecuteStep(ctx, sess.ID, 4, &api.StepInput{
		Phase:  api.Phase1,
		Fields: map[string]any{"raw_points": "founder interview notes"},
	})
	if err != nil {
		t.Fatalf("phase1 failed: %v", err)
	}
	if res.Record.Phase != api.Phase1Complete {
		t.Fatalf("expected phase1_complete, got %q", res.Record.Phase)
	}
	if res.Record.Status != api.StepInProgress {
		t.Fatalf("expected in_progress after phase1, got %s", res.Record.Status)
	}
	if len(res.Record.GeneratedPrompts) == 0 {
		t.Fatal("phase1 produced no prompts")
	}
	if res.Session.CurrentStep != 4 {
		t.Fatalf("phase1 must not advance the pointer, got %d", res.Session.CurrentStep)
	}

	answers := make([]string, len(res.Record.GeneratedPrompts))
	for i := range answers {
		answers[i] = "detailed answer"
	}
	res, err = env.engine.ExecuteStep(ctx, sess.ID, 4, &api.StepInput{
		Phase:   api.Phase2,
		Answers: answers,
	})
	if err != nil {
		t.Fatalf("phase2 failed: %v", err)
	}
	if res.Record.Phase != api.PhaseCompleted || res.Record.Status != api.StepCompleted {
		t.Fatalf("expected completed after phase2, got phase=%q status=%s",
			res.Record.Phase, res.Record.Status)
	}
	if res.Session.CurrentStep != 5 {
		t.Fatalf("expected pointer at 5 after phase2, got %d", res.Session.CurrentStep)
	}
}

func TestTwoPhaseAnswerCardinalityMismatch(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)
	ctx := context.Background()

	advanceTo(t, env, sess, 4)

	res, err := env.engine.ExecuteStep(ctx, sess.ID, 4, &api.StepInput{Phase: api.Phase1})
	if err != nil {
		t.Fatalf("phase1 failed: %v", err)
	}
	want := len(res.Record.GeneratedPrompts)

	_, err = env.engine.ExecuteStep(ctx, sess.ID, 4, &api.StepInput{
		Phase:   api.Phase2,
		Answers: make([]string, want-1),
	})
	if !errors.Is(err, api.ErrPhaseMismatch) {
		t.Fatalf("expected ErrPhaseMismatch for %d answers to %d prompts, got %v", want-1, want, err)
	}
}

func TestTwoPhaseRejectsPhaseTwoFirst(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)

	advanceTo(t, env, sess, 4)

	_, err := env.engine.ExecuteStep(context.Background(), sess.ID, 4, &api.StepInput{
		Phase:   api.Phase2,
		Answers: []string{"a", "b", "c"},
	})
	if !errors.Is(err, api.ErrPhaseMismatch) {
		t.Fatalf("expected ErrPhaseMismatch for phase2 before phase1, got %v", err)
	}
}

func TestTwoPhaseDefaultsToNextPhase(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)
	ctx := context.Background()

	advanceTo(t, env, sess, 4)

	// Empty phase on a fresh record means phase1.
	res, err := env.engine.ExecuteStep(ctx, sess.ID, 4, &api.StepInput{})
	if err != nil {
		t.Fatalf("implicit phase1 failed: %v", err)
	}
	if res.Record.Phase != api.Phase1Complete {
		t.Fatalf("expected phase1_complete, got %q", res.Record.Phase)
	}

	// Empty phase once phase1 is done means phase2.
	answers := make([]string, len(res.Record.GeneratedPrompts))
	res, err = env.engine.ExecuteStep(ctx, sess.ID, 4, &api.StepInput{Answers: answers})
	if err != nil {
		t.Fatalf("implicit phase2 failed: %v", err)
	}
	if res.Record.Status != api.StepCompleted {
		t.Fatalf("expected completed, got %s", res.Record.Status)
	}
}

func TestAIStepRecordsPromptAndDuration(t *testing.T) {
	env := newTestEnv(t)
	sess := newBlogSession(t, env)

	res, err := env.engine.ExecuteStep(context.Background(), sess.ID, 1, nil)
	if err != nil {
		t.Fatalf("ExecuteStep failed: %v", err)
	}
	if res.Record.Prompt == "" {
		t.Fatal("AI step recorded no prompt")
	}
	if res.Record.StartedAt.IsZero() || res.Record.CompletedAt.IsZero() {
		t.Fatal("AI step missing timestamps")
	}
	if res.Record.CompletedAt.Before(res.Record.StartedAt) {
		t.Fatal("completion precedes start")
	}
}
