package api

import (
	"time"
)

// Status represents the lifecycle state of a blog-creation session.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// StepStatus represents the state of a single step within a session.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepSkipped    StepStatus = "skipped"
)

// Owner identifies who drives a step: the AI collaborator, the human
// actor, or both (two-phase steps).
type Owner string

const (
	OwnerAI      Owner = "AI"
	OwnerHuman   Owner = "Human"
	OwnerAIHuman Owner = "AI+Human"
)

// Phase tracks progress through a two-phase step.
// phase1 captures raw human input and produces AI-generated prompts;
// phase2 captures the human answers to those prompts and triggers the
// final AI synthesis.
type Phase string

const (
	PhaseNone      Phase = ""
	Phase1         Phase = "phase1"
	Phase1Complete Phase = "phase1_complete"
	Phase2         Phase = "phase2"
	PhaseCompleted Phase = "completed"
)

// Session is the persisted aggregate for one blog-creation run.
//
// PrimaryKeyword, BlogType and SchemaVersion are immutable after
// creation. CurrentStep only moves forward; redo and previous-step
// viewing operate on steps at or below it without rewinding it.
type Session struct {
	ID             string              `json:"session_id"`
	Variant        WorkflowVariant     `json:"variant"`
	PrimaryKeyword string              `json:"primary_keyword"`
	BlogType       string              `json:"blog_type"`
	SchemaVersion  int                 `json:"schema_version"`
	Status         Status              `json:"status"`
	CurrentStep    int                 `json:"current_step"`
	Steps          map[int]*StepRecord `json:"steps"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Version is an optimistic concurrency counter. Stores reject an
	// update whose Version does not match the persisted one, so two
	// writers cannot silently clobber each other at whole-session
	// granularity.
	Version int64 `json:"version"`
}

// StepRecord is the execution history and result of one step within a
// session.
type StepRecord struct {
	StepNumber int        `json:"step_number"`
	Name       string     `json:"step_name"`
	Owner      Owner      `json:"owner"`
	Status     StepStatus `json:"status"`

	// Data is the step-specific structured payload: keyword lists,
	// collected facts, generated draft text and so on. Its shape is
	// validated at the executor boundary; downstream steps read it
	// only through the resolved context the assembler builds.
	Data map[string]any `json:"data,omitempty"`

	// Phase and GeneratedPrompts are only used by two-phase steps.
	Phase            Phase    `json:"phase,omitempty"`
	GeneratedPrompts []string `json:"generated_prompts,omitempty"`

	// Prompt is the captured LLM prompt for audit and transparency.
	// Display-only; never consulted by workflow logic.
	Prompt string `json:"llm_prompt,omitempty"`

	Skipped    bool   `json:"skipped,omitempty"`
	SkipReason string `json:"skip_reason,omitempty"`

	ProceededWithFewer bool   `json:"proceeded_with_fewer_inputs,omitempty"`
	FewerInputsReason  string `json:"fewer_inputs_reason,omitempty"`

	StartedAt   time.Time     `json:"started_at,omitempty"`
	CompletedAt time.Time     `json:"completed_at,omitempty"`
	Duration    time.Duration `json:"duration,omitempty"`

	// History holds superseded attempts. Redo appends the previous
	// result here rather than deleting it, preserving audit lineage.
	History []StepAttempt `json:"history,omitempty"`
}

// StepAttempt is a superseded execution or skip of a step, retained
// when the step is redone.
type StepAttempt struct {
	Status      StepStatus     `json:"status"`
	Data        map[string]any `json:"data,omitempty"`
	Prompt      string         `json:"llm_prompt,omitempty"`
	Skipped     bool           `json:"skipped,omitempty"`
	SkipReason  string         `json:"skip_reason,omitempty"`
	StartedAt   time.Time      `json:"started_at,omitempty"`
	CompletedAt time.Time      `json:"completed_at,omitempty"`
}

// SessionSummary is the listing projection of a session.
type SessionSummary struct {
	ID             string          `json:"session_id"`
	Variant        WorkflowVariant `json:"variant"`
	PrimaryKeyword string          `json:"primary_keyword"`
	Status         Status          `json:"status"`
	CurrentStep    int             `json:"current_step"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// SessionListOptions controls how sessions are listed.
// Zero values mean "no filter" for that field. Results are ordered
// most-recently-updated first; Limit/Offset paginate over that order.
type SessionListOptions struct {
	Status  Status
	Variant WorkflowVariant
	Limit   int
	Offset  int
}

// CreateSessionParams are the immutable creation-time parameters of a
// session.
type CreateSessionParams struct {
	Variant        WorkflowVariant
	PrimaryKeyword string

	// BlogType is a free-form description of the kind of post to
	// produce. It must contain at least MinBlogTypeWords words.
	BlogType string
}

// MinBlogTypeWords is the minimum word count accepted for
// CreateSessionParams.BlogType.
const MinBlogTypeWords = 10

// Clone returns a deep copy of the session. Stores hand out clones so
// no caller can mutate persisted state behind the engine's back.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s
	out.Steps = make(map[int]*StepRecord, len(s.Steps))
	for n, rec := range s.Steps {
		out.Steps[n] = rec.Clone()
	}
	return &out
}

// Clone returns a deep copy of the step record.
func (r *StepRecord) Clone() *StepRecord {
	if r == nil {
		return nil
	}
	out := *r
	out.Data = cloneData(r.Data)
	out.GeneratedPrompts = append([]string(nil), r.GeneratedPrompts...)
	out.History = make([]StepAttempt, len(r.History))
	for i, a := range r.History {
		out.History[i] = a
		out.History[i].Data = cloneData(a.Data)
	}
	return &out
}

// Summary returns the listing projection of the session.
func (s *Session) Summary() SessionSummary {
	return SessionSummary{
		ID:             s.ID,
		Variant:        s.Variant,
		PrimaryKeyword: s.PrimaryKeyword,
		Status:         s.Status,
		CurrentStep:    s.CurrentStep,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      s.UpdatedAt,
	}
}

func cloneData(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = cloneValue(v)
	}
	return out
}

// cloneValue deep-copies the JSON-shaped values step data is made of.
// Other types are copied by value.
func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		return cloneData(t)
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = cloneValue(e)
		}
		return out
	case []string:
		return append([]string(nil), t...)
	default:
		return v
	}
}
