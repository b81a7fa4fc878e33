package api

// WorkflowVariant selects which fixed step catalog a session follows.
type WorkflowVariant string

const (
	// VariantBlog is the standard 22-step blog-creation workflow
	// (20 steps for sessions created under schema version 1).
	VariantBlog WorkflowVariant = "blog"

	// VariantWebinar is the 15-step webinar-to-blog workflow.
	VariantWebinar WorkflowVariant = "webinar"
)

// InputThreshold declares how many input items a human step requires.
// Execution is rejected unless the item count is within [Min, Max],
// or the actor explicitly proceeds with fewer inputs (count must then
// still be > 0 and <= Max) with a justification.
type InputThreshold struct {
	Min int
	Max int
}

// StepDefinition is one entry in the fixed step catalog.
// Definitions are static: the registry exposes lookups only, no
// mutation.
type StepDefinition struct {
	Number int
	Name   string
	Owner  Owner

	// CanSkip marks steps the human may skip with a reason.
	CanSkip bool

	// CanRedo marks steps whose completed output may be regenerated.
	// Only AI-owned steps are redoable.
	CanRedo bool

	// TwoPhase marks AI+Human steps that run phase1 (human input →
	// AI-generated prompts) then phase2 (human answers → synthesis).
	TwoPhase bool

	// Threshold is the declared input-count range for human steps.
	// Nil means the step accepts any input count.
	Threshold *InputThreshold

	// DependsOn lists prior step numbers whose completed-or-skipped
	// output this step's operation consumes.
	DependsOn []int

	// Export marks the step that hands the assembled blog content to
	// the file-export collaborator.
	Export bool
}

// StepInput carries the actor-supplied input for one step execution.
type StepInput struct {
	// Items are the countable input units (keywords, data points,
	// resource links, ...) validated against the step's threshold.
	Items []any

	// Fields holds additional free-form named values for the step.
	Fields map[string]any

	// Phase routes two-phase steps. Empty means phase1 on the first
	// submission.
	Phase Phase

	// Answers are the phase2 responses to the phase1-generated
	// prompts. Their count must match the prompt count exactly.
	Answers []string

	// ProceedWithFewer, together with a non-empty FewerInputsReason,
	// permits an item count below the declared minimum.
	ProceedWithFewer  bool
	FewerInputsReason string
}

// StepResult is returned by step executions and transitions.
type StepResult struct {
	Session *Session
	Record  *StepRecord
}
