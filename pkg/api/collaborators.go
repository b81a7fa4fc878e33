package api

import "context"

// StepContext is one upstream step's contribution to a resolved
// context. A skipped dependency contributes an empty Data map with
// Skipped set, so downstream generation can proceed gracefully around
// optional skips.
type StepContext struct {
	StepNumber int
	Name       string
	Skipped    bool
	Data       map[string]any
}

// ResolvedContext is the read-only composition of upstream step
// outputs, keyed by step number, handed to the generation collaborator.
type ResolvedContext map[int]StepContext

// GenerationRequest describes one AI/search generation unit of work.
type GenerationRequest struct {
	SessionID      string
	Variant        WorkflowVariant
	StepNumber     int
	StepName       string
	PrimaryKeyword string
	BlogType       string

	// Phase is set for two-phase steps: Phase1 asks for prompts,
	// Phase2 asks for the final synthesis.
	Phase Phase

	// Context holds the resolved upstream outputs per DependsOn.
	Context ResolvedContext

	// Input is the actor input, when the step carries any (two-phase
	// steps and AI steps that refine human input).
	Input *StepInput
}

// GenerationResult is the collaborator's output for one request.
type GenerationResult struct {
	// Data is the structured step payload to record.
	Data map[string]any

	// Prompt is the prompt text that produced Data, captured for
	// audit display.
	Prompt string

	// GeneratedPrompts are the phase2 questions produced by a
	// two-phase step's phase1 call.
	GeneratedPrompts []string
}

// Generator is the external AI/search collaborator. The engine treats
// it as a black box with a single await point; failures surface as
// ErrGenerationFailed and leave session state untouched.
type Generator interface {
	Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error)
}

// ExportRequest carries the assembled final blog content and session
// metadata to the file-export collaborator on the export step.
type ExportRequest struct {
	Session *Session

	// Content is the resolved context of the export step's
	// dependencies: title, draft, meta description, FAQ and so on.
	Content ResolvedContext
}

// ExportResult describes the produced artifact. Format and naming are
// the collaborator's business.
type ExportResult struct {
	Location string
}

// Exporter produces the downloadable artifact on the export step.
type Exporter interface {
	Export(ctx context.Context, req ExportRequest) (*ExportResult, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req GenerationRequest) (*GenerationResult, error)

func (f GeneratorFunc) Generate(ctx context.Context, req GenerationRequest) (*GenerationResult, error) {
	return f(ctx, req)
}

// ExporterFunc adapts a function to the Exporter interface.
type ExporterFunc func(ctx context.Context, req ExportRequest) (*ExportResult, error)

func (f ExporterFunc) Export(ctx context.Context, req ExportRequest) (*ExportResult, error) {
	return f(ctx, req)
}
