package registry

import (
	"fmt"

	"github.com/draftline/draftline/pkg/api"
)

// Schema versions for the blog workflow. Version 2 appended the
// Export & Archive and Final Review Checklist steps (21 and 22);
// version 1 sessions end at step 20 and never see them.
const (
	BlogSchemaV1 = 1
	BlogSchemaV2 = 2

	blogV1Terminal = 20
)

// Registry is the static, ordered catalog of step definitions for
// both workflow variants. It is read-only after construction.
type Registry struct {
	blog    map[int]api.StepDefinition
	webinar map[int]api.StepDefinition
}

// New builds the registry with the fixed blog and webinar catalogs.
func New() *Registry {
	return &Registry{
		blog:    index(blogSteps),
		webinar: index(webinarSteps),
	}
}

func index(defs []api.StepDefinition) map[int]api.StepDefinition {
	m := make(map[int]api.StepDefinition, len(defs))
	for _, d := range defs {
		// Redo is an AI-only transition.
		d.CanRedo = d.Owner == api.OwnerAI
		m[d.Number] = d
	}
	return m
}

// LatestSchemaVersion returns the schema version assigned to newly
// created sessions of the given variant.
func (r *Registry) LatestSchemaVersion(variant api.WorkflowVariant) int {
	if variant == api.VariantBlog {
		return BlogSchemaV2
	}
	return 1
}

// Terminal returns the final step number of the variant at the given
// schema version. Completing it completes the session.
func (r *Registry) Terminal(variant api.WorkflowVariant, schemaVersion int) int {
	switch variant {
	case api.VariantWebinar:
		return len(r.webinar)
	default:
		if schemaVersion < BlogSchemaV2 {
			return blogV1Terminal
		}
		return len(r.blog)
	}
}

// Definition returns the catalog entry for a step number, honoring the
// session's schema version. Unknown variants and step numbers outside
// the catalog fail with api.ErrInvalidStepNumber.
func (r *Registry) Definition(variant api.WorkflowVariant, schemaVersion, stepNumber int) (api.StepDefinition, error) {
	var catalog map[int]api.StepDefinition
	switch variant {
	case api.VariantBlog:
		catalog = r.blog
	case api.VariantWebinar:
		catalog = r.webinar
	default:
		return api.StepDefinition{}, fmt.Errorf("unknown workflow variant %q: %w", variant, api.ErrInvalidStepNumber)
	}

	def, ok := catalog[stepNumber]
	if !ok {
		return api.StepDefinition{}, fmt.Errorf("step %d does not exist in the %s workflow: %w", stepNumber, variant, api.ErrInvalidStepNumber)
	}

	if variant == api.VariantBlog && schemaVersion < BlogSchemaV2 && stepNumber > blogV1Terminal {
		return api.StepDefinition{}, fmt.Errorf(
			"step %d is not available for sessions created under schema v%d (workflow ends at step %d): %w",
			stepNumber, schemaVersion, blogV1Terminal, api.ErrInvalidStepNumber)
	}

	return def, nil
}
