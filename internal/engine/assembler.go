package engine

import (
	"fmt"

	"github.com/draftline/draftline/internal/registry"
	"github.com/draftline/draftline/pkg/api"
)

// gatherInputs resolves the upstream outputs a step's operation
// consumes, per its declared DependsOn list.
//
// Every dependency must be completed or skipped. A skipped dependency
// contributes an empty placeholder instead of failing, so generation
// can proceed gracefully around optional upstream skips (title
// creation still works when tools research was skipped). Anything
// else fails with ErrMissingDependency naming the offending step.
func gatherInputs(sess *api.Session, reg *registry.Registry, def api.StepDefinition) (api.ResolvedContext, error) {
	rc := make(api.ResolvedContext, len(def.DependsOn))

	for _, dep := range def.DependsOn {
		rec, ok := sess.Steps[dep]
		if !ok || (rec.Status != api.StepCompleted && rec.Status != api.StepSkipped) {
			name := stepName(sess, reg, dep)
			return nil, fmt.Errorf("step %d (%s) needs step %d (%s) completed or skipped first: %w",
				def.Number, def.Name, dep, name, api.ErrMissingDependency)
		}

		if rec.Status == api.StepSkipped {
			rc[dep] = api.StepContext{
				StepNumber: dep,
				Name:       rec.Name,
				Skipped:    true,
				Data:       map[string]any{},
			}
			continue
		}

		rc[dep] = api.StepContext{
			StepNumber: dep,
			Name:       rec.Name,
			Data:       rec.Data,
		}
	}

	return rc, nil
}

func stepName(sess *api.Session, reg *registry.Registry, n int) string {
	if rec, ok := sess.Steps[n]; ok && rec.Name != "" {
		return rec.Name
	}
	if def, err := reg.Definition(sess.Variant, sess.SchemaVersion, n); err == nil {
		return def.Name
	}
	return "unknown"
}
