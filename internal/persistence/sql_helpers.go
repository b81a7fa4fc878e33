package persistence

import (
	"time"

	"github.com/draftline/draftline/pkg/api"
)

// timeLayout stores timestamps as fixed-width UTC strings so
// lexicographic ORDER BY updated_at matches chronological order in
// both SQLite and Postgres text columns. RFC3339Nano would not: it
// trims trailing fraction zeros, and "00Z" sorts after "00.5Z".
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSummary(row rowScanner) (api.SessionSummary, error) {
	var (
		sum                  api.SessionSummary
		variantStr           string
		statusStr            string
		createdAt, updatedAt string
	)
	if err := row.Scan(&sum.ID, &variantStr, &sum.PrimaryKeyword, &statusStr, &sum.CurrentStep, &createdAt, &updatedAt); err != nil {
		return api.SessionSummary{}, err
	}

	sum.Variant = api.WorkflowVariant(variantStr)
	sum.Status = api.Status(statusStr)

	var err error
	if sum.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return api.SessionSummary{}, err
	}
	if sum.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return api.SessionSummary{}, err
	}
	return sum, nil
}
