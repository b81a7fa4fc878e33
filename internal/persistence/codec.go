package persistence

import (
	"encoding/json"
	"fmt"

	"github.com/draftline/draftline/pkg/api"
)

// Session payloads are JSON-shaped throughout (step data is
// map[string]any produced by human forms and LLM output), so the
// codec is plain encoding/json over the api.Session struct tags.

// EncodeSession serializes a session aggregate.
func EncodeSession(sess *api.Session) ([]byte, error) {
	data, err := json.Marshal(sess)
	if err != nil {
		return nil, fmt.Errorf("encode session %s: %w", sess.ID, err)
	}
	return data, nil
}

// DecodeSession deserializes a session aggregate.
func DecodeSession(data []byte) (*api.Session, error) {
	var sess api.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if sess.Steps == nil {
		sess.Steps = make(map[int]*api.StepRecord)
	}
	return &sess, nil
}
