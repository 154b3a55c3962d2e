package builder

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedProject is returned when persisted project data cannot be decoded
var ErrMalformedProject = errors.New("malformed project data")

// MarshalProject serializes a project as a JSON array of element records.
// Unset fields are omitted so they stay unset after a round trip.
func MarshalProject(p Project) ([]byte, error) {
	if p == nil {
		p = Project{}
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal project: %w", err)
	}
	return data, nil
}

// UnmarshalProject decodes a serialized project. Nothing is returned unless the
// whole payload is valid: it must be a JSON array, and every record needs a
// unique non-empty id. Unknown element types are accepted.
func UnmarshalProject(data []byte) (Project, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedProject)
	}

	var p Project
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedProject, err)
	}

	seen := make(map[string]struct{}, len(p))
	for i, el := range p {
		if el.ID == "" {
			return nil, fmt.Errorf("%w: element %d has no id", ErrMalformedProject, i)
		}
		if _, dup := seen[el.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate element id %q", ErrMalformedProject, el.ID)
		}
		seen[el.ID] = struct{}{}
	}

	if p == nil {
		p = Project{}
	}
	return p, nil
}
