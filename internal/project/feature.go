// Package project reads the feature list and scope ownership table that
// drive context package compilation.
package project

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Status is the lifecycle state of a feature.
type Status string

const (
	StatusPending Status = "pending"
	StatusClaimed Status = "claimed"
	StatusDone    Status = "done"
	StatusBlocked Status = "blocked"
)

// UnmarshalJSON accepts the legacy "in_progress" spelling for claimed and
// defaults an empty status to pending.
func (s *Status) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = ParseStatus(raw)
	if *s == "" {
		*s = StatusPending
	}
	return nil
}

// ParseStatus normalizes a status string: case is folded, surrounding space
// trimmed and "in_progress" mapped to claimed. Unknown values pass through
// lowercased; an empty string stays empty.
func ParseStatus(raw string) Status {
	switch v := strings.ToLower(strings.TrimSpace(raw)); v {
	case "in_progress":
		return StatusClaimed
	default:
		return Status(v)
	}
}

// ValidID reports whether id can name a file directly inside a fixed
// directory: non-empty, without path separators and without "..".
func ValidID(id string) bool {
	return id != "" && id != "." && !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

// Active reports whether the feature still needs work (pending or claimed).
func (s Status) Active() bool {
	return s == StatusPending || s == StatusClaimed
}

// Feature is one unit of planned work from features.json.
type Feature struct {
	ID            string   `json:"id"`
	Type          string   `json:"type,omitempty"`
	Scope         string   `json:"scope"`
	Description   string   `json:"description"`
	Verify        string   `json:"verify,omitempty"`
	DependsOn     []string `json:"depends_on,omitempty"`
	Priority      int      `json:"priority,omitempty"`
	Status        Status   `json:"status"`
	ClaimedBy     string   `json:"claimed_by,omitempty"`
	BlockedReason string   `json:"blocked_reason,omitempty"`
	ContextHints  []string `json:"context_hints,omitempty"`
}

// featureList is the object form of features.json.
type featureList struct {
	Features []Feature `json:"features"`
}

// LoadFeatures reads features.json. The document may be a bare array of
// features or an object with a "features" array. A missing file yields an
// empty list and no error; an unparsable one yields ErrMalformedFeatures.
func LoadFeatures(path string) ([]Feature, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseFeatures(data)
}

// ParseFeatures decodes either form of the feature list.
func ParseFeatures(data []byte) ([]Feature, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var features []Feature
		if err := json.Unmarshal(trimmed, &features); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedFeatures, err)
		}
		return normalize(features), nil
	}

	var list featureList
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedFeatures, err)
	}
	return normalize(list.Features), nil
}

// normalize fills in defaults that JSON decoding leaves at zero when the
// status key is absent entirely.
func normalize(features []Feature) []Feature {
	for i := range features {
		if features[i].Status == "" {
			features[i].Status = StatusPending
		}
	}
	return features
}

// Index maps feature IDs to features. Later duplicates win, matching a
// plain dictionary build over the list.
func Index(features []Feature) map[string]Feature {
	byID := make(map[string]Feature, len(features))
	for _, f := range features {
		byID[f.ID] = f
	}
	return byID
}
