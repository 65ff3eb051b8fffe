package session

import (
	"encoding/json"
	"fmt"
	"os"
)

// SavedProof is the on-disk record of an interactive proof session. The
// field names are part of the external tool contract and must stay stable.
type SavedProof struct {
	Goal        string   `json:"goal"`
	Steps       []string `json:"steps"`
	DurationMS  int64    `json:"duration_ms"`
	TacticsUsed []string `json:"tactics_used"`
	Confidence  float64  `json:"confidence"`
}

// LintIssue is one finding of the lint tooling, shared between the CLI's
// --format=json output and the external linter.
type LintIssue struct {
	Line       int    `json:"line"`
	Column     int    `json:"column"`
	Severity   string `json:"severity"`
	Rule       string `json:"rule"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
	Type       string `json:"type"`
	Name       string `json:"name,omitempty"`
}

// WriteProof saves a proof record as indented JSON.
func WriteProof(path string, proof *SavedProof) error {
	data, err := json.MarshalIndent(proof, "", "  ")
	if err != nil {
		return fmt.Errorf("encode proof: %w", err)
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// ReadProof loads a proof record written by WriteProof.
func ReadProof(path string) (*SavedProof, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var proof SavedProof
	if err := json.Unmarshal(data, &proof); err != nil {
		return nil, fmt.Errorf("decode proof %s: %w", path, err)
	}
	return &proof, nil
}
