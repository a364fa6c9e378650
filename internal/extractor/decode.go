package extractor

import (
	"encoding/json"
	"strings"

	"github.com/nafisr/catatuang/internal/schema"
)

// decodeExtraction parses raw model output into the contract. Formatting
// fences are stripped first because models sometimes ignore the "no markdown"
// instruction. Parse success is the only check performed here: a structurally
// valid but semantically wrong payload passes through, and reconciliation in
// the recorder is the layer that deals with it.
func decodeExtraction(raw string) (*schema.ExtractedTransaction, error) {
	clean := cleanModelJSON(raw)

	var tx schema.ExtractedTransaction
	if err := json.Unmarshal([]byte(clean), &tx); err != nil {
		return nil, &ExtractionError{Stage: "decode", Err: err}
	}

	return &tx, nil
}

// cleanModelJSON strips Markdown code fences and any stray text around the
// JSON object if the model ignored instructions.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		// Drop the first line (``` or ```json).
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			return s
		}
		s = strings.TrimSpace(s)
	}

	// Remove trailing ``` if present.
	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = s[:idx]
	}

	s = strings.TrimSpace(s)

	// Extra safety: if there's still junk around the JSON object,
	// try to keep only from the first '{' to the last '}'.
	if start := strings.Index(s, "{"); start != -1 {
		if end := strings.LastIndex(s, "}"); end != -1 && end > start {
			s = s[start : end+1]
			s = strings.TrimSpace(s)
		}
	}

	return s
}
