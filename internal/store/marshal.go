package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/enskit/internal/realization"
)

// marshalConfig converts a filter configuration to JSON TEXT for storage.
// Map keys are sorted by encoding/json, so equal configs store identically.
func marshalConfig(cfg realization.Config) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(cfg); err != nil {
		return "", fmt.Errorf("marshal filter config: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// unmarshalConfig parses JSON TEXT into a filter configuration.
func unmarshalConfig(data string) (realization.Config, error) {
	var cfg realization.Config
	if err := json.Unmarshal([]byte(data), &cfg); err != nil {
		return realization.Config{}, fmt.Errorf("unmarshal filter config: %w", err)
	}
	return cfg, nil
}

// marshalRealizations stores realization numbers as a JSON array; nil is "[]".
func marshalRealizations(reals []int) (string, error) {
	if reals == nil {
		reals = []int{}
	}
	data, err := json.Marshal(reals)
	if err != nil {
		return "", fmt.Errorf("marshal realizations: %w", err)
	}
	return string(data), nil
}

// unmarshalRealizations parses a JSON array; empty input yields an empty slice.
func unmarshalRealizations(data string) ([]int, error) {
	reals := []int{}
	if data == "" {
		return reals, nil
	}
	if err := json.Unmarshal([]byte(data), &reals); err != nil {
		return nil, fmt.Errorf("unmarshal realizations: %w", err)
	}
	return reals, nil
}
