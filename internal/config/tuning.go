package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vinarmkumar/HappMeal/internal/core/domain"
)

// LoadScoringWeights reads a YAML tuning file. Keys missing from the file
// keep their default value; an empty path yields the defaults.
func LoadScoringWeights(path string) (domain.ScoringWeights, error) {
	weights := domain.DefaultScoringWeights()
	path = strings.TrimSpace(path)
	if path == "" {
		return weights, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return weights, fmt.Errorf("read scoring tuning file: %w", err)
	}
	return parseScoringWeights(raw)
}

func parseScoringWeights(raw []byte) (domain.ScoringWeights, error) {
	weights := domain.DefaultScoringWeights()

	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&weights); err != nil && !errors.Is(err, io.EOF) {
		return domain.DefaultScoringWeights(), fmt.Errorf("parse scoring tuning file: %w", err)
	}
	return weights.Normalize(), nil
}
