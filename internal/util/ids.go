package util

import (
	"fmt"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const runIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewRunID returns a short lowercase identifier for one pipeline run.
// It names the S3 export prefix and labels run metrics.
func NewRunID() (string, error) {
	id, err := gonanoid.Generate(runIDAlphabet, 12)
	if err != nil {
		return "", fmt.Errorf("failed to generate run id: %w", err)
	}
	return id, nil
}
