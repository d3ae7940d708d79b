package errors

import (
	"strings"
	"unicode"
)

// ValidateInputPath checks that a required input path was given and is safe
// to open. A missing path is a configuration error, not a format error.
func ValidateInputPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return ConfigError("input file is required")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}
	return nil
}

// ValidatePositive returns a ConfigError when v is not strictly positive.
func ValidatePositive(name string, v float64) error {
	if v <= 0 {
		return ConfigError("%s must be positive, got %g", name, v)
	}
	return nil
}

// ValidateNonNegative returns a ConfigError when v is negative.
func ValidateNonNegative(name string, v float64) error {
	if v < 0 {
		return ConfigError("%s must not be negative, got %g", name, v)
	}
	return nil
}
