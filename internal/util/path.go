package util

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SanitizeFilename strips any directory components from an uploaded
// filename so names like "../../etc/passwd" cannot escape the uploads
// directory.
func SanitizeFilename(name string) (string, error) {
	safe := filepath.Base(name)
	if safe == "." || safe == ".." || safe == "" || safe == string(filepath.Separator) {
		return "", fmt.Errorf("invalid filename: %q", name)
	}
	return safe, nil
}

// ValidatePathWithinBase verifies that target resolves inside base after
// cleaning both paths.
func ValidatePathWithinBase(base, target string) error {
	absBase, err := filepath.Abs(filepath.Clean(base))
	if err != nil {
		return fmt.Errorf("invalid base path: %w", err)
	}
	absTarget, err := filepath.Abs(filepath.Clean(target))
	if err != nil {
		return fmt.Errorf("invalid target path: %w", err)
	}
	// The trailing separator prevents /uploads-evil from matching /uploads.
	if absTarget != absBase && !strings.HasPrefix(absTarget, absBase+string(filepath.Separator)) {
		return fmt.Errorf("path %q escapes base directory", target)
	}
	return nil
}
