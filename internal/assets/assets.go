// Package assets provides CSS stylesheets for rendered reports.
// Styles can be loaded from embedded files or custom filesystem paths.
package assets

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Sentinel errors for asset operations.
var (
	// ErrStyleNotFound indicates the requested style does not exist.
	ErrStyleNotFound = errors.New("style not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")
)

//go:embed styles/*
var styles embed.FS

// DefaultStyle is the name of the stylesheet applied when none is chosen.
const DefaultStyle = "report"

// LoadStyle loads an embedded CSS stylesheet by name.
// The name should not include the .css extension or path components.
func LoadStyle(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	content, err := styles.ReadFile("styles/" + name + ".css")
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrStyleNotFound, name)
	}
	return string(content), nil
}

// LoadStyleFile loads a CSS stylesheet from an explicit filesystem path.
func LoadStyleFile(path string) (string, error) {
	content, err := os.ReadFile(path) // #nosec G304 -- style path is user-provided
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrStyleNotFound, path)
	}
	return string(content), nil
}

// ValidateAssetName rejects names with path separators or traversal.
func ValidateAssetName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty name", ErrInvalidAssetName)
	}
	if strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidAssetName, name)
	}
	return nil
}
