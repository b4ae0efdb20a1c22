package agentreport

import "errors"

// Sentinel errors for library operations.
var (
	ErrEmptyContent = errors.New("report content cannot be empty")
	ErrMarkupParse  = errors.New("markup parsing failed")

	// Task-result ingestion errors.
	ErrTaskDecode = errors.New("task result decoding failed")

	// Image search errors.
	ErrImageSearch       = errors.New("image search failed")
	ErrImageSearchStatus = errors.New("image search returned unexpected status")
)
