package errors

import (
	"fmt"
	"strings"
)

// NodeNotFound creates an error for an identifier absent from the tree
func NodeNotFound(id string) *TreeError {
	return New(ErrCodeNotFound, fmt.Sprintf("node '%s' not found", id)).
		WithDetail("id", id)
}

// DanglingChildren creates an error for a children list that references unknown nodes
func DanglingChildren(id string, missing []string) *TreeError {
	return New(ErrCodeInvariantViolation,
		fmt.Sprintf("children of '%s' reference unknown nodes: %s", id, strings.Join(missing, ", "))).
		WithDetail("id", id).
		WithDetail("missing", missing)
}

// DuplicateChildren creates an error for a children list containing an identifier twice
func DuplicateChildren(id string, duplicate string) *TreeError {
	return New(ErrCodeInvariantViolation,
		fmt.Sprintf("children of '%s' contain '%s' more than once", id, duplicate)).
		WithDetail("id", id).
		WithDetail("duplicate", duplicate)
}

// DuplicateNode creates an error for an identifier that already exists in the tree
func DuplicateNode(id string) *TreeError {
	return New(ErrCodeInvariantViolation, fmt.Sprintf("node '%s' already exists", id)).
		WithDetail("id", id)
}

// IdentifierMismatch creates an error for a node whose index differs from its payload reference
func IdentifierMismatch(index, refID string) *TreeError {
	return New(ErrCodeIdentifierMismatch,
		fmt.Sprintf("node index '%s' does not match its reference id '%s'", index, refID)).
		WithDetail("index", index).
		WithDetail("refId", refID)
}

// InvalidInput creates an invalid input error
func InvalidInput(reason string) *TreeError {
	return New(ErrCodeInvalidInput, reason)
}

// ProviderDisposed creates an error for operations on a disposed provider
func ProviderDisposed() *TreeError {
	return New(ErrCodeProviderDisposed, "tree provider has been disposed")
}

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *TreeError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *TreeError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// SourceNotFound creates an error for a missing domain document
func SourceNotFound(path string) *TreeError {
	return New(ErrCodeSourceNotFound, fmt.Sprintf("source document not found: %s", path)).
		WithDetail("path", path)
}

// SourceInvalid wraps a failure to read or validate a domain document
func SourceInvalid(path string, err error) *TreeError {
	return Wrap(err, ErrCodeSourceInvalid, fmt.Sprintf("invalid source document: %s", path)).
		WithDetail("path", path)
}
