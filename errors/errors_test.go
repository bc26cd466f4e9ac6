package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestTreeError(t *testing.T) {
	// Test basic error creation
	err := New(ErrCodeNotFound, "node not found")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}

	// Test error wrapping
	cause := fmt.Errorf("underlying error")
	wrapped := Wrap(cause, ErrCodeSourceInvalid, "bad document")

	if wrapped.Unwrap() != cause {
		t.Error("Unwrap should return the cause")
	}

	if !Is(wrapped, ErrCodeSourceInvalid) {
		t.Error("Is should return true for matching code")
	}

	if Is(wrapped, ErrCodeNotFound) {
		t.Error("Is should return false for non-matching code")
	}

	// fmt.Errorf %w chains are unwrapped
	outer := fmt.Errorf("rename: %w", NodeNotFound("e1"))
	if GetCode(outer) != ErrCodeNotFound {
		t.Errorf("expected code %s through wrapping, got %s", ErrCodeNotFound, GetCode(outer))
	}

	nested := SourceInvalid("envs.yml", InvalidInput("bad scope"))
	if GetCode(nested) != ErrCodeSourceInvalid {
		t.Errorf("GetCode should report the outermost code, got %s", GetCode(nested))
	}
	if !Is(nested, ErrCodeInvalidInput) {
		t.Error("Is should find codes deeper in the chain")
	}

	detailed := err.WithDetail("id", "e1").WithDetail("parent", "w1")
	if detailed.Details["id"] != "e1" {
		t.Error("WithDetail should add details")
	}
}

func TestErrorConstructors(t *testing.T) {
	err := NodeNotFound("w1")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected code %s, got %s", ErrCodeNotFound, err.Code)
	}
	if err.Details["id"] != "w1" {
		t.Error("NodeNotFound should include id detail")
	}

	err = IdentifierMismatch("e1", "e2")
	if err.Code != ErrCodeIdentifierMismatch {
		t.Errorf("expected code %s, got %s", ErrCodeIdentifierMismatch, err.Code)
	}
	if err.Details["index"] != "e1" || err.Details["refId"] != "e2" {
		t.Error("IdentifierMismatch should include both identifiers")
	}

	err = DanglingChildren("w1", []string{"x", "y"})
	if err.Code != ErrCodeInvariantViolation {
		t.Errorf("expected code %s, got %s", ErrCodeInvariantViolation, err.Code)
	}

	if GetCode(nil) != "" {
		t.Error("GetCode(nil) should be empty")
	}
}

func TestToJSONIncludesCause(t *testing.T) {
	err := Wrap(fmt.Errorf("disk full"), ErrCodeSourceInvalid, "cannot read envs.yml").WithDetail("path", "envs.yml")
	out := err.ToJSON()
	for _, want := range []string{`"code": "SOURCE_INVALID"`, `"cause": "disk full"`, `"path": "envs.yml"`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in %s", want, out)
		}
	}
	if _, ok := err.Details["cause"]; ok {
		t.Error("ToJSON should not modify the error's details")
	}
}
