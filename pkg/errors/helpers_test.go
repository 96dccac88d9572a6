package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindHelpers(t *testing.T) {
	cause := errors.New("cause")
	kinds := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"decoding", NewDecodingError("zz", cause), IsDecoding},
		{"interface", NewInterfaceError("bad abi", cause), IsInterface},
		{"storage", NewStorageError("add", cause), IsStorage},
		{"registry", NewRegistryError("set", cause), IsRegistry},
		{"io", NewIOError("/tmp/x", cause), IsIO},
		{"validation", NewValidationError("f", "m", nil), IsValidation},
	}

	for _, k := range kinds {
		t.Run(k.name, func(t *testing.T) {
			if !k.check(k.err) {
				t.Errorf("Expected %s helper to match its own error", k.name)
			}
			if !k.check(fmt.Errorf("outer: %w", k.err)) {
				t.Errorf("Expected %s helper to match a wrapped error", k.name)
			}
			if k.check(nil) {
				t.Errorf("Expected %s helper to reject nil", k.name)
			}
			for _, other := range kinds {
				if other.name == k.name {
					continue
				}
				if k.check(other.err) {
					t.Errorf("%s helper matched a %s error", k.name, other.name)
				}
			}
		})
	}
}

func TestGetErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"custom", NewStorageError("cat", errors.New("eof")), "storage cat failed"},
		{"standard", errors.New("plain"), "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetErrorMessage(tt.err); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	if GetErrorCode(nil) != CodeOK {
		t.Error("Expected CodeOK for nil")
	}
	if GetErrorCode(errors.New("x")) != CodeInternal {
		t.Error("Expected CodeInternal for a standard error")
	}
	if GetErrorCode(NewIOError("p", nil)) != CodeIO {
		t.Error("Expected CodeIO for an IOError")
	}
}

func TestCause(t *testing.T) {
	root := errors.New("root cause")
	err := Wrap(NewRegistryError("set", root), "publishing")

	if Cause(err) != root {
		t.Errorf("Expected root cause, got %v", Cause(err))
	}
	if Cause(root) != root {
		t.Error("Expected Cause of an unwrapped error to be itself")
	}
}
