package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestDecodingError(t *testing.T) {
	cause := errors.New("odd length hex string")
	err := NewDecodingError("0xabc", cause)

	if err.Code() != CodeDecoding {
		t.Errorf("Expected code %q, got %q", CodeDecoding, err.Code())
	}
	if err.Input != "0xabc" {
		t.Errorf("Expected input %q, got %q", "0xabc", err.Input)
	}
	expected := `cannot decode "0xabc": odd length hex string`
	if err.Error() != expected {
		t.Errorf("Expected error %q, got %q", expected, err.Error())
	}
	if !errors.Is(err, cause) {
		t.Error("Expected decoding error to unwrap to its cause")
	}
}

func TestInterfaceError(t *testing.T) {
	tests := []struct {
		name          string
		message       string
		cause         error
		expectedError string
	}{
		{
			name:          "with message and cause",
			message:       "missing abi field",
			cause:         errors.New("key not present"),
			expectedError: "missing abi field: key not present",
		},
		{
			name:          "default message",
			message:       "",
			cause:         nil,
			expectedError: "invalid contract interface",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewInterfaceError(tt.message, tt.cause)
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code() != CodeInterface {
				t.Errorf("Expected code %q, got %q", CodeInterface, err.Code())
			}
		})
	}
}

func TestStorageError(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewStorageError("add", cause).WithCID("QmTest")

	if err.Op != "add" {
		t.Errorf("Expected op 'add', got %q", err.Op)
	}
	if err.CID != "QmTest" {
		t.Errorf("Expected CID 'QmTest', got %q", err.CID)
	}
	if err.Error() != "storage add failed: connection refused" {
		t.Errorf("Unexpected error string: %q", err.Error())
	}
	if err.Unwrap() != cause {
		t.Error("Expected Unwrap to return the original cause")
	}
}

func TestRegistryError(t *testing.T) {
	cause := errors.New("execution reverted")
	err := NewRegistryError("set", cause)

	if err.Method != "set" {
		t.Errorf("Expected method 'set', got %q", err.Method)
	}
	if err.Code() != CodeRegistry {
		t.Errorf("Expected code %q, got %q", CodeRegistry, err.Code())
	}
	if !strings.Contains(err.Error(), "execution reverted") {
		t.Errorf("Expected cause in error string, got %q", err.Error())
	}
}

func TestIOError(t *testing.T) {
	cause := errors.New("permission denied")
	err := NewIOError("/root/out", cause)

	if err.Path != "/root/out" {
		t.Errorf("Expected path '/root/out', got %q", err.Path)
	}
	if err.Error() != `i/o on "/root/out" failed: permission denied` {
		t.Errorf("Unexpected error string: %q", err.Error())
	}
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name          string
		field         string
		message       string
		value         interface{}
		expectedError string
	}{
		{
			name:          "with field",
			field:         "storage.api_url",
			message:       "must use http or https",
			value:         "ftp://x",
			expectedError: "validation error: storage.api_url: must use http or https",
		},
		{
			name:          "without field",
			field:         "",
			message:       "invalid input",
			value:         nil,
			expectedError: "validation error: invalid input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message, tt.value)
			if err.Error() != tt.expectedError {
				t.Errorf("Expected error %q, got %q", tt.expectedError, err.Error())
			}
			if err.Code() != CodeValidation {
				t.Errorf("Expected code %q, got %q", CodeValidation, err.Code())
			}
			if err.Field != tt.field {
				t.Errorf("Expected field %q, got %q", tt.field, err.Field)
			}
		})
	}
}

func TestInternalError(t *testing.T) {
	err := NewInternalError("", nil).WithOperation("publish")
	if err.Error() != "internal error" {
		t.Errorf("Expected default message, got %q", err.Error())
	}
	if err.Operation != "publish" {
		t.Errorf("Expected operation 'publish', got %q", err.Operation)
	}
}

func TestWrap(t *testing.T) {
	t.Run("nil error", func(t *testing.T) {
		if Wrap(nil, "context") != nil {
			t.Error("Expected nil when wrapping nil")
		}
	})

	t.Run("custom error keeps code", func(t *testing.T) {
		original := NewStorageError("cat", ErrNotFound)
		wrapped := Wrap(original, "resolving")

		if GetErrorCode(wrapped) != CodeStorage {
			t.Errorf("Expected code %q, got %q", CodeStorage, GetErrorCode(wrapped))
		}
		if !IsStorage(wrapped) {
			t.Error("Expected wrapped error to still be a storage error")
		}
		if !IsNotFound(wrapped) {
			t.Error("Expected wrapped error to still match ErrNotFound")
		}
	})

	t.Run("standard error becomes internal", func(t *testing.T) {
		wrapped := Wrapf(fmt.Errorf("boom"), "step %d", 2)
		if GetErrorCode(wrapped) != CodeInternal {
			t.Errorf("Expected code %q, got %q", CodeInternal, GetErrorCode(wrapped))
		}
		if wrapped.Error() != "step 2: boom" {
			t.Errorf("Unexpected error string: %q", wrapped.Error())
		}
	})
}

func TestNew(t *testing.T) {
	err := Newf("bad %s", "thing")
	if err.Error() != "bad thing" {
		t.Errorf("Expected 'bad thing', got %q", err.Error())
	}
	if GetErrorCode(err) != CodeInternal {
		t.Errorf("Expected internal code, got %q", GetErrorCode(err))
	}
}

func TestStackTrace(t *testing.T) {
	err := NewRegistryError("get", nil)
	if len(err.Stack()) == 0 {
		t.Fatal("Expected captured stack frames")
	}
	if !strings.Contains(err.StackTrace(), "TestStackTrace") {
		t.Errorf("Expected stack trace to mention the caller, got:\n%s", err.StackTrace())
	}
}
