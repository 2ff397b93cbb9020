package errors

import (
	stderrors "errors"
	"testing"
)

func TestWrapPreservesCode(t *testing.T) {
	if Wrap(nil, "ignored") != nil {
		t.Error("Wrap(nil) must return nil")
	}

	inner := ConfigInvalid("PORT must be a positive number")
	wrapped := Wrap(inner, "failed to load configuration")
	if GetCode(wrapped) != CodeConfigInvalid {
		t.Errorf("GetCode = %q, want %q", GetCode(wrapped), CodeConfigInvalid)
	}
	if !stderrors.Is(wrapped, inner) {
		t.Error("wrapped error must unwrap to its cause")
	}
}

func TestWrapPlainError(t *testing.T) {
	cause := stderrors.New("boom")
	wrapped := Wrap(cause, "operation failed")
	if GetCode(wrapped) != CodeInternalError {
		t.Errorf("GetCode = %q, want %q", GetCode(wrapped), CodeInternalError)
	}
	if wrapped.Error() != "operation failed: boom" {
		t.Errorf("Error() = %q", wrapped.Error())
	}
}

func TestDatabaseError(t *testing.T) {
	cause := stderrors.New("connection refused")
	err := DatabaseError("failed to connect to postgres", cause)
	if GetCode(err) != CodeDatabaseError {
		t.Errorf("GetCode = %q, want %q", GetCode(err), CodeDatabaseError)
	}
	if !stderrors.Is(err, cause) {
		t.Error("database error must unwrap to its cause")
	}
}

func TestGetCodeUnknown(t *testing.T) {
	if code := GetCode(stderrors.New("plain")); code != "UNKNOWN" {
		t.Errorf("GetCode = %q, want UNKNOWN", code)
	}
}
