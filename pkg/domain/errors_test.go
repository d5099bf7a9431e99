package domain

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrDriverUnwrap(t *testing.T) {
	cause := errors.New("duplicate entry")
	err := NewErrDriver("INSERT INTO t VALUES (1)", "1062", cause)

	if !errors.Is(err, cause) {
		t.Errorf("expected ErrDriver to unwrap to its cause")
	}
	if err.Code != "1062" {
		t.Errorf("Code = %q, want 1062", err.Code)
	}
}

func TestErrTableNotFoundMessage(t *testing.T) {
	tests := []struct {
		schema, table, want string
	}{
		{"", "users", "table users not found"},
		{"app", "users", "table app.users not found"},
	}
	for _, tt := range tests {
		got := NewErrTableNotFound(tt.schema, tt.table).Error()
		if got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

func TestErrRestoreFailedPrecedence(t *testing.T) {
	primary := errors.New("callback failed")
	restore := errors.New("re-enable failed")

	err := NewErrRestoreFailed("foreign key checks", restore, primary)

	// The original error takes precedence and stays reachable.
	if !errors.Is(err, primary) {
		t.Errorf("expected unwrap to reach the primary error")
	}

	// The restore failure is attached, never silently dropped.
	msg := err.Error()
	for _, fragment := range []string{"callback failed", "re-enable failed"} {
		if !strings.Contains(msg, fragment) {
			t.Errorf("Error() = %q, missing %q", msg, fragment)
		}
	}
}

func TestErrRestoreFailedWithoutPrimary(t *testing.T) {
	restore := errors.New("re-enable failed")
	err := NewErrRestoreFailed("foreign key checks", restore, nil)

	if !errors.Is(err, restore) {
		t.Errorf("expected unwrap to reach the restore error")
	}
}

func TestErrTimeoutUnwrap(t *testing.T) {
	cause := fmt.Errorf("context deadline exceeded")
	err := NewErrTimeout("statement execution", cause)
	if !errors.Is(err, cause) {
		t.Errorf("expected ErrTimeout to unwrap to its cause")
	}
}
