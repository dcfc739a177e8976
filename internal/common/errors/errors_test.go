package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestRemoteTransportError_Unwrap(t *testing.T) {
	cause := RedisError{Operation: "progress_save", Err: errors.New("connection refused")}
	err := fmt.Errorf("save: %w", &RemoteTransportError{Operation: "save", Key: "PlayerProgress", Err: cause})

	if !IsTransportFailure(err) {
		t.Fatal("expected transport failure")
	}

	var redisErr RedisError
	if !errors.As(err, &redisErr) {
		t.Fatal("expected RedisError in chain")
	}
	if redisErr.Operation != "progress_save" {
		t.Errorf("unexpected operation: %s", redisErr.Operation)
	}
}

func TestClassifiers(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		invariant bool
		transport bool
		missing   bool
		malformed bool
	}{
		{"nil", nil, false, false, false, false},
		{"invariant", NewInvariantViolation("record_stage", "stage %d out of range", 5), true, false, false, false},
		{"transport", &RemoteTransportError{Operation: "load"}, false, true, false, false},
		{"missing", &MissingRemoteDataError{Key: "k"}, false, false, true, false},
		{"malformed", &MalformedPayloadError{Path: "games[0]", Reason: "bad"}, false, false, false, true},
		{"plain", errors.New("x"), false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsInvariantViolation(tt.err); got != tt.invariant {
				t.Errorf("IsInvariantViolation = %v, want %v", got, tt.invariant)
			}
			if got := IsTransportFailure(tt.err); got != tt.transport {
				t.Errorf("IsTransportFailure = %v, want %v", got, tt.transport)
			}
			if got := IsMissingRemoteData(tt.err); got != tt.missing {
				t.Errorf("IsMissingRemoteData = %v, want %v", got, tt.missing)
			}
			if got := IsMalformedPayload(tt.err); got != tt.malformed {
				t.Errorf("IsMalformedPayload = %v, want %v", got, tt.malformed)
			}
		})
	}
}

func TestInvariantViolationError_Message(t *testing.T) {
	err := NewInvariantViolation("record_stage", "stage index %d outside 0..%d", 7, 2)
	want := "invariant violation operation=record_stage: stage index 7 outside 0..2"
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
