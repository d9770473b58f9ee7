package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/mattn/go-sqlite3"
)

func TestSQLiteErrorClassifier_Classify(t *testing.T) {
	classifier := NewSQLiteErrorClassifier()

	tests := []struct {
		name string
		err  error
		want ErrorClassification
	}{
		{name: "nil error", err: nil, want: NonRetryable},
		{name: "plain error", err: errors.New("boom"), want: NonRetryable},
		{name: "busy", err: sqlite3.Error{Code: sqlite3.ErrBusy}, want: Retryable},
		{name: "locked", err: sqlite3.Error{Code: sqlite3.ErrLocked}, want: Retryable},
		{name: "constraint violation", err: sqlite3.Error{Code: sqlite3.ErrConstraint}, want: NonRetryable},
		{name: "corrupt database", err: sqlite3.Error{Code: sqlite3.ErrCorrupt}, want: NonRetryable},
		{
			name: "wrapped sqlite error is unwrapped",
			err:  fmt.Errorf("%w: %w", ErrExecutingQuery, sqlite3.Error{Code: sqlite3.ErrBusy}),
			want: Retryable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifier.Classify(tt.err); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSQLiteError_ExtractsCode(t *testing.T) {
	if code := sqliteError(sqlite3.Error{Code: sqlite3.ErrConstraint}); code != sqlite3.ErrConstraint {
		t.Errorf("expected code %d, got %d", sqlite3.ErrConstraint, code)
	}
	if code := sqliteError(errors.New("boom")); code != -1 {
		t.Errorf("expected -1 for non-sqlite error, got %d", code)
	}
}
