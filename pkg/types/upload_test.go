package types

import (
	"errors"
	"testing"
)

func TestRowErrorsCollectsInOrder(t *testing.T) {
	var rows RowErrors
	if rows.Len() != 0 || rows.Messages() != nil || rows.Err() != nil {
		t.Fatal("expected empty collector")
	}

	rows.Add(2, errors.New("missing code"))
	rows.Add(5, errors.New("duplicate"))

	msgs := rows.Messages()
	if len(msgs) != 2 || rows.Len() != 2 {
		t.Fatalf("expected 2 messages, got %v", msgs)
	}
	if msgs[0] != "Row 2: missing code" || msgs[1] != "Row 5: duplicate" {
		t.Fatalf("unexpected messages %v", msgs)
	}
}

func TestUploadSummaryText(t *testing.T) {
	s := UploadSummary{Created: 2, Updated: 1, Failed: 3}
	if s.Succeeded() != 3 {
		t.Fatalf("expected 3 successes, got %d", s.Succeeded())
	}
	if got := s.Text(); got != "Created: 2, Updated: 1, Failed: 3" {
		t.Fatalf("unexpected text %q", got)
	}
}
