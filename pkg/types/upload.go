package types

import (
	"fmt"

	"go.uber.org/multierr"
)

// UploadSummary reports the outcome of a bulk upload.
type UploadSummary struct {
	Created int      `json:"created"`
	Updated int      `json:"updated"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}

// Succeeded is the number of rows that were written.
func (s UploadSummary) Succeeded() int {
	return s.Created + s.Updated
}

// Text renders the one-line summary shown to administrators.
func (s UploadSummary) Text() string {
	return fmt.Sprintf("Created: %d, Updated: %d, Failed: %d", s.Created, s.Updated, s.Failed)
}

// RowErrors collects per-row failures in order.
type RowErrors struct {
	err error
}

// Add records a failure for the given row number.
func (r *RowErrors) Add(row int, err error) {
	r.err = multierr.Append(r.err, fmt.Errorf("Row %d: %w", row, err))
}

// Len is the number of recorded failures.
func (r *RowErrors) Len() int {
	return len(multierr.Errors(r.err))
}

// Messages returns the failures as display strings.
func (r *RowErrors) Messages() []string {
	errs := multierr.Errors(r.err)
	if len(errs) == 0 {
		return nil
	}
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

// Err returns the combined error or nil.
func (r *RowErrors) Err() error {
	return r.err
}
