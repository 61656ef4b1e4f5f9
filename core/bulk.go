package core

import "fmt"

// RowError records the failure of a single row of a bulk operation. Row is 1-based, header excluded.
type RowError struct {
	Row int    `json:"row"`
	Err string `json:"error"`
}

// BulkReport summarizes a best-effort bulk operation: rows are attempted independently
// and rows committed before a failure stay committed.
type BulkReport struct {
	Total     int        `json:"total"`
	Succeeded int        `json:"succeeded"`
	Failures  []RowError `json:"failures"`
}

func NewBulkReport() *BulkReport {
	return &BulkReport{Failures: make([]RowError, 0)}
}

func (r *BulkReport) Success() {
	r.Total++
	r.Succeeded++
}

func (r *BulkReport) Fail(row int, err error) {
	r.Total++
	r.Failures = append(r.Failures, RowError{Row: row, Err: err.Error()})
}

func (r *BulkReport) Failed() int { return len(r.Failures) }

func (r *BulkReport) String() string {
	return fmt.Sprintf("%d/%d rows succeeded, %d failed", r.Succeeded, r.Total, r.Failed())
}
