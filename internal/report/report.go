/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package report aggregates per-stage results into the final migration
// report and renders it as JSON, HTML and a terminal summary.
package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/internal/transform"
	"github.com/fulmenhq/courseport/internal/validate"
)

// Status is the overall migration outcome.
type Status string

const (
	StatusSuccess             Status = "success"
	StatusSuccessWithWarnings Status = "success_with_warnings"
	StatusPartialFailure      Status = "partial_failure"
	StatusFailure             Status = "failure"
)

// MigrationReport is the full record of one run.
type MigrationReport struct {
	RunID         string    `json:"run_id"`
	Status        Status    `json:"status"`
	MigrationDate time.Time `json:"migration_date"`

	SourceCourseTitle string `json:"source_course"`
	SourceDirectory   string `json:"source_directory"`
	OutputDirectory   string `json:"output_directory"`

	SourceContent   map[string]int `json:"source_content"`
	MigratedContent map[string]int `json:"migrated_content"`

	Validation *validate.Report   `json:"validation,omitempty"`
	Counters   transform.Counters `json:"transformation"`

	Diagnostics diag.List `json:"errors"`

	TotalErrors   int `json:"total_errors"`
	TotalWarnings int `json:"total_warnings"`
	TotalInfo     int `json:"total_info"`

	ExecutionTime time.Duration `json:"-"`
	ExecutionSecs float64       `json:"execution_time_seconds"`
}

// New creates an empty report stamped with a fresh run id.
func New(sourceDir, outputDir string) *MigrationReport {
	return &MigrationReport{
		RunID:           uuid.NewString(),
		MigrationDate:   time.Now(),
		SourceDirectory: sourceDir,
		OutputDirectory: outputDir,
		SourceContent:   map[string]int{},
		MigratedContent: map[string]int{},
	}
}

// Finalize tallies severities and derives the overall status. Criticals mean
// failure; errors mean partial failure; warnings alone still count as a
// successful run.
func (r *MigrationReport) Finalize(elapsed time.Duration) {
	r.ExecutionTime = elapsed
	r.ExecutionSecs = elapsed.Seconds()

	totals := r.Diagnostics.Summarize()
	r.TotalErrors = totals.Errors + totals.Critical
	r.TotalWarnings = totals.Warnings
	r.TotalInfo = totals.Info

	switch {
	case totals.Critical > 0:
		r.Status = StatusFailure
	case totals.Errors > 0:
		r.Status = StatusPartialFailure
	case totals.Warnings > 0:
		r.Status = StatusSuccessWithWarnings
	default:
		r.Status = StatusSuccess
	}
}
