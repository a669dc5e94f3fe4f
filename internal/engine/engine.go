/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package engine runs the migration pipeline end to end: validate, parse,
// resolve, transform, export, report.
package engine

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fulmenhq/courseport/internal/canvas"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/internal/export"
	"github.com/fulmenhq/courseport/internal/report"
	"github.com/fulmenhq/courseport/internal/resolve"
	"github.com/fulmenhq/courseport/internal/transform"
	"github.com/fulmenhq/courseport/internal/validate"
	"github.com/fulmenhq/courseport/pkg/logger"
)

// DefaultOutputDirName is created under the source directory when no output
// path is given.
const DefaultOutputDirName = "tutor_lms_output"

// Options configures one pipeline run.
type Options struct {
	CourseDir    string
	OutputDir    string // defaults to CourseDir/tutor_lms_output
	AssetBase    string // defaults to the transformer's standard base
	Settings     *transform.Settings
	ReportFormat string // json, html or both (default both)
	Concurrency  int    // parser goroutine cap; 0 means one per content family
}

// Engine owns one migration run.
type Engine struct {
	opts Options
}

// New creates an engine for one run.
func New(opts Options) *Engine {
	if opts.OutputDir == "" {
		opts.OutputDir = filepath.Join(opts.CourseDir, DefaultOutputDirName)
	}
	return &Engine{opts: opts}
}

// Run executes the pipeline. The report is always returned, even on
// failure, so callers can render what happened. Only critical diagnostics
// halt between stages; everything else rides along in the report.
func (e *Engine) Run(ctx context.Context) (*report.MigrationReport, error) {
	start := time.Now()
	rep := report.New(e.opts.CourseDir, e.opts.OutputDir)

	logger.Info("migration started",
		logger.String("source", e.opts.CourseDir),
		logger.String("output", e.opts.OutputDir),
		logger.String("run_id", rep.RunID))

	// Stage 1: structure validation and inventory.
	validator := validate.New(e.opts.CourseDir, e.opts.OutputDir)
	valReport, valDiags := validator.Validate()
	rep.Validation = valReport
	rep.Diagnostics = diag.Merge(rep.Diagnostics, valDiags)
	if valDiags.HasCritical() {
		rep.Finalize(time.Since(start))
		return rep, fmt.Errorf("validation failed: export structure is not usable")
	}

	// Stage 2: semantic parsing.
	parser := canvas.NewParser(e.opts.CourseDir, e.opts.OutputDir).WithConcurrency(e.opts.Concurrency)
	course, parseDiags := parser.Parse(ctx)
	rep.Diagnostics = diag.Merge(rep.Diagnostics, parseDiags)
	if course == nil || parseDiags.HasCritical() {
		rep.Finalize(time.Since(start))
		return rep, fmt.Errorf("parsing failed: could not build course model")
	}
	rep.SourceCourseTitle = course.Title
	rep.SourceContent = course.ContentCounts()

	// Stage 3: resolution and orphan reconciliation.
	resolver := resolve.New(course)
	resolved, resolveDiags := resolver.Resolve()
	rep.Diagnostics = diag.Merge(rep.Diagnostics, resolveDiags)
	rep.Diagnostics = diag.Merge(rep.Diagnostics, resolver.AttachRecovered(resolved))
	unattached := resolver.UnattachedAssignments(resolved)

	// Stage 4: transformation.
	transformer := transform.New(e.opts.AssetBase).WithSettings(e.opts.Settings)
	tutorCourse, counters, transformDiags := transformer.Transform(course, resolved, unattached)
	rep.Counters = counters
	rep.MigratedContent = tutorCourse.Counts()
	rep.Diagnostics = diag.Merge(rep.Diagnostics, transformDiags)

	// Stage 5: export and verification.
	exporter := export.New(e.opts.OutputDir, e.opts.CourseDir)
	_, exportDiags := exporter.Export(tutorCourse)
	rep.Diagnostics = diag.Merge(rep.Diagnostics, exportDiags)

	rep.Finalize(time.Since(start))

	format := e.opts.ReportFormat
	if format == "" {
		format = "both"
	}
	if format == "json" || format == "both" {
		if err := rep.WriteJSON(e.opts.OutputDir); err != nil {
			logger.Warn("could not write JSON report", logger.Err(err))
		}
	}
	if format == "html" || format == "both" {
		if err := rep.WriteHTML(e.opts.OutputDir); err != nil {
			logger.Warn("could not write HTML report", logger.Err(err))
		}
	}

	logger.Info("migration finished",
		logger.String("status", string(rep.Status)),
		logger.Int("errors", rep.TotalErrors),
		logger.Int("warnings", rep.TotalWarnings))

	return rep, nil
}
