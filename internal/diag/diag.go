/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package diag defines the diagnostic values every pipeline component returns
// alongside its primary result. Diagnostics are data, never control flow:
// only a critical from catalog- or course-level parsing halts the run.
package diag

import "time"

// Severity classifies a diagnostic.
type Severity string

const (
	// SeverityCritical halts the pipeline (missing/unparseable manifest).
	SeverityCritical Severity = "critical"
	// SeverityError means an entity was lost or corrupted; the run continues.
	SeverityError Severity = "error"
	// SeverityWarning means content migrated with a caveat.
	SeverityWarning Severity = "warning"
	// SeverityInfo is purely informational.
	SeverityInfo Severity = "info"
)

// Diagnostic is a single finding from a pipeline component.
type Diagnostic struct {
	Severity        Severity  `json:"severity"`
	Kind            string    `json:"kind"` // PARSE_ERROR, MISSING_FILE, UNSUPPORTED_QUESTION_TYPE, ...
	Message         string    `json:"message"`
	Path            string    `json:"path,omitempty"`
	EntityType      string    `json:"entity_type,omitempty"` // page, quiz, assignment, question
	EntityID        string    `json:"entity_id,omitempty"`
	SuggestedAction string    `json:"suggested_action,omitempty"`
	Time            time.Time `json:"time"`
}

// New builds a diagnostic with the timestamp set.
func New(sev Severity, kind, message string) Diagnostic {
	return Diagnostic{Severity: sev, Kind: kind, Message: message, Time: time.Now()}
}

// WithPath attaches a file path.
func (d Diagnostic) WithPath(path string) Diagnostic {
	d.Path = path
	return d
}

// WithEntity attaches the source entity the diagnostic refers to.
func (d Diagnostic) WithEntity(entityType, entityID string) Diagnostic {
	d.EntityType = entityType
	d.EntityID = entityID
	return d
}

// WithAction attaches a suggested remediation.
func (d Diagnostic) WithAction(action string) Diagnostic {
	d.SuggestedAction = action
	return d
}

// List is an ordered collection of diagnostics.
type List []Diagnostic

// HasCritical reports whether any diagnostic is critical.
func (l List) HasCritical() bool {
	for _, d := range l {
		if d.Severity == SeverityCritical {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics at the given severity.
func (l List) Count(sev Severity) int {
	n := 0
	for _, d := range l {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Totals summarizes a list by severity.
type Totals struct {
	Critical int `json:"critical"`
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Summarize computes severity totals for the list.
func (l List) Summarize() Totals {
	return Totals{
		Critical: l.Count(SeverityCritical),
		Errors:   l.Count(SeverityError),
		Warnings: l.Count(SeverityWarning),
		Info:     l.Count(SeverityInfo),
	}
}

// Merge concatenates lists in the given order. Callers pass stage results in
// stage order so the merged list is stage-ordered, then discovery-ordered.
func Merge(lists ...List) List {
	var out List
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
