package canvas

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/htmlx"
	"github.com/fulmenhq/courseport/pkg/xmlpath"
)

// AssignmentParser reads per-assignment settings documents.
type AssignmentParser struct {
	courseDir string
}

// NewAssignmentParser creates an assignment parser rooted at the export directory.
func NewAssignmentParser(courseDir string) *AssignmentParser {
	return &AssignmentParser{courseDir: courseDir}
}

// ParseAssignment parses an assignment from its directory. When the settings
// description is empty, sibling HTML files supply the description; a missing
// HTML file is not an error either way.
func (p *AssignmentParser) ParseAssignment(assignmentDir string) (*Assignment, diag.List) {
	var diags diag.List

	settingsFile := filepath.Join(assignmentDir, AssignmentSettings)
	if _, err := os.Stat(settingsFile); err != nil {
		return nil, nil
	}

	doc, err := xmlpath.Load(settingsFile)
	if err != nil {
		diags = append(diags, diag.New(diag.SeverityError, "ASSIGNMENT_PARSE_ERROR",
			"failed to parse assignment settings: "+filepath.Base(assignmentDir)).
			WithPath(settingsFile))
		return nil, diags
	}
	root := doc.Root()

	description := htmlx.Clean(xmlpath.Text(xmlpath.First(root, "description"), ""))
	if description == "" {
		description = p.descriptionFromHTML(assignmentDir)
	}

	points, _ := strconv.ParseFloat(xmlpath.Text(xmlpath.First(root, "points_possible"), "0"), 64)

	assignment := &Assignment{
		Title:           xmlpath.Text(xmlpath.First(root, "title"), "Untitled Assignment"),
		Identifier:      filepath.Base(assignmentDir),
		Description:     description,
		PointsPossible:  points,
		GradingType:     xmlpath.Text(xmlpath.First(root, "grading_type"), "points"),
		SubmissionTypes: splitSubmissionTypes(xmlpath.Text(xmlpath.First(root, "submission_types"), "")),
		State:           ParseWorkflowState(xmlpath.Text(xmlpath.First(root, "workflow_state"), "active")),
		SourceFile:      settingsFile,
	}
	return assignment, diags
}

// descriptionFromHTML scans the assignment directory for HTML files and
// extracts the first usable body. Only fires when the settings field is empty.
func (p *AssignmentParser) descriptionFromHTML(assignmentDir string) string {
	matches, err := doublestar.FilepathGlob(filepath.Join(assignmentDir, "*.html"))
	if err != nil || len(matches) == 0 {
		return ""
	}
	sort.Strings(matches)

	raw, err := os.ReadFile(matches[0])
	if err != nil {
		return ""
	}
	content := string(raw)
	if body := htmlx.BodyContent(content); body != "" {
		return body
	}
	return content
}

var knownSubmissionTypes = map[string]struct{}{
	"online_text_entry": {},
	"online_url":        {},
	"online_upload":     {},
	"online_quiz":       {},
	"media_recording":   {},
	"external_tool":     {},
	"none":              {},
}

func splitSubmissionTypes(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if _, ok := knownSubmissionTypes[part]; ok {
			out = append(out, part)
		}
	}
	return out
}

// FindAll discovers every directory holding a settings document and parses
// it, in lexical order.
func (p *AssignmentParser) FindAll() ([]Assignment, diag.List) {
	var assignments []Assignment
	var diags diag.List

	entries, err := os.ReadDir(p.courseDir)
	if err != nil {
		return nil, diag.List{diag.New(diag.SeverityError, "ASSIGNMENT_SCAN_ERROR",
			"cannot read course directory: "+err.Error()).WithPath(p.courseDir)}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		dir := filepath.Join(p.courseDir, name)
		if _, err := os.Stat(filepath.Join(dir, AssignmentSettings)); err != nil {
			continue
		}
		assignment, aDiags := p.ParseAssignment(dir)
		diags = append(diags, aDiags...)
		if assignment != nil {
			assignments = append(assignments, *assignment)
		}
	}
	return assignments, diags
}
