/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package canvas models a Canvas-style IMS-CC course export and provides the
// parsers that read it: the manifest catalog, the per-family content parsers
// and the orphaned-content reconciler.
package canvas

// WorkflowState is the source publish state of a piece of content.
type WorkflowState string

const (
	StateActive      WorkflowState = "active"
	StateUnpublished WorkflowState = "unpublished"
	StateDeleted     WorkflowState = "deleted"
)

// ParseWorkflowState maps a raw state string, defaulting to active.
func ParseWorkflowState(s string) WorkflowState {
	switch s {
	case "unpublished":
		return StateUnpublished
	case "deleted":
		return StateDeleted
	default:
		return StateActive
	}
}

// QuestionType enumerates the QTI-compliant source question types.
type QuestionType string

const (
	QuestionMultipleChoice    QuestionType = "multiple_choice_question"
	QuestionTrueFalse         QuestionType = "true_false_question"
	QuestionFillInBlank       QuestionType = "fill_in_multiple_blanks_question"
	QuestionEssay             QuestionType = "essay_question"
	QuestionShortAnswer       QuestionType = "short_answer_question"
	QuestionMatching          QuestionType = "matching_question"
	QuestionNumerical         QuestionType = "numerical_question"
	QuestionCalculated        QuestionType = "calculated_question"
	QuestionMultipleAnswers   QuestionType = "multiple_answers_question"
	QuestionFileUpload        QuestionType = "file_upload_question"
	QuestionTextOnly          QuestionType = "text_only_question"
	QuestionMultipleDropdowns QuestionType = "multiple_dropdowns_question"
	QuestionFormula           QuestionType = "formula_question"
	QuestionCategorization    QuestionType = "categorization_question"
	QuestionOrdering          QuestionType = "ordering_question"
)

// Content types inferred for organization items.
const (
	ContentPage       = "page"
	ContentQuiz       = "quiz"
	ContentAssignment = "assignment"
	ContentDiscussion = "discussion"
)

// Well-known export layout.
const (
	ManifestName       = "imsmanifest.xml"
	WikiContentDir     = "wiki_content"
	WebResourcesDir    = "web_resources"
	AssessmentsDir     = "non_cc_assessments"
	AssignmentSettings = "assignment_settings.xml"
	AssessmentMeta     = "assessment_meta.xml"
	AssessmentAlt      = "assessment.xml"
)

// SystemFiles are control files that are never content, by base name.
var SystemFiles = map[string]struct{}{
	"imsmanifest.xml":          {},
	"course_settings.xml":      {},
	"module_meta.xml":          {},
	"assignment_settings.xml":  {},
	"assignment_groups.xml":    {},
	"canvas_export.txt":        {},
	"files_meta.xml":           {},
	"context.xml":              {},
	"media_tracks.xml":         {},
	"syllabus.html":            {},
	"late_policy.xml":          {},
	"assessment_meta.xml":      {},
	"assessment_qti.xml":       {},
	"grading_standards.xml":    {},
	"rubrics.xml":              {},
	"learning_outcomes.xml":    {},
	"events.xml":               {},
	"wiki_settings.xml":        {},
	"course_paces.xml":         {},
	"blueprint_settings.xml":   {},
	"content_migrations.xml":   {},
	"external_feeds.xml":       {},
	"external_tools.xml":       {},
	"announcements_meta.xml":   {},
	"discussion_settings.xml":  {},
	"collaboration_state.xml":  {},
}

// Resource is one manifest-declared (id, location, type) triple. Built once
// by the catalog builder, immutable afterward.
type Resource struct {
	Identifier   string
	Href         string
	Type         string
	FileExists   bool
	ResolvedPath string
}

// Item is one node of the organization tree. The tree is annotated, never
// pruned: items without a resolvable content type stay in place.
type Item struct {
	Title       string
	Identifier  string
	ContentType string // page, quiz, assignment, discussion; "" when unknown
	ContentFile string // declared href from the bound resource
	Position    int
	Items       []Item
	State       WorkflowState
}

// Module is a top-level organization container.
type Module struct {
	Title      string
	Identifier string
	Position   int
	Items      []Item
	State      WorkflowState
}

// Page is a wiki page parsed from a page document.
type Page struct {
	Title      string
	Identifier string
	Body       string // HTML
	State      WorkflowState
	SourceFile string
}

// Assignment is parsed from a per-assignment settings document.
type Assignment struct {
	Title           string
	Identifier      string
	Description     string // HTML
	PointsPossible  float64
	GradingType     string
	SubmissionTypes []string
	State           WorkflowState
	SourceFile      string
}

// Answer is one choice of a question. Weight 100 marks the correct choice;
// the model is binary, not partial credit.
type Answer struct {
	ID       string
	Text     string // HTML
	Weight   float64
	Feedback string
}

// Question is one quiz question parsed from a QTI document.
type Question struct {
	Identifier      string
	Title           string
	Type            QuestionType
	Text            string // HTML
	PointsPossible  float64
	Answers         []Answer
	GeneralFeedback string
	SourceFile      string
}

// Quiz owns an ordered list of questions.
type Quiz struct {
	Title           string
	Identifier      string
	Description     string // HTML
	QuizType        string
	PointsPossible  float64
	TimeLimit       int // minutes; 0 = none
	AllowedAttempts int
	Questions       []Question
	State           WorkflowState
	SourceFile      string
}

// Course is the complete parsed source course.
type Course struct {
	Title       string
	Identifier  string
	Modules     []Module
	Pages       []Page
	Assignments []Assignment
	Quizzes     []Quiz
	Resources   map[string]Resource
	// FileHrefs are the secondary file locations declared inside resource
	// elements. They count as referenced for orphan detection even though
	// no resource is keyed by them.
	FileHrefs []string
	SourceDir string
}

// ContentCounts reports per-type entity counts for inventory reporting.
func (c *Course) ContentCounts() map[string]int {
	questions := 0
	for _, q := range c.Quizzes {
		questions += len(q.Questions)
	}
	return map[string]int{
		"modules":     len(c.Modules),
		"pages":       len(c.Pages),
		"assignments": len(c.Assignments),
		"quizzes":     len(c.Quizzes),
		"questions":   questions,
	}
}

// ReferencedHrefs returns every declared content location: resource hrefs
// plus secondary file hrefs.
func (c *Course) ReferencedHrefs() []string {
	out := make([]string, 0, len(c.Resources)+len(c.FileHrefs))
	for _, r := range c.Resources {
		if r.Href != "" {
			out = append(out, r.Href)
		}
	}
	out = append(out, c.FileHrefs...)
	return out
}
