/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package canvas

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/htmlx"
	"github.com/fulmenhq/courseport/pkg/xmlpath"
)

// QuizParser reads quiz directories: metadata from the assessment settings
// document, questions from the remaining XML files.
type QuizParser struct {
	courseDir string
	questions *QuestionParser
}

// NewQuizParser creates a quiz parser rooted at the export directory.
func NewQuizParser(courseDir string) *QuizParser {
	return &QuizParser{
		courseDir: courseDir,
		questions: NewQuestionParser(courseDir),
	}
}

// ParseQuiz parses one quiz directory. Metadata is optional: a quiz with no
// settings document still keeps its questions under a directory-derived title.
func (p *QuizParser) ParseQuiz(quizDir string) (*Quiz, diag.List) {
	var diags diag.List

	quiz := &Quiz{
		Title:           titleFromDirName(quizDir),
		Identifier:      filepath.Base(quizDir),
		QuizType:        "assignment",
		AllowedAttempts: 1,
		State:           StateActive,
	}

	metaFile := findQuizMeta(quizDir)
	if metaFile != "" {
		doc, err := xmlpath.Load(metaFile)
		if err != nil {
			diags = append(diags, diag.New(diag.SeverityError, "QUIZ_META_PARSE_ERROR",
				"failed to parse quiz metadata: "+err.Error()).
				WithPath(metaFile))
		} else {
			root := doc.Root()
			quiz.Title = xmlpath.Text(xmlpath.First(root, "title"), quiz.Title)
			quiz.Identifier = xmlpath.Attr(root, "identifier", quiz.Identifier)
			quiz.Description = htmlx.Clean(xmlpath.Text(xmlpath.First(root, "description"), ""))
			quiz.QuizType = xmlpath.Text(xmlpath.First(root, "quiz_type"), "assignment")
			quiz.State = ParseWorkflowState(xmlpath.Text(xmlpath.First(root, "workflow_state"), "active"))
			quiz.SourceFile = metaFile

			if v, err := strconv.ParseFloat(xmlpath.Text(xmlpath.First(root, "points_possible"), "0"), 64); err == nil {
				quiz.PointsPossible = v
			}
			if v, err := strconv.Atoi(xmlpath.Text(xmlpath.First(root, "time_limit"), "0")); err == nil {
				quiz.TimeLimit = v
			}
			if v, err := strconv.Atoi(xmlpath.Text(xmlpath.First(root, "allowed_attempts"), "1")); err == nil && v != 0 {
				quiz.AllowedAttempts = v
			}
		}
	}
	if quiz.SourceFile == "" {
		quiz.SourceFile = quizDir
	}

	questions, qDiags := p.questions.ParseQuestionsFromQuiz(quizDir)
	quiz.Questions = questions
	diags = append(diags, qDiags...)

	return quiz, diags
}

// findQuizMeta returns the settings document path, preferring the canonical
// name over the legacy one.
func findQuizMeta(quizDir string) string {
	for _, name := range []string{AssessmentMeta, AssessmentAlt} {
		candidate := filepath.Join(quizDir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// FindAll discovers quiz directories: every subdirectory of the assessments
// directory, plus any root-level directory carrying a settings document that
// is not already an assignment.
func (p *QuizParser) FindAll() ([]Quiz, diag.List) {
	var quizzes []Quiz
	var diags diag.List

	seen := make(map[string]struct{})

	assessmentsDir := filepath.Join(p.courseDir, AssessmentsDir)
	for _, dir := range sortedSubdirs(assessmentsDir) {
		quiz, qDiags := p.ParseQuiz(dir)
		diags = append(diags, qDiags...)
		if quiz != nil {
			quizzes = append(quizzes, *quiz)
			seen[quiz.Identifier] = struct{}{}
		}
	}

	for _, dir := range sortedSubdirs(p.courseDir) {
		if filepath.Base(dir) == AssessmentsDir || filepath.Base(dir) == WikiContentDir || filepath.Base(dir) == WebResourcesDir {
			continue
		}
		if findQuizMeta(dir) == "" {
			continue
		}
		// Assignment bundles carry their own settings file; skip them here.
		if _, err := os.Stat(filepath.Join(dir, AssignmentSettings)); err == nil {
			continue
		}
		quiz, qDiags := p.ParseQuiz(dir)
		diags = append(diags, qDiags...)
		if quiz != nil {
			if _, dup := seen[quiz.Identifier]; dup {
				continue
			}
			quizzes = append(quizzes, *quiz)
			seen[quiz.Identifier] = struct{}{}
		}
	}

	return quizzes, diags
}

// titleFromDirName turns a directory name into a display title.
func titleFromDirName(dir string) string {
	return titleFromStem(filepath.Base(dir))
}

func sortedSubdirs(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out
}
