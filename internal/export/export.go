/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package export writes the converted course to disk: the import JSON, the
// reviewable HTML tree, the copied asset files and the import instructions.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/internal/tutor"
	"github.com/fulmenhq/courseport/pkg/buildinfo"
	"github.com/fulmenhq/courseport/pkg/htmlx"
	"github.com/fulmenhq/courseport/pkg/logger"
)

// CourseFileName is the import document written at the output root.
const CourseFileName = "tutor_course.json"

// Exporter writes one converted course into an output directory.
type Exporter struct {
	outputDir string
	sourceDir string
}

// New creates an exporter. sourceDir supplies the asset tree; pass "" to
// skip asset copying.
func New(outputDir, sourceDir string) *Exporter {
	return &Exporter{outputDir: outputDir, sourceDir: sourceDir}
}

// Result summarizes what the export produced.
type Result struct {
	OutputDirectory string  `json:"output_directory"`
	OutputFormat    string  `json:"output_format"`
	OutputSizeMB    float64 `json:"total_output_size_mb"`
	AssetsCopied    int     `json:"assets_copied"`
	HTMLFiles       int     `json:"html_files_written"`
	SchemaValid     bool    `json:"schema_valid"`
}

// Export writes everything. The JSON document is verified against the
// embedded schema after writing so a malformed export never goes unnoticed.
func (e *Exporter) Export(course *tutor.Course) (*Result, diag.List) {
	var diags diag.List
	result := &Result{OutputDirectory: e.outputDir, OutputFormat: "json"}

	if err := os.MkdirAll(e.outputDir, 0o755); err != nil {
		diags = append(diags, diag.New(diag.SeverityError, "EXPORT_ERROR",
			"cannot create output directory: "+err.Error()).
			WithPath(e.outputDir).
			WithAction("check output directory permissions"))
		return result, diags
	}

	payload := buildEnvelope(course)
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		diags = append(diags, diag.New(diag.SeverityError, "EXPORT_ERROR",
			"cannot encode course document: "+err.Error()))
		return result, diags
	}

	courseFile := filepath.Join(e.outputDir, CourseFileName)
	if err := os.WriteFile(courseFile, data, 0o644); err != nil {
		diags = append(diags, diag.New(diag.SeverityError, "EXPORT_ERROR",
			"cannot write "+CourseFileName+": "+err.Error()).
			WithPath(courseFile))
		return result, diags
	}
	if info, err := os.Stat(courseFile); err == nil {
		result.OutputSizeMB = float64(info.Size()) / (1024 * 1024)
	}

	valid, schemaDiags := verifyDocument(data)
	result.SchemaValid = valid
	diags = append(diags, schemaDiags...)

	copied, assetDiags := e.copyAssets()
	result.AssetsCopied = copied
	diags = append(diags, assetDiags...)

	written, htmlDiags := e.writeHTMLTree(course)
	result.HTMLFiles = written
	diags = append(diags, htmlDiags...)

	if err := e.writeImportInstructions(); err != nil {
		diags = append(diags, diag.New(diag.SeverityWarning, "EXPORT_ERROR",
			"cannot write import instructions: "+err.Error()))
	}

	logger.Info("course exported",
		logger.String("output", e.outputDir),
		logger.Int("html_files", result.HTMLFiles),
		logger.Int("assets", result.AssetsCopied),
		logger.Bool("schema_valid", result.SchemaValid))

	return result, diags
}

// envelope is the on-disk document shape.
type envelope struct {
	Course   envelopeCourse  `json:"course"`
	Topics   []envelopeTopic `json:"topics"`
	Metadata envelopeMeta    `json:"metadata"`
}

type envelopeCourse struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
}

type envelopeTopic struct {
	Title       string               `json:"title"`
	Summary     string               `json:"summary"`
	Order       int                  `json:"order"`
	Lessons     []envelopeLesson     `json:"lessons"`
	Quizzes     []envelopeQuiz       `json:"quizzes"`
	Assignments []envelopeAssignment `json:"assignments"`
}

type envelopeLesson struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Status  string `json:"status"`
	Order   int    `json:"order"`
}

type envelopeQuiz struct {
	Title     string             `json:"title"`
	Content   string             `json:"content"`
	Status    string             `json:"status"`
	Settings  tutor.QuizOption   `json:"settings"`
	Order     int                `json:"order"`
	Questions []envelopeQuestion `json:"questions"`
}

type envelopeQuestion struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	Marks       float64          `json:"marks"`
	Order       int              `json:"order"`
	Answers     []envelopeAnswer `json:"answers"`
}

type envelopeAnswer struct {
	Title     string `json:"title"`
	IsCorrect bool   `json:"is_correct"`
	Order     int    `json:"order"`
}

type envelopeAssignment struct {
	Title    string                 `json:"title"`
	Content  string                 `json:"content"`
	Status   string                 `json:"status"`
	Settings tutor.AssignmentOption `json:"settings"`
	Order    int                    `json:"order"`
}

type envelopeMeta struct {
	ExportedAt       string `json:"exported_at"`
	Source           string `json:"source"`
	ConverterVersion string `json:"converter_version"`
}

func buildEnvelope(course *tutor.Course) envelope {
	env := envelope{
		Course: envelopeCourse{
			Title:   course.PostTitle,
			Content: course.PostContent,
			Status:  course.PostStatus,
		},
		Metadata: envelopeMeta{
			ExportedAt:       time.Now().Format(time.RFC3339),
			Source:           "Canvas LMS",
			ConverterVersion: buildinfo.BinaryVersion,
		},
	}

	for _, topic := range course.Topics {
		et := envelopeTopic{
			Title:       topic.TopicTitle,
			Summary:     topic.TopicSummary,
			Order:       topic.TopicOrder,
			Lessons:     []envelopeLesson{},
			Quizzes:     []envelopeQuiz{},
			Assignments: []envelopeAssignment{},
		}
		for _, lesson := range topic.Lessons {
			et.Lessons = append(et.Lessons, envelopeLesson{
				Title:   lesson.PostTitle,
				Content: lesson.PostContent,
				Status:  lesson.PostStatus,
				Order:   lesson.MenuOrder,
			})
		}
		for _, quiz := range topic.Quizzes {
			eq := envelopeQuiz{
				Title:     quiz.PostTitle,
				Content:   quiz.PostContent,
				Status:    quiz.PostStatus,
				Settings:  quiz.QuizOption,
				Order:     quiz.MenuOrder,
				Questions: []envelopeQuestion{},
			}
			for _, question := range quiz.Questions {
				eqq := envelopeQuestion{
					Title:       question.QuestionTitle,
					Description: question.QuestionDescription,
					Type:        string(question.QuestionType),
					Marks:       question.QuestionMark,
					Order:       question.QuestionOrder,
					Answers:     []envelopeAnswer{},
				}
				for _, answer := range question.Answers {
					eqq.Answers = append(eqq.Answers, envelopeAnswer{
						Title:     answer.AnswerTitle,
						IsCorrect: answer.IsCorrect,
						Order:     answer.AnswerOrder,
					})
				}
				eq.Questions = append(eq.Questions, eqq)
			}
			et.Quizzes = append(et.Quizzes, eq)
		}
		for _, assignment := range topic.Assignments {
			et.Assignments = append(et.Assignments, envelopeAssignment{
				Title:    assignment.PostTitle,
				Content:  assignment.PostContent,
				Status:   assignment.PostStatus,
				Settings: assignment.AssignmentOption,
				Order:    assignment.MenuOrder,
			})
		}
		env.Topics = append(env.Topics, et)
	}
	if env.Topics == nil {
		env.Topics = []envelopeTopic{}
	}
	return env
}

// copyAssets mirrors the source web-resources tree into assets/.
func (e *Exporter) copyAssets() (int, diag.List) {
	if e.sourceDir == "" {
		return 0, nil
	}
	sourceAssets := filepath.Join(e.sourceDir, "web_resources")
	if _, err := os.Stat(sourceAssets); err != nil {
		return 0, diag.List{diag.New(diag.SeverityInfo, "NO_SOURCE_ASSETS",
			"source assets directory not found").
			WithPath(sourceAssets)}
	}

	destAssets := filepath.Join(e.outputDir, "assets")
	copied := 0
	err := filepath.WalkDir(sourceAssets, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(sourceAssets, path)
		if relErr != nil {
			return relErr
		}
		dest := filepath.Join(destAssets, rel)
		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}
		if err := copyFile(path, dest); err != nil {
			return err
		}
		copied++
		return nil
	})
	if err != nil {
		return copied, diag.List{diag.New(diag.SeverityWarning, "ASSET_COPY_ERROR",
			"failed copying assets: "+err.Error()).
			WithPath(sourceAssets)}
	}
	return copied, nil
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

var unsafeNameRe = regexp.MustCompile(`[^a-zA-Z0-9]`)

func safeName(title string) string {
	return strings.ToLower(unsafeNameRe.ReplaceAllString(title, "_"))
}

// writeHTMLTree renders every content item as a standalone HTML document
// under lessons/, one directory per topic, for pre-import review.
func (e *Exporter) writeHTMLTree(course *tutor.Course) (int, diag.List) {
	var diags diag.List
	written := 0

	lessonsDir := filepath.Join(e.outputDir, "lessons")
	for _, topic := range course.Topics {
		topicDir := filepath.Join(lessonsDir, fmt.Sprintf("module_%d_%s", topic.TopicOrder, safeName(topic.TopicTitle)))
		if err := os.MkdirAll(topicDir, 0o755); err != nil {
			diags = append(diags, diag.New(diag.SeverityWarning, "EXPORT_ERROR",
				"cannot create topic directory: "+err.Error()).WithPath(topicDir))
			continue
		}

		write := func(name, title, content string) {
			doc := htmlx.WrapDocument(title, content)
			if err := os.WriteFile(filepath.Join(topicDir, name), []byte(doc), 0o644); err != nil {
				diags = append(diags, diag.New(diag.SeverityWarning, "EXPORT_ERROR",
					"cannot write "+name+": "+err.Error()).WithPath(topicDir))
				return
			}
			written++
		}

		for _, lesson := range topic.Lessons {
			write(fmt.Sprintf("%d_%s.html", lesson.MenuOrder, safeName(lesson.PostTitle)),
				lesson.PostTitle, lesson.PostContent)
		}
		for _, quiz := range topic.Quizzes {
			write(fmt.Sprintf("quiz_%d_%s.html", quiz.MenuOrder, safeName(quiz.PostTitle)),
				quiz.PostTitle, quiz.PostContent)
		}
		for _, assignment := range topic.Assignments {
			write(fmt.Sprintf("assign_%d_%s.html", assignment.MenuOrder, safeName(assignment.PostTitle)),
				assignment.PostTitle, assignment.PostContent)
		}
	}
	return written, diags
}

const importInstructions = `# Tutor LMS Import Instructions

## Overview
This directory contains the exported Tutor LMS course in JSON format.

## Files
- ` + "`tutor_course.json`" + `: Complete course structure with topics, lessons, quizzes, and assignments
- ` + "`lessons/`" + `: Per-topic HTML renders of every lesson, quiz description and assignment
- ` + "`assets/`" + `: Copied course asset files
- ` + "`migration_report.json`" + `: Detailed migration report
- ` + "`migration_report.html`" + `: Human-readable migration report

## Import Methods

### Method 1: Using Custom Import Plugin (Recommended)
1. Install the Tutor LMS JSON Importer plugin
2. Go to WordPress Admin -> Tutor LMS -> Import
3. Upload ` + "`tutor_course.json`" + `
4. Review and confirm import

### Method 2: Manual Import
1. Review the JSON structure in ` + "`tutor_course.json`" + `
2. Manually create course, topics, lessons, quizzes in Tutor LMS
3. Copy content from JSON to corresponding fields
`

func (e *Exporter) writeImportInstructions() error {
	return os.WriteFile(filepath.Join(e.outputDir, "IMPORT_INSTRUCTIONS.md"), []byte(importInstructions), 0o644)
}
