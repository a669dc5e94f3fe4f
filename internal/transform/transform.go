/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package transform converts a resolved source course into the Tutor LMS
// output model, applying the fixed status and question-type tables.
package transform

import (
	"fmt"

	"github.com/fulmenhq/courseport/internal/canvas"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/internal/resolve"
	"github.com/fulmenhq/courseport/internal/tutor"
	"github.com/fulmenhq/courseport/pkg/htmlx"
	"github.com/fulmenhq/courseport/pkg/logger"
)

// DefaultAssetBase is where lesson-relative asset links point. Lessons land
// two levels deep in the output tree, so assets sit two levels up.
const DefaultAssetBase = "../../assets/"

// Counters tallies what the transformation produced.
type Counters struct {
	Topics      int `json:"topics_created"`
	Lessons     int `json:"lessons_created"`
	Quizzes     int `json:"quizzes_created"`
	Questions   int `json:"questions_created"`
	Assignments int `json:"assignments_created"`

	// QuestionTypes counts every source question seen, by source type,
	// whether it mapped cleanly, fell back or was skipped.
	QuestionTypes map[string]int `json:"question_type_mappings"`
}

// Transformer converts one course. Not safe for concurrent use: it carries
// the question histogram and the processed-assignment set across calls.
type Transformer struct {
	assetBase string
	settings  *Settings
	counters  Counters
	processed map[string]struct{}
	diags     diag.List
}

// New creates a transformer writing asset links against assetBase.
func New(assetBase string) *Transformer {
	if assetBase == "" {
		assetBase = DefaultAssetBase
	}
	return &Transformer{
		assetBase: assetBase,
		counters:  Counters{QuestionTypes: make(map[string]int)},
		processed: make(map[string]struct{}),
	}
}

// WithSettings applies per-run option overrides. A nil settings value keeps
// the stock defaults.
func (t *Transformer) WithSettings(settings *Settings) *Transformer {
	t.settings = settings
	return t
}

// Transform builds the output course from the resolved structure. Topics
// come out in module traversal order; assignments nothing claimed are
// gathered into a trailing "Assignments" topic.
func (t *Transformer) Transform(course *canvas.Course, resolved *resolve.Result, unattached []canvas.Assignment) (*tutor.Course, Counters, diag.List) {
	out := &tutor.Course{
		PostTitle:   course.Title,
		PostContent: "Course: " + course.Title,
		PostStatus:  "publish",
		SourceID:    course.Identifier,
	}

	for _, module := range resolved.Modules {
		topic := t.transformModule(module)
		out.Topics = append(out.Topics, topic)
		t.counters.Topics++
	}

	if orphanTopic := t.orphanAssignmentsTopic(unattached, len(out.Topics)); orphanTopic != nil {
		out.Topics = append(out.Topics, *orphanTopic)
		t.counters.Topics++
	}

	counts := out.Counts()
	logger.Info("course transformed",
		logger.Int("topics", counts["topics"]),
		logger.Int("lessons", counts["lessons"]),
		logger.Int("quizzes", counts["quizzes"]),
		logger.Int("assignments", counts["assignments"]))

	return out, t.counters, t.diags
}

func (t *Transformer) transformModule(module resolve.ResolvedModule) tutor.Topic {
	topic := tutor.Topic{
		TopicTitle: module.Module.Title,
		TopicOrder: module.Module.Position,
		SourceID:   module.Module.Identifier,
	}
	t.transformItems(module.Items, &topic)
	return topic
}

// transformItems walks the resolved item tree depth-first so nested items
// keep their traversal position inside the flat topic.
func (t *Transformer) transformItems(items []resolve.ResolvedItem, topic *tutor.Topic) {
	for _, item := range items {
		switch {
		case item.Page != nil:
			topic.Lessons = append(topic.Lessons, t.transformPage(item.Page, item.Item.Position))
			t.counters.Lessons++
		case item.Quiz != nil:
			topic.Quizzes = append(topic.Quizzes, t.transformQuiz(item.Quiz, item.Item.Position))
			t.counters.Quizzes++
		case item.Assignment != nil:
			topic.Assignments = append(topic.Assignments, t.transformAssignment(item.Assignment, item.Item.Position))
			t.counters.Assignments++
		}
		t.transformItems(item.Items, topic)
	}
}

func (t *Transformer) transformPage(page *canvas.Page, order int) tutor.Lesson {
	return tutor.Lesson{
		PostTitle:   page.Title,
		PostContent: htmlx.RewriteAssetPaths(page.Body, t.assetBase),
		PostStatus:  tutor.StatusFor(page.State),
		MenuOrder:   order,
		SourceID:    page.Identifier,
	}
}

func (t *Transformer) transformQuiz(quiz *canvas.Quiz, order int) tutor.Quiz {
	option := tutor.DefaultQuizOption()
	t.settings.applyQuiz(&option)
	if quiz.TimeLimit > 0 {
		option.TimeLimit = tutor.TimeLimit{TimeValue: quiz.TimeLimit, TimeType: "minutes"}
	}
	option.AttemptsAllowed = quiz.AllowedAttempts

	out := tutor.Quiz{
		PostTitle:   quiz.Title,
		PostContent: htmlx.RewriteAssetPaths(quiz.Description, t.assetBase),
		PostStatus:  tutor.StatusFor(quiz.State),
		QuizOption:  option,
		MenuOrder:   order,
		SourceID:    quiz.Identifier,
	}

	for position, question := range quiz.Questions {
		if q := t.transformQuestion(question, position); q != nil {
			out.Questions = append(out.Questions, *q)
			t.counters.Questions++
		}
	}
	return out
}

// transformQuestion applies the type table. The histogram counts every
// source question, including ones the table drops.
func (t *Transformer) transformQuestion(question canvas.Question, order int) *tutor.Question {
	t.counters.QuestionTypes[string(question.Type)]++

	mapping := tutor.MapQuestionType(question.Type)
	if mapping.Skip {
		t.diags = append(t.diags, diag.New(diag.SeverityWarning, "UNSUPPORTED_QUESTION_TYPE",
			fmt.Sprintf("question type '%s' not supported, skipping question", question.Type)).
			WithEntity("question", question.Identifier).
			WithAction("question will be skipped"))
		return nil
	}
	if mapping.Fallback {
		t.diags = append(t.diags, diag.New(diag.SeverityWarning, "QUESTION_TYPE_FALLBACK",
			fmt.Sprintf("question type '%s' converted to %s", question.Type, mapping.Target)).
			WithEntity("question", question.Identifier).
			WithAction("manual review recommended"))
	}

	out := &tutor.Question{
		QuestionTitle:       question.Title,
		QuestionDescription: htmlx.RewriteAssetPaths(question.Text, t.assetBase),
		QuestionType:        mapping.Target,
		QuestionMark:        question.PointsPossible,
		AnswerExplanation:   question.GeneralFeedback,
		QuestionOrder:       order,
		SourceID:            question.Identifier,
	}

	for i, answer := range question.Answers {
		if answer.Weight > 0 && answer.Weight < 100 {
			t.diags = append(t.diags, diag.New(diag.SeverityWarning, "PARTIAL_CREDIT_DROPPED",
				fmt.Sprintf("answer weight %.0f treated as incorrect; partial credit is not supported", answer.Weight)).
				WithEntity("question", question.Identifier).
				WithAction("manual review recommended"))
		}
		out.Answers = append(out.Answers, tutor.Answer{
			AnswerTitle:       htmlx.RewriteAssetPaths(answer.Text, t.assetBase),
			IsCorrect:         answer.Weight >= 100,
			AnswerViewFormat:  "text",
			AnswerOrder:       i,
			AnswerExplanation: answer.Feedback,
		})
	}
	return out
}

func (t *Transformer) transformAssignment(assignment *canvas.Assignment, order int) tutor.Assignment {
	option := tutor.DefaultAssignmentOption()
	t.settings.applyAssignment(&option)
	option.TotalMark = assignment.PointsPossible
	option.PassMark = assignment.PointsPossible * t.settings.passRatio()

	t.processed[assignment.Identifier] = struct{}{}

	return tutor.Assignment{
		PostTitle:        assignment.Title,
		PostContent:      htmlx.RewriteAssetPaths(assignment.Description, t.assetBase),
		PostStatus:       tutor.StatusFor(assignment.State),
		AssignmentOption: option,
		MenuOrder:        order,
		SourceID:         assignment.Identifier,
	}
}

// orphanAssignmentsTopic gathers assignments no module claimed. The
// processed set keeps an assignment placed by a module from showing up
// twice.
func (t *Transformer) orphanAssignmentsTopic(unattached []canvas.Assignment, position int) *tutor.Topic {
	var pending []canvas.Assignment
	for _, a := range unattached {
		if _, done := t.processed[a.Identifier]; done {
			continue
		}
		pending = append(pending, a)
	}
	if len(pending) == 0 {
		return nil
	}

	topic := &tutor.Topic{
		TopicTitle: "Assignments",
		TopicOrder: position + 1,
		SourceID:   "orphaned_assignments_topic",
	}
	for i := range pending {
		topic.Assignments = append(topic.Assignments, t.transformAssignment(&pending[i], i))
		t.counters.Assignments++
	}
	return topic
}
