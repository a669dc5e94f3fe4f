/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package tutor models the target Tutor LMS course structure and the fixed
// mapping tables from source vocabulary to WordPress/Tutor vocabulary.
package tutor

// QuestionType enumerates the Tutor LMS question types.
type QuestionType string

const (
	TypeMultipleChoice QuestionType = "multiple_choice"
	TypeTrueFalse      QuestionType = "true_false"
	TypeFillInBlank    QuestionType = "fill_in_the_blank"
	TypeOpenEnded      QuestionType = "open_ended"
	TypeShortAnswer    QuestionType = "short_answer"
	TypeMatching       QuestionType = "matching"
	TypeImageMatching  QuestionType = "image_matching"
	TypeImageAnswering QuestionType = "image_answering"
	TypeOrdering       QuestionType = "ordering"
)

// TimeLimit is the quiz time budget.
type TimeLimit struct {
	TimeValue int    `json:"time_value"`
	TimeType  string `json:"time_type"` // minutes, hours, days, weeks
}

// QuizOption is the settings blob stored with each quiz.
type QuizOption struct {
	TimeLimit                      TimeLimit `json:"time_limit"`
	HideQuizTimeDisplay            bool      `json:"hide_quiz_time_display"`
	AttemptsAllowed                int       `json:"attempts_allowed"`
	PassingGrade                   int       `json:"passing_grade"`
	MaxQuestionsForAnswer          int       `json:"max_questions_for_answer"`
	QuizAutoStart                  bool      `json:"quiz_auto_start"`
	QuestionLayoutView             string    `json:"question_layout_view"`
	QuestionsOrder                 string    `json:"questions_order"`
	HideQuestionNumberOverview     bool      `json:"hide_question_number_overview"`
	ShortAnswerCharactersLimit     int       `json:"short_answer_characters_limit"`
	OpenEndedAnswerCharactersLimit int       `json:"open_ended_answer_characters_limit"`
	FeedbackMode                   string    `json:"feedback_mode"` // default, reveal, retry
}

// DefaultQuizOption returns the stock quiz settings.
func DefaultQuizOption() QuizOption {
	return QuizOption{
		TimeLimit:                      TimeLimit{TimeValue: 0, TimeType: "minutes"},
		AttemptsAllowed:                10,
		PassingGrade:                   80,
		MaxQuestionsForAnswer:          10,
		QuestionLayoutView:             "single_question",
		QuestionsOrder:                 "rand",
		ShortAnswerCharactersLimit:     200,
		OpenEndedAnswerCharactersLimit: 500,
		FeedbackMode:                   "default",
	}
}

// TimeDuration is the assignment working-time budget.
type TimeDuration struct {
	Value int    `json:"value"`
	Time  string `json:"time"` // minutes, hours, days, weeks
}

// AssignmentOption is the settings blob stored with each assignment.
type AssignmentOption struct {
	TotalMark           float64      `json:"total_mark"`
	PassMark            float64      `json:"pass_mark"`
	UploadFilesLimit    int          `json:"upload_files_limit"`
	UploadFileSizeLimit int          `json:"upload_file_size_limit"` // MB
	TimeDuration        TimeDuration `json:"time_duration"`
	Attachments         []string     `json:"attachments"`
}

// DefaultAssignmentOption returns the stock assignment settings.
func DefaultAssignmentOption() AssignmentOption {
	return AssignmentOption{
		TotalMark:           10,
		PassMark:            5,
		UploadFilesLimit:    1,
		UploadFileSizeLimit: 2,
		TimeDuration:        TimeDuration{Value: 0, Time: "weeks"},
		Attachments:         []string{},
	}
}

// Answer is one possible answer of a question.
type Answer struct {
	AnswerTitle       string `json:"answer_title"` // HTML
	IsCorrect         bool   `json:"is_correct"`
	AnswerViewFormat  string `json:"answer_view_format"` // text, image
	AnswerOrder       int    `json:"answer_order"`
	AnswerExplanation string `json:"answer_explanation,omitempty"`
}

// Question is one quiz question in Tutor form.
type Question struct {
	QuestionTitle       string       `json:"question_title"`
	QuestionDescription string       `json:"question_description"` // HTML
	QuestionType        QuestionType `json:"question_type"`
	QuestionMark        float64      `json:"question_mark"`
	Answers             []Answer     `json:"answers"`
	AnswerExplanation   string       `json:"answer_explanation,omitempty"`
	QuestionOrder       int          `json:"question_order"`
	SourceID            string       `json:"source_canvas_id,omitempty"`
}

// Quiz is a Tutor quiz post plus its settings and questions.
type Quiz struct {
	PostTitle   string     `json:"post_title"`
	PostContent string     `json:"post_content"` // HTML
	PostStatus  string     `json:"post_status"`
	QuizOption  QuizOption `json:"quiz_option"`
	Questions   []Question `json:"questions"`
	MenuOrder   int        `json:"menu_order"`
	SourceID    string     `json:"source_canvas_id,omitempty"`
}

// Lesson is a Tutor lesson post.
type Lesson struct {
	PostTitle   string `json:"post_title"`
	PostContent string `json:"post_content"` // HTML
	PostStatus  string `json:"post_status"`
	VideoSource string `json:"video_source,omitempty"`
	MenuOrder   int    `json:"menu_order"`
	SourceID    string `json:"source_canvas_id,omitempty"`
}

// Assignment is a Tutor assignment post plus its settings.
type Assignment struct {
	PostTitle        string           `json:"post_title"`
	PostContent      string           `json:"post_content"` // HTML
	PostStatus       string           `json:"post_status"`
	AssignmentOption AssignmentOption `json:"assignment_option"`
	MenuOrder        int              `json:"menu_order"`
	SourceID         string           `json:"source_canvas_id,omitempty"`
}

// Topic is a course section holding lessons, quizzes and assignments.
type Topic struct {
	TopicTitle   string       `json:"topic_title"`
	TopicSummary string       `json:"topic_summary"`
	TopicOrder   int          `json:"topic_order"`
	Lessons      []Lesson     `json:"lessons"`
	Quizzes      []Quiz       `json:"quizzes"`
	Assignments  []Assignment `json:"assignments"`
	SourceID     string       `json:"source_canvas_id,omitempty"`
}

// Course is the root output model.
type Course struct {
	PostTitle   string  `json:"post_title"`
	PostContent string  `json:"post_content"`
	PostStatus  string  `json:"post_status"`
	Topics      []Topic `json:"topics"`
	SourceID    string  `json:"source_canvas_course_id,omitempty"`
}

// Counts reports per-type output entity counts.
func (c *Course) Counts() map[string]int {
	lessons, quizzes, questions, assignments := 0, 0, 0, 0
	for _, t := range c.Topics {
		lessons += len(t.Lessons)
		quizzes += len(t.Quizzes)
		assignments += len(t.Assignments)
		for _, q := range t.Quizzes {
			questions += len(q.Questions)
		}
	}
	return map[string]int{
		"topics":      len(c.Topics),
		"lessons":     lessons,
		"quizzes":     quizzes,
		"questions":   questions,
		"assignments": assignments,
	}
}
