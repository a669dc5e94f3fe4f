/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package tutor

import "github.com/fulmenhq/courseport/internal/canvas"

// StatusFor maps a source workflow state to a WordPress post status.
// Anything unrecognized publishes.
func StatusFor(state canvas.WorkflowState) string {
	switch state {
	case canvas.StateUnpublished:
		return "draft"
	case canvas.StateDeleted:
		return "trash"
	default:
		return "publish"
	}
}

// TypeMapping describes the outcome of mapping one source question type.
// Skip drops the question; Fallback marks a lossy approximation that should
// get a manual-review warning.
type TypeMapping struct {
	Target   QuestionType
	Fallback bool
	Skip     bool
}

// QuestionTypeMap is the fixed source-to-Tutor question type table. Types
// with no native Tutor equivalent map to the closest supported type.
var QuestionTypeMap = map[canvas.QuestionType]TypeMapping{
	canvas.QuestionMultipleChoice:    {Target: TypeMultipleChoice},
	canvas.QuestionTrueFalse:         {Target: TypeTrueFalse},
	canvas.QuestionEssay:             {Target: TypeOpenEnded},
	canvas.QuestionShortAnswer:       {Target: TypeShortAnswer},
	canvas.QuestionFillInBlank:       {Target: TypeFillInBlank},
	canvas.QuestionMatching:          {Target: TypeMatching},
	canvas.QuestionNumerical:         {Target: TypeShortAnswer, Fallback: true},
	canvas.QuestionCalculated:        {Target: TypeOpenEnded, Fallback: true},
	canvas.QuestionMultipleAnswers:   {Target: TypeMultipleChoice},
	canvas.QuestionFileUpload:        {Target: TypeOpenEnded, Fallback: true},
	canvas.QuestionTextOnly:          {Skip: true},
	canvas.QuestionMultipleDropdowns: {Target: TypeMultipleChoice, Fallback: true},
	canvas.QuestionFormula:           {Target: TypeOpenEnded, Fallback: true},
	canvas.QuestionCategorization:    {Target: TypeMatching, Fallback: true},
	canvas.QuestionOrdering:          {Target: TypeOrdering},
}

// MapQuestionType resolves one source type. Unknown types fall back to
// open-ended so no question is lost to an unrecognized label.
func MapQuestionType(t canvas.QuestionType) TypeMapping {
	if m, ok := QuestionTypeMap[t]; ok {
		return m
	}
	return TypeMapping{Target: TypeOpenEnded, Fallback: true}
}
