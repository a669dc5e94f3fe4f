package canvas

import (
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/htmlx"
	"github.com/fulmenhq/courseport/pkg/xmlpath"
)

// QuestionParser reads QTI question documents.
type QuestionParser struct {
	courseDir string
}

// NewQuestionParser creates a question parser rooted at the export directory.
func NewQuestionParser(courseDir string) *QuestionParser {
	return &QuestionParser{courseDir: courseDir}
}

// questionTypeTable maps explicit question_type values. Unknown values fall
// through to essay.
var questionTypeTable = map[string]QuestionType{
	"multiple_choice_question":         QuestionMultipleChoice,
	"true_false_question":              QuestionTrueFalse,
	"essay_question":                   QuestionEssay,
	"short_answer_question":            QuestionShortAnswer,
	"fill_in_multiple_blanks_question": QuestionFillInBlank,
	"matching_question":                QuestionMatching,
	"numerical_question":               QuestionNumerical,
	"calculated_question":              QuestionCalculated,
	"multiple_answers_question":        QuestionMultipleAnswers,
	"file_upload_question":             QuestionFileUpload,
	"text_only_question":               QuestionTextOnly,
	"multiple_dropdowns_question":      QuestionMultipleDropdowns,
	"formula_question":                 QuestionFormula,
	"categorization_question":          QuestionCategorization,
	"ordering_question":                QuestionOrdering,
}

// ParseQuestionsFromQuiz parses every non-metadata XML file in a quiz
// directory, in lexical order.
func (p *QuestionParser) ParseQuestionsFromQuiz(quizDir string) ([]Question, diag.List) {
	var questions []Question
	var diags diag.List

	entries, err := filepath.Glob(filepath.Join(quizDir, "*.xml"))
	if err != nil {
		return nil, nil
	}
	sort.Strings(entries)

	for _, file := range entries {
		switch filepath.Base(file) {
		case AssessmentMeta, AssessmentAlt, AssignmentSettings:
			continue
		}
		question, qDiags := p.ParseQuestion(file)
		diags = append(diags, qDiags...)
		if question != nil {
			questions = append(questions, *question)
		}
	}
	return questions, diags
}

// ParseQuestion parses a single question document. Failures are warnings,
// never fatal, so the quiz keeps its remaining questions.
func (p *QuestionParser) ParseQuestion(questionFile string) (*Question, diag.List) {
	var diags diag.List

	doc, err := xmlpath.Load(questionFile)
	if err != nil {
		diags = append(diags, diag.New(diag.SeverityWarning, "QUESTION_PARSE_ERROR",
			"failed to parse question: "+err.Error()).
			WithPath(questionFile))
		return nil, diags
	}
	root := doc.Root()

	qType := determineQuestionType(root)

	question := &Question{
		Identifier:      xmlpath.Attr(root, "identifier", fileStem(questionFile)),
		Title:           xmlpath.Text(xmlpath.First(root, "title"), "Question"),
		Type:            qType,
		Text:            extractQuestionText(root),
		PointsPossible:  extractQuestionPoints(root),
		Answers:         extractAnswers(root, qType),
		GeneralFeedback: extractFeedback(root),
		SourceFile:      questionFile,
	}
	return question, diags
}

// determineQuestionType resolves the type in three steps: explicit type
// field through the fixed table, response cardinality, then essay.
func determineQuestionType(root *etree.Element) QuestionType {
	if typeEl := xmlpath.First(root, "question_type"); typeEl != nil {
		raw := strings.ToLower(xmlpath.Text(typeEl, ""))
		if mapped, ok := questionTypeTable[raw]; ok {
			return mapped
		}
		return QuestionEssay
	}

	if decl := xmlpath.First(root, "responseDeclaration"); decl != nil {
		switch xmlpath.Attr(decl, "cardinality", "single") {
		case "multiple":
			return QuestionMultipleAnswers
		case "single":
			return QuestionMultipleChoice
		}
	}

	return QuestionEssay
}

func extractQuestionText(root *etree.Element) string {
	if body := xmlpath.First(root, "itemBody"); body != nil {
		return htmlx.Clean(xmlpath.InnerXML(body))
	}
	if material := xmlpath.First(root, "presentation", "material"); material != nil {
		return htmlx.Clean(xmlpath.InnerXML(material))
	}
	if text := xmlpath.First(root, "question_text"); text != nil {
		return htmlx.Clean(xmlpath.Text(text, ""))
	}
	return ""
}

func extractQuestionPoints(root *etree.Element) float64 {
	if el := xmlpath.First(root, "maxScore"); el != nil {
		if v, err := strconv.ParseFloat(xmlpath.Text(el, "1"), 64); err == nil {
			return v
		}
	}
	if el := xmlpath.First(root, "points_possible"); el != nil {
		if v, err := strconv.ParseFloat(xmlpath.Text(el, "1"), 64); err == nil {
			return v
		}
	}
	return 1.0
}

// extractAnswers reads the choice list. Essay, file-upload and text-only
// questions never populate answers.
func extractAnswers(root *etree.Element, qType QuestionType) []Answer {
	switch qType {
	case QuestionEssay, QuestionFileUpload, QuestionTextOnly:
		return nil
	}

	choices := xmlpath.All(root, "simpleChoice")
	if len(choices) == 0 {
		choices = xmlpath.All(root, "response_choice")
	}

	correct := correctResponseIDs(root)

	var answers []Answer
	for _, choice := range choices {
		id := xmlpath.Attr(choice, "identifier", "")
		answer := Answer{
			ID:   id,
			Text: htmlx.Clean(xmlpath.InnerXML(choice)),
		}
		// Binary weight model: listed correct ids get full weight.
		if _, ok := correct[id]; ok {
			answer.Weight = 100.0
		}
		answers = append(answers, answer)
	}
	return answers
}

// correctResponseIDs scans the response-processing section for the declared
// correct answer identifiers.
func correctResponseIDs(root *etree.Element) map[string]struct{} {
	out := make(map[string]struct{})
	for _, correctEl := range xmlpath.All(root, "correctResponse") {
		for _, value := range xmlpath.All(correctEl, "value") {
			if id := xmlpath.Text(value, ""); id != "" {
				out[id] = struct{}{}
			}
		}
	}
	return out
}

func extractFeedback(root *etree.Element) string {
	if el := xmlpath.First(root, "generalFeedback"); el != nil {
		return htmlx.Clean(xmlpath.InnerXML(el))
	}
	if el := xmlpath.First(root, "modalFeedback"); el != nil {
		return htmlx.Clean(xmlpath.InnerXML(el))
	}
	return ""
}
