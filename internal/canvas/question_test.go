package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuestionMultipleChoice(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.xml", fixtureQuestionMC)

	question, diags := NewQuestionParser(dir).ParseQuestion(path)
	require.NotNil(t, question)
	assert.Empty(t, diags)

	assert.Equal(t, "q_mc_1", question.Identifier)
	assert.Equal(t, QuestionMultipleChoice, question.Type)
	assert.Equal(t, "Which ocean is largest?", question.Text)
	assert.Equal(t, 1.0, question.PointsPossible)

	require.Len(t, question.Answers, 2)
	assert.Equal(t, "Pacific", question.Answers[0].Text)
	assert.Equal(t, 100.0, question.Answers[0].Weight)
	assert.Equal(t, 0.0, question.Answers[1].Weight)
}

func TestParseQuestionEssayHasNoAnswers(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.xml", fixtureQuestionEssay)

	question, _ := NewQuestionParser(dir).ParseQuestion(path)
	require.NotNil(t, question)
	assert.Equal(t, QuestionEssay, question.Type)
	assert.Equal(t, 5.0, question.PointsPossible)
	assert.Nil(t, question.Answers)
}

func TestQuestionTypeFromCardinality(t *testing.T) {
	dir := t.TempDir()

	multi := writeFile(t, dir, "multi.xml", `<item identifier="m1">
  <responseDeclaration cardinality="multiple"/>
  <itemBody>Select all that apply</itemBody>
  <simpleChoice identifier="a">A</simpleChoice>
</item>`)
	single := writeFile(t, dir, "single.xml", `<item identifier="s1">
  <responseDeclaration cardinality="single"/>
  <itemBody>Pick one</itemBody>
  <simpleChoice identifier="a">A</simpleChoice>
</item>`)
	bare := writeFile(t, dir, "bare.xml", `<item identifier="b1">
  <itemBody>Write something</itemBody>
</item>`)

	parser := NewQuestionParser(dir)

	q, _ := parser.ParseQuestion(multi)
	require.NotNil(t, q)
	assert.Equal(t, QuestionMultipleAnswers, q.Type)

	q, _ = parser.ParseQuestion(single)
	require.NotNil(t, q)
	assert.Equal(t, QuestionMultipleChoice, q.Type)

	q, _ = parser.ParseQuestion(bare)
	require.NotNil(t, q)
	assert.Equal(t, QuestionEssay, q.Type)
}

func TestQuestionUnknownExplicitTypeBecomesEssay(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.xml", `<item identifier="u1">
  <question_type>hologram_question</question_type>
  <itemBody>???</itemBody>
</item>`)

	q, _ := NewQuestionParser(dir).ParseQuestion(path)
	require.NotNil(t, q)
	assert.Equal(t, QuestionEssay, q.Type)
}

func TestQuestionPointsDefault(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.xml", `<item identifier="p1">
  <question_type>short_answer_question</question_type>
  <itemBody>Name one species</itemBody>
</item>`)

	q, _ := NewQuestionParser(dir).ParseQuestion(path)
	require.NotNil(t, q)
	assert.Equal(t, 1.0, q.PointsPossible)
}

func TestParseQuestionBrokenFileIsWarning(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "q.xml", "<item><oops")

	q, diags := NewQuestionParser(dir).ParseQuestion(path)
	assert.Nil(t, q)
	require.Len(t, diags, 1)
	assert.Equal(t, "QUESTION_PARSE_ERROR", diags[0].Kind)
}

func TestParseQuestionsFromQuizSkipsMetadata(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "quiz/assessment_meta.xml", fixtureQuizMeta)
	writeFile(t, dir, "quiz/q1.xml", fixtureQuestionMC)

	questions, diags := NewQuestionParser(dir).ParseQuestionsFromQuiz(dir + "/quiz")
	assert.Empty(t, diags)
	require.Len(t, questions, 1)
	assert.Equal(t, "q_mc_1", questions[0].Identifier)
}
