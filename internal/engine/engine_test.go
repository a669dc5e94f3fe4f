package engine

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/internal/report"
)

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func hasKind(diags diag.List, kind string) bool {
	for _, d := range diags {
		if d.Kind == kind {
			return true
		}
	}
	return false
}

const testManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest xmlns="http://www.imsglobal.org/xsd/imsccv1p1/imscp_v1p1" identifier="course_1">
  <metadata>
    <lomimscc:lom xmlns:lomimscc="http://ltsc.ieee.org/xsd/imsccv1p1/LOM/manifest">
      <lomimscc:general>
        <title>
          <string>Intro to Marine Biology</string>
        </title>
      </lomimscc:general>
    </lomimscc:lom>
  </metadata>
  <organizations>
    <organization identifier="org_1" structure="rooted-hierarchy">
      <item identifier="root_wrapper">
        <item identifier="module_1">
          <title>Week 1</title>
          <item identifier="item_page_1" identifierref="res_page_1">
            <title>Welcome</title>
          </item>
          <item identifier="item_quiz_1" identifierref="res_quiz_1">
            <title>Week 1 Quiz</title>
          </item>
        </item>
      </item>
    </organization>
  </organizations>
  <resources>
    <resource identifier="res_page_1" type="webcontent" href="wiki_content/welcome.xml"/>
    <resource identifier="res_quiz_1" type="imsqti_xmlv1p2/imscc_xmlv1p1/assessment" href="non_cc_assessments/quiz1/assessment_meta.xml">
      <file href="non_cc_assessments/quiz1/question_a.xml"/>
      <file href="non_cc_assessments/quiz1/question_b.xml"/>
    </resource>
  </resources>
</manifest>`

const testPage = `<?xml version="1.0"?>
<page>
  <title>Welcome</title>
  <workflow_state>active</workflow_state>
  <body>&lt;p&gt;Welcome to the course!&lt;/p&gt;</body>
</page>`

const testQuizMeta = `<?xml version="1.0"?>
<quiz identifier="quiz_1">
  <title>Week 1 Quiz</title>
  <quiz_type>assignment</quiz_type>
  <points_possible>2.0</points_possible>
  <allowed_attempts>3</allowed_attempts>
  <workflow_state>active</workflow_state>
</quiz>`

const testQuestionMC = `<?xml version="1.0"?>
<item identifier="q_mc_1">
  <title>Pick one</title>
  <question_type>multiple_choice_question</question_type>
  <itemBody>Which ocean is largest?</itemBody>
  <points_possible>1.0</points_possible>
  <responseDeclaration cardinality="single">
    <correctResponse>
      <value>choice_a</value>
    </correctResponse>
  </responseDeclaration>
  <simpleChoice identifier="choice_a">Pacific</simpleChoice>
  <simpleChoice identifier="choice_b">Atlantic</simpleChoice>
</item>`

const testQuestionEssay = `<?xml version="1.0"?>
<item identifier="q_essay_1">
  <title>Explain</title>
  <question_type>essay_question</question_type>
  <itemBody>Describe a tide pool ecosystem.</itemBody>
  <points_possible>5.0</points_possible>
</item>`

const testQuestionTextOnly = `<?xml version="1.0"?>
<item identifier="q_text_1">
  <title>Section Header</title>
  <question_type>text_only_question</question_type>
  <itemBody>Part two covers invertebrates.</itemBody>
</item>`

func writeBaseCourse(t *testing.T, questionB string) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "imsmanifest.xml", testManifest)
	writeFile(t, dir, "wiki_content/welcome.xml", testPage)
	writeFile(t, dir, "non_cc_assessments/quiz1/assessment_meta.xml", testQuizMeta)
	writeFile(t, dir, "non_cc_assessments/quiz1/question_a.xml", testQuestionMC)
	writeFile(t, dir, "non_cc_assessments/quiz1/question_b.xml", questionB)
	return dir
}

func TestRunFullPipeline(t *testing.T) {
	courseDir := writeBaseCourse(t, testQuestionEssay)
	outDir := t.TempDir()

	rep, err := New(Options{CourseDir: courseDir, OutputDir: outDir}).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, rep)

	assert.Equal(t, report.StatusSuccess, rep.Status)
	assert.Equal(t, "Intro to Marine Biology", rep.SourceCourseTitle)

	assert.Equal(t, 1, rep.MigratedContent["topics"])
	assert.Equal(t, 1, rep.MigratedContent["lessons"])
	assert.Equal(t, 1, rep.MigratedContent["quizzes"])
	assert.Equal(t, 2, rep.MigratedContent["questions"])

	assert.Equal(t, map[string]int{
		"multiple_choice_question": 1,
		"essay_question":           1,
	}, rep.Counters.QuestionTypes)

	for _, name := range []string{
		"tutor_course.json",
		"migration_report.json",
		"migration_report.html",
		"IMPORT_INSTRUCTIONS.md",
	} {
		_, err := os.Stat(filepath.Join(outDir, name))
		assert.NoError(t, err, name)
	}
}

func TestRunRecoversUnattachedWikiPage(t *testing.T) {
	courseDir := writeBaseCourse(t, testQuestionEssay)
	writeFile(t, courseDir, "wiki_content/lost_notes.xml", `<?xml version="1.0"?>
<page>
  <title>Lost Notes</title>
  <body>These field notes were never linked from any module.</body>
</page>`)
	outDir := t.TempDir()

	rep, err := New(Options{CourseDir: courseDir, OutputDir: outDir}).Run(context.Background())
	require.NoError(t, err)

	// The unreferenced page lands in its own container topic, once: the
	// page parser already consumed the file, so the disk sweep must not
	// produce a second copy of it.
	assert.Equal(t, 2, rep.MigratedContent["topics"])
	assert.Equal(t, 2, rep.MigratedContent["lessons"])
	assert.True(t, hasKind(rep.Diagnostics, "RECOVERED_CONTENT_MODULE"))

	data, err := os.ReadFile(filepath.Join(outDir, "tutor_course.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "Recovered Content")
	assert.Equal(t, 1, strings.Count(string(data), "Lost Notes"))
}

func TestRunRecoversSweptOrphanFile(t *testing.T) {
	courseDir := writeBaseCourse(t, testQuestionEssay)
	writeFile(t, courseDir, "extra_material/reading_list.xml", `<?xml version="1.0"?>
<document>
  <title>Reading List</title>
  <body>Chapters three through five plus the appendix on kelp forests.</body>
</document>`)
	outDir := t.TempDir()

	rep, err := New(Options{CourseDir: courseDir, OutputDir: outDir}).Run(context.Background())
	require.NoError(t, err)

	// Outside the conventional directories only the disk sweep finds it.
	assert.Equal(t, 2, rep.MigratedContent["lessons"])
	assert.True(t, hasKind(rep.Diagnostics, "ORPHANED_CONTENT_RECOVERED"))
	assert.True(t, hasKind(rep.Diagnostics, "RECOVERED_CONTENT_MODULE"))

	data, err := os.ReadFile(filepath.Join(outDir, "tutor_course.json"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "Reading List"))
}

func TestRunDropsTextOnlyQuestions(t *testing.T) {
	courseDir := writeBaseCourse(t, testQuestionTextOnly)
	outDir := t.TempDir()

	rep, err := New(Options{CourseDir: courseDir, OutputDir: outDir}).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, report.StatusSuccessWithWarnings, rep.Status)
	assert.Equal(t, 1, rep.MigratedContent["questions"])
	assert.Equal(t, 1, rep.Counters.QuestionTypes["text_only_question"])
	assert.True(t, hasKind(rep.Diagnostics, "UNSUPPORTED_QUESTION_TYPE"))
}

func TestRunMissingDirectoryFails(t *testing.T) {
	rep, err := New(Options{CourseDir: filepath.Join(t.TempDir(), "nope")}).Run(context.Background())
	require.Error(t, err)
	require.NotNil(t, rep)
	assert.Equal(t, report.StatusFailure, rep.Status)
	assert.True(t, hasKind(rep.Diagnostics, "INVALID_DIRECTORY"))
}

func TestRunDefaultsOutputDir(t *testing.T) {
	courseDir := writeBaseCourse(t, testQuestionEssay)

	rep, err := New(Options{CourseDir: courseDir}).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(courseDir, DefaultOutputDirName), rep.OutputDirectory)

	_, statErr := os.Stat(filepath.Join(courseDir, DefaultOutputDirName, "tutor_course.json"))
	assert.NoError(t, statErr)
}
