package canvas

import (
	"os"
	"path/filepath"
	"testing"
)

// writeFile creates a file with parent directories under dir.
func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return path
}

const fixtureManifest = `<?xml version="1.0" encoding="UTF-8"?>
<manifest xmlns="http://www.imsglobal.org/xsd/imsccv1p1/imscp_v1p1" identifier="course_fixture">
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
    <resource identifier="res_missing" type="webcontent" href="wiki_content/gone.xml"/>
  </resources>
</manifest>`

const fixturePage = `<?xml version="1.0"?>
<page>
  <title>Welcome</title>
  <workflow_state>active</workflow_state>
  <body>&lt;p&gt;Welcome to the course!&lt;/p&gt;</body>
</page>`

const fixtureQuizMeta = `<?xml version="1.0"?>
<quiz identifier="quiz_1">
  <title>Week 1 Quiz</title>
  <description>Covers the basics.</description>
  <quiz_type>assignment</quiz_type>
  <points_possible>2.0</points_possible>
  <allowed_attempts>3</allowed_attempts>
  <workflow_state>active</workflow_state>
</quiz>`

const fixtureQuestionMC = `<?xml version="1.0"?>
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

const fixtureQuestionEssay = `<?xml version="1.0"?>
<item identifier="q_essay_1">
  <title>Explain</title>
  <question_type>essay_question</question_type>
  <itemBody>Describe a tide pool ecosystem.</itemBody>
  <points_possible>5.0</points_possible>
</item>`

const fixtureAssignmentSettings = `<?xml version="1.0"?>
<assignment identifier="assignment_1">
  <title>Field Report</title>
  <description>&lt;p&gt;Write up your observations.&lt;/p&gt;</description>
  <points_possible>20.0</points_possible>
  <grading_type>points</grading_type>
  <submission_types>online_text_entry,online_upload</submission_types>
  <workflow_state>unpublished</workflow_state>
</assignment>`

// writeCourseFixture lays out a minimal but complete export: manifest, one
// page, one quiz with two questions and one assignment bundle.
func writeCourseFixture(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "imsmanifest.xml", fixtureManifest)
	writeFile(t, dir, "wiki_content/welcome.xml", fixturePage)
	writeFile(t, dir, "non_cc_assessments/quiz1/assessment_meta.xml", fixtureQuizMeta)
	writeFile(t, dir, "non_cc_assessments/quiz1/question_a.xml", fixtureQuestionMC)
	writeFile(t, dir, "non_cc_assessments/quiz1/question_b.xml", fixtureQuestionEssay)
	writeFile(t, dir, "field_report/assignment_settings.xml", fixtureAssignmentSettings)
	return dir
}
