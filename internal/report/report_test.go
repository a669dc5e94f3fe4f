package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/internal/transform"
)

func TestFinalizeStatus(t *testing.T) {
	tests := []struct {
		name  string
		diags diag.List
		want  Status
	}{
		{"clean run", nil, StatusSuccess},
		{"warnings only", diag.List{
			diag.New(diag.SeverityWarning, "X", "w"),
			diag.New(diag.SeverityInfo, "X", "i"),
		}, StatusSuccessWithWarnings},
		{"errors", diag.List{
			diag.New(diag.SeverityError, "X", "e"),
			diag.New(diag.SeverityWarning, "X", "w"),
		}, StatusPartialFailure},
		{"critical trumps everything", diag.List{
			diag.New(diag.SeverityError, "X", "e"),
			diag.New(diag.SeverityCritical, "X", "c"),
		}, StatusFailure},
		{"info alone is success", diag.List{
			diag.New(diag.SeverityInfo, "X", "i"),
		}, StatusSuccess},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New("/src", "/out")
			r.Diagnostics = tt.diags
			r.Finalize(3 * time.Second)
			assert.Equal(t, tt.want, r.Status)
		})
	}
}

func TestFinalizeTotals(t *testing.T) {
	r := New("/src", "/out")
	r.Diagnostics = diag.List{
		diag.New(diag.SeverityCritical, "X", "c"),
		diag.New(diag.SeverityError, "X", "e"),
		diag.New(diag.SeverityWarning, "X", "w1"),
		diag.New(diag.SeverityWarning, "X", "w2"),
		diag.New(diag.SeverityInfo, "X", "i"),
	}
	r.Finalize(1500 * time.Millisecond)

	// Criticals count into the error total.
	assert.Equal(t, 2, r.TotalErrors)
	assert.Equal(t, 2, r.TotalWarnings)
	assert.Equal(t, 1, r.TotalInfo)
	assert.Equal(t, 1.5, r.ExecutionSecs)
}

func TestNewAssignsRunID(t *testing.T) {
	a := New("/src", "/out")
	b := New("/src", "/out")
	assert.NotEmpty(t, a.RunID)
	assert.NotEqual(t, a.RunID, b.RunID)
}

func TestSummaryBox(t *testing.T) {
	r := New("/src", "/out/dir")
	r.SourceCourseTitle = "Biología Marina" // non-ASCII width must not break the frame
	r.Counters = transform.Counters{Topics: 2, Lessons: 5, Quizzes: 1, Questions: 8}
	r.Finalize(2 * time.Second)

	box := r.Summary()
	lines := strings.Split(box, "\n")
	require.GreaterOrEqual(t, len(lines), 3)
	assert.True(t, strings.HasPrefix(lines[0], "┌"))
	assert.True(t, strings.HasPrefix(lines[len(lines)-1], "└"))
	assert.Contains(t, box, "Biología Marina")
	assert.Contains(t, box, "Migration SUCCESS")
	assert.Contains(t, box, "Topics:   2")
}

func TestWriteJSONAndHTML(t *testing.T) {
	dir := t.TempDir()
	r := New("/src", dir)
	r.SourceCourseTitle = "Tide Pools 101"
	r.MigratedContent = map[string]int{"lessons": 3}
	r.Counters.QuestionTypes = map[string]int{"essay_question": 2}
	r.Diagnostics = diag.List{
		diag.New(diag.SeverityWarning, "PARTIAL_CREDIT_DROPPED", "weights flattened").
			WithAction("review answer weights"),
	}
	r.Finalize(time.Second)

	require.NoError(t, r.WriteJSON(dir))
	require.NoError(t, r.WriteHTML(dir))

	jsonData, err := os.ReadFile(filepath.Join(dir, "migration_report.json"))
	require.NoError(t, err)
	assert.Contains(t, string(jsonData), `"status": "success_with_warnings"`)
	assert.Contains(t, string(jsonData), r.RunID)

	htmlData, err := os.ReadFile(filepath.Join(dir, "migration_report.html"))
	require.NoError(t, err)
	html := string(htmlData)
	assert.Contains(t, html, "Tide Pools 101")
	assert.Contains(t, html, "SUCCESS WITH WARNINGS")
	assert.Contains(t, html, "PARTIAL_CREDIT_DROPPED")
	assert.Contains(t, html, "essay_question")
}
