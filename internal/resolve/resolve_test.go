package resolve

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/courseport/internal/canvas"
	"github.com/fulmenhq/courseport/internal/diag"
)

func testCourse() *canvas.Course {
	return &canvas.Course{
		Title: "Test Course",
		Modules: []canvas.Module{
			{
				Title:      "Week 1",
				Identifier: "module_1",
				Items: []canvas.Item{
					{Title: "Welcome", Identifier: "item_1", ContentType: canvas.ContentPage,
						ContentFile: "wiki_content/welcome.xml"},
					{Title: "Quiz", Identifier: "quiz_1", ContentType: canvas.ContentQuiz},
					{Title: "Ghost", Identifier: "item_ghost", ContentType: canvas.ContentPage,
						ContentFile: "wiki_content/ghost.xml"},
				},
			},
		},
		Pages: []canvas.Page{
			{Title: "Welcome", Identifier: "page_welcome",
				SourceFile: "/course/wiki_content/welcome.xml"},
			{Title: "Stray", Identifier: "orphaned_stray",
				SourceFile: "/course/stray.xml"},
		},
		Quizzes: []canvas.Quiz{
			{Title: "Quiz", Identifier: "quiz_1", SourceFile: "/course/quiz/assessment_meta.xml"},
		},
		Assignments: []canvas.Assignment{
			{Title: "Homework", Identifier: "hw_1", SourceFile: "/course/hw_1/assignment_settings.xml"},
		},
	}
}

func TestResolveMatchesByIdentifierAndPath(t *testing.T) {
	resolver := New(testCourse())
	result, diags := resolver.Resolve()

	require.Len(t, result.Modules, 1)
	items := result.Modules[0].Items
	require.Len(t, items, 3)

	// Path substring match.
	assert.Equal(t, StatusResolved, items[0].Status)
	require.NotNil(t, items[0].Page)
	assert.Equal(t, "page_welcome", items[0].Page.Identifier)

	// Identifier match.
	assert.Equal(t, StatusResolved, items[1].Status)
	require.NotNil(t, items[1].Quiz)

	// No content anywhere: stays in the tree, reported as info.
	assert.Equal(t, StatusUnresolved, items[2].Status)
	assert.Equal(t, 1, diags.Count(diag.SeverityInfo))
	assert.Equal(t, "UNRESOLVED_ITEM", diags[0].Kind)
}

func TestResolveWindowsStylePaths(t *testing.T) {
	course := testCourse()
	course.Pages[0].SourceFile = `C:\export\Wiki_Content\Welcome.xml`

	resolver := New(course)
	result, _ := resolver.Resolve()
	assert.Equal(t, StatusResolved, result.Modules[0].Items[0].Status)
}

func TestAttachRecovered(t *testing.T) {
	resolver := New(testCourse())
	result, _ := resolver.Resolve()
	diags := resolver.AttachRecovered(result)

	require.Len(t, result.Modules, 2)
	recovered := result.Modules[1]
	assert.Equal(t, "Recovered Content", recovered.Module.Title)
	require.Len(t, recovered.Items, 1)
	assert.Equal(t, StatusOrphanAttached, recovered.Items[0].Status)
	assert.Equal(t, "orphaned_stray", recovered.Items[0].Page.Identifier)
	assert.Equal(t, 1, diags.Count(diag.SeverityInfo))
}

func TestAttachRecoveredNoOrphans(t *testing.T) {
	course := testCourse()
	course.Pages = course.Pages[:1] // only the attached page remains

	resolver := New(course)
	result, _ := resolver.Resolve()
	diags := resolver.AttachRecovered(result)

	assert.Len(t, result.Modules, 1)
	assert.Empty(t, diags)
}

func TestUnattachedAssignments(t *testing.T) {
	resolver := New(testCourse())
	result, _ := resolver.Resolve()

	unattached := resolver.UnattachedAssignments(result)
	require.Len(t, unattached, 1)
	assert.Equal(t, "hw_1", unattached[0].Identifier)
}

func TestResolveFirstMatchWins(t *testing.T) {
	course := testCourse()
	// A second page also matching the declared location must lose to the
	// first one in parse order.
	course.Pages = append(course.Pages, canvas.Page{
		Title: "Duplicate", Identifier: "page_dup",
		SourceFile: "/other/wiki_content/welcome.xml",
	})

	resolver := New(course)
	result, _ := resolver.Resolve()
	assert.Equal(t, "page_welcome", result.Modules[0].Items[0].Page.Identifier)
}
