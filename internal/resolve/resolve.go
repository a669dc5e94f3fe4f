/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package resolve binds organization items to parsed content entities and
// reconciles content that no item claimed.
package resolve

import (
	"github.com/fulmenhq/courseport/internal/canvas"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/logger"
	"github.com/fulmenhq/courseport/pkg/pathnorm"
)

// Status of one item after resolution.
type Status string

const (
	StatusResolved       Status = "resolved"
	StatusUnresolved     Status = "unresolved"
	StatusOrphanAttached Status = "orphan-attached"
)

// ResolvedItem pairs an organization item with the entity it resolved to.
// Exactly one of Page, Quiz, Assignment is set when Status is resolved.
type ResolvedItem struct {
	Item       canvas.Item
	Status     Status
	Page       *canvas.Page
	Quiz       *canvas.Quiz
	Assignment *canvas.Assignment
	Items      []ResolvedItem
}

// ResolvedModule is one module with its items resolved.
type ResolvedModule struct {
	Module canvas.Module
	Items  []ResolvedItem
}

// Result is the resolved course structure plus bookkeeping for the
// reconciliation pass.
type Result struct {
	Modules []ResolvedModule

	attachedPages       map[string]struct{}
	attachedAssignments map[string]struct{}
}

// Resolver matches items to entities: exact identifier first, then a
// normalized substring check of the declared location against the entity's
// source file. First match wins, in parse order, so resolution is
// deterministic.
type Resolver struct {
	course *canvas.Course
}

// New creates a resolver over a parsed course.
func New(course *canvas.Course) *Resolver {
	return &Resolver{course: course}
}

// Resolve walks every module and binds its items. Unresolved items stay in
// the tree with an info diagnostic; they are never dropped.
func (r *Resolver) Resolve() (*Result, diag.List) {
	result := &Result{
		attachedPages:       make(map[string]struct{}),
		attachedAssignments: make(map[string]struct{}),
	}
	var diags diag.List

	for _, module := range r.course.Modules {
		resolved := ResolvedModule{Module: module}
		for _, item := range module.Items {
			ri, itemDiags := r.resolveItem(item, result)
			resolved.Items = append(resolved.Items, ri)
			diags = append(diags, itemDiags...)
		}
		result.Modules = append(result.Modules, resolved)
	}

	return result, diags
}

func (r *Resolver) resolveItem(item canvas.Item, result *Result) (ResolvedItem, diag.List) {
	var diags diag.List
	ri := ResolvedItem{Item: item, Status: StatusUnresolved}

	switch item.ContentType {
	case canvas.ContentPage, canvas.ContentDiscussion:
		if page := r.findPage(item); page != nil {
			ri.Page = page
			ri.Status = StatusResolved
			result.attachedPages[page.Identifier] = struct{}{}
		}
	case canvas.ContentQuiz:
		if quiz := r.findQuiz(item); quiz != nil {
			ri.Quiz = quiz
			ri.Status = StatusResolved
		}
	case canvas.ContentAssignment:
		if assignment := r.findAssignment(item); assignment != nil {
			ri.Assignment = assignment
			ri.Status = StatusResolved
			result.attachedAssignments[assignment.Identifier] = struct{}{}
		}
	}

	if ri.Status == StatusUnresolved && item.ContentType != "" {
		diags = append(diags, diag.New(diag.SeverityInfo, "UNRESOLVED_ITEM",
			"no "+item.ContentType+" content found for item '"+item.Title+"'").
			WithEntity(item.ContentType, item.Identifier).
			WithAction("item kept in structure without content"))
	}

	for _, child := range item.Items {
		childResolved, childDiags := r.resolveItem(child, result)
		ri.Items = append(ri.Items, childResolved)
		diags = append(diags, childDiags...)
	}

	return ri, diags
}

func (r *Resolver) findPage(item canvas.Item) *canvas.Page {
	for i := range r.course.Pages {
		page := &r.course.Pages[i]
		if page.Identifier == item.Identifier {
			return page
		}
		if item.ContentFile != "" && page.SourceFile != "" &&
			pathnorm.Contains(page.SourceFile, item.ContentFile) {
			return page
		}
	}
	return nil
}

func (r *Resolver) findQuiz(item canvas.Item) *canvas.Quiz {
	for i := range r.course.Quizzes {
		quiz := &r.course.Quizzes[i]
		if quiz.Identifier == item.Identifier {
			return quiz
		}
		if item.ContentFile != "" && quiz.SourceFile != "" &&
			pathnorm.Contains(quiz.SourceFile, item.ContentFile) {
			return quiz
		}
	}
	return nil
}

func (r *Resolver) findAssignment(item canvas.Item) *canvas.Assignment {
	for i := range r.course.Assignments {
		assignment := &r.course.Assignments[i]
		if assignment.Identifier == item.Identifier {
			return assignment
		}
		if item.ContentFile != "" && assignment.SourceFile != "" &&
			pathnorm.Contains(assignment.SourceFile, item.ContentFile) {
			return assignment
		}
	}
	return nil
}

// AttachRecovered appends a synthetic container module holding every page no
// item claimed. Running it twice on fresh Resolve output yields the same
// container, since attachment state lives in the Result, not the course.
func (r *Resolver) AttachRecovered(result *Result) diag.List {
	var diags diag.List

	var recovered []ResolvedItem
	for i := range r.course.Pages {
		page := &r.course.Pages[i]
		if _, attached := result.attachedPages[page.Identifier]; attached {
			continue
		}
		recovered = append(recovered, ResolvedItem{
			Item: canvas.Item{
				Title:       page.Title,
				Identifier:  page.Identifier,
				ContentType: canvas.ContentPage,
				Position:    len(recovered),
				State:       page.State,
			},
			Status: StatusOrphanAttached,
			Page:   page,
		})
	}

	if len(recovered) == 0 {
		return nil
	}

	logger.Info("attaching recovered content", logger.Int("pages", len(recovered)))
	result.Modules = append(result.Modules, ResolvedModule{
		Module: canvas.Module{
			Title:      "Recovered Content",
			Identifier: "recovered_content",
			Position:   len(result.Modules),
			State:      canvas.StateActive,
		},
		Items: recovered,
	})
	diags = append(diags, diag.New(diag.SeverityInfo, "RECOVERED_CONTENT_MODULE",
		"placed unattached pages in a 'Recovered Content' module").
		WithEntity("module", "recovered_content"))

	return diags
}

// UnattachedAssignments returns assignments no item claimed, in parse order.
func (r *Resolver) UnattachedAssignments(result *Result) []canvas.Assignment {
	var out []canvas.Assignment
	for _, a := range r.course.Assignments {
		if _, attached := result.attachedAssignments[a.Identifier]; !attached {
			out = append(out, a)
		}
	}
	return out
}
