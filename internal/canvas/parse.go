/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package canvas

import (
	"context"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/logger"
)

// Parser orchestrates the manifest and content parsers into a complete
// course model.
type Parser struct {
	courseDir   string
	outputDir   string
	concurrency int

	manifest    *ManifestParser
	pages       *PageParser
	assignments *AssignmentParser
	quizzes     *QuizParser
	decks       *SlideDeckParser
	orphans     *OrphanScanner
}

// NewParser creates a parser rooted at the export directory. Files under
// outputDir are excluded from orphan scanning.
func NewParser(courseDir, outputDir string) *Parser {
	return &Parser{
		courseDir:   courseDir,
		outputDir:   outputDir,
		manifest:    NewManifestParser(courseDir),
		pages:       NewPageParser(courseDir),
		assignments: NewAssignmentParser(courseDir),
		quizzes:     NewQuizParser(courseDir),
		decks:       NewSlideDeckParser(courseDir),
		orphans:     NewOrphanScanner(courseDir, outputDir),
	}
}

// WithConcurrency caps how many content families parse at once. Zero or
// anything above the family count means one goroutine per family; 1 forces
// sequential parsing.
func (p *Parser) WithConcurrency(n int) *Parser {
	p.concurrency = n
	return p
}

// Parse builds the complete course model. The manifest is parsed first since
// everything else hangs off its resource catalog; the content families then
// parse concurrently, one goroutine each, and merge in a fixed order so the
// output is deterministic regardless of scheduling.
func (p *Parser) Parse(ctx context.Context) (*Course, diag.List) {
	course, diags := p.manifest.Parse()
	if course == nil {
		return nil, diags
	}

	var (
		mu          sync.Mutex
		pages       []Page
		deckPages   []Page
		assignments []Assignment
		quizzes     []Quiz
	)

	g, _ := errgroup.WithContext(ctx)
	if p.concurrency > 0 {
		g.SetLimit(p.concurrency)
	}

	g.Go(func() error {
		got, pDiags := p.pages.FindAll()
		mu.Lock()
		defer mu.Unlock()
		pages = got
		diags = append(diags, pDiags...)
		return nil
	})

	g.Go(func() error {
		got, dDiags := p.parseDeckResources(course.Resources)
		mu.Lock()
		defer mu.Unlock()
		deckPages = got
		diags = append(diags, dDiags...)
		return nil
	})

	g.Go(func() error {
		got, aDiags := p.assignments.FindAll()
		mu.Lock()
		defer mu.Unlock()
		assignments = got
		diags = append(diags, aDiags...)
		return nil
	})

	g.Go(func() error {
		got, qDiags := p.quizzes.FindAll()
		mu.Lock()
		defer mu.Unlock()
		quizzes = got
		diags = append(diags, qDiags...)
		return nil
	})

	_ = g.Wait() // parser goroutines report through diagnostics, not errors

	course.Pages = append(pages, deckPages...)
	course.Assignments = assignments
	course.Quizzes = quizzes

	orphanPages, oDiags := p.orphans.Scan(p.consumedFiles(course))
	course.Pages = append(course.Pages, orphanPages...)
	diags = append(diags, oDiags...)

	counts := course.ContentCounts()
	logger.Info("course parsed",
		logger.String("title", course.Title),
		logger.Int("pages", counts["pages"]),
		logger.Int("assignments", counts["assignments"]),
		logger.Int("quizzes", counts["quizzes"]),
		logger.Int("questions", counts["questions"]))

	return course, diags
}

// consumedFiles is the orphan-sweep exclusion set: everything the catalog
// declares plus every source file a family parser already turned into an
// entity. A file recovered here AND parsed by convention would otherwise
// become two pages.
func (p *Parser) consumedFiles(course *Course) []string {
	known := course.ReferencedHrefs()

	add := func(sourceFile string) {
		if sourceFile == "" {
			return
		}
		rel, err := filepath.Rel(p.courseDir, sourceFile)
		if err != nil {
			return
		}
		known = append(known, rel)
	}

	for i := range course.Pages {
		add(course.Pages[i].SourceFile)
	}
	for i := range course.Assignments {
		add(course.Assignments[i].SourceFile)
	}
	for i := range course.Quizzes {
		add(course.Quizzes[i].SourceFile)
		for j := range course.Quizzes[i].Questions {
			add(course.Quizzes[i].Questions[j].SourceFile)
		}
	}
	return known
}

// parseDeckResources converts catalog-declared webcontent decks into pages.
// The page keeps the resource identifier so organization items bind to it
// directly.
func (p *Parser) parseDeckResources(resources map[string]Resource) ([]Page, diag.List) {
	var pages []Page
	var diags diag.List

	ids := make([]string, 0, len(resources))
	for id := range resources {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		res := resources[id]
		if !strings.Contains(strings.ToLower(res.Type), "webcontent") {
			continue
		}
		if !strings.EqualFold(filepath.Ext(res.Href), ".pptx") {
			continue
		}
		if !res.FileExists {
			continue
		}
		logger.Debug("converting deck resource", logger.String("href", res.Href))
		page, dDiags := p.decks.ParseDeck(res.ResolvedPath, id)
		diags = append(diags, dDiags...)
		if page != nil {
			pages = append(pages, *page)
		}
	}
	return pages, diags
}
