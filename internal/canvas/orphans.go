/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package canvas

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/htmlx"
	"github.com/fulmenhq/courseport/pkg/pathnorm"
	"github.com/fulmenhq/courseport/pkg/xmlpath"
)

// OrphanScanner recovers content files present on disk but absent from the
// resource catalog. Scanning is a pure read: it never moves or rewrites the
// files it finds, so repeated runs see the same disk state.
type OrphanScanner struct {
	courseDir string
	outputDir string
	decks     *SlideDeckParser
}

// NewOrphanScanner creates a scanner rooted at the export directory. Files
// under outputDir are never treated as orphans.
func NewOrphanScanner(courseDir, outputDir string) *OrphanScanner {
	return &OrphanScanner{
		courseDir: courseDir,
		outputDir: outputDir,
		decks:     NewSlideDeckParser(courseDir),
	}
}

// Scan sweeps the export for XML, HTML and deck files, subtracts the
// catalog-referenced set and converts the survivors to pages. Each recovered
// file gets an info diagnostic so the run report shows what was rescued.
func (s *OrphanScanner) Scan(referencedHrefs []string) ([]Page, diag.List) {
	var pages []Page
	var diags diag.List

	known := pathnorm.CanonSet(referencedHrefs)

	for _, file := range s.candidates("*.xml") {
		if _, isSystem := SystemFiles[filepath.Base(file)]; isSystem {
			continue
		}
		if s.isReferenced(file, known) {
			continue
		}
		page, pDiags := s.parseOrphanedXML(file)
		diags = append(diags, pDiags...)
		if page != nil {
			pages = append(pages, *page)
			diags = append(diags, recoveredDiag(file, "XML"))
		}
	}

	for _, file := range s.candidates("*.html") {
		if _, isSystem := SystemFiles[filepath.Base(file)]; isSystem {
			continue
		}
		if s.isReferenced(file, known) {
			continue
		}
		page, pDiags := s.parseOrphanedHTML(file)
		diags = append(diags, pDiags...)
		if page != nil {
			pages = append(pages, *page)
			diags = append(diags, recoveredDiag(file, "HTML"))
		}
	}

	for _, file := range s.candidates("*.pptx") {
		if s.isReferenced(file, known) {
			continue
		}
		page, pDiags := s.decks.ParseDeck(file, "orphaned_"+fileStem(file))
		diags = append(diags, pDiags...)
		if page != nil {
			pages = append(pages, *page)
			diags = append(diags, recoveredDiag(file, "PPTX"))
		}
	}

	return pages, diags
}

// candidates sweeps the export for one pattern, skipping the output tree,
// in lexical order.
func (s *OrphanScanner) candidates(pattern string) []string {
	matches, err := doublestar.FilepathGlob(filepath.Join(s.courseDir, "**", pattern))
	if err != nil {
		return nil
	}
	sort.Strings(matches)

	var out []string
	for _, m := range matches {
		if s.outputDir != "" && pathnorm.Contains(pathnorm.Canon(m), pathnorm.Canon(s.outputDir)) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func (s *OrphanScanner) isReferenced(file string, known map[string]struct{}) bool {
	rel, err := filepath.Rel(s.courseDir, file)
	if err != nil {
		return true
	}
	return pathnorm.InSet(known, rel)
}

// parseOrphanedXML recovers a page from a loose XML document. Files with
// fewer than ten characters of usable content are noise, not content.
func (s *OrphanScanner) parseOrphanedXML(xmlFile string) (*Page, diag.List) {
	doc, err := xmlpath.Load(xmlFile)
	if err != nil {
		return nil, diag.List{diag.New(diag.SeverityWarning, "ORPHANED_XML_PARSE_ERROR",
			"failed to parse orphaned XML: "+err.Error()).
			WithPath(xmlFile).
			WithAction("file will be skipped")}
	}
	root := doc.Root()

	content := orphanContent(root)
	if len(strings.TrimSpace(htmlx.ExtractText(content))) < 10 {
		return nil, nil
	}

	return &Page{
		Title:      orphanTitle(root, xmlFile),
		Identifier: "orphaned_" + fileStem(xmlFile),
		Body:       content,
		State:      StateActive,
		SourceFile: xmlFile,
	}, nil
}

func (s *OrphanScanner) parseOrphanedHTML(htmlFile string) (*Page, diag.List) {
	raw, err := os.ReadFile(htmlFile)
	if err != nil {
		return nil, diag.List{diag.New(diag.SeverityWarning, "ORPHANED_HTML_PARSE_ERROR",
			"failed to read orphaned HTML: "+err.Error()).
			WithPath(htmlFile).
			WithAction("file will be skipped")}
	}

	return &Page{
		Title:      titleFromStem(fileStem(htmlFile)),
		Identifier: "orphaned_" + fileStem(htmlFile),
		Body:       htmlx.Clean(string(raw)),
		State:      StateActive,
		SourceFile: htmlFile,
	}, nil
}

var orphanTitleElements = []string{"title", "h1", "heading", "name"}

func orphanTitle(root *etree.Element, xmlFile string) string {
	for _, name := range orphanTitleElements {
		if el := xmlpath.First(root, name); el != nil {
			if t := xmlpath.Text(el, ""); t != "" {
				return t
			}
		}
	}
	return titleFromStem(fileStem(xmlFile))
}

var orphanContentElements = []string{"body", "content", "text", "description", "notes", "p"}

func orphanContent(root *etree.Element) string {
	var parts []string
	for _, name := range orphanContentElements {
		for _, el := range xmlpath.All(root, name) {
			if html := xmlpath.InnerXML(el); strings.TrimSpace(html) != "" {
				parts = append(parts, html)
			}
		}
	}
	if len(parts) == 0 {
		if text := strings.TrimSpace(xmlpath.FlattenText(root)); len(text) > 10 {
			parts = append(parts, "<p>"+text+"</p>")
		}
	}
	return htmlx.Clean(strings.Join(parts, "\n"))
}

func recoveredDiag(file, kind string) diag.Diagnostic {
	return diag.New(diag.SeverityInfo, "ORPHANED_CONTENT_RECOVERED",
		"recovered orphaned "+kind+" content: "+filepath.Base(file)).
		WithPath(file).
		WithEntity("page", "orphaned_"+fileStem(file))
}
