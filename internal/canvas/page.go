package canvas

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/beevik/etree"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/htmlx"
	"github.com/fulmenhq/courseport/pkg/xmlpath"
)

// PageParser reads wiki page documents.
type PageParser struct {
	courseDir string
}

// NewPageParser creates a page parser rooted at the export directory.
func NewPageParser(courseDir string) *PageParser {
	return &PageParser{courseDir: courseDir}
}

// ParsePage parses a single page document. A failed parse yields a nil page
// and a warning diagnostic; an empty body is legal and not an error.
func (p *PageParser) ParsePage(pageFile string) (*Page, diag.List) {
	var diags diag.List

	doc, err := xmlpath.Load(pageFile)
	if err != nil {
		diags = append(diags, diag.New(diag.SeverityError, "PAGE_PARSE_ERROR",
			"failed to parse page file: "+filepath.Base(pageFile)).
			WithPath(pageFile))
		return nil, diags
	}
	root := doc.Root()

	stem := fileStem(pageFile)
	page := &Page{
		Title:      xmlpath.Text(xmlpath.First(root, "title"), stem),
		Identifier: stem,
		Body:       extractPageBody(root),
		State:      ParseWorkflowState(xmlpath.Text(xmlpath.First(root, "workflow_state"), "active")),
		SourceFile: pageFile,
	}
	return page, diags
}

// extractPageBody reads the body element, falling back to a text element.
func extractPageBody(root *etree.Element) string {
	if body := xmlpath.First(root, "body"); body != nil {
		return htmlx.Clean(xmlpath.InnerXML(body))
	}
	if text := xmlpath.First(root, "text"); text != nil {
		return htmlx.Clean(xmlpath.Text(text, ""))
	}
	return ""
}

// FindAll parses every page document in the wiki content directory, in
// lexical order so discovery order is deterministic.
func (p *PageParser) FindAll() ([]Page, diag.List) {
	var pages []Page
	var diags diag.List

	dir := filepath.Join(p.courseDir, WikiContentDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil // no wiki content directory is a valid export
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.EqualFold(filepath.Ext(e.Name()), ".xml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	for _, name := range names {
		page, pageDiags := p.ParsePage(filepath.Join(dir, name))
		diags = append(diags, pageDiags...)
		if page != nil {
			pages = append(pages, *page)
		}
	}
	return pages, diags
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
