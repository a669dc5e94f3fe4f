/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package canvas

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/beevik/etree"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/logger"
	"github.com/fulmenhq/courseport/pkg/xmlpath"
)

// ManifestParser builds the resource catalog and organization tree from the
// export manifest. It is the single source of truth for course structure.
type ManifestParser struct {
	courseDir string
}

// NewManifestParser creates a manifest parser rooted at the export directory.
func NewManifestParser(courseDir string) *ManifestParser {
	return &ManifestParser{courseDir: courseDir}
}

// Parse reads the manifest and returns the course skeleton: title, module
// tree and resource map. A missing or unparseable manifest yields a critical
// diagnostic and a nil course.
func (p *ManifestParser) Parse() (*Course, diag.List) {
	var diags diag.List

	manifestPath := filepath.Join(p.courseDir, ManifestName)
	doc, err := xmlpath.Load(manifestPath)
	if err != nil {
		diags = append(diags, diag.New(diag.SeverityCritical, "MANIFEST_PARSE_ERROR",
			"failed to parse "+ManifestName+": "+err.Error()).
			WithPath(manifestPath).
			WithAction("verify this is a valid course export"))
		return nil, diags
	}

	root := doc.Root()
	if root.Tag != "manifest" {
		diags = append(diags, diag.New(diag.SeverityCritical, "INVALID_MANIFEST_SCHEMA",
			"manifest root element is '"+root.Tag+"', expected 'manifest'").
			WithPath(manifestPath))
		return nil, diags
	}

	course := &Course{
		Title:      p.extractTitle(root),
		Identifier: xmlpath.Attr(root, "identifier", "unknown"),
		Resources:  p.buildResourceMap(root),
		FileHrefs:  p.collectFileHrefs(root),
		SourceDir:  p.courseDir,
	}

	modules, orgDiags := p.parseOrganization(root, course.Resources)
	course.Modules = modules
	diags = append(diags, orgDiags...)

	return course, diags
}

// extractTitle tries the known namespace/path combinations in priority order.
func (p *ManifestParser) extractTitle(root *etree.Element) string {
	// LOM metadata title, then plain title/string, then a bare title element.
	if el := xmlpath.First(root, "metadata", "title", "string"); el != nil {
		return xmlpath.Text(el, "Untitled Course")
	}
	if el := xmlpath.First(root, "title", "string"); el != nil {
		return xmlpath.Text(el, "Untitled Course")
	}
	if el := xmlpath.First(root, "metadata", "title"); el != nil {
		if t := xmlpath.Text(el, ""); t != "" {
			return t
		}
	}
	return "Untitled Course"
}

// buildResourceMap collects every declared resource. File existence is
// checked eagerly so downstream components can trust FileExists.
func (p *ManifestParser) buildResourceMap(root *etree.Element) map[string]Resource {
	resourceMap := make(map[string]Resource)

	for _, el := range xmlpath.All(root, "resource") {
		identifier := xmlpath.Attr(el, "identifier", "")
		if identifier == "" {
			continue
		}
		href := xmlpath.Attr(el, "href", "")
		res := Resource{
			Identifier: identifier,
			Href:       href,
			Type:       xmlpath.Attr(el, "type", ""),
		}
		if href != "" {
			full := filepath.Join(p.courseDir, filepath.FromSlash(href))
			if _, err := os.Stat(full); err == nil {
				res.FileExists = true
				res.ResolvedPath = full
			}
		}
		resourceMap[identifier] = res
	}

	return resourceMap
}

// collectFileHrefs gathers the secondary file locations declared inside
// resources. The orphan pass treats them as referenced.
func (p *ManifestParser) collectFileHrefs(root *etree.Element) []string {
	var hrefs []string
	for _, el := range xmlpath.All(root, "file") {
		if href := xmlpath.Attr(el, "href", ""); href != "" {
			hrefs = append(hrefs, href)
		}
	}
	return hrefs
}

func (p *ManifestParser) parseOrganization(root *etree.Element, resources map[string]Resource) ([]Module, diag.List) {
	var diags diag.List

	org := xmlpath.First(root, "organization")
	if org == nil {
		diags = append(diags, diag.New(diag.SeverityWarning, "NO_ORGANIZATION",
			"no organization element found in manifest").
			WithAction("course may have no module structure"))
		return nil, diags
	}

	items := xmlpath.Children(org, "item")

	// Exports often wrap everything in a single root item. When that item
	// has children and no bound resource, its children are the modules.
	if len(items) == 1 && xmlpath.Attr(items[0], "identifierref", "") == "" {
		if children := xmlpath.Children(items[0], "item"); len(children) > 0 {
			logger.Debug("detected wrapper module, flattening structure")
			items = children
		}
	}

	var modules []Module
	for position, el := range items {
		modules = append(modules, p.parseModule(el, resources, position))
	}
	return modules, diags
}

func (p *ManifestParser) parseModule(el *etree.Element, resources map[string]Resource, position int) Module {
	module := Module{
		Title:      childTitle(el, "Untitled Module"),
		Identifier: xmlpath.Attr(el, "identifier", ""),
		Position:   position,
		State:      StateActive,
	}
	for childPos, child := range xmlpath.Children(el, "item") {
		module.Items = append(module.Items, p.parseItem(child, resources, childPos))
	}
	return module
}

func (p *ManifestParser) parseItem(el *etree.Element, resources map[string]Resource, position int) Item {
	item := Item{
		Title:      childTitle(el, "Untitled Item"),
		Identifier: xmlpath.Attr(el, "identifier", ""),
		Position:   position,
		State:      StateActive,
	}

	if ref := xmlpath.Attr(el, "identifierref", ""); ref != "" {
		if res, ok := resources[ref]; ok {
			item.ContentFile = res.Href
			item.ContentType = inferContentType(res.Type)
		}
	}

	for childPos, child := range xmlpath.Children(el, "item") {
		item.Items = append(item.Items, p.parseItem(child, resources, childPos))
	}
	return item
}

// inferContentType maps a declared resource type string onto a content
// family. Unknown declared types leave the item typed "" so it stays in the
// tree and is reported as unresolved later.
func inferContentType(resourceType string) string {
	t := strings.ToLower(resourceType)
	switch {
	case strings.Contains(t, "assessment"):
		return ContentQuiz
	case strings.Contains(t, "assignment"):
		return ContentAssignment
	case strings.Contains(t, "webcontent"):
		return ContentPage
	case strings.Contains(t, "imsdt"), strings.Contains(t, "discussion"):
		return ContentDiscussion
	case strings.Contains(t, "associatedcontent"):
		// Associated content is usually an assignment bundle.
		return ContentAssignment
	default:
		return ""
	}
}

func childTitle(el *etree.Element, fallback string) string {
	if titles := xmlpath.Children(el, "title"); len(titles) > 0 {
		return xmlpath.Text(titles[0], fallback)
	}
	return fallback
}
