/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package validate checks the export structure and builds a file inventory
// before any semantic parsing happens.
package validate

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/courseport/internal/canvas"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/pathnorm"
	"github.com/fulmenhq/courseport/pkg/xmlpath"
)

// Inventory classifies everything found on disk.
type Inventory struct {
	AllFiles        []string `json:"all_files"`
	XMLFiles        int      `json:"xml_files"`
	HTMLFiles       int      `json:"html_files"`
	Images          int      `json:"images"`
	Videos          int      `json:"videos"`
	Documents       int      `json:"documents"`
	OtherFiles      int      `json:"other_files"`
	OrphanedFiles   []string `json:"orphaned_files"`
	ReferencedFiles []string `json:"referenced_files"`
}

// Report is the outcome of the validation pass.
type Report struct {
	Passed               bool      `json:"passed"`
	StructureValid       bool      `json:"imscc_structure_valid"`
	ManifestExists       bool      `json:"manifest_exists"`
	ManifestValidXML     bool      `json:"manifest_valid_xml"`
	ManifestSchemaValid  bool      `json:"manifest_schema_valid"`
	TotalReferencedFiles int       `json:"total_referenced_files"`
	MissingFiles         []string  `json:"missing_file_list"`
	Inventory            Inventory `json:"inventory"`
}

// Validator checks one export directory.
type Validator struct {
	courseDir string
	outputDir string
}

// New creates a validator. Files under outputDir are ignored.
func New(courseDir, outputDir string) *Validator {
	return &Validator{courseDir: courseDir, outputDir: outputDir}
}

var imageExts = map[string]struct{}{
	".png": {}, ".jpg": {}, ".jpeg": {}, ".gif": {}, ".svg": {}, ".webp": {}, ".bmp": {},
}

var videoExts = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".avi": {}, ".webm": {}, ".mkv": {}, ".m4v": {},
}

var documentExts = map[string]struct{}{
	".pdf": {}, ".doc": {}, ".docx": {}, ".ppt": {}, ".pptx": {}, ".xls": {}, ".xlsx": {},
}

// Validate runs structure checks, the file inventory, reference checks and
// orphan detection. Structure failures are critical and stop the pass early;
// everything after that degrades to warnings and info.
func (v *Validator) Validate() (*Report, diag.List) {
	report := &Report{}
	var diags diag.List

	if info, err := os.Stat(v.courseDir); err != nil || !info.IsDir() {
		diags = append(diags, diag.New(diag.SeverityCritical, "INVALID_DIRECTORY",
			"course directory does not exist: "+v.courseDir).
			WithAction("verify the path to the course export directory"))
		return report, diags
	}

	manifestPath := filepath.Join(v.courseDir, canvas.ManifestName)
	if _, err := os.Stat(manifestPath); err != nil {
		diags = append(diags, diag.New(diag.SeverityCritical, "MISSING_MANIFEST",
			canvas.ManifestName+" not found").
			WithPath(manifestPath).
			WithAction("ensure this is a valid course export"))
		return report, diags
	}
	report.StructureValid = true
	report.ManifestExists = true

	referenced, refDiags := v.checkManifest(manifestPath, report)
	diags = append(diags, refDiags...)
	if !report.ManifestValidXML {
		return report, diags
	}

	v.buildInventory(report)
	v.detectOrphans(report, referenced, &diags)

	report.Passed = !diags.HasCritical()
	return report, diags
}

// checkManifest parses the manifest and verifies every declared file is on
// disk. Missing files are warnings; the converter keeps the structure and
// flags the gap.
func (v *Validator) checkManifest(manifestPath string, report *Report) ([]string, diag.List) {
	var diags diag.List

	doc, err := xmlpath.Load(manifestPath)
	if err != nil {
		diags = append(diags, diag.New(diag.SeverityCritical, "MANIFEST_PARSE_ERROR",
			"failed to parse manifest: "+err.Error()).
			WithPath(manifestPath).
			WithAction("check if the XML file is corrupted"))
		return nil, diags
	}
	report.ManifestValidXML = true

	root := doc.Root()
	if root.Tag != "manifest" {
		diags = append(diags, diag.New(diag.SeverityError, "INVALID_MANIFEST_SCHEMA",
			"manifest root element is '"+root.Tag+"', expected 'manifest'").
			WithPath(manifestPath))
		return nil, diags
	}
	report.ManifestSchemaValid = true

	var referenced []string
	seen := make(map[string]struct{})
	record := func(href string) {
		if href == "" {
			return
		}
		if _, dup := seen[href]; dup {
			return
		}
		seen[href] = struct{}{}
		referenced = append(referenced, href)
		report.TotalReferencedFiles++

		full := filepath.Join(v.courseDir, filepath.FromSlash(href))
		if _, err := os.Stat(full); err != nil {
			report.MissingFiles = append(report.MissingFiles, href)
			diags = append(diags, diag.New(diag.SeverityWarning, "MISSING_REFERENCED_FILE",
				"file referenced in manifest not found: "+href).
				WithPath(full).
				WithAction("file may have been deleted or path is incorrect"))
		}
	}

	for _, resource := range xmlpath.All(root, "resource") {
		record(xmlpath.Attr(resource, "href", ""))
		for _, file := range xmlpath.All(resource, "file") {
			record(xmlpath.Attr(file, "href", ""))
		}
	}

	sort.Strings(referenced)
	report.Inventory.ReferencedFiles = referenced
	return referenced, diags
}

func (v *Validator) buildInventory(report *Report) {
	matches, err := doublestar.FilepathGlob(filepath.Join(v.courseDir, "**", "*"))
	if err != nil {
		return
	}
	sort.Strings(matches)

	for _, file := range matches {
		info, err := os.Stat(file)
		if err != nil || info.IsDir() {
			continue
		}
		rel, err := filepath.Rel(v.courseDir, file)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)
		if v.inOutputTree(rel) || strings.HasPrefix(rel, ".git/") {
			continue
		}
		report.Inventory.AllFiles = append(report.Inventory.AllFiles, rel)

		switch ext := strings.ToLower(filepath.Ext(file)); {
		case ext == ".xml":
			report.Inventory.XMLFiles++
		case ext == ".html" || ext == ".htm":
			report.Inventory.HTMLFiles++
		default:
			if _, ok := imageExts[ext]; ok {
				report.Inventory.Images++
			} else if _, ok := videoExts[ext]; ok {
				report.Inventory.Videos++
			} else if _, ok := documentExts[ext]; ok {
				report.Inventory.Documents++
			} else {
				report.Inventory.OtherFiles++
			}
		}
	}
}

// detectOrphans reports files on disk the manifest never mentions. Orphans
// are informational: the recovery pass will try to convert them later.
func (v *Validator) detectOrphans(report *Report, referenced []string, diags *diag.List) {
	known := pathnorm.CanonSet(referenced)

	for _, rel := range report.Inventory.AllFiles {
		if _, isSystem := canvas.SystemFiles[filepath.Base(rel)]; isSystem {
			continue
		}
		ext := strings.ToLower(filepath.Ext(rel))
		if ext != ".xml" && ext != ".html" && ext != ".pptx" {
			continue
		}
		if pathnorm.InSet(known, rel) {
			continue
		}
		report.Inventory.OrphanedFiles = append(report.Inventory.OrphanedFiles, rel)
		*diags = append(*diags, diag.New(diag.SeverityInfo, "ORPHANED_CONTENT",
			"file not referenced in manifest: "+rel).
			WithPath(rel).
			WithAction("will attempt recovery into a container module"))
	}
}

func (v *Validator) inOutputTree(rel string) bool {
	if v.outputDir == "" {
		return false
	}
	outRel, err := filepath.Rel(v.courseDir, v.outputDir)
	if err != nil || strings.HasPrefix(outRel, "..") {
		return false
	}
	return pathnorm.Equal(rel, outRel) ||
		strings.HasPrefix(pathnorm.Canon(rel), pathnorm.Canon(outRel)+"/")
}
