/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/
package canvas

import (
	"archive/zip"
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/bmatcuk/doublestar/v4"
	"github.com/fulmenhq/courseport/internal/diag"
	"github.com/fulmenhq/courseport/pkg/htmlx"
	"github.com/fulmenhq/courseport/pkg/xmlpath"
)

// SlideDeckParser converts PowerPoint decks into pages. A deck is an OPC zip
// container; slide and notes parts are plain XML inside it.
type SlideDeckParser struct {
	courseDir string
}

// NewSlideDeckParser creates a slide-deck parser rooted at the export directory.
func NewSlideDeckParser(courseDir string) *SlideDeckParser {
	return &SlideDeckParser{courseDir: courseDir}
}

var slidePartRe = regexp.MustCompile(`^ppt/slides/slide(\d+)\.xml$`)
var notesPartRe = regexp.MustCompile(`^ppt/notesSlides/notesSlide(\d+)\.xml$`)

// ParseDeck converts one deck into a page. Parse failures degrade to a
// warning so one corrupt deck never sinks the run.
func (p *SlideDeckParser) ParseDeck(deckFile string, identifier string) (*Page, diag.List) {
	var diags diag.List

	reader, err := zip.OpenReader(deckFile)
	if err != nil {
		diags = append(diags, diag.New(diag.SeverityWarning, "PPTX_PARSE_ERROR",
			"failed to open presentation: "+err.Error()).
			WithPath(deckFile).
			WithAction("check if file is a valid PowerPoint deck"))
		return nil, diags
	}
	defer reader.Close()

	slides := make(map[int]*zip.File)
	notes := make(map[int]*zip.File)
	for _, f := range reader.File {
		if m := slidePartRe.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			slides[n] = f
		} else if m := notesPartRe.FindStringSubmatch(f.Name); m != nil {
			n, _ := strconv.Atoi(m[1])
			notes[n] = f
		}
	}

	numbers := make([]int, 0, len(slides))
	for n := range slides {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	var b strings.Builder
	b.WriteString(`<div class="ppt-presentation">`)
	b.WriteString("\n")
	for i, n := range numbers {
		slideHTML, sErr := renderSlide(slides[n], notes[n], i+1)
		if sErr != nil {
			diags = append(diags, diag.New(diag.SeverityWarning, "PPTX_SLIDE_ERROR",
				fmt.Sprintf("failed to read slide %d: %v", n, sErr)).
				WithPath(deckFile))
			continue
		}
		b.WriteString(slideHTML)
		b.WriteString("\n<hr>\n")
	}
	b.WriteString("</div>\n")
	b.WriteString(slideTrackingScript)

	stem := fileStem(deckFile)
	if identifier == "" {
		identifier = "pptx_" + stem
	}
	page := &Page{
		Title:      titleFromStem(stem),
		Identifier: identifier,
		Body:       b.String(),
		State:      StateActive,
		SourceFile: deckFile,
	}
	return page, diags
}

// FindAll converts every deck under the export directory that is not inside
// the output or web-resources trees, in lexical order.
func (p *SlideDeckParser) FindAll(skipDirs ...string) ([]Page, diag.List) {
	var pages []Page
	var diags diag.List

	skip := make(map[string]struct{}, len(skipDirs))
	for _, d := range skipDirs {
		skip[d] = struct{}{}
	}

	matches, err := doublestar.FilepathGlob(filepath.Join(p.courseDir, "**", "*.pptx"))
	if err != nil {
		return nil, nil
	}
	sort.Strings(matches)

	for _, file := range matches {
		rel, err := filepath.Rel(p.courseDir, file)
		if err != nil {
			continue
		}
		topDir, _, _ := strings.Cut(filepath.ToSlash(rel), "/")
		if _, skipped := skip[topDir]; skipped {
			continue
		}
		page, dDiags := p.ParseDeck(file, "")
		diags = append(diags, dDiags...)
		if page != nil {
			pages = append(pages, *page)
		}
	}
	return pages, diags
}

func renderSlide(slidePart, notesPart *zip.File, position int) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="ppt-slide" id="slide-%d" style="margin-bottom: 30px; border: 1px solid #eee; padding: 20px;">`, position)
	b.WriteString("\n")

	root, err := readZipXML(slidePart)
	if err != nil {
		return "", err
	}

	for _, shape := range xmlpath.All(root, "sp") {
		lines := shapeLines(shape)
		if len(lines) == 0 {
			continue
		}
		if isTitleShape(shape) {
			b.WriteString("<h2>" + htmlx.Clean(strings.Join(lines, " ")) + "</h2>\n")
			continue
		}
		if len(lines) > 1 {
			b.WriteString("<ul>\n")
			for _, line := range lines {
				b.WriteString("<li>" + htmlx.Clean(line) + "</li>\n")
			}
			b.WriteString("</ul>\n")
		} else {
			b.WriteString("<p>" + htmlx.Clean(lines[0]) + "</p>\n")
		}
	}

	if notesPart != nil {
		if notesRoot, err := readZipXML(notesPart); err == nil {
			var noteLines []string
			for _, shape := range xmlpath.All(notesRoot, "sp") {
				if isSlideImagePlaceholder(shape) {
					continue
				}
				noteLines = append(noteLines, shapeLines(shape)...)
			}
			if text := strings.TrimSpace(strings.Join(noteLines, " ")); text != "" {
				b.WriteString(`<div class="ppt-notes" style="background: #f9f9f9; padding: 10px; margin-top: 10px; font-size: 0.9em; color: #666;"><strong>Notes:</strong> ` +
					htmlx.Clean(text) + "</div>\n")
			}
		}
	}

	b.WriteString("</div>")
	return b.String(), nil
}

func readZipXML(f *zip.File) (*etree.Element, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(rc); err != nil {
		return nil, err
	}
	root := doc.Root()
	if root == nil {
		return nil, fmt.Errorf("empty slide part %s", f.Name)
	}
	return root, nil
}

// shapeLines joins the runs of each paragraph into one line per paragraph.
func shapeLines(shape *etree.Element) []string {
	var lines []string
	for _, para := range xmlpath.All(shape, "p") {
		var runs []string
		for _, t := range xmlpath.All(para, "t") {
			runs = append(runs, t.Text())
		}
		if line := strings.TrimSpace(strings.Join(runs, "")); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func isTitleShape(shape *etree.Element) bool {
	if ph := xmlpath.First(shape, "nvSpPr", "nvPr", "ph"); ph != nil {
		switch xmlpath.Attr(ph, "type", "") {
		case "title", "ctrTitle":
			return true
		}
	}
	return false
}

// Notes parts carry a slide-image placeholder that mirrors the slide; only
// the body placeholder is speaker text.
func isSlideImagePlaceholder(shape *etree.Element) bool {
	if ph := xmlpath.First(shape, "nvSpPr", "nvPr", "ph"); ph != nil {
		switch xmlpath.Attr(ph, "type", "") {
		case "sldImg", "sldNum":
			return true
		}
	}
	return false
}

// titleFromStem turns a file stem into a display title.
func titleFromStem(stem string) string {
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return r == '_' || r == '-' || r == ' '
	})
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// slideTrackingScript reports slide visibility to the hosting LMS so lesson
// progress can be tracked. Emits PRESENTATION_INIT, SLIDE_VIEWED and
// PRESENTATION_COMPLETE messages.
const slideTrackingScript = `
<script>
document.addEventListener('DOMContentLoaded', function() {
    const slides = document.querySelectorAll('.ppt-slide');
    const totalSlides = slides.length;
    const viewedSlides = new Set();

    // Notify LMS of initial state
    if (window.parent) {
        window.parent.postMessage({
            type: 'PRESENTATION_INIT',
            slideCount: totalSlides,
            source: 'tutor_lms_pptx'
        }, '*');
    }

    const observer = new IntersectionObserver((entries) => {
        entries.forEach(entry => {
            if (entry.isIntersecting) {
                const slideId = entry.target.id;
                const slideIndex = parseInt(slideId.replace('slide-', ''));

                if (!viewedSlides.has(slideId)) {
                    viewedSlides.add(slideId);

                    // Notify LMS of progress
                    if (window.parent) {
                        window.parent.postMessage({
                            type: 'SLIDE_VIEWED',
                            slideId: slideId,
                            slideIndex: slideIndex,
                            progress: Math.round((viewedSlides.size / totalSlides) * 100),
                            source: 'tutor_lms_pptx'
                        }, '*');

                        if (viewedSlides.size === totalSlides) {
                            window.parent.postMessage({
                                type: 'PRESENTATION_COMPLETE',
                                totalSlides: totalSlides,
                                source: 'tutor_lms_pptx'
                            }, '*');
                        }
                    }
                }
            }
        });
    }, { threshold: 0.5 });

    slides.forEach(slide => observer.observe(slide));
});
</script>
`
