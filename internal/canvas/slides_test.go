package canvas

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureSlide1 = `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp>
      <p:nvSpPr><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>Coral Reefs</a:t></a:r></a:p></p:txBody>
    </p:sp>
    <p:sp>
      <p:nvSpPr><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>
      <p:txBody>
        <a:p><a:r><a:t>Warm water</a:t></a:r></a:p>
        <a:p><a:r><a:t>Lots of light</a:t></a:r></a:p>
      </p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:sld>`

const fixtureSlide2 = `<?xml version="1.0"?>
<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
       xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp>
      <p:txBody><a:p><a:r><a:t>One line only</a:t></a:r></a:p></p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:sld>`

const fixtureNotes1 = `<?xml version="1.0"?>
<p:notes xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"
         xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main">
  <p:cSld><p:spTree>
    <p:sp>
      <p:nvSpPr><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr>
    </p:sp>
    <p:sp>
      <p:nvSpPr><p:nvPr><p:ph type="body"/></p:nvPr></p:nvSpPr>
      <p:txBody><a:p><a:r><a:t>Mention bleaching events</a:t></a:r></a:p></p:txBody>
    </p:sp>
  </p:spTree></p:cSld>
</p:notes>`

func writeDeckFixture(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := zip.NewWriter(f)
	parts := map[string]string{
		"ppt/slides/slide1.xml":           fixtureSlide1,
		"ppt/slides/slide2.xml":           fixtureSlide2,
		"ppt/notesSlides/notesSlide1.xml": fixtureNotes1,
	}
	for partName, content := range parts {
		part, err := w.Create(partName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return path
}

func TestParseDeck(t *testing.T) {
	dir := t.TempDir()
	path := writeDeckFixture(t, dir, "marine_intro_slides.pptx")

	page, diags := NewSlideDeckParser(dir).ParseDeck(path, "")
	require.NotNil(t, page)
	assert.Empty(t, diags)

	assert.Equal(t, "Marine Intro Slides", page.Title)
	assert.Equal(t, "pptx_marine_intro_slides", page.Identifier)

	assert.Contains(t, page.Body, `<h2>Coral Reefs</h2>`)
	assert.Contains(t, page.Body, "<li>Warm water</li>")
	assert.Contains(t, page.Body, "<li>Lots of light</li>")
	assert.Contains(t, page.Body, "<p>One line only</p>")
	assert.Contains(t, page.Body, "Mention bleaching events")
	assert.Contains(t, page.Body, `id="slide-1"`)
	assert.Contains(t, page.Body, `id="slide-2"`)
	assert.Contains(t, page.Body, "PRESENTATION_COMPLETE")
}

func TestParseDeckSuppliedIdentifier(t *testing.T) {
	dir := t.TempDir()
	path := writeDeckFixture(t, dir, "deck.pptx")

	page, _ := NewSlideDeckParser(dir).ParseDeck(path, "res_deck_1")
	require.NotNil(t, page)
	assert.Equal(t, "res_deck_1", page.Identifier)
}

func TestParseDeckNotAZip(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "bad.pptx", "this is not a zip")

	page, diags := NewSlideDeckParser(dir).ParseDeck(path, "")
	assert.Nil(t, page)
	require.Len(t, diags, 1)
	assert.Equal(t, "PPTX_PARSE_ERROR", diags[0].Kind)
}

func TestTitleFromStem(t *testing.T) {
	assert.Equal(t, "Week 2 Overview", titleFromStem("week_2_overview"))
	assert.Equal(t, "Deck", titleFromStem("DECK"))
}
