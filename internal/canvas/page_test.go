package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePage(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wiki_content/welcome.xml", fixturePage)

	page, diags := NewPageParser(dir).ParsePage(path)
	require.NotNil(t, page)
	assert.Empty(t, diags)

	assert.Equal(t, "Welcome", page.Title)
	assert.Equal(t, "welcome", page.Identifier)
	assert.Contains(t, page.Body, "Welcome to the course!")
	assert.Equal(t, StateActive, page.State)
}

func TestParsePageTitleFallback(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wiki_content/intro-lecture.xml",
		`<?xml version="1.0"?><page><body>content here</body></page>`)

	page, _ := NewPageParser(dir).ParsePage(path)
	require.NotNil(t, page)
	assert.Equal(t, "intro-lecture", page.Title)
}

func TestParsePageEmptyBody(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wiki_content/blank.xml",
		`<?xml version="1.0"?><page><title>Blank</title></page>`)

	page, diags := NewPageParser(dir).ParsePage(path)
	require.NotNil(t, page)
	assert.Empty(t, diags)
	assert.Empty(t, page.Body)
}

func TestParsePageBroken(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "wiki_content/broken.xml", "<page><unclosed")

	page, diags := NewPageParser(dir).ParsePage(path)
	assert.Nil(t, page)
	require.Len(t, diags, 1)
	assert.Equal(t, "PAGE_PARSE_ERROR", diags[0].Kind)
}

func TestPageFindAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "wiki_content/b-second.xml",
		`<page><title>Second</title><body>b</body></page>`)
	writeFile(t, dir, "wiki_content/a-first.xml",
		`<page><title>First</title><body>a</body></page>`)
	writeFile(t, dir, "wiki_content/notes.txt", "not a page")

	pages, diags := NewPageParser(dir).FindAll()
	assert.Empty(t, diags)
	require.Len(t, pages, 2)

	// Lexical discovery order.
	assert.Equal(t, "First", pages[0].Title)
	assert.Equal(t, "Second", pages[1].Title)
}

func TestPageFindAllNoDirectory(t *testing.T) {
	pages, diags := NewPageParser(t.TempDir()).FindAll()
	assert.Nil(t, pages)
	assert.Nil(t, diags)
}
