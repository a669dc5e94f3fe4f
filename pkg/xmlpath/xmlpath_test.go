package xmlpath

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sample = `<?xml version="1.0"?>
<manifest xmlns="http://example.com/ns" identifier="course_1">
  <metadata>
    <lom:title xmlns:lom="http://example.com/lom">
      <lom:string>Intro Course</lom:string>
    </lom:title>
  </metadata>
  <resources>
    <resource identifier="r1" href="a.xml" type="webcontent"/>
    <resource identifier="r2" href="b.xml" type="assignment"/>
  </resources>
  <body>Hello <b>world</b> tail</body>
</manifest>`

func TestFirstIgnoresNamespacePrefixes(t *testing.T) {
	doc, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	title := First(doc.Root(), "title", "string")
	if title == nil {
		t.Fatal("expected to find title/string through namespace prefix")
	}
	if got := Text(title, ""); got != "Intro Course" {
		t.Errorf("expected 'Intro Course', got %q", got)
	}
}

func TestAllAndAttr(t *testing.T) {
	doc, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	resources := All(doc.Root(), "resource")
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	if got := Attr(resources[1], "href", ""); got != "b.xml" {
		t.Errorf("expected href b.xml, got %q", got)
	}
	if got := Attr(resources[0], "missing", "dflt"); got != "dflt" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestInnerXMLKeepsMarkup(t *testing.T) {
	doc, err := Parse(sample)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	body := First(doc.Root(), "body")
	inner := InnerXML(body)
	if !strings.Contains(inner, "<b>world</b>") {
		t.Errorf("expected inner markup preserved, got %q", inner)
	}
	if !strings.Contains(inner, "Hello") || !strings.Contains(inner, "tail") {
		t.Errorf("expected surrounding text preserved, got %q", inner)
	}
}

func TestTextFallback(t *testing.T) {
	if got := Text(nil, "fb"); got != "fb" {
		t.Errorf("expected fallback for nil element, got %q", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.xml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.xml")
	if err := os.WriteFile(path, []byte("<a><b></a>"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed xml")
	}
}

func TestFlattenText(t *testing.T) {
	doc, err := Parse(`<root><p>one</p><div><p>two</p></div></root>`)
	if err != nil {
		t.Fatal(err)
	}
	got := FlattenText(doc.Root())
	if !strings.Contains(got, "one") || !strings.Contains(got, "two") {
		t.Errorf("expected all text collected, got %q", got)
	}
}
