package htmlx

import (
	"strings"
	"testing"
)

func TestClean(t *testing.T) {
	in := "  Hello &amp; welcome\n\n   to   the\tcourse  "
	want := "Hello & welcome to the course"
	if got := Clean(in); got != want {
		t.Errorf("Clean() = %q, want %q", got, want)
	}
	if Clean("") != "" {
		t.Error("Clean of empty string should be empty")
	}
}

func TestSanitizeStripsScripts(t *testing.T) {
	in := `<p onclick="x()">ok</p><script>alert(1)</script><img src="a.png" alt="a">`
	out := Sanitize(in)
	if strings.Contains(out, "script") || strings.Contains(out, "onclick") {
		t.Errorf("dangerous content not stripped: %q", out)
	}
	if !strings.Contains(out, "<p") || !strings.Contains(out, `src="a.png"`) {
		t.Errorf("allowed content was removed: %q", out)
	}
}

func TestBodyContent(t *testing.T) {
	doc := `<html><head><title>t</title></head><body><h1>Hi</h1><p>there</p></body></html>`
	out := BodyContent(doc)
	if !strings.Contains(out, "<h1>Hi</h1>") || !strings.Contains(out, "<p>there</p>") {
		t.Errorf("expected body children, got %q", out)
	}
	if strings.Contains(out, "<title>") {
		t.Errorf("head content leaked into body extraction: %q", out)
	}
}

func TestExtractTextSkipsScript(t *testing.T) {
	in := `<div><p>visible</p><script>var hidden = 1;</script></div>`
	out := ExtractText(in)
	if !strings.Contains(out, "visible") {
		t.Errorf("expected visible text, got %q", out)
	}
	if strings.Contains(out, "hidden") {
		t.Errorf("script text leaked: %q", out)
	}
}

func TestIsEmpty(t *testing.T) {
	if !IsEmpty("<div>  \n </div>") {
		t.Error("whitespace-only markup should be empty")
	}
	if IsEmpty("<p>x</p>") {
		t.Error("content should not be empty")
	}
}

func TestRewriteAssetPathsBothEncodings(t *testing.T) {
	raw := `<img src="$IMS-CC-FILEBASE$/images/pic.png">`
	encoded := `<img src="%24IMS-CC-FILEBASE%24/images/pic.png">`

	wantSrc := `src="../../assets/images/pic.png"`
	gotRaw := RewriteAssetPaths(raw, "../../assets/")
	gotEncoded := RewriteAssetPaths(encoded, "../../assets/")

	if !strings.Contains(gotRaw, wantSrc) {
		t.Errorf("raw token rewrite = %q, want %q inside", gotRaw, wantSrc)
	}
	if !strings.Contains(gotEncoded, wantSrc) {
		t.Errorf("encoded token rewrite = %q, want %q inside", gotEncoded, wantSrc)
	}
	// Both forms of the same logical asset must land on the identical path.
	if strings.Replace(gotRaw, raw, "", 1) != strings.Replace(gotEncoded, encoded, "", 1) &&
		gotRaw != gotEncoded {
		t.Errorf("raw and encoded rewrites diverge: %q vs %q", gotRaw, gotEncoded)
	}
}

func TestRewriteAssetPathsParameterizedDepth(t *testing.T) {
	in := `<a href="$IMS-CC-FILEBASE$/docs/syllabus.pdf">s</a>`
	out := RewriteAssetPaths(in, "assets/")
	if !strings.Contains(out, `href="assets/docs/syllabus.pdf"`) {
		t.Errorf("prefix not parameterized: %q", out)
	}
}

func TestWrapDocumentEscapesTitle(t *testing.T) {
	out := WrapDocument(`A <b> title`, "<p>body</p>")
	if !strings.Contains(out, "A &lt;b&gt; title") {
		t.Errorf("title not escaped: %q", out)
	}
	if !strings.Contains(out, "<p>body</p>") {
		t.Errorf("body missing: %q", out)
	}
}

func TestImageSources(t *testing.T) {
	in := `<p><img src="a.png"><img src="b.jpg" alt="x"></p>`
	srcs := ImageSources(in)
	if len(srcs) != 2 || srcs[0] != "a.png" || srcs[1] != "b.jpg" {
		t.Errorf("unexpected sources: %v", srcs)
	}
}
