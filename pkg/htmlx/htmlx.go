// Package htmlx provides the HTML handling used across the pipeline:
// cleaning, sanitization, body extraction and asset-path rewriting.
package htmlx

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)

	// Asset placeholder tokens as emitted by course exports, in raw and
	// percent-encoded forms. Both rewrite to the same target path.
	fileBaseRawRe     = regexp.MustCompile(`\$IMS-CC-FILEBASE\$/([^"')\s]+)`)
	fileBaseEncodedRe = regexp.MustCompile(`%24IMS-CC-FILEBASE%24/([^"')\s]+)`)
)

// Clean unescapes HTML entities and normalizes whitespace runs.
func Clean(content string) string {
	if content == "" {
		return ""
	}
	content = html.UnescapeString(content)
	content = whitespaceRe.ReplaceAllString(content, " ")
	return strings.TrimSpace(content)
}

// sanitizePolicy is the allow-list safe for LMS content.
var sanitizePolicy = buildPolicy()

func buildPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"a", "abbr", "acronym", "b", "blockquote", "br", "code", "div",
		"em", "h1", "h2", "h3", "h4", "h5", "h6", "hr", "i", "img",
		"li", "ol", "p", "pre", "span", "strong", "table", "tbody",
		"td", "th", "thead", "tr", "ul", "iframe", "video", "audio",
		"source", "figure", "figcaption",
	)
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("src", "width", "height", "frameborder", "allowfullscreen").OnElements("iframe")
	p.AllowAttrs("src", "controls", "width", "height").OnElements("video")
	p.AllowAttrs("src", "controls").OnElements("audio")
	p.AllowAttrs("src", "type").OnElements("source")
	p.AllowAttrs("class", "id").OnElements("div", "span", "p", "table")
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}

// Sanitize strips elements and attributes outside the LMS allow-list.
func Sanitize(content string) string {
	if content == "" {
		return ""
	}
	return sanitizePolicy.Sanitize(content)
}

// BodyContent extracts the markup inside the <body> tag of a full HTML
// document. Returns "" when no body is present.
func BodyContent(content string) string {
	if content == "" {
		return ""
	}
	root, err := xhtml.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}
	body := findNode(root, "body")
	if body == nil {
		return ""
	}
	var buf bytes.Buffer
	for child := body.FirstChild; child != nil; child = child.NextSibling {
		if err := xhtml.Render(&buf, child); err != nil {
			return ""
		}
	}
	return buf.String()
}

// ExtractText returns the plain text of HTML content, with script and style
// elements dropped and whitespace collapsed.
func ExtractText(content string) string {
	if content == "" {
		return ""
	}
	root, err := xhtml.Parse(strings.NewReader(content))
	if err != nil {
		return ""
	}
	var sb strings.Builder
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == xhtml.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(sb.String(), " "))
}

// IsEmpty reports whether HTML content has no meaningful text.
func IsEmpty(content string) bool {
	return strings.TrimSpace(ExtractText(content)) == ""
}

// RewriteAssetPaths rewrites embedded file-base placeholder references to a
// path under basePath. Raw and percent-encoded token forms yield identical
// results for the same logical asset.
func RewriteAssetPaths(content, basePath string) string {
	if content == "" {
		return ""
	}
	content = fileBaseRawRe.ReplaceAllString(content, basePath+"$1")
	content = fileBaseEncodedRe.ReplaceAllString(content, basePath+"$1")
	return content
}

// WrapDocument wraps body content in a complete HTML5 document.
func WrapDocument(title, content string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>%s</title>
</head>
<body>
%s
</body>
</html>`, html.EscapeString(title), content)
}

// ImageSources lists the src attribute of every <img> in the content.
func ImageSources(content string) []string {
	if content == "" {
		return nil
	}
	root, err := xhtml.Parse(strings.NewReader(content))
	if err != nil {
		return nil
	}
	var out []string
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode && n.Data == "img" {
			for _, a := range n.Attr {
				if a.Key == "src" {
					out = append(out, a.Val)
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return out
}

func findNode(n *xhtml.Node, name string) *xhtml.Node {
	if n.Type == xhtml.ElementNode && n.Data == name {
		return n
	}
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if found := findNode(child, name); found != nil {
			return found
		}
	}
	return nil
}
