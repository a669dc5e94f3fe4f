// Package xmlpath provides namespace-lenient element lookup over etree
// documents. Course exports mix prefixed, default-namespace and bare XML for
// the same logical elements, so all lookups here match on local names only.
package xmlpath

import (
	"fmt"
	"os"
	"strings"

	"github.com/beevik/etree"
)

// Load parses an XML file into an etree document.
func Load(path string) (*etree.Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("xml file not found: %s", path)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("no root element in %s", path)
	}
	return doc, nil
}

// Parse parses an XML string into an etree document.
func Parse(content string) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromString(content); err != nil {
		return nil, fmt.Errorf("failed to parse xml: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("no root element")
	}
	return doc, nil
}

// First returns the first descendant reachable by the given chain of local
// names, depth-first in document order. A single name finds the first
// matching descendant at any depth.
func First(el *etree.Element, names ...string) *etree.Element {
	if el == nil || len(names) == 0 {
		return nil
	}
	for _, match := range descendants(el, names[0]) {
		if len(names) == 1 {
			return match
		}
		if found := First(match, names[1:]...); found != nil {
			return found
		}
	}
	return nil
}

// All returns every descendant with the given local name, in document order.
func All(el *etree.Element, name string) []*etree.Element {
	if el == nil {
		return nil
	}
	return descendants(el, name)
}

// Children returns the direct child elements with the given local name.
func Children(el *etree.Element, name string) []*etree.Element {
	if el == nil {
		return nil
	}
	var out []*etree.Element
	for _, child := range el.ChildElements() {
		if localName(child) == name {
			out = append(out, child)
		}
	}
	return out
}

// Text returns the trimmed text of el, or fallback when el is nil or empty.
func Text(el *etree.Element, fallback string) string {
	if el == nil {
		return fallback
	}
	t := strings.TrimSpace(el.Text())
	if t == "" {
		return fallback
	}
	return t
}

// Attr returns the value of the named attribute, or fallback when absent.
// The attribute is matched by local name so ns-qualified attributes resolve.
func Attr(el *etree.Element, key, fallback string) string {
	if el == nil {
		return fallback
	}
	for _, a := range el.Attr {
		if a.Key == key {
			return a.Value
		}
	}
	return fallback
}

// InnerXML serializes the content of el (text and child elements) without
// the enclosing tag. Used to carry HTML bodies out of XML wrappers.
func InnerXML(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var sb strings.Builder
	for _, tok := range el.Child {
		switch t := tok.(type) {
		case *etree.CharData:
			sb.WriteString(t.Data)
		case *etree.Element:
			doc := etree.NewDocument()
			doc.AddChild(t.Copy())
			if s, err := doc.WriteToString(); err == nil {
				sb.WriteString(s)
			}
		}
	}
	return sb.String()
}

// FlattenText collects all character data beneath el, space-joined. Used as
// a last-resort content extraction for unrecognized documents.
func FlattenText(el *etree.Element) string {
	if el == nil {
		return ""
	}
	var parts []string
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		if t := strings.TrimSpace(e.Text()); t != "" {
			parts = append(parts, t)
		}
		for _, child := range e.ChildElements() {
			walk(child)
		}
	}
	walk(el)
	return strings.Join(parts, " ")
}

func localName(el *etree.Element) string {
	return el.Tag
}

func descendants(el *etree.Element, name string) []*etree.Element {
	var out []*etree.Element
	var walk func(e *etree.Element)
	walk = func(e *etree.Element) {
		for _, child := range e.ChildElements() {
			if localName(child) == name {
				out = append(out, child)
			}
			walk(child)
		}
	}
	walk(el)
	return out
}
