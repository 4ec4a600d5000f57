// Package xmlutil provides small, namespace-tolerant element and
// attribute accessors on top of beevik/etree. Every accessor returns an
// optional string rather than panicking or erroring — a missing node is
// routine in both dialects, not exceptional. Path queries use bare
// (unprefixed) tag names throughout: etree matches those against an
// element's local name regardless of namespace, which is exactly what
// the single-default-namespace-per-document convention in both
// dialects needs.
package xmlutil

import (
	"strings"

	"github.com/beevik/etree"
)

// Text returns all text content of an element and its descendants,
// trimmed. Equivalent to joining itertext() in the original parser.
func Text(e *etree.Element) string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	collectText(e, &b)
	return strings.TrimSpace(b.String())
}

func collectText(e *etree.Element, b *strings.Builder) {
	for _, child := range e.Child {
		switch n := child.(type) {
		case *etree.CharData:
			b.WriteString(n.Data)
		case *etree.Element:
			collectText(n, b)
		}
	}
}

// FindText finds the first element matching path and returns its
// trimmed text, or "" if no element matches.
func FindText(root *etree.Element, path string) string {
	if root == nil {
		return ""
	}
	el := root.FindElement(path)
	if el == nil {
		return ""
	}
	return Text(el)
}

// Attr returns the named attribute value on e and whether it was present.
func Attr(e *etree.Element, name string) (string, bool) {
	if e == nil {
		return "", false
	}
	attr := e.SelectAttr(name)
	if attr == nil {
		return "", false
	}
	return attr.Value, true
}

// FindAttr finds the first element matching path and returns its named
// attribute value, or "", false if either the element or the attribute
// is absent.
func FindAttr(root *etree.Element, path, name string) (string, bool) {
	if root == nil {
		return "", false
	}
	el := root.FindElement(path)
	if el == nil {
		return "", false
	}
	return Attr(el, name)
}

// FirstText returns the trimmed text of the first element in elements,
// or "", false if the slice is empty or the text is empty.
func FirstText(elements []*etree.Element) (string, bool) {
	if len(elements) == 0 {
		return "", false
	}
	text := Text(elements[0])
	if text == "" {
		return "", false
	}
	return text, true
}

// FirstAttr returns the named attribute of the first element in
// elements, or "", false if the slice is empty or the attribute is absent.
func FirstAttr(elements []*etree.Element, name string) (string, bool) {
	if len(elements) == 0 {
		return "", false
	}
	return Attr(elements[0], name)
}

// OrAbsent trims s and returns (s, true) if non-empty, ("", false)
// otherwise: empty strings become absent.
func OrAbsent(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", false
	}
	return s, true
}

// Ptr is a small helper for building the optional *string fields of the
// canonical schema: an empty s yields nil.
func Ptr(s string) *string {
	if s == "" {
		return nil
	}
	v := s
	return &v
}
