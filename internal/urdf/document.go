// Package urdf builds and serializes the flattened robot description.
package urdf

import (
	"bufio"
	"encoding/xml"
	"io"
	"strings"
)

const (
	xmlHeader = `<?xml version="1.0" encoding="utf-8"?>`
	newline   = "\n"
	indent    = "  "
)

// Attr is a single element attribute.
type Attr struct {
	Name  string
	Value string
}

// Element is a markup element with ordered attributes.
type Element struct {
	Tag      string
	Attrs    []Attr
	Children []*Element
}

// NewElement creates an element with attributes given as name, value pairs.
func NewElement(tag string, kv ...string) *Element {
	e := &Element{Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		e.Attrs = append(e.Attrs, Attr{Name: kv[i], Value: kv[i+1]})
	}
	return e
}

// Add appends a new child element and returns it.
func (e *Element) Add(tag string, kv ...string) *Element {
	c := NewElement(tag, kv...)
	e.Children = append(e.Children, c)
	return c
}

// Attr returns the value of the named attribute.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Child returns the first direct child with the given tag, or nil.
func (e *Element) Child(tag string) *Element {
	for _, c := range e.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// Document is a complete description rooted at a robot element.
type Document struct {
	Root *Element
}

// WriteTo writes the document with an XML declaration, "\n" newlines and
// two-space indentation. Childless elements are self-closed.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	cw := &countWriter{w: bufio.NewWriter(w)}
	cw.str(xmlHeader)
	cw.str(newline)
	writeElement(cw, d.Root, 0)
	if cw.err == nil {
		cw.err = cw.w.Flush()
	}
	return cw.n, cw.err
}

// String renders the document.
func (d *Document) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

func writeElement(cw *countWriter, e *Element, depth int) {
	pad := strings.Repeat(indent, depth)
	cw.str(pad)
	cw.str("<")
	cw.str(e.Tag)
	for _, a := range e.Attrs {
		cw.str(" ")
		cw.str(a.Name)
		cw.str(`="`)
		cw.escape(a.Value)
		cw.str(`"`)
	}
	if len(e.Children) == 0 {
		cw.str("/>")
		cw.str(newline)
		return
	}
	cw.str(">")
	cw.str(newline)
	for _, c := range e.Children {
		writeElement(cw, c, depth+1)
	}
	cw.str(pad)
	cw.str("</")
	cw.str(e.Tag)
	cw.str(">")
	cw.str(newline)
}

// countWriter keeps the first error and the byte count so the element
// writer can stay linear.
type countWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (cw *countWriter) str(s string) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.WriteString(s)
	cw.n += int64(n)
	cw.err = err
}

func (cw *countWriter) escape(s string) {
	if cw.err != nil {
		return
	}
	var sb strings.Builder
	if err := xml.EscapeText(&sb, []byte(s)); err != nil {
		cw.err = err
		return
	}
	cw.str(sb.String())
}
