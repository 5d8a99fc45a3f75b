// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package opml serializes a parsed outline into an OPML 1.0 document.
//
// When the outline has exactly one top-level headline, that headline becomes
// the body's top outline and its children are placed directly inside it
// (skip-root mode). Otherwise a wrapper outline labelled with the ROOT
// keyword holds every top-level headline.
package opml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/pdiddy/org2opml/pkg/types"
)

// Version is the OPML version written to the root element.
const Version = "1.0"

// DefaultIndent is used when Options.Indent is empty.
const DefaultIndent = "  "

// OPML is the root element of an OPML document.
type OPML struct {
	XMLName xml.Name `xml:"opml"`
	Version string   `xml:"version,attr"`
	Head    Head     `xml:"head"`
	Body    Body     `xml:"body"`
}

// Head carries document metadata.
type Head struct {
	Title     string `xml:"title"`
	OwnerName string `xml:"ownername"`
}

// Body holds the outline tree.
type Body struct {
	Outlines []Outline `xml:"outline"`
}

// Outline is one node of the outline tree. Children nest recursively.
type Outline struct {
	Text     string    `xml:"text,attr"`
	Outlines []Outline `xml:"outline"`
}

// Options controls serialization.
type Options struct {
	// Indent is repeated once per nesting level.
	Indent string
}

// Build maps a document onto the OPML element tree.
func Build(doc *types.Document) *OPML {
	var top Outline
	if doc.SingleRoot() {
		root := doc.Roots[0]
		top = Outline{Text: root.Text, Outlines: outlines(root.Children)}
	} else {
		top = Outline{Text: doc.Metadata.Root, Outlines: outlines(doc.Roots)}
	}

	return &OPML{
		Version: Version,
		Head: Head{
			Title:     doc.Metadata.Title,
			OwnerName: doc.Metadata.Author,
		},
		Body: Body{Outlines: []Outline{top}},
	}
}

func outlines(nodes []*types.Node) []Outline {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]Outline, len(nodes))
	for i, n := range nodes {
		out[i] = Outline{Text: n.Text, Outlines: outlines(n.Children)}
	}
	return out
}

// Encode writes doc to w as indented OPML preceded by an XML declaration.
func Encode(w io.Writer, doc *types.Document, opts Options) error {
	indent := opts.Indent
	if indent == "" {
		indent = DefaultIndent
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("writing XML declaration: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", indent)
	if err := enc.Encode(Build(doc)); err != nil {
		return fmt.Errorf("encoding OPML: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("writing OPML: %w", err)
	}
	return nil
}

// Marshal returns doc as an OPML document.
func Marshal(doc *types.Document, opts Options) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// OutlineCount returns the number of outline elements Encode produces for
// doc: one per node, plus the wrapper unless skip-root mode applies.
func OutlineCount(doc *types.Document) int {
	n := doc.NodeCount()
	if doc.SingleRoot() {
		return n
	}
	return n + 1
}
