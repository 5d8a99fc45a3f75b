// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the org2opml pipeline:
// the parsed outline (Node, Metadata, Document), conversion status values,
// and the converter configuration.
package types

// Node is one headline in a parsed outline. A node is owned by exactly one
// parent, or by the document forest when Level is 1.
type Node struct {
	// Level is the headline depth; 1 is top level.
	Level int `json:"level" yaml:"level"`

	// Text is the headline content after the level markers.
	Text string `json:"text" yaml:"text"`

	// Children holds the direct descendants in document order.
	Children []*Node `json:"children,omitempty" yaml:"children,omitempty"`
}

// NewNode returns a childless node.
func NewNode(level int, text string) *Node {
	return &Node{Level: level, Text: text}
}

// AddChild appends child to the node's children.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// Count returns the number of nodes in the subtree rooted at n, n included.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Metadata holds the document-level keywords. Unset fields are empty.
type Metadata struct {
	Title  string `json:"title" yaml:"title"`
	Author string `json:"author" yaml:"author"`

	// Root labels the synthetic wrapper outline when the document has
	// more than one top-level headline.
	Root string `json:"root" yaml:"root"`
}

// Document is a parsed outline: metadata plus the forest of top-level nodes.
type Document struct {
	Metadata Metadata `json:"metadata" yaml:"metadata"`
	Roots    []*Node  `json:"roots" yaml:"roots"`
}

// NodeCount returns the total number of nodes across the forest.
func (d *Document) NodeCount() int {
	total := 0
	for _, r := range d.Roots {
		total += r.Count()
	}
	return total
}

// SingleRoot reports whether the forest has exactly one top-level node.
func (d *Document) SingleRoot() bool {
	return len(d.Roots) == 1
}
