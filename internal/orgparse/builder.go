// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orgparse

import "github.com/pdiddy/org2opml/pkg/types"

// Builder assembles headlines into a forest. It keeps an explicit stack of
// the most recent node at each depth on the current ancestry path: entry i
// is the open node at level i+1.
type Builder struct {
	roots []*types.Node
	stack []*types.Node
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// AddNode creates a node and attaches it to the forest or to its parent,
// the most recent open node at level-1. It returns a *MalformedOutlineError
// when level is below 1 or when no level-1 parent is open, for example a
// level-3 headline directly after a level-1 headline.
func (b *Builder) AddNode(level int, text string) (*types.Node, error) {
	if level < 1 {
		return nil, &MalformedOutlineError{Level: level, Text: text}
	}

	node := types.NewNode(level, text)

	if level == 1 {
		b.roots = append(b.roots, node)
		b.stack = append(b.stack[:0], node)
		return node, nil
	}

	if len(b.stack) < level-1 {
		return nil, &MalformedOutlineError{Level: level, Text: text}
	}

	parent := b.stack[level-2]
	parent.AddChild(node)
	b.stack = append(b.stack[:level-1], node)
	return node, nil
}

// Forest returns the top-level nodes in document order.
func (b *Builder) Forest() []*types.Node {
	return b.roots
}

// depth returns the number of open levels on the current ancestry path.
func (b *Builder) depth() int {
	return len(b.stack)
}
