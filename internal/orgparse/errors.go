// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orgparse

import (
	"errors"
	"fmt"
)

// ErrMalformedOutline is the sentinel matched by errors.Is for every
// MalformedOutlineError.
var ErrMalformedOutline = errors.New("malformed outline")

// MalformedOutlineError reports a headline whose level has no open parent
// at the level directly above it.
type MalformedOutlineError struct {
	// Line is the 1-based input line, or 0 when the node was added directly
	// through a Builder.
	Line int

	Level int
	Text  string
}

func (e *MalformedOutlineError) Error() string {
	var msg string
	if e.Level < 1 {
		msg = fmt.Sprintf("invalid headline level %d for %q", e.Level, e.Text)
	} else {
		msg = fmt.Sprintf("headline %q at level %d has no level-%d parent", e.Text, e.Level, e.Level-1)
	}
	if e.Line > 0 {
		return fmt.Sprintf("%s: line %d: %s", ErrMalformedOutline, e.Line, msg)
	}
	return fmt.Sprintf("%s: %s", ErrMalformedOutline, msg)
}

func (e *MalformedOutlineError) Unwrap() error {
	return ErrMalformedOutline
}
