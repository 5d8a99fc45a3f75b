// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package orgparse

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pdiddy/org2opml/pkg/types"
)

// Kind is the classification of one input line.
type Kind int

const (
	KindIgnored Kind = iota
	KindMetadata
	KindHeadline
)

func (k Kind) String() string {
	switch k {
	case KindMetadata:
		return "metadata"
	case KindHeadline:
		return "headline"
	default:
		return "ignored"
	}
}

// Recognized metadata keys. Matching is case-sensitive.
const (
	KeyTitle  = "TITLE"
	KeyAuthor = "AUTHOR"
	KeyRoot   = "ROOT"
)

// Line is a classified input line. Key and Value are set for metadata
// lines; Level and Text for headlines.
type Line struct {
	Kind  Kind
	Key   string
	Value string
	Level int
	Text  string
}

// Classifier recognizes metadata and headline lines for a fixed pair of
// markers. Patterns are compiled once in NewClassifier; Classify is pure
// and safe for concurrent use.
type Classifier struct {
	metaPrefix  string
	levelMarker string
	metaRE      *regexp.Regexp
	headlineRE  *regexp.Regexp
}

// NewClassifier compiles the pattern table for cfg.
func NewClassifier(cfg types.ParserConfig) (*Classifier, error) {
	if cfg.LevelMarker == "" {
		return nil, fmt.Errorf("level marker cannot be empty")
	}
	if cfg.MetaPrefix == "" {
		return nil, fmt.Errorf("metadata prefix cannot be empty")
	}

	metaRE, err := regexp.Compile(`^(` + KeyTitle + `|` + KeyAuthor + `|` + KeyRoot + `)\s*:\s*(.*)$`)
	if err != nil {
		return nil, fmt.Errorf("compiling metadata pattern: %w", err)
	}
	marker := regexp.QuoteMeta(cfg.LevelMarker)
	headlineRE, err := regexp.Compile(`^((?:` + marker + `)+)\s+(.*)$`)
	if err != nil {
		return nil, fmt.Errorf("compiling headline pattern: %w", err)
	}

	return &Classifier{
		metaPrefix:  cfg.MetaPrefix,
		levelMarker: cfg.LevelMarker,
		metaRE:      metaRE,
		headlineRE:  headlineRE,
	}, nil
}

// Classify inspects a line that has already been stripped of surrounding
// whitespace. Metadata lines take precedence over headlines.
func (c *Classifier) Classify(line string) Line {
	if strings.HasPrefix(line, c.metaPrefix) {
		m := c.metaRE.FindStringSubmatch(line[len(c.metaPrefix):])
		if m == nil {
			return Line{Kind: KindIgnored}
		}
		return Line{Kind: KindMetadata, Key: m[1], Value: m[2]}
	}

	if strings.HasPrefix(line, c.levelMarker) {
		m := c.headlineRE.FindStringSubmatch(line)
		if m == nil {
			return Line{Kind: KindIgnored}
		}
		return Line{
			Kind:  KindHeadline,
			Level: strings.Count(m[1], c.levelMarker),
			Text:  m[2],
		}
	}

	return Line{Kind: KindIgnored}
}

// IsMetaLine reports whether line starts with the metadata prefix,
// whether or not its key is recognized.
func (c *Classifier) IsMetaLine(line string) bool {
	return strings.HasPrefix(line, c.metaPrefix)
}
