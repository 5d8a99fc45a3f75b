// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package orgparse reads the Org-mode outline subset the converter
// understands: headlines ("*", "**", ...) and the TITLE, AUTHOR and ROOT
// metadata keywords. Everything else in the input is ignored.
package orgparse

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/pdiddy/org2opml/internal/logger"
	"github.com/pdiddy/org2opml/pkg/types"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser turns outline text into a types.Document.
type Parser struct {
	classifier *Classifier
	log        *logger.Logger
}

// NewParser builds a parser for the given markers. A nil log discards
// diagnostics.
func NewParser(cfg types.ParserConfig, log *logger.Logger) (*Parser, error) {
	c, err := NewClassifier(cfg)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Parser{classifier: c, log: log}, nil
}

// Parse reads all of r and parses it.
func (p *Parser) Parse(r io.Reader) (*types.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading outline: %w", err)
	}
	return p.ParseBytes(src)
}

// ParseBytes parses UTF-8 outline text. A leading byte-order mark is
// dropped and LF, CRLF or CR line endings are accepted. Headline level errors are returned as *MalformedOutlineError
// carrying the offending line number.
func (p *Parser) ParseBytes(src []byte) (*types.Document, error) {
	if !utf8.Valid(src) {
		return nil, fmt.Errorf("outline is not valid UTF-8")
	}
	src = bytes.TrimPrefix(src, utf8BOM)

	doc := &types.Document{}
	b := NewBuilder()

	for i, raw := range splitLines(string(src)) {
		lineNo := i + 1
		line := strings.TrimSpace(raw)

		cl := p.classifier.Classify(line)
		switch cl.Kind {
		case KindMetadata:
			applyMetadata(&doc.Metadata, cl)
		case KindHeadline:
			if _, err := b.AddNode(cl.Level, cl.Text); err != nil {
				var me *MalformedOutlineError
				if errors.As(err, &me) {
					me.Line = lineNo
				}
				return nil, err
			}
		default:
			if p.classifier.IsMetaLine(line) {
				p.log.MetadataIgnored(lineNo, line)
			}
		}
	}

	doc.Roots = b.Forest()
	return doc, nil
}

// splitLines splits text on LF, CRLF and bare CR line endings.
func splitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Split(text, "\n")
}

// applyMetadata stores a recognized keyword. Repeated keys overwrite.
func applyMetadata(m *types.Metadata, l Line) {
	switch l.Key {
	case KeyTitle:
		m.Title = l.Value
	case KeyAuthor:
		m.Author = l.Value
	case KeyRoot:
		m.Root = l.Value
	}
}
