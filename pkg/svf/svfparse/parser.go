// Package svfparse parses the SVF statement subset emitted by the
// generator. It exists so generated scripts can be checked independently of
// the code that wrote them.
package svfparse

import (
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/participle/v2"
)

// Parser parses SVF scripts limited to the generator's statement subset.
type Parser struct {
	parser *participle.Parser[Document]
}

// NewParser creates a new SVF parser instance.
func NewParser() (*Parser, error) {
	parser, err := participle.Build[Document](
		participle.Lexer(SVFLexer),
		participle.Elide("Comment", "Whitespace"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build parser: %w", err)
	}

	return &Parser{parser: parser}, nil
}

// Parse parses an SVF script from a reader.
func (p *Parser) Parse(r io.Reader) (*Document, error) {
	doc, err := p.parser.Parse("", r)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return doc, nil
}

// ParseString parses an SVF script from a string.
func (p *Parser) ParseString(input string) (*Document, error) {
	doc, err := p.parser.ParseString("", input)
	if err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}
	return doc, nil
}

// ParseFile parses an SVF script from a file path.
func (p *Parser) ParseFile(filename string) (*Document, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return p.Parse(file)
}
