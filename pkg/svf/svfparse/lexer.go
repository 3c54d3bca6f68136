package svfparse

import (
	"github.com/alecthomas/participle/v2/lexer"
)

// SVFLexer defines the lexical structure for the SVF statement subset the
// generator emits. SVF is not line oriented: statements may span lines and
// end at a semicolon.
var SVFLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Comments run from ! to end of line
	{Name: "Comment", Pattern: `![^\n]*`},

	// Whitespace
	{Name: "Whitespace", Pattern: `[\s\t\n\r]+`},

	// Keywords (must come before hex operands: OFF would lex as hex)
	{Name: "KwTrst", Pattern: `\bTRST\b`},
	{Name: "KwOn", Pattern: `\bON\b`},
	{Name: "KwOff", Pattern: `\bOFF\b`},
	{Name: "KwFrequency", Pattern: `\bFREQUENCY\b`},
	{Name: "KwHz", Pattern: `\bHZ\b`},
	{Name: "KwRuntest", Pattern: `\bRUNTEST\b`},
	{Name: "KwIdle", Pattern: `\bIDLE\b`},
	{Name: "KwSec", Pattern: `\bSEC\b`},
	{Name: "KwEndstate", Pattern: `\bENDSTATE\b`},
	{Name: "KwSdr", Pattern: `\bSDR\b`},
	{Name: "KwTdi", Pattern: `\bTDI\b`},
	{Name: "KwTdo", Pattern: `\bTDO\b`},
	{Name: "KwMask", Pattern: `\bMASK\b`},

	// Real numbers, including the 5.00e+006 frequency spelling
	{Name: "Real", Pattern: `[0-9]+\.[0-9]+([eE][-+]?[0-9]+)?`},

	// Hex operands; also covers plain integers like bit lengths
	{Name: "HexNum", Pattern: `[0-9a-fA-F]+`},

	// Punctuation
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Semicolon", Pattern: `;`},
})
