// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package token enumerates every token the lexer can produce and the
// source-position bookkeeping shared by the lexer, cursor, and parser.
package token

import "strings"

// Kind tags the variant a Token carries. Kinds with no payload render as a
// fixed string; Kinds with a payload (Name, Literal, Assignment,
// SingleQuoted, Whitespace, Comment) carry their text in Token.Text.
type Kind int

const (
	// Structural
	Newline Kind = iota
	Whitespace
	Semi
	DSemi
	Amp
	AndIf
	Pipe
	OrIf
	ParenOpen
	ParenClose
	CurlyOpen
	CurlyClose
	SquareOpen
	SquareClose
	Bang
	Tilde
	Backslash
	Backtick
	SingleQuote
	DoubleQuote
	Dollar
	Equals
	Plus
	Dash
	Pound
	Percent
	Colon
	At
	Star
	Question

	// Redirect operators
	Less
	Great
	DLess
	DGreat
	LessAnd
	GreatAnd
	LessAndDash
	GreatAndDash
	DLessDash
	Clobber
	LessGreat

	// Parameter forms
	ParamAt
	ParamStar
	ParamPound
	ParamQuestion
	ParamDash
	ParamDollar
	ParamBang
	ParamPositional

	// Text
	Name
	Literal
	Assignment
	SingleQuoted
	Comment
)

var fixedRender = map[Kind]string{
	Newline:       "\n",
	Semi:          ";",
	DSemi:         ";;",
	Amp:           "&",
	AndIf:         "&&",
	Pipe:          "|",
	OrIf:          "||",
	ParenOpen:     "(",
	ParenClose:    ")",
	CurlyOpen:     "{",
	CurlyClose:    "}",
	SquareOpen:    "[",
	SquareClose:   "]",
	Bang:          "!",
	Tilde:         "~",
	Backslash:     "\\",
	Backtick:      "`",
	SingleQuote:   "'",
	DoubleQuote:   `"`,
	Dollar:        "$",
	Equals:        "=",
	Plus:          "+",
	Dash:          "-",
	Pound:         "#",
	Percent:       "%",
	Colon:         ":",
	At:            "@",
	Star:          "*",
	Question:      "?",
	Less:          "<",
	Great:         ">",
	DLess:         "<<",
	DGreat:        ">>",
	LessAnd:       "<&",
	GreatAnd:      ">&",
	LessAndDash:   "<&-",
	GreatAndDash:  ">&-",
	DLessDash:     "<<-",
	Clobber:       ">|",
	LessGreat:     "<>",
	ParamAt:       "$@",
	ParamStar:     "$*",
	ParamPound:    "$#",
	ParamQuestion: "$?",
	ParamDash:     "$-",
	ParamDollar:   "$$",
	ParamBang:     "$!",
}

// Token is an immutable lexer output. Positional carries the positional
// parameter digit (0-9); Text carries the payload for text-bearing kinds.
type Token struct {
	Kind       Kind
	Text       string
	Positional uint8
	// Closed is meaningful only for SingleQuoted: false means the lexer hit
	// EOF before the closing quote was found.
	Closed bool
}

// New builds a payload-free token of the given kind.
func New(k Kind) Token { return Token{Kind: k} }

// NewText builds a text-bearing token.
func NewText(k Kind, text string) Token { return Token{Kind: k, Text: text} }

// NewPositional builds a $N positional-parameter token.
func NewPositional(d uint8) Token { return Token{Kind: ParamPositional, Positional: d} }

// NewSingleQuoted builds a fused single-quoted content token.
func NewSingleQuoted(text string, closed bool) Token {
	return Token{Kind: SingleQuoted, Text: text, Closed: closed}
}

// String renders the token back to the source text it was lexed from.
func (t Token) String() string {
	switch t.Kind {
	case Whitespace, Name, Literal:
		return t.Text
	case Comment:
		return "#" + t.Text
	case Assignment:
		return t.Text + "="
	case SingleQuoted:
		var b strings.Builder
		b.WriteByte('\'')
		b.WriteString(t.Text)
		if t.Closed {
			b.WriteByte('\'')
		}
		return b.String()
	case ParamPositional:
		return "$" + string(rune('0'+t.Positional))
	default:
		if s, ok := fixedRender[t.Kind]; ok {
			return s
		}
		return ""
	}
}

// Len reports the number of source code-points the token consumed.
func (t Token) Len() int {
	return len([]rune(t.String()))
}

// IsWordDelimiter reports whether this token ends a word in unquoted
// context: whitespace, newline, ;, &, |, <, >, (, ), or any compound
// and/or/case operator.
func (t Token) IsWordDelimiter() bool {
	switch t.Kind {
	case Whitespace, Newline, Semi, DSemi, Amp, AndIf, Pipe, OrIf,
		ParenOpen, ParenClose,
		Less, Great, DLess, DGreat, LessAnd, GreatAnd,
		LessAndDash, GreatAndDash, DLessDash, Clobber, LessGreat:
		return true
	default:
		return false
	}
}

// SourcePos tracks the offset, 1-based line, and 0-based column of the
// next token to be read. Byte counts code points (the sum of token Len
// values), not UTF-8 bytes.
type SourcePos struct {
	Byte int
	Line int
	Col  int
}

// InitialPos returns the starting position for a fresh input: byte 0,
// line 1, col 0.
func InitialPos() SourcePos { return SourcePos{Byte: 0, Line: 1, Col: 0} }

// Advance moves the position past the given token, incrementing Line for
// every embedded newline and resetting Col to 0 whenever at least one
// newline was embedded.
func (p SourcePos) Advance(t Token) SourcePos {
	rendered := t.String()
	n := 0
	newlines := 0
	for _, r := range rendered {
		n++
		if r == '\n' {
			newlines++
		}
	}
	p.Byte += n
	if newlines > 0 {
		p.Line += newlines
		p.Col = 0
	} else {
		p.Col += n
	}
	return p
}
