// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser

import (
	"github.com/lucidshell/posixsh/ast"
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/cursor"
	"github.com/lucidshell/posixsh/lexer"
	"github.com/lucidshell/posixsh/token"
)

// reservedWords is the fixed, case-sensitive set recognized only at a
// word-delimited position.
var reservedWords = map[string]bool{
	"if": true, "then": true, "elif": true, "else": true, "fi": true,
	"do": true, "done": true, "while": true, "until": true,
	"for": true, "in": true, "case": true, "esac": true, "function": true,
}

// Parser is a linear, single-threaded recursive-descent engine over a
// cursor.Cursor. A Parser instance is not safe for concurrent use and
// mutates its cursor and builder in place.
type Parser struct {
	cur *cursor.Cursor
	b   builder.Builder
}

// New builds a Parser over the given token source, using b to assemble
// the resulting AST. If b is nil, ast.NewDefaultBuilder() is used.
func New(src cursor.TokenSource, b builder.Builder) *Parser {
	if b == nil {
		b = ast.NewDefaultBuilder()
	}
	return &Parser{cur: cursor.New(src), b: b}
}

// NewFromString builds a Parser over raw shell source text.
func NewFromString(source string, b builder.Builder) *Parser {
	return New(lexer.NewFromString(source), b)
}

// Next pulls the next complete_command from the input, or (nil, nil, false)
// at EOF. It is the coarse pull-one-command-at-a-time API.
func (p *Parser) Next() (builder.Command, error, bool) {
	cmd, err := p.CompleteCommand()
	if err != nil {
		return nil, err, true
	}
	if cmd == nil {
		return nil, nil, false
	}
	return cmd, nil, true
}

// All drains the parser, returning every complete_command in order, or the
// first error encountered. No recovery is attempted after an error.
func (p *Parser) All() ([]builder.Command, error) {
	var out []builder.Command
	for {
		cmd, err, ok := p.Next()
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, cmd)
	}
}

// skipWhitespace consumes any run of Whitespace tokens and escaped-newline
// line continuations. It never consumes a bare Newline: callers that want
// to also skip newlines use linebreak instead.
func (p *Parser) skipWhitespace() {
	for {
		t, ok := p.cur.Peek()
		if ok && t.Kind == token.Whitespace {
			p.cur.Next()
			continue
		}
		la := p.cur.MultiPeek(2)
		if len(la) == 2 && la[0].Kind == token.Backslash && la[1].Kind == token.Newline {
			p.cur.Next()
			p.cur.Next()
			continue
		}
		return
	}
}

// newline consumes one Newline token, optionally preceded by a Comment,
// returning the comment text if one was present. Comment tokens reach the
// parser only through here and linebreak; every other scan stops at them.
func (p *Parser) newline() (comment string, sawNewline bool) {
	p.skipWhitespace()
	t, ok := p.cur.Peek()
	if !ok {
		return "", false
	}
	if t.Kind == token.Comment {
		p.cur.Next()
		comment = t.Text
		t, ok = p.cur.Peek()
		if !ok {
			return comment, false
		}
	}
	if t.Kind == token.Newline {
		p.cur.Next()
		return comment, true
	}
	return comment, false
}

// linebreak consumes any run of newlines (and comments attached to them),
// returning the accumulated comment lines.
func (p *Parser) linebreak() []string {
	var comments []string
	for {
		c, saw := p.newline()
		if c != "" {
			comments = append(comments, c)
		}
		if !saw {
			return comments
		}
	}
}

// peekReservedToken reports whether the next token (after whitespace) is
// one of the reserved structural tokens ({, }, -) appearing as a complete
// word: the token after it must be a word delimiter or EOF, same 2-token
// lookahead rule the reserved words use.
func (p *Parser) peekReservedToken(kinds ...token.Kind) bool {
	p.skipWhitespace()
	la := p.cur.MultiPeek(2)
	if len(la) == 0 {
		return false
	}
	if len(la) == 2 && !la[1].IsWordDelimiter() {
		return false
	}
	for _, k := range kinds {
		if la[0].Kind == k {
			return true
		}
	}
	return false
}

// peekReservedWord reports whether the next token is a bare Name/Literal
// matching one of words, under the 2-token word-boundary rule: the token
// immediately following must be a word delimiter or EOF, and the candidate
// token itself must be an unquoted, unescaped, unconcatenated Name or
// Literal.
func (p *Parser) peekReservedWord(words ...string) bool {
	la := p.cur.MultiPeek(2)
	if len(la) == 0 {
		return false
	}
	t := la[0]
	if t.Kind != token.Name && t.Kind != token.Literal {
		return false
	}
	match := false
	for _, w := range words {
		if t.Text == w {
			match = true
			break
		}
	}
	if !match {
		return false
	}
	if len(la) == 1 {
		return true
	}
	return la[1].IsWordDelimiter()
}

// reservedWord consumes a reserved word matching one of words or returns
// an Unexpected error.
func (p *Parser) reservedWord(words ...string) (string, error) {
	p.skipWhitespace()
	if !p.peekReservedWord(words...) {
		t, ok := p.cur.Peek()
		if !ok {
			return "", p.errUnexpectedEOF()
		}
		return "", p.errUnexpected(&t)
	}
	t, _ := p.cur.Next()
	return t.Text, nil
}

// reservedToken consumes a reserved structural token or returns an
// Unexpected error.
func (p *Parser) reservedToken(kinds ...token.Kind) (token.Token, error) {
	t, ok := p.cur.Peek()
	if !ok {
		return token.Token{}, p.errUnexpectedEOF()
	}
	for _, k := range kinds {
		if t.Kind == k {
			p.cur.Next()
			return t, nil
		}
	}
	return token.Token{}, p.errUnexpected(&t)
}
