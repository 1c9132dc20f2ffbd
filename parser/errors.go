// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package parser implements a hand-written recursive-descent parser over a
// cursor.Cursor, emitting calls against a builder.Builder to assemble an
// AST whose concrete shape the parser never inspects.
package parser

import (
	"fmt"

	"github.com/lucidshell/posixsh/token"
)

// Error is the common interface every parser error satisfies: a typed
// value carrying source position, never a panic. Code identifies the
// error's kind for callers (like the CLI) that wrap it with oops for
// structured logging.
type Error interface {
	error
	Pos() token.SourcePos
	Code() string
}

// BadFd reports that a speculative fd word in a redirection context proved
// non-numeric.
type BadFd struct {
	Start, End token.SourcePos
}

func (e *BadFd) Error() string {
	return fmt.Sprintf("bad file descriptor at %d:%d", e.Start.Line, e.Start.Col)
}
func (e *BadFd) Pos() token.SourcePos { return e.Start }
func (e *BadFd) Code() string         { return "bad_fd" }

// BadIdent reports that a Literal appeared where a Name was required.
type BadIdent struct {
	Text string
	At   token.SourcePos
}

func (e *BadIdent) Error() string {
	return fmt.Sprintf("invalid identifier %q at %d:%d", e.Text, e.At.Line, e.At.Col)
}
func (e *BadIdent) Pos() token.SourcePos { return e.At }
func (e *BadIdent) Code() string         { return "bad_ident" }

// BadSubst reports malformed content inside ${...}.
type BadSubst struct {
	Tok *token.Token
	At  token.SourcePos
}

func (e *BadSubst) Error() string {
	if e.Tok != nil {
		return fmt.Sprintf("bad substitution near %q at %d:%d", e.Tok.String(), e.At.Line, e.At.Col)
	}
	return fmt.Sprintf("bad substitution at %d:%d", e.At.Line, e.At.Col)
}
func (e *BadSubst) Pos() token.SourcePos { return e.At }
func (e *BadSubst) Code() string         { return "bad_subst" }

// Unmatched reports an opener with no closer: parens, braces, quotes, a
// heredoc delimiter mid-capture, or a reserved-word pair like if/fi.
type Unmatched struct {
	Opener token.Token
	Start  token.SourcePos
}

func (e *Unmatched) Error() string {
	return fmt.Sprintf("unmatched %q opened at %d:%d", e.Opener.String(), e.Start.Line, e.Start.Col)
}
func (e *Unmatched) Pos() token.SourcePos { return e.Start }
func (e *Unmatched) Code() string         { return "unmatched" }

// Unexpected reports a token that is not valid in the current grammar
// position.
type Unexpected struct {
	Tok *token.Token
	At  token.SourcePos
}

func (e *Unexpected) Error() string {
	if e.Tok != nil {
		return fmt.Sprintf("unexpected token %q at %d:%d", e.Tok.String(), e.At.Line, e.At.Col)
	}
	return fmt.Sprintf("unexpected token at %d:%d", e.At.Line, e.At.Col)
}
func (e *Unexpected) Pos() token.SourcePos { return e.At }
func (e *Unexpected) Code() string         { return "unexpected" }

// UnexpectedEOF reports that input ended where more tokens were required.
type UnexpectedEOF struct {
	At token.SourcePos
}

func (e *UnexpectedEOF) Error() string {
	return fmt.Sprintf("unexpected end of input at %d:%d", e.At.Line, e.At.Col)
}
func (e *UnexpectedEOF) Pos() token.SourcePos { return e.At }
func (e *UnexpectedEOF) Code() string         { return "unexpected_eof" }

// External wraps an error returned by the builder, short-circuiting the
// current parse call.
type External struct {
	Err error
	At  token.SourcePos
}

func (e *External) Error() string {
	return fmt.Sprintf("builder error at %d:%d: %v", e.At.Line, e.At.Col, e.Err)
}
func (e *External) Unwrap() error       { return e.Err }
func (e *External) Pos() token.SourcePos { return e.At }
func (e *External) Code() string         { return "external" }

func (p *Parser) errUnexpected(tok *token.Token) error {
	return &Unexpected{Tok: tok, At: p.cur.Pos()}
}

func (p *Parser) errUnexpectedEOF() error {
	return &UnexpectedEOF{At: p.cur.Pos()}
}

func (p *Parser) errExternal(err error) error {
	return &External{Err: err, At: p.cur.Pos()}
}
