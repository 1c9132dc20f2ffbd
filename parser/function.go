// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser

import (
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/token"
)

// FunctionDeclaration parses either function-definition form:
//
//	function NAME [()] body
//	NAME () body
//
// Whitespace is allowed between the name and `(`, and between `(` and `)`.
// The body is parsed as one further complete_command (it need not be a
// compound command).
func (p *Parser) FunctionDeclaration() (builder.PipeableCommand, error) {
	foundFn := false
	if p.peekReservedWord("function") {
		p.reservedWord("function")
		foundFn = true
	}

	p.skipWhitespace()
	nameTok, ok := p.cur.Next()
	if !ok {
		return nil, p.errUnexpectedEOF()
	}
	if nameTok.Kind == token.Literal {
		return nil, &BadIdent{Text: nameTok.Text, At: p.cur.Pos()}
	}
	if nameTok.Kind != token.Name {
		return nil, p.errUnexpected(&nameTok)
	}
	name := nameTok.Text

	// There must be whitespace after the name, unless `()` follows
	// immediately, or a newline does and the `function` keyword made the
	// parens optional.
	la := p.cur.MultiPeek(3)
	switch {
	case len(la) > 0 && la[0].Kind == token.Whitespace:
	case len(la) >= 2 && la[0].Kind == token.ParenOpen && la[1].Kind == token.ParenClose:
	case len(la) == 3 && la[0].Kind == token.ParenOpen && la[1].Kind == token.Whitespace && la[2].Kind == token.ParenClose:
	case len(la) > 0 && la[0].Kind == token.Newline && foundFn:
	default:
		return nil, p.errUnexpected(p.peekOrNil())
	}

	p.skipWhitespace()
	la = p.cur.MultiPeek(3)
	switch {
	case len(la) == 3 && la[0].Kind == token.ParenOpen && la[1].Kind == token.Whitespace && la[2].Kind == token.ParenClose:
		p.cur.Next()
		p.cur.Next()
		p.cur.Next()
	case len(la) >= 2 && la[0].Kind == token.ParenOpen && la[1].Kind == token.ParenClose:
		p.cur.Next()
		p.cur.Next()
	default:
		// Without the function keyword the parens are mandatory.
		if !foundFn {
			return nil, p.errUnexpected(p.peekOrNil())
		}
	}

	comments := p.linebreak()

	body, err := p.CompleteCommand()
	if err != nil {
		return nil, err
	}
	if body == nil {
		return nil, p.errUnexpectedEOF()
	}

	return p.b.FunctionDeclaration(name, comments, body)
}
