// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser

import (
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/token"
)

// isWordStopKind reports whether a token kind ends a word: used to stop
// the raw word-accumulation loop. Newline is included because it always
// delimits a word even though it is also handled specially by callers
// that care about line structure.
func isWordStopKind(k token.Kind) bool {
	switch k {
	case token.Newline, token.ParenOpen, token.ParenClose, token.Semi,
		token.Amp, token.Pipe, token.AndIf, token.OrIf, token.DSemi,
		token.Less, token.Great, token.DLess, token.DGreat,
		token.GreatAnd, token.LessAnd, token.GreatAndDash, token.LessAndDash,
		token.DLessDash, token.Clobber, token.LessGreat, token.Whitespace:
		return true
	default:
		return false
	}
}

// Word parses a word and passes it to the builder.
func (p *Parser) Word() (builder.Word, error) {
	frag, err := p.wordPreserveTrailingWhitespaceRaw()
	if err != nil {
		return nil, err
	}
	if frag == nil {
		return nil, p.errUnexpected(p.peekOrNil())
	}
	pos := p.cur.Pos()
	w, err := p.b.Word(pos, *frag)
	if err != nil {
		return nil, p.errExternal(err)
	}
	return w, nil
}

func (p *Parser) peekOrNil() *token.Token {
	t, ok := p.cur.Peek()
	if !ok {
		return nil
	}
	return &t
}

// WordPreserveTrailingWhitespace is identical to Word but does not consume
// a trailing Whitespace token before returning (it never did: whitespace
// always stops word accumulation already). Kept as a named entry point for
// embedded callers that care about the distinction.
func (p *Parser) WordPreserveTrailingWhitespace() (builder.Word, error) {
	return p.Word()
}

// wordPreserveTrailingWhitespaceRaw consumes tokens until a word-delimiter,
// returning the accumulated fragment tree without invoking the builder.
// Returns (nil, nil) if no word is present (e.g. next token is a comment
// or a delimiter).
func (p *Parser) wordPreserveTrailingWhitespaceRaw() (*builder.WordFragment, error) {
	p.skipWhitespace()

	// A comment at the start of a word position is a real comment, left
	// for newline() to consume.
	if t, ok := p.cur.Peek(); ok && (t.Kind == token.Comment || t.Kind == token.Pound) {
		return nil, nil
	}

	var frags []builder.WordFragment

	for {
		t, ok := p.cur.Peek()
		if !ok {
			break
		}

		if t.Kind == token.Comment {
			break
		}

		if isParamStartToken(t.Kind) {
			f, err := p.parameterRaw()
			if err != nil {
				return nil, err
			}
			frags = append(frags, *f)
			continue
		}

		if isWordStopKind(t.Kind) {
			break
		}

		start := t
		startPos := p.cur.Pos()
		p.cur.Next()

		switch start.Kind {
		// { and } are literal outside an explicit brace-group parse, and
		// # is only a comment where a newline is valid, so mid-word it is
		// a literal.
		case token.Bang, token.Pound, token.Percent, token.Dash,
			token.Equals, token.Plus, token.Colon, token.At,
			token.CurlyOpen, token.CurlyClose:
			frags = append(frags, builder.WordFragment{Kind: builder.WKLiteral, Literal: start.String()})

		case token.Name, token.Literal:
			frags = append(frags, builder.WordFragment{Kind: builder.WKLiteral, Literal: start.Text})

		case token.Assignment:
			// An Assignment token lexes eagerly whenever a Name is
			// followed by '=', even mid-word (e.g. the "foo=bar" in
			// `echo foo=bar`, which is a plain argument, not an env
			// prefix, once a command name has already been seen).
			frags = append(frags, builder.WordFragment{Kind: builder.WKLiteral, Literal: start.String()})

		case token.Star:
			frags = append(frags, builder.WordFragment{Kind: builder.WKStar})
		case token.Question:
			frags = append(frags, builder.WordFragment{Kind: builder.WKQuestion})
		case token.Tilde:
			frags = append(frags, builder.WordFragment{Kind: builder.WKTilde})
		case token.SquareOpen:
			frags = append(frags, builder.WordFragment{Kind: builder.WKSquareOpen})
		case token.SquareClose:
			frags = append(frags, builder.WordFragment{Kind: builder.WKSquareClose})

		case token.Backslash:
			nt, ok := p.cur.Next()
			if !ok {
				// Can't escape EOF; the slash is simply dropped.
				return finishFrags(frags), nil
			}
			if nt.Kind == token.Newline {
				// Escaped newline becomes whitespace and a word delimiter.
				return finishFrags(frags), nil
			}
			frags = append(frags, builder.WordFragment{Kind: builder.WKEscaped, Literal: nt.String()})

		case token.SingleQuoted:
			// The lexer fuses '...' into one token eagerly; Closed==false
			// marks an EOF-truncated run.
			if !start.Closed {
				return nil, &Unmatched{Opener: token.New(token.SingleQuote), Start: startPos}
			}
			frags = append(frags, builder.WordFragment{Kind: builder.WKSingleQuoted, Literal: start.Text})

		case token.DoubleQuote:
			children, err := p.wordInterpolatedRaw(closeOn(token.DoubleQuote), startPos)
			if err != nil {
				return nil, err
			}
			frags = append(frags, builder.WordFragment{Kind: builder.WKDoubleQuoted, DoubleQuoted: children})

		case token.Backtick:
			sub, err := p.backtickCommand(startPos)
			if err != nil {
				return nil, err
			}
			frags = append(frags, builder.WordFragment{Kind: builder.WKSubst, Subst: sub})

		default:
			return nil, p.errUnexpected(&start)
		}
	}

	return finishFrags(frags), nil
}

func finishFrags(frags []builder.WordFragment) *builder.WordFragment {
	if len(frags) == 0 {
		return nil
	}
	if len(frags) == 1 {
		return &frags[0]
	}
	return &builder.WordFragment{Kind: builder.WKConcat, Concat: frags}
}

// closeOn returns a predicate matching tokens of kind k, used as the
// delimiter test for wordInterpolatedRaw.
func closeOn(k token.Kind) func(token.Token) bool {
	return func(t token.Token) bool { return t.Kind == k }
}

// wordInterpolatedRaw parses tokens under double-quote-like rules:
// parameters/substitutions expand, backslash escapes only a small fixed
// set, everything else is a literal. Consumes (and discards) the delimiter
// token. A nil delim consumes until EOF without error.
func (p *Parser) wordInterpolatedRaw(delim func(token.Token) bool, startPos token.SourcePos) ([]builder.WordFragment, error) {
	var frags []builder.WordFragment
	var buf []rune

	flush := func() {
		if len(buf) > 0 {
			frags = append(frags, builder.WordFragment{Kind: builder.WKLiteral, Literal: string(buf)})
			buf = nil
		}
	}

	for {
		t, ok := p.cur.Peek()
		if !ok {
			if delim == nil {
				flush()
				return frags, nil
			}
			opener := token.New(token.DoubleQuote)
			if delim(token.New(token.CurlyClose)) {
				opener = token.New(token.CurlyOpen)
			}
			return nil, &Unmatched{Opener: opener, Start: startPos}
		}

		if delim != nil && delim(t) {
			p.cur.Next()
			flush()
			return frags, nil
		}

		if isParamStartToken(t.Kind) {
			flush()
			f, err := p.parameterRaw()
			if err != nil {
				return nil, err
			}
			frags = append(frags, *f)
			continue
		}

		p.cur.Next()

		if t.Kind == token.Backslash {
			nt, ok := p.cur.Peek()
			special := ok && isBackslashSpecial(nt)
			matchesDelim := ok && delim != nil && delim(nt)
			if special || matchesDelim {
				flush()
				consumed, _ := p.cur.Next()
				frags = append(frags, builder.WordFragment{Kind: builder.WKEscaped, Literal: consumed.String()})
			} else {
				buf = append(buf, '\\')
			}
			continue
		}

		if t.Kind == token.Backtick {
			flush()
			sub, err := p.backtickCommand(p.cur.Pos())
			if err != nil {
				return nil, err
			}
			frags = append(frags, builder.WordFragment{Kind: builder.WKSubst, Subst: sub})
			continue
		}

		buf = append(buf, []rune(t.String())...)
	}
}

func isBackslashSpecial(t token.Token) bool {
	switch t.Kind {
	case token.Dollar, token.Backtick, token.DoubleQuote, token.Backslash, token.Newline:
		return true
	default:
		return false
	}
}
