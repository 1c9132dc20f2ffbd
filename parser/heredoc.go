// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser

import (
	"errors"
	"strings"

	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/cursor"
	"github.com/lucidshell/posixsh/token"
)

// convertUnmatched rewraps a cursor.Unmatched as the parser's own Unmatched
// so callers see a single error taxonomy with position accessors.
func convertUnmatched(err error) error {
	var cu *cursor.Unmatched
	if errors.As(err, &cu) {
		return &Unmatched{Opener: cu.Opener, Start: cu.Start}
	}
	return err
}

// heredoc handles a << or <<- operator: parse the delimiter (tracking
// quoting), fast-forward past the rest of the current logical line while
// saving its tokens, capture the body line-by-line against the delimiter,
// then splice the saved tokens back so the rest of the original line
// parses normally.
func (p *Parser) heredoc(startPos token.SourcePos, stripTabs bool, fd *uint16) (builder.Redirect, error) {
	delimText, quoted, err := p.heredocDelimiter()
	if err != nil {
		return nil, err
	}
	if delimText == "" {
		return nil, p.errUnexpected(p.peekOrNil())
	}

	savedTokens, savedPos, err := p.fastForwardToUnquotedNewline()
	if err != nil {
		return nil, err
	}

	body, err := p.captureHeredocBody(delimText, stripTabs)
	if err != nil {
		return nil, err
	}

	if len(savedTokens) > 0 {
		p.cur.BackupBufferedTokens(savedTokens, savedPos)
	}

	var bodyFrag *builder.WordFragment
	if quoted {
		bodyFrag = &builder.WordFragment{Kind: builder.WKLiteral, Literal: body}
	} else {
		sub := NewFromString(body, p.b)
		frags, err := sub.wordInterpolatedRaw(nil, sub.cur.Pos())
		if err != nil {
			return nil, err
		}
		bodyFrag = finishFrags(frags)
		if bodyFrag == nil {
			bodyFrag = &builder.WordFragment{Kind: builder.WKLiteral, Literal: ""}
		}
	}

	r, err := p.b.Redirect(startPos, builder.RedirectSpec{
		Kind:          builder.RedirectHeredoc,
		Fd:            fd,
		HeredocBody:   bodyFrag,
		HeredocQuoted: quoted,
	})
	if err != nil {
		return nil, p.errExternal(err)
	}
	return r, nil
}

// heredocDelimiter consumes tokens forming the heredoc delimiter, using
// balanced sub-iteration so parens/braces/quotes/backticks in the
// delimiter itself don't prematurely end it. A single-quoted,
// double-quoted, or backslash-escaped constituent marks the delimiter as
// quoted (disabling body expansion) and is unquoted: the body scan looks
// for the bare text, outer quotes and escape backslashes stripped.
func (p *Parser) heredocDelimiter() (string, bool, error) {
	p.skipWhitespace()
	startPos := p.cur.Pos()

	tokens, err := p.cur.Balanced(true)
	if err != nil {
		return "", false, convertUnmatched(err)
	}

	var b strings.Builder
	quoted := false
	for i := 0; i < len(tokens); i++ {
		t := tokens[i]
		switch t.Kind {
		case token.SingleQuoted:
			quoted = true
			if !t.Closed {
				return "", false, &Unmatched{Opener: token.New(token.SingleQuote), Start: startPos}
			}
			b.WriteString(t.Text)

		case token.Backslash:
			quoted = true
			if i+1 < len(tokens) {
				i++
				b.WriteString(tokens[i].String())
			}

		case token.DoubleQuote:
			quoted = true
			closed := false
			for i++; i < len(tokens); i++ {
				inner := tokens[i]
				if inner.Kind == token.DoubleQuote {
					closed = true
					break
				}
				if inner.Kind == token.Backslash && i+1 < len(tokens) {
					next := tokens[i+1]
					switch next.Kind {
					case token.Dollar, token.Backtick, token.DoubleQuote, token.Backslash, token.Newline:
						i++
						b.WriteString(next.String())
						continue
					}
				}
				b.WriteString(inner.String())
			}
			if !closed {
				return "", false, &Unmatched{Opener: token.New(token.DoubleQuote), Start: startPos}
			}

		default:
			b.WriteString(t.String())
		}
	}
	return b.String(), quoted, nil
}

// fastForwardToUnquotedNewline accumulates every token up to and including
// the next unquoted, unescaped newline into a saved-tokens buffer, using
// balanced sub-iteration so newlines embedded in quotes, parens, command
// substitutions, and parameter substitutions are skipped over.
func (p *Parser) fastForwardToUnquotedNewline() ([]token.Token, token.SourcePos, error) {
	startPos := p.cur.Pos()
	var saved []token.Token

	for {
		t, ok := p.cur.Peek()
		if !ok {
			return saved, startPos, nil
		}
		if t.Kind == token.Newline {
			p.cur.Next()
			saved = append(saved, t)
			return saved, startPos, nil
		}

		// An escaped newline does not end the line; keep the pair intact.
		if t.Kind == token.Backslash {
			p.cur.Next()
			saved = append(saved, t)
			if esc, ok := p.cur.Next(); ok {
				saved = append(saved, esc)
			}
			continue
		}

		if _, isOpener := balancedOpenerKind(t.Kind); isOpener {
			nested, err := p.cur.Balanced(false)
			if err != nil {
				return saved, startPos, convertUnmatched(err)
			}
			saved = append(saved, nested...)
			continue
		}

		p.cur.Next()
		saved = append(saved, t)
	}
}

func balancedOpenerKind(k token.Kind) (token.Kind, bool) {
	switch k {
	case token.ParenOpen:
		return token.ParenClose, true
	case token.CurlyOpen:
		return token.CurlyClose, true
	case token.DoubleQuote:
		return token.DoubleQuote, true
	case token.Backtick:
		return token.Backtick, true
	default:
		return 0, false
	}
}

// captureHeredocBody reads raw tokens line by line until a line's
// concatenated rendering equals delim, appending each prior line (with a
// trailing \n) to the body. If stripTabs is set (<<-), leading tab tokens
// are stripped from every line including the terminator line. EOF before
// the delimiter ends the body early without error.
func (p *Parser) captureHeredocBody(delim string, stripTabs bool) (string, error) {
	var body strings.Builder

	for {
		line, sawAny, eof := p.readRawLine(stripTabs)
		if eof && !sawAny {
			return body.String(), nil
		}
		if strings.TrimSuffix(line, "\n") == delim {
			return body.String(), nil
		}
		body.WriteString(line)
		if eof {
			return body.String(), nil
		}
	}
}

// readRawLine consumes raw tokens up to and including the next Newline and
// returns the line's rendered text (with its trailing newline unless EOF
// cut it short). If stripTabs is set, leading tabs are removed from the
// front of the line's whitespace.
func (p *Parser) readRawLine(stripTabs bool) (line string, sawAny, eof bool) {
	var b strings.Builder
	stripping := stripTabs

	for {
		t, ok := p.cur.Next()
		if !ok {
			return b.String(), sawAny, true
		}
		sawAny = true
		if t.Kind == token.Newline {
			b.WriteByte('\n')
			return b.String(), sawAny, false
		}
		if stripping && t.Kind == token.Whitespace {
			rest := strings.TrimLeft(t.Text, "\t")
			if rest == "" {
				continue
			}
			stripping = false
			b.WriteString(rest)
			continue
		}
		stripping = false
		b.WriteString(t.String())
	}
}
