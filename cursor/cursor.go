// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package cursor wraps a lexer with multi-peek, pushback, and bounded
// sub-iteration used by the parser for quote- and bracket-aware lookahead.
package cursor

import (
	"github.com/lucidshell/posixsh/token"
)

// TokenSource produces tokens on demand, same shape as *lexer.Lexer.
type TokenSource interface {
	Next() (token.Token, bool)
}

// saved is one entry in the pushback/prelude buffer: a token paired with
// the position it started at, so replaying it restores accurate positions.
type saved struct {
	tok token.Token
	pos token.SourcePos
}

// Cursor is a buffered, position-tracking adapter over a TokenSource. Not
// safe for concurrent use; exactly one sub-iterator may be active at a
// time.
type Cursor struct {
	src TokenSource
	// prelude holds pushed-back tokens to be replayed before the live
	// source resumes.
	prelude []saved
	// ring holds tokens already pulled from src or prelude for peek/
	// multipeek, not yet consumed by Next.
	ring []saved
	pos  token.SourcePos
}

// New builds a Cursor over src starting at the beginning of input.
func New(src TokenSource) *Cursor {
	return &Cursor{src: src, pos: token.InitialPos()}
}

// fill ensures at least n tokens are buffered in ring, pulling from the
// prelude first and then the live source.
func (c *Cursor) fill(n int) {
	for len(c.ring) < n {
		if len(c.prelude) > 0 {
			c.ring = append(c.ring, c.prelude[0])
			c.prelude = c.prelude[1:]
			continue
		}
		t, ok := c.src.Next()
		if !ok {
			return
		}
		c.ring = append(c.ring, saved{tok: t})
	}
}

// Peek returns the next token without consuming it.
func (c *Cursor) Peek() (token.Token, bool) {
	c.fill(1)
	if len(c.ring) == 0 {
		return token.Token{}, false
	}
	return c.ring[0].tok, true
}

// MultiPeek returns up to n tokens of lookahead without consuming them.
func (c *Cursor) MultiPeek(n int) []token.Token {
	c.fill(n)
	m := n
	if m > len(c.ring) {
		m = len(c.ring)
	}
	out := make([]token.Token, m)
	for i := 0; i < m; i++ {
		out[i] = c.ring[i].tok
	}
	return out
}

// Next consumes and returns the next token, advancing Pos.
func (c *Cursor) Next() (token.Token, bool) {
	c.fill(1)
	if len(c.ring) == 0 {
		return token.Token{}, false
	}
	t := c.ring[0].tok
	c.ring = c.ring[1:]
	c.pos = c.pos.Advance(t)
	return t, true
}

// Pos reflects the source position of the start of the next token to be
// returned.
func (c *Cursor) Pos() token.SourcePos {
	return c.pos
}

// BackupBufferedTokens prepends a saved run of tokens (with their original
// starting position) so subsequent reads replay them before resuming the
// live source. Used by heredoc capture to splice tokens that followed a
// heredoc operator on its source line back in front of the stream.
func (c *Cursor) BackupBufferedTokens(tokens []token.Token, pos token.SourcePos) {
	entries := make([]saved, 0, len(tokens)+len(c.ring)+len(c.prelude))
	p := pos
	for _, t := range tokens {
		entries = append(entries, saved{tok: t, pos: p})
		p = p.Advance(t)
	}
	// Tokens already peeked into the ring come before any older prelude
	// tokens, so the restored order is: saved run, ring, prior prelude.
	entries = append(entries, c.ring...)
	entries = append(entries, c.prelude...)
	c.ring = nil
	c.prelude = entries
	c.pos = pos
}

// Unmatched is returned by the bounded sub-iterators when input ends before
// the expected closing delimiter.
type Unmatched struct {
	Opener token.Token
	Start  token.SourcePos
}

func (e *Unmatched) Error() string {
	return "unmatched " + e.Opener.String()
}

// SingleQuoted consumes and returns the content of a fused SingleQuoted
// token that is expected to be next in the stream (the lexer always fuses
// '...' eagerly, so this is a thin convenience rather than a true
// sub-iterator). Returns Unmatched if the token was truncated at EOF.
func (c *Cursor) SingleQuoted() (string, error) {
	start := c.Pos()
	t, ok := c.Next()
	if !ok || t.Kind != token.SingleQuoted {
		return "", &Unmatched{Opener: token.New(token.SingleQuote), Start: start}
	}
	if !t.Closed {
		return t.Text, &Unmatched{Opener: token.New(token.SingleQuote), Start: start}
	}
	return t.Text, nil
}

// DoubleQuoted bounds a sub-iteration up to and including the next
// unescaped DoubleQuote token, which is stripped. The caller has already
// consumed the opening quote. A Backslash passes through together with the
// token it escapes, so an escaped closing quote does not end the run.
// Returns Unmatched if input ends first.
func (c *Cursor) DoubleQuoted() ([]token.Token, error) {
	start := c.Pos()
	var out []token.Token
	for {
		t, ok := c.Next()
		if !ok {
			return out, &Unmatched{Opener: token.New(token.DoubleQuote), Start: start}
		}
		if t.Kind == token.DoubleQuote {
			return out, nil
		}
		out = append(out, t)
		if t.Kind == token.Backslash {
			if esc, ok := c.Next(); ok {
				out = append(out, esc)
			}
		}
	}
}

// balancedOpeners maps each token kind that opens a nesting level for
// Balanced to the kind that closes it. Single-quoted runs are already fused
// by the lexer and pass through as one token.
var balancedOpeners = map[token.Kind]token.Kind{
	token.ParenOpen:   token.ParenClose,
	token.CurlyOpen:   token.CurlyClose,
	token.DoubleQuote: token.DoubleQuote,
	token.Backtick:    token.Backtick,
}

type balanceFrame struct {
	opener token.Token
	closer token.Kind
	pos    token.SourcePos
}

// Balanced consumes tokens with balanced tracking of (), {}, "..." and
// `...`. In delimiter mode (stopAtDelimiter true) it stops before the
// first unnested word-delimiter, except ParenOpen, which shells permit
// inside heredoc delimiters. Otherwise it consumes exactly one balanced
// group: the first token must be an opener, and iteration stops once its
// nesting level closes. A Backslash always consumes the token it escapes
// along with it. Returns Unmatched carrying the opener token and its
// position if input ends while a level is still open.
func (c *Cursor) Balanced(stopAtDelimiter bool) ([]token.Token, error) {
	var out []token.Token
	var stack []balanceFrame

	for {
		t, ok := c.Peek()
		if !ok {
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				return out, &Unmatched{Opener: top.opener, Start: top.pos}
			}
			return out, nil
		}

		if len(stack) == 0 {
			if !stopAtDelimiter && len(out) > 0 {
				return out, nil
			}
			if stopAtDelimiter && t.IsWordDelimiter() && t.Kind != token.ParenOpen {
				return out, nil
			}
		}

		if t.Kind == token.Backslash {
			c.Next()
			out = append(out, t)
			if esc, ok := c.Next(); ok {
				out = append(out, esc)
			}
			continue
		}

		if len(stack) > 0 && t.Kind == stack[len(stack)-1].closer {
			stack = stack[:len(stack)-1]
			c.Next()
			out = append(out, t)
			continue
		}

		if closer, isOpener := balancedOpeners[t.Kind]; isOpener {
			pos := c.Pos()
			c.Next()
			out = append(out, t)
			stack = append(stack, balanceFrame{opener: t, closer: closer, pos: pos})
			continue
		}

		c.Next()
		out = append(out, t)
	}
}
