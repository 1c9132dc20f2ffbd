// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser

import (
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/token"
)

// maybeNumericFragment reports whether a WordFragment could evaluate to a
// number. Pattern-significant fragments (Star, Question, SquareOpen/Close,
// Tilde) make the word definitely non-numeric; literal text is checked
// statically; parameters and substitutions are deferred to runtime and
// treated as possibly numeric. Escaped fragments count only when
// escapesAllowed is set, which only the destination of a dup redirect
// permits.
func maybeNumericFragment(f builder.WordFragment, escapesAllowed bool) bool {
	switch f.Kind {
	case builder.WKLiteral, builder.WKSingleQuoted:
		return isAllDigits(f.Literal)
	case builder.WKEscaped:
		return escapesAllowed && isAllDigits(f.Literal)
	case builder.WKParam, builder.WKSubst:
		return true
	case builder.WKStar, builder.WKQuestion, builder.WKTilde, builder.WKSquareOpen, builder.WKSquareClose:
		return false
	case builder.WKConcat:
		for _, child := range f.Concat {
			if !maybeNumericFragment(child, escapesAllowed) {
				return false
			}
		}
		return true
	case builder.WKDoubleQuoted:
		for _, child := range f.DoubleQuoted {
			if !maybeNumericFragment(child, escapesAllowed) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// staticFdText returns the fragment's digit text when the fragment is built
// entirely from statically-known literal pieces, or ("", false) when any
// piece is a parameter, substitution, or escape whose value is only known
// at runtime.
func staticFdText(f builder.WordFragment) (string, bool) {
	switch f.Kind {
	case builder.WKLiteral, builder.WKSingleQuoted:
		return f.Literal, isAllDigits(f.Literal)
	case builder.WKConcat:
		s := ""
		for _, c := range f.Concat {
			t, ok := staticFdText(c)
			if !ok {
				return "", false
			}
			s += t
		}
		return s, s != ""
	case builder.WKDoubleQuoted:
		s := ""
		for _, c := range f.DoubleQuoted {
			t, ok := staticFdText(c)
			if !ok {
				return "", false
			}
			s += t
		}
		return s, s != ""
	default:
		return "", false
	}
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// RedirectList parses zero or more redirections following a compound
// command, stopping at the first position where none can start. A word
// that turns out not to be part of a redirection is an error here: only
// redirections may follow a compound command.
func (p *Parser) RedirectList() ([]builder.Redirect, error) {
	var out []builder.Redirect
	for {
		startPos := p.cur.Pos()
		r, w, err := p.redirectOrWord()
		if err != nil {
			return out, err
		}
		if w != nil {
			return out, &BadFd{Start: startPos, End: p.cur.Pos()}
		}
		if r == nil {
			return out, nil
		}
		out = append(out, r)
	}
}

func isRedirectOperator(k token.Kind) bool {
	switch k {
	case token.Less, token.Great, token.DLess, token.DGreat,
		token.LessAnd, token.GreatAnd, token.LessAndDash, token.GreatAndDash,
		token.DLessDash, token.Clobber, token.LessGreat:
		return true
	default:
		return false
	}
}

// Redirect parses a single redirection. Callers that must fall back to
// treating the speculative word as a plain argument use redirectOrWord
// directly (simple_command's main loop does).
func (p *Parser) Redirect() (builder.Redirect, error) {
	r, w, err := p.redirectOrWord()
	if err != nil {
		return nil, err
	}
	if w != nil || r == nil {
		return nil, p.errUnexpected(p.peekOrNil())
	}
	return r, nil
}

// redirectOrWord speculatively parses a word (preserving trailing
// whitespace), then classifies it. A word whose fragments are all
// statically numeric may serve as the source fd of a redirection that
// follows; any other word is handed back to the caller as a plain
// argument. With no word and no redirect operator, all results are nil.
func (p *Parser) redirectOrWord() (builder.Redirect, builder.Word, error) {
	p.skipWhitespace()
	startPos := p.cur.Pos()

	frag, err := p.wordPreserveTrailingWhitespaceRaw()
	if err != nil {
		return nil, nil, err
	}

	var fd *uint16
	if frag != nil {
		text, static := staticFdText(*frag)
		if !static {
			w, err := p.b.Word(startPos, *frag)
			if err != nil {
				return nil, nil, p.errExternal(err)
			}
			return nil, w, nil
		}
		n := parseFd(text)
		fd = &n
	}

	opTok, ok := p.cur.Peek()
	if !ok || !isRedirectOperator(opTok.Kind) {
		if frag == nil {
			return nil, nil, nil
		}
		w, err := p.b.Word(startPos, *frag)
		if err != nil {
			return nil, nil, p.errExternal(err)
		}
		return nil, w, nil
	}
	p.cur.Next()

	switch opTok.Kind {
	case token.Less, token.Great, token.DGreat, token.Clobber, token.LessGreat:
		target, err := p.wordPreserveTrailingWhitespaceRaw()
		if err != nil {
			return nil, nil, err
		}
		if target == nil {
			return nil, nil, p.errUnexpected(p.peekOrNil())
		}
		w, err := p.b.Word(p.cur.Pos(), *target)
		if err != nil {
			return nil, nil, p.errExternal(err)
		}
		r, err := p.b.Redirect(startPos, builder.RedirectSpec{Kind: redirectKindFor(opTok.Kind), Fd: fd, Target: w})
		if err != nil {
			return nil, nil, p.errExternal(err)
		}
		return r, nil, nil

	case token.LessAnd, token.GreatAnd:
		r, err := p.dupRedirect(startPos, opTok.Kind, fd)
		if err != nil {
			return nil, nil, err
		}
		return r, nil, nil

	case token.LessAndDash, token.GreatAndDash:
		kind := builder.RedirectDupRead
		if opTok.Kind == token.GreatAndDash {
			kind = builder.RedirectDupWrite
		}
		r, err := p.b.Redirect(startPos, builder.RedirectSpec{Kind: kind, Fd: fd})
		if err != nil {
			return nil, nil, p.errExternal(err)
		}
		return r, nil, nil

	case token.DLess, token.DLessDash:
		r, err := p.heredoc(startPos, opTok.Kind == token.DLessDash, fd)
		if err != nil {
			return nil, nil, err
		}
		return r, nil, nil

	default:
		return nil, nil, p.errUnexpected(&opTok)
	}
}

func redirectKindFor(k token.Kind) builder.RedirectKind {
	switch k {
	case token.Less:
		return builder.RedirectRead
	case token.DGreat:
		return builder.RedirectAppend
	case token.Clobber:
		return builder.RedirectClobber
	case token.LessGreat:
		return builder.RedirectReadWrite
	default:
		return builder.RedirectWrite
	}
}

// dupRedirect handles <& and >&: either a standalone `-` (close), a
// possibly-numeric word (dup), or a bad-fd error positioned where the
// target word began.
func (p *Parser) dupRedirect(startPos token.SourcePos, op token.Kind, fd *uint16) (builder.Redirect, error) {
	kind := builder.RedirectDupRead
	if op == token.GreatAnd {
		kind = builder.RedirectDupWrite
	}

	if p.peekReservedToken(token.Dash) {
		p.cur.Next()
		r, err := p.b.Redirect(startPos, builder.RedirectSpec{Kind: kind, Fd: fd})
		if err != nil {
			return nil, p.errExternal(err)
		}
		return r, nil
	}

	p.skipWhitespace()
	targetStart := p.cur.Pos()
	target, err := p.wordPreserveTrailingWhitespaceRaw()
	if err != nil {
		return nil, err
	}
	if target == nil {
		return nil, p.errUnexpected(p.peekOrNil())
	}
	if !maybeNumericFragment(*target, true) {
		return nil, &BadFd{Start: targetStart, End: p.cur.Pos()}
	}
	w, err := p.b.Word(targetStart, *target)
	if err != nil {
		return nil, p.errExternal(err)
	}
	r, err := p.b.Redirect(startPos, builder.RedirectSpec{Kind: kind, Fd: fd, Target: w})
	if err != nil {
		return nil, p.errExternal(err)
	}
	return r, nil
}

func parseFd(s string) uint16 {
	var n uint16
	for _, r := range s {
		n = n*10 + uint16(r-'0')
	}
	return n
}
