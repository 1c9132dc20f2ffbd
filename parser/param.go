// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser

import (
	"strconv"

	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/token"
)

// Parameter parses `$foo`, `${...}`, `$(...)`, etc, or falls back to a
// literal `$` if nothing valid follows, and passes the result to the
// builder.
func (p *Parser) Parameter() (builder.Word, error) {
	frag, err := p.parameterRaw()
	if err != nil {
		return nil, err
	}
	w, err := p.b.Word(p.cur.Pos(), *frag)
	if err != nil {
		return nil, p.errExternal(err)
	}
	return w, nil
}

// fusedParamKind maps a token kind the lexer already fused from a bare
// "$sigil" pair (lexer.lexDollar) directly to its parameter kind.
func fusedParamKind(k token.Kind) (builder.ParamKind, bool) {
	switch k {
	case token.ParamAt:
		return builder.ParamAt, true
	case token.ParamStar:
		return builder.ParamStar, true
	case token.ParamPound:
		return builder.ParamPound, true
	case token.ParamQuestion:
		return builder.ParamQuestion, true
	case token.ParamDash:
		return builder.ParamDash, true
	case token.ParamDollar:
		return builder.ParamDollar, true
	case token.ParamBang:
		return builder.ParamBang, true
	default:
		return 0, false
	}
}

// isParamStartToken reports whether k can begin a parameter/substitution
// word, whether as a bare $ awaiting a lead character or as one of the
// lexer's eagerly fused "$sigil"/positional tokens.
func isParamStartToken(k token.Kind) bool {
	if k == token.Dollar || k == token.ParamPositional {
		return true
	}
	_, ok := fusedParamKind(k)
	return ok
}

// parameterRaw distinguishes bare $, bare parameter sigils, $digit, ${...},
// and $(...).
func (p *Parser) parameterRaw() (*builder.WordFragment, error) {
	t, ok := p.cur.Next()
	if !ok {
		return nil, p.errUnexpectedEOF()
	}

	if t.Kind == token.ParamPositional {
		return &builder.WordFragment{
			Kind:  builder.WKParam,
			Param: builder.Parameter{Kind: builder.ParamPositional, Positional: uint32(t.Positional)},
		}, nil
	}

	if kind, ok := fusedParamKind(t.Kind); ok {
		return &builder.WordFragment{Kind: builder.WKParam, Param: builder.Parameter{Kind: kind}}, nil
	}

	if t.Kind != token.Dollar {
		return nil, p.errUnexpected(&t)
	}

	next, ok := p.cur.Peek()
	if !ok || !isParamLead(next) {
		return &builder.WordFragment{Kind: builder.WKLiteral, Literal: "$"}, nil
	}

	if next.Kind == token.ParenOpen {
		cmdList, err := p.subshellInternal(true)
		if err != nil {
			return nil, err
		}
		return &builder.WordFragment{
			Kind:  builder.WKSubst,
			Subst: &builder.ParameterSubstitution{Kind: builder.SubstCommand, Command: cmdList},
		}, nil
	}

	if next.Kind == token.CurlyOpen {
		p.cur.Next()
		return p.bracedParameter()
	}

	param, err := p.parameterInner()
	if err != nil {
		return nil, err
	}
	return &builder.WordFragment{Kind: builder.WKParam, Param: param}, nil
}

// isParamLead reports whether t can start a valid parameter/substitution
// form immediately after a bare $.
func isParamLead(t token.Token) bool {
	switch t.Kind {
	case token.Star, token.Pound, token.Question, token.Dollar, token.Bang,
		token.Dash, token.At, token.Name, token.ParenOpen, token.CurlyOpen:
		return true
	default:
		return false
	}
}

// parameterInner parses a valid parameter that can appear inside a set of
// curly braces (or bare after $).
func (p *Parser) parameterInner() (builder.Parameter, error) {
	t, ok := p.cur.Next()
	if !ok {
		return builder.Parameter{}, &BadSubst{At: p.cur.Pos()}
	}
	switch t.Kind {
	case token.Star:
		return builder.Parameter{Kind: builder.ParamStar}, nil
	case token.Pound:
		return builder.Parameter{Kind: builder.ParamPound}, nil
	case token.Question:
		return builder.Parameter{Kind: builder.ParamQuestion}, nil
	case token.Dollar:
		return builder.Parameter{Kind: builder.ParamDollar}, nil
	case token.Bang:
		return builder.Parameter{Kind: builder.ParamBang}, nil
	case token.Dash:
		return builder.Parameter{Kind: builder.ParamDash}, nil
	case token.At:
		return builder.Parameter{Kind: builder.ParamAt}, nil
	case token.Name:
		return builder.Parameter{Kind: builder.ParamVar, Name: t.Text}, nil
	case token.Literal:
		n, err := strconv.ParseUint(t.Text, 10, 32)
		if err != nil {
			return builder.Parameter{}, &BadSubst{Tok: &t, At: p.cur.Pos()}
		}
		return builder.Parameter{Kind: builder.ParamPositional, Positional: uint32(n)}, nil
	default:
		return builder.Parameter{}, &BadSubst{Tok: &t, At: p.cur.Pos()}
	}
}

// bracedParameter parses the body of ${...} after the opening { has been
// consumed, handling the full substitution-form grammar.
// A leading # is ambiguous between length-of and operating on parameter #
// itself; the resolution follows the documented table: `${#%..}`/`${##..}`
// remove a suffix/prefix of `#`, `${##}` is the length of `#`, a modifier
// sigil or `}` after the # leaves parameter # to the generic modifier
// handling (so `${#-}` degrades to length-of-`-` there), and anything else
// is a length-of read.
func (p *Parser) bracedParameter() (*builder.WordFragment, error) {
	if t, ok := p.cur.Peek(); ok && t.Kind == token.Pound {
		p.cur.Next()
		next, ok := p.cur.Peek()
		if !ok {
			return nil, &BadSubst{At: p.cur.Pos()}
		}
		switch next.Kind {
		case token.Percent:
			p.cur.Next()
			kind := builder.SubstRemoveSmallestSuffix
			if t2, ok := p.cur.Peek(); ok && t2.Kind == token.Percent {
				p.cur.Next()
				kind = builder.SubstRemoveLargestSuffix
			}
			word, err := p.paramWordClosed()
			if err != nil {
				return nil, err
			}
			return substFrag(kind, builder.Parameter{Kind: builder.ParamPound}, false, word), nil

		case token.Pound:
			p.cur.Next()
			if t2, ok := p.cur.Peek(); ok && t2.Kind == token.Pound {
				p.cur.Next()
				word, err := p.paramWordClosed()
				if err != nil {
					return nil, err
				}
				return substFrag(builder.SubstRemoveLargestPrefix, builder.Parameter{Kind: builder.ParamPound}, false, word), nil
			}
			word, err := p.paramWordClosed()
			if err != nil {
				return nil, err
			}
			if word == nil {
				return substFrag(builder.SubstLen, builder.Parameter{Kind: builder.ParamPound}, false, nil), nil
			}
			return substFrag(builder.SubstRemoveSmallestPrefix, builder.Parameter{Kind: builder.ParamPound}, false, word), nil

		case token.Colon, token.Dash, token.Equals, token.Question, token.Plus, token.CurlyClose:
			return p.paramModifiers(builder.Parameter{Kind: builder.ParamPound})

		default:
			param, err := p.parameterInner()
			if err != nil {
				return nil, err
			}
			closeTok, ok := p.cur.Next()
			if !ok || closeTok.Kind != token.CurlyClose {
				return nil, &BadSubst{Tok: tokOrNilPtr(ok, closeTok), At: p.cur.Pos()}
			}
			return substFrag(builder.SubstLen, param, false, nil), nil
		}
	}

	param, err := p.parameterInner()
	if err != nil {
		return nil, err
	}

	if t, ok := p.cur.Peek(); ok && (t.Kind == token.Percent || t.Kind == token.Pound) {
		op := t.Kind
		p.cur.Next()
		largest := false
		if t2, ok := p.cur.Peek(); ok && t2.Kind == op {
			p.cur.Next()
			largest = true
		}
		word, err := p.paramWordClosed()
		if err != nil {
			return nil, err
		}
		kind := builder.SubstRemoveSmallestSuffix
		switch {
		case op == token.Pound && largest:
			kind = builder.SubstRemoveLargestPrefix
		case op == token.Pound:
			kind = builder.SubstRemoveSmallestPrefix
		case largest:
			kind = builder.SubstRemoveLargestSuffix
		}
		return substFrag(kind, param, false, word), nil
	}

	return p.paramModifiers(param)
}

// paramModifiers parses the `:-`/`-`/`:=`/`=`/`:?`/`?`/`:+`/`+` modifier
// forms (or a plain closing brace) for an already-read parameter, applying
// the `${#-}`/`${#?}` length carve-outs.
func (p *Parser) paramModifiers(param builder.Parameter) (*builder.WordFragment, error) {
	if t, ok := p.cur.Peek(); ok && t.Kind == token.CurlyClose {
		p.cur.Next()
		return &builder.WordFragment{Kind: builder.WKParam, Param: param}, nil
	}

	colon := false
	if t, ok := p.cur.Peek(); ok && t.Kind == token.Colon {
		p.cur.Next()
		colon = true
	}
	opTok, ok := p.cur.Next()
	if !ok {
		return nil, &BadSubst{At: p.cur.Pos()}
	}
	switch opTok.Kind {
	case token.Dash, token.Equals, token.Question, token.Plus:
	default:
		return nil, &BadSubst{Tok: &opTok, At: p.cur.Pos()}
	}
	word, err := p.paramWordClosed()
	if err != nil {
		return nil, err
	}

	maybeLen := param.Kind == builder.ParamPound && !colon && word == nil
	if maybeLen && opTok.Kind == token.Dash {
		return substFrag(builder.SubstLen, builder.Parameter{Kind: builder.ParamDash}, false, nil), nil
	}
	if maybeLen && opTok.Kind == token.Question {
		return substFrag(builder.SubstLen, builder.Parameter{Kind: builder.ParamQuestion}, false, nil), nil
	}

	switch opTok.Kind {
	case token.Dash:
		return substFrag(builder.SubstDefault, param, colon, word), nil
	case token.Equals:
		return substFrag(builder.SubstAssign, param, colon, word), nil
	case token.Question:
		return substFrag(builder.SubstError, param, colon, word), nil
	default:
		return substFrag(builder.SubstAlternative, param, colon, word), nil
	}
}

// paramWordClosed reads a ${...}-interior word operand and consumes the
// closing }.
func (p *Parser) paramWordClosed() (*builder.WordFragment, error) {
	frags, err := p.wordInterpolatedRaw(closeOn(token.CurlyClose), p.cur.Pos())
	if err != nil {
		return nil, err
	}
	return finishFrags(frags), nil
}

func tokOrNilPtr(ok bool, t token.Token) *token.Token {
	if !ok {
		return nil
	}
	return &t
}

func substFrag(kind builder.SubstKind, param builder.Parameter, colon bool, word *builder.WordFragment) *builder.WordFragment {
	return &builder.WordFragment{
		Kind: builder.WKSubst,
		Subst: &builder.ParameterSubstitution{
			Kind:  kind,
			Param: param,
			Colon: colon,
			Word:  word,
		},
	}
}

// backtickCommand parses a `` `...` `` command substitution: backslash
// unescapes one level for \$, \`, \\ inside the body, and the unescaped
// text is re-lexed and parsed as a fresh command list, the same shape as
// the $(...) path.
func (p *Parser) backtickCommand(startPos token.SourcePos) (*builder.ParameterSubstitution, error) {
	var raw []rune
	for {
		t, ok := p.cur.Next()
		if !ok {
			return nil, &Unmatched{Opener: token.New(token.Backtick), Start: startPos}
		}
		if t.Kind == token.Backtick {
			break
		}
		if t.Kind == token.Backslash {
			nt, ok := p.cur.Peek()
			if ok && (nt.Kind == token.Backtick || nt.Kind == token.Backslash || nt.Kind == token.Dollar) {
				p.cur.Next()
				raw = append(raw, []rune(nt.String())...)
				continue
			}
			raw = append(raw, '\\')
			continue
		}
		raw = append(raw, []rune(t.String())...)
	}

	sub := NewFromString(string(raw), p.b)
	cmds, err := sub.All()
	if err != nil {
		return nil, err
	}
	return &builder.ParameterSubstitution{Kind: builder.SubstCommand, Command: cmds}, nil
}
