// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser

import (
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/token"
)

// Command dispatches to a compound command, a function declaration (either
// syntactic form), or a simple command, based on lookahead only.
func (p *Parser) Command() (builder.PipeableCommand, error) {
	p.skipWhitespace()
	switch {
	case p.isCompoundCommandStart():
		return p.CompoundCommand()
	case p.peekReservedWord("function"):
		return p.FunctionDeclaration()
	case p.peekFunctionShorthand():
		return p.FunctionDeclaration()
	default:
		return p.SimpleCommand()
	}
}

// SimpleCommand parses interleaved env assignments, redirections, and
// words in original source order. A command consisting only of
// assignments and/or redirects (no command word) is valid; a completely
// empty command is not.
func (p *Parser) SimpleCommand() (builder.PipeableCommand, error) {
	var envs []builder.EnvAssignment
	var words []builder.Word
	var redirects []builder.Redirect
	sawName := false

	for {
		p.skipWhitespace()

		// Assignments are only recognized before the command name; any
		// later name=value text is an ordinary argument word.
		if t, ok := p.cur.Peek(); ok && t.Kind == token.Assignment && !sawName {
			p.cur.Next()
			var value *builder.Word
			if nt, ok := p.cur.Peek(); ok && nt.Kind != token.Whitespace {
				valFrag, err := p.wordPreserveTrailingWhitespaceRaw()
				if err != nil {
					return nil, err
				}
				if valFrag != nil {
					w, err := p.b.Word(p.cur.Pos(), *valFrag)
					if err != nil {
						return nil, p.errExternal(err)
					}
					value = &w
				}
			}
			envs = append(envs, builder.EnvAssignment{Name: t.Text, Value: value})
			continue
		}

		r, w, err := p.redirectOrWord()
		if err != nil {
			return nil, err
		}
		switch {
		case r != nil:
			redirects = append(redirects, r)
		case w != nil:
			words = append(words, w)
			sawName = true
		default:
			if len(envs) == 0 && len(words) == 0 && len(redirects) == 0 {
				return nil, p.errUnexpected(p.peekOrNil())
			}
			return p.b.SimpleCommand(envs, words, redirects)
		}
	}
}

// peekFunctionShorthand reports whether the upcoming tokens form a bare
// `NAME () body` function header: a name, optional whitespace, `(`,
// optional whitespace, `)`. A Literal in name position is still routed to
// FunctionDeclaration so it can surface a bad-identifier error.
func (p *Parser) peekFunctionShorthand() bool {
	la := p.cur.MultiPeek(5)
	if len(la) < 2 {
		return false
	}
	if la[0].Kind != token.Name && la[0].Kind != token.Literal {
		return false
	}
	rest := la[1:]
	if len(rest) > 0 && rest[0].Kind == token.Whitespace {
		rest = rest[1:]
	}
	if len(rest) == 0 || rest[0].Kind != token.ParenOpen {
		return false
	}
	rest = rest[1:]
	if len(rest) > 0 && rest[0].Kind == token.Whitespace {
		rest = rest[1:]
	}
	return len(rest) > 0 && rest[0].Kind == token.ParenClose
}

// Pipeline parses `[!] command (| [linebreak] command)*`.
func (p *Parser) Pipeline() (builder.ListableCommand, error) {
	p.skipWhitespace()
	bang := false
	if t, ok := p.cur.Peek(); ok && t.Kind == token.Bang {
		p.cur.Next()
		bang = true
		p.skipWhitespace()
	}

	var elems []builder.PipelineElem
	var pending []string
	for {
		// The spot for ! has already passed; a second one is an error.
		if t, ok := p.cur.Peek(); ok && t.Kind == token.Bang {
			return nil, p.errUnexpected(&t)
		}

		cmd, err := p.Command()
		if err != nil {
			return nil, err
		}
		elems = append(elems, builder.PipelineElem{LeadingComments: pending, Command: cmd})
		pending = nil

		p.skipWhitespace()
		t, ok := p.cur.Peek()
		if !ok || t.Kind != token.Pipe {
			break
		}
		p.cur.Next()
		pending = p.linebreak()
	}
	return p.b.Pipeline(bang, elems)
}

// AndOr parses a left-associative &&/|| chain of pipelines.
func (p *Parser) AndOr() (builder.CommandList, error) {
	first, err := p.Pipeline()
	if err != nil {
		return nil, err
	}
	var rest []builder.AndOrNext
	for {
		p.skipWhitespace()
		t, ok := p.cur.Peek()
		if !ok {
			break
		}
		var kind builder.AndOrKind
		switch t.Kind {
		case token.AndIf:
			kind = builder.AndOrAnd
		case token.OrIf:
			kind = builder.AndOrOr
		default:
			return p.b.AndOrList(first, rest)
		}
		p.cur.Next()
		comments := p.linebreak()
		p.skipWhitespace()
		next, err := p.Pipeline()
		if err != nil {
			return nil, err
		}
		rest = append(rest, builder.AndOrNext{LeadingComments: comments, Kind: kind, Command: next})
	}
	return p.b.AndOrList(first, rest)
}

// CompleteCommand parses one top-level command: leading comments/blank
// lines, an and-or list, its terminating separator, and a trailing comment
// on the same line. Returns (nil, nil) at EOF with nothing left to parse.
func (p *Parser) CompleteCommand() (builder.Command, error) {
	preComments := p.linebreak()
	p.skipWhitespace()

	if _, ok := p.cur.Peek(); !ok {
		if len(preComments) > 0 {
			return p.b.Comments(preComments)
		}
		return nil, nil
	}

	list, err := p.AndOr()
	if err != nil {
		return nil, err
	}

	sep := builder.SeparatorOther
	p.skipWhitespace()
	if t, ok := p.cur.Peek(); ok {
		switch t.Kind {
		case token.Semi:
			p.cur.Next()
			sep = builder.SeparatorSemi
		case token.Amp:
			p.cur.Next()
			sep = builder.SeparatorAmp
		}
	}

	var trailingComment string
	if sep == builder.SeparatorOther {
		c, saw := p.newline()
		trailingComment = c
		if saw || c != "" {
			sep = builder.SeparatorNewline
		}
	} else {
		trailingComment, _ = p.newline()
	}

	return p.b.CompleteCommand(preComments, list, sep, trailingComment)
}

// commandListUntil parses a guard-list/body-list: one or more complete
// commands (an empty list is an error), stopping (without consuming) as soon as the upcoming tokens
// are the word-delimited reserved word stopWord.
func (p *Parser) commandListUntil(stopWord string) (builder.CommandList, error) {
	return p.commandListUntilAny(stopWord)
}

// commandListUntilAny is commandListUntil generalized to several candidate
// stop words (used by if/elif/else/fi). An empty list is an error: every
// guard-list and body-list needs at least one command.
func (p *Parser) commandListUntilAny(stopWords ...string) (builder.CommandList, error) {
	var out []builder.Command
	for {
		p.linebreak()
		if p.peekReservedWord(stopWords...) {
			break
		}
		if _, ok := p.cur.Peek(); !ok {
			break
		}
		cmd, err := p.CompleteCommand()
		if err != nil {
			return out, err
		}
		if cmd == nil {
			break
		}
		out = append(out, cmd)
	}
	if len(out) == 0 {
		return nil, p.errUnexpected(p.peekOrNil())
	}
	return out, nil
}

// commandListUntilToken is commandListUntilAny's counterpart for a
// structural stop token (used by brace groups and subshells).
func (p *Parser) commandListUntilToken(stop token.Kind) (builder.CommandList, error) {
	var out []builder.Command
	for {
		p.linebreak()
		if p.peekReservedToken(stop) {
			return out, nil
		}
		if _, ok := p.cur.Peek(); !ok {
			return out, nil
		}
		cmd, err := p.CompleteCommand()
		if err != nil {
			return out, err
		}
		if cmd == nil {
			return out, nil
		}
		out = append(out, cmd)
	}
}

// commandListUntilDSemiOrEsac parses one case-arm's body, stopping at `;;`
// or `esac` without consuming either.
func (p *Parser) commandListUntilDSemiOrEsac() (builder.CommandList, error) {
	var out []builder.Command
	for {
		p.linebreak()
		if p.peekDSemi() || p.peekReservedWord("esac") {
			return out, nil
		}
		if _, ok := p.cur.Peek(); !ok {
			return out, nil
		}
		cmd, err := p.CompleteCommand()
		if err != nil {
			return out, err
		}
		if cmd == nil {
			return out, nil
		}
		out = append(out, cmd)
	}
}
