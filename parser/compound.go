// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser

import (
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/token"
)

// DoGroup parses one or more sequential commands between the `do` and
// `done` reserved words. EOF after a non-empty body, before `done`,
// surfaces as Unmatched on the `do` that opened the group; EOF while the
// body is still empty surfaces as Unexpected.
func (p *Parser) DoGroup() (builder.CommandList, error) {
	startPos := p.cur.Pos()
	if _, err := p.reservedWord("do"); err != nil {
		return nil, err
	}
	list, err := p.commandListUntil("done")
	if err != nil {
		return nil, err
	}
	if _, ok := p.cur.Peek(); !ok {
		return nil, &Unmatched{Opener: token.NewText(token.Literal, "do"), Start: startPos}
	}
	if _, err := p.reservedWord("done"); err != nil {
		return nil, err
	}
	return list, nil
}

// BraceGroup parses `{ commands }`. The braces must appear as standalone
// word-delimited tokens, and the command list must be non-empty.
func (p *Parser) BraceGroup() (builder.CompoundCommand, error) {
	startPos := p.cur.Pos()
	if _, err := p.reservedToken(token.CurlyOpen); err != nil {
		return nil, err
	}
	list, err := p.commandListUntilToken(token.CurlyClose)
	if err != nil {
		return nil, err
	}
	if _, ok := p.cur.Peek(); !ok {
		return nil, &Unmatched{Opener: token.New(token.CurlyOpen), Start: startPos}
	}
	if len(asCommands(list)) == 0 {
		return nil, p.errUnexpected(p.peekOrNil())
	}
	if _, err := p.reservedToken(token.CurlyClose); err != nil {
		return nil, err
	}
	redirects, err := p.RedirectList()
	if err != nil {
		return nil, err
	}
	return p.b.BraceGroup(list, redirects)
}

func asCommands(list builder.CommandList) []builder.Command {
	cmds, _ := list.([]builder.Command)
	return cmds
}

// Subshell parses `( commands )`.
func (p *Parser) Subshell() (builder.CompoundCommand, error) {
	list, err := p.subshellInternal(false)
	if err != nil {
		return nil, err
	}
	redirects, err := p.RedirectList()
	if err != nil {
		return nil, err
	}
	return p.b.Subshell(list, redirects)
}

// subshellInternal parses `( commands )`, additionally accepting an empty
// body when emptyOk is true (used by the zero-argument command
// substitution form $()). Parens are ordinary special tokens, never
// reserved words, so they are matched directly rather than through the
// word-delimited reserved-token check.
func (p *Parser) subshellInternal(emptyOk bool) (builder.CommandList, error) {
	startPos := p.cur.Pos()
	t, ok := p.cur.Next()
	if !ok {
		return nil, p.errUnexpectedEOF()
	}
	if t.Kind != token.ParenOpen {
		return nil, p.errUnexpected(&t)
	}

	var cmds []builder.Command
	for {
		p.linebreak()
		if t, ok := p.cur.Peek(); ok && t.Kind == token.ParenClose {
			break
		}
		if _, ok := p.cur.Peek(); !ok {
			break
		}
		cmd, err := p.CompleteCommand()
		if err != nil {
			return nil, err
		}
		if cmd == nil {
			break
		}
		cmds = append(cmds, cmd)
	}

	closer, ok := p.cur.Next()
	if !ok {
		return nil, &Unmatched{Opener: token.New(token.ParenOpen), Start: startPos}
	}
	if closer.Kind != token.ParenClose || (!emptyOk && len(cmds) == 0) {
		return nil, p.errUnexpected(&closer)
	}
	return cmds, nil
}

// LoopCommand parses `while|until guard-list do body-list done`.
func (p *Parser) LoopCommand() (builder.CompoundCommand, error) {
	var kind builder.LoopKind
	switch {
	case p.peekReservedWord("while"):
		p.reservedWord("while")
		kind = builder.LoopWhile
	case p.peekReservedWord("until"):
		p.reservedWord("until")
		kind = builder.LoopUntil
	default:
		return nil, p.errUnexpected(p.peekOrNil())
	}
	guard, err := p.commandListUntil("do")
	if err != nil {
		return nil, err
	}
	body, err := p.DoGroup()
	if err != nil {
		return nil, err
	}
	redirects, err := p.RedirectList()
	if err != nil {
		return nil, err
	}
	return p.b.LoopCommand(kind, builder.GuardBodyPair{Guard: guard, Body: body}, redirects)
}

// IfCommand parses `if guard then body (elif guard then body)* (else body)? fi`.
// EOF after a non-empty then, elif or else body, before the closing `fi`,
// surfaces as Unmatched on the `if`. EOF while a guard or body list is
// still empty surfaces as Unexpected, and EOF where `then` is expected as
// UnexpectedEOF.
func (p *Parser) IfCommand() (builder.CompoundCommand, error) {
	startPos := p.cur.Pos()
	if _, err := p.reservedWord("if"); err != nil {
		return nil, err
	}

	var conditionals []builder.GuardBodyPair
	var elseBranch builder.CommandList

	for {
		guard, err := p.commandListUntil("then")
		if err != nil {
			return nil, err
		}
		if _, err := p.reservedWord("then"); err != nil {
			return nil, err
		}
		body, err := p.commandListUntilAny("elif", "else", "fi")
		if err != nil {
			return nil, err
		}
		conditionals = append(conditionals, builder.GuardBodyPair{Guard: guard, Body: body})

		if _, ok := p.cur.Peek(); !ok {
			return nil, &Unmatched{Opener: token.NewText(token.Literal, "if"), Start: startPos}
		}
		if p.peekReservedWord("elif") {
			p.reservedWord("elif")
			continue
		}
		break
	}

	hasElse := false
	if p.peekReservedWord("else") {
		p.reservedWord("else")
		hasElse = true
		body, err := p.commandListUntil("fi")
		if err != nil {
			return nil, err
		}
		elseBranch = body
		if _, ok := p.cur.Peek(); !ok {
			return nil, &Unmatched{Opener: token.NewText(token.Literal, "if"), Start: startPos}
		}
	}

	if _, err := p.reservedWord("fi"); err != nil {
		return nil, err
	}

	redirects, err := p.RedirectList()
	if err != nil {
		return nil, err
	}

	var elsePtr *builder.CommandList
	if hasElse {
		elsePtr = &elseBranch
	}
	return p.b.IfCommand(conditionals, elsePtr, redirects)
}

// ForCommand parses `for NAME ([linebreak] in word* (;|newlines))? do body done`.
func (p *Parser) ForCommand() (builder.CompoundCommand, error) {
	if _, err := p.reservedWord("for"); err != nil {
		return nil, err
	}
	p.skipWhitespace()
	nameTok, ok := p.cur.Peek()
	if !ok {
		return nil, p.errUnexpectedEOF()
	}
	if nameTok.Kind != token.Name {
		if nameTok.Kind == token.Literal {
			return nil, &BadIdent{Text: nameTok.Text, At: p.cur.Pos()}
		}
		return nil, p.errUnexpected(&nameTok)
	}
	p.cur.Next()
	varName := nameTok.Text

	p.linebreak()

	var words *[]builder.Word
	if p.peekReservedWord("in") {
		p.reservedWord("in")
		var ws []builder.Word
		for {
			p.skipWhitespace()
			if p.peekReservedWord("do") || !p.canStartWord() {
				break
			}
			w, err := p.Word()
			if err != nil {
				return nil, err
			}
			ws = append(ws, w)
		}
		words = &ws

		foundSemi := false
		if t, ok := p.cur.Peek(); ok && t.Kind == token.Semi {
			p.cur.Next()
			foundSemi = true
		}

		// The words and the body must be separated by ; or at least one
		// newline.
		if n := p.linebreakCounting(); !foundSemi && n == 0 {
			return nil, p.errUnexpected(p.peekOrNil())
		}
	} else {
		p.linebreak()
	}

	body, err := p.DoGroup()
	if err != nil {
		return nil, err
	}
	redirects, err := p.RedirectList()
	if err != nil {
		return nil, err
	}
	return p.b.ForCommand(varName, words, body, redirects)
}

// canStartWord reports whether the next token can begin a word (used to end
// the for-words loop without consuming the terminator).
func (p *Parser) canStartWord() bool {
	t, ok := p.cur.Peek()
	if !ok {
		return false
	}
	return !isWordStopKind(t.Kind) && t.Kind != token.Comment
}

// linebreakCounting consumes a run of newlines/comments like linebreak but
// reports how many it saw, for callers that require at least one.
func (p *Parser) linebreakCounting() int {
	n := 0
	for {
		c, saw := p.newline()
		if !saw && c == "" {
			return n
		}
		n++
		if !saw {
			return n
		}
	}
}

// CaseCommand parses `case WORD in (pattern|pattern) commands? ;;)* esac`.
func (p *Parser) CaseCommand() (builder.CompoundCommand, error) {
	if _, err := p.reservedWord("case"); err != nil {
		return nil, err
	}
	p.skipWhitespace()
	word, err := p.Word()
	if err != nil {
		return nil, err
	}
	p.linebreak()
	if _, err := p.reservedWord("in"); err != nil {
		return nil, err
	}
	p.linebreak()

	var arms []builder.CaseArm
	for !p.peekReservedWord("esac") {
		p.skipWhitespace()
		if t, ok := p.cur.Peek(); ok && t.Kind == token.ParenOpen {
			p.cur.Next()
		}

		var patterns []builder.Word
	patterns:
		for {
			pat, err := p.Word()
			if err != nil {
				return nil, err
			}
			patterns = append(patterns, pat)
			p.skipWhitespace()
			t, ok := p.cur.Next()
			if !ok {
				return nil, p.errUnexpectedEOF()
			}
			switch t.Kind {
			case token.Pipe:
				continue
			case token.ParenClose:
				break patterns
			default:
				return nil, p.errUnexpected(&t)
			}
		}
		p.linebreak()

		var body builder.CommandList
		if !p.peekReservedWord("esac") && !p.peekDSemi() {
			body, err = p.commandListUntilDSemiOrEsac()
			if err != nil {
				return nil, err
			}
		}
		if p.peekDSemi() {
			p.cur.Next()
		}
		p.linebreak()

		arms = append(arms, builder.CaseArm{Patterns: patterns, Body: body})
	}

	if _, err := p.reservedWord("esac"); err != nil {
		return nil, err
	}
	redirects, err := p.RedirectList()
	if err != nil {
		return nil, err
	}
	return p.b.CaseCommand(word, arms, redirects)
}

func (p *Parser) peekDSemi() bool {
	t, ok := p.cur.Peek()
	return ok && t.Kind == token.DSemi
}

// CompoundCommand dispatches to the right compound-command parser based on
// lookahead.
func (p *Parser) CompoundCommand() (builder.PipeableCommand, error) {
	cc, err := p.compoundCommandInternal()
	if err != nil {
		return nil, err
	}
	return p.b.CompoundCommandAsPipeable(cc)
}

func (p *Parser) compoundCommandInternal() (builder.CompoundCommand, error) {
	p.skipWhitespace()
	switch {
	case p.peekReservedToken(token.CurlyOpen):
		return p.BraceGroup()
	case p.peekParenOpenForSubshell():
		return p.Subshell()
	case p.peekReservedWord("while", "until"):
		return p.LoopCommand()
	case p.peekReservedWord("if"):
		return p.IfCommand()
	case p.peekReservedWord("for"):
		return p.ForCommand()
	case p.peekReservedWord("case"):
		return p.CaseCommand()
	default:
		return nil, p.errUnexpected(p.peekOrNil())
	}
}

func (p *Parser) peekParenOpenForSubshell() bool {
	t, ok := p.cur.Peek()
	return ok && t.Kind == token.ParenOpen
}

// isCompoundCommandStart reports whether the upcoming tokens begin one of
// the recognized compound-command forms.
func (p *Parser) isCompoundCommandStart() bool {
	return p.peekReservedToken(token.CurlyOpen) ||
		p.peekParenOpenForSubshell() ||
		p.peekReservedWord("while", "until", "if", "for", "case")
}
