// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package ast

import (
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/token"
)

// DefaultBuilder assembles the concrete tree defined in this package. It is
// the reference implementation of builder.Builder; callers wanting a
// different tree shape implement builder.Builder directly instead.
type DefaultBuilder struct{}

var _ builder.Builder = (*DefaultBuilder)(nil)

// NewDefaultBuilder returns a ready-to-use DefaultBuilder. It carries no
// state, so a single instance may be reused across parses.
func NewDefaultBuilder() *DefaultBuilder {
	return &DefaultBuilder{}
}

func fragmentToSimpleWord(f builder.WordFragment) SimpleWord {
	switch f.Kind {
	case builder.WKLiteral:
		return SimpleWord{Kind: SWLiteral, Literal: f.Literal}
	case builder.WKEscaped:
		return SimpleWord{Kind: SWEscaped, Literal: f.Literal}
	case builder.WKParam:
		p := f.Param
		return SimpleWord{Kind: SWParam, Param: &p}
	case builder.WKSubst:
		return SimpleWord{Kind: SWSubst, Subst: f.Subst}
	case builder.WKStar:
		return SimpleWord{Kind: SWStar}
	case builder.WKQuestion:
		return SimpleWord{Kind: SWQuestion}
	case builder.WKTilde:
		return SimpleWord{Kind: SWTilde}
	case builder.WKSquareOpen:
		return SimpleWord{Kind: SWSquareOpen}
	case builder.WKSquareClose:
		return SimpleWord{Kind: SWSquareClose}
	default:
		return SimpleWord{Kind: SWLiteral, Literal: f.Literal}
	}
}

func fragmentToWord(f builder.WordFragment) Word {
	switch f.Kind {
	case builder.WKSingleQuoted:
		return Word{Kind: WSingleQuoted, SingleQuoted: f.Literal}
	case builder.WKDoubleQuoted:
		simples := make([]SimpleWord, 0, len(f.DoubleQuoted))
		for _, child := range f.DoubleQuoted {
			simples = append(simples, fragmentToSimpleWord(child))
		}
		return Word{Kind: WDoubleQuoted, DoubleQuoted: coalesceSimple(simples)}
	default:
		sw := fragmentToSimpleWord(f)
		return Word{Kind: WSimple, Simple: &sw}
	}
}

func fragmentToComplexWord(f builder.WordFragment) ComplexWord {
	if f.Kind == builder.WKConcat {
		words := make([]Word, 0, len(f.Concat))
		for _, child := range f.Concat {
			words = append(words, fragmentToWord(child))
		}
		return NewComplexWord(words)
	}
	return NewComplexWord([]Word{fragmentToWord(f)})
}

// Word converts a parsed WordFragment tree into a *ComplexWord, coalescing
// adjacent literal fragments.
func (b *DefaultBuilder) Word(_ token.SourcePos, f builder.WordFragment) (builder.Word, error) {
	cw := fragmentToComplexWord(f)
	return &cw, nil
}

func asComplexWord(w builder.Word) *ComplexWord {
	if w == nil {
		return nil
	}
	cw, _ := w.(*ComplexWord)
	return cw
}

// Redirect converts a RedirectSpec into a *Redirect.
func (b *DefaultBuilder) Redirect(_ token.SourcePos, spec builder.RedirectSpec) (builder.Redirect, error) {
	r := Redirect{
		Kind:   spec.Kind,
		Fd:     spec.Fd,
		Target: asComplexWord(spec.Target),
		Quoted: spec.HeredocQuoted,
	}
	if spec.HeredocBody != nil {
		cw := fragmentToComplexWord(*spec.HeredocBody)
		r.HeredocBody = &cw
	}
	return &r, nil
}

func asRedirects(rs []builder.Redirect) []Redirect {
	out := make([]Redirect, 0, len(rs))
	for _, r := range rs {
		if rr, ok := r.(*Redirect); ok {
			out = append(out, *rr)
		}
	}
	return out
}

// SimpleCommand assembles a *SimpleCommand from interleaved assignments,
// words, and redirects.
func (b *DefaultBuilder) SimpleCommand(envs []builder.EnvAssignment, cmdWords []builder.Word, redirects []builder.Redirect) (builder.PipeableCommand, error) {
	sc := &SimpleCommand{
		Redirects: asRedirects(redirects),
	}
	for _, e := range envs {
		var value *ComplexWord
		if e.Value != nil {
			value = asComplexWord(*e.Value)
		}
		sc.Env = append(sc.Env, EnvAssignment{Name: e.Name, Value: value})
	}
	if len(cmdWords) > 0 {
		sc.Name = asComplexWord(cmdWords[0])
		for _, w := range cmdWords[1:] {
			sc.Args = append(sc.Args, *asComplexWord(w))
		}
	}
	return &PipeableCommand{Simple: sc}, nil
}

// asCommandSeq converts a guard-list/body-list (a []builder.Command the
// parser assembles by calling complete_command repeatedly) into []Command.
func asCommandSeq(c builder.CommandList) []Command {
	raw, ok := c.([]builder.Command)
	if !ok {
		return nil
	}
	out := make([]Command, 0, len(raw))
	for _, item := range raw {
		if cmd, ok := item.(*Command); ok {
			out = append(out, *cmd)
		}
	}
	return out
}

// BraceGroup assembles a `{ ... }` compound command.
func (b *DefaultBuilder) BraceGroup(body builder.CommandList, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	return &CompoundCommand{Kind: CKBrace, Body: asCommandSeq(body), Redirects: asRedirects(redirects)}, nil
}

// Subshell assembles a `( ... )` compound command.
func (b *DefaultBuilder) Subshell(body builder.CommandList, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	return &CompoundCommand{Kind: CKSubshell, Body: asCommandSeq(body), Redirects: asRedirects(redirects)}, nil
}

func asGuardBodyPair(g builder.GuardBodyPair) GuardBodyPair {
	return GuardBodyPair{Guard: asCommandSeq(g.Guard), Body: asCommandSeq(g.Body)}
}

// LoopCommand assembles a while/until compound command.
func (b *DefaultBuilder) LoopCommand(kind builder.LoopKind, guardBody builder.GuardBodyPair, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	return &CompoundCommand{
		Kind:      CKLoop,
		LoopKind:  kind,
		LoopGuard: asGuardBodyPair(guardBody),
		Redirects: asRedirects(redirects),
	}, nil
}

// IfCommand assembles an if/elif/else compound command.
func (b *DefaultBuilder) IfCommand(conditionals []builder.GuardBodyPair, elseBranch *builder.CommandList, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	cc := &CompoundCommand{Kind: CKIf, Redirects: asRedirects(redirects)}
	for _, g := range conditionals {
		cc.Conditionals = append(cc.Conditionals, asGuardBodyPair(g))
	}
	if elseBranch != nil {
		el := asCommandSeq(*elseBranch)
		cc.ElseBranch = &el
	}
	return cc, nil
}

// ForCommand assembles a for compound command. A nil words pointer means
// `in` was absent entirely (iterate positional parameters at runtime).
func (b *DefaultBuilder) ForCommand(varName string, words *[]builder.Word, body builder.CommandList, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	cc := &CompoundCommand{
		Kind:      CKFor,
		ForVar:    varName,
		ForBody:   asCommandSeq(body),
		Redirects: asRedirects(redirects),
	}
	if words != nil {
		converted := make([]ComplexWord, 0, len(*words))
		for _, w := range *words {
			converted = append(converted, *asComplexWord(w))
		}
		cc.ForWords = &converted
	}
	return cc, nil
}

// CaseCommand assembles a case compound command.
func (b *DefaultBuilder) CaseCommand(word builder.Word, arms []builder.CaseArm, redirects []builder.Redirect) (builder.CompoundCommand, error) {
	cc := &CompoundCommand{
		Kind:      CKCase,
		CaseWord:  asComplexWord(word),
		Redirects: asRedirects(redirects),
	}
	for _, a := range arms {
		arm := CaseArm{Body: asCommandSeq(a.Body)}
		for _, p := range a.Patterns {
			arm.Patterns = append(arm.Patterns, *asComplexWord(p))
		}
		cc.CaseArms = append(cc.CaseArms, arm)
	}
	return cc, nil
}

// CompoundCommandAsPipeable lifts a *CompoundCommand into pipeline
// position.
func (b *DefaultBuilder) CompoundCommandAsPipeable(c builder.CompoundCommand) (builder.PipeableCommand, error) {
	cc, _ := c.(*CompoundCommand)
	return &PipeableCommand{Compound: cc}, nil
}

// FunctionDeclaration assembles a named function. postNameComments are
// dropped: DefaultBuilder does not retain comments in its tree.
func (b *DefaultBuilder) FunctionDeclaration(name string, _ []string, body builder.Command) (builder.PipeableCommand, error) {
	cmd, _ := body.(*Command)
	return &PipeableCommand{Function: &FunctionDef{Name: name, Body: cmd}}, nil
}


func asListableCommand(c builder.ListableCommand) ListableCommand {
	if lc, ok := c.(*ListableCommand); ok {
		return *lc
	}
	return ListableCommand{}
}

// Pipeline collapses a length-1, bang-free pipeline into a plain single
// command wrapper, matching the reference builder's flattening rule.
func (b *DefaultBuilder) Pipeline(bang bool, elems []builder.PipelineElem) (builder.ListableCommand, error) {
	p := Pipeline{Bang: bang}
	for _, e := range elems {
		pc, _ := e.Command.(*PipeableCommand)
		if pc != nil {
			p.Commands = append(p.Commands, *pc)
		}
	}
	return &ListableCommand{Pipeline: p}, nil
}

// AndOrList assembles a left-associative &&/|| chain.
func (b *DefaultBuilder) AndOrList(first builder.ListableCommand, rest []builder.AndOrNext) (builder.CommandList, error) {
	cl := &CommandList{First: asListableCommand(first)}
	for _, r := range rest {
		cl.Rest = append(cl.Rest, AndOrLink{Kind: r.Kind, Command: asListableCommand(r.Command)})
	}
	return cl, nil
}

// CompleteCommand assembles one top-level command. preComments and
// trailingComment are dropped: DefaultBuilder does not retain comments.
func (b *DefaultBuilder) CompleteCommand(_ []string, list builder.CommandList, sep builder.SeparatorKind, _ string) (builder.Command, error) {
	cl, _ := list.(*CommandList)
	cc := &Command{Separator: sep}
	if cl != nil {
		cc.List = *cl
	}
	return cc, nil
}

// Comments is called for comment-only input; DefaultBuilder has no node to
// represent it and returns a zero-value Command.
func (b *DefaultBuilder) Comments(_ []string) (builder.Command, error) {
	return &Command{}, nil
}
