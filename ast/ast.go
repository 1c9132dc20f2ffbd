// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package ast defines the default concrete syntax tree the reference
// builder assembles. Consumers that want a different tree shape implement
// builder.Builder directly instead of using DefaultBuilder.
package ast

import "github.com/lucidshell/posixsh/builder"

// Parameter mirrors builder.Parameter with a friendlier exported shape for
// tree consumers.
type Parameter = builder.Parameter

// ParameterSubstitution mirrors builder.ParameterSubstitution.
type ParameterSubstitution = builder.ParameterSubstitution

// SimpleWord is the innermost word layer: a literal, an escaped literal, a
// parameter, a parameter substitution, or one of the pattern-significant
// singletons.
type SimpleWord struct {
	Kind     SimpleWordKind
	Literal  string
	Param    *Parameter
	Subst    *ParameterSubstitution
}

type SimpleWordKind int

const (
	SWLiteral SimpleWordKind = iota
	SWEscaped
	SWParam
	SWSubst
	SWStar
	SWQuestion
	SWTilde
	SWSquareOpen
	SWSquareClose
)

// Word is a simple word, a double-quoted list of simple words, or a
// single-quoted literal.
type Word struct {
	Kind          WordKind
	Simple        *SimpleWord
	DoubleQuoted  []SimpleWord
	SingleQuoted  string
}

type WordKind int

const (
	WSimple WordKind = iota
	WDoubleQuoted
	WSingleQuoted
)

// ComplexWord is a single Word or a concatenation of adjacent Words that
// were not whitespace-separated.
type ComplexWord struct {
	Single *Word
	Concat []Word
}

// RedirectKind mirrors builder.RedirectKind.
type RedirectKind = builder.RedirectKind

const (
	RedirectRead         = builder.RedirectRead
	RedirectWrite        = builder.RedirectWrite
	RedirectReadWrite    = builder.RedirectReadWrite
	RedirectAppend       = builder.RedirectAppend
	RedirectClobber      = builder.RedirectClobber
	RedirectHeredoc      = builder.RedirectHeredoc
	RedirectDupRead      = builder.RedirectDupRead
	RedirectDupWrite     = builder.RedirectDupWrite
)

// Redirect is one `[fd]op target` redirection.
type Redirect struct {
	Kind        RedirectKind
	Fd          *uint16
	Target      *ComplexWord
	HeredocBody *ComplexWord
	Quoted      bool
}

// EnvAssignment is one `name=word` pair preceding a simple command.
type EnvAssignment struct {
	Name  string
	Value *ComplexWord
}

// SimpleCommand is `env... name args... redirects...` with all three
// interleaved in original source order via the Env/Args/Redirects slices
// themselves carrying no ordering info beyond their own sequences — callers
// needing exact interleaving should consult the builder call order, which
// DefaultBuilder preserves by construction.
type SimpleCommand struct {
	Env       []EnvAssignment
	Name      *ComplexWord
	Args      []ComplexWord
	Redirects []Redirect
}

// LoopKind mirrors builder.LoopKind.
type LoopKind = builder.LoopKind

const (
	LoopWhile = builder.LoopWhile
	LoopUntil = builder.LoopUntil
)

// GuardBodyPair is a guard/body pair for while/until/if: each side is a
// sequence of complete commands (a guard-list or body-list), not a single
// and/or chain.
type GuardBodyPair struct {
	Guard []Command
	Body  []Command
}

// CaseArm is one `pattern|pattern) body ;;` arm.
type CaseArm struct {
	Patterns []ComplexWord
	Body     []Command
}

// CompoundKind tags which compound command CompoundCommand holds.
type CompoundKind int

const (
	CKBrace CompoundKind = iota
	CKSubshell
	CKLoop
	CKIf
	CKFor
	CKCase
)

// CompoundCommand is one brace/subshell/while/until/if/for/case command,
// paired with the redirections applied over the whole group.
type CompoundCommand struct {
	Kind CompoundKind

	// CKBrace, CKSubshell
	Body []Command

	// CKLoop
	LoopKind  LoopKind
	LoopGuard GuardBodyPair

	// CKIf
	Conditionals []GuardBodyPair
	ElseBranch   *[]Command

	// CKFor
	ForVar   string
	ForWords *[]ComplexWord
	ForBody  []Command

	// CKCase
	CaseWord *ComplexWord
	CaseArms []CaseArm

	Redirects []Redirect
}

// FunctionDef is a named function whose body may be invoked multiple times;
// Body is shared (reference-counted in spirit — Go's GC makes the *Command
// pointer itself the sharing mechanism) across every call site.
type FunctionDef struct {
	Name string
	Body *Command
}

// PipeableCommand is a simple command, a compound command lifted into
// pipeline position, or a function declaration.
type PipeableCommand struct {
	Simple   *SimpleCommand
	Compound *CompoundCommand
	Function *FunctionDef
}

// Pipeline is `[!] p1 | p2 | ...`; Bang true means the overall pipeline
// exit status is logically negated.
type Pipeline struct {
	Bang     bool
	Commands []PipeableCommand
}

// ListableCommand is the thing &&/|| chain together: a pipeline (possibly
// of length 1).
type ListableCommand struct {
	Pipeline Pipeline
}

// AndOrKind mirrors builder.AndOrKind.
type AndOrKind = builder.AndOrKind

const (
	AndOrAnd = builder.AndOrAnd
	AndOrOr  = builder.AndOrOr
)

// AndOrLink pairs one right-hand operand of a left-associative &&/||
// chain with the operator joining it to its predecessor.
type AndOrLink struct {
	Kind    AndOrKind
	Command ListableCommand
}

// CommandList is an and/or list of pipelines: First is always present;
// Rest chains additional pipelines left-associatively.
type CommandList struct {
	First ListableCommand
	Rest  []AndOrLink
}

// SeparatorKind mirrors builder.SeparatorKind.
type SeparatorKind = builder.SeparatorKind

const (
	SeparatorSemi    = builder.SeparatorSemi
	SeparatorAmp     = builder.SeparatorAmp
	SeparatorNewline = builder.SeparatorNewline
	SeparatorOther   = builder.SeparatorOther
)

// CompleteCommand is one top-level command as read from the token stream:
// a CommandList and how it was separated from whatever follows. Async is
// true when Separator is SeparatorAmp (the command is a background job).
type CompleteCommand struct {
	List     CommandList
	Separator SeparatorKind
}

// Async reports whether this command should run asynchronously.
func (c CompleteCommand) Async() bool {
	return c.Separator == SeparatorAmp
}

// Command is the unit a function body parses down to: one further
// complete_command.
type Command = CompleteCommand
