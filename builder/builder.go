// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

// Package builder declares the capability-bundle contract the parser drives
// to construct an AST. Consumers implement Builder to substitute their own
// node representation; the parser never inspects concrete node types.
package builder

import "github.com/lucidshell/posixsh/token"

// Command, Word, Redirect, and the rest are opaque handles returned by a
// Builder implementation. The parser treats them as values to thread
// through further builder calls; it never inspects their contents.
type (
	Command         = any
	CommandList     = any
	ListableCommand = any
	PipeableCommand = any
	CompoundCommand = any
	Word            = any
	Redirect        = any
)

// SeparatorKind tags how a complete_command was terminated.
type SeparatorKind int

const (
	SeparatorSemi SeparatorKind = iota
	SeparatorAmp
	SeparatorNewline
	SeparatorOther
)

// LoopKind distinguishes while/until.
type LoopKind int

const (
	LoopWhile LoopKind = iota
	LoopUntil
)

// AndOrKind tags && vs || in an and-or chain.
type AndOrKind int

const (
	AndOrAnd AndOrKind = iota
	AndOrOr
)

// AndOrNext pairs the comments preceding one and-or operand with the
// operand's kind relative to its predecessor.
type AndOrNext struct {
	LeadingComments []string
	Kind            AndOrKind
	Command         ListableCommand
}

// PipelineElem pairs a pipeline element with the comments preceding it
// (between the | and the command).
type PipelineElem struct {
	LeadingComments []string
	Command         PipeableCommand
}

// GuardBodyPair is a guard/body pair used by while/until/if.
type GuardBodyPair struct {
	Guard CommandList
	Body  CommandList
}

// CaseArm is one `pattern | pattern) body ;;` arm of a case command.
type CaseArm struct {
	Patterns []Word
	Body     CommandList
}

// WordKind is the tagged union the parser passes to Builder.Word. Exactly
// one field is meaningful per Kind.
type WordKind int

const (
	WKLiteral WordKind = iota
	WKEscaped
	WKParam
	WKSubst
	WKSingleQuoted
	WKDoubleQuoted
	WKConcat
	WKStar
	WKQuestion
	WKTilde
	WKSquareOpen
	WKSquareClose
)

// WordFragment is one node in the WordKind tree built up while parsing a
// word; Concat holds child fragments, Literal/Escaped/SingleQuoted hold
// text, Param/Subst hold parameter data, DoubleQuoted holds child
// fragments parsed under interpolation rules.
type WordFragment struct {
	Kind         WordKind
	Literal      string
	Param        Parameter
	Subst        *ParameterSubstitution
	DoubleQuoted []WordFragment
	Concat       []WordFragment
}

// Parameter is the sum type over shell parameter forms.
type Parameter struct {
	Kind       ParamKind
	Positional uint32
	Name       string
}

type ParamKind int

const (
	ParamAt ParamKind = iota
	ParamStar
	ParamPound
	ParamQuestion
	ParamDash
	ParamDollar
	ParamBang
	ParamPositional
	ParamVar
)

// SubstKind tags the ParameterSubstitution variant.
type SubstKind int

const (
	SubstCommand SubstKind = iota
	SubstLen
	SubstArith
	SubstDefault
	SubstAssign
	SubstError
	SubstAlternative
	SubstRemoveSmallestSuffix
	SubstRemoveLargestSuffix
	SubstRemoveSmallestPrefix
	SubstRemoveLargestPrefix
)

// ParameterSubstitution carries the data for every ${...}/$(...) form.
// Colon is the "colon form" flag (empty string treated as unset) for
// Default/Assign/Error/Alternative. Word is the (possibly nil) word operand
// for those forms and for the prefix/suffix-removal forms. Command holds
// the parsed command list for SubstCommand. Arith holds the opaque raw word
// for SubstArith.
type ParameterSubstitution struct {
	Kind    SubstKind
	Param   Parameter
	Colon   bool
	Word    *WordFragment
	Command CommandList
	Arith   *WordFragment
}

// RedirectKind tags a Redirect's direction/operator.
type RedirectKind int

const (
	RedirectRead RedirectKind = iota
	RedirectWrite
	RedirectReadWrite
	RedirectAppend
	RedirectClobber
	RedirectHeredoc
	RedirectDupRead
	RedirectDupWrite
)

// RedirectSpec is the value the parser passes to Builder.Redirect.
type RedirectSpec struct {
	Kind   RedirectKind
	Fd     *uint16
	Target Word
	// HeredocBody is set only for RedirectHeredoc.
	HeredocBody *WordFragment
	// HeredocQuoted marks whether the heredoc delimiter was quoted
	// (disabling body expansion).
	HeredocQuoted bool
}

// EnvAssignment is one `name=word` pair preceding a simple command.
type EnvAssignment struct {
	Name  string
	Value *Word
}

// Builder is the capability bundle the parser drives. Every method may
// fail with the builder's own error, which the parser wraps as an
// External parse error and uses to short-circuit the current parse call.
type Builder interface {
	// Word converts a parsed WordFragment tree into a concrete Word value.
	Word(token.SourcePos, WordFragment) (Word, error)

	// Redirect converts a RedirectSpec into a concrete Redirect value.
	Redirect(token.SourcePos, RedirectSpec) (Redirect, error)

	// SimpleCommand assembles a simple command from interleaved env
	// assignments, an optional command name + argument words, and
	// redirections, all in original source order.
	SimpleCommand(envs []EnvAssignment, cmdWords []Word, redirects []Redirect) (PipeableCommand, error)

	BraceGroup(body CommandList, redirects []Redirect) (CompoundCommand, error)
	Subshell(body CommandList, redirects []Redirect) (CompoundCommand, error)
	LoopCommand(kind LoopKind, guardBody GuardBodyPair, redirects []Redirect) (CompoundCommand, error)
	IfCommand(conditionals []GuardBodyPair, elseBranch *CommandList, redirects []Redirect) (CompoundCommand, error)
	ForCommand(varName string, words *[]Word, body CommandList, redirects []Redirect) (CompoundCommand, error)
	CaseCommand(word Word, arms []CaseArm, redirects []Redirect) (CompoundCommand, error)

	// CompoundCommandAsPipeable lifts a CompoundCommand into a
	// PipeableCommand so it can participate in a pipeline.
	CompoundCommandAsPipeable(CompoundCommand) (PipeableCommand, error)

	// FunctionDeclaration assembles a function definition. postNameComments
	// are comments captured between the name/() and the body.
	FunctionDeclaration(name string, postNameComments []string, body Command) (PipeableCommand, error)

	// Pipeline assembles `[!] p1 | p2 | ...`.
	Pipeline(bang bool, elems []PipelineElem) (ListableCommand, error)

	// AndOrList assembles a left-associative &&/|| chain.
	AndOrList(first ListableCommand, rest []AndOrNext) (CommandList, error)

	// CompleteCommand assembles one top-level command: leading comments,
	// the and-or list, how it was separated, and a trailing comment if one
	// immediately followed on the same line.
	CompleteCommand(preComments []string, list CommandList, sep SeparatorKind, trailingComment string) (Command, error)

	// Comments is called for comment-only input with no attached command.
	Comments(lines []string) (Command, error)
}
