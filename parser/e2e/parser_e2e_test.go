// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

//go:build integration

package e2e_test

import (
	"strings"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/lucidshell/posixsh/ast"
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/parser"
)

func parseOne(src string) *ast.CompleteCommand {
	cmds, err := parser.NewFromString(src, nil).All()
	Expect(err).NotTo(HaveOccurred())
	Expect(cmds).To(HaveLen(1))
	cc, ok := cmds[0].(*ast.CompleteCommand)
	Expect(ok).To(BeTrue())
	return cc
}

func simpleOf(cc *ast.CompleteCommand) *ast.SimpleCommand {
	Expect(cc.List.Rest).To(BeEmpty())
	pc := cc.List.First.Pipeline.Commands
	Expect(pc).To(HaveLen(1))
	Expect(pc[0].Simple).NotTo(BeNil())
	return pc[0].Simple
}

// renderWord flattens a literal-only ComplexWord to plain text, handling
// both the Single and multi-fragment Concat shapes.
func renderWord(w *ast.ComplexWord) string {
	if w == nil {
		return ""
	}
	if w.Single != nil {
		return renderSingleWord(*w.Single)
	}
	var b strings.Builder
	for _, part := range w.Concat {
		b.WriteString(renderSingleWord(part))
	}
	return b.String()
}

func renderSingleWord(w ast.Word) string {
	switch w.Kind {
	case ast.WSimple:
		return w.Simple.Literal
	case ast.WSingleQuoted:
		return w.SingleQuoted
	case ast.WDoubleQuoted:
		var b strings.Builder
		for _, sw := range w.DoubleQuoted {
			b.WriteString(sw.Literal)
		}
		return b.String()
	default:
		return ""
	}
}

// substOf digs the ParameterSubstitution out of an argument word assumed to
// be exactly one ${...}/$(...) form with no surrounding literal text.
func substOf(w *ast.ComplexWord) *ast.ParameterSubstitution {
	Expect(w.Single).NotTo(BeNil())
	Expect(w.Single.Kind).To(Equal(ast.WSimple))
	Expect(w.Single.Simple.Kind).To(Equal(ast.SWSubst))
	return w.Single.Simple.Subst
}

// fragText renders a WordFragment operand assumed to hold nothing but
// literal text, as produced for an unquoted, non-nested ${VAR:-default}
// style operand.
func fragText(f *builder.WordFragment) string {
	if f == nil {
		return ""
	}
	if f.Kind == builder.WKConcat {
		var b strings.Builder
		for _, c := range f.Concat {
			b.WriteString(fragText(&c))
		}
		return b.String()
	}
	return f.Literal
}

var _ = Describe("simple commands", func() {
	It("parses a command name with arguments", func() {
		sc := simpleOf(parseOne("echo foo bar\n"))
		Expect(renderWord(sc.Name)).To(Equal("echo"))
		Expect(sc.Args).To(HaveLen(2))
		Expect(renderWord(&sc.Args[0])).To(Equal("foo"))
		Expect(renderWord(&sc.Args[1])).To(Equal("bar"))
	})

	It("treats a NAME=value-shaped argument after the command name as a plain word", func() {
		sc := simpleOf(parseOne("echo foo=bar\n"))
		Expect(sc.Args).To(HaveLen(1))
		Expect(renderWord(&sc.Args[0])).To(Equal("foo=bar"))
	})

	It("parses leading env assignments interleaved with redirects", func() {
		sc := simpleOf(parseOne("FOO=bar BAZ=qux cmd arg1 > out.txt 2>&1\n"))
		Expect(sc.Env).To(HaveLen(2))
		Expect(sc.Env[0].Name).To(Equal("FOO"))
		Expect(renderWord(sc.Env[0].Value)).To(Equal("bar"))
		Expect(sc.Env[1].Name).To(Equal("BAZ"))

		Expect(renderWord(sc.Name)).To(Equal("cmd"))
		Expect(sc.Redirects).To(HaveLen(2))
		Expect(sc.Redirects[0].Kind).To(Equal(ast.RedirectWrite))
		Expect(renderWord(sc.Redirects[0].Target)).To(Equal("out.txt"))
		Expect(sc.Redirects[1].Kind).To(Equal(ast.RedirectDupWrite))
	})

	It("allows an assignment-only command with no name", func() {
		sc := simpleOf(parseOne("FOO=bar\n"))
		Expect(sc.Name).To(BeNil())
		Expect(sc.Env).To(HaveLen(1))
	})

	It("requires a reserved word to stand at a word boundary", func() {
		sc := simpleOf(parseOne("iffy arg\n"))
		Expect(renderWord(sc.Name)).To(Equal("iffy"))
	})
})

var _ = Describe("compound commands", func() {
	It("parses if/elif/else", func() {
		cc := parseOne("if foo; then bar; elif baz; then qux; else quux; fi\n")
		compound := cc.List.First.Pipeline.Commands[0].Compound
		Expect(compound.Kind).To(Equal(ast.CKIf))
		Expect(compound.Conditionals).To(HaveLen(2))
		Expect(renderWord(simpleOf(&compound.Conditionals[0].Guard[0]).Name)).To(Equal("foo"))
		Expect(renderWord(simpleOf(&compound.Conditionals[0].Body[0]).Name)).To(Equal("bar"))
		Expect(renderWord(simpleOf(&compound.Conditionals[1].Guard[0]).Name)).To(Equal("baz"))
		Expect(compound.ElseBranch).NotTo(BeNil())
		Expect(renderWord(simpleOf(&(*compound.ElseBranch)[0]).Name)).To(Equal("quux"))
	})

	It("parses a for loop with an explicit word list", func() {
		cc := parseOne("for i in a b c; do echo $i; done\n")
		compound := cc.List.First.Pipeline.Commands[0].Compound
		Expect(compound.Kind).To(Equal(ast.CKFor))
		Expect(compound.ForVar).To(Equal("i"))
		Expect(compound.ForWords).NotTo(BeNil())
		Expect(*compound.ForWords).To(HaveLen(3))
		Expect(renderWord(&(*compound.ForWords)[0])).To(Equal("a"))
	})

	It("leaves ForWords nil when `in` is omitted, distinct from an empty list", func() {
		cc := parseOne("for i\ndo echo $i; done\n")
		compound := cc.List.First.Pipeline.Commands[0].Compound
		Expect(compound.ForWords).To(BeNil())
	})

	It("parses a case statement with multi-pattern arms", func() {
		cc := parseOne("case $x in foo) bar;; baz|qux) quux;; esac\n")
		compound := cc.List.First.Pipeline.Commands[0].Compound
		Expect(compound.Kind).To(Equal(ast.CKCase))
		Expect(compound.CaseArms).To(HaveLen(2))
		Expect(compound.CaseArms[1].Patterns).To(HaveLen(2))
		Expect(renderWord(&compound.CaseArms[1].Patterns[0])).To(Equal("baz"))
		Expect(renderWord(&compound.CaseArms[1].Patterns[1])).To(Equal("qux"))
	})

	It("parses both function declaration forms", func() {
		cmds, err := parser.NewFromString("foo() { bar; }\nfunction baz { qux; }\n", nil).All()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmds).To(HaveLen(2))

		fn0 := cmds[0].(*ast.CompleteCommand).List.First.Pipeline.Commands[0].Function
		Expect(fn0).NotTo(BeNil())
		Expect(fn0.Name).To(Equal("foo"))

		fn1 := cmds[1].(*ast.CompleteCommand).List.First.Pipeline.Commands[0].Function
		Expect(fn1).NotTo(BeNil())
		Expect(fn1.Name).To(Equal("baz"))
	})

	It("parses a subshell and a brace group", func() {
		cmds, err := parser.NewFromString("(foo); { bar; }\n", nil).All()
		Expect(err).NotTo(HaveOccurred())
		Expect(cmds).To(HaveLen(2))
		Expect(cmds[0].(*ast.CompleteCommand).List.First.Pipeline.Commands[0].Compound.Kind).To(Equal(ast.CKSubshell))
		Expect(cmds[1].(*ast.CompleteCommand).List.First.Pipeline.Commands[0].Compound.Kind).To(Equal(ast.CKBrace))
	})
})

var _ = Describe("pipelines, and/or chains, and background jobs", func() {
	It("parses a bang pipeline", func() {
		cc := parseOne("! foo | bar\n")
		Expect(cc.List.First.Pipeline.Bang).To(BeTrue())
		Expect(cc.List.First.Pipeline.Commands).To(HaveLen(2))
	})

	It("parses a left-associative &&/|| chain", func() {
		cc := parseOne("foo && bar || baz\n")
		Expect(cc.List.Rest).To(HaveLen(2))
		Expect(cc.List.Rest[0].Kind).To(Equal(ast.AndOrAnd))
		Expect(cc.List.Rest[1].Kind).To(Equal(ast.AndOrOr))
	})

	It("marks a command asynchronous when terminated with &", func() {
		cc := parseOne("foo &\n")
		Expect(cc.Async()).To(BeTrue())
	})
})

var _ = Describe("heredocs", func() {
	It("strips leading all-tab runs for <<-", func() {
		sc := simpleOf(parseOne("cat <<-EOF\n\t\thello\n\tEOF\n"))
		Expect(sc.Redirects).To(HaveLen(1))
		r := sc.Redirects[0]
		Expect(r.Kind).To(Equal(ast.RedirectHeredoc))
		Expect(renderWord(r.HeredocBody)).To(Equal("hello\n"))
	})

	It("does not strip tabs for plain <<", func() {
		sc := simpleOf(parseOne("cat <<EOF\n\thello\nEOF\n"))
		r := sc.Redirects[0]
		Expect(renderWord(r.HeredocBody)).To(Equal("\thello\n"))
	})

	It("disables body expansion when the delimiter is quoted", func() {
		sc := simpleOf(parseOne("cat <<'EOF'\n$HOME\nEOF\n"))
		r := sc.Redirects[0]
		Expect(r.Quoted).To(BeTrue())
		Expect(renderWord(r.HeredocBody)).To(Equal("$HOME\n"))
	})

	It("expands parameters in an unquoted heredoc body", func() {
		sc := simpleOf(parseOne("cat <<EOF\n${x}\nEOF\n"))
		r := sc.Redirects[0]
		Expect(r.Quoted).To(BeFalse())
		// The body is "${x}" followed by a literal trailing newline, which
		// DefaultBuilder keeps as sibling Concat words rather than merging
		// a substitution word with an adjacent plain-literal one.
		Expect(r.HeredocBody.Single).To(BeNil())
		Expect(r.HeredocBody.Concat).To(HaveLen(2))
		Expect(r.HeredocBody.Concat[0].Kind).To(Equal(ast.WSimple))
		Expect(r.HeredocBody.Concat[0].Simple.Kind).To(Equal(ast.SWParam))
		Expect(r.HeredocBody.Concat[0].Simple.Param.Name).To(Equal("x"))
		Expect(r.HeredocBody.Concat[1].Simple.Literal).To(Equal("\n"))
	})
})

var _ = DescribeTable("parameter substitution forms",
	func(src string, wantKind builder.SubstKind, wantColon bool, wantOperand string) {
		sc := simpleOf(parseOne(src))
		Expect(sc.Args).To(HaveLen(1))
		subst := substOf(&sc.Args[0])
		Expect(subst.Kind).To(Equal(wantKind))
		Expect(subst.Colon).To(Equal(wantColon))
		Expect(fragText(subst.Word)).To(Equal(wantOperand))
	},
	Entry("${VAR:-default}", "echo ${x:-default}\n", builder.SubstDefault, true, "default"),
	Entry("${VAR-default}", "echo ${x-default}\n", builder.SubstDefault, false, "default"),
	Entry("${VAR:=default}", "echo ${x:=default}\n", builder.SubstAssign, true, "default"),
	Entry("${VAR:?msg}", "echo ${x:?msg}\n", builder.SubstError, true, "msg"),
	Entry("${VAR:+alt}", "echo ${x:+alt}\n", builder.SubstAlternative, true, "alt"),
	Entry("${VAR%suffix}", "echo ${x%suffix}\n", builder.SubstRemoveSmallestSuffix, false, "suffix"),
	Entry("${VAR%%suffix}", "echo ${x%%suffix}\n", builder.SubstRemoveLargestSuffix, false, "suffix"),
	Entry("${VAR#prefix}", "echo ${x#prefix}\n", builder.SubstRemoveSmallestPrefix, false, "prefix"),
	Entry("${VAR##prefix}", "echo ${x##prefix}\n", builder.SubstRemoveLargestPrefix, false, "prefix"),
)

var _ = DescribeTable("parameter length and bare-sigil forms",
	func(src string, assertFn func(*ast.SimpleWord)) {
		sc := simpleOf(parseOne(src))
		Expect(sc.Args).To(HaveLen(1))
		w := &sc.Args[0]
		Expect(w.Single).NotTo(BeNil())
		assertFn(w.Single.Simple)
	},
	Entry("${#VAR}", "echo ${#x}\n", func(sw *ast.SimpleWord) {
		Expect(sw.Kind).To(Equal(ast.SWSubst))
		Expect(sw.Subst.Kind).To(Equal(builder.SubstLen))
		Expect(sw.Subst.Param.Name).To(Equal("x"))
	}),
	Entry("$@", "echo $@\n", func(sw *ast.SimpleWord) {
		Expect(sw.Kind).To(Equal(ast.SWParam))
		Expect(sw.Param.Kind).To(Equal(builder.ParamAt))
	}),
	Entry("$1", "echo $1\n", func(sw *ast.SimpleWord) {
		Expect(sw.Kind).To(Equal(ast.SWParam))
		Expect(sw.Param.Kind).To(Equal(builder.ParamPositional))
		Expect(sw.Param.Positional).To(Equal(uint32(1)))
	}),
)

var _ = Describe("command substitution", func() {
	It("parses $(...) as a SubstCommand with a nested command list", func() {
		sc := simpleOf(parseOne("echo $(foo bar)\n"))
		subst := substOf(&sc.Args[0])
		Expect(subst.Kind).To(Equal(builder.SubstCommand))
		Expect(subst.Command).NotTo(BeNil())
	})

	It("parses a backtick command substitution as an equivalent SubstCommand", func() {
		sc := simpleOf(parseOne("echo `foo bar`\n"))
		subst := substOf(&sc.Args[0])
		Expect(subst.Kind).To(Equal(builder.SubstCommand))
	})
})
