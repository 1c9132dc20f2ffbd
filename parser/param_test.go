// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucidshell/posixsh/ast"
	"github.com/lucidshell/posixsh/builder"
	"github.com/lucidshell/posixsh/parser"
)

func soleArgParam(t *testing.T, src string) *builder.Parameter {
	t.Helper()
	sc := asSimple(t, parseAll(t, src)[0])
	require.Len(t, sc.Args, 1)
	w := &sc.Args[0]
	require.NotNil(t, w.Single)
	require.Equal(t, ast.WSimple, w.Single.Kind)
	require.Equal(t, ast.SWParam, w.Single.Simple.Kind)
	return w.Single.Simple.Param
}

func TestParseBareParameterSigils(t *testing.T) {
	cases := []struct {
		src  string
		want builder.ParamKind
	}{
		{"echo $@\n", builder.ParamAt},
		{"echo $*\n", builder.ParamStar},
		{"echo $#\n", builder.ParamPound},
		{"echo $?\n", builder.ParamQuestion},
		{"echo $-\n", builder.ParamDash},
		{"echo $$\n", builder.ParamDollar},
		{"echo $!\n", builder.ParamBang},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			param := soleArgParam(t, c.src)
			assert.Equal(t, c.want, param.Kind)
		})
	}
}

func TestParsePositionalParameter(t *testing.T) {
	param := soleArgParam(t, "echo $1\n")
	assert.Equal(t, builder.ParamPositional, param.Kind)
	assert.Equal(t, uint32(1), param.Positional)
}

func TestParseParameterLength(t *testing.T) {
	sc := asSimple(t, parseAll(t, "echo ${#x}\n")[0])
	require.Len(t, sc.Args, 1)
	w := sc.Args[0].Single
	require.NotNil(t, w)
	require.Equal(t, ast.SWSubst, w.Simple.Kind)
	subst := w.Simple.Subst
	assert.Equal(t, builder.SubstLen, subst.Kind)
	assert.Equal(t, builder.ParamVar, subst.Param.Kind)
	assert.Equal(t, "x", subst.Param.Name)
}

func TestParseParameterPoundRead(t *testing.T) {
	// ${#} reads the parameter "#" (the positional count) itself.
	param := soleArgParam(t, "echo ${#}\n")
	assert.Equal(t, builder.ParamPound, param.Kind)
}

func TestParseDoubleHashIsLengthOfPound(t *testing.T) {
	// ${##} with no word is the length of parameter "#".
	subst := soleArgSubst(t, "echo ${##}\n")
	assert.Equal(t, builder.SubstLen, subst.Kind)
	assert.Equal(t, builder.ParamPound, subst.Param.Kind)
}

func TestParseDoubleHashPrefixRemovalOnPoundParameter(t *testing.T) {
	// ${##foo}: the parameter is "#" (positional count), and #foo strips
	// the smallest matching prefix from it; a third # selects the largest.
	subst := soleArgSubst(t, "echo ${##foo}\n")
	assert.Equal(t, builder.SubstRemoveSmallestPrefix, subst.Kind)
	assert.Equal(t, builder.ParamPound, subst.Param.Kind)

	subst = soleArgSubst(t, "echo ${###foo}\n")
	assert.Equal(t, builder.SubstRemoveLargestPrefix, subst.Kind)
	assert.Equal(t, builder.ParamPound, subst.Param.Kind)
}

func TestParseHashCommentStillWorksOutsideBraces(t *testing.T) {
	cmds := parseAll(t, "echo hi # trailing comment\n")
	require.Len(t, cmds, 1)
	sc := asSimple(t, cmds[0])
	assert.Equal(t, "hi", wordText(t, &sc.Args[0]))
}

func soleArgSubst(t *testing.T, src string) *builder.ParameterSubstitution {
	t.Helper()
	sc := asSimple(t, parseAll(t, src)[0])
	require.Len(t, sc.Args, 1)
	w := sc.Args[0].Single
	require.NotNil(t, w)
	require.Equal(t, ast.WSimple, w.Kind)
	require.Equal(t, ast.SWSubst, w.Simple.Kind)
	return w.Simple.Subst
}

// TestParseSubstitutionForms walks the parameter and modifier combinations
// of ${...}, colon and non-colon, with and without a word operand.
func TestParseSubstitutionForms(t *testing.T) {
	cases := []struct {
		src      string
		kind     builder.SubstKind
		param    builder.ParamKind
		colon    bool
		withWord bool
	}{
		{"echo ${foo:-word}\n", builder.SubstDefault, builder.ParamVar, true, true},
		{"echo ${foo-word}\n", builder.SubstDefault, builder.ParamVar, false, true},
		{"echo ${foo:-}\n", builder.SubstDefault, builder.ParamVar, true, false},
		{"echo ${foo:=word}\n", builder.SubstAssign, builder.ParamVar, true, true},
		{"echo ${foo=word}\n", builder.SubstAssign, builder.ParamVar, false, true},
		{"echo ${foo:?word}\n", builder.SubstError, builder.ParamVar, true, true},
		{"echo ${foo?}\n", builder.SubstError, builder.ParamVar, false, false},
		{"echo ${foo:+word}\n", builder.SubstAlternative, builder.ParamVar, true, true},
		{"echo ${foo+word}\n", builder.SubstAlternative, builder.ParamVar, false, true},
		{"echo ${foo%word}\n", builder.SubstRemoveSmallestSuffix, builder.ParamVar, false, true},
		{"echo ${foo%%word}\n", builder.SubstRemoveLargestSuffix, builder.ParamVar, false, true},
		{"echo ${foo#word}\n", builder.SubstRemoveSmallestPrefix, builder.ParamVar, false, true},
		{"echo ${foo##word}\n", builder.SubstRemoveLargestPrefix, builder.ParamVar, false, true},
		{"echo ${@:-word}\n", builder.SubstDefault, builder.ParamAt, true, true},
		{"echo ${*:-word}\n", builder.SubstDefault, builder.ParamStar, true, true},
		{"echo ${!-word}\n", builder.SubstDefault, builder.ParamBang, false, true},
	}
	for _, c := range cases {
		t.Run(c.src, func(t *testing.T) {
			subst := soleArgSubst(t, c.src)
			assert.Equal(t, c.kind, subst.Kind)
			assert.Equal(t, c.param, subst.Param.Kind)
			assert.Equal(t, c.colon, subst.Colon)
			if c.withWord {
				require.NotNil(t, subst.Word)
			} else {
				assert.Nil(t, subst.Word)
			}
		})
	}
}

// TestParsePoundLengthCarveOuts pins the documented exceptions: ${#-} and
// ${#?} degrade to lengths of - and ?, while ${#:-word} stays a default
// substitution on parameter #.
func TestParsePoundLengthCarveOuts(t *testing.T) {
	subst := soleArgSubst(t, "echo ${#-}\n")
	assert.Equal(t, builder.SubstLen, subst.Kind)
	assert.Equal(t, builder.ParamDash, subst.Param.Kind)

	subst = soleArgSubst(t, "echo ${#?}\n")
	assert.Equal(t, builder.SubstLen, subst.Kind)
	assert.Equal(t, builder.ParamQuestion, subst.Param.Kind)

	subst = soleArgSubst(t, "echo ${#:-word}\n")
	assert.Equal(t, builder.SubstDefault, subst.Kind)
	assert.Equal(t, builder.ParamPound, subst.Param.Kind)
	assert.True(t, subst.Colon)
}

func TestParseBracedSigilsAndPositionals(t *testing.T) {
	param := soleArgParam(t, "echo ${@}\n")
	assert.Equal(t, builder.ParamAt, param.Kind)

	param = soleArgParam(t, "echo ${10}\n")
	assert.Equal(t, builder.ParamPositional, param.Kind)
	assert.Equal(t, uint32(10), param.Positional)

	param = soleArgParam(t, "echo ${foo}\n")
	assert.Equal(t, builder.ParamVar, param.Kind)
	assert.Equal(t, "foo", param.Name)
}

func TestParseCommandSubstitution(t *testing.T) {
	subst := soleArgSubst(t, "echo $(date)\n")
	assert.Equal(t, builder.SubstCommand, subst.Kind)
	cmds, ok := subst.Command.([]builder.Command)
	require.True(t, ok)
	require.Len(t, cmds, 1)
}

func TestParseEmptyCommandSubstitution(t *testing.T) {
	subst := soleArgSubst(t, "echo $()\n")
	assert.Equal(t, builder.SubstCommand, subst.Kind)
}

func TestParseBadSubstitution(t *testing.T) {
	_, err := parser.NewFromString("echo ${foo;bar}\n", nil).All()
	var bad *parser.BadSubst
	require.ErrorAs(t, err, &bad)
}

func TestParseBareDollarFallsBackToLiteral(t *testing.T) {
	sc := asSimple(t, parseAll(t, "echo $ x\n")[0])
	require.Len(t, sc.Args, 2)
	assert.Equal(t, "$", wordText(t, &sc.Args[0]))
}

func TestParseSubstitutionWordMayNest(t *testing.T) {
	subst := soleArgSubst(t, "echo ${foo:-$bar}\n")
	require.Equal(t, builder.SubstDefault, subst.Kind)
	require.NotNil(t, subst.Word)
	assert.Equal(t, builder.WKParam, subst.Word.Kind)
	assert.Equal(t, builder.ParamVar, subst.Word.Param.Kind)
	assert.Equal(t, "bar", subst.Word.Param.Name)
}
