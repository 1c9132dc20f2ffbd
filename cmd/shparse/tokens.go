// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lucidshell/posixsh/lexer"
	"github.com/lucidshell/posixsh/token"
)

// newTokensCmd builds the `shparse tokens` subcommand: dump the raw token
// stream (kind + rendering + source position) for debugging the lexer,
// one line per token.
func newTokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [files...]",
		Short: "Dump the raw lexer token stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			files, err := expandArgs(args, cfg.Exclude)
			if err != nil {
				return wrapParseError(err)
			}
			for _, f := range files {
				src, err := readSource(f)
				if err != nil {
					return wrapParseError(err)
				}
				dumpTokens(cmd.OutOrStdout(), src)
			}
			return nil
		},
	}
}

func dumpTokens(w io.Writer, src string) {
	lx := lexer.NewFromString(src)
	pos := token.InitialPos()
	for {
		t, ok := lx.Next()
		if !ok {
			return
		}
		fmt.Fprintf(w, "%d:%d\t%s\t%q\n", pos.Line, pos.Col, kindName(t.Kind), t.String())
		pos = pos.Advance(t)
	}
}

func kindName(k token.Kind) string {
	switch k {
	case token.Newline:
		return "Newline"
	case token.Whitespace:
		return "Whitespace"
	case token.Semi:
		return "Semi"
	case token.DSemi:
		return "DSemi"
	case token.Amp:
		return "Amp"
	case token.AndIf:
		return "AndIf"
	case token.Pipe:
		return "Pipe"
	case token.OrIf:
		return "OrIf"
	case token.ParenOpen:
		return "ParenOpen"
	case token.ParenClose:
		return "ParenClose"
	case token.CurlyOpen:
		return "CurlyOpen"
	case token.CurlyClose:
		return "CurlyClose"
	case token.SquareOpen:
		return "SquareOpen"
	case token.SquareClose:
		return "SquareClose"
	case token.Bang:
		return "Bang"
	case token.Tilde:
		return "Tilde"
	case token.Backslash:
		return "Backslash"
	case token.Backtick:
		return "Backtick"
	case token.SingleQuote:
		return "SingleQuote"
	case token.DoubleQuote:
		return "DoubleQuote"
	case token.Dollar:
		return "Dollar"
	case token.Equals:
		return "Equals"
	case token.Plus:
		return "Plus"
	case token.Dash:
		return "Dash"
	case token.Pound:
		return "Pound"
	case token.Percent:
		return "Percent"
	case token.Colon:
		return "Colon"
	case token.At:
		return "At"
	case token.Star:
		return "Star"
	case token.Question:
		return "Question"
	case token.Less:
		return "Less"
	case token.Great:
		return "Great"
	case token.DLess:
		return "DLess"
	case token.DGreat:
		return "DGreat"
	case token.LessAnd:
		return "LessAnd"
	case token.GreatAnd:
		return "GreatAnd"
	case token.LessAndDash:
		return "LessAndDash"
	case token.GreatAndDash:
		return "GreatAndDash"
	case token.DLessDash:
		return "DLessDash"
	case token.Clobber:
		return "Clobber"
	case token.LessGreat:
		return "LessGreat"
	case token.ParamAt:
		return "ParamAt"
	case token.ParamStar:
		return "ParamStar"
	case token.ParamPound:
		return "ParamPound"
	case token.ParamQuestion:
		return "ParamQuestion"
	case token.ParamDash:
		return "ParamDash"
	case token.ParamDollar:
		return "ParamDollar"
	case token.ParamBang:
		return "ParamBang"
	case token.ParamPositional:
		return "ParamPositional"
	case token.Name:
		return "Name"
	case token.Literal:
		return "Literal"
	case token.Assignment:
		return "Assignment"
	case token.SingleQuoted:
		return "SingleQuoted"
	case token.Comment:
		return "Comment"
	default:
		return "Unknown"
	}
}
