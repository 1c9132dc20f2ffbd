// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 LucidShell Contributors

package ast

import (
	"fmt"
	"strconv"

	"github.com/lucidshell/posixsh/builder"
)

// DisplayParameter renders a Parameter the way the default AST's display
// would: `$sigil` for the short forms ($@ $* $# $? $- $$ $! and single-digit
// positionals), `${name}` for variables, and `${N}` for positionals with
// two or more digits.
func DisplayParameter(p Parameter) string {
	switch p.Kind {
	case builder.ParamAt:
		return "$@"
	case builder.ParamStar:
		return "$*"
	case builder.ParamPound:
		return "$#"
	case builder.ParamQuestion:
		return "$?"
	case builder.ParamDash:
		return "$-"
	case builder.ParamDollar:
		return "$$"
	case builder.ParamBang:
		return "$!"
	case builder.ParamPositional:
		if p.Positional <= 9 {
			return "$" + strconv.FormatUint(uint64(p.Positional), 10)
		}
		return "${" + strconv.FormatUint(uint64(p.Positional), 10) + "}"
	case builder.ParamVar:
		return "${" + p.Name + "}"
	default:
		return fmt.Sprintf("${%v}", p.Kind)
	}
}
