package bren

import (
	"fmt"
	"strings"
)

// FormatScript renders the plan as a POSIX shell script of mv commands, so
// a batch can be reviewed or run elsewhere. Refused entries become comments.
func FormatScript(plan *ExecutionPlan) string {
	var b strings.Builder
	for _, r := range plan.Renames {
		if r.Reason != "" {
			fmt.Fprintf(&b, "# skipped %q: %s\n", r.OldPath, r.Reason)
			continue
		}
		fmt.Fprintf(&b, "mv -n -- %s %s\n", shellQuote(r.OldPath), shellQuote(r.NewPath))
	}
	return b.String()
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
