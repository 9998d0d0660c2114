package runner

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	colorReset  = "\x1b[0m"
	colorRed    = "\x1b[31m"
	colorYellow = "\x1b[33m"
)

// Reporter prints one line per test case and, in verbose mode, the input
// script with an expected/actual diff for failures.
type Reporter struct {
	w       io.Writer
	verbose bool
	color   bool
}

// NewReporter colours output only when w is a terminal.
func NewReporter(w io.Writer, verbose bool) *Reporter {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	return &Reporter{w: w, verbose: verbose, color: color}
}

func (rp *Reporter) paint(color, s string) string {
	if !rp.color {
		return s
	}
	return color + s + colorReset
}

// Report writes the verdict for res.
func (rp *Reporter) Report(res *Result) {
	name := res.Case.Name
	if res.Passed() {
		fmt.Fprintf(rp.w, "%s: %s\n", name, rp.paint(colorYellow, "PASSED"))
		return
	}

	msg := res.Outcome.Error()
	if res.Outcome.Kind == Mismatch {
		msg = fmt.Sprintf("mismatch at position %d: expected %s got %s",
			res.Outcome.Index,
			rp.paint(colorYellow, res.Outcome.Expected),
			rp.paint(colorRed, res.Outcome.Got))
	}
	fmt.Fprintf(rp.w, "%s: %s: %s\n", name, rp.paint(colorRed, "ERROR"), msg)

	if rp.verbose {
		fmt.Fprintf(rp.w, "Input:\n%s\n\n%-20s %s\n%s",
			res.Case.Script, "Expected Output:", "Output:",
			rp.diff(res.Case.Expected, res.Captured))
	}
}

// Summary writes the closing tally.
func (rp *Reporter) Summary(sum Summary) {
	line := fmt.Sprintf("%d passed, %d failed", sum.Passed, sum.Failed)
	if sum.Aborted {
		line += " (aborted)"
	}
	fmt.Fprintln(rp.w, line)
}

// diff aligns expected and got side by side; rows that differ are
// highlighted.
func (rp *Reporter) diff(expected, got []string) string {
	n := max(len(expected), len(got))

	var sb strings.Builder
	for i := 0; i < n; i++ {
		var e, o string
		if i < len(expected) {
			e = expected[i]
		}
		if i < len(got) {
			o = got[i]
		}

		if e == o {
			fmt.Fprintf(&sb, "%-20s %s\n", e, o)
			continue
		}
		fmt.Fprintf(&sb, "%s %s\n", rp.paint(colorYellow, fmt.Sprintf("%-20s", e)), rp.paint(colorRed, o))
	}
	return sb.String()
}
