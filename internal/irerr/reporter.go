package irerr

import (
	"fmt"

	"github.com/fatih/color"
)

// ProgrammerError is a structured panic value carrying a code and
// detail, so a recovering caller (typically a test) can inspect what
// went wrong rather than pattern-match a panic string.
type ProgrammerError struct {
	Code   Code
	Detail string
	Dump   string // unit dump, set only for verification failures
}

func (e *ProgrammerError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %s", e.Code, description(e.Code))
	}
	return fmt.Sprintf("%s: %s: %s", e.Code, description(e.Code), e.Detail)
}

// Fail formats a colorized diagnostic header to stderr and panics
// with a *ProgrammerError carrying code and detail. There is no
// source text backing this container, so there is no line/column
// context to render, only the code, the level color, and the detail
// string.
func Fail(code Code, detail string) {
	panic(Format(code, detail, ""))
}

// FailWithDump is Fail for verification failures, which additionally
// carry a textual dump of the offending unit.
func FailWithDump(code Code, detail, dump string) {
	panic(Format(code, detail, dump))
}

// Format renders the colored header line and returns the
// *ProgrammerError that Fail/FailWithDump panic with; exported so
// callers that want to print without unwinding can reuse the same
// formatting.
func Format(code Code, detail, dump string) *ProgrammerError {
	bold := color.New(color.FgRed, color.Bold).SprintFunc()
	dim := color.New(color.Faint).SprintFunc()

	header := fmt.Sprintf("%s %s: %s", bold("error"), dim(string(code)), description(code))
	if detail != "" {
		header += ": " + detail
	}
	fmt.Fprintln(colorOutput, header)
	if dump != "" {
		fmt.Fprintln(colorOutput, dim("--- unit dump ---"))
		fmt.Fprintln(colorOutput, dump)
	}

	return &ProgrammerError{Code: code, Detail: detail, Dump: dump}
}

// colorOutput is a package variable rather than a hardcoded os.Stderr
// so tests can redirect it without touching global process state.
var colorOutput = color.Error
