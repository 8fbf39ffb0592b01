// Package diagnostics formats the error reports that every other package
// in this compiler uses to describe a terminal, user-facing failure.
//
// There are two entry points, matching the two call-sites the original
// tokenizer/parser/codegen used: a message with no particular source
// location, and a message anchored to a byte offset within the source
// text being compiled. Both are terminal - this compiler stops on the
// first error it sees, so there is no notion of a recoverable diagnostic.
package diagnostics

import (
	"strings"

	"github.com/pkg/errors"
)

// Report builds an error carrying just a formatted message, with no
// source location attached.
func Report(format string, args ...interface{}) error {
	return errors.Errorf(format, args...)
}

// ReportAt builds an error anchored to byte offset pos within source.
// The resulting error's message reproduces source on its own line,
// followed by a line of pos spaces, "^___ " and the formatted message -
// the exact stderr shape described for located errors.
func ReportAt(source string, pos int, format string, args ...interface{}) error {
	var b strings.Builder
	b.WriteString(source)
	b.WriteByte('\n')
	b.WriteString(strings.Repeat(" ", pos))
	b.WriteString("^___ ")
	b.WriteString(errors.Errorf(format, args...).Error())

	// errors.New (rather than fmt.Errorf) keeps the returned error a
	// first-class pkg/errors value, so callers further up the stack can
	// still errors.Cause/errors.Is it without us prefixing any extra
	// context that would disturb the required message text.
	return errors.New(b.String())
}
