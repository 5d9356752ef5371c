// Package report renders application-level errors: one styled "error" line
// per failure, followed by any hint lines.
package report

import (
	"fmt"
	"io"

	"github.com/arthur-debert/typeset/pkg/errors"
	"github.com/arthur-debert/typeset/pkg/style"
	"github.com/arthur-debert/typeset/pkg/terminal"
)

// Reporter prints errors to a terminal
type Reporter struct {
	term *terminal.Terminal
}

// New creates a Reporter writing to term
func New(term *terminal.Terminal) *Reporter {
	return &Reporter{term: term}
}

// Report prints "error: <message>" and then one "hint: <hint>" line per
// hint. The stream is held for the whole message.
func (r *Reporter) Report(message string, hints ...string) error {
	out := r.term.Acquire()
	defer out.Release()

	if err := writeLabeled(out, style.Error, "error", message); err != nil {
		return err
	}
	for _, hint := range hints {
		if err := writeLabeled(out, style.Hint, "hint", hint); err != nil {
			return err
		}
	}
	return nil
}

// ReportError prints err's message together with the hints it carries
func (r *Reporter) ReportError(err error) error {
	return r.Report(err.Error(), errors.Hints(err)...)
}

func writeLabeled(out *terminal.Output, styleName, label, text string) error {
	out.SetStyle(styleName)
	if _, err := io.WriteString(out, label); err != nil {
		return err
	}
	out.Reset()
	_, err := fmt.Fprintf(out, ": %s\n", text)
	return err
}
