// Package output writes task records to the console or to a results file.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/webtesting/sitetasks/internal/app"
)

// Record is one task's contribution to the output.
type Record struct {
	Number  int
	Message string
	Lines   []string
	Err     error
}

// Title returns the record header, e.g. "<TASK 2>".
func (r Record) Title() string {
	return fmt.Sprintf("<TASK %d>", r.Number)
}

// Headline returns the message, with a %d verb filled by the line count.
func (r Record) Headline() string {
	if strings.Contains(r.Message, "%d") {
		return fmt.Sprintf(r.Message, len(r.Lines))
	}
	return r.Message
}

// body writes the title, headline and lines, each newline-terminated.
func (r Record) body(w io.Writer) error {
	var b strings.Builder
	b.WriteString(r.Title())
	b.WriteByte('\n')
	b.WriteString(r.Headline())
	b.WriteByte('\n')
	for _, l := range r.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	if r.Err != nil {
		fmt.Fprintf(&b, "Task failed: %v\n", r.Err)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// Sink receives records in task order.
type Sink interface {
	// Prepare readies the destination before the first record.
	Prepare() error
	Write(r Record) error
	// Location describes where records end up, for the final log line.
	Location() string
}

// New returns the sink selected by cfg. Console output goes to stdout.
func New(cfg app.OutputConfig, stdout io.Writer) (Sink, error) {
	switch cfg.Mode {
	case app.OutputConsole:
		return NewConsole(stdout), nil
	case app.OutputFile:
		return NewFile(cfg.Path), nil
	}
	return nil, fmt.Errorf("unknown output mode %q", cfg.Mode)
}
