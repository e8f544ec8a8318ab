package output

import (
	"io"
	"strings"
)

const rule = "----------------------------------------------------"

// Console prints each record between two rules.
type Console struct {
	w io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

func (*Console) Prepare() error { return nil }

func (c *Console) Write(r Record) error {
	var b strings.Builder
	b.WriteString(rule + "\n")
	if err := r.body(&b); err != nil {
		return err
	}
	b.WriteString(rule + "\n")
	_, err := io.WriteString(c.w, b.String())
	return err
}

func (*Console) Location() string { return "console" }
