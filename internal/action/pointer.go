package action

import (
	"errors"
	"fmt"
)

// errUnknownBackend is returned by NewPointer for an unrecognised name.
var errUnknownBackend = errors.New("unknown pointer backend")

// NewPointer returns the Pointer registered under name. browser is only used
// by the cdp backend and display only by the os backend.
func NewPointer(name, display string, browser Executor) (Pointer, error) {
	switch name {
	case "cdp":
		return CDPPointer{Browser: browser}, nil
	case "os":
		return NewOSPointer(display), nil
	}
	return nil, fmt.Errorf("%w: %q", errUnknownBackend, name)
}
