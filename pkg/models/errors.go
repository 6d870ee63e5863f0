package models

import "fmt"

// UnsupportedFormatError reports a selector the system does not know:
// an unknown archive layout or an unknown render format. It is fatal and
// surfaced immediately; nothing guesses a fallback.
type UnsupportedFormatError struct {
	Kind  string // "layout" or "render format"
	Value string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported %s: %q", e.Kind, e.Value)
}
