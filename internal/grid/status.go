package grid

import "strings"

// StatusKind enumerates the closed set of normalized service states.
type StatusKind int

const (
	StatusUnknown StatusKind = iota
	StatusActive
	StatusInactive
	StatusFailed
	StatusNotFound
	StatusError
)

// Status is a normalized service state. Text carries the raw remote output
// for StatusError; it is domain data shown to the operator, not a Go error.
type Status struct {
	Kind StatusKind
	Text string
}

// Convenience constructors for the payload-free kinds.
var (
	Unknown  = Status{Kind: StatusUnknown}
	Active   = Status{Kind: StatusActive}
	Inactive = Status{Kind: StatusInactive}
	Failed   = Status{Kind: StatusFailed}
	NotFound = Status{Kind: StatusNotFound}
)

// StatusErrorf builds an error-carrying status from raw remote text.
func StatusErrorf(text string) Status {
	return Status{Kind: StatusError, Text: text}
}

// Classify maps one line of remote status output to a Status.
// It is total: any input produces a status, never an error. This is the
// single point of truth for interpreting `systemctl is-active` output.
func Classify(raw string) Status {
	s := strings.ToLower(strings.TrimSpace(raw))

	switch s {
	case "active":
		return Active
	case "inactive":
		return Inactive
	case "failed":
		return Failed
	case "not-found", "not found":
		return NotFound
	case "":
		return Unknown
	}

	if strings.Contains(s, "could not be found") || strings.Contains(s, "not-found") {
		return NotFound
	}

	return StatusErrorf(strings.TrimSpace(raw))
}

// Display returns the operator-facing text for a status.
func (s Status) Display() string {
	switch s.Kind {
	case StatusUnknown:
		return "???"
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	case StatusFailed:
		return "FAILED"
	case StatusNotFound:
		return "not found"
	case StatusError:
		return s.Text
	default:
		return "???"
	}
}

// Triage reports whether this status ranks above normal states in the
// dashboard ordering. Only Failed does; errored cells stay in place so the
// raw text is read in context.
func (s Status) Triage() bool {
	return s.Kind == StatusFailed
}
