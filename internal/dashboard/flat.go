package dashboard

import "sctl/internal/grid"

// EntryKind discriminates the two flat-view entry shapes.
type EntryKind int

const (
	EntryService EntryKind = iota
	EntryUnreachable
)

// FlatEntry is one line of the main screen: either a grid cell or an
// unreachable host. Derived from the grid on every access, never stored.
type FlatEntry struct {
	Kind    EntryKind
	HostIdx int
	SvcIdx  int    // index into the host's row; meaningless for EntryUnreachable
	Reason  string // failure reason for EntryUnreachable
}

// Flatten produces the triage-ordered flat view: unreachable hosts and
// failed cells first, keeping their relative order, then everything else
// in host-then-column order. Operators see the worst states without
// scrolling.
func Flatten(r grid.Result) []FlatEntry {
	var top, rest []FlatEntry

	for hostIdx := range r.Rows {
		if reason, ok := r.Unreachable[hostIdx]; ok {
			top = append(top, FlatEntry{
				Kind:    EntryUnreachable,
				HostIdx: hostIdx,
				Reason:  reason,
			})
			continue
		}
		for svcIdx, cell := range r.Rows[hostIdx] {
			entry := FlatEntry{
				Kind:    EntryService,
				HostIdx: hostIdx,
				SvcIdx:  svcIdx,
			}
			if cell.Status.Triage() {
				top = append(top, entry)
			} else {
				rest = append(rest, entry)
			}
		}
	}

	return append(top, rest...)
}
