// Package splice applies a set of byte-range replacements to source text
// in a single forward pass, merging nested/overlapping ranges so an outer
// replacement always wins over anything inside it.
package splice

import (
	"sort"

	"github.com/phobologic/skim/internal/safety"
	"github.com/phobologic/skim/internal/skimerr"
)

// Replacement is a half-open byte range [Start, End) to be replaced by
// Literal. Start and End must fall on UTF-8 character boundaries of the
// source they were collected against.
type Replacement struct {
	Start   int
	End     int
	Literal string
}

// Apply merges rs and rewrites source into a single buffer. Ranges are
// sorted by start ascending, end descending, so that when two ranges
// share a start the outer (longer) one sorts first; any range whose
// start falls before the last accepted range's end is treated as nested
// and skipped, since its parent already covers it. Every boundary is
// verified against source before use.
func Apply(source []byte, rs []Replacement) ([]byte, error) {
	if len(rs) == 0 {
		return append([]byte(nil), source...), nil
	}

	sorted := make([]Replacement, len(rs))
	copy(sorted, rs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Start != sorted[j].Start {
			return sorted[i].Start < sorted[j].Start
		}
		return sorted[i].End > sorted[j].End
	})

	out := make([]byte, 0, len(source))
	lastPos := 0

	for _, r := range sorted {
		if r.End < r.Start {
			return nil, skimerr.Newf(skimerr.ParseError, "invalid replacement range: start=%d end=%d", r.Start, r.End)
		}
		if r.End > len(source) {
			return nil, skimerr.Newf(skimerr.ParseError, "replacement range exceeds source length: end=%d len=%d", r.End, len(source))
		}
		// Nested inside an already-applied outer replacement: its
		// parent already covers this span.
		if r.Start < lastPos {
			continue
		}
		if err := safety.CheckBoundary(source, r.Start, r.End); err != nil {
			return nil, err
		}

		out = append(out, source[lastPos:r.Start]...)
		out = append(out, r.Literal...)
		lastPos = r.End
	}

	if err := safety.CheckBoundary(source, lastPos, lastPos); err != nil {
		return nil, err
	}
	out = append(out, source[lastPos:]...)

	return out, nil
}
