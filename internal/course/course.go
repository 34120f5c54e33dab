package course

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Seats is a seat count that may be unknown. A count scraped from a page
// that failed to parse is carried as unknown rather than as zero or a
// sentinel value, and unknown counts are never compared numerically.
type Seats struct {
	N     int
	Known bool
}

// KnownSeats returns a known seat count.
func KnownSeats(n int) Seats {
	return Seats{N: n, Known: true}
}

// UnknownSeats returns the unknown seat count.
func UnknownSeats() Seats {
	return Seats{}
}

// Delta returns new minus old when both counts are known.
func Delta(old, new Seats) (int, bool) {
	if !old.Known || !new.Known {
		return 0, false
	}
	return new.N - old.N, true
}

// String renders the count, or "?" when unknown.
func (s Seats) String() string {
	if !s.Known {
		return "?"
	}
	return strconv.Itoa(s.N)
}

// MarshalJSON encodes an unknown count as null.
func (s Seats) MarshalJSON() ([]byte, error) {
	if !s.Known {
		return []byte("null"), nil
	}
	return json.Marshal(s.N)
}

// UnmarshalJSON decodes null (or a missing field) as unknown.
func (s *Seats) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Seats{}
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("parsing seat count: %w", err)
	}
	*s = Seats{N: n, Known: true}
	return nil
}

// SectionRecord holds the observed state of a single course section.
type SectionRecord struct {
	Open       Seats  `json:"open"`
	Total      Seats  `json:"total"`
	Waitlist   Seats  `json:"waitlist"`
	Instructor string `json:"instructor"`
}

// CourseRecord holds the observed state of a course and its sections.
// When FetchError is set the current run could not retrieve the course's
// section data and Sections must not be trusted for diffing.
type CourseRecord struct {
	Title      string                   `json:"title"`
	Sections   map[string]SectionRecord `json:"sections"`
	FetchError bool                     `json:"fetch_error,omitempty"`
}

// SectionIDs returns the record's section IDs in sorted order.
func (r CourseRecord) SectionIDs() []string {
	ids := make([]string, 0, len(r.Sections))
	for id := range r.Sections {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Snapshot maps course IDs to their observed state at one run. Iteration
// always goes through CourseIDs so output is deterministic; JSON encoding
// sorts map keys, so persisted snapshots are diff-friendly as well.
type Snapshot map[string]CourseRecord

// CourseIDs returns the snapshot's course IDs in sorted order.
func (s Snapshot) CourseIDs() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasSections reports whether any course in the snapshot carries at least
// one section.
func (s Snapshot) HasSections() bool {
	for _, rec := range s {
		if len(rec.Sections) > 0 {
			return true
		}
	}
	return false
}

// SectionCount returns the total number of sections across all courses.
func (s Snapshot) SectionCount() int {
	n := 0
	for _, rec := range s {
		n += len(rec.Sections)
	}
	return n
}
