package course

import "strings"

// ChangeKind classifies a detected change.
type ChangeKind string

const (
	// NewCourseSection is a section of a course seen for the first time.
	NewCourseSection ChangeKind = "NEW_COURSE_SECTION"
	// NewCMSC4Course is a section of a first-seen course whose ID carries
	// the literal "CMSC4" prefix. The check is a string prefix, not a
	// course-level parse.
	NewCMSC4Course ChangeKind = "NEW_CMSC4_COURSE"
	// NewSection is a section appearing under an already-known course.
	NewSection ChangeKind = "NEW_SECTION"
	// SeatsOpened is an open-seat count going from zero to positive.
	SeatsOpened ChangeKind = "SEATS_OPENED"
	// OpenChange is any other change between known open-seat counts.
	OpenChange ChangeKind = "OPEN_CHANGE"
	// TotalChange is a change between known total-seat counts.
	TotalChange ChangeKind = "TOTAL_CHANGE"
	// WaitlistChange is a change between known waitlist counts.
	WaitlistChange ChangeKind = "WAITLIST_CHANGE"
	// InstructorChange is an instructor change where the old value was
	// meaningfully observed.
	InstructorChange ChangeKind = "INSTR_CHANGE"
	// SectionRemoved is a previously-known section missing from the
	// current run.
	SectionRemoved ChangeKind = "SECTION_REMOVED"
)

const cmsc4Prefix = "CMSC4"

// Change is a single classified difference between two snapshots. Section
// carries the current section data, except for SectionRemoved where only
// the old data exists. Field and the old/new pairs are set only for
// field-level changes.
type Change struct {
	Kind      ChangeKind
	CourseID  string
	Title     string
	SectionID string
	Section   SectionRecord

	Field         string
	OldCount      Seats
	NewCount      Seats
	OldInstructor string
	NewInstructor string
}

// Diff compares two snapshots and returns the classified changes. It is a
// pure function: courses are visited in sorted ID order, sections in sorted
// section-ID order, and fields in the fixed order open, total, waitlist,
// instructor, so the result is deterministic. Courses marked FetchError in
// new contribute no changes. All additions and field changes are emitted
// before any SectionRemoved.
func Diff(old, new Snapshot) []Change {
	var changes []Change

	for _, courseID := range new.CourseIDs() {
		rec := new[courseID]
		if rec.FetchError {
			continue
		}

		oldRec, seen := old[courseID]
		if !seen {
			kind := NewCourseSection
			if strings.HasPrefix(courseID, cmsc4Prefix) {
				kind = NewCMSC4Course
			}
			for _, sectionID := range rec.SectionIDs() {
				changes = append(changes, Change{
					Kind:      kind,
					CourseID:  courseID,
					Title:     rec.Title,
					SectionID: sectionID,
					Section:   rec.Sections[sectionID],
				})
			}
			continue
		}

		for _, sectionID := range rec.SectionIDs() {
			sec := rec.Sections[sectionID]
			oldSec, ok := oldRec.Sections[sectionID]
			if !ok {
				changes = append(changes, Change{
					Kind:      NewSection,
					CourseID:  courseID,
					Title:     rec.Title,
					SectionID: sectionID,
					Section:   sec,
				})
				continue
			}
			changes = append(changes, compareSection(courseID, rec.Title, sectionID, oldSec, sec)...)
		}
	}

	// Removals run after every addition and field change has been emitted.
	for _, courseID := range old.CourseIDs() {
		rec, ok := new[courseID]
		if !ok || rec.FetchError {
			continue
		}
		oldRec := old[courseID]
		for _, sectionID := range oldRec.SectionIDs() {
			if _, ok := rec.Sections[sectionID]; ok {
				continue
			}
			changes = append(changes, Change{
				Kind:      SectionRemoved,
				CourseID:  courseID,
				Title:     oldRec.Title,
				SectionID: sectionID,
				Section:   oldRec.Sections[sectionID],
			})
		}
	}

	return changes
}

// compareSection emits field-level changes for a section present in both
// snapshots. A comparison involving an unknown count on either side is
// suppressed; the zero-to-positive open transition takes priority over the
// generic open change, so a section emits at most one open-field change.
func compareSection(courseID, title, sectionID string, old, cur SectionRecord) []Change {
	var changes []Change
	base := Change{
		CourseID:  courseID,
		Title:     title,
		SectionID: sectionID,
		Section:   cur,
	}

	switch {
	case old.Open.Known && cur.Open.Known && old.Open.N == 0 && cur.Open.N > 0:
		c := base
		c.Kind = SeatsOpened
		c.Field = "open"
		c.OldCount = old.Open
		c.NewCount = cur.Open
		changes = append(changes, c)
	case old.Open.Known && cur.Open.Known && old.Open.N != cur.Open.N:
		c := base
		c.Kind = OpenChange
		c.Field = "open"
		c.OldCount = old.Open
		c.NewCount = cur.Open
		changes = append(changes, c)
	}

	if old.Total.Known && cur.Total.Known && old.Total.N != cur.Total.N {
		c := base
		c.Kind = TotalChange
		c.Field = "total"
		c.OldCount = old.Total
		c.NewCount = cur.Total
		changes = append(changes, c)
	}

	if old.Waitlist.Known && cur.Waitlist.Known && old.Waitlist.N != cur.Waitlist.N {
		c := base
		c.Kind = WaitlistChange
		c.Field = "waitlist"
		c.OldCount = old.Waitlist
		c.NewCount = cur.Waitlist
		changes = append(changes, c)
	}

	// An empty old instructor means the field was never meaningfully
	// observed, so a change cannot be distinguished from a fetch artifact.
	if old.Instructor != cur.Instructor && old.Instructor != "" {
		c := base
		c.Kind = InstructorChange
		c.Field = "instructor"
		c.OldInstructor = old.Instructor
		c.NewInstructor = cur.Instructor
		changes = append(changes, c)
	}

	return changes
}
