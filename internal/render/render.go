package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/terpwatch/terpwatch/internal/course"
)

// maxTitleWidth bounds the course line: ID plus truncated title.
const maxTitleWidth = 45

// StaleContext selects the wording of the batched stale-data warning.
type StaleContext int

const (
	// StaleInitial is a first run whose initial fetch was partly stale.
	StaleInitial StaleContext = iota
	// StaleWithChanges accompanies an update notification.
	StaleWithChanges
	// StaleNoChanges is a no-change run that still had fetch problems.
	StaleNoChanges
)

type sectionKey struct {
	courseID  string
	sectionID string
}

// Render formats the full snapshot as a notification body, annotating the
// sections affected by changes. With no changes it produces the
// initial-state variant: same per-section lines, no bolding, no tags.
// Courses in starred get a star prefix in every rendering path.
func Render(snap course.Snapshot, changes []course.Change, starred map[string]bool) string {
	if len(snap) == 0 {
		return "**State Message**: No courses found/parsed."
	}

	lookup := make(map[sectionKey][]course.Change)
	for _, c := range changes {
		key := sectionKey{c.CourseID, c.SectionID}
		lookup[key] = append(lookup[key], c)
	}

	var lines []string
	if len(changes) > 0 {
		lines = append(lines, "**📊 Course Section Update:**")
	} else {
		lines = append(lines, fmt.Sprintf("**📊 Initial State (%d courses monitored):**", len(snap)))
	}

	for _, courseID := range snap.CourseIDs() {
		rec := snap[courseID]
		star := ""
		if starred[courseID] {
			star = "⭐ "
		}
		lines = append(lines, fmt.Sprintf("\n%s**`%s`** (%s):", star, courseID, shortTitle(courseID, rec.Title)))

		if rec.FetchError {
			lines = append(lines, "  • ⚠️ *(Fetch Error: Data may be stale)*")
			continue
		}
		if len(rec.Sections) == 0 {
			lines = append(lines, "  • *(No sections found/parsed.)*")
			continue
		}

		for _, sectionID := range rec.SectionIDs() {
			sectionChanges := lookup[sectionKey{courseID, sectionID}]
			lines = append(lines, sectionLine(sectionID, rec.Sections[sectionID], sectionChanges))
		}
	}

	if removed := removedBlock(changes, starred); len(removed) > 0 {
		lines = append(lines, removed...)
	}

	return strings.Join(lines, "\n")
}

// sectionLine formats one section, bolding the fields that changed and
// appending structural tags.
func sectionLine(sectionID string, data course.SectionRecord, changes []course.Change) string {
	openStr := fmt.Sprintf("Open: %s", data.Open)
	totalStr := fmt.Sprintf("Total: %s", data.Total)
	waitStr := fmt.Sprintf("Waitlist: %s", data.Waitlist)
	instrStr := fmt.Sprintf("Instr: %s", data.Instructor)

	var tags []string
	opened := false

	for _, c := range changes {
		switch c.Kind {
		case course.SeatsOpened:
			openStr = fmt.Sprintf("**Open: %s**%s", c.NewCount, deltaNote(c))
			tags = append(tags, "🟢 OPENED")
			opened = true
		case course.OpenChange:
			openStr = fmt.Sprintf("**Open: %s**%s", c.NewCount, deltaNote(c))
		case course.TotalChange:
			totalStr = fmt.Sprintf("**Total: %s**%s", c.NewCount, deltaNote(c))
		case course.WaitlistChange:
			waitStr = fmt.Sprintf("**Waitlist: %s**%s", c.NewCount, deltaNote(c))
		case course.InstructorChange:
			instrStr = fmt.Sprintf("**Instr: %s** (was %s)", c.NewInstructor, c.OldInstructor)
		case course.NewSection:
			tags = append(tags, "➕ NEW")
		case course.NewCourseSection:
			tags = append(tags, "✨ NEW CRS")
		case course.NewCMSC4Course:
			tags = append(tags, "🚨 NEW CMSC4")
		}
	}

	glyph := ""
	switch {
	case opened:
		glyph = "🟢 "
	case data.Open.Known && data.Total.Known:
		glyph = statusGlyph(data.Open.N, data.Total.N)
	case data.Open.Known && data.Open.N == 0:
		// Closed derives from the open count alone; an unknown total
		// doesn't change that no seats are available.
		glyph = "🔴 "
	}

	tagsStr := ""
	if len(tags) > 0 {
		tagsStr = fmt.Sprintf(" *(%s)*", strings.Join(tags, ", "))
	}

	return fmt.Sprintf("  • %s`%s`: %s, %s, %s, %s%s",
		glyph, sectionID, openStr, totalStr, waitStr, instrStr, tagsStr)
}

// statusGlyph maps known open/total counts to a seat-status indicator.
// Fully open sections get no glyph.
func statusGlyph(open, total int) string {
	switch {
	case open == 0:
		return "🔴 "
	case open > 0 && open < total:
		return "⏳ "
	default:
		return ""
	}
}

// deltaNote renders the signed change for a numeric field when both values
// are known. A zero delta is shown only for the zero-to-positive open
// transition, which is notable regardless.
func deltaNote(c course.Change) string {
	d, ok := course.Delta(c.OldCount, c.NewCount)
	if !ok {
		return ""
	}
	if d == 0 && c.Kind != course.SeatsOpened {
		return ""
	}
	return fmt.Sprintf(" (%+dd)", d)
}

// removedBlock formats SectionRemoved changes as a trailing code block,
// kept separate from the per-section list.
func removedBlock(changes []course.Change, starred map[string]bool) []string {
	var removed []string
	for _, c := range changes {
		if c.Kind != course.SectionRemoved {
			continue
		}
		star := ""
		if starred[c.CourseID] {
			star = "⭐ "
		}
		removed = append(removed, fmt.Sprintf(
			"%s❌ REMOVED: `%s` Sec `%s` (was Open: %s, Total: %s, Waitlist: %s, Instr: %s)",
			star, c.CourseID, c.SectionID,
			c.Section.Open, c.Section.Total, c.Section.Waitlist, c.Section.Instructor))
	}
	if len(removed) == 0 {
		return nil
	}

	block := []string{"\n**Removed Sections:**", "```"}
	block = append(block, removed...)
	block = append(block, "```")
	return block
}

// shortTitle truncates a course title so the course line stays compact.
func shortTitle(courseID, title string) string {
	if title == "" {
		return "Unknown Title"
	}
	limit := maxTitleWidth - len(courseID)
	if limit < 0 {
		limit = 0
	}
	if len(title) <= limit {
		return title
	}
	return title[:limit] + "..."
}

// NoUpdates formats the no-change notice.
func NoUpdates(t time.Time) string {
	return fmt.Sprintf("✅ No course section updates found at %s.", t.UTC().Format("15:04:05 UTC"))
}

// StaleWarning formats the single batched warning naming every course whose
// data could not be refreshed this run.
func StaleWarning(stale []string, context StaleContext) string {
	joined := strings.Join(stale, ", ")
	switch context {
	case StaleInitial:
		return fmt.Sprintf("⚠️ Initial fetch failed/stale for: %s.", joined)
	case StaleNoChanges:
		return fmt.Sprintf("⚠️ No changes, but fetch failed/stale for: %s.", joined)
	default:
		return fmt.Sprintf("⚠️ Some course data may be stale due to fetch errors: %s.", joined)
	}
}
