package course

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func section(open, total, waitlist Seats, instructor string) SectionRecord {
	return SectionRecord{Open: open, Total: total, Waitlist: waitlist, Instructor: instructor}
}

func singleSection(title, sectionID string, sec SectionRecord) CourseRecord {
	return CourseRecord{Title: title, Sections: map[string]SectionRecord{sectionID: sec}}
}

func TestDiffIdenticalSnapshots(t *testing.T) {
	snap := Snapshot{
		"CMSC433": singleSection("Programming Language Technologies", "0101",
			section(KnownSeats(0), KnownSeats(35), KnownSeats(12), "M. Hicks")),
		"CMSC320": singleSection("Introduction to Data Science", "0201",
			section(UnknownSeats(), KnownSeats(200), UnknownSeats(), "Instructor: TBA")),
	}

	if changes := Diff(snap, snap); len(changes) != 0 {
		t.Errorf("expected no changes for identical snapshots, got %d: %+v", len(changes), changes)
	}
}

func TestDiffSeatsOpened(t *testing.T) {
	old := Snapshot{"CMSC436": singleSection("Handheld Systems", "0101",
		section(KnownSeats(0), KnownSeats(5), KnownSeats(3), "A. Memon"))}
	cur := Snapshot{"CMSC436": singleSection("Handheld Systems", "0101",
		section(KnownSeats(3), KnownSeats(5), KnownSeats(3), "A. Memon"))}

	changes := Diff(old, cur)
	if len(changes) != 1 {
		t.Fatalf("expected exactly 1 change, got %d: %+v", len(changes), changes)
	}

	c := changes[0]
	if c.Kind != SeatsOpened {
		t.Errorf("expected SeatsOpened, got %s", c.Kind)
	}
	if c.Field != "open" {
		t.Errorf("expected field open, got %q", c.Field)
	}
	if c.OldCount != KnownSeats(0) || c.NewCount != KnownSeats(3) {
		t.Errorf("expected old 0 new 3, got old %v new %v", c.OldCount, c.NewCount)
	}
}

func TestDiffAtMostOneOpenEvent(t *testing.T) {
	cases := []struct {
		name     string
		old, cur Seats
		want     ChangeKind
	}{
		{"zero to positive is SeatsOpened", KnownSeats(0), KnownSeats(7), SeatsOpened},
		{"positive to positive is OpenChange", KnownSeats(4), KnownSeats(7), OpenChange},
		{"positive to zero is OpenChange", KnownSeats(4), KnownSeats(0), OpenChange},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			old := Snapshot{"CMSC417": singleSection("Computer Networks", "0101",
				section(tc.old, KnownSeats(40), KnownSeats(0), "A. Prof"))}
			cur := Snapshot{"CMSC417": singleSection("Computer Networks", "0101",
				section(tc.cur, KnownSeats(40), KnownSeats(0), "A. Prof"))}

			changes := Diff(old, cur)
			if len(changes) != 1 {
				t.Fatalf("expected exactly 1 open-field change, got %d: %+v", len(changes), changes)
			}
			if changes[0].Kind != tc.want {
				t.Errorf("expected %s, got %s", tc.want, changes[0].Kind)
			}
		})
	}
}

func TestDiffUnknownSuppression(t *testing.T) {
	t.Run("unknown on either side suppresses numeric comparisons", func(t *testing.T) {
		old := Snapshot{"CMSC424": singleSection("Database Design", "0101",
			section(UnknownSeats(), KnownSeats(40), UnknownSeats(), "A. Prof"))}
		cur := Snapshot{"CMSC424": singleSection("Database Design", "0101",
			section(KnownSeats(5), UnknownSeats(), KnownSeats(2), "A. Prof"))}

		if changes := Diff(old, cur); len(changes) != 0 {
			t.Errorf("expected no changes, got %+v", changes)
		}
	})

	t.Run("empty old instructor suppresses instructor change", func(t *testing.T) {
		old := Snapshot{"CMSC424": singleSection("Database Design", "0101",
			section(KnownSeats(5), KnownSeats(40), KnownSeats(0), ""))}
		cur := Snapshot{"CMSC424": singleSection("Database Design", "0101",
			section(KnownSeats(5), KnownSeats(40), KnownSeats(0), "B. Prof"))}

		if changes := Diff(old, cur); len(changes) != 0 {
			t.Errorf("expected no changes, got %+v", changes)
		}
	})

	t.Run("observed instructor change is emitted", func(t *testing.T) {
		old := Snapshot{"CMSC424": singleSection("Database Design", "0101",
			section(KnownSeats(5), KnownSeats(40), KnownSeats(0), "A. Prof"))}
		cur := Snapshot{"CMSC424": singleSection("Database Design", "0101",
			section(KnownSeats(5), KnownSeats(40), KnownSeats(0), "B. Prof"))}

		changes := Diff(old, cur)
		if len(changes) != 1 || changes[0].Kind != InstructorChange {
			t.Fatalf("expected one InstructorChange, got %+v", changes)
		}
		if changes[0].OldInstructor != "A. Prof" || changes[0].NewInstructor != "B. Prof" {
			t.Errorf("unexpected instructor values: %+v", changes[0])
		}
	})
}

func TestDiffNewCourseClassification(t *testing.T) {
	cases := []struct {
		courseID string
		want     ChangeKind
	}{
		{"CMSC436", NewCMSC4Course},
		{"CMSC389N", NewCourseSection},
		// The classification is a literal string-prefix check, so any ID
		// beginning with CMSC4 qualifies regardless of what follows.
		{"CMSC499B", NewCMSC4Course},
	}

	for _, tc := range cases {
		t.Run(tc.courseID, func(t *testing.T) {
			cur := Snapshot{tc.courseID: singleSection("Some Course", "0101",
				section(KnownSeats(10), KnownSeats(30), KnownSeats(0), "A. Prof"))}

			changes := Diff(Snapshot{}, cur)
			if len(changes) != 1 {
				t.Fatalf("expected 1 change, got %d", len(changes))
			}
			if changes[0].Kind != tc.want {
				t.Errorf("expected %s, got %s", tc.want, changes[0].Kind)
			}
		})
	}
}

func TestDiffNewCourseEmitsPerSection(t *testing.T) {
	cur := Snapshot{"CMSC421": {
		Title: "Introduction to Artificial Intelligence",
		Sections: map[string]SectionRecord{
			"0101": section(KnownSeats(10), KnownSeats(30), KnownSeats(0), "A. Prof"),
			"0201": section(KnownSeats(0), KnownSeats(30), KnownSeats(5), "B. Prof"),
		},
	}}

	changes := Diff(Snapshot{}, cur)
	if len(changes) != 2 {
		t.Fatalf("expected 2 changes, got %d", len(changes))
	}
	if changes[0].SectionID != "0101" || changes[1].SectionID != "0201" {
		t.Errorf("expected sorted section order, got %s then %s", changes[0].SectionID, changes[1].SectionID)
	}
	for _, c := range changes {
		if c.Kind != NewCMSC4Course {
			t.Errorf("expected NewCMSC4Course, got %s", c.Kind)
		}
	}
}

func TestDiffNewSection(t *testing.T) {
	old := Snapshot{"CMSC430": singleSection("Compilers", "0101",
		section(KnownSeats(2), KnownSeats(30), KnownSeats(0), "A. Prof"))}
	cur := Snapshot{"CMSC430": {
		Title: "Compilers",
		Sections: map[string]SectionRecord{
			"0101": section(KnownSeats(2), KnownSeats(30), KnownSeats(0), "A. Prof"),
			"0102": section(KnownSeats(30), KnownSeats(30), KnownSeats(0), "A. Prof"),
		},
	}}

	changes := Diff(old, cur)
	if len(changes) != 1 || changes[0].Kind != NewSection {
		t.Fatalf("expected one NewSection, got %+v", changes)
	}
	if changes[0].SectionID != "0102" {
		t.Errorf("expected section 0102, got %s", changes[0].SectionID)
	}
}

func TestDiffSectionRemoved(t *testing.T) {
	removed := section(KnownSeats(1), KnownSeats(25), KnownSeats(4), "C. Prof")
	old := Snapshot{"CMSC435": {
		Title: "Software Engineering",
		Sections: map[string]SectionRecord{
			"0101": section(KnownSeats(2), KnownSeats(30), KnownSeats(0), "A. Prof"),
			"0102": removed,
		},
	}}
	cur := Snapshot{"CMSC435": singleSection("Software Engineering", "0101",
		section(KnownSeats(2), KnownSeats(30), KnownSeats(0), "A. Prof"))}

	changes := Diff(old, cur)
	if len(changes) != 1 {
		t.Fatalf("expected exactly 1 change, got %d: %+v", len(changes), changes)
	}

	c := changes[0]
	if c.Kind != SectionRemoved {
		t.Errorf("expected SectionRemoved, got %s", c.Kind)
	}
	if c.SectionID != "0102" {
		t.Errorf("expected section 0102, got %s", c.SectionID)
	}
	if diff := cmp.Diff(removed, c.Section); diff != "" {
		t.Errorf("removed change should carry old section data (-want +got):\n%s", diff)
	}
}

func TestDiffFetchErrorSkipsCourse(t *testing.T) {
	old := Snapshot{"CMSC414": singleSection("Computer Security", "0101",
		section(KnownSeats(5), KnownSeats(30), KnownSeats(0), "A. Prof"))}
	cur := Snapshot{"CMSC414": {Title: "Computer Security", FetchError: true}}

	// A fetch-errored course contributes nothing in either direction: its
	// sections are unreliable, not gone.
	if changes := Diff(old, cur); len(changes) != 0 {
		t.Errorf("expected no changes for fetch-errored course, got %+v", changes)
	}
}

func TestDiffRemovalsAfterAdditions(t *testing.T) {
	old := Snapshot{
		"CMSC412": singleSection("Operating Systems", "0101",
			section(KnownSeats(3), KnownSeats(25), KnownSeats(0), "A. Prof")),
		"CMSC451": singleSection("Algorithms", "0101",
			section(KnownSeats(0), KnownSeats(30), KnownSeats(8), "B. Prof")),
	}
	cur := Snapshot{
		"CMSC412": {Title: "Operating Systems", Sections: map[string]SectionRecord{}},
		"CMSC451": {
			Title: "Algorithms",
			Sections: map[string]SectionRecord{
				"0101": section(KnownSeats(4), KnownSeats(30), KnownSeats(8), "B. Prof"),
				"0102": section(KnownSeats(15), KnownSeats(15), KnownSeats(0), "B. Prof"),
			},
		},
	}

	changes := Diff(old, cur)
	kinds := make([]ChangeKind, len(changes))
	for i, c := range changes {
		kinds[i] = c.Kind
	}

	want := []ChangeKind{SeatsOpened, NewSection, SectionRemoved}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("unexpected change order (-want +got):\n%s", diff)
	}
}

func TestDiffMultipleFieldChanges(t *testing.T) {
	old := Snapshot{"CMSC434": singleSection("Human-Computer Interaction", "0101",
		section(KnownSeats(5), KnownSeats(30), KnownSeats(0), "A. Prof"))}
	cur := Snapshot{"CMSC434": singleSection("Human-Computer Interaction", "0101",
		section(KnownSeats(2), KnownSeats(35), KnownSeats(3), "B. Prof"))}

	changes := Diff(old, cur)
	kinds := make([]ChangeKind, len(changes))
	for i, c := range changes {
		kinds[i] = c.Kind
	}

	// Fields are compared in fixed order for one section.
	want := []ChangeKind{OpenChange, TotalChange, WaitlistChange, InstructorChange}
	if diff := cmp.Diff(want, kinds); diff != "" {
		t.Errorf("unexpected change sequence (-want +got):\n%s", diff)
	}
}

func TestDiffEmptySections(t *testing.T) {
	old := Snapshot{"CMSC420": {Title: "Data Structures", Sections: map[string]SectionRecord{}}}
	cur := Snapshot{"CMSC420": {Title: "Data Structures", Sections: map[string]SectionRecord{}}}

	if changes := Diff(old, cur); len(changes) != 0 {
		t.Errorf("expected no changes for empty sections, got %+v", changes)
	}
}
