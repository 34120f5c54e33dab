package course

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMerge(t *testing.T) {
	oldRec := singleSection("Computer Security", "0101",
		section(KnownSeats(5), KnownSeats(30), KnownSeats(0), "A. Prof"))

	t.Run("fetch error reuses old record", func(t *testing.T) {
		old := Snapshot{"CMSC414": oldRec}
		fetched := Snapshot{"CMSC414": {Title: "Computer Security", FetchError: true}}

		merged, stale := Merge(old, fetched)
		if diff := cmp.Diff(oldRec, merged["CMSC414"]); diff != "" {
			t.Errorf("expected old record reused (-want +got):\n%s", diff)
		}
		if !cmp.Equal(stale, []string{"CMSC414"}) {
			t.Errorf("unexpected stale list: %v", stale)
		}
	})

	t.Run("fetch error without old data keeps error marker", func(t *testing.T) {
		fetched := Snapshot{"CMSC499X": {Title: "New Topics", FetchError: true}}

		merged, stale := Merge(Snapshot{}, fetched)
		if !merged["CMSC499X"].FetchError {
			t.Error("expected fetch error marker to survive")
		}
		if !cmp.Equal(stale, []string{"CMSC499X"}) {
			t.Errorf("unexpected stale list: %v", stale)
		}
	})

	t.Run("course missing from fetch is retained", func(t *testing.T) {
		old := Snapshot{"CMSC414": oldRec}
		fetched := Snapshot{"CMSC433": singleSection("Programming Language Technologies", "0101",
			section(KnownSeats(1), KnownSeats(35), KnownSeats(2), "B. Prof"))}

		merged, stale := Merge(old, fetched)
		if len(merged) != 2 {
			t.Fatalf("expected 2 courses, got %d", len(merged))
		}
		if diff := cmp.Diff(oldRec, merged["CMSC414"]); diff != "" {
			t.Errorf("expected missing course retained (-want +got):\n%s", diff)
		}
		if !cmp.Equal(stale, []string{"CMSC414 (missing from fetch)"}) {
			t.Errorf("unexpected stale list: %v", stale)
		}
	})

	t.Run("clean fetch passes through", func(t *testing.T) {
		old := Snapshot{"CMSC414": oldRec}
		fresh := singleSection("Computer Security", "0101",
			section(KnownSeats(6), KnownSeats(30), KnownSeats(0), "A. Prof"))
		fetched := Snapshot{"CMSC414": fresh}

		merged, stale := Merge(old, fetched)
		if diff := cmp.Diff(fresh, merged["CMSC414"]); diff != "" {
			t.Errorf("expected fresh record used (-want +got):\n%s", diff)
		}
		if len(stale) != 0 {
			t.Errorf("expected no stale courses, got %v", stale)
		}
	})
}
