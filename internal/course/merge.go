package course

// Merge applies the stale-data policy before diffing: a fetch-errored
// course reuses the previous run's record verbatim when one exists, and a
// previously-tracked course missing from the fetch entirely retains its old
// record. The returned labels name every course whose data is stale, for
// the batched fetch warning; a missing course is labeled distinctly from a
// fetch-errored one.
func Merge(old, fetched Snapshot) (Snapshot, []string) {
	merged := make(Snapshot, len(fetched))
	var stale []string

	for _, courseID := range fetched.CourseIDs() {
		rec := fetched[courseID]
		if rec.FetchError {
			stale = append(stale, courseID)
			if oldRec, ok := old[courseID]; ok {
				merged[courseID] = oldRec
				continue
			}
		}
		merged[courseID] = rec
	}

	for _, courseID := range old.CourseIDs() {
		if _, ok := fetched[courseID]; !ok {
			merged[courseID] = old[courseID]
			stale = append(stale, courseID+" (missing from fetch)")
		}
	}

	return merged, stale
}
