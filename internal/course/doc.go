// Package course provides the snapshot model and change-detection engine
// for monitored Testudo course sections.
//
// A Snapshot captures the observed seat state of every monitored course at
// one run. Diff compares two snapshots and produces an ordered list of
// classified changes (seats opened, counts changed, instructor changed,
// sections added or removed). Merge applies the stale-data policy that
// substitutes the previous run's data for courses the current run could not
// fetch. Seat counts use an explicit Seats type so that unparseable values
// are carried as "unknown" rather than as a sentinel integer.
package course
