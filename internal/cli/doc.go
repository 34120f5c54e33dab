// Package cli implements the terpwatch command.
//
// One invocation is one monitoring run: load the previous snapshot, fetch
// current seat data, merge in prior data for anything that failed to fetch,
// diff, notify, and persist. Runs are strictly sequential; overlapping
// invocations would race on the persisted snapshot, so scheduling must
// guarantee at most one run at a time.
package cli
