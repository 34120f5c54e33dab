// Package scraper fetches seat-availability data from the UMD Testudo
// Schedule of Classes.
//
// A fetch runs in two stages: the course search pages for the configured
// prefixes yield the set of monitored course IDs and titles, then each
// course's sections fragment is fetched sequentially (with a polite delay)
// and parsed into section records. A course whose sections request fails is
// marked with a fetch error rather than omitted, so the caller can fall
// back to the previous run's data.
package scraper
