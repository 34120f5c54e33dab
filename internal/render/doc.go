// Package render turns a course snapshot and its detected changes into the
// Discord-markdown notification body.
//
// Render walks the full snapshot in sorted order and produces one annotated
// line per section: a status glyph, the four tracked fields with changed
// fields bolded and signed deltas appended, and short tags for structural
// changes. Removed sections go in a trailing code block. The renderer is
// pure and total: unknown counts print as "?" and partial data never fails.
package render
