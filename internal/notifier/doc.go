// Package notifier delivers rendered notification messages.
//
// The Discord implementation splits long message bodies on line boundaries
// to stay under the webhook content limit, mentions the configured user on
// the first part of update notifications only, and retries transient
// webhook failures with exponential backoff. A dry-run implementation
// prints parts to stdout instead of posting.
package notifier
