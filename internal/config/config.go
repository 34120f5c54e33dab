// Package config holds the monitor's immutable run configuration.
//
// A Config value is built once at startup from environment variables (with
// .env support handled by the entry point) and passed explicitly to the
// scraper, renderer, notifier, and storage selection. Defaults match the
// deployed monitor's course list for the configured term.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Environment variable names recognized by FromEnv.
const (
	EnvWebhookURL    = "DISCORD_WEBHOOK_URL"
	EnvPingUserID    = "DISCORD_USER_ID_TO_PING"
	EnvS3Bucket      = "S3_BUCKET_NAME"
	EnvStateFileKey  = "STATE_FILE_KEY"
	EnvTermID        = "TERM_ID"
	EnvStarred       = "STARRED_COURSES"
	EnvWatch3xx      = "SPECIFIC_3XX_COURSES"
	EnvExcluded      = "COURSES_TO_EXCLUDE"
	EnvSendNoUpdates = "SEND_NO_UPDATES_MESSAGE"
)

// Config is the complete run configuration. Values are set at startup and
// never mutated afterwards.
type Config struct {
	// WebhookURL is the Discord webhook endpoint. Empty disables delivery
	// (the CLI falls back to dry-run output).
	WebhookURL string
	// PingUserID, when set, is mentioned on the first part of update
	// notifications.
	PingUserID string

	// S3Bucket selects S3 snapshot storage when non-empty; otherwise
	// snapshots are kept in a local file.
	S3Bucket string
	// StateFileKey is the S3 object key or local file name for the
	// persisted snapshot.
	StateFileKey string

	// TermID is the Testudo term being monitored, e.g. "202601".
	TermID string
	// Watch3xx lists the 300-level courses worth tracking; everything
	// found under the broad 400-level query is tracked automatically.
	Watch3xx []string
	// Excluded lists course IDs dropped from monitoring entirely.
	Excluded []string
	// Starred marks courses that get visual emphasis in notifications.
	Starred map[string]bool

	// SendNoUpdates controls whether a no-change run still posts a notice.
	SendNoUpdates bool
	// SectionFetchDelay is the pause between per-course section requests.
	SectionFetchDelay time.Duration
}

// Default returns the configuration the monitor ships with.
func Default() Config {
	return Config{
		StateFileKey: "course_state.json",
		TermID:       "202601",
		Watch3xx:     []string{"CMSC320", "CMSC335"},
		Excluded:     []string{"CMSC498A", "CMSC499A"},
		Starred: set(
			"CMSC320", "CMSC335", "CMSC414", "CMSC417", "CMSC421",
			"CMSC424", "CMSC430", "CMSC433", "CMSC434", "CMSC435", "CMSC436",
		),
		SendNoUpdates:     true,
		SectionFetchDelay: 500 * time.Millisecond,
	}
}

// FromEnv returns the default configuration overridden by any recognized
// environment variables.
func FromEnv() Config {
	cfg := Default()

	if v := os.Getenv(EnvWebhookURL); v != "" {
		cfg.WebhookURL = v
	}
	if v := os.Getenv(EnvPingUserID); v != "" {
		cfg.PingUserID = v
	}
	if v := os.Getenv(EnvS3Bucket); v != "" {
		cfg.S3Bucket = v
	}
	if v := os.Getenv(EnvStateFileKey); v != "" {
		cfg.StateFileKey = v
	}
	if v := os.Getenv(EnvTermID); v != "" {
		cfg.TermID = v
	}
	if v := os.Getenv(EnvStarred); v != "" {
		cfg.Starred = set(splitList(v)...)
	}
	if v := os.Getenv(EnvWatch3xx); v != "" {
		cfg.Watch3xx = splitList(v)
	}
	if v := os.Getenv(EnvExcluded); v != "" {
		cfg.Excluded = splitList(v)
	}
	if v := os.Getenv(EnvSendNoUpdates); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.SendNoUpdates = b
		}
	}

	return cfg
}

func set(ids ...string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, strings.ToUpper(part))
		}
	}
	return out
}
