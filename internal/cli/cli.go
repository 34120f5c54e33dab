package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/terpwatch/terpwatch/internal/config"
	"github.com/terpwatch/terpwatch/internal/course"
	"github.com/terpwatch/terpwatch/internal/logger"
	"github.com/terpwatch/terpwatch/internal/notifier"
	"github.com/terpwatch/terpwatch/internal/render"
	"github.com/terpwatch/terpwatch/internal/scraper"
	"github.com/terpwatch/terpwatch/internal/storage"
)

var (
	flagDataDir   string
	flagDryRun    bool
	flagTerm      string
	flagNoUpdates bool
	flagVerbose   bool
)

// NewRootCmd creates the root command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terpwatch",
		Short: "Check UMD Testudo course sections for seat changes",
		Long: `Scrapes the UMD Testudo Schedule of Classes for the monitored CMSC
courses, diffs seat availability against the previous run, and posts the
changes to a Discord webhook. State is kept in S3 when S3_BUCKET_NAME is
set, otherwise in a local JSON file.`,
		SilenceUsage: true,
		RunE:         runCheck,
	}

	cmd.Flags().StringVar(&flagDataDir, "data-dir", "~/.local/share/terpwatch", "Data directory for local snapshot storage")
	cmd.Flags().BoolVar(&flagDryRun, "dry-run", false, "Print notifications instead of posting to Discord")
	cmd.Flags().StringVar(&flagTerm, "term", "", "Testudo term ID (overrides TERM_ID)")
	cmd.Flags().BoolVar(&flagNoUpdates, "no-updates-message", true, "Post a notice when no changes are found")
	cmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string) error {
	start := time.Now()

	cfg := config.FromEnv()
	if flagTerm != "" {
		cfg.TermID = flagTerm
	}
	if cmd.Flags().Changed("no-updates-message") {
		cfg.SendNoUpdates = flagNoUpdates
	}
	if flagVerbose {
		logger.SetDefault(logger.New(logger.LevelDebug, os.Stderr))
	}

	ctx := cmd.Context()

	store, err := newStorage(cmd, cfg)
	if err != nil {
		return fmt.Errorf("initializing storage: %w", err)
	}
	notify := newNotifier(cfg)

	old, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading snapshot: %w", err)
	}
	logger.Info("loaded previous snapshot", logger.Fields{"courses": len(old)})

	sc := scraper.New(scraper.Options{
		TermID:   cfg.TermID,
		Watch3xx: cfg.Watch3xx,
		Excluded: cfg.Excluded,
		Delay:    cfg.SectionFetchDelay,
	})
	fetched, err := sc.Fetch(ctx)
	if err != nil {
		return fmt.Errorf("fetching courses: %w", err)
	}

	merged, stale := course.Merge(old, fetched)
	logger.Info("merged state", logger.Fields{
		"courses":  len(merged),
		"sections": merged.SectionCount(),
		"stale":    len(stale),
	})

	// "Courses listed but not a single section parsed anywhere" means the
	// section markup changed, not that everything emptied out at once.
	if len(fetched) > 0 && !merged.HasSections() {
		if len(old) == 0 {
			sendOrLog(notify, notifier.Message{
				Content: "Error Alert ⚠️: Failed parsing sections on initial run.",
				Kind:    notifier.Warning,
			})
			return fmt.Errorf("no sections parsed on first run")
		}
		logger.Warn("no sections parsed, skipping update", nil)
		sendOrLog(notify, notifier.Message{
			Content: "Error Alert ⚠️: Failed parsing sections. Check logs.",
			Kind:    notifier.Warning,
		})
		return nil
	}

	var saveErr error
	switch {
	case len(old) == 0:
		logger.Info("first run, initializing state", nil)
		sendOrLog(notify, notifier.Message{
			Content: render.Render(merged, nil, cfg.Starred),
			Kind:    notifier.Initial,
		})
		if len(stale) > 0 {
			sendOrLog(notify, notifier.Message{
				Content: render.StaleWarning(stale, render.StaleInitial),
				Kind:    notifier.Warning,
			})
		}
		saveErr = store.Save(ctx, merged)

	default:
		changes := course.Diff(old, merged)
		if len(changes) > 0 {
			logger.Info("changes detected", logger.Fields{"count": len(changes)})
			sendOrLog(notify, notifier.Message{
				Content: render.Render(merged, changes, cfg.Starred),
				Kind:    notifier.Update,
			})
			if len(stale) > 0 {
				sendOrLog(notify, notifier.Message{
					Content: render.StaleWarning(stale, render.StaleWithChanges),
					Kind:    notifier.Warning,
				})
			}
			saveErr = store.Save(ctx, merged)
		} else {
			logger.Info("no changes detected", nil)
			if cfg.SendNoUpdates {
				sendOrLog(notify, notifier.Message{
					Content: render.NoUpdates(time.Now()),
					Kind:    notifier.NoUpdates,
				})
			}
			if len(stale) > 0 {
				sendOrLog(notify, notifier.Message{
					Content: render.StaleWarning(stale, render.StaleNoChanges),
					Kind:    notifier.Warning,
				})
				// The merged state carries reused old data; persist it so
				// the stale courses don't diff as changed next run.
				saveErr = store.Save(ctx, merged)
			}
		}
	}

	logger.Info("run complete", logger.Fields{"duration": time.Since(start).String()})

	if saveErr != nil {
		return fmt.Errorf("saving snapshot: %w", saveErr)
	}
	return nil
}

// newStorage selects the snapshot backend: S3 when a bucket is configured,
// a local file otherwise.
func newStorage(cmd *cobra.Command, cfg config.Config) (storage.Storage, error) {
	if cfg.S3Bucket != "" {
		if flagVerbose {
			fmt.Fprintf(os.Stderr, "Using s3://%s/%s for state\n", cfg.S3Bucket, cfg.StateFileKey)
		}
		return storage.NewS3Storage(cmd.Context(), cfg.S3Bucket, cfg.StateFileKey)
	}
	if flagVerbose {
		fmt.Fprintf(os.Stderr, "Using local state in %s\n", flagDataDir)
	}
	return storage.NewFileStorage(flagDataDir, cfg.StateFileKey)
}

// newNotifier returns the Discord notifier, or the dry-run notifier when
// requested or when no webhook is configured.
func newNotifier(cfg config.Config) notifier.Notifier {
	if flagDryRun {
		return notifier.NewDryRunNotifier()
	}
	n, err := notifier.NewDiscordNotifier(cfg.WebhookURL, cfg.PingUserID)
	if err != nil {
		logger.Warn("Discord webhook not configured, printing notifications", nil)
		return notifier.NewDryRunNotifier()
	}
	return n
}

// sendOrLog delivers a notification; delivery failures are logged but never
// abort the run.
func sendOrLog(n notifier.Notifier, msg notifier.Message) {
	if err := n.Notify(msg); err != nil {
		logger.Error("notification failed", logger.Fields{"kind": msg.Kind.String()}, err)
	}
}
