package cli

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrieva-cli/internal/core/services"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

// watchSettleDelay batches rapid write events for the same file into a
// single re-ingestion.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [files...]",
	Short: "Watch files and keep the session in sync",
	Long: `Ingests the given files and re-ingests them whenever they change on
disk, so questions always run against current content. Stops on
interrupt.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	session, err := loadSession(ctx)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	watched := make(map[string]string, len(args))
	for _, path := range args {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("resolving %s: %w", path, err)
		}
		if err := ingestInto(ctx, cmd, session, abs); err != nil {
			cmd.PrintErrf("skipped %s: %v\n", path, err)
		}
		// Watch the parent directory: editors replace files on save,
		// which drops a watch on the file itself.
		if err := watcher.Add(filepath.Dir(abs)); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		watched[abs] = filepath.Base(abs)
	}
	if err := saveSession(ctx); err != nil {
		return err
	}

	cmd.Printf("Watching %d files, press Ctrl-C to stop\n", len(watched))

	pending := make(map[string]*time.Timer)
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			abs := event.Name
			name, tracked := watched[abs]
			if !tracked {
				continue
			}

			switch {
			case event.Has(fsnotify.Write) || event.Has(fsnotify.Create):
				if timer, exists := pending[abs]; exists {
					timer.Stop()
				}
				pending[abs] = time.AfterFunc(watchSettleDelay, func() {
					if err := ingestInto(ctx, cmd, session, abs); err != nil {
						cmd.PrintErrf("re-ingest %s: %v\n", name, err)
						return
					}
					if err := saveSession(ctx); err != nil {
						cmd.PrintErrf("save session: %v\n", err)
					}
				})

			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				if err := session.Service.RemoveFile(ctx, name); err != nil {
					logger.Debug("Remove after %s: %v", event.Op, err)
					continue
				}
				if err := saveSession(ctx); err != nil {
					cmd.PrintErrf("save session: %v\n", err)
				}
				cmd.Printf("%s removed from session\n", name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrf("watch error: %v\n", err)
		}
	}
}

func ingestInto(ctx context.Context, cmd *cobra.Command, session *services.Session, path string) error {
	doc, err := parseFile(path)
	if err != nil {
		return err
	}
	result, err := session.Service.ProcessFile(ctx, doc)
	if err != nil {
		return err
	}
	cmd.Printf("%s: %d chunks\n", result.File, result.ChunkCount)
	return nil
}
