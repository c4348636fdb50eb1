package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [files...]",
	Short: "Ingest files into the session",
	Long: `Parses and ingests one or more files into the current session.
CSV files are ingested as tables, JSON files as structured trees, and
everything else as plain text. Re-ingesting a file replaces its
previous content.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, err := loadSession(ctx)
	if err != nil {
		return err
	}

	failures := 0
	for _, path := range args {
		doc, err := parseFile(path)
		if err != nil {
			cmd.PrintErrf("skipped %s: %v\n", path, err)
			failures++
			continue
		}

		result, err := session.Service.ProcessFile(ctx, doc)
		if err != nil {
			cmd.PrintErrf("skipped %s: %v\n", path, err)
			failures++
			continue
		}

		note := ""
		if result.Truncated {
			note = " (truncated)"
		}
		cmd.Printf("%s: %d chunks, %d characters%s\n",
			result.File, result.ChunkCount, result.TotalContentLength, note)
	}

	if err := saveSession(ctx); err != nil {
		return err
	}

	if failures == len(args) {
		return fmt.Errorf("no files ingested")
	}
	return nil
}
