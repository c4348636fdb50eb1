package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsJSON bool

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsJSON, "json", false, "output statistics as JSON")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	session, err := loadSession(ctx)
	if err != nil {
		return err
	}

	stats, err := session.Service.Stats(ctx)
	if err != nil {
		return err
	}

	if statsJSON {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal stats: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Printf("Session: %s\n", session.ID)
	cmd.Printf("Files:  %d\n", stats.TotalFiles)
	cmd.Printf("Chunks: %d\n", stats.TotalChunks)

	if len(stats.PerFile) == 0 {
		return nil
	}
	cmd.Println()

	files := make([]string, 0, len(stats.PerFile))
	for file := range stats.PerFile {
		files = append(files, file)
	}
	sort.Strings(files)

	for _, file := range files {
		fs := stats.PerFile[file]
		cmd.Printf("  %s: %d chunks, %d characters\n", file, fs.Chunks, fs.Length)
	}
	return nil
}
