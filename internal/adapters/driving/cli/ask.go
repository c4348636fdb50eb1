package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
)

var (
	askFiles []string
	askJSON  bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about the ingested files",
	Long: `Searches every ingested file for content relevant to the question
and prints the assembled context. Each file gets a fair chance to
contribute at least one chunk.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringSliceVarP(&askFiles, "files", "f", nil, "restrict the search to these files")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the bundle as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, err := loadSession(ctx)
	if err != nil {
		return err
	}

	bundle, err := session.Service.GetContext(ctx, args[0], askFiles)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputBundleJSON(cmd, bundle)
	}
	return outputBundleText(cmd, bundle)
}

func outputBundleJSON(cmd *cobra.Command, bundle *domain.ContextBundle) error {
	data, err := json.MarshalIndent(bundle, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal bundle: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputBundleText(cmd *cobra.Command, bundle *domain.ContextBundle) error {
	if bundle.IsEmpty() {
		cmd.Println("No relevant data found.")
		return nil
	}

	cmd.Println(bundle.Context)
	cmd.Println()
	cmd.Printf("(%d chunks from %d files, avg score %.3f, %d characters)\n",
		bundle.ChunkCount, bundle.Sources, bundle.AverageScore, bundle.TotalLength)
	return nil
}
