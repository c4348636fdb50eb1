package cli

import (
	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove [file]",
	Short: "Remove a file from the session",
	Args:  cobra.ExactArgs(1),
	RunE:  runRemove,
}

func init() {
	rootCmd.AddCommand(removeCmd)
}

func runRemove(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	session, err := loadSession(ctx)
	if err != nil {
		return err
	}

	if err := session.Service.RemoveFile(ctx, args[0]); err != nil {
		return err
	}
	if err := saveSession(ctx); err != nil {
		return err
	}

	cmd.Printf("Removed %s\n", args[0])
	return nil
}
