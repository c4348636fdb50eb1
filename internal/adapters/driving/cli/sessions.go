package cli

import (
	"github.com/spf13/cobra"
)

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List saved sessions",
	RunE:  runSessions,
}

var sessionsDeleteCmd = &cobra.Command{
	Use:   "delete [name]",
	Short: "Delete a saved session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionsDelete,
}

func init() {
	sessionsCmd.AddCommand(sessionsDeleteCmd)
	rootCmd.AddCommand(sessionsCmd)
}

func runSessions(cmd *cobra.Command, _ []string) error {
	ids, err := snapshots.Sessions(cmd.Context())
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		cmd.Println("No saved sessions.")
		return nil
	}
	for _, id := range ids {
		marker := "  "
		if id == flagSession {
			marker = "* "
		}
		cmd.Printf("%s%s\n", marker, id)
	}
	return nil
}

func runSessionsDelete(cmd *cobra.Command, args []string) error {
	if err := snapshots.DeleteSession(cmd.Context(), args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted session %s\n", args[0])
	return nil
}
