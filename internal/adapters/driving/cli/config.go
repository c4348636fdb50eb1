package cli

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

// Recognised retrieval settings and their value kinds.
var configKeys = map[string]string{
	"retrieval.chunk_size":           "int",
	"retrieval.chunk_overlap":        "int",
	"retrieval.max_results":          "int",
	"retrieval.similarity_threshold": "float",
	"retrieval.fairness_floor":       "bool",
	"retrieval.context_budget":       "int",
	"retrieval.per_file_candidates":  "int",
	"retrieval.revectorize":          "bool",
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and change retrieval settings. Settings take effect on the
next command invocation.`,
	RunE: runConfigList,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the current configuration",
	RunE:  runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Print one configuration value",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigGet,
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Set a configuration value",
	Args:  cobra.ExactArgs(2),
	RunE:  runConfigSet,
}

var configUnsetCmd = &cobra.Command{
	Use:   "unset [key]",
	Short: "Reset a configuration value to its default",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigUnset,
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configUnsetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigList(cmd *cobra.Command, _ []string) error {
	keys := make([]string, 0, len(configKeys))
	for key := range configKeys {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		if val, ok := configStore.Get(key); ok {
			cmd.Printf("%s = %v\n", key, val)
		} else {
			cmd.Printf("%s = (default)\n", key)
		}
	}
	return nil
}

func runConfigGet(cmd *cobra.Command, args []string) error {
	key := args[0]
	if _, known := configKeys[key]; !known {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	if val, ok := configStore.Get(key); ok {
		cmd.Printf("%v\n", val)
	} else {
		cmd.Println("(default)")
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	kind, known := configKeys[key]
	if !known {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	var value any
	switch kind {
	case "int":
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("%s expects an integer, got %q", key, raw)
		}
		value = v
	case "float":
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("%s expects a number, got %q", key, raw)
		}
		value = v
	case "bool":
		v, err := strconv.ParseBool(strings.ToLower(raw))
		if err != nil {
			return fmt.Errorf("%s expects true or false, got %q", key, raw)
		}
		value = v
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cmd.Printf("%s = %v\n", key, value)
	return nil
}

func runConfigUnset(cmd *cobra.Command, args []string) error {
	key := args[0]
	if _, known := configKeys[key]; !known {
		return fmt.Errorf("unknown configuration key %q", key)
	}

	if err := configStore.Delete(key); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	cmd.Printf("%s = (default)\n", key)
	return nil
}
