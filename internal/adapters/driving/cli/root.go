// Package cli provides the cobra-based command line interface.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/search/linear"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/vectorizer/tfidf"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
	"github.com/custodia-labs/retrieva-cli/internal/core/services"
	"github.com/custodia-labs/retrieva-cli/internal/ingestors"
	"github.com/custodia-labs/retrieva-cli/internal/logger"
)

// version is set by Execute.
var version = "dev"

var (
	flagVerbose   bool
	flagConfigDir string
	flagDataDir   string
	flagSession   string
)

var (
	configStore *file.ConfigStore
	snapshots   *sqlite.Store
	manager     *services.SessionManager
)

var rootCmd = &cobra.Command{
	Use:   "retrieva",
	Short: "Ask questions about your local data files",
	Long: `Retrieva ingests CSV, JSON and text files into a local session and
answers questions about them with similarity search. All processing
happens on your machine; nothing leaves it.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(flagVerbose)

		var err error
		configStore, err = file.NewConfigStore(flagConfigDir)
		if err != nil {
			return fmt.Errorf("opening config: %w", err)
		}

		snapshots, err = sqlite.NewStore(flagDataDir)
		if err != nil {
			return fmt.Errorf("opening session store: %w", err)
		}

		manager = services.NewSessionManager(sessionFactory, snapshots, settingsFromConfig(configStore))
		return nil
	},
	PersistentPostRunE: func(*cobra.Command, []string) error {
		if snapshots != nil {
			return snapshots.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&flagConfigDir, "config-dir", "", "config directory (default ~/.retrieva)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory (default ~/.retrieva/data)")
	rootCmd.PersistentFlags().StringVarP(&flagSession, "session", "s", "default", "session name")
}

// Execute runs the root command.
func Execute(v string) error {
	if v != "" {
		version = v
	}
	return rootCmd.Execute()
}

// sessionFactory builds the per-session collaborators.
func sessionFactory() (driven.ChunkStore, driven.Vectorizer, driven.Searcher, services.IngestorRegistry) {
	return memory.NewChunkStore(), tfidf.New(), linear.New(), ingestors.Defaults()
}

// loadSession resumes the named session from the snapshot store, or
// opens a fresh one if nothing was persisted yet.
func loadSession(ctx context.Context) (*services.Session, error) {
	session, err := manager.Resume(ctx, flagSession)
	if err == nil {
		return session, nil
	}
	if errors.Is(err, domain.ErrSessionNotFound) {
		return manager.OpenNamed(flagSession), nil
	}
	return nil, err
}

// saveSession persists the named session after a mutating command.
func saveSession(ctx context.Context) error {
	return manager.Save(ctx, flagSession)
}

// settingsFromConfig overlays configured values on the defaults.
func settingsFromConfig(cfg driven.ConfigStore) domain.RetrievalSettings {
	settings := domain.DefaultSettings()

	if _, ok := cfg.Get("retrieval.chunk_size"); ok {
		settings.ChunkSize = cfg.GetInt("retrieval.chunk_size")
	}
	if _, ok := cfg.Get("retrieval.chunk_overlap"); ok {
		settings.ChunkOverlap = cfg.GetInt("retrieval.chunk_overlap")
	}
	if _, ok := cfg.Get("retrieval.max_results"); ok {
		settings.MaxResultsPerQuery = cfg.GetInt("retrieval.max_results")
	}
	if _, ok := cfg.Get("retrieval.similarity_threshold"); ok {
		settings.SimilarityThreshold = cfg.GetFloat("retrieval.similarity_threshold")
	}
	if _, ok := cfg.Get("retrieval.fairness_floor"); ok {
		settings.FairnessFloorEnabled = cfg.GetBool("retrieval.fairness_floor")
	}
	if _, ok := cfg.Get("retrieval.context_budget"); ok {
		settings.ContextCharacterBudget = cfg.GetInt("retrieval.context_budget")
	}
	if _, ok := cfg.Get("retrieval.per_file_candidates"); ok {
		settings.PerFileCandidates = cfg.GetInt("retrieval.per_file_candidates")
	}
	if _, ok := cfg.Get("retrieval.revectorize"); ok {
		settings.RevectorizeOnGrowth = cfg.GetBool("retrieval.revectorize")
	}

	return settings.Normalise()
}
