package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/retrieva-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/retrieva-cli/internal/core/domain"
	"github.com/custodia-labs/retrieva-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.SnapshotStore = (*Store)(nil)

// Store is a SQLite-backed session snapshot store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.retrieva/data/sessions.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".retrieva", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate applies pending schema migrations in version order.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveSession writes a session snapshot, replacing any previous one.
func (s *Store) SaveSession(ctx context.Context, sessionID string, snap *domain.SessionSnapshot) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO sessions (id, vocab_chunk_count, updated_at) VALUES (?, ?, ?)",
		sessionID, snap.Vocabulary.ChunkCount, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}

	vocabStmt, err := tx.PrepareContext(ctx,
		"INSERT INTO vocabulary (session_id, term, dimension, doc_freq) VALUES (?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("preparing vocabulary insert: %w", err)
	}
	defer vocabStmt.Close()

	for term, dim := range snap.Vocabulary.Terms {
		if _, err := vocabStmt.ExecContext(ctx, sessionID, term, dim, snap.Vocabulary.DocFreq[term]); err != nil {
			return fmt.Errorf("inserting term %q: %w", term, err)
		}
	}

	chunkStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (session_id, chunk_id, file, chunk_type, content, seq, metadata, vector, created_at, position)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing chunk insert: %w", err)
	}
	defer chunkStmt.Close()

	for pos, chunk := range snap.Chunks {
		metadata, err := json.Marshal(chunk.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata for %s: %w", chunk.ID, err)
		}
		vector, err := json.Marshal(chunk.Vector)
		if err != nil {
			return fmt.Errorf("marshalling vector for %s: %w", chunk.ID, err)
		}
		_, err = chunkStmt.ExecContext(ctx,
			sessionID, chunk.ID, chunk.File, string(chunk.Type), chunk.Content,
			chunk.Seq, string(metadata), string(vector), chunk.CreatedAt.UTC(), pos)
		if err != nil {
			return fmt.Errorf("inserting chunk %s: %w", chunk.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing snapshot: %w", err)
	}
	return nil
}

// LoadSession reads a session snapshot.
// Returns domain.ErrSessionNotFound if none exists.
func (s *Store) LoadSession(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	snap := &domain.SessionSnapshot{
		Vocabulary: domain.VocabularySnapshot{
			Terms:   make(map[string]int),
			DocFreq: make(map[string]int),
		},
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT vocab_chunk_count FROM sessions WHERE id = ?", sessionID)
	if err := row.Scan(&snap.Vocabulary.ChunkCount); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("session %s: %w", sessionID, domain.ErrSessionNotFound)
		}
		return nil, fmt.Errorf("loading session: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT term, dimension, doc_freq FROM vocabulary WHERE session_id = ?", sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading vocabulary: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var term string
		var dim, df int
		if err := rows.Scan(&term, &dim, &df); err != nil {
			return nil, fmt.Errorf("scanning term: %w", err)
		}
		snap.Vocabulary.Terms[term] = dim
		snap.Vocabulary.DocFreq[term] = df
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating vocabulary: %w", err)
	}

	chunkRows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, file, chunk_type, content, seq, metadata, vector, created_at
		FROM chunks WHERE session_id = ? ORDER BY position`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading chunks: %w", err)
	}
	defer chunkRows.Close()

	for chunkRows.Next() {
		var chunk domain.Chunk
		var chunkType, metadata, vector string
		if err := chunkRows.Scan(&chunk.ID, &chunk.File, &chunkType, &chunk.Content,
			&chunk.Seq, &metadata, &vector, &chunk.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Type = domain.ChunkType(chunkType)
		if metadata != "" && metadata != "null" {
			if err := json.Unmarshal([]byte(metadata), &chunk.Metadata); err != nil {
				return nil, fmt.Errorf("unmarshalling metadata for %s: %w", chunk.ID, err)
			}
		}
		if vector != "" && vector != "null" {
			if err := json.Unmarshal([]byte(vector), &chunk.Vector); err != nil {
				return nil, fmt.Errorf("unmarshalling vector for %s: %w", chunk.ID, err)
			}
		}
		snap.Chunks = append(snap.Chunks, chunk)
	}
	if err := chunkRows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return snap, nil
}

// DeleteSession removes a session snapshot. Deleting an unknown session
// is not an error.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Sessions lists the persisted session ids.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id FROM sessions ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning session id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
