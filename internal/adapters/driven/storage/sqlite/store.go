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

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/forlark/larkfetch/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/forlark/larkfetch/internal/core/domain"
	"github.com/forlark/larkfetch/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Ensure Store implements the interface.
var _ driven.SessionStore = (*Store)(nil)

// Store is a SQLite-backed session store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.larkfetch/data/sessions.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".larkfetch", "data")
	}

	// Tokens live in here; keep it private.
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sessions.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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

// migrate runs all pending migrations.
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
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// SaveSession stores the user session, replacing any prior one.
func (s *Store) SaveSession(ctx context.Context, session *domain.UserSession) error {
	if session == nil || session.AccessToken == "" {
		return domain.ErrInvalidInput
	}

	profileJSON, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("marshalling profile: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_sessions (slot, access_token, refresh_token, expires_at, region, profile)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at,
			region = excluded.region,
			profile = excluded.profile,
			updated_at = CURRENT_TIMESTAMP
	`, session.AccessToken, session.RefreshToken, session.ExpiresAt.UTC(),
		string(session.Region), string(profileJSON))

	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// GetSession retrieves the stored session.
func (s *Store) GetSession(ctx context.Context) (*domain.UserSession, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT access_token, refresh_token, expires_at, region, profile
		FROM user_sessions WHERE slot = 1
	`)

	var session domain.UserSession
	var region string
	var profileJSON sql.NullString
	if err := row.Scan(&session.AccessToken, &session.RefreshToken,
		&session.ExpiresAt, &region, &profileJSON); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning session: %w", err)
	}

	session.Region = domain.Region(region)
	session.Kind = domain.TokenKindUser

	if profileJSON.Valid && profileJSON.String != jsonNull && profileJSON.String != "" {
		var profile domain.UserProfile
		if err := json.Unmarshal([]byte(profileJSON.String), &profile); err != nil {
			return nil, fmt.Errorf("unmarshalling profile: %w", err)
		}
		session.User = &profile
	}

	return &session, nil
}

// DeleteSession removes the stored session.
func (s *Store) DeleteSession(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM user_sessions WHERE slot = 1")
	if err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// SavePending stores the in-flight authorization attempt, replacing
// any prior one.
func (s *Store) SavePending(ctx context.Context, pending *domain.PendingAuthorization) error {
	if pending == nil || pending.State == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO pending_authorizations (slot, state, region, redirect_uri, created_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			state = excluded.state,
			region = excluded.region,
			redirect_uri = excluded.redirect_uri,
			created_at = excluded.created_at
	`, pending.State, string(pending.Region), pending.RedirectURI, pending.CreatedAt.UTC())

	if err != nil {
		return fmt.Errorf("saving pending authorization: %w", err)
	}
	return nil
}

// GetPending retrieves the in-flight authorization attempt.
func (s *Store) GetPending(ctx context.Context) (*domain.PendingAuthorization, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT state, region, redirect_uri, created_at
		FROM pending_authorizations WHERE slot = 1
	`)

	var pending domain.PendingAuthorization
	var region string
	if err := row.Scan(&pending.State, &region, &pending.RedirectURI, &pending.CreatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning pending authorization: %w", err)
	}

	pending.Region = domain.Region(region)
	return &pending, nil
}

// DeletePending removes the in-flight authorization attempt.
func (s *Store) DeletePending(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM pending_authorizations WHERE slot = 1")
	if err != nil {
		return fmt.Errorf("deleting pending authorization: %w", err)
	}
	return nil
}
