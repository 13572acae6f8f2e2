package convstore

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"longbox/internal/logging"
)

const (
	sourceTable     = "source_conversions"
	grassrootsTable = "gcd_conversions"
)

// Record is one durable conversion row.
type Record struct {
	Kind          Kind
	SourceID      int64
	DestinationID int64
}

// Store manages conversion persistence backed by SQLite.
type Store struct {
	db     *sql.DB
	path   string
	lock   *flock.Flock
	logger *slog.Logger

	source     *Namespace
	grassroots *Namespace
}

// Open initializes or connects to the conversion database. The backing file
// is locked for the lifetime of the store; a second concurrent session fails
// fast instead of interleaving prompts.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.WithComponent(logger, "convstore")

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock conversion store: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("conversion store %q is in use by another session", path)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	// Duplicate (resource, source_id) rows are tolerated: lookups take the
	// first match, and callers check Get before Store.
	for _, table := range []string{sourceTable, grassrootsTable} {
		schema := fmt.Sprintf(
			`CREATE TABLE IF NOT EXISTS %s (
                resource INTEGER NOT NULL,
                source_id INTEGER NOT NULL,
                destination_id INTEGER NOT NULL
            )`, table)
		if _, execErr := db.Exec(schema); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("create table %s: %w", table, execErr)
		}
	}

	store := &Store{db: db, path: path, lock: lock, logger: logger}
	store.source = &Namespace{db: db, table: sourceTable, logger: logger}
	store.grassroots = &Namespace{db: db, table: grassrootsTable, logger: logger}

	logger.Debug("conversion store opened", logging.String("path", path))
	return store, nil
}

// Close releases the database connection and the session lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); unlockErr != nil && err == nil {
			err = unlockErr
		}
	}
	return err
}

// Source returns the namespace keyed by the primary metadata provider's ids.
func (s *Store) Source() *Namespace { return s.source }

// Grassroots returns the namespace keyed by the grassroots database's ids.
func (s *Store) Grassroots() *Namespace { return s.grassroots }

// Namespace is one of the store's two independent id spaces.
type Namespace struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
}

// Get performs a point lookup. Absence is a normal outcome, reported through
// the boolean rather than an error.
func (n *Namespace) Get(ctx context.Context, kind Kind, sourceID int64) (int64, bool, error) {
	query := fmt.Sprintf("SELECT destination_id FROM %s WHERE resource = ? AND source_id = ?", n.table)
	var destID int64
	err := n.db.QueryRowContext(ctx, query, int(kind), sourceID).Scan(&destID)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("get conversion: %w", err)
	}
	return destID, true, nil
}

// Store inserts a conversion record and commits immediately. It does not
// enforce uniqueness; callers are expected to check Get first.
func (n *Namespace) Store(ctx context.Context, kind Kind, sourceID, destinationID int64) error {
	query := fmt.Sprintf("INSERT INTO %s (resource, source_id, destination_id) VALUES (?, ?, ?)", n.table)
	if _, err := n.db.ExecContext(ctx, query, int(kind), sourceID, destinationID); err != nil {
		return fmt.Errorf("store conversion: %w", err)
	}
	n.logger.Debug("conversion stored",
		logging.String("kind", kind.String()),
		logging.Int64("source_id", sourceID),
		logging.Int64("destination_id", destinationID),
	)
	return nil
}

// Edit updates the destination id for an existing record. Used for manual
// correction of a bad mapping.
func (n *Namespace) Edit(ctx context.Context, kind Kind, sourceID, destinationID int64) error {
	query := fmt.Sprintf("UPDATE %s SET destination_id = ? WHERE resource = ? AND source_id = ?", n.table)
	if _, err := n.db.ExecContext(ctx, query, destinationID, int(kind), sourceID); err != nil {
		return fmt.Errorf("edit conversion: %w", err)
	}
	return nil
}

// Delete removes a record. Success is verified by re-querying and confirming
// absence.
func (n *Namespace) Delete(ctx context.Context, kind Kind, sourceID int64) (bool, error) {
	query := fmt.Sprintf("DELETE FROM %s WHERE resource = ? AND source_id = ?", n.table)
	if _, err := n.db.ExecContext(ctx, query, int(kind), sourceID); err != nil {
		return false, fmt.Errorf("delete conversion: %w", err)
	}
	_, present, err := n.Get(ctx, kind, sourceID)
	if err != nil {
		return false, err
	}
	return !present, nil
}

// List returns every record for a kind, ordered by source id.
func (n *Namespace) List(ctx context.Context, kind Kind) ([]Record, error) {
	query := fmt.Sprintf("SELECT resource, source_id, destination_id FROM %s WHERE resource = ? ORDER BY source_id", n.table)
	rows, err := n.db.QueryContext(ctx, query, int(kind))
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var resource int
		if err := rows.Scan(&resource, &rec.SourceID, &rec.DestinationID); err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		rec.Kind = Kind(resource)
		records = append(records, rec)
	}
	return records, rows.Err()
}
