package store

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	_ "modernc.org/sqlite"

	"github.com/arthur-debert/marktree/pkg/errors"
	"github.com/arthur-debert/marktree/pkg/filesystem"
	"github.com/arthur-debert/marktree/pkg/guid"
	"github.com/arthur-debert/marktree/pkg/logging"
	"github.com/arthur-debert/marktree/pkg/sources"
	"github.com/arthur-debert/marktree/pkg/tree"
)

const schemaVersion = "1"

const schema = `
CREATE TABLE IF NOT EXISTS items (
	seq         INTEGER PRIMARY KEY,
	guid        TEXT NOT NULL UNIQUE,
	kind        TEXT NOT NULL,
	parent_guid TEXT,
	position    INTEGER NOT NULL DEFAULT 0,
	title       TEXT NOT NULL DEFAULT '',
	url         TEXT NOT NULL DEFAULT '',
	sep_pos     INTEGER NOT NULL DEFAULT 0,
	modified    INTEGER NOT NULL DEFAULT 0,
	needs_merge INTEGER NOT NULL DEFAULT 0,
	validity    TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS tombstones (
	guid TEXT PRIMARY KEY
);
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_items_parent ON items(parent_guid, position);
`

// Options configure an opened store
type Options struct {
	// BusyTimeout is how long a write waits on a locked database
	BusyTimeout time.Duration
	// FS creates the database directory. Defaults to the OS filesystem; the
	// database file itself is always opened by the SQLite driver.
	FS filesystem.FS
}

// Stats summarizes the stored replica
type Stats struct {
	Items      int
	Folders    int
	Tombstones int
	SavedAt    time.Time
}

// Store keeps the local bookmark replica in a SQLite file
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the store at path
func Open(ctx context.Context, path string, opts Options) (*Store, error) {
	logger := logging.GetLogger("store")

	fsys := opts.FS
	if fsys == nil {
		fsys = filesystem.NewOS()
	}
	if err := fsys.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create store directory for %s", path).
			WithDetail("path", path)
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)",
		path, opts.BusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrStoreOpen, "failed to open store %s", path).
			WithDetail("path", path)
	}
	// A single connection serializes writers instead of failing them
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrapf(err, errors.ErrStoreOpen, "failed to set up store %s", path).
			WithDetail("path", path)
	}
	s := &Store{db: db, path: path}
	if err := s.checkSchema(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	logger.Debug().Str("path", path).Msg("Store opened")
	return s, nil
}

func (s *Store) checkSchema(ctx context.Context) error {
	var version string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'schema_version'`).Scan(&version)
	switch {
	case err == sql.ErrNoRows:
		_, err = s.db.ExecContext(ctx, `INSERT INTO meta (key, value) VALUES ('schema_version', ?)`, schemaVersion)
		if err != nil {
			return errors.Wrap(err, errors.ErrStoreWrite, "failed to record schema version")
		}
		return nil
	case err != nil:
		return errors.Wrap(err, errors.ErrStoreQuery, "failed to read schema version")
	case version != schemaVersion:
		return errors.Newf(errors.ErrStoreOpen, "store %s has schema version %s, want %s", s.path, version, schemaVersion).
			WithDetail("path", s.path)
	}
	return nil
}

// Path returns the database file the store was opened on
func (s *Store) Path() string {
	return s.path
}

// Close closes the database
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// SaveTree replaces the stored replica with t in one transaction. Items are
// written in pre-order with their position under their parent; modification
// times are rebuilt from ages relative to now.
func (s *Store) SaveTree(ctx context.Context, t *tree.Tree, now time.Time) error {
	logger := logging.GetLogger("store")
	done := logging.LogOperationStart(logger, "save-tree")
	defer done()

	records := sources.RecordsFromTree(t, now)
	positions := childPositions(records)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range []string{`DELETE FROM items`, `DELETE FROM tombstones`} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, errors.ErrStoreWrite, "failed to clear store")
		}
	}

	insertItem, err := tx.PrepareContext(ctx, `
		INSERT INTO items (seq, guid, kind, parent_guid, position, title, url, sep_pos, modified, needs_merge, validity)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to prepare item insert")
	}
	defer func() { _ = insertItem.Close() }()

	insertTombstone, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO tombstones (guid) VALUES (?)`)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to prepare tombstone insert")
	}
	defer func() { _ = insertTombstone.Close() }()

	for seq, r := range records {
		if r.Deleted {
			if _, err := insertTombstone.ExecContext(ctx, r.ID); err != nil {
				return errors.Wrapf(err, errors.ErrStoreWrite, "failed to store tombstone %s", r.ID).
					WithDetail("guid", r.ID)
			}
			continue
		}
		_, err := insertItem.ExecContext(ctx,
			seq, r.ID, r.Type, nullable(r.ParentID), positions[r.ID],
			r.Title, r.URI, r.Position, r.Modified, r.NeedsMerge, r.Validity)
		if err != nil {
			return errors.Wrapf(err, errors.ErrStoreWrite, "failed to store item %s", r.ID).
				WithDetail("guid", r.ID)
		}
	}

	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO meta (key, value) VALUES ('saved_at', ?)`,
		strconv.FormatInt(now.UnixMilli(), 10))
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to record save time")
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to commit tree")
	}

	logger.Info().Int("items", t.Size()).Int("tombstones", len(t.Deletions())).Msg("Tree saved")
	return nil
}

// childPositions maps every listed child to its index in its parent
func childPositions(records []sources.Record) map[string]int {
	positions := make(map[string]int, len(records))
	for _, r := range records {
		for i, child := range r.Children {
			positions[child] = i
		}
	}
	return positions
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// Records reads the stored replica as records: items in pre-order, then
// tombstones
func (s *Store) Records(ctx context.Context) ([]sources.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, kind, parent_guid, title, url, sep_pos, modified, needs_merge, validity
		FROM items ORDER BY seq`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "failed to query items")
	}
	defer func() { _ = rows.Close() }()

	var records []sources.Record
	for rows.Next() {
		var r sources.Record
		var parent sql.NullString
		err := rows.Scan(&r.ID, &r.Type, &parent, &r.Title, &r.URI, &r.Position, &r.Modified, &r.NeedsMerge, &r.Validity)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrStoreQuery, "failed to read item")
		}
		r.ParentID = parent.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "failed to read items")
	}

	tombstones, err := s.tombstones(ctx)
	if err != nil {
		return nil, err
	}
	for _, g := range tombstones {
		records = append(records, sources.Record{ID: string(g), Deleted: true})
	}
	return records, nil
}

func (s *Store) tombstones(ctx context.Context) ([]guid.Guid, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT guid FROM tombstones ORDER BY guid`)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "failed to query tombstones")
	}
	defer func() { _ = rows.Close() }()

	var guids []guid.Guid
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, errors.Wrap(err, errors.ErrStoreQuery, "failed to read tombstone")
		}
		guids = append(guids, guid.Guid(g))
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrStoreQuery, "failed to read tombstones")
	}
	return guids, nil
}

// LoadTree rebuilds the stored replica as a local tree
func (s *Store) LoadTree(ctx context.Context, opts sources.Options) (*tree.Tree, error) {
	records, err := s.Records(ctx)
	if err != nil {
		return nil, err
	}
	return sources.BuildLocalTree(records, opts)
}

// NoteDeleted records a tombstone for g and drops any stored item with
// that GUID. Children of a dropped folder are kept and become orphans on
// the next load.
func (s *Store) NoteDeleted(ctx context.Context, g guid.Guid) error {
	if g == guid.Root {
		return errors.New(errors.ErrInvalidInput, "the root cannot be deleted").
			WithDetail("guid", string(g))
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to begin transaction")
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE guid = ?`, string(g)); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to delete item %s", g).
			WithDetail("guid", string(g))
	}
	if _, err := tx.ExecContext(ctx, `UPDATE items SET parent_guid = NULL WHERE parent_guid = ?`, string(g)); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to detach children of %s", g).
			WithDetail("guid", string(g))
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tombstones (guid) VALUES (?)`, string(g)); err != nil {
		return errors.Wrapf(err, errors.ErrStoreWrite, "failed to store tombstone %s", g).
			WithDetail("guid", string(g))
	}
	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, errors.ErrStoreWrite, "failed to commit deletion")
	}

	logger := logging.GetLogger("store")
	logger.Debug().Str("guid", string(g)).Msg("Noted deletion")
	return nil
}

// Stats counts the stored items below the root, the folders among them
// and the tombstones
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM items WHERE guid != ?),
			(SELECT COUNT(*) FROM items WHERE guid != ? AND kind IN ('folder', 'livemark')),
			(SELECT COUNT(*) FROM tombstones)`, string(guid.Root), string(guid.Root)).
		Scan(&stats.Items, &stats.Folders, &stats.Tombstones)
	if err != nil {
		return Stats{}, errors.Wrap(err, errors.ErrStoreQuery, "failed to count items")
	}

	var savedAt string
	err = s.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'saved_at'`).Scan(&savedAt)
	switch {
	case err == sql.ErrNoRows:
	case err != nil:
		return Stats{}, errors.Wrap(err, errors.ErrStoreQuery, "failed to read save time")
	default:
		if ms, perr := strconv.ParseInt(savedAt, 10, 64); perr == nil {
			stats.SavedAt = time.UnixMilli(ms).UTC()
		}
	}
	return stats, nil
}
