package archive

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS drawings (
	id          TEXT PRIMARY KEY,
	document_id TEXT NOT NULL,
	title       TEXT NOT NULL,
	project     TEXT NOT NULL,
	spans       INTEGER NOT NULL,
	length      REAL NOT NULL,
	formats     TEXT NOT NULL,
	params_hash TEXT NOT NULL,
	params      TEXT NOT NULL,
	created_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS drawings_created_at ON drawings (created_at DESC);`

// SQLiteStore keeps records in a SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// sqliteRow is the column layout of the drawings table. Times are stored as
// Unix milliseconds, slices and maps as text.
type sqliteRow struct {
	ID         string  `db:"id"`
	DocumentID string  `db:"document_id"`
	Title      string  `db:"title"`
	Project    string  `db:"project"`
	Spans      int     `db:"spans"`
	Length     float64 `db:"length"`
	Formats    string  `db:"formats"`
	ParamsHash string  `db:"params_hash"`
	Params     string  `db:"params"`
	CreatedAt  int64   `db:"created_at"`
}

// OpenSQLite opens (creating if needed) the database at path and applies
// the schema. The path ":memory:" opens a private in-memory database.
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create archive dir: %w", err)
		}
		dsn = "file:" + path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(wal)"
	}

	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create archive schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Save inserts rec.
func (s *SQLiteStore) Save(ctx context.Context, rec *Record) error {
	row, err := toSQLiteRow(rec)
	if err != nil {
		return err
	}
	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO drawings (id, document_id, title, project, spans, length, formats, params_hash, params, created_at)
		VALUES (:id, :document_id, :title, :project, :spans, :length, :formats, :params_hash, :params, :created_at)`, row)
	if err != nil {
		return fmt.Errorf("save record %s: %w", rec.ID, err)
	}
	return nil
}

// Get returns the record with the given ID.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Record, error) {
	var row sqliteRow
	err := s.db.GetContext(ctx, &row, `SELECT * FROM drawings WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return row.record()
}

// List returns the newest records first.
func (s *SQLiteStore) List(ctx context.Context, limit int) ([]Record, error) {
	var rows []sqliteRow
	err := s.db.SelectContext(ctx, &rows,
		`SELECT * FROM drawings ORDER BY created_at DESC, id LIMIT ?`, listLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, err
		}
		out = append(out, *rec)
	}
	return out, nil
}

// Delete removes a record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM drawings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete record %s: %w", id, err)
	}
	return nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toSQLiteRow(rec *Record) (sqliteRow, error) {
	p, err := json.Marshal(rec.Params)
	if err != nil {
		return sqliteRow{}, fmt.Errorf("encode params: %w", err)
	}
	return sqliteRow{
		ID:         rec.ID,
		DocumentID: rec.DocumentID,
		Title:      rec.Title,
		Project:    rec.Project,
		Spans:      rec.Spans,
		Length:     rec.Length,
		Formats:    strings.Join(rec.Formats, ","),
		ParamsHash: rec.ParamsHash,
		Params:     string(p),
		CreatedAt:  rec.CreatedAt.UnixMilli(),
	}, nil
}

func (r sqliteRow) record() (*Record, error) {
	rec := &Record{
		ID:         r.ID,
		DocumentID: r.DocumentID,
		Title:      r.Title,
		Project:    r.Project,
		Spans:      r.Spans,
		Length:     r.Length,
		ParamsHash: r.ParamsHash,
		CreatedAt:  time.UnixMilli(r.CreatedAt).UTC(),
	}
	if r.Formats != "" {
		rec.Formats = strings.Split(r.Formats, ",")
	}
	if err := json.Unmarshal([]byte(r.Params), &rec.Params); err != nil {
		return nil, fmt.Errorf("decode params of %s: %w", r.ID, err)
	}
	return rec, nil
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
