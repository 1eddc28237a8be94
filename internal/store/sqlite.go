package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"mindmap-cli/internal/model"

	_ "modernc.org/sqlite"
)

func (s Store) sqlitePath() string {
	return filepath.Join(filepath.Clean(s.Dir), "maps.sqlite")
}

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a CLI command runs next to the TUI.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS state_meta (
			k TEXT PRIMARY KEY,
			v TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS maps (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			outline TEXT NOT NULL,
			connector_style TEXT NOT NULL,
			layout_mode TEXT NOT NULL,
			created_at_unixms INTEGER NOT NULL,
			modified_at_unixms INTEGER NOT NULL,
			json TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_maps_modified ON maps(modified_at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// NotFoundError reports a missing map id.
type NotFoundError struct {
	ID string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("map not found: %s", e.ID)
}

// PutMap upserts a record. Row columns are typed for listing/queries; the
// json blob is the source of truth when reading back.
func (s Store) PutMap(ctx context.Context, rec model.MapRecord) error {
	if strings.TrimSpace(rec.ID) == "" {
		return fmt.Errorf("map record without id")
	}
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	raw, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO maps(
		id, name, outline, connector_style, layout_mode,
		created_at_unixms, modified_at_unixms, json
	) VALUES(?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.Name, rec.Outline,
		string(rec.ConnectorStyle), string(rec.LayoutMode),
		rec.CreatedAt.UTC().UnixMilli(), rec.ModifiedAt.UTC().UnixMilli(),
		string(raw),
	)
	return err
}

func (s Store) GetMap(ctx context.Context, id string) (model.MapRecord, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return model.MapRecord{}, err
	}
	defer db.Close()

	var raw string
	err = db.QueryRowContext(ctx, `SELECT json FROM maps WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return model.MapRecord{}, NotFoundError{ID: id}
	}
	if err != nil {
		return model.MapRecord{}, err
	}
	var rec model.MapRecord
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		return model.MapRecord{}, err
	}
	return rec, nil
}

// ListMaps returns all records, most recently modified first.
func (s Store) ListMaps(ctx context.Context) ([]model.MapRecord, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT json FROM maps`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.MapRecord{}
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var rec model.MapRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ModifiedAt.After(out[j].ModifiedAt) })
	return out, nil
}

func (s Store) DeleteMap(ctx context.Context, id string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	res, err := db.ExecContext(ctx, `DELETE FROM maps WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NotFoundError{ID: id}
	}
	if cur, _ := s.CurrentMapID(ctx); cur == id {
		_ = s.SetCurrentMapID(ctx, "")
	}
	return nil
}

// CurrentMapID returns the last opened map id, or "" when none is recorded.
func (s Store) CurrentMapID(ctx context.Context) (string, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return "", err
	}
	defer db.Close()

	var v string
	err = db.QueryRowContext(ctx, `SELECT v FROM state_meta WHERE k = ?`, "current_map_id").Scan(&v)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(v), nil
}

func (s Store) SetCurrentMapID(ctx context.Context, id string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	_, err = db.ExecContext(ctx, `INSERT OR REPLACE INTO state_meta(k, v) VALUES(?, ?)`, "current_map_id", strings.TrimSpace(id))
	return err
}
