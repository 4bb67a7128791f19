package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"gamedex/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS runs (
  id TEXT PRIMARY KEY,
  inputRef TEXT NOT NULL,
  outputRef TEXT NOT NULL,
  model TEXT NOT NULL,
  rowCount INTEGER NOT NULL,
  columnsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  timingsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS enriched_rows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  runId TEXT NOT NULL,
  rowIdx INTEGER NOT NULL,
  gameTitle TEXT NOT NULL,
  genre TEXT NOT NULL,
  shortDescription TEXT NOT NULL,
  playerMode TEXT NOT NULL,
  valuesJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(runId, rowIdx),
  FOREIGN KEY(runId) REFERENCES runs(id)
);
CREATE INDEX IF NOT EXISTS idx_enriched_rows_runId ON enriched_rows(runId);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// InsertRun archives one completed enrichment run with all of its rows.
func (d *DB) InsertRun(runID, inputRef, outputRef, model string, ds internal.EnrichedDataset, counts internal.EnrichCounts, timings map[string]float64) error {
	columnsJSON, _ := json.Marshal(ds.Columns)
	countsJSON, _ := json.Marshal(map[string]int{
		"rows":      counts.Rows,
		"queries":   counts.Queries,
		"fallbacks": counts.Fallbacks,
	})
	timingsJSON, _ := json.Marshal(timings)

	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`
INSERT INTO runs (id, inputRef, outputRef, model, rowCount, columnsJson, countsJson, timingsJson)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
`, runID, inputRef, outputRef, model, len(ds.Rows), string(columnsJSON), string(countsJSON), string(timingsJSON)); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`
INSERT INTO enriched_rows (runId, rowIdx, gameTitle, genre, shortDescription, playerMode, valuesJson)
VALUES (?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, row := range ds.Rows {
		valuesJSON, _ := json.Marshal(row.Values)
		if _, err := stmt.Exec(runID, row.Index, row.Title, row.Genre, row.ShortDescription, row.PlayerMode, string(valuesJSON)); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) ListRuns(limit int) ([]internal.RunRecord, error) {
	rows, err := d.conn.Query(`
SELECT id, inputRef, outputRef, model, rowCount, createdAt
FROM runs ORDER BY createdAt DESC LIMIT ?
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RunRecord
	for rows.Next() {
		var r internal.RunRecord
		if err := rows.Scan(&r.ID, &r.InputRef, &r.OutputRef, &r.Model, &r.RowCount, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// GetRunDataset reconstructs an archived run for re-export.
func (d *DB) GetRunDataset(runID string) (internal.EnrichedDataset, error) {
	var columnsJSON string
	err := d.conn.QueryRow(`SELECT columnsJson FROM runs WHERE id = ?`, runID).Scan(&columnsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return internal.EnrichedDataset{}, fmt.Errorf("unknown run: %s", runID)
	}
	if err != nil {
		return internal.EnrichedDataset{}, err
	}

	ds := internal.EnrichedDataset{}
	if err := json.Unmarshal([]byte(columnsJSON), &ds.Columns); err != nil {
		return internal.EnrichedDataset{}, err
	}
	// The archive stores columns with the three derived ones already appended;
	// the reconstructed Values must stay the original prefix.
	rows, err := d.conn.Query(`
SELECT rowIdx, gameTitle, genre, shortDescription, playerMode, valuesJson
FROM enriched_rows WHERE runId = ? ORDER BY rowIdx ASC
`, runID)
	if err != nil {
		return internal.EnrichedDataset{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var row internal.EnrichedRow
		var valuesJSON string
		if err := rows.Scan(&row.Index, &row.Title, &row.Genre, &row.ShortDescription, &row.PlayerMode, &valuesJSON); err != nil {
			return internal.EnrichedDataset{}, err
		}
		if err := json.Unmarshal([]byte(valuesJSON), &row.Values); err != nil {
			return internal.EnrichedDataset{}, err
		}
		ds.Rows = append(ds.Rows, row)
	}
	return ds, rows.Err()
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}
