/*
Package sqlite persists the employee store between process runs.

PURPOSE:
  The live store is in-process (store.Memory); this package round-trips its
  full state - every employee with variant tag, nested time-card/sales/
  service-charge collections and date fields, plus the running id counter -
  through a SQLite database. The engine loads once at startup and persists
  on shutdown.

LAYOUT:
  employees(id TEXT PRIMARY KEY, record TEXT)   one JSON document per employee
  counters(name TEXT PRIMARY KEY, value INT)    the sequential id counter

  JSON documents rather than one column per field: the round-trip contract
  is exact structural fidelity, and the engine never queries inside a record.

USAGE:
  db, err := sqlite.Open("./payroll.db")
  state, err := db.Load(ctx)
  mem.Restore(state)
  ...
  err = db.Persist(ctx, mem.Snapshot())

SEE ALSO:
  - store/memory.go: the live store this state belongs to
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/payroll-engine/payroll"
)

type DB struct {
	db *sql.DB
}

// Open opens (or creates) the database. Use ":memory:" for tests.
func Open(path string) (*DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return d, nil
}

func (d *DB) Close() error { return d.db.Close() }

func (d *DB) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		id     TEXT PRIMARY KEY,
		record TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS counters (
		name  TEXT PRIMARY KEY,
		value INTEGER NOT NULL
	);`
	_, err := d.db.Exec(schema)
	return err
}

// Persist replaces the stored state with the given snapshot, atomically.
func (d *DB) Persist(ctx context.Context, state payroll.State) error {
	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM employees`); err != nil {
		return err
	}
	for id, e := range state.Employees {
		record, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("encode employee %s: %w", id, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO employees (id, record) VALUES (?, ?)`, id, string(record)); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO counters (name, value) VALUES ('employee_id', ?)
		 ON CONFLICT(name) DO UPDATE SET value = excluded.value`, state.NextID); err != nil {
		return err
	}
	return tx.Commit()
}

// Load reads the stored state. A fresh database yields an empty state.
func (d *DB) Load(ctx context.Context) (payroll.State, error) {
	state := payroll.State{Employees: map[string]*payroll.Employee{}}

	rows, err := d.db.QueryContext(ctx, `SELECT id, record FROM employees`)
	if err != nil {
		return state, err
	}
	defer rows.Close()
	for rows.Next() {
		var id, record string
		if err := rows.Scan(&id, &record); err != nil {
			return state, err
		}
		var e payroll.Employee
		if err := json.Unmarshal([]byte(record), &e); err != nil {
			return state, fmt.Errorf("decode employee %s: %w", id, err)
		}
		state.Employees[id] = &e
	}
	if err := rows.Err(); err != nil {
		return state, err
	}

	err = d.db.QueryRowContext(ctx,
		`SELECT value FROM counters WHERE name = 'employee_id'`).Scan(&state.NextID)
	if err != nil && err != sql.ErrNoRows {
		return state, err
	}
	return state, nil
}
