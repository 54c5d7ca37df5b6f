package storage

import (
	"database/sql"
	"errors"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// DateLayout is the canonical on-disk date format. Every date column and
// every date passed through this package uses it.
const DateLayout = "2006-01-02"

// Task is one record in either the active or the completed store. IDs are
// store-scoped: moving a task between stores assigns a fresh id.
type Task struct {
	ID   int
	Date string
	Text string
}

// Entry is a (date, text) pair for batch inserts.
type Entry struct {
	Date string
	Text string
}

// Store persists active and completed tasks in two separate SQLite
// database files (tasks.db and completed_tasks.db). All access is
// single-writer; no locking beyond SQLite's own.
type Store struct {
	tasks     *sql.DB
	completed *sql.DB
}

func Open(tasksPath, completedPath string) (*Store, error) {
	tasks, err := openDB(tasksPath, "tasks")
	if err != nil {
		return nil, err
	}
	completed, err := openDB(completedPath, "completed_tasks")
	if err != nil {
		tasks.Close()
		return nil, err
	}
	return &Store{tasks: tasks, completed: completed}, nil
}

func (s *Store) Close() error {
	var errTasks, errCompleted error
	if s.tasks != nil {
		errTasks = s.tasks.Close()
	}
	if s.completed != nil {
		errCompleted = s.completed.Close()
	}
	if errTasks != nil {
		return errTasks
	}
	return errCompleted
}

func openDB(dbPath, table string) (*sql.DB, error) {
	if dbPath == "" {
		return nil, errors.New("db path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, err
	}
	dsn := sqliteDSN(dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if err := ensureSchema(db, table); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sql.DB, table string) error {
	ddl := `
CREATE TABLE IF NOT EXISTS ` + table + ` (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	date TEXT NOT NULL,
	text TEXT NOT NULL
);`
	_, err := db.Exec(ddl)
	return err
}

// Add appends one active task for the given date.
func (s *Store) Add(date, text string) error {
	_, err := s.tasks.Exec(`INSERT INTO tasks (date, text) VALUES (?, ?);`, date, text)
	return err
}

// AddBatch inserts all entries into the active store in a single
// transaction. Either every entry lands or none does.
func (s *Store) AddBatch(entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := s.tasks.Begin()
	if err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO tasks (date, text) VALUES (?, ?);`)
	if err != nil {
		tx.Rollback()
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.Exec(e.Date, e.Text); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// TasksForDate returns the active tasks for a date in insertion order.
func (s *Store) TasksForDate(date string) ([]Task, error) {
	return fetchForDate(s.tasks, "tasks", date)
}

// CompletedForDate returns the completed tasks for a date in insertion order.
func (s *Store) CompletedForDate(date string) ([]Task, error) {
	return fetchForDate(s.completed, "completed_tasks", date)
}

func fetchForDate(db *sql.DB, table, date string) ([]Task, error) {
	rows, err := db.Query(`SELECT id, date, text FROM `+table+` WHERE date = ? ORDER BY id;`, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		var t Task
		if err := rows.Scan(&t.ID, &t.Date, &t.Text); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tasks, nil
}

// Complete moves a task from the active to the completed store: insert
// into completed, then delete the active row. The two steps commit to two
// separate database files, so a crash between them can duplicate or drop
// the record. A single-file transactional move would close that window,
// at the cost of changing the on-disk layout.
func (s *Store) Complete(id int, date, text string) error {
	if _, err := s.completed.Exec(`INSERT INTO completed_tasks (date, text) VALUES (?, ?);`, date, text); err != nil {
		return err
	}
	_, err := s.tasks.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	return err
}

// Uncomplete moves a task back to the active store. The insert is skipped
// when an identical (date, text) active row already exists, so toggling a
// recurrence-created task back and forth never duplicates it. The
// completed row is removed regardless.
func (s *Store) Uncomplete(id int, date, text string) error {
	var existing int
	err := s.tasks.QueryRow(`SELECT id FROM tasks WHERE date = ? AND text = ? LIMIT 1;`, date, text).Scan(&existing)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		if _, err := s.tasks.Exec(`INSERT INTO tasks (date, text) VALUES (?, ?);`, date, text); err != nil {
			return err
		}
	case err != nil:
		return err
	}
	_, err = s.completed.Exec(`DELETE FROM completed_tasks WHERE id = ?;`, id)
	return err
}

// DeleteTask removes an active task by id. Deleting an absent id is a no-op.
func (s *Store) DeleteTask(id int) error {
	_, err := s.tasks.Exec(`DELETE FROM tasks WHERE id = ?;`, id)
	return err
}

// DeleteCompleted removes a completed task by id. Deleting an absent id is
// a no-op.
func (s *Store) DeleteCompleted(id int) error {
	_, err := s.completed.Exec(`DELETE FROM completed_tasks WHERE id = ?;`, id)
	return err
}

// AllTaskDates returns every distinct date that has at least one task in
// either store.
func (s *Store) AllTaskDates() (map[string]struct{}, error) {
	dates := map[string]struct{}{}
	if err := collectDates(s.tasks, "tasks", dates); err != nil {
		return nil, err
	}
	if err := collectDates(s.completed, "completed_tasks", dates); err != nil {
		return nil, err
	}
	return dates, nil
}

func collectDates(db *sql.DB, table string, into map[string]struct{}) error {
	rows, err := db.Query(`SELECT DISTINCT date FROM ` + table + `;`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return err
		}
		into[d] = struct{}{}
	}
	return rows.Err()
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		path = abs
	}
	u := url.URL{
		Scheme: "file",
		Path:   path,
	}
	q := u.Query()
	q.Set("mode", "rwc")
	q.Set("_pragma", "busy_timeout(5000)")
	u.RawQuery = q.Encode()
	return u.String()
}
