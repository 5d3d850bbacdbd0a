package store

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

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"github.com/exo9planet/SubWallet-Extension/internal/swap"
)

type Status string

const (
	StatusPlanned   Status = "planned"
	StatusValidated Status = "validated"
	StatusSubmitted Status = "submitted"
)

// Process is one persisted swap plan: the originating request, the
// accepted quote, and the generated path, kept so validation can be
// re-run later against live state.
type Process struct {
	ProcessID string        `json:"process_id"`
	Provider  string        `json:"provider"`
	Pair      swap.Pair     `json:"pair"`
	Status    Status        `json:"status"`
	Request   *swap.Request `json:"request"`
	Quote     *swap.Quote   `json:"quote"`
	Path      *swap.Path    `json:"path"`
	CreatedAt string        `json:"created_at"`
	UpdatedAt string        `json:"updated_at"`
}

func NewProcess(request *swap.Request, quote *swap.Quote, path *swap.Path) Process {
	now := time.Now().UTC().Format(time.RFC3339)
	return Process{
		ProcessID: path.ID,
		Provider:  path.Provider,
		Pair:      request.Pair,
		Status:    StatusPlanned,
		Request:   request,
		Quote:     quote,
		Path:      path,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (p *Process) Touch(status Status) {
	p.Status = status
	p.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
}

// Store persists processes in a WAL sqlite database guarded by an
// advisory file lock, so concurrent engine invocations do not trample
// each other's writes.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

func Open(path, lockPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create process store directory: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, fmt.Errorf("create process lock directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open process sqlite: %w", err)
	}

	queries := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS processes (
			process_id TEXT PRIMARY KEY,
			provider TEXT NOT NULL,
			pair TEXT NOT NULL,
			status TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL,
			payload BLOB NOT NULL
		);`,
		"CREATE INDEX IF NOT EXISTS idx_processes_status_updated ON processes(status, updated_at DESC);",
	}
	for _, q := range queries {
		if _, err := db.Exec(q); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init process schema: %w", err)
		}
	}
	return &Store{db: db, lock: flock.New(lockPath)}, nil
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Save(process Process) error {
	if strings.TrimSpace(process.ProcessID) == "" {
		return fmt.Errorf("save process: missing process id")
	}
	locked, err := s.lock.TryLockContext(context.Background(), 5*time.Second)
	if err != nil {
		return fmt.Errorf("lock process store: %w", err)
	}
	if !locked {
		return fmt.Errorf("lock process store: timeout acquiring lock")
	}
	defer func() { _ = s.lock.Unlock() }()

	payload, err := json.Marshal(process)
	if err != nil {
		return fmt.Errorf("marshal process: %w", err)
	}
	createdUnix := rfc3339Unix(process.CreatedAt)
	updatedUnix := rfc3339Unix(process.UpdatedAt)

	_, err = s.db.Exec(`
		INSERT INTO processes (process_id, provider, pair, status, created_at, updated_at, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(process_id) DO UPDATE SET
			provider=excluded.provider,
			pair=excluded.pair,
			status=excluded.status,
			updated_at=excluded.updated_at,
			payload=excluded.payload
	`, process.ProcessID, process.Provider, process.Pair.Key(), process.Status, createdUnix, updatedUnix, payload)
	if err != nil {
		return fmt.Errorf("save process: %w", err)
	}
	return nil
}

func (s *Store) Get(processID string) (Process, error) {
	var payload []byte
	err := s.db.QueryRow("SELECT payload FROM processes WHERE process_id = ?", processID).Scan(&payload)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Process{}, fmt.Errorf("process not found: %s", processID)
		}
		return Process{}, fmt.Errorf("read process: %w", err)
	}
	var process Process
	if err := json.Unmarshal(payload, &process); err != nil {
		return Process{}, fmt.Errorf("decode process payload: %w", err)
	}
	return process, nil
}

func (s *Store) List(status Status, limit int) ([]Process, error) {
	if limit <= 0 {
		limit = 20
	}
	var (
		rows *sql.Rows
		err  error
	)
	if status == "" {
		rows, err = s.db.Query("SELECT payload FROM processes ORDER BY updated_at DESC LIMIT ?", limit)
	} else {
		rows, err = s.db.Query("SELECT payload FROM processes WHERE status = ? ORDER BY updated_at DESC LIMIT ?", status, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}
	defer rows.Close()

	processes := make([]Process, 0)
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("scan process row: %w", err)
		}
		var process Process
		if err := json.Unmarshal(payload, &process); err != nil {
			return nil, fmt.Errorf("decode process row: %w", err)
		}
		processes = append(processes, process)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate process rows: %w", err)
	}
	return processes, nil
}

func rfc3339Unix(v string) int64 {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Now().UTC().Unix()
	}
	return t.UTC().Unix()
}
