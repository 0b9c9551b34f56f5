// Package sqlite implements the SQLite storage backend for speakboard cards.
// The database file under DataDir is the source of truth and persists across
// attaches.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/mesh-intelligence/speakboard/internal/notify"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// DBFileName is the database file created inside DataDir.
const DBFileName = "speakboard.db"

// DefaultPollInterval is how often an attached backend looks for commits
// made by other connections to the same database file.
const DefaultPollInterval = 250 * time.Millisecond

// Compile-time interface check.
var _ types.Board = (*Backend)(nil)

// Backend implements types.Store on a single SQLite database.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	bus      *notify.Bus

	pollInterval time.Duration
	stopPoll     context.CancelFunc
	pollDone     chan struct{}
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{bus: notify.NewBus(), pollInterval: DefaultPollInterval}
}

// Attach opens (or creates) the database in config.DataDir and applies the
// schema. When config.Seed is set the starter cards are inserted into an
// empty store.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data dir: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBFileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	// One connection serializes writers and keeps transactions on a
	// single handle.
	db.SetMaxOpenConns(1)

	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating table: %w", err)
		}
	}
	for _, ddl := range indexDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return fmt.Errorf("creating index: %w", err)
		}
	}

	if config.Seed {
		seeded, err := seedDefaults(context.Background(), db)
		if err != nil {
			db.Close()
			return err
		}
		if seeded {
			slog.Debug("seeded default cards", "data_dir", dataDir, "count", len(defaultCards))
		}
	}

	version, err := dataVersion(context.Background(), db)
	if err != nil {
		db.Close()
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.stopPoll = cancel
	b.pollDone = make(chan struct{})
	go b.watchExternal(ctx, db, version, b.pollDone)

	b.db = db
	b.config = config
	b.attached = true
	return nil
}

// Detach closes the database. After Detach, all operations return
// ErrStoreDetached. Detach is idempotent. Subscriptions stay registered so
// that a later Attach keeps feeding them.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	if b.stopPoll != nil {
		b.stopPoll()
		<-b.pollDone
		b.stopPoll = nil
	}
	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}
	b.attached = false
	return nil
}

// Subscribe registers for change signals published after every successful
// mutation, whether it went through this backend or through another
// connection to the same database file.
func (b *Backend) Subscribe() (<-chan struct{}, func()) {
	return b.bus.Subscribe()
}

// DataDir returns the directory of the attached database.
func (b *Backend) DataDir() string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.config.DataDir
}

// read runs fn against the database under the read lock.
func (b *Backend) read(fn func(db *sql.DB) error) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if !b.attached {
		return types.ErrStoreDetached
	}
	return fn(b.db)
}

// write runs fn inside a transaction under the write lock and publishes a
// change signal once the transaction commits.
func (b *Backend) write(ctx context.Context, fn func(tx *sql.Tx) error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return types.ErrStoreDetached
	}

	tx, err := b.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	b.bus.Publish()
	return nil
}

// watchExternal publishes a change signal when another connection commits
// to the database. PRAGMA data_version only moves for commits made by other
// connections, so writes through this backend are signalled once, by write.
// Polling is skipped while nobody is subscribed.
func (b *Backend) watchExternal(ctx context.Context, db *sql.DB, last int64, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(b.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
		if b.bus.Len() == 0 {
			continue
		}
		v, err := dataVersion(ctx, db)
		if err != nil {
			if ctx.Err() == nil {
				slog.Warn("polling database version", "error", err)
			}
			continue
		}
		if v != last {
			last = v
			slog.Debug("external change detected", "data_version", v)
			b.bus.Publish()
		}
	}
}

func dataVersion(ctx context.Context, db *sql.DB) (int64, error) {
	var v int64
	if err := db.QueryRowContext(ctx, "PRAGMA data_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("reading data version: %w", err)
	}
	return v, nil
}

// newUUID generates a UUID v7 string.
func newUUID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generating UUID v7: %w", err)
	}
	return id.String(), nil
}
