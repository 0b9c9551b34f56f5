package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// defaultCard describes a starter card seeded into an empty store.
type defaultCard struct {
	label    string
	cardType types.CardType
	order    float64
}

// defaultCards are the root-level cards a fresh board starts with.
var defaultCards = []defaultCard{
	{"Hi", types.CardSpeak, 1},
	{"More", types.CardSpeak, 2},
	{"Help", types.CardSpeak, 3},
	{"Food", types.CardFolder, 4},
}

// SeedDefaults inserts the starter cards when the store holds no cards at
// all. Any existing record, related or not, suppresses seeding. Reports
// whether cards were inserted.
func (b *Backend) SeedDefaults(ctx context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.attached {
		return false, types.ErrStoreDetached
	}

	seeded, err := seedDefaults(ctx, b.db)
	if err != nil {
		return false, err
	}
	if seeded {
		slog.Debug("seeded default cards", "count", len(defaultCards))
		b.bus.Publish()
	}
	return seeded, nil
}

// seedDefaults checks the count and inserts inside one transaction so the
// check and the insert cannot interleave with another writer.
func seedDefaults(ctx context.Context, db *sql.DB) (bool, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	n, err := countCards(ctx, tx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	for _, dc := range defaultCards {
		id, err := newUUID()
		if err != nil {
			return false, err
		}
		c := &types.Card{ID: id, Type: dc.cardType, Label: dc.label, Order: dc.order}
		if err := insertCard(ctx, tx, c); err != nil {
			return false, fmt.Errorf("seeding card %s: %w", dc.label, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("committing seed transaction: %w", err)
	}
	return true, nil
}
