package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Add inserts a new card and returns its id. An empty id is replaced by a
// new UUID v7, which is also written back to card.ID.
// Returns ErrDuplicateID if a card with that id already exists.
func (b *Backend) Add(ctx context.Context, card *types.Card) (string, error) {
	if card == nil {
		return "", types.ErrInvalidCard
	}
	if err := card.Validate(); err != nil {
		return "", err
	}

	if types.IsReservedID(card.ID) {
		return "", fmt.Errorf("adding card %q: %w: reserved id", card.ID, types.ErrInvalidID)
	}

	id := card.ID
	if id == "" {
		newID, err := newUUID()
		if err != nil {
			return "", err
		}
		id = newID
	}
	stored := card.Clone()
	stored.ID = id

	err := b.write(ctx, func(tx *sql.Tx) error {
		exists, err := cardExists(ctx, tx, id)
		if err != nil {
			return err
		}
		if exists {
			return fmt.Errorf("adding card %s: %w", id, types.ErrDuplicateID)
		}
		if err := checkParent(ctx, tx, stored); err != nil {
			return err
		}
		return insertCard(ctx, tx, stored)
	})
	if err != nil {
		return "", err
	}
	card.ID = id
	return id, nil
}

// Put inserts the card or fully replaces the stored card with the same id.
func (b *Backend) Put(ctx context.Context, card *types.Card) error {
	if card == nil {
		return types.ErrInvalidCard
	}
	if card.ID == "" {
		return types.ErrInvalidID
	}
	if types.IsReservedID(card.ID) {
		return fmt.Errorf("saving card %q: %w: reserved id", card.ID, types.ErrInvalidID)
	}
	if err := card.Validate(); err != nil {
		return err
	}

	return b.write(ctx, func(tx *sql.Tx) error {
		if err := checkParent(ctx, tx, card); err != nil {
			return err
		}
		if err := checkRetype(ctx, tx, card); err != nil {
			return err
		}
		return upsertCard(ctx, tx, card)
	})
}

// Get retrieves a card by id.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (b *Backend) Get(ctx context.Context, id string) (*types.Card, error) {
	if id == "" {
		return nil, types.ErrInvalidID
	}
	var card *types.Card
	err := b.read(func(db *sql.DB) error {
		row := db.QueryRowContext(ctx,
			"SELECT "+cardColumns+" FROM cards WHERE card_id = ?", id)
		c, err := scanCard(row)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("getting card %s: %w", id, err)
		}
		card = c
		return nil
	})
	return card, err
}

// Count returns the number of stored cards.
func (b *Backend) Count(ctx context.Context) (int, error) {
	var n int
	err := b.read(func(db *sql.DB) error {
		var err error
		n, err = countCards(ctx, db)
		return err
	})
	return n, err
}

// ListByParentAndType returns the cards of type t under parentID (nil for
// the root level), ascending by order with ties broken by id.
func (b *Backend) ListByParentAndType(ctx context.Context, parentID *string, t types.CardType) ([]types.Card, error) {
	var cards []types.Card
	err := b.read(func(db *sql.DB) error {
		var parent any
		if parentID != nil {
			parent = *parentID
		}
		var err error
		cards, err = queryCards(ctx, db,
			"SELECT "+cardColumns+" FROM cards WHERE parent_id IS ? AND card_type = ? ORDER BY sort_order, card_id",
			parent, string(t))
		return err
	})
	return cards, err
}

// All returns every stored card, ascending by order with ties broken by id.
func (b *Backend) All(ctx context.Context) ([]types.Card, error) {
	var cards []types.Card
	err := b.read(func(db *sql.DB) error {
		var err error
		cards, err = queryCards(ctx, db,
			"SELECT "+cardColumns+" FROM cards ORDER BY sort_order, card_id")
		return err
	})
	return cards, err
}

// Clear removes every card.
func (b *Backend) Clear(ctx context.Context) error {
	return b.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cards"); err != nil {
			return fmt.Errorf("clearing cards: %w", err)
		}
		return nil
	})
}

// BulkAdd inserts every card in one transaction. Parent references are not
// checked, so records whose parent is missing are stored as they are. Any
// failure, including a duplicate id, leaves the store unchanged.
func (b *Backend) BulkAdd(ctx context.Context, cards []types.Card) error {
	if err := validateAll(cards); err != nil {
		return err
	}
	return b.write(ctx, func(tx *sql.Tx) error {
		return insertAll(ctx, tx, cards)
	})
}

// ReplaceAll deletes every card and inserts cards in one transaction. On
// failure the previous contents are kept.
func (b *Backend) ReplaceAll(ctx context.Context, cards []types.Card) error {
	if err := validateAll(cards); err != nil {
		return err
	}
	return b.write(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cards"); err != nil {
			return fmt.Errorf("clearing cards: %w", err)
		}
		return insertAll(ctx, tx, cards)
	})
}

func validateAll(cards []types.Card) error {
	for i := range cards {
		if cards[i].ID == "" {
			return fmt.Errorf("card %d: %w", i, types.ErrInvalidID)
		}
		if types.IsReservedID(cards[i].ID) {
			return fmt.Errorf("card %d: %w: reserved id %q", i, types.ErrInvalidID, cards[i].ID)
		}
		if !cards[i].Type.Valid() {
			return fmt.Errorf("card %s: %w: unknown type %q", cards[i].ID, types.ErrInvalidCard, cards[i].Type)
		}
	}
	return nil
}

func insertAll(ctx context.Context, tx *sql.Tx, cards []types.Card) error {
	for i := range cards {
		if err := insertCard(ctx, tx, &cards[i]); err != nil {
			return err
		}
	}
	return nil
}

// Row mapping.

func insertCard(ctx context.Context, q querier, c *types.Card) error {
	now := time.Now().UTC().Format(time.RFC3339)
	args := append(cardArgs(c), now, now)
	_, err := q.ExecContext(ctx,
		"INSERT INTO cards ("+cardColumns+", created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("inserting card %s: %w", c.ID, types.ErrDuplicateID)
		}
		return fmt.Errorf("inserting card %s: %w", c.ID, err)
	}
	return nil
}

func upsertCard(ctx context.Context, q querier, c *types.Card) error {
	now := time.Now().UTC().Format(time.RFC3339)
	args := append(cardArgs(c), now, now)
	_, err := q.ExecContext(ctx, `INSERT INTO cards (`+cardColumns+`, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(card_id) DO UPDATE SET
    parent_id = excluded.parent_id,
    card_type = excluded.card_type,
    label = excluded.label,
    sort_order = excluded.sort_order,
    image = excluded.image,
    image_mime = excluded.image_mime,
    audio = excluded.audio,
    audio_mime = excluded.audio_mime,
    updated_at = excluded.updated_at`, args...)
	if err != nil {
		return fmt.Errorf("saving card %s: %w", c.ID, err)
	}
	return nil
}

// cardArgs returns the values for cardColumns in order.
func cardArgs(c *types.Card) []any {
	var parent any
	if c.ParentID != nil {
		parent = *c.ParentID
	}
	imageData, imageMIME := assetArgs(c.Image)
	audioData, audioMIME := assetArgs(c.Audio)
	return []any{c.ID, parent, string(c.Type), c.Label, c.Order, imageData, imageMIME, audioData, audioMIME}
}

// assetArgs maps an asset to its blob and MIME columns. A stored asset
// always has a non-NULL MIME column; its presence marks the asset.
func assetArgs(a *types.Asset) (any, any) {
	if a == nil {
		return nil, nil
	}
	data := a.Data
	if data == nil {
		data = []byte{}
	}
	return data, a.MIME
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanCard(s scanner) (*types.Card, error) {
	var (
		c                    types.Card
		parent               sql.NullString
		cardType             string
		imageData, audioData []byte
		imageMIME, audioMIME sql.NullString
	)
	if err := s.Scan(&c.ID, &parent, &cardType, &c.Label, &c.Order,
		&imageData, &imageMIME, &audioData, &audioMIME); err != nil {
		return nil, err
	}
	c.Type = types.CardType(cardType)
	if parent.Valid {
		p := parent.String
		c.ParentID = &p
	}
	c.Image = scanAsset(imageData, imageMIME)
	c.Audio = scanAsset(audioData, audioMIME)
	return &c, nil
}

func scanAsset(data []byte, mime sql.NullString) *types.Asset {
	if !mime.Valid {
		return nil
	}
	if data == nil {
		data = []byte{}
	}
	return &types.Asset{Data: data, MIME: mime.String}
}

func queryCards(ctx context.Context, q querier, query string, args ...any) ([]types.Card, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying cards: %w", err)
	}
	defer rows.Close()

	cards := []types.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning card: %w", err)
		}
		cards = append(cards, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating cards: %w", err)
	}
	return cards, nil
}

func countCards(ctx context.Context, q querier) (int, error) {
	var n int
	if err := q.QueryRowContext(ctx, "SELECT COUNT(*) FROM cards").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting cards: %w", err)
	}
	return n, nil
}

func cardExists(ctx context.Context, q querier, id string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM cards WHERE card_id = ?", id).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking card existence: %w", err)
	}
	return true, nil
}

func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY")
}
