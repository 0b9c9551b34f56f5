package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Delete removes the card with the given id. A folder that still has
// children is kept and ErrFolderNotEmpty is returned; removal never
// cascades. The child count and the delete run in one transaction.
// Returns ErrInvalidID if id is empty, ErrNotFound if not found.
func (b *Backend) Delete(ctx context.Context, id string) error {
	if id == "" {
		return types.ErrInvalidID
	}
	return b.write(ctx, func(tx *sql.Tx) error {
		cardType, _, err := lookupCard(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return types.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("loading card %s: %w", id, err)
		}

		if types.CardType(cardType) == types.CardFolder {
			n, err := countChildren(ctx, tx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("deleting folder %s with %d cards: %w", id, n, types.ErrFolderNotEmpty)
			}
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM cards WHERE card_id = ?", id); err != nil {
			return fmt.Errorf("deleting card %s: %w", id, err)
		}
		return nil
	})
}

// checkParent verifies that a card's parent exists, is a folder, and that
// placing the card there does not make a folder its own ancestor.
func checkParent(ctx context.Context, q querier, c *types.Card) error {
	if c.ParentID == nil {
		return nil
	}
	parentID := *c.ParentID
	if parentID == c.ID {
		return types.ErrCycle
	}

	parentType, grandparent, err := lookupCard(ctx, q, parentID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("parent %s: %w", parentID, types.ErrParentNotFound)
	}
	if err != nil {
		return fmt.Errorf("loading parent %s: %w", parentID, err)
	}
	if types.CardType(parentType) != types.CardFolder {
		return fmt.Errorf("parent %s: %w", parentID, types.ErrParentNotFolder)
	}

	if c.ID == "" || !c.IsFolder() {
		return nil
	}

	// Walk up from the new parent. Imported data may already hold a loop
	// or a dangling pointer, so stop at the first repeat or missing link.
	visited := map[string]bool{parentID: true}
	cur := grandparent
	for cur.Valid {
		if cur.String == c.ID {
			return types.ErrCycle
		}
		if visited[cur.String] {
			return nil
		}
		visited[cur.String] = true

		_, next, err := lookupCard(ctx, q, cur.String)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("loading ancestor %s: %w", cur.String, err)
		}
		cur = next
	}
	return nil
}

// checkRetype refuses to turn a folder that still has children into a
// speak card, which would hide those children.
func checkRetype(ctx context.Context, q querier, c *types.Card) error {
	if c.IsFolder() {
		return nil
	}
	oldType, _, err := lookupCard(ctx, q, c.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading card %s: %w", c.ID, err)
	}
	if types.CardType(oldType) != types.CardFolder {
		return nil
	}
	n, err := countChildren(ctx, q, c.ID)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("changing type of folder %s with %d cards: %w", c.ID, n, types.ErrFolderNotEmpty)
	}
	return nil
}

// lookupCard returns the type and parent pointer of a card, or
// sql.ErrNoRows when it does not exist.
func lookupCard(ctx context.Context, q querier, id string) (string, sql.NullString, error) {
	var (
		cardType string
		parent   sql.NullString
	)
	err := q.QueryRowContext(ctx,
		"SELECT card_type, parent_id FROM cards WHERE card_id = ?", id,
	).Scan(&cardType, &parent)
	return cardType, parent, err
}

func countChildren(ctx context.Context, q querier, id string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM cards WHERE parent_id = ?", id,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("counting children of %s: %w", id, err)
	}
	return n, nil
}
