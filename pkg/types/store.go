package types

import (
	"context"
	"errors"
)

// Store provides persistence for cards. Each operation is atomic on its own;
// a successful mutation publishes one change signal to every subscriber.
type Store interface {
	// Add inserts a new card. When card.ID is empty a new UUID v7 is
	// generated. Returns the id used. Returns ErrDuplicateID if a card
	// with that id exists.
	Add(ctx context.Context, card *Card) (string, error)

	// Put inserts or fully replaces the card with card.ID.
	Put(ctx context.Context, card *Card) error

	// Get retrieves the card with the given id.
	// Returns ErrNotFound if no card exists with that id.
	Get(ctx context.Context, id string) (*Card, error)

	// Delete removes the card with the given id. A folder that still has
	// children is never deleted; ErrFolderNotEmpty is returned instead.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored cards.
	Count(ctx context.Context) (int, error)

	// ListByParentAndType returns the cards of type t whose parent is
	// parentID (nil for root), sorted ascending by order.
	ListByParentAndType(ctx context.Context, parentID *string, t CardType) ([]Card, error)

	// All returns every stored card.
	All(ctx context.Context) ([]Card, error)

	// Clear removes every card.
	Clear(ctx context.Context) error

	// BulkAdd inserts all cards or none.
	BulkAdd(ctx context.Context, cards []Card) error

	// ReplaceAll clears the store and inserts cards in a single
	// transaction. On failure the previous contents are kept.
	ReplaceAll(ctx context.Context, cards []Card) error

	// Subscribe registers for change signals. The returned function
	// unsubscribes and must be called when the caller is done.
	Subscribe() (<-chan struct{}, func())
}

// Board is a Store with a backend lifecycle. Attach opens the backend
// described by a Config; Detach releases it. Operations on a detached board
// return ErrStoreDetached.
type Board interface {
	Store
	Attach(config Config) error
	Detach() error
}

// Store lifecycle errors.
var (
	ErrStoreDetached   = errors.New("store is detached")
	ErrAlreadyAttached = errors.New("store is already attached")
)

// Store operation errors.
var (
	ErrNotFound        = errors.New("card not found")
	ErrInvalidID       = errors.New("invalid card ID")
	ErrDuplicateID     = errors.New("card ID already exists")
	ErrParentNotFound  = errors.New("parent folder not found")
	ErrParentNotFolder = errors.New("parent is not a folder")
	ErrCycle           = errors.New("folder cannot contain itself")
	ErrFolderNotEmpty  = errors.New("folder is not empty")
)

// Backup errors.
var (
	ErrInvalidBackup = errors.New("invalid backup file")
	ErrImportFailed  = errors.New("import failed")
)

// ErrTooLarge is returned when an uploaded asset or backup exceeds the
// configured size limit.
var ErrTooLarge = errors.New("upload too large")
