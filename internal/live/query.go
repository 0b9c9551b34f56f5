// Package live turns store reads into streams that re-emit whenever the
// store changes.
package live

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Source is the part of the store a live query reads from.
type Source interface {
	Get(ctx context.Context, id string) (*types.Card, error)
	ListByParentAndType(ctx context.Context, parentID *string, t types.CardType) ([]types.Card, error)
	Subscribe() (<-chan struct{}, func())
}

// Query runs scope queries against a Source.
type Query struct {
	src    Source
	logger *slog.Logger
}

// New returns a Query over src. A nil logger uses slog.Default().
func New(src Source, logger *slog.Logger) *Query {
	if logger == nil {
		logger = slog.Default()
	}
	return &Query{src: src, logger: logger}
}

// Children returns the display list for a scope: its folders by order,
// then its speak cards by order.
func (q *Query) Children(ctx context.Context, scope types.Scope) ([]types.Card, error) {
	parent := scope.ParentID()
	folders, err := q.src.ListByParentAndType(ctx, parent, types.CardFolder)
	if err != nil {
		return nil, err
	}
	speak, err := q.src.ListByParentAndType(ctx, parent, types.CardSpeak)
	if err != nil {
		return nil, err
	}
	out := make([]types.Card, 0, len(folders)+len(speak))
	out = append(out, folders...)
	return append(out, speak...), nil
}

// ScopeFolder returns the folder record a scope points at. It returns nil
// for the root scope, for an id that does not exist, and for an id whose
// record is not a folder.
func (q *Query) ScopeFolder(ctx context.Context, scope types.Scope) (*types.Card, error) {
	if scope.IsRoot() {
		return nil, nil
	}
	c, err := q.src.Get(ctx, scope.FolderID())
	if errors.Is(err, types.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !c.IsFolder() {
		return nil, nil
	}
	return c, nil
}

// WatchChildren emits Children for scope once, then again after every
// change signal, until ctx is done. Each emitted slice is a fresh copy
// that is never modified afterwards.
func (q *Query) WatchChildren(ctx context.Context, scope types.Scope) <-chan []types.Card {
	return watch(ctx, q, "children", scope, func(ctx context.Context) ([]types.Card, error) {
		cards, err := q.Children(ctx, scope)
		if err != nil {
			return nil, err
		}
		return types.CloneCards(cards), nil
	})
}

// WatchScopeFolder emits ScopeFolder for scope once, then again after
// every change signal, until ctx is done.
func (q *Query) WatchScopeFolder(ctx context.Context, scope types.Scope) <-chan *types.Card {
	return watch(ctx, q, "scope folder", scope, func(ctx context.Context) (*types.Card, error) {
		c, err := q.ScopeFolder(ctx, scope)
		if err != nil {
			return nil, err
		}
		return c.Clone(), nil
	})
}

// watch subscribes before the first read so that no mutation between the
// read and the subscription goes unnoticed. A failed read is logged and
// skipped; the next signal retries.
func watch[T any](ctx context.Context, q *Query, name string, scope types.Scope, run func(context.Context) (T, error)) <-chan T {
	out := make(chan T)
	signals, unsubscribe := q.src.Subscribe()

	go func() {
		defer close(out)
		defer unsubscribe()

		emit := func() bool {
			v, err := run(ctx)
			if err != nil {
				if ctx.Err() == nil {
					q.logger.Warn("live query failed", "query", name, "scope", scope.String(), "error", err)
				}
				return true
			}
			select {
			case out <- v:
				return true
			case <-ctx.Done():
				return false
			}
		}

		if !emit() {
			return
		}
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-signals:
				if !ok {
					return
				}
				if !emit() {
					return
				}
			}
		}
	}()
	return out
}
