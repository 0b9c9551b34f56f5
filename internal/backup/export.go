package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mesh-intelligence/speakboard/internal/codec"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Lister reads every card from a store.
type Lister interface {
	All(ctx context.Context) ([]types.Card, error)
}

// Export reads every card and builds a document stamped with now.
func Export(ctx context.Context, src Lister, now time.Time) (*Document, error) {
	cards, err := src.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading cards: %w", err)
	}

	doc := &Document{
		Version:    Version,
		ExportedAt: FormatExportedAt(now),
		Cards:      make([]CardRecord, 0, len(cards)),
	}
	for _, c := range cards {
		doc.Cards = append(doc.Cards, CardRecord{
			ID:       c.ID,
			ParentID: c.ParentID,
			Type:     string(c.Type),
			Label:    c.Label,
			Order:    c.Order,
			Image:    codec.Encode(c.Image),
			Audio:    codec.Encode(c.Audio),
		})
	}
	return doc, nil
}

// Marshal serializes a document as compact JSON.
func Marshal(doc *Document) ([]byte, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encoding backup: %w", err)
	}
	return data, nil
}
