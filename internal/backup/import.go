package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/mesh-intelligence/speakboard/internal/codec"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Replacer swaps the whole store content in one transaction.
type Replacer interface {
	ReplaceAll(ctx context.Context, cards []types.Card) error
}

// Parse validates a backup document and decodes its cards.
//
// Unparsable text, a version other than Version, a missing or non-array
// cards field, or a card entry that is not an object all return an error
// wrapping ErrInvalidBackup. An asset that fails to decode returns an error
// wrapping ErrImportFailed.
func Parse(data []byte) ([]types.Card, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidBackup, err)
	}
	if top == nil {
		return nil, fmt.Errorf("%w: empty document", types.ErrInvalidBackup)
	}

	var version float64
	if raw, ok := top["version"]; !ok || json.Unmarshal(raw, &version) != nil || version != Version {
		return nil, fmt.Errorf("%w: unsupported version", types.ErrInvalidBackup)
	}

	var entries []json.RawMessage
	raw, ok := top["cards"]
	if !ok || !isArray(raw) || json.Unmarshal(raw, &entries) != nil {
		return nil, fmt.Errorf("%w: cards must be a list", types.ErrInvalidBackup)
	}

	cards := make([]types.Card, 0, len(entries))
	for i, entry := range entries {
		if !isObject(entry) {
			return nil, fmt.Errorf("%w: card %d is not an object", types.ErrInvalidBackup, i)
		}
		var rec CardRecord
		if err := json.Unmarshal(entry, &rec); err != nil {
			return nil, fmt.Errorf("%w: card %d: %v", types.ErrInvalidBackup, i, err)
		}
		c, err := decodeRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: card %d: %w", types.ErrImportFailed, i, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// Import parses data and replaces the store content with its cards.
// Returns the number of cards installed. On any failure after parsing the
// store keeps its previous content and the error wraps ErrImportFailed.
func Import(ctx context.Context, dst Replacer, data []byte) (int, error) {
	cards, err := Parse(data)
	if err != nil {
		return 0, err
	}
	if err := dst.ReplaceAll(ctx, cards); err != nil {
		return 0, fmt.Errorf("%w: %w", types.ErrImportFailed, err)
	}
	return len(cards), nil
}

func decodeRecord(rec CardRecord) (types.Card, error) {
	image, err := codec.Decode(rec.Image)
	if err != nil {
		return types.Card{}, fmt.Errorf("image: %w", err)
	}
	audio, err := codec.Decode(rec.Audio)
	if err != nil {
		return types.Card{}, fmt.Errorf("audio: %w", err)
	}
	return types.Card{
		ID:       rec.ID,
		ParentID: rec.ParentID,
		Type:     types.CardType(rec.Type),
		Label:    rec.Label,
		Order:    rec.Order,
		Image:    image,
		Audio:    audio,
	}, nil
}

func isArray(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '['
}

func isObject(raw json.RawMessage) bool {
	t := bytes.TrimSpace(raw)
	return len(t) > 0 && t[0] == '{'
}
