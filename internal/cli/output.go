package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/mesh-intelligence/speakboard/internal/media"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// cardOutput is the printed form of a card. Assets are summarized.
type cardOutput struct {
	ID       string         `json:"id"`
	ParentID *string        `json:"parentId"`
	Type     types.CardType `json:"type"`
	Label    string         `json:"label"`
	Order    float64        `json:"order"`
	Image    *assetOutput   `json:"image,omitempty"`
	Audio    *assetOutput   `json:"audio,omitempty"`
}

type assetOutput struct {
	MIME     string  `json:"type"`
	Bytes    int     `json:"bytes"`
	Duration float64 `json:"duration,omitempty"`
}

func newCardOutput(c *types.Card) cardOutput {
	return cardOutput{
		ID:       c.ID,
		ParentID: c.ParentID,
		Type:     c.Type,
		Label:    c.Label,
		Order:    c.Order,
		Image:    newAssetOutput(c.Image),
		Audio:    newAssetOutput(c.Audio),
	}
}

func newAssetOutput(a *types.Asset) *assetOutput {
	if a == nil {
		return nil
	}
	out := &assetOutput{MIME: a.MIME, Bytes: len(a.Data)}
	if d, err := media.Duration(a); err == nil {
		out.Duration = d.Seconds()
	}
	return out
}

func newCardOutputs(cards []types.Card) []cardOutput {
	out := make([]cardOutput, len(cards))
	for i := range cards {
		out[i] = newCardOutput(&cards[i])
	}
	return out
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeCardTable prints cards one per line.
func writeCardTable(w io.Writer, cards []types.Card) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tORDER\tLABEL\tASSETS")
	for i := range cards {
		c := &cards[i]
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%s\t%s\n", c.ID, c.Type, c.Order, c.Label, assetFlags(c))
	}
	tw.Flush()
}

func assetFlags(c *types.Card) string {
	switch {
	case c.Image != nil && c.Audio != nil:
		return "image,audio"
	case c.Image != nil:
		return "image"
	case c.Audio != nil:
		return "audio"
	}
	return "-"
}

func writeCardDetail(w io.Writer, c *types.Card) {
	parent := "(root)"
	if c.ParentID != nil {
		parent = *c.ParentID
	}
	fmt.Fprintf(w, "ID:      %s\n", c.ID)
	fmt.Fprintf(w, "Type:    %s\n", c.Type)
	fmt.Fprintf(w, "Label:   %s\n", c.Label)
	fmt.Fprintf(w, "Parent:  %s\n", parent)
	fmt.Fprintf(w, "Order:   %.0f\n", c.Order)
	if c.Image != nil {
		fmt.Fprintf(w, "Image:   %s, %d bytes\n", c.Image.MIME, len(c.Image.Data))
	}
	if c.Audio != nil {
		line := fmt.Sprintf("%s, %d bytes", c.Audio.MIME, len(c.Audio.Data))
		if d, err := media.Duration(c.Audio); err == nil {
			line += ", " + d.Round(10*time.Millisecond).String()
		}
		fmt.Fprintf(w, "Audio:   %s\n", line)
	}
}
