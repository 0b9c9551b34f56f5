package types

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// CardType distinguishes tiles that speak from tiles that open a folder.
type CardType string

// Card type values.
const (
	CardSpeak  CardType = "speak"
	CardFolder CardType = "folder"
)

// Valid reports whether t is a known card type.
func (t CardType) Valid() bool {
	return t == CardSpeak || t == CardFolder
}

// ParseCardType converts a string to a CardType.
// Returns ErrInvalidCard if the value is not a known type.
func ParseCardType(s string) (CardType, error) {
	t := CardType(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidCard, s)
	}
	return t, nil
}

// Asset is a binary blob with its MIME type, used for card images and audio.
type Asset struct {
	Data []byte
	MIME string
}

// Clone returns a deep copy of the asset. A nil asset clones to nil.
func (a *Asset) Clone() *Asset {
	if a == nil {
		return nil
	}
	data := make([]byte, len(a.Data))
	copy(data, a.Data)
	return &Asset{Data: data, MIME: a.MIME}
}

// Card is the single persisted entity of the board. Folders contain other
// cards through ParentID; speak cards produce an utterance when selected.
type Card struct {
	ID       string   `json:"id"`
	ParentID *string  `json:"parentId"`
	Type     CardType `json:"type" validate:"required,oneof=speak folder"`
	Label    string   `json:"label"`
	Image    *Asset   `json:"-"`
	Audio    *Asset   `json:"-"`
	Order    float64  `json:"order"`
}

// Card errors.
var (
	ErrInvalidCard      = errors.New("invalid card")
	ErrAssetUnavailable = errors.New("asset unavailable")
)

// NewCard returns a card placed under parentID (nil for root) whose order
// defaults to the current time in Unix milliseconds, so it sorts after
// existing siblings.
func NewCard(t CardType, label string, parentID *string) *Card {
	return &Card{
		ParentID: parentID,
		Type:     t,
		Label:    label,
		Order:    float64(time.Now().UnixMilli()),
	}
}

// IsFolder reports whether the card is a folder.
func (c *Card) IsFolder() bool {
	return c.Type == CardFolder
}

// IsRoot reports whether the card sits at the root scope.
func (c *Card) IsRoot() bool {
	return c.ParentID == nil
}

// Clone returns a deep copy of the card, including its assets.
func (c *Card) Clone() *Card {
	if c == nil {
		return nil
	}
	out := *c
	if c.ParentID != nil {
		p := *c.ParentID
		out.ParentID = &p
	}
	out.Image = c.Image.Clone()
	out.Audio = c.Audio.Clone()
	return &out
}

// Validate checks the rules every stored card obeys: a known type and a
// finite order. Returns an error wrapping ErrInvalidCard.
func (c *Card) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidCard, err)
	}
	if math.IsNaN(c.Order) || math.IsInf(c.Order, 0) {
		return fmt.Errorf("%w: order must be finite", ErrInvalidCard)
	}
	return nil
}

// ValidateEdit checks a card coming from an editor: the stored-card rules
// plus a non-blank label. The store itself accepts blank labels.
func (c *Card) ValidateEdit() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := validate.Var(c.Label, "notblank"); err != nil {
		return fmt.Errorf("%w: label must not be blank", ErrInvalidCard)
	}
	return nil
}

// CloneCards deep-copies a slice of cards.
func CloneCards(cards []Card) []Card {
	out := make([]Card, len(cards))
	for i := range cards {
		out[i] = *cards[i].Clone()
	}
	return out
}

// StringPtr returns a pointer to s, or nil when s is empty.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	if err != nil {
		panic(fmt.Sprintf("registering notblank validation: %v", err))
	}
	return v
}
