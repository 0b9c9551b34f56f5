package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/speakboard/internal/codec"
	"github.com/mesh-intelligence/speakboard/internal/i18n"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Asset slots addressable under /api/cards/:id/:asset.
const (
	slotImage = "image"
	slotAudio = "audio"
)

// cardView is the JSON shape of a card. Assets are referenced by URL.
type cardView struct {
	ID       string         `json:"id"`
	ParentID *string        `json:"parentId"`
	Type     types.CardType `json:"type"`
	Label    string         `json:"label"`
	Order    float64        `json:"order"`
	Image    string         `json:"image,omitempty"`
	Audio    string         `json:"audio,omitempty"`
}

// assetURL turns an asset into the URL a client fetches it from.
type assetURL func(c *types.Card, slot string, a *types.Asset) string

// storedAssetURL points at the card's asset endpoint.
func storedAssetURL(c *types.Card, slot string, a *types.Asset) string {
	if a == nil {
		return ""
	}
	return "/api/cards/" + c.ID + "/" + slot
}

func newCardView(c *types.Card, url assetURL) cardView {
	return cardView{
		ID:       c.ID,
		ParentID: c.ParentID,
		Type:     c.Type,
		Label:    c.Label,
		Order:    c.Order,
		Image:    url(c, slotImage, c.Image),
		Audio:    url(c, slotAudio, c.Audio),
	}
}

func newCardViews(cards []types.Card, url assetURL) []cardView {
	out := make([]cardView, len(cards))
	for i := range cards {
		out[i] = newCardView(&cards[i], url)
	}
	return out
}

// optionalAsset distinguishes a missing field (keep) from null (remove).
type optionalAsset struct {
	Set   bool
	Value *codec.EncodedAsset
}

func (o *optionalAsset) UnmarshalJSON(data []byte) error {
	o.Set = true
	return json.Unmarshal(data, &o.Value)
}

// cardRequest is the body of POST /api/cards and PUT /api/cards/:id.
type cardRequest struct {
	ParentID *string       `json:"parentId"`
	Type     string        `json:"type" binding:"required"`
	Label    string        `json:"label" binding:"required"`
	Order    *float64      `json:"order"`
	Image    optionalAsset `json:"image"`
	Audio    optionalAsset `json:"audio"`

	// Symbol names a library symbol to use as the image.
	Symbol string `json:"symbol"`
}

// apply copies the request onto card. Assets absent from the request are
// left as they are.
func (s *Server) apply(c *gin.Context, req *cardRequest, card *types.Card) error {
	ct, err := types.ParseCardType(req.Type)
	if err != nil {
		return err
	}
	card.Type = ct
	card.Label = strings.TrimSpace(req.Label)
	card.ParentID = req.ParentID
	if req.ParentID != nil && *req.ParentID == "" {
		card.ParentID = nil
	}
	if req.Order != nil {
		card.Order = *req.Order
	}

	if req.Image.Set {
		if card.Image, err = codec.Decode(req.Image.Value); err != nil {
			return err
		}
	}
	if req.Audio.Set {
		if card.Audio, err = codec.Decode(req.Audio.Value); err != nil {
			return err
		}
	}
	if req.Symbol != "" {
		lib, err := s.catalog.Library(c.Request.Context())
		if err != nil {
			return err
		}
		sym, err := lib.Get(req.Symbol)
		if err != nil {
			return err
		}
		card.Image = sym.Asset()
	}
	return card.ValidateEdit()
}

func (s *Server) handleListCards(c *gin.Context) {
	ctx := c.Request.Context()
	scope := types.ParseScope(c.Param("scope"))

	cards, err := s.query.Children(ctx, scope)
	if err != nil {
		s.respondError(c, err)
		return
	}
	folder, err := s.query.ScopeFolder(ctx, scope)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"scope": scope.String(),
		"title": s.translator(c).Title(scope, folder),
		"cards": newCardViews(cards, storedAssetURL),
	})
}

func (s *Server) handleScopeFolder(c *gin.Context) {
	scope := types.ParseScope(c.Param("scope"))
	folder, err := s.query.ScopeFolder(c.Request.Context(), scope)
	if err != nil {
		s.respondError(c, err)
		return
	}
	var view *cardView
	if folder != nil {
		v := newCardView(folder, storedAssetURL)
		view = &v
	}
	c.JSON(http.StatusOK, gin.H{
		"scope":  scope.String(),
		"title":  s.translator(c).Title(scope, folder),
		"folder": view,
	})
}

func (s *Server) handleGetCard(c *gin.Context) {
	card, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newCardView(card, storedAssetURL))
}

func (s *Server) handleAddCard(c *gin.Context) {
	var req cardRequest
	if err := s.bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}
	card := types.NewCard("", "", nil)
	if err := s.apply(c, &req, card); err != nil {
		s.respondError(c, err)
		return
	}
	if _, err := s.store.Add(c.Request.Context(), card); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"card":    newCardView(card, storedAssetURL),
		"message": s.translator(c).T(i18n.Added),
	})
}

func (s *Server) handlePutCard(c *gin.Context) {
	ctx := c.Request.Context()
	var req cardRequest
	if err := s.bindJSON(c, &req); err != nil {
		s.respondError(c, err)
		return
	}
	card, err := s.store.Get(ctx, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.apply(c, &req, card); err != nil {
		s.respondError(c, err)
		return
	}
	if err := s.store.Put(ctx, card); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"card":    newCardView(card, storedAssetURL),
		"message": s.translator(c).T(i18n.Updated),
	})
}

func (s *Server) handleDeleteCard(c *gin.Context) {
	if err := s.store.Delete(c.Request.Context(), c.Param("id")); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": s.translator(c).T(i18n.Deleted)})
}

func (s *Server) handleSpeak(c *gin.Context) {
	card, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	action := s.announcer.Announce(c.Request.Context(), card)
	c.JSON(http.StatusOK, gin.H{"action": action})
}

// slotParam validates the :asset segment.
func slotParam(c *gin.Context) (string, bool) {
	slot := c.Param("asset")
	if slot != slotImage && slot != slotAudio {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "unknown asset " + slot})
		return "", false
	}
	return slot, true
}

func slotAsset(card *types.Card, slot string) *types.Asset {
	if slot == slotImage {
		return card.Image
	}
	return card.Audio
}

func setSlot(card *types.Card, slot string, a *types.Asset) {
	if slot == slotImage {
		card.Image = a
	} else {
		card.Audio = a
	}
}

func (s *Server) handleGetAsset(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	card, err := s.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	a := slotAsset(card, slot)
	if a == nil {
		s.respondError(c, types.ErrNotFound)
		return
	}
	c.Data(http.StatusOK, a.MIME, a.Data)
}

// handlePutAsset stores the raw request body as the card's image or audio.
// The type comes from Content-Type, or is sniffed when that is missing or
// generic.
func (s *Server) handlePutAsset(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	card, err := s.store.Get(ctx, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	data, err := s.readBody(c)
	if err != nil {
		s.respondError(c, fmt.Errorf("reading upload: %w", err))
		return
	}
	mime := c.ContentType()
	if mime == codec.DefaultMIME {
		mime = ""
	}
	setSlot(card, slot, codec.FromBytes(data, mime))
	if err := s.store.Put(ctx, card); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"card":    newCardView(card, storedAssetURL),
		"message": s.translator(c).T(i18n.Updated),
	})
}

func (s *Server) handleDeleteAsset(c *gin.Context) {
	slot, ok := slotParam(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	card, err := s.store.Get(ctx, c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	setSlot(card, slot, nil)
	if err := s.store.Put(ctx, card); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"card":    newCardView(card, storedAssetURL),
		"message": s.translator(c).T(i18n.Updated),
	})
}
