package web

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/mesh-intelligence/speakboard/internal/media"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	// The server binds to a local address for a UI shell on the same
	// device; origins are not restricted.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// snapshot is one websocket message: everything a display of the scope
// needs. Asset URLs are media handles valid until the next snapshot.
type snapshot struct {
	Type   string     `json:"type"`
	Scope  string     `json:"scope"`
	Title  string     `json:"title"`
	Folder *cardView  `json:"folder"`
	Cards  []cardView `json:"cards"`
}

func (s *Server) handleMedia(c *gin.Context) {
	a, err := s.media.Lookup(c.Param("handle"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Cache-Control", "private, max-age=3600")
	c.Data(http.StatusOK, a.MIME, a.Data)
}

// handleWatch streams scope snapshots over a websocket. A new snapshot is
// sent whenever the store changes; the handles of the previous snapshot are
// released after the new one is written, and all of them on disconnect.
func (s *Server) handleWatch(c *gin.Context) {
	scope := types.ParseScope(c.Param("scope"))
	tr := s.translator(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()
	s.logger.Debug("watch connected", "scope", scope.String())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The client sends nothing; reading only detects the close.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	children := s.query.WatchChildren(ctx, scope)
	folders := s.query.WatchScopeFolder(ctx, scope)

	var (
		cards      []types.Card
		folder     *types.Card
		haveCards  bool
		haveFolder bool
		current    = s.media.NewSet()
	)
	defer func() { current.ReleaseAll() }()

	for {
		select {
		case <-ctx.Done():
			s.logger.Debug("watch disconnected", "scope", scope.String())
			return
		case v, ok := <-children:
			if !ok {
				return
			}
			cards, haveCards = v, true
		case v, ok := <-folders:
			if !ok {
				return
			}
			folder, haveFolder = v, true
		}
		if !haveCards || !haveFolder {
			continue
		}

		next := s.media.NewSet()
		msg := snapshot{
			Type:  "snapshot",
			Scope: scope.String(),
			Title: tr.Title(scope, folder),
			Cards: newCardViews(cards, handleURL(next)),
		}
		if folder != nil {
			v := newCardView(folder, handleURL(next))
			msg.Folder = &v
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		err := conn.WriteJSON(msg)
		current.ReleaseAll()
		current = next
		if err != nil {
			s.logger.Debug("watch write failed", "scope", scope.String(), "error", err)
			return
		}
	}
}

// handleURL returns an assetURL that registers each asset in set.
func handleURL(set *media.Set) assetURL {
	return func(_ *types.Card, _ string, a *types.Asset) string {
		h := set.Acquire(a)
		if h == "" {
			return ""
		}
		return "/api/media/" + h
	}
}
