// Package web serves the card store to a UI shell over HTTP: REST for reads
// and edits, a websocket per scope for live snapshots.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/speakboard/internal/backup"
	"github.com/mesh-intelligence/speakboard/internal/codec"
	"github.com/mesh-intelligence/speakboard/internal/i18n"
	"github.com/mesh-intelligence/speakboard/internal/live"
	"github.com/mesh-intelligence/speakboard/internal/media"
	"github.com/mesh-intelligence/speakboard/internal/speech"
	"github.com/mesh-intelligence/speakboard/internal/symbols"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// maxUploadBytes caps request bodies that carry assets or backups.
const maxUploadBytes = 64 << 20

// Deps are the collaborators a Server needs. Store is required.
type Deps struct {
	Store     types.Store
	Announcer *speech.Announcer
	Catalog   *symbols.Catalog
	Logger    *slog.Logger

	// Language is the fallback when a request states no preference.
	Language string

	// AllowOrigins lists the UI origins allowed by CORS. Empty disables CORS.
	AllowOrigins []string

	// MaxUploadBytes caps request bodies. Zero means the 64 MiB default.
	MaxUploadBytes int64
}

// Server holds the dependencies for the HTTP server.
type Server struct {
	store     types.Store
	query     *live.Query
	backups   *backup.Service
	announcer *speech.Announcer
	catalog   *symbols.Catalog
	media     *media.Registry
	logger    *slog.Logger
	language  string
	maxUpload int64
	router    *gin.Engine
}

// NewServer creates and configures a new server.
func NewServer(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	announcer := d.Announcer
	if announcer == nil {
		announcer = speech.NewAnnouncer(nil, nil, logger)
	}
	maxUpload := d.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = maxUploadBytes
	}
	catalog := d.Catalog
	if catalog == nil {
		catalog = symbols.NewCatalog("", nil)
	}

	s := &Server{
		store:     d.Store,
		query:     live.New(d.Store, logger),
		backups:   backup.NewService(d.Store, backup.WithLogger(logger)),
		announcer: announcer,
		catalog:   catalog,
		media:     media.NewRegistry(),
		logger:    logger,
		language:  d.Language,
		maxUpload: maxUpload,
		router:    gin.New(),
	}
	s.router.Use(gin.Recovery(), requestLogger(logger))
	if len(d.AllowOrigins) > 0 {
		s.router.Use(cors.New(cors.Config{
			AllowOrigins:  d.AllowOrigins,
			AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:  []string{"Origin", "Content-Type", "Accept-Language"},
			ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
			MaxAge:        12 * time.Hour,
		}))
	}
	s.routes()
	return s
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Media exposes the handle registry, mainly for tests and diagnostics.
func (s *Server) Media() *media.Registry {
	return s.media
}

// routes sets up the routing for the server.
func (s *Server) routes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.GET("/scopes/:scope/cards", s.handleListCards)
		api.GET("/scopes/:scope/folder", s.handleScopeFolder)

		api.POST("/cards", s.handleAddCard)
		api.GET("/cards/:id", s.handleGetCard)
		api.PUT("/cards/:id", s.handlePutCard)
		api.DELETE("/cards/:id", s.handleDeleteCard)
		api.POST("/cards/:id/speak", s.handleSpeak)
		api.GET("/cards/:id/:asset", s.handleGetAsset)
		api.PUT("/cards/:id/:asset", s.handlePutAsset)
		api.DELETE("/cards/:id/:asset", s.handleDeleteAsset)

		api.GET("/backup", s.handleExport)
		api.POST("/backup", s.handleImport)

		api.GET("/symbols", s.handleSearchSymbols)
		api.GET("/symbols/:key", s.handleGetSymbol)

		api.GET("/media/:handle", s.handleMedia)
		api.GET("/messages", s.handleMessages)
	}

	s.router.GET("/ws/scopes/:scope", s.handleWatch)
}

// translator picks the message language: ?lang=, then Accept-Language,
// then the configured default.
func (s *Server) translator(c *gin.Context) *i18n.Translator {
	var prefs []string
	if l := c.Query("lang"); l != "" {
		prefs = append(prefs, l)
	}
	if h := c.GetHeader("Accept-Language"); h != "" {
		prefs = append(prefs, h)
	}
	if s.language != "" {
		prefs = append(prefs, s.language)
	}
	return i18n.New(prefs...)
}

// statusFor maps an error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, types.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, types.ErrFolderNotEmpty), errors.Is(err, types.ErrDuplicateID):
		return http.StatusConflict
	case errors.Is(err, types.ErrNotFound), errors.Is(err, symbols.ErrSymbolNotFound),
		errors.Is(err, media.ErrUnknownHandle):
		return http.StatusNotFound
	case errors.Is(err, types.ErrImportFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, types.ErrInvalidBackup), errors.Is(err, types.ErrInvalidCard),
		errors.Is(err, types.ErrInvalidID), errors.Is(err, types.ErrParentNotFound),
		errors.Is(err, types.ErrParentNotFolder), errors.Is(err, types.ErrCycle),
		errors.Is(err, types.ErrAssetUnavailable):
		return http.StatusBadRequest
	case errors.Is(err, symbols.ErrLoadFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as a translated message.
func (s *Server) respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": s.translator(c).ForError(err)})
}

// readBody reads the request body up to the upload limit.
func (s *Server) readBody(c *gin.Context) ([]byte, error) {
	return codec.ReadLimited(c.Request.Body, s.maxUpload)
}

// bindJSON decodes a JSON body capped at the upload limit. A body over the
// limit yields ErrTooLarge, any other decoding failure ErrInvalidCard.
func (s *Server) bindJSON(c *gin.Context, v any) error {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxUpload)
	if err := c.ShouldBindJSON(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: more than %d bytes", types.ErrTooLarge, tooLarge.Limit)
		}
		return fmt.Errorf("%w: %v", types.ErrInvalidCard, err)
	}
	return nil
}

func requestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start))
	}
}

func (s *Server) handleMessages(c *gin.Context) {
	tr := s.translator(c)
	keys := []string{
		i18n.AppTitle, i18n.FolderFallback, i18n.EmptyTitle, i18n.EmptySubtitle,
		i18n.WarningLocal, i18n.SettingsTip, i18n.Attribution,
		i18n.ParentUnlocked, i18n.ChildLocked, i18n.LibraryEmpty,
	}
	msgs := make(map[string]string, len(keys))
	for _, k := range keys {
		msgs[k] = tr.T(k)
	}
	c.JSON(http.StatusOK, gin.H{"lang": tr.Lang(), "languages": i18n.Languages(), "messages": msgs})
}
