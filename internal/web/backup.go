package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/speakboard/internal/backup"
	"github.com/mesh-intelligence/speakboard/internal/i18n"
)

// handleExport sends the whole store as a backup document download.
func (s *Server) handleExport(c *gin.Context) {
	buf := &backup.BufferSaver{}
	res, err := s.backups.Export(c.Request.Context(), buf)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+res.Name+`"`)
	c.Header("X-Message", s.translator(c).T(i18n.BackupExported))
	c.Data(http.StatusOK, backup.MIMEType, buf.Data)
}

// handleImport replaces the store with the uploaded backup document. Every
// open websocket receives a fresh snapshot once the import commits.
func (s *Server) handleImport(c *gin.Context) {
	res, err := s.backups.Import(c.Request.Context(), backup.StreamReader{R: c.Request.Body, Limit: s.maxUpload})
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"cards":   res.Cards,
		"message": s.translator(c).T(i18n.BackupImported),
	})
}
