package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mesh-intelligence/speakboard/internal/i18n"
	"github.com/mesh-intelligence/speakboard/internal/symbols"
)

type symbolView struct {
	Key  string   `json:"key"`
	Name string   `json:"name"`
	Tags []string `json:"tags"`
	URL  string   `json:"url"`
}

func (s *Server) handleSearchSymbols(c *gin.Context) {
	lib, err := s.catalog.Library(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	q := c.Query("q")
	found := lib.Search(q)
	views := make([]symbolView, len(found))
	for i, sym := range found {
		views[i] = symbolView{Key: sym.Key(), Name: sym.Name, Tags: sym.Tags, URL: "/api/symbols/" + sym.Key()}
	}
	resp := gin.H{"symbols": views}
	if len(found) == 0 {
		resp["message"] = s.translator(c).T(i18n.LibraryEmpty) + ` "` + q + `"`
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleGetSymbol(c *gin.Context) {
	lib, err := s.catalog.Library(c.Request.Context())
	if err != nil {
		s.respondError(c, err)
		return
	}
	sym, err := lib.Get(c.Param("key"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.Data(http.StatusOK, symbols.SVGMIME, []byte(sym.SVG))
}
