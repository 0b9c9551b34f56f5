// Package backup exports the whole card store to a single JSON document and
// restores a store from one.
package backup

import (
	"time"

	"github.com/mesh-intelligence/speakboard/internal/codec"
)

// Version is the only document version this package reads or writes.
const Version = 1

// MIMEType is the media type of a backup document.
const MIMEType = "application/json"

// exportedAtLayout renders timestamps as ISO-8601 UTC with milliseconds.
const exportedAtLayout = "2006-01-02T15:04:05.000Z"

// Document is the backup file.
type Document struct {
	Version    int          `json:"version"`
	ExportedAt string       `json:"exportedAt"`
	Cards      []CardRecord `json:"cards"`
}

// CardRecord is one card in a backup document, with assets inlined as
// base64 text.
type CardRecord struct {
	ID       string              `json:"id"`
	ParentID *string             `json:"parentId"`
	Type     string              `json:"type"`
	Label    string              `json:"label"`
	Order    float64             `json:"order"`
	Image    *codec.EncodedAsset `json:"image"`
	Audio    *codec.EncodedAsset `json:"audio"`
}

// FileName returns the suggested file name for a backup taken at t, in t's
// location: aac-backup-YYYY-MM-DD_HHMM.json.
func FileName(t time.Time) string {
	return "aac-backup-" + t.Format("2006-01-02_1504") + ".json"
}

// FormatExportedAt renders t in the exportedAt format.
func FormatExportedAt(t time.Time) string {
	return t.UTC().Format(exportedAtLayout)
}
