package i18n

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mesh-intelligence/speakboard/internal/symbols"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

func TestNewPicksLanguage(t *testing.T) {
	tests := []struct {
		name  string
		prefs []string
		want  string
	}{
		{name: "no preference", want: "en"},
		{name: "malay", prefs: []string{"ms"}, want: "ms"},
		{name: "malay region", prefs: []string{"ms-MY"}, want: "ms"},
		{name: "accept-language header", prefs: []string{"fr-FR,ms;q=0.8,en;q=0.5"}, want: "ms"},
		{name: "unsupported falls back", prefs: []string{"ja"}, want: "en"},
		{name: "garbage falls back", prefs: []string{"!!"}, want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(tt.prefs...).Lang())
		})
	}
}

func TestCatalogsHaveSameKeys(t *testing.T) {
	for key := range catalog["en"] {
		_, ok := catalog["ms"][key]
		assert.True(t, ok, "ms is missing %s", key)
	}
	assert.Len(t, catalog["ms"], len(catalog["en"]))
	assert.Equal(t, []string{"en", "ms"}, Languages())
}

func TestT(t *testing.T) {
	assert.Equal(t, "Added", New("en").T(Added))
	assert.Equal(t, "Ditambah", New("ms").T(Added))
	assert.Equal(t, "no.such.key", New("ms").T("no.such.key"))
}

func TestTitle(t *testing.T) {
	tr := New("ms")
	assert.Equal(t, "MamanVoice", tr.Title(types.RootScope(), nil))
	assert.Equal(t, "Makan", tr.Title(types.FolderScope("f"), &types.Card{Label: "Makan"}))
	assert.Equal(t, "Folder", tr.Title(types.FolderScope("gone"), nil))
}

func TestForError(t *testing.T) {
	tests := []struct {
		err error
		en  string
		ms  string
	}{
		{
			err: fmt.Errorf("deleting folder: %w", types.ErrFolderNotEmpty),
			en:  "This folder has cards inside. Delete them first.",
			ms:  "Folder ini ada kad di dalamnya. Padam kad dahulu.",
		},
		{err: types.ErrInvalidBackup, en: "Invalid backup file", ms: "Fail sandaran tidak sah"},
		{err: fmt.Errorf("%w: boom", types.ErrImportFailed), en: "Could not import backup", ms: "Gagal mengimport sandaran"},
		{err: fmt.Errorf("%w: %w", types.ErrImportFailed, types.ErrTooLarge), en: "The file is too large.", ms: "Fail terlalu besar."},
		{err: symbols.ErrLoadFailed, en: "Failed to load symbols. Please check internet.", ms: "Gagal memuat turun simbol. Sila semak internet."},
		{err: errors.New("disk on fire"), en: "Something went wrong", ms: "Sesuatu tidak kena"},
	}

	for _, tt := range tests {
		t.Run(tt.en, func(t *testing.T) {
			assert.Equal(t, tt.en, New("en").ForError(tt.err))
			assert.Equal(t, tt.ms, New("ms").ForError(tt.err))
		})
	}
}

func TestImportFailureWithCorruptAssetReportsImportFailed(t *testing.T) {
	err := fmt.Errorf("%w: card 1: %w", types.ErrImportFailed, types.ErrAssetUnavailable)
	assert.Equal(t, ImportFailed, ErrorKey(err))
}
