// Package i18n holds the operator-facing messages in English and Malay and
// maps store errors to them.
package i18n

import (
	"errors"

	"golang.org/x/text/language"

	"github.com/mesh-intelligence/speakboard/internal/symbols"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// Supported languages. The first one is the fallback.
var supported = []language.Tag{
	language.English,
	language.Malay,
}

var matcher = language.NewMatcher(supported)

// Translator renders messages in one language.
type Translator struct {
	lang string
}

// New returns a Translator for the best match among the given language
// preferences (tags or Accept-Language values). Unknown input yields
// English.
func New(prefs ...string) *Translator {
	tag, _ := language.MatchStrings(matcher, prefs...)
	base, _ := tag.Base()
	lang := base.String()
	if _, ok := catalog[lang]; !ok {
		lang = "en"
	}
	return &Translator{lang: lang}
}

// Languages lists the supported language codes.
func Languages() []string {
	out := make([]string, len(supported))
	for i, t := range supported {
		b, _ := t.Base()
		out[i] = b.String()
	}
	return out
}

// Lang returns the language code in use.
func (t *Translator) Lang() string {
	return t.lang
}

// T returns the message for key, falling back to English and then to the
// key itself.
func (t *Translator) T(key string) string {
	if msg, ok := catalog[t.lang][key]; ok {
		return msg
	}
	if msg, ok := catalog["en"][key]; ok {
		return msg
	}
	return key
}

// Title returns the header for a scope: the app title at root, the folder
// label inside a folder, or the generic folder label when the folder record
// is missing.
func (t *Translator) Title(scope types.Scope, folder *types.Card) string {
	if scope.IsRoot() {
		return t.T(AppTitle)
	}
	if folder == nil {
		return t.T(FolderFallback)
	}
	return folder.Label
}

// ErrorKey returns the message key for err.
func ErrorKey(err error) string {
	switch {
	case errors.Is(err, types.ErrTooLarge):
		return TooLarge
	case errors.Is(err, types.ErrFolderNotEmpty):
		return FolderNotEmpty
	case errors.Is(err, types.ErrInvalidBackup):
		return InvalidBackup
	case errors.Is(err, types.ErrImportFailed):
		return ImportFailed
	case errors.Is(err, types.ErrNotFound):
		return CardNotFound
	case errors.Is(err, types.ErrInvalidCard), errors.Is(err, types.ErrInvalidID):
		return CardInvalid
	case errors.Is(err, types.ErrParentNotFound):
		return ParentMissing
	case errors.Is(err, types.ErrParentNotFolder):
		return ParentNotFolder
	case errors.Is(err, types.ErrCycle):
		return FolderCycle
	case errors.Is(err, types.ErrDuplicateID):
		return DuplicateCard
	case errors.Is(err, types.ErrAssetUnavailable):
		return AssetMissing
	case errors.Is(err, symbols.ErrLoadFailed):
		return LibraryError
	default:
		return Unexpected
	}
}

// ForError returns the translated message for err.
func (t *Translator) ForError(err error) string {
	return t.T(ErrorKey(err))
}
