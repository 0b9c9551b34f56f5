// Package symbols loads a library of pictogram images and searches it. A
// chosen symbol becomes a card's image asset.
package symbols

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/gosimple/slug"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

// SVGMIME is the MIME type of symbol images.
const SVGMIME = "image/svg+xml"

// maxLibrarySize caps how much of a remote library is read.
const maxLibrarySize = 16 << 20

// Symbol errors.
var (
	ErrSymbolNotFound = errors.New("symbol not found")
	ErrLoadFailed     = errors.New("failed to load symbols")
)

// Symbol is one pictogram.
type Symbol struct {
	Name string   `json:"name"`
	Tags []string `json:"tags"`
	SVG  string   `json:"svg"`
}

// Key returns the slug that identifies the symbol in lookups.
func (s Symbol) Key() string {
	return slug.Make(s.Name)
}

// Asset returns the symbol as an image asset.
func (s Symbol) Asset() *types.Asset {
	return &types.Asset{Data: []byte(s.SVG), MIME: SVGMIME}
}

// Library is an immutable, searchable set of symbols.
type Library struct {
	symbols []Symbol
	byKey   map[string]int
}

// Parse decodes a symbols.json document: a list of {name, tags, svg}.
// Entries without a name or svg are dropped.
func Parse(data []byte) (*Library, error) {
	var raw []Symbol
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	lib := &Library{byKey: make(map[string]int, len(raw))}
	for _, s := range raw {
		if strings.TrimSpace(s.Name) == "" || s.SVG == "" {
			continue
		}
		key := s.Key()
		if _, dup := lib.byKey[key]; dup {
			continue
		}
		lib.byKey[key] = len(lib.symbols)
		lib.symbols = append(lib.symbols, s)
	}
	return lib, nil
}

// Load reads a library from an http(s) URL or a local path.
func Load(ctx context.Context, source string, client *http.Client) (*Library, error) {
	var (
		data []byte
		err  error
	)
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		data, err = fetch(ctx, source, client)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoadFailed, err)
	}
	return Parse(data)
}

func fetch(ctx context.Context, url string, client *http.Client) ([]byte, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxLibrarySize))
}

// Len returns the number of symbols.
func (l *Library) Len() int {
	return len(l.symbols)
}

// Search returns the symbols whose name or any tag contains q, ignoring
// case, in library order. An empty query returns every symbol.
func (l *Library) Search(q string) []Symbol {
	q = strings.ToLower(strings.TrimSpace(q))
	out := []Symbol{}
	for _, s := range l.symbols {
		if q == "" || matches(s, q) {
			out = append(out, s)
		}
	}
	return out
}

func matches(s Symbol, q string) bool {
	if strings.Contains(strings.ToLower(s.Name), q) {
		return true
	}
	for _, t := range s.Tags {
		if strings.Contains(strings.ToLower(t), q) {
			return true
		}
	}
	return false
}

// Get finds a symbol by name or key.
func (l *Library) Get(name string) (Symbol, error) {
	i, ok := l.byKey[slug.Make(name)]
	if !ok {
		return Symbol{}, fmt.Errorf("%q: %w", name, ErrSymbolNotFound)
	}
	return l.symbols[i], nil
}

// Catalog loads its library on first use and keeps it. A failed load is
// not cached, so the next call retries.
type Catalog struct {
	source string
	client *http.Client

	mu  sync.Mutex
	lib *Library
}

// NewCatalog returns a Catalog reading from source.
func NewCatalog(source string, client *http.Client) *Catalog {
	return &Catalog{source: source, client: client}
}

// Library returns the loaded library, loading it if needed.
func (c *Catalog) Library(ctx context.Context) (*Library, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.lib != nil {
		return c.lib, nil
	}
	if c.source == "" {
		return nil, fmt.Errorf("%w: no symbol source configured", ErrLoadFailed)
	}
	lib, err := Load(ctx, c.source, c.client)
	if err != nil {
		return nil, err
	}
	c.lib = lib
	return lib, nil
}
