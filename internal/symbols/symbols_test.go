package symbols

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `[
	{"name":"Apple","tags":["food","fruit"],"svg":"<svg id=\"apple\"/>"},
	{"name":"Happy","tags":["feeling"],"svg":"<svg id=\"happy\"/>"},
	{"name":"Car","tags":["transport","vehicle"],"svg":"<svg id=\"car\"/>"},
	{"name":"Ice Cream","tags":["food","sweet"],"svg":"<svg id=\"ice\"/>"},
	{"name":"","tags":[],"svg":"<svg/>"},
	{"name":"Blank","tags":[],"svg":""}
]`

func names(syms []Symbol) []string {
	out := make([]string, len(syms))
	for i, s := range syms {
		out[i] = s.Name
	}
	return out
}

func TestSearch(t *testing.T) {
	lib, err := Parse([]byte(sample))
	require.NoError(t, err)
	assert.Equal(t, 4, lib.Len())

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{name: "empty returns all", query: "", want: []string{"Apple", "Happy", "Car", "Ice Cream"}},
		{name: "name match ignores case", query: "APP", want: []string{"Apple"}},
		{name: "tag match", query: "food", want: []string{"Apple", "Ice Cream"}},
		{name: "partial tag", query: "veh", want: []string{"Car"}},
		{name: "no match", query: "zebra", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(lib.Search(tt.query)))
		})
	}
}

func TestGetAndAsset(t *testing.T) {
	lib, err := Parse([]byte(sample))
	require.NoError(t, err)

	s, err := lib.Get("ice cream")
	require.NoError(t, err)
	assert.Equal(t, "ice-cream", s.Key())

	a := s.Asset()
	assert.Equal(t, SVGMIME, a.MIME)
	assert.Equal(t, `<svg id="ice"/>`, string(a.Data))

	_, err = lib.Get("zebra")
	assert.ErrorIs(t, err, ErrSymbolNotFound)
}

func TestParseInvalid(t *testing.T) {
	_, err := Parse([]byte(`{"name":"x"}`))
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestLoadFromFileAndHTTP(t *testing.T) {
	ctx := context.Background()

	path := filepath.Join(t.TempDir(), "symbols.json")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))
	lib, err := Load(ctx, path, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, lib.Len())

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/symbols.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	lib, err = Load(ctx, srv.URL+"/symbols.json", srv.Client())
	require.NoError(t, err)
	assert.Equal(t, 4, lib.Len())

	_, err = Load(ctx, srv.URL+"/missing.json", srv.Client())
	assert.ErrorIs(t, err, ErrLoadFailed)

	_, err = Load(ctx, filepath.Join(t.TempDir(), "nope.json"), nil)
	assert.ErrorIs(t, err, ErrLoadFailed)
}

func TestCatalogCachesSuccessOnly(t *testing.T) {
	var hits atomic.Int32
	var fail atomic.Bool
	fail.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if fail.Load() {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(sample))
	}))
	defer srv.Close()

	c := NewCatalog(srv.URL, srv.Client())
	_, err := c.Library(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)

	fail.Store(false)
	lib, err := c.Library(context.Background())
	require.NoError(t, err)
	again, err := c.Library(context.Background())
	require.NoError(t, err)
	assert.Same(t, lib, again)
	assert.Equal(t, int32(2), hits.Load())

	_, err = NewCatalog("", nil).Library(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)
}
