package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/speakboard/internal/i18n"
	"github.com/mesh-intelligence/speakboard/pkg/types"
)

type testEnv struct {
	configDir string
	dataDir   string
	backupDir string
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")
	t.Setenv("LANG", "en")
	dir := t.TempDir()
	return &testEnv{
		configDir: filepath.Join(dir, "config"),
		dataDir:   filepath.Join(dir, "data"),
		backupDir: filepath.Join(dir, "backups"),
	}
}

// run executes one CLI invocation and returns its stdout.
func (e *testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	a := &app{stderr: &bytes.Buffer{}}
	root := a.rootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{
		"--config-dir", e.configDir,
		"--data-dir", e.dataDir,
		"--backup-dir", e.backupDir,
	}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := e.run(t, args...)
	require.NoError(t, err, out)
	return out
}

func (e *testEnv) addCard(t *testing.T, args ...string) cardOutput {
	t.Helper()
	out := e.mustRun(t, append([]string{"--json", "add"}, args...)...)
	var card cardOutput
	require.NoError(t, json.Unmarshal([]byte(out), &card), out)
	return card
}

type scopeOutput struct {
	Scope string       `json:"scope"`
	Title string       `json:"title"`
	Cards []cardOutput `json:"cards"`
}

func (e *testEnv) list(t *testing.T, scope string) scopeOutput {
	t.Helper()
	out := e.mustRun(t, "--json", "list", scope)
	var s scopeOutput
	require.NoError(t, json.Unmarshal([]byte(out), &s), out)
	return s
}

func outputLabels(cards []cardOutput) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Label
	}
	return out
}

func TestVersion(t *testing.T) {
	env := setupEnv(t)
	out := env.mustRun(t, "version")
	assert.Contains(t, out, "speakboard v")
	assert.Contains(t, out, "github.com/mesh-intelligence/speakboard")

	_, err := os.Stat(env.configDir)
	assert.True(t, os.IsNotExist(err), "version does not touch the config dir")
}

func TestInit(t *testing.T) {
	env := setupEnv(t)
	out := env.mustRun(t, "init")
	assert.Contains(t, out, "initialized successfully")
	assert.Contains(t, out, "cards:  4")

	configPath := filepath.Join(env.configDir, configFileExt)
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "seed: true")

	require.NoError(t, os.WriteFile(configPath, []byte("backend: sqlite\nseed: false\n"), 0o644))
	env.mustRun(t, "init")
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, "backend: sqlite\nseed: false\n", string(data), "existing config is kept")
}

func TestSeededRootListing(t *testing.T) {
	env := setupEnv(t)
	root := env.list(t, "")
	assert.Equal(t, "root", root.Scope)
	assert.Equal(t, "MamanVoice", root.Title)
	assert.Equal(t, []string{"Food", "Hi", "More", "Help"}, outputLabels(root.Cards))
}

func TestUnseededBoardIsEmpty(t *testing.T) {
	env := setupEnv(t)
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt), []byte("seed: false\n"), 0o644))

	assert.Empty(t, env.list(t, "root").Cards)
	out := env.mustRun(t, "list")
	assert.Contains(t, out, "Nothing here yet")
}

func TestCardCommands(t *testing.T) {
	env := setupEnv(t)

	folder := env.addCard(t, "--type", "folder", "--label", "Drinks", "--order", "1")
	assert.Equal(t, types.CardFolder, folder.Type)

	imagePath := filepath.Join(t.TempDir(), "water.png")
	png := []byte("\x89PNG\r\n\x1a\n0000")
	require.NoError(t, os.WriteFile(imagePath, png, 0o644))

	water := env.addCard(t, "--label", "Water", "--parent", folder.ID, "--order", "2", "--image", imagePath)
	require.NotNil(t, water.Image)
	assert.Equal(t, "image/png", water.Image.MIME)
	require.NotNil(t, water.ParentID)
	assert.Equal(t, folder.ID, *water.ParentID)

	inside := env.list(t, folder.ID)
	assert.Equal(t, "Drinks", inside.Title)
	assert.Equal(t, []string{"Water"}, outputLabels(inside.Cards))

	out := env.mustRun(t, "show", water.ID)
	assert.Contains(t, out, "Label:   Water")
	assert.Contains(t, out, "Image:   image/png")

	edited := cardOutput{}
	out = env.mustRun(t, "--json", "edit", water.ID, "--label", "Cold water", "--clear-image")
	require.NoError(t, json.Unmarshal([]byte(out), &edited))
	assert.Equal(t, "Cold water", edited.Label)
	assert.Nil(t, edited.Image)
	assert.Equal(t, 2.0, edited.Order, "unchanged flags keep their values")

	_, err := env.run(t, "delete", folder.ID)
	assert.ErrorIs(t, err, types.ErrFolderNotEmpty)
	assert.Equal(t, exitUserError, exitCode(err))

	out = env.mustRun(t, "delete", water.ID)
	assert.Contains(t, out, "Deleted")
	env.mustRun(t, "delete", folder.ID)

	_, err = env.run(t, "show", folder.ID)
	assert.ErrorIs(t, err, types.ErrNotFound)
}

func TestAddRejections(t *testing.T) {
	env := setupEnv(t)
	speak := env.addCard(t, "--label", "Hi there")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "blank label", args: []string{"--label", "  "}, want: types.ErrInvalidCard},
		{name: "missing parent", args: []string{"--label", "x", "--parent", "nope"}, want: types.ErrParentNotFound},
		{name: "parent not folder", args: []string{"--label", "x", "--parent", speak.ID}, want: types.ErrParentNotFolder},
		{name: "missing image file", args: []string{"--label", "x", "--image", "/does/not/exist.png"}, want: types.ErrAssetUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.run(t, append([]string{"add"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	_, err := env.run(t, "add", "--type", "song", "--label", "x")
	assert.Error(t, err, "unknown type is a flag error")
	_, err = env.run(t, "add")
	assert.Error(t, err, "label is required")
}

func TestEditCycle(t *testing.T) {
	env := setupEnv(t)
	outer := env.addCard(t, "--type", "folder", "--label", "Outer")
	inner := env.addCard(t, "--type", "folder", "--label", "Inner", "--parent", outer.ID)

	_, err := env.run(t, "edit", outer.ID, "--parent", inner.ID)
	assert.ErrorIs(t, err, types.ErrCycle)

	env.mustRun(t, "edit", inner.ID, "--parent", "root")
	root := env.list(t, "root")
	assert.Contains(t, outputLabels(root.Cards), "Inner")
}

func TestEditImportedBlankLabel(t *testing.T) {
	env := setupEnv(t)
	dir := t.TempDir()
	doc := filepath.Join(dir, "blank.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"version":1,"exportedAt":"x","cards":[
		{"id":"x","parentId":null,"type":"speak","label":"","order":1,"image":null,"audio":null}
	]}`), 0o644))
	env.mustRun(t, "import", doc)

	audio := filepath.Join(dir, "clip.mp3")
	require.NoError(t, os.WriteFile(audio, []byte("ID3 clip"), 0o644))
	env.mustRun(t, "edit", "x", "--audio", audio)

	_, err := env.run(t, "edit", "x", "--label", "   ")
	assert.ErrorIs(t, err, types.ErrInvalidCard)
}

func TestSpeak(t *testing.T) {
	env := setupEnv(t)
	root := env.list(t, "root")
	require.Len(t, root.Cards, 4)

	out := env.mustRun(t, "speak", root.Cards[1].ID)
	assert.Equal(t, "speak: Hi\n", out)

	out = env.mustRun(t, "speak", root.Cards[0].ID)
	assert.Contains(t, out, "Food")
	assert.Contains(t, out, "Nothing here yet")
}

func TestExportImport(t *testing.T) {
	env := setupEnv(t)
	env.list(t, "root")

	out := env.mustRun(t, "--json", "export")
	var exported struct {
		Path  string `json:"path"`
		Cards int    `json:"cards"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &exported))
	assert.Equal(t, 4, exported.Cards)
	assert.Equal(t, env.backupDir, filepath.Dir(exported.Path))
	assert.True(t, strings.HasPrefix(filepath.Base(exported.Path), "aac-backup-"))

	env.addCard(t, "--label", "Extra")
	assert.Len(t, env.list(t, "root").Cards, 5)

	out = env.mustRun(t, "import", exported.Path)
	assert.Contains(t, out, "Backup imported (4 cards)")
	assert.Len(t, env.list(t, "root").Cards, 4)

	bad := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"version":2,"cards":[]}`), 0o644))
	_, err := env.run(t, "import", bad)
	assert.ErrorIs(t, err, types.ErrInvalidBackup)
	assert.Equal(t, exitUserError, exitCode(err))

	_, err = env.run(t, "import", filepath.Join(t.TempDir(), "missing.json"))
	assert.ErrorIs(t, err, types.ErrImportFailed)
	assert.Len(t, env.list(t, "root").Cards, 4, "failed imports leave the board unchanged")
}

func TestSymbolsCommand(t *testing.T) {
	env := setupEnv(t)
	source := filepath.Join(t.TempDir(), "symbols.json")
	require.NoError(t, os.WriteFile(source, []byte(`[
		{"name":"Apple","tags":["food"],"svg":"<svg id=\"apple\"/>"},
		{"name":"Car","tags":["vehicle"],"svg":"<svg id=\"car\"/>"}
	]`), 0o644))
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, configFileExt),
		[]byte("symbols:\n  source: "+source+"\n"), 0o644))

	out := env.mustRun(t, "symbols", "food")
	assert.Contains(t, out, "apple")
	assert.NotContains(t, out, "Car")

	out = env.mustRun(t, "symbols", "zebra")
	assert.Contains(t, out, `No symbols found for "zebra"`)

	card := env.addCard(t, "--label", "Apple", "--symbol", "apple")
	require.NotNil(t, card.Image)
	assert.Equal(t, "image/svg+xml", card.Image.MIME)
}

func TestDotEnvIsLoaded(t *testing.T) {
	env := setupEnv(t)
	t.Setenv("SPEAKBOARD_TEST_VALUE", "")
	os.Unsetenv("SPEAKBOARD_TEST_VALUE")
	require.NoError(t, os.MkdirAll(env.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(env.configDir, dotEnvFile), []byte("SPEAKBOARD_TEST_VALUE=loaded\n"), 0o644))

	env.mustRun(t, "list")
	assert.Equal(t, "loaded", os.Getenv("SPEAKBOARD_TEST_VALUE"))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitSuccess, exitCode(nil))
	assert.Equal(t, exitUserError, exitCode(types.ErrNotFound))
	assert.Equal(t, exitSysError, exitCode(systemError(errors.New("disk full"))))
	assert.Nil(t, systemError(nil))
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	report(&buf, i18n.New("en"), types.ErrFolderNotEmpty)
	assert.Contains(t, buf.String(), "This folder has cards inside. Delete them first.")

	buf.Reset()
	report(&buf, nil, errors.New("unknown flag: --nope"))
	assert.Equal(t, "speakboard: unknown flag: --nope\n", buf.String())
}
