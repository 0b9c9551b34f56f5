package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultDirs_Linux(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	tests := []struct {
		name string
		env  string
		val  string
		fn   func() (string, error)
		want string
	}{
		{name: "config uses XDG_CONFIG_HOME", env: "XDG_CONFIG_HOME", val: "/tmp/xdg-config",
			fn: DefaultConfigDir, want: "/tmp/xdg-config/speakboard"},
		{name: "config falls back to ~/.config", env: "XDG_CONFIG_HOME", val: "",
			fn: DefaultConfigDir, want: filepath.Join(home, ".config", "speakboard")},
		{name: "data uses XDG_DATA_HOME", env: "XDG_DATA_HOME", val: "/tmp/xdg-data",
			fn: DefaultDataDir, want: "/tmp/xdg-data/speakboard"},
		{name: "data falls back to ~/.local/share", env: "XDG_DATA_HOME", val: "",
			fn: DefaultDataDir, want: filepath.Join(home, ".local", "share", "speakboard")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.val)
			got, err := tt.fn()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDefaultDirs_HomeError(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("linux-only test")
	}
	orig := platformDir.homeDir
	t.Cleanup(func() { platformDir.homeDir = orig })
	platformDir.homeDir = func() (string, error) { return "", errors.New("no home") }
	t.Setenv("XDG_CONFIG_HOME", "")

	_, err := DefaultConfigDir()
	assert.Error(t, err)
}

func TestResolveConfigDir(t *testing.T) {
	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/env-config")
		got, err := ResolveConfigDir("/tmp/flag-config")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/flag-config", got)
	})

	t.Run("env used without flag", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "/tmp/env-config")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		assert.Equal(t, "/tmp/env-config", got)
	})

	t.Run("relative flag made absolute", func(t *testing.T) {
		got, err := ResolveConfigDir("rel")
		require.NoError(t, err)
		assert.True(t, filepath.IsAbs(got))
	})

	t.Run("platform default", func(t *testing.T) {
		t.Setenv(EnvConfigDir, "")
		got, err := ResolveConfigDir("")
		require.NoError(t, err)
		want, err := DefaultConfigDir()
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})
}

func TestResolveDataAndBackupDir(t *testing.T) {
	cwd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name    string
		resolve func(flag, cfg string) (string, error)
		env     string
		flag    string
		cfg     string
		envVal  string
		want    string
	}{
		{name: "data flag wins", resolve: ResolveDataDir, env: EnvDataDir,
			flag: "/tmp/f", cfg: "/tmp/c", envVal: "/tmp/e", want: "/tmp/f"},
		{name: "data config beats env", resolve: ResolveDataDir, env: EnvDataDir,
			cfg: "/tmp/c", envVal: "/tmp/e", want: "/tmp/c"},
		{name: "data env", resolve: ResolveDataDir, env: EnvDataDir,
			envVal: "/tmp/e", want: "/tmp/e"},
		{name: "data cwd default", resolve: ResolveDataDir, env: EnvDataDir,
			want: filepath.Join(cwd, DefaultDataDirName)},
		{name: "backup flag wins", resolve: ResolveBackupDir, env: EnvBackupDir,
			flag: "/tmp/bf", cfg: "/tmp/bc", want: "/tmp/bf"},
		{name: "backup env", resolve: ResolveBackupDir, env: EnvBackupDir,
			envVal: "/tmp/be", want: "/tmp/be"},
		{name: "backup cwd default", resolve: ResolveBackupDir, env: EnvBackupDir,
			want: filepath.Join(cwd, DefaultBackupDirName)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.envVal)
			got, err := tt.resolve(tt.flag, tt.cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
