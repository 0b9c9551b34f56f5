package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/speakboard/pkg/types"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	dotEnvFile     = ".env"

	cfgKeyBackend         = "backend"
	cfgKeyDataDir         = "data_dir"
	cfgKeyBackupDir       = "backup_dir"
	cfgKeyLanguage        = "language"
	cfgKeySeed            = "seed"
	cfgKeyServerAddr      = "server.addr"
	cfgKeyAllowOrigins    = "server.allow_origins"
	cfgKeySymbolsSource   = "symbols.source"
	cfgKeyTTSCredentials  = "tts.credentials_file"
	cfgKeyTTSVoice        = "tts.voice"
	cfgKeyTTSLanguage     = "tts.language"
	cfgKeyTTSSpeakingRate = "tts.speaking_rate"
	cfgKeyPlayerCommand   = "player.command"

	defaultServerAddr = "127.0.0.1:8080"
)

// configFile is the structure written to config.yaml by init.
type configFile struct {
	Backend   string        `yaml:"backend"`
	DataDir   string        `yaml:"data_dir,omitempty"`
	BackupDir string        `yaml:"backup_dir,omitempty"`
	Language  string        `yaml:"language"`
	Seed      bool          `yaml:"seed"`
	Server    serverSection `yaml:"server"`
	Symbols   symbolSection `yaml:"symbols"`
	TTS       ttsSection    `yaml:"tts"`
	Player    playerSection `yaml:"player"`
}

type serverSection struct {
	Addr         string   `yaml:"addr"`
	AllowOrigins []string `yaml:"allow_origins,omitempty"`
}

type symbolSection struct {
	Source string `yaml:"source"`
}

type ttsSection struct {
	CredentialsFile string `yaml:"credentials_file"`
	Voice           string `yaml:"voice"`
	Language        string `yaml:"language"`
}

type playerSection struct {
	Command string `yaml:"command"`
}

func defaultConfigFile(dataDir string) configFile {
	return configFile{
		Backend:  types.BackendSQLite,
		DataDir:  dataDir,
		Language: "en",
		Seed:     true,
		Server:   serverSection{Addr: defaultServerAddr},
	}
}

// loadConfig reads config.yaml from configDir. A missing file is not an
// error; the defaults apply.
func loadConfig(configDir string) (*viper.Viper, error) {
	v := viper.New()
	v.SetDefault(cfgKeyBackend, types.BackendSQLite)
	v.SetDefault(cfgKeyLanguage, "en")
	v.SetDefault(cfgKeySeed, true)
	v.SetDefault(cfgKeyServerAddr, defaultServerAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return v, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return v, nil
}

// loadDotEnv loads configDir/.env into the environment when present.
// Variables already set are kept.
func loadDotEnv(configDir string) error {
	path := filepath.Join(configDir, dotEnvFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// writeConfigIfMissing creates config.yaml with default values if the file
// does not exist. Reports whether it wrote the file.
func writeConfigIfMissing(path, dataDir string) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("checking config file: %w", err)
	}

	cfg := defaultConfigFile(dataDir)
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return false, fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, fmt.Errorf("writing config: %w", err)
	}
	return true, nil
}
