package toml

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	configPathKey  = "config.path"
	configDirName  = "eventwatch"
	configFileName = "config.toml"
)

// Config carries the credentials and settings one run needs.
type Config struct {
	AuthURL      string
	APIURL       string
	APIKey       string
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	Scope        string
	DataDir      string
	Tag          string
}

// Load reads the TOML config file resolved from the viper path key, falling
// back to ~/.config/eventwatch/config.toml. A missing file yields the
// defaults, so a run against explicit snapshot files needs no configuration.
func Load(cfg *viper.Viper) (Config, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	path := cfg.GetString(configPathKey)
	if path == "" {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve config directory: %w", err)
		}
		path = filepath.Join(configDir, configDirName, configFileName)
	}

	var file configFileSchema
	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	case err != nil:
		return Config{}, fmt.Errorf("read config file: %w", err)
	default:
		if err := toml.Unmarshal(raw, &file); err != nil {
			return Config{}, fmt.Errorf("decode config file %s: %w", path, err)
		}
	}

	file.applyDefaults()
	if err := file.validateVersion(); err != nil {
		return Config{}, err
	}
	return file.toConfig(), nil
}
