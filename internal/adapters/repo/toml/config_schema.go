package toml

import "fmt"

const currentConfigSchemaVersion = 1

const (
	defaultAuthURL = "https://oauth.wildapricot.org/auth/token"
	defaultAPIURL  = "https://api.wildapricot.org"
	defaultDataDir = "./data"
	defaultTag     = "eta-class"
)

type configFileSchema struct {
	Version      int    `toml:"version"`
	AuthURL      string `toml:"auth_url"`
	APIURL       string `toml:"api_url"`
	APIKey       string `toml:"api_key"`
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	Username     string `toml:"username"`
	Password     string `toml:"password"`
	Scope        string `toml:"scope"`
	DataDir      string `toml:"data_dir"`
	Tag          string `toml:"tag"`
}

func (s *configFileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentConfigSchemaVersion
	}
	if s.AuthURL == "" {
		s.AuthURL = defaultAuthURL
	}
	if s.APIURL == "" {
		s.APIURL = defaultAPIURL
	}
	if s.DataDir == "" {
		s.DataDir = defaultDataDir
	}
	if s.Tag == "" {
		s.Tag = defaultTag
	}
}

func (s configFileSchema) validateVersion() error {
	if s.Version > currentConfigSchemaVersion {
		return fmt.Errorf("unsupported config schema version %d (current %d)", s.Version, currentConfigSchemaVersion)
	}
	return nil
}

func (s configFileSchema) toConfig() Config {
	return Config{
		AuthURL:      s.AuthURL,
		APIURL:       s.APIURL,
		APIKey:       s.APIKey,
		ClientID:     s.ClientID,
		ClientSecret: s.ClientSecret,
		Username:     s.Username,
		Password:     s.Password,
		Scope:        s.Scope,
		DataDir:      s.DataDir,
		Tag:          s.Tag,
	}
}
