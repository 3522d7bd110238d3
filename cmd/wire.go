package cmd

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/viper"

	snapshotrepo "github.com/clubops/eventwatch/internal/adapters/repo/snapshot"
	tomlrepo "github.com/clubops/eventwatch/internal/adapters/repo/toml"
	"github.com/clubops/eventwatch/internal/adapters/wildapricot"
	"github.com/clubops/eventwatch/internal/application"
	"github.com/clubops/eventwatch/internal/ports"
)

type app struct {
	service *application.Service
	tokens  *wildapricot.TokenManager
	config  tomlrepo.Config
}

func wireApp() (*app, error) {
	cfg := viper.New()
	if path := os.Getenv("EVENTWATCH_CONFIG"); path != "" {
		cfg.Set("config.path", path)
	}

	config, err := tomlrepo.Load(cfg)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	config.AuthURL = envOrDefault("EVENTWATCH_AUTH_URL", config.AuthURL)
	config.APIURL = envOrDefault("EVENTWATCH_API_URL", config.APIURL)
	config.DataDir = envOrDefault("EVENTWATCH_DATA_DIR", config.DataDir)
	config.APIKey = envOrDefault("EVENTWATCH_API_KEY", config.APIKey)

	httpClient := &http.Client{Timeout: 30 * time.Second}
	clock := ports.SystemClock{}

	tokens := wildapricot.NewTokenManager(config.AuthURL, config.ClientID, config.ClientSecret, httpClient, clock)
	client := wildapricot.NewClient(config.APIURL, httpClient, tokens)
	snapshots := snapshotrepo.NewRepository(config.DataDir)

	return &app{
		service: application.NewService(client, snapshots, clock, config.Tag),
		tokens:  tokens,
		config:  config,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
