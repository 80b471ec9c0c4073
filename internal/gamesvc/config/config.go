package config

import (
	"os"
)

type Config struct {
	SlackToken        string
	SlackClientID     string
	SlackClientSecret string
	LandingURL        string
	CancelURL         string
	ErrorURL          string
	RenderDebug       bool
}

func Load() Config {
	return Config{
		SlackToken:        os.Getenv("SLACK_TOKEN"),
		SlackClientID:     os.Getenv("SLACK_CLIENT_ID"),
		SlackClientSecret: os.Getenv("SLACK_CLIENT_SECRET"),
		LandingURL:        getenvDefault("OAUTH_LANDING_URL", "https://kurogitsune.github.io/gamesofni/landing.html"),
		CancelURL:         getenvDefault("OAUTH_CANCEL_URL", "https://kurogitsune.github.io/gamesofni/cancel.html"),
		ErrorURL:          getenvDefault("OAUTH_ERROR_URL", "https://kurogitsune.github.io/gamesofni/error.html"),
		RenderDebug:       os.Getenv("RENDER_DEBUG") == "true",
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
