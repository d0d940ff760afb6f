// Package config reads server settings from the environment.
//
// main loads a .env file (godotenv) first, so values there behave like
// regular environment variables. Unset or empty variables take the
// defaults from Default.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rubisha/heartsite/internal/minegame"
)

// Config holds every runtime setting.
type Config struct {
	Port         string
	LogLevel     string
	DBPath       string
	JWTSecret    string
	CookieName   string
	ClientOrigin string
	Production   bool
	SessionTTL   time.Duration
	QuizFile     string
	Rules        minegame.Rules
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Port:         "5175",
		LogLevel:     "info",
		DBPath:       "./data/heartsite.db",
		JWTSecret:    "dev_secret_change_me",
		CookieName:   "heartsite_player",
		ClientOrigin: "http://localhost:5175",
		SessionTTL:   2 * time.Hour,
		Rules:        minegame.DefaultRules(),
	}
}

// FromEnv builds a Config from the environment.
func FromEnv() (Config, error) {
	return load(os.Getenv)
}

func load(getenv func(string) string) (Config, error) {
	c := Default()
	str := func(k string, dst *string) {
		if v := getenv(k); v != "" {
			*dst = v
		}
	}
	str("PORT", &c.Port)
	str("LOG_LEVEL", &c.LogLevel)
	str("DB_PATH", &c.DBPath)
	str("JWT_SECRET", &c.JWTSecret)
	str("COOKIE_NAME", &c.CookieName)
	str("CLIENT_ORIGIN", &c.ClientOrigin)
	str("QUIZ_FILE", &c.QuizFile)
	c.Production = getenv("APP_ENV") == "production"

	if v := getenv("SESSION_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("SESSION_TTL: invalid duration %q", v)
		}
		c.SessionTTL = d
	}

	ints := []struct {
		key string
		set func(int)
	}{
		{"GAME_SECONDS", func(n int) { c.Rules.Duration = time.Duration(n) * time.Second }},
		{"GRID_SIZE", func(n int) { c.Rules.GridSize = n }},
		{"HEARTS_COUNT", func(n int) { c.Rules.Hearts = n }},
	}
	for _, it := range ints {
		v := getenv(it.key)
		if v == "" {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", it.key, err)
		}
		it.set(n)
	}
	if err := c.Rules.Validate(); err != nil {
		return Config{}, err
	}
	if c.Production && c.JWTSecret == Default().JWTSecret {
		return Config{}, errors.New("JWT_SECRET must be set when APP_ENV=production")
	}
	return c, nil
}
