package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Server struct {
	Port              string `json:"port"`
	RequestTimeoutSec int    `json:"request_timeout_sec"`
}

type Quotes struct {
	DefaultProvider  string `json:"default_provider"`
	DefaultChunkSize int    `json:"default_chunk_size"`
	MaxSymbols       int    `json:"max_symbols"`
}

type Yahoo struct {
	Enabled   bool   `json:"enabled"`
	Endpoint  string `json:"endpoint"`
	Crumb     string `json:"crumb"`
	Cookie    string `json:"cookie"`
	UserAgent string `json:"user_agent"`
	// TimeoutSec bounds a single aggregate quote request.
	TimeoutSec int `json:"timeout_sec"`
}

type FinanceGo struct {
	Enabled bool `json:"enabled"`
}

type Fake struct {
	Enabled bool `json:"enabled"`
}

type Universe struct {
	Path    string `json:"path"`
	Preload bool   `json:"preload"`
}

type Log struct {
	Level       string `json:"level"`
	Development bool   `json:"development"`
	// File, when set, receives logs through a rotating writer.
	File       string `json:"file"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

type Config struct {
	Server    Server    `json:"server"`
	Quotes    Quotes    `json:"quotes"`
	Yahoo     Yahoo     `json:"yahoo"`
	FinanceGo FinanceGo `json:"financego"`
	Fake      Fake      `json:"fake"`
	Universe  Universe  `json:"universe"`
	Log       Log       `json:"log"`
}

func Default() Config {
	return Config{
		Server: Server{Port: "8080", RequestTimeoutSec: 30},
		Quotes: Quotes{
			DefaultProvider:  "yfinance",
			DefaultChunkSize: 50,
			MaxSymbols:       1000,
		},
		Yahoo: Yahoo{
			Enabled:    true,
			Endpoint:   "https://query1.finance.yahoo.com",
			TimeoutSec: 10,
		},
		FinanceGo: FinanceGo{Enabled: true},
		Fake:      Fake{Enabled: false},
		Universe:  Universe{Path: "data/universe.json"},
		Log: Log{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 5,
			MaxAgeDays: 28,
		},
	}
}

// Validate reports settings the server cannot run with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Server.Port) == "" {
		return errors.New("server.port undefined")
	}
	if c.Quotes.DefaultChunkSize <= 0 {
		return fmt.Errorf("quotes.default_chunk_size must be positive, got %d", c.Quotes.DefaultChunkSize)
	}
	if strings.TrimSpace(c.Quotes.DefaultProvider) == "" {
		return errors.New("quotes.default_provider undefined")
	}
	if strings.TrimSpace(c.Universe.Path) == "" {
		return errors.New("universe.path undefined")
	}
	return nil
}

// Load reads JSON config from path. If path is empty or file does not exist,
// it returns defaults. Environment variables override select fields.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		if _, err := os.Stat("config.json"); err == nil {
			path = "config.json"
		}
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err == nil {
			if err := json.Unmarshal(b, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config: %w", err)
			}
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Port = v
	}
	if x, ok := envInt("REQUEST_TIMEOUT_SEC"); ok && x > 0 {
		cfg.Server.RequestTimeoutSec = x
	}

	if v := os.Getenv("QUOTES_DEFAULT_PROVIDER"); v != "" {
		cfg.Quotes.DefaultProvider = v
	}
	if x, ok := envInt("QUOTES_DEFAULT_CHUNK_SIZE"); ok && x > 0 {
		cfg.Quotes.DefaultChunkSize = x
	}
	if x, ok := envInt("QUOTES_MAX_SYMBOLS"); ok && x >= 0 {
		cfg.Quotes.MaxSymbols = x
	}

	if b, ok := envBool("YAHOO_ENABLED"); ok {
		cfg.Yahoo.Enabled = b
	}
	if v := os.Getenv("YAHOO_ENDPOINT"); v != "" {
		cfg.Yahoo.Endpoint = v
	}
	if v := os.Getenv("YAHOO_CRUMB"); v != "" {
		cfg.Yahoo.Crumb = v
	}
	if v := os.Getenv("YAHOO_COOKIE"); v != "" {
		cfg.Yahoo.Cookie = v
	}
	if v := os.Getenv("YAHOO_USER_AGENT"); v != "" {
		cfg.Yahoo.UserAgent = v
	}
	if x, ok := envInt("YAHOO_TIMEOUT_SEC"); ok && x > 0 {
		cfg.Yahoo.TimeoutSec = x
	}

	if b, ok := envBool("FINANCEGO_ENABLED"); ok {
		cfg.FinanceGo.Enabled = b
	}
	if b, ok := envBool("FAKE_PROVIDER_ENABLED"); ok {
		cfg.Fake.Enabled = b
	}

	if v := os.Getenv("UNIVERSE_PATH"); v != "" {
		cfg.Universe.Path = v
	}
	if b, ok := envBool("UNIVERSE_PRELOAD"); ok {
		cfg.Universe.Preload = b
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if b, ok := envBool("LOG_DEVELOPMENT"); ok {
		cfg.Log.Development = b
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
}

func envInt(key string) (int, bool) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return 0, false
	}
	x, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return x, true
}

func envBool(key string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y":
		return true, true
	case "0", "false", "no", "n":
		return false, true
	}
	return false, false
}

// SplitCSV splits a comma-separated list, dropping blanks.
func SplitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
