// Package config holds runtime settings for the voicediary client.
package config

import (
	"os"
	"path/filepath"
	"time"
)

// GeminiAPIKeyEnv names the environment variable holding the Gemini API key.
const GeminiAPIKeyEnv = "GEMINI_API_KEY"

// Config holds runtime settings for the client.
//
// Fields:
//   - ServerEndpointAddr: host:port of the backend gRPC endpoint.
//   - DataDir: root of the local entry store and the session database.
//   - PhotosDir: directory scanned by the photo library.
//   - GeminiAPIKey / GeminiModel: summarization backend.
//   - RequestTimeout: upper bound for a single remote or summarizer call.
//   - Username: last logged-in user, shown in the shell prompt.
//   - LogBackend / LogLevel: see logging.New.
type Config struct {
	ServerEndpointAddr string
	DataDir            string
	PhotosDir          string
	GeminiAPIKey       string
	GeminiModel        string
	RequestTimeout     time.Duration
	Username           string
	LogBackend         string
	LogLevel           string
}

// LoadDefaults populates c with defaults rooted at the user's home directory.
func (c *Config) LoadDefaults() {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.DataDir = filepath.Join(home, ".voicediary")
	c.PhotosDir = filepath.Join(home, "Pictures")
	c.GeminiModel = "gemini-2.5-flash"
	c.RequestTimeout = 60 * time.Second
	c.LogBackend = "slog"
	c.LogLevel = "warn"
}

// Load builds a Config from defaults, the optional file at path (JSON, or
// TOML when it ends in .toml) and the environment. Command-line flags are
// applied by the caller afterwards.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}
	parseEnv(cfg)
	return cfg, nil
}

func parseEnv(cfg *Config) {
	if v := os.Getenv(GeminiAPIKeyEnv); v != "" {
		cfg.GeminiAPIKey = v
	}
}
