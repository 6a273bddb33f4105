package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/dmitrijs2005/voicediary/internal/timex"
)

// FileConfig is the on-disk shape of the client config. Empty values keep
// the defaults.
type FileConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr" toml:"server_endpoint_addr"`
	DataDir            string         `json:"data_dir" toml:"data_dir"`
	PhotosDir          string         `json:"photos_dir" toml:"photos_dir"`
	GeminiAPIKey       string         `json:"gemini_api_key" toml:"gemini_api_key"`
	GeminiModel        string         `json:"gemini_model" toml:"gemini_model"`
	RequestTimeout     timex.Duration `json:"request_timeout" toml:"request_timeout"`
	Username           string         `json:"username" toml:"username"`
	LogBackend         string         `json:"log_backend" toml:"log_backend"`
	LogLevel           string         `json:"log_level" toml:"log_level"`
}

func parseFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	fc := &FileConfig{}
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(b, fc)
	} else {
		err = json.Unmarshal(b, fc)
	}
	if err != nil {
		return fmt.Errorf("decode config %s: %w", path, err)
	}

	set := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	set(&cfg.ServerEndpointAddr, fc.ServerEndpointAddr)
	set(&cfg.DataDir, fc.DataDir)
	set(&cfg.PhotosDir, fc.PhotosDir)
	set(&cfg.GeminiAPIKey, fc.GeminiAPIKey)
	set(&cfg.GeminiModel, fc.GeminiModel)
	set(&cfg.Username, fc.Username)
	set(&cfg.LogBackend, fc.LogBackend)
	set(&cfg.LogLevel, fc.LogLevel)
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	return nil
}
