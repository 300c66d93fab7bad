package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the renderer settings. Values come from defaults, then an
// optional .env file, then the environment; command-line flags are applied last.
type Config struct {
	DataElementID    string
	SurfaceElementID string
	Width            int // px
	Height           int // px
	EmbedFormat      string
	ErrorBanner      bool
	LogLevel         string
	LogJSON          bool
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		DataElementID:    "daily-sales-data",
		SurfaceElementID: "salesChart",
		Width:            800,
		Height:           400,
		EmbedFormat:      "png",
		LogLevel:         "info",
	}
}

// Load reads envFile if it exists and applies the environment over the defaults.
// A missing envFile is not an error.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg := Default()
	cfg.DataElementID = getEnvWithDefault("SALES_CHART_DATA_ID", cfg.DataElementID)
	cfg.SurfaceElementID = getEnvWithDefault("SALES_CHART_SURFACE_ID", cfg.SurfaceElementID)
	cfg.EmbedFormat = strings.ToLower(getEnvWithDefault("SALES_CHART_EMBED_FORMAT", cfg.EmbedFormat))
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", cfg.LogLevel)

	var err error
	if cfg.Width, err = getEnvInt("SALES_CHART_WIDTH", cfg.Width); err != nil {
		return Config{}, err
	}
	if cfg.Height, err = getEnvInt("SALES_CHART_HEIGHT", cfg.Height); err != nil {
		return Config{}, err
	}
	if cfg.ErrorBanner, err = getEnvBool("SALES_CHART_ERROR_BANNER", cfg.ErrorBanner); err != nil {
		return Config{}, err
	}
	if cfg.LogJSON, err = getEnvBool("LOG_JSON", cfg.LogJSON); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks the settings that cannot be checked at parse time.
func (c Config) Validate() error {
	if c.DataElementID == "" {
		return errors.New("data element id must not be empty")
	}
	if c.SurfaceElementID == "" {
		return errors.New("surface element id must not be empty")
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.Width, c.Height)
	}
	if c.EmbedFormat != "png" && c.EmbedFormat != "svg" {
		return fmt.Errorf("invalid embed format '%s'. Must be 'png' or 'svg'", c.EmbedFormat)
	}
	return nil
}

func getEnvWithDefault(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s '%s': %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, def bool) (bool, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s '%s': %w", key, v, err)
	}
	return b, nil
}
