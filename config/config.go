// Package config provides configuration management for the carve tools
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dixieflatline76/Carve/asset"
	"github.com/dixieflatline76/Carve/pkg/carve"
)

// defaultConfigAsset is the embedded text asset holding the built-in defaults.
const defaultConfigAsset = "default_config.json"

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// fitStrategies are the names understood by the fitter.
var fitStrategies = []string{"auto", "carve", "crop", "scale"}

// Config struct to hold all configuration data
type Config struct {
	Operator        carve.Operator  `json:"operator"`
	Direction       carve.Direction `json:"direction"`
	EncodingQuality int             `json:"encoding_quality"`
	Workers         int             `json:"workers"`
	Fit             FitConfig       `json:"fit"`
	Server          ServerConfig    `json:"server"`
}

// FitConfig configures fitting to an exact size.
type FitConfig struct {
	Strategy        string     `json:"strategy"`
	AspectThreshold float64    `json:"aspect_threshold"`
	FaceModel       string     `json:"face_model"` // Path to a pigo cascade; empty disables the face guard
	Face            FaceConfig `json:"face"`
}

// FaceConfig holds the face detector tuning.
type FaceConfig struct {
	Confidence   float64 `json:"confidence"`
	IoUThreshold float64 `json:"iou_threshold"`
	ScaleFactor  float64 `json:"scale_factor"`
	ShiftFactor  float64 `json:"shift_factor"`
	MinSizePct   int     `json:"min_size_pct"`
}

// ServerConfig configures the local HTTP service.
type ServerConfig struct {
	Addr        string  `json:"addr"`
	RateLimit   float64 `json:"rate_limit"` // Requests per second per client
	Burst       int     `json:"burst"`
	MaxUploadMB int64   `json:"max_upload_mb"`
}

var (
	instance *Config
	once     sync.Once
)

// GetConfig returns the singleton instance of Config.
func GetConfig() *Config {
	once.Do(func() {
		cfg, err := Load(GetFilename())
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				fmt.Fprintln(os.Stderr, "Error loading config:", err)
			}
			cfg = Default()
		}
		instance = cfg
	})
	return instance
}

// GetPath returns the path to the user's config directory
func GetPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}
	return filepath.Join(homeDir, "."+strings.ToLower(AppName))
}

// GetFilename returns the path to the user's config file
func GetFilename() string {
	return filepath.Join(GetPath(), ConfigFileName)
}

// Default returns the built-in configuration.
func Default() *Config {
	c := &Config{}
	text, err := asset.NewManager().GetText(defaultConfigAsset)
	if err == nil {
		err = json.Unmarshal([]byte(text), c)
	}
	if err != nil {
		// The embedded defaults are part of the binary; failing here is a build defect.
		panic(fmt.Sprintf("config: bad embedded defaults: %v", err))
	}
	return c
}

// Load reads filename over the built-in defaults and validates the result.
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	c := Default()
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filename, err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// Validate rejects values the tools cannot run with.
func (c *Config) Validate() error {
	if !c.Operator.Valid() {
		return fmt.Errorf("%w: operator %v", ErrInvalidConfig, c.Operator)
	}
	if c.Direction != carve.Vertical && c.Direction != carve.Horizontal {
		return fmt.Errorf("%w: direction %v", ErrInvalidConfig, c.Direction)
	}
	if c.EncodingQuality < 1 || c.EncodingQuality > 100 {
		return fmt.Errorf("%w: encoding_quality %d not in 1..100", ErrInvalidConfig, c.EncodingQuality)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers %d", ErrInvalidConfig, c.Workers)
	}
	if !isFitStrategy(c.Fit.Strategy) {
		return fmt.Errorf("%w: fit strategy %q", ErrInvalidConfig, c.Fit.Strategy)
	}
	if c.Fit.AspectThreshold < 0 {
		return fmt.Errorf("%w: aspect_threshold %v", ErrInvalidConfig, c.Fit.AspectThreshold)
	}
	if c.Fit.Face.MinSizePct < 0 || c.Fit.Face.MinSizePct > 100 {
		return fmt.Errorf("%w: min_size_pct %d", ErrInvalidConfig, c.Fit.Face.MinSizePct)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: empty server addr", ErrInvalidConfig)
	}
	if c.Server.RateLimit <= 0 || c.Server.Burst < 1 {
		return fmt.Errorf("%w: rate_limit %v burst %d", ErrInvalidConfig, c.Server.RateLimit, c.Server.Burst)
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("%w: max_upload_mb %d", ErrInvalidConfig, c.Server.MaxUploadMB)
	}
	return nil
}

func isFitStrategy(name string) bool {
	for _, s := range fitStrategies {
		if strings.EqualFold(s, name) {
			return true
		}
	}
	return false
}

// Save writes the configuration to the user's config file
func (c *Config) Save() error {
	return c.SaveTo(GetFilename())
}

// SaveTo writes the configuration to filename, creating its directory.
func (c *Config) SaveTo(filename string) error {
	if err := os.MkdirAll(filepath.Dir(filename), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding config data: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
