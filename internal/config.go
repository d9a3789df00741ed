package internal

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultYear is the calendar year the dashboard reports on.
const DefaultYear = 2011

// ChartConfig controls rendered chart artifacts
type ChartConfig struct {
	LineColor string  `yaml:"line_color,omitempty"` // hex, e.g. "#90CAF9"
	BarColor  string  `yaml:"bar_color,omitempty"`
	Width     float64 `yaml:"width,omitempty"`  // inches
	Height    float64 `yaml:"height,omitempty"` // inches

	lineColor color.RGBA `yaml:"-"`
	barColor  color.RGBA `yaml:"-"`
}

// ServerConfig controls the interactive dashboard
type ServerConfig struct {
	Addr         string `yaml:"addr,omitempty"`
	ReadTimeout  string `yaml:"read_timeout,omitempty"`
	WriteTimeout string `yaml:"write_timeout,omitempty"`

	readTimeout  time.Duration `yaml:"-"`
	writeTimeout time.Duration `yaml:"-"`
}

type Config struct {
	// Year restricts the loaded dataset to one calendar year
	Year int `yaml:"year,omitempty"`

	// Scope selects the table the aggregators see: "filtered" or "year"
	Scope string `yaml:"scope,omitempty"`

	// RFMKey selects the RFM grouping: "instant" or "day"
	RFMKey string `yaml:"rfm_key,omitempty"`

	// TopN is the number of ids in each RFM bar chart
	TopN int `yaml:"top_n,omitempty"`

	// Locale overrides the system locale for number formatting (BCP 47, e.g. "sv-SE")
	Locale string `yaml:"locale,omitempty"`

	// Title overrides the dashboard header
	Title string `yaml:"title,omitempty"`

	Charts ChartConfig  `yaml:"charts,omitempty"`
	Server ServerConfig `yaml:"server,omitempty"`

	// compiled fields
	scope  Scope  `yaml:"-"`
	rfmKey RFMKey `yaml:"-"`
}

// DefaultConfigPath returns the default config file path (~/.rental-dashboard/config.yaml)
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".rental-dashboard", "config.yaml")
}

// NewDefaultConfig creates a config with all defaults applied.
// Use this when no config file exists.
func NewDefaultConfig() *Config {
	cfg := &Config{}
	if err := cfg.compile(); err != nil {
		// defaults are constants; failing here is a programming error
		panic(err)
	}
	return cfg
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.compile(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// compile fills defaults and validates enumerated and parsed fields.
func (c *Config) compile() error {
	if c.Year == 0 {
		c.Year = DefaultYear
	}
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}

	scope, err := ParseScope(c.Scope)
	if err != nil {
		return err
	}
	c.scope = scope

	key, err := ParseRFMKey(c.RFMKey)
	if err != nil {
		return err
	}
	c.rfmKey = key

	if c.Charts.LineColor == "" {
		c.Charts.LineColor = "#90CAF9"
	}
	if c.Charts.BarColor == "" {
		c.Charts.BarColor = "#72BCD4"
	}
	if c.Charts.lineColor, err = ParseHexColor(c.Charts.LineColor); err != nil {
		return fmt.Errorf("invalid line_color: %w", err)
	}
	if c.Charts.barColor, err = ParseHexColor(c.Charts.BarColor); err != nil {
		return fmt.Errorf("invalid bar_color: %w", err)
	}
	if c.Charts.Width <= 0 {
		c.Charts.Width = 16
	}
	if c.Charts.Height <= 0 {
		c.Charts.Height = 8
	}

	if c.Server.Addr == "" {
		c.Server.Addr = ":8501"
	}
	if c.Server.readTimeout, err = parseDurationOr(c.Server.ReadTimeout, 10*time.Second); err != nil {
		return fmt.Errorf("invalid server.read_timeout: %w", err)
	}
	if c.Server.writeTimeout, err = parseDurationOr(c.Server.WriteTimeout, 30*time.Second); err != nil {
		return fmt.Errorf("invalid server.write_timeout: %w", err)
	}
	return nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	// Create parent directories if they don't exist
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}

// ReportOptions returns the options for a render pass.
func (c *Config) ReportOptions() ReportOptions {
	return ReportOptions{Scope: c.scope, RFMKey: c.rfmKey, TopN: c.TopN}
}

// SetScope overrides the configured scope (used by command line flags).
func (c *Config) SetScope(s string) error {
	scope, err := ParseScope(s)
	if err != nil {
		return err
	}
	c.Scope, c.scope = string(scope), scope
	return nil
}

// SetRFMKey overrides the configured RFM grouping.
func (c *Config) SetRFMKey(s string) error {
	key, err := ParseRFMKey(s)
	if err != nil {
		return err
	}
	c.RFMKey, c.rfmKey = string(key), key
	return nil
}

// ReportTitle returns the configured header or the default one for r.
func (c *Config) ReportTitle(r Report) string {
	if c != nil && c.Title != "" {
		return c.Title
	}
	return r.Title()
}

func (c ChartConfig) LineRGBA() color.RGBA { return c.lineColor }
func (c ChartConfig) BarRGBA() color.RGBA  { return c.barColor }

func (s ServerConfig) ReadTimeoutDuration() time.Duration  { return s.readTimeout }
func (s ServerConfig) WriteTimeoutDuration() time.Duration { return s.writeTimeout }

// GenerateConfigTemplate creates a config with every default spelled out
func GenerateConfigTemplate() *Config {
	cfg := NewDefaultConfig()
	cfg.Scope = string(cfg.scope)
	cfg.RFMKey = string(cfg.rfmKey)
	cfg.Server.ReadTimeout = cfg.Server.readTimeout.String()
	cfg.Server.WriteTimeout = cfg.Server.writeTimeout.String()
	return cfg
}

// ParseHexColor parses "#RRGGBB" (the leading # is optional).
func ParseHexColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("color %q: expected #RRGGBB", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("color %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

func parseDurationOr(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return time.ParseDuration(s)
}
