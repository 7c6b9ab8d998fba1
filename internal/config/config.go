// Package config handles configuration loading for pronviz.
// It supports YAML config files with environment variable overrides.
// Configuration only affects presentation: the factor table itself is fixed.
package config

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/seenimoa/pronviz/internal/chart"
)

// EnvPrefix is prepended to every environment override, e.g.
// PRONVIZ_SERVER_PORT=9000.
const EnvPrefix = "PRONVIZ"

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server"`
	Render  RenderConfig  `mapstructure:"render"  yaml:"render"`
	Charts  ChartsConfig  `mapstructure:"charts"  yaml:"charts"`
	Cache   CacheConfig   `mapstructure:"cache"   yaml:"cache"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging"`
	PDF     PDFConfig     `mapstructure:"pdf"     yaml:"pdf"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host           string   `mapstructure:"host"            yaml:"host"`
	Port           int      `mapstructure:"port"            yaml:"port"`
	BaseURL        string   `mapstructure:"base_url"        yaml:"base_url"` // absolute links in the feed
	CORSOrigins    []string `mapstructure:"cors_origins"    yaml:"cors_origins"`
	RequestTimeout int      `mapstructure:"request_timeout" yaml:"request_timeout"` // seconds
	RateLimit      int      `mapstructure:"rate_limit"      yaml:"rate_limit"`      // render requests per second, 0 = off
	RateBurst      int      `mapstructure:"rate_burst"      yaml:"rate_burst"`
}

// Addr returns host:port.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RenderConfig controls page composition.
type RenderConfig struct {
	Title      string `mapstructure:"title"       yaml:"title"`
	LiveReload bool   `mapstructure:"live_reload" yaml:"live_reload"` // inject the websocket refresh script
	TextWidth  int    `mapstructure:"text_width"  yaml:"text_width"`  // terminal output wrap width
}

// ChartOverride adjusts one chart kind's defaults. Zero fields keep the
// built-in value.
type ChartOverride struct {
	Width    int     `mapstructure:"width"    yaml:"width,omitempty"`
	Height   int     `mapstructure:"height"   yaml:"height,omitempty"`
	Title    string  `mapstructure:"title"    yaml:"title,omitempty"`
	Palette  string  `mapstructure:"palette"  yaml:"palette,omitempty"`  // named palette or colormap
	Colormap string  `mapstructure:"colormap" yaml:"colormap,omitempty"` // heatmap only
	AxisMax  float64 `mapstructure:"axis_max" yaml:"axis_max,omitempty"`
}

// ChartsConfig holds one override block per chart kind.
type ChartsConfig struct {
	Pie        ChartOverride `mapstructure:"pie"         yaml:"pie"`
	Bar        ChartOverride `mapstructure:"bar"         yaml:"bar"`
	Radar      ChartOverride `mapstructure:"radar"       yaml:"radar"`
	GroupedBar ChartOverride `mapstructure:"grouped_bar" yaml:"grouped_bar"`
	Heatmap    ChartOverride `mapstructure:"heatmap"     yaml:"heatmap"`
	Flow       ChartOverride `mapstructure:"flow"        yaml:"flow"`
}

// CacheConfig controls the rendered page cache.
type CacheConfig struct {
	TTL int `mapstructure:"ttl" yaml:"ttl"` // seconds, 0 disables caching
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format"` // "console" or "json"
}

// PDFConfig selects and tunes the HTML to PDF converter.
type PDFConfig struct {
	Engine      string `mapstructure:"engine"      yaml:"engine"` // "", "wkhtmltopdf", "chromium", "rod", "none"
	PageSize    string `mapstructure:"page_size"   yaml:"page_size"`
	Orientation string `mapstructure:"orientation" yaml:"orientation"`
	Margin      string `mapstructure:"margin"      yaml:"margin"`
	Timeout     int    `mapstructure:"timeout"     yaml:"timeout"` // seconds
}

// Load reads configuration from the default search path
// (./config, ~/.pronviz, /etc/pronviz). A missing file is not an error.
func Load() (*Config, error) {
	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".pronviz"))
	v.AddConfigPath("/etc/pronviz")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return decode(v)
}

// LoadFromFile loads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	return decode(v)
}

// Watch loads path and calls onChange with the re-decoded configuration
// every time the file is written. It returns the initial configuration.
func Watch(path string, onChange func(*Config, error)) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}
	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(decode(v))
	})
	v.WatchConfig()
	return cfg, nil
}

// Default returns the built-in configuration with no file or environment
// applied.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	// Defaults always decode.
	_ = v.Unmarshal(&cfg)
	return &cfg
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.base_url", "http://localhost:8501")
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout", 30)
	v.SetDefault("server.rate_limit", 20)
	v.SetDefault("server.rate_burst", 40)

	v.SetDefault("render.title", "Variables Responsible for Sub-standard Pronunciation in Pakistan")
	v.SetDefault("render.live_reload", true)
	v.SetDefault("render.text_width", 80)

	// Every override key is registered so AutomaticEnv can see it.
	for _, kind := range []string{"pie", "bar", "radar", "grouped_bar", "heatmap", "flow"} {
		for _, key := range []string{"width", "height", "title", "palette", "colormap", "axis_max"} {
			var zero any = 0
			switch key {
			case "title", "palette", "colormap":
				zero = ""
			case "axis_max":
				zero = 0.0
			}
			v.SetDefault("charts."+kind+"."+key, zero)
		}
	}

	v.SetDefault("cache.ttl", 300)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("pdf.engine", "")
	v.SetDefault("pdf.page_size", "A4")
	v.SetDefault("pdf.orientation", "portrait")
	v.SetDefault("pdf.margin", "10mm")
	v.SetDefault("pdf.timeout", 60)
}

// Validate rejects values no component can work with.
func (c *Config) Validate() error {
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	switch strings.ToLower(c.Logging.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q: want console or json", c.Logging.Format)
	}
	for _, kind := range chart.Kinds() {
		cc, err := c.ChartConfig(kind)
		if err == nil {
			err = cc.Validate()
		}
		if err != nil {
			return fmt.Errorf("charts.%s: %w", kind, err)
		}
	}
	return nil
}

// For returns the override block for kind.
func (c ChartsConfig) For(kind chart.Kind) ChartOverride {
	switch kind {
	case chart.KindPie:
		return c.Pie
	case chart.KindBar:
		return c.Bar
	case chart.KindRadar:
		return c.Radar
	case chart.KindGroupedBar:
		return c.GroupedBar
	case chart.KindHeatmap:
		return c.Heatmap
	case chart.KindFlow:
		return c.Flow
	}
	return ChartOverride{}
}

// Apply layers the override on top of base.
func (o ChartOverride) Apply(base chart.Config) (chart.Config, error) {
	cfg := base
	if o.Width > 0 {
		cfg.Width = o.Width
	}
	if o.Height > 0 {
		cfg.Height = o.Height
	}
	if o.Title != "" {
		cfg.Title = o.Title
	}
	if o.AxisMax > 0 {
		cfg.AxisMax = o.AxisMax
	}
	if o.Colormap != "" {
		if _, err := chart.ColormapAt(o.Colormap, 0); err != nil {
			return chart.Config{}, err
		}
		cfg.Colormap = o.Colormap
	}
	if o.Palette != "" {
		n := len(base.Palette)
		if n == 0 {
			n = 5
		}
		p, err := chart.Palette(o.Palette, n)
		if err != nil {
			return chart.Config{}, err
		}
		cfg.Palette = p
	}
	return cfg, nil
}

// ChartConfig returns the effective chart configuration for kind.
func (c *Config) ChartConfig(kind chart.Kind) (chart.Config, error) {
	return c.Charts.For(kind).Apply(chart.DefaultConfig(kind))
}

// YAML renders the configuration as a YAML document.
func (c *Config) YAML() ([]byte, error) {
	out, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encoding config: %w", err)
	}
	return out, nil
}

// Fingerprint identifies the presentation-affecting settings, so cached
// pages can be keyed by it.
func (c *Config) Fingerprint() string {
	out, err := yaml.Marshal(struct {
		Render RenderConfig `yaml:"render"`
		Charts ChartsConfig `yaml:"charts"`
	}{c.Render, c.Charts})
	if err != nil {
		return ""
	}
	h := fnv.New64a()
	h.Write(out)
	return fmt.Sprintf("%016x", h.Sum64())
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
