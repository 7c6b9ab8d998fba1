package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/seenimoa/pronviz/internal/chart"
)

// ── Load / Defaults ──

func TestLoadReturnsDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host: got %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("Server.Port: got %d, want 8501", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "0.0.0.0:8501" {
		t.Errorf("Server.Addr(): got %q", cfg.Server.Addr())
	}
	if cfg.Cache.TTL != 300 {
		t.Errorf("Cache.TTL: got %d, want 300", cfg.Cache.TTL)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level: got %q, want %q", cfg.Logging.Level, "info")
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format: got %q, want %q", cfg.Logging.Format, "console")
	}
	if !cfg.Render.LiveReload {
		t.Error("Render.LiveReload should be true by default")
	}
	if cfg.PDF.PageSize != "A4" {
		t.Errorf("PDF.PageSize: got %q", cfg.PDF.PageSize)
	}
	assert.Equal(t, *Default(), *cfg)
}

func TestDefaultChartConfigsMatchBuiltins(t *testing.T) {
	cfg := Default()
	for _, kind := range chart.Kinds() {
		got, err := cfg.ChartConfig(kind)
		require.NoError(t, err, kind)
		assert.Equal(t, chart.DefaultConfig(kind), got, kind)
	}
}

// ── LoadFromFile ──

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  cors_origins: ["https://example.org"]
charts:
  bar:
    axis_max: 60
    palette: viridis
  heatmap:
    colormap: coolwarm
  pie:
    width: 600
logging:
  level: debug
  format: json
`)
	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"https://example.org"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)

	bar, err := cfg.ChartConfig(chart.KindBar)
	require.NoError(t, err)
	assert.Equal(t, 60.0, bar.AxisMax)
	assert.Len(t, bar.Palette, 5)
	assert.NotEqual(t, chart.DefaultConfig(chart.KindBar).Palette, bar.Palette)

	heat, err := cfg.ChartConfig(chart.KindHeatmap)
	require.NoError(t, err)
	assert.Equal(t, "coolwarm", heat.Colormap)

	pie, err := cfg.ChartConfig(chart.KindPie)
	require.NoError(t, err)
	assert.Equal(t, 600, pie.Width)
	assert.Equal(t, chart.DefaultConfig(chart.KindPie).Height, pie.Height)
}

func TestLoadFromFileNotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestLoadFromFileRejectsUnknownPalette(t *testing.T) {
	path := writeConfig(t, "charts:\n  pie:\n    palette: rainbow-unicorn\n")
	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "charts.pie")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"port", func(c *Config) { c.Server.Port = 70000 }},
		{"ttl", func(c *Config) { c.Cache.TTL = -1 }},
		{"format", func(c *Config) { c.Logging.Format = "xml" }},
		{"text format", func(c *Config) { c.Logging.Format = "text" }},
		{"colormap", func(c *Config) { c.Charts.Heatmap.Colormap = "nope" }},
		{"bar too narrow", func(c *Config) { c.Charts.Bar.Width = 200 }},
		{"flow too short", func(c *Config) { c.Charts.Flow.Height = 50 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
	assert.NoError(t, Default().Validate())
}

// ── Environment ──

func TestEnvOverride(t *testing.T) {
	t.Setenv("PRONVIZ_SERVER_PORT", "7000")
	t.Setenv("PRONVIZ_CHARTS_RADAR_WIDTH", "500")
	path := writeConfig(t, "logging:\n  level: warn\n")

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)

	radar, err := cfg.ChartConfig(chart.KindRadar)
	require.NoError(t, err)
	assert.Equal(t, 500, radar.Width)

	overrides := EnvOverrides()
	keys := make([]string, 0, len(overrides))
	for _, o := range overrides {
		keys = append(keys, o.Key)
		assert.Equal(t, SourceEnv, o.Source)
	}
	assert.Contains(t, keys, "server.port")
	assert.Contains(t, keys, "charts.radar.width")
}

func TestEnvVarFor(t *testing.T) {
	assert.Equal(t, "PRONVIZ_CHARTS_GROUPED_BAR_AXIS_MAX", EnvVarFor("charts.grouped_bar.axis_max"))
}

// ── Output ──

func TestYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	out, err := cfg.YAML()
	require.NoError(t, err)

	var back Config
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, *cfg, back)
}

func TestFingerprintTracksPresentation(t *testing.T) {
	a := Default()
	b := Default()
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	b.Server.Port = 1
	assert.Equal(t, a.Fingerprint(), b.Fingerprint(), "server settings do not affect pages")

	b.Charts.Pie.Width = 999
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())
}

// ── Watch ──

func TestWatchReloadsOnWrite(t *testing.T) {
	path := writeConfig(t, "render:\n  title: First\n")

	var mu sync.Mutex
	var titles []string
	cfg, err := Watch(path, func(c *Config, err error) {
		if err != nil {
			return
		}
		mu.Lock()
		titles = append(titles, c.Render.Title)
		mu.Unlock()
	})
	require.NoError(t, err)
	assert.Equal(t, "First", cfg.Render.Title)

	require.NoError(t, os.WriteFile(path, []byte("render:\n  title: Second\n"), 0o644))

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		for _, title := range titles {
			if title == "Second" {
				return true
			}
		}
		return false
	}, 5*time.Second, 20*time.Millisecond)
}
