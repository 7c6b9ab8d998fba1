package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// run executes the CLI with args from an empty working directory so no
// stray config file is picked up.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--log-level", "error"}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pronviz dev")
	assert.Contains(t, out, "commit:")
}

func TestPanels(t *testing.T) {
	out, err := run(t, "panels")
	require.NoError(t, err)

	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 7)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	for i, id := range []string{"pie", "bar", "radar", "grouped", "heatmap", "flow"} {
		assert.True(t, strings.HasPrefix(lines[i+1], id), "line %d: %q", i+1, lines[i+1])
	}
	assert.Contains(t, out, "Primary Sounds Unfamiliarity")
	assert.Contains(t, out, "43%")
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("PRONVIZ_SERVER_PORT", "9100")
	out, err := run(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "# PRONVIZ_SERVER_PORT=9100 overrides server.port")
	assert.Contains(t, out, "# palettes: ")
	assert.Contains(t, out, "ylgnbu")

	var doc struct {
		Server struct {
			Port int `yaml:"port"`
		} `yaml:"server"`
	}
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Equal(t, 9100, doc.Server.Port)
}

func TestConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pronviz.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  title: From File\n"), 0o644))

	out, err := run(t, "--config", path, "render", "--format", "html")
	require.NoError(t, err)
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "From File", doc.Find("h1").Text())
}

func TestConfigFileMissing(t *testing.T) {
	_, err := run(t, "--config", filepath.Join(t.TempDir(), "absent.yaml"), "panels")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRenderHTML(t *testing.T) {
	out, err := run(t, "render")
	require.NoError(t, err)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 6, doc.Find("details").Length())
	assert.Equal(t, 0, doc.Find("script").Length(), "one-shot renders carry no live reload")
}

func TestRenderTextToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashboard.txt")
	out, err := run(t, "render", "--format", "text", "--out", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Primary Sounds Unfamiliarity")
}

func TestRenderPDFFallback(t *testing.T) {
	t.Setenv("PRONVIZ_PDF_ENGINE", "none")
	path := filepath.Join(t.TempDir(), "dashboard.pdf")
	out, err := run(t, "render", "--format", "pdf", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "No PDF engine found")

	_, err = os.Stat(strings.TrimSuffix(path, ".pdf") + ".html")
	assert.NoError(t, err)
}

func TestRenderPDFNeedsOut(t *testing.T) {
	_, err := run(t, "render", "--format", "pdf")
	assert.ErrorContains(t, err, "--out is required")
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := run(t, "render", "--format", "docx")
	assert.ErrorContains(t, err, `unknown format "docx"`)
}

func TestExport(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "site")
	out, err := run(t, "export", "--dir", dir, "--base-url", "https://example.org/pronviz")
	require.NoError(t, err)
	assert.Len(t, strings.Fields(out), 8)

	feed, err := os.ReadFile(filepath.Join(dir, "feed.xml"))
	require.NoError(t, err)
	assert.Contains(t, string(feed), "https://example.org/pronviz/#panel-flow")
}

func TestExportRequiresDir(t *testing.T) {
	_, err := run(t, "export")
	assert.ErrorContains(t, err, `required flag(s) "dir" not set`)
}
