package dashboard

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// ════════════════════════════════════════════════════════════════════
// PDF Generator: HTML → PDF via wkhtmltopdf / chromium / rod
// ════════════════════════════════════════════════════════════════════

// PDFEngine specifies which engine to use for HTML→PDF conversion.
type PDFEngine string

const (
	EngineAuto     PDFEngine = ""
	EngineWKHTML   PDFEngine = "wkhtmltopdf"
	EngineChromium PDFEngine = "chromium"
	EngineRod      PDFEngine = "rod"  // drives a browser over the DevTools protocol
	EngineNone     PDFEngine = "none" // skip PDF, write HTML
)

var chromiumBinaries = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// PDFConfig holds configuration for PDF generation.
type PDFConfig struct {
	Engine      PDFEngine     // default: auto-detect
	PageSize    string        // "A4" (default) or "Letter"
	Orientation string        // "portrait" (default) or "landscape"
	Margin      string        // all four margins, e.g. "10mm"
	Timeout     time.Duration // per conversion
	OutputPath  string        // required: output PDF file path
}

// DefaultPDFConfig returns sensible defaults for PDF generation.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		Engine:      EngineAuto,
		PageSize:    "A4",
		Orientation: "portrait",
		Margin:      "10mm",
		Timeout:     time.Minute,
	}
}

// DetectPDFEngine checks which command-line PDF engine is available.
// The rod engine is only used when asked for by name.
func DetectPDFEngine() PDFEngine {
	if _, err := exec.LookPath("wkhtmltopdf"); err == nil {
		return EngineWKHTML
	}
	if chromiumPath() != "" {
		return EngineChromium
	}
	return EngineNone
}

// GeneratePDF converts an HTML document to a PDF file and returns the
// path written. With no engine available the HTML itself is written next
// to the requested path with an .html extension.
func GeneratePDF(ctx context.Context, html []byte, cfg PDFConfig) (string, error) {
	if cfg.OutputPath == "" {
		return "", fmt.Errorf("output path is required")
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if err := os.MkdirAll(filepath.Dir(cfg.OutputPath), 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	engine := cfg.Engine
	if engine == EngineAuto {
		engine = DetectPDFEngine()
	}

	switch engine {
	case EngineWKHTML:
		return cfg.OutputPath, generateWithWKHTML(ctx, html, cfg)
	case EngineChromium:
		return cfg.OutputPath, generateWithChromium(ctx, html, cfg)
	case EngineRod:
		return cfg.OutputPath, generateWithRod(ctx, html, cfg)
	case EngineNone:
		return writeHTMLFallback(html, cfg.OutputPath)
	default:
		return "", fmt.Errorf("unsupported PDF engine: %s", engine)
	}
}

func generateWithWKHTML(ctx context.Context, html []byte, cfg PDFConfig) error {
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	args := []string{
		"--page-size", cfg.PageSize,
		"--orientation", cfg.Orientation,
		"--margin-top", cfg.Margin,
		"--margin-bottom", cfg.Margin,
		"--margin-left", cfg.Margin,
		"--margin-right", cfg.Margin,
		"--encoding", "UTF-8",
		"--enable-local-file-access",
		"--quiet",
		tmpFile,
		cfg.OutputPath,
	}

	cmd := exec.CommandContext(ctx, "wkhtmltopdf", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("wkhtmltopdf failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func generateWithChromium(ctx context.Context, html []byte, cfg PDFConfig) error {
	chromiumBin := chromiumPath()
	if chromiumBin == "" {
		return fmt.Errorf("chromium not found in PATH")
	}
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	absOutput, err := filepath.Abs(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--print-to-pdf=" + absOutput,
		"--print-to-pdf-no-header",
	}
	if isLandscape(cfg) {
		args = append(args, "--landscape")
	}
	args = append(args, "file://"+tmpFile)

	cmd := exec.CommandContext(ctx, chromiumBin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("chromium PDF export failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func generateWithRod(ctx context.Context, html []byte, cfg PDFConfig) error {
	l := launcher.New().Context(ctx).Headless(true)
	if bin, ok := launcher.LookPath(); ok {
		l = l.Bin(bin)
	}
	controlURL, err := l.Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	defer l.Cleanup()
	defer l.Kill()

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}
	defer browser.Close()

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return fmt.Errorf("open page: %w", err)
	}
	if err := page.SetDocumentContent(string(html)); err != nil {
		return fmt.Errorf("load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return fmt.Errorf("wait for load: %w", err)
	}

	w, h := paperSize(cfg.PageSize)
	margin := marginInches(cfg.Margin)
	stream, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:       isLandscape(cfg),
		PrintBackground: true,
		PaperWidth:      &w,
		PaperHeight:     &h,
		MarginTop:       &margin,
		MarginBottom:    &margin,
		MarginLeft:      &margin,
		MarginRight:     &margin,
	})
	if err != nil {
		return fmt.Errorf("print to PDF: %w", err)
	}
	pdf, err := io.ReadAll(stream)
	if err != nil {
		return fmt.Errorf("read PDF stream: %w", err)
	}
	if err := os.WriteFile(cfg.OutputPath, pdf, 0o644); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	return nil
}

func chromiumPath() string {
	for _, name := range chromiumBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func isLandscape(cfg PDFConfig) bool {
	return strings.EqualFold(cfg.Orientation, "landscape")
}

// paperSize returns width and height in inches.
func paperSize(name string) (float64, float64) {
	switch strings.ToLower(name) {
	case "letter":
		return 8.5, 11
	case "legal":
		return 8.5, 14
	case "a3":
		return 11.69, 16.54
	default:
		return 8.27, 11.69
	}
}

// marginInches parses a CSS-style length ("10mm", "1cm", "0.5in").
// Unparseable input falls back to 0.4in.
func marginInches(s string) float64 {
	const fallback = 0.4
	s = strings.TrimSpace(strings.ToLower(s))
	units := []struct {
		suffix string
		scale  float64
	}{{"mm", 1 / 25.4}, {"cm", 1 / 2.54}, {"in", 1}}
	for _, u := range units {
		if strings.HasSuffix(s, u.suffix) {
			v, err := strconv.ParseFloat(strings.TrimSuffix(s, u.suffix), 64)
			if err != nil || v < 0 {
				return fallback
			}
			return v * u.scale
		}
	}
	return fallback
}

func writeTempHTML(html []byte) (string, error) {
	f, err := os.CreateTemp("", "pronviz-*.html")
	if err != nil {
		return "", fmt.Errorf("writing temp HTML: %w", err)
	}
	defer f.Close()
	if _, err := f.Write(html); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp HTML: %w", err)
	}
	return f.Name(), nil
}

func writeHTMLFallback(html []byte, outputPath string) (string, error) {
	// Change extension to .html if .pdf was specified
	if strings.HasSuffix(strings.ToLower(outputPath), ".pdf") {
		outputPath = outputPath[:len(outputPath)-4] + ".html"
	}
	if err := os.WriteFile(outputPath, html, 0o644); err != nil {
		return "", fmt.Errorf("writing HTML fallback: %w", err)
	}
	return outputPath, nil
}
