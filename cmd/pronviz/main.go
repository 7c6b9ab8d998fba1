// pronviz renders the sub-standard pronunciation factor dashboard.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seenimoa/pronviz/api"
	"github.com/seenimoa/pronviz/internal/chart"
	"github.com/seenimoa/pronviz/internal/config"
	"github.com/seenimoa/pronviz/internal/dashboard"
	"github.com/seenimoa/pronviz/internal/logging"
	"github.com/seenimoa/pronviz/pkg/metrics"
	"github.com/seenimoa/pronviz/pkg/utils"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app is the state shared by every subcommand once the root pre-run has
// loaded configuration.
type app struct {
	configFile string
	logLevel   string
	cfg        *config.Config
	logger     *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "pronviz",
		Short: "Pronunciation factor dashboard",
		Long: `pronviz draws the five factors behind sub-standard English pronunciation
reported by Akbar, Khan and Islam (IJISR, 2019) as six charts, each with
the passage of the paper it illustrates.`,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file path (default: ./config/config.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	root.AddCommand(
		newVersionCmd(),
		newServeCmd(a),
		newRenderCmd(a),
		newExportCmd(a),
		newPanelsCmd(a),
		newConfigCmd(a),
	)
	return root
}

// setup loads configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	var err error
	if a.configFile != "" {
		a.cfg, err = config.LoadFromFile(a.configFile)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if a.logLevel != "" {
		a.cfg.Logging.Level = a.logLevel
	}
	a.logger, err = logging.New(a.cfg.Logging)
	return err
}

func (a *app) dashboard(liveReload bool, m *metrics.Manager) (*dashboard.Dashboard, error) {
	return dashboard.New(dashboard.Options{
		Title:       a.cfg.Render.Title,
		ChartConfig: a.cfg.ChartConfig,
		LiveReload:  liveReload,
		Logger:      a.logger,
		Metrics:     m,
	})
}

// --- Version Command ---

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// No configuration needed.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "pronviz %s\n", version)
			fmt.Fprintf(out, "  commit:  %s\n", commit)
			fmt.Fprintf(out, "  built:   %s\n", date)
		},
	}
}

// --- Serve Command ---

func newServeCmd(a *app) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard over HTTP",
		Long: `Serve the dashboard page, its JSON API and Prometheus metrics.
When --config names a file, edits to it are picked up without a restart and
open pages reload themselves.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Addr()
			}
			m := metrics.New(metrics.WithRuntimeCollectors())
			srv, err := api.NewServer(a.cfg, api.Options{
				ConfigFile: a.configFile,
				Logger:     a.logger,
				Metrics:    m,
				Version:    version,
			})
			if err != nil {
				return err
			}

			if a.configFile != "" {
				_, err := config.Watch(a.configFile, func(next *config.Config, err error) {
					if err != nil {
						a.logger.Warn("ignoring invalid config change", zap.String("file", a.configFile), zap.Error(err))
						return
					}
					if err := srv.Reload(next); err != nil {
						a.logger.Warn("config reload failed", zap.Error(err))
					}
				})
				if err != nil {
					return err
				}
				a.logger.Info("watching config file", zap.String("file", a.configFile))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Serving dashboard on http://%s\n", addr)
			return srv.ListenAndServe(addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default: server.host:server.port)")
	return cmd
}

// --- Render Command ---

func newRenderCmd(a *app) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the dashboard once",
		Long: `Render the dashboard as an HTML page, terminal text or a PDF.
HTML and text go to stdout unless --out is given; PDF requires --out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dashboard(false, nil)
			if err != nil {
				return err
			}
			page, err := d.Build(cmd.Context())
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}

			switch strings.ToLower(format) {
			case "html":
				html, err := page.HTML()
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), out, html)
			case "text":
				text, err := page.Text(a.cfg.Render.TextWidth)
				if err != nil {
					return err
				}
				return writeOutput(cmd.OutOrStdout(), out, []byte(text))
			case "pdf":
				if out == "" || out == "-" {
					return fmt.Errorf("--out is required for pdf output")
				}
				html, err := page.HTML()
				if err != nil {
					return err
				}
				written, err := dashboard.GeneratePDF(cmd.Context(), html, a.pdfConfig(out))
				if err != nil {
					return err
				}
				if written != out {
					fmt.Fprintf(cmd.ErrOrStderr(), "No PDF engine found; wrote HTML to %s\n", written)
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "PDF written to %s\n", written)
				}
				return nil
			default:
				return fmt.Errorf("unknown format %q: want html, text or pdf", format)
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "html", "output format: html, text or pdf")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: stdout)")
	return cmd
}

func (a *app) pdfConfig(out string) dashboard.PDFConfig {
	pc := dashboard.DefaultPDFConfig()
	pc.Engine = dashboard.PDFEngine(a.cfg.PDF.Engine)
	if a.cfg.PDF.PageSize != "" {
		pc.PageSize = a.cfg.PDF.PageSize
	}
	if a.cfg.PDF.Orientation != "" {
		pc.Orientation = a.cfg.PDF.Orientation
	}
	if a.cfg.PDF.Margin != "" {
		pc.Margin = a.cfg.PDF.Margin
	}
	if a.cfg.PDF.Timeout > 0 {
		pc.Timeout = time.Duration(a.cfg.PDF.Timeout) * time.Second
	}
	pc.OutputPath = out
	return pc
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// --- Export Command ---

func newExportCmd(a *app) *cobra.Command {
	var dir, baseURL string
	var concurrency int
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the page, feed and every chart SVG into a directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if baseURL == "" {
				baseURL = a.cfg.Server.BaseURL
			}
			d, err := a.dashboard(false, nil)
			if err != nil {
				return err
			}
			page, err := d.Build(cmd.Context())
			if err != nil {
				return fmt.Errorf("render failed: %w", err)
			}
			paths, err := dashboard.Export(cmd.Context(), page, dashboard.ExportOptions{
				Dir:         dir,
				BaseURL:     baseURL,
				Concurrency: concurrency,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, p := range paths {
				fmt.Fprintln(out, p)
			}
			a.logger.Info("export complete", zap.String("dir", dir), zap.Int("files", len(paths)))
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "output directory")
	cmd.Flags().StringVar(&baseURL, "base-url", "", "absolute URL the feed links point at (default: server.base_url)")
	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "parallel file writes")
	_ = cmd.MarkFlagRequired("dir")
	return cmd
}

// --- Panels Command ---

func newPanelsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "panels",
		Short: "List the dashboard panels",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.dashboard(false, nil)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-8s  %-11s  %-9s  %s\n", "ID", "KIND", "SIZE", "TITLE")
			for _, p := range d.Panels() {
				size := fmt.Sprintf("%dx%d", p.Config.Width, p.Config.Height)
				fmt.Fprintf(out, "%-8s  %-11s  %-9s  %s\n", p.ID, p.Kind, size, p.Title)
			}
			fmt.Fprintln(out)
			for _, f := range d.Factors() {
				fmt.Fprintf(out, "  %-30s %6s\n", f.Name, utils.FormatPctInt(f.Percentage))
			}
			return nil
		},
	}
}

// --- Config Command ---

func newConfigCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			src := a.configFile
			if src == "" {
				src = "defaults and search path"
			}
			fmt.Fprintf(out, "# source: %s\n", src)
			for _, o := range config.EnvOverrides() {
				fmt.Fprintf(out, "# %s=%s overrides %s\n", o.EnvVar, o.Value, o.Key)
			}
			fmt.Fprintf(out, "# palettes: %s\n", strings.Join(chart.PaletteNames(), ", "))
			data, err := a.cfg.YAML()
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}
}
