package dashboard

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/pronviz/pkg/metrics"
)

// ExportOptions controls a directory export.
type ExportOptions struct {
	Dir     string
	BaseURL string // feed links; empty writes relative links
	// Concurrency bounds parallel file writes. Zero means one per file.
	Concurrency int
	Metrics     *metrics.Manager
}

// Export writes the page as index.html, one SVG per panel and feed.xml
// into dir. Rendering is already done; only the writes run concurrently.
// It returns the written paths in sorted order.
func Export(ctx context.Context, page *Page, opts ExportOptions) ([]string, error) {
	if opts.Dir == "" {
		return nil, fmt.Errorf("export directory is required")
	}
	if err := os.MkdirAll(opts.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating export directory: %w", err)
	}

	static := *page
	static.LiveReload = false
	html, err := static.HTML()
	if err != nil {
		return nil, err
	}
	feed, err := page.Feed(opts.BaseURL)
	if err != nil {
		return nil, err
	}

	files := map[string][]byte{
		"index.html": html,
		"feed.xml":   feed,
	}
	for _, p := range page.Panels() {
		files[p.ID+".svg"] = []byte(p.SVG)
	}

	g, ctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	written := make([]string, 0, len(files))
	for name, data := range files {
		path := filepath.Join(opts.Dir, name)
		written = append(written, path)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", name, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	sort.Strings(written)
	opts.Metrics.FilesExported(len(written))
	return written, nil
}
