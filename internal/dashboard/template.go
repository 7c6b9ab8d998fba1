package dashboard

// PageTemplate is the HTML template for the dashboard page.
// It is embedded as a Go constant so exported pages need no other files.
const PageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<meta name="generator" content="pronviz">
<title>Pronunciation Analysis</title>
<link rel="alternate" type="application/atom+xml" title="{{.Title}}" href="feed.xml">
{{- if .LiveReload}}
<link rel="icon" type="image/svg+xml" href="/static/favicon.svg">
{{- end}}
<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #2563eb;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 1280px;
    margin: 0 auto;
    padding: 24px;
  }
  h1 { font-size: 1.9rem; font-weight: 700; margin-bottom: 12px; }
  h2 { font-size: 1.25rem; font-weight: 600; margin-bottom: 8px; }
  h3 { font-size: 1.05rem; font-weight: 600; margin: 12px 0 4px; }
  p { margin: 6px 0; }
  blockquote {
    border-left: 4px solid var(--border);
    color: var(--muted);
    padding: 4px 12px;
    margin: 8px 0;
  }
  hr { border: none; border-top: 1px solid var(--border); margin: 24px 0; }

  /* Rows: two columns on wide screens, one on narrow */
  .row {
    display: grid;
    grid-template-columns: repeat(2, minmax(0, 1fr));
    gap: 32px;
  }
  .row.wide { grid-template-columns: minmax(0, 1fr); }
  @media (max-width: 900px) {
    .row { grid-template-columns: minmax(0, 1fr); }
  }

  .panel figure { margin: 0; }
  .panel svg { max-width: 100%; height: auto; display: block; }

  details {
    border: 1px solid var(--border);
    border-radius: 6px;
    margin-top: 8px;
    background: var(--section-bg);
  }
  details summary { cursor: pointer; padding: 8px 12px; font-weight: 500; }
  details .details-body { padding: 4px 12px 12px; font-size: 0.92rem; }

  footer { color: var(--muted); font-size: 0.8rem; text-align: center; }
  @media print {
    .row { grid-template-columns: minmax(0, 1fr); }
  }
</style>
</head>
<body data-render-id="{{.ID}}">

<h1>{{.Title}}</h1>
<section class="intro">
{{.Intro}}
</section>
<hr>
{{range .Rows}}
<div class="row{{if .Wide}} wide{{end}}">
{{- range .Panels}}
  <section class="panel" id="panel-{{.ID}}" data-kind="{{.Kind}}">
    <h2>{{.Title}}</h2>
    <figure class="chart">{{.SVG}}</figure>
    <details class="details">
      <summary>Details</summary>
      <div class="details-body">{{.Details}}</div>
    </details>
  </section>
{{- end}}
</div>
<hr>
{{end}}
<footer>Generated {{timestamp .GeneratedAt}} &middot; render {{.ID}}</footer>
{{if .LiveReload}}<script src="/static/live.js" data-ws="/ws" defer></script>{{end}}
</body>
</html>
`
