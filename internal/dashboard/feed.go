package dashboard

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/seenimoa/pronviz/pkg/utils"
)

// Atom 1.0 document types. Only the elements the dashboard emits.
type atomFeed struct {
	XMLName  xml.Name     `xml:"http://www.w3.org/2005/Atom feed"`
	Title    string       `xml:"title"`
	Subtitle string       `xml:"subtitle,omitempty"`
	ID       string       `xml:"id"`
	Updated  string       `xml:"updated"`
	Links    []atomLink   `xml:"link"`
	Authors  []atomPerson `xml:"author"`
	Entries  []atomEntry  `xml:"entry"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr,omitempty"`
	Type string `xml:"type,attr,omitempty"`
}

type atomPerson struct {
	Name string `xml:"name"`
}

type atomText struct {
	Type string `xml:"type,attr"`
	Body string `xml:",chardata"`
}

type atomCategory struct {
	Term string `xml:"term,attr"`
}

type atomEntry struct {
	Title    string       `xml:"title"`
	ID       string       `xml:"id"`
	Updated  string       `xml:"updated"`
	Link     atomLink     `xml:"link"`
	Category atomCategory `xml:"category"`
	Summary  atomText     `xml:"summary"`
	Content  atomText     `xml:"content"`
}

// Feed renders the page as an Atom feed with one entry per panel, in page
// order. baseURL prefixes links; empty yields relative links.
func (p *Page) Feed(baseURL string) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")
	updated := p.GeneratedAt.UTC().Format(time.RFC3339)

	feed := atomFeed{
		Title:    p.Title,
		Subtitle: p.Paper.Journal,
		ID:       "urn:pronviz:" + utils.Slug(p.Title),
		Updated:  updated,
		Links: []atomLink{
			{Href: base + "/", Rel: "alternate", Type: "text/html"},
			{Href: base + "/feed.xml", Rel: "self", Type: "application/atom+xml"},
		},
	}
	for _, a := range p.Paper.Authors {
		feed.Authors = append(feed.Authors, atomPerson{Name: a})
	}
	for _, r := range p.Panels() {
		feed.Entries = append(feed.Entries, atomEntry{
			Title:    r.Title,
			ID:       "urn:pronviz:panel:" + r.ID,
			Updated:  updated,
			Link:     atomLink{Href: base + "/#panel-" + r.ID, Rel: "alternate", Type: "text/html"},
			Category: atomCategory{Term: string(r.Kind)},
			Summary:  atomText{Type: "text", Body: firstLine(r.Markdown)},
			Content:  atomText{Type: "html", Body: string(r.Details)},
		})
	}

	out, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding feed: %w", err)
	}
	return append([]byte(xml.Header), out...), nil
}

// firstLine returns the first paragraph of markdown with emphasis markers
// removed.
func firstLine(md string) string {
	line, _, _ := strings.Cut(md, "\n")
	return strings.TrimSpace(strings.ReplaceAll(line, "**", ""))
}
