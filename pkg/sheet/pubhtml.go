package sheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/wardwatch/wardwatch/pkg/whttp"
)

// PubHTMLSource scrapes the "published to the web" HTML rendering of a
// spreadsheet tab. It is the fallback for sheets whose JSON endpoint is
// not reachable; the first table row is taken as the header row.
type PubHTMLSource struct {
	name   string
	url    string
	client *retryablehttp.Client
}

func NewPubHTMLSource(name, url string, client *retryablehttp.Client) *PubHTMLSource {
	return &PubHTMLSource{name: name, url: url, client: client}
}

func (s *PubHTMLSource) Name() string { return s.name }

func (s *PubHTMLSource) Fetch(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Source: s.name}

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    s.url,
	}, s.client)
	if err != nil {
		return snap, err
	}
	if res.StatusCode != 200 {
		return snap, fmt.Errorf("pubhtml fetch for %s: status %d", s.name, res.StatusCode)
	}

	headers, rows, err := ParseHTMLTable(res.BodyString)
	if err != nil {
		return snap, fmt.Errorf("pubhtml fetch for %s: %w", s.name, err)
	}

	snap.Headers = headers
	snap.Rows = rows
	snap.FetchedAt = time.Now()
	return snap, nil
}

// ParseHTMLTable extracts headers and rows from the first <table> of an
// HTML document. Only td cells are read, which skips the row-number
// gutter the publishing service renders as th cells.
func ParseHTMLTable(body string) ([]string, []RawRow, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, nil, err
	}

	table := doc.Find("table").First()
	if table.Length() == 0 {
		return nil, nil, fmt.Errorf("no table found")
	}

	var headers []string
	var rows []RawRow

	table.Find("tr").Each(func(i int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() == 0 {
			return
		}

		if headers == nil {
			cells.Each(func(_ int, td *goquery.Selection) {
				headers = append(headers, strings.TrimSpace(td.Text()))
			})
			return
		}

		row := RawRow{}
		cells.Each(func(j int, td *goquery.Selection) {
			if j >= len(headers) || headers[j] == "" {
				return
			}
			row[headers[j]] = strings.TrimSpace(td.Text())
		})
		rows = append(rows, row)
	})

	if headers == nil {
		return nil, nil, fmt.Errorf("table has no rows")
	}
	return headers, rows, nil
}
