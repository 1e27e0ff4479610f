package sheet

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/wardwatch/wardwatch/pkg/whttp"
)

// GvizSource fetches rows from a Google Visualization API endpoint
// (the "gviz/tq?tqx=out:json" form of a published spreadsheet tab).
type GvizSource struct {
	name   string
	url    string
	client *retryablehttp.Client
}

func NewGvizSource(name, url string, client *retryablehttp.Client) *GvizSource {
	return &GvizSource{name: name, url: url, client: client}
}

func (s *GvizSource) Name() string { return s.name }

func (s *GvizSource) Fetch(ctx context.Context) (Snapshot, error) {
	snap := Snapshot{Source: s.name}

	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{
		Method: "GET",
		URL:    s.url,
	}, s.client)
	if err != nil {
		return snap, err
	}
	if res.StatusCode != 200 {
		return snap, fmt.Errorf("gviz fetch for %s: status %d", s.name, res.StatusCode)
	}

	headers, rows, err := ParseGvizBody(res.BodyString)
	if err != nil {
		return snap, fmt.Errorf("gviz fetch for %s: %w", s.name, err)
	}

	snap.Headers = headers
	snap.Rows = rows
	snap.FetchedAt = time.Now()
	return snap, nil
}

// ParseGvizBody decodes a raw gviz response into headers and rows.
func ParseGvizBody(raw string) ([]string, []RawRow, error) {
	body, err := stripGvizWrapper(raw)
	if err != nil {
		return nil, nil, err
	}

	if status := gjson.Get(body, "status").String(); status == "error" {
		return nil, nil, fmt.Errorf("gviz error: %s", gjson.Get(body, "errors.0.detailed_message").String())
	}

	headers := []string{}
	for _, col := range gjson.Get(body, "table.cols").Array() {
		headers = append(headers, col.Get("label").String())
	}

	rowResults := gjson.Get(body, "table.rows").Array()

	// Sheets without a frozen header row export empty column labels and
	// put the headers in the first data row.
	if allEmpty(headers) && len(rowResults) > 0 {
		headers = headers[:0]
		for _, cell := range rowResults[0].Get("c").Array() {
			headers = append(headers, cellText(cell))
		}
		rowResults = rowResults[1:]
	}

	var rows []RawRow
	for _, r := range rowResults {
		row := RawRow{}
		for i, cell := range r.Get("c").Array() {
			if i >= len(headers) || headers[i] == "" {
				continue
			}
			row[headers[i]] = cellText(cell)
		}
		rows = append(rows, row)
	}

	return headers, rows, nil
}

// cellText prefers the formatted value so dates keep the sheet's native
// M/D/YYYY H:MM:SS text form instead of the raw Date() serial.
func cellText(cell gjson.Result) string {
	if f := cell.Get("f"); f.Exists() {
		return f.String()
	}
	v := cell.Get("v")
	if !v.Exists() || v.Type == gjson.Null {
		return ""
	}
	return v.String()
}

// stripGvizWrapper removes the JSONP-style envelope around the response:
// an optional anti-XSSI comment line followed by
// google.visualization.Query.setResponse({...});
func stripGvizWrapper(body string) (string, error) {
	start := strings.Index(body, "{")
	end := strings.LastIndex(body, "}")
	if start == -1 || end == -1 || end < start {
		return "", fmt.Errorf("response is not a gviz payload")
	}
	return body[start : end+1], nil
}

func allEmpty(ss []string) bool {
	for _, s := range ss {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}
