package maintenance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
)

// maxTitlesPerQuery is the wiki API limit for titles in one query.
const maxTitlesPerQuery = 50

// PageResolver maps prefixed page titles to page ids. Titles that do not
// exist are absent from the result.
type PageResolver interface {
	Resolve(ctx context.Context, titles []string) (map[string]int64, error)
}

// WikiPageResolver asks the wiki's action API for page ids.
type WikiPageResolver struct {
	client *resty.Client
	apiURL string
}

func NewWikiPageResolver(apiURL string, timeout time.Duration) *WikiPageResolver {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", "wiki-echo-maintenance").
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal)

	return &WikiPageResolver{client: client, apiURL: apiURL}
}

type queryResponse struct {
	Query struct {
		Normalized []struct {
			From string `json:"from"`
			To   string `json:"to"`
		} `json:"normalized"`
		Pages []struct {
			PageID  int64  `json:"pageid"`
			Title   string `json:"title"`
			Missing bool   `json:"missing"`
			Invalid bool   `json:"invalid"`
		} `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

func (r *WikiPageResolver) Resolve(ctx context.Context, titles []string) (map[string]int64, error) {
	out := make(map[string]int64, len(titles))
	for start := 0; start < len(titles); start += maxTitlesPerQuery {
		end := start + maxTitlesPerQuery
		if end > len(titles) {
			end = len(titles)
		}
		if err := r.resolveChunk(ctx, titles[start:end], out); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (r *WikiPageResolver) resolveChunk(ctx context.Context, titles []string, out map[string]int64) error {
	var result queryResponse
	resp, err := r.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"action":        "query",
			"format":        "json",
			"formatversion": "2",
			"titles":        strings.Join(titles, "|"),
		}).
		SetResult(&result).
		Get(r.apiURL)
	if err != nil {
		return fmt.Errorf("failed to query wiki API: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("wiki API returned status %d", resp.StatusCode())
	}
	if result.Error != nil {
		return fmt.Errorf("wiki API error %s: %s", result.Error.Code, result.Error.Info)
	}

	// Map normalized titles back to the names that were asked for.
	asked := make(map[string]string, len(titles))
	for _, t := range titles {
		asked[t] = t
	}
	for _, n := range result.Query.Normalized {
		asked[n.To] = n.From
	}

	for _, p := range result.Query.Pages {
		if p.Missing || p.Invalid || p.PageID == 0 {
			continue
		}
		name, ok := asked[p.Title]
		if !ok {
			name = p.Title
		}
		out[name] = p.PageID
	}
	return nil
}
