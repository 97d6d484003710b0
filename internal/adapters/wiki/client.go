package wiki

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"roadtrip-itinerary-service/internal/platform/httpclient"
	"roadtrip-itinerary-service/internal/platform/obs"
)

var ErrNoArticle = errors.New("wiki: entity has no linked article")

var (
	leadParagraph = regexp.MustCompile(`(?s)<p><b>.*?</p>`)
	htmlTag       = regexp.MustCompile(`<[^>]*>`)
)

// Client implements DescriptionProvider by resolving a Wikidata entity to
// its English (or Simple English) Wikipedia article and extracting the lead
// paragraph.
type Client struct {
	client      *httpclient.Client
	wikidataURL string
	wikiURL     string
}

func New(wikidataURL, wikiURL string, client *httpclient.Client) *Client {
	if wikidataURL == "" {
		wikidataURL = "https://www.wikidata.org/w/api.php"
	}
	if wikiURL == "" {
		wikiURL = "https://en.wikipedia.org/w/api.php"
	}
	return &Client{client: client, wikidataURL: wikidataURL, wikiURL: wikiURL}
}

type entitiesResponse struct {
	Entities map[string]struct {
		Sitelinks map[string]struct {
			Title string `json:"title"`
		} `json:"sitelinks"`
	} `json:"entities"`
}

type extractsResponse struct {
	Query struct {
		Pages map[string]struct {
			Extract string `json:"extract"`
		} `json:"pages"`
	} `json:"query"`
}

func (c *Client) getJSON(ctx context.Context, endpoint, base string, params url.Values, out any) error {
	u := base + "?" + params.Encode()
	return c.client.DoJSON(ctx, endpoint, func() (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "roadtrip-itinerary-service/1.0")
		return req, nil
	}, out)
}

// Describe returns the plain-text lead paragraph for wikidataID, or "" when
// the article has no bold-led paragraph.
func (c *Client) Describe(ctx context.Context, wikidataID string) (_ string, err error) {
	defer obs.Time(ctx, "wiki.Describe")(&err)

	title, err := c.articleTitle(ctx, wikidataID)
	if err != nil {
		return "", err
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("prop", "extracts")
	params.Set("titles", title)

	var er extractsResponse
	if err := c.getJSON(ctx, "extracts", c.wikiURL, params, &er); err != nil {
		return "", fmt.Errorf("wikipedia extracts request failed: %w", err)
	}

	for _, page := range er.Query.Pages {
		return LeadParagraph(page.Extract), nil
	}
	return "", nil
}

func (c *Client) articleTitle(ctx context.Context, wikidataID string) (string, error) {
	params := url.Values{}
	params.Set("action", "wbgetentities")
	params.Set("ids", wikidataID)
	params.Set("format", "json")

	var resp entitiesResponse
	if err := c.getJSON(ctx, "entities", c.wikidataURL, params, &resp); err != nil {
		return "", fmt.Errorf("wikidata entities request failed: %w", err)
	}

	entity, ok := resp.Entities[wikidataID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNoArticle, wikidataID)
	}
	for _, site := range []string{"enwiki", "simplewiki"} {
		if link, ok := entity.Sitelinks[site]; ok && link.Title != "" {
			return link.Title, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrNoArticle, wikidataID)
}

// LeadParagraph returns the first "<p><b>…</p>" block of an extract with tags stripped.
func LeadParagraph(extract string) string {
	m := leadParagraph.FindString(extract)
	if m == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(htmlTag.ReplaceAllString(m, "")))
}
