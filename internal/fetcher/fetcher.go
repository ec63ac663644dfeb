package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Page is what a job listing page yields for prefilling a lead
type Page struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	SiteName string `json:"siteName,omitempty"`
	Text     string `json:"text,omitempty"`
}

// Client fetches listing pages
type Client struct {
	HTTP      *http.Client
	UserAgent string
	MaxBytes  int64
}

// New returns a Client with a 30s timeout and a 5MB body limit
func New() *Client {
	return &Client{
		HTTP:      &http.Client{Timeout: 30 * time.Second},
		UserAgent: "jobtrack/1.0 (listing-prefill)",
		MaxBytes:  5 * 1024 * 1024,
	}
}

// Fetch retrieves a listing page and extracts its title, site name and
// readable text.
func (c *Client) Fetch(ctx context.Context, rawURL string) (*Page, error) {
	u, err := Normalize(rawURL)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.UserAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	page, err := Parse(string(body))
	if err != nil {
		return nil, err
	}
	page.URL = u
	return page, nil
}

// Normalize defaults the scheme to https and rejects anything but http(s)
func Normalize(rawURL string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}
	if u.Scheme == "" {
		u, err = url.Parse("https://" + strings.TrimSpace(rawURL))
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid URL: missing host")
	}
	return u.String(), nil
}

// Parse extracts a Page from an HTML document. The title prefers
// og:title, then <title>, then the first <h1>.
func Parse(htmlContent string) (*Page, error) {
	doc, err := html.Parse(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var title, ogTitle, siteName, h1 string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.DataAtom {
			case atom.Title:
				if title == "" {
					title = nodeText(n)
				}
			case atom.H1:
				if h1 == "" {
					h1 = nodeText(n)
				}
			case atom.Meta:
				switch attr(n, "property") {
				case "og:title":
					ogTitle = attr(n, "content")
				case "og:site_name":
					siteName = attr(n, "content")
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	page := &Page{SiteName: clean(siteName), Text: extractText(doc)}
	for _, candidate := range []string{ogTitle, title, h1} {
		if t := clean(candidate); t != "" {
			page.Title = t
			break
		}
	}
	if page.Title == "" && page.Text == "" {
		return nil, fmt.Errorf("no content found")
	}
	return page, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func nodeText(n *html.Node) string {
	var sb strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
			sb.WriteString(" ")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return sb.String()
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// extractText returns the readable text of a parsed document
func extractText(doc *html.Node) string {
	var sb strings.Builder
	var extract func(*html.Node)

	// Tags to skip (non-content)
	skipTags := map[string]bool{
		"script": true, "style": true, "nav": true,
		"header": true, "footer": true, "aside": true,
		"noscript": true, "iframe": true, "head": true,
	}

	extract = func(n *html.Node) {
		if n.Type == html.ElementNode && skipTags[n.Data] {
			return
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				sb.WriteString(text)
				sb.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}

	extract(doc)

	result := clean(sb.String())

	// Keep the first 10KB of text
	if len(result) > 10*1024 {
		result = result[:10*1024] + "..."
	}

	return result
}
