package preview

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samvad-hq/samvad-headlines/internal/domain"
	"github.com/samvad-hq/samvad-headlines/pkg/httpclient"
)

const maxHTMLBodyBytes = 1 << 20 // 1 MiB

// Meta is the OG metadata extracted from an article page.
type Meta struct {
	Title       string
	Description string
	ImageURL    string
	SiteName    string
}

// Fetcher loads article pages and extracts OG metadata for the detail view.
type Fetcher struct {
	client  httpclient.Client
	headers map[string]string
}

// NewFetcher constructs a fetcher with the provided HTTP client.
func NewFetcher(client httpclient.Client) *Fetcher {
	return &Fetcher{
		client: client,
		headers: map[string]string{
			"Accept":     "text/html,application/xhtml+xml",
			"User-Agent": "samvad-headlines/1.0",
		},
	}
}

// Fetch downloads the article page and parses its metadata.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) (Meta, error) {
	resp, err := f.client.Get(ctx, pageURL, nil, f.headers)
	if err != nil {
		return Meta{}, fmt.Errorf("http fetch: %w", err)
	}

	if resp.StatusCode() != 200 {
		snippet := strings.TrimSpace(string(resp.Body()))
		if len(snippet) > 1024 {
			snippet = snippet[:1024]
		}
		return Meta{}, fmt.Errorf("status %d body: %s", resp.StatusCode(), snippet)
	}

	body := resp.Body()
	if len(body) > maxHTMLBodyBytes {
		body = body[:maxHTMLBodyBytes]
	}

	meta, err := parseMeta(body)
	if err != nil {
		return Meta{}, err
	}
	meta.ImageURL = resolveURL(meta.ImageURL, pageURL)
	return meta, nil
}

// Enrich fills a missing description or image from the page metadata.
// Fields the upstream already provided are kept.
func (f *Fetcher) Enrich(ctx context.Context, art domain.Article) (domain.Article, error) {
	if art.Description != "" && art.ImageURL != "" {
		return art, nil
	}
	meta, err := f.Fetch(ctx, art.URL)
	if err != nil {
		return art, err
	}
	if art.Description == "" {
		art.Description = meta.Description
	}
	if art.ImageURL == "" {
		art.ImageURL = meta.ImageURL
	}
	return art, nil
}

func parseMeta(body []byte) (Meta, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Meta{}, fmt.Errorf("parse html: %w", err)
	}

	extract := func(sel string) string {
		if node := doc.Find(sel).First(); node.Length() > 0 {
			if val, ok := node.Attr("content"); ok {
				return strings.TrimSpace(val)
			}
		}
		return ""
	}

	return Meta{
		Title: firstNonEmpty(
			extract(`meta[property="og:title"]`),
			strings.TrimSpace(doc.Find("title").First().Text()),
		),
		Description: firstNonEmpty(
			extract(`meta[property="og:description"]`),
			extract(`meta[name="description"]`),
		),
		ImageURL: firstNonEmpty(
			extract(`meta[property="og:image"]`),
			extract(`meta[name="twitter:image"]`),
		),
		SiteName: extract(`meta[property="og:site_name"]`),
	}, nil
}

// resolveURL makes ref absolute against base; empty or unparsable refs are returned as-is.
func resolveURL(ref, base string) string {
	if ref == "" {
		return ""
	}
	r, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	b, err := url.Parse(base)
	if err != nil {
		return ref
	}
	return b.ResolveReference(r).String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
