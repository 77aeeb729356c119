// Package openlibrary looks up bibliographic data on Open Library to fill
// gaps in sparse catalog records.
package openlibrary

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"bibresolver/internal/entity"

	lru "github.com/hashicorp/golang-lru/v2"
	jsoniter "github.com/json-iterator/go"
	"golang.org/x/time/rate"
)

type Client struct {
	httpClient *http.Client
	userAgent  string
	baseURL    string
	limiter    *rate.Limiter
	maxRetries int
	cache      *lru.Cache[string, *entity.BibRecord]
}

func NewClient(userAgent string, rps int, maxRetries int, cacheSize int) (*Client, error) {
	if rps <= 0 {
		rps = 1
	}
	if cacheSize <= 0 {
		cacheSize = 128
	}
	cache, err := lru.New[string, *entity.BibRecord](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("openlibrary cache: %w", err)
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		userAgent:  userAgent,
		baseURL:    "https://openlibrary.org",
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), 1),
		maxRetries: maxRetries,
		cache:      cache,
	}, nil
}

// WithBaseURL points the client at another host.
func (c *Client) WithBaseURL(u string) *Client {
	c.baseURL = strings.TrimRight(u, "/")
	return c
}

type Publisher struct {
	Name string `json:"name"`
}

// BookDetails matches api/books?jscmd=data
type BookDetails struct {
	Title         string      `json:"title"`
	Subtitle      string      `json:"subtitle"`
	Publishers    []Publisher `json:"publishers"`
	PublishDate   string      `json:"publish_date"`
	PublishPlaces []struct {
		Name string `json:"name"`
	} `json:"publish_places"`
	Authors []struct {
		URL  string `json:"url"`
		Name string `json:"name"`
	} `json:"authors"`
}

func bibkey(num string, kind entity.Kind) (string, bool) {
	switch kind {
	case entity.KindISBN:
		return "ISBN:" + num, true
	case entity.KindOCLC:
		return "OCLC:" + num, true
	}
	return "", false
}

// Lookup returns the Open Library description of a normalized number, or
// nil when there is none. Answers, including absence, are cached.
func (c *Client) Lookup(ctx context.Context, num string, kind entity.Kind) (*entity.BibRecord, error) {
	key, ok := bibkey(num, kind)
	if !ok {
		return nil, nil
	}
	if rec, hit := c.cache.Get(key); hit {
		return rec, nil
	}

	u := fmt.Sprintf("%s/api/books?bibkeys=%s&jscmd=data&format=json", c.baseURL, url.QueryEscape(key))
	var res map[string]BookDetails
	if err := c.get(ctx, u, &res); err != nil {
		return nil, err
	}

	var rec *entity.BibRecord
	if d, found := res[key]; found {
		rec = toRecord(d)
	}
	c.cache.Add(key, rec)
	return rec, nil
}

func toRecord(d BookDetails) *entity.BibRecord {
	rec := &entity.BibRecord{
		Title:   d.Title,
		PubYear: d.PublishDate,
	}
	if d.Subtitle != "" {
		rec.Title = d.Title + ": " + d.Subtitle
	}
	if len(d.Authors) > 0 {
		rec.Author = d.Authors[0].Name
	}
	if len(d.Publishers) > 0 {
		rec.Publisher = d.Publishers[0].Name
	}
	if len(d.PublishPlaces) > 0 {
		rec.PubPlace = d.PublishPlaces[0].Name
	}
	return rec
}

func (c *Client) get(ctx context.Context, url string, target interface{}) error {
	var lastErr error
	for i := 0; i <= c.maxRetries; i++ {
		if i > 0 {
			// Backoff: 1s, 2s, 4s...
			backoff := time.Duration(1<<uint(i-1)) * time.Second
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				lastErr = fmt.Errorf("unexpected status code: %d", resp.StatusCode)
				continue
			}
			return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		err = jsoniter.ConfigCompatibleWithStandardLibrary.NewDecoder(resp.Body).Decode(target)
		resp.Body.Close()
		return err
	}
	return fmt.Errorf("after %d retries: %w", c.maxRetries, lastErr)
}
