package z3950

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"bibresolver/internal/entity"

	"golang.org/x/time/rate"
)

// Transport runs one search against a target and returns the raw text of
// every record found.
type Transport interface {
	Search(ctx context.Context, target Target, q Query) ([]string, error)
}

// SRUTransport speaks SRU searchRetrieve over HTTP, sending the query as
// PQF through x-pquery. Each call is a single attempt.
type SRUTransport struct {
	httpClient *http.Client
	limiter    *rate.Limiter
	scheme     string
	maxRecords int
}

func NewSRUTransport(rps int, timeout time.Duration) *SRUTransport {
	if rps <= 0 {
		rps = 1
	}
	return &SRUTransport{
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(time.Second/time.Duration(rps)), rps),
		scheme:     "http",
		maxRecords: 50,
	}
}

type sruResponse struct {
	XMLName         xml.Name `xml:"searchRetrieveResponse"`
	NumberOfRecords int      `xml:"numberOfRecords"`
	Records         []struct {
		Data string `xml:"recordData"`
	} `xml:"records>record"`
	Diagnostics []struct {
		URI     string `xml:"uri"`
		Details string `xml:"details"`
		Message string `xml:"message"`
	} `xml:"diagnostics>diagnostic"`
}

// URL builds the searchRetrieve request for q.
func (t *SRUTransport) URL(target Target, q Query) string {
	params := url.Values{}
	params.Set("version", "1.1")
	params.Set("operation", "searchRetrieve")
	params.Set("x-pquery", q.PQF())
	params.Set("maximumRecords", strconv.Itoa(t.maxRecords))
	params.Set("recordPacking", "string")
	if target.Syntax != "" {
		params.Set("recordSchema", strings.ToLower(target.Syntax))
	}
	u := url.URL{
		Scheme:   t.scheme,
		Host:     fmt.Sprintf("%s:%d", target.Address, target.Port),
		Path:     "/" + target.Database,
		RawQuery: params.Encode(),
	}
	return u.String()
}

func (t *SRUTransport) Search(ctx context.Context, target Target, q Query) ([]string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUpstreamUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL(target, q), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/xml")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status code: %d", entity.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var body sruResponse
	if err := xml.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode sru response: %v", entity.ErrUpstreamUnavailable, err)
	}
	if len(body.Records) == 0 && len(body.Diagnostics) > 0 {
		d := body.Diagnostics[0]
		return nil, fmt.Errorf("%w: sru diagnostic %s: %s %s", entity.ErrUpstreamUnavailable, d.URI, d.Message, d.Details)
	}

	out := make([]string, 0, len(body.Records))
	for _, r := range body.Records {
		out = append(out, r.Data)
	}
	return out, nil
}
