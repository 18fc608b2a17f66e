package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/medixhq/medix/config"
)

// WebinarClient is a thin wrapper over the external conferencing provider's
// webinar API. Token refresh is delegated to an oauth2 token source built
// from the configured refresh token.
type WebinarClient struct {
	base    string
	httpCli *http.Client
}

var (
	webinarClient *WebinarClient
	webinarOnce   sync.Once
)

// GetWebinarClient returns the singleton provider client, or nil when the
// provider is not configured.
func GetWebinarClient() *WebinarClient {
	webinarOnce.Do(func() {
		cfg := config.Get()
		if cfg.WebinarAPIBase == "" || cfg.WebinarClientID == "" {
			return
		}
		oc := &oauth2.Config{
			ClientID:     cfg.WebinarClientID,
			ClientSecret: cfg.WebinarClientSecret,
			Endpoint:     oauth2.Endpoint{TokenURL: cfg.WebinarTokenEndpoint},
		}
		ts := oc.TokenSource(context.Background(), &oauth2.Token{RefreshToken: cfg.WebinarRefreshToken})
		webinarClient = &WebinarClient{
			base:    fmt.Sprintf("%s/%s", cfg.WebinarAPIBase, cfg.WebinarAccountID),
			httpCli: oauth2.NewClient(context.Background(), ts),
		}
		webinarClient.httpCli.Timeout = 15 * time.Second
	})
	return webinarClient
}

// CreateWebinar creates a webinar on the provider and returns the raw response.
func (c *WebinarClient) CreateWebinar(ctx context.Context, body json.RawMessage) (json.RawMessage, int, error) {
	return c.do(ctx, http.MethodPost, c.base+"/webinar.json", body)
}

// ListWebinars fetches a page of webinars filtered by list type.
func (c *WebinarClient) ListWebinars(ctx context.Context, listType string, index, count int) (json.RawMessage, int, error) {
	q := url.Values{}
	if listType == "" {
		listType = "upcoming"
	}
	q.Set("listtype", listType)
	q.Set("index", fmt.Sprint(index))
	q.Set("count", fmt.Sprint(count))
	return c.do(ctx, http.MethodGet, c.base+"/webinar.json?"+q.Encode(), nil)
}

// GetWebinar fetches a single webinar by provider id.
func (c *WebinarClient) GetWebinar(ctx context.Context, id string) (json.RawMessage, int, error) {
	return c.do(ctx, http.MethodGet, c.base+"/webinar/"+url.PathEscape(id)+".json", nil)
}

// UpdateWebinar updates a webinar by provider id.
func (c *WebinarClient) UpdateWebinar(ctx context.Context, id string, body json.RawMessage) (json.RawMessage, int, error) {
	return c.do(ctx, http.MethodPut, c.base+"/webinar/"+url.PathEscape(id)+".json", body)
}

// DeleteWebinar removes a webinar by provider id.
func (c *WebinarClient) DeleteWebinar(ctx context.Context, id string) (json.RawMessage, int, error) {
	return c.do(ctx, http.MethodDelete, c.base+"/webinar/"+url.PathEscape(id)+".json", nil)
}

func (c *WebinarClient) do(ctx context.Context, method, endpoint string, body json.RawMessage) (json.RawMessage, int, error) {
	var rdr io.Reader
	if body != nil {
		rdr = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, rdr)
	if err != nil {
		return nil, 0, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return b, resp.StatusCode, nil
}
