package fetcher

import (
	"context"
	"fmt"
	"time"

	"github.com/valyala/fasthttp"

	"github.com/Conte777/NewsFlow/services/feed-service/config"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/deps"
	"github.com/Conte777/NewsFlow/services/feed-service/internal/domain/feed/dto"
	pkgerrors "github.com/Conte777/NewsFlow/services/feed-service/pkg/errors"
)

// AcceptHeader lists the syndication formats the parser understands
const AcceptHeader = "application/rss+xml, application/rdf+xml, application/atom+xml, " +
	"application/feed+json, application/xml;q=0.9, text/xml;q=0.8"

const maxBodySize = 10 << 20

// Client fetches feed documents over HTTP
type Client struct {
	client       *fasthttp.Client
	userAgent    string
	timeout      time.Duration
	maxRedirects int
}

// NewClient creates a new feed fetcher
func NewClient(cfg *config.PollerConfig) deps.Fetcher {
	return &Client{
		client: &fasthttp.Client{
			Name:                     cfg.UserAgent,
			MaxResponseBodySize:      maxBodySize,
			ReadTimeout:              cfg.Timeout,
			WriteTimeout:             cfg.Timeout,
			NoDefaultUserAgentHeader: true,
		},
		userAgent:    cfg.UserAgent,
		timeout:      cfg.Timeout,
		maxRedirects: cfg.MaxRedirects,
	}
}

// Fetch performs a GET of url. Any completed HTTP exchange, whatever its
// status, is returned as a result; only transport failures are errors.
func (c *Client) Fetch(ctx context.Context, url string) (*dto.FetchResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, pkgerrors.NewNetworkError("fetch cancelled", err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set(fasthttp.HeaderAccept, AcceptHeader)
	req.Header.SetUserAgent(c.userAgent)

	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = left
		}
	}
	if timeout <= 0 {
		return nil, pkgerrors.NewNetworkError("fetch deadline exceeded", context.DeadlineExceeded)
	}
	req.SetTimeout(timeout)

	if err := c.client.DoRedirects(req, resp, c.maxRedirects); err != nil {
		return nil, pkgerrors.NewNetworkError(fmt.Sprintf("GET %s", url), err)
	}

	code := resp.StatusCode()
	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	return &dto.FetchResult{
		StatusCode: code,
		Status:     StatusLine(code),
		Body:       body,
	}, nil
}

// StatusLine renders a status code the way it appears on the wire
func StatusLine(code int) string {
	return fmt.Sprintf("%d %s", code, fasthttp.StatusMessage(code))
}
