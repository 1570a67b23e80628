// Package wikiapi реализует клиент REST API просмотров Wikimedia
// и action API MediaWiki.
package wikiapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/magabrotheeeer/fika-analyzer/internal/lib/sl"
	"github.com/magabrotheeeer/fika-analyzer/internal/models"
)

const (
	// DefaultPageviewAPIURL базовый адрес REST API Wikimedia.
	DefaultPageviewAPIURL = "https://wikimedia.org/api/rest_v1"
	// DefaultActionAPIURL action API шведской Википедии.
	DefaultActionAPIURL = "https://sv.wikipedia.org/w/api.php"

	pageviewPath = "metrics/pageviews/per-article"
)

var (
	// ErrUnexpectedStatus сервер ответил не 2xx.
	ErrUnexpectedStatus = errors.New("unexpected status")
	// ErrMalformedResponse тело ответа не JSON или в нём нет ожидаемых ключей.
	ErrMalformedResponse = errors.New("malformed response")
	// ErrAPI action API вернул {"error": ...}.
	ErrAPI = errors.New("api error")
)

// Client ходит в оба API. Один запрос на вызов, без повторов.
type Client struct {
	pageviewURL string
	actionURL   string
	userAgent   string
	httpClient  *http.Client
	log         *slog.Logger
}

// Option настраивает Client.
type Option func(*Client)

// WithHTTPClient подменяет http.Client (таймауты, инструментированный транспорт).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithPageviewURL задаёт базовый адрес REST API просмотров.
func WithPageviewURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.pageviewURL = strings.TrimRight(u, "/")
		}
	}
}

// WithActionURL задаёт адрес action API.
func WithActionURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.actionURL = u
		}
	}
}

// WithUserAgent задаёт заголовок User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient создаёт клиент. Без WithHTTPClient используется http.Client без таймаута.
func NewClient(log *slog.Logger, opts ...Option) *Client {
	if log == nil {
		log = sl.NewDiscardLogger()
	}
	c := &Client{
		pageviewURL: DefaultPageviewAPIURL,
		actionURL:   DefaultActionAPIURL,
		httpClient:  &http.Client{},
		log:         log,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ActionURL возвращает адрес action API.
func (c *Client) ActionURL() string {
	return c.actionURL
}

// PageviewURL собирает адрес per-article. Название страницы кодируется как
// сегмент пути: "/" становится %2F, не-ASCII символы и пробелы тоже экранируются,
// иначе net/url заново раскодирует %2F при отправке.
func (c *Client) PageviewURL(req models.MetricsRequest) string {
	return strings.Join([]string{
		c.pageviewURL,
		pageviewPath,
		req.Project,
		req.Access,
		req.Agent,
		url.PathEscape(req.Page),
		req.Granularity,
		req.StartDate,
		req.EndDate,
	}, "/")
}

// SendPageviewRequest запрашивает ряд просмотров страницы.
func (c *Client) SendPageviewRequest(ctx context.Context, req models.MetricsRequest) (*PageviewResponse, error) {
	const op = "wikiapi.SendPageviewRequest"

	var resp PageviewResponse
	if err := c.getJSON(ctx, c.PageviewURL(req), nil, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Items == nil {
		return nil, fmt.Errorf("%s: %w: no items key", op, ErrMalformedResponse)
	}
	return &resp, nil
}

// SendSectionsRequest запрашивает оглавление страницы через action=parse.
func (c *Client) SendSectionsRequest(ctx context.Context, page string) (*SectionsResponse, error) {
	const op = "wikiapi.SendSectionsRequest"

	query := url.Values{}
	query.Set("action", "parse")
	query.Set("format", "json")
	query.Set("page", page)
	query.Set("prop", "sections")

	var resp SectionsResponse
	if err := c.getJSON(ctx, c.actionURL, query, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s: %w: %s: %s", op, ErrAPI, resp.Error.Code, resp.Error.Info)
	}
	if resp.Parse == nil {
		return nil, fmt.Errorf("%s: %w: no parse key", op, ErrMalformedResponse)
	}
	return &resp, nil
}

// SendCategoryRequest запрашивает categoryinfo для категории через action=query.
func (c *Client) SendCategoryRequest(ctx context.Context, category string) (*CategoryResponse, error) {
	const op = "wikiapi.SendCategoryRequest"

	query := url.Values{}
	query.Set("action", "query")
	query.Set("format", "json")
	query.Set("prop", "categoryinfo")
	query.Set("titles", category)

	var resp CategoryResponse
	if err := c.getJSON(ctx, c.actionURL, query, &resp); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if resp.Error != nil {
		return nil, fmt.Errorf("%s: %w: %s: %s", op, ErrAPI, resp.Error.Code, resp.Error.Info)
	}
	if resp.Query == nil {
		return nil, fmt.Errorf("%s: %w: no query key", op, ErrMalformedResponse)
	}
	return &resp, nil
}

// getJSON выполняет GET к endpoint с параметрами query и декодирует тело в out.
func (c *Client) getJSON(ctx context.Context, endpoint string, query url.Values, out any) error {
	target := endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	c.log.Debug("sending request", slog.String("url", target))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	c.log.Debug("response", slog.Any("response", out))
	return nil
}
