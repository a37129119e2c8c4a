package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/ncolosso/splitter/internal/models"
)

const defaultTimeout = 10 * time.Second

// Client talks to the bill service over HTTP JSON. Endpoints are scoped by
// bill id: /bills/{billID}/items and /bills/{billID}/fees.
type Client struct {
	base *url.URL
	http *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client, e.g. for tests or
// custom transports.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("gateway: invalid base URL %q: %w", baseURL, err)
	}
	c := &Client{
		base: u,
		http: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Items returns the item-scoped view of the client.
func (c *Client) Items() ItemGateway { return itemsClient{c} }

// Fees returns the fee-scoped view of the client.
func (c *Client) Fees() FeeGateway { return feesClient{c} }

// do performs one round trip. A nil out skips response decoding (delete).
// Any network error or non-2xx status becomes a TransportError; 404
// additionally wraps ErrNotFound so callers can tell staleness apart.
func (c *Client) do(ctx context.Context, op, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("encode request: %w", err)}
		}
		reader = bytes.NewReader(buf)
	}

	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := errors.New(http.StatusText(resp.StatusCode))
		if resp.StatusCode == http.StatusNotFound {
			cause = ErrNotFound
		}
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return &TransportError{Op: op, Status: resp.StatusCode, Err: cause}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Op: op, Status: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

type itemsClient struct{ c *Client }

func (ic itemsClient) List(ctx context.Context, billID string) ([]models.Item, error) {
	var items []models.Item
	err := ic.c.do(ctx, "list items", http.MethodGet, fmt.Sprintf("/bills/%s/items", billID), nil, &items)
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (ic itemsClient) Create(ctx context.Context, billID string, fields ItemFields) (models.Item, error) {
	var item models.Item
	err := ic.c.do(ctx, "create item", http.MethodPost, fmt.Sprintf("/bills/%s/items", billID), fields, &item)
	return item, err
}

func (ic itemsClient) Update(ctx context.Context, billID, id string, fields ItemFields) (models.Item, error) {
	var item models.Item
	err := ic.c.do(ctx, "update item", http.MethodPut, fmt.Sprintf("/bills/%s/items/%s", billID, id), fields, &item)
	return item, err
}

func (ic itemsClient) Delete(ctx context.Context, billID, id string) error {
	return ic.c.do(ctx, "delete item", http.MethodDelete, fmt.Sprintf("/bills/%s/items/%s", billID, id), nil, nil)
}

type feesClient struct{ c *Client }

func (fc feesClient) List(ctx context.Context, billID string) ([]models.Fee, error) {
	var fees []models.Fee
	err := fc.c.do(ctx, "list fees", http.MethodGet, fmt.Sprintf("/bills/%s/fees", billID), nil, &fees)
	if err != nil {
		return nil, err
	}
	return fees, nil
}

func (fc feesClient) Create(ctx context.Context, billID string, fields FeeFields) (models.Fee, error) {
	var fee models.Fee
	err := fc.c.do(ctx, "create fee", http.MethodPost, fmt.Sprintf("/bills/%s/fees", billID), fields, &fee)
	return fee, err
}

func (fc feesClient) Update(ctx context.Context, billID, id string, fields FeeFields) (models.Fee, error) {
	var fee models.Fee
	err := fc.c.do(ctx, "update fee", http.MethodPut, fmt.Sprintf("/bills/%s/fees/%s", billID, id), fields, &fee)
	return fee, err
}

func (fc feesClient) Delete(ctx context.Context, billID, id string) error {
	return fc.c.do(ctx, "delete fee", http.MethodDelete, fmt.Sprintf("/bills/%s/fees/%s", billID, id), nil, nil)
}
