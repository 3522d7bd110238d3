package wildapricot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/clubops/eventwatch/internal/domain"
	"github.com/clubops/eventwatch/internal/logging"
)

const maxAPIResponseBytes = 16 << 20

// APIError carries the raw body of an HTTP 400 validation response, so the
// caller can inspect the service's structured error payload.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("wildapricot api: status %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// Client issues authenticated calls against the WildApricot resource API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     *TokenManager
}

func NewClient(baseURL string, httpClient *http.Client, tokens *TokenManager) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
}

// Execute performs one authenticated API call and decodes the response
// through the dynamic object mapper. Relative paths are resolved against the
// API root. The method defaults to GET without a body and POST with one. A
// 400 response comes back as *APIError carrying the raw body; any other
// non-2xx status is a plain error.
func (c *Client) Execute(ctx context.Context, path string, body *domain.Value, method string) (domain.Value, error) {
	endpoint := path
	if !strings.HasPrefix(path, "http") {
		endpoint = c.baseURL + path
	}
	if method == "" {
		if body == nil {
			method = http.MethodGet
		} else {
			method = http.MethodPost
		}
	}
	logging.For(ctx).WithFields(logrus.Fields{"method": method, "url": endpoint}).Info("requesting")

	accessToken, err := c.tokens.ValidAccessToken(ctx)
	if err != nil {
		return domain.Value{}, err
	}

	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return domain.Value{}, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return domain.Value{}, fmt.Errorf("create api request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.Value{}, fmt.Errorf("api request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusBadRequest {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxAPIResponseBytes))
		return domain.Value{}, &APIError{StatusCode: resp.StatusCode, Body: raw}
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return domain.Value{}, fmt.Errorf("api request %s %s: unexpected status %s", method, endpoint, resp.Status)
	}

	value, err := domain.ParseJSON(io.LimitReader(resp.Body, maxAPIResponseBytes))
	if err != nil {
		return domain.Value{}, fmt.Errorf("decode api response: %w", err)
	}
	return value, nil
}

// Events fetches the authenticated account's event collection.
func (c *Client) Events(ctx context.Context) ([]domain.Event, error) {
	path := fmt.Sprintf("/v2/accounts/%d/events", c.tokens.AccountID())
	value, err := c.Execute(ctx, path, nil, "")
	if err != nil {
		return nil, err
	}

	obj, ok := value.Object()
	if !ok {
		return nil, fmt.Errorf("events response is not a JSON object")
	}
	list, ok := obj.Get("Events")
	if !ok {
		return nil, fmt.Errorf("events response missing Events field")
	}
	events, err := domain.EventsFromValue(list)
	if err != nil {
		return nil, fmt.Errorf("decode events: %w", err)
	}

	logging.For(ctx).WithField("count", len(events)).Info("got events")
	return events, nil
}
