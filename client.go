package console

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
)

// Client is the single choke point for backend calls. Credentials are
// attached and revoked by its transport, so every endpoint, including ones
// added later, shares the same session behavior.
type Client struct {
	baseURL *url.URL
	http    *http.Client
	storage Storage
	logger  Logger
}

// NewClient builds a client rooted at baseURL. The storage holds the
// durable session snapshot the transport reads tokens from.
func NewClient(baseURL string, storage Storage) (*Client, error) {
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "invalid base URL")
	}

	c := &Client{
		baseURL: parsed,
		storage: storage,
		logger:  defLogger{},
	}

	c.http = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &authTransport{
			storage: storage,
			logger:  c.logger,
			next:    http.DefaultTransport,
		},
	}

	return c, nil
}

func (c *Client) WithLogger(logger Logger) *Client {
	c.logger = logger
	if t, ok := c.http.Transport.(*authTransport); ok {
		t.logger = logger
	}
	return c
}

func (c *Client) WithTimeout(d time.Duration) *Client {
	c.http.Timeout = d
	return c
}

// authTransport intercepts every exchange. Outbound it attaches the stored
// bearer credential; inbound it reacts to a 401 by dropping the durable
// token and profile in one step. The response itself is never altered.
type authTransport struct {
	storage Storage
	logger  Logger
	next    http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if token, ok := t.storage.Get(StorageKeyToken); ok && token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := t.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if res.StatusCode == http.StatusUnauthorized {
		if err := t.storage.Delete(StorageKeyToken, StorageKeyProfile); err != nil {
			t.logger.Warn("unable to clear rejected session: %v", err)
		}
	}

	return res, nil
}

// do runs one JSON exchange. Non-2xx responses are mapped to structured
// errors; the 401 storage clearing already happened in the transport by the
// time do sees the status.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}

	var payload io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, errors.CategoryInternal, "unable to encode request payload")
		}
		payload = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), payload)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "unable to build request")
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	res, err := c.http.Do(req)
	if err != nil {
		return errors.Wrap(err, errors.CategoryOperation, "request failed").
			WithMetadata(map[string]any{"method": method, "path": path})
	}
	defer res.Body.Close()

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		detail := decodeDetail(res.Body)
		c.logger.Debug("request rejected: %s %s -> %d", method, path, res.StatusCode)
		return statusError(res.StatusCode, detail)
	}

	if out == nil || res.StatusCode == http.StatusNoContent {
		return nil
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "unable to decode response payload")
	}

	return nil
}

// decodeDetail extracts the backend failure message. FastAPI reports errors
// as {"detail": ...} where detail is a string or a structured object.
func decodeDetail(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 64<<10))
	if err != nil || len(raw) == 0 {
		return ""
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil || envelope.Detail == nil {
		return strings.TrimSpace(string(raw))
	}

	var message string
	if err := json.Unmarshal(envelope.Detail, &message); err == nil {
		return message
	}

	return string(envelope.Detail)
}
