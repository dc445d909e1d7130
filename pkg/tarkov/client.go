package tarkov

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const itemFields = "name shortName low24hPrice sellFor { vendor { name } priceRUB }"

// ClientConfig configures the tarkov.dev GraphQL client
type ClientConfig struct {
	BaseURL   string
	UserAgent string
	GameMode  string        // "", "regular" or "pve"
	Timeout   time.Duration // HTTP timeout (default: 30s)
}

// DefaultClientConfig returns the public tarkov.dev endpoint settings
func DefaultClientConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   "https://api.tarkov.dev/graphql",
		UserAgent: "fleaflip",
		Timeout:   30 * time.Second,
	}
}

// Client handles API communication with the tarkov.dev GraphQL API
type Client struct {
	baseURL    string
	userAgent  string
	gameMode   string
	httpClient *http.Client
}

// NewClient creates a new tarkov.dev API client
func NewClient(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultClientConfig()
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    config.BaseURL,
		userAgent:  config.UserAgent,
		gameMode:   strings.ToLower(config.GameMode),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// ItemsQuery returns the GraphQL document requesting every item's name,
// short name, 24h-low flea price and trader offers.
func (c *Client) ItemsQuery() string {
	if c.gameMode == "" {
		return fmt.Sprintf("{ items { %s } }", itemFields)
	}
	return fmt.Sprintf("{ items(gameMode: %s) { %s } }", c.gameMode, itemFields)
}

// makeAPIRequest posts a GraphQL document and returns the raw body
func (c *Client) makeAPIRequest(ctx context.Context, query string) ([]byte, error) {
	payload, err := json.Marshal(graphQLRequest{Query: query})
	if err != nil {
		return nil, &DataSourceError{Op: "encode query", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, &DataSourceError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &DataSourceError{Op: "request", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &DataSourceError{Op: "read response", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &DataSourceError{
			Op:         "request",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("API returned status %d", resp.StatusCode),
		}
	}

	return body, nil
}

// QueryItems fetches every item in one request. Any transport, status or
// shape problem fails the whole call with a *DataSourceError.
func (c *Client) QueryItems(ctx context.Context) ([]RawItemRecord, error) {
	body, err := c.makeAPIRequest(ctx, c.ItemsQuery())
	if err != nil {
		return nil, err
	}
	return decodeItems(body)
}

// decodeItems parses an items response body into raw records
func decodeItems(body []byte) ([]RawItemRecord, error) {
	var response itemsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, &DataSourceError{Op: "parse response", Err: err}
	}

	if len(response.Errors) > 0 {
		messages := make([]string, 0, len(response.Errors))
		for _, e := range response.Errors {
			messages = append(messages, e.Message)
		}
		return nil, &DataSourceError{
			Op:  "query",
			Err: fmt.Errorf("graphql errors: %s", strings.Join(messages, "; ")),
		}
	}

	if response.Data == nil || response.Data.Items == nil {
		return nil, &DataSourceError{
			Op:  "parse response",
			Err: errors.New("response has no data.items array"),
		}
	}

	nodes := *response.Data.Items
	records := make([]RawItemRecord, 0, len(nodes))
	for _, node := range nodes {
		records = append(records, node.toRecord())
	}
	return records, nil
}
