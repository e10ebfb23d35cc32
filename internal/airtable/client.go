package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Client is an Airtable REST API client scoped to a single base
type Client struct {
	baseURL    string
	token      string
	baseID     string
	httpClient *http.Client
}

// APIError is a non-2xx response from the Airtable API. Body carries the raw
// upstream payload for diagnostics.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("airtable: HTTP %d: %s", e.StatusCode, e.Body)
}

// NewClient creates a new Airtable client
func NewClient(baseURL, token, baseID string, timeout time.Duration) *Client {
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		baseID:  baseID,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Configured reports whether both the access token and the base ID are set
func (c *Client) Configured() bool {
	return c.token != "" && c.baseID != ""
}

// BaseID returns the configured base identifier
func (c *Client) BaseID() string {
	return c.baseID
}

// request performs an HTTP request against the Airtable API
func (c *Client) request(ctx context.Context, method, path string, query url.Values, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}

	return nil
}

// tablePath builds the record collection path for a table
func (c *Client) tablePath(table string) string {
	return "/" + c.baseID + "/" + url.PathEscape(table)
}

// ListRecords queries records in a table
func (c *Client) ListRecords(ctx context.Context, table string, opts ListOptions) (*RecordList, error) {
	query := url.Values{}
	if opts.FilterByFormula != "" {
		query.Set("filterByFormula", opts.FilterByFormula)
	}
	if opts.MaxRecords > 0 {
		query.Set("maxRecords", strconv.Itoa(opts.MaxRecords))
	}

	var list RecordList
	if err := c.request(ctx, http.MethodGet, c.tablePath(table), query, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CreateRecord creates a single record in a table
func (c *Client) CreateRecord(ctx context.Context, table string, fields Fields) (*Record, error) {
	var rec Record
	if err := c.request(ctx, http.MethodPost, c.tablePath(table), nil, createRequest{Fields: fields}, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// BaseSchema fetches the table schema of the base from the Meta API
func (c *Client) BaseSchema(ctx context.Context) (*BaseSchema, error) {
	var schema BaseSchema
	if err := c.request(ctx, http.MethodGet, "/meta/bases/"+c.baseID+"/tables", nil, nil, &schema); err != nil {
		return nil, err
	}
	return &schema, nil
}

// FormulaEq builds a formula matching records whose field equals value
// exactly. The value is escaped so quotes and backslashes cannot break out
// of the string literal.
func FormulaEq(field, value string) string {
	r := strings.NewReplacer(`\`, `\\`, `"`, `\"`)
	return fmt.Sprintf(`{%s}="%s"`, field, r.Replace(value))
}
