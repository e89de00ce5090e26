// Package remote talks to the sync server and merges remote snapshots with
// local records.
package remote

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shunichi-ikebuchi/ppe-ledger/pkg/record"
)

// ErrSyncDisabled is returned by every operation when sync is turned off.
var ErrSyncDisabled = errors.New("sync is disabled")

// ClientConfig represents the configuration for the sync client.
type ClientConfig struct {
	ServerURL string
	Enabled   bool
	Timeout   time.Duration // Default: 10 seconds
}

// Client is a sync server client.
type Client struct {
	httpClient *http.Client
	baseURL    string
	enabled    bool
	now        func() time.Time
}

// NewClient creates a new sync client.
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: strings.TrimRight(config.ServerURL, "/"),
		enabled: config.Enabled,
		now:     time.Now,
	}
}

// Enabled reports whether sync is turned on.
func (c *Client) Enabled() bool {
	return c.enabled
}

// Download fetches the user's remote records.
func (c *Client) Download(user string) ([]record.Record, error) {
	if !c.enabled {
		return nil, ErrSyncDisabled
	}

	query := url.Values{}
	query.Set("user", user)

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/api/data?%s", c.baseURL, query.Encode()), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp)
	}

	var records record.List
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return records, nil
}

// Upload replaces the user's remote records.
func (c *Client) Upload(user string, records []record.Record) error {
	if !c.enabled {
		return ErrSyncDisabled
	}

	data := record.List(records)
	if data == nil {
		data = record.List{}
	}

	body, err := json.Marshal(UploadRequest{
		User:      user,
		Data:      data,
		Timestamp: c.now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", c.baseURL+"/api/data", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	return nil
}

// Delete removes the user's remote snapshot.
func (c *Client) Delete(user string) error {
	if !c.enabled {
		return ErrSyncDisabled
	}

	query := url.Values{}
	query.Set("user", user)

	req, err := http.NewRequest("DELETE", fmt.Sprintf("%s/api/data?%s", c.baseURL, query.Encode()), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	return nil
}

// Users lists the users that have a remote snapshot.
func (c *Client) Users() ([]string, error) {
	var users []string
	if err := c.getJSON("/api/users", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Uploads returns the server's upload log for user. An empty user returns
// every entry.
func (c *Client) Uploads(user string) ([]UploadEntry, error) {
	query := url.Values{}
	if user != "" {
		query.Set("user", user)
	}

	var uploads []UploadEntry
	if err := c.getJSON("/api/uploads", query, &uploads); err != nil {
		return nil, err
	}
	return uploads, nil
}

func (c *Client) getJSON(path string, query url.Values, out any) error {
	if !c.enabled {
		return ErrSyncDisabled
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	req, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to make request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.parseError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// parseError parses an error response from the sync server.
func (c *Client) parseError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{StatusCode: resp.StatusCode, Message: "failed to read error response"}
	}

	var errResp ErrorResponse
	if err := json.Unmarshal(body, &errResp); err != nil || errResp.Error == "" {
		return &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(body))}
	}

	msg := errResp.Error
	if errResp.ErrorDescription != "" {
		msg = fmt.Sprintf("%s - %s", errResp.Error, errResp.ErrorDescription)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
