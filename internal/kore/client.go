package kore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultTimeout = 60 * time.Second

// ErrUnauthorized is returned when the API rejects the auth token.
var ErrUnauthorized = errors.New("kore: request was not authorized")

// Client issues getMessagesV2 calls against a Kore.ai deployment.
// It fetches single pages only; pagination and retry policy belong to the
// caller.
type Client struct {
	baseURL    string
	streamID   string
	token      string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Client for the given deployment. baseURL must already
// be normalized (scheme present, no trailing slash).
func NewClient(baseURL, streamID, token string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:  baseURL,
		streamID: streamID,
		token:    token,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		logger: logger,
	}
}

// FetchPage retrieves one page of chat history for the date range, starting
// at the given offset. Transport failures, non-2xx statuses and undecodable
// bodies all surface as errors; deciding whether to continue paging is the
// caller's job.
func (c *Client) FetchPage(ctx context.Context, dateFrom, dateTo string, skip, limit int) (*MessagesPage, error) {
	endpoint := fmt.Sprintf("%s/api/public/bot/%s/getMessagesV2", c.baseURL, c.streamID)

	body, err := json.Marshal(messagesRequest{
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Limit:    limit,
		Skip:     skip,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("auth", c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Encoding", "gzip, deflate, br")

	c.logger.Debug("fetching page", "skip", skip, "limit", limit, "from", dateFrom, "to", dateTo)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling getMessagesV2: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, fmt.Errorf("%w (status %d)", ErrUnauthorized, resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("getMessagesV2 returned status %d: %s", resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var page MessagesPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decoding getMessagesV2 response: %w", err)
	}

	if len(page.Error) > 0 && string(page.Error) != "null" {
		c.logger.Warn("api reported an error alongside the page", "error", string(page.Error))
	}
	c.logger.Debug("page received",
		"messages", len(page.Messages),
		"total", page.Total,
		"more_available", page.MoreAvailable)

	return &page, nil
}
