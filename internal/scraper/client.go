// Package scraper reads device rows out of the legacy cpanel grid. The
// endpoint is a jqGrid JSON feed: an envelope with a "rows" array whose
// entries carry positional cell values, some of them raw HTML fragments.
package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/autotracker/tracker-admin/internal"
)

// RawRow is one grid row as the legacy panel serves it: an opaque ordered
// cell array. Consumed once by the transformer, never persisted.
type RawRow struct {
	ID   string   `json:"id"`
	Cell []string `json:"cell"`
}

type ErrorKind string

const (
	FetchFailed ErrorKind = "fetch_failed"
	ParseFailed ErrorKind = "parse_failed"
)

// ScrapeError distinguishes "the panel was unreachable" from "the panel
// answered with something that is not the grid feed" (usually an HTML error
// page). Callers decide whether either is fatal.
type ScrapeError struct {
	Kind   ErrorKind
	UserID string
	Cause  error
}

func (e *ScrapeError) Error() string {
	return fmt.Sprintf("scrape %s for user %s: %v", e.Kind, e.UserID, e.Cause)
}

func (e *ScrapeError) Unwrap() error {
	return e.Cause
}

type Client struct {
	baseURL  string
	pageRows int
	timeout  time.Duration
	http     *http.Client
	logger   *slog.Logger
}

func NewClient(cfg internal.ScraperConfig, logger *slog.Logger) *Client {
	pageRows := cfg.PageRows
	if pageRows <= 0 {
		pageRows = 50
	}

	return &Client{
		baseURL:  cfg.BaseURL,
		pageRows: pageRows,
		timeout:  cfg.Timeout,
		http:     &http.Client{Timeout: cfg.Timeout},
		logger:   logger,
	}
}

type gridEnvelope struct {
	Rows []RawRow `json:"rows"`
}

// FetchObjects retrieves the first page of device rows for one user. Page
// and sort parameters are fixed: the legacy panel ignores real pagination
// for this command and returns everything on page 1.
func (c *Client) FetchObjects(ctx context.Context, userID string) ([]RawRow, error) {
	ctx, cancel := internal.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.objectListURL(userID), nil)
	if err != nil {
		return nil, &ScrapeError{Kind: FetchFailed, UserID: userID, Cause: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &ScrapeError{Kind: FetchFailed, UserID: userID, Cause: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ScrapeError{
			Kind:   FetchFailed,
			UserID: userID,
			Cause:  fmt.Errorf("legacy panel returned status %d", resp.StatusCode),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &ScrapeError{Kind: FetchFailed, UserID: userID, Cause: err}
	}

	var envelope gridEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		// The panel serves HTML error pages with status 200; keep the raw
		// content in the log so the failure mode is diagnosable.
		c.logger.Error("scrape response is not grid JSON",
			"user_id", userID,
			"raw_content", truncate(string(body), 512),
			"error", err)
		return nil, &ScrapeError{Kind: ParseFailed, UserID: userID, Cause: err}
	}

	if envelope.Rows == nil {
		return []RawRow{}, nil
	}
	return envelope.Rows, nil
}

func (c *Client) objectListURL(userID string) string {
	params := url.Values{}
	params.Set("cmd", "user_object_list_get")
	params.Set("id", userID)
	params.Set("_search", "false")
	params.Set("nd", strconv.FormatInt(time.Now().UnixMilli(), 10))
	params.Set("rows", strconv.Itoa(c.pageRows))
	params.Set("page", "1")
	params.Set("sidx", "name")
	params.Set("sord", "asc")
	return c.baseURL + "?" + params.Encode()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
