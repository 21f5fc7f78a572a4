// Package client talks to the ModelPulse tracking API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/modelpulse/modelpulse/internal/core"
)

type Client struct {
	BaseURL string
	http    *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// FetchUsage performs one usage request for the given timeframe and sort.
// Any transport, status, or decode failure comes back as a single error;
// callers do not get to distinguish kinds, and no retry happens here.
func (c *Client) FetchUsage(ctx context.Context, tf core.Timeframe, sortBy core.SortBy) (*core.UsageSnapshot, error) {
	endpoint := fmt.Sprintf(
		"%s/modelpulse/usage?timeframe=%s&sort=%s",
		c.BaseURL,
		url.QueryEscape(string(tf)),
		url.QueryEscape(string(sortBy)),
	)

	var snap core.UsageSnapshot
	if err := c.getJSON(ctx, endpoint, &snap); err != nil {
		return nil, fmt.Errorf("fetching usage: %w", err)
	}
	snap.Timeframe = core.NormalizeTimeframe(string(snap.Timeframe))
	snap.SortBy = core.NormalizeSortBy(string(snap.SortBy))
	return &snap, nil
}

func (c *Client) ModelDetail(ctx context.Context, modelID string) (*core.ModelDetail, error) {
	endpoint := c.BaseURL + "/modelpulse/model/" + url.PathEscape(modelID)

	var detail core.ModelDetail
	if err := c.getJSON(ctx, endpoint, &detail); err != nil {
		return nil, fmt.Errorf("fetching model detail: %w", err)
	}
	return &detail, nil
}

type CategoryCount struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Count int    `json:"count"`
}

func (c *Client) Categories(ctx context.Context) ([]CategoryCount, error) {
	var out struct {
		Categories []CategoryCount `json:"categories"`
	}
	if err := c.getJSON(ctx, c.BaseURL+"/modelpulse/categories", &out); err != nil {
		return nil, fmt.Errorf("fetching categories: %w", err)
	}
	return out.Categories, nil
}

// Reset clears all backend tracking state. The confirmation flag is part
// of the wire contract; the server rejects requests without it.
func (c *Client) Reset(ctx context.Context) error {
	return c.postJSON(ctx, c.BaseURL+"/modelpulse/reset", map[string]any{"confirm": true})
}

func (c *Client) Cleanup(ctx context.Context, maxDays int) error {
	return c.postJSON(ctx, c.BaseURL+"/modelpulse/cleanup", map[string]any{"max_days": maxDays})
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

func (c *Client) postJSON(ctx context.Context, endpoint string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return nil
}
