// Package client is the generative-analysis client: five request/
// response round trips to the gateway, each independently fault
// tolerant. No operation ever propagates a failure past its own
// boundary — the coordinator uses the return values directly in
// presentation with no error branch.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"bond-terminal/analysis"
	"bond-terminal/models"
	"bond-terminal/observability"
)

// Provider is the set of analysis fetches the view-state coordinator
// depends on. All operations are total.
type Provider interface {
	FetchTraderInsight(ctx context.Context, bond models.Bond) string
	FetchIssuerNews(ctx context.Context, issuer, guarantor string) []models.NewsItem
	FetchMacroSummary(ctx context.Context, news []models.NewsItem) string
	FetchIssuerBackground(ctx context.Context, issuer, guarantor string) string
	FetchFinancialAnalysis(ctx context.Context, issuer string) *models.Financials
}

// Client talks to the gateway's analysis endpoints over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a Client for the given gateway base URL.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// NewWithHTTPClient creates a Client with a custom http.Client (for testing)
func NewWithHTTPClient(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// FetchTraderInsight returns trading commentary for the bond, or the
// fixed offline notice on any transport or parse failure.
func (c *Client) FetchTraderInsight(ctx context.Context, bond models.Bond) string {
	var out struct {
		Insight string `json:"insight"`
	}
	req := struct {
		Bond models.Bond `json:"bond"`
	}{Bond: bond}

	if err := c.postJSON(ctx, "/api/analysis/insight", req, &out); err != nil {
		observability.WithTicker(bond.Ticker).Warn("trader insight unavailable", "error", err)
		return analysis.InsightOfflineNotice
	}
	return out.Insight
}

// FetchIssuerNews returns freshly generated issuer news. Failure yields
// an empty sequence, never nil: the caller treats empty as "no new
// items", not as an error.
func (c *Client) FetchIssuerNews(ctx context.Context, issuer, guarantor string) []models.NewsItem {
	var out struct {
		News []models.NewsItem `json:"news"`
	}
	req := struct {
		Issuer    string `json:"issuer"`
		Guarantor string `json:"guarantor,omitempty"`
	}{Issuer: issuer, Guarantor: guarantor}

	if err := c.postJSON(ctx, "/api/analysis/news", req, &out); err != nil {
		observability.WithIssuer(issuer).Warn("issuer news unavailable", "error", err)
		return []models.NewsItem{}
	}
	if out.News == nil {
		return []models.NewsItem{}
	}
	return out.News
}

// FetchMacroSummary returns a macro strategy summary for the given news
// items, or the fixed unavailable notice on failure.
func (c *Client) FetchMacroSummary(ctx context.Context, news []models.NewsItem) string {
	var out struct {
		Macro string `json:"macro"`
	}
	req := struct {
		News []models.NewsItem `json:"news"`
	}{News: news}

	if err := c.postJSON(ctx, "/api/analysis/macro", req, &out); err != nil {
		observability.Warn("macro summary unavailable", "error", err)
		return analysis.MacroUnavailableNotice
	}
	return out.Macro
}

// FetchIssuerBackground returns the issuer introduction, or the fixed
// not-available notice on failure.
func (c *Client) FetchIssuerBackground(ctx context.Context, issuer, guarantor string) string {
	var out struct {
		Background string `json:"background"`
	}
	req := struct {
		Issuer    string `json:"issuer"`
		Guarantor string `json:"guarantor,omitempty"`
	}{Issuer: issuer, Guarantor: guarantor}

	if err := c.postJSON(ctx, "/api/analysis/background", req, &out); err != nil {
		observability.WithIssuer(issuer).Warn("issuer background unavailable", "error", err)
		return analysis.BackgroundUnavailableNotice
	}
	return out.Background
}

// FetchFinancialAnalysis returns the issuer's financial snapshot, or
// nil on failure — never a partially filled record.
func (c *Client) FetchFinancialAnalysis(ctx context.Context, issuer string) *models.Financials {
	var out struct {
		Analysis *models.Financials `json:"analysis"`
	}
	req := struct {
		Issuer string `json:"issuer"`
	}{Issuer: issuer}

	if err := c.postJSON(ctx, "/api/analysis/financial", req, &out); err != nil {
		observability.WithIssuer(issuer).Warn("financial analysis unavailable", "error", err)
		return nil
	}
	if out.Analysis != nil && !out.Analysis.Complete() {
		return nil
	}
	return out.Analysis
}

// postJSON performs one JSON round trip to the gateway.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

var _ Provider = (*Client)(nil)
