// Package geoip resolves an IP address to a country name using the ip-api.com
// JSON endpoint. The service is treated as an unreliable collaborator: every
// failure mode collapses into an unresolved result, never an aborted request.
package geoip

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// FallbackCountry is the value callers substitute for unresolved lookups.
const FallbackCountry = "Unknown"

// Result is the outcome of a lookup. Resolved is false when the service could
// not be reached or did not return a usable country; callers apply the
// FallbackCountry substitution themselves so the fallback happens exactly once.
type Result struct {
	Country  string
	Resolved bool
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// CountryFor queries the geolocation service for the given IP. There is no
// retry and no caching; each call re-queries the service.
func (c *Client) CountryFor(ctx context.Context, ip string) Result {
	if ip == "" {
		return Result{}
	}

	url := fmt.Sprintf("%s/json/%s?fields=status,message,country", c.baseURL, ip)
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		slog.Warn("geoip: failed to build request", "ip", ip, "error", err)
		return Result{}
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		slog.Warn("geoip: lookup failed", "ip", ip, "error", err)
		return Result{}
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode != http.StatusOK {
		slog.Warn("geoip: unexpected status", "ip", ip, "status", response.StatusCode)
		return Result{}
	}

	var payload struct {
		Status  string `json:"status"`
		Message string `json:"message"`
		Country string `json:"country"`
	}
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		slog.Warn("geoip: malformed response", "ip", ip, "error", err)
		return Result{}
	}
	if payload.Status != "success" || payload.Country == "" {
		slog.Warn("geoip: lookup rejected", "ip", ip, "message", payload.Message)
		return Result{}
	}

	return Result{Country: payload.Country, Resolved: true}
}
