package geoip

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"mareblu/internal/app/policies"
)

// Client resolves visitor IPs against an ip-api.com compatible endpoint.
type Client struct {
	Endpoint string
	HTTP     *http.Client
	Logger   *slog.Logger
}

type lookupResponse struct {
	Status     string `json:"status"`
	Message    string `json:"message"`
	Country    string `json:"country"`
	RegionName string `json:"regionName"`
	City       string `json:"city"`
}

func (c *Client) Resolve(ctx context.Context, ip string) (policies.GeoLocation, error) {
	if c == nil || c.HTTP == nil {
		return policies.GeoLocation{}, errors.New("geoip: http client not configured")
	}
	if c.Endpoint == "" {
		return policies.GeoLocation{}, errors.New("geoip: endpoint not configured")
	}
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return policies.GeoLocation{}, errors.New("geoip: ip is required")
	}

	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	url := strings.TrimRight(c.Endpoint, "/") + "/" + ip
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return policies.GeoLocation{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		var netErr net.Error
		if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
			err = fmt.Errorf("geoip: lookup timeout (%s)", c.Endpoint)
		} else {
			err = fmt.Errorf("geoip: service unavailable (%s)", c.Endpoint)
		}
		c.logError("geoip lookup failed", err)
		return policies.GeoLocation{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		err := fmt.Errorf("geoip: service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
		c.logError("geoip lookup rejected", err)
		return policies.GeoLocation{}, err
	}

	var body lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.logError("geoip decode failed", err)
		return policies.GeoLocation{}, err
	}
	if body.Status != "" && body.Status != "success" {
		return policies.GeoLocation{}, fmt.Errorf("geoip: lookup failed: %s", body.Message)
	}
	return policies.GeoLocation{
		Country: body.Country,
		Region:  body.RegionName,
		City:    body.City,
	}, nil
}

func (c *Client) logError(msg string, err error) {
	if c.Logger != nil {
		c.Logger.Error(msg, "error", err)
	}
}

var _ policies.GeoResolver = (*Client)(nil)
