package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/sonicmood/sonicmood/internal/shared"
)

const ipLocateURL = "http://ip-api.com/json"

// ipLocation is the subset of the ip-api.com response the locator reads.
type ipLocation struct {
	Status string  `json:"status"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`
}

// IPLocator approximates the machine's coordinates from its public IP
// address. It is the fallback when no city or coordinates are given.
type IPLocator struct {
	client  *resty.Client
	baseURL string
}

// NewIPLocator creates a locator. baseURL overrides the provider host, for
// tests; pass "" for the default.
func NewIPLocator(baseURL string) *IPLocator {
	if baseURL == "" {
		baseURL = ipLocateURL
	}

	return &IPLocator{
		client:  resty.New().SetTimeout(5 * time.Second),
		baseURL: baseURL,
	}
}

// Locate returns the approximate coordinates of the current machine.
func (l *IPLocator) Locate(ctx context.Context) (float64, float64, error) {
	var payload ipLocation

	resp, err := l.client.R().
		SetContext(ctx).
		SetResult(&payload).
		Get(l.baseURL)

	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", shared.ErrLocationUnavailable, err)
	}
	if resp.IsError() || payload.Status != "success" {
		return 0, 0, fmt.Errorf("%w: lookup rejected", shared.ErrLocationUnavailable)
	}

	return payload.Lat, payload.Lon, nil
}
