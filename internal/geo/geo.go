// Package geo resolves postal codes to coordinates and computes
// great-circle distances between them.
//
// The actual ZIP-to-coordinate mapping is an external service
// (Zippopotam.us); resolved coordinates are cached in Redis so a
// recommendations request does not hit the service once per candidate.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const cacheTTL = 24 * time.Hour

// Lookup maps a postal code to a coordinate pair.
// A (nil, nil) return means the code is unknown to the service.
type Lookup interface {
	Coordinates(ctx context.Context, zip string) (*Coordinates, error)
}

// ValidZip reports whether zip is, after trimming whitespace, exactly
// five ASCII digits.
func ValidZip(zip string) bool {
	zip = strings.TrimSpace(zip)
	if len(zip) != 5 {
		return false
	}
	for _, c := range zip {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

// ZippopotamClient looks up US postal codes via the Zippopotam.us API
type ZippopotamClient struct {
	baseURL string
	client  *http.Client
}

// NewZippopotamClient creates a lookup client for the given base URL
func NewZippopotamClient(baseURL string) *ZippopotamClient {
	return &ZippopotamClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 5 * time.Second},
	}
}

type zippopotamResponse struct {
	Places []struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"places"`
}

// Coordinates fetches the coordinate pair for a US ZIP code.
// An unknown code (HTTP 404) resolves to (nil, nil), not an error.
func (c *ZippopotamClient) Coordinates(ctx context.Context, zip string) (*Coordinates, error) {
	url := fmt.Sprintf("%s/us/%s", c.baseURL, strings.TrimSpace(zip))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call zip lookup service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("zip lookup service returned status %d", resp.StatusCode)
	}

	var body zippopotamResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}
	if len(body.Places) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(body.Places[0].Latitude, 64)
	if err != nil {
		return nil, fmt.Errorf("bad latitude in lookup response: %w", err)
	}
	lon, err := strconv.ParseFloat(body.Places[0].Longitude, 64)
	if err != nil {
		return nil, fmt.Errorf("bad longitude in lookup response: %w", err)
	}

	return &Coordinates{Lat: lat, Lon: lon}, nil
}

// Service resolves postal codes through a Lookup with an optional
// Redis cache in front.
type Service struct {
	lookup Lookup
	cache  *redis.Client
}

// NewService creates a geo service. cache may be nil to disable caching.
func NewService(lookup Lookup, cache *redis.Client) *Service {
	return &Service{lookup: lookup, cache: cache}
}

// Resolve returns the coordinates for a postal code, or nil when the code
// is invalid, missing, or unknown to the lookup service. Cache failures
// degrade to a direct lookup.
func (s *Service) Resolve(ctx context.Context, zip string) (*Coordinates, error) {
	if !ValidZip(zip) {
		return nil, nil
	}
	zip = strings.TrimSpace(zip)

	key := cacheKey(zip)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Result(); err == nil {
			if coords, ok := parseCached(cached); ok {
				return coords, nil
			}
		}
	}

	coords, err := s.lookup.Coordinates(ctx, zip)
	if err != nil {
		return nil, err
	}
	if coords == nil {
		return nil, nil
	}

	if s.cache != nil {
		val := fmt.Sprintf("%g,%g", coords.Lat, coords.Lon)
		if err := s.cache.Set(ctx, key, val, cacheTTL).Err(); err != nil {
			log.Debug().Err(err).Str("zip", zip).Msg("Failed to cache coordinates")
		}
	}

	return coords, nil
}

func cacheKey(zip string) string {
	return "geo:zip:" + zip
}

func parseCached(val string) (*Coordinates, bool) {
	parts := strings.SplitN(val, ",", 2)
	if len(parts) != 2 {
		return nil, false
	}
	lat, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return nil, false
	}
	lon, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return nil, false
	}
	return &Coordinates{Lat: lat, Lon: lon}, true
}
