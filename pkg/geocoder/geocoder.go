package geocoder

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/raviteja-g/optiroute/pkg/geo"
	"github.com/raviteja-g/optiroute/pkg/util"
)

var (
	ErrAddressNotFound = errors.New("address could not be resolved to a coordinate")
)

// Geocoder is the address-to-coordinate collaborator.
type Geocoder interface {
	ResolveAddress(ctx context.Context, address, area string) (geo.Coordinate, error)
}

// NominatimClient resolves free-text addresses against a nominatim-style search
// endpoint.
type NominatimClient struct {
	endpoint  string
	userAgent string
	client    *http.Client
}

func NewNominatimClient(endpoint, userAgent string, timeout time.Duration) *NominatimClient {
	return &NominatimClient{
		endpoint:  endpoint,
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

type nominatimResult struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

func (nc *NominatimClient) ResolveAddress(ctx context.Context, address, area string) (geo.Coordinate, error) {
	q := address
	if area != "" {
		q = fmt.Sprintf("%s, %s", address, area)
	}

	params := url.Values{}
	params.Set("q", q)
	params.Set("format", "json")
	params.Set("limit", "1")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		nc.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return geo.Coordinate{}, util.WrapErrorf(err, ErrAddressNotFound, "build geocoding request")
	}
	req.Header.Set("User-Agent", nc.userAgent)

	resp, err := nc.client.Do(req)
	if err != nil {
		return geo.Coordinate{}, util.WrapErrorf(err, ErrAddressNotFound, "geocode %q", q)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return geo.Coordinate{}, util.WrapErrorf(nil, ErrAddressNotFound,
			"geocoder returned status %d for %q", resp.StatusCode, q)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return geo.Coordinate{}, util.WrapErrorf(err, ErrAddressNotFound, "decode geocoder response for %q", q)
	}
	if len(results) == 0 {
		return geo.Coordinate{}, util.WrapErrorf(nil, ErrAddressNotFound, "no match for %q", q)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return geo.Coordinate{}, util.WrapErrorf(err, ErrAddressNotFound, "malformed latitude for %q", q)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return geo.Coordinate{}, util.WrapErrorf(err, ErrAddressNotFound, "malformed longitude for %q", q)
	}

	return geo.NewCoordinate(lat, lon), nil
}
