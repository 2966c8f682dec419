package geonames

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"eventsearch/internal/domain"
)

// DefaultBaseURL is the public GeoNames web service.
const DefaultBaseURL = "http://api.geonames.org/"

// GeoNames status codes signalling exhausted credits.
// See https://www.geonames.org/export/webservice-exception.html
var quotaStatus = map[int]bool{18: true, 19: true, 20: true}

type geonamesResolver struct {
	client   *http.Client
	baseURL  string
	username string
}

// NewResolver returns a domain.GeoResolver that calls the GeoNames search API.
// A nil client gets a default one with a 10 second timeout.
func NewResolver(client *http.Client, baseURL, username string) domain.GeoResolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	return &geonamesResolver{client: client, baseURL: baseURL, username: username}
}

type searchResponse struct {
	Status *struct {
		Message string `xml:"message,attr"`
		Value   int    `xml:"value,attr"`
	} `xml:"status"`
	Geonames []struct {
		Name        string  `xml:"name"`
		CountryCode string  `xml:"countryCode"`
		Lat         float64 `xml:"lat"`
		Lng         float64 `xml:"lng"`
	} `xml:"geoname"`
}

func (g *geonamesResolver) Resolve(ctx context.Context, name string) (*domain.Place, error) {
	q := url.Values{}
	q.Set("q", name)
	q.Set("maxRows", "1")
	q.Set("username", g.username)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"search?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query geonames: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geonames api returned status: %d", resp.StatusCode)
	}

	var data searchResponse
	if err := xml.NewDecoder(resp.Body).Decode(&data); err != nil {
		return nil, fmt.Errorf("failed to decode geonames response: %w", err)
	}
	if data.Status != nil {
		if quotaStatus[data.Status.Value] {
			return nil, fmt.Errorf("%w: %s", domain.ErrGeoQuotaExceeded, data.Status.Message)
		}
		return nil, fmt.Errorf("geonames error %d: %s", data.Status.Value, data.Status.Message)
	}
	if len(data.Geonames) == 0 {
		return nil, domain.ErrPlaceNotFound
	}
	first := data.Geonames[0]
	return &domain.Place{
		Name:    first.Name,
		Country: first.CountryCode,
		Point:   domain.Point{Lat: first.Lat, Lng: first.Lng},
	}, nil
}
