package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/transitdraft/transitdraft/pkg/geo"
	"github.com/transitdraft/transitdraft/pkg/util"
)

const defaultOSRMAddress = "https://router.project-osrm.org"

// OSRMPlanner speaks the OSRM HTTP route API and returns the geometry of
// the best route through an ordered set of waypoints.
type OSRMPlanner struct {
	Address string
	Profile string

	httpClient *http.Client
}

func NewOSRMPlanner() *OSRMPlanner {
	env := util.GetEnvironmentVariables()

	address := defaultOSRMAddress
	if env["TRANSITDRAFT_OSRM_ADDRESS"] != "" {
		address = env["TRANSITDRAFT_OSRM_ADDRESS"]
	}

	return &OSRMPlanner{
		Address: address,
		Profile: "driving",

		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type osrmRouteResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Geometry struct {
			Coordinates [][]float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"routes"`
}

// Route returns an ordered path following the road network through the
// given waypoints. Transient failures (network errors, 5xx) are retried
// with exponential backoff before giving up.
func (p *OSRMPlanner) Route(ctx context.Context, waypoints []geo.Location) ([]geo.Location, error) {
	if len(waypoints) < 2 {
		return nil, fmt.Errorf("route requires at least 2 waypoints, got %d", len(waypoints))
	}

	coordinatePairs := make([]string, 0, len(waypoints))
	for _, waypoint := range waypoints {
		coordinatePairs = append(coordinatePairs, fmt.Sprintf("%f,%f", waypoint.Longitude, waypoint.Latitude))
	}

	url := fmt.Sprintf(
		"%s/route/v1/%s/%s?overview=full&geometries=geojson",
		p.Address, p.Profile, strings.Join(coordinatePairs, ";"),
	)

	var body []byte

	operation := func() error {
		request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}

		response, err := p.httpClient.Do(request)
		if err != nil {
			return err
		}
		defer response.Body.Close()

		if response.StatusCode >= 500 || response.StatusCode == http.StatusTooManyRequests {
			return fmt.Errorf("routing service returned %d", response.StatusCode)
		}
		if response.StatusCode != http.StatusOK {
			return backoff.Permanent(fmt.Errorf("routing service returned %d", response.StatusCode))
		}

		body, err = io.ReadAll(response.Body)
		if err != nil {
			return err
		}

		return nil
	}

	retryBackoff := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, retryBackoff); err != nil {
		return nil, err
	}

	var routeResponse osrmRouteResponse
	if err := json.Unmarshal(body, &routeResponse); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}

	if routeResponse.Code != "Ok" || len(routeResponse.Routes) == 0 {
		return nil, fmt.Errorf("routing service found no route (code %s)", routeResponse.Code)
	}

	coordinates := routeResponse.Routes[0].Geometry.Coordinates

	path := make([]geo.Location, 0, len(coordinates))
	for _, coordinate := range coordinates {
		if len(coordinate) < 2 {
			continue
		}

		// GeoJSON order is lon,lat
		path = append(path, geo.Location{Latitude: coordinate[1], Longitude: coordinate[0]})
	}

	if len(path) < 2 {
		return nil, fmt.Errorf("routing service returned a degenerate path of %d points", len(path))
	}

	return path, nil
}
