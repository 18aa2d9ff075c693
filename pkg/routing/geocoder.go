package routing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/transitdraft/transitdraft/pkg/geo"
	"github.com/transitdraft/transitdraft/pkg/util"
)

const defaultNominatimAddress = "https://nominatim.openstreetmap.org"

// Geocoder suggests a display name for a map point. Purely advisory: used
// to pre-fill a newly drafted stop's name, and allowed to fail.
type Geocoder interface {
	SuggestName(ctx context.Context, location geo.Location) (string, error)
}

// NominatimGeocoder reverse-geocodes against a Nominatim instance.
type NominatimGeocoder struct {
	Address string

	httpClient *http.Client
}

func NewNominatimGeocoder() *NominatimGeocoder {
	env := util.GetEnvironmentVariables()

	address := defaultNominatimAddress
	if env["TRANSITDRAFT_NOMINATIM_ADDRESS"] != "" {
		address = env["TRANSITDRAFT_NOMINATIM_ADDRESS"]
	}

	return &NominatimGeocoder{
		Address: address,

		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

type nominatimReverseResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Road          string `json:"road"`
		Neighbourhood string `json:"neighbourhood"`
		Suburb        string `json:"suburb"`
	} `json:"address"`
}

func (g *NominatimGeocoder) SuggestName(ctx context.Context, location geo.Location) (string, error) {
	url := fmt.Sprintf(
		"%s/reverse?format=jsonv2&lat=%f&lon=%f&zoom=17",
		g.Address, location.Latitude, location.Longitude,
	)

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	request.Header.Set("User-Agent", "transitdraft")

	response, err := g.httpClient.Do(request)
	if err != nil {
		return "", err
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return "", fmt.Errorf("geocoder returned %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", err
	}

	var reverseResponse nominatimReverseResponse
	if err := json.Unmarshal(body, &reverseResponse); err != nil {
		return "", err
	}

	for _, candidate := range []string{
		reverseResponse.Address.Road,
		reverseResponse.Name,
		reverseResponse.Address.Neighbourhood,
		reverseResponse.Address.Suburb,
		reverseResponse.DisplayName,
	} {
		if candidate != "" {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("geocoder returned no usable name")
}
