package query

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
	"github.com/rmrobinson/openweather/config"
	"go.uber.org/zap"
)

// DefaultGeolocationEndpoint is the public IP geolocation lookup used to find the caller.
const DefaultGeolocationEndpoint = "http://ip-api.com/json/"

// Geometry describes where to query the weather for. It is either a Location or a City.
type Geometry interface {
	fmt.Stringer
	isGeometry()
}

// Location is a geometry described by coordinates.
type Location struct {
	Lat float64
	Lon float64
}

func (Location) isGeometry() {}

func (l Location) String() string {
	return fmt.Sprintf("location(%v, %v)", l.Lat, l.Lon)
}

// City is a geometry described by a city name and its ISO country code.
type City struct {
	Name        string
	CountryCode string
}

func (City) isGeometry() {}

func (c City) String() string {
	return fmt.Sprintf("city(%s, %s)", c.Name, c.CountryCode)
}

// Resolver derives the caller's geometry from their public IP address.
type Resolver struct {
	logger   *zap.Logger
	client   *http.Client
	endpoint string
}

// NewResolver creates a new resolver querying the supplied geolocation endpoint.
func NewResolver(logger *zap.Logger, client *http.Client, endpoint string) *Resolver {
	return &Resolver{
		logger:   logger,
		client:   client,
		endpoint: endpoint,
	}
}

// Resolve performs a single geolocation lookup and extracts the fields the mode needs.
func (r *Resolver) Resolve(ctx context.Context, mode config.GeometryMode) (Geometry, error) {
	doc, err := r.lookup(ctx)
	if err != nil {
		return nil, &TransportError{Service: serviceGeolocation, Err: err}
	}

	switch mode {
	case config.GeometryModeLocation:
		lat, err := field(doc, "lat", asFloat)
		if err != nil {
			return nil, err
		}
		lon, err := field(doc, "lon", asFloat)
		if err != nil {
			return nil, err
		}
		return Location{Lat: lat, Lon: lon}, nil
	case config.GeometryModeCity:
		city, err := field(doc, "city", asString)
		if err != nil {
			return nil, err
		}
		countryCode, err := field(doc, "countryCode", asString)
		if err != nil {
			return nil, err
		}
		return City{Name: city, CountryCode: countryCode}, nil
	}

	return nil, errors.Wrapf(config.ErrUnknownGeometryMode, "%q", mode)
}

func (r *Resolver) lookup(ctx context.Context) (map[string]interface{}, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := r.client.Do(req)
	if err != nil {
		r.logger.Warn("error performing geolocation request",
			zap.String("endpoint", r.endpoint),
			zap.Error(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		r.logger.Info("received non-OK geolocation response",
			zap.Int("status_code", resp.StatusCode),
		)
		return nil, errors.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "reading response body")
	}

	var doc map[string]interface{}
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrap(err, "decoding response body")
	}
	if doc == nil {
		return nil, errors.New("response body is not a JSON object")
	}

	r.logger.Info("geolocation response",
		zap.String("doc", spew.Sdump(doc)),
	)
	return doc, nil
}
