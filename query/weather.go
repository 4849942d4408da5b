package query

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/rmrobinson/openweather/config"
	"go.uber.org/zap"
)

// DefaultWeatherBaseURL is the root of the OpenWeather data API.
const DefaultWeatherBaseURL = "https://api.openweathermap.org/data"

const (
	oneCallPath = "/3.0/onecall"
	classicPath = "/2.5/weather"
	units       = "metric"
)

var appIDRegex = regexp.MustCompile(`appid=[^&]*`)

// Weather is the unparsed body returned by the weather provider.
type Weather struct {
	Body string
}

// Fetcher queries the weather provider for a resolved geometry.
type Fetcher struct {
	logger  *zap.Logger
	client  *http.Client
	baseURL string
}

// NewFetcher creates a new fetcher querying the provider rooted at baseURL.
func NewFetcher(logger *zap.Logger, client *http.Client, baseURL string) *Fetcher {
	return &Fetcher{
		logger:  logger,
		client:  client,
		baseURL: baseURL,
	}
}

// URL builds the provider query for the supplied config and geometry.
// Coordinates use the onecall endpoint, cities the classic weather endpoint.
func (f *Fetcher) URL(cfg *config.Config, geo Geometry) (string, error) {
	var b strings.Builder
	b.WriteString(f.baseURL)

	switch g := geo.(type) {
	case Location:
		b.WriteString(oneCallPath)
		b.WriteString("?appid=" + url.QueryEscape(cfg.APIKey))
		b.WriteString("&lat=" + strconv.FormatFloat(g.Lat, 'f', -1, 64))
		b.WriteString("&lon=" + strconv.FormatFloat(g.Lon, 'f', -1, 64))
	case City:
		b.WriteString(classicPath)
		b.WriteString("?appid=" + url.QueryEscape(cfg.APIKey))
		b.WriteString("&q=" + url.QueryEscape(g.Name) + "," + url.QueryEscape(g.CountryCode))
	default:
		return "", errors.Errorf("unsupported geometry %T", geo)
	}

	b.WriteString("&units=" + units)

	if exclude := excludeList(cfg); len(exclude) > 0 {
		b.WriteString("&exclude=" + strings.Join(exclude, ","))
	}

	u, err := url.Parse(b.String())
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// Fetch performs the weather query and returns the body as-is, whatever the response status.
func (f *Fetcher) Fetch(ctx context.Context, cfg *config.Config, geo Geometry) (*Weather, error) {
	u, err := f.URL(cfg, geo)
	if err != nil {
		return nil, err
	}

	f.logger.Info("querying weather",
		zap.String("url", redactAppID(u)),
		zap.Stringer("geometry", geo),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, &TransportError{Service: serviceWeather, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Warn("error performing weather request",
			zap.Error(err),
		)
		return nil, &TransportError{Service: serviceWeather, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Service: serviceWeather, Err: errors.Wrap(err, "reading response body")}
	}

	f.logger.Debug("received weather response",
		zap.Int("status_code", resp.StatusCode),
		zap.Int("length", len(body)),
	)
	return &Weather{Body: string(body)}, nil
}

func excludeList(cfg *config.Config) []string {
	var exclude []string
	if !cfg.Minutely {
		exclude = append(exclude, "minutely")
	}
	if !cfg.Hourly {
		exclude = append(exclude, "hourly")
	}
	if !cfg.Daily {
		exclude = append(exclude, "daily")
	}
	return exclude
}

func redactAppID(u string) string {
	return appIDRegex.ReplaceAllString(u, "appid=REDACTED")
}
