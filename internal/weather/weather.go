// Package weather fetches the current conditions from Open-Meteo. Lookups
// are best effort: any failure means no weather line, never an error on
// screen, and nothing is retried.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultBaseURL   = "https://api.open-meteo.com/v1/forecast"
	DefaultLatitude  = 37.835 // Moraga, CA
	DefaultLongitude = -122.13
	DefaultTimeout   = 5 * time.Second
	defaultTimezone  = "America/Los_Angeles"
)

// Icon is the coarse condition used to pick a glyph.
type Icon string

const (
	Sun   Icon = "sun"
	Cloud Icon = "cloud"
	Rain  Icon = "rain"
	Snow  Icon = "snow"
)

// Glyph returns a terminal symbol for the icon.
func (i Icon) Glyph() string {
	switch i {
	case Cloud:
		return "☁"
	case Rain:
		return "☂"
	case Snow:
		return "❄"
	default:
		return "☀"
	}
}

// Report is the current temperature and a short description.
type Report struct {
	TempF       int
	Code        int
	Description string
	Icon        Icon
}

// String renders the report as "62°F Partly cloudy".
func (r Report) String() string {
	return fmt.Sprintf("%d°F %s", r.TempF, r.Description)
}

// Classify maps a WMO weather code to a description and icon. Codes outside
// the rain, snow, cloud and fog ranges read as clear.
func Classify(code int) (string, Icon) {
	switch {
	case code >= 61 && code <= 67:
		return "Rain", Rain
	case code >= 71 && code <= 77:
		return "Snow", Snow
	case code >= 1 && code <= 3:
		return "Partly cloudy", Cloud
	case code >= 45 && code <= 48:
		return "Foggy", Cloud
	default:
		return "Clear", Sun
	}
}

// Client queries one fixed location.
type Client struct {
	http    *http.Client
	baseURL string
	lat     float64
	lon     float64
	log     *slog.Logger
}

// Options configure a Client. Zero values fall back to the defaults.
type Options struct {
	BaseURL   string
	Latitude  float64
	Longitude float64
	Timeout   time.Duration
	Logger    *slog.Logger
}

func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Latitude == 0 && opts.Longitude == 0 {
		opts.Latitude, opts.Longitude = DefaultLatitude, DefaultLongitude
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Client{
		http:    &http.Client{Timeout: opts.Timeout},
		baseURL: opts.BaseURL,
		lat:     opts.Latitude,
		lon:     opts.Longitude,
		log:     opts.Logger.With("component", "weather"),
	}
}

type forecast struct {
	Current struct {
		Temperature *float64 `json:"temperature_2m"`
		WeatherCode *int     `json:"weather_code"`
	} `json:"current"`
}

// Current fetches the conditions right now.
func (c *Client) Current(ctx context.Context) (Report, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return Report{}, fmt.Errorf("parse weather url: %w", err)
	}
	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(c.lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(c.lon, 'f', -1, 64))
	q.Set("current", "temperature_2m,weather_code")
	q.Set("temperature_unit", "fahrenheit")
	q.Set("timezone", defaultTimezone)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("build weather request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("fetch weather: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Report{}, fmt.Errorf("fetch weather: status %d", resp.StatusCode)
	}

	var f forecast
	if err := json.NewDecoder(resp.Body).Decode(&f); err != nil {
		return Report{}, fmt.Errorf("decode weather: %w", err)
	}

	if f.Current.Temperature == nil || f.Current.WeatherCode == nil {
		return Report{}, errors.New("decode weather: missing temperature or weather code")
	}

	r := Report{
		TempF: int(math.Round(*f.Current.Temperature)),
		Code:  *f.Current.WeatherCode,
	}
	r.Description, r.Icon = Classify(r.Code)
	return r, nil
}

// Lookup is Current with failures collapsed to ok=false.
func (c *Client) Lookup(ctx context.Context) (Report, bool) {
	r, err := c.Current(ctx)
	if err != nil {
		c.log.Info("weather unavailable", "error", err)
		return Report{}, false
	}
	c.log.Debug("weather fetched", "temp_f", r.TempF, "code", r.Code)
	return r, true
}
