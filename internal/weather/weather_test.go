package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		code int
		desc string
		icon Icon
	}{
		{0, "Clear", Sun},
		{1, "Partly cloudy", Cloud},
		{3, "Partly cloudy", Cloud},
		{45, "Foggy", Cloud},
		{48, "Foggy", Cloud},
		{51, "Clear", Sun},
		{61, "Rain", Rain},
		{67, "Rain", Rain},
		{71, "Snow", Snow},
		{77, "Snow", Snow},
		{95, "Clear", Sun},
	}
	for _, tt := range tests {
		desc, icon := Classify(tt.code)
		assert.Equal(t, tt.desc, desc, "code %d", tt.code)
		assert.Equal(t, tt.icon, icon, "code %d", tt.code)
	}
}

func TestCurrent(t *testing.T) {
	var query map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"current":{"temperature_2m":61.6,"weather_code":2}}`))
	}))
	defer srv.Close()

	c := NewClient(Options{BaseURL: srv.URL})
	r, err := c.Current(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 62, r.TempF)
	assert.Equal(t, "Partly cloudy", r.Description)
	assert.Equal(t, Cloud, r.Icon)
	assert.Equal(t, "62°F Partly cloudy", r.String())

	assert.Equal(t, []string{"37.835"}, query["latitude"])
	assert.Equal(t, []string{"-122.13"}, query["longitude"])
	assert.Equal(t, []string{"fahrenheit"}, query["temperature_unit"])
	assert.Equal(t, []string{"temperature_2m,weather_code"}, query["current"])
}

func TestCurrentMissingFieldsFail(t *testing.T) {
	bodies := []string{
		`{}`,
		`{"current":null}`,
		`{"current":{}}`,
		`{"current":{"temperature_2m":61.6}}`,
		`{"current":{"weather_code":2}}`,
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(body))
			}))
			defer srv.Close()

			c := NewClient(Options{BaseURL: srv.URL})
			_, err := c.Current(context.Background())
			assert.Error(t, err)
			_, ok := c.Lookup(context.Background())
			assert.False(t, ok)
		})
	}
}

func TestLookupFailures(t *testing.T) {
	handlers := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "down", http.StatusServiceUnavailable)
		},
		"garbage": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>`))
		},
		"slow": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
	}
	for name, h := range handlers {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(h)
			defer srv.Close()

			c := NewClient(Options{BaseURL: srv.URL, Timeout: 100 * time.Millisecond})
			_, ok := c.Lookup(context.Background())
			assert.False(t, ok)
		})
	}
}

func TestLookupCanceledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"current":{"temperature_2m":50,"weather_code":0}}`))
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := NewClient(Options{BaseURL: srv.URL}).Lookup(ctx)
	assert.False(t, ok)
}

func TestGlyph(t *testing.T) {
	assert.Equal(t, "☀", Sun.Glyph())
	assert.Equal(t, "❄", Snow.Glyph())
}
