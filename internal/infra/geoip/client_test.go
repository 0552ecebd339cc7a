package geoip

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveParsesLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/203.0.113.7", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"success","country":"Italy","regionName":"Sicilia","city":"Cefalù"}`))
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTP: srv.Client()}
	loc, err := c.Resolve(context.Background(), "203.0.113.7")
	require.NoError(t, err)
	assert.Equal(t, "Italy", loc.Country)
	assert.Equal(t, "Sicilia", loc.Region)
	assert.Equal(t, "Cefalù", loc.City)
}

func TestResolveFailedLookupStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"fail","message":"private range"}`))
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTP: srv.Client()}
	_, err := c.Resolve(context.Background(), "10.0.0.1")
	assert.ErrorContains(t, err, "private range")
}

func TestResolveRejectsEmptyIP(t *testing.T) {
	c := &Client{Endpoint: "http://example.invalid", HTTP: http.DefaultClient}
	_, err := c.Resolve(context.Background(), " ")
	assert.Error(t, err)
}

func TestResolveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTP: srv.Client()}
	_, err := c.Resolve(context.Background(), "203.0.113.7")
	assert.ErrorContains(t, err, "returned 500")
}
