package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mareblu/internal/app/policies"
)

func TestSendQuoteEmailPostsPayload(t *testing.T) {
	var received quotePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTP: srv.Client()}
	err := c.SendQuoteEmail(context.Background(), policies.QuoteEmail{
		To:        "guest@example.com",
		GuestName: "Anna",
		Subject:   "Quote",
		Body:      "total 440",
	})
	require.NoError(t, err)
	assert.Equal(t, "guest@example.com", received.To)
	assert.Equal(t, "Anna", received.GuestName)
	assert.Equal(t, "total 440", received.Body)
}

func TestSendQuoteEmailRejectedByService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid recipient", http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := &Client{Endpoint: srv.URL, HTTP: srv.Client()}
	err := c.SendQuoteEmail(context.Background(), policies.QuoteEmail{To: "nope"})
	assert.ErrorContains(t, err, "invalid recipient")
}

func TestSendQuoteEmailRequiresEndpoint(t *testing.T) {
	c := &Client{HTTP: http.DefaultClient}
	err := c.SendQuoteEmail(context.Background(), policies.QuoteEmail{To: "guest@example.com"})
	assert.Error(t, err)
}
