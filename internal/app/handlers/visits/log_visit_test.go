package visits

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mareblu/internal/app/policies"
	"mareblu/internal/infra/storage/memory"
)

type geoStub struct {
	loc policies.GeoLocation
	err error
}

func (g geoStub) Resolve(context.Context, string) (policies.GeoLocation, error) {
	return g.loc, g.err
}

func TestLogVisitResolvesLocation(t *testing.T) {
	log := memory.NewVisitLog()
	h := &LogVisitHandler{
		Geo:      geoStub{loc: policies.GeoLocation{Country: "Italy", City: "Palermo"}},
		VisitLog: log,
	}

	result, err := h.Handle(context.Background(), LogVisitCommand{Path: "/gallery", IP: "203.0.113.7"})
	require.NoError(t, err)
	assert.Equal(t, "Italy", result.Country)

	recent, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "/gallery", recent[0].Path)
	assert.Equal(t, "Palermo", recent[0].Location.City)
}

func TestLogVisitDegradesWhenGeoFails(t *testing.T) {
	log := memory.NewVisitLog()
	h := &LogVisitHandler{
		Geo:      geoStub{err: errors.New("lookup down")},
		VisitLog: log,
	}

	result, err := h.Handle(context.Background(), LogVisitCommand{Path: "/", IP: "203.0.113.7"})
	require.NoError(t, err)
	assert.Empty(t, result.Country)

	recent, err := log.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Empty(t, recent[0].Location.Country)
}

func TestLogVisitRequiresPath(t *testing.T) {
	h := &LogVisitHandler{VisitLog: memory.NewVisitLog()}
	_, err := h.Handle(context.Background(), LogVisitCommand{})
	assert.ErrorIs(t, err, ErrPathRequired)
}
