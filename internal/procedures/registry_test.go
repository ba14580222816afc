package procedures

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCatalogOnly(t *testing.T) {
	r := NewRegistry("", zerolog.Nop())

	rate, ok := r.RoomRate(context.Background(), "Angioplasty")
	require.True(t, ok)
	assert.Equal(t, "4000", rate.String())

	_, ok = r.RoomRate(context.Background(), "unknown")
	assert.False(t, ok)
}

func TestRegistryRemoteWithCacheAndFallback(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		hits.Add(1)
		if req.URL.Path != "/procedures/Hip Resurfacing" {
			http.NotFound(w, req)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Hip Resurfacing","standard_room_rate":3500}`))
	}))
	defer srv.Close()

	r := NewRegistry(srv.URL, zerolog.Nop())
	ctx := context.Background()

	rate, ok := r.RoomRate(ctx, "Hip Resurfacing")
	require.True(t, ok)
	assert.Equal(t, "3500", rate.String())

	_, ok = r.RoomRate(ctx, "Hip Resurfacing")
	require.True(t, ok)
	assert.Equal(t, int32(1), hits.Load(), "second lookup is served from cache")

	// Remote 404 falls back to the catalog.
	rate, ok = r.RoomRate(ctx, "Appendectomy")
	require.True(t, ok)
	assert.Equal(t, "1500", rate.String())
}

func TestRegistryRoomRates(t *testing.T) {
	r := NewRegistry("", zerolog.Nop())
	got := r.RoomRates(context.Background(), []string{"Colonoscopy", "Thyroidectomy", "nope"})
	require.Len(t, got, 2)
	assert.Equal(t, "1200", got["Colonoscopy"].String())
	assert.Equal(t, "1600", got["Thyroidectomy"].String())
}
