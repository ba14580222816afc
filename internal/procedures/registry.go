package procedures

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// Registry resolves standard room rates for procedures. When a remote
// registry is configured it is asked first; any failure falls back to the
// built-in catalog. Remote answers are cached for the life of the process.
type Registry struct {
	baseURL string
	client  *http.Client
	cache   sync.Map
	logger  zerolog.Logger
}

func NewRegistry(baseURL string, logger zerolog.Logger) *Registry {
	r := &Registry{baseURL: baseURL, logger: logger}
	if baseURL != "" {
		r.client = &http.Client{
			Timeout: 2 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 100,
				IdleConnTimeout:     90 * time.Second,
			},
		}
	}
	return r
}

type procedureResponse struct {
	Name             string          `json:"name"`
	StandardRoomRate decimal.Decimal `json:"standard_room_rate"`
}

// RoomRate returns the standard room rate for a procedure, or false when
// neither the remote registry nor the catalog knows it.
func (r *Registry) RoomRate(ctx context.Context, name string) (decimal.Decimal, bool) {
	if r.client == nil {
		return catalogRate(name)
	}
	if v, ok := r.cache.Load(name); ok {
		return v.(decimal.Decimal), true
	}
	rate, err := r.fetch(ctx, name)
	if err != nil {
		r.logger.Debug().Err(err).Str("procedure", name).Msg("procedure registry lookup failed")
		return catalogRate(name)
	}
	r.cache.Store(name, rate)
	return rate, true
}

// RoomRates resolves several procedures concurrently. Unknown names are
// left out of the result.
func (r *Registry) RoomRates(ctx context.Context, names []string) map[string]decimal.Decimal {
	result := make(map[string]decimal.Decimal, len(names))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, name := range names {
		name := name
		g.Go(func() error {
			rate, ok := r.RoomRate(gctx, name)
			if !ok {
				return nil
			}
			mu.Lock()
			result[name] = rate
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return result
}

func (r *Registry) fetch(ctx context.Context, name string) (decimal.Decimal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/procedures/"+url.PathEscape(name), nil)
	if err != nil {
		return decimal.Zero, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return decimal.Zero, fmt.Errorf("procedure registry: status %d", resp.StatusCode)
	}

	var pr procedureResponse
	if err := json.NewDecoder(resp.Body).Decode(&pr); err != nil {
		return decimal.Zero, fmt.Errorf("procedure registry: decode: %w", err)
	}
	if !pr.StandardRoomRate.IsPositive() {
		return decimal.Zero, fmt.Errorf("procedure registry: no room rate for %q", name)
	}
	return pr.StandardRoomRate, nil
}

func catalogRate(name string) (decimal.Decimal, bool) {
	p, ok := Lookup(name)
	if !ok {
		return decimal.Zero, false
	}
	return p.StandardRoomRate, true
}
