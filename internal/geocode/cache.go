package geocode

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// cacheTTL bounds how long a resolved coordinate pair is reused. ZIP
// centroids are effectively static; the TTL just keeps stale manual
// corrections from living forever.
const cacheTTL = 30 * 24 * time.Hour

// Cached wraps a Geocoder with a Redis lookaside cache so repeated lookups
// during sync and search do not re-hit the backend. Only successful
// resolutions are cached; misses always fall through.
type Cached struct {
	next Geocoder
	rdb  *redis.Client
}

// NewCached wraps next with the cache.
func NewCached(next Geocoder, rdb *redis.Client) *Cached {
	return &Cached{next: next, rdb: rdb}
}

// Resolve serves from cache when possible, otherwise asks the wrapped
// backend and stores its answer. Cache errors degrade to a plain backend
// call.
func (c *Cached) Resolve(ctx context.Context, locator string) (Coordinates, bool) {
	key := "geocode:" + strings.ToLower(strings.TrimSpace(locator))

	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil {
		if coords, ok := parseCached(cached); ok {
			return coords, true
		}
	} else if err != redis.Nil {
		log.Printf("[geocode] Cache read for %q: %v", locator, err)
	}

	coords, ok := c.next.Resolve(ctx, locator)
	if !ok {
		return Coordinates{}, false
	}

	val := fmt.Sprintf("%g,%g", coords.Latitude, coords.Longitude)
	if err := c.rdb.Set(ctx, key, val, cacheTTL).Err(); err != nil {
		log.Printf("[geocode] Cache write for %q: %v", locator, err)
	}
	return coords, true
}

func parseCached(s string) (Coordinates, bool) {
	lat, lng, found := strings.Cut(s, ",")
	if !found {
		return Coordinates{}, false
	}
	latV, err1 := strconv.ParseFloat(lat, 64)
	lngV, err2 := strconv.ParseFloat(lng, 64)
	if err1 != nil || err2 != nil {
		return Coordinates{}, false
	}
	return Coordinates{Latitude: latV, Longitude: lngV}, true
}
