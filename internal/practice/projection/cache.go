package projection

import (
	"encoding/json"
	"fmt"

	"github.com/coocood/freecache"
)

const (
	// 10 MB is plenty for cached series payloads
	DefaultCacheSize    = 10 * 1024 * 1024
	defaultCacheExpireS = 5 * 60
)

// SeriesCache keeps recently computed series. Projections are pure
// transforms over the stored instances, so a cached entry stays valid
// until new instances come in; a short TTL covers that instead of
// explicit invalidation bookkeeping.
type SeriesCache struct {
	cache   *freecache.Cache
	expireS int
}

func NewSeriesCache(sizeBytes int) *SeriesCache {
	if sizeBytes <= 0 {
		sizeBytes = DefaultCacheSize
	}
	return &SeriesCache{
		cache:   freecache.NewCache(sizeBytes),
		expireS: defaultCacheExpireS,
	}
}

func cacheKey(activityID string, params Params) []byte {
	return []byte(fmt.Sprintf("%s|%s|%s|%s", activityID, params.MetricID, params.Mode, params.Split))
}

func (sc *SeriesCache) Get(activityID string, params Params) (*Series, bool) {
	seriesJson, err := sc.cache.Get(cacheKey(activityID, params))
	if err != nil {
		// freecache returns an error for a plain miss as well
		return nil, false
	}
	var series Series
	if err := json.Unmarshal(seriesJson, &series); err != nil {
		return nil, false
	}
	return &series, true
}

func (sc *SeriesCache) Set(activityID string, params Params, series Series) error {
	seriesJson, err := json.Marshal(series)
	if err != nil {
		return fmt.Errorf("marshal series: %w", err)
	}
	return sc.cache.Set(cacheKey(activityID, params), seriesJson, sc.expireS)
}

// Clear drops all cached series, e.g. after a new instance was recorded.
// freecache has no prefix scan, and at this cache size and hit pattern
// clearing everything is acceptable.
func (sc *SeriesCache) Clear() {
	sc.cache.Clear()
}
