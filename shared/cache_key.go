package shared

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"strings"

	"workspace/shared/cache"
	"workspace/shared/dto"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// BuildCacheKeyWithQuery keys a list query by its pagination and a hash of its filter.
func BuildCacheKeyWithQuery(prefix string, params dto.QueryParams, filter dto.FilterGroup) string {
	where, args := filter.GetWhereClause()

	raw, err := json.Marshal(args)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal filter args for cache key")
	}

	hash := fnv.New64a()
	_, _ = hash.Write([]byte(where))
	_, _ = hash.Write(raw)

	return BuildCacheKey(prefix,
		fmt.Sprintf("%d", params.Page),
		fmt.Sprintf("%d", params.Limit),
		params.SortBy,
		params.SortDir,
		fmt.Sprintf("%x", hash.Sum64()),
	)
}

func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if err := redisCache.Clear(ctx, prefix+cacheKeySeparator+"*"); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}
