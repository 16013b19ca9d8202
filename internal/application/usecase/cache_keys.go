package usecase

import (
	"fmt"
	"strings"
	"time"
)

const (
	cacheKeyConditions     = "ocean:conditions"
	cacheKeySustainability = "sustainability:snapshot"
)

// bucketedCacheKey строит ключ кеша, округляя время до минуты для лучшего hit rate
func bucketedCacheKey(prefix string, now time.Time, parts ...string) string {
	bucket := now.Truncate(time.Minute).Unix()
	if len(parts) == 0 {
		return fmt.Sprintf("%s:%d", prefix, bucket)
	}
	return fmt.Sprintf("%s:%s:%d", prefix, strings.Join(parts, ":"), bucket)
}
