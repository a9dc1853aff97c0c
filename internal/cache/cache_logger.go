package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern invalidates a cache pattern, logging instead of
// failing the caller on error.
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete deletes cache keys, logging instead of failing the caller.
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// InvalidateSubjectCache drops all cache entries for one subject.
func InvalidateSubjectCache(ctx context.Context, cm *CacheManager, subjectID uint, code uint32) {
	SafeDelete(ctx, cm.Subject,
		fmt.Sprintf("id:%d", subjectID),
		fmt.Sprintf("code:%d", code))
	SafeInvalidatePattern(ctx, cm.Subject, "list:*")
	SafeInvalidatePattern(ctx, cm.Stats, fmt.Sprintf("subject:%d:*", subjectID))
}

// InvalidateAggregateCache drops the relation-table entries for a code.
func InvalidateAggregateCache(ctx context.Context, cm *CacheManager, code uint32) {
	SafeDelete(ctx, cm.Aggregate, fmt.Sprintf("code:%d", code))
	SafeInvalidatePattern(ctx, cm.Aggregate, "subject:*")
}
