package cache

import (
	"context"
	"fmt"
	"log/slog"
)

// SafeInvalidatePattern safely invalidates cache pattern with logging
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		slog.ErrorContext(ctx, "Failed to invalidate cache pattern",
			"error", err,
			"pattern", pattern)
	}
}

// SafeDelete safely deletes cache keys with logging
func SafeDelete(ctx context.Context, helper *CacheHelper, keys ...string) {
	if err := helper.Delete(ctx, keys...); err != nil {
		slog.ErrorContext(ctx, "Failed to delete cache keys",
			"error", err,
			"keys", keys)
	}
}

// BatchInvalidate invalidates multiple patterns in batch
func BatchInvalidate(ctx context.Context, helper *CacheHelper, patterns []string) error {
	var lastErr error
	for _, pattern := range patterns {
		if err := helper.InvalidatePattern(ctx, pattern); err != nil {
			lastErr = err
			slog.ErrorContext(ctx, "Failed to invalidate pattern in batch",
				"error", err,
				"pattern", pattern)
		}
	}
	return lastErr
}

// InvalidateQuizCache invalidates quiz caches after authoring writes
func InvalidateQuizCache(ctx context.Context, cm *CacheManager, quizID uint, ownerID string) {
	SafeDelete(ctx, cm.Quiz,
		fmt.Sprintf("id:%d", quizID),
		fmt.Sprintf("questions:%d", quizID),
		fmt.Sprintf("questions:%d:states", quizID))

	SafeInvalidatePattern(ctx, cm.Quiz, fmt.Sprintf("owner:%s:*", ownerID))
	SafeInvalidatePattern(ctx, cm.Quiz, "list:*")
}

// InvalidateQuestionCache invalidates all question-related caches
func InvalidateQuestionCache(ctx context.Context, cm *CacheManager, questionID uint, authorID string) {
	SafeDelete(ctx, cm.Question, fmt.Sprintf("id:%d", questionID))
	SafeInvalidatePattern(ctx, cm.Question, fmt.Sprintf("author:%s:*", authorID))
	SafeInvalidatePattern(ctx, cm.Question, "list:*")
}

// InvalidateScheduleCache invalidates schedule reads after a slot is
// created or tagged
func InvalidateScheduleCache(ctx context.Context, cm *CacheManager, teacherID, divisionID uint) {
	SafeInvalidatePattern(ctx, cm.Schedule, fmt.Sprintf("teacher:%d:*", teacherID))
	SafeInvalidatePattern(ctx, cm.Schedule, fmt.Sprintf("division:%d:*", divisionID))
	SafeInvalidatePattern(ctx, cm.Schedule, "list:*")
}
