package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

// minutesPerDay is the number of time-of-day slots a tip list is spread over.
const minutesPerDay = 24 * 60

// defaultTips seeds each weekday when Redis holds no curated list yet.
var defaultTips = map[time.Weekday][]string{
	time.Sunday:    {"Try searching by artist name", "Browse the light_novel genre"},
	time.Monday:    {"Search supports typos, just type", "Filter the feed by up to five tags"},
	time.Tuesday:   {"Tags are case-sensitive", "Like an artwork to find it under Likes"},
	time.Wednesday: {"Create lists to organize artworks", "Search titles and descriptions together"},
	time.Thursday:  {"Browse manga sorted newest first", "Dislikes stay private to you"},
	time.Friday:    {"Combine search with a type filter", "Your lists sync across devices instantly"},
	time.Saturday:  {"Rediscover your Likes list", "Artists appear in search results too"},
}

// fallbackTip is served when Redis is unreachable or a weekday list is empty.
const fallbackTip = "Search for artworks, tags, or artists"

// TipService serves the rotating placeholder tip shown in the search box.
// Each weekday has its own Redis list; the day is split into equal
// time-of-day slots so the tip changes over the day without storing state.
type TipService struct {
	client *redis.Client
	logger *slog.Logger
}

// NewTipService creates a new tip service.
func NewTipService(client *redis.Client, logger *slog.Logger) *TipService {
	return &TipService{
		client: client,
		logger: logger,
	}
}

// tipKey is the Redis list key for a weekday.
func tipKey(day time.Weekday) string {
	return "tips:" + strings.ToLower(day.String())
}

// Tip returns the placeholder tip for the given moment. Falls back to a
// static tip when Redis is unreachable or not configured.
func (s *TipService) Tip(ctx context.Context, now time.Time) string {
	if s == nil || s.client == nil {
		return fallbackTip
	}

	tips, err := s.client.LRange(ctx, tipKey(now.Weekday()), 0, -1).Result()
	if err != nil {
		s.logger.Warn("failed to load tips", "error", err)
		return fallbackTip
	}
	if len(tips) == 0 {
		return fallbackTip
	}

	return tips[pickTipIndex(now, len(tips))]
}

// pickTipIndex maps a time of day onto a list index. The day is divided
// into len(tips) equal slots; every slot maps to one tip in order.
func pickTipIndex(now time.Time, count int) int {
	if count <= 1 {
		return 0
	}
	minutes := now.Hour()*60 + now.Minute()
	slot := minutes / (minutesPerDay / count)
	return slot % count
}

// SeedDefaults populates any weekday lists that are still empty. Curated
// lists already in Redis are left untouched.
func (s *TipService) SeedDefaults(ctx context.Context) error {
	if s == nil || s.client == nil {
		return nil
	}

	for day, tips := range defaultTips {
		key := tipKey(day)
		count, err := s.client.LLen(ctx, key).Result()
		if err != nil {
			return fmt.Errorf("check tip list %s: %w", key, err)
		}
		if count > 0 {
			continue
		}

		values := make([]interface{}, len(tips))
		for i, tip := range tips {
			values[i] = tip
		}
		if err := s.client.RPush(ctx, key, values...).Err(); err != nil {
			return fmt.Errorf("seed tip list %s: %w", key, err)
		}
	}
	return nil
}
