package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"telegram-group-guardian/internal/usecase"
)

// Compile-time check
var _ usecase.AdminCache = (*AdminCache)(nil)

// AdminCache holds the per-chat admin id set with a short TTL so privileged
// commands don't hit the chat platform on every invocation.
type AdminCache struct {
	client Client
}

func NewAdminCache(client Client) *AdminCache {
	return &AdminCache{client: client}
}

func adminKey(chatID int64) string {
	return fmt.Sprintf("admins:%d", chatID)
}

func (c *AdminCache) Get(ctx context.Context, chatID int64) ([]int64, bool, error) {
	data, err := c.client.Get(ctx, adminKey(chatID))
	if errors.Is(err, ErrMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var admins []int64
	if err := json.Unmarshal([]byte(data), &admins); err != nil {
		return nil, false, err
	}
	return admins, true, nil
}

func (c *AdminCache) Set(ctx context.Context, chatID int64, admins []int64, ttl time.Duration) error {
	data, err := json.Marshal(admins)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, adminKey(chatID), data, ttl)
}

func (c *AdminCache) Invalidate(ctx context.Context, chatID int64) error {
	return c.client.Del(ctx, adminKey(chatID))
}
