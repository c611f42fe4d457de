package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrCacheMiss = errors.New("キャッシュが見つかりません")
)

// RoomStatusCache は客室の基底状態のキャッシュを管理する
// 予約の副作用・客室更新のたびに無効化される読み取り専用の高速経路
type RoomStatusCache struct {
	client *redis.Client
}

// NewRoomStatusCache は新しい RoomStatusCache インスタンスを作成する
func NewRoomStatusCache(client *redis.Client) *RoomStatusCache {
	return &RoomStatusCache{client: client}
}

// GetStatus は客室の状態をキャッシュから取得する
func (c *RoomStatusCache) GetStatus(ctx context.Context, roomID string) (string, error) {
	val, err := c.client.Get(ctx, c.statusKey(roomID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrCacheMiss
		}
		return "", fmt.Errorf("キャッシュ取得に失敗: %w", err)
	}
	return val, nil
}

// SetStatus は客室の状態をキャッシュに保存する
func (c *RoomStatusCache) SetStatus(ctx context.Context, roomID, status string, ttl time.Duration) error {
	if err := c.client.Set(ctx, c.statusKey(roomID), status, ttl).Err(); err != nil {
		return fmt.Errorf("キャッシュ保存に失敗: %w", err)
	}
	return nil
}

// Invalidate は客室のキャッシュを無効化する
func (c *RoomStatusCache) Invalidate(ctx context.Context, roomID string) error {
	if err := c.client.Del(ctx, c.statusKey(roomID)).Err(); err != nil {
		return fmt.Errorf("キャッシュ無効化に失敗: %w", err)
	}
	return nil
}

func (c *RoomStatusCache) statusKey(roomID string) string {
	return fmt.Sprintf("room:status:%s", roomID)
}
