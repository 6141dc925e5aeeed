package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rescuesim/rescue-engine/pkg/rescue"
	"github.com/rescuesim/rescue-engine/pkg/storage"
)

// Collection key prefixes. Each document lives under "<prefix>:<id>" with
// its id also held in the "<prefix>:index" set.
const (
	prefixRescue  = "rescue"
	prefixLibrary = "rescue_library"
	prefixStories = "rescue_stories"
)

// RedisStore implements the Store interface over Redis, one JSON document
// per entity.
type RedisStore struct {
	client *redis.Client
	logger *slog.Logger
}

// Ensure RedisStore implements Store interface
var _ storage.Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis store from a redis:// URL.
func NewRedisStore(redisURL string, logger *slog.Logger) (*RedisStore, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisStore{
		client: redis.NewClient(opt),
		logger: logger,
	}, nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStore) WaitForConnection(ctx context.Context) error {
	maxRetries := 30
	retryDelay := 2 * time.Second

	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)
			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}
		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

// Client exposes the underlying client for the pub/sub broadcaster.
func (r *RedisStore) Client() *redis.Client {
	return r.client
}

// generic document helpers

func (r *RedisStore) save(ctx context.Context, prefix, id string, doc any) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal %s document: %w", prefix, err)
	}
	key := prefix + ":" + id
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, string(data), 0)
	pipe.SAdd(ctx, prefix+":index", id)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save document", "key", key, "error", err)
		return fmt.Errorf("failed to save %s document: %w", prefix, err)
	}
	return nil
}

// get unmarshals a document into out. found is false when the key is absent.
func (r *RedisStore) get(ctx context.Context, prefix, id string, out any) (bool, error) {
	key := prefix + ":" + id
	data, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		r.logger.Error("Failed to load document", "key", key, "error", err)
		return false, fmt.Errorf("failed to load %s document: %w", prefix, err)
	}
	if err := json.Unmarshal([]byte(data), out); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s document: %w", prefix, err)
	}
	return true, nil
}

func (r *RedisStore) remove(ctx context.Context, prefix, id string) error {
	pipe := r.client.TxPipeline()
	pipe.Del(ctx, prefix+":"+id)
	pipe.SRem(ctx, prefix+":index", id)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete %s document: %w", prefix, err)
	}
	return nil
}

func (r *RedisStore) ids(ctx context.Context, prefix string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, prefix+":index").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list %s collection: %w", prefix, err)
	}
	return ids, nil
}

// Rescue items

func (r *RedisStore) GetRescue(ctx context.Context, id string) (*rescue.RescueItem, error) {
	var item rescue.RescueItem
	found, err := r.get(ctx, prefixRescue, id, &item)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

func (r *RedisStore) ListRescues(ctx context.Context) ([]rescue.RescueItem, error) {
	ids, err := r.ids(ctx, prefixRescue)
	if err != nil {
		return nil, err
	}
	out := make([]rescue.RescueItem, 0, len(ids))
	for _, id := range ids {
		item, err := r.GetRescue(ctx, id)
		if err != nil {
			return nil, err
		}
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *RedisStore) SaveRescue(ctx context.Context, item *rescue.RescueItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	return r.save(ctx, prefixRescue, item.ID, item)
}

func (r *RedisStore) DeleteRescue(ctx context.Context, id string) error {
	return r.remove(ctx, prefixRescue, id)
}

// Library items

func (r *RedisStore) GetLibraryItem(ctx context.Context, id string) (*rescue.LibraryItem, error) {
	var item rescue.LibraryItem
	found, err := r.get(ctx, prefixLibrary, id, &item)
	if err != nil || !found {
		return nil, err
	}
	return &item, nil
}

func (r *RedisStore) ListLibraryItems(ctx context.Context) ([]rescue.LibraryItem, error) {
	ids, err := r.ids(ctx, prefixLibrary)
	if err != nil {
		return nil, err
	}
	out := make([]rescue.LibraryItem, 0, len(ids))
	for _, id := range ids {
		item, err := r.GetLibraryItem(ctx, id)
		if err != nil {
			return nil, err
		}
		if item != nil {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (r *RedisStore) ListLibraryChildren(ctx context.Context, parentID *string) ([]rescue.LibraryItem, error) {
	items, err := r.ListLibraryItems(ctx)
	if err != nil {
		return nil, err
	}
	out := items[:0]
	for _, item := range items {
		switch {
		case parentID == nil && item.ParentID == nil:
			out = append(out, item)
		case parentID != nil && item.ParentID != nil && *item.ParentID == *parentID:
			out = append(out, item)
		}
	}
	return out, nil
}

func (r *RedisStore) SaveLibraryItem(ctx context.Context, item *rescue.LibraryItem) error {
	return r.save(ctx, prefixLibrary, item.ID, item)
}

func (r *RedisStore) DeleteLibraryItem(ctx context.Context, id string) error {
	return r.remove(ctx, prefixLibrary, id)
}

// Stories

func (r *RedisStore) GetStory(ctx context.Context, id string) (*rescue.Story, error) {
	var story rescue.Story
	found, err := r.get(ctx, prefixStories, id, &story)
	if err != nil || !found {
		return nil, err
	}
	return &story, nil
}

func (r *RedisStore) ListStories(ctx context.Context, rescueID string) ([]rescue.Story, error) {
	ids, err := r.ids(ctx, prefixStories)
	if err != nil {
		return nil, err
	}
	var out []rescue.Story
	for _, id := range ids {
		story, err := r.GetStory(ctx, id)
		if err != nil {
			return nil, err
		}
		if story != nil && story.RescueID == rescueID {
			out = append(out, *story)
		}
	}
	rescue.SortStories(out)
	return out, nil
}

func (r *RedisStore) SaveStory(ctx context.Context, story *rescue.Story) error {
	return r.save(ctx, prefixStories, story.ID, story)
}

func (r *RedisStore) DeleteStory(ctx context.Context, id string) error {
	return r.remove(ctx, prefixStories, id)
}
