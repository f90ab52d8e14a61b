package world

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/thesrcielos/TileMapServer/internal/apperrors"
	"github.com/thesrcielos/TileMapServer/internal/tilemap"
)

const eventsChannel = "map_events"

// wallSentinel keeps the wall set alive for maps without walls, so a missing
// key always means a cache miss.
const wallSentinel = "-"

var ErrCacheMiss = errors.New("map not cached")

type MapCacheRepository interface {
	CacheDocument(ctx context.Context, id string, data []byte) error
	GetCachedDocument(ctx context.Context, id string) ([]byte, error)
	StoreWalls(ctx context.Context, id string, walls []tilemap.GridCoord) error
	IsWall(ctx context.Context, id string, x, y int) (bool, error)
	Evict(ctx context.Context, id string) error
	PublishMapEvent(ctx context.Context, payload string)
	SubscribeMapEvents(ctx context.Context, handler func(MapEvent)) error
}

type RedisMapCacheRepository struct {
	db  *redis.Client
	ttl time.Duration
}

func NewMapCacheRepository(db *redis.Client, ttl time.Duration) *RedisMapCacheRepository {
	return &RedisMapCacheRepository{db: db, ttl: ttl}
}

func documentKey(id string) string {
	return fmt.Sprintf("map:%s:document", id)
}

func wallsKey(id string) string {
	return fmt.Sprintf("map:%s:walls", id)
}

func wallMember(x, y int) string {
	return strconv.Itoa(x) + "," + strconv.Itoa(y)
}

func (r *RedisMapCacheRepository) CacheDocument(ctx context.Context, id string, data []byte) error {
	if err := r.db.Set(ctx, documentKey(id), data, r.ttl).Err(); err != nil {
		return apperrors.NewAppError(500, "Error caching map", err)
	}
	return nil
}

// GetCachedDocument returns ErrCacheMiss when the document is not cached.
func (r *RedisMapCacheRepository) GetCachedDocument(ctx context.Context, id string) ([]byte, error) {
	val, err := r.db.Get(ctx, documentKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	} else if err != nil {
		return nil, apperrors.NewAppError(500, "Error getting cached map", err)
	}
	return val, nil
}

func (r *RedisMapCacheRepository) StoreWalls(ctx context.Context, id string, walls []tilemap.GridCoord) error {
	members := make([]interface{}, 0, len(walls)+1)
	members = append(members, wallSentinel)
	for _, w := range walls {
		members = append(members, wallMember(w.X, w.Y))
	}

	key := wallsKey(id)
	pipe := r.db.TxPipeline()
	pipe.Del(ctx, key)
	pipe.SAdd(ctx, key, members...)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return apperrors.NewAppError(500, "Error storing map walls", err)
	}
	return nil
}

// IsWall returns ErrCacheMiss when the wall set of the map is not cached.
func (r *RedisMapCacheRepository) IsWall(ctx context.Context, id string, x, y int) (bool, error) {
	key := wallsKey(id)
	pipe := r.db.Pipeline()
	exists := pipe.Exists(ctx, key)
	member := pipe.SIsMember(ctx, key, wallMember(x, y))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, apperrors.NewAppError(500, "Error checking wall", err)
	}
	if exists.Val() == 0 {
		return false, ErrCacheMiss
	}
	return member.Val(), nil
}

func (r *RedisMapCacheRepository) Evict(ctx context.Context, id string) error {
	if err := r.db.Del(ctx, documentKey(id), wallsKey(id)).Err(); err != nil {
		return apperrors.NewAppError(500, "Error evicting map", err)
	}
	return nil
}

func (r *RedisMapCacheRepository) PublishMapEvent(ctx context.Context, payload string) {
	err := r.db.Publish(ctx, eventsChannel, payload).Err()
	if err != nil {
		log.Println("Error publishing map event:", err)
	}
}

func (r *RedisMapCacheRepository) SubscribeMapEvents(ctx context.Context, handler func(MapEvent)) error {
	sub := r.db.Subscribe(ctx, eventsChannel)
	_, err := sub.Receive(ctx)
	if err != nil {
		log.Println("error subscribing", err)
		return fmt.Errorf("error subscribing %w", err)
	}

	ch := sub.Channel()

	log.Printf("Subscribed to %s channel", eventsChannel)
	go func() {
		for msg := range ch {
			var event MapEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Println("Error decoding map event:", err)
				continue
			}
			handler(event)
		}
	}()

	return nil
}
