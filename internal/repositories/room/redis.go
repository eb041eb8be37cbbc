package room

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/redis/go-redis/v9"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

const (
	// Key prefixes for Redis
	roomKeyPrefix = "room:"
	roomIndexKey  = "rooms"
)

// ErrRoomNotFound is returned when a room has no stored record
var ErrRoomNotFound = errors.New("room not found")

// Config holds configuration for the Redis room repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client

	// locks serializes WithRoom per room ID
	locks sync.Map // map[string]*sync.Mutex
}

// NewRedis creates a new Redis-backed room repository
func NewRedis(cfg *Config) (*redisRepository, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}

	if cfg.RedisClient == nil {
		return nil, errors.New("redis client cannot be nil")
	}

	// Test connection
	if err := cfg.RedisClient.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &redisRepository{
		client: cfg.RedisClient,
	}, nil
}

// GetRoom retrieves a room snapshot from Redis
func (r *redisRepository) GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	roomKey := fmt.Sprintf("%s%s", roomKeyPrefix, input.RoomID)
	roomJSON, err := r.client.Get(ctx, roomKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return r.decode(input.RoomID, roomJSON), nil
}

// WithRoom performs an exclusive read-modify-write on one room
func (r *redisRepository) WithRoom(ctx context.Context, roomID string, fn func(room *models.Room) error) error {
	if roomID == "" {
		return errors.New("room ID cannot be empty")
	}

	mu := r.lockFor(roomID)
	mu.Lock()
	defer mu.Unlock()

	roomKey := fmt.Sprintf("%s%s", roomKeyPrefix, roomID)

	var record *models.Room
	roomJSON, err := r.client.Get(ctx, roomKey).Result()
	switch {
	case err == redis.Nil:
		record = &models.Room{ID: roomID}
	case err != nil:
		return fmt.Errorf("failed to get room: %w", err)
	default:
		record = r.decode(roomID, roomJSON)
	}

	if err := fn(record); err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	if record.Empty() {
		pipe.Del(ctx, roomKey)
		pipe.SRem(ctx, roomIndexKey, roomID)
	} else {
		updated, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal room: %w", err)
		}
		pipe.Set(ctx, roomKey, updated, 0)
		pipe.SAdd(ctx, roomIndexKey, roomID)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save room: %w", err)
	}

	return nil
}

// ListRoomIDs returns every room ID with a stored record
func (r *redisRepository) ListRoomIDs(ctx context.Context) ([]string, error) {
	roomIDs, err := r.client.SMembers(ctx, roomIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list room IDs: %w", err)
	}
	return roomIDs, nil
}

// decode unmarshals a stored room record. A corrupted blob is logged and
// treated as an empty room so a bad record can never wedge a room forever.
func (r *redisRepository) decode(roomID, roomJSON string) *models.Room {
	var record models.Room
	if err := json.Unmarshal([]byte(roomJSON), &record); err != nil {
		log.Printf("Corrupt room record for %s, treating as empty: %v", roomID, err)
		return &models.Room{ID: roomID}
	}
	record.ID = roomID
	return &record
}

func (r *redisRepository) lockFor(roomID string) *sync.Mutex {
	mu, _ := r.locks.LoadOrStore(roomID, &sync.Mutex{})
	return mu.(*sync.Mutex)
}
