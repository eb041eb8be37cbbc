package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/wombatlabs/wombat-combat/internal/models"
)

const (
	// Key prefixes for Redis
	playerKeyPrefix   = "player:"
	usernameKeyPrefix = "player_username:"
	roomPlayersPrefix = "room_players:"
	condemnedIndexKey = "condemned_players"

	// Optimistic transaction retry budget
	maxTxRetries = 5
)

// ErrPlayerNotFound is returned when a player is not found
var ErrPlayerNotFound = errors.New("player not found")

// Config holds configuration for the Redis player repository
type Config struct {
	// Redis client
	RedisClient *redis.Client
}

// redisRepository implements the Repository interface using Redis
type redisRepository struct {
	client *redis.Client
}

// NewRedis creates a new Redis-backed player repository
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

// SavePlayer persists a player to Redis
func (r *redisRepository) SavePlayer(ctx context.Context, input *SavePlayerInput) error {
	if input == nil || input.Player == nil {
		return errors.New("input and player cannot be nil")
	}

	p := input.Player
	if p.ID == "" || p.RoomID == "" {
		return errors.New("player ID and room ID cannot be empty")
	}

	playerJSON, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal player: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, playerKey(p.RoomID, p.ID), playerJSON, 0)
	pipe.SAdd(ctx, fmt.Sprintf("%s%s", roomPlayersPrefix, p.RoomID), p.ID)

	if p.Username != "" {
		usernameKey := fmt.Sprintf("%s%s:%s", usernameKeyPrefix, p.RoomID, strings.ToLower(p.Username))
		pipe.Set(ctx, usernameKey, p.ID, 0)
	}

	// Keep the condemned index in step with the record
	member := condemnedMember(p.RoomID, p.ID)
	if p.Status == models.PlayerStatusCondemned && p.PunishmentEnd != nil {
		pipe.SAdd(ctx, condemnedIndexKey, member)
	} else {
		pipe.SRem(ctx, condemnedIndexKey, member)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save player: %w", err)
	}

	return nil
}

// GetPlayer retrieves a player by room and ID from Redis
func (r *redisRepository) GetPlayer(ctx context.Context, input *GetPlayerInput) (*models.Player, error) {
	if input == nil || input.RoomID == "" || input.PlayerID == "" {
		return nil, errors.New("input, room ID and player ID cannot be empty")
	}

	return r.getByKey(ctx, playerKey(input.RoomID, input.PlayerID))
}

// GetPlayerByUsername resolves a username within a room
func (r *redisRepository) GetPlayerByUsername(ctx context.Context, input *GetPlayerByUsernameInput) (*models.Player, error) {
	if input == nil || input.RoomID == "" || input.Username == "" {
		return nil, errors.New("input, room ID and username cannot be empty")
	}

	usernameKey := fmt.Sprintf("%s%s:%s", usernameKeyPrefix, input.RoomID, strings.ToLower(input.Username))
	playerID, err := r.client.Get(ctx, usernameKey).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to resolve username: %w", err)
	}

	return r.GetPlayer(ctx, &GetPlayerInput{RoomID: input.RoomID, PlayerID: playerID})
}

// GetPlayersInRoom retrieves all players registered in a room
func (r *redisRepository) GetPlayersInRoom(ctx context.Context, input *GetPlayersInRoomInput) (*GetPlayersInRoomOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, errors.New("input and room ID cannot be empty")
	}

	playerIDs, err := r.client.SMembers(ctx, fmt.Sprintf("%s%s", roomPlayersPrefix, input.RoomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get player IDs for room: %w", err)
	}

	if len(playerIDs) == 0 {
		return &GetPlayersInRoomOutput{Players: []*models.Player{}}, nil
	}

	pipe := r.client.Pipeline()
	playerCommands := make(map[string]*redis.StringCmd)
	for _, playerID := range playerIDs {
		playerCommands[playerID] = pipe.Get(ctx, playerKey(input.RoomID, playerID))
	}

	if _, err := pipe.Exec(ctx); err != nil && err != redis.Nil {
		return nil, fmt.Errorf("failed to get players: %w", err)
	}

	players := make([]*models.Player, 0, len(playerIDs))
	for playerID, cmd := range playerCommands {
		playerJSON, err := cmd.Result()
		if err != nil {
			if err == redis.Nil {
				// Player was removed between the index read and the fetch
				continue
			}
			return nil, fmt.Errorf("failed to get player %s: %w", playerID, err)
		}

		var p models.Player
		if err := json.Unmarshal([]byte(playerJSON), &p); err != nil {
			return nil, fmt.Errorf("failed to unmarshal player %s: %w", playerID, err)
		}
		players = append(players, &p)
	}

	return &GetPlayersInRoomOutput{Players: players}, nil
}

// AdjustSize atomically applies a clamped delta to a player's size
func (r *redisRepository) AdjustSize(ctx context.Context, input *AdjustSizeInput) (*AdjustSizeOutput, error) {
	if input == nil || input.RoomID == "" || input.PlayerID == "" {
		return nil, errors.New("input, room ID and player ID cannot be empty")
	}

	var out *AdjustSizeOutput
	err := r.watchPlayer(ctx, input.RoomID, input.PlayerID, func(p *models.Player) error {
		newSize := p.Size + input.Delta
		if newSize < 0 {
			newSize = 0
		}
		out = &AdjustSizeOutput{
			Applied: newSize - p.Size,
			NewSize: newSize,
		}
		p.Size = newSize
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// UpdatePlayer atomically applies the caller's mutation to the record
func (r *redisRepository) UpdatePlayer(ctx context.Context, input *UpdatePlayerInput) (*models.Player, error) {
	if input == nil || input.RoomID == "" || input.PlayerID == "" || input.Fn == nil {
		return nil, errors.New("input, room ID, player ID and fn cannot be empty")
	}

	var updated *models.Player
	err := r.watchPlayer(ctx, input.RoomID, input.PlayerID, func(p *models.Player) error {
		if err := input.Fn(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// ListCondemned returns every condemned player with a pending sentence end
func (r *redisRepository) ListCondemned(ctx context.Context) ([]*models.Player, error) {
	members, err := r.client.SMembers(ctx, condemnedIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list condemned players: %w", err)
	}

	players := make([]*models.Player, 0, len(members))
	for _, member := range members {
		roomID, playerID, ok := splitCondemnedMember(member)
		if !ok {
			continue
		}

		p, err := r.GetPlayer(ctx, &GetPlayerInput{RoomID: roomID, PlayerID: playerID})
		if err != nil {
			if errors.Is(err, ErrPlayerNotFound) {
				continue
			}
			return nil, err
		}
		players = append(players, p)
	}

	return players, nil
}

// watchPlayer runs fn on the player's current record inside an optimistic
// WATCH transaction, retrying on write conflicts.
func (r *redisRepository) watchPlayer(ctx context.Context, roomID, playerID string, fn func(p *models.Player) error) error {
	key := playerKey(roomID, playerID)

	txn := func(tx *redis.Tx) error {
		playerJSON, err := tx.Get(ctx, key).Result()
		if err != nil {
			if err == redis.Nil {
				return ErrPlayerNotFound
			}
			return fmt.Errorf("failed to get player: %w", err)
		}

		var p models.Player
		if err := json.Unmarshal([]byte(playerJSON), &p); err != nil {
			return fmt.Errorf("failed to unmarshal player: %w", err)
		}

		if err := fn(&p); err != nil {
			return err
		}

		updated, err := json.Marshal(&p)
		if err != nil {
			return fmt.Errorf("failed to marshal player: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, 0)

			member := condemnedMember(p.RoomID, p.ID)
			if p.Status == models.PlayerStatusCondemned && p.PunishmentEnd != nil {
				pipe.SAdd(ctx, condemnedIndexKey, member)
			} else {
				pipe.SRem(ctx, condemnedIndexKey, member)
			}
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txn, key)
		if err == nil {
			return nil
		}
		if err == redis.TxFailedErr {
			// Another writer got there first, reload and retry
			continue
		}
		return err
	}

	return fmt.Errorf("failed to update player %s after %d retries", playerID, maxTxRetries)
}

func (r *redisRepository) getByKey(ctx context.Context, key string) (*models.Player, error) {
	playerJSON, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrPlayerNotFound
		}
		return nil, fmt.Errorf("failed to get player: %w", err)
	}

	var p models.Player
	if err := json.Unmarshal([]byte(playerJSON), &p); err != nil {
		return nil, fmt.Errorf("failed to unmarshal player: %w", err)
	}

	return &p, nil
}

func playerKey(roomID, playerID string) string {
	return fmt.Sprintf("%s%s:%s", playerKeyPrefix, roomID, playerID)
}

func condemnedMember(roomID, playerID string) string {
	return fmt.Sprintf("%s|%s", roomID, playerID)
}

func splitCondemnedMember(member string) (roomID, playerID string, ok bool) {
	parts := strings.SplitN(member, "|", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	return parts[0], parts[1], true
}
