package save

import (
	"context"
	"encoding/json"
	"log/slog"

	redis "github.com/redis/go-redis/v9"

	"github.com/deepdelve/crawler-core/internal/errors"
	"github.com/deepdelve/crawler-core/internal/pkg/clock"
	redisclient "github.com/deepdelve/crawler-core/internal/redis"
)

const (
	saveKeyPrefix = "characters:"

	errSlotEmpty   = "save slot cannot be empty"
	errRecordNil   = "record cannot be nil"
	errNoCharacter = "record must carry a character"
)

type redisRepository struct {
	client redisclient.Client
	clock  clock.Clock
}

// RedisConfig contains configuration for the Redis save repository.
type RedisConfig struct {
	Client redisclient.Client
	Clock  clock.Clock
}

// Validate validates the RedisConfig.
func (cfg *RedisConfig) Validate() error {
	if cfg == nil {
		return errors.InvalidArgument("config cannot be nil")
	}
	if cfg.Client == nil {
		return errors.InvalidArgument("client cannot be nil")
	}
	return nil
}

// NewRedis creates a new Redis-backed save repository
func NewRedis(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := cfg.Clock
	if c == nil {
		c = clock.New()
	}

	return &redisRepository{
		client: cfg.Client,
		clock:  c,
	}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.Slot == "" {
		return nil, errors.InvalidArgument(errSlotEmpty)
	}

	key := saveKeyPrefix + input.Slot
	result, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("save slot %s is uninitialized", input.Slot)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read save slot")
	}

	var record Record
	if err := json.Unmarshal([]byte(result), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal save slot %s", input.Slot)
	}

	return &GetOutput{Record: &record}, nil
}

func (r *redisRepository) Save(ctx context.Context, input SaveInput) (*SaveOutput, error) {
	if input.Slot == "" {
		return nil, errors.InvalidArgument(errSlotEmpty)
	}
	if input.Record == nil {
		return nil, errors.InvalidArgument(errRecordNil)
	}
	if input.Record.Character == nil {
		return nil, errors.InvalidArgument(errNoCharacter)
	}

	data, err := json.Marshal(input.Record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal save record")
	}

	key := saveKeyPrefix + input.Slot

	// Full-object overwrite in one transaction, no TTL for saves
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, data, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to write save slot")
	}

	slog.DebugContext(ctx, "save slot written",
		"slot", input.Slot,
		"bytes", len(data),
		"saved_at", r.clock.Now().Unix())

	return &SaveOutput{Record: input.Record}, nil
}

func (r *redisRepository) Delete(ctx context.Context, input DeleteInput) (*DeleteOutput, error) {
	if input.Slot == "" {
		return nil, errors.InvalidArgument(errSlotEmpty)
	}

	key := saveKeyPrefix + input.Slot
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to delete save slot")
	}

	return &DeleteOutput{}, nil
}
