package session

import (
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mitchellh/mapstructure"
	"github.com/principality/principality-server-go/internal/config"
	"github.com/principality/principality-server-go/internal/game"
	"go.uber.org/zap"
)

// RedisStore keeps each game in one redis hash: scalar metadata as plain
// fields and the state, move log and options as JSON fields.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// gameMeta is the scalar part of the hash. Redis hands every field back as
// a string, so numeric fields go through stringToIntHookFunc.
type gameMeta struct {
	ID        string `json:"id"`
	Seed      string `json:"seed"`
	Players   int    `json:"players"`
	MoveCount int    `json:"moveCount"`
	Finished  int    `json:"finished"`
	CreatedAt int    `json:"createdAt"`
	UpdatedAt int    `json:"updatedAt"`
}

// NewRedisClient connects to redis and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// NewRedisStore wraps rdb. A zero ttl keeps games until deleted.
func NewRedisStore(rdb *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	if prefix == "" {
		prefix = "principality"
	}
	return &RedisStore{
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *RedisStore) key(id string) string {
	return fmt.Sprintf("%s:game:%s", s.prefix, id)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func (s *RedisStore) Save(ctx context.Context, g *Game) error {
	state, err := game.MarshalState(g.State)
	if err != nil {
		return err
	}
	moves, err := json.Marshal(g.Moves)
	if err != nil {
		return fmt.Errorf("failed to marshal moves: %w", err)
	}
	opts, err := json.Marshal(g.Options)
	if err != nil {
		return fmt.Errorf("failed to marshal options: %w", err)
	}

	fields := map[string]interface{}{
		"id":        g.ID,
		"seed":      g.Seed,
		"players":   g.Players,
		"moveCount": len(g.Moves),
		"finished":  boolToInt(g.Finished),
		"createdAt": g.CreatedAt.Unix(),
		"updatedAt": g.UpdatedAt.Unix(),
		"state":     string(state),
		"moves":     string(moves),
		"options":   string(opts),
	}

	key := s.key(g.ID)
	_, err = s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, fields)
		if s.ttl > 0 {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save game %s: %w", g.ID, err)
	}

	s.logger.Debug("saved game to redis",
		zap.String("game_id", g.ID),
		zap.Int("moves", len(g.Moves)),
	)
	return nil
}

func (s *RedisStore) Load(ctx context.Context, id string) (*Game, error) {
	fields, err := s.rdb.HGetAll(ctx, s.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", id, err)
	}
	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	var meta gameMeta
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: stringToIntHookFunc(),
		Result:     &meta,
		TagName:    "json",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(fields); err != nil {
		return nil, fmt.Errorf("failed to decode game %s: %w", id, err)
	}

	state, err := game.UnmarshalState([]byte(fields["state"]))
	if err != nil {
		return nil, err
	}
	var moves []game.Move
	if err := json.Unmarshal([]byte(fields["moves"]), &moves); err != nil {
		return nil, fmt.Errorf("failed to unmarshal moves: %w", err)
	}
	if len(moves) != meta.MoveCount {
		return nil, fmt.Errorf("game %s: move log has %d entries, expected %d", id, len(moves), meta.MoveCount)
	}
	var opts game.Options
	if err := json.Unmarshal([]byte(fields["options"]), &opts); err != nil {
		return nil, fmt.Errorf("failed to unmarshal options: %w", err)
	}

	return &Game{
		ID:        meta.ID,
		Seed:      meta.Seed,
		Players:   meta.Players,
		Options:   opts,
		State:     state,
		Moves:     moves,
		Finished:  meta.Finished != 0,
		CreatedAt: time.Unix(int64(meta.CreatedAt), 0),
		UpdatedAt: time.Unix(int64(meta.UpdatedAt), 0),
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return nil
}

func stringToIntHookFunc() mapstructure.DecodeHookFunc {
	return func(from reflect.Kind, to reflect.Kind, data interface{}) (interface{}, error) {
		if from == reflect.String && to == reflect.Int {
			return strconv.Atoi(data.(string))
		}
		return data, nil
	}
}
