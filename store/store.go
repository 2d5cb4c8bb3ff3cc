package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/zeu5/mdp-dp/dp"
)

var (
	ErrNotFound         = errors.New("run not found")
	ErrConnectionFailed = errors.New("redis connection failed")
)

// Run is a stored solve.
type Run struct {
	ID        string     `json:"id"`
	Model     string     `json:"model"`
	CreatedAt time.Time  `json:"created_at"`
	Result    *dp.Result `json:"result"`
}

// Summary describes a run without its values and policy.
type Summary struct {
	ID         string       `json:"id"`
	Model      string       `json:"model"`
	Algorithm  dp.Algorithm `json:"algorithm"`
	Iterations int          `json:"iterations"`
	CreatedAt  time.Time    `json:"created_at"`
}

// Store writes every run under <prefix>run:<id> and indexes it in the sorted
// set <prefix>runs, scored by creation time.
type Store struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// New connects to Redis and checks the connection.
func New(cfg Config, opts ...ConfigOption) (*Store, error) {
	for _, opt := range opts {
		opt(&cfg)
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return NewFromClient(client, cfg.KeyPrefix, cfg.TTL), nil
}

func NewFromClient(client *redis.Client, keyPrefix string, ttl time.Duration) *Store {
	return &Store{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (s *Store) runKey(id string) string {
	return s.keyPrefix + "run:" + id
}

func (s *Store) indexKey() string {
	return s.keyPrefix + "runs"
}

// Save stores the result and returns the new run id.
func (s *Store) Save(ctx context.Context, model string, res *dp.Result) (string, error) {
	if res == nil {
		return "", errors.New("nil result")
	}
	run := Run{
		ID:        uuid.NewString(),
		Model:     model,
		CreatedAt: time.Now().UTC(),
		Result:    res,
	}
	bs, err := json.Marshal(run)
	if err != nil {
		return "", fmt.Errorf("encoding run: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.runKey(run.ID), bs, s.ttl)
		pipe.ZAdd(ctx, s.indexKey(), redis.Z{
			Score:  float64(run.CreatedAt.UnixNano()),
			Member: run.ID,
		})
		return nil
	})
	if err != nil {
		return "", err
	}
	return run.ID, nil
}

func (s *Store) Load(ctx context.Context, id string) (*Run, error) {
	bs, err := s.client.Get(ctx, s.runKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return nil, err
	}
	run := &Run{}
	if err := json.Unmarshal(bs, run); err != nil {
		return nil, fmt.Errorf("decoding run %s: %w", id, err)
	}
	return run, nil
}

// List returns up to limit runs, newest first. A limit of zero lists all.
// Index entries whose run has expired are dropped from the index.
func (s *Store) List(ctx context.Context, limit int) ([]Summary, error) {
	stop := int64(limit) - 1
	if limit <= 0 {
		stop = -1
	}
	ids, err := s.client.ZRevRange(ctx, s.indexKey(), 0, stop).Result()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []Summary{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.runKey(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	out := make([]Summary, 0, len(ids))
	stale := make([]interface{}, 0)
	for i, v := range vals {
		str, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var run Run
		if err := json.Unmarshal([]byte(str), &run); err != nil {
			return nil, fmt.Errorf("decoding run %s: %w", ids[i], err)
		}
		// written by something other than Save
		if run.Result == nil {
			continue
		}
		out = append(out, Summary{
			ID:         run.ID,
			Model:      run.Model,
			Algorithm:  run.Result.Algorithm,
			Iterations: run.Result.Iterations,
			CreatedAt:  run.CreatedAt,
		})
	}
	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.indexKey(), stale...).Err(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.runKey(id))
		pipe.ZRem(ctx, s.indexKey(), id)
		return nil
	})
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Store) Close() error {
	return s.client.Close()
}
