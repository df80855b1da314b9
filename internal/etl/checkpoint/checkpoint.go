// internal/etl/checkpoint/checkpoint.go
package checkpoint

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Store persists the last successfully processed row number per source
// file, so an interrupted run can resume where it left off.
type Store struct {
	client *redis.Client
	key    string
}

func NewStore(client *redis.Client, sourceFile string) *Store {
	return &Store{
		client: client,
		key:    fmt.Sprintf("etl:checkpoint:%s", sourceFile),
	}
}

// Last returns the last checkpointed row number, zero when no checkpoint
// exists.
func (s *Store) Last(ctx context.Context) (int, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("checkpoint read failed: %w", err)
	}

	row, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("corrupt checkpoint value %q: %w", val, err)
	}
	return row, nil
}

// Save records the given row number as processed.
func (s *Store) Save(ctx context.Context, row int) error {
	if err := s.client.Set(ctx, s.key, strconv.Itoa(row), 0).Err(); err != nil {
		return fmt.Errorf("checkpoint write failed: %w", err)
	}
	return nil
}

// Clear removes the checkpoint after a completed run.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("checkpoint clear failed: %w", err)
	}
	return nil
}
