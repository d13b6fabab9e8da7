package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
)

// RedisBarStore keeps the same per-key JSON document as the file store,
// one Redis string per (symbol, timeframe). Documents never expire:
// history is the point of the store.
type RedisBarStore struct {
	client *redis.Client
	prefix string
}

type RedisBarStoreConfig struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

func NewRedisBarStore(cfg RedisBarStoreConfig) (*RedisBarStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	if cfg.Prefix == "" {
		cfg.Prefix = "bottomscan"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &RedisBarStore{client: client, prefix: cfg.Prefix}, nil
}

func (s *RedisBarStore) key(symbol string, tf repository.Timeframe) string {
	return fmt.Sprintf("%s:bars:%s:%s", s.prefix, sanitize(symbol), tf)
}

func (s *RedisBarStore) Load(ctx context.Context, symbol string, tf repository.Timeframe) ([]models.Bar, error) {
	raw, err := s.client.Get(ctx, s.key(symbol, tf)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []models.Bar{}, nil
		}
		return nil, fmt.Errorf("redis get %s/%s: %w", symbol, tf, err)
	}

	var doc storeDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode store %s/%s: %w", symbol, tf, err)
	}
	return doc.toBars()
}

func (s *RedisBarStore) Save(ctx context.Context, symbol string, tf repository.Timeframe, bars []models.Bar) (models.CacheMetadata, error) {
	normalized := normalizeBars(bars)
	doc := buildDocument(symbol, tf, normalized)

	payload, err := json.Marshal(doc)
	if err != nil {
		return models.CacheMetadata{}, fmt.Errorf("encode store %s/%s: %w", symbol, tf, err)
	}

	if err := s.client.Set(ctx, s.key(symbol, tf), payload, 0).Err(); err != nil {
		return models.CacheMetadata{}, fmt.Errorf("redis set %s/%s: %w", symbol, tf, err)
	}
	return buildMetadata(symbol, tf, normalized), nil
}

// Close closes the Redis connection.
func (s *RedisBarStore) Close() error {
	return s.client.Close()
}
