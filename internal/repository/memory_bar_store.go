package repository

import (
	"context"
	"sync"

	"BottomScan/internal/domain/models"
	"BottomScan/internal/domain/repository"
)

type storeKey struct {
	Symbol    string
	Timeframe repository.Timeframe
}

// MemoryBarStore is the in-process store used for tests and ephemeral runs.
type MemoryBarStore struct {
	mu   sync.RWMutex
	data map[storeKey][]models.Bar
}

func NewMemoryBarStore() *MemoryBarStore {
	return &MemoryBarStore{data: make(map[storeKey][]models.Bar)}
}

func (s *MemoryBarStore) Load(_ context.Context, symbol string, tf repository.Timeframe) ([]models.Bar, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bars, ok := s.data[storeKey{Symbol: symbol, Timeframe: tf}]
	if !ok {
		return []models.Bar{}, nil
	}
	out := make([]models.Bar, len(bars))
	copy(out, bars)
	return out, nil
}

func (s *MemoryBarStore) Save(_ context.Context, symbol string, tf repository.Timeframe, bars []models.Bar) (models.CacheMetadata, error) {
	normalized := normalizeBars(bars)

	s.mu.Lock()
	s.data[storeKey{Symbol: symbol, Timeframe: tf}] = normalized
	s.mu.Unlock()

	return buildMetadata(symbol, tf, normalized), nil
}
