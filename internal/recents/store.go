// Package recents keeps the most-recent-first list of searched cities.
//
// Storage failures never reach callers: a read that fails, or returns
// something that does not decode, yields an empty list, and a failed write
// is logged and dropped.
package recents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/vzahanych/weather-lookup/internal/storage"
	"go.uber.org/zap"
)

const (
	// Key is where the list lives in the durable store.
	Key = "recentCities"

	Capacity = 6
)

type Store struct {
	kv     storage.KV
	logger *zap.Logger
}

func NewStore(kv storage.KV, logger *zap.Logger) *Store {
	return &Store{
		kv:     kv,
		logger: logger.With(zap.String("component", "recents")),
	}
}

// Record moves city to the front, dropping any entry equal to it ignoring
// case, and trims the list to Capacity. It returns the updated list.
func (s *Store) Record(ctx context.Context, city string) []string {
	current := s.List(ctx)

	next := make([]string, 0, Capacity)
	next = append(next, city)
	for _, c := range current {
		if strings.EqualFold(c, city) {
			continue
		}
		next = append(next, c)
	}
	if len(next) > Capacity {
		next = next[:Capacity]
	}

	s.write(ctx, next)
	return next
}

// List returns the stored cities, most recent first.
func (s *Store) List(ctx context.Context) []string {
	raw, err := s.kv.Get(ctx, Key)
	if errors.Is(err, storage.ErrNotFound) {
		return []string{}
	}
	if err != nil {
		s.logger.Warn("Failed to read recent cities, treating as empty", zap.Error(err))
		return []string{}
	}

	var cities []string
	if err := json.Unmarshal([]byte(raw), &cities); err != nil {
		s.logger.Warn("Stored recent cities are corrupted, treating as empty", zap.Error(err))
		return []string{}
	}

	if cities == nil {
		return []string{}
	}
	if len(cities) > Capacity {
		cities = cities[:Capacity]
	}
	return cities
}

// Clear forgets every recent city.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Remove(ctx, Key); err != nil {
		s.logger.Warn("Failed to clear recent cities", zap.Error(err))
	}
}

func (s *Store) write(ctx context.Context, cities []string) {
	data, err := json.Marshal(cities)
	if err != nil {
		s.logger.Warn("Failed to encode recent cities", zap.Error(err))
		return
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		s.logger.Warn("Failed to persist recent cities", zap.Error(err))
	}
}
