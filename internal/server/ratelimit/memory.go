package ratelimit

import (
	"context"
	"sync"
	"time"
)

// MemoryStore keeps counters in a map. A background goroutine drops
// expired windows; call Stop to end it.
type MemoryStore struct {
	now      func() time.Time
	windows  map[string]*window
	cleanupC chan struct{}
	stopOnce sync.Once
	mu       sync.Mutex
}

// window представляет счётчик для конкретного ключа
type window struct {
	expiresAt time.Time
	count     int64
}

// NewMemoryStore creates a store whose cleanup runs every interval.
func NewMemoryStore(interval time.Duration) *MemoryStore {
	s := &MemoryStore{
		now:      time.Now,
		windows:  make(map[string]*window),
		cleanupC: make(chan struct{}),
	}

	// Запускаем периодическую очистку старых окон
	go s.cleanup(interval)

	return s
}

// cleanup периодически удаляет истёкшие окна для экономии памяти
func (s *MemoryStore) cleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.cleanupExpired()
		case <-s.cleanupC:
			return
		}
	}
}

func (s *MemoryStore) cleanupExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.windows {
		if !now.Before(w.expiresAt) {
			delete(s.windows, key)
		}
	}
}

// Stop останавливает cleanup goroutine
func (s *MemoryStore) Stop() {
	s.stopOnce.Do(func() { close(s.cleanupC) })
}

// Incr implements Store.
func (s *MemoryStore) Incr(_ context.Context, key string, ttl time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		w = &window{expiresAt: now.Add(ttl)}
		s.windows[key] = w
	}
	w.count++

	return w.count, nil
}

// Reset implements Store.
func (s *MemoryStore) Reset(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.windows, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.windows)
}
