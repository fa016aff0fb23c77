package ratelimit

import (
	"sync"
	"time"

	"github.com/gangsheet-builders/order-actions/internal/metrics"
)

// KeyedConfig configures a KeyedLimiter.
type KeyedConfig struct {
	// Name labels drops in metrics, e.g. "sender".
	Name string

	Burst      float64 // bucket capacity per key
	RefillRate float64 // tokens per second per key

	// CleanupPeriod is how often idle keys are forgotten. Zero disables
	// the cleanup goroutine.
	CleanupPeriod time.Duration

	Metrics *metrics.Metrics
}

// KeyedLimiter keeps one token bucket per key (a conversation's sender
// ID). Buckets that have refilled completely are dropped by the cleanup
// loop.
type KeyedLimiter struct {
	mu      sync.RWMutex
	buckets map[string]*Limiter
	config  KeyedConfig
	now     func() time.Time
	stopCh  chan struct{}
	once    sync.Once
}

// NewKeyedLimiter starts a keyed limiter. Call Stop to end its cleanup
// goroutine.
func NewKeyedLimiter(cfg KeyedConfig) *KeyedLimiter {
	kl := &KeyedLimiter{
		buckets: make(map[string]*Limiter),
		config:  cfg,
		now:     time.Now,
		stopCh:  make(chan struct{}),
	}
	if cfg.CleanupPeriod > 0 {
		go kl.cleanupLoop()
	}
	return kl
}

// Allow spends a token from key's bucket. An empty key is always allowed.
func (kl *KeyedLimiter) Allow(key string) bool {
	if key == "" {
		return true
	}
	if kl.bucket(key).Allow() {
		return true
	}
	if kl.config.Metrics != nil {
		kl.config.Metrics.RecordRateLimiterDrop(kl.config.Name)
	}
	return false
}

func (kl *KeyedLimiter) bucket(key string) *Limiter {
	kl.mu.RLock()
	b, ok := kl.buckets[key]
	kl.mu.RUnlock()
	if ok {
		return b
	}

	kl.mu.Lock()
	defer kl.mu.Unlock()
	if b, ok = kl.buckets[key]; ok {
		return b
	}
	b = newWithClock(kl.config.Burst, kl.config.RefillRate, kl.now)
	kl.buckets[key] = b
	return b
}

// Available reports the tokens left for key. Unknown keys have a full bucket.
func (kl *KeyedLimiter) Available(key string) float64 {
	kl.mu.RLock()
	b, ok := kl.buckets[key]
	kl.mu.RUnlock()
	if !ok {
		return kl.config.Burst
	}
	return b.Available()
}

// ActiveCount returns the number of keys currently tracked.
func (kl *KeyedLimiter) ActiveCount() int {
	kl.mu.RLock()
	defer kl.mu.RUnlock()
	return len(kl.buckets)
}

// Sweep forgets every key whose bucket is full and returns how many remain.
func (kl *KeyedLimiter) Sweep() int {
	kl.mu.Lock()
	for key, b := range kl.buckets {
		if b.IsFull() {
			delete(kl.buckets, key)
		}
	}
	active := len(kl.buckets)
	kl.mu.Unlock()

	if kl.config.Metrics != nil {
		kl.config.Metrics.SetRateLimiterSenders(active)
	}
	return active
}

func (kl *KeyedLimiter) cleanupLoop() {
	ticker := time.NewTicker(kl.config.CleanupPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-kl.stopCh:
			return
		case <-ticker.C:
			kl.Sweep()
		}
	}
}

// Stop ends the cleanup goroutine. Safe to call more than once.
func (kl *KeyedLimiter) Stop() {
	kl.once.Do(func() { close(kl.stopCh) })
}
