package analysis

import (
	"sync"
	"testing"
	"time"
)

func TestHealthCache_InitialState(t *testing.T) {
	cache := NewHealthCache(30 * time.Second)

	available, valid := cache.Get()
	if valid {
		t.Error("new cache should return valid=false")
	}
	if available {
		t.Error("new cache should return available=false")
	}
}

func TestHealthCache_SetAndGet(t *testing.T) {
	cache := NewHealthCache(30 * time.Second)

	cache.Set(true)
	available, valid := cache.Get()
	if !valid {
		t.Error("cache should be valid after Set")
	}
	if !available {
		t.Error("cache should return available=true")
	}

	cache.Set(false)
	available, valid = cache.Get()
	if !valid {
		t.Error("cache should still be valid after Set")
	}
	if available {
		t.Error("cache should return available=false after setting to false")
	}
}

func TestHealthCache_TTLExpiration(t *testing.T) {
	cache := NewHealthCache(10 * time.Millisecond)

	cache.Set(true)
	if _, valid := cache.Get(); !valid {
		t.Error("cache should be valid immediately after Set")
	}

	time.Sleep(15 * time.Millisecond)

	if _, valid := cache.Get(); valid {
		t.Error("cache should be invalid after TTL expires")
	}
}

func TestHealthCache_Invalidate(t *testing.T) {
	cache := NewHealthCache(30 * time.Second)

	cache.Set(true)
	cache.Invalidate()

	if _, valid := cache.Get(); valid {
		t.Error("cache should be invalid after Invalidate")
	}
}

func TestHealthCache_ZeroTTL(t *testing.T) {
	// Zero TTL effectively disables caching
	cache := NewHealthCache(0)

	cache.Set(true)
	if _, valid := cache.Get(); valid {
		t.Error("zero TTL cache should never be valid")
	}
}

func TestHealthCache_Concurrency(t *testing.T) {
	cache := NewHealthCache(30 * time.Second)

	var wg sync.WaitGroup
	iterations := 100

	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func(val bool) {
			defer wg.Done()
			cache.Set(val)
		}(i%2 == 0)
	}
	for i := 0; i < iterations; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Get()
		}()
	}
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cache.Invalidate()
		}()
	}

	wg.Wait()
}

func TestDefaultHealthCacheTTL(t *testing.T) {
	if DefaultHealthCacheTTL != 30*time.Second {
		t.Errorf("DefaultHealthCacheTTL = %v, want 30s", DefaultHealthCacheTTL)
	}
}
