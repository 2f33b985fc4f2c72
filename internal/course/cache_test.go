package course

import (
	"testing"
	"time"
)

func TestCache(t *testing.T) {
	cache := NewCache()

	t.Run("new cache is empty", func(t *testing.T) {
		if cache.Size() != 0 {
			t.Errorf("new cache size = %d, want 0", cache.Size())
		}
	})

	t.Run("set and get", func(t *testing.T) {
		info := NewCourse("CS", "225")
		info.Label = "Data Structures"

		cache.Set("2023", "fall", "CS", "225", info)

		got, ok := cache.Get("2023", "fall", "CS", "225")
		if !ok || got == nil {
			t.Fatal("Get returned nothing, expected course")
		}
		if got.Label != info.Label {
			t.Errorf("Get().Label = %q, want %q", got.Label, info.Label)
		}
	})

	t.Run("missing course is cached as nil", func(t *testing.T) {
		cache.Set("2023", "fall", "CS", "199", nil)

		got, ok := cache.Get("2023", "fall", "CS", "199")
		if !ok {
			t.Fatal("Get of negative entry returned ok=false")
		}
		if got != nil {
			t.Errorf("Get of negative entry = %v, want nil", got)
		}
	})

	t.Run("get non-existent returns not ok", func(t *testing.T) {
		if _, ok := cache.Get("2023", "spring", "CS", "225"); ok {
			t.Error("Get(unknown) ok = true, want false")
		}
	})

	t.Run("expired entries are dropped", func(t *testing.T) {
		cache := NewCache()
		cache.TTL = 1 * time.Millisecond

		cache.Set("2024", "spring", "MATH", "241", NewCourse("MATH", "241"))
		if _, ok := cache.Get("2024", "spring", "MATH", "241"); !ok {
			t.Fatal("Get immediately after Set returned not ok")
		}

		time.Sleep(10 * time.Millisecond)

		if _, ok := cache.Get("2024", "spring", "MATH", "241"); ok {
			t.Error("Get after expiration ok = true, want false")
		}
	})

	t.Run("CleanExpired removes expired entries", func(t *testing.T) {
		cache := NewCache()
		cache.TTL = 1 * time.Millisecond

		for i := 0; i < 5; i++ {
			cache.Set("2023", "fall", "CS", string(rune('1'+i))+"00", nil)
		}
		if cache.Size() != 5 {
			t.Errorf("cache size after adds = %d, want 5", cache.Size())
		}

		time.Sleep(10 * time.Millisecond)

		if removed := cache.CleanExpired(); removed != 5 {
			t.Errorf("CleanExpired removed %d, want 5", removed)
		}
		if cache.Size() != 0 {
			t.Errorf("cache size after clean = %d, want 0", cache.Size())
		}
	})

	t.Run("Clear empties cache", func(t *testing.T) {
		cache := NewCache()
		cache.Set("2023", "fall", "CS", "101", nil)
		cache.Clear()
		if cache.Size() != 0 {
			t.Errorf("cache size after Clear = %d, want 0", cache.Size())
		}
	})
}

func TestCacheKey(t *testing.T) {
	if got := CacheKey("2023", "fall", "CS", "225"); got != "2023_fall_CS_225" {
		t.Errorf("CacheKey() = %q, want 2023_fall_CS_225", got)
	}
}
