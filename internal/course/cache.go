package course

import (
	"sync"
	"time"
)

// Cache remembers course lookups with a TTL. A nil entry records that the course
// does not exist in that term, so level searches can skip it next time.
// Safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	courses  map[string]*Course
	cachedAt map[string]time.Time
	TTL      time.Duration
}

// NewCache creates a new course cache with default 7-day TTL
func NewCache() *Cache {
	return &Cache{
		courses:  make(map[string]*Course),
		cachedAt: make(map[string]time.Time),
		TTL:      7 * 24 * time.Hour,
	}
}

// Get retrieves a course from cache if not expired.
// ok is false when nothing (or only an expired entry) is cached.
func (c *Cache) Get(year, semester, subject, number string) (info *Course, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := CacheKey(year, semester, subject, number)

	info, exists := c.courses[key]
	if !exists {
		return nil, false
	}

	cachedTime, hasTime := c.cachedAt[key]
	if !hasTime || time.Since(cachedTime) > c.TTL {
		delete(c.courses, key)
		delete(c.cachedAt, key)
		return nil, false
	}

	return info, true
}

// Set stores a course (or nil for a missing course) in cache
func (c *Cache) Set(year, semester, subject, number string, info *Course) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := CacheKey(year, semester, subject, number)
	c.courses[key] = info
	c.cachedAt[key] = time.Now()
}

// CacheKey builds the key shared by the in-memory cache and the document store,
// e.g. "2023_fall_CS_225".
func CacheKey(year, semester, subject, number string) string {
	return year + "_" + semester + "_" + subject + "_" + number
}

// CleanExpired removes expired entries from cache
func (c *Cache) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := time.Now()

	for key, cachedTime := range c.cachedAt {
		if now.Sub(cachedTime) > c.TTL {
			delete(c.courses, key)
			delete(c.cachedAt, key)
			removed++
		}
	}

	return removed
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.courses = make(map[string]*Course)
	c.cachedAt = make(map[string]time.Time)
}

// Size returns the number of cached entries
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.courses)
}
