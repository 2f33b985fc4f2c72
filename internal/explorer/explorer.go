package explorer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pfrederiksen/coursecal/internal/course"
	"github.com/pfrederiksen/coursecal/internal/logger"
	"github.com/pfrederiksen/coursecal/internal/storage"
)

const (
	DefaultBaseURL  = "http://courses.illinois.edu/cisapp/explorer/schedule/"
	UserAgent       = "coursecal/1.0 (github.com/pfrederiksen/coursecal)"
	Timeout         = 30 * time.Second
	DefaultWorkers  = 8
	DefaultMaxBytes = 10_000_000
)

// ErrNotFound is returned when a course does not exist in the requested term.
var ErrNotFound = errors.New("course not found")

// Client fetches Course Explorer documents
type Client struct {
	client   *http.Client
	baseURL  string
	store    storage.Store
	cache    *course.Cache
	workers  int
	maxBytes int64
}

// Option configures a Client
type Option func(*Client)

// WithBaseURL overrides the schedule root URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		c.baseURL = baseURL
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.client = hc }
}

// WithStore sets the raw document cache.
func WithStore(s storage.Store) Option {
	return func(c *Client) { c.store = s }
}

// WithCache sets the course lookup cache.
func WithCache(cache *course.Cache) Option {
	return func(c *Client) { c.cache = cache }
}

// WithWorkers bounds the number of concurrent course fetches.
func WithWorkers(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.workers = n
		}
	}
}

// WithMaxCacheBytes sets the size above which the document cache is flushed.
func WithMaxCacheBytes(n int64) Option {
	return func(c *Client) { c.maxBytes = n }
}

// New creates a new Client
func New(opts ...Option) *Client {
	c := &Client{
		client: &http.Client{
			Timeout: Timeout,
		},
		baseURL:  DefaultBaseURL,
		cache:    course.NewCache(),
		workers:  DefaultWorkers,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Cache returns the client's course cache
func (c *Client) Cache() *course.Cache {
	return c.cache
}

func (c *Client) courseURL(year, semester, subject, number string) string {
	return fmt.Sprintf("%s%s/%s/%s/%s.xml", c.baseURL,
		url.PathEscape(year), url.PathEscape(semester), url.PathEscape(subject), url.PathEscape(number))
}

func (c *Client) sectionURL(year, semester, subject, number, sectionID string) string {
	return fmt.Sprintf("%s%s/%s/%s/%s/%s.xml", c.baseURL,
		url.PathEscape(year), url.PathEscape(semester), url.PathEscape(subject), url.PathEscape(number),
		url.PathEscape(sectionID))
}

// FetchCourse returns a course with all of its sections.
// It returns ErrNotFound when the course is not offered in the term.
func (c *Client) FetchCourse(ctx context.Context, year, semester, subject, number string) (*course.Course, error) {
	if cached, ok := c.cache.Get(year, semester, subject, number); ok {
		if cached == nil {
			return nil, ErrNotFound
		}
		return cached, nil
	}

	key := course.CacheKey(year, semester, subject, number)
	data, err := c.fetch(ctx, c.courseURL(year, semester, subject, number), key)
	if errors.Is(err, ErrNotFound) {
		c.cache.Set(year, semester, subject, number, nil)
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("fetching course %s %s: %w", subject, number, err)
	}

	crs, sectionIDs, err := parseCourse(data, subject, number)
	if err != nil {
		return nil, fmt.Errorf("parsing course %s %s: %w", subject, number, err)
	}

	if len(sectionIDs) == 0 {
		logger.Warn("No sections found", logger.Fields{
			"subject":  subject,
			"number":   number,
			"semester": semester,
			"year":     year,
		})
	}

	for _, id := range sectionIDs {
		section, err := c.FetchSection(ctx, year, semester, subject, number, id)
		if err != nil {
			return nil, err
		}
		crs.Sections = append(crs.Sections, section)
	}

	c.cache.Set(year, semester, subject, number, crs)
	return crs, nil
}

// FetchSection returns one section of a course.
func (c *Client) FetchSection(ctx context.Context, year, semester, subject, number, sectionID string) (course.Section, error) {
	key := course.CacheKey(year, semester, subject, number) + "_" + sectionID
	data, err := c.fetch(ctx, c.sectionURL(year, semester, subject, number, sectionID), key)
	if err != nil {
		return course.Section{}, fmt.Errorf("fetching section %s of %s %s: %w", sectionID, subject, number, err)
	}

	section, err := parseSection(data, sectionID)
	if err != nil {
		return course.Section{}, fmt.Errorf("parsing section %s of %s %s: %w", sectionID, subject, number, err)
	}
	return section, nil
}

// fetch returns the document at rawURL, consulting the store first.
func (c *Client) fetch(ctx context.Context, rawURL, key string) ([]byte, error) {
	if c.store != nil {
		data, ok, err := c.store.Get(key)
		if err != nil {
			logger.Warn("Reading cached document failed", logger.Fields{"key": key, "error": err.Error()})
		} else if ok {
			logger.IncrCounter("explorer.cache_hit")
			return data, nil
		}
	}

	logger.Debug("Fetching document", logger.Fields{"url": rawURL})
	logger.IncrCounter("explorer.fetch")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/xml")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		logger.Error("Course Explorer request failed", logger.Fields{
			"url":    rawURL,
			"status": resp.StatusCode,
			"body":   string(body),
		}, nil)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	if c.store != nil {
		if err := c.store.Put(key, data); err != nil {
			logger.Warn("Caching document failed", logger.Fields{"key": key, "error": err.Error()})
		}
	}

	return data, nil
}
