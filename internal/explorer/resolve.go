package explorer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pfrederiksen/coursecal/internal/course"
	"github.com/pfrederiksen/coursecal/internal/logger"
	"github.com/pfrederiksen/coursecal/internal/storage"
)

// ResolveCourseInfo finds every course of subject matching number in a term.
// number is either a bucket ("2xx"), which is expanded to the 100 numbers of that
// level, or an exact course number. Courses that do not exist are skipped; the result
// is ordered by course number.
func (c *Client) ResolveCourseInfo(ctx context.Context, year, semester, subject, number string) ([]*course.Course, error) {
	start := time.Now()

	logger.Info("Resolving courseInfo query", logger.Fields{
		"subject":  subject,
		"number":   number,
		"semester": semester,
		"year":     year,
	})

	c.enforceCacheLimit()

	numbers, err := course.ExpandNumber(number)
	if err != nil {
		return nil, err
	}

	found := make([]*course.Course, len(numbers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, n := range numbers {
		g.Go(func() error {
			crs, err := c.FetchCourse(gctx, year, semester, subject, n)
			if errors.Is(err, ErrNotFound) {
				return nil
			}
			if err != nil {
				return err
			}
			found[i] = crs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolving %s %s: %w", subject, number, err)
	}

	courses := make([]*course.Course, 0)
	for _, crs := range found {
		if crs != nil {
			courses = append(courses, crs)
		}
	}

	elapsed := time.Since(start)
	logger.RecordTiming("explorer.resolve", elapsed)
	logger.Info("Query processed", logger.Fields{
		"courses":  len(courses),
		"duration": elapsed.String(),
	})

	return courses, nil
}

// enforceCacheLimit flushes the document store once it outgrows maxBytes.
func (c *Client) enforceCacheLimit() {
	if c.store == nil {
		return
	}

	flushed, size, err := storage.EnforceLimit(c.store, c.maxBytes)
	if err != nil {
		logger.Warn("Checking cache size failed", logger.Fields{"error": err.Error()})
		return
	}
	if flushed {
		logger.Info("Cache above threshold, flushed", logger.Fields{
			"size":      size,
			"max_bytes": c.maxBytes,
		})
		size = 0
	}
	logger.SetGauge("cache.bytes", float64(size))
}
