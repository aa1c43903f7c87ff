// Package carousel owns the review slider state: page partitioning by
// viewport width, wrapping navigation, a 5 s auto-advance timer that
// restarts on manual navigation, and a debounced resize re-partition.
package carousel

import (
	"sync"
	"time"

	"github.com/techfix-solutions/desk-service/internal/model"
)

const (
	AdvanceInterval = 5 * time.Second
	ResizeSettle    = 250 * time.Millisecond
)

// ItemsPerPage maps viewport width to slide size.
func ItemsPerPage(width int) int {
	switch {
	case width >= 1024:
		return 3
	case width >= 768:
		return 2
	default:
		return 1
	}
}

// OnSlide receives the current page index and its items after every page
// change, including auto-advances and re-partitions.
type OnSlide func(page int, items []model.Review)

type Controller struct {
	mu      sync.Mutex
	items   []model.Review
	perPage int
	page    int
	onSlide OnSlide

	advanceEvery time.Duration
	settle       time.Duration
	advanceTimer *time.Timer
	resizeTimer  *time.Timer
	stopped      bool
}

func New(items []model.Review, width int, onSlide OnSlide) *Controller {
	return newController(items, width, onSlide, AdvanceInterval, ResizeSettle)
}

func newController(items []model.Review, width int, onSlide OnSlide, advance, settle time.Duration) *Controller {
	c := &Controller{
		items:        items,
		perPage:      ItemsPerPage(width),
		onSlide:      onSlide,
		advanceEvery: advance,
		settle:       settle,
	}
	c.mu.Lock()
	c.restartAdvanceLocked()
	c.mu.Unlock()
	return c
}

// SetItems replaces the item list and resets to page 0 (data reload).
func (c *Controller) SetItems(items []model.Review) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = items
	c.page = 0
	c.emitLocked()
}

func (c *Controller) Page() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.page
}

func (c *Controller) TotalPages() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalLocked()
}

func (c *Controller) totalLocked() int {
	if c.perPage == 0 {
		return 0
	}
	return (len(c.items) + c.perPage - 1) / c.perPage
}

// Slide returns the current page's items.
func (c *Controller) Slide() []model.Review {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slideLocked()
}

func (c *Controller) slideLocked() []model.Review {
	start := c.page * c.perPage
	if start >= len(c.items) {
		return nil
	}
	end := start + c.perPage
	if end > len(c.items) {
		end = len(c.items)
	}
	return c.items[start:end]
}

// Next advances one page, wrapping, and restarts the auto-advance timer.
func (c *Controller) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.totalLocked()
	if total == 0 {
		return
	}
	c.page = (c.page + 1) % total
	c.restartAdvanceLocked()
	c.emitLocked()
}

// Previous goes back one page, wrapping, and restarts the timer.
func (c *Controller) Previous() {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := c.totalLocked()
	if total == 0 {
		return
	}
	c.page = (c.page - 1 + total) % total
	c.restartAdvanceLocked()
	c.emitLocked()
}

// GoTo jumps to page i. The index is not bounds-checked; callers supply
// a value in [0, TotalPages).
func (c *Controller) GoTo(i int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.page = i
	c.restartAdvanceLocked()
	c.emitLocked()
}

// Resize re-partitions after a settle delay; a second resize within the
// delay supersedes the first. A non-empty item set resets to page 0.
func (c *Controller) Resize(width int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
	c.resizeTimer = time.AfterFunc(c.settle, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.stopped {
			return
		}
		c.perPage = ItemsPerPage(width)
		if len(c.items) > 0 {
			c.page = 0
			c.emitLocked()
		}
	})
}

// Stop tears down the timers. The controller must not be reused.
func (c *Controller) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
	if c.advanceTimer != nil {
		c.advanceTimer.Stop()
	}
	if c.resizeTimer != nil {
		c.resizeTimer.Stop()
	}
}

func (c *Controller) restartAdvanceLocked() {
	if c.stopped {
		return
	}
	if c.advanceTimer != nil {
		c.advanceTimer.Stop()
	}
	c.advanceTimer = time.AfterFunc(c.advanceEvery, c.autoAdvance)
}

func (c *Controller) autoAdvance() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.stopped {
		return
	}
	total := c.totalLocked()
	if total > 0 {
		c.page = (c.page + 1) % total
		c.emitLocked()
	}
	c.restartAdvanceLocked()
}

func (c *Controller) emitLocked() {
	if c.onSlide != nil {
		c.onSlide(c.page, c.slideLocked())
	}
}
