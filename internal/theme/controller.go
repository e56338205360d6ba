package theme

import (
	"sync/atomic"

	"sysglance/internal/errors"
)

// ErrInvalidTheme is returned by Set for names other than "light"/"dark".
var ErrInvalidTheme = errors.New(errors.ErrTheme,
	"Unknown theme name",
	"Valid theme names are 'light' and 'dark'")

// Controller holds the currently active theme and swaps it atomically.
// Current is safe to call from the render path while Toggle/Set run on
// the input path; readers never observe a partially-applied theme
// because only the pointer changes, never a Theme's fields.
type Controller struct {
	light  *Theme
	dark   *Theme
	active atomic.Pointer[Theme]
}

// NewController creates a controller with both themes preloaded.
// The dark theme starts active, matching the console default.
func NewController(light, dark *Theme) *Controller {
	c := &Controller{light: light, dark: dark}
	c.active.Store(dark)
	return c
}

// Current returns the active theme. Non-blocking.
func (c *Controller) Current() *Theme {
	return c.active.Load()
}

// Toggle atomically swaps light and dark and returns the new active theme.
func (c *Controller) Toggle() *Theme {
	for {
		cur := c.active.Load()
		next := c.light
		if cur == c.light {
			next = c.dark
		}
		if c.active.CompareAndSwap(cur, next) {
			return next
		}
	}
}

// Set atomically activates the named theme. The active theme is left
// unchanged and ErrInvalidTheme returned for any name other than
// "light" or "dark".
func (c *Controller) Set(name string) error {
	switch name {
	case Light:
		c.active.Store(c.light)
	case Dark:
		c.active.Store(c.dark)
	default:
		return ErrInvalidTheme
	}
	return nil
}
