package viewsync

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/utafrali/shopstate/pkg/errors"
	"github.com/utafrali/shopstate/pkg/logger"
)

// Reloader is anything that re-reads its state from storage. CartStore and
// WishlistStore satisfy it.
type Reloader interface {
	Load(ctx context.Context)
}

// ReloaderFunc adapts a function to Reloader.
type ReloaderFunc func(ctx context.Context)

func (f ReloaderFunc) Load(ctx context.Context) { f(ctx) }

// Event is a focus-gain notification delivered by the host UI.
type Event struct {
	Screen string
}

// Controller reloads the stores of a screen whenever that screen becomes
// active again. Screens never share store instances, so this is the only
// point where one screen observes another screen's completed writes.
type Controller struct {
	mu      sync.RWMutex
	screens map[string][]Reloader
	logger  *slog.Logger
}

// NewController creates a controller with no screens registered.
func NewController(logger *slog.Logger) *Controller {
	return &Controller{
		screens: make(map[string][]Reloader),
		logger:  logger,
	}
}

// Register attaches reloaders to a screen. Registering the same screen again
// appends to its list.
func (c *Controller) Register(screen string, reloaders ...Reloader) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.screens[screen] = append(c.screens[screen], reloaders...)
}

// Screens returns the registered screen names in sorted order.
func (c *Controller) Screens() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	names := make([]string, 0, len(c.screens))
	for name := range c.screens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FocusGained reloads every store registered for screen and returns once all
// of them are Ready. Reloads of different stores run concurrently.
func (c *Controller) FocusGained(ctx context.Context, screen string) error {
	c.mu.RLock()
	reloaders, ok := c.screens[screen]
	c.mu.RUnlock()
	if !ok {
		return apperrors.NotFound("screen", screen)
	}

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	for _, r := range reloaders {
		g.Go(func() error {
			r.Load(gctx)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	focusReloadsTotal.WithLabelValues(screen).Inc()
	logger.WithContext(ctx, c.logger).DebugContext(ctx, "screen reloaded",
		slog.String("screen", screen),
		slog.Int("stores", len(reloaders)),
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

// Run consumes focus events until ctx is canceled or events is closed. Events
// are handled one at a time in arrival order.
func (c *Controller) Run(ctx context.Context, events <-chan Event) error {
	c.logger.Info("view sync started")
	for {
		select {
		case <-ctx.Done():
			c.logger.Info("view sync stopping")
			return nil
		case ev, ok := <-events:
			if !ok {
				c.logger.Info("view sync event stream closed")
				return nil
			}
			if err := c.FocusGained(ctx, ev.Screen); err != nil {
				c.logger.Warn("focus event ignored",
					slog.String("screen", ev.Screen),
					slog.String("error", err.Error()),
				)
			}
		}
	}
}
