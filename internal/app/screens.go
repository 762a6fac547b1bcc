package app

import (
	"context"
	"log/slog"

	"github.com/utafrali/shopstate/internal/catalog"
	handler "github.com/utafrali/shopstate/internal/handler/http"
	"github.com/utafrali/shopstate/internal/storage"
	"github.com/utafrali/shopstate/internal/store"
	"github.com/utafrali/shopstate/internal/viewsync"
)

// Screen names.
const (
	ScreenHome     = "home"
	ScreenCart     = "cart"
	ScreenWishlist = "wishlist"
	ScreenSearch   = "search"
)

// NewScreens builds the screen set. Each screen owns its own store
// instances; they meet only through adapter.
func NewScreens(adapter storage.Adapter, client catalog.Client, logger *slog.Logger) map[string]*handler.Screen {
	return map[string]*handler.Screen{
		ScreenHome: {
			Cart:     store.NewCartStore(adapter, logger),
			Wishlist: store.NewWishlistStore(adapter, logger),
			Catalog:  catalog.NewBrowser(client, logger),
		},
		ScreenCart: {
			Cart: store.NewCartStore(adapter, logger),
		},
		ScreenWishlist: {
			Cart:     store.NewCartStore(adapter, logger),
			Wishlist: store.NewWishlistStore(adapter, logger),
		},
		ScreenSearch: {
			Cart:     store.NewCartStore(adapter, logger),
			Wishlist: store.NewWishlistStore(adapter, logger),
			Catalog:  catalog.NewBrowser(client, logger),
		},
	}
}

// RegisterScreens attaches each screen's reloadable state to controller.
func RegisterScreens(controller *viewsync.Controller, screens map[string]*handler.Screen) {
	for name, s := range screens {
		var reloaders []viewsync.Reloader
		if s.Cart != nil {
			reloaders = append(reloaders, s.Cart)
		}
		if s.Wishlist != nil {
			reloaders = append(reloaders, s.Wishlist)
		}
		if s.Catalog != nil {
			b := s.Catalog
			reloaders = append(reloaders, viewsync.ReloaderFunc(func(ctx context.Context) {
				b.Refresh(ctx)
			}))
		}
		controller.Register(name, reloaders...)
	}
}
