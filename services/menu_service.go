package services

import (
	"context"

	"milano/entity"
	"milano/pkg/logger"
	"milano/pkg/metrics"
	"milano/repository"
)

// CatalogService serves categories and menu items. Reads never fail: when the
// store cannot be read the built-in demo catalog is served instead.
type CatalogService struct {
	Store repository.CatalogStore
	Demo  entity.Catalog
	// language used for order line item names
	Lang string
}

func NewCatalogService(store repository.CatalogStore, demo entity.Catalog, lang string) *CatalogService {
	if lang == "" {
		lang = "uz"
	}
	return &CatalogService{Store: store, Demo: demo, Lang: lang}
}

func (s *CatalogService) Menu(ctx context.Context, lang string) []entity.MenuItem {
	items, err := s.Store.ListMenuItems(ctx)
	if err != nil {
		s.fallback(ctx, err, "menu")
		items = s.Demo.Available()
	}
	out := make([]entity.MenuItem, len(items))
	for i, m := range items {
		m.Localize(lang)
		out[i] = m
	}
	return out
}

func (s *CatalogService) Categories(ctx context.Context, lang string) []entity.Category {
	cats, err := s.Store.ListCategories(ctx)
	if err != nil {
		s.fallback(ctx, err, "categories")
		cats = s.Demo.Categories
	}
	out := make([]entity.Category, len(cats))
	for i, c := range cats {
		c.Localize(lang)
		out[i] = c
	}
	return out
}

// Lookup returns catalog entries by id. The demo catalog answers only when the
// store is unreachable; ids the answering source lacks are absent.
func (s *CatalogService) Lookup(ctx context.Context, ids []uint) map[uint]entity.MenuItem {
	out := make(map[uint]entity.MenuItem, len(ids))
	if len(ids) == 0 {
		return out
	}
	found, err := s.Store.FindMenuItems(ctx, ids)
	if err != nil {
		s.fallback(ctx, err, "menu lookup")
		found = s.Demo.Lookup()
	}
	for _, id := range ids {
		if m, ok := found[id]; ok {
			out[id] = m
		}
	}
	return out
}

// Names maps menu item ids to display names in the default language.
func (s *CatalogService) Names(ctx context.Context, ids []uint) map[uint]string {
	items := s.Lookup(ctx, ids)
	out := make(map[uint]string, len(items))
	for id, m := range items {
		out[id] = m.NameIn(s.Lang)
	}
	return out
}

func (s *CatalogService) fallback(ctx context.Context, err error, what string) {
	metrics.CatalogFallback()
	logger.FromContext(ctx).WithError(err).Warnf("%s unavailable, serving demo catalog", what)
}
