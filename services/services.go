package services

import (
	"time"

	"milano/entity"
	"milano/repository"
)

// Services is everything the HTTP layer needs, built over one store.
type Services struct {
	Mode      string
	Orders    *OrderService
	Catalog   *CatalogService
	Analytics *AnalyticsService
	Reviews   *ReviewService
	Support   *SupportService
	Auth      *AuthService
	Geocoder  *Geocoder
}

type Options struct {
	Demo        entity.Catalog
	DefaultLang string
	JWTSecret   string
	JWTTTL      time.Duration
	Geocoder    *Geocoder
}

func Build(store repository.Store, opts Options) *Services {
	catalog := NewCatalogService(store, opts.Demo, opts.DefaultLang)
	geo := opts.Geocoder
	if geo == nil {
		// no endpoint configured: every lookup returns the coordinate fallback
		geo = &Geocoder{}
	}
	return &Services{
		Mode:      store.Mode(),
		Orders:    NewOrderService(store, store, catalog),
		Catalog:   catalog,
		Analytics: NewAnalyticsService(store, store, catalog),
		Reviews:   NewReviewService(store, store),
		Support:   NewSupportService(store, store),
		Auth:      NewAuthService(store, opts.JWTSecret, opts.JWTTTL),
		Geocoder:  geo,
	}
}
