package repository

import (
	"context"
	"errors"
	"time"

	"milano/entity"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// OrderFilter narrows ListOrders. Zero values mean no restriction.
type OrderFilter struct {
	UserID      *uint
	CreatedFrom *time.Time
}

// OrderStore persists orders together with their line items.
type OrderStore interface {
	// CreateOrder writes the header and every item as one unit and assigns IDs.
	CreateOrder(ctx context.Context, o *entity.Order) error
	GetOrder(ctx context.Context, id uint) (*entity.Order, error)
	// ListOrders returns newest created first, ties broken by id descending.
	ListOrders(ctx context.Context, f OrderFilter) ([]entity.Order, error)
	// UpdateStatusGuard moves the order to `to` only while it is still in
	// `from`. It reports whether a row changed.
	UpdateStatusGuard(ctx context.Context, id uint, from, to entity.OrderStatus, at time.Time) (bool, error)
	// SetStatus overwrites the status unconditionally.
	SetStatus(ctx context.Context, id uint, to entity.OrderStatus, at time.Time) error
}

type CatalogStore interface {
	ListCategories(ctx context.Context) ([]entity.Category, error)
	// ListMenuItems returns available items with category names, ordered by
	// category then Uzbek name.
	ListMenuItems(ctx context.Context) ([]entity.MenuItem, error)
	// FindMenuItems looks items up regardless of availability.
	FindMenuItems(ctx context.Context, ids []uint) (map[uint]entity.MenuItem, error)
	// SeedCatalog inserts the dataset when the catalog is empty.
	SeedCatalog(ctx context.Context, c entity.Catalog) error
}

// UserUpdate lists the profile fields to change. Nil means unchanged.
type UserUpdate struct {
	Name    *string
	Email   *string
	Phone   *string
	Address *string
}

type UserStore interface {
	CreateUser(ctx context.Context, u *entity.User) error
	FindUserByEmail(ctx context.Context, email string) (*entity.User, error)
	FindUserByID(ctx context.Context, id uint) (*entity.User, error)
	FindUsers(ctx context.Context, ids []uint) (map[uint]entity.User, error)
	UpdateUser(ctx context.Context, id uint, upd UserUpdate, at time.Time) error
	// ListUsers returns newest first.
	ListUsers(ctx context.Context) ([]entity.User, error)
	CountUsersSince(ctx context.Context, since time.Time) (int64, error)
}

type ReviewStore interface {
	// CreateReview fails with ErrDuplicate when the user already rated the item.
	CreateReview(ctx context.Context, r *entity.Review) error
	// ListReviews returns newest first.
	ListReviews(ctx context.Context, menuItemID uint) ([]entity.Review, error)
	RatingStats(ctx context.Context, menuItemID uint) (avg float64, count int64, err error)
}

type TicketStore interface {
	CreateTicket(ctx context.Context, t *entity.SupportTicket) error
	GetTicket(ctx context.Context, id uint) (*entity.SupportTicket, error)
	// ListTickets returns newest first; nil userID lists every ticket.
	ListTickets(ctx context.Context, userID *uint) ([]entity.SupportTicket, error)
	UpdateTicket(ctx context.Context, id uint, status, priority *string, at time.Time) error
}

// Store is one backing mode. Exactly one is chosen at startup.
type Store interface {
	OrderStore
	CatalogStore
	UserStore
	ReviewStore
	TicketStore

	Mode() string
	Close() error
}

const (
	ModeMemory     = "memory"
	ModeRelational = "relational"
)
