// Package memstore is the in-process backing mode. State lives for the
// lifetime of the process and is lost on restart.
package memstore

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"milano/entity"
	"milano/repository"
)

// Store is safe for concurrent use. Every value handed out is a copy.
type Store struct {
	mu sync.RWMutex

	nextOrderID  uint
	nextItemID   uint
	nextUserID   uint
	nextReviewID uint
	nextTicketID uint

	orders     map[uint]entity.Order
	users      map[uint]entity.User
	categories []entity.Category
	menu       []entity.MenuItem
	reviews    map[uint]entity.Review
	tickets    map[uint]entity.SupportTicket

	now func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		nextOrderID:  1,
		nextItemID:   1,
		nextUserID:   1,
		nextReviewID: 1,
		nextTicketID: 1,
		orders:       make(map[uint]entity.Order),
		users:        make(map[uint]entity.User),
		reviews:      make(map[uint]entity.Review),
		tickets:      make(map[uint]entity.SupportTicket),
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Mode() string { return repository.ModeMemory }

func (s *Store) Close() error { return nil }

// Orders ---------------------------------------------------------------------

func (s *Store) CreateOrder(_ context.Context, o *entity.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.CreatedAt.IsZero() {
		o.CreatedAt = s.now()
	}
	if o.UpdatedAt.IsZero() {
		o.UpdatedAt = o.CreatedAt
	}
	o.ID = s.nextOrderID
	s.nextOrderID++

	items := make([]entity.OrderItem, len(o.Items))
	for i, it := range o.Items {
		it.ID = s.nextItemID
		s.nextItemID++
		it.OrderID = o.ID
		if it.CreatedAt.IsZero() {
			it.CreatedAt = o.CreatedAt
		}
		items[i] = it
	}
	o.Items = items

	s.orders[o.ID] = cloneOrder(*o)
	return nil
}

func (s *Store) GetOrder(_ context.Context, id uint) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	out := cloneOrder(o)
	return &out, nil
}

func (s *Store) ListOrders(_ context.Context, f repository.OrderFilter) ([]entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Order, 0, len(s.orders))
	for _, o := range s.orders {
		if f.UserID != nil && (o.UserID == nil || *o.UserID != *f.UserID) {
			continue
		}
		if f.CreatedFrom != nil && o.CreatedAt.Before(*f.CreatedFrom) {
			continue
		}
		out = append(out, cloneOrder(o))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateStatusGuard(_ context.Context, id uint, from, to entity.OrderStatus, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok || o.Status != from {
		return false, nil
	}
	o.Status = to
	o.UpdatedAt = at
	s.orders[id] = o
	return true, nil
}

func (s *Store) SetStatus(_ context.Context, id uint, to entity.OrderStatus, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	if !ok {
		return repository.ErrNotFound
	}
	o.Status = to
	o.UpdatedAt = at
	s.orders[id] = o
	return nil
}

// Catalog --------------------------------------------------------------------

func (s *Store) ListCategories(_ context.Context) ([]entity.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := append([]entity.Category(nil), s.categories...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) ListMenuItems(_ context.Context) ([]entity.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cats := make(map[uint]entity.Category, len(s.categories))
	for _, c := range s.categories {
		cats[c.ID] = c
	}
	out := make([]entity.MenuItem, 0, len(s.menu))
	for _, m := range s.menu {
		if !m.IsAvailable {
			continue
		}
		if c, ok := cats[m.CategoryID]; ok {
			m.FillCategory(c)
		}
		m.Category = nil
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CategoryID != out[j].CategoryID {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].NameUz < out[j].NameUz
	})
	return out, nil
}

func (s *Store) FindMenuItems(_ context.Context, ids []uint) (map[uint]entity.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		want[id] = struct{}{}
	}
	out := make(map[uint]entity.MenuItem, len(ids))
	for _, m := range s.menu {
		if _, ok := want[m.ID]; ok {
			m.Category = nil
			out[m.ID] = m
		}
	}
	return out, nil
}

func (s *Store) SeedCatalog(_ context.Context, c entity.Catalog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.categories) == 0 {
		s.categories = append([]entity.Category(nil), c.Categories...)
	}
	if len(s.menu) == 0 {
		s.menu = append([]entity.MenuItem(nil), c.MenuItems...)
	}
	return nil
}

// Users ----------------------------------------------------------------------

func (s *Store) CreateUser(_ context.Context, u *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	if u.UpdatedAt.IsZero() {
		u.UpdatedAt = u.CreatedAt
	}
	u.ID = s.nextUserID
	s.nextUserID++
	s.users[u.ID] = *u
	return nil
}

func (s *Store) FindUserByEmail(_ context.Context, email string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) FindUserByID(_ context.Context, id uint) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (s *Store) FindUsers(_ context.Context, ids []uint) (map[uint]entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[uint]entity.User, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out[id] = u
		}
	}
	return out, nil
}

func (s *Store) UpdateUser(_ context.Context, id uint, upd repository.UserUpdate, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	if upd.Email != nil && *upd.Email != u.Email {
		for otherID, other := range s.users {
			if otherID != id && strings.EqualFold(other.Email, *upd.Email) {
				return repository.ErrDuplicate
			}
		}
		u.Email = *upd.Email
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.Phone != nil {
		u.Phone = *upd.Phone
	}
	if upd.Address != nil {
		u.Address = *upd.Address
	}
	u.UpdatedAt = at
	s.users[id] = u
	return nil
}

func (s *Store) ListUsers(_ context.Context) ([]entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) CountUsersSince(_ context.Context, since time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, u := range s.users {
		if !u.CreatedAt.Before(since) {
			n++
		}
	}
	return n, nil
}

// Reviews --------------------------------------------------------------------

func (s *Store) CreateReview(_ context.Context, r *entity.Review) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.reviews {
		if existing.UserID == r.UserID && existing.MenuItemID == r.MenuItemID {
			return repository.ErrDuplicate
		}
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}
	r.ID = s.nextReviewID
	s.nextReviewID++
	s.reviews[r.ID] = cloneReview(*r)
	return nil
}

func (s *Store) ListReviews(_ context.Context, menuItemID uint) ([]entity.Review, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Review, 0)
	for _, r := range s.reviews {
		if r.MenuItemID == menuItemID {
			out = append(out, cloneReview(r))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) RatingStats(_ context.Context, menuItemID uint) (float64, int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var sum, n int64
	for _, r := range s.reviews {
		if r.MenuItemID == menuItemID {
			sum += int64(r.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

// Support tickets ------------------------------------------------------------

func (s *Store) CreateTicket(_ context.Context, t *entity.SupportTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.CreatedAt.IsZero() {
		t.CreatedAt = s.now()
	}
	if t.UpdatedAt.IsZero() {
		t.UpdatedAt = t.CreatedAt
	}
	t.ID = s.nextTicketID
	s.nextTicketID++
	s.tickets[t.ID] = *t
	return nil
}

func (s *Store) GetTicket(_ context.Context, id uint) (*entity.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (s *Store) ListTickets(_ context.Context, userID *uint) ([]entity.SupportTicket, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.SupportTicket, 0, len(s.tickets))
	for _, t := range s.tickets {
		if userID != nil && t.UserID != *userID {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func (s *Store) UpdateTicket(_ context.Context, id uint, status, priority *string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tickets[id]
	if !ok {
		return repository.ErrNotFound
	}
	if status != nil {
		t.Status = *status
	}
	if priority != nil {
		t.Priority = *priority
	}
	t.UpdatedAt = at
	s.tickets[id] = t
	return nil
}

// cloning helpers --------------------------------------------------------------

func cloneOrder(o entity.Order) entity.Order {
	items := make([]entity.OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	if o.UserID != nil {
		v := *o.UserID
		o.UserID = &v
	}
	if o.Notes != nil {
		v := *o.Notes
		o.Notes = &v
	}
	if o.Latitude != nil {
		v := *o.Latitude
		o.Latitude = &v
	}
	if o.Longitude != nil {
		v := *o.Longitude
		o.Longitude = &v
	}
	o.UserName, o.UserEmail = nil, nil
	return o
}

func cloneReview(r entity.Review) entity.Review {
	if r.Comment != nil {
		v := *r.Comment
		r.Comment = &v
	}
	return r
}
