package repository

import (
	"milano/entity"

	"gorm.io/gorm"
)

// RelationalStore is the SQL backing mode.
type RelationalStore struct {
	*OrderRepository
	*MenuRepository
	*UserRepository
	*ReviewRepository
	*SupportRepository
}

var _ Store = (*RelationalStore)(nil)

func NewRelationalStore(db *gorm.DB) *RelationalStore {
	return &RelationalStore{
		OrderRepository:   NewOrderRepository(db),
		MenuRepository:    NewMenuRepository(db),
		UserRepository:    NewUserRepository(db),
		ReviewRepository:  NewReviewRepository(db),
		SupportRepository: NewSupportRepository(db),
	}
}

func (s *RelationalStore) Mode() string { return ModeRelational }

// Close releases the underlying connection pool.
func (s *RelationalStore) Close() error {
	sqlDB, err := s.OrderRepository.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Models lists every table the relational store owns, in migration order.
func Models() []any {
	return []any{
		&entity.User{},
		&entity.Category{},
		&entity.MenuItem{},
		&entity.Order{},
		&entity.OrderItem{},
		&entity.Review{},
		&entity.SupportTicket{},
	}
}

// Migrate creates or updates the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
