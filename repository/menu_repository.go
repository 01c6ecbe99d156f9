package repository

import (
	"context"

	"milano/entity"

	"gorm.io/gorm"
)

type MenuRepository struct {
	DB *gorm.DB
}

func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{DB: db}
}

func (r *MenuRepository) ListCategories(ctx context.Context) ([]entity.Category, error) {
	var out []entity.Category
	err := r.DB.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

// available items with their category names
func (r *MenuRepository) ListMenuItems(ctx context.Context) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := r.DB.WithContext(ctx).
		Preload("Category").
		Where("is_available = ?", true).
		Order("category_id").Order("name_uz").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Category != nil {
			items[i].FillCategory(*items[i].Category)
		}
	}
	return items, nil
}

func (r *MenuRepository) FindMenuItems(ctx context.Context, ids []uint) (map[uint]entity.MenuItem, error) {
	out := make(map[uint]entity.MenuItem, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []entity.MenuItem
	if err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	for _, m := range items {
		out[m.ID] = m
	}
	return out, nil
}

// fills each table only while it is empty
func (r *MenuRepository) SeedCatalog(ctx context.Context, c entity.Catalog) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.Category{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 && len(c.Categories) > 0 {
			cats := append([]entity.Category(nil), c.Categories...)
			if err := tx.Create(&cats).Error; err != nil {
				return err
			}
		}

		if err := tx.Model(&entity.MenuItem{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 && len(c.MenuItems) > 0 {
			items := make([]entity.MenuItem, len(c.MenuItems))
			for i, m := range c.MenuItems {
				m.Category = nil
				items[i] = m
			}
			if err := tx.Create(&items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
