package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type MenuItem struct {
	ID         uint `gorm:"primaryKey" json:"id"`
	CategoryID uint `gorm:"index" json:"categoryId"`

	NameUz        string `gorm:"size:255;not null" json:"nameUz"`
	NameRu        string `gorm:"size:255;not null" json:"nameRu"`
	NameEn        string `gorm:"size:255;not null" json:"nameEn"`
	DescriptionUz string `json:"descriptionUz"`
	DescriptionRu string `json:"descriptionRu"`
	DescriptionEn string `json:"descriptionEn"`

	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	ImageURL    string          `json:"imageUrl"`
	IsAvailable bool            `gorm:"not null" json:"isAvailable"`

	// preload only when listing the menu
	Category *Category `gorm:"foreignKey:CategoryID" json:"-"`

	CategoryNameUz string `gorm:"-" json:"categoryNameUz"`
	CategoryNameRu string `gorm:"-" json:"categoryNameRu"`
	CategoryNameEn string `gorm:"-" json:"categoryNameEn"`

	// localized for the caller
	Name        string `gorm:"-" json:"name,omitempty"`
	Description string `gorm:"-" json:"description,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NameIn returns the name in lang (uz, ru or en). Anything else is uz.
func (m MenuItem) NameIn(lang string) string {
	return pick(lang, m.NameUz, m.NameRu, m.NameEn)
}

// Localize fills Name and Description for lang.
func (m *MenuItem) Localize(lang string) {
	m.Name = m.NameIn(lang)
	m.Description = pick(lang, m.DescriptionUz, m.DescriptionRu, m.DescriptionEn)
}

// FillCategory copies the category names onto the item.
func (m *MenuItem) FillCategory(c Category) {
	m.CategoryNameUz = c.NameUz
	m.CategoryNameRu = c.NameRu
	m.CategoryNameEn = c.NameEn
}

func pick(lang, uz, ru, en string) string {
	switch lang {
	case "ru":
		if ru != "" {
			return ru
		}
	case "en":
		if en != "" {
			return en
		}
	}
	return uz
}

// Catalog is a full categories + menu dataset, used for seeding and as the
// read fallback when the store is unreachable.
type Catalog struct {
	Categories []Category
	MenuItems  []MenuItem
}

// Available returns the menu items that can be ordered.
func (c Catalog) Available() []MenuItem {
	out := make([]MenuItem, 0, len(c.MenuItems))
	for _, m := range c.MenuItems {
		if m.IsAvailable {
			out = append(out, m)
		}
	}
	return out
}

// Lookup indexes the menu items by id.
func (c Catalog) Lookup() map[uint]MenuItem {
	out := make(map[uint]MenuItem, len(c.MenuItems))
	for _, m := range c.MenuItems {
		out[m.ID] = m
	}
	return out
}
