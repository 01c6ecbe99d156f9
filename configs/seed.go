package configs

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"milano/entity"
	"milano/pkg/logger"
	"milano/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"
)

//go:embed demo_catalog.yaml
var demoCatalogYAML []byte

type catalogFile struct {
	Categories []struct {
		ID       uint   `yaml:"id"`
		NameUz   string `yaml:"name_uz"`
		NameRu   string `yaml:"name_ru"`
		NameEn   string `yaml:"name_en"`
		ImageURL string `yaml:"image_url"`
	} `yaml:"categories"`
	MenuItems []struct {
		ID            uint    `yaml:"id"`
		CategoryID    uint    `yaml:"category_id"`
		NameUz        string  `yaml:"name_uz"`
		NameRu        string  `yaml:"name_ru"`
		NameEn        string  `yaml:"name_en"`
		DescriptionUz string  `yaml:"description_uz"`
		DescriptionRu string  `yaml:"description_ru"`
		DescriptionEn string  `yaml:"description_en"`
		Price         float64 `yaml:"price"`
		ImageURL      string  `yaml:"image_url"`
		Unavailable   bool    `yaml:"unavailable"`
	} `yaml:"menu_items"`
}

// DemoCatalog is the built-in dataset. It seeds empty stores and backs the
// menu endpoints when the store cannot be read.
func DemoCatalog() (entity.Catalog, error) {
	return ParseCatalog(demoCatalogYAML)
}

func ParseCatalog(raw []byte) (entity.Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return entity.Catalog{}, fmt.Errorf("parse catalog: %w", err)
	}

	var c entity.Catalog
	cats := make(map[uint]entity.Category, len(f.Categories))
	for _, fc := range f.Categories {
		cat := entity.Category{ID: fc.ID, NameUz: fc.NameUz, NameRu: fc.NameRu, NameEn: fc.NameEn, ImageURL: fc.ImageURL}
		cats[cat.ID] = cat
		c.Categories = append(c.Categories, cat)
	}
	for _, fm := range f.MenuItems {
		if fm.ID == 0 || fm.NameUz == "" {
			return entity.Catalog{}, fmt.Errorf("parse catalog: menu item needs id and name_uz")
		}
		m := entity.MenuItem{
			ID:            fm.ID,
			CategoryID:    fm.CategoryID,
			NameUz:        fm.NameUz,
			NameRu:        fm.NameRu,
			NameEn:        fm.NameEn,
			DescriptionUz: fm.DescriptionUz,
			DescriptionRu: fm.DescriptionRu,
			DescriptionEn: fm.DescriptionEn,
			Price:         decimal.NewFromFloat(fm.Price).Round(2),
			ImageURL:      fm.ImageURL,
			IsAvailable:   !fm.Unavailable,
		}
		if cat, ok := cats[m.CategoryID]; ok {
			m.FillCategory(cat)
		}
		c.MenuItems = append(c.MenuItems, m)
	}
	return c, nil
}

// SeedAdmin creates the admin account once. Missing credentials skip it.
func SeedAdmin(ctx context.Context, users repository.UserStore, email, password string) error {
	log := logger.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		log.Warn("skip seeding admin: ADMIN_EMAIL/ADMIN_PASSWORD not set")
		return nil
	}

	if _, err := users.FindUserByEmail(ctx, email); err == nil {
		log.WithField("email", email).Info("admin already exists")
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	admin := entity.User{
		Email:    email,
		Password: string(hash),
		Name:     "Admin",
		IsAdmin:  true,
	}
	if err := users.CreateUser(ctx, &admin); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	log.WithField("email", email).Info("admin seeded")
	return nil
}

// SeedCatalog loads the demo dataset into an empty store.
func SeedCatalog(ctx context.Context, store repository.CatalogStore, c entity.Catalog) error {
	if err := store.SeedCatalog(ctx, c); err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	return nil
}

// Seed runs every seeder against the store.
func Seed(ctx context.Context, store repository.Store, cfg *Config) (entity.Catalog, error) {
	demo, err := DemoCatalog()
	if err != nil {
		return entity.Catalog{}, err
	}
	if err := SeedCatalog(ctx, store, demo); err != nil {
		return demo, err
	}
	if err := SeedAdmin(ctx, store, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return demo, err
	}
	return demo, nil
}
