package directory

import (
	"context"
	"strings"

	"github.com/angelmondragon/productmgmt-backend/pkg/db/models"
	"gorm.io/gorm"
)

// Repository reads the store, currency, price type and locale tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to directory lookups.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// ListPriceTypes returns every configured price type ordered by name.
func (r *Repository) ListPriceTypes(ctx context.Context) ([]models.PriceType, error) {
	var types []models.PriceType
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

// FindPriceTypeByName loads a price type by its unique name.
func (r *Repository) FindPriceTypeByName(ctx context.Context, name string) (*models.PriceType, error) {
	var pt models.PriceType
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&pt).Error; err != nil {
		return nil, err
	}
	return &pt, nil
}

// FindCurrency loads a currency descriptor by ISO code.
func (r *Repository) FindCurrency(ctx context.Context, code string) (*models.Currency, error) {
	var currency models.Currency
	if err := r.db.WithContext(ctx).Where("code = ?", strings.ToUpper(code)).First(&currency).Error; err != nil {
		return nil, err
	}
	return &currency, nil
}

// FindStoreByName loads a store by its unique name.
func (r *Repository) FindStoreByName(ctx context.Context, name string) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&store).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListStoresWithCurrencies returns stores ordered by name with their currencies preloaded.
func (r *Repository) ListStoresWithCurrencies(ctx context.Context) ([]models.Store, error) {
	var stores []models.Store
	if err := r.db.WithContext(ctx).
		Preload("Currencies", func(db *gorm.DB) *gorm.DB {
			return db.Order("currency_code ASC")
		}).
		Preload("Currencies.Currency").
		Order("name ASC").
		Find(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// ListActiveLocales returns the active locales ordered by name.
func (r *Repository) ListActiveLocales(ctx context.Context) ([]models.Locale, error) {
	var locales []models.Locale
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("locale_name ASC").
		Find(&locales).Error; err != nil {
		return nil, err
	}
	return locales, nil
}
