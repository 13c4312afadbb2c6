package product

import (
	"context"

	"github.com/angelmondragon/productmgmt-backend/pkg/db/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository wires together the product abstract and price persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindAbstractBySKU loads the abstract without associations.
func (r *Repository) FindAbstractBySKU(ctx context.Context, sku string) (*models.ProductAbstract, error) {
	var abstract models.ProductAbstract
	if err := r.db.WithContext(ctx).Where("sku = ?", sku).First(&abstract).Error; err != nil {
		return nil, err
	}
	return &abstract, nil
}

// SKUExists reports whether an abstract already uses sku.
func (r *Repository) SKUExists(ctx context.Context, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ProductAbstract{}).Where("sku = ?", sku).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ListPrices loads the price products of an abstract with their type and store rows.
// Currency descriptors come from the directory, not from this query.
func (r *Repository) ListPrices(ctx context.Context, abstractID int64) ([]models.PriceProduct, error) {
	var prices []models.PriceProduct
	if err := r.db.WithContext(ctx).
		Preload("PriceType").
		Preload("Stores", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Preload("Stores.Store").
		Where("product_abstract_id = ?", abstractID).
		Order("id ASC").
		Find(&prices).Error; err != nil {
		return nil, err
	}
	return prices, nil
}

// StoreIDsByName maps store names to ids. Unknown names are absent from the result.
func (r *Repository) StoreIDsByName(ctx context.Context, names []string) (map[string]int64, error) {
	out := map[string]int64{}
	if len(names) == 0 {
		return out, nil
	}
	var stores []models.Store
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&stores).Error; err != nil {
		return nil, err
	}
	for _, store := range stores {
		out[store.Name] = store.ID
	}
	return out, nil
}

// PriceTypeIDsByName maps price type names to ids. Unknown names are absent from the result.
func (r *Repository) PriceTypeIDsByName(ctx context.Context, names []string) (map[string]int64, error) {
	out := map[string]int64{}
	if len(names) == 0 {
		return out, nil
	}
	var types []models.PriceType
	if err := r.db.WithContext(ctx).Where("name IN ?", names).Find(&types).Error; err != nil {
		return nil, err
	}
	for _, pt := range types {
		out[pt.Name] = pt.ID
	}
	return out, nil
}

// CreateProductAbstract inserts the abstract with its localized records, image sets and prices.
// Related rows are inserted explicitly so directory rows are never upserted.
func (r *Repository) CreateProductAbstract(ctx context.Context, abstract *models.ProductAbstract) (*models.ProductAbstract, error) {
	tx := r.db.WithContext(ctx)
	if err := tx.Omit(clause.Associations).Create(abstract).Error; err != nil {
		return nil, err
	}

	for i := range abstract.LocalizedAttributes {
		abstract.LocalizedAttributes[i].ProductAbstractID = abstract.ID
	}
	if len(abstract.LocalizedAttributes) > 0 {
		if err := tx.Omit(clause.Associations).Create(&abstract.LocalizedAttributes).Error; err != nil {
			return nil, err
		}
	}

	for i := range abstract.ImageSets {
		set := &abstract.ImageSets[i]
		set.ProductAbstractID = abstract.ID
		if err := tx.Omit(clause.Associations).Create(set).Error; err != nil {
			return nil, err
		}
		for j := range set.Images {
			set.Images[j].ProductImageSetID = set.ID
		}
		if len(set.Images) > 0 {
			if err := tx.Omit(clause.Associations).Create(&set.Images).Error; err != nil {
				return nil, err
			}
		}
	}

	for i := range abstract.Prices {
		price := &abstract.Prices[i]
		price.ProductAbstractID = abstract.ID
		if err := tx.Omit(clause.Associations).Create(price).Error; err != nil {
			return nil, err
		}
		for j := range price.Stores {
			price.Stores[j].PriceProductID = price.ID
		}
		if len(price.Stores) > 0 {
			if err := tx.Omit(clause.Associations).Create(&price.Stores).Error; err != nil {
				return nil, err
			}
		}
	}
	return abstract, nil
}
