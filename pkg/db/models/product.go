package models

import (
	"time"

	dbtypes "github.com/angelmondragon/productmgmt-backend/pkg/db/types"
)

// ProductAbstract is the locale-independent product record.
type ProductAbstract struct {
	ID                  int64                       `gorm:"column:id;primaryKey;autoIncrement"`
	SKU                 string                      `gorm:"column:sku;not null;uniqueIndex"`
	TaxSetID            *int64                      `gorm:"column:tax_set_id"`
	Attributes          dbtypes.StringMap           `gorm:"column:attributes;type:text;not null"`
	LocalizedAttributes []ProductLocalizedAttribute `gorm:"foreignKey:ProductAbstractID;constraint:OnDelete:CASCADE"`
	Prices              []PriceProduct              `gorm:"foreignKey:ProductAbstractID;constraint:OnDelete:CASCADE"`
	ImageSets           []ProductImageSet           `gorm:"foreignKey:ProductAbstractID;constraint:OnDelete:CASCADE"`
	CreatedAt           time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductAbstract) TableName() string { return "product_abstracts" }

// ProductLocalizedAttribute carries the per-locale name, SEO fields and attributes.
type ProductLocalizedAttribute struct {
	ID                int64             `gorm:"column:id;primaryKey;autoIncrement"`
	ProductAbstractID int64             `gorm:"column:product_abstract_id;not null;uniqueIndex:idx_localized_attributes_product_locale"`
	Locale            string            `gorm:"column:locale;not null;uniqueIndex:idx_localized_attributes_product_locale"`
	Name              string            `gorm:"column:name;not null"`
	MetaTitle         *string           `gorm:"column:meta_title"`
	MetaKeywords      *string           `gorm:"column:meta_keywords"`
	MetaDescription   *string           `gorm:"column:meta_description"`
	Attributes        dbtypes.StringMap `gorm:"column:attributes;type:text;not null"`
}

func (ProductLocalizedAttribute) TableName() string { return "product_localized_attributes" }

// PriceProduct links a product to a price type.
type PriceProduct struct {
	ID                int64               `gorm:"column:id;primaryKey;autoIncrement"`
	ProductAbstractID int64               `gorm:"column:product_abstract_id;not null;uniqueIndex:idx_price_products_product_type"`
	PriceTypeID       int64               `gorm:"column:price_type_id;not null;uniqueIndex:idx_price_products_product_type"`
	PriceType         PriceType           `gorm:"foreignKey:PriceTypeID"`
	Stores            []PriceProductStore `gorm:"foreignKey:PriceProductID;constraint:OnDelete:CASCADE"`
}

func (PriceProduct) TableName() string { return "price_products" }

// PriceProductStore is one stored price row for a (store, currency) pair.
type PriceProductStore struct {
	ID             int64    `gorm:"column:id;primaryKey;autoIncrement"`
	PriceProductID int64    `gorm:"column:price_product_id;not null;uniqueIndex:idx_price_product_stores_coordinate"`
	StoreID        int64    `gorm:"column:store_id;not null;uniqueIndex:idx_price_product_stores_coordinate"`
	Store          Store    `gorm:"foreignKey:StoreID"`
	CurrencyCode   string   `gorm:"column:currency_code;not null;uniqueIndex:idx_price_product_stores_coordinate"`
	Currency       Currency `gorm:"foreignKey:CurrencyCode;references:Code"`
	GrossAmount    *int64   `gorm:"column:gross_amount"`
	NetAmount      *int64   `gorm:"column:net_amount"`
	PriceData      *string  `gorm:"column:price_data"`
}

func (PriceProductStore) TableName() string { return "price_product_stores" }

// ProductImageSet groups images of an abstract for one locale. Locale "_" holds the default set.
type ProductImageSet struct {
	ID                int64          `gorm:"column:id;primaryKey;autoIncrement"`
	ProductAbstractID int64          `gorm:"column:product_abstract_id;not null;index:idx_product_image_sets_product_locale"`
	Locale            string         `gorm:"column:locale;not null;index:idx_product_image_sets_product_locale"`
	Name              string         `gorm:"column:name;not null"`
	Images            []ProductImage `gorm:"foreignKey:ProductImageSetID;constraint:OnDelete:CASCADE"`
}

func (ProductImageSet) TableName() string { return "product_image_sets" }

type ProductImage struct {
	ID                int64  `gorm:"column:id;primaryKey;autoIncrement"`
	ProductImageSetID int64  `gorm:"column:product_image_set_id;not null;index"`
	ExternalURLSmall  string `gorm:"column:external_url_small;not null"`
	ExternalURLLarge  string `gorm:"column:external_url_large;not null"`
	SortOrder         int    `gorm:"column:sort_order;not null;default:0"`
}

func (ProductImage) TableName() string { return "product_images" }

// All lists every model in dependency order, for schema bootstrapping on sqlite.
func All() []any {
	return []any{
		&Currency{},
		&Store{},
		&StoreCurrency{},
		&PriceType{},
		&Locale{},
		&ProductAbstract{},
		&ProductLocalizedAttribute{},
		&PriceProduct{},
		&PriceProductStore{},
		&ProductImageSet{},
		&ProductImage{},
	}
}
