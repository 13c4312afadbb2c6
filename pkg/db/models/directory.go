package models

// Store is a sales channel with its own currency assignments.
type Store struct {
	ID         int64           `gorm:"column:id;primaryKey;autoIncrement"`
	Name       string          `gorm:"column:name;not null;uniqueIndex"`
	Currencies []StoreCurrency `gorm:"foreignKey:StoreID;constraint:OnDelete:CASCADE"`
}

func (Store) TableName() string { return "stores" }

// Currency holds the canonical descriptor for an ISO code.
type Currency struct {
	Code           string `gorm:"column:code;primaryKey"`
	Name           string `gorm:"column:name;not null"`
	Symbol         string `gorm:"column:symbol;not null"`
	FractionDigits int    `gorm:"column:fraction_digits;not null;default:2"`
}

func (Currency) TableName() string { return "currencies" }

// StoreCurrency assigns a currency to a store.
type StoreCurrency struct {
	StoreID      int64    `gorm:"column:store_id;primaryKey"`
	CurrencyCode string   `gorm:"column:currency_code;primaryKey"`
	Currency     Currency `gorm:"foreignKey:CurrencyCode;references:Code"`
}

func (StoreCurrency) TableName() string { return "store_currencies" }

// PriceType is a named pricing tier and the mode token it is quoted in.
type PriceType struct {
	ID                     int64  `gorm:"column:id;primaryKey;autoIncrement"`
	Name                   string `gorm:"column:name;not null;uniqueIndex"`
	PriceModeConfiguration string `gorm:"column:price_mode_configuration;not null"`
}

func (PriceType) TableName() string { return "price_types" }

// Locale is an authoring locale such as de_DE.
type Locale struct {
	ID         int64  `gorm:"column:id;primaryKey;autoIncrement"`
	LocaleName string `gorm:"column:locale_name;not null;uniqueIndex"`
	IsActive   bool   `gorm:"column:is_active;not null;default:true"`
}

func (Locale) TableName() string { return "locales" }
