package pricing

import "github.com/angelmondragon/productmgmt-backend/pkg/enums"

// PriceType is a named pricing tier and the mode it is quoted in.
type PriceType struct {
	Name      string          `json:"name"`
	PriceMode enums.PriceMode `json:"price_mode"`
}

// Currency is the full descriptor carried by a money value.
type Currency struct {
	Code           string `json:"code"`
	Name           string `json:"name,omitempty"`
	Symbol         string `json:"symbol,omitempty"`
	FractionDigits int    `json:"fraction_digits"`
}

// MoneyValue holds the amounts of one price row. Amounts are in minor units.
type MoneyValue struct {
	Currency    Currency `json:"currency"`
	GrossAmount *int64   `json:"gross_amount"`
	NetAmount   *int64   `json:"net_amount"`
	PriceData   *string  `json:"price_data,omitempty"`
}

// HasAmount reports whether either amount is set.
func (m MoneyValue) HasAmount() bool {
	return m.GrossAmount != nil || m.NetAmount != nil
}

// PriceEntry is one submitted or stored price row.
type PriceEntry struct {
	PriceType   *PriceType `json:"price_type"`
	MoneyValue  MoneyValue `json:"money_value"`
	PersistedID *int64     `json:"persisted_id,omitempty"`
}

// StoreContext scopes a price entry to a sales channel.
type StoreContext struct {
	StoreName string `json:"store_name"`
}

// StoredEntry pairs a price entry with the store it is rendered for.
type StoredEntry struct {
	Store StoreContext
	Entry *PriceEntry
}

// VolumePrice is the inline action offered next to a price cell.
type VolumePrice struct {
	Action enums.VolumePriceAction `json:"action"`
	Label  string                  `json:"label"`
	URL    string                  `json:"url"`
}
