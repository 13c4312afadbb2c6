package pricing

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/enums"
)

const (
	volumePricesKey = "volume_prices"

	defaultVolumeEditURL = "/price-product-volume-gui/price-volume/edit"
	defaultVolumeAddURL  = "/price-product-volume-gui/price-volume/add"
)

// VolumePriceClassifier decides whether a price row offers an edit or add volume price action.
type VolumePriceClassifier struct {
	editURL string
	addURL  string
}

// NewVolumePriceClassifier builds a classifier linking to the configured volume price GUI.
func NewVolumePriceClassifier(cfg config.PricingConfig) VolumePriceClassifier {
	c := VolumePriceClassifier{editURL: cfg.VolumeEditURL, addURL: cfg.VolumeAddURL}
	if c.editURL == "" {
		c.editURL = defaultVolumeEditURL
	}
	if c.addURL == "" {
		c.addURL = defaultVolumeAddURL
	}
	return c
}

// Classify returns the volume price action for entry, or false when none applies:
// the row is not persisted yet or carries no amount at all.
func (c VolumePriceClassifier) Classify(entry PriceEntry) (VolumePrice, bool) {
	if entry.PersistedID == nil || !entry.MoneyValue.HasAmount() || entry.PriceType == nil {
		return VolumePrice{}, false
	}

	name := entry.PriceType.Name
	if hasVolumePrices(entry.MoneyValue.PriceData) {
		return VolumePrice{
			Action: enums.VolumePriceActionEdit,
			Label:  fmt.Sprintf("Edit Volume Price: %s", name),
			URL:    c.editURL,
		}, true
	}
	return VolumePrice{
		Action: enums.VolumePriceActionAdd,
		Label:  fmt.Sprintf("Add Volume Price: %s", name),
		URL:    c.addURL,
	}, true
}

// hasVolumePrices treats missing or undecodable metadata as an empty object.
// A volume_prices key holding null counts as absent.
func hasVolumePrices(priceData *string) bool {
	if priceData == nil || *priceData == "" {
		return false
	}
	decoded := map[string]json.RawMessage{}
	if err := json.Unmarshal([]byte(*priceData), &decoded); err != nil {
		return false
	}
	raw, ok := decoded[volumePricesKey]
	if !ok {
		return false
	}
	return string(raw) != "null"
}

// withScope appends the coordinates the volume price GUI needs to open the right row.
func (v VolumePrice) withScope(store StoreContext, entry PriceEntry) VolumePrice {
	q := url.Values{}
	if entry.PersistedID != nil {
		q.Set("id-price-product", strconv.FormatInt(*entry.PersistedID, 10))
	}
	q.Set("store-name", store.StoreName)
	q.Set("currency-code", entry.MoneyValue.Currency.Code)
	if entry.PriceType != nil {
		q.Set("price-type", entry.PriceType.Name)
	}
	v.URL = v.URL + "?" + q.Encode()
	return v
}
