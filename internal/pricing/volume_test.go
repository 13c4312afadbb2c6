package pricing

import (
	"testing"

	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/enums"
	"github.com/stretchr/testify/assert"
)

func TestVolumePriceClassifierClassify(t *testing.T) {
	defaultType := priceType("default", enums.PriceModeGross)
	classifier := NewVolumePriceClassifier(config.PricingConfig{})

	tests := []struct {
		name       string
		entry      PriceEntry
		applicable bool
		action     enums.VolumePriceAction
		label      string
	}{
		{
			name: "not persisted",
			entry: PriceEntry{
				PriceType:  defaultType,
				MoneyValue: MoneyValue{GrossAmount: int64Ptr(1000), NetAmount: int64Ptr(800)},
			},
		},
		{
			name: "no amounts",
			entry: PriceEntry{
				PriceType:   defaultType,
				PersistedID: int64Ptr(42),
			},
		},
		{
			name: "existing volume prices",
			entry: PriceEntry{
				PriceType:   defaultType,
				PersistedID: int64Ptr(42),
				MoneyValue: MoneyValue{
					GrossAmount: int64Ptr(1000),
					PriceData:   strPtr(`{"volume_prices":[{"quantity":5,"gross_price":900}]}`),
				},
			},
			applicable: true,
			action:     enums.VolumePriceActionEdit,
			label:      "Edit Volume Price: default",
		},
		{
			name: "empty metadata",
			entry: PriceEntry{
				PriceType:   defaultType,
				PersistedID: int64Ptr(42),
				MoneyValue:  MoneyValue{NetAmount: int64Ptr(500), PriceData: strPtr(`{}`)},
			},
			applicable: true,
			action:     enums.VolumePriceActionAdd,
			label:      "Add Volume Price: default",
		},
		{
			name: "undecodable metadata",
			entry: PriceEntry{
				PriceType:   defaultType,
				PersistedID: int64Ptr(42),
				MoneyValue:  MoneyValue{NetAmount: int64Ptr(500), PriceData: strPtr(`{"volume_prices":`)},
			},
			applicable: true,
			action:     enums.VolumePriceActionAdd,
			label:      "Add Volume Price: default",
		},
		{
			name: "metadata not an object",
			entry: PriceEntry{
				PriceType:   defaultType,
				PersistedID: int64Ptr(42),
				MoneyValue:  MoneyValue{GrossAmount: int64Ptr(1), PriceData: strPtr(`["volume_prices"]`)},
			},
			applicable: true,
			action:     enums.VolumePriceActionAdd,
			label:      "Add Volume Price: default",
		},
		{
			name: "null volume prices",
			entry: PriceEntry{
				PriceType:   defaultType,
				PersistedID: int64Ptr(42),
				MoneyValue:  MoneyValue{GrossAmount: int64Ptr(1), PriceData: strPtr(`{"volume_prices":null}`)},
			},
			applicable: true,
			action:     enums.VolumePriceActionAdd,
			label:      "Add Volume Price: default",
		},
		{
			name: "zero amount is still an amount",
			entry: PriceEntry{
				PriceType:   defaultType,
				PersistedID: int64Ptr(7),
				MoneyValue:  MoneyValue{GrossAmount: int64Ptr(0)},
			},
			applicable: true,
			action:     enums.VolumePriceActionAdd,
			label:      "Add Volume Price: default",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := classifier.Classify(tt.entry)
			assert.Equal(t, tt.applicable, ok)
			if !tt.applicable {
				assert.Equal(t, VolumePrice{}, got)
				return
			}
			assert.Equal(t, tt.action, got.Action)
			assert.Equal(t, tt.label, got.Label)
		})
	}
}

func TestClassifierURLs(t *testing.T) {
	c := NewVolumePriceClassifier(config.PricingConfig{VolumeEditURL: "/edit", VolumeAddURL: "/add"})
	entry := PriceEntry{
		PriceType:   priceType("special", enums.PriceModeNet),
		PersistedID: int64Ptr(9),
		MoneyValue:  MoneyValue{NetAmount: int64Ptr(10), Currency: Currency{Code: "EUR"}},
	}

	add, ok := c.Classify(entry)
	assert.True(t, ok)
	assert.Equal(t, "/add", add.URL)

	entry.MoneyValue.PriceData = strPtr(`{"volume_prices":[]}`)
	edit, ok := c.Classify(entry)
	assert.True(t, ok)
	assert.Equal(t, "/edit", edit.URL)

	scoped := edit.withScope(StoreContext{StoreName: "DE"}, entry)
	assert.Equal(t, "/edit?currency-code=EUR&id-price-product=9&price-type=special&store-name=DE", scoped.URL)
	assert.Equal(t, "/edit", edit.URL, "withScope must not mutate the receiver")
}
