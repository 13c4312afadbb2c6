package pricing

import "github.com/angelmondragon/productmgmt-backend/pkg/enums"

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func priceType(name string, mode enums.PriceMode) *PriceType {
	return &PriceType{Name: name, PriceMode: mode}
}

func stored(store, currency string, pt *PriceType, id *int64, gross, net *int64) StoredEntry {
	return StoredEntry{
		Store: StoreContext{StoreName: store},
		Entry: &PriceEntry{
			PriceType: pt,
			MoneyValue: MoneyValue{
				Currency:    Currency{Code: currency, FractionDigits: 2},
				GrossAmount: gross,
				NetAmount:   net,
			},
			PersistedID: id,
		},
	}
}
