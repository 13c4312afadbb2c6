package pricing

// StoreCurrencies lists the currencies a store sells in, as provided by the directory.
type StoreCurrencies struct {
	StoreName  string     `json:"store_name"`
	Currencies []Currency `json:"currencies"`
}

type coordinate struct {
	store     string
	currency  string
	priceType string
}

// FillMissing returns existing followed by an empty entry for every
// (store, currency, price type) combination the directory knows and existing lacks.
// Empty entries carry no amounts and no persisted id, so they never get a volume price.
func FillMissing(existing []StoredEntry, stores []StoreCurrencies, types []PriceType) []StoredEntry {
	seen := make(map[coordinate]struct{}, len(existing))
	for _, item := range existing {
		if item.Entry == nil || item.Entry.PriceType == nil {
			continue
		}
		seen[coordinate{
			store:     item.Store.StoreName,
			currency:  item.Entry.MoneyValue.Currency.Code,
			priceType: item.Entry.PriceType.Name,
		}] = struct{}{}
	}

	out := make([]StoredEntry, 0, len(existing))
	out = append(out, existing...)

	for _, store := range stores {
		for _, currency := range store.Currencies {
			for _, pt := range types {
				key := coordinate{store: store.StoreName, currency: currency.Code, priceType: pt.Name}
				if _, ok := seen[key]; ok {
					continue
				}
				seen[key] = struct{}{}
				priceType := pt
				out = append(out, StoredEntry{
					Store: StoreContext{StoreName: store.StoreName},
					Entry: &PriceEntry{
						PriceType:  &priceType,
						MoneyValue: MoneyValue{Currency: currency},
					},
				})
			}
		}
	}
	return out
}

// HasAnyAmount reports whether at least one (store, currency) group carries an amount.
func HasAnyAmount(entries []StoredEntry) bool {
	for _, item := range entries {
		if item.Entry != nil && item.Entry.MoneyValue.HasAmount() {
			return true
		}
	}
	return false
}
