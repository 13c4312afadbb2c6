package pricing

import (
	"strings"

	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/enums"
)

// Level aliases for the nested, sorted price table:
// store name → currency code → mode token → price type name → entry.
type (
	PriceTable     = SortedMap[CurrencyTable]
	CurrencyTable  = SortedMap[ModeTable]
	ModeTable      = SortedMap[PriceTypeCells]
	PriceTypeCells = SortedMap[*PriceEntry]

	// PriceTypesByMode maps a mode token to the price types quoted in it.
	PriceTypesByMode = SortedMap[SortedMap[PriceType]]
	// VolumePriceIndex maps store name → currency code → price type name → action.
	VolumePriceIndex = SortedMap[SortedMap[SortedMap[VolumePrice]]]
	// CurrencySet maps a currency code to its descriptor.
	CurrencySet = SortedMap[Currency]
)

// Matrix is everything the price form needs to lay out its grid.
type Matrix struct {
	Table        PriceTable       `json:"price_table"`
	PriceTypes   PriceTypesByMode `json:"price_types"`
	VolumePrices VolumePriceIndex `json:"volume_prices"`
	Currencies   CurrencySet      `json:"currencies"`

	resolver ModeResolver
}

// Cell returns the entry at the given coordinate.
func (m *Matrix) Cell(store, currency string, mode enums.PriceMode, priceType string) (*PriceEntry, bool) {
	currencies, ok := m.Table.Get(store)
	if !ok {
		return nil, false
	}
	modes, ok := currencies.Get(currency)
	if !ok {
		return nil, false
	}
	cells, ok := modes.Get(m.resolver.Token(mode))
	if !ok {
		return nil, false
	}
	return cells.Get(priceType)
}

// MatrixBuilder classifies price entries into the nested table. It holds no state between calls.
type MatrixBuilder struct {
	resolver   ModeResolver
	classifier VolumePriceClassifier
}

// NewMatrixBuilder wires the builder from pricing configuration.
func NewMatrixBuilder(cfg config.PricingConfig) *MatrixBuilder {
	return &MatrixBuilder{
		resolver:   NewModeResolver(cfg),
		classifier: NewVolumePriceClassifier(cfg),
	}
}

// PriceTypesFor returns the price types quoted in mode.
func (m *Matrix) PriceTypesFor(mode enums.PriceMode) SortedMap[PriceType] {
	types, _ := m.PriceTypes.Get(m.resolver.Token(mode))
	return types
}

// Resolver exposes the mode resolver used for table keys.
func (b *MatrixBuilder) Resolver() ModeResolver {
	return b.resolver
}

// BuildMatrix builds with default configuration.
func BuildMatrix(entries []StoredEntry) (*Matrix, error) {
	return NewMatrixBuilder(config.PricingConfig{}).Build(entries)
}

// Build processes entries in input order and returns the sorted matrix. Duplicate
// coordinates overwrite earlier cells; the first price type seen per name and mode is kept.
// Any invalid entry aborts the build without a partial result.
func (b *MatrixBuilder) Build(entries []StoredEntry) (*Matrix, error) {
	acc := newAccumulator(b.resolver)

	for i, item := range entries {
		if err := b.validate(i, item); err != nil {
			return nil, err
		}
		entry := item.Entry
		store := item.Store.StoreName
		currency := entry.MoneyValue.Currency.Code
		priceType := *entry.PriceType

		for _, mode := range b.resolver.Buckets(priceType) {
			token := b.resolver.Token(mode)
			acc.addPriceType(token, priceType)
			acc.setCell(store, currency, token, priceType.Name, entry)
		}

		acc.currencies[currency] = entry.MoneyValue.Currency

		if vp, ok := b.classifier.Classify(*entry); ok {
			acc.setVolumePrice(store, currency, priceType.Name, vp.withScope(item.Store, *entry))
		}
	}

	return acc.finish(), nil
}

func (b *MatrixBuilder) validate(index int, item StoredEntry) error {
	if item.Entry == nil {
		return invalidEntry(index, item.Store, "price entry is missing")
	}
	if item.Entry.PriceType == nil {
		return invalidEntry(index, item.Store, "price type is missing")
	}
	if strings.TrimSpace(item.Entry.PriceType.Name) == "" {
		return invalidEntry(index, item.Store, "price type name is empty")
	}
	if len(b.resolver.Buckets(*item.Entry.PriceType)) == 0 {
		return invalidEntry(index, item.Store, "price type has an unknown price mode")
	}
	if strings.TrimSpace(item.Store.StoreName) == "" {
		return invalidEntry(index, item.Store, "store name is empty")
	}
	if strings.TrimSpace(item.Entry.MoneyValue.Currency.Code) == "" {
		return invalidEntry(index, item.Store, "currency code is empty")
	}
	return nil
}

type accumulator struct {
	resolver     ModeResolver
	table        map[string]map[string]map[string]map[string]*PriceEntry
	priceTypes   map[string]map[string]PriceType
	volumePrices map[string]map[string]map[string]VolumePrice
	currencies   map[string]Currency
}

func newAccumulator(resolver ModeResolver) *accumulator {
	return &accumulator{
		resolver: resolver,
		table:    map[string]map[string]map[string]map[string]*PriceEntry{},
		// both buckets are always present, even when no price type uses them
		priceTypes: map[string]map[string]PriceType{
			resolver.Token(enums.PriceModeNet):   {},
			resolver.Token(enums.PriceModeGross): {},
		},
		volumePrices: map[string]map[string]map[string]VolumePrice{},
		currencies:   map[string]Currency{},
	}
}

func (a *accumulator) addPriceType(token string, pt PriceType) {
	types, ok := a.priceTypes[token]
	if !ok {
		types = map[string]PriceType{}
		a.priceTypes[token] = types
	}
	if _, exists := types[pt.Name]; !exists {
		types[pt.Name] = pt
	}
}

func (a *accumulator) setCell(store, currency, token, priceType string, entry *PriceEntry) {
	currencies, ok := a.table[store]
	if !ok {
		currencies = map[string]map[string]map[string]*PriceEntry{}
		a.table[store] = currencies
	}
	modes, ok := currencies[currency]
	if !ok {
		modes = map[string]map[string]*PriceEntry{}
		currencies[currency] = modes
	}
	cells, ok := modes[token]
	if !ok {
		cells = map[string]*PriceEntry{}
		modes[token] = cells
	}
	cells[priceType] = entry
}

func (a *accumulator) setVolumePrice(store, currency, priceType string, vp VolumePrice) {
	currencies, ok := a.volumePrices[store]
	if !ok {
		currencies = map[string]map[string]VolumePrice{}
		a.volumePrices[store] = currencies
	}
	types, ok := currencies[currency]
	if !ok {
		types = map[string]VolumePrice{}
		currencies[currency] = types
	}
	types[priceType] = vp
}

func (a *accumulator) finish() *Matrix {
	stores := make(map[string]CurrencyTable, len(a.table))
	for store, currencies := range a.table {
		byCurrency := make(map[string]ModeTable, len(currencies))
		for currency, modes := range currencies {
			byMode := make(map[string]PriceTypeCells, len(modes))
			for token, cells := range modes {
				byMode[token] = sortedFrom(cells)
			}
			byCurrency[currency] = sortedFrom(byMode)
		}
		stores[store] = sortedFrom(byCurrency)
	}

	priceTypes := make(map[string]SortedMap[PriceType], len(a.priceTypes))
	for token, types := range a.priceTypes {
		priceTypes[token] = sortedFrom(types)
	}

	volume := make(map[string]SortedMap[SortedMap[VolumePrice]], len(a.volumePrices))
	for store, currencies := range a.volumePrices {
		byCurrency := make(map[string]SortedMap[VolumePrice], len(currencies))
		for currency, types := range currencies {
			byCurrency[currency] = sortedFrom(types)
		}
		volume[store] = sortedFrom(byCurrency)
	}

	return &Matrix{
		Table:        sortedFrom(stores),
		PriceTypes:   sortedFrom(priceTypes),
		VolumePrices: sortedFrom(volume),
		Currencies:   sortedFrom(a.currencies),
		resolver:     a.resolver,
	}
}
