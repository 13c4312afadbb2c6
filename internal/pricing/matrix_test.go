package pricing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntries() []StoredEntry {
	def := priceType("default", enums.PriceModeBoth)
	orig := priceType("original", enums.PriceModeGross)
	return []StoredEntry{
		stored("US", "USD", def, int64Ptr(1), int64Ptr(1000), nil),
		stored("US", "EUR", orig, nil, nil, nil),
		stored("DE", "USD", orig, int64Ptr(2), nil, int64Ptr(500)),
		stored("DE", "EUR", def, int64Ptr(3), int64Ptr(1200), int64Ptr(1000)),
		stored("AT", "EUR", def, nil, nil, nil),
	}
}

func permutations(items []StoredEntry) [][]StoredEntry {
	if len(items) <= 1 {
		return [][]StoredEntry{append([]StoredEntry(nil), items...)}
	}
	var out [][]StoredEntry
	for i := range items {
		rest := make([]StoredEntry, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]StoredEntry{items[i]}, p...))
		}
	}
	return out
}

func TestBuildIsDeterministicAcrossPermutations(t *testing.T) {
	entries := sampleEntries()
	reference, err := BuildMatrix(entries)
	require.NoError(t, err)
	want, err := json.Marshal(reference)
	require.NoError(t, err)

	for _, perm := range permutations(entries) {
		got, err := BuildMatrix(perm)
		require.NoError(t, err)
		encoded, err := json.Marshal(got)
		require.NoError(t, err)
		require.Equal(t, string(want), string(encoded))
		require.Equal(t, reference.Table.Keys(), got.Table.Keys())
	}
}

func TestBuildIsIdempotent(t *testing.T) {
	entries := sampleEntries()
	first, err := BuildMatrix(entries)
	require.NoError(t, err)
	second, err := BuildMatrix(entries)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBothModeDuplication(t *testing.T) {
	def := priceType("default", enums.PriceModeBoth)
	entry := stored("DE", "EUR", def, nil, int64Ptr(100), nil)

	m, err := BuildMatrix([]StoredEntry{entry})
	require.NoError(t, err)

	net, ok := m.Cell("DE", "EUR", enums.PriceModeNet, "default")
	require.True(t, ok)
	gross, ok := m.Cell("DE", "EUR", enums.PriceModeGross, "default")
	require.True(t, ok)
	assert.Same(t, entry.Entry, net)
	assert.Same(t, entry.Entry, gross)

	currencies, _ := m.Table.Get("DE")
	modes, _ := currencies.Get("EUR")
	assert.Equal(t, []string{"GROSS_MODE", "NET_MODE"}, modes.Keys())

	_, ok = m.PriceTypesFor(enums.PriceModeNet).Get("default")
	assert.True(t, ok)
	_, ok = m.PriceTypesFor(enums.PriceModeGross).Get("default")
	assert.True(t, ok)
	_, ok = m.PriceTypes.Get("BOTH")
	assert.False(t, ok, "BOTH is never a bucket of its own")
}

func TestSingleModeStaysInItsBucket(t *testing.T) {
	m, err := BuildMatrix([]StoredEntry{stored("DE", "EUR", priceType("original", enums.PriceModeGross), nil, nil, nil)})
	require.NoError(t, err)

	_, ok := m.Cell("DE", "EUR", enums.PriceModeNet, "original")
	assert.False(t, ok)
	_, ok = m.Cell("DE", "EUR", enums.PriceModeGross, "original")
	assert.True(t, ok)

	assert.Equal(t, []string{"GROSS_MODE", "NET_MODE"}, m.PriceTypes.Keys(), "both buckets are always listed")
	assert.Equal(t, 0, m.PriceTypesFor(enums.PriceModeNet).Len())
}

func TestEveryLevelIsSorted(t *testing.T) {
	def := priceType("default", enums.PriceModeBoth)
	special := priceType("special", enums.PriceModeNet)
	entries := []StoredEntry{
		stored("US", "USD", special, nil, nil, nil),
		stored("US", "USD", def, nil, nil, nil),
		stored("US", "EUR", def, nil, nil, nil),
		stored("DE", "USD", def, nil, nil, nil),
		stored("DE", "EUR", special, nil, nil, nil),
		stored("DE", "EUR", def, nil, nil, nil),
	}

	m, err := BuildMatrix(entries)
	require.NoError(t, err)

	assert.Equal(t, []string{"DE", "US"}, m.Table.Keys())
	m.Table.Each(func(store string, currencies CurrencyTable) {
		assert.Equal(t, []string{"EUR", "USD"}, currencies.Keys(), store)
		currencies.Each(func(currency string, modes ModeTable) {
			assert.Equal(t, []string{"GROSS_MODE", "NET_MODE"}, modes.Keys())
			net, _ := modes.Get("NET_MODE")
			assert.IsIncreasing(t, net.Keys())
		})
	})

	encoded, err := json.Marshal(m.Table)
	require.NoError(t, err)
	assert.Regexp(t, `^\{"DE":\{"EUR":\{"GROSS_MODE":\{"default":.*\},"NET_MODE":\{"default":.*,"special":.*\}\},"USD"`, string(encoded))
}

func TestSortIsOrdinal(t *testing.T) {
	def := priceType("default", enums.PriceModeNet)
	m, err := BuildMatrix([]StoredEntry{
		stored("b", "EUR", def, nil, nil, nil),
		stored("B", "EUR", def, nil, nil, nil),
		stored("a", "EUR", def, nil, nil, nil),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"B", "a", "b"}, m.Table.Keys())
}

func TestCurrencyLastWriteWins(t *testing.T) {
	def := priceType("default", enums.PriceModeNet)
	first := stored("DE", "EUR", def, nil, nil, nil)
	first.Entry.MoneyValue.Currency = Currency{Code: "EUR", Name: "Euro (old)", Symbol: "EUR", FractionDigits: 2}
	second := stored("AT", "EUR", def, nil, nil, nil)
	second.Entry.MoneyValue.Currency = Currency{Code: "EUR", Name: "Euro", Symbol: "€", FractionDigits: 2}

	m, err := BuildMatrix([]StoredEntry{first, second})
	require.NoError(t, err)

	require.Equal(t, 1, m.Currencies.Len())
	eur, ok := m.Currencies.Get("EUR")
	require.True(t, ok)
	assert.Equal(t, second.Entry.MoneyValue.Currency, eur)
}

func TestDuplicateCoordinates(t *testing.T) {
	first := stored("DE", "EUR", &PriceType{Name: "default", PriceMode: enums.PriceModeNet}, nil, int64Ptr(1), nil)
	second := stored("DE", "EUR", &PriceType{Name: "default", PriceMode: enums.PriceModeNet}, nil, int64Ptr(2), nil)

	m, err := BuildMatrix([]StoredEntry{first, second})
	require.NoError(t, err)

	cell, ok := m.Cell("DE", "EUR", enums.PriceModeNet, "default")
	require.True(t, ok)
	assert.Same(t, second.Entry, cell, "later cell overwrites")

	pt, ok := m.PriceTypesFor(enums.PriceModeNet).Get("default")
	require.True(t, ok)
	assert.Equal(t, *first.Entry.PriceType, pt)
}

func TestVolumePriceIndex(t *testing.T) {
	def := priceType("default", enums.PriceModeBoth)
	withVolume := stored("DE", "EUR", def, int64Ptr(42), int64Ptr(1000), nil)
	withVolume.Entry.MoneyValue.PriceData = strPtr(`{"volume_prices":[{"quantity":10}]}`)
	entries := []StoredEntry{
		withVolume,
		stored("DE", "USD", def, int64Ptr(43), nil, int64Ptr(500)),
		stored("US", "USD", def, nil, int64Ptr(500), nil),
		stored("US", "EUR", def, int64Ptr(44), nil, nil),
	}

	m, err := BuildMatrix(entries)
	require.NoError(t, err)

	assert.Equal(t, []string{"DE"}, m.VolumePrices.Keys(), "US rows are either unsaved or empty")
	de, _ := m.VolumePrices.Get("DE")
	eur, _ := de.Get("EUR")
	edit, ok := eur.Get("default")
	require.True(t, ok)
	assert.Equal(t, enums.VolumePriceActionEdit, edit.Action)
	assert.Equal(t, "Edit Volume Price: default", edit.Label)
	assert.Contains(t, edit.URL, "/price-product-volume-gui/price-volume/edit?")
	assert.Contains(t, edit.URL, "store-name=DE")

	usd, _ := de.Get("USD")
	add, ok := usd.Get("default")
	require.True(t, ok)
	assert.Equal(t, enums.VolumePriceActionAdd, add.Action)
	assert.Equal(t, "Add Volume Price: default", add.Label)
}

func TestInvalidEntryFailsFast(t *testing.T) {
	def := priceType("default", enums.PriceModeNet)
	cases := map[string]StoredEntry{
		"nil entry":      {Store: StoreContext{StoreName: "DE"}},
		"nil price type": stored("DE", "EUR", nil, nil, nil, nil),
		"empty name":     stored("DE", "EUR", &PriceType{PriceMode: enums.PriceModeNet}, nil, nil, nil),
		"unknown mode":   stored("DE", "EUR", &PriceType{Name: "default", PriceMode: "DOUBLE"}, nil, nil, nil),
		"empty store":    stored("", "EUR", def, nil, nil, nil),
		"empty currency": stored("DE", "", def, nil, nil, nil),
	}

	for name, bad := range cases {
		t.Run(name, func(t *testing.T) {
			m, err := BuildMatrix([]StoredEntry{stored("DE", "EUR", def, nil, nil, nil), bad})
			require.Error(t, err)
			assert.Nil(t, m)
			assert.True(t, errors.Is(err, ErrInvalidEntry))
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeInvalidEntry, typed.Code())
			details, ok := typed.Details().(map[string]any)
			require.True(t, ok)
			assert.Equal(t, 1, details["index"])
		})
	}
}

func TestConfiguredTokensKeyTheTable(t *testing.T) {
	builder := NewMatrixBuilder(config.PricingConfig{NetModeToken: "net", GrossModeToken: "gross", BothModeToken: "both"})
	m, err := builder.Build([]StoredEntry{stored("DE", "EUR", priceType("default", enums.PriceModeBoth), nil, nil, nil)})
	require.NoError(t, err)

	currencies, _ := m.Table.Get("DE")
	modes, _ := currencies.Get("EUR")
	assert.Equal(t, []string{"gross", "net"}, modes.Keys())
	assert.Equal(t, []string{"gross", "net"}, m.PriceTypes.Keys())
	_, ok := m.Cell("DE", "EUR", enums.PriceModeNet, "default")
	assert.True(t, ok)
}

func TestEmptyInput(t *testing.T) {
	m, err := BuildMatrix(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, m.Table.Len())
	assert.Equal(t, 0, m.Currencies.Len())
	assert.Equal(t, 0, m.VolumePrices.Len())

	encoded, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"price_table":{},"price_types":{"GROSS_MODE":{},"NET_MODE":{}},"volume_prices":{},"currencies":{}}`, string(encoded))
}
