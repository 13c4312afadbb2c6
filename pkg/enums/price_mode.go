package enums

// PriceMode describes how a price type is quoted.
type PriceMode string

const (
	PriceModeNet   PriceMode = "NET_MODE"
	PriceModeGross PriceMode = "GROSS_MODE"
	PriceModeBoth  PriceMode = "BOTH"
)

var validPriceModes = []PriceMode{
	PriceModeNet,
	PriceModeGross,
	PriceModeBoth,
}

// String implements fmt.Stringer.
func (m PriceMode) String() string {
	return string(m)
}

// IsValid reports whether the value is a known PriceMode.
func (m PriceMode) IsValid() bool {
	for _, candidate := range validPriceModes {
		if candidate == m {
			return true
		}
	}
	return false
}
