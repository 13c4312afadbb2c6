package enums

// VolumePriceAction tells the operator whether a tiered schedule exists for a price row.
type VolumePriceAction string

const (
	VolumePriceActionEdit VolumePriceAction = "EDIT"
	VolumePriceActionAdd  VolumePriceAction = "ADD"
)

// String implements fmt.Stringer.
func (a VolumePriceAction) String() string {
	return string(a)
}
