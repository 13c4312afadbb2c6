package pricing

import (
	"errors"

	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
)

// ErrInvalidEntry marks a price entry that violates the builder's input contract.
var ErrInvalidEntry = errors.New("invalid price entry")

func invalidEntry(index int, store StoreContext, reason string) error {
	return pkgerrors.Wrap(pkgerrors.CodeInvalidEntry, ErrInvalidEntry, reason).WithDetails(map[string]any{
		"index":      index,
		"store_name": store.StoreName,
		"reason":     reason,
	})
}
