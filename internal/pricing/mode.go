package pricing

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
)

// ModeResolver maps price types onto the NET/GROSS buckets and translates between the
// enum and the tokens used by the configuration source.
type ModeResolver struct {
	netToken   string
	grossToken string
	bothToken  string
}

// NewModeResolver builds a resolver from the configured mode tokens.
func NewModeResolver(cfg config.PricingConfig) ModeResolver {
	return ModeResolver{
		netToken:   fallbackToken(cfg.NetModeToken, enums.PriceModeNet),
		grossToken: fallbackToken(cfg.GrossModeToken, enums.PriceModeGross),
		bothToken:  fallbackToken(cfg.BothModeToken, enums.PriceModeBoth),
	}
}

func fallbackToken(token string, mode enums.PriceMode) string {
	if trimmed := strings.TrimSpace(token); trimmed != "" {
		return trimmed
	}
	return mode.String()
}

// Buckets returns the table buckets a price type belongs to. BOTH fans out to NET then GROSS.
func (r ModeResolver) Buckets(pt PriceType) []enums.PriceMode {
	if !pt.PriceMode.IsValid() {
		return nil
	}
	if pt.PriceMode == enums.PriceModeBoth {
		return []enums.PriceMode{enums.PriceModeNet, enums.PriceModeGross}
	}
	return []enums.PriceMode{pt.PriceMode}
}

// Token returns the configured token for a mode.
func (r ModeResolver) Token(mode enums.PriceMode) string {
	switch mode {
	case enums.PriceModeNet:
		return r.netToken
	case enums.PriceModeGross:
		return r.grossToken
	case enums.PriceModeBoth:
		return r.bothToken
	}
	return mode.String()
}

// Parse converts a configured token into a mode.
func (r ModeResolver) Parse(token string) (enums.PriceMode, error) {
	switch strings.TrimSpace(token) {
	case r.netToken:
		return enums.PriceModeNet, nil
	case r.grossToken:
		return enums.PriceModeGross, nil
	case r.bothToken:
		return enums.PriceModeBoth, nil
	}
	return "", pkgerrors.Wrap(pkgerrors.CodeInvalidEntry, ErrInvalidEntry, fmt.Sprintf("unknown price mode %q", token)).
		WithDetails(map[string]any{"price_mode": token})
}
