package pricing

import (
	"errors"
	"testing"

	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
)

func TestBuckets(t *testing.T) {
	r := NewModeResolver(config.PricingConfig{})

	both := r.Buckets(PriceType{Name: "default", PriceMode: enums.PriceModeBoth})
	if len(both) != 2 || both[0] != enums.PriceModeNet || both[1] != enums.PriceModeGross {
		t.Fatalf("expected [NET GROSS] for BOTH, got %v", both)
	}

	net := r.Buckets(PriceType{Name: "default", PriceMode: enums.PriceModeNet})
	if len(net) != 1 || net[0] != enums.PriceModeNet {
		t.Fatalf("expected [NET], got %v", net)
	}

	gross := r.Buckets(PriceType{Name: "default", PriceMode: enums.PriceModeGross})
	if len(gross) != 1 || gross[0] != enums.PriceModeGross {
		t.Fatalf("expected [GROSS], got %v", gross)
	}

	if got := r.Buckets(PriceType{Name: "default", PriceMode: "SOMETHING"}); got != nil {
		t.Fatalf("expected no buckets for unknown mode, got %v", got)
	}
}

func TestTokensFromConfig(t *testing.T) {
	r := NewModeResolver(config.PricingConfig{
		NetModeToken:   "net",
		GrossModeToken: "gross",
		BothModeToken:  "both",
	})

	if r.Token(enums.PriceModeNet) != "net" || r.Token(enums.PriceModeGross) != "gross" || r.Token(enums.PriceModeBoth) != "both" {
		t.Fatalf("unexpected tokens %q %q %q", r.Token(enums.PriceModeNet), r.Token(enums.PriceModeGross), r.Token(enums.PriceModeBoth))
	}

	mode, err := r.Parse(" both ")
	if err != nil || mode != enums.PriceModeBoth {
		t.Fatalf("expected BOTH, got %q (%v)", mode, err)
	}

	_, err = r.Parse("NET_MODE")
	if err == nil {
		t.Fatal("expected unknown token error")
	}
	if !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
	if pkgerrors.CodeOf(err) != pkgerrors.CodeInvalidEntry {
		t.Fatalf("expected invalid entry code, got %s", pkgerrors.CodeOf(err))
	}
}

func TestDefaultTokensMatchEnum(t *testing.T) {
	r := NewModeResolver(config.PricingConfig{})
	for _, mode := range []enums.PriceMode{enums.PriceModeNet, enums.PriceModeGross, enums.PriceModeBoth} {
		if r.Token(mode) != mode.String() {
			t.Fatalf("expected token %q, got %q", mode, r.Token(mode))
		}
		parsed, err := r.Parse(mode.String())
		if err != nil || parsed != mode {
			t.Fatalf("expected %q to parse, got %q (%v)", mode, parsed, err)
		}
	}
}
