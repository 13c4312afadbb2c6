package directory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/productmgmt-backend/internal/pricing"
	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
	"github.com/angelmondragon/productmgmt-backend/pkg/redis"
	"gorm.io/gorm"
)

type reader interface {
	ListPriceTypes(ctx context.Context) ([]models.PriceType, error)
	FindCurrency(ctx context.Context, code string) (*models.Currency, error)
	ListStoresWithCurrencies(ctx context.Context) ([]models.Store, error)
	ListActiveLocales(ctx context.Context) ([]models.Locale, error)
}

// Service serves the locale/store/currency directory and the price-mode configuration.
// The cache is optional; cache failures fall back to the database.
type Service struct {
	repo     reader
	cache    redis.Cache
	ttl      time.Duration
	resolver pricing.ModeResolver
	logg     *logger.Logger
}

// NewService wires the directory. cache may be nil.
func NewService(repo reader, cache redis.Cache, cfg config.DirectoryConfig, resolver pricing.ModeResolver, logg *logger.Logger) (*Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("directory repository required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		repo:     repo,
		cache:    cache,
		ttl:      cfg.CurrencyCacheTTL,
		resolver: resolver,
		logg:     logg,
	}, nil
}

// ListPriceTypes resolves each stored mode token through the configured resolver.
func (s *Service) ListPriceTypes(ctx context.Context) ([]pricing.PriceType, error) {
	rows, err := s.repo.ListPriceTypes(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list price types")
	}
	out := make([]pricing.PriceType, 0, len(rows))
	for _, row := range rows {
		mode, err := s.resolver.Parse(row.PriceModeConfiguration)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "price type has an unconfigured mode").
				WithDetails(map[string]any{"price_type": row.Name, "price_mode": row.PriceModeConfiguration})
		}
		out = append(out, pricing.PriceType{Name: row.Name, PriceMode: mode})
	}
	return out, nil
}

// CurrencyByCode returns the canonical descriptor for code, reading through the cache.
func (s *Service) CurrencyByCode(ctx context.Context, code string) (pricing.Currency, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return pricing.Currency{}, pkgerrors.New(pkgerrors.CodeValidation, "currency code is required")
	}

	if currency, ok := s.cachedCurrency(ctx, code); ok {
		return currency, nil
	}

	row, err := s.repo.FindCurrency(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pricing.Currency{}, pkgerrors.New(pkgerrors.CodeNotFound, "currency not found").
				WithDetails(map[string]any{"currency_code": code})
		}
		return pricing.Currency{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find currency")
	}

	currency := toCurrency(*row)
	s.storeCache(ctx, s.cacheKey(code), currency)
	return currency, nil
}

// ListStoreCurrencies returns every store with the currencies it sells in, both ordered.
func (s *Service) ListStoreCurrencies(ctx context.Context) ([]pricing.StoreCurrencies, error) {
	stores, err := s.repo.ListStoresWithCurrencies(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list store currencies")
	}
	out := make([]pricing.StoreCurrencies, 0, len(stores))
	for _, store := range stores {
		group := pricing.StoreCurrencies{StoreName: store.Name, Currencies: make([]pricing.Currency, 0, len(store.Currencies))}
		for _, sc := range store.Currencies {
			group.Currencies = append(group.Currencies, toCurrency(sc.Currency))
		}
		sort.Slice(group.Currencies, func(i, j int) bool {
			return group.Currencies[i].Code < group.Currencies[j].Code
		})
		out = append(out, group)
	}
	return out, nil
}

// ListLocales returns the active locale codes in ascending order.
func (s *Service) ListLocales(ctx context.Context) ([]string, error) {
	if s.cache != nil {
		raw, err := s.cache.Get(ctx, s.cache.LocalesKey())
		if err == nil {
			var locales []string
			if jsonErr := json.Unmarshal([]byte(raw), &locales); jsonErr == nil {
				return locales, nil
			}
		} else if !redis.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "directory cache read failed")
		}
	}

	rows, err := s.repo.ListActiveLocales(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list locales")
	}
	locales := make([]string, 0, len(rows))
	for _, row := range rows {
		locales = append(locales, row.LocaleName)
	}
	if s.cache != nil {
		s.storeCache(ctx, s.cache.LocalesKey(), locales)
	}
	return locales, nil
}

func (s *Service) cacheKey(code string) string {
	if s.cache == nil {
		return ""
	}
	return s.cache.CurrencyKey(code)
}

func (s *Service) cachedCurrency(ctx context.Context, code string) (pricing.Currency, bool) {
	if s.cache == nil {
		return pricing.Currency{}, false
	}
	raw, err := s.cache.Get(ctx, s.cache.CurrencyKey(code))
	if err != nil {
		if !redis.IsMiss(err) {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "directory cache read failed")
		}
		return pricing.Currency{}, false
	}
	var currency pricing.Currency
	if err := json.Unmarshal([]byte(raw), &currency); err != nil || currency.Code != code {
		return pricing.Currency{}, false
	}
	return currency, true
}

func (s *Service) storeCache(ctx context.Context, key string, value any) {
	if s.cache == nil || key == "" {
		return
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, key, string(payload), s.ttl); err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "directory cache write failed")
	}
}

func toCurrency(row models.Currency) pricing.Currency {
	return pricing.Currency{
		Code:           row.Code,
		Name:           row.Name,
		Symbol:         row.Symbol,
		FractionDigits: row.FractionDigits,
	}
}
