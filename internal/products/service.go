package product

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/angelmondragon/productmgmt-backend/internal/attributes"
	"github.com/angelmondragon/productmgmt-backend/internal/pricing"
	"github.com/angelmondragon/productmgmt-backend/pkg/config"
	"github.com/angelmondragon/productmgmt-backend/pkg/db"
	"github.com/angelmondragon/productmgmt-backend/pkg/db/models"
	"github.com/angelmondragon/productmgmt-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
	"github.com/angelmondragon/productmgmt-backend/pkg/logger"
	"github.com/angelmondragon/productmgmt-backend/pkg/metrics"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

const (
	opRenderPriceForm  = "render_price_form"
	opBuildMatrix      = "build_matrix"
	opMergeAttributes  = "merge_attributes"
	opSubmitProduct    = "submit_product"
	skuUniqueIndexName = "idx_product_abstracts_sku"
)

// Service exposes price form rendering and product submission.
type Service interface {
	RenderPriceForm(ctx context.Context, sku string) (*PriceFormView, error)
	BuildMatrix(ctx context.Context, entries []MatrixEntryInput) (*pricing.Matrix, error)
	MergeAttributes(ctx context.Context, req MergeAttributesRequest) (attributes.AttributeMap, error)
	SubmitProduct(ctx context.Context, input SubmitProductInput) (*ProductDTO, error)
}

type directoryReader interface {
	ListPriceTypes(ctx context.Context) ([]pricing.PriceType, error)
	ListStoreCurrencies(ctx context.Context) ([]pricing.StoreCurrencies, error)
	CurrencyByCode(ctx context.Context, code string) (pricing.Currency, error)
	ListLocales(ctx context.Context) ([]string, error)
}

// service implements the product service.
type service struct {
	repo      *Repository
	dbClient  *db.Client
	directory directoryReader
	builder   *pricing.MatrixBuilder
	cfg       config.PricingConfig
	metrics   *metrics.PricingMetrics
	logg      *logger.Logger
}

// NewService constructs a product service instance. metrics may be nil.
func NewService(repo *Repository, dbClient *db.Client, directory directoryReader, cfg config.PricingConfig, m *metrics.PricingMetrics, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("product repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if directory == nil {
		return nil, fmt.Errorf("directory required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		repo:      repo,
		dbClient:  dbClient,
		directory: directory,
		builder:   pricing.NewMatrixBuilder(cfg),
		cfg:       cfg,
		metrics:   m,
		logg:      logg,
	}, nil
}

// RenderPriceForm loads the stored prices of an abstract, completes them with empty rows for
// every directory coordinate and lays them out as a sorted matrix.
func (s *service) RenderPriceForm(ctx context.Context, sku string) (*PriceFormView, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	ctx = s.logg.WithSKU(ctx, sku)

	abstract, err := s.repo.FindAbstractBySKU(ctx, sku)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: find product")
	}

	prices, err := s.repo.ListPrices(ctx, abstract.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list prices")
	}

	types, err := s.directory.ListPriceTypes(ctx)
	if err != nil {
		return nil, err
	}
	typesByName := make(map[string]pricing.PriceType, len(types))
	for _, pt := range types {
		typesByName[pt.Name] = pt
	}

	currencies := map[string]pricing.Currency{}
	entries := make([]pricing.StoredEntry, 0, len(prices))
	for _, price := range prices {
		pt, ok := typesByName[price.PriceType.Name]
		if !ok {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "stored price references an unknown price type").
				WithDetails(map[string]any{"price_type": price.PriceType.Name})
		}
		id := price.ID
		for _, row := range price.Stores {
			currency, ok := currencies[row.CurrencyCode]
			if !ok {
				currency, err = s.directory.CurrencyByCode(ctx, row.CurrencyCode)
				if err != nil {
					return nil, err
				}
				currencies[row.CurrencyCode] = currency
			}
			priceType := pt
			entries = append(entries, pricing.StoredEntry{
				Store: pricing.StoreContext{StoreName: row.Store.Name},
				Entry: &pricing.PriceEntry{
					PriceType: &priceType,
					MoneyValue: pricing.MoneyValue{
						Currency:    currency,
						GrossAmount: row.GrossAmount,
						NetAmount:   row.NetAmount,
						PriceData:   row.PriceData,
					},
					PersistedID: &id,
				},
			})
		}
	}

	stores, err := s.directory.ListStoreCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	entries = pricing.FillMissing(entries, stores, types)

	matrix, err := s.build(ctx, opRenderPriceForm, entries)
	if err != nil {
		return nil, err
	}

	return &PriceFormView{
		SKU:    abstract.SKU,
		Matrix: matrix,
		Cells:  s.cells(matrix),
	}, nil
}

// BuildMatrix builds a matrix from posted rows. Mode tokens are resolved through configuration.
func (s *service) BuildMatrix(ctx context.Context, inputs []MatrixEntryInput) (*pricing.Matrix, error) {
	resolver := s.builder.Resolver()
	entries := make([]pricing.StoredEntry, 0, len(inputs))
	for i, in := range inputs {
		entry := &pricing.PriceEntry{
			MoneyValue: pricing.MoneyValue{
				Currency: pricing.Currency{
					Code:           strings.TrimSpace(in.Currency.Code),
					Name:           in.Currency.Name,
					Symbol:         in.Currency.Symbol,
					FractionDigits: in.Currency.FractionDigits,
				},
				GrossAmount: in.GrossAmount,
				NetAmount:   in.NetAmount,
				PriceData:   rawPriceData(in.PriceData),
			},
			PersistedID: in.PersistedID,
		}
		if in.PriceType != nil {
			mode, err := resolver.Parse(in.PriceType.PriceMode)
			if err != nil {
				s.metrics.IncFailure(opBuildMatrix, string(pkgerrors.CodeOf(err)))
				return nil, pkgerrors.Wrap(pkgerrors.CodeInvalidEntry, err, "price entry has an unknown price mode").
					WithDetails(map[string]any{
						"index":      i,
						"store_name": in.StoreName,
						"price_mode": in.PriceType.PriceMode,
					})
			}
			entry.PriceType = &pricing.PriceType{Name: strings.TrimSpace(in.PriceType.Name), PriceMode: mode}
		}
		entries = append(entries, pricing.StoredEntry{
			Store: pricing.StoreContext{StoreName: strings.TrimSpace(in.StoreName)},
			Entry: entry,
		})
	}
	return s.build(ctx, opBuildMatrix, entries)
}

// MergeAttributes merges the abstract and variant attribute submissions.
func (s *service) MergeAttributes(ctx context.Context, req MergeAttributesRequest) (attributes.AttributeMap, error) {
	start := time.Now()
	merged, err := attributes.MergeLevels(req.Abstract, req.Variant)
	s.metrics.ObserveDuration(opMergeAttributes, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(opMergeAttributes, string(pkgerrors.CodeOf(err)))
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "attribute submission rejected")
		return nil, err
	}
	return merged, nil
}

type submittedPrice struct {
	entry        pricing.StoredEntry
	storeID      int64
	priceTypeID  int64
	currencyCode string
}

// SubmitProduct validates the add-product form and persists the abstract with its
// localized records, image sets and prices in one transaction.
func (s *service) SubmitProduct(ctx context.Context, input SubmitProductInput) (*ProductDTO, error) {
	sku := Slugify(input.SKU)
	ctx = s.logg.WithSKU(ctx, sku)

	merged, err := s.MergeAttributes(ctx, MergeAttributesRequest{
		Abstract: input.AbstractAttributes,
		Variant:  input.VariantAttributes,
	})
	if err != nil {
		return nil, err
	}

	var violations error
	if sku == "" {
		violations = multierr.Append(violations, fmt.Errorf("sku %q does not contain any usable characters", input.SKU))
	} else {
		exists, err := s.repo.SKUExists(ctx, sku)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check sku")
		}
		if exists {
			violations = multierr.Append(violations, fmt.Errorf("the SKU %q is already used", sku))
		}
	}

	active, err := s.activeLocales(ctx)
	if err != nil {
		return nil, err
	}
	locales := validateLocales(active, input, merged, &violations)
	validateImageSets(active, input.ImageSets, &violations)

	prices, err := s.resolvePrices(ctx, input.Prices, &violations)
	if err != nil {
		return nil, err
	}

	entries := make([]pricing.StoredEntry, 0, len(prices))
	for _, price := range prices {
		entries = append(entries, price.entry)
	}
	if !s.cfg.PriceDimensions && !pricing.HasAnyAmount(entries) {
		violations = multierr.Append(violations, errors.New("at least one price must be set"))
	}

	if violations != nil {
		messages := []string{}
		for _, violation := range multierr.Errors(violations) {
			messages = append(messages, violation.Error())
		}
		s.metrics.IncFailure(opSubmitProduct, string(pkgerrors.CodeValidation))
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, violations, "product submission is invalid").
			WithDetails(map[string]any{"violations": messages})
	}

	abstract := newAbstract(sku, input, merged, locales, prices)

	var created *models.ProductAbstract
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		var err error
		created, err = s.repo.WithTx(tx).CreateProductAbstract(ctx, abstract)
		return err
	}); err != nil {
		if db.IsUniqueViolation(err, skuUniqueIndexName) || db.IsUniqueViolation(err, "product_abstracts.sku") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, fmt.Sprintf("the SKU %q is already used", sku))
		}
		if pkgerrors.As(err) != nil {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"product_abstract_id": created.ID,
		"locales":             len(created.LocalizedAttributes),
		"image_sets":          len(created.ImageSets),
		"prices":              len(prices),
	}), "product abstract created")
	return NewProductDTO(created), nil
}

func (s *service) activeLocales(ctx context.Context) (map[string]struct{}, error) {
	active, err := s.directory.ListLocales(ctx)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(active))
	for _, locale := range active {
		set[locale] = struct{}{}
	}
	return set, nil
}

// validateLocales returns every locale the submission touches, sorted, and appends a
// violation for each inactive locale or missing name.
func validateLocales(activeSet map[string]struct{}, input SubmitProductInput, merged attributes.AttributeMap, violations *error) []string {
	seen := map[string]struct{}{}
	for locale := range input.Localized {
		if locale != attributes.DefaultLocale {
			seen[locale] = struct{}{}
		}
	}
	for _, locale := range merged.Locales() {
		seen[locale] = struct{}{}
	}
	locales := make([]string, 0, len(seen))
	for locale := range seen {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		if _, ok := activeSet[locale]; !ok {
			multierr.AppendInto(violations, fmt.Errorf("locale %q is not active", locale))
			continue
		}
		if strings.TrimSpace(input.Localized[locale].Name) == "" {
			multierr.AppendInto(violations, fmt.Errorf("name is required for locale %q", locale))
		}
	}
	return locales
}

// validateImageSets requires a name on every set and both URLs on every image. Sets may only
// target active locales or the default locale.
func validateImageSets(activeSet map[string]struct{}, sets map[string][]ImageSetInput, violations *error) {
	locales := make([]string, 0, len(sets))
	for locale := range sets {
		locales = append(locales, locale)
	}
	sort.Strings(locales)

	for _, locale := range locales {
		if _, ok := activeSet[locale]; !ok && locale != attributes.DefaultLocale {
			multierr.AppendInto(violations, fmt.Errorf("image_sets: locale %q is not active", locale))
			continue
		}
		for i, set := range sets[locale] {
			if strings.TrimSpace(set.Name) == "" {
				multierr.AppendInto(violations, fmt.Errorf("image_sets[%s][%d]: image set name is required", locale, i))
			}
			for j, image := range set.Images {
				if strings.TrimSpace(image.ExternalURLSmall) == "" {
					multierr.AppendInto(violations, fmt.Errorf("image_sets[%s][%d].images[%d]: small image url is required", locale, i, j))
				}
				if strings.TrimSpace(image.ExternalURLLarge) == "" {
					multierr.AppendInto(violations, fmt.Errorf("image_sets[%s][%d].images[%d]: large image url is required", locale, i, j))
				}
			}
		}
	}
}

// resolvePrices maps submitted rows onto directory coordinates. Rows that do not resolve are
// reported as violations and left out.
func (s *service) resolvePrices(ctx context.Context, rows []PriceRowInput, violations *error) ([]submittedPrice, error) {
	types, err := s.directory.ListPriceTypes(ctx)
	if err != nil {
		return nil, err
	}
	typesByName := make(map[string]pricing.PriceType, len(types))
	for _, pt := range types {
		typesByName[pt.Name] = pt
	}

	stores, err := s.directory.ListStoreCurrencies(ctx)
	if err != nil {
		return nil, err
	}
	sold := make(map[string]map[string]pricing.Currency, len(stores))
	storeNames := make([]string, 0, len(stores))
	for _, store := range stores {
		currencies := make(map[string]pricing.Currency, len(store.Currencies))
		for _, currency := range store.Currencies {
			currencies[currency.Code] = currency
		}
		sold[store.StoreName] = currencies
		storeNames = append(storeNames, store.StoreName)
	}
	typeNames := make([]string, 0, len(types))
	for _, pt := range types {
		typeNames = append(typeNames, pt.Name)
	}

	storeIDs, err := s.repo.StoreIDsByName(ctx, storeNames)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve stores")
	}
	typeIDs, err := s.repo.PriceTypeIDsByName(ctx, typeNames)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: resolve price types")
	}

	out := make([]submittedPrice, 0, len(rows))
	for i, row := range rows {
		storeName := strings.TrimSpace(row.StoreName)
		code := strings.ToUpper(strings.TrimSpace(row.CurrencyCode))

		pt, ok := typesByName[strings.TrimSpace(row.PriceType)]
		if !ok {
			multierr.AppendInto(violations, fmt.Errorf("prices[%d]: unknown price type %q", i, row.PriceType))
			continue
		}
		currencies, ok := sold[storeName]
		if !ok {
			multierr.AppendInto(violations, fmt.Errorf("prices[%d]: unknown store %q", i, storeName))
			continue
		}
		currency, ok := currencies[code]
		if !ok {
			multierr.AppendInto(violations, fmt.Errorf("prices[%d]: store %q does not sell in %q", i, storeName, code))
			continue
		}
		if negative(row.GrossAmount) || negative(row.NetAmount) {
			multierr.AppendInto(violations, fmt.Errorf("prices[%d]: amounts must not be negative", i))
			continue
		}

		priceType := pt
		out = append(out, submittedPrice{
			entry: pricing.StoredEntry{
				Store: pricing.StoreContext{StoreName: storeName},
				Entry: &pricing.PriceEntry{
					PriceType: &priceType,
					MoneyValue: pricing.MoneyValue{
						Currency:    currency,
						GrossAmount: row.GrossAmount,
						NetAmount:   row.NetAmount,
						PriceData:   rawPriceData(row.PriceData),
					},
				},
			},
			storeID:      storeIDs[storeName],
			priceTypeID:  typeIDs[pt.Name],
			currencyCode: code,
		})
	}
	return out, nil
}

func (s *service) build(ctx context.Context, operation string, entries []pricing.StoredEntry) (*pricing.Matrix, error) {
	start := time.Now()
	matrix, err := s.builder.Build(entries)
	s.metrics.ObserveDuration(operation, time.Since(start))
	if err != nil {
		s.metrics.IncFailure(operation, string(pkgerrors.CodeOf(err)))
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "price matrix rejected")
		return nil, err
	}

	s.metrics.AddEntries(len(entries))
	matrix.VolumePrices.Each(func(_ string, currencies pricing.SortedMap[pricing.SortedMap[pricing.VolumePrice]]) {
		currencies.Each(func(_ string, types pricing.SortedMap[pricing.VolumePrice]) {
			types.Each(func(_ string, vp pricing.VolumePrice) {
				s.metrics.IncVolumePrice(vp.Action.String())
			})
		})
	})
	return matrix, nil
}

// cells flattens the matrix in table order. Each cell shows the amount of its own mode.
func (s *service) cells(matrix *pricing.Matrix) []PriceCellView {
	grossToken := s.builder.Resolver().Token(enums.PriceModeGross)
	out := []PriceCellView{}
	matrix.Table.Each(func(store string, currencies pricing.CurrencyTable) {
		currencies.Each(func(code string, modes pricing.ModeTable) {
			modes.Each(func(mode string, cells pricing.PriceTypeCells) {
				cells.Each(func(name string, entry *pricing.PriceEntry) {
					amount := entry.MoneyValue.NetAmount
					if mode == grossToken {
						amount = entry.MoneyValue.GrossAmount
					}
					cell := PriceCellView{
						StoreName:    store,
						CurrencyCode: code,
						Mode:         mode,
						PriceType:    name,
						Amount:       formatAmount(amount, entry.MoneyValue.Currency.FractionDigits),
					}
					if vp, ok := volumePriceAt(matrix, store, code, name); ok {
						cell.VolumePrice = &vp
					}
					out = append(out, cell)
				})
			})
		})
	})
	return out
}

func volumePriceAt(matrix *pricing.Matrix, store, currency, priceType string) (pricing.VolumePrice, bool) {
	currencies, ok := matrix.VolumePrices.Get(store)
	if !ok {
		return pricing.VolumePrice{}, false
	}
	types, ok := currencies.Get(currency)
	if !ok {
		return pricing.VolumePrice{}, false
	}
	return types.Get(priceType)
}

func formatAmount(amount *int64, fractionDigits int) *string {
	if amount == nil {
		return nil
	}
	formatted := decimal.NewFromInt(*amount).Shift(-int32(fractionDigits)).StringFixed(int32(fractionDigits))
	return &formatted
}

func negative(amount *int64) bool {
	return amount != nil && *amount < 0
}

type priceCoordinate struct {
	priceTypeID  int64
	storeID      int64
	currencyCode string
}

// newAbstract assembles the rows to insert. Rows without any amount or metadata are not stored;
// a repeated coordinate keeps the later row.
func newAbstract(sku string, input SubmitProductInput, merged attributes.AttributeMap, locales []string, prices []submittedPrice) *models.ProductAbstract {
	abstract := &models.ProductAbstract{
		SKU:        sku,
		TaxSetID:   input.TaxSetID,
		Attributes: merged.Default(),
	}

	for _, locale := range locales {
		localized := input.Localized[locale]
		abstract.LocalizedAttributes = append(abstract.LocalizedAttributes, models.ProductLocalizedAttribute{
			Locale:          locale,
			Name:            strings.TrimSpace(localized.Name),
			MetaTitle:       trimmedPtr(localized.MetaTitle),
			MetaKeywords:    trimmedPtr(localized.MetaKeywords),
			MetaDescription: trimmedPtr(localized.MetaDescription),
			Attributes:      merged[locale],
		})
	}

	imageLocales := make([]string, 0, len(input.ImageSets))
	for locale := range input.ImageSets {
		imageLocales = append(imageLocales, locale)
	}
	sort.Strings(imageLocales)
	for _, locale := range imageLocales {
		for _, set := range input.ImageSets[locale] {
			stored := models.ProductImageSet{Locale: locale, Name: strings.TrimSpace(set.Name)}
			for _, image := range set.Images {
				stored.Images = append(stored.Images, models.ProductImage{
					ExternalURLSmall: strings.TrimSpace(image.ExternalURLSmall),
					ExternalURLLarge: strings.TrimSpace(image.ExternalURLLarge),
					SortOrder:        image.SortOrder,
				})
			}
			abstract.ImageSets = append(abstract.ImageSets, stored)
		}
	}

	typeIndex := map[int64]int{}
	rowIndex := map[priceCoordinate]int{}
	for _, price := range prices {
		money := price.entry.Entry.MoneyValue
		if !money.HasAmount() && money.PriceData == nil {
			continue
		}
		idx, ok := typeIndex[price.priceTypeID]
		if !ok {
			idx = len(abstract.Prices)
			typeIndex[price.priceTypeID] = idx
			abstract.Prices = append(abstract.Prices, models.PriceProduct{PriceTypeID: price.priceTypeID})
		}
		row := models.PriceProductStore{
			StoreID:      price.storeID,
			CurrencyCode: price.currencyCode,
			GrossAmount:  money.GrossAmount,
			NetAmount:    money.NetAmount,
			PriceData:    money.PriceData,
		}
		key := priceCoordinate{priceTypeID: price.priceTypeID, storeID: price.storeID, currencyCode: price.currencyCode}
		if existing, ok := rowIndex[key]; ok {
			abstract.Prices[idx].Stores[existing] = row
			continue
		}
		rowIndex[key] = len(abstract.Prices[idx].Stores)
		abstract.Prices[idx].Stores = append(abstract.Prices[idx].Stores, row)
	}
	return abstract
}
