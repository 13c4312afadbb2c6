package product

import (
	"encoding/json"
	"strings"

	"github.com/angelmondragon/productmgmt-backend/internal/attributes"
	"github.com/angelmondragon/productmgmt-backend/internal/pricing"
	"github.com/angelmondragon/productmgmt-backend/pkg/db/models"
)

// PriceTypeInput names a price type and its configured mode token.
type PriceTypeInput struct {
	Name      string `json:"name" validate:"required"`
	PriceMode string `json:"price_mode" validate:"required"`
}

// CurrencyInput is the currency descriptor posted with a price entry.
type CurrencyInput struct {
	Code           string `json:"code" validate:"required,len=3"`
	Name           string `json:"name"`
	Symbol         string `json:"symbol"`
	FractionDigits int    `json:"fraction_digits" validate:"gte=0,lte=8"`
}

// MatrixEntryInput is one price row posted for stateless matrix building.
type MatrixEntryInput struct {
	StoreName   string          `json:"store_name"`
	PriceType   *PriceTypeInput `json:"price_type"`
	Currency    CurrencyInput   `json:"currency"`
	GrossAmount *int64          `json:"gross_amount"`
	NetAmount   *int64          `json:"net_amount"`
	PriceData   json.RawMessage `json:"price_data,omitempty"`
	PersistedID *int64          `json:"persisted_id,omitempty"`
}

// BuildMatrixRequest carries the rows of one price form.
type BuildMatrixRequest struct {
	Entries []MatrixEntryInput `json:"entries" validate:"dive"`
}

// MergeAttributesRequest carries the abstract and variant attribute submissions.
type MergeAttributesRequest struct {
	Abstract attributes.RawAttributes `json:"abstract"`
	Variant  attributes.RawAttributes `json:"variant"`
}

// LocalizedInput holds the general and SEO fields of one locale.
type LocalizedInput struct {
	Name            string  `json:"name"`
	MetaTitle       *string `json:"meta_title"`
	MetaKeywords    *string `json:"meta_keywords"`
	MetaDescription *string `json:"meta_description"`
}

// PriceRowInput is one submitted price for a (store, currency, price type) coordinate.
type PriceRowInput struct {
	StoreName    string          `json:"store_name" validate:"required"`
	CurrencyCode string          `json:"currency_code" validate:"required,len=3"`
	PriceType    string          `json:"price_type" validate:"required"`
	GrossAmount  *int64          `json:"gross_amount" validate:"omitempty,gte=0"`
	NetAmount    *int64          `json:"net_amount" validate:"omitempty,gte=0"`
	PriceData    json.RawMessage `json:"price_data,omitempty"`
}

// ImageInput is one image of an image set.
type ImageInput struct {
	ExternalURLSmall string `json:"external_url_small"`
	ExternalURLLarge string `json:"external_url_large"`
	SortOrder        int    `json:"sort_order" validate:"gte=0"`
}

// ImageSetInput is a named group of images for one locale.
type ImageSetInput struct {
	Name   string       `json:"name"`
	Images []ImageInput `json:"images" validate:"dive"`
}

// SubmitProductInput is the payload of the add-product form.
type SubmitProductInput struct {
	SKU                string                    `json:"sku" validate:"required"`
	TaxSetID           *int64                    `json:"tax_set_id" validate:"omitempty,gt=0"`
	Localized          map[string]LocalizedInput `json:"localized"`
	AbstractAttributes attributes.RawAttributes  `json:"abstract_attributes"`
	VariantAttributes  attributes.RawAttributes  `json:"variant_attributes"`
	Prices             []PriceRowInput           `json:"prices" validate:"dive"`
	// ImageSets is keyed by locale; "_" holds the sets shown for every locale.
	ImageSets map[string][]ImageSetInput `json:"image_sets" validate:"dive,dive"`
}

// PriceCellView is one rendered cell of the price form, in table order.
type PriceCellView struct {
	StoreName    string               `json:"store_name"`
	CurrencyCode string               `json:"currency_code"`
	Mode         string               `json:"mode"`
	PriceType    string               `json:"price_type"`
	Amount       *string              `json:"amount"`
	VolumePrice  *pricing.VolumePrice `json:"volume_price,omitempty"`
}

// PriceFormView is the rendered price form of a product.
type PriceFormView struct {
	SKU    string          `json:"sku"`
	Matrix *pricing.Matrix `json:"matrix"`
	Cells  []PriceCellView `json:"cells"`
}

// LocalizedDTO is the stored per-locale record.
type LocalizedDTO struct {
	Locale          string            `json:"locale"`
	Name            string            `json:"name"`
	MetaTitle       *string           `json:"meta_title,omitempty"`
	MetaKeywords    *string           `json:"meta_keywords,omitempty"`
	MetaDescription *string           `json:"meta_description,omitempty"`
	Attributes      map[string]string `json:"attributes"`
}

// ImageDTO is a stored image.
type ImageDTO struct {
	ExternalURLSmall string `json:"external_url_small"`
	ExternalURLLarge string `json:"external_url_large"`
	SortOrder        int    `json:"sort_order"`
}

// ImageSetDTO is a stored image set.
type ImageSetDTO struct {
	Locale string     `json:"locale"`
	Name   string     `json:"name"`
	Images []ImageDTO `json:"images"`
}

// ProductDTO is the created product returned to clients.
type ProductDTO struct {
	ID         int64             `json:"id"`
	SKU        string            `json:"sku"`
	TaxSetID   *int64            `json:"tax_set_id,omitempty"`
	Attributes map[string]string `json:"attributes"`
	Localized  []LocalizedDTO    `json:"localized"`
	ImageSets  []ImageSetDTO     `json:"image_sets"`
	PriceCount int               `json:"price_count"`
}

// NewProductDTO builds a DTO from the persisted abstract.
func NewProductDTO(abstract *models.ProductAbstract) *ProductDTO {
	dto := &ProductDTO{
		ID:         abstract.ID,
		SKU:        abstract.SKU,
		TaxSetID:   abstract.TaxSetID,
		Attributes: map[string]string(abstract.Attributes),
		Localized:  make([]LocalizedDTO, 0, len(abstract.LocalizedAttributes)),
		ImageSets:  make([]ImageSetDTO, 0, len(abstract.ImageSets)),
	}
	if dto.Attributes == nil {
		dto.Attributes = map[string]string{}
	}
	for _, loc := range abstract.LocalizedAttributes {
		attrs := map[string]string(loc.Attributes)
		if attrs == nil {
			attrs = map[string]string{}
		}
		dto.Localized = append(dto.Localized, LocalizedDTO{
			Locale:          loc.Locale,
			Name:            loc.Name,
			MetaTitle:       loc.MetaTitle,
			MetaKeywords:    loc.MetaKeywords,
			MetaDescription: loc.MetaDescription,
			Attributes:      attrs,
		})
	}
	for _, set := range abstract.ImageSets {
		images := make([]ImageDTO, 0, len(set.Images))
		for _, image := range set.Images {
			images = append(images, ImageDTO{
				ExternalURLSmall: image.ExternalURLSmall,
				ExternalURLLarge: image.ExternalURLLarge,
				SortOrder:        image.SortOrder,
			})
		}
		dto.ImageSets = append(dto.ImageSets, ImageSetDTO{Locale: set.Locale, Name: set.Name, Images: images})
	}
	for _, price := range abstract.Prices {
		dto.PriceCount += len(price.Stores)
	}
	return dto
}

// rawPriceData accepts price_data either as a JSON value or as a JSON string holding one.
func rawPriceData(raw json.RawMessage) *string {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, `"`) {
		var inner string
		if err := json.Unmarshal([]byte(trimmed), &inner); err == nil {
			trimmed = strings.TrimSpace(inner)
		}
	}
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return &trimmed
}

func trimmedPtr(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
