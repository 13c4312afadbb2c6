package attributes

import (
	"errors"
	"sort"
	"strings"

	pkgerrors "github.com/angelmondragon/productmgmt-backend/pkg/errors"
)

// DefaultLocale keys the attributes that are not bound to any locale.
const DefaultLocale = "_"

// ErrMalformedAttributeEntry marks a raw attribute without its enabled flag or value.
var ErrMalformedAttributeEntry = errors.New("malformed attribute entry")

// RawAttribute is one submitted attribute field. Both fields are required.
type RawAttribute struct {
	Enabled *bool   `json:"enabled"`
	Value   *string `json:"value"`
}

// RawAttributes is a submission keyed by locale, then attribute key.
type RawAttributes map[string]map[string]RawAttribute

// AttributeMap holds the canonical values per locale. Keys that were disabled or blank are absent.
type AttributeMap map[string]map[string]string

// Default returns the attributes of the default locale.
func (m AttributeMap) Default() map[string]string {
	return m[DefaultLocale]
}

// Locales returns the real locales in ascending order, excluding the default locale.
func (m AttributeMap) Locales() []string {
	out := make([]string, 0, len(m))
	for locale := range m {
		if locale == DefaultLocale {
			continue
		}
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Merge filters a raw submission down to enabled, non-blank values. Values are stored trimmed.
// Every submitted locale is present in the result, even when none of its keys survive.
// Locales are never merged into each other.
func Merge(raw RawAttributes) (AttributeMap, error) {
	out := make(AttributeMap, len(raw))
	for _, locale := range sortedKeys(raw) {
		fields := raw[locale]
		values := make(map[string]string, len(fields))
		for _, key := range sortedKeys(fields) {
			value, keep, err := canonical(locale, key, fields[key])
			if err != nil {
				return nil, err
			}
			if keep {
				values[key] = value
			}
		}
		out[locale] = values
	}
	return out, nil
}

// MergeLevels merges the abstract-level and variant-level submissions of one product.
// Variant values override abstract values for the same locale and key.
func MergeLevels(abstract, variant RawAttributes) (AttributeMap, error) {
	base, err := Merge(abstract)
	if err != nil {
		return nil, err
	}
	overrides, err := Merge(variant)
	if err != nil {
		return nil, err
	}
	for locale, values := range overrides {
		target, ok := base[locale]
		if !ok {
			target = make(map[string]string, len(values))
			base[locale] = target
		}
		for key, value := range values {
			target[key] = value
		}
	}
	return base, nil
}

func canonical(locale, key string, attr RawAttribute) (string, bool, error) {
	var missing []string
	if attr.Enabled == nil {
		missing = append(missing, "enabled")
	}
	if attr.Value == nil {
		missing = append(missing, "value")
	}
	if len(missing) > 0 {
		return "", false, pkgerrors.Wrap(pkgerrors.CodeMalformedAttribute, ErrMalformedAttributeEntry, "attribute entry is missing required fields").
			WithDetails(map[string]any{
				"locale":    locale,
				"attribute": key,
				"missing":   missing,
			})
	}
	if !*attr.Enabled {
		return "", false, nil
	}
	if strings.TrimSpace(*attr.Value) == "" {
		return "", false, nil
	}
	return *attr.Value, true, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
