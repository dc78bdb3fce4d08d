package dtos

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"menu-backend/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// The admin frontends send products in either snake_case or camelCase, with
// prices as numbers or strings. ProductInput accepts every variant once, at
// the boundary, so nothing downstream has to look at more than one shape.

// VariantInput is a size, weight or extra as sent by a client.
type VariantInput struct {
	Name  string
	Price decimal.NullDecimal
}

func (v *VariantInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if err := decodeString(pick(raw, "name", "name_en", "nameEn"), &v.Name); err != nil {
		return fmt.Errorf("variant name: %w", err)
	}
	v.Name = strings.TrimSpace(v.Name)
	v.Price = parseOptionalPrice(pick(raw, "price"))
	return nil
}

// ProductInput is the body of the admin create/update product endpoints.
type ProductInput struct {
	Name        string
	NameAr      string
	Description string
	ImageURL    string
	CategoryID  string
	Price       decimal.Decimal
	IsAvailable *bool
	SortOrder   *int
	Sizes       []VariantInput
	Weights     []VariantInput
	Extras      []VariantInput

	priceSet   bool
	priceError error
}

func (p *ProductInput) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	fields := []struct {
		dst  *string
		keys []string
	}{
		{&p.Name, []string{"name", "name_en", "nameEn"}},
		{&p.NameAr, []string{"name_ar", "nameAr"}},
		{&p.Description, []string{"description", "description_en", "descriptionEn"}},
		{&p.ImageURL, []string{"image_url", "imageUrl", "image"}},
		{&p.CategoryID, []string{"category_id", "categoryId"}},
	}
	for _, f := range fields {
		if err := decodeString(pick(raw, f.keys...), f.dst); err != nil {
			return fmt.Errorf("%s: %w", f.keys[0], err)
		}
	}

	if v := pick(raw, "is_available", "isAvailable"); v != nil && !isNull(v) {
		var b bool
		if err := json.Unmarshal(v, &b); err != nil {
			return fmt.Errorf("is_available: %w", err)
		}
		p.IsAvailable = &b
	}
	if v := pick(raw, "sort_order", "sortOrder"); v != nil && !isNull(v) {
		var n int
		if err := json.Unmarshal(v, &n); err != nil {
			return fmt.Errorf("sort_order: %w", err)
		}
		p.SortOrder = &n
	}

	if v := pick(raw, "price"); v != nil && !isNull(v) {
		p.priceSet = true
		price, err := parsePrice(v)
		if err != nil {
			p.priceError = err
		}
		p.Price = price
	}

	variants := []struct {
		dst  *[]VariantInput
		keys []string
	}{
		{&p.Sizes, []string{"sizes"}},
		{&p.Weights, []string{"weights"}},
		{&p.Extras, []string{"extras", "addons", "add_ons", "addOns"}},
	}
	for _, f := range variants {
		if v := pick(raw, f.keys...); v != nil && !isNull(v) {
			if err := json.Unmarshal(v, f.dst); err != nil {
				return fmt.Errorf("%s: %w", f.keys[0], err)
			}
		}
	}
	return nil
}

// Validate checks a product for creation. Updates use ValidatePartial.
func (p *ProductInput) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.New("name is required")
	}
	if _, err := uuid.Parse(p.CategoryID); err != nil {
		return errors.New("category_id must be a valid id")
	}
	if !p.priceSet {
		return errors.New("price is required")
	}
	return p.ValidatePartial()
}

func (p *ProductInput) ValidatePartial() error {
	if p.priceError != nil {
		return p.priceError
	}
	if p.priceSet && p.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	if p.CategoryID != "" {
		if _, err := uuid.Parse(p.CategoryID); err != nil {
			return errors.New("category_id must be a valid id")
		}
	}
	return p.validateVariantNames()
}

// Variant names identify a choice within their kind, so they must be unique there.
func (p *ProductInput) validateVariantNames() error {
	lists := []struct {
		kind string
		list []VariantInput
	}{
		{"size", p.Sizes},
		{"weight", p.Weights},
		{"extra", p.Extras},
	}
	for _, l := range lists {
		seen := make(map[string]bool, len(l.list))
		for _, v := range l.list {
			if v.Name == "" {
				continue
			}
			if seen[v.Name] {
				return fmt.Errorf("duplicate %s %q", l.kind, v.Name)
			}
			seen[v.Name] = true
		}
	}
	return nil
}

// PriceSet reports whether the request carried a price.
func (p *ProductInput) PriceSet() bool {
	return p.priceSet
}

// VariantsSet reports whether any variant list was sent. An update that sends
// none keeps the stored variants.
func (p *ProductInput) VariantsSet() bool {
	return p.Sizes != nil || p.Weights != nil || p.Extras != nil
}

// Variants flattens the variant lists into rows, dropping entries without a name.
func (p *ProductInput) Variants() []models.ProductVariant {
	var out []models.ProductVariant
	add := func(kind models.VariantKind, list []VariantInput) {
		for i, v := range list {
			if v.Name == "" {
				continue
			}
			out = append(out, models.ProductVariant{Kind: kind, Name: v.Name, Price: v.Price, SortOrder: i})
		}
	}
	add(models.VariantSize, p.Sizes)
	add(models.VariantWeight, p.Weights)
	add(models.VariantExtra, p.Extras)
	return out
}

// ToModel builds a new product row owned by the restaurant.
func (p *ProductInput) ToModel(restaurantID uuid.UUID) models.Product {
	product := models.Product{
		RestaurantID: restaurantID,
		CategoryID:   uuid.MustParse(p.CategoryID),
		Name:         strings.TrimSpace(p.Name),
		NameAr:       strings.TrimSpace(p.NameAr),
		Description:  p.Description,
		ImageURL:     p.ImageURL,
		Price:        p.Price,
		IsAvailable:  true,
		Variants:     p.Variants(),
	}
	if p.IsAvailable != nil {
		product.IsAvailable = *p.IsAvailable
	}
	if p.SortOrder != nil {
		product.SortOrder = *p.SortOrder
	}
	return product
}

func pick(raw map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := raw[k]; ok && !isNull(v) {
			return v
		}
	}
	return nil
}

func isNull(v json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(v), []byte("null"))
}

func decodeString(v json.RawMessage, dst *string) error {
	if v == nil {
		return nil
	}
	return json.Unmarshal(v, dst)
}

// parsePrice accepts a JSON number or a numeric string.
func parsePrice(v json.RawMessage) (decimal.Decimal, error) {
	v = bytes.TrimSpace(v)
	if len(v) > 0 && v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return decimal.Zero, err
		}
		v = []byte(strings.TrimSpace(s))
	}
	d, err := decimal.NewFromString(string(v))
	if err != nil {
		return decimal.Zero, fmt.Errorf("price %q is not a number", string(v))
	}
	return d, nil
}

// parseOptionalPrice treats missing, empty and non-numeric prices as absent.
func parseOptionalPrice(v json.RawMessage) decimal.NullDecimal {
	if v == nil || isNull(v) {
		return decimal.NullDecimal{}
	}
	d, err := parsePrice(v)
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}
