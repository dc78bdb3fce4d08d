package cart

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Variant is a named option of a product (a size, a weight or an extra).
// Price is the additive surcharge; it may be absent.
type Variant struct {
	Name  string              `json:"name"`
	Price decimal.NullDecimal `json:"price"`
}

// Surcharge is the amount the variant adds to the unit price. Absent, zero and
// negative prices contribute nothing: variants never discount.
func (v Variant) Surcharge() decimal.Decimal {
	if !v.Price.Valid || !v.Price.Decimal.IsPositive() {
		return decimal.Zero
	}
	return v.Price.Decimal
}

func (v Variant) configured() bool {
	return strings.TrimSpace(v.Name) != ""
}

// Product is the read-only catalog view the cart prices against.
type Product struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	Sizes   []Variant       `json:"sizes,omitempty"`
	Weights []Variant       `json:"weights,omitempty"`
	Extras  []Variant       `json:"extras,omitempty"`
}

func validateProduct(p *Product) error {
	if p == nil {
		return &InvalidProductError{Reason: "product is nil"}
	}
	if strings.TrimSpace(p.ID) == "" {
		return &InvalidProductError{Reason: "product id is empty"}
	}
	if p.Price.IsNegative() {
		return &InvalidProductError{Reason: fmt.Sprintf("product %s has a negative base price", p.ID)}
	}
	return nil
}

func findVariant(variants []Variant, name string) (Variant, bool) {
	for _, v := range variants {
		if v.configured() && v.Name == name {
			return v, true
		}
	}
	return Variant{}, false
}

// Choice names the variants a customer picked, before they are resolved
// against a product.
type Choice struct {
	Size   string   `json:"size"`
	Weight string   `json:"weight"`
	Extras []string `json:"extras"`
}

// ResolveSelection looks up the chosen variant names on the product. Blank
// names mean "not chosen"; names that match no configured variant are
// rejected with ErrUnknownVariant.
func ResolveSelection(p *Product, choice Choice) (Selection, error) {
	if err := validateProduct(p); err != nil {
		return Selection{}, err
	}

	var sel Selection
	if name := strings.TrimSpace(choice.Size); name != "" {
		v, ok := findVariant(p.Sizes, name)
		if !ok {
			return Selection{}, fmt.Errorf("%w: size %q", ErrUnknownVariant, name)
		}
		sel.Size = &v
	}
	if name := strings.TrimSpace(choice.Weight); name != "" {
		v, ok := findVariant(p.Weights, name)
		if !ok {
			return Selection{}, fmt.Errorf("%w: weight %q", ErrUnknownVariant, name)
		}
		sel.Weight = &v
	}
	for _, raw := range choice.Extras {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		v, ok := findVariant(p.Extras, name)
		if !ok {
			return Selection{}, fmt.Errorf("%w: extra %q", ErrUnknownVariant, name)
		}
		sel.Extras = append(sel.Extras, v)
	}
	return sel.normalized(), nil
}

// bindSelection looks every chosen variant up again on the product, so a line
// is always keyed and priced from variants the product actually offers.
func bindSelection(p *Product, sel Selection) (Selection, error) {
	sel = sel.normalized()
	choice := Choice{Size: sel.SizeName(), Weight: sel.WeightName()}
	for _, e := range sel.Extras {
		choice.Extras = append(choice.Extras, e.Name)
	}
	return ResolveSelection(p, choice)
}
