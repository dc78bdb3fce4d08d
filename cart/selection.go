package cart

import (
	"sort"
	"strings"
)

// Selection holds at most one size, at most one weight and any number of
// extras, all drawn from a product's variant lists.
type Selection struct {
	Size   *Variant  `json:"size,omitempty"`
	Weight *Variant  `json:"weight,omitempty"`
	Extras []Variant `json:"extras,omitempty"`
}

func (s Selection) SizeName() string {
	if s.Size == nil {
		return ""
	}
	return s.Size.Name
}

func (s Selection) WeightName() string {
	if s.Weight == nil {
		return ""
	}
	return s.Weight.Name
}

// ExtraNames returns the chosen extra names sorted lexicographically.
func (s Selection) ExtraNames() []string {
	names := make([]string, 0, len(s.Extras))
	for _, e := range s.Extras {
		names = append(names, e.Name)
	}
	sort.Strings(names)
	return names
}

// normalized drops unconfigured variants and duplicate extras and returns a
// copy that shares nothing with the receiver.
func (s Selection) normalized() Selection {
	var out Selection
	if s.Size != nil && s.Size.configured() {
		v := *s.Size
		out.Size = &v
	}
	if s.Weight != nil && s.Weight.configured() {
		v := *s.Weight
		out.Weight = &v
	}
	seen := make(map[string]bool, len(s.Extras))
	for _, e := range s.Extras {
		if !e.configured() || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		out.Extras = append(out.Extras, e)
	}
	return out
}

const (
	keySeparator    = "-"
	weightSeparator = "/"
	extrasSeparator = ","
)

// LineKey derives the identity of a configured product. Extras are compared
// as a set, so their order does not matter. Names are not escaped: a name
// containing a separator can make two different selections share a key.
func LineKey(productID string, sel Selection) string {
	sel = sel.normalized()

	middle := sel.SizeName()
	if w := sel.WeightName(); w != "" {
		middle += weightSeparator + w
	}

	return productID + keySeparator + middle + keySeparator + strings.Join(sel.ExtraNames(), extrasSeparator)
}
