package cart

import "github.com/shopspring/decimal"

// UnitPrice is the base price plus the surcharges of every chosen variant.
func UnitPrice(p *Product, sel Selection) (decimal.Decimal, error) {
	if err := validateProduct(p); err != nil {
		return decimal.Zero, err
	}
	return unitPrice(p, sel.normalized()), nil
}

// LineTotal is UnitPrice multiplied by quantity.
func LineTotal(p *Product, sel Selection, quantity int) (decimal.Decimal, error) {
	price, err := UnitPrice(p, sel)
	if err != nil {
		return decimal.Zero, err
	}
	return price.Mul(decimal.NewFromInt(int64(quantity))), nil
}

func unitPrice(p *Product, sel Selection) decimal.Decimal {
	price := p.Price
	if sel.Size != nil {
		price = price.Add(sel.Size.Surcharge())
	}
	if sel.Weight != nil {
		price = price.Add(sel.Weight.Surcharge())
	}
	for _, e := range sel.Extras {
		price = price.Add(e.Surcharge())
	}
	return price
}
