package dtos

import (
	"menu-backend/cart"

	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID string   `json:"product_id" binding:"required,uuid"`
	Size      string   `json:"size"`
	Weight    string   `json:"weight"`
	Extras    []string `json:"extras"`
	Quantity  int      `json:"quantity" binding:"omitempty,min=1"`
}

func (r AddItemRequest) Choice() cart.Choice {
	return cart.Choice{Size: r.Size, Weight: r.Weight, Extras: r.Extras}
}

// UpdateQuantityRequest sets an exact quantity; zero or less removes the line.
type UpdateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

type ReplaceSelectionRequest struct {
	Size     string   `json:"size"`
	Weight   string   `json:"weight"`
	Extras   []string `json:"extras"`
	Quantity int      `json:"quantity" binding:"required,min=1"`
}

func (r ReplaceSelectionRequest) Choice() cart.Choice {
	return cart.Choice{Size: r.Size, Weight: r.Weight, Extras: r.Extras}
}

type CheckoutRequest struct {
	CustomerName  string `json:"customer_name" binding:"required,max=100"`
	CustomerPhone string `json:"customer_phone" binding:"required,max=30"`
	CustomerEmail string `json:"customer_email" binding:"omitempty,email"`
	Notes         string `json:"notes" binding:"max=500"`
}

func (r CheckoutRequest) Customer() cart.Customer {
	return cart.Customer{Name: r.CustomerName, Phone: r.CustomerPhone, Email: r.CustomerEmail, Notes: r.Notes}
}

type CartLineView struct {
	LineKey    string          `json:"line_key"`
	ProductID  string          `json:"product_id"`
	Name       string          `json:"name"`
	Size       string          `json:"size,omitempty"`
	Weight     string          `json:"weight,omitempty"`
	Extras     []string        `json:"extras"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartView struct {
	Lines     []CartLineView  `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// NewCartView renders the cart from a single snapshot of its lines, so the
// totals always agree with the lines shown.
func NewCartView(c *cart.Cart) CartView {
	lines := c.Lines()
	view := CartView{Lines: make([]CartLineView, 0, len(lines)), Total: decimal.Zero}
	for _, l := range lines {
		view.Lines = append(view.Lines, CartLineView{
			LineKey:    l.Key,
			ProductID:  l.Product.ID,
			Name:       l.Product.Name,
			Size:       l.Selection.SizeName(),
			Weight:     l.Selection.WeightName(),
			Extras:     l.Selection.ExtraNames(),
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.Total(),
		})
		view.Total = view.Total.Add(l.Total())
		view.ItemCount += l.Quantity
	}
	return view
}
