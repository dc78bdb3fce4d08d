package cart

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// VariantChoice is a chosen variant as handed to the order service.
type VariantChoice struct {
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// OrderLine is one line of an order payload.
type OrderLine struct {
	ID             string          `json:"id"`
	Name           string          `json:"name"`
	Price          decimal.Decimal `json:"price"`
	Quantity       int             `json:"quantity"`
	SelectedSize   *VariantChoice  `json:"selectedSize"`
	SelectedWeight *VariantChoice  `json:"selectedWeight"`
	SelectedExtras []VariantChoice `json:"selectedExtras"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
}

// Customer carries the contact details attached to an order.
type Customer struct {
	Name  string
	Phone string
	Email string
	Notes string
}

// OrderPayload is the handoff to the order service. Reference is a client side
// tracking token; a canonical order number returned by the order service
// supersedes it.
type OrderPayload struct {
	Reference     string          `json:"reference"`
	Items         []OrderLine     `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Tax           decimal.Decimal `json:"tax"`
	Total         decimal.Decimal `json:"total"`
	CustomerName  string          `json:"customerName"`
	CustomerPhone string          `json:"customerPhone"`
	CustomerEmail string          `json:"customerEmail,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

var now = time.Now

// NewReference builds an order reference from the current time and a random
// suffix, e.g. ORD20260114093012-1A2B3C4D.
func NewReference() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return "ORD" + now().Format("20060102150405") + "-" + suffix
}

func choiceOf(v *Variant) *VariantChoice {
	if v == nil {
		return nil
	}
	return &VariantChoice{Name: v.Name, Price: v.Surcharge()}
}

// ToOrderPayload converts the current contents of the cart into an order
// payload. It does not mutate the cart. No tax is applied.
func ToOrderPayload(c *Cart, customer Customer) OrderPayload {
	return NewOrderPayload(c.Lines(), customer)
}

// NewOrderPayload builds an order payload from a snapshot of cart lines.
func NewOrderPayload(lines []LineItem, customer Customer) OrderPayload {
	items := make([]OrderLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, l := range lines {
		extras := make([]VariantChoice, 0, len(l.Selection.Extras))
		for i := range l.Selection.Extras {
			extras = append(extras, *choiceOf(&l.Selection.Extras[i]))
		}
		total := l.Total()
		subtotal = subtotal.Add(total)

		items = append(items, OrderLine{
			ID:             l.Product.ID,
			Name:           l.Product.Name,
			Price:          l.UnitPrice,
			Quantity:       l.Quantity,
			SelectedSize:   choiceOf(l.Selection.Size),
			SelectedWeight: choiceOf(l.Selection.Weight),
			SelectedExtras: extras,
			TotalPrice:     total,
		})
	}

	return OrderPayload{
		Reference:     NewReference(),
		Items:         items,
		Subtotal:      subtotal,
		Tax:           decimal.Zero,
		Total:         subtotal,
		CustomerName:  strings.TrimSpace(customer.Name),
		CustomerPhone: strings.TrimSpace(customer.Phone),
		CustomerEmail: strings.TrimSpace(customer.Email),
		Notes:         strings.TrimSpace(customer.Notes),
	}
}
