package checkout

import (
	"context"
	"fmt"

	"menu-backend/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DBOrders persists orders with gorm.
type DBOrders struct {
	DB *gorm.DB
}

// CreateOrder writes the order and its items in one transaction. The order
// number assigned on insert is the canonical identifier from then on.
func (d *DBOrders) CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	p := req.Payload

	items := make([]models.OrderItem, 0, len(p.Items))
	for _, line := range p.Items {
		productID, err := uuid.Parse(line.ID)
		if err != nil {
			return nil, fmt.Errorf("line %q: invalid product id: %w", line.Name, err)
		}
		items = append(items, models.OrderItem{
			ProductID:   productID,
			ProductName: line.Name,
			Options: models.OrderItemOptions{
				Size:   line.SelectedSize,
				Weight: line.SelectedWeight,
				Extras: line.SelectedExtras,
			},
			Quantity:   line.Quantity,
			UnitPrice:  line.Price,
			TotalPrice: line.TotalPrice,
		})
	}

	order := models.Order{
		RestaurantID:  req.RestaurantID,
		BranchID:      req.BranchID,
		Reference:     p.Reference,
		Status:        models.OrderStatusPending,
		Subtotal:      p.Subtotal,
		Tax:           p.Tax,
		Total:         p.Total,
		CustomerName:  p.CustomerName,
		CustomerPhone: p.CustomerPhone,
		CustomerEmail: p.CustomerEmail,
		Notes:         p.Notes,
		Items:         items,
	}

	err := d.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&order).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	return &order, nil
}
