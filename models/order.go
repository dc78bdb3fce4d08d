package models

import (
	"strings"
	"time"

	"menu-backend/cart"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type Order struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	BranchID      *uuid.UUID      `gorm:"type:uuid;index" json:"branch_id,omitempty"`
	OrderNumber   string          `gorm:"uniqueIndex;not null" json:"order_number"`
	Reference     string          `gorm:"index" json:"reference"` // client generated tracking token
	Status        OrderStatus     `gorm:"default:pending" json:"status"`
	Subtotal      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	Tax           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax"`
	Total         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	CustomerName  string          `gorm:"not null" json:"customer_name"`
	CustomerPhone string          `gorm:"not null" json:"customer_phone"`
	CustomerEmail string          `json:"customer_email,omitempty"`
	Notes         string          `json:"notes,omitempty"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// OrderItemOptions snapshots the variants chosen for an order line.
type OrderItemOptions struct {
	Size   *cart.VariantChoice  `json:"size,omitempty"`
	Weight *cart.VariantChoice  `json:"weight,omitempty"`
	Extras []cart.VariantChoice `json:"extras,omitempty"`
}

type OrderItem struct {
	ID          uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	OrderID     uuid.UUID        `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID   uuid.UUID        `gorm:"type:uuid;not null;index" json:"product_id"`
	ProductName string           `json:"product_name"` // Snapshot of product name at time of order
	Options     OrderItemOptions `gorm:"serializer:json;type:text" json:"options"`
	Quantity    int              `gorm:"not null" json:"quantity"`
	UnitPrice   decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"total_price"`
	CreatedAt   time.Time        `json:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = "ORD" + time.Now().Format("20060102150405") + strings.ToUpper(o.ID.String()[:8])
	}
	return nil
}

func (i *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// AllowedTransitions defines the valid order status state machine.
var AllowedTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {},
	OrderStatusCancelled: {},
}

// IsValidTransition checks if a status transition is allowed.
func IsValidTransition(from, to OrderStatus) bool {
	allowed, exists := AllowedTransitions[from]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == to {
			return true
		}
	}
	return false
}
