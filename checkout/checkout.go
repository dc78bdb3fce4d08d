package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"menu-backend/cart"
	"menu-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrSubmissionInProgress = errors.New("an order is already being submitted for this cart")
	ErrMissingCustomer      = errors.New("customer name and phone are required")
)

const DefaultTimeout = 15 * time.Second

// OrderRequest is what the order service receives for one submission.
type OrderRequest struct {
	RestaurantID uuid.UUID
	BranchID     *uuid.UUID
	Payload      cart.OrderPayload
}

// OrderCreator places an order and returns it with its canonical order number.
type OrderCreator interface {
	CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error)
}

// Receipt is the result of a confirmed submission.
type Receipt struct {
	OrderNumber string            `json:"order_number"`
	Reference   string            `json:"reference"`
	Status      string            `json:"status"`
	Payload     cart.OrderPayload `json:"payload"`
}

type Service struct {
	Orders  OrderCreator
	Log     *zap.Logger
	Timeout time.Duration
	// OnPlaced runs after a confirmed order, outside the cart lock.
	OnPlaced func(order *models.Order)
}

func NewService(orders OrderCreator, log *zap.Logger, timeout time.Duration) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{Orders: orders, Log: log, Timeout: timeout}
}

func (s *Service) timeout() time.Duration {
	if s.Timeout <= 0 {
		return DefaultTimeout
	}
	return s.Timeout
}

func (s *Service) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// Submit hands the contents of c to the order service. Only one submission
// per cart runs at a time. Once the order service confirms, the submitted
// lines leave the cart; edits made while the order was in flight are kept. On
// any failure, including a timeout, the cart is left as it was.
func (s *Service) Submit(ctx context.Context, c *cart.Cart, restaurantID uuid.UUID, branchID *uuid.UUID, customer cart.Customer) (*Receipt, error) {
	lines, ok := c.StartSubmission()
	if !ok {
		return nil, ErrSubmissionInProgress
	}
	confirmed := false
	defer func() { c.FinishSubmission(confirmed) }()

	payload := cart.NewOrderPayload(lines, customer)
	if len(payload.Items) == 0 {
		return nil, ErrEmptyCart
	}
	if payload.CustomerName == "" || payload.CustomerPhone == "" {
		return nil, ErrMissingCustomer
	}

	log := s.logger().With(
		zap.String("reference", payload.Reference),
		zap.String("restaurant_id", restaurantID.String()),
	)

	ctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	order, err := s.Orders.CreateOrder(ctx, OrderRequest{
		RestaurantID: restaurantID,
		BranchID:     branchID,
		Payload:      payload,
	})
	if err != nil {
		log.Warn("order submission failed", zap.Error(err))
		if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
			return nil, fmt.Errorf("submit order: %w", ctxErr)
		}
		return nil, fmt.Errorf("submit order: %w", err)
	}
	confirmed = true

	log.Info("order placed",
		zap.String("order_number", order.OrderNumber),
		zap.Int("lines", len(payload.Items)),
		zap.String("total", payload.Total.StringFixed(2)),
	)

	if s.OnPlaced != nil {
		s.OnPlaced(order)
	}

	return &Receipt{
		OrderNumber: order.OrderNumber,
		Reference:   payload.Reference,
		Status:      string(order.Status),
		Payload:     payload,
	}, nil
}
