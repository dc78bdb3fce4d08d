package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menu-backend/checkout"
	"menu-backend/models"
	"menu-backend/utils"

	"github.com/shopspring/decimal"
)

var checkoutBody = map[string]interface{}{
	"customer_name":  "Sam",
	"customer_phone": "555-0100",
}

func TestCheckoutPlacesOrderAndClearsCart(t *testing.T) {
	f := newGuestFixture(t)
	f.add(t, map[string]interface{}{"product_id": f.product, "size": "Large", "quantity": 2})

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, sessionRequest("POST", "/api/orders", checkoutBody, f.token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	number, _ := resp["order_number"].(string)
	if number == "" {
		t.Fatal("expected an order number")
	}
	if resp["status"] != string(models.OrderStatusPending) {
		t.Errorf("expected status pending, got %v", resp["status"])
	}

	var order models.Order
	if err := testDB.Preload("Items").Where("order_number = ?", number).First(&order).Error; err != nil {
		t.Fatalf("order not persisted: %v", err)
	}
	if !order.Total.Equal(decimal.RequireFromString("22")) {
		t.Errorf("expected total 22, got %s", order.Total)
	}
	if len(order.Items) != 1 || order.Items[0].Options.Size == nil || order.Items[0].Options.Size.Name != "Large" {
		t.Errorf("expected one Large line, got %+v", order.Items)
	}

	if lines := f.cart(t)["lines"].([]interface{}); len(lines) != 0 {
		t.Errorf("expected cart to be cleared, got %d lines", len(lines))
	}
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newGuestFixture(t)

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, sessionRequest("POST", "/api/orders", checkoutBody, f.token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestCheckoutRequiresCustomer(t *testing.T) {
	f := newGuestFixture(t)
	f.add(t, map[string]interface{}{"product_id": f.product})

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, sessionRequest("POST", "/api/orders", map[string]interface{}{"customer_name": "Sam"}, f.token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

type failingOrders struct{ err error }

func (f failingOrders) CreateOrder(ctx context.Context, req checkout.OrderRequest) (*models.Order, error) {
	if f.err == context.DeadlineExceeded {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return nil, f.err
}

func TestCheckoutFailureKeepsCart(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{errors.New("connection refused"), http.StatusInternalServerError},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
	}
	for _, tc := range cases {
		t.Run(fmt.Sprint(tc.status), func(t *testing.T) {
			db := freshDB()
			r := seedRestaurant(db, "Luigi's", "luigis")
			cat := seedCategory(db, r.ID, "Pizza")
			p := seedPizza(db, r.ID, cat.ID)
			f := guestFixture{
				router:  setupGuestRouter(db, utils.NewSessionStore(time.Hour), failingOrders{err: tc.err}),
				product: p.ID.String(),
			}
			f.token = openSession(t, f.router, "luigis")
			f.add(t, map[string]interface{}{"product_id": f.product})

			w := httptest.NewRecorder()
			f.router.ServeHTTP(w, sessionRequest("POST", "/api/orders", checkoutBody, f.token))
			if w.Code != tc.status {
				t.Fatalf("expected status %d, got %d: %s", tc.status, w.Code, w.Body.String())
			}
			if lines := f.cart(t)["lines"].([]interface{}); len(lines) != 1 {
				t.Errorf("expected cart to be kept, got %d lines", len(lines))
			}
		})
	}
}

func TestTrackOrderHidesContactDetails(t *testing.T) {
	f := newGuestFixture(t)
	f.add(t, map[string]interface{}{"product_id": f.product})

	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, sessionRequest("POST", "/api/orders", checkoutBody, f.token))
	number := parseResponse(w)["order_number"].(string)

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, jsonRequest("GET", "/api/orders/track/"+number, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	resp := parseResponse(w)
	if _, ok := resp["customer_phone"]; ok {
		t.Error("tracking must not expose the customer phone")
	}
	if resp["status"] != "pending" {
		t.Errorf("expected status pending, got %v", resp["status"])
	}

	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, jsonRequest("GET", "/api/orders/track/ORD-NOPE", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestGetOrdersScopedToRestaurant(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	other := seedRestaurant(db, "Other", "other")
	cat := seedCategory(db, r.ID, "Pizza")
	p := seedProduct(db, r.ID, cat.ID, "Margherita", "8.00")
	seedOrder(db, r.ID, p.ID)
	seedOrder(db, r.ID, p.ID)
	seedOrder(db, other.ID, p.ID)
	_, token := seedTestUser(db, "owner@luigis.test", models.RoleOwner, &r.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/restaurants/"+r.ID.String()+"/orders?limit=1", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if total, _ := resp["total"].(float64); int(total) != 2 {
		t.Errorf("expected total 2, got %v", resp["total"])
	}
	if orders := resp["orders"].([]interface{}); len(orders) != 1 {
		t.Errorf("expected 1 order on the page, got %d", len(orders))
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/restaurants/"+other.ID.String()+"/orders", nil, token))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403 for another restaurant, got %d", w.Code)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	cat := seedCategory(db, r.ID, "Pizza")
	p := seedProduct(db, r.ID, cat.ID, "Margherita", "8.00")
	order := seedOrder(db, r.ID, p.ID)
	_, token := seedTestUser(db, "owner@luigis.test", models.RoleOwner, &r.ID)
	url := fmt.Sprintf("/api/admin/restaurants/%s/orders/%s/status", r.ID, order.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", url, map[string]interface{}{"status": "delivered"}, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for pending to delivered, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", url, map[string]interface{}{"status": "confirmed"}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var stored models.Order
	testDB.First(&stored, "id = ?", order.ID)
	if stored.Status != models.OrderStatusConfirmed {
		t.Errorf("expected confirmed, got %s", stored.Status)
	}
}

func TestGetOrderTransitions(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	_, token := seedTestUser(db, "admin@menu.test", models.RoleAdmin, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/order-transitions", nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if next, _ := parseResponse(w)["pending"].([]interface{}); len(next) != 2 {
		t.Errorf("expected 2 transitions from pending, got %v", next)
	}
}
