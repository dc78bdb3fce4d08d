package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"menu-backend/checkout"
	"menu-backend/utils"

	"github.com/google/uuid"
)

func TestGetMenu(t *testing.T) {
	db := freshDB()
	r := seedRestaurant(db, "Luigi's", "luigis")
	pizza := seedCategory(db, r.ID, "Pizza")
	drinks := seedCategory(db, r.ID, "Drinks")
	seedPizza(db, r.ID, pizza.ID)
	seedProduct(db, r.ID, drinks.ID, "Cola", "2.00")
	router := setupGuestRouter(db, utils.NewSessionStore(time.Hour), &checkout.DBOrders{DB: db})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/restaurants/luigis/menu", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := parseResponse(w)
	categories := resp["categories"].([]interface{})
	if len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(categories))
	}
	restaurant := resp["restaurant"].(map[string]interface{})
	if restaurant["currency"] != "USD" {
		t.Errorf("expected currency USD, got %v", restaurant["currency"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/restaurants/luigis/menu?search=cola", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if categories := parseResponse(w)["categories"].([]interface{}); len(categories) != 1 {
		t.Errorf("expected 1 matching category, got %d", len(categories))
	}
}

func TestGetMenuErrors(t *testing.T) {
	db := freshDB()
	seedRestaurant(db, "Luigi's", "luigis")
	router := setupGuestRouter(db, utils.NewSessionStore(time.Hour), &checkout.DBOrders{DB: db})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/restaurants/unknown/menu", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/restaurants/luigis/menu?category_id=abc", nil))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestGetProductShowsVariants(t *testing.T) {
	db := freshDB()
	r := seedRestaurant(db, "Luigi's", "luigis")
	cat := seedCategory(db, r.ID, "Pizza")
	p := seedPizza(db, r.ID, cat.ID)
	router := setupGuestRouter(db, utils.NewSessionStore(time.Hour), &checkout.DBOrders{DB: db})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/restaurants/luigis/products/"+p.ID.String(), nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if sizes, _ := resp["sizes"].([]interface{}); len(sizes) != 2 {
		t.Errorf("expected 2 sizes, got %v", resp["sizes"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("GET", "/api/restaurants/luigis/products/"+uuid.New().String(), nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestOpenSessionWithBranch(t *testing.T) {
	db := freshDB()
	r := seedRestaurant(db, "Luigi's", "luigis")
	branch := seedBranch(db, r.ID, "Downtown")
	other := seedRestaurant(db, "Other", "other")
	foreign := seedBranch(db, other.ID, "Elsewhere")
	sessions := utils.NewSessionStore(time.Hour)
	router := setupGuestRouter(db, sessions, &checkout.DBOrders{DB: db})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/restaurants/luigis/sessions",
		map[string]interface{}{"branch_id": branch.ID.String()}))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["branch_id"] != branch.ID.String() {
		t.Errorf("expected branch %s, got %v", branch.ID, resp["branch_id"])
	}
	if sessions.Len() != 1 {
		t.Errorf("expected 1 session, got %d", sessions.Len())
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/restaurants/luigis/sessions",
		map[string]interface{}{"branch_id": foreign.ID.String()}))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for another restaurant's branch, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, jsonRequest("POST", "/api/restaurants/nowhere/sessions", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}
