package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"menu-backend/models"

	"github.com/google/uuid"
)

func TestCreateAndListCategories(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	_, token := seedTestUser(db, "owner@luigis.test", models.RoleOwner, &r.ID)
	url := "/api/admin/restaurants/" + r.ID.String() + "/categories"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", url, map[string]interface{}{
		"name":      "Desserts",
		"name_ar":   "حلويات",
		"is_active": false,
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	if active := parseResponse(w)["is_active"]; active != false {
		t.Errorf("expected inactive category, got %v", active)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", url, map[string]interface{}{"name": "  "}, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for a blank name, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", url, nil, token))
	if list := parseResponseArray(w); len(list) != 1 {
		t.Errorf("expected 1 category, got %d", len(list))
	}
}

func TestUpdateCategory(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	cat := seedCategory(db, r.ID, "Pizza")
	_, token := seedTestUser(db, "owner@luigis.test", models.RoleOwner, &r.ID)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/restaurants/"+r.ID.String()+"/categories/"+cat.ID.String(),
		map[string]interface{}{"name": "Pizzas", "sort_order": 3}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["name"] != "Pizzas" || resp["sort_order"].(float64) != 3 {
		t.Errorf("unexpected category %v", resp)
	}
}

func TestDeleteCategoryWithProducts(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	cat := seedCategory(db, r.ID, "Pizza")
	empty := seedCategory(db, r.ID, "Empty")
	seedProduct(db, r.ID, cat.ID, "Calzone", "7.00")
	_, token := seedTestUser(db, "owner@luigis.test", models.RoleOwner, &r.ID)
	base := "/api/admin/restaurants/" + r.ID.String() + "/categories/"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", base+cat.ID.String(), nil, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("DELETE", base+empty.ID.String(), nil, token))
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}
}

func TestCategoryOfAnotherRestaurantIsHidden(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	other := seedRestaurant(db, "Other", "other")
	foreign := seedCategory(db, other.ID, "Elsewhere")
	_, token := seedTestUser(db, "admin@menu.test", models.RoleAdmin, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", "/api/admin/restaurants/"+r.ID.String()+"/categories/"+foreign.ID.String(),
		map[string]interface{}{"name": "Hijacked"}, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestReorderCategories(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	a := seedCategory(db, r.ID, "A")
	b := seedCategory(db, r.ID, "B")
	_, token := seedTestUser(db, "owner@luigis.test", models.RoleOwner, &r.ID)
	base := "/api/admin/restaurants/" + r.ID.String() + "/reorder/"

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", base+"categories", map[string]interface{}{
		"ids": []string{b.ID.String(), a.ID.String()},
	}, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var stored models.Category
	testDB.First(&stored, "id = ?", a.ID)
	if stored.SortOrder != 1 {
		t.Errorf("expected A at sort order 1, got %d", stored.SortOrder)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", base+"categories", map[string]interface{}{
		"ids": []string{uuid.New().String()},
	}, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 for a foreign id, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("PUT", base+"tables", map[string]interface{}{
		"ids": []string{a.ID.String()},
	}, token))
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for an unknown kind, got %d", w.Code)
	}
}
