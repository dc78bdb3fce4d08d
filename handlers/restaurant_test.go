package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"menu-backend/models"
)

func TestCreateRestaurant(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	_, token := seedTestUser(db, "admin@menu.test", models.RoleAdmin, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/restaurants", map[string]interface{}{
		"name": "Luigi's",
		"slug": "Luigis-Downtown",
	}, token))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
	}
	resp := parseResponse(w)
	if resp["slug"] != "luigis-downtown" {
		t.Errorf("expected lowercased slug, got %v", resp["slug"])
	}
	if resp["currency"] != "USD" {
		t.Errorf("expected default currency USD, got %v", resp["currency"])
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/restaurants", map[string]interface{}{
		"name": "Copycat",
		"slug": "luigis-downtown",
	}, token))
	if w.Code != http.StatusConflict {
		t.Errorf("expected status 409, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("POST", "/api/admin/restaurants", map[string]interface{}{
		"name": "Bad",
		"slug": "no spaces/allowed",
	}, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestListRestaurantsAdminOnly(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	_, ownerToken := seedTestUser(db, "owner@luigis.test", models.RoleOwner, &r.ID)
	_, adminToken := seedTestUser(db, "admin@menu.test", models.RoleAdmin, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/restaurants", nil, ownerToken))
	if w.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/restaurants", nil, adminToken))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if list := parseResponseArray(w); len(list) != 1 {
		t.Errorf("expected 1 restaurant, got %d", len(list))
	}
}

func TestCreateBranchAssignsSortOrder(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	r := seedRestaurant(db, "Luigi's", "luigis")
	_, token := seedTestUser(db, "owner@luigis.test", models.RoleOwner, &r.ID)
	url := "/api/admin/restaurants/" + r.ID.String() + "/branches"

	for _, name := range []string{"Downtown", "Harbour"} {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, authRequest("POST", url, map[string]interface{}{"name": name}, token))
		if w.Code != http.StatusCreated {
			t.Fatalf("expected status 201, got %d: %s", w.Code, w.Body.String())
		}
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", url, nil, token))
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	list := parseResponseArray(w)
	if len(list) != 2 {
		t.Fatalf("expected 2 branches, got %d", len(list))
	}
	second := list[1].(map[string]interface{})
	if second["name"] != "Harbour" || second["sort_order"].(float64) != 1 {
		t.Errorf("expected Harbour at sort order 1, got %v", second)
	}
}

func TestRestaurantScopeRejectsBadID(t *testing.T) {
	db := freshDB()
	router := setupAdminRouter(db)
	_, token := seedTestUser(db, "admin@menu.test", models.RoleAdmin, nil)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, authRequest("GET", "/api/admin/restaurants/not-a-uuid/branches", nil, token))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}
