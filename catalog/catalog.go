package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"menu-backend/cart"
	"menu-backend/models"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound    = errors.New("product not found")
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrUnknownReorderKind = errors.New("unknown reorder kind")
	ErrNotInRestaurant    = errors.New("id does not belong to restaurant")
)

// Store reads the menu of a restaurant. Everything it returns to the cart has
// already been converted into the cart's canonical product shape.
type Store struct {
	DB *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{DB: db}
}

// ToCartProduct converts a persisted product and its variants into the shape
// the cart prices against. Variants with blank names are dropped.
func ToCartProduct(p models.Product) *cart.Product {
	out := &cart.Product{
		ID:    p.ID.String(),
		Name:  p.Name,
		Price: p.Price,
	}

	variants := append([]models.ProductVariant(nil), p.Variants...)
	sort.SliceStable(variants, func(i, j int) bool { return variants[i].SortOrder < variants[j].SortOrder })

	for _, v := range variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			continue
		}
		cv := cart.Variant{Name: name, Price: v.Price}
		switch v.Kind {
		case models.VariantSize:
			out.Sizes = append(out.Sizes, cv)
		case models.VariantWeight:
			out.Weights = append(out.Weights, cv)
		case models.VariantExtra:
			out.Extras = append(out.Extras, cv)
		}
	}
	return out
}

// RestaurantBySlug returns an active restaurant.
func (s *Store) RestaurantBySlug(ctx context.Context, slug string) (*models.Restaurant, error) {
	var r models.Restaurant
	err := s.DB.WithContext(ctx).Where("slug = ? AND is_active = ?", slug, true).First(&r).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrRestaurantNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load restaurant %q: %w", slug, err)
	}
	return &r, nil
}

// Branch returns an active branch of the restaurant.
func (s *Store) Branch(ctx context.Context, restaurantID, branchID uuid.UUID) (*models.Branch, error) {
	var b models.Branch
	err := s.DB.WithContext(ctx).
		Where("id = ? AND restaurant_id = ? AND is_active = ?", branchID, restaurantID, true).
		First(&b).Error
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Product returns an available product of the restaurant in cart form.
func (s *Store) Product(ctx context.Context, restaurantID, productID uuid.UUID) (*cart.Product, error) {
	var p models.Product
	err := s.DB.WithContext(ctx).
		Preload("Variants").
		Where("id = ? AND restaurant_id = ? AND is_available = ?", productID, restaurantID, true).
		First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load product %s: %w", productID, err)
	}
	return ToCartProduct(p), nil
}

// MenuFilter narrows a menu to one category and/or a search term matched
// against both product names.
type MenuFilter struct {
	CategoryID *uuid.UUID
	Search     string
}

type MenuCategory struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	NameAr   string      `json:"name_ar"`
	Products []MenuEntry `json:"products"`
}

type MenuEntry struct {
	*cart.Product
	NameAr      string `json:"name_ar"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// Menu loads the active categories and available products of a restaurant
// and groups them, both ordered by sort order and then name. Categories left
// empty by the filter are omitted.
func (s *Store) Menu(ctx context.Context, restaurantID uuid.UUID, filter MenuFilter) ([]MenuCategory, error) {
	var (
		categories []models.Category
		products   []models.Product
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		q := s.DB.WithContext(gctx).Where("restaurant_id = ? AND is_active = ?", restaurantID, true)
		if filter.CategoryID != nil {
			q = q.Where("id = ?", *filter.CategoryID)
		}
		return q.Order("sort_order ASC, name ASC").Find(&categories).Error
	})
	g.Go(func() error {
		q := s.DB.WithContext(gctx).Preload("Variants").
			Where("restaurant_id = ? AND is_available = ?", restaurantID, true)
		if filter.CategoryID != nil {
			q = q.Where("category_id = ?", *filter.CategoryID)
		}
		if term := strings.TrimSpace(filter.Search); term != "" {
			like := "%" + strings.ToLower(term) + "%"
			q = q.Where("LOWER(name) LIKE ? OR LOWER(name_ar) LIKE ?", like, like)
		}
		return q.Order("sort_order ASC, name ASC").Find(&products).Error
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("load menu: %w", err)
	}

	byCategory := make(map[uuid.UUID][]MenuEntry, len(categories))
	for _, p := range products {
		byCategory[p.CategoryID] = append(byCategory[p.CategoryID], MenuEntry{
			Product:     ToCartProduct(p),
			NameAr:      p.NameAr,
			Description: p.Description,
			ImageURL:    p.ImageURL,
		})
	}

	menu := make([]MenuCategory, 0, len(categories))
	for _, c := range categories {
		entries := byCategory[c.ID]
		if len(entries) == 0 {
			continue
		}
		menu = append(menu, MenuCategory{ID: c.ID, Name: c.Name, NameAr: c.NameAr, Products: entries})
	}
	return menu, nil
}

type ReorderKind string

const (
	ReorderCategories ReorderKind = "categories"
	ReorderProducts   ReorderKind = "products"
	ReorderBranches   ReorderKind = "branches"
)

// Reorder assigns sort orders 0..n-1 to the given ids of the restaurant, in
// order, in a single transaction. Ids that do not belong to the restaurant
// abort the whole reorder.
func (s *Store) Reorder(ctx context.Context, restaurantID uuid.UUID, kind ReorderKind, ids []uuid.UUID) error {
	var model interface{}
	switch kind {
	case ReorderCategories:
		model = &models.Category{}
	case ReorderProducts:
		model = &models.Product{}
	case ReorderBranches:
		model = &models.Branch{}
	default:
		return ErrUnknownReorderKind
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			res := tx.Model(model).
				Where("id = ? AND restaurant_id = ?", id, restaurantID).
				Update("sort_order", i)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: %s %s", ErrNotInRestaurant, kind, id)
			}
		}
		return nil
	})
}
