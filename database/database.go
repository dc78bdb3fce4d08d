package database

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"menu-backend/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func Connect() (*gorm.DB, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "host=localhost user=postgres password=postgres dbname=menu port=5432 sslmode=disable"
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// CreateDefaultAdmin creates the back office admin from ADMIN_EMAIL and
// ADMIN_PASSWORD. Without a configured password a random one is generated
// and logged once.
func CreateDefaultAdmin(db *gorm.DB, log *zap.Logger) error {
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" {
		adminEmail = "admin@menu.local"
	}
	adminEmail = strings.ToLower(adminEmail)
	generated := false
	if adminPassword == "" {
		adminPassword = strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
		generated = true
	}

	var existingUser models.User
	err := db.Where("email = ?", adminEmail).First(&existingUser).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := models.User{
		Email:    adminEmail,
		Password: string(hashedPassword),
		Role:     models.RoleAdmin,
		Name:     "Admin User",
	}

	if err := db.Create(&admin).Error; err != nil {
		return err
	}

	if generated {
		log.Warn("default admin created with generated password; set ADMIN_PASSWORD to choose one",
			zap.String("email", adminEmail),
			zap.String("password", adminPassword),
		)
	} else {
		log.Info("default admin created", zap.String("email", adminEmail))
	}
	return nil
}

// CreateDefaultRestaurant makes sure at least one restaurant exists so a fresh
// install has a menu to edit. The slug comes from DEFAULT_RESTAURANT_SLUG.
func CreateDefaultRestaurant(db *gorm.DB, log *zap.Logger) (*models.Restaurant, error) {
	var existing models.Restaurant
	err := db.Order("created_at ASC").First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	r := models.Restaurant{
		Name:     getEnv("DEFAULT_RESTAURANT_NAME", "My Restaurant"),
		Slug:     getEnv("DEFAULT_RESTAURANT_SLUG", "main"),
		Currency: getEnv("DEFAULT_CURRENCY", "USD"),
		IsActive: true,
		Branches: []models.Branch{{Name: "Main", IsActive: true}},
	}
	if err := db.Create(&r).Error; err != nil {
		return nil, err
	}

	log.Info("default restaurant created", zap.String("slug", r.Slug))
	return &r, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
