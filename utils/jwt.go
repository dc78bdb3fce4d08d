package utils

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	adminIssuer   = "menu-backend"
	sessionIssuer = "menu-session"
)

// Claims identify a back office user.
type Claims struct {
	UserID       uuid.UUID  `json:"user_id"`
	Email        string     `json:"email"`
	Role         string     `json:"role"`
	RestaurantID *uuid.UUID `json:"restaurant_id,omitempty"`
	jwt.RegisteredClaims
}

// SessionClaims identify a guest ordering session and the menu it is bound to.
type SessionClaims struct {
	SessionID    uuid.UUID  `json:"session_id"`
	RestaurantID uuid.UUID  `json:"restaurant_id"`
	BranchID     *uuid.UUID `json:"branch_id,omitempty"`
	jwt.RegisteredClaims
}

func getJWTSecret() string {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		panic("FATAL: JWT_SECRET environment variable is not set. Refusing to start with an insecure configuration.")
	}
	return secret
}

func sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(getJWTSecret()))
}

func parse(tokenString, issuer string, claims jwt.Claims) error {
	secret := getJWTSecret()

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	}, jwt.WithIssuer(issuer))
	if err != nil {
		return err
	}
	if !token.Valid {
		return jwt.ErrSignatureInvalid
	}
	return nil
}

func GenerateToken(userID uuid.UUID, email, role string, restaurantID *uuid.UUID) (string, error) {
	return sign(Claims{
		UserID:       userID,
		Email:        email,
		Role:         role,
		RestaurantID: restaurantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(8 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    adminIssuer,
		},
	})
}

func ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	if err := parse(tokenString, adminIssuer, claims); err != nil {
		return nil, err
	}
	return claims, nil
}

// GenerateSessionToken signs a token for a guest session. The token outlives
// the in-memory cart; an expired cart is simply empty again.
func GenerateSessionToken(sessionID, restaurantID uuid.UUID, branchID *uuid.UUID, ttl time.Duration) (string, error) {
	return sign(SessionClaims{
		SessionID:    sessionID,
		RestaurantID: restaurantID,
		BranchID:     branchID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    sessionIssuer,
		},
	})
}

func ValidateSessionToken(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	if err := parse(tokenString, sessionIssuer, claims); err != nil {
		return nil, err
	}
	return claims, nil
}
