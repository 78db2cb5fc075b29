package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const DefaultTokenTTL = 480 * time.Minute

var (
	jwtSecret string
	tokenTTL  = DefaultTokenTTL
)

var (
	ErrTokenExpired     = errors.New("El token ha expirado!")
	ErrInvalidSignature = errors.New("Error de firma invalida!")
	ErrMalformedToken   = errors.New("Error de decodificación de token!")
	ErrInvalidToken     = errors.New("Error desconocido durante la validación del token!")
)

type Claims struct {
	Username string `json:"username"`
	UserID   uint   `json:"user_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// InitJWTSecret sets the signing secret and token lifetime. A zero ttl keeps
// the default of eight hours.
func InitJWTSecret(secret string, ttl time.Duration) error {
	if secret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	jwtSecret = secret
	if ttl > 0 {
		tokenTTL = ttl
	} else {
		tokenTTL = DefaultTokenTTL
	}
	return nil
}

func GenerateJWT(userID uint, username, role string) (string, error) {
	now := time.Now()
	claims := Claims{
		Username: username,
		UserID:   userID,
		Role:     role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

func VerifyJWT(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	switch {
	case err == nil && token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformedToken
	default:
		return nil, ErrInvalidToken
	}
}
