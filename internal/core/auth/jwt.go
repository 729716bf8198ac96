package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims identify the caller of an API request.
type Claims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// JWTService validates access tokens issued by the identity provider. It can
// also issue tokens, which is used for local development and tests.
type JWTService struct {
	secretKey           []byte
	accessTokenDuration time.Duration
	now                 func() time.Time
}

func NewJWTService(secretKey string) *JWTService {
	return &JWTService{
		secretKey:           []byte(secretKey),
		accessTokenDuration: 15 * time.Minute,
		now:                 time.Now,
	}
}

// GenerateAccessToken signs an HS256 token for the given claims.
func (s *JWTService) GenerateAccessToken(claims Claims) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": claims.UserID.String(),
		"email":   claims.Email,
		"role":    claims.Role,
		"exp":     now.Add(s.accessTokenDuration).Unix(),
		"iat":     now.Unix(),
		"nbf":     now.Unix(),
	})

	signed, err := token.SignedString(s.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// ValidateAccessToken checks signature and expiry and extracts the claims.
func (s *JWTService) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	rawID, _ := mapClaims["user_id"].(string)
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, fmt.Errorf("invalid user_id in token")
	}
	email, _ := mapClaims["email"].(string)
	role, _ := mapClaims["role"].(string)
	if role == "" {
		return nil, fmt.Errorf("missing role in token")
	}

	return &Claims{UserID: userID, Email: email, Role: role}, nil
}
