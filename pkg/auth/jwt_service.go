package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "career-studio-api"

var ErrInvalidToken = errors.New("invalid token")

type JWTService struct {
	secretKey     []byte
	tokenLifespan time.Duration
	now           func() time.Time
}

type CustomClaims struct {
	OwnerID uuid.UUID `json:"owner_id"`
	jwt.RegisteredClaims
}

func NewJWTService(secretKey string, tokenLifespan time.Duration) *JWTService {
	if tokenLifespan <= 0 {
		tokenLifespan = 24 * time.Hour
	}
	return &JWTService{
		secretKey:     []byte(secretKey),
		tokenLifespan: tokenLifespan,
		now:           time.Now,
	}
}

// IssuedToken is a signed access token and the instant it stops validating.
type IssuedToken struct {
	AccessToken string
	ExpiresAt   time.Time
}

func (s *JWTService) IssueToken(ownerID uuid.UUID) (IssuedToken, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenLifespan)
	claims := CustomClaims{
		ownerID,
		jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Subject:   ownerID.String(),
			Issuer:    issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		return IssuedToken{}, fmt.Errorf("cannot sign token: %w", err)
	}
	return IssuedToken{AccessToken: signed, ExpiresAt: expiresAt}, nil
}

func (s *JWTService) GenerateToken(ownerID uuid.UUID) (string, error) {
	t, err := s.IssueToken(ownerID)
	return t.AccessToken, err
}

func (s *JWTService) ValidateToken(tokenString string) (*CustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &CustomClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("invalid signature algorithm: %v", token.Header["alg"])
		}
		return s.secretKey, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if claims, ok := token.Claims.(*CustomClaims); ok && token.Valid {
		if claims.OwnerID == uuid.Nil {
			return nil, fmt.Errorf("%w: owner_id claim is empty", ErrInvalidToken)
		}
		return claims, nil
	}

	return nil, fmt.Errorf("%w: error when parsing token claims", ErrInvalidToken)
}
