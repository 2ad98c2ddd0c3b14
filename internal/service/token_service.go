package service

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService emite y valida los tokens de acceso que identifican al dueno
// del closet. La emision vive fuera de este servicio (gateway de cuentas);
// aca solo se firman tokens para entornos de desarrollo y se validan todos.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

// Claims son los claims propios mas los registrados de JWT.
type Claims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

var (
	ErrTokenInvalid = errors.New("token invalid")
	ErrTokenExpired = errors.New("token expired")
)

func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "stylist-ai",
	}
}

// Issue firma un token HS256 para el usuario dado.
func (s *TokenService) Issue(userID uuid.UUID) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrTokenInvalid
	}
	now := time.Now().UTC()
	claims := Claims{
		UserID: userID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse valida firma, expiracion, issuer y consistencia uid/sub, y devuelve
// el UserID como uuid.
func (s *TokenService) Parse(tokenString string) (uuid.UUID, error) {
	if len(s.secret) == 0 || strings.TrimSpace(tokenString) == "" {
		return uuid.Nil, ErrTokenInvalid
	}

	var claims Claims
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	_, err := parser.ParseWithClaims(tokenString, &claims, func(_ *jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return uuid.Nil, ErrTokenExpired
		}
		return uuid.Nil, ErrTokenInvalid
	}

	if claims.Issuer != s.issuer || claims.UserID == "" || claims.UserID != claims.Subject {
		return uuid.Nil, ErrTokenInvalid
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, ErrTokenInvalid
	}
	return userID, nil
}
