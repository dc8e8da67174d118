package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"qualifier/internal/platform/config"
	"qualifier/internal/platform/models"
)

const issuer = "qualifier-stub"

type Claims struct {
	Name     string `json:"name"`
	RegNo    string `json:"regNo"`
	Email    string `json:"email"`
	Language string `json:"lang"`
	jwt.RegisteredClaims
}

type TokenService struct {
	config config.StubConfig
	now    func() time.Time
}

func NewTokenService(cfg config.StubConfig) *TokenService {
	return &TokenService{config: cfg, now: time.Now}
}

// GenerateAccessToken issues the token a candidate must present when
// submitting to the webhook.
func (s *TokenService) GenerateAccessToken(req models.WebhookRequest, language string) (string, error) {
	now := s.now()
	claims := Claims{
		Name:     req.Name,
		RegNo:    req.RegNo,
		Email:    req.Email,
		Language: language,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   req.RegNo,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.config.TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.TokenSecret))
}

func (s *TokenService) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(s.config.TokenSecret), nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(s.now))

	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(*Claims); ok && token.Valid {
		return claims, nil
	}

	return nil, errors.New("invalid token")
}

// TokenInfo is what can be read from an access token without its key.
type TokenInfo struct {
	ID        string
	Subject   string
	Issuer    string
	ExpiresAt time.Time
}

// Inspect decodes tokenString without verifying its signature. The hiring
// service treats the token as opaque, so ok is false for anything that is
// not a JWT and callers must not rely on the result.
func Inspect(tokenString string) (info TokenInfo, ok bool) {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, &claims); err != nil {
		return TokenInfo{}, false
	}

	info = TokenInfo{ID: claims.ID, Subject: claims.Subject, Issuer: claims.Issuer}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, true
}
