package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"clubhub/internal/domain"
)

const (
	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
	Kind  string   `json:"kind"`
}

type jwtService struct {
	secret        []byte
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

// NewJWTService returns a TokenService signing HS256 token pairs with the
// given secret. Access tokens carry email and roles; refresh tokens carry
// only the subject, and the two kinds are not interchangeable.
func NewJWTService(secret string, accessExpiry, refreshExpiry time.Duration) domain.TokenService {
	return &jwtService{
		secret:        []byte(secret),
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

func (s *jwtService) IssuePair(userID, email string, roles []string) (*domain.TokenPair, error) {
	access, err := s.sign(jwtClaims{
		RegisteredClaims: registered(userID, s.accessExpiry),
		Email:            email,
		Roles:            roles,
		Kind:             tokenKindAccess,
	})
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}
	refresh, err := s.sign(jwtClaims{
		RegisteredClaims: registered(userID, s.refreshExpiry),
		Kind:             tokenKindRefresh,
	})
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}
	return &domain.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *jwtService) VerifyAccess(token string) (*domain.AccessClaims, error) {
	claims, err := s.verify(token, tokenKindAccess)
	if err != nil {
		return nil, err
	}
	return &domain.AccessClaims{
		UserID: claims.Subject,
		Email:  claims.Email,
		Roles:  claims.Roles,
	}, nil
}

func (s *jwtService) VerifyRefresh(token string) (string, error) {
	claims, err := s.verify(token, tokenKindRefresh)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func registered(userID string, expiry time.Duration) jwt.RegisteredClaims {
	now := time.Now()
	return jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
	}
}

func (s *jwtService) sign(claims jwtClaims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func (s *jwtService) verify(token, kind string) (*jwtClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	claims, ok := parsed.Claims.(*jwtClaims)
	if !ok || !parsed.Valid {
		return nil, domain.ErrUnauthorized
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: wrong token kind", domain.ErrUnauthorized)
	}
	return claims, nil
}
