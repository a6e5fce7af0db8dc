package auth

import (
	"errors"
	"time"

	"backend-trailhub/internal/apperr"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const accessTokenTTL = 12 * time.Hour

// Service issues admin tokens. Festival visitors are identified by their
// uid alone, so only the admin surface carries credentials.
type Service struct {
	secret    []byte
	adminHash []byte
}

func NewService(secret, adminPasswordHash string) *Service {
	return &Service{
		secret:    []byte(secret),
		adminHash: []byte(adminPasswordHash),
	}
}

// Login checks password against the configured bcrypt hash and returns an
// admin access token.
func (s *Service) Login(req LoginRequest) (TokenResponse, error) {
	if len(s.adminHash) == 0 {
		return TokenResponse{}, apperr.Unauthorized("Admin login is disabled")
	}
	if err := bcrypt.CompareHashAndPassword(s.adminHash, []byte(req.Password)); err != nil {
		return TokenResponse{}, apperr.Unauthorized("Invalid credentials")
	}

	access, err := s.signToken(RoleAdmin, RoleAdmin, accessTokenTTL)
	if err != nil {
		return TokenResponse{}, apperr.Internal("Failed to sign token", err)
	}
	return TokenResponse{
		AccessToken: access,
		TokenType:   "Bearer",
		ExpiresIn:   int64(accessTokenTTL.Seconds()),
	}, nil
}

func (s *Service) ValidateAccessToken(token string) (*Claims, error) {
	claims, err := s.parseToken(token)
	if err != nil {
		return nil, apperr.Unauthorized("Invalid token")
	}
	return claims, nil
}

func (s *Service) signToken(userID, role string, ttl time.Duration) (string, error) {
	claims := Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parseToken(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &Claims{}, func(_ *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("token invalid")
	}
	return claims, nil
}
