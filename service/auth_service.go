package service

import (
	"errors"
	"fmt"
	"time"

	"bank-ledger/logger"
	"bank-ledger/model"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidToken = errors.New("invalid or expired token")

// AuthService hashes client PINs and issues and verifies access tokens.
type AuthService struct {
	secret     []byte
	ttl        time.Duration
	bcryptCost int
}

func NewAuthService(secret string, ttl time.Duration, bcryptCost int) *AuthService {
	return &AuthService{secret: []byte(secret), ttl: ttl, bcryptCost: bcryptCost}
}

func (s *AuthService) HashPin(pin string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(pin), s.bcryptCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash pin")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPin(pin, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pin)) == nil
}

// GenerateToken signs an HS256 access token for client.
func (s *AuthService) GenerateToken(client *model.Client) (string, time.Time, error) {
	expiresAt := time.Now().Add(s.ttl)

	claims := &model.AppClaims{
		ClientID: client.ID,
		Role:     client.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", client.ExternalID),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		logger.Log.WithError(err).WithField("client_id", client.ID).Error("Failed to sign JWT")
		return "", time.Time{}, fmt.Errorf("failed to sign token string: %w", err)
	}
	return tokenString, expiresAt, nil
}

// ParseToken verifies tokenString and returns its claims.
func (s *AuthService) ParseToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
