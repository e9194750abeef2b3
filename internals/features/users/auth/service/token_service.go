// internals/features/users/auth/service/token_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"

	authRepo "library_backend/internals/features/users/auth/repository"
	userModel "library_backend/internals/features/users/user/model"
)

const accessTTLDefault = 24 * time.Hour

var (
	ErrTokensDisabled = errors.New("JWT_SECRET is not set")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenRevoked   = errors.New("token revoked")
)

// Claims is the API bearer token payload; jti identifies it for revocation.
type Claims struct {
	UserName string `json:"username"`
	IsStaff  bool   `json:"is_staff"`
	jwt.RegisteredClaims
}

// UserID parses the subject back into a user id.
func (c Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, ErrTokenInvalid
	}
	return uint(id), nil
}

type TokenService struct {
	DB     *gorm.DB
	Secret string
	TTL    time.Duration
	Now    func() time.Time
}

func NewTokenService(db *gorm.DB, secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = accessTTLDefault
	}
	return &TokenService{DB: db, Secret: strings.TrimSpace(secret), TTL: ttl, Now: time.Now}
}

func (s *TokenService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func (s *TokenService) Enabled() bool { return s != nil && s.Secret != "" }

// Issue signs an HS256 access token for user.
func (s *TokenService) Issue(user userModel.UserModel) (string, time.Time, error) {
	if !s.Enabled() {
		return "", time.Time{}, ErrTokensDisabled
	}
	now := s.now().UTC()
	exp := now.Add(s.TTL)

	claims := Claims{
		UserName: user.UserName,
		IsStaff:  user.IsStaffMember(),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   strconv.FormatUint(uint64(user.ID), 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Parse verifies signature, expiry and revocation of raw.
func (s *TokenService) Parse(ctx context.Context, raw string) (*Claims, error) {
	if !s.Enabled() {
		return nil, ErrTokensDisabled
	}

	claims := &Claims{}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	tok, err := parser.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return []byte(s.Secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.ID == "" {
		return nil, ErrTokenInvalid
	}

	revoked, err := authRepo.IsTokenBlacklisted(s.DB.WithContext(ctx), claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}
	return claims, nil
}

// Revoke blacklists the token until its own expiry.
func (s *TokenService) Revoke(ctx context.Context, claims *Claims) error {
	exp := s.now().Add(s.TTL)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return authRepo.BlacklistToken(s.DB.WithContext(ctx), claims.ID, exp)
}
