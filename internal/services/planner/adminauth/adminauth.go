// Package adminauth issues and verifies the signed admin token that unlocks
// catalog and season writes.
package adminauth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/louisbranch/theater.planner/internal/platform/errors"
)

const (
	// DefaultTTL is how long an issued admin token stays valid.
	DefaultTTL = 12 * time.Hour
	// MinSecretLength is the shortest HMAC secret accepted.
	MinSecretLength = 16

	issuer       = "theater.planner"
	adminSubject = "admin"
)

// Config defines how admin tokens are issued and verified.
type Config struct {
	PasswordHash string
	Secret       []byte
	TTL          time.Duration
	Now          func() time.Time
}

// Claims are the validated admin token claims.
type Claims struct {
	Subject   string
	Admin     bool
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// adminClaims is the JWT payload.
type adminClaims struct {
	jwt.RegisteredClaims
	Admin bool `json:"admin"`
}

// Authority checks the admin passphrase and signs admin tokens.
type Authority struct {
	hash   []byte
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New validates cfg and returns an Authority.
func New(cfg Config) (*Authority, error) {
	hash := strings.TrimSpace(cfg.PasswordHash)
	if hash == "" {
		return nil, errors.New("admin password hash is required")
	}
	if _, err := bcrypt.Cost([]byte(hash)); err != nil {
		return nil, fmt.Errorf("admin password hash: %w", err)
	}
	if len(cfg.Secret) < MinSecretLength {
		return nil, fmt.Errorf("admin token secret must be at least %d bytes", MinSecretLength)
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Authority{
		hash:   []byte(hash),
		secret: append([]byte(nil), cfg.Secret...),
		ttl:    ttl,
		now:    now,
	}, nil
}

// HashPassword returns the bcrypt hash stored in configuration.
func HashPassword(password string) (string, error) {
	if strings.TrimSpace(password) == "" {
		return "", errors.New("password is required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks password and returns a signed admin token.
func (a *Authority) Login(password string) (string, Claims, error) {
	if a == nil {
		return "", Claims{}, errors.New("admin authority is not configured")
	}
	if bcrypt.CompareHashAndPassword(a.hash, []byte(password)) != nil {
		return "", Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "invalid admin password")
	}

	now := a.now().UTC()
	expires := now.Add(a.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, adminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   adminSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
		Admin: true,
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", Claims{}, fmt.Errorf("sign admin token: %w", err)
	}
	return signed, Claims{
		Subject:   adminSubject,
		Admin:     true,
		IssuedAt:  now.Truncate(time.Second),
		ExpiresAt: expires.Truncate(time.Second),
	}, nil
}

// Verify parses token and requires the admin claim.
func (a *Authority) Verify(token string) (Claims, error) {
	if a == nil {
		return Claims{}, errors.New("admin authority is not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Claims{}, apperrors.New(apperrors.CodeUnauthenticated, "admin token is required")
	}

	var parsed adminClaims
	_, err := jwt.ParseWithClaims(token, &parsed, func(*jwt.Token) (any, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return Claims{}, mapJWTError(err)
	}
	if !parsed.Admin {
		return Claims{}, apperrors.New(apperrors.CodePermissionDenied, "token does not grant admin access")
	}

	claims := Claims{
		Subject:   parsed.Subject,
		Admin:     parsed.Admin,
		ExpiresAt: parsed.ExpiresAt.Time.UTC(),
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	return claims, nil
}

// mapJWTError translates jwt library errors to application errors.
func mapJWTError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "admin token is expired", err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "admin token signature is invalid", err)
	default:
		return apperrors.Wrap(apperrors.CodeUnauthenticated, "admin token is invalid", err)
	}
}
