package session

import (
	"crypto/rand"
	"errors"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"go.uber.org/zap"
)

const (
	issuer     = "utilitydesk"
	defaultTTL = 8 * time.Hour
)

// Claims is the signed session payload.
type Claims struct {
	StaffID  string      `json:"sid"`
	FullName string      `json:"name"`
	Role     domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// Manager issues and verifies HS256 bearer tokens.
type Manager struct {
	secret []byte
	ttl    time.Duration
	clock  clock.Clock
}

func NewManager(cfg config.Config, clk clock.Clock, log *zap.Logger) (*Manager, error) {
	secret := []byte(cfg.AuthJWTSecret)
	if len(secret) == 0 {
		if cfg.IsProduction() {
			return nil, errors.New("AUTH_JWT_SECRET is required in production")
		}
		secret = make([]byte, 32)
		if _, err := rand.Read(secret); err != nil {
			return nil, err
		}
		log.Warn("AUTH_JWT_SECRET not set; using an ephemeral signing key")
	}

	ttl := cfg.AuthTokenTTL
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Manager{secret: secret, ttl: ttl, clock: clk}, nil
}

func (m *Manager) Issue(identity domain.Identity) (string, time.Time, error) {
	now := m.clock.Now()
	expiresAt := now.Add(m.ttl)
	claims := Claims{
		StaffID:  identity.StaffID,
		FullName: identity.FullName,
		Role:     identity.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   identity.StaffID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// Parse verifies the signature and expiry of raw and returns its identity.
func (m *Manager) Parse(raw string) (domain.Identity, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithoutClaimsValidation(),
	)

	var claims Claims
	_, err := parser.ParseWithClaims(raw, &claims, func(*jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if !claims.VerifyExpiresAt(m.clock.Now(), true) {
		return domain.Identity{}, domain.ErrTokenExpired
	}
	if !claims.VerifyIssuer(issuer, true) || claims.StaffID == "" {
		return domain.Identity{}, domain.ErrInvalidToken
	}
	if _, err := domain.ParseRole(string(claims.Role)); err != nil {
		return domain.Identity{}, domain.ErrInvalidToken
	}

	return domain.Identity{StaffID: claims.StaffID, FullName: claims.FullName, Role: claims.Role}, nil
}

// ReadToken extracts the bearer token from the Authorization header.
func (m *Manager) ReadToken(c *gin.Context) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
