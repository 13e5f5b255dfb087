package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newManager(t *testing.T, clk clock.Clock, secret string) *Manager {
	t.Helper()
	m, err := NewManager(config.Config{AuthJWTSecret: secret, AuthTokenTTL: time.Hour}, clk, zap.NewNop())
	require.NoError(t, err)
	return m
}

func TestIssueAndParse(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC))
	m := newManager(t, clk, "test-secret")

	identity := domain.Identity{StaffID: "STAFF-1", FullName: "Ada", Role: domain.RoleCashier}
	token, expiresAt, err := m.Issue(identity)
	require.NoError(t, err)
	assert.Equal(t, clk.Now().Add(time.Hour), expiresAt)

	got, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, identity, got)

	clk.Advance(2 * time.Hour)
	_, err = m.Parse(token)
	assert.ErrorIs(t, err, domain.ErrTokenExpired)
}

func TestParseRejectsForeignSignature(t *testing.T) {
	clk := clock.NewFakeClock(time.Now())
	token, _, err := newManager(t, clk, "one").Issue(domain.Identity{StaffID: "S", Role: domain.RoleAdmin})
	require.NoError(t, err)

	_, err = newManager(t, clk, "two").Parse(token)
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = newManager(t, clk, "two").Parse("not-a-token")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)
}

func TestProductionRequiresSecret(t *testing.T) {
	_, err := NewManager(config.Config{Environment: "production"}, clock.SystemClock{}, zap.NewNop())
	assert.Error(t, err)
}

func TestReadToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := newManager(t, clock.SystemClock{}, "s")

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	_, ok := m.ReadToken(c)
	assert.False(t, ok)

	c.Request.Header.Set("Authorization", "Bearer abc.def")
	token, ok := m.ReadToken(c)
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)
}
