package seed_test

import (
	"testing"

	authdomain "github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"github.com/smallbiznis/utilitydesk/internal/auth/password"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/smallbiznis/utilitydesk/internal/migration"
	"github.com/smallbiznis/utilitydesk/internal/seed"
	utilitydomain "github.com/smallbiznis/utilitydesk/internal/utility/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, migration.Migrate(conn))
	return conn
}

func TestEnsureUtilityTypesIsIdempotent(t *testing.T) {
	conn := newDB(t)

	require.NoError(t, seed.EnsureUtilityTypes(conn))
	require.NoError(t, seed.EnsureUtilityTypes(conn))

	var items []utilitydomain.UtilityType
	require.NoError(t, conn.Order("name").Find(&items).Error)
	require.Len(t, items, 3)
	assert.Equal(t, "electricity", items[0].Name)
	assert.Equal(t, "gas", items[1].Name)
	assert.Equal(t, "water", items[2].Name)
}

func TestEnsureAdminCreatesHashedAccountOnce(t *testing.T) {
	conn := newDB(t)
	cfg := config.BootstrapConfig{AdminUsername: " Root ", AdminPassword: "correct-horse", AdminFullName: "Site Admin"}

	require.NoError(t, seed.EnsureAdmin(conn, cfg))
	require.NoError(t, seed.EnsureAdmin(conn, cfg))

	var staff []authdomain.Staff
	require.NoError(t, conn.Find(&staff).Error)
	require.Len(t, staff, 1)
	assert.Equal(t, "root", staff[0].Username)
	assert.Equal(t, authdomain.RoleAdmin, staff[0].Role)
	assert.True(t, password.IsHash(staff[0].PasswordHash))

	assert.True(t, password.Verify("correct-horse", staff[0].PasswordHash))
}

func TestEnsureAdminSkipsWithoutCredentials(t *testing.T) {
	conn := newDB(t)
	require.NoError(t, seed.EnsureAdmin(conn, config.BootstrapConfig{AdminUsername: "root"}))

	var count int64
	require.NoError(t, conn.Model(&authdomain.Staff{}).Count(&count).Error)
	assert.Zero(t, count)
}
