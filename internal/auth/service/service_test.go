package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/utilitydesk/internal/auth/domain"
	"github.com/smallbiznis/utilitydesk/internal/auth/password"
	"github.com/smallbiznis/utilitydesk/internal/auth/repository"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T, legacy bool) (domain.Service, *gorm.DB) {
	t.Helper()

	dbConn, err := db.NewTest()
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	if err := dbConn.AutoMigrate(&domain.Staff{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("failed to create snowflake node: %v", err)
	}

	return New(Params{
		DB:     dbConn,
		Log:    zap.NewNop(),
		GenID:  node,
		Clock:  clock.NewFakeClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
		Repo:   repository.Provide(),
		Config: config.Config{AuthLegacyPlaintext: legacy},
	}), dbConn
}

func TestVerifyAcceptsMatchingRole(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx := context.Background()

	staff, err := svc.CreateStaff(ctx, domain.CreateStaffRequest{
		Username: "Cashier.One", FullName: "Cash One", Role: "cashier", Password: "correct-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "cashier.one", staff.Username)
	assert.Equal(t, domain.RoleCashier, staff.Role)
	assert.True(t, password.IsHash(staff.PasswordHash))

	identity, err := svc.Verify(ctx, domain.VerifyRequest{Username: "cashier.one", Password: "correct-password", Role: "Cashier"})
	require.NoError(t, err)
	assert.Equal(t, staff.ID, identity.StaffID)
	assert.Equal(t, "Cash One", identity.FullName)
}

func TestVerifyFailuresLookAlike(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, domain.CreateStaffRequest{
		Username: "fo", FullName: "Field Officer", Role: "FieldOfficer", Password: "correct-password",
	})
	require.NoError(t, err)

	tests := []domain.VerifyRequest{
		{Username: "fo", Password: "wrong-password", Role: "FieldOfficer"},
		{Username: "ghost", Password: "correct-password", Role: "FieldOfficer"},
		{Username: "fo", Password: "correct-password", Role: "Admin"},
		{Username: "fo", Password: "correct-password", Role: "Janitor"},
		{Username: "", Password: "correct-password", Role: "FieldOfficer"},
	}
	for _, req := range tests {
		_, err := svc.Verify(ctx, req)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials, "%+v", req)
	}
}

func TestLegacyPlaintextRejectedByDefault(t *testing.T) {
	svc, conn := newTestService(t, false)
	insertLegacy(t, conn)

	_, err := svc.Verify(context.Background(), domain.VerifyRequest{Username: "legacy", Password: "plain-pass", Role: "Manager"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestLegacyPlaintextRehashedWhenEnabled(t *testing.T) {
	svc, conn := newTestService(t, true)
	insertLegacy(t, conn)
	ctx := context.Background()

	_, err := svc.Verify(ctx, domain.VerifyRequest{Username: "legacy", Password: "wrong", Role: "Manager"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	identity, err := svc.Verify(ctx, domain.VerifyRequest{Username: "legacy", Password: "plain-pass", Role: "Manager"})
	require.NoError(t, err)
	assert.Equal(t, "STAFF-LEGACY", identity.StaffID)

	stored, err := svc.GetStaff(ctx, "STAFF-LEGACY")
	require.NoError(t, err)
	assert.True(t, password.IsHash(stored.PasswordHash))
	assert.True(t, password.Verify("plain-pass", stored.PasswordHash))
}

func TestCreateStaffValidation(t *testing.T) {
	svc, _ := newTestService(t, false)
	ctx := context.Background()

	_, err := svc.CreateStaff(ctx, domain.CreateStaffRequest{Username: "a", FullName: "A", Role: "Owner", Password: "long-enough"})
	assert.ErrorIs(t, err, domain.ErrInvalidRole)

	_, err = svc.CreateStaff(ctx, domain.CreateStaffRequest{Username: "a", FullName: "A", Role: "Admin", Password: "short"})
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	_, err = svc.CreateStaff(ctx, domain.CreateStaffRequest{Username: "a", FullName: "A", Role: "Admin", Password: "long-enough"})
	require.NoError(t, err)
	_, err = svc.CreateStaff(ctx, domain.CreateStaffRequest{Username: "A", FullName: "Again", Role: "Admin", Password: "long-enough"})
	assert.ErrorIs(t, err, domain.ErrStaffExists)

	_, err = svc.GetStaff(ctx, "STAFF-404")
	assert.ErrorIs(t, err, domain.ErrStaffNotFound)

	all, err := svc.ListStaff(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func insertLegacy(t *testing.T, conn *gorm.DB) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, conn.Create(&domain.Staff{
		ID: "STAFF-LEGACY", Username: "legacy", FullName: "Legacy Manager",
		Role: domain.RoleManager, PasswordHash: "plain-pass", CreatedAt: now, UpdatedAt: now,
	}).Error)
}
