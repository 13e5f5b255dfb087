package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/utilitydesk/internal/billing/domain"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	customerdomain "github.com/smallbiznis/utilitydesk/internal/customer/domain"
	meterdomain "github.com/smallbiznis/utilitydesk/internal/meter/domain"
	"github.com/smallbiznis/utilitydesk/internal/meter/repository"
	utilitydomain "github.com/smallbiznis/utilitydesk/internal/utility/domain"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var now = time.Date(2024, time.June, 15, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T) (meterdomain.Service, *gorm.DB) {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(
		&utilitydomain.UtilityType{},
		&customerdomain.Customer{},
		&meterdomain.Meter{},
		&billingdomain.MeterReading{},
	))

	require.NoError(t, conn.Create(&utilitydomain.UtilityType{ID: "electricity", Name: "electricity", CreatedAt: now}).Error)
	for _, c := range []customerdomain.Customer{
		{ID: "CUST-1", Name: "Ada", Type: "Residential", ServiceAddress: "B Street", RegisteredAt: now, UpdatedAt: now},
		{ID: "CUST-2", Name: "Bob", Type: "Residential", ServiceAddress: "A Street", RegisteredAt: now, UpdatedAt: now},
	} {
		require.NoError(t, conn.Create(&c).Error)
	}

	svc := New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		Clock: clock.NewFakeClock(now),
		Repo:  repository.Provide(),
	})
	return svc, conn
}

func TestCreateDefaultsToActiveAndChecksReferences(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	m, err := svc.Create(ctx, meterdomain.CreateRequest{ID: "MTR-1", CustomerID: "CUST-1", UtilityID: "electricity", Location: "basement"})
	require.NoError(t, err)
	assert.Equal(t, meterdomain.StatusActive, m.Status)

	details, err := svc.GetByID(ctx, "MTR-1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", details.CustomerName)
	assert.Equal(t, "electricity", details.UtilityName)

	_, err = svc.Create(ctx, meterdomain.CreateRequest{ID: "MTR-1", CustomerID: "CUST-1", UtilityID: "electricity"})
	assert.ErrorIs(t, err, meterdomain.ErrExists)
	_, err = svc.Create(ctx, meterdomain.CreateRequest{ID: "MTR-2", CustomerID: "CUST-9", UtilityID: "electricity"})
	assert.ErrorIs(t, err, meterdomain.ErrUnknownCustomer)
	_, err = svc.Create(ctx, meterdomain.CreateRequest{ID: "MTR-2", CustomerID: "CUST-1", UtilityID: "steam"})
	assert.ErrorIs(t, err, meterdomain.ErrUnknownUtility)
	_, err = svc.Create(ctx, meterdomain.CreateRequest{ID: "MTR-2", CustomerID: "CUST-1", UtilityID: "electricity", Status: "broken"})
	assert.ErrorIs(t, err, meterdomain.ErrInvalidStatus)
}

func TestUpdateStatusCaseInsensitive(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, meterdomain.CreateRequest{ID: "MTR-1", CustomerID: "CUST-1", UtilityID: "electricity"})
	require.NoError(t, err)

	status := "inactive"
	m, err := svc.Update(ctx, meterdomain.UpdateRequest{ID: "MTR-1", Status: &status})
	require.NoError(t, err)
	assert.Equal(t, meterdomain.StatusInactive, m.Status)

	_, err = svc.Update(ctx, meterdomain.UpdateRequest{ID: "MTR-404", Status: &status})
	assert.ErrorIs(t, err, meterdomain.ErrNotFound)

	list, err := svc.List(ctx, meterdomain.ListRequest{Status: "Inactive"})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "MTR-1", list[0].ID)
}

func TestRouteSheetListsUnreadActiveMeters(t *testing.T) {
	svc, conn := newService(t)
	ctx := context.Background()

	for _, req := range []meterdomain.CreateRequest{
		{ID: "MTR-1", CustomerID: "CUST-1", UtilityID: "electricity"},
		{ID: "MTR-2", CustomerID: "CUST-2", UtilityID: "electricity"},
		{ID: "MTR-3", CustomerID: "CUST-2", UtilityID: "electricity", Status: "Inactive"},
		{ID: "MTR-4", CustomerID: "CUST-1", UtilityID: "electricity"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}
	require.NoError(t, conn.Create(&billingdomain.MeterReading{
		ID: 1, MeterID: "MTR-4", StaffID: "STAFF-1", Value: decimal.NewFromInt(10),
		ReadingDate: now, ReadingPeriod: "2024-06", CreatedAt: now,
	}).Error)

	stops, err := svc.RouteSheet(ctx, "")
	require.NoError(t, err)
	require.Len(t, stops, 2)
	assert.Equal(t, "MTR-2", stops[0].MeterID)
	assert.Equal(t, "MTR-1", stops[1].MeterID)

	stops, err = svc.RouteSheet(ctx, "2024-05")
	require.NoError(t, err)
	assert.Len(t, stops, 3)

	_, err = svc.RouteSheet(ctx, "June")
	assert.ErrorIs(t, err, meterdomain.ErrInvalidPeriod)
}
