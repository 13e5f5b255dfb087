package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/customer/domain"
	"github.com/smallbiznis/utilitydesk/internal/customer/repository"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) domain.Service {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&domain.Customer{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func TestCreateGeneratesIDAndDefaultsBillingAddress(t *testing.T) {
	svc := newService(t)

	c, err := svc.Create(context.Background(), domain.CreateCustomerRequest{
		Name:           "  Ada Lovelace ",
		Type:           "Residential",
		Email:          "ada@example.com",
		ServiceAddress: "12 Analytical Way",
	})
	require.NoError(t, err)
	assert.Contains(t, c.ID, domain.IDPrefix)
	assert.Equal(t, "Ada Lovelace", c.Name)
	assert.Equal(t, "12 Analytical Way", c.BillingAddress)

	got, err := svc.GetByID(context.Background(), c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.Name, got.Name)
}

func TestCreateValidation(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.CreateCustomerRequest
		err  error
	}{
		{"missing name", domain.CreateCustomerRequest{Type: "Residential"}, domain.ErrInvalidName},
		{"missing type", domain.CreateCustomerRequest{Name: "Bob"}, domain.ErrInvalidType},
		{"bad email", domain.CreateCustomerRequest{Name: "Bob", Type: "Commercial", Email: "bob"}, domain.ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{ID: "CUST-1", Name: "A", Type: "Residential"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateCustomerRequest{ID: "CUST-1", Name: "B", Type: "Residential"})
	assert.ErrorIs(t, err, domain.ErrExists)
}

func TestUpdateAndNotFound(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, domain.CreateCustomerRequest{ID: "CUST-7", Name: "Grace", Type: "Residential"})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, domain.UpdateCustomerRequest{ID: "CUST-7", Name: "Grace Hopper", Type: "Commercial", BillingAddress: "PO Box 1"})
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", updated.Name)
	assert.Equal(t, "PO Box 1", updated.BillingAddress)

	_, err = svc.Update(ctx, domain.UpdateCustomerRequest{ID: "CUST-404", Name: "X", Type: "Residential"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.GetByID(ctx, "CUST-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.GetByID(ctx, " ")
	assert.ErrorIs(t, err, domain.ErrInvalidID)
}

func TestListFiltersAndPages(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, req := range []domain.CreateCustomerRequest{
		{ID: "CUST-1", Name: "Alpha Bakery", Type: "Commercial"},
		{ID: "CUST-2", Name: "Beta House", Type: "Residential"},
		{ID: "CUST-3", Name: "Gamma Bakery", Type: "Commercial"},
	} {
		_, err := svc.Create(ctx, req)
		require.NoError(t, err)
	}

	res, err := svc.List(ctx, domain.ListCustomerRequest{Name: "BAKERY"})
	require.NoError(t, err)
	require.Len(t, res.Customers, 2)
	assert.Equal(t, "CUST-3", res.Customers[0].ID)

	first, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Customers, 2)
	require.True(t, first.HasMore)

	second, err := svc.List(ctx, domain.ListCustomerRequest{PageSize: 2, PageToken: first.NextPageToken})
	require.NoError(t, err)
	require.Len(t, second.Customers, 1)
	assert.Equal(t, "CUST-1", second.Customers[0].ID)
	assert.False(t, second.HasMore)
}
