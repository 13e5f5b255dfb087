package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/utilitydesk/internal/audit/domain"
	"github.com/smallbiznis/utilitydesk/internal/audit/repository"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	obscontext "github.com/smallbiznis/utilitydesk/internal/observability/context"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"github.com/smallbiznis/utilitydesk/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newService(t *testing.T) auditdomain.Service {
	t.Helper()
	conn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&auditdomain.AuditLog{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(Params{
		DB:    conn,
		Log:   zap.NewNop(),
		GenID: node,
		Clock: clock.NewFakeClock(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)),
		Repo:  repository.Provide(),
	})
}

func TestRecordUsesContextActorAndRequestID(t *testing.T) {
	svc := newService(t)
	ctx := obscontext.WithActor(context.Background(), string(auditdomain.ActorTypeStaff), "STAFF-9")
	ctx = obscontext.WithRequestID(ctx, "req-1")

	require.NoError(t, svc.Record(ctx, nil, auditdomain.Entry{
		Action:     "customer.deleted",
		TargetType: "customer",
		TargetID:   "CUST-1",
		Metadata:   map[string]any{"password": "hunter2", "bills": 2},
	}))

	res, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, res.AuditLogs, 1)

	entry := res.AuditLogs[0]
	assert.Equal(t, string(auditdomain.ActorTypeStaff), entry.ActorType)
	require.NotNil(t, entry.ActorID)
	assert.Equal(t, "STAFF-9", *entry.ActorID)
	assert.Equal(t, "req-1", entry.Metadata["request_id"])
	assert.NotEqual(t, "hunter2", entry.Metadata["password"])
}

func TestRecordDefaultsToSystemActor(t *testing.T) {
	svc := newService(t)
	require.NoError(t, svc.Record(context.Background(), nil, auditdomain.Entry{Action: "bill.generated", TargetType: "bill"}))

	res, err := svc.List(context.Background(), auditdomain.ListAuditLogRequest{})
	require.NoError(t, err)
	require.Len(t, res.AuditLogs, 1)
	assert.Equal(t, string(auditdomain.ActorTypeSystem), res.AuditLogs[0].ActorType)
	assert.Nil(t, res.AuditLogs[0].ActorID)
	assert.Nil(t, res.AuditLogs[0].TargetID)
}

func TestRecordRejectsIncompleteEntries(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Record(ctx, nil, auditdomain.Entry{TargetType: "bill"}), auditdomain.ErrInvalidAction)
	assert.ErrorIs(t, svc.Record(ctx, nil, auditdomain.Entry{Action: "bill.generated"}), auditdomain.ErrInvalidTargetType)
}

func TestListFiltersAndPages(t *testing.T) {
	svc := newService(t)
	ctx := context.Background()

	for _, action := range []string{"reading.submitted", "reading.submitted", "payment.recorded"} {
		require.NoError(t, svc.Record(ctx, nil, auditdomain.Entry{Action: action, TargetType: "bill"}))
	}

	readings, err := svc.List(ctx, auditdomain.ListAuditLogRequest{Action: "reading.submitted"})
	require.NoError(t, err)
	assert.Len(t, readings.AuditLogs, 2)

	first, err := svc.List(ctx, auditdomain.ListAuditLogRequest{Pagination: pageOf(2, "")})
	require.NoError(t, err)
	require.Len(t, first.AuditLogs, 2)
	require.True(t, first.HasMore)
	assert.Equal(t, "payment.recorded", first.AuditLogs[0].Action)

	second, err := svc.List(ctx, auditdomain.ListAuditLogRequest{Pagination: pageOf(2, first.NextPageToken)})
	require.NoError(t, err)
	assert.Len(t, second.AuditLogs, 1)
	assert.False(t, second.HasMore)
}

func pageOf(size int, token string) pagination.Pagination {
	return pagination.Pagination{PageSize: size, PageToken: token}
}
