package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/utilitydesk/internal/clock"
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/smallbiznis/utilitydesk/internal/migration"
	"github.com/smallbiznis/utilitydesk/internal/observability"
	"github.com/smallbiznis/utilitydesk/internal/ratelimit"
	"github.com/smallbiznis/utilitydesk/internal/scheduler"
	"github.com/smallbiznis/utilitydesk/internal/server"
	"github.com/smallbiznis/utilitydesk/internal/store"
	"github.com/smallbiznis/utilitydesk/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		store.Module,
		migration.Module,
		ratelimit.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
