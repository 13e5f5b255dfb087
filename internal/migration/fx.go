package migration

import (
	"github.com/smallbiznis/utilitydesk/internal/config"
	"github.com/smallbiznis/utilitydesk/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if err := Migrate(conn); err != nil {
			return err
		}
		if err := seed.EnsureUtilityTypes(conn); err != nil {
			return err
		}
		return seed.EnsureAdmin(conn, cfg.Bootstrap)
	}),
)
