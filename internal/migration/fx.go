package migration

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/opensigas/sigas/internal/config"
	"github.com/opensigas/sigas/internal/seed"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, genID *snowflake.Node) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB); err != nil {
			return err
		}

		if cfg.SeedDefaultTenant {
			return seed.EnsureDefaultTenant(conn, genID, cfg.DefaultTenantSlug, "SIGAS")
		}
		return nil
	}),
)
