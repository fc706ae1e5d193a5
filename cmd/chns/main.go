package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"github.com/Nonie001/chns/internal/audit"
	"github.com/Nonie001/chns/internal/clock"
	"github.com/Nonie001/chns/internal/config"
	"github.com/Nonie001/chns/internal/donation"
	"github.com/Nonie001/chns/internal/mailer"
	"github.com/Nonie001/chns/internal/migration"
	"github.com/Nonie001/chns/internal/observability/logger"
	"github.com/Nonie001/chns/internal/observability/tracing"
	"github.com/Nonie001/chns/internal/receipt"
	"github.com/Nonie001/chns/internal/seed"
	"github.com/Nonie001/chns/internal/server"
	"github.com/Nonie001/chns/internal/settings"
	"github.com/Nonie001/chns/internal/storage"
	"github.com/Nonie001/chns/pkg/db"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		tracing.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		db.Module,
		clock.Module,
		storage.Module,

		settings.Module,
		receipt.Module,
		mailer.Module,
		donation.Module,
		audit.Module,

		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			if err := migration.RunMigrations(conn); err != nil {
				return err
			}
			return seed.EnsureAdminUser(conn, cfg)
		}),

		server.Module,
	)
	app.Run()
}
