package main

import (
	"github.com/ahmedooo1/nfeat/internal/chat"
	"github.com/ahmedooo1/nfeat/internal/clock"
	"github.com/ahmedooo1/nfeat/internal/config"
	"github.com/ahmedooo1/nfeat/internal/observability/logger"
	"github.com/ahmedooo1/nfeat/internal/observability/metrics"
	"github.com/ahmedooo1/nfeat/internal/orders"
	ordersdomain "github.com/ahmedooo1/nfeat/internal/orders/domain"
	"github.com/ahmedooo1/nfeat/internal/profile"
	profiledomain "github.com/ahmedooo1/nfeat/internal/profile/domain"
	"github.com/ahmedooo1/nfeat/internal/receipt"
	"github.com/ahmedooo1/nfeat/internal/seed"
	"github.com/ahmedooo1/nfeat/internal/server"
	"github.com/ahmedooo1/nfeat/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var version = "dev"

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(func() *snowflake.Node {
			node, err := snowflake.NewNode(1)
			if err != nil {
				panic(err)
			}
			return node
		}),
		clock.Module,
		db.Module,
		fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
			if err := conn.AutoMigrate(&profiledomain.User{}, &ordersdomain.Order{}); err != nil {
				return err
			}
			if cfg.Bootstrap.EnsureDefaultUser && !cfg.IsProduction() {
				return seed.EnsureDefaultUser(conn)
			}
			return nil
		}),
		metrics.Module,
		receipt.Module,
		profile.Module,
		orders.Module,
		chat.Module,
		server.Module,
	)
	app.Run()
}
