package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/app"
	"laboutique_erp_202610/internal/middleware"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/database"
	"laboutique_erp_202610/pkg/logger"
)

// @title La Boutique ERP API
// @version 1.0
// @description 多店铺电商前台与后台管理接口
// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer {token}
func main() {
	cliApp := &cli.App{
		Name:  "laboutique",
		Usage: "多店铺电商后台",
		Commands: []*cli.Command{
			serveCommand(),
			migrateCommand(),
			seedCommand(),
			exportCommand(),
			importCommand(),
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Error("命令执行失败", zap.Error(err))
		logger.Sync()
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	logger.Sync()
}

// ==================== 公共初始化 ====================

// bootstrap 读取配置、初始化日志并连接数据库
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	if err := logger.InitLogger(cfg.App.Env); err != nil {
		return nil, nil, fmt.Errorf("初始化日志失败: %w", err)
	}

	db, err := database.Open(cfg.Database, cfg.App.Env == "development")
	if err != nil {
		return nil, nil, err
	}
	if err := middleware.RegisterAuditCallbacks(db); err != nil {
		database.Close(db)
		return nil, nil, fmt.Errorf("注册审计回调失败: %w", err)
	}
	return cfg, db, nil
}

// initDependencies 连接数据库并组装全部依赖
func initDependencies(ctx context.Context, migrate bool) (*app.Dependencies, error) {
	cfg, db, err := bootstrap()
	if err != nil {
		return nil, err
	}
	if migrate {
		if err := database.Migrate(ctx, db, model.AllModels()...); err != nil {
			database.Close(db)
			return nil, err
		}
	}
	deps, err := app.Build(ctx, cfg, db, app.Options{})
	if err != nil {
		database.Close(db)
		return nil, err
	}
	return deps, nil
}

func closeDependencies(deps *app.Dependencies) {
	deps.Close()
	database.Close(deps.DB)
}

// ==================== migrate ====================

func migrateCommand() *cli.Command {
	return &cli.Command{
		Name:  "migrate",
		Usage: "执行 AutoMigrate",
		Action: func(c *cli.Context) error {
			_, db, err := bootstrap()
			if err != nil {
				return err
			}
			defer database.Close(db)
			return database.Migrate(c.Context, db, model.AllModels()...)
		},
	}
}
