package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"laboutique_erp_202610/pkg/config"
	"laboutique_erp_202610/pkg/logger"
)

// Open 初始化数据库连接
// PostgreSQL 走 lib/pq 驱动，便于 seed 使用 COPY；sqlite:// 前缀用于本地演示
func Open(cfg config.DatabaseConfig, debug bool) (*gorm.DB, error) {
	level := gormlogger.Warn
	if debug {
		level = gormlogger.Info
	}
	gcfg := &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
		// 唯一约束冲突转换为 gorm.ErrDuplicatedKey
		TranslateError: true,
	}

	var dialector gorm.Dialector
	if path, ok := strings.CutPrefix(cfg.DSN, "sqlite://"); ok {
		dialector = sqlite.Open(path)
	} else {
		dialector = postgres.New(postgres.Config{
			DriverName: "postgres",
			DSN:        cfg.DSN,
		})
	}

	db, err := gorm.Open(dialector, gcfg)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 SQL DB 失败: %w", err)
	}
	if db.Dialector.Name() == "sqlite" {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(orDefault(cfg.MaxIdleConns, 10))
		sqlDB.SetMaxOpenConns(orDefault(cfg.MaxOpenConns, 100))
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("数据库不可用: %w", err)
	}

	logger.Info("[DB] 数据库连接成功", zap.String("dialect", db.Dialector.Name()))
	return db, nil
}

// Migrate 自动建表/迁移
func Migrate(ctx context.Context, db *gorm.DB, models ...interface{}) error {
	start := time.Now()
	if err := db.WithContext(ctx).AutoMigrate(models...); err != nil {
		return fmt.Errorf("自动建表出错: %w", err)
	}
	logger.Info("[DB] 迁移完成", zap.Int("tables", len(models)), zap.Duration("elapsed", time.Since(start)))
	return nil
}

// Close 关闭连接池
func Close(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
