package service

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"laboutique_erp_202610/internal/model"
)

// ==================== 测试辅助 ====================

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("连接测试数据库失败: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("获取连接池失败: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		t.Fatalf("数据库迁移失败: %v", err)
	}
	return db
}

func seedStore(t *testing.T, db *gorm.DB, slug string) *model.Store {
	t.Helper()
	s := &model.Store{Name: slug, Slug: slug, Currency: "EUR", Status: model.StoreStatusActive}
	if err := db.Create(s).Error; err != nil {
		t.Fatalf("创建测试店铺失败: %v", err)
	}
	return s
}

func int64Ptr(v int64) *int64 { return &v }

func boolPtr(v bool) *bool { return &v }
