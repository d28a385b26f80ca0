package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"laboutique_erp_202610/internal/model"
)

// AliExpressRepository 授权与导入任务仓储接口
type AliExpressRepository interface {
	// 授权
	GetToken(ctx context.Context, storeID int64) (*model.AliExpressToken, error)
	UpsertToken(ctx context.Context, token *model.AliExpressToken) error
	UpdateTokenStatus(ctx context.Context, storeID int64, status, lastError string) error
	FindExpiring(ctx context.Context, before time.Time) ([]model.AliExpressToken, error)

	// 导入任务
	CreateJob(ctx context.Context, job *model.ImportJob) error
	UpdateJob(ctx context.Context, id int64, fields map[string]interface{}) error
	ListJobs(ctx context.Context, storeID int64, status string, page, pageSize int) ([]model.ImportJob, int64, error)
}

type aliExpressRepo struct {
	db *gorm.DB
}

// NewAliExpressRepository 创建 AliExpress 仓储
func NewAliExpressRepository(db *gorm.DB) AliExpressRepository {
	return &aliExpressRepo{db: db}
}

// GetToken 不存在返回 nil
func (r *aliExpressRepo) GetToken(ctx context.Context, storeID int64) (*model.AliExpressToken, error) {
	var t model.AliExpressToken
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// UpsertToken 每个店铺只保留一条授权
func (r *aliExpressRepo) UpsertToken(ctx context.Context, token *model.AliExpressToken) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"access_token", "refresh_token", "expires_at", "refresh_expires_at",
			"seller_id", "account", "status", "last_error", "last_refreshed_at", "updated_at",
		}),
	}).Create(token).Error
}

func (r *aliExpressRepo) UpdateTokenStatus(ctx context.Context, storeID int64, status, lastError string) error {
	return r.db.WithContext(ctx).
		Model(&model.AliExpressToken{}).
		Where("store_id = ?", storeID).
		Updates(map[string]interface{}{
			"status":     status,
			"last_error": lastError,
		}).Error
}

// FindExpiring 即将过期且仍有效的授权
func (r *aliExpressRepo) FindExpiring(ctx context.Context, before time.Time) ([]model.AliExpressToken, error) {
	var list []model.AliExpressToken
	err := r.db.WithContext(ctx).
		Where("status = ? AND expires_at < ?", model.TokenStatusValid, before).
		Order("expires_at ASC").
		Find(&list).Error
	return list, err
}

func (r *aliExpressRepo) CreateJob(ctx context.Context, job *model.ImportJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *aliExpressRepo) UpdateJob(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.ImportJob{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *aliExpressRepo) ListJobs(ctx context.Context, storeID int64, status string, page, pageSize int) ([]model.ImportJob, int64, error) {
	var list []model.ImportJob
	var total int64
	query := r.db.WithContext(ctx).Model(&model.ImportJob{}).Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page, pageSize = model.ClampPage(page, pageSize)
	err := query.Order("id DESC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&list).Error
	return list, total, err
}
