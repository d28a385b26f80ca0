package repository

import (
	"context"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// SupportRepository 客服会话仓储接口
type SupportRepository interface {
	CreateConversation(ctx context.Context, conv *model.SupportConversation) error
	GetConversation(ctx context.Context, id int64) (*model.SupportConversation, error)
	GetBySession(ctx context.Context, storeID int64, token string) (*model.SupportConversation, error)
	UpdateConversation(ctx context.Context, id int64, fields map[string]interface{}) error
	ListConversations(ctx context.Context, storeID int64, status string, page, pageSize int) ([]model.SupportConversation, int64, error)

	AddMessage(ctx context.Context, msg *model.SupportMessage) error
	RecentMessages(ctx context.Context, conversationID int64, limit int) ([]model.SupportMessage, error)
	ListMessages(ctx context.Context, conversationID int64) ([]model.SupportMessage, error)
}

type supportRepo struct {
	db *gorm.DB
}

// NewSupportRepository 创建客服会话仓储
func NewSupportRepository(db *gorm.DB) SupportRepository {
	return &supportRepo{db: db}
}

func (r *supportRepo) CreateConversation(ctx context.Context, conv *model.SupportConversation) error {
	return r.db.WithContext(ctx).Create(conv).Error
}

func (r *supportRepo) GetConversation(ctx context.Context, id int64) (*model.SupportConversation, error) {
	var conv model.SupportConversation
	if err := r.db.WithContext(ctx).First(&conv, id).Error; err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *supportRepo) GetBySession(ctx context.Context, storeID int64, token string) (*model.SupportConversation, error) {
	var conv model.SupportConversation
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND session_token = ?", storeID, token).
		First(&conv).Error
	if err != nil {
		return nil, err
	}
	return &conv, nil
}

func (r *supportRepo) UpdateConversation(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.SupportConversation{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *supportRepo) ListConversations(ctx context.Context, storeID int64, status string, page, pageSize int) ([]model.SupportConversation, int64, error) {
	var list []model.SupportConversation
	var total int64
	query := r.db.WithContext(ctx).Model(&model.SupportConversation{}).Where("store_id = ?", storeID)
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	page, pageSize = model.ClampPage(page, pageSize)
	err := query.Order("updated_at DESC, id DESC").Limit(pageSize).Offset((page - 1) * pageSize).Find(&list).Error
	return list, total, err
}

func (r *supportRepo) AddMessage(ctx context.Context, msg *model.SupportMessage) error {
	return r.db.WithContext(ctx).Create(msg).Error
}

// RecentMessages 最近 limit 条消息，按时间正序返回
func (r *supportRepo) RecentMessages(ctx context.Context, conversationID int64, limit int) ([]model.SupportMessage, error) {
	var list []model.SupportMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id DESC").
		Limit(limit).
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(list)-1; i < j; i, j = i+1, j-1 {
		list[i], list[j] = list[j], list[i]
	}
	return list, nil
}

func (r *supportRepo) ListMessages(ctx context.Context, conversationID int64) ([]model.SupportMessage, error) {
	var list []model.SupportMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}
