package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"laboutique_erp_202610/internal/model"
)

// ==================== 接口定义 ====================

// TicketRepository 工单仓储接口
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	GetByID(ctx context.Context, storeID, id int64) (*model.Ticket, error)
	UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error
	List(ctx context.Context, filter TicketFilter) ([]model.Ticket, int64, error)
	CountForStore(ctx context.Context, storeID int64) (int64, error)
	CountBy(ctx context.Context, storeID int64, column string) (map[string]int64, error)
	ListStaleResolved(ctx context.Context, before time.Time, limit int) ([]model.Ticket, error)

	AddComment(ctx context.Context, comment *model.TicketComment) error
	ListComments(ctx context.Context, ticketID int64, includeInternal bool) ([]model.TicketComment, error)
}

// TicketFilter 工单过滤条件
type TicketFilter struct {
	StoreID    int64
	Status     string
	Priority   string
	Type       string
	AssigneeID int64
	Keyword    string
	Page       int
	PageSize   int
}

// ==================== 仓储实现 ====================

type ticketRepo struct {
	db *gorm.DB
}

// NewTicketRepository 创建工单仓储
func NewTicketRepository(db *gorm.DB) TicketRepository {
	return &ticketRepo{db: db}
}

func (r *ticketRepo) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Create(ticket).Error
}

func (r *ticketRepo) GetByID(ctx context.Context, storeID, id int64) (*model.Ticket, error) {
	var t model.Ticket
	err := r.db.WithContext(ctx).
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("id ASC")
		}).
		Where("store_id = ? AND id = ?", storeID, id).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepo) UpdateFields(ctx context.Context, id int64, fields map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *ticketRepo) List(ctx context.Context, filter TicketFilter) ([]model.Ticket, int64, error) {
	var list []model.Ticket
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Ticket{}).Where("store_id = ?", filter.StoreID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.AssigneeID > 0 {
		query = query.Where("assignee_id = ?", filter.AssigneeID)
	}
	if kw := strings.TrimSpace(filter.Keyword); kw != "" {
		like := "%" + strings.ToLower(kw) + "%"
		query = query.Where("(LOWER(subject) LIKE ? OR LOWER(email) LIKE ? OR ticket_number LIKE ?)", like, like, "%"+kw+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page, pageSize := model.ClampPage(filter.Page, filter.PageSize)
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&list).Error
	return list, total, err
}

// CountForStore 含软删除，用于生成工单号
func (r *ticketRepo) CountForStore(ctx context.Context, storeID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&model.Ticket{}).Where("store_id = ?", storeID).Count(&count).Error
	return count, err
}

// CountBy 按 status / priority 分组计数
func (r *ticketRepo) CountBy(ctx context.Context, storeID int64, column string) (map[string]int64, error) {
	if column != "status" && column != "priority" && column != "type" {
		column = "status"
	}
	type result struct {
		Grp   string
		Count int64
	}
	var results []result
	err := r.db.WithContext(ctx).
		Model(&model.Ticket{}).
		Select(column+" as grp, COUNT(*) as count").
		Where("store_id = ?", storeID).
		Group(column).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(results))
	for _, r := range results {
		out[r.Grp] = r.Count
	}
	return out, nil
}

// ListStaleResolved 已解决且长时间未更新的工单
func (r *ticketRepo) ListStaleResolved(ctx context.Context, before time.Time, limit int) ([]model.Ticket, error) {
	var list []model.Ticket
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.TicketStatusResolved, before).
		Order("id ASC").
		Limit(limit).
		Find(&list).Error
	return list, err
}

func (r *ticketRepo) AddComment(ctx context.Context, comment *model.TicketComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *ticketRepo) ListComments(ctx context.Context, ticketID int64, includeInternal bool) ([]model.TicketComment, error) {
	var list []model.TicketComment
	query := r.db.WithContext(ctx).Where("ticket_id = ?", ticketID)
	if !includeInternal {
		query = query.Where("internal = ?", false)
	}
	err := query.Order("id ASC").Find(&list).Error
	return list, err
}
