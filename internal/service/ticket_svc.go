package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/logger"
)

// TicketAutoCloseAfter 已解决工单无更新超过该时长自动关闭
const TicketAutoCloseAfter = 7 * 24 * time.Hour

// TicketService 工单：创建、状态流转、指派、评论
type TicketService struct {
	ticketRepo  repository.TicketRepository
	supportRepo repository.SupportRepository
	now         func() time.Time
}

func NewTicketService(ticketRepo repository.TicketRepository, supportRepo repository.SupportRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo, supportRepo: supportRepo, now: time.Now}
}

// Create 后台手动建单
func (s *TicketService) Create(ctx context.Context, storeID, actorID int64, req *dto.TicketRequest) (*model.Ticket, error) {
	ticket := &model.Ticket{
		StoreID:     storeID,
		Subject:     strings.TrimSpace(req.Subject),
		Description: req.Description,
		Status:      model.TicketStatusOpen,
		Priority:    strings.ToUpper(req.Priority),
		Type:        strings.ToUpper(req.Type),
		Email:       normalizeEmail(req.Email),
		Name:        strings.TrimSpace(req.Name),
		OrderID:     req.OrderID,
	}
	ticket.CreatedBy = actorID
	if err := s.open(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

// open 补齐默认值并分配 TKT 编号，编号冲突时重取
func (s *TicketService) open(ctx context.Context, ticket *model.Ticket) error {
	if ticket.Priority == "" {
		ticket.Priority = model.TicketPriorityMedium
	}
	if ticket.Type == "" {
		ticket.Type = model.TicketTypeSupport
	}
	if ticket.Status == "" {
		ticket.Status = model.TicketStatusOpen
	}
	if !model.IsValidTicketPriority(ticket.Priority) || !model.IsValidTicketType(ticket.Type) {
		return ErrInvalidStatus
	}

	for attempt := 0; attempt < 3; attempt++ {
		count, err := s.ticketRepo.CountForStore(ctx, ticket.StoreID)
		if err != nil {
			return err
		}
		ticket.ID = 0
		ticket.TicketNumber = model.FormatTicketNumber(count + 1 + int64(attempt))
		err = s.ticketRepo.Create(ctx, ticket)
		if err == nil {
			logger.Info("[Ticket] 新工单",
				zap.Int64("store_id", ticket.StoreID),
				zap.String("number", ticket.TicketNumber),
				zap.String("priority", ticket.Priority),
			)
			return nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return errors.New("生成工单编号失败")
}

func (s *TicketService) Get(ctx context.Context, storeID, id int64) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, storeID, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrTicketNotFound
	}
	return ticket, err
}

func (s *TicketService) List(ctx context.Context, storeID int64, req *dto.TicketListRequest) (*dto.PageResult[model.Ticket], error) {
	page, pageSize := model.ClampPage(req.Page, req.PageSize)
	list, total, err := s.ticketRepo.List(ctx, repository.TicketFilter{
		StoreID:    storeID,
		Status:     strings.ToUpper(req.Status),
		Priority:   strings.ToUpper(req.Priority),
		Type:       strings.ToUpper(req.Type),
		AssigneeID: req.AssigneeID,
		Keyword:    req.Keyword,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

// UpdateStatus 按状态机流转，同步关联会话状态
func (s *TicketService) UpdateStatus(ctx context.Context, storeID, id, actorID int64, req *dto.TicketStatusRequest) (*model.Ticket, error) {
	to := strings.ToUpper(strings.TrimSpace(req.Status))
	if !model.IsValidTicketStatus(to) {
		return nil, ErrInvalidStatus
	}
	ticket, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if err := s.transition(ctx, ticket, to, actorID); err != nil {
		return nil, err
	}
	if note := strings.TrimSpace(req.Note); note != "" {
		if err := s.ticketRepo.AddComment(ctx, &model.TicketComment{
			TicketID:   ticket.ID,
			AuthorType: model.CommentAuthorSystem,
			AuthorID:   actorID,
			Body:       note,
			Internal:   true,
		}); err != nil {
			return nil, err
		}
	}
	return s.Get(ctx, storeID, id)
}

// Assign 指派处理人，待处理的工单转为处理中
func (s *TicketService) Assign(ctx context.Context, storeID, id, actorID int64, assigneeID *int64) (*model.Ticket, error) {
	ticket, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	if ticket.Status == model.TicketStatusClosed || ticket.Status == model.TicketStatusCancelled {
		return nil, ErrTicketTransition
	}
	fields := map[string]interface{}{"assignee_id": assigneeID, "updated_by": actorID}
	if assigneeID != nil && (ticket.Status == model.TicketStatusOpen ||
		ticket.Status == model.TicketStatusReopened ||
		ticket.Status == model.TicketStatusEscalated) {
		fields["status"] = model.TicketStatusInProgress
	}
	if err := s.ticketRepo.UpdateFields(ctx, ticket.ID, fields); err != nil {
		return nil, err
	}
	return s.Get(ctx, storeID, id)
}

// AddComment 客服的公开回复同步到客服会话
func (s *TicketService) AddComment(ctx context.Context, storeID, id int64, authorType string, authorID int64, req *dto.TicketCommentRequest) (*model.TicketComment, error) {
	ticket, err := s.Get(ctx, storeID, id)
	if err != nil {
		return nil, err
	}
	return s.comment(ctx, ticket, authorType, authorID, req.Body, req.Internal)
}

func (s *TicketService) comment(ctx context.Context, ticket *model.Ticket, authorType string, authorID int64, body string, internal bool) (*model.TicketComment, error) {
	if ticket.Status == model.TicketStatusCancelled ||
		(ticket.Status == model.TicketStatusClosed && authorType != model.CommentAuthorSystem) {
		return nil, ErrTicketTransition
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, ErrEmptyMessage
	}
	c := &model.TicketComment{
		TicketID:   ticket.ID,
		AuthorType: authorType,
		AuthorID:   authorID,
		Body:       body,
		Internal:   internal && authorType != model.CommentAuthorCustomer,
	}
	if err := s.ticketRepo.AddComment(ctx, c); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.UpdateFields(ctx, ticket.ID, map[string]interface{}{"updated_at": s.now()}); err != nil {
		return nil, err
	}

	if authorType == model.CommentAuthorAgent && !c.Internal && ticket.ConversationID != nil {
		if err := s.supportRepo.AddMessage(ctx, &model.SupportMessage{
			ConversationID: *ticket.ConversationID,
			Role:           model.MessageRoleAgent,
			Content:        body,
		}); err != nil {
			logger.Warn("[Ticket] 回复同步到会话失败", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
		}
	}
	return c, nil
}

// Stats 按状态、优先级统计
func (s *TicketService) Stats(ctx context.Context, storeID int64) (*model.TicketStats, error) {
	byStatus, err := s.ticketRepo.CountBy(ctx, storeID, "status")
	if err != nil {
		return nil, err
	}
	byPriority, err := s.ticketRepo.CountBy(ctx, storeID, "priority")
	if err != nil {
		return nil, err
	}
	stats := &model.TicketStats{ByStatus: byStatus, ByPriority: byPriority}
	for status, c := range byStatus {
		stats.Total += c
		switch status {
		case model.TicketStatusResolved, model.TicketStatusClosed, model.TicketStatusCancelled:
		default:
			stats.Open += c
		}
	}
	return stats, nil
}

// AutoCloseResolved 定时任务：关闭长时间无更新的已解决工单
func (s *TicketService) AutoCloseResolved(ctx context.Context, olderThan time.Duration) (int, error) {
	if olderThan <= 0 {
		olderThan = TicketAutoCloseAfter
	}
	stale, err := s.ticketRepo.ListStaleResolved(ctx, s.now().Add(-olderThan), 200)
	if err != nil {
		return 0, err
	}
	closed := 0
	for i := range stale {
		t := &stale[i]
		if err := s.transition(ctx, t, model.TicketStatusClosed, 0); err != nil {
			logger.Warn("[Ticket] 自动关闭失败", zap.String("number", t.TicketNumber), zap.Error(err))
			continue
		}
		_ = s.ticketRepo.AddComment(ctx, &model.TicketComment{
			TicketID:   t.ID,
			AuthorType: model.CommentAuthorSystem,
			Body:       "已解决超过 7 天无回复，系统自动关闭",
			Internal:   true,
		})
		closed++
	}
	if closed > 0 {
		logger.Info("[Ticket] 自动关闭已解决工单", zap.Int("count", closed))
	}
	return closed, nil
}

// transition 更新状态与时间戳，关闭 / 重开时同步会话
func (s *TicketService) transition(ctx context.Context, ticket *model.Ticket, to string, actorID int64) error {
	if !model.CanTransitionTicket(ticket.Status, to) {
		return ErrTicketTransition
	}
	now := s.now()
	fields := map[string]interface{}{"status": to, "updated_by": actorID}
	switch to {
	case model.TicketStatusResolved:
		fields["resolved_at"] = now
	case model.TicketStatusClosed, model.TicketStatusCancelled:
		fields["closed_at"] = now
	case model.TicketStatusReopened:
		fields["resolved_at"] = nil
		fields["closed_at"] = nil
	}
	if err := s.ticketRepo.UpdateFields(ctx, ticket.ID, fields); err != nil {
		return err
	}

	if ticket.ConversationID != nil {
		var convStatus string
		switch to {
		case model.TicketStatusClosed, model.TicketStatusCancelled:
			convStatus = model.ConversationStatusClosed
		case model.TicketStatusReopened:
			convStatus = model.ConversationStatusEscalated
		}
		if convStatus != "" {
			if err := s.supportRepo.UpdateConversation(ctx, *ticket.ConversationID, map[string]interface{}{"status": convStatus}); err != nil {
				logger.Warn("[Ticket] 同步会话状态失败", zap.Int64("ticket_id", ticket.ID), zap.Error(err))
			}
		}
	}
	ticket.Status = to
	return nil
}
