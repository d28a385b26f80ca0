package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/realtime"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/events"
	"laboutique_erp_202610/pkg/logger"
	"laboutique_erp_202610/pkg/retry"
)

const (
	// DefaultHistoryLimit 送入模型的最近消息条数
	DefaultHistoryLimit = 20

	// EscalateMarker 模型判断需要人工时在回复中输出的标记
	EscalateMarker = "[ESCALATE]"

	// AssistantFailureReply 模型重试后仍失败时的固定回复
	AssistantFailureReply = "Sorry, our assistant is having trouble right now. We've passed your message to our support team and someone will get back to you shortly."

	// EscalatedAck 已转人工后顾客继续留言的回执
	EscalatedAck = "Thanks, we've added your message to your support request. An agent will reply here and by email."
)

// 顾客明确要求人工（英 / 法 / 中）
var humanKeywords = []string{
	"human", "real person", "live agent", "an agent", "representative", "speak to someone", "talk to someone", "customer service",
	"humain", "un conseiller", "une personne", "parler à quelqu", "parler a quelqu", "service client",
	"人工", "真人", "转客服", "找客服",
}

// 高优先级关键词
var urgentKeywords = []string{
	"refund", "fraud", "scam", "chargeback", "stolen",
	"rembourse", "fraude", "arnaque", "volé",
	"退款", "欺诈", "诈骗", "被盗",
}

// WantsHuman 顾客是否要求转人工
func WantsHuman(text string) bool {
	return containsKeyword(text, humanKeywords)
}

// EscalationPriority refund / fraud 类为 HIGH，其余 MEDIUM
func EscalationPriority(texts ...string) string {
	for _, t := range texts {
		if containsKeyword(t, urgentKeywords) {
			return model.TicketPriorityHigh
		}
	}
	return model.TicketPriorityMedium
}

func containsKeyword(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// SupportService 客服会话：AI 回复与转人工
type SupportService struct {
	supportRepo  repository.SupportRepository
	storeRepo    repository.StoreRepository
	aiLogRepo    repository.AICallLogRepository
	tickets      *TicketService
	assistant    Assistant
	retrier      *retry.Retrier
	breaker      *retry.CircuitBreaker
	publisher    events.Publisher
	notifier     realtime.Notifier
	historyLimit int
	now          func() time.Time
}

func NewSupportService(
	supportRepo repository.SupportRepository,
	storeRepo repository.StoreRepository,
	aiLogRepo repository.AICallLogRepository,
	tickets *TicketService,
	assistant Assistant,
	publisher events.Publisher,
	notifier realtime.Notifier,
) *SupportService {
	if assistant == nil {
		assistant = StaticAssistant{}
	}
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	if notifier == nil {
		notifier = realtime.NopNotifier{}
	}
	return &SupportService{
		supportRepo: supportRepo,
		storeRepo:   storeRepo,
		aiLogRepo:   aiLogRepo,
		tickets:     tickets,
		assistant:   assistant,
		retrier: retry.NewRetrier(retry.Config{
			MaxRetries:     2,
			InitialBackoff: 500 * time.Millisecond,
			MaxBackoff:     5 * time.Second,
			BackoffFactor:  2,
			Jitter:         0.1,
		}),
		breaker:      retry.NewCircuitBreaker(5, 1, 30*time.Second),
		publisher:    publisher,
		notifier:     notifier,
		historyLimit: DefaultHistoryLimit,
		now:          time.Now,
	}
}

// SetRetrier 替换重试策略
func (s *SupportService) SetRetrier(r *retry.Retrier) {
	s.retrier = r
}

func (s *SupportService) SetHistoryLimit(n int) {
	if n > 0 {
		s.historyLimit = n
	}
}

// HistoryLimit 送入模型的最近消息条数
func (s *SupportService) HistoryLimit() int {
	return s.historyLimit
}

// ==================== 消息管道 ====================

// SendMessage 保存顾客消息，调用助手，必要时转人工
func (s *SupportService) SendMessage(ctx context.Context, storeID int64, req *dto.ChatRequest) (*dto.ChatResponse, error) {
	content := strings.TrimSpace(req.Message)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	store, err := s.storeRepo.GetByID(ctx, storeID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, err
	}

	// 1. 会话
	conv, err := s.conversation(ctx, storeID, req)
	if err != nil {
		return nil, err
	}

	// 2. 顾客消息
	if err := s.supportRepo.AddMessage(ctx, &model.SupportMessage{
		ConversationID: conv.ID,
		Role:           model.MessageRoleUser,
		Content:        content,
	}); err != nil {
		return nil, err
	}

	resp := &dto.ChatResponse{SessionToken: conv.SessionToken, ConversationID: conv.ID, Status: conv.Status}

	// 3. 已转人工：追加到工单，不再调用模型
	if conv.IsEscalated() && conv.TicketID != nil {
		return s.appendToTicket(ctx, conv, content, resp)
	}

	// 4-5. 调用助手
	history, err := s.history(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	reply, callErr := s.callAssistant(ctx, conv, SystemPrompt(store.Name), history)

	// 6. 助手回复
	answer := AssistantFailureReply
	tokens := 0
	marked := false
	if callErr == nil {
		answer, marked = stripMarker(reply.Content)
		tokens = reply.OutputTokens
		if answer == "" {
			answer = AssistantFailureReply
		}
	}
	if err := s.supportRepo.AddMessage(ctx, &model.SupportMessage{
		ConversationID: conv.ID,
		Role:           model.MessageRoleAssistant,
		Content:        answer,
		Tokens:         tokens,
	}); err != nil {
		return nil, err
	}
	resp.Reply = answer

	// 7. 是否转人工
	reason := ""
	switch {
	case WantsHuman(content):
		reason = "customer_request"
	case marked:
		reason = "assistant_marker"
	case callErr != nil:
		reason = "assistant_failure"
	}
	if reason == "" {
		return resp, nil
	}

	// 8. 建单
	ticket, err := s.escalate(ctx, conv, reason)
	if err != nil {
		logger.Error("[Support] 转人工失败", zap.Int64("conversation_id", conv.ID), zap.Error(err))
		return resp, nil
	}
	resp.Status = model.ConversationStatusEscalated
	resp.Escalated = true
	resp.TicketNumber = ticket.TicketNumber
	return resp, nil
}

// History 按会话 token 查看历史消息
func (s *SupportService) History(ctx context.Context, storeID int64, session string) (*dto.ChatHistory, error) {
	conv, err := s.supportRepo.GetBySession(ctx, storeID, session)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrConversationNotFound
	}
	if err != nil {
		return nil, err
	}
	msgs, err := s.supportRepo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	if msgs == nil {
		msgs = []model.SupportMessage{}
	}
	return &dto.ChatHistory{SessionToken: conv.SessionToken, Status: conv.Status, TicketID: conv.TicketID, Messages: msgs}, nil
}

// ListConversations 后台查看会话
func (s *SupportService) ListConversations(ctx context.Context, storeID int64, req *dto.ConversationListRequest) (*dto.PageResult[model.SupportConversation], error) {
	page, pageSize := model.ClampPage(req.Page, req.PageSize)
	list, total, err := s.supportRepo.ListConversations(ctx, storeID, req.Status, page, pageSize)
	if err != nil {
		return nil, err
	}
	return dto.NewPageResult(list, total, page, pageSize), nil
}

// Usage AI 调用统计，默认最近 30 天
func (s *SupportService) Usage(ctx context.Context, storeID int64, req *dto.AIUsageRequest) (*dto.AIUsageResponse, error) {
	from, to, err := parseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, err
	}
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	summary, err := s.aiLogRepo.GetUsageByStore(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	daily, err := s.aiLogRepo.GetDailyUsage(ctx, storeID, from, to)
	if err != nil {
		return nil, err
	}
	return &dto.AIUsageResponse{From: from, To: to, Summary: summary, Daily: daily}, nil
}

// SystemPrompt 客服系统提示词
func SystemPrompt(storeName string) string {
	return fmt.Sprintf(`You are the customer support assistant of the online store "%s".
Answer in the customer's language (English, French or Chinese), briefly and politely.
Help with products, orders, shipping, returns and payments. Never invent order details or policies you do not know.
If the customer asks for a human, is angry, reports fraud, or needs a refund or an action you cannot perform, add the token %s at the end of your reply.`,
		storeName, EscalateMarker)
}

// ==================== 内部方法 ====================

// conversation 会话不存在或已关闭时新建
func (s *SupportService) conversation(ctx context.Context, storeID int64, req *dto.ChatRequest) (*model.SupportConversation, error) {
	email := normalizeEmail(req.Email)
	name := strings.TrimSpace(req.Name)

	if req.SessionToken != "" {
		conv, err := s.supportRepo.GetBySession(ctx, storeID, req.SessionToken)
		switch {
		case err == nil && conv.Status != model.ConversationStatusClosed:
			fields := map[string]interface{}{}
			if conv.Email == "" && email != "" {
				fields["email"] = email
				conv.Email = email
			}
			if conv.Name == "" && name != "" {
				fields["name"] = name
				conv.Name = name
			}
			if len(fields) > 0 {
				if err := s.supportRepo.UpdateConversation(ctx, conv.ID, fields); err != nil {
					return nil, err
				}
			}
			return conv, nil
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}
	}

	conv := &model.SupportConversation{
		StoreID:      storeID,
		SessionToken: uuid.NewString(),
		Email:        email,
		Name:         name,
		Status:       model.ConversationStatusOpen,
	}
	if err := s.supportRepo.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

func (s *SupportService) appendToTicket(ctx context.Context, conv *model.SupportConversation, content string, resp *dto.ChatResponse) (*dto.ChatResponse, error) {
	ticket, err := s.tickets.Get(ctx, conv.StoreID, *conv.TicketID)
	if err != nil {
		return nil, err
	}
	if _, err := s.tickets.comment(ctx, ticket, model.CommentAuthorCustomer, 0, content, false); err != nil {
		return nil, err
	}
	if err := s.supportRepo.AddMessage(ctx, &model.SupportMessage{
		ConversationID: conv.ID,
		Role:           model.MessageRoleSystem,
		Content:        EscalatedAck,
	}); err != nil {
		return nil, err
	}
	resp.Reply = EscalatedAck
	resp.Escalated = true
	resp.TicketNumber = ticket.TicketNumber
	return resp, nil
}

// history 最近消息，系统回执不送入模型
func (s *SupportService) history(ctx context.Context, conversationID int64) ([]ChatMessage, error) {
	msgs, err := s.supportRepo.RecentMessages(ctx, conversationID, s.historyLimit)
	if err != nil {
		return nil, err
	}
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if m.Role == model.MessageRoleSystem {
			continue
		}
		out = append(out, ChatMessage{Role: m.Role, Content: m.Content})
	}
	return out, nil
}

// callAssistant 重试 + 熔断，结果写入 AI 调用日志
func (s *SupportService) callAssistant(ctx context.Context, conv *model.SupportConversation, prompt string, history []ChatMessage) (*AssistantReply, error) {
	var reply *AssistantReply
	res := s.retrier.Do(ctx, "support.chat", func(ctx context.Context) error {
		return s.breaker.Do(ctx, func(ctx context.Context) error {
			r, err := s.assistant.Reply(ctx, prompt, history)
			if err != nil {
				return err
			}
			reply = r
			return nil
		})
	})

	log := &model.AICallLog{
		StoreID:        conv.StoreID,
		ConversationID: conv.ID,
		CallType:       model.AICallTypeChat,
		Provider:       s.assistant.Provider(),
		ModelName:      s.assistant.Model(),
		DurationMs:     res.TotalDuration.Milliseconds(),
		Attempts:       res.Attempts,
		Status:         model.AICallStatusSuccess,
	}
	if reply != nil {
		log.InputTokens = reply.InputTokens
		log.OutputTokens = reply.OutputTokens
	}
	if err := res.Err(); err != nil {
		log.Status = model.AICallStatusFailed
		log.ErrorMsg = truncateText(err.Error(), 1000)
		logger.Warn("[Support] 助手调用失败",
			zap.Int64("conversation_id", conv.ID),
			zap.Int("attempts", res.Attempts),
			zap.String("kind", string(retry.Classify(err))),
			zap.Error(err),
		)
	}
	if err := s.aiLogRepo.Create(ctx, log); err != nil {
		logger.Warn("[Support] 写入 AI 调用日志失败", zap.Error(err))
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return reply, nil
}

// escalate 建单、更新会话、通知客服
func (s *SupportService) escalate(ctx context.Context, conv *model.SupportConversation, reason string) (*model.Ticket, error) {
	msgs, err := s.supportRepo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	var transcript strings.Builder
	var userTexts []string
	firstUser := ""
	for _, m := range msgs {
		fmt.Fprintf(&transcript, "[%s] %s: %s\n", m.CreatedAt.Format("2006-01-02 15:04"), m.Role, m.Content)
		if m.Role == model.MessageRoleUser {
			userTexts = append(userTexts, m.Content)
			if firstUser == "" {
				firstUser = m.Content
			}
		}
	}

	convID := conv.ID
	ticket := &model.Ticket{
		StoreID:        conv.StoreID,
		Subject:        "Support chat: " + truncateText(firstUser, 80),
		Description:    transcript.String(),
		Status:         model.TicketStatusEscalated,
		Priority:       EscalationPriority(userTexts...),
		Type:           model.TicketTypeSupport,
		Email:          conv.Email,
		Name:           conv.Name,
		ConversationID: &convID,
	}
	if err := s.tickets.open(ctx, ticket); err != nil {
		return nil, err
	}

	if err := s.supportRepo.UpdateConversation(ctx, conv.ID, map[string]interface{}{
		"status":    model.ConversationStatusEscalated,
		"ticket_id": ticket.ID,
	}); err != nil {
		return nil, err
	}
	conv.Status = model.ConversationStatusEscalated
	conv.TicketID = &ticket.ID

	payload := map[string]interface{}{
		"ticket_id":       ticket.ID,
		"ticket_number":   ticket.TicketNumber,
		"conversation_id": conv.ID,
		"priority":        ticket.Priority,
		"reason":          reason,
	}
	events.PublishSafe(ctx, s.publisher, conv.StoreID, events.TicketEscalated, payload)
	s.notifier.Notify(conv.StoreID, realtime.TypeTicketEscalated, payload)
	logger.Info("[Support] 会话已转人工",
		zap.Int64("conversation_id", conv.ID),
		zap.String("ticket", ticket.TicketNumber),
		zap.String("reason", reason),
	)
	return ticket, nil
}

// stripMarker 去掉转人工标记
func stripMarker(content string) (string, bool) {
	if !strings.Contains(content, EscalateMarker) {
		return strings.TrimSpace(content), false
	}
	return strings.TrimSpace(strings.ReplaceAll(content, EscalateMarker, "")), true
}

func truncateText(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "…"
}
