package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
	"laboutique_erp_202610/pkg/events"
	"laboutique_erp_202610/pkg/retry"
)

// scriptedAssistant 按顺序返回预设回复，nil 回复表示返回 err
type scriptedAssistant struct {
	mu      sync.Mutex
	replies []string
	err     error
	calls   int
	prompts []string
	history [][]ChatMessage
}

func (a *scriptedAssistant) Provider() string { return "fake" }
func (a *scriptedAssistant) Model() string    { return "fake-1" }

func (a *scriptedAssistant) Reply(ctx context.Context, systemPrompt string, history []ChatMessage) (*AssistantReply, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.prompts = append(a.prompts, systemPrompt)
	a.history = append(a.history, history)
	if a.err != nil {
		return nil, a.err
	}
	content := "ok"
	if len(a.replies) > 0 {
		content = a.replies[0]
		a.replies = a.replies[1:]
	}
	return &AssistantReply{Content: content, InputTokens: 12, OutputTokens: 7}, nil
}

type supportFixture struct {
	db        *gorm.DB
	store     *model.Store
	support   *SupportService
	tickets   *TicketService
	assistant *scriptedAssistant
	events    *events.Recorder
	notifier  *notifyRecorder
}

func newSupportFixture(t *testing.T) (*supportFixture, context.Context) {
	t.Helper()
	db := setupServiceDB(t)
	store := seedStore(t, db, "boutique")

	supportRepo := repository.NewSupportRepository(db)
	tickets := NewTicketService(repository.NewTicketRepository(db), supportRepo)
	assistant := &scriptedAssistant{}
	rec := &events.Recorder{}
	notifier := &notifyRecorder{}

	svc := NewSupportService(supportRepo, repository.NewStoreRepository(db), repository.NewAICallLogRepository(db),
		tickets, assistant, rec, notifier)
	svc.SetRetrier(retry.NewRetrier(retry.Config{
		MaxRetries:     2,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
	}))

	return &supportFixture{db: db, store: store, support: svc, tickets: tickets, assistant: assistant, events: rec, notifier: notifier},
		context.Background()
}

func TestWantsHuman(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"Can I talk to a HUMAN please?", true},
		{"Je voudrais parler à quelqu'un", true},
		{"je veux un conseiller", true},
		{"我要转人工", true},
		{"Where is my order?", false},
		{"Où est ma commande ?", false},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, WantsHuman(tt.text))
		})
	}
}

func TestEscalationPriority(t *testing.T) {
	assert.Equal(t, model.TicketPriorityHigh, EscalationPriority("hello", "I want a REFUND"))
	assert.Equal(t, model.TicketPriorityHigh, EscalationPriority("c'est une arnaque"))
	assert.Equal(t, model.TicketPriorityHigh, EscalationPriority("我要退款"))
	assert.Equal(t, model.TicketPriorityMedium, EscalationPriority("where is my parcel"))
}

func TestSupport_AnswersWithoutEscalation(t *testing.T) {
	f, ctx := newSupportFixture(t)
	f.assistant.replies = []string{"Your order ships in 2 days.", "You're welcome!"}

	first, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{Message: "When will my order ship?", Email: "Awa@Example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.SessionToken)
	assert.Equal(t, "Your order ships in 2 days.", first.Reply)
	assert.False(t, first.Escalated)
	assert.Contains(t, f.assistant.prompts[0], f.store.Name)

	second, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{SessionToken: first.SessionToken, Message: "Thanks"})
	require.NoError(t, err)
	assert.Equal(t, first.ConversationID, second.ConversationID)
	require.Len(t, f.assistant.history[1], 3, "历史包含之前的问答")

	hist, err := f.support.History(ctx, f.store.ID, first.SessionToken)
	require.NoError(t, err)
	assert.Len(t, hist.Messages, 4)
	assert.Equal(t, model.ConversationStatusOpen, hist.Status)

	var logs []model.AICallLog
	require.NoError(t, f.db.Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, model.AICallStatusSuccess, logs[0].Status)
	assert.Equal(t, 12, logs[0].InputTokens)

	_, err = f.support.History(ctx, f.store.ID, "missing")
	assert.True(t, errors.Is(err, ErrConversationNotFound))
}

func TestSupport_HistoryLimit(t *testing.T) {
	f, ctx := newSupportFixture(t)
	f.support.SetHistoryLimit(4)

	resp, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{Message: "one"})
	require.NoError(t, err)
	for _, m := range []string{"two", "three", "four"} {
		_, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{SessionToken: resp.SessionToken, Message: m})
		require.NoError(t, err)
	}
	last := f.assistant.history[len(f.assistant.history)-1]
	require.Len(t, last, 4)
	assert.Equal(t, "four", last[3].Content)
}

func TestSupport_EscalationTriggers(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		reply    string
		err      error
		reason   string
		priority string
		calls    int
	}{
		{"customer asks for human", "I want to speak to a human", "Sure.", nil, "customer_request", model.TicketPriorityMedium, 1},
		{"assistant marker", "I was charged twice, I need a refund", "I'll get a colleague. [ESCALATE]", nil, "assistant_marker", model.TicketPriorityHigh, 1},
		{"assistant failure", "hello", "", &retry.StatusError{StatusCode: 503}, "assistant_failure", model.TicketPriorityMedium, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, ctx := newSupportFixture(t)
			f.assistant.replies = []string{tt.reply}
			f.assistant.err = tt.err

			resp, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{Message: tt.message, Email: "client@example.com", Name: "Client"})
			require.NoError(t, err)
			assert.True(t, resp.Escalated)
			assert.Equal(t, model.ConversationStatusEscalated, resp.Status)
			assert.Equal(t, "TKT-00000001", resp.TicketNumber)
			assert.NotContains(t, resp.Reply, EscalateMarker)
			assert.Equal(t, tt.calls, f.assistant.calls)
			if tt.err != nil {
				assert.Equal(t, AssistantFailureReply, resp.Reply)
			}

			var ticket model.Ticket
			require.NoError(t, f.db.First(&ticket).Error)
			assert.Equal(t, tt.priority, ticket.Priority)
			assert.Equal(t, model.TicketTypeSupport, ticket.Type)
			assert.Equal(t, model.TicketStatusEscalated, ticket.Status)
			assert.Equal(t, "client@example.com", ticket.Email)
			require.NotNil(t, ticket.ConversationID)
			assert.Equal(t, resp.ConversationID, *ticket.ConversationID)
			assert.Contains(t, ticket.Description, tt.message)

			assert.Contains(t, f.events.Types(), events.TicketEscalated)
			assert.Contains(t, f.notifier.types, "ticket_escalated")

			var logs []model.AICallLog
			require.NoError(t, f.db.Find(&logs).Error)
			require.Len(t, logs, 1)
			if tt.err != nil {
				assert.Equal(t, model.AICallStatusFailed, logs[0].Status)
				assert.Equal(t, 3, logs[0].Attempts)
			}
		})
	}
}

func TestSupport_EscalatedMessagesGoToTicket(t *testing.T) {
	f, ctx := newSupportFixture(t)

	resp, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{Message: "human please"})
	require.NoError(t, err)
	require.True(t, resp.Escalated)
	calls := f.assistant.calls

	next, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{SessionToken: resp.SessionToken, Message: "My order is ORD-1"})
	require.NoError(t, err)
	assert.Equal(t, EscalatedAck, next.Reply)
	assert.Equal(t, calls, f.assistant.calls, "转人工后不再调用模型")

	var ticket model.Ticket
	require.NoError(t, f.db.First(&ticket).Error)
	comments, err := repository.NewTicketRepository(f.db).ListComments(ctx, ticket.ID, true)
	require.NoError(t, err)
	require.Len(t, comments, 1)
	assert.Equal(t, model.CommentAuthorCustomer, comments[0].AuthorType)
	assert.Equal(t, "My order is ORD-1", comments[0].Body)

	// 客服回复出现在会话中，内部备注不会
	_, err = f.tickets.AddComment(ctx, f.store.ID, ticket.ID, model.CommentAuthorAgent, 9, &dto.TicketCommentRequest{Body: "We're on it"})
	require.NoError(t, err)
	_, err = f.tickets.AddComment(ctx, f.store.ID, ticket.ID, model.CommentAuthorAgent, 9, &dto.TicketCommentRequest{Body: "check stripe", Internal: true})
	require.NoError(t, err)

	hist, err := f.support.History(ctx, f.store.ID, resp.SessionToken)
	require.NoError(t, err)
	last := hist.Messages[len(hist.Messages)-1]
	assert.Equal(t, model.MessageRoleAgent, last.Role)
	assert.Equal(t, "We're on it", last.Content)
	for _, m := range hist.Messages {
		assert.NotEqual(t, "check stripe", m.Content)
	}

	// 工单关闭后顾客再来消息开启新会话
	_, err = f.tickets.UpdateStatus(ctx, f.store.ID, ticket.ID, 9, &dto.TicketStatusRequest{Status: model.TicketStatusClosed})
	require.NoError(t, err)
	fresh, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{SessionToken: resp.SessionToken, Message: "Hello again"})
	require.NoError(t, err)
	assert.NotEqual(t, resp.SessionToken, fresh.SessionToken)
	assert.False(t, fresh.Escalated)
}

func TestSupport_StaticAssistantOffersHuman(t *testing.T) {
	f, ctx := newSupportFixture(t)
	f.support.assistant = StaticAssistant{}

	resp, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{Message: "bonjour"})
	require.NoError(t, err)
	assert.Equal(t, StaticAssistantReply, resp.Reply)
	assert.False(t, resp.Escalated)
	assert.True(t, strings.Contains(strings.ToLower(resp.Reply), "human"))

	_, err = f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{Message: "   "})
	assert.True(t, errors.Is(err, ErrEmptyMessage))
}

func TestSupport_Usage(t *testing.T) {
	f, ctx := newSupportFixture(t)
	_, err := f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{Message: "hi"})
	require.NoError(t, err)
	_, err = f.support.SendMessage(ctx, f.store.ID, &dto.ChatRequest{Message: "hi again"})
	require.NoError(t, err)

	usage, err := f.support.Usage(ctx, f.store.ID, &dto.AIUsageRequest{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, usage.Summary.TotalCalls)
	assert.EqualValues(t, 24, usage.Summary.TotalInputTokens)
	assert.EqualValues(t, 2, usage.Summary.SuccessCount)

	_, err = f.support.Usage(ctx, f.store.ID, &dto.AIUsageRequest{StartDate: "yesterday"})
	assert.Error(t, err)
}
