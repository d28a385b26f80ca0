package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laboutique_erp_202610/internal/api/dto"
	"laboutique_erp_202610/internal/model"
	"laboutique_erp_202610/internal/repository"
)

func newTicketFixture(t *testing.T) (*TicketService, *model.Store, context.Context) {
	t.Helper()
	db := setupServiceDB(t)
	store := seedStore(t, db, "boutique")
	svc := NewTicketService(repository.NewTicketRepository(db), repository.NewSupportRepository(db))
	return svc, store, context.Background()
}

func TestTicketService_CreateNumbersPerStore(t *testing.T) {
	svc, store, ctx := newTicketFixture(t)

	first, err := svc.Create(ctx, store.ID, 1, &dto.TicketRequest{Subject: "Colis abîmé", Email: "A@B.com"})
	require.NoError(t, err)
	assert.Equal(t, "TKT-00000001", first.TicketNumber)
	assert.Equal(t, model.TicketPriorityMedium, first.Priority)
	assert.Equal(t, model.TicketTypeSupport, first.Type)
	assert.Equal(t, "a@b.com", first.Email)

	second, err := svc.Create(ctx, store.ID, 1, &dto.TicketRequest{Subject: "Retour", Type: "return_request", Priority: "high"})
	require.NoError(t, err)
	assert.Equal(t, "TKT-00000002", second.TicketNumber)
	assert.Equal(t, model.TicketTypeReturnRequest, second.Type)

	other, err := svc.Create(ctx, store.ID+100, 1, &dto.TicketRequest{Subject: "Autre boutique"})
	require.NoError(t, err)
	assert.Equal(t, "TKT-00000001", other.TicketNumber)

	_, err = svc.Create(ctx, store.ID, 1, &dto.TicketRequest{Subject: "x", Priority: "SOON"})
	assert.True(t, errors.Is(err, ErrInvalidStatus))

	page, err := svc.List(ctx, store.ID, &dto.TicketListRequest{Priority: "high"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)

	page, err = svc.List(ctx, store.ID, &dto.TicketListRequest{Keyword: "TKT-00000001"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
}

func TestTicketService_Transitions(t *testing.T) {
	svc, store, ctx := newTicketFixture(t)
	ticket, err := svc.Create(ctx, store.ID, 1, &dto.TicketRequest{Subject: "Paiement"})
	require.NoError(t, err)

	steps := []struct {
		to      string
		wantErr bool
	}{
		{model.TicketStatusInProgress, false},
		{model.TicketStatusInProgress, true},
		{model.TicketStatusResolved, false},
		{model.TicketStatusOnHold, true},
		{model.TicketStatusClosed, false},
		{model.TicketStatusOpen, true},
		{model.TicketStatusReopened, false},
		{model.TicketStatusCancelled, false},
		{model.TicketStatusReopened, true},
	}
	for _, st := range steps {
		got, err := svc.UpdateStatus(ctx, store.ID, ticket.ID, 1, &dto.TicketStatusRequest{Status: st.to})
		if st.wantErr {
			assert.True(t, errors.Is(err, ErrTicketTransition), "-> %s", st.to)
			continue
		}
		require.NoError(t, err, "-> %s", st.to)
		assert.Equal(t, st.to, got.Status)
		switch st.to {
		case model.TicketStatusResolved:
			assert.NotNil(t, got.ResolvedAt)
		case model.TicketStatusClosed:
			assert.NotNil(t, got.ClosedAt)
		case model.TicketStatusReopened:
			assert.Nil(t, got.ClosedAt)
			assert.Nil(t, got.ResolvedAt)
		}
	}

	_, err = svc.UpdateStatus(ctx, store.ID, ticket.ID, 1, &dto.TicketStatusRequest{Status: "DONE"})
	assert.True(t, errors.Is(err, ErrInvalidStatus))

	_, err = svc.AddComment(ctx, store.ID, ticket.ID, model.CommentAuthorAgent, 1, &dto.TicketCommentRequest{Body: "late"})
	assert.True(t, errors.Is(err, ErrTicketTransition), "已取消工单不能评论")
}

func TestTicketService_AssignAndStats(t *testing.T) {
	svc, store, ctx := newTicketFixture(t)
	a, _ := svc.Create(ctx, store.ID, 1, &dto.TicketRequest{Subject: "A", Priority: model.TicketPriorityUrgent})
	b, _ := svc.Create(ctx, store.ID, 1, &dto.TicketRequest{Subject: "B"})

	agent := int64(7)
	got, err := svc.Assign(ctx, store.ID, a.ID, 1, &agent)
	require.NoError(t, err)
	assert.Equal(t, model.TicketStatusInProgress, got.Status)
	require.NotNil(t, got.AssigneeID)
	assert.Equal(t, agent, *got.AssigneeID)

	_, err = svc.UpdateStatus(ctx, store.ID, b.ID, 1, &dto.TicketStatusRequest{Status: model.TicketStatusResolved, Note: "remboursé"})
	require.NoError(t, err)
	withNote, err := svc.Get(ctx, store.ID, b.ID)
	require.NoError(t, err)
	require.Len(t, withNote.Comments, 1)
	assert.True(t, withNote.Comments[0].Internal)

	mine, err := svc.List(ctx, store.ID, &dto.TicketListRequest{AssigneeID: agent})
	require.NoError(t, err)
	assert.EqualValues(t, 1, mine.Total)

	stats, err := svc.Stats(ctx, store.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Total)
	assert.EqualValues(t, 1, stats.Open)
	assert.EqualValues(t, 1, stats.ByPriority[model.TicketPriorityUrgent])
	assert.EqualValues(t, 1, stats.ByStatus[model.TicketStatusResolved])
}

func TestTicketService_AutoCloseResolved(t *testing.T) {
	svc, store, ctx := newTicketFixture(t)
	resolved, _ := svc.Create(ctx, store.ID, 1, &dto.TicketRequest{Subject: "done"})
	open, _ := svc.Create(ctx, store.ID, 1, &dto.TicketRequest{Subject: "pending"})
	_, err := svc.UpdateStatus(ctx, store.ID, resolved.ID, 1, &dto.TicketStatusRequest{Status: model.TicketStatusResolved})
	require.NoError(t, err)

	n, err := svc.AutoCloseResolved(ctx, TicketAutoCloseAfter)
	require.NoError(t, err)
	assert.Equal(t, 0, n, "刚解决的工单不关闭")

	svc.now = func() time.Time { return time.Now().Add(8 * 24 * time.Hour) }
	n, err = svc.AutoCloseResolved(ctx, TicketAutoCloseAfter)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, _ := svc.Get(ctx, store.ID, resolved.ID)
	assert.Equal(t, model.TicketStatusClosed, got.Status)
	still, _ := svc.Get(ctx, store.ID, open.ID)
	assert.Equal(t, model.TicketStatusOpen, still.Status)
}
