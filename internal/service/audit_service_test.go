package service

import (
	"context"
	"testing"
	"time"

	"rentledger/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAuditLogs_ResolvesActingUser(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	user := registerTestUser(t, svc)
	userID := uuid.MustParse(user.ID)

	attributed, err := svc.expenses.CreateExpense(ctx, &userID, CreateExpenseRequest{
		Concept: "repairs",
		Expense: "40",
		IVA:     "21",
		Date:    ms(2024, time.March, 5, 10),
	})
	require.NoError(t, err)

	anonymous, err := svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
		Concept: "supplies",
		Expense: "20",
		IVA:     "21",
		Date:    ms(2024, time.March, 6, 10),
	})
	require.NoError(t, err)

	logs, total, err := svc.audit.GetAuditLogs(ctx, pagination.Params{Page: 1, Limit: 10, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, logs, 2)

	byEntity := make(map[string]AuditLogResponse, len(logs))
	for _, l := range logs {
		byEntity[l.EntityID] = l
	}

	require.Contains(t, byEntity, attributed.ID)
	assert.Equal(t, "marta", byEntity[attributed.ID].Username)
	assert.Equal(t, user.ID, byEntity[attributed.ID].UserID)

	require.Contains(t, byEntity, anonymous.ID)
	assert.Equal(t, "system", byEntity[anonymous.ID].Username, "entries without an actor fall back to system")
	assert.Empty(t, byEntity[anonymous.ID].UserID)
}

func TestGetAuditLogs_Paginates(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
			Concept: "repairs",
			Expense: "40",
			IVA:     "21",
			Date:    ms(2024, time.March, 5+i, 10),
		})
		require.NoError(t, err)
	}

	logs, total, err := svc.audit.GetAuditLogs(ctx, pagination.Params{Page: 1, Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, logs, 2)
}
