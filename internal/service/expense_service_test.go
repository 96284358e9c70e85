package service

import (
	"context"
	"testing"
	"time"

	"rentledger/internal/apperror"
	"rentledger/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateExpense_DerivesTotals(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	// 100 at 21% VAT: 21.00 VAT, 121.00 invoiced.
	expense, err := svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
		Concept: "plumber",
		Expense: "100",
		IVA:     "21",
		Date:    ms(2024, time.March, 5, 10),
	})
	require.NoError(t, err)

	assert.Equal(t, "21.00", expense.TotalIVA)
	assert.Equal(t, "121.00", expense.TotalInvoice)
	assert.Equal(t, ms(2024, time.March, 5, 10), expense.Date)
	assert.Nil(t, expense.ApartmentID, "general cost carries no apartment")
}

func TestCreateExpense_ApartmentLink(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")

	t.Run("links to an existing apartment", func(t *testing.T) {
		expense, err := svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
			ApartmentID: apartment.ID.String(),
			Concept:     "electricity",
			Expense:     "80",
			IVA:         "21",
			Date:        ms(2024, time.March, 5, 10),
		})
		require.NoError(t, err)
		require.NotNil(t, expense.ApartmentID)
		assert.Equal(t, apartment.ID.String(), *expense.ApartmentID)
	})

	t.Run("unknown apartment is refused", func(t *testing.T) {
		_, err := svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
			ApartmentID: uuid.NewString(),
			Concept:     "electricity",
			Expense:     "80",
			IVA:         "21",
			Date:        ms(2024, time.March, 5, 10),
		})
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})
}

func TestCreateExpense_Validation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	base := func() CreateExpenseRequest {
		return CreateExpenseRequest{
			Concept: "repairs",
			Expense: "40",
			IVA:     "21",
			Date:    ms(2024, time.March, 5, 10),
		}
	}

	t.Run("unparseable amount", func(t *testing.T) {
		req := base()
		req.Expense = "lots"
		_, err := svc.expenses.CreateExpense(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("negative amount", func(t *testing.T) {
		req := base()
		req.Expense = "-40"
		_, err := svc.expenses.CreateExpense(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("iva above 100", func(t *testing.T) {
		req := base()
		req.IVA = "101"
		_, err := svc.expenses.CreateExpense(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestUpdateExpense_RederivesTotals(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")

	expense, err := svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
		ApartmentID: apartment.ID.String(),
		Concept:     "repairs",
		Expense:     "100",
		IVA:         "21",
		Date:        ms(2024, time.March, 5, 10),
	})
	require.NoError(t, err)
	expenseID := uuid.MustParse(expense.ID)

	amount := "200"
	updated, err := svc.expenses.UpdateExpense(ctx, nil, expenseID, UpdateExpenseRequest{Expense: &amount})
	require.NoError(t, err)
	assert.Equal(t, "42.00", updated.TotalIVA)
	assert.Equal(t, "242.00", updated.TotalInvoice)

	// Clearing the apartment turns it into a general cost.
	empty := ""
	updated, err = svc.expenses.UpdateExpense(ctx, nil, expenseID, UpdateExpenseRequest{ApartmentID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.ApartmentID)

	var stored model.Expense
	require.NoError(t, svc.db.First(&stored, "id = ?", expenseID).Error)
	assert.Nil(t, stored.ApartmentID)
	assert.Equal(t, "242.00", stored.TotalInvoice.StringFixed(2))
}

func TestDeleteExpense_WritesAuditTrail(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	expense, err := svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
		Concept: "repairs",
		Expense: "40",
		IVA:     "21",
		Date:    ms(2024, time.March, 5, 10),
	})
	require.NoError(t, err)
	expenseID := uuid.MustParse(expense.ID)

	require.NoError(t, svc.expenses.DeleteExpense(ctx, nil, expenseID))

	_, err = svc.expenses.GetExpense(ctx, expenseID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	var actions []string
	require.NoError(t, svc.db.Model(&model.AuditLog{}).
		Where("entity_id = ?", expense.ID).Order("created_at asc").
		Pluck("action", &actions).Error)
	assert.Equal(t, []string{model.ActionCreateExpense, model.ActionDeleteExpense}, actions)
}
