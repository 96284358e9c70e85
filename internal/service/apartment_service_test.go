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

func TestCreateApartment_RejectsDuplicateName(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	_, err := svc.apartments.CreateApartment(ctx, CreateApartmentRequest{Name: "Sol 3B"})
	require.NoError(t, err)

	_, err = svc.apartments.CreateApartment(ctx, CreateApartmentRequest{Name: "Sol 3B"})
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
}

func TestUpdateApartment_PartialFields(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	created, err := svc.apartments.CreateApartment(ctx, CreateApartmentRequest{
		Name:    "Sol 3B",
		Address: "Calle del Sol 3",
		Owner:   "Marta",
	})
	require.NoError(t, err)
	id := uuid.MustParse(created.ID)

	_, err = svc.apartments.CreateApartment(ctx, CreateApartmentRequest{Name: "Luna 1A"})
	require.NoError(t, err)

	t.Run("updates only the provided fields", func(t *testing.T) {
		address := "Calle del Sol 3, 2nd floor"
		updated, err := svc.apartments.UpdateApartment(ctx, id, UpdateApartmentRequest{Address: &address})
		require.NoError(t, err)
		assert.Equal(t, "Sol 3B", updated.Name)
		assert.Equal(t, address, updated.Address)
		assert.Equal(t, "Marta", updated.Owner)
	})

	t.Run("refuses renaming onto an existing apartment", func(t *testing.T) {
		name := "Luna 1A"
		_, err := svc.apartments.UpdateApartment(ctx, id, UpdateApartmentRequest{Name: &name})
		require.Error(t, err)
		assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))
	})

	t.Run("refuses an empty name", func(t *testing.T) {
		name := ""
		_, err := svc.apartments.UpdateApartment(ctx, id, UpdateApartmentRequest{Name: &name})
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestGetApartment_Unknown(t *testing.T) {
	svc := newTestServices(t)

	_, err := svc.apartments.GetApartment(context.Background(), uuid.New())
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestDeleteApartment_CascadesLedger(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")

	_, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		Guest:          "Alice",
		NumberOfPeople: 2,
		CheckIn:        ms(2024, time.June, 10, 14),
		CheckOut:       ms(2024, time.June, 13, 11),
	})
	require.NoError(t, err)

	_, err = svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
		ApartmentID: apartment.ID.String(),
		Concept:     "cleaning",
		Expense:     "60",
		IVA:         "21",
		Date:        ms(2024, time.June, 14, 9),
	})
	require.NoError(t, err)

	// A general cost with no apartment link must survive the cascade.
	general, err := svc.expenses.CreateExpense(ctx, nil, CreateExpenseRequest{
		Concept: "accountant",
		Expense: "90",
		IVA:     "21",
		Date:    ms(2024, time.June, 20, 9),
	})
	require.NoError(t, err)

	require.NoError(t, svc.apartments.DeleteApartment(ctx, nil, apartment.ID))

	_, err = svc.apartments.GetApartment(ctx, apartment.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))

	var rates, incomes, linked int64
	require.NoError(t, svc.db.Model(&model.Rate{}).Where("apartment_id = ?", apartment.ID).Count(&rates).Error)
	require.NoError(t, svc.db.Model(&model.Income{}).Where("apartment_id = ?", apartment.ID).Count(&incomes).Error)
	require.NoError(t, svc.db.Model(&model.Expense{}).Where("apartment_id = ?", apartment.ID).Count(&linked).Error)
	assert.Zero(t, rates)
	assert.Zero(t, incomes)
	assert.Zero(t, linked)

	survivor, err := svc.expenses.GetExpense(ctx, uuid.MustParse(general.ID))
	require.NoError(t, err)
	assert.Equal(t, "accountant", survivor.Concept)

	var entries []model.AuditLog
	require.NoError(t, svc.db.Where("action = ?", model.ActionDeleteApartment).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, apartment.ID.String(), entries[0].EntityID)
	assert.Equal(t, "Sol 3B", entries[0].EntityName)
}
