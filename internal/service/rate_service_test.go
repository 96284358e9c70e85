package service

import (
	"context"
	"testing"
	"time"

	"rentledger/internal/apperror"
	"rentledger/internal/model"
	"rentledger/pkg/pagination"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRate_Validation(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")

	t.Run("creates with valid data", func(t *testing.T) {
		rate, err := svc.rates.CreateRate(ctx, nil, CreateRateRequest{
			ApartmentID:   apartment.ID.String(),
			Name:          "high season",
			PricePerNight: "75.50",
			IVA:           "21",
		})
		require.NoError(t, err)
		assert.Equal(t, "75.50", rate.PricePerNight)
		assert.Equal(t, "21.00", rate.IVA)
	})

	t.Run("unknown apartment", func(t *testing.T) {
		_, err := svc.rates.CreateRate(ctx, nil, CreateRateRequest{
			ApartmentID:   uuid.NewString(),
			Name:          "x",
			PricePerNight: "10",
			IVA:           "21",
		})
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("unparseable price", func(t *testing.T) {
		_, err := svc.rates.CreateRate(ctx, nil, CreateRateRequest{
			ApartmentID:   apartment.ID.String(),
			Name:          "x",
			PricePerNight: "cheap",
			IVA:           "21",
		})
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := svc.rates.CreateRate(ctx, nil, CreateRateRequest{
			ApartmentID:   apartment.ID.String(),
			Name:          "x",
			PricePerNight: "-5",
			IVA:           "21",
		})
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("iva above 100", func(t *testing.T) {
		_, err := svc.rates.CreateRate(ctx, nil, CreateRateRequest{
			ApartmentID:   apartment.ID.String(),
			Name:          "x",
			PricePerNight: "10",
			IVA:           "120",
		})
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestUpdateRate_RecomputesDependentIncomes(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")
	untouched := seedRate(t, svc.db, apartment.ID, "200", "21")

	discounted, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		NumberOfPeople: 2,
		CheckIn:        ms(2024, time.June, 10, 14),
		CheckOut:       ms(2024, time.June, 13, 11),
		Discount:       "10",
	})
	require.NoError(t, err)

	plain, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		NumberOfPeople: 1,
		CheckIn:        ms(2024, time.June, 20, 14),
		CheckOut:       ms(2024, time.June, 22, 11),
	})
	require.NoError(t, err)

	other, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         untouched.ID.String(),
		NumberOfPeople: 1,
		CheckIn:        ms(2024, time.July, 1, 14),
		CheckOut:       ms(2024, time.July, 2, 11),
	})
	require.NoError(t, err)

	price, iva := "100", "10"
	_, err = svc.rates.UpdateRate(ctx, nil, rate.ID, UpdateRateRequest{PricePerNight: &price, IVA: &iva})
	require.NoError(t, err)

	// 2 people x 3 nights x 100 minus 10% is 540, plus 10% VAT is 594.
	var stored model.Income
	require.NoError(t, svc.db.First(&stored, "id = ?", discounted.ID).Error)
	assert.Equal(t, "594.00", stored.TotalInvoice.StringFixed(2))
	assert.Equal(t, "54.00", stored.TotalIVA.StringFixed(2))

	// 1 person x 2 nights x 100 is 200, plus 10% VAT is 220.
	stored = model.Income{}
	require.NoError(t, svc.db.First(&stored, "id = ?", plain.ID).Error)
	assert.Equal(t, "220.00", stored.TotalInvoice.StringFixed(2))
	assert.Equal(t, "20.00", stored.TotalIVA.StringFixed(2))

	// Incomes on other rates keep their totals.
	stored = model.Income{}
	require.NoError(t, svc.db.First(&stored, "id = ?", other.ID).Error)
	assert.Equal(t, other.TotalInvoice, stored.TotalInvoice.StringFixed(2))
}

func TestUpdateRate_NameOnlyKeepsTotals(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")

	income, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		NumberOfPeople: 2,
		CheckIn:        ms(2024, time.June, 10, 14),
		CheckOut:       ms(2024, time.June, 13, 11),
	})
	require.NoError(t, err)

	name := "renamed"
	updated, err := svc.rates.UpdateRate(ctx, nil, rate.ID, UpdateRateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, "50.00", updated.PricePerNight)

	var stored model.Income
	require.NoError(t, svc.db.First(&stored, "id = ?", income.ID).Error)
	assert.Equal(t, income.TotalInvoice, stored.TotalInvoice.StringFixed(2))
}

func TestDeleteRate_RefusedWhileReferenced(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")

	income, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		NumberOfPeople: 1,
		CheckIn:        ms(2024, time.June, 10, 14),
		CheckOut:       ms(2024, time.June, 12, 11),
	})
	require.NoError(t, err)

	err = svc.rates.DeleteRate(ctx, nil, rate.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindConflict, apperror.KindOf(err))

	// Once the income is gone the rate can be removed.
	require.NoError(t, svc.incomes.DeleteIncome(ctx, nil, uuid.MustParse(income.ID)))
	require.NoError(t, svc.rates.DeleteRate(ctx, nil, rate.ID))

	_, err = svc.rates.GetRate(ctx, rate.ID)
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListRates_FiltersByApartment(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	sol := seedApartment(t, svc.db, "Sol 3B")
	luna := seedApartment(t, svc.db, "Luna 1A")
	seedRate(t, svc.db, sol.ID, "50", "21")
	seedRate(t, svc.db, sol.ID, "80", "21")
	seedRate(t, svc.db, luna.ID, "65", "21")

	all, total, err := svc.rates.ListRates(ctx, nil, pagination.Params{Page: 1, Limit: 20, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, all, 3)

	solOnly, total, err := svc.rates.ListRates(ctx, &sol.ID, pagination.Params{Page: 1, Limit: 20, Offset: 0})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, solOnly, 2)
	for _, r := range solOnly {
		assert.Equal(t, sol.ID.String(), r.ApartmentID)
	}
}
