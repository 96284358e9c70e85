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

func TestCreateIncome_DerivesNightsAndTotals(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")

	// Three nights at 50/night for 2 people, 10% discount before 21% VAT:
	// base 300, discounted 270, VAT 56.70, invoice 326.70.
	income, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		Guest:          "Alice",
		NumberOfPeople: 2,
		CheckIn:        ms(2024, time.June, 10, 14),
		CheckOut:       ms(2024, time.June, 13, 11),
		Discount:       "10",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, income.Nights)
	assert.Equal(t, "56.70", income.TotalIVA)
	assert.Equal(t, "326.70", income.TotalInvoice)
	assert.Equal(t, "10.00", income.Discount)
	assert.Equal(t, apartment.ID.String(), income.ApartmentID)
	assert.Nil(t, income.IntermediaryID)
}

func TestCreateIncome_NightsFollowMadridCalendar(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")

	// Check-out at 22:53 UTC on June 25 is already June 26 in Madrid, so
	// the stay spans six local nights, not five UTC ones.
	income, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		NumberOfPeople: 1,
		CheckIn:        1718920414000,
		CheckOut:       1719356014000,
	})
	require.NoError(t, err)
	assert.Equal(t, 6, income.Nights)
}

func TestCreateIncome_Rejections(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	other := seedApartment(t, svc.db, "Luna 1A")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")
	otherRate := seedRate(t, svc.db, other.ID, "80", "10")

	valid := func() CreateIncomeRequest {
		return CreateIncomeRequest{
			ApartmentID:    apartment.ID.String(),
			RateID:         rate.ID.String(),
			NumberOfPeople: 2,
			CheckIn:        ms(2024, time.June, 10, 14),
			CheckOut:       ms(2024, time.June, 13, 11),
		}
	}

	t.Run("check_out before check_in", func(t *testing.T) {
		req := valid()
		req.CheckIn, req.CheckOut = req.CheckOut, req.CheckIn
		_, err := svc.incomes.CreateIncome(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("check_out equal to check_in", func(t *testing.T) {
		req := valid()
		req.CheckOut = req.CheckIn
		_, err := svc.incomes.CreateIncome(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("rate belongs to another apartment", func(t *testing.T) {
		req := valid()
		req.RateID = otherRate.ID.String()
		_, err := svc.incomes.CreateIncome(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})

	t.Run("unknown apartment", func(t *testing.T) {
		req := valid()
		req.ApartmentID = uuid.NewString()
		_, err := svc.incomes.CreateIncome(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("unknown rate", func(t *testing.T) {
		req := valid()
		req.RateID = uuid.NewString()
		_, err := svc.incomes.CreateIncome(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("unknown intermediary", func(t *testing.T) {
		req := valid()
		req.IntermediaryID = uuid.NewString()
		_, err := svc.incomes.CreateIncome(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
	})

	t.Run("discount above 100", func(t *testing.T) {
		req := valid()
		req.Discount = "150"
		_, err := svc.incomes.CreateIncome(ctx, nil, req)
		require.Error(t, err)
		assert.Equal(t, apperror.KindValidation, apperror.KindOf(err))
	})
}

func TestCreateIncome_WritesAuditEntry(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")

	income, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		Guest:          "Alice",
		NumberOfPeople: 2,
		CheckIn:        ms(2024, time.June, 10, 14),
		CheckOut:       ms(2024, time.June, 13, 11),
	})
	require.NoError(t, err)

	var logs []model.AuditLog
	require.NoError(t, svc.db.Where("action = ?", model.ActionCreateIncome).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, income.ID, logs[0].EntityID)
}

func TestUpdateIncome_RederivesFromNewRate(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	cheap := seedRate(t, svc.db, apartment.ID, "50", "21")
	premium := seedRate(t, svc.db, apartment.ID, "100", "10")

	income, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         cheap.ID.String(),
		NumberOfPeople: 2,
		CheckIn:        ms(2024, time.June, 10, 14),
		CheckOut:       ms(2024, time.June, 13, 11),
		Discount:       "10",
	})
	require.NoError(t, err)
	incomeID := uuid.MustParse(income.ID)

	// Switching to the premium card re-derives everything: 2 people, 3
	// nights at 100 is 600, minus 10% is 540, plus 10% VAT is 594.
	rateID := premium.ID.String()
	updated, err := svc.incomes.UpdateIncome(ctx, nil, incomeID, UpdateIncomeRequest{RateID: &rateID})
	require.NoError(t, err)

	assert.Equal(t, "54.00", updated.TotalIVA)
	assert.Equal(t, "594.00", updated.TotalInvoice)
	assert.Equal(t, 3, updated.Nights)

	// The stored row matches the response.
	var stored model.Income
	require.NoError(t, svc.db.First(&stored, "id = ?", incomeID).Error)
	assert.Equal(t, "594.00", stored.TotalInvoice.StringFixed(2))
}

func TestUpdateIncome_ClearsIntermediary(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")
	booking := seedIntermediary(t, svc.db, "RoomPortal")

	income, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
		ApartmentID:    apartment.ID.String(),
		RateID:         rate.ID.String(),
		IntermediaryID: booking.ID.String(),
		NumberOfPeople: 1,
		CheckIn:        ms(2024, time.June, 10, 14),
		CheckOut:       ms(2024, time.June, 12, 11),
	})
	require.NoError(t, err)
	require.NotNil(t, income.IntermediaryID)

	empty := ""
	updated, err := svc.incomes.UpdateIncome(ctx, nil, uuid.MustParse(income.ID), UpdateIncomeRequest{IntermediaryID: &empty})
	require.NoError(t, err)
	assert.Nil(t, updated.IntermediaryID)
}

func TestDeleteIncome_RemovesRow(t *testing.T) {
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

	require.NoError(t, svc.incomes.DeleteIncome(ctx, nil, uuid.MustParse(income.ID)))

	_, err = svc.incomes.GetIncome(ctx, uuid.MustParse(income.ID))
	require.Error(t, err)
	assert.Equal(t, apperror.KindNotFound, apperror.KindOf(err))
}

func TestListIncomes_Paginates(t *testing.T) {
	svc := newTestServices(t)
	ctx := context.Background()

	apartment := seedApartment(t, svc.db, "Sol 3B")
	rate := seedRate(t, svc.db, apartment.ID, "50", "21")

	for day := 10; day < 13; day++ {
		_, err := svc.incomes.CreateIncome(ctx, nil, CreateIncomeRequest{
			ApartmentID:    apartment.ID.String(),
			RateID:         rate.ID.String(),
			NumberOfPeople: 1,
			CheckIn:        ms(2024, time.June, day, 14),
			CheckOut:       ms(2024, time.June, day+1, 11),
		})
		require.NoError(t, err)
	}

	page, total, err := svc.incomes.ListIncomes(ctx, pagination.Params{Page: 1, Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)
}
