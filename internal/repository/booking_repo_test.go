package repository

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"soggiorno/internal/entities"
)

func testBooking(id string, checkin, checkout time.Time, status string) entities.Booking {
	return entities.Booking{
		ID:          id,
		ProductID:   "sicily-stay-car-01",
		Stay:        stay(checkin, checkout),
		Guests:      2,
		Customer:    entities.Customer{Name: "Anna", Email: "anna@example.com"},
		AgreedPrice: decimal.NewFromInt(560),
		Currency:    "EUR",
		Status:      status,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func TestSaveAndGetByID(t *testing.T) {
	repo := NewBookingRepository()
	b := testBooking("b1", date(2025, 9, 20), date(2025, 9, 24), entities.StatusReserved)
	repo.Save(b)

	got, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, b.Customer, got.Customer)

	_, err = repo.GetByID("missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestListFilters(t *testing.T) {
	repo := NewBookingRepository()
	repo.Save(testBooking("b1", date(2025, 9, 20), date(2025, 9, 24), entities.StatusReserved))
	repo.Save(testBooking("b2", date(2025, 10, 1), date(2025, 10, 3), entities.StatusCanceled))

	all := repo.List(nil, "")
	assert.Len(t, all, 2)

	sep21 := date(2025, 9, 21)
	covering := repo.List(&sep21, "")
	require.Len(t, covering, 1)
	assert.Equal(t, "b1", covering[0].ID)

	canceled := repo.List(nil, entities.StatusCanceled)
	require.Len(t, canceled, 1)
	assert.Equal(t, "b2", canceled[0].ID)
}

func TestUpdateStatus(t *testing.T) {
	repo := NewBookingRepository()
	repo.Save(testBooking("b1", date(2025, 9, 20), date(2025, 9, 24), entities.StatusReserved))

	require.NoError(t, repo.UpdateStatus("b1", entities.StatusCanceled))
	got, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCanceled, got.Status)

	assert.ErrorIs(t, repo.UpdateStatus("missing", entities.StatusCanceled), ErrBookingNotFound)
}

func TestUpdateStatusIf(t *testing.T) {
	repo := NewBookingRepository()
	repo.Save(testBooking("b1", date(2025, 9, 20), date(2025, 9, 24), entities.StatusReserved))

	won, err := repo.UpdateStatusIf("b1", entities.StatusReserved, entities.StatusCanceled)
	require.NoError(t, err)
	assert.True(t, won)

	// the transition only wins once
	won, err = repo.UpdateStatusIf("b1", entities.StatusReserved, entities.StatusCanceled)
	require.NoError(t, err)
	assert.False(t, won)

	got, err := repo.GetByID("b1")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusCanceled, got.Status)

	_, err = repo.UpdateStatusIf("missing", entities.StatusReserved, entities.StatusCanceled)
	assert.ErrorIs(t, err, ErrBookingNotFound)
}

func TestReservedIDsPastCheckout(t *testing.T) {
	repo := NewBookingRepository()
	repo.Save(testBooking("past", date(2025, 9, 1), date(2025, 9, 3), entities.StatusReserved))
	repo.Save(testBooking("future", date(2025, 9, 20), date(2025, 9, 24), entities.StatusReserved))
	repo.Save(testBooking("done", date(2025, 9, 1), date(2025, 9, 2), entities.StatusFinished))

	ids := repo.ReservedIDsPastCheckout(date(2025, 9, 10))
	require.Len(t, ids, 1)
	assert.Equal(t, "past", ids[0])

	repo.UpdateStatuses(ids, entities.StatusFinished)
	got, err := repo.GetByID("past")
	require.NoError(t, err)
	assert.Equal(t, entities.StatusFinished, got.Status)
}
