package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/labbiomed/reservation-app/models"
	"github.com/labbiomed/reservation-app/utils"
)

func setupTestService(t *testing.T) *ReservationService {
	t.Helper()
	utils.InitLogger()

	// DB in-memory terpisah per test
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Reservation{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewReservationService(db, OperatingWindow{
		Open:        "08:00",
		Close:       "17:00",
		SlotMinutes: 60,
	})
}

func makeInput(date, start, end string) CreateReservationInput {
	return CreateReservationInput{
		UserID:    1,
		UserEmail: "budi@std.itb.ac.id",
		UserName:  "Budi Santoso",
		UserNim:   "18223001",
		Date:      date,
		StartTime: start,
		EndTime:   end,
		PartySize: 3,
		Purpose:   "praktikum modul 2",
	}
}

func TestHasTimeConflict(t *testing.T) {
	// Interval setengah-terbuka: batas yang bersentuhan tidak bentrok
	assert.False(t, HasTimeConflict("10:00", "12:00", "12:00", "13:00"))
	assert.False(t, HasTimeConflict("12:00", "13:00", "10:00", "12:00"))

	assert.True(t, HasTimeConflict("10:00", "12:00", "11:00", "13:00"))
	assert.True(t, HasTimeConflict("11:00", "13:00", "10:00", "12:00"))
	assert.True(t, HasTimeConflict("10:00", "12:00", "10:30", "11:30")) // contained
	assert.True(t, HasTimeConflict("10:30", "11:30", "10:00", "12:00"))
	assert.True(t, HasTimeConflict("10:00", "12:00", "10:00", "12:00")) // identical

	assert.False(t, HasTimeConflict("08:00", "09:00", "09:30", "10:00"))
}

func TestFindConflictSkipsInactiveStatuses(t *testing.T) {
	existing := []models.Reservation{
		{StartTime: "10:00", EndTime: "12:00", Status: models.StatusRejected},
		{StartTime: "10:00", EndTime: "12:00", Status: models.StatusCancelled},
	}
	assert.Nil(t, FindConflict("10:00", "12:00", existing))

	existing = append(existing, models.Reservation{
		ID: "approved-1", StartTime: "11:00", EndTime: "13:00", Status: models.StatusApproved,
	})
	hit := FindConflict("10:00", "12:00", existing)
	assert.NotNil(t, hit)
	assert.Equal(t, "approved-1", hit.ID)
}

func TestFindConflictFirstMatchWins(t *testing.T) {
	existing := []models.Reservation{
		{ID: "first", StartTime: "09:00", EndTime: "11:00", Status: models.StatusPending},
		{ID: "second", StartTime: "10:00", EndTime: "12:00", Status: models.StatusPending},
	}
	hit := FindConflict("10:30", "10:45", existing)
	assert.NotNil(t, hit)
	assert.Equal(t, "first", hit.ID)
}

func TestComputeSlots(t *testing.T) {
	window := OperatingWindow{Open: "08:00", Close: "17:00", SlotMinutes: 60}

	reservations := []models.Reservation{
		{StartTime: "10:00", EndTime: "12:00", Status: models.StatusPending},
		{StartTime: "12:00", EndTime: "13:00", Status: models.StatusApproved},
	}

	slots := ComputeSlots(window, reservations)
	assert.Len(t, slots, 9)

	expectBooked := map[string]bool{
		"10:00": true,
		"11:00": true,
		"12:00": true,
	}
	for _, s := range slots {
		if expectBooked[s.StartTime] {
			assert.False(t, s.Available, "slot %s should be booked", s.StartTime)
		} else {
			assert.True(t, s.Available, "slot %s should be free", s.StartTime)
		}
	}

	// Urut naik dan rapi per jam
	assert.Equal(t, "08:00", slots[0].StartTime)
	assert.Equal(t, "09:00", slots[0].EndTime)
	assert.Equal(t, "16:00", slots[8].StartTime)
	assert.Equal(t, "17:00", slots[8].EndTime)
}

func TestComputeSlotsIdempotent(t *testing.T) {
	window := OperatingWindow{Open: "08:00", Close: "17:00", SlotMinutes: 60}
	reservations := []models.Reservation{
		{StartTime: "09:00", EndTime: "10:30", Status: models.StatusApproved},
	}

	first := ComputeSlots(window, reservations)
	second := ComputeSlots(window, reservations)
	assert.Equal(t, first, second)
}

func TestComputeSlotsCustomWindow(t *testing.T) {
	window := OperatingWindow{Open: "13:00", Close: "15:00", SlotMinutes: 30}
	slots := ComputeSlots(window, nil)

	assert.Len(t, slots, 4)
	assert.Equal(t, "13:00", slots[0].StartTime)
	assert.Equal(t, "13:30", slots[0].EndTime)
	assert.Equal(t, "14:30", slots[3].StartTime)
	for _, s := range slots {
		assert.True(t, s.Available)
	}
}

func TestCreateRejectsOverlap(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, makeInput("2025-12-12", "10:00", "12:00"))
	assert.NoError(t, err)
	assert.Equal(t, models.StatusPending, first.Status)
	assert.NotEmpty(t, first.ID)

	_, err = svc.Create(ctx, makeInput("2025-12-12", "11:00", "13:00"))
	assert.Error(t, err)

	var conflict *ConflictError
	assert.True(t, errors.As(err, &conflict))
	assert.Equal(t, first.ID, conflict.With.ID)
	assert.Contains(t, err.Error(), "10:00-12:00")
	assert.Contains(t, err.Error(), "2025-12-12")
}

func TestCreateAllowsTouchingIntervals(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, makeInput("2025-12-12", "10:00", "12:00"))
	assert.NoError(t, err)

	_, err = svc.Create(ctx, makeInput("2025-12-12", "12:00", "13:00"))
	assert.NoError(t, err)
}

func TestCreateAllowsOverlapOnDifferentDates(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, makeInput("2025-12-12", "10:00", "12:00"))
	assert.NoError(t, err)

	_, err = svc.Create(ctx, makeInput("2025-12-13", "10:00", "12:00"))
	assert.NoError(t, err)
}

func TestCreateValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, makeInput("12-12-2025", "10:00", "12:00"))
	assert.ErrorIs(t, err, ErrInvalidDate)

	_, err = svc.Create(ctx, makeInput("2025-12-12", "9:00", "12:00")) // tanpa zero-pad
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = svc.Create(ctx, makeInput("2025-12-12", "10:00", "25:00"))
	assert.ErrorIs(t, err, ErrInvalidTime)

	_, err = svc.Create(ctx, makeInput("2025-12-12", "12:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidRange)

	_, err = svc.Create(ctx, makeInput("2025-12-12", "10:00", "10:00"))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestUpdateStatusWorkflow(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, makeInput("2025-12-12", "10:00", "12:00"))
	assert.NoError(t, err)

	// Bukan asisten -> forbidden
	_, err = svc.UpdateStatus(ctx, res.ID, models.StatusApproved, "", 2, models.RolePraktikan)
	assert.ErrorIs(t, err, ErrForbidden)

	// Reject tanpa alasan -> invalid input
	_, err = svc.UpdateStatus(ctx, res.ID, models.StatusRejected, "", 2, models.RoleAsisten)
	assert.ErrorIs(t, err, ErrReasonRequired)

	// Status di luar approve/reject -> invalid input
	_, err = svc.UpdateStatus(ctx, res.ID, models.StatusCancelled, "", 2, models.RoleAsisten)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Approve oleh asisten
	updated, err := svc.UpdateStatus(ctx, res.ID, models.StatusApproved, "", 2, models.RoleAsisten)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusApproved, updated.Status)
	assert.NotNil(t, updated.ApprovedBy)
	assert.Equal(t, uint(2), *updated.ApprovedBy)
	assert.NotNil(t, updated.ApprovedAt)

	// Status sudah terminal -> tidak bisa berubah lagi
	_, err = svc.UpdateStatus(ctx, res.ID, models.StatusRejected, "lab dipakai", 2, models.RoleAsisten)
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Cancel(ctx, res.ID, res.UserID)
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc := setupTestService(t)

	_, err := svc.UpdateStatus(context.Background(), "does-not-exist", models.StatusApproved, "", 2, models.RoleAsisten)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRejectFreesSlot(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, makeInput("2025-12-12", "10:00", "12:00"))
	assert.NoError(t, err)

	slots, err := svc.AvailableSlots(ctx, "2025-12-12")
	assert.NoError(t, err)
	assert.False(t, slots[2].Available) // 10:00-11:00
	assert.False(t, slots[3].Available) // 11:00-12:00

	_, err = svc.UpdateStatus(ctx, res.ID, models.StatusRejected, "lab sedang maintenance", 2, models.RoleAsisten)
	assert.NoError(t, err)

	// Slot kembali kosong setelah reject
	slots, err = svc.AvailableSlots(ctx, "2025-12-12")
	assert.NoError(t, err)
	for _, s := range slots {
		assert.True(t, s.Available)
	}

	// Jendela yang sama bisa dibooking ulang
	_, err = svc.Create(ctx, makeInput("2025-12-12", "10:00", "12:00"))
	assert.NoError(t, err)
}

func TestCancelOnlyByOwner(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	res, err := svc.Create(ctx, makeInput("2025-12-12", "10:00", "12:00"))
	assert.NoError(t, err)

	_, err = svc.Cancel(ctx, res.ID, 99)
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := svc.Cancel(ctx, res.ID, res.UserID)
	assert.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	// Cancel membebaskan slotnya
	_, err = svc.Create(ctx, makeInput("2025-12-12", "10:00", "12:00"))
	assert.NoError(t, err)
}

func TestFindByDateOrdering(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, makeInput("2025-12-12", "13:00", "14:00"))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, makeInput("2025-12-12", "08:00", "09:00"))
	assert.NoError(t, err)
	_, err = svc.Create(ctx, makeInput("2025-12-12", "10:00", "11:00"))
	assert.NoError(t, err)

	list, err := svc.FindByDate(ctx, "2025-12-12")
	assert.NoError(t, err)
	assert.Len(t, list, 3)
	assert.Equal(t, "08:00", list[0].StartTime)
	assert.Equal(t, "10:00", list[1].StartTime)
	assert.Equal(t, "13:00", list[2].StartTime)
}
