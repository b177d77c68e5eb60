package services

import (
	"errors"
	"fmt"

	"github.com/labbiomed/reservation-app/models"
)

var (
	ErrInvalidDate    = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidTime    = errors.New("time must be in HH:mm format (24-hour, zero-padded)")
	ErrInvalidRange   = errors.New("end time must be after start time")
	ErrReasonRequired = errors.New("rejected reason must be provided")
	ErrInvalidStatus  = errors.New("status must be approved or rejected")
	ErrNotFound       = errors.New("reservation not found")
	ErrForbidden      = errors.New("you are not allowed to perform this action")
	ErrInvalidState   = errors.New("only pending reservations can be updated")
)

// ConflictError menyimpan reservasi pertama yang bentrok, supaya pesan
// error bisa menyebut jendela waktu yang sudah terpakai.
type ConflictError struct {
	With *models.Reservation
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("lab already booked on %s at %s-%s",
		e.With.Date, e.With.StartTime, e.With.EndTime)
}
