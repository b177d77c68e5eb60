package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/labbiomed/reservation-app/models"
	"github.com/labbiomed/reservation-app/utils"
)

// timeRx menerima jam dinding HH:mm, 24 jam, selalu zero-padded.
// Padding wajib karena waktu dibandingkan secara leksikografis.
var timeRx = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// OperatingWindow adalah jam operasional lab untuk perhitungan slot.
type OperatingWindow struct {
	Open        string // HH:mm
	Close       string // HH:mm
	SlotMinutes int
}

type Slot struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Available bool   `json:"available"`
}

type ReservationService struct {
	DB     *gorm.DB
	Window OperatingWindow
}

func NewReservationService(db *gorm.DB, window OperatingWindow) *ReservationService {
	return &ReservationService{DB: db, Window: window}
}

type CreateReservationInput struct {
	UserID    uint
	UserEmail string
	UserName  string
	UserNim   string
	Date      string
	StartTime string
	EndTime   string
	PartySize int
	Purpose   string
}

// HasTimeConflict menguji overlap interval setengah-terbuka [start, end):
// reservasi yang selesai jam 10:00 tidak bentrok dengan yang mulai 10:00.
func HasTimeConflict(start1, end1, start2, end2 string) bool {
	return start1 < end2 && end1 > start2
}

// FindConflict mengembalikan reservasi pertama (urutan apa adanya) yang
// bentrok dengan kandidat. Status rejected/cancelled tidak menempati slot.
func FindConflict(start, end string, existing []models.Reservation) *models.Reservation {
	for i := range existing {
		r := &existing[i]
		if r.Status != models.StatusPending && r.Status != models.StatusApproved {
			continue
		}
		if HasTimeConflict(start, end, r.StartTime, r.EndTime) {
			return r
		}
	}
	return nil
}

func parseMinutes(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatMinutes(m int) string {
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// ComputeSlots membagi jam operasional menjadi slot selebar SlotMinutes dan
// menandai slot yang overlap dengan reservasi pending/approved. Fungsi murni:
// input sama selalu menghasilkan output sama.
func ComputeSlots(window OperatingWindow, reservations []models.Reservation) []Slot {
	open, err := parseMinutes(window.Open)
	if err != nil {
		return nil
	}
	closeMin, err := parseMinutes(window.Close)
	if err != nil {
		return nil
	}
	width := window.SlotMinutes
	if width <= 0 {
		width = 60
	}

	var slots []Slot
	for start := open; start+width <= closeMin; start += width {
		startTime := formatMinutes(start)
		endTime := formatMinutes(start + width)

		booked := FindConflict(startTime, endTime, reservations) != nil

		slots = append(slots, Slot{
			StartTime: startTime,
			EndTime:   endTime,
			Available: !booked,
		})
	}
	return slots
}

func validateDate(date string) error {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Create memvalidasi input lalu menyisipkan reservasi pending baru.
// Cek konflik dan insert berjalan dalam satu transaksi dengan lock
// FOR UPDATE atas baris pending/approved di tanggal yang sama, sehingga
// dua request bersamaan untuk slot yang sama tidak bisa lolos dua-duanya.
func (s *ReservationService) Create(ctx context.Context, in CreateReservationInput) (*models.Reservation, error) {
	if err := validateDate(in.Date); err != nil {
		return nil, err
	}
	if !timeRx.MatchString(in.StartTime) || !timeRx.MatchString(in.EndTime) {
		return nil, ErrInvalidTime
	}
	if in.EndTime <= in.StartTime {
		return nil, ErrInvalidRange
	}

	res := &models.Reservation{
		UserID:    in.UserID,
		UserEmail: in.UserEmail,
		UserName:  in.UserName,
		UserNim:   in.UserNim,
		Date:      in.Date,
		StartTime: in.StartTime,
		EndTime:   in.EndTime,
		PartySize: in.PartySize,
		Purpose:   in.Purpose,
		Status:    models.StatusPending,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing []models.Reservation
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND status IN ?", in.Date, models.ActiveStatuses).
			Find(&existing).Error; err != nil {
			return err
		}

		if hit := FindConflict(in.StartTime, in.EndTime, existing); hit != nil {
			return &ConflictError{With: hit}
		}

		return tx.Create(res).Error
	})
	if err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s created: %s %s-%s by user %d",
		res.ID, res.Date, res.StartTime, res.EndTime, res.UserID)
	return res, nil
}

// List mengembalikan reservasi terbaru lebih dulu. Praktikan hanya melihat
// reservasinya sendiri, asisten/admin melihat semua.
func (s *ReservationService) List(ctx context.Context, userID uint, role string) ([]models.Reservation, error) {
	q := s.DB.WithContext(ctx).Model(&models.Reservation{})
	if role == models.RolePraktikan {
		q = q.Where("user_id = ?", userID)
	}

	var out []models.Reservation
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// FindByDate mengembalikan reservasi pending/approved pada tanggal tertentu,
// urut naik berdasarkan waktu mulai.
func (s *ReservationService) FindByDate(ctx context.Context, date string) ([]models.Reservation, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}

	var out []models.Reservation
	err := s.DB.WithContext(ctx).
		Where("date = ? AND status IN ?", date, models.ActiveStatuses).
		Order("start_time asc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ReservationService) GetByID(ctx context.Context, id string) (*models.Reservation, error) {
	var res models.Reservation
	if err := s.DB.WithContext(ctx).First(&res, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// AvailableSlots menghitung ketersediaan slot untuk satu tanggal.
func (s *ReservationService) AvailableSlots(ctx context.Context, date string) ([]Slot, error) {
	bookings, err := s.FindByDate(ctx, date)
	if err != nil {
		return nil, err
	}
	return ComputeSlots(s.Window, bookings), nil
}

// UpdateStatus menjalankan transisi approve/reject. Hanya asisten yang boleh,
// dan hanya dari status pending.
func (s *ReservationService) UpdateStatus(ctx context.Context, id, status, rejectedReason string, actorID uint, actorRole string) (*models.Reservation, error) {
	if actorRole != models.RoleAsisten {
		return nil, ErrForbidden
	}
	if status != models.StatusApproved && status != models.StatusRejected {
		return nil, ErrInvalidStatus
	}
	if status == models.StatusRejected && rejectedReason == "" {
		return nil, ErrReasonRequired
	}

	res, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.Status != models.StatusPending {
		return nil, ErrInvalidState
	}

	res.Status = status
	if status == models.StatusApproved {
		now := time.Now()
		res.ApprovedBy = &actorID
		res.ApprovedAt = &now
	} else {
		res.RejectedReason = rejectedReason
	}

	if err := s.DB.WithContext(ctx).Save(res).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s %s by user %d", res.ID, status, actorID)
	return res, nil
}

// Cancel membatalkan reservasi pending milik pemohon sendiri.
func (s *ReservationService) Cancel(ctx context.Context, id string, actorID uint) (*models.Reservation, error) {
	res, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != actorID {
		return nil, ErrForbidden
	}
	if res.Status != models.StatusPending {
		return nil, ErrInvalidState
	}

	res.Status = models.StatusCancelled
	if err := s.DB.WithContext(ctx).Save(res).Error; err != nil {
		return nil, err
	}

	utils.InfoLogger.Printf("Reservation %s cancelled by user %d", res.ID, actorID)
	return res, nil
}
