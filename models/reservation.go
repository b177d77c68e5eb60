package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status peminjaman lab
const (
	StatusPending   = "pending"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCancelled = "cancelled"
)

// ActiveStatuses adalah status yang masih menempati slot waktu.
var ActiveStatuses = []string{StatusPending, StatusApproved}

type Reservation struct {
	ID string `gorm:"type:varchar(36);primaryKey" json:"id"`

	// Identitas peminjam disalin saat pembuatan (denormalized),
	// tidak di-join ulang ke tabel users.
	UserID       uint   `gorm:"not null;index" json:"user_id"`
	UserEmail    string `gorm:"type:varchar(255);not null" json:"user_email"`
	UserName     string `gorm:"type:varchar(255);not null" json:"user_name"`
	UserNim      string `gorm:"type:varchar(50);not null" json:"user_nim"`

	Date      string `gorm:"type:varchar(10);not null;index" json:"date"`       // YYYY-MM-DD
	StartTime string `gorm:"type:varchar(5);not null" json:"start_time"`        // HH:mm
	EndTime   string `gorm:"type:varchar(5);not null" json:"end_time"`          // HH:mm
	PartySize int    `gorm:"not null" json:"party_size"`
	Purpose   string `gorm:"type:varchar(255);not null" json:"purpose"`

	Status         string     `gorm:"type:varchar(15);not null;default:'pending';index" json:"status"`
	ApprovedBy     *uint      `json:"approved_by,omitempty"`
	ApprovedAt     *time.Time `json:"approved_at,omitempty"`
	RejectedReason string     `gorm:"type:varchar(255)" json:"rejected_reason,omitempty"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// IsTerminal melaporkan apakah status sudah final (tidak bisa berubah lagi).
func (r *Reservation) IsTerminal() bool {
	return r.Status == StatusApproved || r.Status == StatusRejected || r.Status == StatusCancelled
}
