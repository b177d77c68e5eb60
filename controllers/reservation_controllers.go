package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/labbiomed/reservation-app/models"
	"github.com/labbiomed/reservation-app/services"
	"github.com/labbiomed/reservation-app/utils"
)

type ReservationController struct {
	DB      *gorm.DB
	Service *services.ReservationService
}

func NewReservationController(db *gorm.DB, svc *services.ReservationService) *ReservationController {
	return &ReservationController{DB: db, Service: svc}
}

// respondServiceError memetakan taksonomi error service ke kode HTTP.
func respondServiceError(c *gin.Context, err error) {
	var conflict *services.ConflictError

	switch {
	case errors.As(err, &conflict),
		errors.Is(err, services.ErrInvalidDate),
		errors.Is(err, services.ErrInvalidTime),
		errors.Is(err, services.ErrInvalidRange),
		errors.Is(err, services.ErrInvalidStatus),
		errors.Is(err, services.ErrReasonRequired),
		errors.Is(err, services.ErrInvalidState):
		utils.RespondError(c, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrForbidden):
		utils.RespondError(c, http.StatusForbidden, err)
	case errors.Is(err, services.ErrNotFound):
		utils.RespondError(c, http.StatusNotFound, err)
	default:
		utils.RespondError(c, http.StatusInternalServerError, err)
	}
}

func actorFromContext(c *gin.Context) (uint, string) {
	userID, _ := c.Get("user_id")
	role, _ := c.Get("role")

	id, _ := userID.(uint)
	r, _ := role.(string)
	return id, r
}

// CreateReservation membuat peminjaman lab baru dengan status pending.
func (rc *ReservationController) CreateReservation(c *gin.Context) {
	type reqBody struct {
		UserName  string `json:"user_name" binding:"required"`
		UserNim   string `json:"user_nim" binding:"required"`
		Date      string `json:"date" binding:"required"`
		StartTime string `json:"start_time" binding:"required"`
		EndTime   string `json:"end_time" binding:"required"`
		PartySize int    `json:"party_size" binding:"required,min=1"`
		Purpose   string `json:"purpose" binding:"required"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	actorID, _ := actorFromContext(c)

	// Email diambil dari akun yang login, bukan dari body
	var user models.User
	if err := rc.DB.First(&user, actorID).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user not found"))
		return
	}

	res, err := rc.Service.Create(c.Request.Context(), services.CreateReservationInput{
		UserID:    user.ID,
		UserEmail: user.Email,
		UserName:  body.UserName,
		UserNim:   body.UserNim,
		Date:      body.Date,
		StartTime: body.StartTime,
		EndTime:   body.EndTime,
		PartySize: body.PartySize,
		Purpose:   body.Purpose,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusCreated, "Reservation created", res)
}

// GetAllReservations: praktikan melihat miliknya sendiri, asisten/admin semua.
func (rc *ReservationController) GetAllReservations(c *gin.Context) {
	actorID, role := actorFromContext(c)

	list, err := rc.Service.List(c.Request.Context(), actorID, role)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of reservations", list)
}

// GetReservationsByDate mengembalikan reservasi aktif pada satu tanggal.
func (rc *ReservationController) GetReservationsByDate(c *gin.Context) {
	date := c.Param("date")

	list, err := rc.Service.FindByDate(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservations on "+date, list)
}

// GetAvailableSlots mengembalikan ketersediaan slot per jam operasional.
func (rc *ReservationController) GetAvailableSlots(c *gin.Context) {
	date := c.Param("date")

	slots, err := rc.Service.AvailableSlots(c.Request.Context(), date)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Available slots on "+date, slots)
}

// GetReservationByID
func (rc *ReservationController) GetReservationByID(c *gin.Context) {
	res, err := rc.Service.GetByID(c.Request.Context(), c.Param("reservation_id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation detail", res)
}

// UpdateReservationStatus: approve/reject oleh asisten.
func (rc *ReservationController) UpdateReservationStatus(c *gin.Context) {
	type reqBody struct {
		Status         string `json:"status" binding:"required"`
		RejectedReason string `json:"rejected_reason"`
	}
	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	actorID, role := actorFromContext(c)

	res, err := rc.Service.UpdateStatus(
		c.Request.Context(),
		c.Param("reservation_id"),
		body.Status,
		body.RejectedReason,
		actorID,
		role,
	)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation status updated", res)
}

// CancelReservation: hanya pemilik yang boleh membatalkan, selama pending.
func (rc *ReservationController) CancelReservation(c *gin.Context) {
	actorID, _ := actorFromContext(c)

	res, err := rc.Service.Cancel(c.Request.Context(), c.Param("reservation_id"), actorID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Reservation cancelled", res)
}
