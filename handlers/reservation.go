package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tablevoice/config"
	reservationRepo "tablevoice/database/repository/reservation"
	"tablevoice/models"
	"tablevoice/services/dialogue"
	"tablevoice/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReservationHandler is the REST CRUD surface for reservation records,
// independent of any call session.
type ReservationHandler struct {
	Repo      reservationRepo.Repository
	Reminders dialogue.ReminderScheduler
	Logger    *zap.Logger
}

func NewReservationHandler(repo reservationRepo.Repository, reminders dialogue.ReminderScheduler, logger *zap.Logger) *ReservationHandler {
	return &ReservationHandler{Repo: repo, Reminders: reminders, Logger: logger}
}

// CreateReservation creates a reservation directly, outside any call.
func (h *ReservationHandler) CreateReservation(c *gin.Context) {
	var input struct {
		Name      string `json:"name" binding:"required"`
		Contact   string `json:"contact"`
		Date      string `json:"date" binding:"required"`
		Time      string `json:"time" binding:"required"`
		PartySize int    `json:"party_size" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}
	if msg := validateReservationInput(input.Date, input.Time, input.PartySize, time.Now()); msg != "" {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", msg)
		return
	}

	res, err := h.Repo.Create(c.Request.Context(), models.Reservation{
		CustomerName: input.Name,
		Contact:      input.Contact,
		Date:         input.Date,
		Time:         input.Time,
		PartySize:    input.PartySize,
	})
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to create reservation", err.Error())
		return
	}
	if h.Reminders != nil {
		if err := h.Reminders.ScheduleReservationReminder(c.Request.Context(), *res); err != nil {
			h.Logger.Warn("failed to schedule reminder", zap.String("code", res.Code), zap.Error(err))
		}
	}
	c.JSON(http.StatusCreated, res)
}

// GetReservation returns one reservation by its confirmation code.
func (h *ReservationHandler) GetReservation(c *gin.Context) {
	code := c.Param("code")
	res, err := h.Repo.GetByCode(c.Request.Context(), code)
	if errors.Is(err, reservationRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "reservation not found", code)
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to fetch reservation", err.Error())
		return
	}
	c.JSON(http.StatusOK, res)
}

// CancelReservation marks a reservation as cancelled.
func (h *ReservationHandler) CancelReservation(c *gin.Context) {
	code := c.Param("code")
	err := h.Repo.Cancel(c.Request.Context(), code)
	if errors.Is(err, reservationRepo.ErrNotFound) {
		utils.JSONError(c, http.StatusNotFound, "reservation not found", code)
		return
	}
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to cancel reservation", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelled", "code": code})
}

// ListReservations returns the most recent reservations for operators.
func (h *ReservationHandler) ListReservations(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	reservations, err := h.Repo.List(c.Request.Context(), limit)
	if err != nil {
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reservations", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": reservations})
}

// validateReservationInput checks canonical formats and business bounds;
// returns an empty string when valid.
func validateReservationInput(date, timeStr string, partySize int, now time.Time) string {
	d, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return "date must be YYYY-MM-DD"
	}
	// Midnight in the local zone, not the UTC epoch day.
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	if d.Before(today) {
		return "date must not be in the past"
	}
	t, err := time.Parse("15:04", timeStr)
	if err != nil {
		return "time must be HH:MM in 24-hour form"
	}
	total := t.Hour()*60 + t.Minute()
	if total < config.AppConfig.ServiceOpenHour*60 || total > config.AppConfig.ServiceCloseHour*60 {
		return "time is outside service hours"
	}
	if partySize < 1 || partySize > config.AppConfig.MaxPartySize {
		return "party_size is out of range"
	}
	return ""
}
