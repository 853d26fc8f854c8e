package handlers

import (
	"errors"
	"net/http"
	"strconv"

	appointmentRepo "moim/database/repository/appointment"
	"moim/middleware"
	"moim/services/appointment"
	"moim/services/calendar"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AppointmentHandler exposes the appointment endpoints.
type AppointmentHandler struct {
	Service appointment.AppointmentService
}

// CreateHandler creates an appointment from candidate dates.
func (h *AppointmentHandler) CreateHandler(c *gin.Context) {
	logger := getLogger(c)

	var req appointment.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	appt, err := h.Service.Create(c.Request.Context(), req, middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, appointment.ErrNoCandidateDates), errors.Is(err, appointment.ErrInvalidDate):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to create appointment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create appointment"})
		}
		return
	}
	c.JSON(http.StatusCreated, appt)
}

// ListHandler lists the authenticated user's appointments.
func (h *AppointmentHandler) ListHandler(c *gin.Context) {
	logger := getLogger(c)

	appts, err := h.Service.ListMine(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		logger.Error("Failed to list appointments", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list appointments"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"appointments": appts})
}

// GetHandler returns one appointment by invite code.
func (h *AppointmentHandler) GetHandler(c *gin.Context) {
	appt, err := h.Service.GetByInviteCode(c.Request.Context(), c.Param("inviteCode"))
	if err != nil {
		h.respondFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, appt)
}

// DetailHandler returns one appointment with its per-date availability
// summary.
func (h *AppointmentHandler) DetailHandler(c *gin.Context) {
	detail, err := h.Service.Detail(c.Request.Context(), c.Param("inviteCode"))
	if err != nil {
		h.respondFetchError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// JoinHandler enrolls the authenticated user via invite code.
func (h *AppointmentHandler) JoinHandler(c *gin.Context) {
	logger := getLogger(c)

	p, err := h.Service.Join(c.Request.Context(), c.Param("inviteCode"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, appointment.ErrAlreadyJoined):
			c.JSON(http.StatusConflict, gin.H{"error": "Already joined"})
		case errors.Is(err, appointment.ErrFull):
			c.JSON(http.StatusConflict, gin.H{"error": "Appointment is full"})
		case errors.Is(err, appointment.ErrNotJoinable):
			c.JSON(http.StatusConflict, gin.H{"error": "Appointment is no longer accepting participants"})
		default:
			logger.Error("Failed to join appointment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join appointment"})
		}
		return
	}
	c.JSON(http.StatusCreated, p)
}

// DeleteHandler removes an appointment; creator only.
func (h *AppointmentHandler) DeleteHandler(c *gin.Context) {
	logger := getLogger(c)

	err := h.Service.Delete(c.Request.Context(), c.Param("inviteCode"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, appointment.ErrNotCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator may delete"})
		default:
			logger.Error("Failed to delete appointment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete appointment"})
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted"})
}

// OptimalTimesHandler returns the ranked common free slots.
func (h *AppointmentHandler) OptimalTimesHandler(c *gin.Context) {
	logger := getLogger(c)

	minDuration := 0
	if raw := c.Query("min_duration"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "min_duration must be a positive integer"})
			return
		}
		minDuration = v
	}

	result, err := h.Service.OptimalTimes(c.Request.Context(), c.Param("inviteCode"), middleware.UserID(c), minDuration)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, appointment.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "Join the appointment first"})
		default:
			logger.Error("Failed to compute optimal times", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute optimal times"})
		}
		return
	}
	c.JSON(http.StatusOK, result)
}

// ConfirmHandler fixes the appointment to one date and time window.
func (h *AppointmentHandler) ConfirmHandler(c *gin.Context) {
	logger := getLogger(c)

	var req appointment.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	appt, err := h.Service.Confirm(c.Request.Context(), c.Param("inviteCode"), middleware.UserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, appointment.ErrNotCreator):
			c.JSON(http.StatusForbidden, gin.H{"error": "Only the creator may confirm"})
		case errors.Is(err, appointment.ErrAlreadyConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": "Appointment is already confirmed"})
		case errors.Is(err, appointment.ErrNotCandidateDate), errors.Is(err, appointment.ErrInvalidTimeWindow):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to confirm appointment", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to confirm appointment"})
		}
		return
	}
	c.JSON(http.StatusOK, appt)
}

// AddToCalendarHandler inserts a confirmed appointment into the user's
// Google calendar.
func (h *AppointmentHandler) AddToCalendarHandler(c *gin.Context) {
	logger := getLogger(c)

	eventID, err := h.Service.AddToCalendar(c.Request.Context(), c.Param("inviteCode"), middleware.UserID(c))
	if err != nil {
		switch {
		case errors.Is(err, appointmentRepo.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		case errors.Is(err, appointment.ErrNotParticipant):
			c.JSON(http.StatusForbidden, gin.H{"error": "Join the appointment first"})
		case errors.Is(err, appointment.ErrNotConfirmed):
			c.JSON(http.StatusConflict, gin.H{"error": "Appointment is not confirmed yet"})
		case errors.Is(err, appointment.ErrCalendarRequired), errors.Is(err, calendar.ErrReauthRequired):
			c.JSON(http.StatusPreconditionFailed, gin.H{"error": "Google calendar link required"})
		default:
			logger.Error("Failed to add event to calendar", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add event to calendar"})
		}
		return
	}
	c.JSON(http.StatusCreated, gin.H{"event_id": eventID})
}

// SyncHandler recomputes the user's availability across their VOTING
// appointments.
func (h *AppointmentHandler) SyncHandler(c *gin.Context) {
	logger := getLogger(c)
	userID := middleware.UserID(c)

	if c.Query("async") == "true" {
		result, err := h.Service.EnqueueMySchedules(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, appointment.ErrSyncQueueUnavailable) {
				c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Background sync is not available"})
				return
			}
			logger.Error("Schedule sync enqueue failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Schedule sync failed"})
			return
		}
		c.JSON(http.StatusAccepted, result)
		return
	}

	result, err := h.Service.SyncMySchedules(c.Request.Context(), userID)
	if err != nil {
		logger.Error("Schedule sync failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Schedule sync failed"})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AppointmentHandler) respondFetchError(c *gin.Context, err error) {
	if errors.Is(err, appointmentRepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Appointment not found"})
		return
	}
	getLogger(c).Error("Failed to fetch appointment", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch appointment"})
}
