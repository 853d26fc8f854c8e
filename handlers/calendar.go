package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"moim/middleware"
	"moim/models"
	"moim/services/calendar"
	"moim/services/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// reauthURL is where clients send the user to re-run the consent flow with
// a forced prompt, so Google issues a fresh refresh token.
const reauthURL = "/api/users/login/google?force=true"

// CalendarHandler exposes the user's own Google Calendar for browsing and
// event management, independent of any appointment.
type CalendarHandler struct {
	Users    user.UserService
	Calendar calendar.Service
}

// ListEventsHandler returns one page of the user's primary-calendar events.
// Paging is cursor-based via the page_token query parameter.
func (h *CalendarHandler) ListEventsHandler(c *gin.Context) {
	usr, ok := h.linkedUser(c)
	if !ok {
		return
	}

	opts := calendar.BrowseOptions{
		TimeMin:   c.Query("time_min"),
		TimeMax:   c.Query("time_max"),
		PageToken: c.Query("page_token"),
	}
	if raw := c.Query("max_results"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "max_results must be a positive integer"})
			return
		}
		opts.MaxResults = n
	}

	page, err := h.Calendar.ListEvents(c.Request.Context(), *usr, opts)
	if err != nil {
		h.respondCalendarError(c, err, "Failed to list calendar events")
		return
	}
	c.JSON(http.StatusOK, page)
}

// DeleteEventHandler removes one event from the user's primary calendar.
func (h *CalendarHandler) DeleteEventHandler(c *gin.Context) {
	usr, ok := h.linkedUser(c)
	if !ok {
		return
	}

	eventID := c.Param("eventID")
	if err := h.Calendar.DeleteEvent(c.Request.Context(), *usr, eventID); err != nil {
		if errors.Is(err, calendar.ErrEventNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"code": "event_not_found"})
			return
		}
		h.respondCalendarError(c, err, "Failed to delete calendar event")
		return
	}
	c.JSON(http.StatusOK, gin.H{"event_id": eventID, "deleted": true})
}

// linkedUser loads the authenticated user and writes the scope-missing
// response when no calendar credential is on file.
func (h *CalendarHandler) linkedUser(c *gin.Context) (*models.User, bool) {
	logger := getLogger(c)

	userID := middleware.UserID(c)
	usr, err := h.Users.GetUserByID(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return nil, false
		}
		logger.Error("Failed to fetch user", zap.String("userID", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve profile"})
		return nil, false
	}

	if !usr.CalendarLinked || usr.SealedRefreshToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"code": "calendar_scope_missing", "reauthUrl": reauthURL})
		return nil, false
	}
	return usr, true
}

// respondCalendarError maps the calendar package's sentinel errors onto the
// reauth-prompt responses clients act on.
func (h *CalendarHandler) respondCalendarError(c *gin.Context, err error, logMsg string) {
	switch {
	case errors.Is(err, calendar.ErrReauthRequired):
		c.JSON(http.StatusUnauthorized, gin.H{"code": "google_reauth_required", "reauthUrl": reauthURL})
	case errors.Is(err, calendar.ErrInsufficientScope):
		c.JSON(http.StatusForbidden, gin.H{"code": "insufficient_scope", "reauthUrl": reauthURL})
	case errors.Is(err, calendar.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"code": "rate_limited"})
	default:
		getLogger(c).Error(logMsg, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": logMsg})
	}
}
