package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// -----------------------------
// Helper functions
// -----------------------------

const storeTimeout = 5 * time.Second

func jsonError(c *gin.Context, code int, msg string) {
	c.JSON(code, gin.H{"error": msg})
}

// requestContext bounds every store operation to storeTimeout; an expired
// deadline surfaces as ErrStore (503, retryable).
func requestContext(c *gin.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request.Context(), storeTimeout)
}

// getUserIDFromContext expects AuthMiddleware to set "user_id" (uint) in context.
// If not present -> unauthorized.
func getUserIDFromContext(c *gin.Context) (uint, bool) {
	uid, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := uid.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}

func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		jsonError(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// errStatus maps a domain error to its HTTP status code.
func errStatus(err error) int {
	switch {
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicateEmail), errors.Is(err, ErrDuplicateRegistration), errors.Is(err, ErrAlreadyPrivileged):
		return http.StatusConflict
	case errors.Is(err, ErrStore):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// parseDate accepts RFC3339 or plain YYYY-MM-DD. Bare dates are taken as
// local midnight so "today" stays today regardless of the server's UTC
// offset.
func parseDate(raw string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, true
	}
	if t, err := time.ParseInLocation("2006-01-02", raw, time.Local); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// -----------------------------
// Events
// -----------------------------

type CreateEventRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        string `json:"date" binding:"required"` // expect ISO8601 or "YYYY-MM-DD"
}

func CreateEventHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}

	var body CreateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	date, ok := parseDate(body.Date)
	if !ok {
		jsonError(c, http.StatusBadRequest, "invalid date format (use RFC3339 or YYYY-MM-DD)")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	event, err := CreateEvent(ctx, DB, userID, CreateEventInput{
		Title:        body.Title,
		Date:         date,
		LocationName: body.Location,
		Description:  body.Description,
	})
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, event)
}

type UpdateEventRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Location    *string `json:"location"` // empty string clears the location
	Date        *string `json:"date"`
}

func UpdateEventHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body UpdateEventRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	patch := EventPatch{
		Title:        body.Title,
		LocationName: body.Location,
		Description:  body.Description,
	}
	if body.Date != nil {
		date, ok := parseDate(*body.Date)
		if !ok {
			jsonError(c, http.StatusBadRequest, "invalid date format (use RFC3339 or YYYY-MM-DD)")
			return
		}
		patch.Date = &date
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	event, err := UpdateEvent(ctx, DB, userID, eventID, patch)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, event)
}

func DeleteEventHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := DeleteEvent(ctx, DB, userID, eventID); err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

func GetEventHandler(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	event, err := GetEvent(ctx, DB, eventID)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, event)
}

func ListEventsHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	events, err := ListEvents(ctx, DB, c.Query("search"))
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, events)
}

func MostPopularEventHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	event, count, err := MostPopularEvent(ctx, DB)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}
	if event == nil {
		c.JSON(http.StatusOK, gin.H{"message": "no event has participants yet"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"event":             event,
		"participant_count": count,
	})
}

// -----------------------------
// Locations
// -----------------------------

func ListLocationsHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	locations, err := ListLocations(ctx, DB)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, locations)
}

func DeleteLocationHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	locationID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := DeleteLocation(ctx, DB, userID, locationID); err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "location deleted"})
}
