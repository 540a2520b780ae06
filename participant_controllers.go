package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// -----------------------------
// Participants
// -----------------------------

type RegisterParticipantRequest struct {
	Name      string `json:"name" binding:"required"`
	Contact   string `json:"contact" binding:"required"`
	StudentID string `json:"student_id" binding:"required"`
}

func RegisterParticipantHandler(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		jsonError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body RegisterParticipantRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	participant, err := RegisterParticipant(ctx, DB, eventID, userID, RegisterParticipantInput{
		Name:      body.Name,
		Contact:   body.Contact,
		StudentID: body.StudentID,
	})
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	// The token in the response is the participant's self-service link.
	c.JSON(http.StatusCreated, participant)
}

// GetParticipantByTokenHandler is public: the token itself is the credential.
func GetParticipantByTokenHandler(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	token := c.Param("token")
	if token == "" {
		jsonError(c, http.StatusBadRequest, "missing token")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	participant, err := LookupParticipantByToken(ctx, DB, eventID, token)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, participant)
}

func ListParticipantsHandler(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	participants, err := ListParticipants(ctx, DB, eventID)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, participants)
}

type UpdateParticipantRequest struct {
	Name       *string `json:"name"`
	Contact    *string `json:"contact"`
	StudentID  *string `json:"student_id"`
	Attendance *bool   `json:"attendance"`
}

func UpdateParticipantHandler(c *gin.Context) {
	participantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body UpdateParticipantRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	participant, err := UpdateParticipant(ctx, DB, participantID, ParticipantPatch{
		Name:       body.Name,
		Contact:    body.Contact,
		StudentID:  body.StudentID,
		Attendance: body.Attendance,
	})
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, participant)
}

type SetAttendanceRequest struct {
	Attended *bool `json:"attended" binding:"required"`
}

func SetAttendanceHandler(c *gin.Context) {
	participantID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body SetAttendanceRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := SetAttendance(ctx, DB, participantID, *body.Attended); err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "attendance updated"})
}

func EventStatsHandler(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	stats, err := StatsForEvent(ctx, DB, eventID)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, stats)
}
