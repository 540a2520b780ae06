package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// -----------------------------
// Feedback
// -----------------------------

type SubmitFeedbackRequest struct {
	FeedbackText string `json:"feedback_text" binding:"required"`
	Rating       int    `json:"rating" binding:"required"`
}

func SubmitFeedbackHandler(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body SubmitFeedbackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		jsonError(c, http.StatusBadRequest, "invalid request: "+err.Error())
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	feedback, err := SubmitFeedback(ctx, DB, eventID, body.FeedbackText, body.Rating)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusCreated, feedback)
}

func ListFeedbackHandler(c *gin.Context) {
	eventID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	feedbacks, err := ListFeedback(ctx, DB, eventID)
	if err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, feedbacks)
}

func DeleteFeedbackHandler(c *gin.Context) {
	feedbackID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	if err := DeleteFeedback(ctx, DB, feedbackID); err != nil {
		jsonError(c, errStatus(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "feedback deleted"})
}
