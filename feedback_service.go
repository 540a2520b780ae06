package main

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// SubmitFeedback stores rating-bounded commentary for an event.
func SubmitFeedback(ctx context.Context, db *gorm.DB, eventID uint, text string, rating int) (*Feedback, error) {
	if err := ValidateNonEmpty("feedback_text", text); err != nil {
		return nil, err
	}
	if err := ValidateRating(rating); err != nil {
		return nil, err
	}

	feedback := &Feedback{EventID: eventID, FeedbackText: text, Rating: rating}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.First(&event, eventID).Error; err != nil {
			return lookupErr(err, "event")
		}
		if err := tx.Create(feedback).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return feedback, nil
}

// DeleteFeedback removes one feedback entry.
func DeleteFeedback(ctx context.Context, db *gorm.DB, feedbackID uint) error {
	result := db.WithContext(ctx).Delete(&Feedback{}, feedbackID)
	if result.Error != nil {
		return storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: feedback", ErrNotFound)
	}
	return nil
}

// ListFeedback returns all feedback for an event, oldest first.
func ListFeedback(ctx context.Context, db *gorm.DB, eventID uint) ([]Feedback, error) {
	var event Event
	if err := db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return nil, lookupErr(err, "event")
	}
	var feedbacks []Feedback
	if err := db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&feedbacks).Error; err != nil {
		return nil, storeErr(err)
	}
	return feedbacks, nil
}
