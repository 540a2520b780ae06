package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RegisterParticipantInput struct {
	Name      string
	Contact   string
	StudentID string
}

// RegisterParticipant adds a participant to an event. The contact must match
// the phone pattern, and neither the contact nor the student id may already
// be registered for this event. A fresh self-service token is issued and
// attendance defaults to true.
func RegisterParticipant(ctx context.Context, db *gorm.DB, eventID, userID uint, input RegisterParticipantInput) (*Participant, error) {
	if err := ValidateNonEmpty("name", input.Name); err != nil {
		return nil, err
	}
	if err := ValidateContact(input.Contact); err != nil {
		return nil, err
	}
	if err := ValidateNonEmpty("student_id", input.StudentID); err != nil {
		return nil, err
	}

	participant := &Participant{
		Name:       strings.TrimSpace(input.Name),
		Contact:    input.Contact,
		StudentID:  strings.TrimSpace(input.StudentID),
		EventID:    eventID,
		UserID:     userID,
		Attendance: true,
		Token:      uuid.NewString(),
	}
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.First(&event, eventID).Error; err != nil {
			return lookupErr(err, "event")
		}

		// Advisory pre-check; the composite unique indexes on
		// (event_id, contact) and (event_id, student_id) are the backstop
		// under concurrent registration.
		var count int64
		if err := tx.Model(&Participant{}).
			Where("event_id = ? AND (contact = ? OR student_id = ?)",
				eventID, participant.Contact, participant.StudentID).
			Count(&count).Error; err != nil {
			return storeErr(err)
		}
		if count > 0 {
			return fmt.Errorf("%w: contact or student id already taken for this event", ErrDuplicateRegistration)
		}

		if err := tx.Create(participant).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: contact or student id already taken for this event", ErrDuplicateRegistration)
			}
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return participant, nil
}

// LookupParticipantByToken finds a registration by its self-service token.
// This is the one access path that bypasses session auth.
func LookupParticipantByToken(ctx context.Context, db *gorm.DB, eventID uint, token string) (*Participant, error) {
	var participant Participant
	if err := db.WithContext(ctx).
		Where("event_id = ? AND token = ?", eventID, token).
		First(&participant).Error; err != nil {
		return nil, lookupErr(err, "participant")
	}
	return &participant, nil
}

// ListParticipants returns all registrations of an event, oldest first.
func ListParticipants(ctx context.Context, db *gorm.DB, eventID uint) ([]Participant, error) {
	var event Event
	if err := db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return nil, lookupErr(err, "event")
	}
	var participants []Participant
	if err := db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("id asc").
		Find(&participants).Error; err != nil {
		return nil, storeErr(err)
	}
	return participants, nil
}

// ParticipantPatch carries the mutable registration fields; nil leaves a
// field unchanged.
type ParticipantPatch struct {
	Name       *string
	Contact    *string
	StudentID  *string
	Attendance *bool
}

// UpdateParticipant applies the patch, re-validating the contact pattern
// and re-checking contact/student-id uniqueness against the other
// participants of the same event (excluding this one).
func UpdateParticipant(ctx context.Context, db *gorm.DB, participantID uint, patch ParticipantPatch) (*Participant, error) {
	var participant Participant
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&participant, participantID).Error; err != nil {
			return lookupErr(err, "participant")
		}

		if patch.Name != nil {
			participant.Name = strings.TrimSpace(*patch.Name)
		}
		if patch.Contact != nil {
			participant.Contact = *patch.Contact
		}
		if patch.StudentID != nil {
			participant.StudentID = strings.TrimSpace(*patch.StudentID)
		}
		if patch.Attendance != nil {
			participant.Attendance = *patch.Attendance
		}

		if err := ValidateNonEmpty("name", participant.Name); err != nil {
			return err
		}
		if err := ValidateContact(participant.Contact); err != nil {
			return err
		}
		if err := ValidateNonEmpty("student_id", participant.StudentID); err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&Participant{}).
			Where("event_id = ? AND id <> ? AND (contact = ? OR student_id = ?)",
				participant.EventID, participant.ID, participant.Contact, participant.StudentID).
			Count(&count).Error; err != nil {
			return storeErr(err)
		}
		if count > 0 {
			return fmt.Errorf("%w: contact or student id already taken for this event", ErrDuplicateRegistration)
		}

		if err := tx.Model(&Participant{}).Where("id = ?", participant.ID).
			Updates(map[string]interface{}{
				"name":       participant.Name,
				"contact":    participant.Contact,
				"student_id": participant.StudentID,
				"attendance": participant.Attendance,
			}).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: contact or student id already taken for this event", ErrDuplicateRegistration)
			}
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &participant, nil
}

// SetAttendance flips a participant's attendance flag.
func SetAttendance(ctx context.Context, db *gorm.DB, participantID uint, attended bool) error {
	result := db.WithContext(ctx).Model(&Participant{}).
		Where("id = ?", participantID).
		Update("attendance", attended)
	if result.Error != nil {
		return storeErr(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: participant", ErrNotFound)
	}
	return nil
}

// EventStats holds attendance figures for one event. Rate is a percentage
// rounded to two decimals, 0 when there are no participants.
type EventStats struct {
	Total    int64   `json:"total"`
	Attended int64   `json:"attended"`
	Rate     float64 `json:"rate"`
}

// StatsForEvent computes the attendance statistics of an event.
func StatsForEvent(ctx context.Context, db *gorm.DB, eventID uint) (EventStats, error) {
	var stats EventStats

	var event Event
	if err := db.WithContext(ctx).First(&event, eventID).Error; err != nil {
		return stats, lookupErr(err, "event")
	}

	if err := db.WithContext(ctx).Model(&Participant{}).
		Where("event_id = ?", eventID).
		Count(&stats.Total).Error; err != nil {
		return stats, storeErr(err)
	}
	if stats.Total == 0 {
		return stats, nil
	}
	if err := db.WithContext(ctx).Model(&Participant{}).
		Where("event_id = ? AND attendance = ?", eventID, true).
		Count(&stats.Attended).Error; err != nil {
		return stats, storeErr(err)
	}

	stats.Rate = math.Round(float64(stats.Attended)/float64(stats.Total)*10000) / 100
	return stats, nil
}
