package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

type CreateEventInput struct {
	Title        string
	Date         time.Time
	LocationName string
	Description  string
}

// CreateEvent validates the input, resolves the location (if any) and
// inserts the event, all in one transaction. Only admins and superadmins
// may create events.
func CreateEvent(ctx context.Context, db *gorm.DB, ownerID uint, input CreateEventInput) (*Event, error) {
	owner, err := GetUser(ctx, db, ownerID)
	if err != nil {
		return nil, err
	}
	if !owner.CanCreateEvent() {
		return nil, fmt.Errorf("%w: only admins can create events", ErrForbidden)
	}
	if err := ValidateNonEmpty("title", input.Title); err != nil {
		return nil, err
	}
	if err := ValidateEventDate(input.Date); err != nil {
		return nil, err
	}

	event := &Event{
		Title:       strings.TrimSpace(input.Title),
		Date:        input.Date,
		Description: input.Description,
		UserID:      owner.ID,
	}
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if strings.TrimSpace(input.LocationName) != "" {
			loc, err := resolveLocation(tx, input.LocationName)
			if err != nil {
				return err
			}
			event.LocationID = &loc.ID
		}
		if err := tx.Create(event).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetEvent(ctx, db, event.ID)
}

// EventPatch carries the mutable event fields; nil means "leave unchanged".
// An empty LocationName clears the location.
type EventPatch struct {
	Title        *string
	Date         *time.Time
	LocationName *string
	Description  *string
}

// UpdateEvent applies the patch and re-validates the merged result. The
// date constraint is re-checked only when the date itself changes, so an
// event whose date has since passed can still have its other fields fixed.
// Owner or superadmin only.
func UpdateEvent(ctx context.Context, db *gorm.DB, callerID, eventID uint, patch EventPatch) (*Event, error) {
	caller, err := GetUser(ctx, db, callerID)
	if err != nil {
		return nil, err
	}

	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.First(&event, eventID).Error; err != nil {
			return lookupErr(err, "event")
		}
		if event.UserID != caller.ID && !caller.IsSuperadmin() {
			return fmt.Errorf("%w: only the owner or a superadmin can update an event", ErrForbidden)
		}

		if patch.Title != nil {
			event.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Date != nil {
			event.Date = *patch.Date
		}
		if patch.Description != nil {
			event.Description = *patch.Description
		}
		if err := ValidateNonEmpty("title", event.Title); err != nil {
			return err
		}
		if patch.Date != nil {
			if err := ValidateEventDate(event.Date); err != nil {
				return err
			}
		}

		if patch.LocationName != nil {
			if strings.TrimSpace(*patch.LocationName) == "" {
				event.LocationID = nil
			} else {
				loc, err := resolveLocation(tx, *patch.LocationName)
				if err != nil {
					return err
				}
				event.LocationID = &loc.ID
			}
		}

		if err := tx.Model(&Event{}).Where("id = ?", event.ID).
			Updates(map[string]interface{}{
				"title":       event.Title,
				"date":        event.Date,
				"description": event.Description,
				"location_id": event.LocationID,
			}).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return GetEvent(ctx, db, eventID)
}

// DeleteEvent removes the event together with all of its participants and
// feedback. Atomic: either every row disappears or none do. Owner or
// superadmin only.
func DeleteEvent(ctx context.Context, db *gorm.DB, callerID, eventID uint) error {
	caller, err := GetUser(ctx, db, callerID)
	if err != nil {
		return err
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event Event
		if err := tx.First(&event, eventID).Error; err != nil {
			return lookupErr(err, "event")
		}
		if event.UserID != caller.ID && !caller.IsSuperadmin() {
			return fmt.Errorf("%w: only the owner or a superadmin can delete an event", ErrForbidden)
		}

		if err := tx.Where("event_id = ?", eventID).Delete(&Participant{}).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Where("event_id = ?", eventID).Delete(&Feedback{}).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Delete(&Event{}, eventID).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
}

// GetEvent loads an event with its location.
func GetEvent(ctx context.Context, db *gorm.DB, id uint) (*Event, error) {
	var event Event
	if err := db.WithContext(ctx).Preload("Location").First(&event, id).Error; err != nil {
		return nil, lookupErr(err, "event")
	}
	return &event, nil
}

// ListEvents returns events ordered by date descending (newest event date
// first, id descending as tiebreak). A non-empty search filters on a
// case-insensitive substring of title or description.
func ListEvents(ctx context.Context, db *gorm.DB, search string) ([]Event, error) {
	query := db.WithContext(ctx).Preload("Location").Order("date desc, id desc")

	if s := strings.TrimSpace(search); s != "" {
		kw := "%" + strings.ToLower(s) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", kw, kw)
	}

	var events []Event
	if err := query.Find(&events).Error; err != nil {
		return nil, storeErr(err)
	}
	return events, nil
}

// MostPopularEvent returns the event with the most participants and its
// count. Ties break toward the lowest event id. When no event has any
// participant, all three return values are zero.
func MostPopularEvent(ctx context.Context, db *gorm.DB) (*Event, int64, error) {
	var row struct {
		EventID uint
		Cnt     int64
	}
	err := db.WithContext(ctx).Model(&Participant{}).
		Select("event_id, COUNT(*) AS cnt").
		Group("event_id").
		Order("cnt DESC, event_id ASC").
		Limit(1).
		Scan(&row).Error
	if err != nil {
		return nil, 0, storeErr(err)
	}
	if row.EventID == 0 {
		return nil, 0, nil
	}

	event, err := GetEvent(ctx, db, row.EventID)
	if err != nil {
		return nil, 0, err
	}
	return event, row.Cnt, nil
}
