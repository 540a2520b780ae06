package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// resolveLocation returns the location with the given name, creating it if
// absent. Runs inside the caller's transaction. Concurrent callers can race
// past the existence check; the insert is a no-op on conflict (keeping the
// transaction usable on Postgres) and the loser re-reads the winner's row.
func resolveLocation(tx *gorm.DB, name string) (*Location, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: location name must not be empty", ErrValidation)
	}

	var loc Location
	err := tx.Where("name = ?", name).First(&loc).Error
	if err == nil {
		return &loc, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, storeErr(err)
	}

	loc = Location{Name: name}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&loc).Error; err != nil {
		return nil, storeErr(err)
	}
	if loc.ID == 0 {
		// Conflict: another caller inserted the name first.
		if err := tx.Where("name = ?", name).First(&loc).Error; err != nil {
			return nil, storeErr(err)
		}
	}
	return &loc, nil
}

// ListLocations returns all known locations, name order.
func ListLocations(ctx context.Context, db *gorm.DB) ([]Location, error) {
	var locations []Location
	if err := db.WithContext(ctx).Order("name asc").Find(&locations).Error; err != nil {
		return nil, storeErr(err)
	}
	return locations, nil
}

// DeleteLocation removes a location; events referencing it keep existing
// with a null location. Superadmin only.
func DeleteLocation(ctx context.Context, db *gorm.DB, callerID, locationID uint) error {
	caller, err := GetUser(ctx, db, callerID)
	if err != nil {
		return err
	}
	if !caller.CanManageRoles() {
		return fmt.Errorf("%w: only superadmins can delete locations", ErrForbidden)
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var loc Location
		if err := tx.First(&loc, locationID).Error; err != nil {
			return lookupErr(err, "location")
		}
		if err := tx.Model(&Event{}).Where("location_id = ?", locationID).
			Update("location_id", nil).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Delete(&Location{}, locationID).Error; err != nil {
			return storeErr(err)
		}
		return nil
	})
}
