package main

import (
	"time"
)

// Roles assignable to a user. Promotions only ever go upward:
// user -> admin (via superadmin approval). Superadmins are seeded.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User represents a registered user
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"size:50;not null"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Password     string    `json:"-" gorm:"size:255;not null"` // bcrypt hash, never serialized
	Role         string    `json:"role" gorm:"size:16;not null;default:user"`
	PendingAdmin bool      `json:"pending_admin" gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (u *User) IsSuperadmin() bool { return u.Role == RoleSuperadmin }

// CanCreateEvent reports whether the user may create and own events.
func (u *User) CanCreateEvent() bool { return u.Role == RoleAdmin || u.Role == RoleSuperadmin }

// CanManageRoles reports whether the user may approve or reject admin requests.
func (u *User) CanManageRoles() bool { return u.Role == RoleSuperadmin }

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Location is a normalized venue name shared between events.
type Location struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name" gorm:"size:255;uniqueIndex;not null"`
}

// Event is the core event model
type Event struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Title       string    `json:"title" gorm:"size:255;not null"`
	Date        time.Time `json:"date" gorm:"not null"`
	LocationID  *uint     `json:"location_id" gorm:"index"`
	Description string    `json:"description"`
	UserID      uint      `json:"user_id" gorm:"index;not null"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Location *Location `gorm:"foreignKey:LocationID" json:"location,omitempty"`
}

// Participant is a student's registration for an event. Contact and
// student id are each unique within their event; Token is the opaque
// identifier handed out for unauthenticated self-service lookup.
type Participant struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Name       string    `json:"name" gorm:"size:50;not null"`
	Contact    string    `json:"contact" gorm:"size:16;not null;index:uniq_event_contact,unique"`
	StudentID  string    `json:"student_id" gorm:"size:32;not null;index:uniq_event_student,unique"`
	EventID    uint      `json:"event_id" gorm:"not null;index:uniq_event_contact,unique;index:uniq_event_student,unique"`
	UserID     uint      `json:"user_id" gorm:"index;not null"`
	Attendance bool      `json:"attendance" gorm:"not null;default:true"`
	Token      string    `json:"token" gorm:"size:36;uniqueIndex;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Feedback is rating-bounded commentary on an event.
type Feedback struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	EventID      uint      `json:"event_id" gorm:"index;not null"`
	FeedbackText string    `json:"feedback_text" gorm:"not null;check:feedback_text <> ''"`
	Rating       int       `json:"rating" gorm:"not null;check:rating >= 1 AND rating <= 5"`
	CreatedAt    time.Time `json:"created_at"`
}
