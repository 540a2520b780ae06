package main

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestRegisterParticipantIssuesToken(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	admin := createTestUser(t, db, RoleAdmin)
	registrar := createTestUser(t, db, RoleUser)
	event := createTestEvent(t, db, admin, "Science Fair", 7)

	alice, err := RegisterParticipant(ctx, db, event.ID, registrar.ID, RegisterParticipantInput{
		Name:      "Alice",
		Contact:   "+15551234567",
		StudentID: "S100",
	})
	require.NoError(t, err)
	assert.True(t, alice.Attendance, "attendance defaults to true")
	require.NotEmpty(t, alice.Token)

	found, err := LookupParticipantByToken(ctx, db, event.ID, alice.Token)
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)
	assert.Equal(t, "Alice", found.Name)

	// same student id on the same event is rejected
	_, err = RegisterParticipant(ctx, db, event.ID, registrar.ID, RegisterParticipantInput{
		Name:      "Impostor",
		Contact:   "+15550000000",
		StudentID: "S100",
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)
}

func TestRegisterParticipantDuplicateContact(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	admin := createTestUser(t, db, RoleAdmin)
	registrar := createTestUser(t, db, RoleUser)
	event := createTestEvent(t, db, admin, "Science Fair", 7)
	other := createTestEvent(t, db, admin, "Concert", 14)

	_, err := RegisterParticipant(ctx, db, event.ID, registrar.ID, RegisterParticipantInput{
		Name: "Alice", Contact: "+15551234567", StudentID: "S100",
	})
	require.NoError(t, err)

	_, err = RegisterParticipant(ctx, db, event.ID, registrar.ID, RegisterParticipantInput{
		Name: "Bob", Contact: "+15551234567", StudentID: "S200",
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	// uniqueness is per event: the same student can join another event
	_, err = RegisterParticipant(ctx, db, other.ID, registrar.ID, RegisterParticipantInput{
		Name: "Alice", Contact: "+15551234567", StudentID: "S100",
	})
	require.NoError(t, err)
}

func TestRegisterParticipantConflictBackstop(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	admin := createTestUser(t, db, RoleAdmin)
	registrar := createTestUser(t, db, RoleUser)
	event := createTestEvent(t, db, admin, "Science Fair", 7)

	// Slip a row with the same contact in after the duplicate pre-check has
	// run, so only the unique index can catch the collision.
	sneaked := false
	require.NoError(t, db.Callback().Create().Before("gorm:create").
		Register("test_participant_conflict", func(g *gorm.DB) {
			p, ok := g.Statement.Dest.(*Participant)
			if !ok || sneaked {
				return
			}
			sneaked = true
			dup := &Participant{
				Name:       "First Comer",
				Contact:    p.Contact,
				StudentID:  "S999",
				EventID:    p.EventID,
				UserID:     p.UserID,
				Attendance: true,
				Token:      uuid.NewString(),
			}
			require.NoError(t, g.Session(&gorm.Session{NewDB: true}).Create(dup).Error)
		}))

	_, err := RegisterParticipant(ctx, db, event.ID, registrar.ID, RegisterParticipantInput{
		Name: "Alice", Contact: "+15551234567", StudentID: "S100",
	})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	// The conflicting insert ran on the registration's own transaction, so
	// the rollback takes both rows with it.
	var count int64
	require.NoError(t, db.Model(&Participant{}).Where("event_id = ?", event.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterParticipantInvalidContact(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	admin := createTestUser(t, db, RoleAdmin)
	registrar := createTestUser(t, db, RoleUser)
	event := createTestEvent(t, db, admin, "Science Fair", 7)

	_, err := RegisterParticipant(ctx, db, event.ID, registrar.ID, RegisterParticipantInput{
		Name: "Alice", Contact: "not-a-phone", StudentID: "S100",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	// nothing persisted on rejection
	var count int64
	require.NoError(t, db.Model(&Participant{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRegisterParticipantEventNotFound(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	registrar := createTestUser(t, db, RoleUser)

	_, err := RegisterParticipant(ctx, db, 12345, registrar.ID, RegisterParticipantInput{
		Name: "Alice", Contact: "+15551234567", StudentID: "S100",
	})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLookupParticipantByTokenScopedToEvent(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	admin := createTestUser(t, db, RoleAdmin)
	registrar := createTestUser(t, db, RoleUser)
	event := createTestEvent(t, db, admin, "Science Fair", 7)
	other := createTestEvent(t, db, admin, "Concert", 14)

	alice := createTestParticipant(t, db, event, registrar, "1234567890", "S100")

	_, err := LookupParticipantByToken(ctx, db, other.ID, alice.Token)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = LookupParticipantByToken(ctx, db, event.ID, "bogus-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateParticipantStudentIDUniqueness(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	admin := createTestUser(t, db, RoleAdmin)
	registrar := createTestUser(t, db, RoleUser)
	event := createTestEvent(t, db, admin, "Science Fair", 7)

	createTestParticipant(t, db, event, registrar, "1234567890", "S100")
	bob := createTestParticipant(t, db, event, registrar, "1234567891", "S200")

	taken := "S100"
	_, err := UpdateParticipant(ctx, db, bob.ID, ParticipantPatch{StudentID: &taken})
	assert.ErrorIs(t, err, ErrDuplicateRegistration)

	// keeping your own student id is not a conflict with yourself
	own := "S200"
	name := "Robert"
	updated, err := UpdateParticipant(ctx, db, bob.ID, ParticipantPatch{StudentID: &own, Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Robert", updated.Name)

	bad := "12"
	_, err = UpdateParticipant(ctx, db, bob.ID, ParticipantPatch{Contact: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = UpdateParticipant(ctx, db, bob.ID+999, ParticipantPatch{Name: &name})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSetAttendance(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	admin := createTestUser(t, db, RoleAdmin)
	registrar := createTestUser(t, db, RoleUser)
	event := createTestEvent(t, db, admin, "Science Fair", 7)
	alice := createTestParticipant(t, db, event, registrar, "1234567890", "S100")

	require.NoError(t, SetAttendance(ctx, db, alice.ID, false))

	var reloaded Participant
	require.NoError(t, db.First(&reloaded, alice.ID).Error)
	assert.False(t, reloaded.Attendance)

	require.NoError(t, SetAttendance(ctx, db, alice.ID, true))
	require.NoError(t, db.First(&reloaded, alice.ID).Error)
	assert.True(t, reloaded.Attendance)

	err := SetAttendance(ctx, db, alice.ID+999, true)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStatsForEvent(t *testing.T) {
	db := setupTestDB(t)
	ctx := testCtx(t)

	admin := createTestUser(t, db, RoleAdmin)
	registrar := createTestUser(t, db, RoleUser)
	event := createTestEvent(t, db, admin, "Science Fair", 7)

	stats, err := StatsForEvent(ctx, db, event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, stats.Total)
	assert.EqualValues(t, 0, stats.Attended)
	assert.Zero(t, stats.Rate, "no participants means rate 0, not a division by zero")

	createTestParticipant(t, db, event, registrar, "1234567890", "S100")
	createTestParticipant(t, db, event, registrar, "1234567891", "S200")
	absent := createTestParticipant(t, db, event, registrar, "1234567892", "S300")
	require.NoError(t, SetAttendance(ctx, db, absent.ID, false))

	stats, err = StatsForEvent(ctx, db, event.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 3, stats.Total)
	assert.EqualValues(t, 2, stats.Attended)
	assert.InDelta(t, 66.67, stats.Rate, 0.001)

	_, err = StatsForEvent(ctx, db, event.ID+999)
	assert.ErrorIs(t, err, ErrNotFound)
}
