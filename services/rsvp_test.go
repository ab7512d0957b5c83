package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rsvphub/models"
)

type rsvpFixture struct {
	db       *gorm.DB
	notifier *fakeNotifier
	svc      *RSVPService
	owner    models.User
	inv      models.Invitation
}

func newRSVPFixture(t *testing.T, thresholds []int) *rsvpFixture {
	t.Helper()

	db := newTestDB(t)
	notifier := &fakeNotifier{}
	mailer := NewMailer(notifier, "http://localhost:8080", zerolog.Nop())
	milestones := NewMilestoneDetector(db, mailer, thresholds, zerolog.Nop())
	svc := NewRSVPService(db, mailer, milestones, zerolog.Nop())

	owner := models.User{
		Username:           "host",
		Email:              "host@example.com",
		PasswordHash:       "x",
		FullName:           "Host Person",
		EmailNotifications: true,
		EmailMilestones:    true,
	}
	require.NoError(t, db.Create(&owner).Error)

	inv := models.Invitation{
		Title:     "Summer Party",
		EventType: "party",
		EventDate: time.Now().Add(30 * 24 * time.Hour),
		HostName:  "Host Person",
		Code:      "AB12CD34",
		UserID:    owner.ID,
	}
	require.NoError(t, db.Create(&inv).Error)

	return &rsvpFixture{db: db, notifier: notifier, svc: svc, owner: owner, inv: inv}
}

func (f *rsvpFixture) storedRSVPs(t *testing.T) []models.RSVP {
	t.Helper()
	var rsvps []models.RSVP
	require.NoError(t, f.db.Where("invitation_id = ?", f.inv.ID).Find(&rsvps).Error)
	return rsvps
}

func TestSubmit_InvalidStatusRejected(t *testing.T) {
	f := newRSVPFixture(t, nil)

	_, _, err := f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName: "Sam",
		Status:    "definitely",
	})
	assert.ErrorIs(t, err, ErrInvalidRSVPStatus)
	assert.Empty(t, f.storedRSVPs(t))
}

func TestSubmit_SameEmailUpdatesInPlace(t *testing.T) {
	f := newRSVPFixture(t, nil)

	first, created, err := f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName:  "Sam",
		GuestEmail: "sam@x.com",
		Status:     "attending",
		GuestCount: 2,
	})
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName:  "Sam",
		GuestEmail: "sam@x.com",
		Status:     "maybe",
		GuestCount: 1,
		Message:    "might be travelling",
	})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	stored := f.storedRSVPs(t)
	require.Len(t, stored, 1)
	assert.Equal(t, models.RSVPMaybe, stored[0].Status)
	assert.Equal(t, 1, stored[0].GuestCount)
	assert.Equal(t, "might be travelling", stored[0].Message)
	assert.False(t, stored[0].RespondedAt.Before(first.RespondedAt))
}

func TestSubmit_NoEmailAlwaysCreates(t *testing.T) {
	f := newRSVPFixture(t, nil)

	sub := RSVPSubmission{GuestName: "Anonymous", Status: "attending"}

	_, created, err := f.svc.Submit(&f.inv, sub)
	require.NoError(t, err)
	assert.True(t, created)

	_, created, err = f.svc.Submit(&f.inv, sub)
	require.NoError(t, err)
	assert.True(t, created)

	assert.Len(t, f.storedRSVPs(t), 2)
}

func TestSubmit_DifferentEmailsCreateSeparateRecords(t *testing.T) {
	f := newRSVPFixture(t, nil)

	for _, email := range []string{"a@x.com", "b@x.com"} {
		_, created, err := f.svc.Submit(&f.inv, RSVPSubmission{
			GuestName:  "Guest",
			GuestEmail: email,
			Status:     "attending",
		})
		require.NoError(t, err)
		assert.True(t, created)
	}

	assert.Len(t, f.storedRSVPs(t), 2)
}

func TestSubmit_DefaultsGuestCountToOne(t *testing.T) {
	f := newRSVPFixture(t, nil)

	rsvp, _, err := f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName: "Solo",
		Status:    "attending",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, rsvp.GuestCount)
}

func TestSubmit_SendsHostAndGuestNotifications(t *testing.T) {
	f := newRSVPFixture(t, nil)

	_, _, err := f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName:  "Sam",
		GuestEmail: "sam@x.com",
		Status:     "attending",
	})
	require.NoError(t, err)

	var guestConfirm, hostNotice bool
	for _, mail := range f.notifier.sent {
		if mail.To == "sam@x.com" && strings.Contains(mail.Subject, "RSVP Confirmed") {
			guestConfirm = true
		}
		if mail.To == "host@example.com" && strings.Contains(mail.Subject, "New RSVP") {
			hostNotice = true
		}
	}
	assert.True(t, guestConfirm, "guest confirmation not sent")
	assert.True(t, hostNotice, "host notification not sent")
}

func TestSubmit_NotificationFailureDoesNotFailWrite(t *testing.T) {
	f := newRSVPFixture(t, nil)
	f.notifier.failWith = errors.New("smtp down")

	_, created, err := f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName:  "Sam",
		GuestEmail: "sam@x.com",
		Status:     "attending",
	})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Len(t, f.storedRSVPs(t), 1)
}

func TestSubmit_UpdateDoesNotTriggerMilestone(t *testing.T) {
	f := newRSVPFixture(t, []int{1})

	_, _, err := f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName:  "Sam",
		GuestEmail: "sam@x.com",
		Status:     "attending",
	})
	require.NoError(t, err)

	milestonesBefore := milestoneMailCount(f.notifier)
	assert.Equal(t, 1, milestonesBefore)

	// the update leaves the count unchanged, so no milestone check fires
	_, _, err = f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName:  "Sam",
		GuestEmail: "sam@x.com",
		Status:     "maybe",
	})
	require.NoError(t, err)
	assert.Equal(t, milestonesBefore, milestoneMailCount(f.notifier))
}

func TestSubmit_EndToEndScenario(t *testing.T) {
	f := newRSVPFixture(t, nil)

	rsvp, created, err := f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName:  "Sam",
		GuestEmail: "sam@x.com",
		Status:     "attending",
		GuestCount: 2,
	})
	require.NoError(t, err)
	require.True(t, created)
	assert.Equal(t, models.RSVPAttending, rsvp.Status)

	_, created, err = f.svc.Submit(&f.inv, RSVPSubmission{
		GuestName:  "Sam",
		GuestEmail: "sam@x.com",
		Status:     "maybe",
		GuestCount: 1,
	})
	require.NoError(t, err)
	assert.False(t, created)

	stored := f.storedRSVPs(t)
	require.Len(t, stored, 1)
	assert.Equal(t, models.RSVPMaybe, stored[0].Status)
	assert.Equal(t, 1, stored[0].GuestCount)
}

func TestCounts(t *testing.T) {
	f := newRSVPFixture(t, nil)

	for i, status := range []string{"attending", "attending", "maybe", "not_attending"} {
		_, _, err := f.svc.Submit(&f.inv, RSVPSubmission{
			GuestName: "Guest",
			Status:    status,
			// no email: each submission is an independent record
		})
		require.NoError(t, err, "submission %d", i)
	}

	stats, err := f.svc.Counts(f.inv.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Total)
	assert.Equal(t, int64(2), stats.Attending)
	assert.Equal(t, int64(1), stats.NotAttending)
	assert.Equal(t, int64(1), stats.Maybe)
}

func milestoneMailCount(f *fakeNotifier) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, mail := range f.sent {
		if strings.Contains(mail.Subject, "Milestone Reached") {
			n++
		}
	}
	return n
}
