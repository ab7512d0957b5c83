package services

import (
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rsvphub/models"
)

type milestoneFixture struct {
	db       *gorm.DB
	notifier *fakeNotifier
	detector *MilestoneDetector
	owner    models.User
	inv      models.Invitation
}

func newMilestoneFixture(t *testing.T, thresholds []int) *milestoneFixture {
	t.Helper()

	db := newTestDB(t)
	notifier := &fakeNotifier{}
	mailer := NewMailer(notifier, "http://localhost:8080", zerolog.Nop())
	detector := NewMilestoneDetector(db, mailer, thresholds, zerolog.Nop())

	owner := models.User{
		Username:        "host",
		Email:           "host@example.com",
		PasswordHash:    "x",
		FullName:        "Host Person",
		EmailMilestones: true,
	}
	require.NoError(t, db.Create(&owner).Error)

	inv := models.Invitation{
		Title:     "Big Event",
		EventType: "party",
		EventDate: time.Now().Add(30 * 24 * time.Hour),
		HostName:  "Host Person",
		Code:      "EVENT123",
		UserID:    owner.ID,
	}
	require.NoError(t, db.Create(&inv).Error)

	return &milestoneFixture{db: db, notifier: notifier, detector: detector, owner: owner, inv: inv}
}

func TestCheck_FiresExactlyAtThresholds(t *testing.T) {
	f := newMilestoneFixture(t, []int{10, 25, 50})

	for count := 1; count <= 25; count++ {
		before := f.notifier.count()
		f.detector.Check(&f.inv, &f.owner, count)
		fired := f.notifier.count() - before

		if count == 10 || count == 25 {
			assert.Equal(t, 1, fired, "count %d should fire exactly once", count)
		} else {
			assert.Equal(t, 0, fired, "count %d should not fire", count)
		}
	}
}

func TestCheck_NeverFiresTwice(t *testing.T) {
	f := newMilestoneFixture(t, []int{10})

	f.detector.Check(&f.inv, &f.owner, 10)
	require.Equal(t, 1, f.notifier.count())

	// Repeated checks at the same count stay silent, even from a fresh
	// detector reading the persisted state.
	f.detector.Check(&f.inv, &f.owner, 10)
	f.detector.Check(&f.inv, &f.owner, 10)
	assert.Equal(t, 1, f.notifier.count())

	var reloaded models.Invitation
	require.NoError(t, f.db.First(&reloaded, "id = ?", f.inv.ID).Error)
	fresh := NewMilestoneDetector(f.db, NewMailer(f.notifier, "http://localhost:8080", zerolog.Nop()), []int{10}, zerolog.Nop())
	fresh.Check(&reloaded, &f.owner, 10)
	assert.Equal(t, 1, f.notifier.count())
}

func TestCheck_SkippedThresholdNeverFires(t *testing.T) {
	f := newMilestoneFixture(t, []int{10})

	// count jumps from 8 straight to 12: 10 is never observed
	f.detector.Check(&f.inv, &f.owner, 8)
	f.detector.Check(&f.inv, &f.owner, 12)
	assert.Equal(t, 0, f.notifier.count())

	// and later counts past the threshold stay silent too
	f.detector.Check(&f.inv, &f.owner, 13)
	f.detector.Check(&f.inv, &f.owner, 100)
	assert.Equal(t, 0, f.notifier.count())
}

func TestCheck_PersistsFiredSet(t *testing.T) {
	f := newMilestoneFixture(t, []int{10, 25})

	f.detector.Check(&f.inv, &f.owner, 10)
	f.detector.Check(&f.inv, &f.owner, 25)

	var reloaded models.Invitation
	require.NoError(t, f.db.First(&reloaded, "id = ?", f.inv.ID).Error)
	assert.ElementsMatch(t, []int{10, 25}, []int(reloaded.NotifiedMilestones))
}

func TestCheck_HonorsEmailPreference(t *testing.T) {
	f := newMilestoneFixture(t, []int{10})

	f.owner.EmailMilestones = false
	require.NoError(t, f.db.Model(&f.owner).Update("email_milestones", false).Error)

	f.detector.Check(&f.inv, &f.owner, 10)
	assert.Equal(t, 0, f.notifier.count())

	// the milestone is still recorded even though no email went out
	var reloaded models.Invitation
	require.NoError(t, f.db.First(&reloaded, "id = ?", f.inv.ID).Error)
	assert.ElementsMatch(t, []int{10}, []int(reloaded.NotifiedMilestones))
}

func TestCheck_DefaultThresholds(t *testing.T) {
	f := newMilestoneFixture(t, nil)

	assert.Equal(t, []int{10, 25, 50, 100}, f.detector.Thresholds())

	f.detector.Check(&f.inv, &f.owner, 100)
	assert.Equal(t, 1, f.notifier.count())
}
