package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"rsvphub/models"
)

var ErrInvalidRSVPStatus = errors.New("invalid rsvp status")

// RSVPSubmission carries a guest's response form.
type RSVPSubmission struct {
	GuestName           string
	GuestEmail          string
	GuestPhone          string
	Status              string
	GuestCount          int
	DietaryRequirements string
	SpecialRequests     string
	Message             string
}

// RSVPService reconciles incoming guest responses against stored RSVPs.
type RSVPService struct {
	db         *gorm.DB
	mailer     *Mailer
	milestones *MilestoneDetector
	log        zerolog.Logger
}

func NewRSVPService(db *gorm.DB, mailer *Mailer, milestones *MilestoneDetector, log zerolog.Logger) *RSVPService {
	return &RSVPService{db: db, mailer: mailer, milestones: milestones, log: log}
}

// Submit upserts a guest response keyed on (invitation, guest email). A
// non-empty email that matches a prior RSVP updates that record in place and
// refreshes its response timestamp; anything else creates a new record — a
// guest who responds twice without giving an email shows up as two separate
// responses. On create the milestone detector runs against the post-insert
// count, read inside the same transaction. Returns the stored RSVP and
// whether it was newly created.
func (s *RSVPService) Submit(inv *models.Invitation, sub RSVPSubmission) (*models.RSVP, bool, error) {
	status := models.RSVPStatus(sub.Status)
	if !status.Valid() {
		return nil, false, fmt.Errorf("%w: %q", ErrInvalidRSVPStatus, sub.Status)
	}
	if sub.GuestCount <= 0 {
		sub.GuestCount = 1
	}

	var (
		rsvp    models.RSVP
		created bool
		total   int64
	)

	submit := func(tx *gorm.DB) error {
		created = false

		if sub.GuestEmail != "" {
			var existing models.RSVP
			err := tx.Where("invitation_id = ? AND guest_email = ?", inv.ID, sub.GuestEmail).
				First(&existing).Error
			switch {
			case err == nil:
				applySubmission(&existing, sub, status)
				existing.RespondedAt = time.Now().UTC()
				if err := tx.Save(&existing).Error; err != nil {
					return err
				}
				rsvp = existing
				return nil
			case !errors.Is(err, gorm.ErrRecordNotFound):
				return err
			}
		}

		fresh := models.RSVP{InvitationID: inv.ID}
		applySubmission(&fresh, sub, status)
		if err := tx.Create(&fresh).Error; err != nil {
			return err
		}
		created = true
		rsvp = fresh

		// Post-insert count, same transaction, so the milestone check never
		// sees a stale total.
		return tx.Model(&models.RSVP{}).Where("invitation_id = ?", inv.ID).Count(&total).Error
	}

	err := s.db.Transaction(submit)
	if err != nil && IsDuplicateKey(err) && sub.GuestEmail != "" {
		// Lost a create race against the same guest; the retry resolves as
		// an update.
		err = s.db.Transaction(submit)
	}
	if err != nil {
		return nil, false, err
	}

	s.notify(inv, &rsvp, created, int(total))
	return &rsvp, created, nil
}

// RSVPStats is the response breakdown for an invitation.
type RSVPStats struct {
	Total        int64 `json:"total_rsvps"`
	Attending    int64 `json:"attending"`
	NotAttending int64 `json:"not_attending"`
	Maybe        int64 `json:"maybe"`
}

// Counts returns the RSVP breakdown for an invitation.
func (s *RSVPService) Counts(invitationID uuid.UUID) (*RSVPStats, error) {
	var rows []struct {
		Status models.RSVPStatus
		N      int64
	}
	err := s.db.Model(&models.RSVP{}).
		Select("status, count(*) as n").
		Where("invitation_id = ?", invitationID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	var stats RSVPStats
	for _, r := range rows {
		stats.Total += r.N
		switch r.Status {
		case models.RSVPAttending:
			stats.Attending = r.N
		case models.RSVPNotAttending:
			stats.NotAttending = r.N
		case models.RSVPMaybe:
			stats.Maybe = r.N
		}
	}
	return &stats, nil
}

// notify runs the post-commit side effects: guest confirmation, host notice
// and milestone check. All best-effort; failures are logged, never returned.
func (s *RSVPService) notify(inv *models.Invitation, rsvp *models.RSVP, created bool, total int) {
	var owner models.User
	if err := s.db.First(&owner, "id = ?", inv.UserID).Error; err != nil {
		s.log.Warn().Err(err).Str("code", inv.Code).Msg("could not load invitation owner for notifications")
		return
	}

	if rsvp.GuestEmail != "" {
		if err := s.mailer.SendRSVPConfirmation(rsvp.GuestName, rsvp.GuestEmail, inv); err != nil {
			s.log.Warn().Err(err).Str("code", inv.Code).Msg("rsvp confirmation email failed")
		}
	}

	if !created {
		return
	}

	if owner.EmailNotifications && owner.Email != "" {
		if err := s.mailer.SendNewRSVPNotification(owner.Email, owner.FullName, inv, rsvp); err != nil {
			s.log.Warn().Err(err).Str("code", inv.Code).Msg("new rsvp notification failed")
		}
	}

	s.milestones.Check(inv, &owner, total)
}

func applySubmission(r *models.RSVP, sub RSVPSubmission, status models.RSVPStatus) {
	r.GuestName = sub.GuestName
	r.GuestEmail = sub.GuestEmail
	r.GuestPhone = sub.GuestPhone
	r.Status = status
	r.GuestCount = sub.GuestCount
	r.DietaryRequirements = sub.DietaryRequirements
	r.SpecialRequests = sub.SpecialRequests
	r.Message = sub.Message
}
