package services

import (
	"slices"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"rsvphub/models"
)

// DefaultMilestones are the RSVP counts that trigger a host notification.
var DefaultMilestones = []int{10, 25, 50, 100}

// MilestoneDetector watches an invitation's RSVP count and notifies the host
// exactly once per configured threshold.
type MilestoneDetector struct {
	db         *gorm.DB
	mailer     *Mailer
	thresholds []int
	log        zerolog.Logger
}

func NewMilestoneDetector(db *gorm.DB, mailer *Mailer, thresholds []int, log zerolog.Logger) *MilestoneDetector {
	if len(thresholds) == 0 {
		thresholds = DefaultMilestones
	}
	return &MilestoneDetector{db: db, mailer: mailer, thresholds: thresholds, log: log}
}

// Check inspects a post-increment RSVP count. A threshold fires only when the
// count lands exactly on it, so a bulk change that jumps over a threshold
// never fires it. The fired set is persisted on the invitation, so a
// threshold can never notify twice. Notification failures are logged and
// swallowed — they must not fail the RSVP write that triggered the check.
func (d *MilestoneDetector) Check(inv *models.Invitation, owner *models.User, count int) {
	for _, threshold := range d.thresholds {
		if count != threshold {
			continue
		}
		if slices.Contains([]int(inv.NotifiedMilestones), threshold) {
			return
		}

		inv.NotifiedMilestones = append(inv.NotifiedMilestones, threshold)
		if err := d.db.Model(inv).Update("notified_milestones", inv.NotifiedMilestones).Error; err != nil {
			d.log.Error().Err(err).Str("code", inv.Code).Int("milestone", threshold).
				Msg("failed to record milestone")
			return
		}

		if owner.EmailMilestones && owner.Email != "" {
			if err := d.mailer.SendMilestoneNotification(owner.Email, owner.FullName, inv, threshold); err != nil {
				d.log.Warn().Err(err).Str("code", inv.Code).Int("milestone", threshold).
					Msg("milestone notification failed")
			}
		}
		return
	}
}

// Thresholds returns the configured milestone counts.
func (d *MilestoneDetector) Thresholds() []int {
	return slices.Clone(d.thresholds)
}
