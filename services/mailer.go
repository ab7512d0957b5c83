package services

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"rsvphub/config"
	"rsvphub/models"
)

// Notifier delivers a single message to a recipient. Delivery is best-effort
// from the caller's perspective: a failed notification must never fail the
// write that triggered it.
type Notifier interface {
	Send(to, subject, htmlBody string) error
}

type smtpNotifier struct {
	dialer    *gomail.Dialer
	fromEmail string
	fromName  string
}

func (n *smtpNotifier) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", n.fromEmail, n.fromName)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return n.dialer.DialAndSend(msg)
}

type noopNotifier struct{}

func (noopNotifier) Send(to, subject, htmlBody string) error { return nil }

// NewSMTPNotifier builds a Notifier from SMTP config. When credentials are
// missing it returns a no-op notifier so the app runs fine without email.
func NewSMTPNotifier(cfg *config.Config) Notifier {
	if cfg.SMTPUsername == "" || cfg.SMTPPassword == "" {
		return noopNotifier{}
	}

	from := cfg.FromEmail
	if from == "" {
		from = cfg.SMTPUsername
	}

	return &smtpNotifier{
		dialer:    gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword),
		fromEmail: from,
		fromName:  cfg.FromName,
	}
}

// Mailer composes and sends the application's notification emails.
type Mailer struct {
	notifier Notifier
	baseURL  string
	log      zerolog.Logger
}

func NewMailer(notifier Notifier, baseURL string, log zerolog.Logger) *Mailer {
	return &Mailer{notifier: notifier, baseURL: baseURL, log: log}
}

// ShareURL is the public link for an invitation code.
func (m *Mailer) ShareURL(code string) string {
	return m.baseURL + "/invitation/" + code
}

// SendRSVPConfirmation confirms a guest's response.
func (m *Mailer) SendRSVPConfirmation(guestName, guestEmail string, inv *models.Invitation) error {
	subject := fmt.Sprintf("RSVP Confirmed: %s", inv.Title)

	eventTime := inv.EventTime
	if eventTime == "" {
		eventTime = "TBA"
	}
	venue := inv.VenueName
	if venue == "" {
		venue = "TBA"
	}

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h2>🎉 RSVP Confirmed!</h2>
			<p>Hi %s,</p>
			<p>Your RSVP for <strong>%s</strong> has been confirmed!</p>
			<ul>
				<li>Date: %s</li>
				<li>Time: %s</li>
				<li>Venue: %s</li>
			</ul>
			<p>We're excited to see you there!</p>
			<p><a href="%s">View Invitation</a></p>
		</div>
	`, guestName, inv.Title, inv.EventDate.Format("Monday, January 2, 2006"), eventTime, venue, m.ShareURL(inv.Code))

	return m.notifier.Send(guestEmail, subject, html)
}

// SendNewRSVPNotification tells the host someone responded.
func (m *Mailer) SendNewRSVPNotification(hostEmail, hostName string, inv *models.Invitation, rsvp *models.RSVP) error {
	subject := fmt.Sprintf("New RSVP: %s for %s", rsvp.GuestName, inv.Title)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h2>📬 New RSVP</h2>
			<p>Hi %s,</p>
			<p><strong>%s</strong> responded <strong>%s</strong> to <strong>%s</strong> (party of %d).</p>
			<p><a href="%s">Manage RSVPs</a></p>
		</div>
	`, hostName, rsvp.GuestName, rsvp.Status, inv.Title, rsvp.GuestCount, m.ShareURL(inv.Code))

	return m.notifier.Send(hostEmail, subject, html)
}

// SendMilestoneNotification congratulates the host on reaching an RSVP count.
func (m *Mailer) SendMilestoneNotification(hostEmail, hostName string, inv *models.Invitation, milestone int) error {
	subject := fmt.Sprintf("🎉 Milestone Reached: %d RSVPs for %s!", milestone, inv.Title)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h2>🎉 %d RSVPs!</h2>
			<p>Hi %s,</p>
			<p>Congratulations! Your event <strong>%s</strong> has reached <strong>%d RSVPs</strong>!</p>
			<p><a href="%s">View RSVPs</a></p>
		</div>
	`, milestone, hostName, inv.Title, milestone, m.ShareURL(inv.Code))

	return m.notifier.Send(hostEmail, subject, html)
}

// SendEventReminder reminds a guest ahead of the event date.
func (m *Mailer) SendEventReminder(guestName, guestEmail string, inv *models.Invitation) error {
	subject := fmt.Sprintf("Reminder: %s is coming up!", inv.Title)

	html := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; max-width: 600px; margin: auto; padding: 20px;">
			<h2>⏰ Event Reminder</h2>
			<p>Hi %s,</p>
			<p><strong>%s</strong> is on %s. See you there!</p>
			<p><a href="%s">View Invitation</a></p>
		</div>
	`, guestName, inv.Title, inv.EventDate.Format("Monday, January 2, 2006"), m.ShareURL(inv.Code))

	return m.notifier.Send(guestEmail, subject, html)
}
