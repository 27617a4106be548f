package services

import (
	"bytes"
	"fmt"
	"html/template"
	"io"

	"influencia-backend/config"
	"influencia-backend/models"
	"influencia-backend/utils"

	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"
)

var epassTemplate = template.Must(template.New("epass").Parse(`<h2>Hello {{.Name}},</h2>
<p>Your registration for <strong>Influencia Edition 2</strong> is confirmed.</p>
<p>Ticket: <strong>{{.TicketType}}</strong><br>Code: <code>{{.QRCode}}</code></p>
<p>Show the attached QR code at the entrance, or open your e-pass: <a href="{{.Link}}">{{.Link}}</a></p>`))

var volunteerTemplate = template.Must(template.New("volunteer").Parse(`<h2>Hello {{.Name}},</h2>
<p>Thank you for applying to volunteer at <strong>Influencia Edition 2</strong>.</p>
<p>Availability: <strong>{{.Availability}}</strong>. Our team will contact you soon.</p>`))

// Mailer envoie les e-pass et les confirmations par SMTP
type Mailer struct {
	from    string
	baseURL string
	enabled bool
	send    func(...*gomail.Message) error
}

// NewMailer crée le service d'email. Sans SMTP_HOST, les envois sont ignorés.
func NewMailer(smtp config.SMTPConfig, publicBaseURL string) *Mailer {
	m := &Mailer{
		from:    smtp.From,
		baseURL: publicBaseURL,
		enabled: smtp.Enabled(),
	}
	if !m.enabled {
		log.Warn().Msg("⚠️  SMTP non configuré - emails désactivés")
		return m
	}

	dialer := gomail.NewDialer(smtp.Host, smtp.Port, smtp.Username, smtp.Password)
	m.send = dialer.DialAndSend
	return m
}

// TicketLink construit le lien public de l'e-pass
func (m *Mailer) TicketLink(qrCode string) string {
	return fmt.Sprintf("%s/ticket/%s", m.baseURL, qrCode)
}

// BuildEPass construit l'email d'e-pass avec le QR code en pièce jointe
func (m *Mailer) BuildEPass(reg *models.Registration) (*gomail.Message, error) {
	var body bytes.Buffer
	err := epassTemplate.Execute(&body, map[string]string{
		"Name":       reg.FullName,
		"TicketType": reg.TicketType,
		"QRCode":     reg.QRCode,
		"Link":       m.TicketLink(reg.QRCode),
	})
	if err != nil {
		return nil, fmt.Errorf("erreur rendu email e-pass: %w", err)
	}

	png, err := utils.QRCodePNG(reg.QRCode, utils.QRCodeSize)
	if err != nil {
		return nil, err
	}

	msg := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", reg.Email)
	msg.SetHeader("Subject", "Your Influencia Edition 2 e-pass")
	msg.SetBody("text/html", body.String())
	msg.Attach("epass-"+reg.QRCode+".png", gomail.SetCopyFunc(func(w io.Writer) error {
		_, err := w.Write(png)
		return err
	}))
	return msg, nil
}

// BuildVolunteerConfirmation construit l'accusé de réception d'une candidature
func (m *Mailer) BuildVolunteerConfirmation(v *models.Volunteer) (*gomail.Message, error) {
	var body bytes.Buffer
	err := volunteerTemplate.Execute(&body, map[string]string{
		"Name":         v.FullName,
		"Availability": v.Availability,
	})
	if err != nil {
		return nil, fmt.Errorf("erreur rendu email bénévole: %w", err)
	}

	msg := gomail.NewMessage(gomail.SetEncoding(gomail.Unencoded))
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", v.Email)
	msg.SetHeader("Subject", "Influencia Edition 2 - volunteer application received")
	msg.SetBody("text/html", body.String())
	return msg, nil
}

// SendEPass envoie l'e-pass au participant
func (m *Mailer) SendEPass(reg *models.Registration) error {
	if !m.enabled {
		return nil
	}
	msg, err := m.BuildEPass(reg)
	if err != nil {
		return err
	}
	if err := m.send(msg); err != nil {
		return fmt.Errorf("erreur envoi e-pass à %s: %w", reg.Email, err)
	}
	log.Info().Str("email", reg.Email).Msg("📧 E-pass envoyé")
	return nil
}

// SendVolunteerConfirmation envoie l'accusé de réception au bénévole
func (m *Mailer) SendVolunteerConfirmation(v *models.Volunteer) error {
	if !m.enabled {
		return nil
	}
	msg, err := m.BuildVolunteerConfirmation(v)
	if err != nil {
		return err
	}
	if err := m.send(msg); err != nil {
		return fmt.Errorf("erreur envoi confirmation à %s: %w", v.Email, err)
	}
	log.Info().Str("email", v.Email).Msg("📧 Confirmation bénévole envoyée")
	return nil
}
