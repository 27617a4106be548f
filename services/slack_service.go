package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"influencia-backend/models"

	"github.com/rs/zerolog/log"
)

const slackFooter = "Influencia Edition 2 - Backend"

// SlackService gère l'envoi de notifications Slack
type SlackService struct {
	webhookURL string
	client     *http.Client
}

// SlackMessage représente un message Slack
type SlackMessage struct {
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment représente une pièce jointe Slack
type Attachment struct {
	Color     string  `json:"color,omitempty"`
	Title     string  `json:"title,omitempty"`
	Text      string  `json:"text,omitempty"`
	Fields    []Field `json:"fields,omitempty"`
	Timestamp int64   `json:"ts,omitempty"`
	Footer    string  `json:"footer,omitempty"`
}

// Field représente un champ dans une pièce jointe Slack
type Field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// NewSlackService crée une nouvelle instance de SlackService
func NewSlackService(webhookURL string) *SlackService {
	if webhookURL == "" {
		log.Warn().Msg("⚠️  Slack webhook URL non configuré - notifications Slack désactivées")
	}

	return &SlackService{
		webhookURL: webhookURL,
		client: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Enabled indique si un webhook est configuré
func (s *SlackService) Enabled() bool {
	return s != nil && s.webhookURL != ""
}

// send poste un message sur le webhook
func (s *SlackService) send(msg SlackMessage) error {
	if !s.Enabled() {
		return nil // Service désactivé
	}

	jsonData, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("erreur lors de la sérialisation du message Slack: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.webhookURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return fmt.Errorf("erreur lors de la création de la requête: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("erreur lors de l'envoi à Slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack a retourné un code d'erreur: %d", resp.StatusCode)
	}
	return nil
}

// SendErrorNotification envoie une notification d'erreur sur Slack
func (s *SlackService) SendErrorNotification(errorType, method, path, statusCode, message, origin, userAgent string) error {
	// Rouge par défaut, orange pour les erreurs CORS/Forbidden
	color := "danger"
	if statusCode == "403" {
		color = "warning"
	}

	attachment := Attachment{
		Color:     color,
		Title:     fmt.Sprintf("🚨 Erreur serveur: %s", errorType),
		Text:      message,
		Timestamp: time.Now().Unix(),
		Footer:    slackFooter,
		Fields: []Field{
			{Title: "Méthode", Value: method, Short: true},
			{Title: "Status Code", Value: statusCode, Short: true},
			{Title: "Chemin", Value: path, Short: false},
		},
	}
	if origin != "" {
		attachment.Fields = append(attachment.Fields, Field{Title: "Origin", Value: origin, Short: true})
	}
	if userAgent != "" {
		attachment.Fields = append(attachment.Fields, Field{Title: "User-Agent", Value: userAgent, Short: false})
	}

	if err := s.send(SlackMessage{Attachments: []Attachment{attachment}}); err != nil {
		return err
	}

	log.Info().Str("method", method).Str("path", path).Msg("✓ Notification Slack envoyée")
	return nil
}

// SendCriticalError envoie une notification pour une erreur critique
func (s *SlackService) SendCriticalError(method, path, statusCode, errorMessage, origin, userAgent string) {
	if err := s.SendErrorNotification("Erreur Critique", method, path, statusCode, errorMessage, origin, userAgent); err != nil {
		log.Error().Err(err).Msg("❌ Erreur lors de l'envoi de la notification Slack")
	}
}

// SendCORSError envoie une notification pour une erreur CORS
func (s *SlackService) SendCORSError(method, path, origin, userAgent string) {
	if err := s.SendErrorNotification(
		"Erreur CORS",
		method,
		path,
		"403",
		fmt.Sprintf("Origine non autorisée: %s", origin),
		origin,
		userAgent,
	); err != nil {
		log.Error().Err(err).Msg("❌ Erreur lors de l'envoi de la notification Slack")
	}
}

// SendFrontendAlert relaie une alerte critique remontée par le frontend
func (s *SlackService) SendFrontendAlert(alert *models.CriticalAlert) error {
	fields := []Field{
		{Title: "Type", Value: alert.ErrorType, Short: true},
		{Title: "Endpoint", Value: alert.EndpointFailed, Short: true},
		{Title: "IP", Value: alert.ClientIP, Short: true},
	}
	if alert.Page != "" {
		fields = append(fields, Field{Title: "Page", Value: alert.Page, Short: true})
	}

	return s.send(SlackMessage{Attachments: []Attachment{{
		Color:     "danger",
		Title:     "🚨 Alerte critique du frontend",
		Text:      alert.ErrorMessage,
		Fields:    fields,
		Timestamp: alert.CreatedAt.Unix(),
		Footer:    slackFooter,
	}}})
}

// SendDailyDigest publie le récapitulatif quotidien des inscriptions
func (s *SlackService) SendDailyDigest(stats *models.AdminStatsResponse) error {
	itoa := func(n int64) string { return strconv.FormatInt(n, 10) }

	fields := []Field{
		{Title: "Inscriptions", Value: itoa(stats.TotalRegistrations), Short: true},
		{Title: "Présents", Value: itoa(stats.Attended), Short: true},
		{Title: "Paiements confirmés", Value: itoa(stats.ConfirmedPayments), Short: true},
		{Title: "Bénévoles", Value: itoa(stats.TotalVolunteers), Short: true},
	}
	for _, tt := range []string{models.TicketStandard, models.TicketPremium, models.TicketVIP} {
		fields = append(fields, Field{Title: "Billets " + tt, Value: itoa(stats.ByTicketType[tt]), Short: true})
	}

	return s.send(SlackMessage{Attachments: []Attachment{{
		Color:     "good",
		Title:     "📊 Récapitulatif quotidien Influencia",
		Fields:    fields,
		Timestamp: time.Now().Unix(),
		Footer:    slackFooter,
	}}})
}
