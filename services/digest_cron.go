package services

import (
	"context"
	"fmt"
	"time"

	"influencia-backend/models"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// StatsCollector fournit les compteurs publiés par le récapitulatif
type StatsCollector interface {
	Collect(ctx context.Context) (*models.AdminStatsResponse, error)
}

// DigestSender publie le récapitulatif
type DigestSender interface {
	SendDailyDigest(stats *models.AdminStatsResponse) error
}

// DigestCron publie chaque jour un récapitulatif des inscriptions sur Slack
type DigestCron struct {
	stats    StatsCollector
	sender   DigestSender
	schedule string
	cron     *cron.Cron
}

// NewDigestCron crée une nouvelle instance
func NewDigestCron(stats StatsCollector, sender DigestSender, schedule string) *DigestCron {
	return &DigestCron{
		stats:    stats,
		sender:   sender,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Start démarre le cron job
func (dc *DigestCron) Start() error {
	if _, err := dc.cron.AddFunc(dc.schedule, dc.run); err != nil {
		return fmt.Errorf("planification du récapitulatif invalide (%q): %w", dc.schedule, err)
	}
	dc.cron.Start()
	log.Info().Str("schedule", dc.schedule).Msg("✓ Cron job récapitulatif démarré")
	return nil
}

// Stop arrête le cron job et attend la fin d'une exécution en cours
func (dc *DigestCron) Stop() {
	<-dc.cron.Stop().Done()
}

func (dc *DigestCron) run() {
	if err := dc.RunOnce(context.Background()); err != nil {
		log.Error().Err(err).Msg("❌ Erreur récapitulatif quotidien")
	}
}

// RunOnce calcule et publie le récapitulatif
func (dc *DigestCron) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	stats, err := dc.stats.Collect(ctx)
	if err != nil {
		return fmt.Errorf("erreur calcul des statistiques: %w", err)
	}

	if err := dc.sender.SendDailyDigest(stats); err != nil {
		return fmt.Errorf("erreur envoi du récapitulatif: %w", err)
	}

	log.Info().Int64("registrations", stats.TotalRegistrations).Int64("attended", stats.Attended).Msg("📊 Récapitulatif quotidien envoyé")
	return nil
}
