package services

import (
	"context"

	"influencia-backend/models"
)

// RegistrationCounter est implémenté par database.RegistrationRepository
type RegistrationCounter interface {
	Stats(ctx context.Context) (*models.RegistrationStats, error)
}

// Counter compte les documents actifs d'une collection
type Counter interface {
	Count(ctx context.Context) (int64, error)
}

// PublishedCounter compte les formations publiées
type PublishedCounter interface {
	CountPublished(ctx context.Context) (int64, error)
}

// StatsService agrège les compteurs du tableau de bord
type StatsService struct {
	registrations RegistrationCounter
	volunteers    Counter
	contacts      Counter
	courses       PublishedCounter
}

// NewStatsService crée une nouvelle instance
func NewStatsService(registrations RegistrationCounter, volunteers, contacts Counter, courses PublishedCounter) *StatsService {
	return &StatsService{
		registrations: registrations,
		volunteers:    volunteers,
		contacts:      contacts,
		courses:       courses,
	}
}

// Collect calcule les statistiques courantes
func (s *StatsService) Collect(ctx context.Context) (*models.AdminStatsResponse, error) {
	reg, err := s.registrations.Stats(ctx)
	if err != nil {
		return nil, err
	}

	stats := &models.AdminStatsResponse{
		TotalRegistrations: reg.Total,
		Attended:           reg.Attended,
		ConfirmedPayments:  reg.Confirmed,
		ByTicketType:       reg.ByTicketType,
	}

	if stats.TotalVolunteers, err = s.volunteers.Count(ctx); err != nil {
		return nil, err
	}
	if stats.TotalContacts, err = s.contacts.Count(ctx); err != nil {
		return nil, err
	}
	if stats.PublishedCourses, err = s.courses.CountPublished(ctx); err != nil {
		return nil, err
	}

	return stats, nil
}
