package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Disponibilités d'un bénévole
const (
	AvailabilityFullTime     = "full-time"
	AvailabilityPartTime     = "part-time"
	AvailabilityNotAvailable = "not-available"
)

// VolunteerStatusNew est le statut initial d'une candidature
const VolunteerStatusNew = "new"

// Volunteer représente une candidature de bénévole
type Volunteer struct {
	ID                 primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName           string             `json:"fullName" bson:"fullName"`
	Email              string             `json:"email" bson:"email"`
	Phone              string             `json:"phone" bson:"phone"`
	Gender             string             `json:"gender,omitempty" bson:"gender,omitempty"`
	Age                int                `json:"age,omitempty" bson:"age,omitempty"`
	City               string             `json:"city,omitempty" bson:"city,omitempty"`
	Occupation         string             `json:"occupation,omitempty" bson:"occupation,omitempty"`
	Organization       string             `json:"organization,omitempty" bson:"organization,omitempty"`
	PreferredAreas     []string           `json:"preferredAreas" bson:"preferredAreas"`
	Availability       string             `json:"availability" bson:"availability"`
	AvailabilityTime   string             `json:"availabilityTime,omitempty" bson:"availabilityTime,omitempty"`
	PreviousExperience string             `json:"previousExperience,omitempty" bson:"previousExperience,omitempty"`
	Motivation         string             `json:"motivation,omitempty" bson:"motivation,omitempty"`
	AgreeToTerms       bool               `json:"agreeToTerms" bson:"agreeToTerms"`
	ConsentToContact   bool               `json:"consentToContact" bson:"consentToContact"`
	Status             string             `json:"status" bson:"status"`
	Deleted            bool               `json:"deleted" bson:"deleted"`
	CreatedAt          time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt          time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// VolunteerRequest représente le formulaire de candidature
type VolunteerRequest struct {
	FullName           string   `json:"fullName"`
	Email              string   `json:"email"`
	Phone              string   `json:"phone"`
	Gender             string   `json:"gender"`
	Age                int      `json:"age" validate:"omitempty,min=14,max=100"`
	City               string   `json:"city"`
	Occupation         string   `json:"occupation"`
	Organization       string   `json:"organization"`
	PreferredAreas     []string `json:"preferredAreas"`
	Availability       string   `json:"availability" validate:"required,oneof=full-time part-time not-available"`
	AvailabilityTime   string   `json:"availabilityTime" validate:"required_if=Availability part-time"`
	PreviousExperience string   `json:"previousExperience"`
	Motivation         string   `json:"motivation"`
	AgreeToTerms       bool     `json:"agreeToTerms"`
	ConsentToContact   bool     `json:"consentToContact"`
}

// Normalize nettoie les champs saisis
func (req *VolunteerRequest) Normalize() {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = NormalizeEmail(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Availability = strings.ToLower(strings.TrimSpace(req.Availability))
	req.AvailabilityTime = strings.TrimSpace(req.AvailabilityTime)
	req.PreferredAreas = CleanList(req.PreferredAreas)
}

// VolunteerUpdateRequest représente le corps de PUT /api/volunteers/{id}
type VolunteerUpdateRequest struct {
	Action             string    `json:"action"`
	FullName           *string   `json:"fullName"`
	Email              *string   `json:"email"`
	Phone              *string   `json:"phone"`
	Gender             *string   `json:"gender"`
	Age                *int      `json:"age" validate:"omitempty,min=14,max=100"`
	City               *string   `json:"city"`
	Occupation         *string   `json:"occupation"`
	Organization       *string   `json:"organization"`
	PreferredAreas     *[]string `json:"preferredAreas"`
	Availability       *string   `json:"availability" validate:"omitempty,oneof=full-time part-time not-available"`
	AvailabilityTime   *string   `json:"availabilityTime"`
	PreviousExperience *string   `json:"previousExperience"`
	Motivation         *string   `json:"motivation"`
	ConsentToContact   *bool     `json:"consentToContact"`
	Status             *string   `json:"status"`
}
