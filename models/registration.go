package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Types de billet
const (
	TicketStandard = "standard"
	TicketPremium  = "premium"
	TicketVIP      = "vip"
)

// Statuts de paiement
const (
	PaymentPending   = "pending"
	PaymentConfirmed = "confirmed"
	PaymentCancelled = "cancelled"
)

// Statuts renvoyés par la vérification d'un billet
const (
	TicketStatusPending   = "pending"
	TicketStatusConfirmed = "confirmed"
	TicketStatusAttended  = "attended"
)

// Registration représente l'inscription d'un participant à l'événement
type Registration struct {
	ID            primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	FullName      string             `json:"fullName" bson:"fullName"`
	Email         string             `json:"email" bson:"email"`
	ContactNumber string             `json:"contactNumber" bson:"contactNumber"`
	BusinessName  string             `json:"businessName,omitempty" bson:"businessName,omitempty"`
	Designation   string             `json:"designation,omitempty" bson:"designation,omitempty"`
	Sectors       []string           `json:"sectors" bson:"sectors"`
	Experience    string             `json:"experience,omitempty" bson:"experience,omitempty"`
	Achievements  string             `json:"achievements,omitempty" bson:"achievements,omitempty"`
	FuturePlan    string             `json:"futurePlan,omitempty" bson:"futurePlan,omitempty"`
	TicketType    string             `json:"ticketType" bson:"ticketType"`
	PaymentStatus string             `json:"paymentStatus" bson:"paymentStatus"`
	Attended      bool               `json:"attended" bson:"attended"`
	CheckInTime   *time.Time         `json:"checkInTime" bson:"checkInTime"`
	QRCode        string             `json:"qrCode" bson:"qrCode"`
	Deleted       bool               `json:"deleted" bson:"deleted"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// TicketStatus calcule le statut affiché par la page de vérification du billet
func (r *Registration) TicketStatus() string {
	if r.Attended {
		return TicketStatusAttended
	}
	if r.PaymentStatus == PaymentConfirmed {
		return TicketStatusConfirmed
	}
	return TicketStatusPending
}

// RegistrationSummary est le sous-ensemble renvoyé après une inscription
type RegistrationSummary struct {
	ID            string    `json:"id"`
	FullName      string    `json:"fullName"`
	Email         string    `json:"email"`
	TicketType    string    `json:"ticketType"`
	PaymentStatus string    `json:"paymentStatus"`
	QRCode        string    `json:"qrCode"`
	CreatedAt     time.Time `json:"createdAt"`
}

// Summary construit la réponse publique de création
func (r *Registration) Summary() RegistrationSummary {
	return RegistrationSummary{
		ID:            r.ID.Hex(),
		FullName:      r.FullName,
		Email:         r.Email,
		TicketType:    r.TicketType,
		PaymentStatus: r.PaymentStatus,
		QRCode:        r.QRCode,
		CreatedAt:     r.CreatedAt,
	}
}

// TicketAttendee est la vue publique d'un participant (page e-pass)
type TicketAttendee struct {
	ID            string     `json:"id"`
	FullName      string     `json:"fullName"`
	Email         string     `json:"email"`
	BusinessName  string     `json:"businessName,omitempty"`
	Designation   string     `json:"designation,omitempty"`
	TicketType    string     `json:"ticketType"`
	PaymentStatus string     `json:"paymentStatus"`
	Attended      bool       `json:"attended"`
	CheckInTime   *time.Time `json:"checkInTime"`
	QRCode        string     `json:"qrCode"`
}

// TicketView construit la vue publique du billet
func (r *Registration) TicketView() TicketAttendee {
	return TicketAttendee{
		ID:            r.ID.Hex(),
		FullName:      r.FullName,
		Email:         r.Email,
		BusinessName:  r.BusinessName,
		Designation:   r.Designation,
		TicketType:    r.TicketType,
		PaymentStatus: r.PaymentStatus,
		Attended:      r.Attended,
		CheckInTime:   r.CheckInTime,
		QRCode:        r.QRCode,
	}
}

// TicketResponse est la réponse de GET /api/ticket/{ticketId}
type TicketResponse struct {
	Status   string         `json:"status"`
	Attendee TicketAttendee `json:"attendee"`
}

// RegisterRequest représente le formulaire d'inscription (court ou complet)
type RegisterRequest struct {
	FullName      string   `json:"fullName"`
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	ContactNumber string   `json:"contactNumber"`
	Phone         string   `json:"phone"`
	BusinessName  string   `json:"businessName"`
	Designation   string   `json:"designation"`
	Sectors       []string `json:"sectors"`
	Experience    string   `json:"experience"`
	Achievements  string   `json:"achievements"`
	FuturePlan    string   `json:"futurePlan"`
	TicketType    string   `json:"ticketType" validate:"omitempty,oneof=standard premium vip"`
}

// Normalize fusionne les alias du formulaire court et nettoie les champs
func (req *RegisterRequest) Normalize() {
	if strings.TrimSpace(req.FullName) == "" {
		req.FullName = req.Name
	}
	if strings.TrimSpace(req.ContactNumber) == "" {
		req.ContactNumber = req.Phone
	}
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = NormalizeEmail(req.Email)
	req.ContactNumber = strings.TrimSpace(req.ContactNumber)
	req.TicketType = strings.ToLower(strings.TrimSpace(req.TicketType))
	req.Sectors = CleanList(req.Sectors)
}

// RegistrationUpdateRequest représente le corps de PUT /api/attendees/{id}:
// soit une action, soit un patch de champs autorisés
type RegistrationUpdateRequest struct {
	Action        string    `json:"action"`
	FullName      *string   `json:"fullName"`
	Email         *string   `json:"email"`
	ContactNumber *string   `json:"contactNumber"`
	BusinessName  *string   `json:"businessName"`
	Designation   *string   `json:"designation"`
	Sectors       *[]string `json:"sectors"`
	Experience    *string   `json:"experience"`
	Achievements  *string   `json:"achievements"`
	FuturePlan    *string   `json:"futurePlan"`
	TicketType    *string   `json:"ticketType" validate:"omitempty,oneof=standard premium vip"`
	PaymentStatus *string   `json:"paymentStatus" validate:"omitempty,oneof=pending confirmed cancelled"`
}

// CheckInRequest représente un scan de QR code par le staff
type CheckInRequest struct {
	QRCode   string `json:"qrCode"`
	TicketID string `json:"ticketId"`
}

// Code renvoie l'identifiant scanné, quel que soit le champ utilisé
func (req CheckInRequest) Code() string {
	if code := strings.TrimSpace(req.QRCode); code != "" {
		return code
	}
	return strings.TrimSpace(req.TicketID)
}

// RegistrationFilter regroupe les filtres de la liste admin
type RegistrationFilter struct {
	Attended      *bool
	PaymentStatus string
	TicketType    string
	Search        string
	From          *time.Time
	To            *time.Time
}

// NormalizeEmail met un email en minuscules sans espaces
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CleanList retire les entrées vides d'une liste saisie dans un formulaire
func CleanList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
