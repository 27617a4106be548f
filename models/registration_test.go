package models

import (
	"testing"
	"time"
)

func TestRegistrationTicketStatus(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		reg  Registration
		want string
	}{
		{"en attente", Registration{PaymentStatus: PaymentPending}, TicketStatusPending},
		{"annulé reste en attente", Registration{PaymentStatus: PaymentCancelled}, TicketStatusPending},
		{"paiement confirmé", Registration{PaymentStatus: PaymentConfirmed}, TicketStatusConfirmed},
		{"présent", Registration{PaymentStatus: PaymentPending, Attended: true, CheckInTime: &now}, TicketStatusAttended},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.reg.TicketStatus(); got != tt.want {
				t.Errorf("TicketStatus() = %v, attendu %v", got, tt.want)
			}
		})
	}
}

func TestRegisterRequestNormalize(t *testing.T) {
	req := RegisterRequest{
		Name:       "  Asha Rao ",
		Email:      " Asha@Example.COM ",
		Phone:      " 98765 43210 ",
		TicketType: " VIP ",
		Sectors:    []string{"Retail", " ", "", " Tech "},
	}
	req.Normalize()

	if req.FullName != "Asha Rao" {
		t.Errorf("FullName = %q", req.FullName)
	}
	if req.Email != "asha@example.com" {
		t.Errorf("Email = %q", req.Email)
	}
	if req.ContactNumber != "98765 43210" {
		t.Errorf("ContactNumber = %q", req.ContactNumber)
	}
	if req.TicketType != TicketVIP {
		t.Errorf("TicketType = %q", req.TicketType)
	}
	if len(req.Sectors) != 2 || req.Sectors[1] != "Tech" {
		t.Errorf("Sectors = %v", req.Sectors)
	}
}

func TestRegisterRequestNormalize_fullNamePrioritaire(t *testing.T) {
	req := RegisterRequest{FullName: "Full", Name: "Short", ContactNumber: "1", Phone: "2"}
	req.Normalize()
	if req.FullName != "Full" || req.ContactNumber != "1" {
		t.Errorf("les champs complets doivent primer sur les alias: %+v", req)
	}
}

func TestCheckInRequestCode(t *testing.T) {
	if got := (CheckInRequest{QRCode: " INFLUENCIA2025-AB "}).Code(); got != "INFLUENCIA2025-AB" {
		t.Errorf("Code() = %q", got)
	}
	if got := (CheckInRequest{TicketID: "abc"}).Code(); got != "abc" {
		t.Errorf("Code() = %q", got)
	}
	if got := (CheckInRequest{}).Code(); got != "" {
		t.Errorf("Code() = %q, attendu vide", got)
	}
}
