package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContactMessage représente un message reçu via le formulaire de contact
type ContactMessage struct {
	ID        primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Name      string             `json:"name" bson:"name"`
	Email     string             `json:"email" bson:"email"`
	Phone     string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Subject   string             `json:"subject,omitempty" bson:"subject,omitempty"`
	Message   string             `json:"message" bson:"message"`
	Deleted   bool               `json:"-" bson:"deleted"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ContactRequest représente le formulaire de contact
type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject" validate:"max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

// ContactUpdateRequest représente un patch de message
type ContactUpdateRequest struct {
	Name    *string `json:"name"`
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Subject *string `json:"subject" validate:"omitempty,max=200"`
	Message *string `json:"message" validate:"omitempty,max=5000"`
}
