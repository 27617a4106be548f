package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Types d'erreur acceptés pour une alerte critique
const (
	AlertServerError     = "SERVER_ERROR"
	AlertNetworkError    = "NETWORK_ERROR"
	AlertConnectionError = "CONNECTION_ERROR"
)

// AlertMessageMaxLength tronque les messages trop longs
const AlertMessageMaxLength = 500

// CriticalAlert représente une alerte critique envoyée par le frontend
type CriticalAlert struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ErrorType        string             `json:"errorType" bson:"errorType"`
	ErrorMessage     string             `json:"errorMessage" bson:"errorMessage"`
	EndpointFailed   string             `json:"endpointFailed" bson:"endpointFailed"`
	Page             string             `json:"page,omitempty" bson:"page,omitempty"`
	ClientIP         string             `json:"clientIp" bson:"clientIp"`
	UserAgent        string             `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
	NotificationSent bool               `json:"notificationSent" bson:"notificationSent"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

// CriticalAlertRequest représente la requête d'alerte critique
type CriticalAlertRequest struct {
	ErrorType      string `json:"errorType" validate:"required,oneof=SERVER_ERROR NETWORK_ERROR CONNECTION_ERROR"`
	ErrorMessage   string `json:"errorMessage" validate:"required"`
	EndpointFailed string `json:"endpointFailed" validate:"required"`
	Page           string `json:"page"`
}
