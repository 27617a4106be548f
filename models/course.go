package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Statuts d'une formation
const (
	CourseDraft     = "draft"
	CoursePublished = "published"
	CourseArchived  = "archived"
)

// CourseFeature représente un point fort affiché sur la fiche formation
type CourseFeature struct {
	Title       string `json:"title" bson:"title"`
	Description string `json:"description,omitempty" bson:"description,omitempty"`
}

// CourseModule représente un module du programme
type CourseModule struct {
	Title       string   `json:"title" bson:"title"`
	Description string   `json:"description,omitempty" bson:"description,omitempty"`
	Duration    string   `json:"duration,omitempty" bson:"duration,omitempty"`
	Lessons     []string `json:"lessons,omitempty" bson:"lessons,omitempty"`
}

// CourseMentor représente un intervenant
type CourseMentor struct {
	Name        string `json:"name" bson:"name"`
	Designation string `json:"designation,omitempty" bson:"designation,omitempty"`
	Bio         string `json:"bio,omitempty" bson:"bio,omitempty"`
	Image       string `json:"image,omitempty" bson:"image,omitempty"`
}

// Course représente une formation du catalogue
type Course struct {
	ID               primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Slug             string             `json:"slug" bson:"slug"`
	ShortDescription string             `json:"shortDescription,omitempty" bson:"shortDescription,omitempty"`
	Description      string             `json:"description,omitempty" bson:"description,omitempty"`
	Category         string             `json:"category,omitempty" bson:"category,omitempty"`
	Level            string             `json:"level,omitempty" bson:"level,omitempty"`
	Duration         string             `json:"duration,omitempty" bson:"duration,omitempty"`
	Price            float64            `json:"price" bson:"price"`
	Image            string             `json:"image,omitempty" bson:"image,omitempty"`
	Features         []CourseFeature    `json:"features" bson:"features"`
	Modules          []CourseModule     `json:"modules" bson:"modules"`
	Mentors          []CourseMentor     `json:"mentors" bson:"mentors"`
	Status           string             `json:"status" bson:"status"`
	Deleted          bool               `json:"-" bson:"deleted"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// CourseRequest représente la création d'une formation
type CourseRequest struct {
	Title            string          `json:"title" validate:"required"`
	ShortDescription string          `json:"shortDescription"`
	Description      string          `json:"description"`
	Category         string          `json:"category"`
	Level            string          `json:"level"`
	Duration         string          `json:"duration"`
	Price            float64         `json:"price" validate:"gte=0"`
	Image            string          `json:"image" validate:"omitempty,url"`
	Features         []CourseFeature `json:"features" validate:"dive"`
	Modules          []CourseModule  `json:"modules" validate:"dive"`
	Mentors          []CourseMentor  `json:"mentors" validate:"dive"`
	Status           string          `json:"status" validate:"omitempty,oneof=draft published archived"`
}

// CourseUpdateRequest représente un patch de formation
type CourseUpdateRequest struct {
	Title            *string          `json:"title"`
	ShortDescription *string          `json:"shortDescription"`
	Description      *string          `json:"description"`
	Category         *string          `json:"category"`
	Level            *string          `json:"level"`
	Duration         *string          `json:"duration"`
	Price            *float64         `json:"price" validate:"omitempty,gte=0"`
	Image            *string          `json:"image" validate:"omitempty,url"`
	Features         *[]CourseFeature `json:"features"`
	Modules          *[]CourseModule  `json:"modules"`
	Mentors          *[]CourseMentor  `json:"mentors"`
	Status           *string          `json:"status" validate:"omitempty,oneof=draft published archived"`
}
