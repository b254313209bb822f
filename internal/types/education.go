package types

import (
	"time"

	"github.com/google/uuid"
)

// Education is one education record of a user.
type Education struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Institution  string     `json:"institution"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"field_of_study"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Present      bool       `json:"present"`
	Description  string     `json:"description,omitempty"`
	GPA          *float64   `json:"gpa,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// EducationRequest creates or updates an education record. On update nil fields are kept.
type EducationRequest struct {
	Institution  *string    `json:"institution,omitempty" validate:"omitempty,min=1,max=200"`
	Degree       *string    `json:"degree,omitempty" validate:"omitempty,min=1,max=200"`
	FieldOfStudy *string    `json:"field_of_study,omitempty" validate:"omitempty,max=200"`
	StartDate    *time.Time `json:"start_date,omitempty"`
	EndDate      *time.Time `json:"end_date,omitempty"`
	Present      *bool      `json:"present,omitempty"`
	Description  *string    `json:"description,omitempty"`
	GPA          *float64   `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=5"`
}

// EducationStats lists the distinct degrees, fields and institutions of a user.
type EducationStats struct {
	TotalRecords int      `json:"total_records"`
	Degrees      []string `json:"degrees"`
	Fields       []string `json:"fields"`
	Institutions []string `json:"institutions"`
}
