package model

import "time"

// Pet 宠物档案
type Pet struct {
	ID                int        `json:"id"`
	OwnerID           int        `json:"owner_id"`
	Name              string     `json:"name"`
	Species           string     `json:"species"`
	Breed             string     `json:"breed"`
	Gender            string     `json:"gender"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	Bio               string     `json:"bio"`
	PhotoURL          string     `json:"photo_url"`
	IsMedicalVerified bool       `json:"is_medical_verified"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}
