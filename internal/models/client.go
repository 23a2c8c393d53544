package models

import "github.com/google/uuid"

// ClientProfile is a business profile seeking funding opportunities.
// It is owned and mutated by the surrounding CRUD layer; the engine only
// reads it.
type ClientProfile struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Sector          string    `json:"sector"`
	SectorInterests []string  `json:"sector_interests"`
	Region          string    `json:"region"`
	Revenue         float64   `json:"revenue"`
	EmployeeCount   int       `json:"employee_count"`
}
