package dto

import "time"

// CreateAnimalRequest entrada para registrar un animal en una finca.
type CreateAnimalRequest struct {
	TagID   string `json:"tag_id" validate:"required,min=1,max=50"`
	Species string `json:"species" validate:"required,max=50"`
	Breed   string `json:"breed" validate:"max=100"`
	FarmID  string `json:"farm_id" validate:"required"`
}

// AnimalResponse salida de un animal.
type AnimalResponse struct {
	ID        string    `json:"id"`
	TagID     string    `json:"tag_id"`
	Species   string    `json:"species"`
	Breed     string    `json:"breed"`
	FarmID    string    `json:"farm_id"`
	CreatedAt time.Time `json:"created_at"`
}

// AnimalListResponse lista de animales de una finca.
type AnimalListResponse struct {
	Items []AnimalResponse `json:"items"`
}
